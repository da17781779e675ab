// internal/app/services/statistics/client.go

// Package statistics is the HTTP client for the crop-statistics
// service, which serves historical production series per crop and
// state.
package statistics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/domain/models"
)

// Gateway is the statistics-service surface the portal depends on.
type Gateway interface {
	Trend(ctx context.Context, q TrendQuery) ([]models.TrendPoint, error)
}

// TrendQuery selects one series. Year is the upper bound of the
// window; zero means the service default.
type TrendQuery struct {
	Crop  string `json:"crop"`
	State string `json:"state"`
	Year  int    `json:"year,omitempty"`
}

type trendResponse struct {
	Data []models.TrendPoint `json:"data"`
}

type client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// New builds a Gateway against the statistics service's base URL.
func New(baseURL string, logger *zap.Logger) Gateway {
	return &client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: logger,
	}
}

func (c *client) Trend(ctx context.Context, q TrendQuery) ([]models.TrendPoint, error) {
	jsonBody, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/data", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("statistics request failed",
			zap.String("crop", q.Crop),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read statistics response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error("statistics service returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes))
		return nil, fmt.Errorf("statistics service error: status %d", resp.StatusCode)
	}

	var tr trendResponse
	if err := json.Unmarshal(bodyBytes, &tr); err != nil {
		// Some deployments return the bare array.
		var points []models.TrendPoint
		if err2 := json.Unmarshal(bodyBytes, &points); err2 != nil {
			return nil, fmt.Errorf("decode statistics response: %w", err)
		}
		return points, nil
	}
	return tr.Data, nil
}

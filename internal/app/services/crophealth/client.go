// internal/app/services/crophealth/client.go

// Package crophealth is the HTTP client for the crop-health inference
// service. Predictions go up as multipart uploads (leaf image plus
// context fields); the service also exposes model status/performance
// endpoints and a feedback endpoint it learns from.
package crophealth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Gateway is the inference-service surface the portal depends on.
type Gateway interface {
	Predict(ctx context.Context, image io.Reader, filename string, fields map[string]string) (*Prediction, error)
	Status(ctx context.Context) (*Status, error)
	Performance(ctx context.Context) (*Performance, error)
	Learn(ctx context.Context, fb Feedback) error
}

// Prediction is the inference result for one uploaded image.
type Prediction struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Severity   string  `json:"severity,omitempty"`
	Advice     string  `json:"advice,omitempty"`
}

// Status reports whether the model is loaded and serving.
type Status struct {
	Ready   bool   `json:"ready"`
	Model   string `json:"model"`
	Version string `json:"version,omitempty"`
}

// Performance is the service's self-reported accuracy summary.
type Performance struct {
	Accuracy    float64 `json:"accuracy"`
	SampleCount int     `json:"sampleCount"`
}

// Feedback tells the service whether a prediction matched reality.
type Feedback struct {
	PredictionID string `json:"predictionId,omitempty"`
	Disease      string `json:"disease"`
	Correct      bool   `json:"correct"`
	ActualLabel  string `json:"actualLabel,omitempty"`
}

type client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// New builds a Gateway against the inference service's base URL. The
// upload timeout is generous because the service runs a model per call.
func New(baseURL string, logger *zap.Logger) Gateway {
	return &client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: logger,
	}
}

func (c *client) Predict(ctx context.Context, image io.Reader, filename string, fields map[string]string) (*Prediction, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("copy image: %w", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/agentic_predict", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("prediction request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read prediction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error("inference service returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes))
		return nil, fmt.Errorf("inference service error: status %d", resp.StatusCode)
	}

	var pred Prediction
	if err := json.Unmarshal(bodyBytes, &pred); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}

	c.log.Info("prediction received",
		zap.String("disease", pred.Disease),
		zap.Float64("confidence", pred.Confidence))

	return &pred, nil
}

func (c *client) Status(ctx context.Context) (*Status, error) {
	var s Status
	if err := c.getJSON(ctx, "/agentic_status", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *client) Performance(ctx context.Context) (*Performance, error) {
	var p Performance
	if err := c.getJSON(ctx, "/agentic_performance", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *client) Learn(ctx context.Context, fb Feedback) error {
	jsonBody, err := json.Marshal(fb)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/agentic_learn", bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("feedback request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("inference service error: status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func (c *client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("inference service request failed",
			zap.String("path", path),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("decode inference response: %w", err)
	}
	return nil
}

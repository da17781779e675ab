// internal/app/services/inventory/client.go

// Package inventory is the HTTP client for the external inventory and
// transactions service: dealer/wholesaler/retailer stock, request
// records, and their status/payment transitions. All reads are keyed by
// the caller's roleId.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/agrimitra/agrimitra/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway is the inventory-service surface the portal depends on.
type Gateway interface {
	ListStock(ctx context.Context, roleID string) ([]models.StockItem, error)
	ListRequests(ctx context.Context, roleID string) ([]models.Request, error)
	ListTransactions(ctx context.Context, roleID string) ([]models.Request, error)
	CreateRequest(ctx context.Context, req models.Request) (*models.Request, error)
	UpdateStatus(ctx context.Context, requestID string, status models.RequestStatus) error
	UpdatePayment(ctx context.Context, requestID string, payment models.PaymentStatus) error
}

type client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// New builds a Gateway against the inventory service's base URL.
func New(baseURL string, logger *zap.Logger) Gateway {
	return &client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: logger,
	}
}

func (c *client) ListStock(ctx context.Context, roleID string) ([]models.StockItem, error) {
	var items []models.StockItem
	err := c.getJSON(ctx, "/api/inventory/stock?ownerId="+url.QueryEscape(roleID), &items)
	return items, err
}

func (c *client) ListRequests(ctx context.Context, roleID string) ([]models.Request, error) {
	var reqs []models.Request
	err := c.getJSON(ctx, "/api/inventory/requests?partyId="+url.QueryEscape(roleID), &reqs)
	return reqs, err
}

func (c *client) ListTransactions(ctx context.Context, roleID string) ([]models.Request, error) {
	var reqs []models.Request
	err := c.getJSON(ctx, "/api/inventory/transactions?partyId="+url.QueryEscape(roleID), &reqs)
	return reqs, err
}

func (c *client) CreateRequest(ctx context.Context, req models.Request) (*models.Request, error) {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/api/inventory/requests", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("inventory create request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read inventory response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Error("inventory service returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes))
		return nil, fmt.Errorf("inventory service error: status %d", resp.StatusCode)
	}

	var created models.Request
	if err := json.Unmarshal(bodyBytes, &created); err != nil {
		return nil, fmt.Errorf("decode created request: %w", err)
	}
	return &created, nil
}

// UpdateStatus PATCHes a request's status. Transition legality is the
// caller's job (models.Transition); this method only moves bytes.
func (c *client) UpdateStatus(ctx context.Context, requestID string, status models.RequestStatus) error {
	return c.patch(ctx, requestID, map[string]string{"status": string(status)})
}

func (c *client) UpdatePayment(ctx context.Context, requestID string, payment models.PaymentStatus) error {
	return c.patch(ctx, requestID, map[string]string{"paymentStatus": string(payment)})
}

func (c *client) patch(ctx context.Context, requestID string, fields map[string]string) error {
	jsonBody, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "PATCH",
		c.baseURL+"/api/inventory/requests/"+url.PathEscape(requestID), bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("inventory patch failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.log.Error("inventory patch returned non-success status",
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes))
		return fmt.Errorf("inventory service error: status %d", resp.StatusCode)
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
		c.log.Error("inventory request failed",
			zap.String("path", path),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read inventory response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error("inventory service returned non-success status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes))
		return fmt.Errorf("inventory service error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("decode inventory response: %w", err)
	}
	return nil
}

// internal/app/services/adminapi/client.go

// Package adminapi is the HTTP client for the external admin service:
// platform user listings and stats, activity logs, settings, and the
// messaging endpoints. The admin service authenticates callers with
// OAuth2 client credentials, so the client is built over an oauth2
// token-source HTTP client that refreshes tokens transparently.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/agrimitra/agrimitra/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

// Gateway is the admin-service surface the portal depends on.
type Gateway interface {
	ListUsers(ctx context.Context, role string) ([]models.User, error)
	UserStats(ctx context.Context) (*UserStats, error)
	QueryLogs(ctx context.Context, q LogQuery) ([]LogEntry, error)
	ExportLogs(ctx context.Context, q LogQuery) ([]byte, error)
	GetSettings(ctx context.Context) (*Settings, error)
	PutSettings(ctx context.Context, s Settings) error
	SendMessage(ctx context.Context, role, subject, content string) error
	ListMessages(ctx context.Context, role, userID string) ([]models.Message, error)
}

// UserStats is the admin dashboard's per-role headcount summary.
type UserStats struct {
	Total  int            `json:"total"`
	ByRole map[string]int `json:"byRole"`
}

// LogQuery filters the admin activity log.
type LogQuery struct {
	Level string
	Since time.Time
	Limit int
}

// LogEntry is one admin-service activity log line.
type LogEntry struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Settings is the platform-wide settings document.
type Settings struct {
	SiteName         string `json:"siteName"`
	SupportEmail     string `json:"supportEmail"`
	MaintenanceMode  bool   `json:"maintenanceMode"`
	BroadcastEnabled bool   `json:"broadcastEnabled"`
}

type client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// New builds a Gateway against the admin service. When clientID is empty
// the plain HTTP client is used (local dev against an unauthenticated
// service).
func New(baseURL, clientID, clientSecret, tokenURL string, logger *zap.Logger) Gateway {
	httpClient := &http.Client{Timeout: 15 * time.Second}

	if clientID != "" {
		cc := clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		}
		httpClient = cc.Client(context.Background())
		httpClient.Timeout = 15 * time.Second
	}

	return &client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        logger,
	}
}

func (c *client) ListUsers(ctx context.Context, role string) ([]models.User, error) {
	path := "/api/admin/users"
	if role != "" {
		path += "?role=" + url.QueryEscape(role)
	}
	var users []models.User
	err := c.getJSON(ctx, path, &users)
	return users, err
}

func (c *client) UserStats(ctx context.Context) (*UserStats, error) {
	var stats UserStats
	if err := c.getJSON(ctx, "/api/admin/users/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *client) QueryLogs(ctx context.Context, q LogQuery) ([]LogEntry, error) {
	var entries []LogEntry
	err := c.getJSON(ctx, "/api/admin/logs?"+q.values().Encode(), &entries)
	return entries, err
}

// ExportLogs returns the raw CSV export the admin service produces.
func (c *client) ExportLogs(ctx context.Context, q LogQuery) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		c.baseURL+"/api/admin/logs/export?"+q.values().Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("admin log export failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read log export: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("admin service error: status %d", resp.StatusCode)
	}
	return body, nil
}

func (c *client) GetSettings(ctx context.Context) (*Settings, error) {
	var s Settings
	if err := c.getJSON(ctx, "/api/admin/settings", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *client) PutSettings(ctx context.Context, s Settings) error {
	return c.send(ctx, "PUT", "/api/admin/settings", s)
}

func (c *client) SendMessage(ctx context.Context, role, subject, content string) error {
	return c.send(ctx, "POST", "/api/admin/messages", map[string]string{
		"role":    role,
		"subject": subject,
		"content": content,
	})
}

func (c *client) ListMessages(ctx context.Context, role, userID string) ([]models.Message, error) {
	vals := url.Values{}
	if role != "" {
		vals.Set("role", role)
	}
	if userID != "" {
		vals.Set("userId", userID)
	}
	var msgs []models.Message
	err := c.getJSON(ctx, "/api/admin/messages?"+vals.Encode(), &msgs)
	return msgs, err
}

func (q LogQuery) values() url.Values {
	vals := url.Values{}
	if q.Level != "" {
		vals.Set("level", q.Level)
	}
	if !q.Since.IsZero() {
		vals.Set("since", q.Since.Format(time.RFC3339))
	}
	if q.Limit > 0 {
		vals.Set("limit", strconv.Itoa(q.Limit))
	}
	return vals
}

func (c *client) send(ctx context.Context, method, path string, payload any) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("admin service request failed",
			zap.String("path", path),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.log.Error("admin service returned non-success status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes))
		return fmt.Errorf("admin service error: status %d", resp.StatusCode)
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
		c.log.Error("admin service request failed",
			zap.String("path", path),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read admin response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error("admin service returned non-success status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes))
		return fmt.Errorf("admin service error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("decode admin response: %w", err)
	}
	return nil
}

// internal/app/services/authapi/client.go

// Package authapi is the HTTP client for the external authentication
// service. That service owns user records and credentials; the portal
// only exchanges login/signup calls for an identity and a bearer token.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agrimitra/agrimitra/internal/domain/models"
	"go.uber.org/zap"
)

// Gateway is the auth-service surface the portal depends on. Handlers
// take this interface so tests can substitute a fake.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Signup(ctx context.Context, req SignupRequest) (*Session, error)
}

// Session is a successful auth exchange: the identity plus the bearer
// token the other services accept.
type Session struct {
	User      models.User
	Token     string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// SignupRequest mirrors the auth service's signup payload.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ErrInvalidCredentials is returned for a 401 from the auth service.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials")

type client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// New builds a Gateway against the auth service's base URL.
func New(baseURL string, logger *zap.Logger) Gateway {
	return &client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: logger,
	}
}

// authResponse is the wire shape of both login and signup responses.
type authResponse struct {
	User struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Role   string `json:"role"`
		Email  string `json:"email"`
		RoleID string `json:"roleId"`
	} `json:"user"`
	Token string `json:"token"`
}

func (c *client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	return c.exchange(ctx, "/api/auth/login", body)
}

func (c *client) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	return c.exchange(ctx, "/api/auth/signup", req)
}

func (c *client) exchange(ctx context.Context, path string, payload any) (*Session, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("auth service request failed",
			zap.String("path", path),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read auth response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// continue
	case http.StatusUnauthorized:
		return nil, ErrInvalidCredentials
	default:
		c.log.Error("auth service returned non-success status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes))
		return nil, fmt.Errorf("auth service error: status %d", resp.StatusCode)
	}

	var res authResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}

	sess := &Session{
		User: models.User{
			ID:       res.User.ID,
			FullName: res.User.Name,
			Email:    res.User.Email,
			Role:     res.User.Role,
			RoleID:   res.User.RoleID,
		},
		Token: res.Token,
	}
	if exp, ok := tokenExpiry(res.Token); ok {
		sess.ExpiresAt = exp
	}

	c.log.Info("auth exchange succeeded",
		zap.String("path", path),
		zap.String("role", res.User.Role))

	return sess, nil
}

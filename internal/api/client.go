// Package api is the typed HTTP client for the /v1 backend. Responses
// arrive in a demo envelope; the client unwraps it and surfaces failures as
// errors carrying the server's message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lanfinitas-studio/internal/apitypes"
)

const defaultTimeout = 15 * time.Second

// APIError is a failed call: HTTP status plus the envelope's message.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s (%s, HTTP %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("api: %s (HTTP %d)", e.Message, e.Status)
}

// Client talks to one backend instance. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu       sync.RWMutex
	token    string
	expires  time.Time
	identity apitypes.Identity
}

// NewClient creates a client for the backend at baseURL (no trailing slash).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Login authenticates and stores the bearer token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (apitypes.Identity, error) {
	var lr apitypes.LoginResponse
	err := c.call(ctx, http.MethodPost, "/v1/identities/login",
		apitypes.LoginRequest{Email: email, Password: password}, &lr)
	if err != nil {
		return apitypes.Identity{}, err
	}

	c.mu.Lock()
	c.token = lr.Token
	c.expires = lr.ExpiresAt
	c.identity = lr.Identity
	c.mu.Unlock()
	return lr.Identity, nil
}

// Logout drops the stored token.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.expires = time.Time{}
	c.identity = apitypes.Identity{}
	c.mu.Unlock()
}

// Identity returns the identity from the last successful login.
func (c *Client) Identity() apitypes.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// TokenValid reports whether a token is held and not yet expired. The expiry
// is read from the token's own claims so clock-skewed server metadata cannot
// keep a dead token alive.
func (c *Client) TokenValid() bool {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().Before(exp.Time)
}

// Me fetches the authenticated identity.
func (c *Client) Me(ctx context.Context) (apitypes.Identity, error) {
	var id apitypes.Identity
	err := c.call(ctx, http.MethodGet, "/v1/identities/me", nil, &id)
	return id, err
}

// Delegations lists the caller's delegations.
func (c *Client) Delegations(ctx context.Context) ([]apitypes.Delegation, error) {
	var list []apitypes.Delegation
	err := c.call(ctx, http.MethodGet, "/v1/delegations", nil, &list)
	return list, err
}

// CreateDelegation creates a pending delegation assigned to the caller.
func (c *Client) CreateDelegation(ctx context.Context, title, description string, reward float64) (apitypes.Delegation, error) {
	var d apitypes.Delegation
	err := c.call(ctx, http.MethodPost, "/v1/delegations", map[string]interface{}{
		"title":       title,
		"description": description,
		"reward":      reward,
	}, &d)
	return d, err
}

// UpdateDelegationStatus moves a delegation to a new status.
func (c *Client) UpdateDelegationStatus(ctx context.Context, id, status string) (apitypes.Delegation, error) {
	var d apitypes.Delegation
	err := c.call(ctx, http.MethodPost, "/v1/delegations/"+id+"/status",
		map[string]string{"status": status}, &d)
	return d, err
}

// Balance fetches the caller's wallet balance.
func (c *Client) Balance(ctx context.Context) (apitypes.WalletBalance, error) {
	var b apitypes.WalletBalance
	err := c.call(ctx, http.MethodGet, "/v1/wallet", nil, &b)
	return b, err
}

// Transactions lists the caller's wallet ledger.
func (c *Client) Transactions(ctx context.Context) ([]apitypes.Transaction, error) {
	var list []apitypes.Transaction
	err := c.call(ctx, http.MethodGet, "/v1/wallet/transactions", nil, &list)
	return list, err
}

// AddTransaction appends a wallet ledger entry.
func (c *Client) AddTransaction(ctx context.Context, kind string, amount float64, memo string) (apitypes.Transaction, error) {
	var tx apitypes.Transaction
	err := c.call(ctx, http.MethodPost, "/v1/wallet/transactions", map[string]interface{}{
		"kind":   kind,
		"amount": amount,
		"memo":   memo,
	}, &tx)
	return tx, err
}

// Templates lists the template library.
func (c *Client) Templates(ctx context.Context) ([]apitypes.Template, error) {
	var list []apitypes.Template
	err := c.call(ctx, http.MethodGet, "/v1/templates", nil, &list)
	return list, err
}

// Template fetches one template by ID.
func (c *Client) Template(ctx context.Context, id string) (apitypes.Template, error) {
	var t apitypes.Template
	err := c.call(ctx, http.MethodGet, "/v1/templates/"+id, nil, &t)
	return t, err
}

// GeneratePattern asks the backend to flatten a design into pattern pieces.
func (c *Client) GeneratePattern(ctx context.Context, design apitypes.Design) (apitypes.GenerateResult, error) {
	var result apitypes.GenerateResult
	err := c.call(ctx, http.MethodPost, "/v1/inference/patterns/generate",
		apitypes.GenerateRequest{Design: design}, &result)
	return result, err
}

// SimulateFabric asks the backend to drape a pattern in a fabric.
func (c *Client) SimulateFabric(ctx context.Context, pat apitypes.Pattern, fab apitypes.Fabric) (apitypes.SimulateResult, error) {
	var result apitypes.SimulateResult
	err := c.call(ctx, http.MethodPost, "/v1/inference/fabric/simulate",
		apitypes.SimulateRequest{Pattern: pat, Fabric: fab}, &result)
	return result, err
}

// OptimizeLayout asks the backend for a marker layout.
func (c *Client) OptimizeLayout(ctx context.Context, pat apitypes.Pattern, fab apitypes.Fabric) (apitypes.LayoutResult, error) {
	var result apitypes.LayoutResult
	err := c.call(ctx, http.MethodPost, "/v1/inference/layout/optimize",
		apitypes.LayoutRequest{Pattern: pat, Fabric: fab}, &result)
	return result, err
}

func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var envelope apitypes.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("api: decode envelope: %w", err)
	}

	if !envelope.Success {
		apiErr := &APIError{Status: resp.StatusCode, Message: envelope.Message}
		var e apitypes.Error
		if json.Unmarshal(envelope.Data, &e) == nil {
			apiErr.Code = e.Code
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("api: decode payload: %w", err)
		}
	}
	return nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrUnauthorized is returned when a request fails with 401 even after a
// token refresh.
var ErrUnauthorized = errors.New("unauthorized")

// TokenStore holds the token pair a Client uses. Implementations must be
// safe for concurrent use.
type TokenStore interface {
	Tokens() (access, refresh string)
	SetTokens(access, refresh string)
	Clear()
}

// MemoryTokenStore is the default in-process store.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func (s *MemoryTokenStore) Tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.refresh
}

func (s *MemoryTokenStore) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
}

func (s *MemoryTokenStore) Clear() {
	s.SetTokens("", "")
}

// Client wraps the community API. Every request carries the stored access
// token; a 401 triggers exactly one refresh followed by one retry, so an
// expired access token is transparent to callers but a dead session fails
// fast.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Store   TokenStore

	refreshMu sync.Mutex
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Store:   &MemoryTokenStore{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTP = h }
}

func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.Store = s }
}

// APIError carries the server's error body for non-2xx replies.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Do performs one authenticated request. body is JSON-encoded when non-nil;
// out is JSON-decoded from a 2xx reply when non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		if rErr := c.refresh(ctx); rErr != nil {
			c.Store.Clear()
			return ErrUnauthorized
		}
		resp, err = c.send(ctx, method, path, payload)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			_ = resp.Body.Close()
			c.Store.Clear()
			return ErrUnauthorized
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access, _ := c.Store.Tokens(); access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	return c.HTTP.Do(req)
}

// refresh exchanges the stored refresh token for a new pair. Serialized so
// concurrent 401s trigger one upstream call.
func (c *Client) refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	_, refreshToken := c.Store.Tokens()
	if refreshToken == "" {
		return ErrUnauthorized
	}
	b, _ := json.Marshal(map[string]string{"refresh": refreshToken})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/auth/refresh", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return ErrUnauthorized
	}
	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return err
	}
	if pair.Access == "" {
		return ErrUnauthorized
	}
	c.Store.SetTokens(pair.Access, pair.Refresh)
	return nil
}

func errorMessage(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return "request failed"
}

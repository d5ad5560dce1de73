package upstream

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client forwards requests to the upstream platform API verbatim. The proxy
// never interprets payloads; the caller's Authorization header and body bytes
// pass through untouched in both directions.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *logrus.Logger
}

func New(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

// Result is the upstream's reply, body already drained.
type Result struct {
	Status      int
	ContentType string
	Body        []byte
}

// Forward relays one request. path must start with "/"; query is appended
// as-is when non-empty. A nil error with any status is a successful relay;
// errors mean the upstream was unreachable and map to 502 at the handler.
func (c *Client) Forward(ctx context.Context, method, path, query, authorization, contentType string, body io.Reader) (*Result, error) {
	target := c.BaseURL + path
	if query != "" {
		target += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if c.Logger != nil {
			c.Logger.WithError(err).WithFields(logrus.Fields{
				"method": method,
				"path":   path,
			}).Warn("upstream request failed")
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/json"
	}
	return &Result{Status: resp.StatusCode, ContentType: ct, Body: b}, nil
}

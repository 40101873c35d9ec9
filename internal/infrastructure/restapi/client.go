package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const maxResponseBody = 10 << 20

// ErrUnexpectedStatus is the cause of a RemoteError for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected status")

// RemoteError describes a failed call to a collaborator service.
// StatusCode is zero when no response was received.
type RemoteError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Client performs JSON requests against collaborator services.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
	username   string
	password   string
}

type Option func(*Client)

// WithBasicAuth adds HTTP basic credentials to every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON issues a GET with params and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, rawURL, params, nil, out)
}

// PostJSON posts payload as JSON and decodes the response into out when out is non-nil.
func (c *Client) PostJSON(ctx context.Context, rawURL string, params url.Values, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, rawURL, params, body, out)
}

func (c *Client) do(ctx context.Context, method, rawURL string, params url.Values, body []byte, out any) error {
	target, err := url.Parse(rawURL)
	if err != nil {
		return &RemoteError{Method: method, URL: rawURL, Err: err}
	}
	if len(params) > 0 {
		query := target.Query()
		for key, values := range params {
			for _, v := range values {
				query.Add(key, v)
			}
		}
		target.RawQuery = query.Encode()
	}
	endpoint := target.String()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &RemoteError{Method: method, URL: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Remote call failed", zap.String("method", method), zap.String("url", endpoint), zap.Error(err))
		return &RemoteError{Method: method, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("Remote call completed",
		zap.String("method", method),
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &RemoteError{Method: method, URL: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Remote service returned unexpected status",
			zap.String("url", endpoint), zap.Int("status", resp.StatusCode))
		return &RemoteError{Method: method, URL: endpoint, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RemoteError{Method: method, URL: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

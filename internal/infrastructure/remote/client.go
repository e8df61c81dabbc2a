// internal/infrastructure/remote/client.go
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/config"
)

// WholesalePinHeader unlocks wholesale pricing on the storefront API
const WholesalePinHeader = "x-wholesale-pin"

// Credentials are attached to a request when present
type Credentials struct {
	Cookie       string // upstream admin session cookie header
	WholesalePin string
}

// Client talks to the remote storefront API
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

// NewClient creates a client for cfg.Upstream
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return NewClientWithHTTP(cfg.Upstream.BaseURL, &http.Client{Timeout: cfg.Upstream.Timeout}, log)
}

// NewClientWithHTTP creates a client using the given http.Client
func NewClientWithHTTP(baseURL string, httpClient *http.Client, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

// Error is a non-2xx response from the storefront API
type Error struct {
	Status  int
	Message string
	Body    []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("storefront api: %d %s", e.Status, e.Message)
}

// ErrUnauthorized matches any 401 response via errors.Is
var ErrUnauthorized = errors.New("storefront api: unauthorized")

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// IsUnauthorized reports whether err is a 401 from the API
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type response struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

func (c *Client) do(ctx context.Context, method, path string, creds Credentials, in interface{}) (*response, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds.Cookie != "" {
		req.Header.Set("Cookie", creds.Cookie)
	}
	if creds.WholesalePin != "" {
		req.Header.Set(WholesalePinHeader, creds.WholesalePin)
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).WithError(err).Warn("storefront api request failed")
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start),
	}).Debug("storefront api request")

	return &response{status: resp.StatusCode, body: data, cookies: resp.Cookies()}, nil
}

// call performs a request and decodes a 2xx body into out
func (c *Client) call(ctx context.Context, method, path string, creds Credentials, in, out interface{}) error {
	resp, err := c.do(ctx, method, path, creds, in)
	if err != nil {
		return err
	}
	if resp.status < 200 || resp.status >= 300 {
		return newError(resp)
	}
	return decode(resp.body, out)
}

func newError(resp *response) *Error {
	return &Error{
		Status:  resp.status,
		Message: extractMessage(resp.status, resp.body),
		Body:    resp.body,
	}
}

// extractMessage pulls a human message out of an error body, best effort
func extractMessage(status int, body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "message"} {
			if msg, ok := payload[key].(string); ok && msg != "" {
				return msg
			}
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(status)
}

// decode accepts either a bare JSON value or one wrapped in {"data": ...}
func decode(body []byte, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && !bytes.Equal(envelope.Data, []byte("null")) {
		body = envelope.Data
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type requestIDKey struct{}

// WithRequestID propagates the inbound request id to upstream calls
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

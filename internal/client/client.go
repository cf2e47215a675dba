// Package client is the Go client for the Billino REST API: paginated
// table reads driven by a tablequery.TableState, and PDF retrieval
// that transparently generates missing documents.
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
	"time"

	"billino/internal/domain"
	"billino/internal/logging"
)

// APIError is a non-2xx response with its parsed detail. Detail is a
// string for plain errors or a []domain.FieldError for validation
// failures; transport errors never become APIErrors.
type APIError struct {
	Status     int
	StatusText string
	Detail     any
}

func (e *APIError) Error() string {
	if s, ok := e.Detail.(string); ok && s != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, s)
	}
	return fmt.Sprintf("api error %d %s", e.Status, e.StatusText)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Log     logging.Logger

	// sleep overrides backoff waits in tests. nil means real sleeps.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) log() logging.Logger {
	if c.Log != nil {
		return c.Log
	}
	return logging.Nop()
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// do runs one request. Transport failures propagate unchanged; non-2xx
// responses become *APIError with the body's detail parsed.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Detail:     parseDetail(raw),
		}
		c.log().Debug("request failed", "method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseDetail(raw []byte) any {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(raw))
	}
	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}
	var fields []domain.FieldError
	if err := json.Unmarshal(envelope.Detail, &fields); err == nil {
		return fields
	}
	return strings.TrimSpace(string(envelope.Detail))
}

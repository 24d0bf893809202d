package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dwellingly/dwellingly-cli/internal/session"
)

// Client wraps HTTP calls to the dwellingly REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string, timeout ...time.Duration) *Client {
	httpTimeout := 30 * time.Second
	if len(timeout) > 0 && timeout[0] > 0 {
		httpTimeout = timeout[0]
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithTimeout clones the client with a different HTTP timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	return NewClient(c.baseURL, timeout)
}

// do executes an HTTP request and returns the raw response body.
func (c *Client) do(ctx context.Context, sess session.Session, method, path string, body any) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	if auth := sess.Authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("api: %s %s request_id=%s transport error: %v", method, path, requestID, err)
		return nil, 0, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Op: "read response", Err: err}
	}
	log.Printf("api: %s %s request_id=%s status=%d", method, path, requestID, resp.StatusCode)

	if resp.StatusCode >= 400 {
		msg, _ := extractAPIErrorBody(respBody)
		return nil, resp.StatusCode, &Error{Status: resp.StatusCode, Message: msg}
	}

	return respBody, resp.StatusCode, nil
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, sess session.Session, path string) ([]byte, error) {
	body, _, err := c.do(ctx, sess, http.MethodGet, path, nil)
	return body, err
}

// patch performs a PATCH request.
func (c *Client) patch(ctx context.Context, sess session.Session, path string, body any) ([]byte, error) {
	b, _, err := c.do(ctx, sess, http.MethodPatch, path, body)
	return b, err
}

// SPDX-License-Identifier: AGPL-3.0-only
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the CSSocial REST API. It is the only component that
// issues network calls for server-owned entities; everything above it
// predicts state and reconciles against what comes back here.
type Client struct {
	httpClient http.Client
	baseURL    string
	token      func() string
}

// NewClient builds a client for the API at baseURL. token supplies the
// current bearer token and may return "" before login.
func NewClient(baseURL string, timeout time.Duration, token func() string) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		httpClient: http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// APIError is an HTTP-level failure with the server's human-readable
// detail message when one was provided.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Detail extracts the server-provided message from err, falling back to
// the given default for transport errors and blank responses.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError reads a non-2xx body, which the API shapes as
// {"detail": "..."} on every error path.
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != "" {
		return &APIError{StatusCode: resp.StatusCode, Detail: payload.Detail}
	}

	return &APIError{StatusCode: resp.StatusCode}
}

// Package api provides the client for the streaming service REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TokenProvider supplies the bearer credential attached to outgoing requests.
// Returning an empty token or an error means the request proceeds
// unauthenticated; the provider being slow or broken must never fail a call.
type TokenProvider func(ctx context.Context) (string, error)

// Client provides access to the streaming service API.
type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
}

// NewClient creates a new API client for the given base URL
// (e.g. "https://music.example.com/api"). tokens may be nil for an
// anonymous client.
func NewClient(baseURL string, tokens TokenProvider) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// get issues a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// post issues a POST with an optional JSON body, decoding into out if non-nil.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// put issues a PUT with a JSON body, decoding into out if non-nil.
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// delete issues a DELETE, decoding into out if non-nil.
func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(ctx, req, body != nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// setHeaders sets common headers and attaches the bearer token when the
// provider yields one. A missing or failing provider downgrades the request
// to unauthenticated instead of failing it.
func (c *Client) setHeaders(ctx context.Context, req *http.Request, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	if c.tokens == nil {
		return
	}
	token, err := c.tokens(ctx)
	if err != nil {
		log.Debug().Err(err).Str("url", req.URL.Path).Msg("credential provider failed, sending unauthenticated")
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

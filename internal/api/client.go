// Package api is the HTTP client for the plant-scheduler backend. It
// decodes the backend's {success, data, error} envelope, normalizes ids
// to opaque strings, and maps transport failures to sentinel errors.
// Request/response calls are not retried; only the event stream
// reconnects (see internal/stream).
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nbelyaev/linewatch/internal/config"
)

// Client talks to the scheduler backend's REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the configured backend.
func NewClient(cfg config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBase, "/"),
		http: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutMs) * time.Millisecond,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// BaseURL returns the backend base URL, without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// getJSON performs a GET and decodes the envelope's data into dest.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, dest)
}

// postJSON performs a POST with an empty body and decodes the envelope's
// data into dest.
func (c *Client) postJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionError(err) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		// The backend wraps 404s in the envelope when it can; fall back
		// to the sentinel when the body is not an envelope.
		if err := decodeEnvelope(body, nil); err != nil {
			var apiErr *Error
			if errors.As(err, &apiErr) {
				return apiErr
			}
		}
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if err := decodeEnvelope(body, nil); err != nil {
			var apiErr *Error
			if errors.As(err, &apiErr) {
				return apiErr
			}
		}
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	return decodeEnvelope(body, dest)
}

// Available checks whether the backend health endpoint is reachable.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/core/", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

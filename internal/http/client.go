package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

const (
	defaultTimeout        = 60 * time.Second
	defaultConnectTimeout = 5 * time.Second
	defaultTLSTimeout     = 5 * time.Second
	defaultUserAgent      = "bookshelf"
)

// Client wraps HTTP operations for a JSON REST service.
//
// Client provides:
//   - Configured User-Agent and Accept headers
//   - A fresh X-Request-Id on every request for server-side correlation
//   - Dial, TLS and overall timeouts
//   - JSON encoding of request bodies and decoding of responses
//   - *StatusError for any non-2xx response
//
// Example usage:
//
//	client := NewClient(10*time.Second, "")
//
//	var books []model.Book
//	err := client.GetJSON(ctx, "http://localhost:5000/api/books", &books)
//
//	var created model.Book
//	err = client.SendJSON(ctx, http.MethodPost, "http://localhost:5000/api/books", draft, &created)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// A zero timeout selects the default of 60 seconds; an empty userAgent
// selects "bookshelf". Connection and TLS handshake each time out after
// 5 seconds regardless of the overall timeout.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	dialer := &net.Dialer{
		Timeout: defaultConnectTimeout,
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: defaultTLSTimeout,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		userAgent: userAgent,
	}
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.StatusCode, e.Status)
}

// GetJSON performs a GET request and decodes the JSON response into out.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 2xx
//   - The body is not valid JSON for out
//
// Example:
//
//	var books []model.Book
//	err := client.GetJSON(ctx, baseURL, &books)
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	return c.SendJSON(ctx, http.MethodGet, url, nil, out)
}

// SendJSON performs a request with an optional JSON body and decodes the
// JSON response into out.
//
// Pass a nil in to send no body, and a nil out to discard the response.
// Responses with status 204 or an empty body leave out untouched.
//
// Example:
//
//	var updated model.Book
//	err := client.SendJSON(ctx, http.MethodPut, baseURL+"/"+id, book, &updated)
func (c *Client) SendJSON(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, url, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, url, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, url, err)
	}
	return nil
}

// Delete performs a DELETE request. The response body is not consumed.
func (c *Client) Delete(ctx context.Context, url string) error {
	return c.SendJSON(ctx, http.MethodDelete, url, nil, nil)
}

// do sends the request with the standard headers and maps non-2xx
// responses to *StatusError. On success the caller owns resp.Body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		glog.V(2).Infof("[http] %s %s id=%s failed after %s: %v", req.Method, req.URL, requestID, time.Since(start), err)
		return nil, err
	}
	glog.V(2).Infof("[http] %s %s id=%s -> %d in %s", req.Method, req.URL, requestID, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
	}

	return resp, nil
}

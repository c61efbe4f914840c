package api

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

// ErrNetwork marks requests that never produced an HTTP response.
var ErrNetwork = errors.New("network failure")

// Client wraps HTTP calls to the nudibranch server.
type Client struct {
	baseURL    string
	session    string
	httpClient *http.Client
}

// Response is a completed HTTP exchange. Non-2xx statuses are not errors at
// this layer; callers classify them.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// NewClient creates a new API client. session is sent verbatim as the Cookie header.
func NewClient(baseURL, session string, timeout ...time.Duration) *Client {
	httpTimeout := 30 * time.Second
	if len(timeout) > 0 && timeout[0] > 0 {
		httpTimeout = timeout[0]
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

// SetSession updates the session cookie used for subsequent requests.
func (c *Client) SetSession(session string) {
	c.session = session
}

// BaseURL returns the server root every relative path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Resolve turns a path or absolute URL into an absolute URL on the server.
func (c *Client) Resolve(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", target, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	return base.ResolveReference(u).String(), nil
}

// sameOrigin reports whether u is on the server the session belongs to.
func (c *Client) sameOrigin(u *url.URL) bool {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, base.Scheme) && strings.EqualFold(u.Host, base.Host)
}

// do executes an HTTP request and returns the response, whatever its status.
func (c *Client) do(ctx context.Context, method, target string, body []byte) (*Response, error) {
	full, err := c.Resolve(target)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, full, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.session != "" && c.sameOrigin(req.URL) {
		req.Header.Set("Cookie", c.session)
	}
	if id := RequestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	// The server only renders JSON error bodies for XHR requests.
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, target, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: respBody}, nil
}

// doJSON marshals body and executes the request.
func (c *Client) doJSON(ctx context.Context, method, target string, body any) (*Response, error) {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
	}
	return c.do(ctx, method, target, data)
}

// Send issues method to target with an already serialized JSON body.
func (c *Client) Send(ctx context.Context, method, target string, body []byte) (*Response, error) {
	return c.do(ctx, strings.ToUpper(method), target, body)
}

// Delete issues a DELETE for a resource URL, as the delete buttons do.
func (c *Client) Delete(ctx context.Context, target string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, target, nil)
}

// Requeue re-queues every latest submission of the project behind target.
func (c *Client) Requeue(ctx context.Context, target string) (*Response, error) {
	return c.do(ctx, http.MethodPut, target, nil)
}

// get performs a GET request and fails on any non-200 status.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	if err := statusError(resp); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// decodeOne decodes a JSON object response.
func decodeOne[T any](data []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// StatusError is returned by typed helpers when the server answers with an
// unexpected status.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

func statusError(resp *Response) error {
	if resp.Status >= 200 && resp.Status < 300 {
		return nil
	}
	if msg, ok := extractAPIErrorBody(resp.Body); ok {
		return &StatusError{Status: resp.Status, Message: msg}
	}
	msg := strings.TrimSpace(string(resp.Body))
	if msg == "" {
		return &StatusError{Status: resp.Status}
	}
	return &StatusError{Status: resp.Status, Message: fmt.Sprintf("HTTP %d: %s", resp.Status, msg)}
}

func extractAPIErrorBody(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}

	head, _ := parseErrorValue(payload["error"])
	detail, _ := parseErrorValue(payload["messages"])
	if detail == "" {
		detail, _ = parseErrorValue(payload["message"])
	}
	return formatAPIError(head, detail)
}

func parseErrorValue(raw any) (string, bool) {
	switch value := raw.(type) {
	case string:
		msg := strings.TrimSpace(value)
		if msg == "" {
			return "", false
		}
		return msg, true
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			if msg, ok := parseErrorValue(item); ok {
				parts = append(parts, msg)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, "; "), true
	}
	return "", false
}

func formatAPIError(head, detail string) (string, bool) {
	switch {
	case head != "" && detail != "":
		return fmt.Sprintf("%s: %s", head, detail), true
	case head != "":
		return head, true
	case detail != "":
		return detail, true
	default:
		return "", false
	}
}

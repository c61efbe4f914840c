package api

import (
	"context"
	"net/http"
	"strings"
)

// Login creates a server session. On success the returned cookie string is
// suitable for Client.SetSession; the response is returned for dispatching.
func (c *Client) Login(ctx context.Context, input LoginInput) (*Response, string, error) {
	resp, err := c.doJSON(ctx, http.MethodPut, "/session", input)
	if err != nil {
		return nil, "", err
	}
	return resp, sessionCookie(resp.Header), nil
}

// Logout destroys the current session. The server answers 410 with a redirect.
func (c *Client) Logout(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodDelete, "/session", nil)
}

func sessionCookie(h http.Header) string {
	resp := http.Response{Header: h}
	parts := make([]string, 0, 1)
	for _, ck := range resp.Cookies() {
		if ck.Value == "" || ck.MaxAge < 0 {
			continue
		}
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; ")
}

package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
)

// LookupFile asks whether a file with the given digest exists.
// GET /file/{digest}/info answers 200 with a FileRecord or 404.
func (c *Client) LookupFile(ctx context.Context, digest string) (*Response, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/file/%s/info", url.PathEscape(digest)), nil)
}

// PutFile uploads raw file content under its digest as base64 JSON.
func (c *Client) PutFile(ctx context.Context, digest string, data []byte) (*Response, error) {
	input := PutFileInput{B64Data: base64.StdEncoding.EncodeToString(data)}
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/file/%s", url.PathEscape(digest)), input)
}

// DecodeFileRecord parses a lookup or upload body and requires a file_id.
func DecodeFileRecord(body []byte) (*FileRecord, error) {
	rec, err := decodeOne[FileRecord](body)
	if err != nil {
		return nil, err
	}
	if rec.FileID == "" {
		return nil, fmt.Errorf("decode response: missing file_id")
	}
	return rec, nil
}

// FileURL is the view URL of a stored file, as linked from the file lists.
func FileURL(digest, name string) string {
	return fmt.Sprintf("/file/%s/%s", url.PathEscape(digest), url.PathEscape(name))
}

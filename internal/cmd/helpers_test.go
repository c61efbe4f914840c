package cmd

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/nudibranch/nudi/cli/internal/config"
)

// recorded is one request seen by the fake server.
type recorded struct {
	Method string
	Path   string
	Cookie string
	Body   map[string]any
}

type fakeServer struct {
	mu       sync.Mutex
	requests []recorded
}

func (f *fakeServer) record(r *http.Request) recorded {
	rec := recorded{Method: r.Method, Path: r.URL.Path, Cookie: r.Header.Get("Cookie")}
	data, _ := io.ReadAll(r.Body)
	if len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	return rec
}

func (f *fakeServer) Requests() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recorded, len(f.requests))
	copy(out, f.requests)
	return out
}

// useServer points the CLI at a fake server in a fresh home directory.
func useServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, rec recorded)) *fakeServer {
	t.Helper()
	fake := &fakeServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := fake.record(r)
		handler(w, r, rec)
	}))
	t.Cleanup(srv.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)
	t.Setenv(config.EnvServerURL, srv.URL)
	t.Setenv(config.EnvTimeout, "")
	return fake
}

func loggedIn(t *testing.T) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Email = "a@b.c"
	cfg.SessionCookie = "auth_tkt=abc"
	require.NoError(t, cfg.Save())
}

func execute(t *testing.T, c *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c.SetArgs(args)
	c.SetIn(strings.NewReader(stdin))
	c.SetOut(&out)
	c.SetErr(&errOut)
	c.SilenceUsage = true
	c.SilenceErrors = true
	err := c.ExecuteContext(context.Background())
	return out.String(), err
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func sha1Hex(data string) string {
	sum := sha1.Sum([]byte(data))
	return hex.EncodeToString(sum[:])
}

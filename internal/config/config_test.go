package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(EnvServerURL, "")
	t.Setenv(EnvTimeout, "")
	t.Chdir(dir)
	return dir
}

func writeRawConfig(t *testing.T, home, body string) {
	t.Helper()
	cfgDir := filepath.Join(home, ".nudi")
	require.NoError(t, os.MkdirAll(cfgDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config"), []byte(body), 0600))
}

func TestSaveConfigCreatesDirectories(t *testing.T) {
	useHome(t)

	cfg := Config{SessionCookie: "auth_tkt=abc"}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadConfigNonExistent(t *testing.T) {
	useHome(t)

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSaveLoadRoundtripWithAllFields(t *testing.T) {
	useHome(t)

	original := Config{
		ServerURL:     "https://nudi.example.edu",
		Email:         "ta@example.edu",
		SessionCookie: "auth_tkt=abc",
		Timeout:       5 * time.Second,
		SkipEmpty:     true,
	}
	require.NoError(t, original.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	home := useHome(t)
	writeRawConfig(t, home, "session_cookie: auth_tkt=abc\n")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, loaded.ServerURL)
	assert.Equal(t, DefaultTimeout, loaded.Timeout)
	assert.False(t, loaded.SkipEmpty)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	home := useHome(t)
	writeRawConfig(t, home, "invalid: yaml: content:")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadConfigMissingSession(t *testing.T) {
	home := useHome(t)
	writeRawConfig(t, home, "server_url: http://nudi\n")

	_, err := Load()
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Contains(t, err.Error(), "session_cookie")
}

func TestResolveKeepsServerWithoutSession(t *testing.T) {
	home := useHome(t)
	writeRawConfig(t, home, "server_url: http://nudi\nemail: a@b.c\n")

	cfg, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, "http://nudi", cfg.ServerURL)
	assert.Equal(t, "a@b.c", cfg.Email)
	assert.False(t, cfg.LoggedIn())
}

func TestConfigPermissionsStrictlyEnforced(t *testing.T) {
	useHome(t)

	require.NoError(t, (&Config{SessionCookie: "secret"}).Save())
	require.NoError(t, os.Chmod(Path(), 0644))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")
}

func TestResolveWithoutConfigUsesDefaults(t *testing.T) {
	useHome(t)

	cfg, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.False(t, cfg.LoggedIn())
}

func TestResolveEnvOverridesFile(t *testing.T) {
	home := useHome(t)
	writeRawConfig(t, home, "server_url: http://file\nsession_cookie: c=1\n")
	t.Setenv(EnvServerURL, "http://env/")
	t.Setenv(EnvTimeout, "2s")

	cfg, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, "http://env", cfg.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.True(t, cfg.LoggedIn())
}

func TestResolveReadsDotEnv(t *testing.T) {
	home := useHome(t)
	os.Unsetenv(EnvServerURL)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"), []byte("NUDI_SERVER_URL=http://dotenv\n"), 0600))
	t.Cleanup(func() { os.Unsetenv(EnvServerURL) })

	cfg, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv", cfg.ServerURL)
}

func TestResolveRejectsBadTimeout(t *testing.T) {
	useHome(t)
	t.Setenv(EnvTimeout, "soon")

	_, err := Resolve()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), EnvTimeout)
}

func TestPathReturnsCorrectLocation(t *testing.T) {
	path := Path()
	assert.Contains(t, path, ".nudi")
	assert.Contains(t, path, "config")
}

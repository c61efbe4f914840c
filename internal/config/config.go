package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultServerURL is used when neither the config file nor the environment names a server.
const DefaultServerURL = "http://localhost:6543"

// DefaultTimeout bounds every HTTP round trip unless overridden.
const DefaultTimeout = 30 * time.Second

// Environment variables that override the config file.
const (
	EnvServerURL = "NUDI_SERVER_URL"
	EnvTimeout   = "NUDI_TIMEOUT"
)

// Config holds CLI configuration stored at ~/.nudi/config.
type Config struct {
	ServerURL     string        `yaml:"server_url"`
	Email         string        `yaml:"email,omitempty"`
	SessionCookie string        `yaml:"session_cookie,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	SkipEmpty     bool          `yaml:"skip_empty"`
}

// Defaults returns a config pointing at the default server.
func Defaults() *Config {
	return &Config{
		ServerURL: DefaultServerURL,
		Timeout:   DefaultTimeout,
	}
}

// Path returns the config file path.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nudi", "config")
}

// ErrNoSession is returned by Load when the config holds no session cookie.
var ErrNoSession = errors.New("config missing session_cookie")

// Load reads and parses the config file. Returns error if missing, insecure
// or not logged in.
func Load() (*Config, error) {
	cfg, err := read(Path())
	if err != nil {
		return nil, err
	}
	if cfg.SessionCookie == "" {
		return nil, ErrNoSession
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Resolve loads the config file when present and overlays the environment.
// A missing config file or session is not an error: commands that do not
// need a session (login) still get a server URL.
// The .env file in the working directory, if any, is loaded first.
func Resolve() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := read(Path())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Defaults()
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvServerURL)); v != "" {
		c.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")
	return nil
}

// LoggedIn reports whether a session cookie is available.
func (c *Config) LoggedIn() bool {
	return c != nil && c.SessionCookie != ""
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

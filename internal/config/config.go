// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the bearer token goes to the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"catalog/cli/internal/catalog"
	"catalog/cli/internal/xdg"
)

// DefaultAPIURL is the public FakeStore API the catalog was built against.
const DefaultAPIURL = "https://fakestoreapi.com"

// Environment overrides.
const (
	EnvAPIURL  = "CATALOG_API_URL"
	EnvVerbose = "CATALOG_VERBOSE"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	APIURL         string `json:"api_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	PerPage        int    `json:"per_page"`
	LogLevel       string `json:"log_level"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		TimeoutSeconds: 10,
		PerPage:        10,
		LogLevel:       "warn",
	}
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Verbose reports whether debug logging was requested through config or env.
func (c Config) Verbose() bool {
	return strings.EqualFold(c.LogLevel, "debug") || os.Getenv(EnvVerbose) == "1"
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults. Environment
// overrides are applied last.
func Load() (Config, error) {
	c, err := LoadFile()
	if err != nil {
		return c, err
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	return c, nil
}

// LoadFile reads the config file without environment overrides. It is the
// starting point for edits that are saved back.
func LoadFile() (Config, error) {
	c := Defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", p, err)
		}
	}
	c.fillZero()
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Set updates a single setting by its CLI name.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "api-url":
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid api-url %q: expected an absolute http(s) URL", value)
		}
		c.APIURL = strings.TrimRight(value, "/")
	case "timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid timeout %q: expected a positive number of seconds", value)
		}
		c.TimeoutSeconds = n
	case "per-page":
		n, err := strconv.Atoi(value)
		if err != nil || !slices.Contains(catalog.RowsPerPageOptions, n) {
			return fmt.Errorf("invalid per-page %q: expected one of %v", value, catalog.RowsPerPageOptions)
		}
		c.PerPage = n
	case "log-level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid log-level %q: expected debug, info, warn or error", value)
		}
	default:
		return fmt.Errorf("unknown setting %q (valid: api-url, timeout, per-page, log-level)", key)
	}
	return nil
}

func (c *Config) fillZero() {
	d := Defaults()
	if c.APIURL == "" {
		c.APIURL = d.APIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = d.TimeoutSeconds
	}
	if c.PerPage <= 0 {
		c.PerPage = d.PerPage
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultServerURL is the xfc_control deployment this tool talks to
	DefaultServerURL = "https://xfc.ceda.ac.uk/xfc_control"

	MinTimeoutSeconds = 1
	MaxTimeoutSeconds = 600
)

// Config represents the xfc client configuration. Every field has a
// working default; the config file only overrides.
type Config struct {
	ServerURL      string `toml:"server_url"`
	Username       string `toml:"username"`
	VerifyTLS      bool   `toml:"verify_tls"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Loglevel       string `toml:"loglevel"`
}

// DefaultConfig returns a Config with default values. TLS verification
// defaults to on; the config file can opt out.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:      DefaultServerURL,
		VerifyTLS:      true,
		TimeoutSeconds: 30,
		Loglevel:       "warn",
	}
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "xfc", "config.toml"), nil
}

// Load loads configuration from a TOML file. A missing file is not an
// error: the tool runs on defaults alone.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ResolveUsername fills in Username from the environment when the
// config file does not set it. The invoking OS user is the identity
// sent to the server on every request.
func (c *Config) ResolveUsername() error {
	if c.Username != "" {
		return nil
	}
	if name := os.Getenv("USER"); name != "" {
		c.Username = name
		return nil
	}
	if current, err := user.Current(); err == nil && current.Username != "" {
		c.Username = current.Username
		return nil
	}
	return fmt.Errorf("cannot determine the invoking user: set $USER or username in the config file")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if _, err := url.ParseRequestURI(c.ServerURL); err != nil {
		return fmt.Errorf("server_url is invalid: %v", err)
	}
	if c.TimeoutSeconds < MinTimeoutSeconds || c.TimeoutSeconds > MaxTimeoutSeconds {
		return fmt.Errorf("timeout_seconds must be between %d and %d", MinTimeoutSeconds, MaxTimeoutSeconds)
	}
	if _, err := logrus.ParseLevel(c.Loglevel); err != nil {
		return fmt.Errorf("loglevel must be one of: panic, fatal, error, warn, info, debug, trace")
	}

	return nil
}

// Timeout returns the request timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// APIURL returns the server URL joined with the fixed API prefix
func (c *Config) APIURL() string {
	return strings.TrimRight(c.ServerURL, "/") + "/api/v1/"
}

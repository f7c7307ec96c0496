// ABOUTME: Configuration loading and parsing for convbot
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete convbot configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Frontends FrontendsConfig `yaml:"frontends"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds the websocket listener configuration.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SessionsConfig holds session lifecycle timing.
type SessionsConfig struct {
	IdleTimeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	IdleTimeoutRaw string `yaml:"idle_timeout"`
}

// FrontendsConfig holds configuration for the available frontends.
type FrontendsConfig struct {
	WebSocket WebSocketConfig `yaml:"websocket"`
	Console   ConsoleConfig   `yaml:"console"`
}

// WebSocketConfig holds the websocket frontend configuration.
type WebSocketConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ConsoleConfig holds the interactive console configuration.
type ConsoleConfig struct {
	HistoryFile string `yaml:"history_file"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// defaultIdleTimeout applies when sessions.idle_timeout is not set.
const defaultIdleTimeout = 10 * time.Minute

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file is given:
// websocket on localhost, database next to the binary, 10 minute idle timeout.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: "127.0.0.1:8080", Path: "/ws"},
		Database: DatabaseConfig{Path: "./convbot.db"},
		Sessions: SessionsConfig{IdleTimeout: defaultIdleTimeout},
		Frontends: FrontendsConfig{
			WebSocket: WebSocketConfig{Enabled: true},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Frontends.WebSocket.Enabled && c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required when the websocket frontend is enabled")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Sessions.IdleTimeout < 0 {
		return fmt.Errorf("sessions.idle_timeout must not be negative")
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Sessions.IdleTimeoutRaw != "" {
		cfg.Sessions.IdleTimeout, err = time.ParseDuration(cfg.Sessions.IdleTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing idle_timeout %q: %w", cfg.Sessions.IdleTimeoutRaw, err)
		}
	} else {
		cfg.Sessions.IdleTimeout = defaultIdleTimeout
	}

	if cfg.Server.Path == "" {
		cfg.Server.Path = "/ws"
	}

	return nil
}

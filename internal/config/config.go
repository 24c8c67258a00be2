// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped with this package's sentinel kinds.
package config

import (
	"net"
	"strconv"
	"time"
)

// Defaults.
const (
	DefaultPort              = 3000
	DefaultMaxBodyBytes      = 1 << 20
	DefaultReadHeaderTimeout = 5000
	DefaultShutdownTimeout   = 30000
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Host is the interface to bind; empty means all interfaces.
	Host string `koanf:"host"`

	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// StaticDir serves files from disk at / instead of the embedded site.
	StaticDir string `koanf:"static_dir"`

	// MaxBodyBytes caps request body size.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	ReadHeaderTimeoutMS int `koanf:"read_header_timeout_ms"`
	ShutdownTimeoutMS   int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Host:                "",
		Port:                DefaultPort,
		StaticDir:           "",
		MaxBodyBytes:        DefaultMaxBodyBytes,
		ReadHeaderTimeoutMS: DefaultReadHeaderTimeout,
		ShutdownTimeoutMS:   DefaultShutdownTimeout,
	}
}

// Addr returns the listen address, e.g. ":3000".
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadHeaderTimeout returns the configured header read timeout.
func (c *Config) ReadHeaderTimeout() time.Duration {
	return time.Duration(c.ReadHeaderTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// Package config provides centralized configuration for the generator and
// the preview server. Settings come from environment variables (optionally
// seeded from a .env file by the binaries) and are validated on startup so
// misconfiguration fails fast.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Paths    PathsConfig
	Server   ServerConfig
	Generate GenerateConfig
	Database DatabaseConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// PathsConfig locates the input file and the output tree.
type PathsConfig struct {
	// CSVPath is the source spreadsheet (default: website.csv)
	CSVPath string `env:"CSV_PATH" default:"website.csv"`

	// BuildDir is where generated sites are written and served from (default: build)
	BuildDir string `env:"BUILD_DIR" default:"build"`
}

// ServerConfig holds preview server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: all interfaces)
	Host string `env:"SERVER_HOST"`

	// Port is the port to listen on (default: 5173)
	Port int `env:"PORT" envAlt:"SERVER_PORT" default:"5173"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// GenerateConfig holds site generation settings.
type GenerateConfig struct {
	// Concurrency is the number of sites written in parallel (default: 4)
	Concurrency int `env:"GENERATE_CONCURRENCY" default:"4"`

	// Timeout bounds a whole generation run (default: 2m)
	Timeout time.Duration `env:"GENERATE_TIMEOUT" default:"2m"`

	// MaxFileSize rejects larger CSV sources before reading them (default: 32MB)
	MaxFileSize int64 `env:"GENERATE_MAX_FILE_SIZE" default:"33554432"`
}

// DatabaseConfig holds the optional run history store settings.
// Postgres is used when URL is set, otherwise SQLite when SQLitePath is set.
// History is disabled when both are empty.
type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL" envAlt:"DB_URL"`
	MaxConns int    `env:"DB_MAX_CONNS" default:"4"`
	MinConns int    `env:"DB_MIN_CONNS" default:"0"`

	// SQLitePath is a local history database file
	SQLitePath string `env:"HISTORY_SQLITE_PATH"`
}

// Enabled reports whether a history database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != "" || c.SQLitePath != ""
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

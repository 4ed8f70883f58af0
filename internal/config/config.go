package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Settings holds the process configuration loaded from environment variables.
type Settings struct {
	Environment string `envconfig:"LEANCLOUD_ENV" default:"production"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"warn"`

	// Cloud API
	APIURL      string        `envconfig:"LEANCLOUD_API_URL" default:"https://www.quantconnect.com/api/v2"`
	APIToken    string        `envconfig:"LEANCLOUD_API_TOKEN"`
	HTTPTimeout time.Duration `envconfig:"LEANCLOUD_HTTP_TIMEOUT" default:"30s"`
}

// IsDevelopment reports whether logs should be human readable.
func (s *Settings) IsDevelopment() bool {
	return strings.EqualFold(s.Environment, "development")
}

// Load reads configuration from environment variables.
func Load() (*Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if s.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("loading config: LEANCLOUD_HTTP_TIMEOUT must be positive, got %s", s.HTTPTimeout)
	}
	return &s, nil
}

// NewLogger builds the process logger writing to w. JSON by default, console
// output in development. An unknown level falls back to warn.
func NewLogger(s *Settings, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	if s.IsDevelopment() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w})
	}

	level, err := zerolog.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	return logger.Level(level)
}

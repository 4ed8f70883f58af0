package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LEANCLOUD_API_TOKEN", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "https://www.quantconnect.com/api/v2", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LEANCLOUD_ENV", "development")
	t.Setenv("LEANCLOUD_API_URL", "http://localhost:9000/api/v2")
	t.Setenv("LEANCLOUD_API_TOKEN", "secret")
	t.Setenv("LEANCLOUD_HTTP_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "http://localhost:9000/api/v2", cfg.APIURL)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("LEANCLOUD_HTTP_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("LEANCLOUD_HTTP_TIMEOUT", "0s")
	_, err = Load()
	require.Error(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.WarnLevel},
		{"loud", zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(&Settings{LogLevel: tt.level}, &bytes.Buffer{})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Settings{LogLevel: "info"}, &buf)

	logger.Info().Str("project", "Alpha").Msg("pushed")
	logger.Debug().Msg("hidden")

	assert.Contains(t, buf.String(), `"project":"Alpha"`)
	assert.Contains(t, buf.String(), `"message":"pushed"`)
	assert.NotContains(t, buf.String(), "hidden")
}

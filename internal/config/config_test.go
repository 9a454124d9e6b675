package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.ConfirmationCodeTTL)
	assert.Equal(t, "log", cfg.MailBackend)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("CONFIRMATION_CODE_TTL", "15m")
	t.Setenv("PROMETHEUS_ENABLED", "true")
	t.Setenv("MAIL_RATE", "0.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 15*time.Minute, cfg.ConfirmationCodeTTL)
	assert.True(t, cfg.PrometheusEnabled)
	assert.InDelta(t, 0.5, cfg.MailRate, 1e-9)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port", "HTTP_PORT", "eighty"},
		{"duration", "ACCESS_TOKEN_TTL", "forever"},
		{"bool", "PROMETHEUS_ENABLED", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", testSecret)
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfig()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTPPort:            8080,
			PageSize:            10,
			MaxPageSize:         100,
			JWTSecret:           testSecret,
			AccessTokenTTL:      time.Hour,
			ConfirmationCodeTTL: time.Hour,
			MailWorkers:         1,
			MailBackend:         "log",
			LogLevel:            "info",
			LogFormat:           "json",
		}
	}

	assert.NoError(t, valid().Validate())

	short := valid()
	short.JWTSecret = "short"
	assert.ErrorContains(t, short.Validate(), "JWT_SECRET")

	pages := valid()
	pages.MaxPageSize = 5
	assert.ErrorContains(t, pages.Validate(), "MAX_PAGE_SIZE")

	backend := valid()
	backend.MailBackend = "carrier-pigeon"
	assert.ErrorContains(t, backend.Validate(), "MAIL_BACKEND")

	level := valid()
	level.LogLevel = "loud"
	assert.ErrorContains(t, level.Validate(), "LOG_LEVEL")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	logger := cfg.NewLogger(&buf)

	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"key":"value"`)
}

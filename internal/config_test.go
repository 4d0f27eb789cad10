package internal

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint16(3000), cfg.Port)
	assert.Equal(t, "festa.orders.submitted", cfg.NATS.Subject)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, 2*time.Hour, cfg.Session.KitTTL)
	assert.Equal(t, 12*time.Hour, cfg.Session.AdminTTL)
	assert.False(t, cfg.Session.Secure)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, time.Hour, cfg.Worker.Interval)
	assert.Equal(t, 30*24*time.Hour, cfg.Worker.CartRetention)
	assert.False(t, cfg.TrustProxy)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	require.NotNil(t, cfg.Store.Location)
	assert.Equal(t, "America/Sao_Paulo", cfg.Store.Location.String())
}

func TestLoadConfig_StoreTimezone(t *testing.T) {
	v := newViper()
	v.Set("STORE_TIMEZONE", "America/Manaus")
	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "America/Manaus", cfg.Store.Location.String())

	v = newViper()
	v.Set("STORE_TIMEZONE", "Mars/Olympus")
	_, err = loadConfig(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_TIMEZONE")
}

func TestLoadConfig_Overrides(t *testing.T) {
	v := newViper()
	v.Set("PORT", 8080)
	v.Set("LOG_LEVEL", "DEBUG")
	v.Set("KIT_SESSION_TTL", "30m")
	v.Set("STORE_WHATSAPP_PHONE", "5511999998888")

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, uint16(8080), cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.Session.KitTTL)
	assert.Equal(t, "5511999998888", cfg.Store.WhatsAppPhone)
}

func TestLoadConfig_CORSOrigins(t *testing.T) {
	v := newViper()
	v.Set("CORS_ALLOWED_ORIGINS", " https://festa.com.br, ,https://admin.festa.com.br ")
	v.Set("TRUST_PROXY", "true")

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://festa.com.br", "https://admin.festa.com.br"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.TrustProxy)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	v := newViper()
	v.Set("ENV", "staging")
	v.Set("LOG_LEVEL", "verbose")
	v.Set("FESTA_ADMIN_EMAIL", "loja@festa.test")
	v.Set("FESTA_ADMIN_PASSWORD_HASH", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Session.Secure)
}

func TestLoadConfig_ProductionRequirements(t *testing.T) {
	t.Run("admin credentials", func(t *testing.T) {
		v := newViper()
		v.Set("ENV", "prod")
		_, err := loadConfig(v)
		assert.Error(t, err)
	})

	t.Run("r2 settings", func(t *testing.T) {
		v := newViper()
		v.Set("ENV", "prod")
		v.Set("FESTA_ADMIN_EMAIL", "loja@festa.test")
		v.Set("FESTA_ADMIN_PASSWORD_HASH", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
		v.Set("STORAGE_PROVIDER", "r2")
		_, err := loadConfig(v)
		assert.ErrorContains(t, err, "R2_ACCOUNT_ID")
	})

	t.Run("plaintext password", func(t *testing.T) {
		v := newViper()
		v.Set("ENV", "prod")
		v.Set("FESTA_ADMIN_EMAIL", "loja@festa.test")
		v.Set("FESTA_ADMIN_PASSWORD_HASH", "festa123")
		_, err := loadConfig(v)
		assert.ErrorContains(t, err, "FESTA_ADMIN_PASSWORD_HASH")
	})

	t.Run("s3 bucket", func(t *testing.T) {
		v := newViper()
		v.Set("STORAGE_PROVIDER", "s3")
		_, err := loadConfig(v)
		assert.ErrorContains(t, err, "S3_BUCKET")
	})

	t.Run("session ttl", func(t *testing.T) {
		v := newViper()
		v.Set("KIT_SESSION_TTL", "0s")
		_, err := loadConfig(v)
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "prod", "warn")

	logger.Info("hidden")
	logger.Warn("shown", "kit", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "festa", entry["app"])
	assert.Equal(t, "abc", entry["kit"])
}

package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/tripsync/internal/config"
)

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("API_SERVICE_PORT", "9090")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("TOKEN_EXPIRATION", "3600")
	t.Setenv("MAX_UPLOAD_SIZE", "2048")
	t.Setenv("UPLOAD_DIR", "/var/tripsync/uploads")

	cfg := config.LoadConfig()

	assert.Equal(t, "9090", cfg.ApiServicePort)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Equal(t, int64(3600), cfg.TokenExpiration)
	assert.Equal(t, int64(2048), cfg.MaxUploadSize)
	assert.Equal(t, "/var/tripsync/uploads", cfg.UploadDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := config.LoadConfig()

	assert.Equal(t, int64(604800), cfg.TokenExpiration)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, "development", cfg.AppEnv)
}

func TestLoadConfig_InvalidNumberFallsBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_SIZE", "invalid")

	cfg := config.LoadConfig()

	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadSize)
}

func TestLoadConfig_LogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	cfg := config.LoadConfig()

	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			JWTSecret:        "secret",
			TokenExpiration:  60,
			MaxUploadSize:    1024,
			AuthRateLimit:    10,
			MessageRateLimit: 10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
		anyErr  bool
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "missing secret", mutate: func(c *config.Config) { c.JWTSecret = "" }, wantErr: config.ErrMissingJWTSecret},
		{name: "blank secret", mutate: func(c *config.Config) { c.JWTSecret = "   " }, wantErr: config.ErrMissingJWTSecret},
		{name: "zero expiration", mutate: func(c *config.Config) { c.TokenExpiration = 0 }, anyErr: true},
		{name: "negative upload size", mutate: func(c *config.Config) { c.MaxUploadSize = -1 }, anyErr: true},
		{name: "zero rate limit", mutate: func(c *config.Config) { c.MessageRateLimit = 0 }, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

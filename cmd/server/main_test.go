package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EgehanKilicarslan/tripsync/internal/config"
	"github.com/EgehanKilicarslan/tripsync/internal/logger"
)

func TestRun_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{
			name: "missing jwt secret",
			cfg:  &config.Config{TokenExpiration: 60, MaxUploadSize: 1, AuthRateLimit: 1, MessageRateLimit: 1, ShutdownTimeout: 1},
		},
		{
			name: "non positive token lifetime",
			cfg:  &config.Config{JWTSecret: "s", MaxUploadSize: 1, AuthRateLimit: 1, MessageRateLimit: 1, ShutdownTimeout: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.cfg, logger.Discard())
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

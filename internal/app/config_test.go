package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SERVICE_CLIENT_ID", "")
	t.Setenv("SERVICE_SECRET_HASH", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "last", cfg.MultiRolePolicy)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsHalfServiceCredential(t *testing.T) {
	t.Setenv("SERVICE_CLIENT_ID", "provisioner")
	t.Setenv("SERVICE_SECRET_HASH", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("TOKEN_TTL", "0s")

	_, err := LoadConfig()
	require.Error(t, err)
}

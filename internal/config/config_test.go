package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftfolio/templatepress/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("IPFS_API_URL", "https://api.pinata.cloud")
	t.Setenv("CHAIN_ENDPOINTS", "wax=https://wax.api.atomicassets.io")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "templatepress.db", cfg.DBPath)
	assert.Equal(t, 3*time.Second, cfg.ConfirmDelay)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 5, cfg.PollRetries)
	assert.Equal(t, "https://wax.api.atomicassets.io", cfg.ChainEndpoints["wax"])
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CONFIRM_DELAY", "500ms")
	t.Setenv("POLL_RETRIES", "10")
	t.Setenv("CHAIN_ENDPOINTS", "wax=https://wax.example.com, eos=https://eos.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.ConfirmDelay)
	assert.Equal(t, 10, cfg.PollRetries)
	assert.Len(t, cfg.ChainEndpoints, 2)
	assert.Equal(t, "https://eos.example.com", cfg.ChainEndpoints["eos"])
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadBadChainEndpoints(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHAIN_ENDPOINTS", "wax")

	_, err := config.Load()
	assert.Error(t, err)
}

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatchesBlockDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint64(50), cfg.GenesisReward)
	assert.Equal(t, uint64(10), cfg.HalvingInterval)
}

func TestLoadOverlaysEnvironment(t *testing.T) {
	os.Setenv("GENESIS_REWARD", "100")
	os.Setenv("LISTEN_ADDR", ":9090")
	defer os.Unsetenv("GENESIS_REWARD")
	defer os.Unsetenv("LISTEN_ADDR")

	cfg := Load()
	assert.Equal(t, uint64(100), cfg.GenesisReward)
	assert.Equal(t, ":9090", cfg.ListenAddr)
}

func TestLoadIgnoresMalformedEnvValue(t *testing.T) {
	os.Setenv("GENESIS_REWARD", "not-a-number")
	defer os.Unsetenv("GENESIS_REWARD")

	cfg := Load()
	assert.Equal(t, Default().GenesisReward, cfg.GenesisReward)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STRICT_WALLET_BALANCE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ACTIVITY_QUEUE_SIZE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Wallet.StrictBalance)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 256, cfg.Activity.QueueSize)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
}

func TestLoad_StrictWalletBalance(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"false", false},
		{"1", false},
		{"yes", false},
	}
	for _, tt := range tests {
		t.Setenv("STRICT_WALLET_BALANCE", tt.value)
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, tt.want, cfg.Wallet.StrictBalance, "STRICT_WALLET_BALANCE=%q", tt.value)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Memory")
	t.Setenv("ACTIVITY_WORKERS", "4")
	t.Setenv("ACTIVITY_WRITE_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 4, cfg.Activity.Workers)
	assert.Equal(t, 5*time.Second, cfg.Activity.WriteTimeout)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.FileExists(t, path)
	require.Equal(t, "USDC", cfg.PoolMint)
	require.Equal(t, uint8(12), cfg.QuestionCount)
	require.Len(t, cfg.Tokens, 1)
}

func TestLoadExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
DataDir = "/tmp/spotwin"
MetricsAddress = ":9900"
PoolMint = "USDC"
QuestionCount = 9
StakeLockPeriodSlots = 1000
PausedModules = ["staking"]

[[Tokens]]
Symbol = "USDC"
Name = "USD Coin"
Decimals = 6
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/spotwin", cfg.DataDir)
	require.Equal(t, uint8(9), cfg.QuestionCount)
	require.Equal(t, uint64(1000), cfg.StakeLockPeriodSlots)
	require.True(t, cfg.IsPaused("staking"))
	require.True(t, cfg.IsPaused("STAKING"))
	require.False(t, cfg.IsPaused("contest"))
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DataDir:       "./data",
			Tokens:        []TokenConfig{{Symbol: "USDC", Name: "USD Coin", Decimals: 6}},
			PoolMint:      "USDC",
			QuestionCount: 12,
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.QuestionCount = 0
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.QuestionCount = 17
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Tokens = nil
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Tokens = append(cfg.Tokens, TokenConfig{Symbol: "usdc"})
	require.Error(t, cfg.Validate(), "duplicate symbols differ only by case")

	cfg = base()
	cfg.PoolMint = "DOGE"
	require.Error(t, cfg.Validate())
}

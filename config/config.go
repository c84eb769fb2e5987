package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// TokenConfig registers a fungible token mint accepted by the ledger.
type TokenConfig struct {
	Symbol   string `toml:"Symbol"`
	Name     string `toml:"Name"`
	Decimals uint8  `toml:"Decimals"`
}

type Config struct {
	DataDir              string        `toml:"DataDir"`
	MetricsAddress       string        `toml:"MetricsAddress"`
	Tokens               []TokenConfig `toml:"Tokens"`
	PoolMint             string        `toml:"PoolMint"`
	QuestionCount        uint8         `toml:"QuestionCount"`
	StakeLockPeriodSlots uint64        `toml:"StakeLockPeriodSlots"`
	PausedModules        []string      `toml:"PausedModules"`
}

func defaultConfig() *Config {
	return &Config{
		DataDir:        "./spotwin-data",
		MetricsAddress: ":9464",
		Tokens:         []TokenConfig{{Symbol: "USDC", Name: "USD Coin", Decimals: 6}},
		PoolMint:       "USDC",
		QuestionCount:  12,
	}
}

// Load loads the configuration from the given path, writing defaults on first
// run.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = defaultConfig().DataDir
	}
	if cfg.QuestionCount == 0 {
		cfg.QuestionCount = defaultConfig().QuestionCount
	}
	if cfg.PausedModules == nil {
		cfg.PausedModules = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func createDefault(path string) (*Config, error) {
	cfg := defaultConfig()
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the policy parameters for consistency.
func (c *Config) Validate() error {
	if c.QuestionCount == 0 || c.QuestionCount > 16 {
		return fmt.Errorf("config: QuestionCount must be between 1 and 16, got %d", c.QuestionCount)
	}
	if len(c.Tokens) == 0 {
		return fmt.Errorf("config: at least one token must be registered")
	}
	seen := make(map[string]struct{}, len(c.Tokens))
	for _, token := range c.Tokens {
		symbol := strings.ToUpper(strings.TrimSpace(token.Symbol))
		if symbol == "" {
			return fmt.Errorf("config: token symbol required")
		}
		if _, dup := seen[symbol]; dup {
			return fmt.Errorf("config: duplicate token symbol %s", symbol)
		}
		seen[symbol] = struct{}{}
	}
	mint := strings.ToUpper(strings.TrimSpace(c.PoolMint))
	if mint == "" {
		return fmt.Errorf("config: PoolMint required")
	}
	if _, ok := seen[mint]; !ok {
		return fmt.Errorf("config: PoolMint %s is not a registered token", c.PoolMint)
	}
	return nil
}

// IsPaused reports whether the named module appears in PausedModules,
// satisfying the pause view consumed by the native engines.
func (c *Config) IsPaused(module string) bool {
	if c == nil {
		return false
	}
	for _, m := range c.PausedModules {
		if strings.EqualFold(strings.TrimSpace(m), module) {
			return true
		}
	}
	return false
}

package config

import (
	"time"

	"github.com/spf13/pflag"
)

// RefreshConfig holds configuration for the refresh command.
type RefreshConfig struct {
	RPCURL     string
	StateFile  string
	Commitment string
	Timeout    time.Duration
	// StakePrograms maps an asset mint to the staking program whose
	// deployment slot guards its calculator.
	StakePrograms map[string]string
	// RateAccounts maps an asset mint to the account holding its exchange
	// rate.
	RateAccounts map[string]string
	LogLevel     string
}

// LoadRefresh merges config file, environment variables, and flags into RefreshConfig.
func LoadRefresh(cfgFile string, flags *pflag.FlagSet) (RefreshConfig, error) {
	v := newViper()
	v.SetDefault("state-file", "./data/pool_state.json")
	v.SetDefault("commitment", "finalized")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("log-level", "info")

	if err := read(v, cfgFile, flags); err != nil {
		return RefreshConfig{}, err
	}

	cfg := RefreshConfig{
		RPCURL:        v.GetString("rpc"),
		StateFile:     v.GetString("state-file"),
		Commitment:    v.GetString("commitment"),
		Timeout:       v.GetDuration("timeout"),
		StakePrograms: getStringMap(v, "stake-programs"),
		RateAccounts:  getStringMap(v, "rate-accounts"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}

// QuoteConfig holds configuration for the quote command.
type QuoteConfig struct {
	StateFile string
	LogLevel  string
}

// LoadQuote merges config file, environment variables, and flags into QuoteConfig.
func LoadQuote(cfgFile string, flags *pflag.FlagSet) (QuoteConfig, error) {
	v := newViper()
	v.SetDefault("state-file", "./data/pool_state.json")
	v.SetDefault("log-level", "info")

	if err := read(v, cfgFile, flags); err != nil {
		return QuoteConfig{}, err
	}

	return QuoteConfig{
		StateFile: v.GetString("state-file"),
		LogLevel:  v.GetString("log-level"),
	}, nil
}

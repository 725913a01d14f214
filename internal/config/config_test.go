package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAndFlags(t *testing.T) {
	flags := pflag.NewFlagSet("replay", pflag.ContinueOnError)
	flags.String("in", "", "")
	flags.Uint64("rebalance-tolerance", 0, "")
	require.NoError(t, flags.Parse([]string{"--in", "ops.jsonl", "--rebalance-tolerance", "7"}))

	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("batch-size: 25\n"), 0o644))

	cfg, err := Load(cfgFile, flags)
	require.NoError(t, err)
	assert.Equal(t, "ops.jsonl", cfg.In)
	assert.Equal(t, uint64(7), cfg.RebalanceTolerance)
	assert.Equal(t, uint64(25), cfg.BatchSize)
	assert.Equal(t, "./data/deltas.jsonl", cfg.Out)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBackoff)
	assert.True(t, cfg.CheckpointEnabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LSTPOOL_PROGRAM_ID", "abc")
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("{}\n"), 0o644))

	cfg, err := Load(cfgFile, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.ProgramID)
}

func TestLoadRefreshStakePrograms(t *testing.T) {
	t.Setenv("LSTPOOL_STAKE_PROGRAMS", "mintA=progA, mintB = progB,broken")
	t.Setenv("LSTPOOL_RATE_ACCOUNTS", "mintA=rateA")
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("{}\n"), 0o644))

	cfg, err := LoadRefresh(cfgFile, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mintA": "progA", "mintB": "progB"}, cfg.StakePrograms)
	assert.Equal(t, map[string]string{"mintA": "rateA"}, cfg.RateAccounts)
	assert.Equal(t, "finalized", cfg.Commitment)
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("1700000000")
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), ts)

	ts, err = ParseTimestamp("2023-11-14T22:13:20Z")
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), ts)

	ts, err = ParseTimestamp(" ")
	require.NoError(t, err)
	assert.Zero(t, ts)

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestParseTimestampDate(t *testing.T) {
	ts, err := ParseTimestamp("2023-11-14")
	require.NoError(t, err)
	assert.Equal(t, uint64(1699920000), ts)

	_, err = ParseTimestamp("1960-01-01")
	assert.Error(t, err)
}

func TestLoadAggregateWindow(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("window: 1h\nrecompute-from: \"1700000000\"\n"), 0o644))

	cfg, err := LoadAggregate(cfgFile, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3600), cfg.WindowSeconds)
	assert.Equal(t, uint64(1700000000), cfg.RecomputeFrom)
	assert.Equal(t, 1000, cfg.BatchSize)

	for _, window := range []string{"500ms", "1500ms", "-5m", "soon"} {
		require.NoError(t, os.WriteFile(cfgFile, []byte("window: "+window+"\n"), 0o644))
		_, err := LoadAggregate(cfgFile, nil)
		assert.Error(t, err, window)
	}
}

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// AggregateConfig holds configuration for aggregation.
type AggregateConfig struct {
	Input         string
	WindowSeconds uint64
	PGDSN         string
	BatchSize     int
	// ProgressFile keeps progress in a local file instead of postgres.
	ProgressFile  string
	RecomputeFrom uint64
	LogLevel      string
}

// LoadAggregate merges config file, environment variables, and flags into
// AggregateConfig and validates the window and recompute timestamp.
func LoadAggregate(cfgFile string, flags *pflag.FlagSet) (AggregateConfig, error) {
	v := newViper()
	v.SetDefault("in", "./data/deltas.jsonl")
	v.SetDefault("batch-size", 1000)
	v.SetDefault("log-level", "info")
	v.SetDefault("window", "5m")

	if err := read(v, cfgFile, flags); err != nil {
		return AggregateConfig{}, err
	}

	window, err := windowSeconds(v.GetString("window"))
	if err != nil {
		return AggregateConfig{}, err
	}
	recompute, err := ParseTimestamp(v.GetString("recompute-from"))
	if err != nil {
		return AggregateConfig{}, fmt.Errorf("parse recompute-from: %w", err)
	}

	return AggregateConfig{
		Input:         v.GetString("in"),
		WindowSeconds: window,
		PGDSN:         v.GetString("pg-dsn"),
		BatchSize:     v.GetInt("batch-size"),
		ProgressFile:  v.GetString("progress-file"),
		RecomputeFrom: recompute,
		LogLevel:      v.GetString("log-level"),
	}, nil
}

func windowSeconds(input string) (uint64, error) {
	d, err := time.ParseDuration(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("invalid window: %w", err)
	}
	if d < time.Second {
		return 0, fmt.Errorf("window must be at least 1s, got %s", d)
	}
	if d%time.Second != 0 {
		return 0, fmt.Errorf("window must be whole seconds, got %s", d)
	}
	return uint64(d / time.Second), nil
}

// ParseTimestamp parses unix seconds, an RFC3339 time or a UTC date
// (2006-01-02). Empty input yields zero.
func ParseTimestamp(input string) (uint64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}
	if secs, err := strconv.ParseUint(input, 10, 64); err == nil {
		return secs, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if tm, err := time.Parse(layout, input); err == nil {
			if tm.Unix() < 0 {
				return 0, fmt.Errorf("timestamp %q is before 1970", input)
			}
			return uint64(tm.Unix()), nil
		}
	}
	return 0, fmt.Errorf("unrecognized timestamp %q", input)
}

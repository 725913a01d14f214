package aggregate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lstpool/internal/model"
	"lstpool/internal/storage"
)

// Config controls aggregation behavior.
type Config struct {
	WindowSeconds uint64
	BatchSize     int
	// RecomputeFrom, when set, overrides the saved progress: deltas at or
	// after this timestamp are aggregated again.
	RecomputeFrom uint64
	Progress      storage.Cursor
}

// CursorName names the progress cursor for one window size, so that runs
// with different windows keep separate progress.
func CursorName(windowSeconds uint64) string {
	return fmt.Sprintf("aggregate_%ds", windowSeconds)
}

// MetricsSink receives finished windows.
type MetricsSink interface {
	UpsertWindowMetrics(ctx context.Context, metrics []model.AssetWindowMetrics) error
}

// Aggregator folds operation deltas into per-asset window metrics.
type Aggregator struct {
	cfg    Config
	sink   MetricsSink
	logger *zap.Logger

	after  uint64
	maxTs  uint64
	open   map[string]*Accumulator
	closed []model.AssetWindowMetrics
	stats  runStats
}

type runStats struct {
	total, windows, skipped, late, failed int
}

func NewAggregator(cfg Config, sink MetricsSink, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	return &Aggregator{
		cfg:    cfg,
		sink:   sink,
		logger: logger,
		open:   make(map[string]*Accumulator),
	}
}

// Run aggregates a deltas JSONL file, resuming after the saved progress.
func (a *Aggregator) Run(ctx context.Context, inputPath string) error {
	if err := a.Resume(ctx); err != nil {
		return err
	}
	err := storage.ReadJSONL(inputPath, func(rec model.DeltaRecord) error {
		return a.Add(ctx, rec)
	})
	if err != nil {
		return err
	}
	if err := a.Flush(ctx); err != nil {
		return err
	}

	a.logger.Info("aggregate complete",
		zap.Int("total", a.stats.total),
		zap.Int("windows", a.stats.windows),
		zap.Int("skipped", a.stats.skipped),
		zap.Int("late", a.stats.late),
		zap.Int("failed", a.stats.failed),
	)
	return nil
}

// Resume checks the configuration and loads the position to continue from.
func (a *Aggregator) Resume(ctx context.Context) error {
	if a.sink == nil {
		return fmt.Errorf("metrics sink is nil")
	}
	if a.cfg.WindowSeconds == 0 {
		return fmt.Errorf("window seconds must be > 0")
	}

	if a.cfg.RecomputeFrom > 0 {
		a.after = a.cfg.RecomputeFrom - 1
	} else {
		last, ok, err := a.cfg.Progress.Load(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		if ok {
			a.after = last
		}
	}
	a.maxTs = a.after
	return nil
}

// Add folds rec into the open window of every asset it touches. A delta
// older than an asset's open window is dropped; its window has already been
// written.
func (a *Aggregator) Add(ctx context.Context, rec model.DeltaRecord) error {
	a.stats.total++
	if rec.Timestamp <= a.after {
		a.stats.skipped++
		return nil
	}

	start := windowStart(rec.Timestamp, a.cfg.WindowSeconds)
	for _, mint := range mintsOf(rec) {
		acc := a.open[mint]
		switch {
		case acc == nil:
			acc = NewAccumulator(mint, start, start+a.cfg.WindowSeconds)
			a.open[mint] = acc
		case start < acc.WindowStart:
			a.stats.late++
			a.logger.Warn("late delta dropped", zap.Uint64("seq", rec.Seq), zap.String("mint", mint))
			continue
		case start > acc.WindowStart:
			a.close(acc)
			acc = NewAccumulator(mint, start, start+a.cfg.WindowSeconds)
			a.open[mint] = acc
		}

		if err := acc.AddDelta(rec); err != nil {
			a.stats.failed++
			a.logger.Warn("aggregate delta", zap.Error(err), zap.Uint64("seq", rec.Seq), zap.String("mint", mint))
		}
	}

	if rec.Timestamp > a.maxTs {
		a.maxTs = rec.Timestamp
	}

	if len(a.closed) >= a.cfg.BatchSize {
		return a.write(ctx)
	}
	return nil
}

// Flush closes every open window, writes them and saves the newest
// timestamp seen.
func (a *Aggregator) Flush(ctx context.Context) error {
	for mint, acc := range a.open {
		a.close(acc)
		delete(a.open, mint)
	}
	return a.write(ctx)
}

func (a *Aggregator) close(acc *Accumulator) {
	a.closed = append(a.closed, acc.Metrics(a.cfg.WindowSeconds))
	a.stats.windows++
}

// write stores closed windows and saves progress up to just before the
// oldest window still open.
func (a *Aggregator) write(ctx context.Context) error {
	if len(a.closed) > 0 {
		if err := a.sink.UpsertWindowMetrics(ctx, a.closed); err != nil {
			return err
		}
		a.closed = a.closed[:0]
	}

	safe := a.maxTs
	if oldest := minOpenWindowStart(a.open); oldest > 0 && oldest-1 < safe {
		safe = oldest - 1
	}
	if err := a.cfg.Progress.Save(ctx, safe); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

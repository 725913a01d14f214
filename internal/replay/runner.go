package replay

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"lstpool/internal/metrics"
	"lstpool/internal/model"
	"lstpool/internal/pool"
	"lstpool/internal/storage"
)

// RunConfig holds runtime settings for replay.
type RunConfig struct {
	FromSeq   uint64
	ToSeq     uint64
	BatchSize uint64
	StatePath string

	// Checkpoint records the last replayed seq. The zero Cursor disables
	// checkpointing.
	Checkpoint   storage.Cursor
	MaxRetries   int
	RetryBackoff time.Duration
}

// SnapshotStore receives the registry after each batch.
type SnapshotStore interface {
	UpsertAssets(ctx context.Context, assets []model.AssetSnapshot) error
}

// Runner replays operation records through the engine and writes the
// resulting deltas to storage.
type Runner struct {
	cfg       RunConfig
	engine    *pool.Engine
	storage   storage.Storage
	snapshots SnapshotStore
	metrics   *metrics.Metrics
	logger    *zap.Logger
	seen      map[uint64]struct{}
}

// NewRunner builds a Runner with its dependencies. snapshots and m may be nil.
func NewRunner(cfg RunConfig, engine *pool.Engine, sink storage.Storage, snapshots SnapshotStore, m *metrics.Metrics, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	return &Runner{
		cfg:       cfg,
		engine:    engine,
		storage:   sink,
		snapshots: snapshots,
		metrics:   m,
		logger:    logger,
		seen:      make(map[uint64]struct{}),
	}
}

// LoadOperations reads operation records from a JSONL file, ordered by seq.
func LoadOperations(path string) ([]model.OperationRecord, error) {
	var ops []model.OperationRecord
	err := storage.ReadJSONL(path, func(op model.OperationRecord) error {
		ops = append(ops, op)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].Seq < ops[j].Seq })
	return ops, nil
}

// Run applies ops in sequence order starting from state and returns the final
// state. Rejected operations are recorded and leave the state unchanged.
func (r *Runner) Run(ctx context.Context, state *pool.State, ops []model.OperationRecord) (*pool.State, error) {
	if r.engine == nil {
		return nil, fmt.Errorf("engine is nil")
	}
	if r.storage == nil {
		return nil, fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if state == nil {
		state = &pool.State{}
	}
	if len(ops) == 0 {
		r.logger.Info("no operations to replay")
		return state, nil
	}

	from := r.cfg.FromSeq
	cp, ok, err := r.cfg.Checkpoint.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	if ok && cp == math.MaxUint64 {
		r.logger.Info("checkpoint at final seq, nothing to replay")
		return state, nil
	}
	if ok && cp >= from {
		from = cp + 1
		r.logger.Info("resume from checkpoint", zap.Uint64("last_processed", cp), zap.Uint64("from", from))
	}

	pending := selectRange(ops, from, r.cfg.ToSeq)
	if len(pending) == 0 {
		r.logger.Info("nothing to replay", zap.Uint64("from", from), zap.Uint64("to", r.cfg.ToSeq))
		return state, nil
	}

	size := r.cfg.BatchSize
	if size > math.MaxInt32 {
		size = math.MaxInt32
	}
	for _, batch := range chunk(pending, int(size)) {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		ingestedAt := time.Now().UTC()
		records := make([]model.DeltaRecord, 0, len(batch))
		for _, op := range batch {
			if r.isDuplicate(op.Seq) {
				r.logger.Warn("duplicate seq skipped", zap.Uint64("seq", op.Seq))
				continue
			}
			var rec model.DeltaRecord
			state, rec = r.applyOne(state, op, ingestedAt)
			records = append(records, rec)
		}

		if err := r.putWithRetry(ctx, records); err != nil {
			return state, fmt.Errorf("store deltas: %w", err)
		}
		if err := r.persist(ctx, state); err != nil {
			return state, err
		}
		last := batch[len(batch)-1].Seq
		if err := r.cfg.Checkpoint.Save(ctx, last); err != nil {
			return state, fmt.Errorf("save checkpoint: %w", err)
		}

		r.metrics.SetPool(state.Pool.TotalValue, state.LpSupply, state.Active())
		r.logger.Info("batch complete",
			zap.Int("operations", len(records)),
			zap.Uint64("from", batch[0].Seq),
			zap.Uint64("to", last),
			zap.Uint64("total_value", state.Pool.TotalValue),
		)
	}

	return state, nil
}

func (r *Runner) applyOne(state *pool.State, op model.OperationRecord, ingestedAt time.Time) (*pool.State, model.DeltaRecord) {
	start := time.Now()
	name := "unknown"
	next, delta, err := r.execute(state, op, &name)
	r.metrics.ObserveOperation(name, err, time.Since(start))
	if err != nil {
		r.logger.Debug("operation rejected", zap.Uint64("seq", op.Seq), zap.String("op", name), zap.Error(err))
		return state, buildDeltaRecord(op, name, delta, err, ingestedAt)
	}
	return next, buildDeltaRecord(op, name, delta, nil, ingestedAt)
}

func (r *Runner) execute(state *pool.State, op model.OperationRecord, name *string) (*pool.State, pool.Delta, error) {
	raw, ins, err := decodeData(op.Data)
	if err != nil {
		return nil, pool.Delta{}, err
	}
	*name = ins.Discriminant().String()

	if len(op.Accounts) > 0 {
		metas, err := parseAccounts(op.Accounts)
		if err != nil {
			return nil, pool.Delta{}, model.ErrInvalidRecordData.Wrap(err.Error())
		}
		return r.engine.Process(state, metas, raw)
	}

	signers, err := ParsePublicKeys(op.Signers)
	if err != nil {
		return nil, pool.Delta{}, model.ErrInvalidRecordData.Wrap(err.Error())
	}
	return r.engine.Apply(state, ins, signers)
}

func (r *Runner) putWithRetry(ctx context.Context, records []model.DeltaRecord) error {
	return withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(err error) {
		r.metrics.StoreRetried()
		r.logger.Warn("store deltas failed", zap.Error(err), zap.Int("records", len(records)))
	}, func(ctx context.Context) error {
		return r.storage.PutDeltaBatch(ctx, records)
	})
}

func (r *Runner) persist(ctx context.Context, state *pool.State) error {
	if r.cfg.StatePath != "" {
		if err := storage.SavePoolState(r.cfg.StatePath, state); err != nil {
			return err
		}
	}
	if r.snapshots == nil {
		return nil
	}
	snaps, err := BuildAssetSnapshots(state)
	if err != nil {
		return fmt.Errorf("build asset snapshots: %w", err)
	}
	return withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(err error) {
		r.metrics.StoreRetried()
		r.logger.Warn("store asset snapshots failed", zap.Error(err))
	}, func(ctx context.Context) error {
		return r.snapshots.UpsertAssets(ctx, snaps)
	})
}

func (r *Runner) isDuplicate(seq uint64) bool {
	if _, ok := r.seen[seq]; ok {
		return true
	}
	r.seen[seq] = struct{}{}
	return false
}

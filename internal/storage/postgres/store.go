package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lstpool/internal/model"
)

// Store provides Postgres persistence for replay output and metrics.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables the store writes to.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// UpsertAssets inserts or updates the latest snapshot of each asset.
func (s *Store) UpsertAssets(ctx context.Context, assets []model.AssetSnapshot) error {
	if len(assets) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range assets {
		batch.Queue(`
			INSERT INTO pool_assets (
				mint, asset_index, calculator, calculator_kind, common_value, input_disabled,
				input_fee_bps, output_fee_bps, reserves, protocol_fees, record, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now(),now())
			ON CONFLICT (mint)
			DO UPDATE SET
				asset_index = EXCLUDED.asset_index,
				calculator = EXCLUDED.calculator,
				calculator_kind = EXCLUDED.calculator_kind,
				common_value = EXCLUDED.common_value,
				input_disabled = EXCLUDED.input_disabled,
				input_fee_bps = EXCLUDED.input_fee_bps,
				output_fee_bps = EXCLUDED.output_fee_bps,
				reserves = EXCLUDED.reserves,
				protocol_fees = EXCLUDED.protocol_fees,
				record = EXCLUDED.record,
				updated_at = now()
		`,
			a.Mint,
			int64(a.Index),
			a.Calculator,
			int16(a.Kind),
			numeric(a.CommonValue),
			a.InputDisabled,
			a.InputFeeBps,
			a.OutputFeeBps,
			numeric(a.Reserves),
			numeric(a.ProtocolFees),
			a.Record,
		)
	}
	return s.execBatch(ctx, batch, len(assets))
}

// PutDeltaBatch inserts operation deltas, ignoring sequence numbers already
// stored.
func (s *Store) PutDeltaBatch(ctx context.Context, deltas []model.DeltaRecord) error {
	if len(deltas) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range deltas {
		batch.Queue(`
			INSERT INTO pool_deltas (
				seq, ts, operation, status, error, src_mint, dst_mint, amount_in, amount_out,
				protocol_fee, lp_minted, lp_burned, total_value_before, total_value_after, ingested_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
			ON CONFLICT (seq) DO NOTHING
		`,
			numeric(d.Seq),
			time.Unix(int64(d.Timestamp), 0).UTC(),
			d.Operation,
			d.Status,
			d.Error,
			d.SrcMint,
			d.DstMint,
			numeric(d.AmountIn),
			numeric(d.AmountOut),
			numeric(d.ProtocolFee),
			numeric(d.LpMinted),
			numeric(d.LpBurned),
			numeric(d.TotalValueBefore),
			numeric(d.TotalValueAfter),
			d.IngestedAt,
		)
	}
	return s.execBatch(ctx, batch, len(deltas))
}

// UpsertWindowMetrics inserts or updates window metrics.
func (s *Store) UpsertWindowMetrics(ctx context.Context, metrics []model.AssetWindowMetrics) error {
	if len(metrics) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range metrics {
		batch.Queue(`
			INSERT INTO asset_window_metrics (
				mint, window_size_seconds, window_start_ts, window_end_ts,
				swap_in_count, swap_out_count, volume_in, volume_out, protocol_fees,
				liquidity_added, liquidity_taken, lp_minted, lp_burned, rejected_count,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now(),now())
			ON CONFLICT (mint, window_size_seconds, window_start_ts)
			DO UPDATE SET
				window_end_ts = EXCLUDED.window_end_ts,
				swap_in_count = EXCLUDED.swap_in_count,
				swap_out_count = EXCLUDED.swap_out_count,
				volume_in = EXCLUDED.volume_in,
				volume_out = EXCLUDED.volume_out,
				protocol_fees = EXCLUDED.protocol_fees,
				liquidity_added = EXCLUDED.liquidity_added,
				liquidity_taken = EXCLUDED.liquidity_taken,
				lp_minted = EXCLUDED.lp_minted,
				lp_burned = EXCLUDED.lp_burned,
				rejected_count = EXCLUDED.rejected_count,
				updated_at = now()
		`,
			m.Mint,
			m.WindowSizeSecs,
			m.WindowStart,
			m.WindowEnd,
			int64(m.SwapInCount),
			int64(m.SwapOutCount),
			m.VolumeIn,
			m.VolumeOut,
			m.ProtocolFees,
			m.LiquidityAdded,
			m.LiquidityTaken,
			m.LpMinted,
			m.LpBurned,
			int64(m.RejectedCount),
		)
	}
	return s.execBatch(ctx, batch, len(metrics))
}

// LoadState returns the last processed position for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var pos int64
	row := s.pool.QueryRow(ctx, `SELECT last_processed FROM pool_progress WHERE name=$1`, name)
	if err := row.Scan(&pos); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(pos), true, nil
}

// SaveState upserts the last processed position for a name.
func (s *Store) SaveState(ctx context.Context, name string, pos uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pool_progress (name, last_processed, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed = EXCLUDED.last_processed, updated_at = now()
	`, name, int64(pos))
	return err
}

func (s *Store) execBatch(ctx context.Context, batch *pgx.Batch, n int) error {
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

package postgres

import "strconv"

// u64 columns are NUMERIC(20,0) since BIGINT cannot hold the full range.
const schema = `
CREATE TABLE IF NOT EXISTS pool_assets (
	mint            TEXT PRIMARY KEY,
	asset_index     BIGINT NOT NULL,
	calculator      TEXT NOT NULL,
	calculator_kind SMALLINT NOT NULL,
	common_value    NUMERIC(20,0) NOT NULL,
	input_disabled  BOOLEAN NOT NULL,
	input_fee_bps   SMALLINT NOT NULL,
	output_fee_bps  SMALLINT NOT NULL,
	reserves        NUMERIC(20,0) NOT NULL,
	protocol_fees   NUMERIC(20,0) NOT NULL,
	record          BYTEA NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS pool_deltas (
	seq                NUMERIC(20,0) PRIMARY KEY,
	ts                 TIMESTAMPTZ NOT NULL,
	operation          TEXT NOT NULL,
	status             TEXT NOT NULL,
	error              TEXT NOT NULL DEFAULT '',
	src_mint           TEXT NOT NULL DEFAULT '',
	dst_mint           TEXT NOT NULL DEFAULT '',
	amount_in          NUMERIC(20,0) NOT NULL,
	amount_out         NUMERIC(20,0) NOT NULL,
	protocol_fee       NUMERIC(20,0) NOT NULL,
	lp_minted          NUMERIC(20,0) NOT NULL,
	lp_burned          NUMERIC(20,0) NOT NULL,
	total_value_before NUMERIC(20,0) NOT NULL,
	total_value_after  NUMERIC(20,0) NOT NULL,
	ingested_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS asset_window_metrics (
	mint                TEXT NOT NULL,
	window_size_seconds BIGINT NOT NULL,
	window_start_ts     TIMESTAMPTZ NOT NULL,
	window_end_ts       TIMESTAMPTZ NOT NULL,
	swap_in_count       BIGINT NOT NULL,
	swap_out_count      BIGINT NOT NULL,
	volume_in           NUMERIC NOT NULL,
	volume_out          NUMERIC NOT NULL,
	protocol_fees       NUMERIC NOT NULL,
	liquidity_added     NUMERIC NOT NULL,
	liquidity_taken     NUMERIC NOT NULL,
	lp_minted           NUMERIC NOT NULL,
	lp_burned           NUMERIC NOT NULL,
	rejected_count      BIGINT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (mint, window_size_seconds, window_start_ts)
);

CREATE TABLE IF NOT EXISTS pool_progress (
	name           TEXT PRIMARY KEY,
	last_processed BIGINT NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
`

// numeric renders v for a NUMERIC parameter.
func numeric(v uint64) string {
	return strconv.FormatUint(v, 10)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fixedratio/internal/model"
)

// Store mirrors engine snapshots into Postgres for offline inspection.
// The engine state stays authoritative; rows here are a read model.
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

// UpsertPools inserts or updates pool snapshots.
func (s *Store) UpsertPools(ctx context.Context, pools []model.PoolState) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range pools {
		batch.Queue(`
			INSERT INTO pools (
				address, owner, token_a_mint, token_b_mint,
				ratio_a_numerator, ratio_b_denominator,
				token_a_decimals, token_b_decimals,
				reserve_a, reserve_b, lp_supply_a, lp_supply_b,
				swap_fee_bps, flags,
				collected_fees_a, collected_fees_b,
				withdrawn_fees_a, withdrawn_fees_b,
				pause_reason, pool_created_at, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,now(),now())
			ON CONFLICT (address)
			DO UPDATE SET
				reserve_a = EXCLUDED.reserve_a,
				reserve_b = EXCLUDED.reserve_b,
				lp_supply_a = EXCLUDED.lp_supply_a,
				lp_supply_b = EXCLUDED.lp_supply_b,
				swap_fee_bps = EXCLUDED.swap_fee_bps,
				flags = EXCLUDED.flags,
				collected_fees_a = EXCLUDED.collected_fees_a,
				collected_fees_b = EXCLUDED.collected_fees_b,
				withdrawn_fees_a = EXCLUDED.withdrawn_fees_a,
				withdrawn_fees_b = EXCLUDED.withdrawn_fees_b,
				pause_reason = EXCLUDED.pause_reason,
				updated_at = now()
		`,
			p.Address.Hex(),
			p.Owner.Hex(),
			p.Identity.TokenAMint.Hex(),
			p.Identity.TokenBMint.Hex(),
			int64(p.Identity.RatioANumerator),
			int64(p.Identity.RatioBDenominator),
			int16(p.TokenADecimals),
			int16(p.TokenBDecimals),
			int64(p.ReserveA),
			int64(p.ReserveB),
			int64(p.LPSupplyA),
			int64(p.LPSupplyB),
			int32(p.SwapFeeBps),
			int16(p.PauseBits()),
			int64(p.CollectedFeesA),
			int64(p.CollectedFeesB),
			int64(p.WithdrawnFeesA),
			int64(p.WithdrawnFeesB),
			p.PauseReason,
			p.CreatedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertActions inserts or updates delegate action records.
func (s *Store) UpsertActions(ctx context.Context, actions []model.DelegateAction) error {
	if len(actions) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range actions {
		batch.Queue(`
			INSERT INTO delegate_actions (
				pool, action_id, delegate, action_type, status,
				requested_at, executable_at, resolved_at, revoked_by,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now(),now())
			ON CONFLICT (pool, action_id)
			DO UPDATE SET
				status = EXCLUDED.status,
				resolved_at = EXCLUDED.resolved_at,
				revoked_by = EXCLUDED.revoked_by,
				updated_at = now()
		`,
			a.Pool.Hex(),
			int64(a.ID),
			a.Delegate.Hex(),
			a.Type.String(),
			a.Status.String(),
			a.RequestedAt,
			a.ExecutableAt,
			nullableTime(a),
			a.RevokedBy.Hex(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range actions {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertTreasury stores the singleton treasury row.
func (s *Store) UpsertTreasury(ctx context.Context, t model.MainTreasuryState) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO treasury (
			id, authority, total_balance, total_withdrawn,
			pool_creation_count, liquidity_operation_count,
			regular_swap_count, hft_swap_count,
			total_pool_creation_fees, total_liquidity_fees,
			total_regular_swap_fees, total_hft_swap_fees,
			last_update, updated_at
		) VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
		ON CONFLICT (id) DO UPDATE SET
			total_balance = EXCLUDED.total_balance,
			total_withdrawn = EXCLUDED.total_withdrawn,
			pool_creation_count = EXCLUDED.pool_creation_count,
			liquidity_operation_count = EXCLUDED.liquidity_operation_count,
			regular_swap_count = EXCLUDED.regular_swap_count,
			hft_swap_count = EXCLUDED.hft_swap_count,
			total_pool_creation_fees = EXCLUDED.total_pool_creation_fees,
			total_liquidity_fees = EXCLUDED.total_liquidity_fees,
			total_regular_swap_fees = EXCLUDED.total_regular_swap_fees,
			total_hft_swap_fees = EXCLUDED.total_hft_swap_fees,
			last_update = EXCLUDED.last_update,
			updated_at = now()
	`,
		t.Authority.Hex(),
		int64(t.TotalBalance),
		int64(t.TotalWithdrawn),
		int64(t.PoolCreationCount),
		int64(t.LiquidityOperationCount),
		int64(t.RegularSwapCount),
		int64(t.HFTSwapCount),
		int64(t.TotalPoolCreationFees),
		int64(t.TotalLiquidityFees),
		int64(t.TotalRegularSwapFees),
		int64(t.TotalHFTSwapFees),
		t.LastUpdate,
	)
	return err
}

// UpsertSystemState stores the singleton system pause row.
func (s *Store) UpsertSystemState(ctx context.Context, st model.SystemState) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO system_state (id, authority, is_paused, reason_code, reason, paused_at, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,now())
		ON CONFLICT (id) DO UPDATE SET
			is_paused = EXCLUDED.is_paused,
			reason_code = EXCLUDED.reason_code,
			reason = EXCLUDED.reason,
			paused_at = EXCLUDED.paused_at,
			updated_at = now()
	`,
		st.Authority.Hex(),
		st.IsPaused,
		int16(st.ReasonCode),
		st.Reason,
		st.PausedAt,
	)
	return err
}

func nullableTime(a model.DelegateAction) interface{} {
	if a.ResolvedAt.IsZero() {
		return nil
	}
	return a.ResolvedAt
}

package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// FeeCategory identifies which treasury counter a protocol fee posts to.
type FeeCategory uint8

const (
	FeePoolCreation FeeCategory = iota + 1
	FeeLiquidity
	FeeRegularSwap
	FeeHFTSwap
)

func (c FeeCategory) String() string {
	switch c {
	case FeePoolCreation:
		return "pool_creation"
	case FeeLiquidity:
		return "liquidity"
	case FeeRegularSwap:
		return "regular_swap"
	case FeeHFTSwap:
		return "hft_swap"
	default:
		return "unknown"
	}
}

// MainTreasuryState is the single treasury collecting every protocol fee
// directly, with counters updated at collection time. There is no staging
// ledger and no consolidation step: TotalBalance always equals the sum of
// the category totals minus TotalWithdrawn.
type MainTreasuryState struct {
	Authority common.Hash `json:"authority"`

	TotalBalance   uint64 `json:"total_balance"`
	TotalWithdrawn uint64 `json:"total_withdrawn"`

	PoolCreationCount       uint64 `json:"pool_creation_count"`
	LiquidityOperationCount uint64 `json:"liquidity_operation_count"`
	RegularSwapCount        uint64 `json:"regular_swap_count"`
	HFTSwapCount            uint64 `json:"hft_swap_count"`

	TotalPoolCreationFees uint64 `json:"total_pool_creation_fees"`
	TotalLiquidityFees    uint64 `json:"total_liquidity_fees"`
	TotalRegularSwapFees  uint64 `json:"total_regular_swap_fees"`
	TotalHFTSwapFees      uint64 `json:"total_hft_swap_fees"`

	LastUpdate     time.Time `json:"last_update"`
	LastWithdrawal time.Time `json:"last_withdrawal,omitempty"`
}

// NewMainTreasuryState returns an empty treasury owned by authority.
func NewMainTreasuryState(authority common.Hash) *MainTreasuryState {
	return &MainTreasuryState{Authority: authority}
}

// RecordFee posts a fee to the treasury: balance, category total, and
// category count move together in one update.
func (t *MainTreasuryState) RecordFee(category FeeCategory, amount uint64, now time.Time) {
	t.TotalBalance += amount
	switch category {
	case FeePoolCreation:
		t.PoolCreationCount++
		t.TotalPoolCreationFees += amount
	case FeeLiquidity:
		t.LiquidityOperationCount++
		t.TotalLiquidityFees += amount
	case FeeRegularSwap:
		t.RegularSwapCount++
		t.TotalRegularSwapFees += amount
	case FeeHFTSwap:
		t.HFTSwapCount++
		t.TotalHFTSwapFees += amount
	}
	t.LastUpdate = now
}

// RecordWithdrawal moves amount out of the treasury. The caller validates
// availability first; this only applies the already-approved movement.
func (t *MainTreasuryState) RecordWithdrawal(amount uint64, now time.Time) {
	t.TotalBalance -= amount
	t.TotalWithdrawn += amount
	t.LastWithdrawal = now
	t.LastUpdate = now
}

// AvailableForWithdrawal is the balance above the protocol minimum reserve.
func (t *MainTreasuryState) AvailableForWithdrawal(minReserve uint64) uint64 {
	if t.TotalBalance > minReserve {
		return t.TotalBalance - minReserve
	}
	return 0
}

// TotalFeesCollected sums every category total.
func (t *MainTreasuryState) TotalFeesCollected() uint64 {
	return t.TotalPoolCreationFees + t.TotalLiquidityFees + t.TotalRegularSwapFees + t.TotalHFTSwapFees
}

// TotalOperations sums every category count.
func (t *MainTreasuryState) TotalOperations() uint64 {
	return t.PoolCreationCount + t.LiquidityOperationCount + t.RegularSwapCount + t.HFTSwapCount
}

// Consistent verifies the standing treasury invariant independent of any
// other state: balance equals lifetime fees minus lifetime withdrawals.
func (t *MainTreasuryState) Consistent() bool {
	return t.TotalBalance == t.TotalFeesCollected()-t.TotalWithdrawn
}

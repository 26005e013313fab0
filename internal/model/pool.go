package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PauseScope selects which pool operation families a pause targets.
// Internal logic branches on this closed set; the packed flags byte exists
// only at the storage and API boundary.
type PauseScope uint8

const (
	PauseLiquidity PauseScope = iota + 1
	PauseSwaps
	PauseAll
)

func (s PauseScope) String() string {
	switch s {
	case PauseLiquidity:
		return "liquidity"
	case PauseSwaps:
		return "swaps"
	case PauseAll:
		return "all"
	default:
		return "unknown"
	}
}

// Valid reports whether the scope is one of the closed set members.
func (s PauseScope) Valid() bool {
	return s == PauseLiquidity || s == PauseSwaps || s == PauseAll
}

// CoversLiquidity reports whether the scope targets liquidity operations.
func (s PauseScope) CoversLiquidity() bool {
	return s == PauseLiquidity || s == PauseAll
}

// CoversSwaps reports whether the scope targets swap operations.
func (s PauseScope) CoversSwaps() bool {
	return s == PauseSwaps || s == PauseAll
}

// Wire bits for the packed pool flags byte.
const (
	FlagOneToManyRatio  uint8 = 1 << 0
	FlagLiquidityPaused uint8 = 1 << 1
	FlagSwapsPaused     uint8 = 1 << 2
)

// WaitPolicy holds per-action-type wait times for delegate governance.
// A zero duration means "unset, fall back to the pool default".
type WaitPolicy struct {
	FeeChange  time.Duration `json:"fee_change"`
	Withdrawal time.Duration `json:"withdrawal"`
	PoolPause  time.Duration `json:"pool_pause"`
}

// WaitFor returns the configured wait for an action type, or zero if unset.
func (p WaitPolicy) WaitFor(t ActionType) time.Duration {
	switch t {
	case ActionFeeChange:
		return p.FeeChange
	case ActionWithdrawal:
		return p.Withdrawal
	case ActionPoolPause:
		return p.PoolPause
	default:
		return 0
	}
}

// Set assigns the wait for an action type.
func (p *WaitPolicy) Set(t ActionType, wait time.Duration) {
	switch t {
	case ActionFeeChange:
		p.FeeChange = wait
	case ActionWithdrawal:
		p.Withdrawal = wait
	case ActionPoolPause:
		p.PoolPause = wait
	}
}

// DefaultWaitPolicy is the per-type wait applied when neither the pool nor
// the delegate carries an override: 72 hours for every action type.
func DefaultWaitPolicy() WaitPolicy {
	const defaultWait = 72 * time.Hour
	return WaitPolicy{
		FeeChange:  defaultWait,
		Withdrawal: defaultWait,
		PoolPause:  defaultWait,
	}
}

// PoolState is the full state record of one fixed-ratio pool, keyed by the
// address derived from its canonical identity. Pools are created once and
// never deleted; freezing happens through the pause scopes.
type PoolState struct {
	Address  common.Hash  `json:"address"`
	Owner    common.Hash  `json:"owner"`
	Identity PoolIdentity `json:"identity"`

	TokenAVault common.Hash `json:"token_a_vault"`
	TokenBVault common.Hash `json:"token_b_vault"`
	LPMintA     common.Hash `json:"lp_mint_a"`
	LPMintB     common.Hash `json:"lp_mint_b"`

	TokenADecimals uint8 `json:"token_a_decimals"`
	TokenBDecimals uint8 `json:"token_b_decimals"`

	ReserveA  uint64 `json:"reserve_a"`
	ReserveB  uint64 `json:"reserve_b"`
	LPSupplyA uint64 `json:"lp_supply_a"`
	LPSupplyB uint64 `json:"lp_supply_b"`

	SwapFeeBps     uint16 `json:"swap_fee_bps"`
	OneToMany      bool   `json:"one_to_many_ratio"`
	CollectedFeesA uint64 `json:"collected_fees_a"`
	CollectedFeesB uint64 `json:"collected_fees_b"`
	WithdrawnFeesA uint64 `json:"withdrawn_fees_a"`
	WithdrawnFeesB uint64 `json:"withdrawn_fees_b"`

	LiquidityPaused bool          `json:"liquidity_paused"`
	SwapsPaused     bool          `json:"swaps_paused"`
	PauseReason     string        `json:"pause_reason,omitempty"`
	PauseDuration   time.Duration `json:"pause_duration,omitempty"`
	PausedAt        time.Time     `json:"paused_at,omitempty"`

	Delegates     []common.Hash              `json:"delegates,omitempty"`
	WaitDefaults  WaitPolicy                 `json:"wait_defaults"`
	WaitOverrides map[common.Hash]WaitPolicy `json:"wait_overrides,omitempty"`

	Actions      map[uint64]*DelegateAction `json:"actions,omitempty"`
	NextActionID uint64                     `json:"next_action_id"`

	CreatedAt time.Time `json:"created_at"`
}

// LPSupply is the combined LP accounting supply across both sides.
func (p *PoolState) LPSupply() uint64 {
	return p.LPSupplyA + p.LPSupplyB
}

// IsDelegate reports whether the key currently holds delegate standing.
func (p *PoolState) IsDelegate(key common.Hash) bool {
	for _, d := range p.Delegates {
		if d == key {
			return true
		}
	}
	return false
}

// WaitTimeFor resolves the effective wait for a delegate and action type:
// delegate override first, then the pool default.
func (p *PoolState) WaitTimeFor(delegate common.Hash, t ActionType) time.Duration {
	if override, ok := p.WaitOverrides[delegate]; ok {
		if wait := override.WaitFor(t); wait > 0 {
			return wait
		}
	}
	return p.WaitDefaults.WaitFor(t)
}

// PendingActions returns the pending subset of the action list.
func (p *PoolState) PendingActions() []*DelegateAction {
	var pending []*DelegateAction
	for _, a := range p.Actions {
		if a.Status == ActionPending {
			pending = append(pending, a)
		}
	}
	return pending
}

// PendingCountFor counts pending actions requested by one delegate.
func (p *PoolState) PendingCountFor(delegate common.Hash) int {
	count := 0
	for _, a := range p.Actions {
		if a.Status == ActionPending && a.Delegate == delegate {
			count++
		}
	}
	return count
}

// PauseBits packs the flag booleans into the wire byte.
func (p *PoolState) PauseBits() uint8 {
	var bits uint8
	if p.OneToMany {
		bits |= FlagOneToManyRatio
	}
	if p.LiquidityPaused {
		bits |= FlagLiquidityPaused
	}
	if p.SwapsPaused {
		bits |= FlagSwapsPaused
	}
	return bits
}

// ApplyPauseBits unpacks a wire byte when restoring a stored snapshot.
// The one-to-many bit is deliberately ignored: that flag is always
// recomputed from the stored ratio, never trusted from the wire.
func (p *PoolState) ApplyPauseBits(bits uint8) {
	p.LiquidityPaused = bits&FlagLiquidityPaused != 0
	p.SwapsPaused = bits&FlagSwapsPaused != 0
}

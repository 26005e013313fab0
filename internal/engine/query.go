package engine

import (
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"fixedratio/internal/model"
)

// Read-only views. Queries never consult the pause hierarchy: operators
// inspect state during an incident exactly when the system is paused.

// PoolInfo is the public view of one pool. Display fields are the
// basis-point values converted through the declared token decimals.
type PoolInfo struct {
	Address         string    `json:"address"`
	Owner           string    `json:"owner"`
	TokenAMint      string    `json:"token_a_mint"`
	TokenBMint      string    `json:"token_b_mint"`
	RatioA          uint64    `json:"ratio_a_numerator"`
	RatioB          uint64    `json:"ratio_b_denominator"`
	RatioADisplay   string    `json:"ratio_a_display"`
	RatioBDisplay   string    `json:"ratio_b_display"`
	RatioType       string    `json:"ratio_type"`
	OneToManyRatio  bool      `json:"one_to_many_ratio"`
	SwapFeeBps      uint16    `json:"swap_fee_bps"`
	Flags           uint8     `json:"flags"`
	LiquidityPaused bool      `json:"liquidity_paused"`
	SwapsPaused     bool      `json:"swaps_paused"`
	PauseReason     string    `json:"pause_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// LiquidityInfo reports reserves and LP accounting for one pool.
type LiquidityInfo struct {
	Address         string `json:"address"`
	ReserveA        uint64 `json:"reserve_a"`
	ReserveB        uint64 `json:"reserve_b"`
	ReserveADisplay string `json:"reserve_a_display"`
	ReserveBDisplay string `json:"reserve_b_display"`
	LPSupplyA       uint64 `json:"lp_supply_a"`
	LPSupplyB       uint64 `json:"lp_supply_b"`
	LPSupply        uint64 `json:"lp_supply"`
}

// FeeInfo reports accumulated and withdrawn token fees for one pool.
type FeeInfo struct {
	Address           string `json:"address"`
	SwapFeeBps        uint16 `json:"swap_fee_bps"`
	CollectedFeesA    uint64 `json:"collected_fees_a"`
	CollectedFeesB    uint64 `json:"collected_fees_b"`
	WithdrawnFeesA    uint64 `json:"withdrawn_fees_a"`
	WithdrawnFeesB    uint64 `json:"withdrawn_fees_b"`
	CollectedADisplay string `json:"collected_a_display"`
	CollectedBDisplay string `json:"collected_b_display"`
}

// TreasuryInfo is the treasury snapshot with per-category breakdowns.
type TreasuryInfo struct {
	Authority      string                  `json:"authority"`
	TotalBalance   uint64                  `json:"total_balance"`
	TotalWithdrawn uint64                  `json:"total_withdrawn"`
	Available      uint64                  `json:"available_for_withdrawal"`
	Categories     map[string]CategoryInfo `json:"categories"`
	LastUpdate     time.Time               `json:"last_update"`
	LastWithdrawal time.Time               `json:"last_withdrawal,omitempty"`
}

// CategoryInfo pairs a fee category's lifetime total with its count.
type CategoryInfo struct {
	Total uint64 `json:"total"`
	Count uint64 `json:"count"`
}

// SystemInfo is the system pause view.
type SystemInfo struct {
	Authority  string    `json:"authority"`
	IsPaused   bool      `json:"is_paused"`
	PausedAt   time.Time `json:"paused_at,omitempty"`
	ReasonCode uint8     `json:"reason_code"`
	Reason     string    `json:"reason,omitempty"`
}

// DelegateInfo lists delegate standing and effective wait times.
type DelegateInfo struct {
	Address   string          `json:"address"`
	Delegates []DelegateEntry `json:"delegates"`
	Pending   int             `json:"pending_actions"`
}

// DelegateEntry is one delegate with resolved per-type waits.
type DelegateEntry struct {
	Delegate       string        `json:"delegate"`
	FeeChangeWait  time.Duration `json:"fee_change_wait"`
	WithdrawalWait time.Duration `json:"withdrawal_wait"`
	PoolPauseWait  time.Duration `json:"pool_pause_wait"`
	Pending        int           `json:"pending"`
}

// ActionInfo is the public view of one delegate action.
type ActionInfo struct {
	ID           uint64    `json:"id"`
	Pool         string    `json:"pool"`
	Delegate     string    `json:"delegate"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	RequestedAt  time.Time `json:"requested_at"`
	ExecutableAt time.Time `json:"executable_at"`
	ResolvedAt   time.Time `json:"resolved_at,omitempty"`
	RevokedBy    string    `json:"revoked_by,omitempty"`
}

// PoolAddresses lists every registered pool address in stable order.
func (e *Engine) PoolAddresses() []common.Hash {
	e.mu.RLock()
	defer e.mu.RUnlock()

	addrs := make([]common.Hash, 0, len(e.pools))
	for addr := range e.pools {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].Hex() < addrs[j].Hex()
	})
	return addrs
}

func (e *Engine) PoolInfo(addr common.Hash) (PoolInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, err := e.pool(addr)
	if err != nil {
		return PoolInfo{}, err
	}
	id := p.Identity
	return PoolInfo{
		Address:         p.Address.Hex(),
		Owner:           p.Owner.Hex(),
		TokenAMint:      id.TokenAMint.Hex(),
		TokenBMint:      id.TokenBMint.Hex(),
		RatioA:          id.RatioANumerator,
		RatioB:          id.RatioBDenominator,
		RatioADisplay:   displayAmount(id.RatioANumerator, p.TokenADecimals),
		RatioBDisplay:   displayAmount(id.RatioBDenominator, p.TokenBDecimals),
		RatioType:       model.ClassifyRatio(id.RatioANumerator, id.RatioBDenominator, p.TokenADecimals, p.TokenBDecimals).String(),
		OneToManyRatio:  model.OneToManyRatio(id.RatioANumerator, id.RatioBDenominator, p.TokenADecimals, p.TokenBDecimals),
		SwapFeeBps:      p.SwapFeeBps,
		Flags:           p.PauseBits(),
		LiquidityPaused: p.LiquidityPaused,
		SwapsPaused:     p.SwapsPaused,
		PauseReason:     p.PauseReason,
		CreatedAt:       p.CreatedAt,
	}, nil
}

func (e *Engine) LiquidityInfo(addr common.Hash) (LiquidityInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, err := e.pool(addr)
	if err != nil {
		return LiquidityInfo{}, err
	}
	return LiquidityInfo{
		Address:         p.Address.Hex(),
		ReserveA:        p.ReserveA,
		ReserveB:        p.ReserveB,
		ReserveADisplay: displayAmount(p.ReserveA, p.TokenADecimals),
		ReserveBDisplay: displayAmount(p.ReserveB, p.TokenBDecimals),
		LPSupplyA:       p.LPSupplyA,
		LPSupplyB:       p.LPSupplyB,
		LPSupply:        p.LPSupply(),
	}, nil
}

func (e *Engine) FeeInfo(addr common.Hash) (FeeInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, err := e.pool(addr)
	if err != nil {
		return FeeInfo{}, err
	}
	return FeeInfo{
		Address:           p.Address.Hex(),
		SwapFeeBps:        p.SwapFeeBps,
		CollectedFeesA:    p.CollectedFeesA,
		CollectedFeesB:    p.CollectedFeesB,
		WithdrawnFeesA:    p.WithdrawnFeesA,
		WithdrawnFeesB:    p.WithdrawnFeesB,
		CollectedADisplay: displayAmount(p.CollectedFeesA, p.TokenADecimals),
		CollectedBDisplay: displayAmount(p.CollectedFeesB, p.TokenBDecimals),
	}, nil
}

func (e *Engine) TreasuryInfo() TreasuryInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t := e.treasury
	return TreasuryInfo{
		Authority:      t.Authority.Hex(),
		TotalBalance:   t.TotalBalance,
		TotalWithdrawn: t.TotalWithdrawn,
		Available:      t.AvailableForWithdrawal(MinTreasuryReserve),
		Categories: map[string]CategoryInfo{
			model.FeePoolCreation.String(): {Total: t.TotalPoolCreationFees, Count: t.PoolCreationCount},
			model.FeeLiquidity.String():    {Total: t.TotalLiquidityFees, Count: t.LiquidityOperationCount},
			model.FeeRegularSwap.String():  {Total: t.TotalRegularSwapFees, Count: t.RegularSwapCount},
			model.FeeHFTSwap.String():      {Total: t.TotalHFTSwapFees, Count: t.HFTSwapCount},
		},
		LastUpdate:     t.LastUpdate,
		LastWithdrawal: t.LastWithdrawal,
	}
}

func (e *Engine) SystemInfo() SystemInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := e.system
	return SystemInfo{
		Authority:  s.Authority.Hex(),
		IsPaused:   s.IsPaused,
		PausedAt:   s.PausedAt,
		ReasonCode: s.ReasonCode,
		Reason:     s.Reason,
	}
}

func (e *Engine) DelegateInfo(addr common.Hash) (DelegateInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, err := e.pool(addr)
	if err != nil {
		return DelegateInfo{}, err
	}
	info := DelegateInfo{
		Address: p.Address.Hex(),
		Pending: len(p.PendingActions()),
	}
	for _, d := range p.Delegates {
		info.Delegates = append(info.Delegates, DelegateEntry{
			Delegate:       d.Hex(),
			FeeChangeWait:  p.WaitTimeFor(d, model.ActionFeeChange),
			WithdrawalWait: p.WaitTimeFor(d, model.ActionWithdrawal),
			PoolPauseWait:  p.WaitTimeFor(d, model.ActionPoolPause),
			Pending:        p.PendingCountFor(d),
		})
	}
	return info, nil
}

func (e *Engine) ActionInfo(addr common.Hash, actionID uint64) (ActionInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, err := e.pool(addr)
	if err != nil {
		return ActionInfo{}, err
	}
	a, ok := p.Actions[actionID]
	if !ok {
		return ActionInfo{}, ErrActionNotFound
	}
	return ActionInfo{
		ID:           a.ID,
		Pool:         a.Pool.Hex(),
		Delegate:     a.Delegate.Hex(),
		Type:         a.Type.String(),
		Status:       a.Status.String(),
		RequestedAt:  a.RequestedAt,
		ExecutableAt: a.ExecutableAt,
		ResolvedAt:   a.ResolvedAt,
		RevokedBy:    revokedByHex(a),
	}, nil
}

func revokedByHex(a *model.DelegateAction) string {
	if a.RevokedBy == (common.Hash{}) {
		return ""
	}
	return a.RevokedBy.Hex()
}

// displayAmount converts a basis-point amount to a display-unit string.
func displayAmount(v uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), -int32(decimals)).String()
}

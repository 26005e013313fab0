package engine

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"fixedratio/internal/model"
)

// InitializePoolParams describes a pool creation request. Token order is
// arbitrary; the engine canonicalizes the pair. Ratios are basis points.
type InitializePoolParams struct {
	Owner common.Hash

	TokenXMint     common.Hash
	TokenXDecimals uint8
	RatioX         uint64

	TokenYMint     common.Hash
	TokenYDecimals uint8
	RatioY         uint64

	SwapFeeBps uint16
}

// InitializePool atomically creates the pool state record and its vault
// sub-accounts, posts the registration fee to the treasury, and registers
// the pool. There is no partial-creation window: either every piece exists
// afterwards or none does.
func (e *Engine) InitializePool(p InitializePoolParams) (*model.PoolState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return nil, err
	}
	if p.RatioX == 0 || p.RatioY == 0 {
		return nil, ErrInvalidRatio
	}
	if p.SwapFeeBps > MaxSwapFeeBps {
		return nil, ErrFeeTooHigh
	}

	identity, err := model.NewPoolIdentity(p.TokenXMint, p.TokenYMint, p.RatioX, p.RatioY)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTokenPair, err)
	}

	addr := identity.PoolAddress()
	if _, ok := e.pools[addr]; ok {
		return nil, ErrPoolExists
	}

	decimalsA, decimalsB := p.TokenXDecimals, p.TokenYDecimals
	if identity.TokenAMint != p.TokenXMint {
		decimalsA, decimalsB = p.TokenYDecimals, p.TokenXDecimals
	}

	pool := &model.PoolState{
		Address:        addr,
		Owner:          p.Owner,
		Identity:       identity,
		TokenAVault:    identity.VaultAddressA(),
		TokenBVault:    identity.VaultAddressB(),
		LPMintA:        identity.LPMintAddressA(),
		LPMintB:        identity.LPMintAddressB(),
		TokenADecimals: decimalsA,
		TokenBDecimals: decimalsB,
		SwapFeeBps:     p.SwapFeeBps,
		OneToMany:      model.OneToManyRatio(identity.RatioANumerator, identity.RatioBDenominator, decimalsA, decimalsB),
		WaitDefaults:   model.DefaultWaitPolicy(),
		Actions:        make(map[uint64]*model.DelegateAction),
		NextActionID:   1,
		CreatedAt:      e.clock.Now(),
	}

	// Vault sub-accounts are owned by the pool itself. Creation happens
	// before the state commit so a ledger failure leaves nothing behind.
	if err := e.ledger.CreateAccount(pool.TokenAVault, identity.TokenAMint, addr); err != nil {
		return nil, fmt.Errorf("create token A vault: %w", err)
	}
	if err := e.ledger.CreateAccount(pool.TokenBVault, identity.TokenBMint, addr); err != nil {
		return nil, fmt.Errorf("create token B vault: %w", err)
	}

	now := e.clock.Now()
	e.treasury.RecordFee(model.FeePoolCreation, RegistrationFee, now)
	e.pools[addr] = pool

	e.logger.Info("pool initialized",
		zap.String("pool", addr.Hex()),
		zap.String("token_a", identity.TokenAMint.Hex()),
		zap.String("token_b", identity.TokenBMint.Hex()),
		zap.Uint64("ratio_a", identity.RatioANumerator),
		zap.Uint64("ratio_b", identity.RatioBDenominator),
		zap.Bool("one_to_many", pool.OneToMany),
		zap.Uint16("swap_fee_bps", p.SwapFeeBps),
	)
	e.record(model.OperationRecord{
		Op:    "initialize_pool",
		Pool:  addr.Hex(),
		Actor: p.Owner.Hex(),
		Fee:   RegistrationFee,
	})

	return pool, nil
}

// SetSwapFee changes the pool swap fee directly. Owner-only; delegates go
// through the governed FeeChange action instead.
func (e *Engine) SetSwapFee(pool, caller common.Hash, feeBps uint16) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}
	p, err := e.pool(pool)
	if err != nil {
		return err
	}
	if caller != p.Owner {
		return ErrUnauthorized
	}
	if feeBps > MaxSwapFeeBps {
		return ErrFeeTooHigh
	}

	old := p.SwapFeeBps
	p.SwapFeeBps = feeBps

	e.logger.Info("swap fee updated",
		zap.String("pool", pool.Hex()),
		zap.Uint16("old_bps", old),
		zap.Uint16("new_bps", feeBps),
	)
	e.record(model.OperationRecord{
		Op:     "set_swap_fee",
		Pool:   pool.Hex(),
		Actor:  caller.Hex(),
		Detail: fmt.Sprintf("bps=%d", feeBps),
	})
	return nil
}

// WithdrawPoolFees pays accumulated token fees out of a vault to the given
// destination token account. Owner-only; the delegate path is the governed
// Withdrawal action, which re-validates and then shares this payout.
func (e *Engine) WithdrawPoolFees(pool, caller, tokenMint common.Hash, amount uint64, destination common.Hash) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}
	p, err := e.pool(pool)
	if err != nil {
		return err
	}
	if caller != p.Owner {
		return ErrUnauthorized
	}

	if err := e.payoutPoolFees(p, tokenMint, amount, destination); err != nil {
		return err
	}

	e.record(model.OperationRecord{
		Op:        "withdraw_pool_fees",
		Pool:      pool.Hex(),
		Actor:     caller.Hex(),
		AmountOut: amount,
	})
	return nil
}

// payoutPoolFees validates and applies a fee payout for one token side.
// Callers hold the engine lock and have already authorized the movement.
func (e *Engine) payoutPoolFees(p *model.PoolState, tokenMint common.Hash, amount uint64, destination common.Hash) error {
	if amount == 0 {
		return ErrInvalidActionParams
	}

	var vault common.Hash
	var collected, withdrawn *uint64
	switch tokenMint {
	case p.Identity.TokenAMint:
		vault = p.TokenAVault
		collected, withdrawn = &p.CollectedFeesA, &p.WithdrawnFeesA
	case p.Identity.TokenBMint:
		vault = p.TokenBVault
		collected, withdrawn = &p.CollectedFeesB, &p.WithdrawnFeesB
	default:
		return ErrInvalidTokenAccount
	}

	if amount > *collected {
		return ErrInsufficientFunds
	}
	dest, err := e.ledger.Account(destination)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTokenAccount, err)
	}
	if dest.Mint != tokenMint {
		return ErrInvalidTokenAccount
	}

	if err := e.ledger.Transfer(vault, destination, amount); err != nil {
		return fmt.Errorf("fee payout transfer: %w", err)
	}

	*collected -= amount
	*withdrawn += amount

	e.logger.Info("pool fees withdrawn",
		zap.String("pool", p.Address.Hex()),
		zap.String("token", tokenMint.Hex()),
		zap.Uint64("amount", amount),
	)
	return nil
}

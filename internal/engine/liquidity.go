package engine

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"fixedratio/internal/model"
)

// TokenSide names one side of the canonical pair.
type TokenSide uint8

const (
	SideA TokenSide = iota + 1
	SideB
)

func (s TokenSide) String() string {
	switch s {
	case SideA:
		return "a"
	case SideB:
		return "b"
	default:
		return "unknown"
	}
}

// DepositParams adds liquidity on one token side. LP accounting is 1:1
// with the net reserve change under the fixed-ratio model.
type DepositParams struct {
	Pool         common.Hash
	Provider     common.Hash
	Side         TokenSide
	Amount       uint64
	TokenAccount common.Hash
	LPAccount    common.Hash
}

// WithdrawParams burns LP accounting units and pays out the matching
// reserve amount on the same side.
type WithdrawParams struct {
	Pool         common.Hash
	Provider     common.Hash
	Side         TokenSide
	LPAmount     uint64
	TokenAccount common.Hash
	LPAccount    common.Hash
}

// Deposit moves Amount from the provider's token account into the side
// vault and mints the same amount of LP units. Rounding never applies:
// the fixed-ratio model keeps LP supply exactly 1:1 with reserves.
func (e *Engine) Deposit(p DepositParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}
	pool, err := e.pool(p.Pool)
	if err != nil {
		return err
	}
	if pool.LiquidityPaused {
		return ErrPoolPaused
	}
	if p.Amount == 0 {
		return ErrInvalidActionParams
	}

	mint, vault, lpMint, reserve, lpSupply, err := sideRefs(pool, p.Side)
	if err != nil {
		return err
	}

	src, err := e.ledger.Account(p.TokenAccount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTokenAccount, err)
	}
	if src.Mint != mint || src.Owner != p.Provider {
		return ErrInvalidTokenAccount
	}
	if src.Balance < p.Amount {
		return ErrInsufficientFunds
	}
	lpAcc, err := e.ledger.Account(p.LPAccount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTokenAccount, err)
	}
	if lpAcc.Mint != lpMint || lpAcc.Owner != p.Provider {
		return ErrInvalidTokenAccount
	}

	newReserve, err := checkedAdd(*reserve, p.Amount)
	if err != nil {
		return err
	}
	newSupply, err := checkedAdd(*lpSupply, p.Amount)
	if err != nil {
		return err
	}

	if err := e.ledger.Transfer(p.TokenAccount, vault, p.Amount); err != nil {
		return fmt.Errorf("deposit transfer: %w", err)
	}
	if err := e.ledger.Mint(lpMint, p.LPAccount, p.Amount); err != nil {
		return fmt.Errorf("lp mint: %w", err)
	}

	*reserve = newReserve
	*lpSupply = newSupply
	e.treasury.RecordFee(model.FeeLiquidity, LiquidityOperationFee, e.clock.Now())

	e.logger.Info("liquidity deposited",
		zap.String("pool", p.Pool.Hex()),
		zap.String("side", p.Side.String()),
		zap.Uint64("amount", p.Amount),
	)
	e.record(model.OperationRecord{
		Op:       "deposit",
		Pool:     p.Pool.Hex(),
		Actor:    p.Provider.Hex(),
		AmountIn: p.Amount,
		Detail:   "side_" + p.Side.String(),
	})
	return nil
}

// Withdraw burns LPAmount of the provider's LP units and returns the same
// amount of the side token from the vault.
func (e *Engine) Withdraw(p WithdrawParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}
	pool, err := e.pool(p.Pool)
	if err != nil {
		return err
	}
	if pool.LiquidityPaused {
		return ErrPoolPaused
	}
	if p.LPAmount == 0 {
		return ErrInvalidActionParams
	}

	mint, vault, lpMint, reserve, lpSupply, err := sideRefs(pool, p.Side)
	if err != nil {
		return err
	}

	lpAcc, err := e.ledger.Account(p.LPAccount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTokenAccount, err)
	}
	if lpAcc.Mint != lpMint || lpAcc.Owner != p.Provider {
		return ErrInvalidTokenAccount
	}
	if lpAcc.Balance < p.LPAmount {
		return ErrInsufficientFunds
	}
	dst, err := e.ledger.Account(p.TokenAccount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTokenAccount, err)
	}
	if dst.Mint != mint || dst.Owner != p.Provider {
		return ErrInvalidTokenAccount
	}
	if *reserve < p.LPAmount || *lpSupply < p.LPAmount {
		return ErrInsufficientFunds
	}

	if err := e.ledger.Burn(lpMint, p.LPAccount, p.LPAmount); err != nil {
		return fmt.Errorf("lp burn: %w", err)
	}
	if err := e.ledger.Transfer(vault, p.TokenAccount, p.LPAmount); err != nil {
		return fmt.Errorf("withdraw transfer: %w", err)
	}

	*reserve -= p.LPAmount
	*lpSupply -= p.LPAmount
	e.treasury.RecordFee(model.FeeLiquidity, LiquidityOperationFee, e.clock.Now())

	e.logger.Info("liquidity withdrawn",
		zap.String("pool", p.Pool.Hex()),
		zap.String("side", p.Side.String()),
		zap.Uint64("amount", p.LPAmount),
	)
	e.record(model.OperationRecord{
		Op:        "withdraw",
		Pool:      p.Pool.Hex(),
		Actor:     p.Provider.Hex(),
		AmountOut: p.LPAmount,
		Detail:    "side_" + p.Side.String(),
	})
	return nil
}

// sideRefs resolves the mint, vault, LP mint, and the mutable reserve and
// LP supply fields for one token side.
func sideRefs(pool *model.PoolState, side TokenSide) (mint, vault, lpMint common.Hash, reserve, lpSupply *uint64, err error) {
	switch side {
	case SideA:
		return pool.Identity.TokenAMint, pool.TokenAVault, pool.LPMintA, &pool.ReserveA, &pool.LPSupplyA, nil
	case SideB:
		return pool.Identity.TokenBMint, pool.TokenBVault, pool.LPMintB, &pool.ReserveB, &pool.LPSupplyB, nil
	default:
		return common.Hash{}, common.Hash{}, common.Hash{}, nil, nil, ErrInvalidActionParams
	}
}

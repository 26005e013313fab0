package engine

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"fixedratio/internal/model"
)

// SwapDirection selects which token side enters the pool.
type SwapDirection uint8

const (
	SwapAToB SwapDirection = iota + 1
	SwapBToA
)

func (d SwapDirection) String() string {
	switch d {
	case SwapAToB:
		return "a_to_b"
	case SwapBToA:
		return "b_to_a"
	default:
		return "unknown"
	}
}

// SwapTier picks the protocol contract fee charged for the swap.
type SwapTier uint8

const (
	TierRegular SwapTier = iota
	TierHFT
)

// SwapParams names the pool, the trader, and the trader's token accounts
// on both sides of the exchange.
type SwapParams struct {
	Pool       common.Hash
	Trader     common.Hash
	AmountIn   uint64
	Direction  SwapDirection
	Tier       SwapTier
	InAccount  common.Hash
	OutAccount common.Hash
}

// Swap exchanges AmountIn of the input token for the output token at the
// pool's fixed ratio, deducting the swap fee from the input side first.
//
// Fee and output both round down (integer division, pool-favoring). The
// cheap checks run before any account load, and every mutation is staged
// and committed together after the ledger transfers succeed.
func (e *Engine) Swap(p SwapParams) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return 0, err
	}
	pool, err := e.pool(p.Pool)
	if err != nil {
		return 0, err
	}
	if pool.SwapsPaused {
		return 0, ErrPoolPaused
	}
	if p.AmountIn == 0 {
		return 0, ErrInvalidSwapAmount
	}
	if p.Direction != SwapAToB && p.Direction != SwapBToA {
		return 0, ErrInvalidSwapAmount
	}

	var (
		mintIn, mintOut   common.Hash
		vaultIn, vaultOut common.Hash
		ratioIn, ratioOut uint64
	)
	if p.Direction == SwapAToB {
		mintIn, mintOut = pool.Identity.TokenAMint, pool.Identity.TokenBMint
		vaultIn, vaultOut = pool.TokenAVault, pool.TokenBVault
		ratioIn, ratioOut = pool.Identity.RatioANumerator, pool.Identity.RatioBDenominator
	} else {
		mintIn, mintOut = pool.Identity.TokenBMint, pool.Identity.TokenAMint
		vaultIn, vaultOut = pool.TokenBVault, pool.TokenAVault
		ratioIn, ratioOut = pool.Identity.RatioBDenominator, pool.Identity.RatioANumerator
	}

	fee, err := mulDiv(p.AmountIn, uint64(pool.SwapFeeBps), FeeDenominator)
	if err != nil {
		return 0, err
	}
	afterFee := p.AmountIn - fee
	amountOut, err := mulDiv(afterFee, ratioOut, ratioIn)
	if err != nil {
		return 0, err
	}
	if amountOut == 0 {
		return 0, ErrInvalidSwapAmount
	}

	reserveIn, reserveOut := &pool.ReserveA, &pool.ReserveB
	collectedIn := &pool.CollectedFeesA
	if p.Direction == SwapBToA {
		reserveIn, reserveOut = &pool.ReserveB, &pool.ReserveA
		collectedIn = &pool.CollectedFeesB
	}
	if *reserveOut < amountOut {
		return 0, ErrInsufficientFunds
	}

	inAcc, err := e.ledger.Account(p.InAccount)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTokenAccount, err)
	}
	if inAcc.Mint != mintIn || inAcc.Owner != p.Trader {
		return 0, ErrInvalidTokenAccount
	}
	if inAcc.Balance < p.AmountIn {
		return 0, ErrInsufficientFunds
	}
	outAcc, err := e.ledger.Account(p.OutAccount)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTokenAccount, err)
	}
	if outAcc.Mint != mintOut {
		return 0, ErrInvalidTokenAccount
	}

	// Stage the new pool values; nothing is written until both transfers
	// have gone through.
	newReserveIn, err := checkedAdd(*reserveIn, afterFee)
	if err != nil {
		return 0, err
	}
	newCollected, err := checkedAdd(*collectedIn, fee)
	if err != nil {
		return 0, err
	}
	newReserveOut := *reserveOut - amountOut

	if err := e.ledger.Transfer(p.InAccount, vaultIn, p.AmountIn); err != nil {
		return 0, fmt.Errorf("swap deposit transfer: %w", err)
	}
	if err := e.ledger.Transfer(vaultOut, p.OutAccount, amountOut); err != nil {
		return 0, fmt.Errorf("swap payout transfer: %w", err)
	}

	*reserveIn = newReserveIn
	*reserveOut = newReserveOut
	*collectedIn = newCollected

	now := e.clock.Now()
	contractFee := uint64(SwapContractFee)
	category := model.FeeRegularSwap
	if p.Tier == TierHFT {
		contractFee = HFTSwapContractFee
		category = model.FeeHFTSwap
	}
	e.treasury.RecordFee(category, contractFee, now)

	e.logger.Info("swap executed",
		zap.String("pool", p.Pool.Hex()),
		zap.String("direction", p.Direction.String()),
		zap.Uint64("amount_in", p.AmountIn),
		zap.Uint64("fee", fee),
		zap.Uint64("amount_out", amountOut),
	)
	e.record(model.OperationRecord{
		Op:        "swap",
		Pool:      p.Pool.Hex(),
		Actor:     p.Trader.Hex(),
		AmountIn:  p.AmountIn,
		AmountOut: amountOut,
		Fee:       fee,
		Detail:    p.Direction.String(),
	})

	return amountOut, nil
}

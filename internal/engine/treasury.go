package engine

import (
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"fixedratio/internal/model"
)

// WithdrawTreasuryFees moves amount out of the treasury to destination.
// Authority-only. The withdrawal always leaves MinTreasuryReserve behind
// and fails atomically when the request exceeds the available balance.
func (e *Engine) WithdrawTreasuryFees(caller common.Hash, amount uint64, destination common.Hash) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}
	if caller != e.treasury.Authority {
		return ErrUnauthorized
	}
	if amount == 0 {
		return ErrInvalidActionParams
	}
	if amount > e.treasury.AvailableForWithdrawal(MinTreasuryReserve) {
		return ErrInsufficientFunds
	}

	e.treasury.RecordWithdrawal(amount, e.clock.Now())

	e.logger.Info("treasury withdrawal",
		zap.Uint64("amount", amount),
		zap.String("destination", destination.Hex()),
		zap.Uint64("remaining", e.treasury.TotalBalance),
	)
	e.record(model.OperationRecord{
		Op:        "withdraw_treasury_fees",
		Actor:     caller.Hex(),
		AmountOut: amount,
		Detail:    destination.Hex(),
	})
	return nil
}

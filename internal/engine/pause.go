package engine

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"fixedratio/internal/model"
)

// PauseSystem halts every mutating operation system-wide. Authority-only.
// Pausing an already-paused system is an error, not a no-op: a redundant
// toggle means the caller's view of the world is wrong.
func (e *Engine) PauseSystem(caller common.Hash, reasonCode uint8, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.system.Authority {
		return ErrUnauthorized
	}
	if e.system.IsPaused {
		return ErrSystemAlreadyPaused
	}

	e.system.Pause(reasonCode, reason, e.clock.Now())
	e.logger.Warn("system paused",
		zap.Uint8("reason_code", reasonCode),
		zap.String("reason", reason),
	)
	e.record(model.OperationRecord{
		Op:     "pause_system",
		Actor:  caller.Hex(),
		Detail: reason,
	})
	return nil
}

// UnpauseSystem lifts the system-wide pause. Authority-only.
func (e *Engine) UnpauseSystem(caller common.Hash) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.system.Authority {
		return ErrUnauthorized
	}
	if !e.system.IsPaused {
		return ErrSystemNotPaused
	}

	e.system.Unpause()
	e.logger.Info("system unpaused")
	e.record(model.OperationRecord{
		Op:    "unpause_system",
		Actor: caller.Hex(),
	})
	return nil
}

// PausePool disables the targeted operation families on one pool.
// Owner-only here; delegates reach the same transition through a governed
// PoolPause action. The system-level switch is consulted first and
// dominates: pool flags are irrelevant while the system is paused.
func (e *Engine) PausePool(pool, caller common.Hash, scope model.PauseScope, duration time.Duration, reason string) error {
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

	if err := e.applyPoolPause(p, scope, duration, reason); err != nil {
		return err
	}
	e.record(model.OperationRecord{
		Op:     "pause_pool",
		Pool:   pool.Hex(),
		Actor:  caller.Hex(),
		Detail: scope.String(),
	})
	return nil
}

// UnpausePool re-enables the targeted operation families. Owner-only.
func (e *Engine) UnpausePool(pool, caller common.Hash, scope model.PauseScope) error {
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
	if !scope.Valid() {
		return ErrInvalidActionParams
	}

	// Strict guard: every targeted flag must currently be set.
	if scope.CoversLiquidity() && !p.LiquidityPaused {
		return ErrPoolNotPaused
	}
	if scope.CoversSwaps() && !p.SwapsPaused {
		return ErrPoolNotPaused
	}

	if scope.CoversLiquidity() {
		p.LiquidityPaused = false
	}
	if scope.CoversSwaps() {
		p.SwapsPaused = false
	}
	if !p.LiquidityPaused && !p.SwapsPaused {
		p.PauseReason = ""
		p.PauseDuration = 0
		p.PausedAt = time.Time{}
	}

	e.logger.Info("pool unpaused",
		zap.String("pool", pool.Hex()),
		zap.String("scope", scope.String()),
	)
	e.record(model.OperationRecord{
		Op:     "unpause_pool",
		Pool:   pool.Hex(),
		Actor:  caller.Hex(),
		Detail: scope.String(),
	})
	return nil
}

// applyPoolPause is the shared pause transition for the owner path and the
// delegate governance path. The caller holds the lock and has authorized
// the change. Strict idempotency: every targeted flag must be clear.
func (e *Engine) applyPoolPause(p *model.PoolState, scope model.PauseScope, duration time.Duration, reason string) error {
	if !scope.Valid() {
		return ErrInvalidActionParams
	}
	if scope.CoversLiquidity() && p.LiquidityPaused {
		return ErrPoolAlreadyPaused
	}
	if scope.CoversSwaps() && p.SwapsPaused {
		return ErrPoolAlreadyPaused
	}

	if scope.CoversLiquidity() {
		p.LiquidityPaused = true
	}
	if scope.CoversSwaps() {
		p.SwapsPaused = true
	}
	p.PauseReason = reason
	p.PauseDuration = duration
	p.PausedAt = e.clock.Now()

	e.logger.Warn("pool paused",
		zap.String("pool", p.Address.Hex()),
		zap.String("scope", scope.String()),
		zap.Duration("duration", duration),
		zap.String("reason", reason),
	)
	return nil
}

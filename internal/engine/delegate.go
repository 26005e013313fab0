package engine

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"fixedratio/internal/model"
)

// AddDelegate grants delegate standing on a pool. Owner-only; the pool
// carries at most MaxDelegates delegates at a time.
func (e *Engine) AddDelegate(pool, caller, delegate common.Hash) error {
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
	if delegate == p.Owner || delegate == (common.Hash{}) {
		return ErrInvalidActionParams
	}
	if p.IsDelegate(delegate) {
		return ErrDelegateExists
	}
	if len(p.Delegates) >= MaxDelegates {
		return ErrDelegateLimit
	}

	p.Delegates = append(p.Delegates, delegate)

	e.logger.Info("delegate added",
		zap.String("pool", pool.Hex()),
		zap.String("delegate", delegate.Hex()),
	)
	e.record(model.OperationRecord{
		Op:     "add_delegate",
		Pool:   pool.Hex(),
		Actor:  caller.Hex(),
		Detail: delegate.Hex(),
	})
	return nil
}

// RemoveDelegate revokes delegate standing. The removed delegate's pending
// actions are revoked with it so nothing they proposed stays executable.
func (e *Engine) RemoveDelegate(pool, caller, delegate common.Hash) error {
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
	if !p.IsDelegate(delegate) {
		return ErrDelegateNotFound
	}

	kept := p.Delegates[:0]
	for _, d := range p.Delegates {
		if d != delegate {
			kept = append(kept, d)
		}
	}
	p.Delegates = kept
	delete(p.WaitOverrides, delegate)

	now := e.clock.Now()
	revoked := 0
	for _, a := range p.Actions {
		if a.Status == model.ActionPending && a.Delegate == delegate {
			a.Status = model.ActionRevoked
			a.ResolvedAt = now
			a.RevokedBy = caller
			revoked++
		}
	}

	e.logger.Info("delegate removed",
		zap.String("pool", pool.Hex()),
		zap.String("delegate", delegate.Hex()),
		zap.Int("actions_revoked", revoked),
	)
	e.record(model.OperationRecord{
		Op:     "remove_delegate",
		Pool:   pool.Hex(),
		Actor:  caller.Hex(),
		Detail: delegate.Hex(),
	})
	return nil
}

// SetDelegateWaitTime sets a delegate-specific wait override for one
// action type. Owner-only, bounded by the protocol min/max.
func (e *Engine) SetDelegateWaitTime(pool, caller, delegate common.Hash, actionType model.ActionType, wait time.Duration) error {
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
	if !p.IsDelegate(delegate) {
		return ErrDelegateNotFound
	}
	if !actionType.Valid() {
		return ErrInvalidActionType
	}
	if wait < MinActionWait || wait > MaxActionWait {
		return ErrInvalidWaitTime
	}

	if p.WaitOverrides == nil {
		p.WaitOverrides = make(map[common.Hash]model.WaitPolicy)
	}
	policy := p.WaitOverrides[delegate]
	policy.Set(actionType, wait)
	p.WaitOverrides[delegate] = policy

	e.logger.Info("delegate wait time set",
		zap.String("pool", pool.Hex()),
		zap.String("delegate", delegate.Hex()),
		zap.String("action_type", actionType.String()),
		zap.Duration("wait", wait),
	)
	e.record(model.OperationRecord{
		Op:     "set_delegate_wait_time",
		Pool:   pool.Hex(),
		Actor:  caller.Hex(),
		Detail: actionType.String(),
	})
	return nil
}

// RequestDelegateAction opens a governance proposal. Parameters are
// validated eagerly so an invalid request never enters the pending list,
// and per-delegate plus per-pool pending caps bound the list size.
func (e *Engine) RequestDelegateAction(pool, caller common.Hash, actionType model.ActionType, params model.ActionParams) (*model.DelegateAction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return nil, err
	}
	p, err := e.pool(pool)
	if err != nil {
		return nil, err
	}
	if !p.IsDelegate(caller) {
		return nil, ErrNotDelegate
	}
	if !actionType.Valid() {
		return nil, ErrInvalidActionType
	}
	if err := validateActionParams(p, actionType, params); err != nil {
		return nil, err
	}
	if p.PendingCountFor(caller) >= MaxPendingPerDelegate {
		return nil, ErrRateLimited
	}
	if len(p.PendingActions()) >= MaxPendingActions {
		return nil, ErrMaxPendingActions
	}

	wait := p.WaitTimeFor(caller, actionType)
	if wait < MinActionWait {
		wait = MinActionWait
	}
	if wait > MaxActionWait {
		wait = MaxActionWait
	}

	now := e.clock.Now()
	action := &model.DelegateAction{
		ID:           p.NextActionID,
		Pool:         pool,
		Delegate:     caller,
		Type:         actionType,
		Params:       params,
		RequestedAt:  now,
		ExecutableAt: now.Add(wait),
		Status:       model.ActionPending,
	}
	p.NextActionID++
	p.Actions[action.ID] = action

	e.logger.Info("delegate action requested",
		zap.String("pool", pool.Hex()),
		zap.Uint64("action_id", action.ID),
		zap.String("type", actionType.String()),
		zap.String("delegate", caller.Hex()),
		zap.Duration("wait", wait),
	)
	e.record(model.OperationRecord{
		Op:       "request_delegate_action",
		Pool:     pool.Hex(),
		Actor:    caller.Hex(),
		ActionID: action.ID,
		Detail:   actionType.String(),
	})
	return action, nil
}

// ExecuteDelegateAction applies a pending action once its wait has
// elapsed. Anyone may invoke execution; eligibility and the action's
// current preconditions are recomputed here, not trusted from request
// time — the world may have changed during the wait.
func (e *Engine) ExecuteDelegateAction(pool, caller common.Hash, actionID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}
	p, err := e.pool(pool)
	if err != nil {
		return err
	}
	action, ok := p.Actions[actionID]
	if !ok {
		return ErrActionNotFound
	}
	if action.Status != model.ActionPending {
		return ErrActionNotPending
	}
	now := e.clock.Now()
	if !action.Executable(now) {
		return ErrActionNotReady
	}

	switch action.Type {
	case model.ActionFeeChange:
		if action.Params.NewFeeBps > MaxSwapFeeBps {
			return ErrInvalidActionParams
		}
		p.SwapFeeBps = action.Params.NewFeeBps
	case model.ActionWithdrawal:
		if err := e.payoutPoolFees(p, action.Params.TokenMint, action.Params.Amount, action.Params.Destination); err != nil {
			return err
		}
	case model.ActionPoolPause:
		if err := e.applyPoolPause(p, action.Params.Scope, action.Params.Duration, action.Params.Reason); err != nil {
			return err
		}
	default:
		return ErrInvalidActionType
	}

	action.Status = model.ActionExecuted
	action.ResolvedAt = now

	e.logger.Info("delegate action executed",
		zap.String("pool", pool.Hex()),
		zap.Uint64("action_id", actionID),
		zap.String("type", action.Type.String()),
		zap.String("caller", caller.Hex()),
	)
	e.record(model.OperationRecord{
		Op:       "execute_delegate_action",
		Pool:     pool.Hex(),
		Actor:    caller.Hex(),
		ActionID: actionID,
		Detail:   action.Type.String(),
	})
	return nil
}

// RevokeDelegateAction cancels a pending action. The pool owner can revoke
// anything; a delegate only their own. Revoked is terminal.
func (e *Engine) RevokeDelegateAction(pool, caller common.Hash, actionID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}
	p, err := e.pool(pool)
	if err != nil {
		return err
	}
	action, ok := p.Actions[actionID]
	if !ok {
		return ErrActionNotFound
	}
	if caller != p.Owner && caller != action.Delegate {
		return ErrUnauthorized
	}
	if action.Status != model.ActionPending {
		return ErrActionNotPending
	}

	action.Status = model.ActionRevoked
	action.ResolvedAt = e.clock.Now()
	action.RevokedBy = caller

	e.logger.Info("delegate action revoked",
		zap.String("pool", pool.Hex()),
		zap.Uint64("action_id", actionID),
		zap.String("revoked_by", caller.Hex()),
	)
	e.record(model.OperationRecord{
		Op:       "revoke_delegate_action",
		Pool:     pool.Hex(),
		Actor:    caller.Hex(),
		ActionID: actionID,
	})
	return nil
}

// validateActionParams rejects malformed proposals at request time.
// Execution re-validates; this only keeps junk out of the pending list.
func validateActionParams(p *model.PoolState, actionType model.ActionType, params model.ActionParams) error {
	switch actionType {
	case model.ActionFeeChange:
		if params.NewFeeBps > MaxSwapFeeBps {
			return ErrFeeTooHigh
		}
	case model.ActionWithdrawal:
		if params.Amount == 0 {
			return ErrInvalidActionParams
		}
		if params.TokenMint != p.Identity.TokenAMint && params.TokenMint != p.Identity.TokenBMint {
			return ErrInvalidActionParams
		}
		if params.Destination == (common.Hash{}) {
			return ErrInvalidActionParams
		}
	case model.ActionPoolPause:
		if !params.Scope.Valid() {
			return ErrInvalidActionParams
		}
		if params.Duration <= 0 || params.Duration > MaxPoolPauseDuration {
			return ErrInvalidActionParams
		}
	}
	return nil
}

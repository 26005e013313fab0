package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ActionType identifies the privileged operation a delegate is proposing.
type ActionType uint8

const (
	ActionFeeChange ActionType = iota + 1
	ActionWithdrawal
	ActionPoolPause
)

func (t ActionType) String() string {
	switch t {
	case ActionFeeChange:
		return "fee_change"
	case ActionWithdrawal:
		return "withdrawal"
	case ActionPoolPause:
		return "pool_pause"
	default:
		return "unknown"
	}
}

// Valid reports whether the type is a known action type.
func (t ActionType) Valid() bool {
	return t == ActionFeeChange || t == ActionWithdrawal || t == ActionPoolPause
}

// ActionStatus is the delegate action lifecycle state. Executed and Revoked
// are terminal; a record never leaves either once entered.
type ActionStatus uint8

const (
	ActionPending ActionStatus = iota + 1
	ActionExecuted
	ActionRevoked
)

func (s ActionStatus) String() string {
	switch s {
	case ActionPending:
		return "pending"
	case ActionExecuted:
		return "executed"
	case ActionRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// ActionParams is the variant payload of a delegate action. Which fields
// are meaningful is determined by the action type on the enclosing record;
// this is a persisted tagged union, not a callback.
type ActionParams struct {
	// FeeChange
	NewFeeBps uint16 `json:"new_fee_bps,omitempty"`

	// Withdrawal
	TokenMint   common.Hash `json:"token_mint,omitempty"`
	Amount      uint64      `json:"amount,omitempty"`
	Destination common.Hash `json:"destination,omitempty"`

	// PoolPause
	Scope    PauseScope    `json:"scope,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Reason   string        `json:"reason,omitempty"`
}

// DelegateAction is one outstanding (or settled) governance proposal,
// scoped to a pool. The wait time is an eligibility floor, not a deadline:
// a pending action stays valid until explicitly executed or revoked.
type DelegateAction struct {
	ID       uint64       `json:"id"`
	Pool     common.Hash  `json:"pool"`
	Delegate common.Hash  `json:"delegate"`
	Type     ActionType   `json:"type"`
	Params   ActionParams `json:"params"`

	RequestedAt  time.Time `json:"requested_at"`
	ExecutableAt time.Time `json:"executable_at"`

	Status     ActionStatus `json:"status"`
	ResolvedAt time.Time    `json:"resolved_at,omitempty"`
	RevokedBy  common.Hash  `json:"revoked_by,omitempty"`
}

// Executable reports whether the wait has elapsed, boundary inclusive:
// an action becomes eligible at exactly RequestedAt + wait.
func (a *DelegateAction) Executable(now time.Time) bool {
	return !now.Before(a.ExecutableAt)
}

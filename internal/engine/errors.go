package engine

import "errors"

// ErrorKind is the failure category callers branch on: retry a transient
// funds shortfall, abort an authorization failure.
type ErrorKind uint8

const (
	KindValidation ErrorKind = iota + 1
	KindAuthorization
	KindInsufficientFunds
	KindArithmetic
	KindState
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindArithmetic:
		return "arithmetic"
	case KindState:
		return "state"
	default:
		return "unknown"
	}
}

// Error is a protocol error with a stable numeric code. Every rejected
// operation leaves state identical to before the call.
type Error struct {
	Kind ErrorKind
	Code uint32
	msg  string
}

func (e *Error) Error() string { return e.msg }

var (
	ErrInvalidTokenPair    = &Error{KindValidation, 1001, "invalid token pair"}
	ErrInvalidRatio        = &Error{KindValidation, 1002, "invalid ratio"}
	ErrInsufficientFunds   = &Error{KindInsufficientFunds, 1003, "insufficient funds"}
	ErrInvalidTokenAccount = &Error{KindValidation, 1004, "invalid token account"}
	ErrInvalidSwapAmount   = &Error{KindValidation, 1005, "invalid swap amount"}
	ErrPoolPaused          = &Error{KindState, 1007, "pool operations paused"}
	ErrDelegateLimit       = &Error{KindState, 1008, "delegate limit exceeded"}
	ErrDelegateExists      = &Error{KindState, 1009, "delegate already exists"}
	ErrDelegateNotFound    = &Error{KindState, 1010, "delegate not found"}
	ErrInvalidWaitTime     = &Error{KindValidation, 1011, "invalid wait time"}
	ErrUnauthorized        = &Error{KindAuthorization, 1012, "unauthorized"}
	ErrNotDelegate         = &Error{KindAuthorization, 1013, "caller is not a delegate"}
	ErrInvalidActionParams = &Error{KindValidation, 1014, "invalid action parameters"}
	ErrInvalidActionType   = &Error{KindValidation, 1015, "invalid action type"}
	ErrActionNotReady      = &Error{KindState, 1016, "action not yet eligible for execution"}
	ErrActionNotFound      = &Error{KindState, 1017, "action not found"}
	ErrMaxPendingActions   = &Error{KindState, 1018, "maximum pending actions reached"}
	ErrArithmetic          = &Error{KindArithmetic, 1019, "arithmetic overflow or division by zero"}
	ErrActionNotPending    = &Error{KindState, 1020, "action is not pending"}
	ErrRateLimited         = &Error{KindState, 1022, "delegate pending action limit reached"}
	ErrSystemPaused        = &Error{KindState, 1023, "system is paused"}
	ErrSystemAlreadyPaused = &Error{KindState, 1024, "system is already paused"}
	ErrSystemNotPaused     = &Error{KindState, 1025, "system is not paused"}
	ErrPoolAlreadyPaused   = &Error{KindState, 1028, "pool scope already paused"}
	ErrPoolNotPaused       = &Error{KindState, 1029, "pool scope is not paused"}
	ErrPoolExists          = &Error{KindState, 1030, "pool already exists"}
	ErrPoolNotFound        = &Error{KindValidation, 1031, "pool not found"}
	ErrFeeTooHigh          = &Error{KindValidation, 1032, "swap fee above maximum"}
)

// IsKind reports whether err carries the given failure category anywhere
// in its chain.
func IsKind(err error, kind ErrorKind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// Code extracts the stable protocol code from err, or zero if err is not
// a protocol error.
func Code(err error) uint32 {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return 0
}

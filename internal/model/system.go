package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Pause reason codes, stored alongside the free-text reason for compact
// client branching. Code 255 marks a custom free-text reason.
const (
	PauseReasonNone        uint8 = 0
	PauseReasonUpgrade     uint8 = 2
	PauseReasonSecurity    uint8 = 3
	PauseReasonMaintenance uint8 = 4
	PauseReasonEmergency   uint8 = 5
	PauseReasonGovernance  uint8 = 6
	PauseReasonCustom      uint8 = 255
)

// SystemState is the process-wide pause switch. While paused, every
// mutating operation is rejected; read-only queries stay available so
// operators can inspect state during an incident.
type SystemState struct {
	Authority  common.Hash `json:"authority"`
	IsPaused   bool        `json:"is_paused"`
	PausedAt   time.Time   `json:"paused_at,omitempty"`
	ReasonCode uint8       `json:"reason_code"`
	Reason     string      `json:"reason,omitempty"`
}

// NewSystemState returns an unpaused system owned by authority.
func NewSystemState(authority common.Hash) *SystemState {
	return &SystemState{Authority: authority}
}

// Pause marks the system paused. Idempotency is guarded by the caller.
func (s *SystemState) Pause(code uint8, reason string, now time.Time) {
	s.IsPaused = true
	s.PausedAt = now
	s.ReasonCode = code
	s.Reason = reason
}

// Unpause clears the pause state.
func (s *SystemState) Unpause() {
	s.IsPaused = false
	s.PausedAt = time.Time{}
	s.ReasonCode = PauseReasonNone
	s.Reason = ""
}

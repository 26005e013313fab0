package model

// OperationRecord is one committed mutating operation, as appended to the
// JSONL operation journal. Amounts are basis points (smallest token unit).
type OperationRecord struct {
	Op        string `json:"op"`
	Pool      string `json:"pool,omitempty"`
	Actor     string `json:"actor"`
	AmountIn  uint64 `json:"amount_in,omitempty"`
	AmountOut uint64 `json:"amount_out,omitempty"`
	Fee       uint64 `json:"fee,omitempty"`
	ActionID  uint64 `json:"action_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Timestamp string `json:"timestamp"`
}

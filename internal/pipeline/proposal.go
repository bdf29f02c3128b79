// Package pipeline implements the trade-proposal flow: analysts emit
// signals, the lifecycle book creates and expires proposals, managers
// review them, and traders execute them.
package pipeline

// Status is a proposal's lifecycle state. Only PENDING is non-terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusExecuted Status = "EXECUTED"
	StatusExpired  Status = "EXPIRED"
)

// validTransitions is the whole lifecycle. A failed execution terminates as
// REJECTED with the failure reason recorded; proposals are never
// resurrected.
var validTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusExpired},
	StatusApproved: {StatusExecuted, StatusRejected},
}

// CanTransition reports whether from → to is a legal move.
func CanTransition(from, to Status) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Direction is the trade side.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Proposal is a candidate trade moving through the pipeline.
type Proposal struct {
	ID           string    `json:"id"`
	InstrumentID string    `json:"instrument_id"`
	Ticker       string    `json:"ticker"`
	Direction    Direction `json:"direction"`
	Quantity     int       `json:"quantity"`
	TargetPrice  float64   `json:"target_price"`
	Confidence   int       `json:"confidence"` // 0-100
	Status       Status    `json:"status"`

	CreatedByStaffID  string `json:"created_by_staff_id"`
	ReviewedByStaffID string `json:"reviewed_by_staff_id,omitempty"`
	ExecutedByStaffID string `json:"executed_by_staff_id,omitempty"`

	CreatedAt  uint64  `json:"created_at"`
	ReviewedAt *uint64 `json:"reviewed_at,omitempty"`
	ExecutedAt *uint64 `json:"executed_at,omitempty"`

	ExecutedPrice *float64 `json:"executed_price,omitempty"`
	Slippage      *float64 `json:"slippage,omitempty"`

	IsMistake    bool   `json:"is_mistake"`
	RejectReason string `json:"reject_reason,omitempty"`
}

// Transition moves the proposal to a new status if the move is legal,
// reporting whether it happened.
func (p *Proposal) Transition(to Status) bool {
	if !CanTransition(p.Status, to) {
		return false
	}
	p.Status = to
	return true
}

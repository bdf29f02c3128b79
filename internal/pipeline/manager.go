package pipeline

import (
	"github.com/talgya/tradefloor/internal/config"
	"github.com/talgya/tradefloor/internal/entropy"
	"github.com/talgya/tradefloor/internal/modifier"
	"github.com/talgya/tradefloor/internal/staff"
)

// Decision is the reviewer's verdict on one proposal.
type Decision struct {
	Approved  bool
	IsMistake bool
	Reason    string // set on rejection
}

// ReasonRiskTooHigh is the reject code for confidence below the effective
// threshold.
const ReasonRiskTooHigh = "risk_too_high"

// Manager is the review stage.
type Manager struct {
	cfg config.Balance
	rng *entropy.Source
}

// NewManager builds the stage with its balance preset and random source.
func NewManager(cfg config.Balance, rng *entropy.Source) *Manager {
	return &Manager{cfg: cfg, rng: rng}
}

// Review decides a PENDING proposal. With a reviewer present the base
// threshold is lowered by risk-reduction modifiers (ratio scaled to
// threshold points); approve iff confidence meets it. With no reviewer the
// proposal auto-approves but is flagged a mistake with a fixed probability.
func (mg *Manager) Review(p *Proposal, reviewer *staff.Member, stack *modifier.Stack) Decision {
	if reviewer == nil {
		return Decision{
			Approved:  true,
			IsMistake: mg.rng.Chance(mg.cfg.NoReviewerMistakeRate),
		}
	}

	reduction := stack.Apply(0, reviewer, modifier.MetricRiskReduction, 1)
	threshold := mg.cfg.ReviewThreshold - reduction*mg.cfg.ThresholdScale

	if float64(p.Confidence) >= threshold {
		return Decision{Approved: true}
	}
	return Decision{Approved: false, Reason: ReasonRiskTooHigh}
}

// Apply records the decision on the proposal and returns whether the
// transition was legal. Rejections stress the proposal's creator.
func (mg *Manager) Apply(p *Proposal, d Decision, reviewer *staff.Member, dir *staff.Directory, tick uint64) bool {
	to := StatusApproved
	if !d.Approved {
		to = StatusRejected
	}
	if !p.Transition(to) {
		return false
	}
	if reviewer != nil {
		p.ReviewedByStaffID = reviewer.ID
	}
	t := tick
	p.ReviewedAt = &t
	p.IsMistake = d.IsMistake
	p.RejectReason = d.Reason

	if !d.Approved {
		if creator := dir.ByID(p.CreatedByStaffID); creator != nil {
			creator.AddStress(mg.cfg.RejectionStressGain)
		}
	}
	return true
}

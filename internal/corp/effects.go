// Package corp manages organization-wide passive skills: an unlockable
// catalog whose effects aggregate into one read-only Effects value that the
// pipeline consumes.
package corp

import "fmt"

// Skill is one corporate knowledge asset.
type Skill struct {
	ID       string
	Name     string
	Tier     int
	Cost     float64 // cash to unlock
	Requires []string

	Unlocked   bool
	UnlockedAt uint64

	// Global effects sum across unlocked skills.
	SignalAccuracyBonus float64
	SlippageReduction   float64
	CommissionDiscount  float64
	RiskReductionBonus  float64
	MaxPendingBonus     int

	// Conditional overrides; nil means the skill does not set them. The
	// strongest value across unlocked skills wins.
	StopLoss             *float64 // PnL fraction, negative
	TakeProfit           *float64 // PnL fraction, positive
	MaxSinglePositionPct *float64
}

// Effects is the aggregated, read-only corporate bonus set.
type Effects struct {
	SignalAccuracyBonus float64
	SlippageReduction   float64
	CommissionDiscount  float64
	RiskReductionBonus  float64
	MaxPendingBonus     int

	StopLoss             *float64
	TakeProfit           *float64
	MaxSinglePositionPct *float64
}

func ptr(v float64) *float64 { return &v }

// DefaultCatalog returns the shipped corporate skill tree.
func DefaultCatalog() map[string]*Skill {
	skills := []*Skill{
		{ID: "research_desk", Name: "Research Desk", Tier: 1, Cost: 500_000,
			SignalAccuracyBonus: 0.05},
		{ID: "prime_brokerage", Name: "Prime Brokerage", Tier: 1, Cost: 800_000,
			CommissionDiscount: 0.1},
		{ID: "execution_desk", Name: "Execution Desk", Tier: 2, Cost: 1_500_000,
			Requires: []string{"prime_brokerage"}, SlippageReduction: 0.2},
		{ID: "risk_committee", Name: "Risk Committee", Tier: 2, Cost: 1_200_000,
			Requires: []string{"research_desk"}, RiskReductionBonus: 0.1,
			StopLoss: ptr(-0.08), MaxSinglePositionPct: ptr(0.25)},
		{ID: "quant_lab", Name: "Quant Lab", Tier: 3, Cost: 3_000_000,
			Requires: []string{"execution_desk", "risk_committee"},
			SignalAccuracyBonus: 0.1, SlippageReduction: 0.2, MaxPendingBonus: 5,
			TakeProfit: ptr(0.12)},
	}
	out := make(map[string]*Skill, len(skills))
	for _, s := range skills {
		out[s.ID] = s
	}
	return out
}

// ValidateUnlock checks whether a skill can be unlocked with the available
// cash. Refusals are reported as errors with stable text; these are
// ordinary outcomes.
func ValidateUnlock(id string, skills map[string]*Skill, cash float64) error {
	s, ok := skills[id]
	if !ok {
		return fmt.Errorf("unknown corporate skill %q", id)
	}
	if s.Unlocked {
		return fmt.Errorf("corporate skill %q already unlocked", id)
	}
	if cash < s.Cost {
		return fmt.Errorf("corporate skill %q needs %.0f cash", id, s.Cost)
	}
	for _, req := range s.Requires {
		pre, ok := skills[req]
		if !ok || !pre.Unlocked {
			return fmt.Errorf("corporate skill %q requires %q", id, req)
		}
	}
	return nil
}

// Unlock marks a skill unlocked at the given tick. The caller has already
// validated and deducted the cost.
func Unlock(id string, skills map[string]*Skill, tick uint64) {
	if s, ok := skills[id]; ok {
		s.Unlocked = true
		s.UnlockedAt = tick
	}
}

// Aggregate folds all unlocked skills into one Effects value. Global effects
// sum (capped: slippage 0.8, commission 0.5, accuracy 0.5); conditional
// effects keep the strongest value: the stop-loss closest to zero, the
// highest take-profit, the tightest position limit.
func Aggregate(skills map[string]*Skill) Effects {
	var out Effects
	for _, s := range skills {
		if !s.Unlocked {
			continue
		}
		out.SignalAccuracyBonus += s.SignalAccuracyBonus
		out.SlippageReduction += s.SlippageReduction
		out.CommissionDiscount += s.CommissionDiscount
		out.RiskReductionBonus += s.RiskReductionBonus
		out.MaxPendingBonus += s.MaxPendingBonus

		if s.StopLoss != nil && (out.StopLoss == nil || *s.StopLoss > *out.StopLoss) {
			out.StopLoss = s.StopLoss
		}
		if s.TakeProfit != nil && (out.TakeProfit == nil || *s.TakeProfit > *out.TakeProfit) {
			out.TakeProfit = s.TakeProfit
		}
		if s.MaxSinglePositionPct != nil && (out.MaxSinglePositionPct == nil || *s.MaxSinglePositionPct < *out.MaxSinglePositionPct) {
			out.MaxSinglePositionPct = s.MaxSinglePositionPct
		}
	}
	if out.SlippageReduction > 0.8 {
		out.SlippageReduction = 0.8
	}
	if out.CommissionDiscount > 0.5 {
		out.CommissionDiscount = 0.5
	}
	if out.SignalAccuracyBonus > 0.5 {
		out.SignalAccuracyBonus = 0.5
	}
	return out
}

// Package modifier unifies the three overlay systems (skill tree, badges,
// corporate passives) behind one Source interface, and applies
// them to base values in a single documented order. Centralizing composition
// keeps the signal and execution formulas from drifting apart.
package modifier

import (
	"math"

	"github.com/talgya/tradefloor/internal/corp"
	"github.com/talgya/tradefloor/internal/staff"
)

// Metric names shared with the staff package targets.
const (
	MetricSignalAccuracy = staff.TargetSignalAccuracy
	MetricSlippage       = staff.TargetSlippage
	MetricCommission     = staff.TargetCommission
	MetricRiskReduction  = staff.TargetRiskReduction
	MetricPositionSize   = staff.TargetPositionSize
	MetricExecutionDelay = staff.TargetExecutionDelay
)

// Op is how a modifier combines with the running value.
type Op uint8

const (
	OpAdd Op = iota
	OpMultiply
)

// Modifier is one adjustment record. Add magnitudes are ratios (0.1 = 10%)
// scaled into the target domain at application time; multiply magnitudes
// apply directly.
type Modifier struct {
	Magnitude float64
	Op        Op
}

// Source answers "all modifiers affecting metric X for staff member Y".
// Implementations are pure reads of current overlay state; results are
// produced fresh per call and never cached across ticks.
type Source interface {
	Query(m *staff.Member, metric string) []Modifier
}

// SkillTreeSource exposes the member's unlocked passive nodes.
type SkillTreeSource struct{}

func (SkillTreeSource) Query(m *staff.Member, metric string) []Modifier {
	passives := staff.PassiveModifiers(m, metric)
	out := make([]Modifier, 0, len(passives))
	for _, p := range passives {
		op := OpAdd
		if p.Op == "multiply" {
			op = OpMultiply
		}
		out = append(out, Modifier{Magnitude: p.Magnitude, Op: op})
	}
	return out
}

// BadgeSource exposes badge technical effects. Signal accuracy is absent
// here on purpose: badge accuracy feeds the analyst's separate noise-filter
// pass rather than the confidence formula.
type BadgeSource struct{}

func (BadgeSource) Query(m *staff.Member, metric string) []Modifier {
	eff := staff.AggregateBadges(m.Badges)
	switch metric {
	case MetricSlippage:
		if eff.SlippageReduction > 0 {
			return []Modifier{{Magnitude: 1 - eff.SlippageReduction, Op: OpMultiply}}
		}
	case MetricRiskReduction:
		if eff.RiskReduction > 0 {
			return []Modifier{{Magnitude: eff.RiskReduction, Op: OpAdd}}
		}
	case MetricPositionSize:
		if eff.PositionMultiplier != 1.0 {
			return []Modifier{{Magnitude: eff.PositionMultiplier, Op: OpMultiply}}
		}
	case MetricExecutionDelay:
		if eff.ExecutionSpeed > 0 {
			return []Modifier{{Magnitude: 1 / (1 + eff.ExecutionSpeed), Op: OpMultiply}}
		}
	}
	return nil
}

// CorporateSource exposes the aggregated organization-wide effects. The
// same modifiers apply to every staff member.
type CorporateSource struct {
	Effects corp.Effects
}

func (c CorporateSource) Query(_ *staff.Member, metric string) []Modifier {
	switch metric {
	case MetricSignalAccuracy:
		if c.Effects.SignalAccuracyBonus > 0 {
			return []Modifier{{Magnitude: c.Effects.SignalAccuracyBonus, Op: OpAdd}}
		}
	case MetricSlippage:
		if c.Effects.SlippageReduction > 0 {
			return []Modifier{{Magnitude: 1 - c.Effects.SlippageReduction, Op: OpMultiply}}
		}
	case MetricCommission:
		if c.Effects.CommissionDiscount > 0 {
			return []Modifier{{Magnitude: 1 - c.Effects.CommissionDiscount, Op: OpMultiply}}
		}
	case MetricRiskReduction:
		if c.Effects.RiskReductionBonus > 0 {
			return []Modifier{{Magnitude: c.Effects.RiskReductionBonus, Op: OpAdd}}
		}
	}
	return nil
}

// Stack applies overlay sources in the one composition order every caller
// must use: skill tree, then badges, then corporate. Caller-local bonuses
// (adjacency) come after the stack, at the call site.
type Stack struct {
	sources []Source
}

// NewStack builds the canonical three-source stack for the given corporate
// effects.
func NewStack(effects corp.Effects) *Stack {
	return &Stack{sources: []Source{
		SkillTreeSource{},
		BadgeSource{},
		CorporateSource{Effects: effects},
	}}
}

// Apply folds every modifier for (member, metric) into base. Add modifiers
// are multiplied by addScale before summing (100 for the confidence and
// threshold domains, 1 for ratio domains). Malformed modifiers are skipped,
// and a non-finite running value falls back to base.
func (s *Stack) Apply(base float64, m *staff.Member, metric string, addScale float64) float64 {
	result := base
	for _, src := range s.sources {
		for _, mod := range src.Query(m, metric) {
			if !isFinite(mod.Magnitude) {
				continue
			}
			switch mod.Op {
			case OpAdd:
				result += mod.Magnitude * addScale
			case OpMultiply:
				result *= mod.Magnitude
			}
		}
	}
	if !isFinite(result) {
		return base
	}
	return result
}

// Query returns the combined ordered modifier list without applying it.
func (s *Stack) Query(m *staff.Member, metric string) []Modifier {
	var out []Modifier
	for _, src := range s.sources {
		out = append(out, src.Query(m, metric)...)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

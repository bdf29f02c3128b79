package pipeline

import (
	"math"

	"github.com/google/uuid"

	"github.com/talgya/tradefloor/internal/config"
	"github.com/talgya/tradefloor/internal/corp"
	"github.com/talgya/tradefloor/internal/entropy"
	"github.com/talgya/tradefloor/internal/market"
	"github.com/talgya/tradefloor/internal/modifier"
	"github.com/talgya/tradefloor/internal/portfolio"
	"github.com/talgya/tradefloor/internal/risk"
	"github.com/talgya/tradefloor/internal/staff"
)

// Signal is an actionable analyst read on one instrument.
type Signal struct {
	Confidence int // 0-100
	Direction  Direction
	IsInsight  bool
}

// Analyst is the signal-generation stage.
type Analyst struct {
	cfg config.Balance
	rng *entropy.Source
}

// NewAnalyst builds the stage with its balance preset and random source.
func NewAnalyst(cfg config.Balance, rng *entropy.Source) *Analyst {
	return &Analyst{cfg: cfg, rng: rng}
}

// Analyze reads one instrument and returns a confidence/direction signal,
// or nil when there is no actionable edge: not enough history, no
// directional setup, or confidence below the adjacency-adjusted threshold.
//
// Confidence composes additively from the skill component, the trait
// component blended with technical strength, the condition component, the
// badge bonus from the noise-filter pass, skill-tree and corporate signal
// accuracy per the central modifier order, and the occasional insight.
func (a *Analyst) Analyze(inst market.Instrument, snap market.Snapshot, m *staff.Member, adjacencyBonus float64, events []market.Event, stack *modifier.Stack) *Signal {
	if len(snap.History) < a.cfg.MinHistoryPoints {
		return nil
	}

	rsi := market.RSI(snap.History, 14)
	ma20 := market.MA(snap.History, 20)
	price := snap.Price

	var direction Direction
	technical := 0.0
	switch {
	case rsi < 40 && price < ma20:
		direction = DirectionBuy
		technical = (40 - rsi) / 40
	case rsi > 60 && price > ma20:
		direction = DirectionSell
		technical = (rsi - 60) / 40
	case rsi < 35:
		direction = DirectionBuy
		technical = (35 - rsi) / 35
	case rsi > 65:
		direction = DirectionSell
		technical = (rsi - 65) / 35
	default:
		return nil
	}

	skills := staff.EffectiveSkills(m)
	skillFactor := skills.Analysis / 100 * 50

	traitBonus := 0.0
	if m.HasTrait(staff.TraitPerfectionist) {
		traitBonus += 5
	}
	if m.HasTrait(staff.TraitTechSavvy) {
		traitBonus += 3
	}
	if m.HasTrait(staff.TraitSensitive) {
		traitBonus += 2
	}
	if m.HasTrait(staff.TraitRiskAverse) {
		traitBonus -= 3
	}
	traitFactor := clamp(traitBonus+technical*20, 0, 30)

	conditionRaw := (100-m.Stress)/100*0.5 + m.Stamina/m.MaxStamina*0.5
	conditionFactor := conditionRaw * 20

	confidence := skillFactor + traitFactor + conditionFactor

	// Badge bonus arrives through the independent noise-filter pass.
	pass := NoiseFilterPass(m, inst, snap, events, a.rng)
	if !pass.IsNoise {
		confidence += pass.Confidence / 100 * 20
	}

	// Skill-tree and corporate signal accuracy, one composition order.
	confidence = stack.Apply(confidence, m, modifier.MetricSignalAccuracy, a.cfg.ConfidenceScale)

	isInsight := a.rng.Chance(a.cfg.InsightChance)
	if isInsight {
		confidence += a.cfg.InsightConfidenceBonus
	}

	// Adjacency lowers the bar rather than raising the signal.
	effectiveThreshold := a.cfg.ConfidenceThreshold - adjacencyBonus*a.cfg.AdjacencyThresholdScale

	confidence = clamp(math.Round(confidence), 0, 100)
	if confidence < effectiveThreshold {
		return nil
	}

	return &Signal{Confidence: int(confidence), Direction: direction, IsInsight: isInsight}
}

// CheckExits evaluates open positions against stop-loss / take-profit
// thresholds and emits urgency-scaled sell proposals. Personal and
// corporate thresholds merge by taking the numerically wider of the two.
// Positions with a PENDING exit already on the book are skipped.
func (a *Analyst) CheckExits(m *staff.Member, holdings *portfolio.Book, prov market.Provider, effects corp.Effects, book *Book, tick uint64) []*Proposal {
	if m.Exits == nil && effects.StopLoss == nil && effects.TakeProfit == nil {
		return nil
	}

	// Personal and corporate thresholds merge wider-of; a side with no
	// personal policy takes the corporate value as-is.
	stop, take := math.Inf(-1), math.Inf(1)
	if m.Exits != nil {
		stop = risk.MergeStopLoss(m.Exits.StopLossPct, effects.StopLoss)
		take = risk.MergeTakeProfit(m.Exits.TakeProfitPct, effects.TakeProfit)
	} else {
		if effects.StopLoss != nil {
			stop = *effects.StopLoss
		}
		if effects.TakeProfit != nil {
			take = *effects.TakeProfit
		}
	}

	var out []*Proposal
	for _, pos := range holdings.Sorted() {
		snap, ok := prov.Snapshot(pos.InstrumentID)
		if !ok {
			continue
		}
		pnl := portfolio.PnLPercent(pos, snap.Price)

		var confidence float64
		switch {
		case !math.IsInf(stop, -1) && risk.ShouldStopLoss(pnl, stop):
			// Deeper breaches read as more urgent.
			confidence = clamp(80+(stop-pnl)*100, 80, 100)
		case !math.IsInf(take, 1) && risk.ShouldTakeProfit(pnl, take):
			confidence = clamp(70+(pnl-take)*100, 70, 79)
		default:
			continue
		}

		if book.HasPending(m.ID, pos.InstrumentID) {
			continue
		}

		out = append(out, &Proposal{
			ID:               uuid.NewString(),
			InstrumentID:     pos.InstrumentID,
			Ticker:           pos.Ticker,
			Direction:        DirectionSell,
			Quantity:         pos.Shares,
			TargetPrice:      snap.Price,
			Confidence:       int(math.Round(confidence)),
			Status:           StatusPending,
			CreatedByStaffID: m.ID,
			CreatedAt:        tick,
		})
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

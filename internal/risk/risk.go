// Package risk sizes positions and scores portfolio exposure.
package risk

import (
	"math"

	"github.com/talgya/tradefloor/internal/portfolio"
	"github.com/talgya/tradefloor/internal/staff"
)

// PositionSize recommends a trade amount in cash terms. Higher research
// skill (risk awareness) and badge risk reduction shrink the base risk
// budget; the Kelly badge scales by implied win rate; low confidence trims
// further. The result never exceeds 90% of available cash.
func PositionSize(m *staff.Member, confidence float64, book *portfolio.Book, totalValue float64) float64 {
	riskAwareness := staff.EffectiveSkills(m).Research / 100

	maxRiskPerTrade := 0.05 * (1 - riskAwareness*0.5) // 2.5% .. 5%

	badges := staff.AggregateBadges(m.Badges)
	maxRiskPerTrade *= 1 - badges.RiskReduction
	if maxRiskPerTrade < 0.01 {
		maxRiskPerTrade = 0.01
	}

	size := totalValue * maxRiskPerTrade

	if m.HasBadge(staff.BadgeKellyCriterion) {
		winRate := confidence / 100
		kelly := winRate*2 - 1
		if kelly < 0.1 {
			kelly = 0.1
		}
		size *= kelly * badges.PositionMultiplier
	}

	confMult := confidence / 100
	if confMult < 0.3 {
		confMult = 0.3
	}
	size *= confMult

	if cap := book.Cash * 0.9; size > cap {
		size = cap
	}
	if size < 0 || math.IsNaN(size) {
		return 0
	}
	return math.Floor(size)
}

// Level buckets the portfolio risk score.
type Level string

const (
	LevelLow     Level = "low"
	LevelMedium  Level = "medium"
	LevelHigh    Level = "high"
	LevelExtreme Level = "extreme"
)

// Assessment is the portfolio risk report.
type Assessment struct {
	TotalRisk      float64 `json:"total_risk"` // 0.0 .. ~1.0
	Level          Level   `json:"level"`
	Recommendation string  `json:"recommendation"`
}

// AssessPortfolio weighs concentration (50%), excess leverage (30%) and
// cash depletion (20%) into one score.
func AssessPortfolio(book *portfolio.Book, totalValue float64) Assessment {
	if len(book.Positions) == 0 || totalValue <= 0 {
		return Assessment{TotalRisk: 0, Level: LevelLow, Recommendation: "no open positions"}
	}

	var maxConcentration, totalPositionValue float64
	for _, pos := range book.Sorted() {
		v := float64(pos.Shares) * pos.AvgBuyPrice
		totalPositionValue += v
		if c := v / totalValue; c > maxConcentration {
			maxConcentration = c
		}
	}
	leverage := totalPositionValue / totalValue

	score := maxConcentration * 0.5
	if leverage > 1 {
		score += (leverage - 1) * 0.3
	}
	score += (1 - book.Cash/totalValue) * 0.2

	switch {
	case score < 0.3:
		return Assessment{score, LevelLow, "portfolio within safe bounds"}
	case score < 0.6:
		return Assessment{score, LevelMedium, "risk at a workable level"}
	case score < 0.8:
		return Assessment{score, LevelHigh, "consider trimming positions"}
	default:
		return Assessment{score, LevelExtreme, "reduce exposure immediately"}
	}
}

// ShouldStopLoss fires when the position PnL has fallen to or below the
// threshold (both expressed as negative fractions).
func ShouldStopLoss(pnlPercent, threshold float64) bool {
	return pnlPercent <= threshold
}

// ShouldTakeProfit fires when the position PnL has reached the positive
// threshold.
func ShouldTakeProfit(pnlPercent, threshold float64) bool {
	return pnlPercent >= threshold
}

// MergeStopLoss combines a personal and a corporate stop threshold by
// taking the numerically wider (more negative) of the two, i.e. the less
// aggressive. Nil corporate means the personal value stands.
func MergeStopLoss(personal float64, corporate *float64) float64 {
	if corporate == nil {
		return personal
	}
	if *corporate < personal {
		return *corporate
	}
	return personal
}

// MergeTakeProfit combines a personal and a corporate take-profit threshold
// by taking the numerically wider (higher) of the two.
func MergeTakeProfit(personal float64, corporate *float64) float64 {
	if corporate == nil {
		return personal
	}
	if *corporate > personal {
		return *corporate
	}
	return personal
}

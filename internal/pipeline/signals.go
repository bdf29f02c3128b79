package pipeline

import (
	"github.com/talgya/tradefloor/internal/entropy"
	"github.com/talgya/tradefloor/internal/market"
	"github.com/talgya/tradefloor/internal/staff"
)

// PassResult is the outcome of the badge-driven noise-filter pass: an
// independent read of one instrument whose confidence feeds the analyst's
// badge bonus. A noise result carries a low random confidence and grants
// nothing.
type PassResult struct {
	Confidence float64
	IsNoise    bool
}

// NoiseFilterPass runs the signal-vs-noise draw for one instrument. Low
// analysis skill means mostly noise; badge signal accuracy raises both the
// real-signal odds and the resulting confidence.
func NoiseFilterPass(m *staff.Member, inst market.Instrument, snap market.Snapshot, events []market.Event, rng *entropy.Source) PassResult {
	accuracy := staff.EffectiveSkills(m).Analysis / 100
	badges := staff.AggregateBadges(m.Badges)
	accuracy *= 1 + badges.SignalAccuracy
	if accuracy > 1 {
		accuracy = 1
	}

	if !rng.Chance(accuracy) {
		return PassResult{Confidence: rng.Float() * 40, IsNoise: true}
	}

	confidence := accuracy * 100

	// Trend agreement sharpens the read.
	trend := market.Trend(snap.History, 10)
	if trend > 0.05 || trend < -0.05 {
		confidence += 10
	}

	// Sector events push sentiment a bit either way.
	for _, ev := range events {
		for _, sector := range ev.Sectors {
			if sector != inst.Sector {
				continue
			}
			if ev.Drift > 0 {
				confidence += 5
			} else if ev.Drift < 0 {
				confidence -= 5
			}
		}
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	return PassResult{Confidence: confidence, IsNoise: false}
}

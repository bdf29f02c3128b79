package staff

// Badge is an achievement-style overlay granting fixed technical bonuses.
type Badge struct {
	ID       string
	Name     string
	Category string // "trading", "analysis", "research"
	Level    int

	// Technical effects; zero means the badge does not touch that knob.
	SignalAccuracy     float64
	ExecutionSpeed     float64
	SlippageReduction  float64
	RiskReduction      float64
	PositionMultiplier float64 // 0 means "no multiplier", treated as 1
}

// BadgeKellyCriterion activates Kelly-style position sizing in the risk
// engine.
const BadgeKellyCriterion = "kelly_criterion_expert"

// BadgeCatalog is the full badge table keyed by id.
var BadgeCatalog = map[string]Badge{
	// Trading.
	"flash_trader": {ID: "flash_trader", Name: "Flash Trader", Category: "trading", Level: 3,
		ExecutionSpeed: 0.5},
	"smart_router": {ID: "smart_router", Name: "Smart Router", Category: "trading", Level: 4,
		SlippageReduction: 0.8},
	"market_maker": {ID: "market_maker", Name: "Market Maker", Category: "trading", Level: 5,
		SlippageReduction: 0.6},
	"zen_trader": {ID: "zen_trader", Name: "Zen Trader", Category: "trading", Level: 3,
		ExecutionSpeed: 0.2, SlippageReduction: 0.2},

	// Analysis.
	"trend_spotter": {ID: "trend_spotter", Name: "Trend Spotter", Category: "analysis", Level: 2,
		SignalAccuracy: 0.15},
	"signal_hunter": {ID: "signal_hunter", Name: "Signal Hunter", Category: "analysis", Level: 3,
		SignalAccuracy: 0.25},
	"fibonacci_wizard": {ID: "fibonacci_wizard", Name: "Fibonacci Wizard", Category: "analysis", Level: 4,
		SignalAccuracy: 0.4},

	// Research.
	"risk_manager": {ID: "risk_manager", Name: "Risk Manager", Category: "research", Level: 3,
		RiskReduction: 0.2},
	"hedge_master": {ID: "hedge_master", Name: "Hedge Master", Category: "research", Level: 4,
		RiskReduction: 0.35},
	BadgeKellyCriterion: {ID: BadgeKellyCriterion, Name: "Kelly Criterion Expert", Category: "research", Level: 5,
		RiskReduction: 0.15, PositionMultiplier: 1.2},
}

// badgeThresholds maps a skill level to the best badge per category, highest
// threshold first.
var badgeThresholds = map[string][]struct {
	Threshold float64
	BadgeID   string
}{
	"trading": {
		{90, "market_maker"},
		{75, "smart_router"},
		{60, "flash_trader"},
		{45, "zen_trader"},
	},
	"analysis": {
		{85, "fibonacci_wizard"},
		{65, "signal_hunter"},
		{45, "trend_spotter"},
	},
	"research": {
		{90, BadgeKellyCriterion},
		{70, "hedge_master"},
		{50, "risk_manager"},
	},
}

// BadgesFromSkills derives the badge set earned by raw skill levels: the
// single highest qualifying badge per category.
func BadgesFromSkills(s Skills) []string {
	levels := map[string]float64{
		"trading":  s.Trading,
		"analysis": s.Analysis,
		"research": s.Research,
	}
	var out []string
	for _, cat := range []string{"trading", "analysis", "research"} {
		for _, entry := range badgeThresholds[cat] {
			if levels[cat] >= entry.Threshold {
				out = append(out, entry.BadgeID)
				break
			}
		}
	}
	return out
}

// BadgeEffects is the aggregate of all owned badges, with balance caps
// applied.
type BadgeEffects struct {
	SignalAccuracy     float64
	ExecutionSpeed     float64
	SlippageReduction  float64
	RiskReduction      float64
	PositionMultiplier float64
}

// AggregateBadges sums additive effects and composes multipliers across the
// member's badges. Caps: accuracy/speed/slippage <= 1.0, risk <= 0.8,
// position multiplier <= 3.0.
func AggregateBadges(badgeIDs []string) BadgeEffects {
	out := BadgeEffects{PositionMultiplier: 1.0}
	for _, id := range badgeIDs {
		b, ok := BadgeCatalog[id]
		if !ok {
			continue
		}
		out.SignalAccuracy += b.SignalAccuracy
		out.ExecutionSpeed += b.ExecutionSpeed
		out.SlippageReduction += b.SlippageReduction
		out.RiskReduction += b.RiskReduction
		if b.PositionMultiplier > 0 {
			out.PositionMultiplier *= b.PositionMultiplier
		}
	}
	out.SignalAccuracy = min64(out.SignalAccuracy, 1.0)
	out.ExecutionSpeed = min64(out.ExecutionSpeed, 1.0)
	out.SlippageReduction = min64(out.SlippageReduction, 1.0)
	out.RiskReduction = min64(out.RiskReduction, 0.8)
	out.PositionMultiplier = min64(out.PositionMultiplier, 3.0)
	return out
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

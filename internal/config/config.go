// Package config holds the balance configuration for the trading pipeline.
// All tuning numbers live in one immutable struct constructed at startup,
// so tests can run against alternate presets without touching globals.
package config

// Balance is the full set of pipeline tuning knobs. Values are read-only
// after construction; the simulation receives one Balance and threads it
// through every stage.
type Balance struct {
	// Stage cadence, in ticks.
	AnalystInterval int
	ManagerInterval int
	TraderInterval  int

	// Proposal creation.
	ConfidenceThreshold float64 // minimum confidence to create a proposal (0-100)
	MaxPendingProposals int     // global PENDING cap
	ProposalExpireTicks uint64  // PENDING older than this expires
	MinHistoryPoints    int     // price history required for analysis

	// Execution.
	BaseSlippage          float64 // 0.01 = 1%
	FeeRate               float64 // 0.001 = 0.1% of notional
	NoReviewerMistakeRate float64 // chance an auto-approved proposal is a mistake
	NoTraderFeeMultiplier float64 // fee penalty when no trader is seated

	// Office adjacency.
	AdjacencyBonus          float64 // bonus granted per adjacent role pair
	AdjacencyThresholdScale float64 // confidence-threshold points removed per bonus unit

	// Insight.
	InsightChance          float64
	InsightConfidenceBonus float64

	// Morale deltas.
	SuccessSatisfactionGain float64
	FailureStressGain       float64
	RejectionStressGain     float64

	// Position sizing at proposal creation: invested cash fraction scales
	// linearly from MinCashFraction to MaxCashFraction with confidence
	// above ConfidenceThreshold.
	MinCashFraction float64
	MaxCashFraction float64

	// Scale conversions between ratio modifiers (0.1 = 10%) and the 0-100
	// confidence/threshold domain.
	ConfidenceScale float64
	ThresholdScale  float64

	// Reviewer base threshold before risk-reduction modifiers.
	ReviewThreshold float64
}

// Default returns the shipped balance preset.
func Default() Balance {
	return Balance{
		AnalystInterval: 10,
		ManagerInterval: 5,
		TraderInterval:  1,

		ConfidenceThreshold: 70,
		MaxPendingProposals: 10,
		ProposalExpireTicks: 100,
		MinHistoryPoints:    15,

		BaseSlippage:          0.01,
		FeeRate:               0.001,
		NoReviewerMistakeRate: 0.30,
		NoTraderFeeMultiplier: 2.0,

		AdjacencyBonus:          0.30,
		AdjacencyThresholdScale: 70,

		InsightChance:          0.05,
		InsightConfidenceBonus: 20,

		SuccessSatisfactionGain: 5,
		FailureStressGain:       15,
		RejectionStressGain:     8,

		MinCashFraction: 0.01,
		MaxCashFraction: 0.03,

		ConfidenceScale: 100,
		ThresholdScale:  100,

		ReviewThreshold: 70,
	}
}

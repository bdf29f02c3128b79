package pipeline

import (
	"math"
	"testing"

	"github.com/talgya/tradefloor/internal/config"
	"github.com/talgya/tradefloor/internal/corp"
	"github.com/talgya/tradefloor/internal/entropy"
	"github.com/talgya/tradefloor/internal/market"
	"github.com/talgya/tradefloor/internal/modifier"
	"github.com/talgya/tradefloor/internal/portfolio"
	"github.com/talgya/tradefloor/internal/staff"
)

func fallingSnapshot(n int) market.Snapshot {
	hist := make([]float64, n)
	for i := range hist {
		hist[i] = 1000 - 10*float64(i)
	}
	return market.Snapshot{Price: hist[n-1], History: hist}
}

func emptyStack() *modifier.Stack { return modifier.NewStack(corp.Effects{}) }

func TestAnalyzeStrongOversoldSetup(t *testing.T) {
	a := NewAnalyst(config.Default(), entropy.NewSource(1))
	m := staff.NewMember("a1", "A", staff.RoleAnalyst, staff.Skills{Analysis: 100})

	sig := a.Analyze(testInst, fallingSnapshot(30), m, 0, nil, emptyStack())
	if sig == nil {
		t.Fatal("strong oversold setup produced no signal")
	}
	if sig.Direction != DirectionBuy {
		t.Errorf("direction = %s, want buy", sig.Direction)
	}
	// Skill 50 + trait 20 + condition 20 + badge 20 saturates the clamp, so
	// the insight draw cannot move the result.
	if sig.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", sig.Confidence)
	}
}

func TestAnalyzeRequiresHistory(t *testing.T) {
	a := NewAnalyst(config.Default(), entropy.NewSource(1))
	m := staff.NewMember("a1", "A", staff.RoleAnalyst, staff.Skills{Analysis: 100})

	if sig := a.Analyze(testInst, fallingSnapshot(14), m, 0, nil, emptyStack()); sig != nil {
		t.Errorf("signal with 14 history points = %+v, want nil", sig)
	}
	if sig := a.Analyze(testInst, fallingSnapshot(15), m, 0, nil, emptyStack()); sig == nil {
		t.Error("signal with exactly 15 history points should be possible")
	}
}

func TestAnalyzeNoSetupOnFlatMarket(t *testing.T) {
	a := NewAnalyst(config.Default(), entropy.NewSource(1))
	m := staff.NewMember("a1", "A", staff.RoleAnalyst, staff.Skills{Analysis: 100})

	if sig := a.Analyze(testInst, flatSnapshot(100, 30), m, 0, nil, emptyStack()); sig != nil {
		t.Errorf("signal on flat market = %+v, want nil", sig)
	}
}

func TestAnalyzeOverboughtSells(t *testing.T) {
	a := NewAnalyst(config.Default(), entropy.NewSource(1))
	m := staff.NewMember("a1", "A", staff.RoleAnalyst, staff.Skills{Analysis: 100})

	hist := make([]float64, 30)
	for i := range hist {
		hist[i] = 1000 + 10*float64(i)
	}
	snap := market.Snapshot{Price: hist[len(hist)-1], History: hist}

	sig := a.Analyze(testInst, snap, m, 0, nil, emptyStack())
	if sig == nil || sig.Direction != DirectionSell {
		t.Fatalf("overbought setup = %+v, want sell signal", sig)
	}
}

func TestAnalyzeAdjacencyLowersThreshold(t *testing.T) {
	// A mid-skill analyst lands near the base threshold; with the same draw
	// sequence the adjacency bonus can only admit signals, never drop them.
	cfg := config.Default()
	m := staff.NewMember("a1", "A", staff.RoleAnalyst, staff.Skills{Analysis: 55})

	admitted := 0
	for seed := int64(0); seed < 100; seed++ {
		plain := NewAnalyst(cfg, entropy.NewSource(seed)).
			Analyze(testInst, fallingSnapshot(30), m, 0, nil, emptyStack())
		boosted := NewAnalyst(cfg, entropy.NewSource(seed)).
			Analyze(testInst, fallingSnapshot(30), m, cfg.AdjacencyBonus, nil, emptyStack())

		if plain != nil && boosted == nil {
			t.Fatalf("seed %d: adjacency dropped a signal the base threshold admitted", seed)
		}
		if plain != nil && boosted != nil && plain.Confidence != boosted.Confidence {
			t.Fatalf("seed %d: adjacency changed confidence %d -> %d; it must only move the bar",
				seed, plain.Confidence, boosted.Confidence)
		}
		if plain == nil && boosted != nil {
			admitted++
		}
	}
	if admitted == 0 {
		t.Error("adjacency bonus never admitted a borderline signal across 100 seeds")
	}
}

func TestAnalyzeStressAndFatigueDrag(t *testing.T) {
	cfg := config.Default()
	fresh := staff.NewMember("a1", "A", staff.RoleAnalyst, staff.Skills{Analysis: 80})
	tired := staff.NewMember("a2", "A", staff.RoleAnalyst, staff.Skills{Analysis: 80})
	tired.Stress = 90
	tired.Stamina = 10

	freshHits, tiredHits := 0, 0
	for seed := int64(0); seed < 100; seed++ {
		if NewAnalyst(cfg, entropy.NewSource(seed)).
			Analyze(testInst, fallingSnapshot(30), fresh, 0, nil, emptyStack()) != nil {
			freshHits++
		}
		if NewAnalyst(cfg, entropy.NewSource(seed)).
			Analyze(testInst, fallingSnapshot(30), tired, 0, nil, emptyStack()) != nil {
			tiredHits++
		}
	}
	if tiredHits >= freshHits {
		t.Errorf("tired analyst signaled %d times vs fresh %d; condition should drag", tiredHits, freshHits)
	}
}

func exitProvider(price float64) *market.Sim {
	return market.NewSim(1, []market.SimInstrument{
		{Instrument: testInst, StartPrice: price, Drift: 0, Volatility: 0.1},
	})
}

func TestCheckExitsStopLoss(t *testing.T) {
	a := NewAnalyst(config.Default(), entropy.NewSource(1))
	m := staff.NewMember("a1", "A", staff.RoleAnalyst, staff.Skills{})
	m.Exits = &staff.ExitPolicy{StopLossPct: -0.10, TakeProfitPct: 0.15}

	holdings := portfolio.NewBook(0)
	holdings.ApplyBuy(testInst.ID, testInst.Ticker, 50, 100, 0)

	// Price at 80: pnl -20%, well through the stop.
	props := a.CheckExits(m, holdings, exitProvider(80), corp.Effects{}, NewBook(config.Default()), 10)
	if len(props) != 1 {
		t.Fatalf("exit proposals = %d, want 1", len(props))
	}
	p := props[0]
	if p.Direction != DirectionSell || p.Quantity != 50 {
		t.Errorf("exit proposal = %+v, want full-position sell", p)
	}
	if p.Confidence != 90 {
		t.Errorf("stop-loss confidence = %d, want 90 (80 + 10 urgency)", p.Confidence)
	}
}

func TestCheckExitsTakeProfit(t *testing.T) {
	a := NewAnalyst(config.Default(), entropy.NewSource(1))
	m := staff.NewMember("a1", "A", staff.RoleAnalyst, staff.Skills{})
	m.Exits = &staff.ExitPolicy{StopLossPct: -0.10, TakeProfitPct: 0.15}

	holdings := portfolio.NewBook(0)
	holdings.ApplyBuy(testInst.ID, testInst.Ticker, 50, 100, 0)

	props := a.CheckExits(m, holdings, exitProvider(120), corp.Effects{}, NewBook(config.Default()), 10)
	if len(props) != 1 {
		t.Fatalf("exit proposals = %d, want 1", len(props))
	}
	if c := props[0].Confidence; c != 75 {
		t.Errorf("take-profit confidence = %d, want 75", c)
	}
	// Take-profit urgency stays below the stop-loss band.
	if c := props[0].Confidence; c < 70 || c > 79 {
		t.Errorf("take-profit confidence = %d, want within [70, 79]", c)
	}
}

func TestCheckExitsMergesCorporateThresholds(t *testing.T) {
	a := NewAnalyst(config.Default(), entropy.NewSource(1))
	m := staff.NewMember("a1", "A", staff.RoleAnalyst, staff.Skills{})
	m.Exits = &staff.ExitPolicy{StopLossPct: -0.05, TakeProfitPct: 0.50}

	holdings := portfolio.NewBook(0)
	holdings.ApplyBuy(testInst.ID, testInst.Ticker, 50, 100, 0)

	// Corporate stop is wider; a -10% drawdown no longer triggers.
	corpStop := -0.15
	eff := corp.Effects{StopLoss: &corpStop}
	props := a.CheckExits(m, holdings, exitProvider(90), eff, NewBook(config.Default()), 10)
	if len(props) != 0 {
		t.Fatalf("exit proposals with wider corporate stop = %d, want 0", len(props))
	}

	// Corporate-only thresholds work without a personal policy.
	m.Exits = nil
	corpStop = -0.08
	props = a.CheckExits(m, holdings, exitProvider(90), eff, NewBook(config.Default()), 10)
	if len(props) != 1 {
		t.Fatalf("exit proposals with corporate-only stop = %d, want 1", len(props))
	}
}

func TestCheckExitsStableOrder(t *testing.T) {
	// Two positions breach the stop in the same sweep. The emitted order
	// drives book order and everything downstream of it, so it must come
	// from the sorted position list, never map iteration.
	instA := market.Instrument{ID: "inst-exit-a", Ticker: "EXA", Sector: "tech"}
	instB := market.Instrument{ID: "inst-exit-b", Ticker: "EXB", Sector: "tech"}
	prov := market.NewSim(1, []market.SimInstrument{
		{Instrument: instA, StartPrice: 80, Drift: 0, Volatility: 0.1},
		{Instrument: instB, StartPrice: 80, Drift: 0, Volatility: 0.1},
	})

	a := NewAnalyst(config.Default(), entropy.NewSource(1))
	m := staff.NewMember("a1", "A", staff.RoleAnalyst, staff.Skills{})
	m.Exits = &staff.ExitPolicy{StopLossPct: -0.10, TakeProfitPct: 0.50}

	holdings := portfolio.NewBook(0)
	holdings.ApplyBuy(instB.ID, instB.Ticker, 10, 100, 0)
	holdings.ApplyBuy(instA.ID, instA.Ticker, 10, 100, 0)

	for run := 0; run < 200; run++ {
		props := a.CheckExits(m, holdings, prov, corp.Effects{}, NewBook(config.Default()), 10)
		if len(props) != 2 {
			t.Fatalf("run %d: exit proposals = %d, want 2", run, len(props))
		}
		if props[0].InstrumentID != instA.ID || props[1].InstrumentID != instB.ID {
			t.Fatalf("run %d: exit order = [%s %s], want [%s %s]",
				run, props[0].InstrumentID, props[1].InstrumentID, instA.ID, instB.ID)
		}
	}
}

func TestCheckExitsSkipsPendingAndUnconfigured(t *testing.T) {
	a := NewAnalyst(config.Default(), entropy.NewSource(1))
	m := staff.NewMember("a1", "A", staff.RoleAnalyst, staff.Skills{})

	holdings := portfolio.NewBook(0)
	holdings.ApplyBuy(testInst.ID, testInst.Ticker, 50, 100, 0)

	// No thresholds anywhere: nothing to check.
	if props := a.CheckExits(m, holdings, exitProvider(50), corp.Effects{}, NewBook(config.Default()), 10); props != nil {
		t.Errorf("exits without thresholds = %v, want nil", props)
	}

	// An existing pending proposal suppresses the exit.
	m.Exits = &staff.ExitPolicy{StopLossPct: -0.10, TakeProfitPct: 0.15}
	book := NewBook(config.Default())
	book.Add(&Proposal{InstrumentID: testInst.ID, Status: StatusPending, CreatedByStaffID: m.ID}, corp.Effects{})
	if props := a.CheckExits(m, holdings, exitProvider(50), corp.Effects{}, book, 10); len(props) != 0 {
		t.Errorf("exit despite pending proposal = %d, want 0", len(props))
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(-5, 0, 100); got != 0 {
		t.Errorf("clamp(-5) = %v", got)
	}
	if got := clamp(150, 0, 100); got != 100 {
		t.Errorf("clamp(150) = %v", got)
	}
	if got := clamp(math.Round(42.4), 0, 100); got != 42 {
		t.Errorf("clamp(42) = %v", got)
	}
}

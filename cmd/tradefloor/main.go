// Command tradefloor runs the trading-floor simulation: an autonomous
// analyst → manager → trader pipeline over a simulated market.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/talgya/tradefloor/internal/api"
	"github.com/talgya/tradefloor/internal/config"
	"github.com/talgya/tradefloor/internal/corp"
	"github.com/talgya/tradefloor/internal/entropy"
	"github.com/talgya/tradefloor/internal/market"
	"github.com/talgya/tradefloor/internal/office"
	"github.com/talgya/tradefloor/internal/persistence"
	"github.com/talgya/tradefloor/internal/portfolio"
	"github.com/talgya/tradefloor/internal/sim"
	"github.com/talgya/tradefloor/internal/staff"
	"github.com/talgya/tradefloor/internal/telemetry"
)

func main() {
	var (
		seed      = flag.Int64("seed", 42, "simulation seed")
		dbPath    = flag.String("db", "data/tradefloor.db", "trade ledger path")
		apiPort   = flag.Int("port", 8080, "observation API port")
		startCash = flag.Float64("cash", 100_000_000, "starting cash")
		speed     = flag.Float64("speed", 1.0, "tick speed multiplier")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("tradefloor — autonomous trading pipeline", "seed", *seed)

	// ── Trade Ledger ─────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open trade ledger", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("trade ledger opened", "path", *dbPath)

	// ── Floor Setup ──────────────────────────────────────────────────
	cfg := config.Default()
	rng := entropy.NewSource(*seed)
	mkt := market.NewSim(*seed, market.DefaultListings())
	holdings := portfolio.NewBook(*startCash)
	corpSkills := corp.DefaultCatalog()

	layout := office.Layout{Cols: 4, Rows: 3}
	roster := defaultRoster()
	dir := staff.NewDirectory(roster)

	simulation := sim.New(cfg, rng, dir, layout, mkt, holdings, corpSkills)
	simulation.Ledger = db

	metrics := telemetry.New()
	simulation.Metrics = metrics

	// ── API ──────────────────────────────────────────────────────────
	server := &api.Server{Sim: simulation, Telemetry: metrics, Port: *apiPort}
	server.Start()

	// ── Engine ───────────────────────────────────────────────────────
	engine := sim.NewEngine()
	engine.Speed = *speed
	engine.OnTick = simulation.Tick

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		slog.Info("shutdown signal received")
		engine.Stop()
	}()

	engine.Run()

	slog.Info("final state",
		"tick", simulation.CurrentTick(),
		"cash", holdings.Cash,
		"total_value", simulation.TotalValue(),
	)
}

// defaultRoster seats a minimal pipeline crew: two analysts, a manager,
// and a trader, with the manager between its neighbors so both adjacency
// pairs are live.
func defaultRoster() []*staff.Member {
	jun := staff.NewMember("staff-jun", "Jun Seo", staff.RoleAnalyst, staff.Skills{Analysis: 72, Trading: 30, Research: 45})
	jun.Traits = []staff.Trait{staff.TraitPerfectionist}
	jun.Badges = staff.BadgesFromSkills(jun.Skills)
	jun.Seat = 0

	mira := staff.NewMember("staff-mira", "Mira Kang", staff.RoleAnalyst, staff.Skills{Analysis: 58, Trading: 22, Research: 60})
	mira.Traits = []staff.Trait{staff.TraitSensitive}
	mira.Badges = staff.BadgesFromSkills(mira.Skills)
	mira.Exits = &staff.ExitPolicy{StopLossPct: -0.10, TakeProfitPct: 0.15}
	mira.Seat = 4

	dae := staff.NewMember("staff-dae", "Dae Hyun", staff.RoleManager, staff.Skills{Analysis: 40, Trading: 35, Research: 75})
	dae.Traits = []staff.Trait{staff.TraitRiskAverse}
	dae.Badges = staff.BadgesFromSkills(dae.Skills)
	dae.Seat = 1

	sol := staff.NewMember("staff-sol", "Sol Park", staff.RoleTrader, staff.Skills{Analysis: 25, Trading: 80, Research: 30})
	sol.Traits = []staff.Trait{staff.TraitTechSavvy}
	sol.Badges = staff.BadgesFromSkills(sol.Skills)
	sol.Seat = 2

	return []*staff.Member{jun, mira, dae, sol}
}

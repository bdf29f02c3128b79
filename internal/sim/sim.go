package sim

import (
	"log/slog"

	"github.com/talgya/tradefloor/internal/config"
	"github.com/talgya/tradefloor/internal/corp"
	"github.com/talgya/tradefloor/internal/entropy"
	"github.com/talgya/tradefloor/internal/market"
	"github.com/talgya/tradefloor/internal/modifier"
	"github.com/talgya/tradefloor/internal/office"
	"github.com/talgya/tradefloor/internal/pipeline"
	"github.com/talgya/tradefloor/internal/portfolio"
	"github.com/talgya/tradefloor/internal/staff"
)

// Recorder persists executed and failed trades. Nil disables recording.
type Recorder interface {
	RecordTrade(p *pipeline.Proposal) error
}

// Observer receives pipeline counters. Nil disables observation.
type Observer interface {
	ProposalCreated(direction string)
	ProposalReviewed(approved bool)
	ProposalExecuted(success bool)
	EquityUpdated(total float64)
}

// Simulation holds the full floor state and routes pipeline stages by tick
// cadence: analysts slowest, managers faster, traders every tick. All state
// mutation happens inside Tick on a single goroutine.
type Simulation struct {
	Cfg    config.Balance
	Rng    *entropy.Source
	Staff  *staff.Directory
	Layout office.Layout

	Market     *market.Sim
	Proposals  *pipeline.Book
	Holdings   *portfolio.Book
	CorpSkills map[string]*corp.Skill

	Ledger  Recorder
	Metrics Observer

	analyst *pipeline.Analyst
	manager *pipeline.Manager
	trader  *pipeline.Trader

	LastTick uint64
}

// New wires a simulation from its parts.
func New(cfg config.Balance, rng *entropy.Source, dir *staff.Directory, layout office.Layout, mkt *market.Sim, holdings *portfolio.Book, corpSkills map[string]*corp.Skill) *Simulation {
	return &Simulation{
		Cfg:        cfg,
		Rng:        rng,
		Staff:      dir,
		Layout:     layout,
		Market:     mkt,
		Proposals:  pipeline.NewBook(cfg),
		Holdings:   holdings,
		CorpSkills: corpSkills,
		analyst:    pipeline.NewAnalyst(cfg, rng),
		manager:    pipeline.NewManager(cfg, rng),
		trader:     pipeline.NewTrader(cfg),
	}
}

// CurrentTick returns the most recently processed tick.
func (s *Simulation) CurrentTick() uint64 { return s.LastTick }

// Effects aggregates the current corporate skill state. Computed fresh on
// each use; unlocks can land between ticks.
func (s *Simulation) Effects() corp.Effects {
	return corp.Aggregate(s.CorpSkills)
}

// PipelineBonus reports the current floor-wide adjacency bonus.
func (s *Simulation) PipelineBonus() float64 {
	analyst := s.Staff.FirstAvailable(staff.RoleAnalyst)
	manager := s.Staff.FirstAvailable(staff.RoleManager)
	return office.PipelineBonus(analyst, manager, s.Staff, s.Layout, s.Cfg.AdjacencyBonus)
}

// TotalValue marks the book at current prices.
func (s *Simulation) TotalValue() float64 {
	return s.Holdings.TotalValue(func(id string) (float64, bool) {
		snap, ok := s.Market.Snapshot(id)
		return snap.Price, ok
	})
}

// Tick advances the simulation one step: market first, then whichever
// stages are due this tick.
func (s *Simulation) Tick(tick uint64) {
	s.LastTick = tick
	s.Market.Advance(tick)

	effects := s.Effects()
	stack := modifier.NewStack(effects)

	if s.Cfg.AnalystInterval > 0 && tick%uint64(s.Cfg.AnalystInterval) == 0 {
		s.stageAnalyst(tick, effects, stack)
	}
	if s.Cfg.ManagerInterval > 0 && tick%uint64(s.Cfg.ManagerInterval) == 0 {
		s.stageManager(tick, stack)
	}
	if s.Cfg.TraderInterval > 0 && tick%uint64(s.Cfg.TraderInterval) == 0 {
		s.stageTrader(tick, effects, stack)
	}

	if s.Metrics != nil {
		s.Metrics.EquityUpdated(s.TotalValue())
	}
}

// stageAnalyst sweeps expiry, checks portfolio exits, then lets each
// available analyst scan the board for one new proposal.
func (s *Simulation) stageAnalyst(tick uint64, effects corp.Effects, stack *modifier.Stack) {
	if n := s.Proposals.ExpireOld(tick); n > 0 {
		slog.Debug("proposals expired", "count", n, "tick", tick)
	}

	analysts := availableByRole(s.Staff, staff.RoleAnalyst)
	if len(analysts) == 0 {
		return
	}

	// Exit checks run before fresh signals so forced exits get book space.
	for _, analyst := range analysts {
		for _, exit := range s.analyst.CheckExits(analyst, s.Holdings, s.Market, effects, s.Proposals, tick) {
			s.Proposals.Add(exit, effects)
			if s.Metrics != nil {
				s.Metrics.ProposalCreated(string(exit.Direction))
			}
			slog.Info("exit proposal created",
				"analyst", analyst.Name, "ticker", exit.Ticker, "confidence", exit.Confidence)
		}
	}

	s.scanSignals(tick, effects, stack, analysts)

	// The dedup sweep runs even when the scan stopped at the pending cap.
	if n := s.Proposals.DedupAcrossCreators(); n > 0 {
		slog.Debug("duplicate proposals expired", "count", n)
	}
}

// scanSignals lets each analyst scan the board for one new proposal,
// stopping once the pending cap is reached.
func (s *Simulation) scanSignals(tick uint64, effects corp.Effects, stack *modifier.Stack, analysts []*staff.Member) {
	for _, analyst := range analysts {
		adjBonus := office.Bonus(analyst, staff.RoleManager, s.Staff, s.Layout, s.Cfg.AdjacencyBonus)

		for _, inst := range s.Market.Instruments() {
			snap, ok := s.Market.Snapshot(inst.ID)
			if !ok {
				continue
			}
			sig := s.analyst.Analyze(inst, snap, analyst, adjBonus, s.Market.ActiveEvents(), stack)
			if sig == nil {
				continue
			}

			// Advisory cap: enforced at the book boundary, not inside the
			// signal generator.
			if s.Proposals.PendingCount() >= s.Proposals.MaxPending(effects) {
				return
			}

			p := s.Proposals.Create(sig, analyst, inst, snap.Price, s.Holdings.Cash, effects, tick)
			if p == nil {
				continue
			}
			s.Proposals.Add(p, effects)
			if s.Metrics != nil {
				s.Metrics.ProposalCreated(string(p.Direction))
			}
			slog.Info("proposal created",
				"analyst", analyst.Name, "ticker", p.Ticker,
				"direction", p.Direction, "confidence", p.Confidence, "insight", sig.IsInsight)
			break // one proposal per analyst per invocation
		}
	}
}

// stageManager reviews pending proposals. A reviewer adjacent to an
// analyst handles two per invocation instead of one.
func (s *Simulation) stageManager(tick uint64, stack *modifier.Stack) {
	pending := s.Proposals.Pending()
	if len(pending) == 0 {
		return
	}

	reviewer := s.Staff.FirstAvailable(staff.RoleManager)

	count := 1
	if reviewer != nil && office.Bonus(reviewer, staff.RoleAnalyst, s.Staff, s.Layout, s.Cfg.AdjacencyBonus) > 0 {
		count = 2
	}
	if count > len(pending) {
		count = len(pending)
	}

	for i := 0; i < count; i++ {
		p := pending[i]
		d := s.manager.Review(p, reviewer, stack)
		if !s.manager.Apply(p, d, reviewer, s.Staff, tick) {
			continue
		}
		if s.Metrics != nil {
			s.Metrics.ProposalReviewed(d.Approved)
		}
		slog.Info("proposal reviewed",
			"ticker", p.Ticker, "approved", d.Approved,
			"mistake", d.IsMistake, "reason", d.Reason)
	}
}

// stageTrader executes the oldest approved proposal.
func (s *Simulation) stageTrader(tick uint64, effects corp.Effects, stack *modifier.Stack) {
	approved := s.Proposals.Approved()
	if len(approved) == 0 {
		return
	}

	trader := s.Staff.FirstAvailable(staff.RoleTrader)
	adjBonus := 0.0
	if trader != nil {
		adjBonus = office.Bonus(trader, staff.RoleManager, s.Staff, s.Layout, s.Cfg.AdjacencyBonus)
	}

	p := approved[0]
	snap, ok := s.Market.Snapshot(p.InstrumentID)
	if !ok {
		return
	}

	res := s.trader.Execute(p, trader, snap.Price, s.Holdings.Cash, adjBonus, snap.Volatility, effects, stack)
	if !s.trader.Apply(p, res, trader, tick) {
		return
	}

	if res.Success {
		if p.Direction == pipeline.DirectionBuy {
			s.Holdings.ApplyBuy(p.InstrumentID, p.Ticker, p.Quantity, res.ExecutedPrice, res.Fee)
		} else {
			pnl := s.Holdings.ApplySell(p.InstrumentID, p.Quantity, res.ExecutedPrice, res.Fee)
			slog.Info("position closed", "ticker", p.Ticker, "pnl", pnl)
		}
		for _, id := range []string{p.CreatedByStaffID, p.ReviewedByStaffID} {
			if m := s.Staff.ByID(id); m != nil {
				m.AddSatisfaction(s.Cfg.SuccessSatisfactionGain)
			}
		}
		if trader != nil {
			trader.AddSatisfaction(s.Cfg.SuccessSatisfactionGain)
		}
	} else {
		if trader != nil {
			trader.AddStress(s.Cfg.FailureStressGain)
		}
		if creator := s.Staff.ByID(p.CreatedByStaffID); creator != nil {
			creator.AddStress(s.Cfg.FailureStressGain)
		}
	}

	if s.Metrics != nil {
		s.Metrics.ProposalExecuted(res.Success)
	}
	if s.Ledger != nil {
		if err := s.Ledger.RecordTrade(p); err != nil {
			slog.Error("trade ledger write failed", "error", err)
		}
	}
	slog.Info("proposal executed",
		"ticker", p.Ticker, "success", res.Success,
		"price", res.ExecutedPrice, "slippage", res.Slippage,
		"fee", res.Fee, "reason", res.Reason)
}

func availableByRole(dir *staff.Directory, r staff.Role) []*staff.Member {
	var out []*staff.Member
	for _, m := range dir.ByRole(r) {
		if m.Available() {
			out = append(out, m)
		}
	}
	return out
}

package pipeline

import (
	"math"

	"github.com/google/uuid"

	"github.com/talgya/tradefloor/internal/config"
	"github.com/talgya/tradefloor/internal/corp"
	"github.com/talgya/tradefloor/internal/market"
	"github.com/talgya/tradefloor/internal/staff"
)

// Book is the proposal lifecycle manager. It owns creation (dedup and
// sizing), the capacity cap, and the expiry sweep. The simulation is
// single-threaded, so the book needs no locking; were this ever run
// concurrently, the (creator, instrument) dedup key and the PENDING cap
// would each need a single-writer partition or an optimistic retry loop.
type Book struct {
	cfg       config.Balance
	proposals []*Proposal
}

// NewBook creates an empty lifecycle book.
func NewBook(cfg config.Balance) *Book {
	return &Book{cfg: cfg}
}

// All returns every proposal, oldest first.
func (b *Book) All() []*Proposal { return b.proposals }

// Pending returns PENDING proposals, oldest first.
func (b *Book) Pending() []*Proposal { return b.byStatus(StatusPending) }

// Approved returns APPROVED proposals, oldest first.
func (b *Book) Approved() []*Proposal { return b.byStatus(StatusApproved) }

func (b *Book) byStatus(s Status) []*Proposal {
	var out []*Proposal
	for _, p := range b.proposals {
		if p.Status == s {
			out = append(out, p)
		}
	}
	return out
}

// HasPending reports whether the creator already has a live proposal for
// the instrument.
func (b *Book) HasPending(creatorID, instrumentID string) bool {
	for _, p := range b.proposals {
		if p.Status == StatusPending && p.CreatedByStaffID == creatorID && p.InstrumentID == instrumentID {
			return true
		}
	}
	return false
}

// PendingCount returns the live PENDING count.
func (b *Book) PendingCount() int {
	n := 0
	for _, p := range b.proposals {
		if p.Status == StatusPending {
			n++
		}
	}
	return n
}

// MaxPending is the effective capacity including the corporate bonus.
func (b *Book) MaxPending(effects corp.Effects) int {
	return b.cfg.MaxPendingProposals + effects.MaxPendingBonus
}

// Create builds a PENDING proposal from an analyst signal, or returns nil
// when the same analyst already has a PENDING proposal for the instrument.
// Quantity is sized as a cash fraction scaling linearly with confidence
// above the base threshold, shrunk by corporate risk reduction and capped
// by the corporate single-position limit on buys.
func (b *Book) Create(sig *Signal, analyst *staff.Member, inst market.Instrument, price, cash float64, effects corp.Effects, tick uint64) *Proposal {
	if sig == nil || price <= 0 {
		return nil
	}
	if b.HasPending(analyst.ID, inst.ID) {
		return nil
	}

	span := 100 - b.cfg.ConfidenceThreshold
	ratio := 0.0
	if span > 0 {
		ratio = (float64(sig.Confidence) - b.cfg.ConfidenceThreshold) / span
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	fraction := b.cfg.MinCashFraction + ratio*(b.cfg.MaxCashFraction-b.cfg.MinCashFraction)
	invest := cash * fraction * (1 - effects.RiskReductionBonus)
	if sig.Direction == DirectionBuy && effects.MaxSinglePositionPct != nil {
		if limit := cash * *effects.MaxSinglePositionPct; invest > limit {
			invest = limit
		}
	}

	qty := int(math.Floor(invest / price))
	if qty < 1 {
		qty = 1
	}

	return &Proposal{
		ID:               uuid.NewString(),
		InstrumentID:     inst.ID,
		Ticker:           inst.Ticker,
		Direction:        sig.Direction,
		Quantity:         qty,
		TargetPrice:      price,
		Confidence:       sig.Confidence,
		Status:           StatusPending,
		CreatedByStaffID: analyst.ID,
		CreatedAt:        tick,
	}
}

// Add inserts a proposal, enforcing the PENDING cap: when full, the oldest
// PENDING proposal is expired to make room.
func (b *Book) Add(p *Proposal, effects corp.Effects) {
	if p == nil {
		return
	}
	if b.PendingCount() >= b.MaxPending(effects) {
		var oldest *Proposal
		for _, q := range b.proposals {
			if q.Status != StatusPending {
				continue
			}
			if oldest == nil || q.CreatedAt < oldest.CreatedAt {
				oldest = q
			}
		}
		if oldest == nil {
			return
		}
		oldest.Transition(StatusExpired)
	}
	b.proposals = append(b.proposals, p)
}

// ExpireOld sweeps PENDING proposals whose age has reached the expiry
// budget. Expiry is cooperative: it happens only here, never eagerly.
func (b *Book) ExpireOld(currentTick uint64) int {
	expired := 0
	for _, p := range b.proposals {
		if p.Status != StatusPending {
			continue
		}
		if currentTick-p.CreatedAt >= b.cfg.ProposalExpireTicks {
			if p.Transition(StatusExpired) {
				expired++
			}
		}
	}
	return expired
}

// DedupAcrossCreators keeps only the highest-confidence PENDING proposal
// per instrument when several analysts proposed the same one, expiring the
// rest. Returns the number expired.
func (b *Book) DedupAcrossCreators() int {
	best := make(map[string]*Proposal)
	for _, p := range b.proposals {
		if p.Status != StatusPending {
			continue
		}
		if cur, ok := best[p.InstrumentID]; !ok || p.Confidence > cur.Confidence {
			best[p.InstrumentID] = p
		}
	}
	expired := 0
	for _, p := range b.proposals {
		if p.Status != StatusPending {
			continue
		}
		if best[p.InstrumentID] != p {
			if p.Transition(StatusExpired) {
				expired++
			}
		}
	}
	return expired
}

package pipeline

import (
	"testing"

	"github.com/talgya/tradefloor/internal/config"
	"github.com/talgya/tradefloor/internal/corp"
	"github.com/talgya/tradefloor/internal/market"
	"github.com/talgya/tradefloor/internal/staff"
)

var testInst = market.Instrument{ID: "inst-a", Ticker: "AAA", Name: "Alpha", Sector: "tech"}

func testAnalyst(id string) *staff.Member {
	m := staff.NewMember(id, id, staff.RoleAnalyst, staff.Skills{Analysis: 80})
	m.Seat = 0
	return m
}

func TestCreateSizesByConfidence(t *testing.T) {
	b := NewBook(config.Default())
	a := testAnalyst("a1")

	// Confidence at the base threshold invests the minimum fraction.
	p := b.Create(&Signal{Confidence: 70, Direction: DirectionBuy}, a, testInst, 100, 1_000_000, corp.Effects{}, 1)
	if p == nil {
		t.Fatal("create returned nil")
	}
	if p.Quantity != 100 {
		t.Errorf("quantity at threshold confidence = %d, want 100 (1%% of cash)", p.Quantity)
	}
	if p.Status != StatusPending || p.CreatedByStaffID != "a1" || p.TargetPrice != 100 {
		t.Errorf("proposal fields = %+v", p)
	}
	if p.ID == "" {
		t.Error("proposal id should be assigned")
	}

	// Full confidence invests the maximum fraction.
	p = b.Create(&Signal{Confidence: 100, Direction: DirectionBuy}, testAnalyst("a2"), testInst, 100, 1_000_000, corp.Effects{}, 1)
	if p == nil || p.Quantity != 300 {
		t.Fatalf("quantity at full confidence = %+v, want 300 (3%% of cash)", p)
	}
}

func TestCreateCapsAndFloors(t *testing.T) {
	b := NewBook(config.Default())

	// Corporate risk reduction shrinks the investment.
	eff := corp.Effects{RiskReductionBonus: 0.5}
	p := b.Create(&Signal{Confidence: 70, Direction: DirectionBuy}, testAnalyst("a1"), testInst, 100, 1_000_000, eff, 1)
	if p == nil || p.Quantity != 50 {
		t.Fatalf("quantity with 50%% risk reduction = %+v, want 50", p)
	}

	// Single-position limit caps buys.
	limit := 0.002
	eff = corp.Effects{MaxSinglePositionPct: &limit}
	p = b.Create(&Signal{Confidence: 100, Direction: DirectionBuy}, testAnalyst("a2"), testInst, 100, 1_000_000, eff, 1)
	if p == nil || p.Quantity != 20 {
		t.Fatalf("quantity under position limit = %+v, want 20", p)
	}

	// The limit does not apply to sells.
	p = b.Create(&Signal{Confidence: 100, Direction: DirectionSell}, testAnalyst("a3"), testInst, 100, 1_000_000, eff, 1)
	if p == nil || p.Quantity != 300 {
		t.Fatalf("sell quantity under position limit = %+v, want 300", p)
	}

	// Tiny investments still trade one share.
	p = b.Create(&Signal{Confidence: 70, Direction: DirectionBuy}, testAnalyst("a4"), testInst, 100_000, 10_000, corp.Effects{}, 1)
	if p == nil || p.Quantity != 1 {
		t.Fatalf("quantity below one share = %+v, want floor of 1", p)
	}

	if b.Create(nil, testAnalyst("a5"), testInst, 100, 1000, corp.Effects{}, 1) != nil {
		t.Error("nil signal should not create")
	}
	if b.Create(&Signal{Confidence: 80, Direction: DirectionBuy}, testAnalyst("a6"), testInst, 0, 1000, corp.Effects{}, 1) != nil {
		t.Error("zero price should not create")
	}
}

func TestCreateDedupsPerCreatorAndInstrument(t *testing.T) {
	b := NewBook(config.Default())
	a := testAnalyst("a1")
	sig := &Signal{Confidence: 80, Direction: DirectionBuy}

	p := b.Create(sig, a, testInst, 100, 1_000_000, corp.Effects{}, 1)
	if p == nil {
		t.Fatal("first create returned nil")
	}
	b.Add(p, corp.Effects{})

	if b.Create(sig, a, testInst, 100, 1_000_000, corp.Effects{}, 2) != nil {
		t.Error("duplicate (creator, instrument) should not create while pending")
	}

	// A different analyst may still propose the same instrument.
	if b.Create(sig, testAnalyst("a2"), testInst, 100, 1_000_000, corp.Effects{}, 2) == nil {
		t.Error("second analyst on same instrument should create")
	}

	// Once the first proposal leaves PENDING the analyst may propose again.
	p.Transition(StatusExpired)
	if b.Create(sig, a, testInst, 100, 1_000_000, corp.Effects{}, 3) == nil {
		t.Error("create after expiry should succeed")
	}
}

func TestAddEnforcesPendingCap(t *testing.T) {
	cfg := config.Default()
	cfg.MaxPendingProposals = 3
	b := NewBook(cfg)

	for i := 0; i < 3; i++ {
		b.Add(&Proposal{ID: string(rune('a' + i)), Status: StatusPending, CreatedAt: uint64(i)}, corp.Effects{})
	}
	if b.PendingCount() != 3 {
		t.Fatalf("pending = %d, want 3", b.PendingCount())
	}

	b.Add(&Proposal{ID: "d", Status: StatusPending, CreatedAt: 10}, corp.Effects{})
	if b.PendingCount() != 3 {
		t.Errorf("pending after overflow = %d, want still 3", b.PendingCount())
	}
	if got := b.All()[0].Status; got != StatusExpired {
		t.Errorf("oldest proposal status = %s, want EXPIRED", got)
	}

	// The corporate bonus widens the cap.
	b2 := NewBook(cfg)
	eff := corp.Effects{MaxPendingBonus: 2}
	for i := 0; i < 5; i++ {
		b2.Add(&Proposal{Status: StatusPending, CreatedAt: uint64(i)}, eff)
	}
	if b2.PendingCount() != 5 {
		t.Errorf("pending with bonus = %d, want 5", b2.PendingCount())
	}
}

func TestExpireOldBoundary(t *testing.T) {
	cfg := config.Default() // ProposalExpireTicks: 100
	b := NewBook(cfg)
	p := &Proposal{Status: StatusPending, CreatedAt: 5}
	b.Add(p, corp.Effects{})

	if n := b.ExpireOld(104); n != 0 {
		t.Errorf("expired at age 99 = %d, want 0", n)
	}
	if p.Status != StatusPending {
		t.Errorf("status at age 99 = %s, want PENDING", p.Status)
	}
	if n := b.ExpireOld(105); n != 1 {
		t.Errorf("expired at age 100 = %d, want 1", n)
	}
	if p.Status != StatusExpired {
		t.Errorf("status at age 100 = %s, want EXPIRED", p.Status)
	}

	// Non-pending proposals are never swept.
	q := &Proposal{Status: StatusApproved, CreatedAt: 0}
	b.proposals = append(b.proposals, q)
	if n := b.ExpireOld(1000); n != 0 {
		t.Errorf("swept non-pending = %d, want 0", n)
	}
}

func TestDedupAcrossCreators(t *testing.T) {
	b := NewBook(config.Default())
	low := &Proposal{ID: "low", InstrumentID: "inst-a", Confidence: 60, Status: StatusPending, CreatedByStaffID: "a1"}
	high := &Proposal{ID: "high", InstrumentID: "inst-a", Confidence: 85, Status: StatusPending, CreatedByStaffID: "a2"}
	other := &Proposal{ID: "other", InstrumentID: "inst-b", Confidence: 55, Status: StatusPending, CreatedByStaffID: "a1"}
	approved := &Proposal{ID: "appr", InstrumentID: "inst-a", Confidence: 99, Status: StatusApproved, CreatedByStaffID: "a3"}
	for _, p := range []*Proposal{low, high, other, approved} {
		b.Add(p, corp.Effects{})
	}

	if n := b.DedupAcrossCreators(); n != 1 {
		t.Fatalf("deduped = %d, want 1", n)
	}
	if low.Status != StatusExpired {
		t.Errorf("lower-confidence duplicate = %s, want EXPIRED", low.Status)
	}
	if high.Status != StatusPending {
		t.Errorf("highest-confidence proposal = %s, want PENDING", high.Status)
	}
	if other.Status != StatusPending {
		t.Errorf("sole proposal on other instrument = %s, want PENDING", other.Status)
	}
	if approved.Status != StatusApproved {
		t.Errorf("approved proposal = %s, want untouched", approved.Status)
	}
}

package office

import (
	"testing"

	"github.com/talgya/tradefloor/internal/staff"
)

func TestAdjacent(t *testing.T) {
	l := Layout{Cols: 4, Rows: 3}
	cases := []struct {
		a, b int
		want bool
	}{
		{0, 1, true},  // same row
		{0, 4, true},  // same column
		{5, 6, true},
		{0, 5, false}, // diagonal
		{3, 4, false}, // row wrap is not adjacency
		{0, 0, false},
		{0, 2, false},  // two apart
		{-1, 0, false}, // off grid
		{0, 12, false},
	}
	for _, c := range cases {
		if got := l.Adjacent(c.a, c.b); got != c.want {
			t.Errorf("Adjacent(%d, %d) = %v, want %v", c.a, c.b, got, c.want)
		}
		if got := l.Adjacent(c.b, c.a); got != c.want {
			t.Errorf("Adjacent(%d, %d) = %v, want %v (symmetry)", c.b, c.a, got, c.want)
		}
	}
}

func seated(id string, role staff.Role, seat int) *staff.Member {
	m := staff.NewMember(id, id, role, staff.Skills{})
	m.Seat = seat
	return m
}

func TestBonusIsBinary(t *testing.T) {
	l := Layout{Cols: 4, Rows: 3}
	analyst := seated("a", staff.RoleAnalyst, 0)
	near := seated("m1", staff.RoleManager, 1)
	far := seated("m2", staff.RoleManager, 11)
	dir := staff.NewDirectory([]*staff.Member{analyst, near, far})

	if got := Bonus(analyst, staff.RoleManager, dir, l, 0.3); got != 0.3 {
		t.Errorf("bonus with adjacent manager = %v, want 0.3", got)
	}

	// Two adjacent holders never stack.
	near2 := seated("m3", staff.RoleManager, 4)
	dir = staff.NewDirectory([]*staff.Member{analyst, near, near2})
	if got := Bonus(analyst, staff.RoleManager, dir, l, 0.3); got != 0.3 {
		t.Errorf("bonus with two adjacent managers = %v, want 0.3", got)
	}

	dir = staff.NewDirectory([]*staff.Member{analyst, far})
	if got := Bonus(analyst, staff.RoleManager, dir, l, 0.3); got != 0 {
		t.Errorf("bonus with no adjacent manager = %v, want 0", got)
	}

	// Unseated source gets nothing.
	analyst.Seat = -1
	dir = staff.NewDirectory([]*staff.Member{analyst, near})
	if got := Bonus(analyst, staff.RoleManager, dir, l, 0.3); got != 0 {
		t.Errorf("bonus for unseated source = %v, want 0", got)
	}
}

func TestPipelineBonus(t *testing.T) {
	l := Layout{Cols: 4, Rows: 3}
	analyst := seated("a", staff.RoleAnalyst, 0)
	manager := seated("m", staff.RoleManager, 1)
	trader := seated("t", staff.RoleTrader, 2)
	dir := staff.NewDirectory([]*staff.Member{analyst, manager, trader})

	// Both pairs adjacent: full bonus.
	if got := PipelineBonus(analyst, manager, dir, l, 0.3); got != 0.3 {
		t.Errorf("both pairs adjacent = %v, want 0.3", got)
	}

	// Trader moved away: only the analyst-manager pair contributes.
	trader.Seat = 11
	if got := PipelineBonus(analyst, manager, dir, l, 0.3); got != 0.15 {
		t.Errorf("one pair adjacent = %v, want 0.15", got)
	}

	// Missing manager drops its pair from the average instead of zeroing it.
	trader.Seat = 2
	if got := PipelineBonus(analyst, nil, dir, l, 0.3); got != 0.3 {
		t.Errorf("missing manager = %v, want 0.3 from remaining pair", got)
	}

	if got := PipelineBonus(nil, nil, dir, l, 0.3); got != 0 {
		t.Errorf("no pipeline staff = %v, want 0", got)
	}
}

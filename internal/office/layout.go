// Package office models the workstation grid and the proximity bonus
// between pipeline roles.
package office

import "github.com/talgya/tradefloor/internal/staff"

// Layout is a rectangular seat grid. Seat indices run row-major from 0.
type Layout struct {
	Cols int
	Rows int
}

// Coord converts a seat index to grid coordinates.
func (l Layout) Coord(seat int) (x, y int) {
	if l.Cols <= 0 {
		return 0, 0
	}
	return seat % l.Cols, seat / l.Cols
}

// Valid reports whether the seat index is on the grid.
func (l Layout) Valid(seat int) bool {
	return seat >= 0 && seat < l.Cols*l.Rows
}

// Adjacent reports whether two seats are direct neighbors (distance exactly
// one, no diagonals).
func (l Layout) Adjacent(a, b int) bool {
	if !l.Valid(a) || !l.Valid(b) {
		return false
	}
	ax, ay := l.Coord(a)
	bx, by := l.Coord(b)
	dx := ax - bx
	if dx < 0 {
		dx = -dx
	}
	dy := ay - by
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

// Bonus returns maxBonus when any seated staff member holding role sits
// adjacent to src's workstation, else 0. The bonus is binary, not
// distance-scaled.
func Bonus(src *staff.Member, role staff.Role, dir *staff.Directory, l Layout, maxBonus float64) float64 {
	if src == nil || src.Seat < 0 {
		return 0
	}
	for _, m := range dir.Members {
		if m.Role != role || m.Seat < 0 || m.ID == src.ID {
			continue
		}
		if l.Adjacent(src.Seat, m.Seat) {
			return maxBonus
		}
	}
	return 0
}

// PipelineBonus averages the Analyst→Manager and Manager→Trader pair
// bonuses. A missing role drops its pair from the average rather than
// counting as zero.
func PipelineBonus(analyst, manager *staff.Member, dir *staff.Directory, l Layout, maxBonus float64) float64 {
	total := 0.0
	pairs := 0
	if analyst != nil {
		total += Bonus(analyst, staff.RoleManager, dir, l, maxBonus)
		pairs++
	}
	if manager != nil {
		total += Bonus(manager, staff.RoleTrader, dir, l, maxBonus)
		pairs++
	}
	if pairs == 0 {
		return 0
	}
	return total / float64(pairs)
}

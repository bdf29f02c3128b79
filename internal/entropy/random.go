// Package entropy provides the injectable randomness source for stochastic
// pipeline events (insight triggers, reviewer mistakes, noise signals).
// Every draw goes through a Source so a fixed seed replays a full run.
package entropy

import (
	"math/rand"
	"sync"
)

// Source wraps a seeded PRNG. Construct with NewSource; the zero value is
// not usable. The mutex covers the observation API reading alongside the
// simulation goroutine.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource creates a Source from a seed. The same seed always produces the
// same draw sequence.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float returns a random float64 in [0, 1).
func (s *Source) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Chance returns true with probability p. p <= 0 never fires, p >= 1 always.
func (s *Source) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.Float() < p
}

// IntN returns a random int in [0, n). n must be > 0.
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Range returns a random float64 in [lo, hi).
func (s *Source) Range(lo, hi float64) float64 {
	return lo + s.Float()*(hi-lo)
}

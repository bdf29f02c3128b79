// Package market supplies price data to the pipeline: instruments, rolling
// price history, volatility, and active market events. The simulated
// provider drives prices with layered simplex noise over a per-instrument
// drift, so a seed fully determines every price path.
package market

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Instrument is one tradable listing.
type Instrument struct {
	ID     string `json:"id"`
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// Snapshot is the current market view of one instrument.
type Snapshot struct {
	Price      float64   `json:"price"`
	Volatility float64   `json:"volatility"`
	History    []float64 `json:"history"` // oldest first, bounded window
}

// Event is an active market-wide or sector-wide condition.
type Event struct {
	ID             string   `json:"id"`
	Sectors        []string `json:"sectors"`
	Drift          float64  `json:"drift"` // signed pressure on affected sectors
	RemainingTicks int      `json:"remaining_ticks"`
}

// Provider is the market data collaborator the pipeline reads.
type Provider interface {
	Instruments() []Instrument
	Snapshot(id string) (Snapshot, bool)
	ActiveEvents() []Event
}

const historyWindow = 120

// Sim is a deterministic simulated market. Each instrument carries its own
// noise channel; Advance moves every price one tick.
type Sim struct {
	instruments []Instrument
	state       map[string]*simState
	noise       opensimplex.Noise
	events      []Event
	tick        uint64
}

type simState struct {
	price      float64
	drift      float64
	volatility float64
	channel    float64 // noise y-offset so instruments decorrelate
	history    []float64
}

// SimInstrument seeds one instrument in the simulated market.
type SimInstrument struct {
	Instrument Instrument
	StartPrice float64
	Drift      float64 // per-tick fractional drift
	Volatility float64 // noise amplitude, also reported volatility
}

// NewSim builds a simulated market from a seed. The same seed and input set
// replays identical price paths.
func NewSim(seed int64, listings []SimInstrument) *Sim {
	s := &Sim{
		state: make(map[string]*simState, len(listings)),
		noise: opensimplex.NewNormalized(seed),
	}
	for i, l := range listings {
		s.instruments = append(s.instruments, l.Instrument)
		hist := make([]float64, 0, historyWindow)
		hist = append(hist, l.StartPrice)
		s.state[l.Instrument.ID] = &simState{
			price:      l.StartPrice,
			drift:      l.Drift,
			volatility: l.Volatility,
			channel:    float64(i) * 7.13,
			history:    hist,
		}
	}
	return s
}

// Advance moves all prices forward one tick, folding in active event drift.
func (s *Sim) Advance(tick uint64) {
	s.tick = tick
	for _, inst := range s.instruments {
		st := s.state[inst.ID]

		drift := st.drift
		for _, ev := range s.events {
			if ev.RemainingTicks <= 0 {
				continue
			}
			for _, sector := range ev.Sectors {
				if sector == inst.Sector {
					drift += ev.Drift
				}
			}
		}

		// Noise sample in [-1, 1]; two octaves like the terrain generator.
		x := float64(tick) * 0.05
		n := s.noise.Eval2(x, st.channel)*2 - 1
		n += (s.noise.Eval2(x*2.7, st.channel+31.7)*2 - 1) * 0.5
		n /= 1.5

		st.price *= 1 + drift + n*st.volatility*0.1
		if st.price < 1 {
			st.price = 1
		}
		st.history = append(st.history, st.price)
		if len(st.history) > historyWindow {
			st.history = st.history[len(st.history)-historyWindow:]
		}
	}

	// Decay events.
	kept := s.events[:0]
	for _, ev := range s.events {
		ev.RemainingTicks--
		if ev.RemainingTicks > 0 {
			kept = append(kept, ev)
		}
	}
	s.events = kept
}

// PushEvent activates a market event.
func (s *Sim) PushEvent(ev Event) {
	s.events = append(s.events, ev)
}

func (s *Sim) Instruments() []Instrument { return s.instruments }

func (s *Sim) Snapshot(id string) (Snapshot, bool) {
	st, ok := s.state[id]
	if !ok {
		return Snapshot{}, false
	}
	hist := make([]float64, len(st.history))
	copy(hist, st.history)
	return Snapshot{Price: st.price, Volatility: st.volatility, History: hist}, true
}

func (s *Sim) ActiveEvents() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// DefaultListings returns a small starting board.
func DefaultListings() []SimInstrument {
	return []SimInstrument{
		{Instrument{ID: "inst-hanril", Ticker: "HNRL", Name: "Hanril Electronics", Sector: "tech"}, 52_000, 0.0002, 0.25},
		{Instrument{ID: "inst-daesung", Ticker: "DSNG", Name: "Daesung Heavy", Sector: "industrial"}, 31_500, 0.0001, 0.18},
		{Instrument{ID: "inst-mirae", Ticker: "MRAE", Name: "Mirae Bio", Sector: "pharma"}, 84_000, 0.0003, 0.35},
		{Instrument{ID: "inst-kumho", Ticker: "KMHO", Name: "Kumho Retail", Sector: "consumer"}, 12_300, 0.0001, 0.15},
		{Instrument{ID: "inst-sejin", Ticker: "SJIN", Name: "Sejin Chemicals", Sector: "industrial"}, 44_700, 0.0002, 0.22},
	}
}

// Package portfolio tracks cash and open positions for the firm's book.
package portfolio

import "sort"

// Position is an open holding in one instrument.
type Position struct {
	InstrumentID string  `json:"instrument_id"`
	Ticker       string  `json:"ticker"`
	Shares       int     `json:"shares"`
	AvgBuyPrice  float64 `json:"avg_buy_price"`
}

// Book holds cash and positions. Mutated only by the executor stage.
type Book struct {
	Cash      float64              `json:"cash"`
	Positions map[string]*Position `json:"positions"`
}

// NewBook starts a book with the given cash.
func NewBook(cash float64) *Book {
	return &Book{Cash: cash, Positions: make(map[string]*Position)}
}

// Position returns the open position for an instrument, or nil.
func (b *Book) Position(instrumentID string) *Position {
	return b.Positions[instrumentID]
}

// Sorted returns the open positions ordered by instrument ID. Sweeps and
// marks iterate through here so a seeded run replays identically; map
// order would not.
func (b *Book) Sorted() []*Position {
	out := make([]*Position, 0, len(b.Positions))
	for _, pos := range b.Positions {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstrumentID < out[j].InstrumentID })
	return out
}

// ApplyBuy records a fill: cash out, shares in at a blended average price.
// The caller has already validated funds.
func (b *Book) ApplyBuy(instrumentID, ticker string, shares int, price, fee float64) {
	cost := price*float64(shares) + fee
	b.Cash -= cost
	if b.Cash < 0 {
		b.Cash = 0
	}
	pos := b.Positions[instrumentID]
	if pos == nil {
		b.Positions[instrumentID] = &Position{
			InstrumentID: instrumentID,
			Ticker:       ticker,
			Shares:       shares,
			AvgBuyPrice:  price,
		}
		return
	}
	total := pos.Shares + shares
	pos.AvgBuyPrice = (pos.AvgBuyPrice*float64(pos.Shares) + price*float64(shares)) / float64(total)
	pos.Shares = total
}

// ApplySell records a fill: shares out, cash in net of fee. Selling more
// shares than held closes the position. Returns realized PnL.
func (b *Book) ApplySell(instrumentID string, shares int, price, fee float64) float64 {
	pos := b.Positions[instrumentID]
	if pos == nil {
		return 0
	}
	if shares > pos.Shares {
		shares = pos.Shares
	}
	b.Cash += price*float64(shares) - fee
	if b.Cash < 0 {
		b.Cash = 0
	}
	pnl := (price - pos.AvgBuyPrice) * float64(shares)
	pos.Shares -= shares
	if pos.Shares <= 0 {
		delete(b.Positions, instrumentID)
	}
	return pnl
}

// TotalValue is cash plus positions marked at the prices the pricer
// reports. Unknown instruments mark at average buy price.
func (b *Book) TotalValue(pricer func(instrumentID string) (float64, bool)) float64 {
	total := b.Cash
	for _, pos := range b.Sorted() {
		price := pos.AvgBuyPrice
		if pricer != nil {
			if p, ok := pricer(pos.InstrumentID); ok {
				price = p
			}
		}
		total += price * float64(pos.Shares)
	}
	return total
}

// PnLPercent is the fractional gain of a position at the current price.
func PnLPercent(pos *Position, currentPrice float64) float64 {
	if pos == nil || pos.AvgBuyPrice == 0 {
		return 0
	}
	return (currentPrice - pos.AvgBuyPrice) / pos.AvgBuyPrice
}

package pipeline

import (
	"github.com/talgya/tradefloor/internal/config"
	"github.com/talgya/tradefloor/internal/corp"
	"github.com/talgya/tradefloor/internal/modifier"
	"github.com/talgya/tradefloor/internal/staff"
)

// ExecResult is the structured outcome of one execution attempt. Failure is
// an ordinary result with a reason code, never an error.
type ExecResult struct {
	Success       bool
	ExecutedPrice float64
	Slippage      float64
	Fee           float64
	Reason        string
}

// ReasonInsufficientFunds is the failure code for buys the book cannot
// cover.
const ReasonInsufficientFunds = "insufficient_funds"

// Trader is the execution stage.
type Trader struct {
	cfg config.Balance
}

// NewTrader builds the stage with its balance preset.
func NewTrader(cfg config.Balance) *Trader {
	return &Trader{cfg: cfg}
}

// Execute prices an APPROVED proposal against the current market.
//
// With a trader seated, slippage starts from the capability model (higher
// trading skill shrinks both delay and slippage), then skill-tree, badge
// and corporate slippage modifiers apply in the central order. When an
// adjacency bonus is present the executed price is recomputed from the
// reduced slippage and the raw market price; the delay-drift component
// does not survive an adjacency reprice.
//
// With no trader, a fixed base slippage is reduced by adjacency only and
// the fee takes the no-trader penalty; corporate discounts still apply.
//
// Buys fail with insufficient_funds when cost plus fee exceeds cash; sells
// never fail on funds.
func (t *Trader) Execute(p *Proposal, trader *staff.Member, marketPrice, cash, adjacencyBonus, volatility float64, effects corp.Effects, stack *modifier.Stack) ExecResult {
	dir := 1.0
	if p.Direction == DirectionSell {
		dir = -1
	}

	var slippage, executedPrice float64

	if trader != nil {
		tradingSkill := staff.EffectiveSkills(trader).Trading
		delayFactor := 1 - tradingSkill/100

		slippage = t.cfg.BaseSlippage * delayFactor * (1 + volatility)
		// Delay leaves the order exposed to drift on top of slippage.
		executedPrice = marketPrice * (1 + dir*slippage) * (1 + dir*volatility*delayFactor*0.5)

		slippage = stack.Apply(slippage, trader, modifier.MetricSlippage, 1)

		if adjacencyBonus > 0 {
			slippage *= 1 - adjacencyBonus
			executedPrice = marketPrice * (1 + dir*slippage)
		}
	} else {
		slippage = t.cfg.BaseSlippage * (1 - adjacencyBonus)
		executedPrice = marketPrice * (1 + dir*slippage)
	}

	if slippage < 0 {
		slippage = 0
	}
	if executedPrice < 0 {
		executedPrice = 0
	}

	fee := executedPrice * float64(p.Quantity) * t.cfg.FeeRate
	if trader != nil {
		fee = stack.Apply(fee, trader, modifier.MetricCommission, 1)
	} else {
		fee *= t.cfg.NoTraderFeeMultiplier
		fee *= 1 - effects.CommissionDiscount
	}
	if fee < 0 {
		fee = 0
	}

	if p.Direction == DirectionBuy {
		if executedPrice*float64(p.Quantity)+fee > cash {
			return ExecResult{
				Success:       false,
				ExecutedPrice: executedPrice,
				Slippage:      slippage,
				Fee:           fee,
				Reason:        ReasonInsufficientFunds,
			}
		}
	}

	return ExecResult{Success: true, ExecutedPrice: executedPrice, Slippage: slippage, Fee: fee}
}

// Apply records the result on the proposal: EXECUTED on success, REJECTED
// with the failure reason otherwise.
func (t *Trader) Apply(p *Proposal, res ExecResult, trader *staff.Member, tick uint64) bool {
	to := StatusExecuted
	if !res.Success {
		to = StatusRejected
	}
	if !p.Transition(to) {
		return false
	}
	if trader != nil {
		p.ExecutedByStaffID = trader.ID
	}
	tk := tick
	p.ExecutedAt = &tk
	if res.Success {
		price, slip := res.ExecutedPrice, res.Slippage
		p.ExecutedPrice = &price
		p.Slippage = &slip
	} else {
		p.RejectReason = res.Reason
	}
	return true
}

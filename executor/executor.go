package executor

import (
	"errors"
	"fmt"

	"github.com/evdnx/stochopt/types"
	"github.com/shopspring/decimal"
)

var (
	// ErrPositionOpen is returned for an entry while a position is held;
	// the account never pyramids or hedges.
	ErrPositionOpen = errors.New("position already open")
	// ErrQtyMismatch is returned for a closing order that does not flatten
	// the whole position.
	ErrQtyMismatch = errors.New("closing qty does not match position")
)

// Executor fills simulated orders against a single-instrument account.
type Executor interface {
	// Submit fills o. When o closes the open position the realized trade is
	// returned, otherwise the trade is nil.
	Submit(o types.Order) (*types.Trade, error)
	Equity() float64
	Position() (types.Position, bool)
}

// PaperExecutor is a very simple paper account: perfect fills at the order
// price, no slippage, optional flat fee rate charged on both legs.
type PaperExecutor struct {
	equity     decimal.Decimal
	fee        *decimal.Decimal
	fundsScale int32
	pos        *types.Position
}

// NewPaperExecutor creates an account holding startEquity. fee may be nil.
func NewPaperExecutor(startEquity float64, fee *float64, fundsScale int32) *PaperExecutor {
	p := &PaperExecutor{
		equity:     decimal.NewFromFloat(startEquity),
		fundsScale: fundsScale,
	}
	if fee != nil {
		f := decimal.NewFromFloat(*fee)
		p.fee = &f
	}
	return p
}

func (p *PaperExecutor) Submit(o types.Order) (*types.Trade, error) {
	if o.Qty == 0 {
		return nil, nil
	}
	if p.pos == nil {
		dir := types.Long
		if o.Side == types.Sell {
			dir = types.Short
		}
		p.pos = &types.Position{
			Direction:  dir,
			EntryIndex: o.Index,
			EntryPrice: o.Price,
			Qty:        o.Qty,
		}
		return nil, nil
	}
	if o.Side == p.pos.Direction.EntrySide() {
		return nil, fmt.Errorf("%w: %s at bar %d", ErrPositionOpen, p.pos.Direction, p.pos.EntryIndex)
	}
	if o.Qty != p.pos.Qty {
		return nil, fmt.Errorf("%w: %.8f vs %.8f", ErrQtyMismatch, o.Qty, p.pos.Qty)
	}
	tr := p.settle(o)
	p.pos = nil
	return &tr, nil
}

// settle realizes the open position at the order price.
func (p *PaperExecutor) settle(o types.Order) types.Trade {
	entry := decimal.NewFromFloat(p.pos.EntryPrice)
	exit := decimal.NewFromFloat(o.Price)
	qty := decimal.NewFromFloat(p.pos.Qty)

	gross := exit.Sub(entry).Mul(qty)
	if p.pos.Direction == types.Short {
		gross = gross.Neg()
	}
	profit := gross

	tr := types.Trade{
		Direction:  p.pos.Direction,
		EntryIndex: p.pos.EntryIndex,
		ExitIndex:  o.Index,
		EntryPrice: p.pos.EntryPrice,
		ExitPrice:  o.Price,
		Qty:        p.pos.Qty,
	}
	if p.fee != nil {
		commission := entry.Mul(qty).Mul(*p.fee).Add(exit.Mul(qty).Mul(*p.fee))
		profit = profit.Sub(commission)
		c := commission.InexactFloat64()
		tr.Commission = &c
	}
	profit = profit.Truncate(p.fundsScale)
	p.equity = p.equity.Add(profit)
	tr.Profit = profit.InexactFloat64()
	return tr
}

func (p *PaperExecutor) Equity() float64 { return p.equity.InexactFloat64() }

func (p *PaperExecutor) Position() (types.Position, bool) {
	if p.pos == nil {
		return types.Position{}, false
	}
	return *p.pos, true
}

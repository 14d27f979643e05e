package strategy

import (
	"github.com/evdnx/stochopt/config"
	"github.com/evdnx/stochopt/executor"
	"github.com/evdnx/stochopt/logger"
	"github.com/evdnx/stochopt/metrics"
	"github.com/evdnx/stochopt/risk"
	"github.com/evdnx/stochopt/types"
)

// BaseStrategy bundles the common dependencies and helpers.
type BaseStrategy struct {
	Exec   executor.Executor
	Log    logger.Logger
	Cfg    config.SimulationConfig
	Bars   types.Series
	trades []types.Trade
}

// NewBaseStrategy validates the config once; every knob is fixed for the
// lifetime of the strategy.
func NewBaseStrategy(bars types.Series, cfg config.SimulationConfig,
	exec executor.Executor, log logger.Logger) (*BaseStrategy, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BaseStrategy{
		Exec: exec,
		Log:  logger.OrNop(log),
		Cfg:  cfg,
		Bars: bars,
	}, nil
}

// Trades returns the trades closed so far, oldest first.
func (b *BaseStrategy) Trades() []types.Trade {
	out := make([]types.Trade, len(b.trades))
	copy(out, b.trades)
	return out
}

// submitOrder is a thin wrapper that records the closed trade, metrics and logs.
func (b *BaseStrategy) submitOrder(o types.Order, ctx string) error {
	tr, err := b.Exec.Submit(o)
	if err != nil {
		b.Log.Error("order_submit_failed",
			logger.String("side", string(o.Side)),
			logger.Float64("qty", o.Qty),
			logger.Int("bar", o.Index),
			logger.Err(err),
		)
		return err
	}
	if tr == nil {
		b.Log.Info("position_opened",
			logger.String("side", string(o.Side)),
			logger.Float64("qty", o.Qty),
			logger.Float64("price", o.Price),
			logger.Int("bar", o.Index),
			logger.String("ctx", ctx),
		)
		return nil
	}
	b.trades = append(b.trades, *tr)
	metrics.TradesSimulated.WithLabelValues(string(tr.Direction)).Inc()
	b.Log.Info("position_closed",
		logger.String("direction", string(tr.Direction)),
		logger.Int("entry_bar", tr.EntryIndex),
		logger.Int("exit_bar", tr.ExitIndex),
		logger.Float64("profit", tr.Profit),
		logger.String("ctx", ctx),
	)
	return nil
}

// openPosition sizes and submits an entry at price. It returns false when
// the signal had to be skipped: equity exhausted or an exchange floor not met.
func (b *BaseStrategy) openPosition(dir types.Direction, index int, price float64, ctx string) (bool, error) {
	equity := b.Exec.Equity()
	if equity < b.Cfg.MinEquity {
		b.skip("equity", dir, index)
		return false, nil
	}
	if risk.BelowMinPrice(price, b.Cfg) {
		b.skip("min_price", dir, index)
		return false, nil
	}
	fill := risk.FillPrice(price, b.Cfg)
	qty := risk.CalcQty(equity, fill, b.Cfg)
	if qty <= 0 {
		b.skip("min_qty", dir, index)
		return false, nil
	}
	o := types.Order{
		Side:    dir.EntrySide(),
		Qty:     qty,
		Price:   fill,
		Index:   index,
		Comment: ctx,
	}
	if err := b.submitOrder(o, ctx); err != nil {
		return false, err
	}
	return true, nil
}

// closePosition flattens the current position at the supplied price.
func (b *BaseStrategy) closePosition(index int, price float64, ctx string) error {
	pos, ok := b.Exec.Position()
	if !ok {
		return nil
	}
	o := types.Order{
		Side:    pos.Direction.ExitSide(),
		Qty:     pos.Qty,
		Price:   risk.FillPrice(price, b.Cfg),
		Index:   index,
		Comment: ctx,
	}
	return b.submitOrder(o, ctx)
}

func (b *BaseStrategy) skip(reason string, dir types.Direction, index int) {
	metrics.SignalsSkipped.WithLabelValues(reason).Inc()
	b.Log.Warn("signal_skipped",
		logger.String("reason", reason),
		logger.String("direction", string(dir)),
		logger.Int("bar", index),
	)
}

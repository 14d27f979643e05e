// Package stochopt finds the Stochastic Oscillator settings that would have
// traded a price series most profitably.
//
// An Optimizer is built once from a bar series and a set of options. The
// options are folded into an explicit config.SimulationConfig at
// construction; afterwards the Optimizer is read-only and safe for
// concurrent use.
//
//	opt, err := stochopt.New(bars, stochopt.WithExchangeFee(0.00075), stochopt.WithMinQty(0.0001))
//	if err != nil { ... }
//	best, err := opt.TopNetProfit(ctx, config.SearchRanges{
//		KLength:    config.Span(5, 21),
//		KSmoothing: config.Span(1, 5),
//		DLength:    config.Span(1, 5),
//	})
package stochopt

import (
	"context"
	"fmt"

	"github.com/evdnx/stochopt/config"
	"github.com/evdnx/stochopt/logger"
	"github.com/evdnx/stochopt/pnl"
	"github.com/evdnx/stochopt/search"
	"github.com/evdnx/stochopt/types"
)

// DefaultTopN is the number of results TopNetProfit keeps.
const DefaultTopN = 100

// Optimizer evaluates stochastic configurations against one bar series.
type Optimizer struct {
	Series     types.Series
	Simulation config.SimulationConfig
	Log        logger.Logger
}

// Option adjusts an Optimizer under construction.
type Option func(*Optimizer)

func WithCapital(c float64) Option { return func(o *Optimizer) { o.Simulation.Capital = c } }

func WithExchangeFee(fee float64) Option {
	return func(o *Optimizer) { o.Simulation.ExchangeFee = config.Float(fee) }
}

func WithMinQty(q float64) Option { return func(o *Optimizer) { o.Simulation.MinQty = config.Float(q) } }

func WithMinPrice(p float64) Option {
	return func(o *Optimizer) { o.Simulation.MinPrice = config.Float(p) }
}

func WithAssetScale(s int32) Option { return func(o *Optimizer) { o.Simulation.AssetScale = s } }

func WithFundsScale(s int32) Option { return func(o *Optimizer) { o.Simulation.FundsScale = s } }

func WithReversal(r config.Reversal) Option {
	return func(o *Optimizer) { o.Simulation.Reversal = r }
}

// WithLogger routes search events to l. The default is silent.
func WithLogger(l logger.Logger) Option { return func(o *Optimizer) { o.Log = l } }

// New validates series and the resulting simulation config.
func New(series types.Series, opts ...Option) (*Optimizer, error) {
	o := &Optimizer{
		Series:     series,
		Simulation: config.DefaultSimulationConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.Log = logger.OrNop(o.Log)
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: empty bar series", config.ErrInvalidConfig)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	if err := o.Simulation.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// PnL simulates a single configuration.
func (o *Optimizer) PnL(params search.Params) (pnl.PnL, error) {
	return search.Evaluate(o.Series, params, o.Simulation, o.Log)
}

// TopNetProfit searches ranges and returns the DefaultTopN most profitable
// configurations, ascending by net profit.
func (o *Optimizer) TopNetProfit(ctx context.Context, ranges config.SearchRanges) ([]search.Result, error) {
	return search.Search(ctx, o.Series, ranges, search.Options{
		Simulation: o.Simulation,
		TopN:       DefaultTopN,
		Logger:     o.Log,
	})
}

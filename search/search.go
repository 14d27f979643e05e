package search

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/evdnx/stochopt/config"
	"github.com/evdnx/stochopt/indicator"
	"github.com/evdnx/stochopt/logger"
	"github.com/evdnx/stochopt/metrics"
	"github.com/evdnx/stochopt/pnl"
	"github.com/evdnx/stochopt/strategy"
	"github.com/evdnx/stochopt/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Params keys a result by the stochastic lengths that produced it.
type Params = config.StochasticConfig

// Result pairs a configuration with its simulated PnL.
type Result struct {
	Params Params  `json:"params"`
	PnL    pnl.PnL `json:"pnl"`
}

// Options tunes a search. The zero value searches with
// config.DefaultSimulationConfig on every CPU and keeps all results.
type Options struct {
	Simulation config.SimulationConfig
	// TopN keeps only the N most profitable results; 0 keeps all.
	TopN int
	// Workers bounds the number of configurations evaluated concurrently.
	Workers int
	// Logger receives search-level events. Per-trade events are only
	// emitted by Evaluate.
	Logger logger.Logger
}

// Evaluate runs one configuration end to end: indicator, simulation and
// aggregation.
func Evaluate(bars types.Series, params Params, sim config.SimulationConfig, log logger.Logger) (pnl.PnL, error) {
	points, err := indicator.Compute(bars, params)
	if err != nil {
		return pnl.PnL{}, err
	}
	trades, err := strategy.Simulate(bars, points, sim, log)
	if err != nil {
		return pnl.PnL{}, err
	}
	return pnl.Aggregate(trades, bars.FirstClose(), bars.LastClose(), sim.ExchangeFee != nil), nil
}

// Search evaluates every configuration of ranges and returns them ascending
// by net profit, ties in enumeration order. Configurations the series is too
// short for are left out. A cancelled ctx aborts the search with ctx's error
// and no results.
func Search(ctx context.Context, bars types.Series, ranges config.SearchRanges, opts Options) ([]Result, error) {
	if err := ranges.Validate(); err != nil {
		return nil, err
	}
	if opts.Simulation == (config.SimulationConfig{}) {
		opts.Simulation = config.DefaultSimulationConfig()
	}
	if err := opts.Simulation.Validate(); err != nil {
		return nil, err
	}
	if opts.TopN < 0 {
		return nil, fmt.Errorf("%w: TopN (%d) cannot be negative", config.ErrInvalidConfig, opts.TopN)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log := logger.OrNop(opts.Logger)

	runID := uuid.NewString()[:8]
	count := ranges.Count()
	start := time.Now()
	log.Info("search_started",
		logger.String("run_id", runID),
		logger.Int("configs", count),
		logger.Int("bars", len(bars)),
		logger.Int("workers", workers),
	)

	// a single collector owns the ranking; workers only hand results over
	found := make(chan ranked)
	rank := newRanking(opts.TopN)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range found {
			rank.add(r)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < count; i++ {
		if gctx.Err() != nil {
			break
		}
		c := ranges.At(i)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := Evaluate(bars, c, opts.Simulation, nil)
			if errors.Is(err, indicator.ErrInsufficientData) {
				metrics.ConfigsEvaluated.WithLabelValues("skipped").Inc()
				log.Info("config_skipped",
					logger.String("run_id", runID),
					logger.String("params", c.String()),
					logger.Int("min_bars", c.MinBars()),
				)
				return nil
			}
			if err != nil {
				return fmt.Errorf("evaluate %s: %w", c, err)
			}
			metrics.ConfigsEvaluated.WithLabelValues("ok").Inc()
			select {
			case found <- ranked{ordinal: i, Result: Result{Params: c, PnL: p}}:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	err := g.Wait()
	close(found)
	<-collected
	if err != nil {
		log.Error("search_failed", logger.String("run_id", runID), logger.Err(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := rank.sorted()

	elapsed := time.Since(start)
	metrics.SearchDuration.Observe(elapsed.Seconds())
	fields := []logger.Field{
		logger.String("run_id", runID),
		logger.Int("results", len(results)),
		logger.Duration("elapsed", elapsed),
	}
	if n := len(results); n > 0 {
		best := results[n-1]
		metrics.BestNetProfit.Set(best.PnL.NetProfit)
		fields = append(fields,
			logger.String("best_params", best.Params.String()),
			logger.Float64("best_net_profit", best.PnL.NetProfit),
		)
	}
	log.Info("search_finished", fields...)
	return results, nil
}

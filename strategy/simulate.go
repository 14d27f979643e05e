package strategy

import (
	"github.com/evdnx/stochopt/config"
	"github.com/evdnx/stochopt/executor"
	"github.com/evdnx/stochopt/logger"
	"github.com/evdnx/stochopt/types"
)

// Simulate replays points against a fresh paper account holding cfg.Capital
// and returns the closed trades in the order they were closed. Neither bars
// nor points are modified.
func Simulate(bars types.Series, points []types.IndicatorPoint,
	cfg config.SimulationConfig, log logger.Logger) ([]types.Trade, error) {

	exec := executor.NewPaperExecutor(cfg.Capital, cfg.ExchangeFee, cfg.FundsScale)
	return Run(bars, points, cfg, exec, log)
}

// Run drives a StochasticCrossover over points using exec for fills.
func Run(bars types.Series, points []types.IndicatorPoint,
	cfg config.SimulationConfig, exec executor.Executor, log logger.Logger) ([]types.Trade, error) {

	s, err := NewStochasticCrossover(bars, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	for j, p := range points {
		if err := s.ProcessPoint(p, j == len(points)-1); err != nil {
			return nil, err
		}
	}
	if err := s.Finish(); err != nil {
		return nil, err
	}
	return s.Trades(), nil
}

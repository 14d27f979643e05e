package strategy

import (
	"fmt"

	"github.com/evdnx/stochopt/config"
	"github.com/evdnx/stochopt/executor"
	"github.com/evdnx/stochopt/logger"
	"github.com/evdnx/stochopt/types"
)

// StochasticCrossover trades %K/%D crossovers.
//
//   - Long entry: %K crosses above %D while both were in the oversold zone.
//   - Short entry: %K crosses below %D while both were in the overbought zone.
//   - Exit: any opposite crossover. Under ReversalFlip the same
//     crossover re-enters on the other side when it qualifies as an entry.
//
// A crossover needs %K on the other side of %D at the last sample where the
// two lines differed; touching %D and turning back is not a crossover.
//
// No entries are taken on the final sample, and Finish force-closes whatever
// is still open at the last bar, so every trade has ExitIndex > EntryIndex.
type StochasticCrossover struct {
	*BaseStrategy
	prev    types.IndicatorPoint
	hasPrev bool
	side    int // sign of K-D at the last sample where K != D, 0 until then
}

// NewStochasticCrossover wires the strategy to an executor.
func NewStochasticCrossover(bars types.Series, cfg config.SimulationConfig,
	exec executor.Executor, log logger.Logger) (*StochasticCrossover, error) {

	base, err := NewBaseStrategy(bars, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &StochasticCrossover{BaseStrategy: base}, nil
}

// ProcessPoint evaluates one indicator sample. final marks the last sample
// of the run.
func (s *StochasticCrossover) ProcessPoint(p types.IndicatorPoint, final bool) error {
	if p.Index < 0 || p.Index >= len(s.Bars) {
		return fmt.Errorf("indicator point references bar %d of %d", p.Index, len(s.Bars))
	}
	if s.hasPrev && p.Index <= s.prev.Index {
		return fmt.Errorf("indicator points out of order: bar %d after %d", p.Index, s.prev.Index)
	}
	prev, hasPrev, side := s.prev, s.hasPrev, s.side
	cur := lineSide(p)
	s.prev, s.hasPrev = p, true
	if cur != 0 {
		s.side = cur
	}
	if !hasPrev {
		return nil
	}

	price := s.Bars[p.Index].Close
	up, down := side < 0 && cur > 0, side > 0 && cur < 0
	pos, open := s.Exec.Position()

	switch {
	case open && pos.Direction == types.Long && down:
		if err := s.closePosition(p.Index, price, "stoch_close_long"); err != nil {
			return err
		}
		if s.Cfg.Reversal == config.ReversalFlip && !final && s.shortEntry(prev) {
			_, err := s.openPosition(types.Short, p.Index, price, "stoch_flip_short")
			return err
		}

	case open && pos.Direction == types.Short && up:
		if err := s.closePosition(p.Index, price, "stoch_close_short"); err != nil {
			return err
		}
		if s.Cfg.Reversal == config.ReversalFlip && !final && s.longEntry(prev) {
			_, err := s.openPosition(types.Long, p.Index, price, "stoch_flip_long")
			return err
		}

	case !open && !final && up && s.longEntry(prev):
		_, err := s.openPosition(types.Long, p.Index, price, "stoch_long")
		return err

	case !open && !final && down && s.shortEntry(prev):
		_, err := s.openPosition(types.Short, p.Index, price, "stoch_short")
		return err
	}
	return nil
}

// Finish closes any open position at the last bar's close.
func (s *StochasticCrossover) Finish() error {
	if _, open := s.Exec.Position(); !open || len(s.Bars) == 0 {
		return nil
	}
	last := len(s.Bars) - 1
	return s.closePosition(last, s.Bars[last].Close, "stoch_end_of_data")
}

// longEntry reports whether the sample before a bullish crossover sat in
// the oversold zone.
func (s *StochasticCrossover) longEntry(prev types.IndicatorPoint) bool {
	return s.Cfg.IgnoreZones || (prev.K < s.Cfg.Oversold && prev.D < s.Cfg.Oversold)
}

func (s *StochasticCrossover) shortEntry(prev types.IndicatorPoint) bool {
	return s.Cfg.IgnoreZones || (prev.K > s.Cfg.Overbought && prev.D > s.Cfg.Overbought)
}

// lineSide is -1 with %K below %D, 1 above and 0 on a touch.
func lineSide(p types.IndicatorPoint) int {
	switch {
	case p.K < p.D:
		return -1
	case p.K > p.D:
		return 1
	}
	return 0
}

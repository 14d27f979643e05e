package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every StochasticConfig / SimulationConfig
	// validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidRange is wrapped when a search range is empty or non-positive.
	ErrInvalidRange = errors.New("invalid range")
)

// StochasticConfig holds the three lengths of a Stochastic Oscillator.
// It is also the search key (PnL params) of a configuration.
type StochasticConfig struct {
	KLength    int `json:"k_length" yaml:"k_length"`
	KSmoothing int `json:"k_smoothing" yaml:"k_smoothing"`
	DLength    int `json:"d_length" yaml:"d_length"`
}

// Validate returns the first non-positive length.
func (c StochasticConfig) Validate() error {
	if c.KLength < 1 {
		return fmt.Errorf("%w: KLength (%d) must be >= 1", ErrInvalidConfig, c.KLength)
	}
	if c.KSmoothing < 1 {
		return fmt.Errorf("%w: KSmoothing (%d) must be >= 1", ErrInvalidConfig, c.KSmoothing)
	}
	if c.DLength < 1 {
		return fmt.Errorf("%w: DLength (%d) must be >= 1", ErrInvalidConfig, c.DLength)
	}
	return nil
}

// MinBars is the shortest series this configuration can be evaluated on.
func (c StochasticConfig) MinBars() int {
	return c.KLength + c.KSmoothing + c.DLength - 2
}

func (c StochasticConfig) String() string {
	return fmt.Sprintf("{k_length: %d, k_smoothing: %d, d_length: %d}", c.KLength, c.KSmoothing, c.DLength)
}

// Less orders configurations k_length first, then k_smoothing, then d_length.
func (c StochasticConfig) Less(o StochasticConfig) bool {
	if c.KLength != o.KLength {
		return c.KLength < o.KLength
	}
	if c.KSmoothing != o.KSmoothing {
		return c.KSmoothing < o.KSmoothing
	}
	return c.DLength < o.DLength
}

// Reversal decides what an opposite crossover does to an open position.
type Reversal int

const (
	// ReversalFlip closes the position and, when the same crossover is a valid
	// entry, opens the opposite side on the same bar.
	ReversalFlip Reversal = iota
	// ReversalFlatten closes the position and waits flat for the next entry.
	ReversalFlatten
)

func (r Reversal) String() string {
	if r == ReversalFlatten {
		return "flatten"
	}
	return "flip"
}

// SimulationConfig holds every knob of the trade simulator. Optional fields
// are nil when unset; the simulator reads them once at construction.
type SimulationConfig struct {
	Capital float64 // default 1000

	// Exchange constraints
	ExchangeFee *float64 // per side, e.g. 0.00075 = 0.075 %
	MinQty      *float64 // qty floor; its decimals are the qty step
	MinPrice    *float64 // price floor; its decimals are the price step

	// Precision of the paper account
	AssetScale int32 // default 8
	FundsScale int32 // default 8

	// Signal policy
	Reversal    Reversal
	Oversold    float64 // default 20
	Overbought  float64 // default 80
	IgnoreZones bool    // any crossover is an entry

	// No new entries once equity falls below MinEquity (default 10).
	MinEquity float64
}

// DefaultSimulationConfig mirrors the defaults of the paper account:
// 1000 of capital, 8 decimals everywhere, no fee and no exchange floors.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Capital:    1000,
		AssetScale: 8,
		FundsScale: 8,
		Reversal:   ReversalFlip,
		Oversold:   20,
		Overbought: 80,
		MinEquity:  10,
	}
}

// Validate checks that all numeric fields are within sensible bounds.
// It returns the first encountered error.
func (c *SimulationConfig) Validate() error {
	if c.Capital <= 0 {
		return fmt.Errorf("%w: Capital (%f) must be positive", ErrInvalidConfig, c.Capital)
	}
	if c.ExchangeFee != nil && (*c.ExchangeFee < 0 || *c.ExchangeFee >= 1) {
		return fmt.Errorf("%w: ExchangeFee (%f) must be in [0, 1)", ErrInvalidConfig, *c.ExchangeFee)
	}
	if c.MinQty != nil && *c.MinQty < 0 {
		return fmt.Errorf("%w: MinQty cannot be negative", ErrInvalidConfig)
	}
	if c.MinPrice != nil && *c.MinPrice < 0 {
		return fmt.Errorf("%w: MinPrice cannot be negative", ErrInvalidConfig)
	}
	if c.AssetScale < 0 || c.FundsScale < 0 {
		return fmt.Errorf("%w: scales cannot be negative", ErrInvalidConfig)
	}
	if c.Reversal != ReversalFlip && c.Reversal != ReversalFlatten {
		return fmt.Errorf("%w: unknown reversal policy %d", ErrInvalidConfig, c.Reversal)
	}
	if !c.IgnoreZones {
		if c.Oversold < 0 || c.Overbought > 100 {
			return fmt.Errorf("%w: zones must lie within [0, 100]", ErrInvalidConfig)
		}
		if c.Oversold > c.Overbought {
			return fmt.Errorf("%w: Oversold (%f) above Overbought (%f)", ErrInvalidConfig, c.Oversold, c.Overbought)
		}
	}
	if c.MinEquity < 0 {
		return fmt.Errorf("%w: MinEquity cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// Float returns a pointer to v, for the optional SimulationConfig fields.
func Float(v float64) *float64 { return &v }

// Package indicator computes the Stochastic Oscillator over a bar series.
package indicator

import (
	"errors"
	"fmt"

	"github.com/evdnx/goti"
	"github.com/evdnx/stochopt/config"
	"github.com/evdnx/stochopt/types"
)

// ErrInsufficientData is wrapped when a series is shorter than
// StochasticConfig.MinBars.
var ErrInsufficientData = errors.New("insufficient data")

// RawK returns the raw %K for every bar from index kLength-1 on; element j
// belongs to bar j+kLength-1. A flat high/low window yields 0.
func RawK(bars types.Series, kLength int) []float64 {
	if kLength < 1 || len(bars) < kLength {
		return nil
	}
	highs, lows := newWindow(kLength), newWindow(kLength)
	out := make([]float64, 0, len(bars)-kLength+1)
	for _, b := range bars {
		highs.Add(b.High)
		lows.Add(b.Low)
		if !highs.Full() {
			continue
		}
		hh, ll := highs.Max(), lows.Min()
		k := 0.0
		if rng := hh - ll; rng != 0 {
			k = 100 * (b.Close - ll) / rng
		}
		out = append(out, clamp(k))
	}
	return out
}

// SMA returns the simple moving average of every full period-long window of
// x; element j averages x[j..j+period-1]. It is nil when x is shorter than
// period, and fails on NaN or infinite input.
func SMA(x []float64, period int) ([]float64, error) {
	if period < 1 || len(x) < period {
		return nil, nil
	}
	ma, err := goti.NewMovingAverage(goti.SMAMovingAverage, period)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(x)-period+1)
	for i, v := range x {
		// AddValue, not Add: raw %K is legitimately 0
		if err := ma.AddValue(v); err != nil {
			return nil, fmt.Errorf("sma(%d) at %d: %w", period, i, err)
		}
		if i+1 < period {
			continue
		}
		avg, err := ma.Calculate()
		if err != nil {
			return nil, err
		}
		out = append(out, avg)
	}
	return out, nil
}

// Compute turns bars into aligned (%K, %D) samples. The first sample sits at
// bar MinBars(): it is the first bar whose predecessor already has a %D, so
// every sample can be compared against the one before it. The output length
// is len(bars) - MinBars().
func Compute(bars types.Series, cfg config.StochasticConfig) ([]types.IndicatorPoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	need := cfg.MinBars()
	if len(bars) < need {
		return nil, fmt.Errorf("%w: %d bars, %s needs %d", ErrInsufficientData, len(bars), cfg, need)
	}

	fast, err := SMA(RawK(bars, cfg.KLength), cfg.KSmoothing)
	if err != nil {
		return nil, err
	}
	signal, err := SMA(fast, cfg.DLength)
	if err != nil {
		return nil, err
	}

	// bar index of fast[0] and signal[0]
	fastAt := cfg.KLength + cfg.KSmoothing - 2
	signalAt := need - 1

	out := make([]types.IndicatorPoint, 0, len(bars)-need)
	for i := need; i < len(bars); i++ {
		out = append(out, types.IndicatorPoint{
			Index: i,
			K:     clamp(fast[i-fastAt]),
			D:     clamp(signal[i-signalAt]),
		})
	}
	return out, nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

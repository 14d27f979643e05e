package types

import (
	"fmt"
	"math"
	"time"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Direction of an open position or a closed trade.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// EntrySide is the order side that opens a position in direction d.
func (d Direction) EntrySide() Side {
	if d == Short {
		return Sell
	}
	return Buy
}

// ExitSide is the order side that closes a position in direction d.
func (d Direction) ExitSide() Side {
	if d == Short {
		return Buy
	}
	return Sell
}

// Order is a simulated fill request. Index is the bar the fill happens on.
type Order struct {
	Side  Side
	Qty   float64
	Price float64
	Index int
	// meta
	Comment string
}

// Bar is one candle. Only High, Low and Close feed the indicator; the rest is
// carried along for collaborators (caching, reporting).
type Bar struct {
	OpenTime  time.Time `json:"open_time"`
	CloseTime time.Time `json:"close_time"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Series is a chronologically ordered run of bars.
type Series []Bar

// Validate reports the first bar with a non-finite price or an inverted range.
func (s Series) Validate() error {
	for i, b := range s {
		for _, v := range [...]float64{b.High, b.Low, b.Close} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("bar %d: non-finite price", i)
			}
		}
		if b.High < b.Low {
			return fmt.Errorf("bar %d: high %.8f below low %.8f", i, b.High, b.Low)
		}
	}
	return nil
}

// FirstClose returns the close of the first bar, or 0 for an empty series.
func (s Series) FirstClose() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[0].Close
}

// LastClose returns the close of the last bar, or 0 for an empty series.
func (s Series) LastClose() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// IndicatorPoint is one aligned stochastic sample. Index points back into the
// Series the sample was computed from.
type IndicatorPoint struct {
	Index int
	K     float64
	D     float64
}

// Position is the simulator's open exposure.
type Position struct {
	Direction  Direction
	EntryIndex int
	EntryPrice float64
	Qty        float64
}

// Trade is a closed round trip. Profit is realized and already net of
// Commission.
type Trade struct {
	Direction  Direction
	EntryIndex int
	ExitIndex  int
	EntryPrice float64
	ExitPrice  float64
	Qty        float64
	Commission *float64
	Profit     float64
}

// Duration is the number of bars the trade was held.
func (t Trade) Duration() int {
	return t.ExitIndex - t.EntryIndex
}

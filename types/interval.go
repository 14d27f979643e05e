package types

import (
	"fmt"
	"time"
)

// Interval is a candle width, valued in seconds.
type Interval int

const (
	S1  Interval = 1
	M1  Interval = 60
	M3  Interval = 180
	M5  Interval = 300
	M15 Interval = 900
	M30 Interval = 1800
	H1  Interval = 3600
	H2  Interval = 7200
	H4  Interval = 14400
	H6  Interval = 21600
	H8  Interval = 28800
	H12 Interval = 43200
	D1  Interval = 86400
	D3  Interval = 259200
	W1  Interval = 604800
)

var intervalNames = map[Interval]string{
	S1: "1s", M1: "1m", M3: "3m", M5: "5m", M15: "15m", M30: "30m",
	H1: "1h", H2: "2h", H4: "4h", H6: "6h", H8: "8h", H12: "12h",
	D1: "1d", D3: "3d", W1: "1w",
}

func (i Interval) Seconds() int { return int(i) }

func (i Interval) Duration() time.Duration { return time.Duration(i) * time.Second }

func (i Interval) String() string {
	if s, ok := i.Name(); ok {
		return s
	}
	return fmt.Sprintf("%ds", int(i))
}

// Name is the venue-style name ("15m") of a standard interval.
func (i Interval) Name() (string, bool) {
	s, ok := intervalNames[i]
	return s, ok
}

// ParseInterval maps "15m", "4h", ... back to an Interval.
func ParseInterval(s string) (Interval, error) {
	for iv, name := range intervalNames {
		if name == s {
			return iv, nil
		}
	}
	return 0, fmt.Errorf("unknown interval %q", s)
}

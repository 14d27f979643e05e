package config

import (
	"errors"
	"testing"
)

func TestValidateSuccess(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.ExchangeFee = Float(0.00075)
	cfg.MinQty = Float(0.001)
	cfg.MinPrice = Float(0.01)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateFailsOnBadCapital(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.Capital = -1
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for negative capital, got %v", err)
	}
}

func TestValidateFailsOnInvertedZones(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.Oversold, cfg.Overbought = 80, 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for oversold above overbought")
	}
	// zones are not consulted when ignored
	cfg.IgnoreZones = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected ignored zones to validate, got %v", err)
	}
}

func TestValidateFailsOnFee(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.ExchangeFee = Float(1.5)
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for fee >= 1")
	}
}

func TestStochasticConfig(t *testing.T) {
	c := StochasticConfig{KLength: 5, KSmoothing: 3, DLength: 3}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.MinBars() != 9 {
		t.Fatalf("expected 9 min bars, got %d", c.MinBars())
	}
	bad := StochasticConfig{KLength: 0, KSmoothing: 3, DLength: 3}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestStochasticConfigLess(t *testing.T) {
	a := StochasticConfig{KLength: 5, KSmoothing: 3, DLength: 4}
	b := StochasticConfig{KLength: 5, KSmoothing: 4, DLength: 1}
	c := StochasticConfig{KLength: 6, KSmoothing: 1, DLength: 1}
	if !a.Less(b) || !b.Less(c) || c.Less(a) || a.Less(a) {
		t.Fatal("unexpected ordering")
	}
}

func TestSearchRangesValidate(t *testing.T) {
	ok := SearchRanges{KLength: Span(5, 6), KSmoothing: Span(3, 3), DLength: Span(1, 3)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := map[string]SearchRanges{
		"start after end": {KLength: Span(6, 5), KSmoothing: Span(3, 3), DLength: Span(3, 3)},
		"zero start":      {KLength: Span(5, 5), KSmoothing: Span(0, 3), DLength: Span(3, 3)},
		"negative end":    {KLength: Span(5, 5), KSmoothing: Span(3, 3), DLength: Span(-2, -1)},
	}
	for name, r := range cases {
		if err := r.Validate(); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("%s: expected ErrInvalidRange, got %v", name, err)
		}
	}
}

func TestSearchRangesConfigsOrder(t *testing.T) {
	r := SearchRanges{KLength: Span(5, 6), KSmoothing: Span(2, 3), DLength: Span(1, 2)}
	cfgs := r.Configs()
	if len(cfgs) != r.Count() || len(cfgs) != 8 {
		t.Fatalf("expected 8 configs, got %d", len(cfgs))
	}
	for i := 1; i < len(cfgs); i++ {
		if !cfgs[i-1].Less(cfgs[i]) {
			t.Fatalf("configs not in enumeration order at %d: %v then %v", i, cfgs[i-1], cfgs[i])
		}
	}
	if cfgs[0] != (StochasticConfig{5, 2, 1}) || cfgs[7] != (StochasticConfig{6, 3, 2}) {
		t.Fatalf("unexpected bounds: %v .. %v", cfgs[0], cfgs[7])
	}
}

func TestSingle(t *testing.T) {
	c := StochasticConfig{KLength: 14, KSmoothing: 3, DLength: 3}
	cfgs := Single(c).Configs()
	if len(cfgs) != 1 || cfgs[0] != c {
		t.Fatalf("expected exactly %v, got %v", c, cfgs)
	}
}

func TestSearchRangesAtWithoutMaterializing(t *testing.T) {
	r := SearchRanges{KLength: Span(1, 1_000_000), KSmoothing: Span(1, 1000), DLength: Span(1, 1000)}
	if err := r.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := r.At(0); got != (StochasticConfig{1, 1, 1}) {
		t.Fatalf("first config %v", got)
	}
	if got := r.At(1000 * 1000); got != (StochasticConfig{2, 1, 1}) {
		t.Fatalf("config after the first k_length block %v", got)
	}
	if got := r.At(r.Count() - 1); got != (StochasticConfig{1_000_000, 1000, 1000}) {
		t.Fatalf("last config %v", got)
	}
}

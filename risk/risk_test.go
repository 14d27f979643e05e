package risk

import (
	"testing"

	"github.com/evdnx/stochopt/config"
)

func TestStepScale(t *testing.T) {
	cases := map[float64]int32{0.001: 3, 0.01: 2, 1: 0, 10: 0, 0.00001: 5}
	for step, want := range cases {
		got, ok := StepScale(config.Float(step))
		if !ok || got != want {
			t.Fatalf("step %v: expected scale %d, got %d (ok=%v)", step, want, got, ok)
		}
	}
	if _, ok := StepScale(nil); ok {
		t.Fatal("expected unset step to report ok=false")
	}
}

func TestCalcQtyBasic(t *testing.T) {
	cfg := config.DefaultSimulationConfig()
	qty := CalcQty(1000, 300, cfg) // 3.333333333... truncated to 8 dp
	if qty != 3.33333333 {
		t.Fatalf("unexpected qty: %v", qty)
	}
}

func TestCalcQtyRespectsStep(t *testing.T) {
	cfg := config.DefaultSimulationConfig()
	cfg.MinQty = config.Float(0.01)
	qty := CalcQty(1000, 300, cfg)
	if qty != 3.33 {
		t.Fatalf("expected qty truncated to 0.01 step, got %v", qty)
	}
}

func TestCalcQtyRespectsMinQty(t *testing.T) {
	cfg := config.DefaultSimulationConfig()
	cfg.MinQty = config.Float(1)
	qty := CalcQty(100, 5000, cfg) // 0.02 < MinQty
	if qty != 0 {
		t.Fatalf("expected 0 (below MinQty), got %v", qty)
	}
}

func TestCalcQtyReservesFee(t *testing.T) {
	cfg := config.DefaultSimulationConfig()
	cfg.ExchangeFee = config.Float(0.01)
	qty := CalcQty(1000, 100, cfg) // 990 / 100
	if qty != 9.9 {
		t.Fatalf("expected 9.9, got %v", qty)
	}
}

func TestCalcQtyDegenerateInputs(t *testing.T) {
	cfg := config.DefaultSimulationConfig()
	if CalcQty(0, 100, cfg) != 0 || CalcQty(100, 0, cfg) != 0 {
		t.Fatal("expected 0 for zero equity or price")
	}
}

func TestFillPriceAndFloor(t *testing.T) {
	cfg := config.DefaultSimulationConfig()
	if FillPrice(1734.3456, cfg) != 1734.3456 {
		t.Fatal("price should pass through without a MinPrice")
	}
	cfg.MinPrice = config.Float(0.01)
	if got := FillPrice(1734.3456, cfg); got != 1734.34 {
		t.Fatalf("expected 1734.34, got %v", got)
	}
	if !BelowMinPrice(0.001, cfg) || BelowMinPrice(0.01, cfg) {
		t.Fatal("unexpected min price check")
	}
}

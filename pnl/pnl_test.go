package pnl

import (
	"math"
	"testing"

	"github.com/evdnx/stochopt/types"
)

func trade(entry, exit int, profit float64) types.Trade {
	return types.Trade{Direction: types.Long, EntryIndex: entry, ExitIndex: exit, Profit: profit}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAggregateMixed(t *testing.T) {
	trades := []types.Trade{
		trade(0, 4, 30),
		trade(4, 6, -10),
		trade(6, 12, 0),
		trade(12, 14, 10.1),
		trade(14, 15, -20.2),
	}
	got := Aggregate(trades, 100, 110, false)

	if got.TotalClosedTrades != 5 || got.NumWinningTrades != 2 || got.NumLosingTrades != 3 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if got.NumWinningTrades+got.NumLosingTrades != got.TotalClosedTrades {
		t.Fatal("wins + losses must equal total")
	}
	if !approx(got.GrossProfit, 40.1) || !approx(got.GrossLoss, -30.2) {
		t.Fatalf("unexpected gross: profit=%v loss=%v", got.GrossProfit, got.GrossLoss)
	}
	if got.NetProfit != got.GrossProfit+got.GrossLoss {
		t.Fatalf("net %v != gross profit + gross loss %v", got.NetProfit, got.GrossProfit+got.GrossLoss)
	}
	if !approx(got.NetProfit, 9.9) {
		t.Fatalf("expected net 9.9, got %v", got.NetProfit)
	}
	if !approx(got.ProfitFactor, 40.1/30.2) {
		t.Fatalf("unexpected profit factor %v", got.ProfitFactor)
	}
	if got.PercentProfitable != 40 {
		t.Fatalf("expected 40%% profitable, got %v", got.PercentProfitable)
	}
	if !approx(got.AvgWinningTrade, 20.05) || !approx(got.AvgLosingTrade, -30.2/3) {
		t.Fatalf("unexpected averages: win=%v loss=%v", got.AvgWinningTrade, got.AvgLosingTrade)
	}
	if !approx(got.RatioAvgWinLoss, 20.05/(30.2/3)) {
		t.Fatalf("unexpected win/loss ratio %v", got.RatioAvgWinLoss)
	}
	if got.LargestWinningTrade != 30 || got.LargestLosingTrade != -20.2 {
		t.Fatalf("unexpected extremes: %v / %v", got.LargestWinningTrade, got.LargestLosingTrade)
	}
	if got.AvgTicksInWinningTrades != 3 || got.AvgTicksInLosingTrades != 3 {
		t.Fatalf("unexpected ticks: %v / %v", got.AvgTicksInWinningTrades, got.AvgTicksInLosingTrades)
	}
	if got.BuyAndHoldReturn != 10 {
		t.Fatalf("expected buy and hold 10, got %v", got.BuyAndHoldReturn)
	}
	if got.CommissionPaid != nil {
		t.Fatal("no trade carried a commission")
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil, 100, 90, false)
	if got.TotalClosedTrades != 0 || got.NetProfit != 0 || got.ProfitFactor != 0 || got.PercentProfitable != 0 {
		t.Fatalf("expected zero record, got %+v", got)
	}
	if got.BuyAndHoldReturn != -10 {
		t.Fatalf("expected buy and hold -10, got %v", got.BuyAndHoldReturn)
	}
}

func TestAggregateOnlyWinnersIsInfiniteFactor(t *testing.T) {
	got := Aggregate([]types.Trade{trade(0, 2, 5)}, 0, 10, false)
	if !math.IsInf(got.ProfitFactor, 1) {
		t.Fatalf("expected +Inf, got %v", got.ProfitFactor)
	}
	if got.RatioAvgWinLoss != 0 {
		t.Fatalf("expected ratio 0 without losses, got %v", got.RatioAvgWinLoss)
	}
	if got.BuyAndHoldReturn != 0 {
		t.Fatal("buy and hold must be 0 when the first close is 0")
	}
}

func TestAggregateZeroProfitIsLosingButNotLargestLoss(t *testing.T) {
	got := Aggregate([]types.Trade{trade(0, 1, 0)}, 1, 1, false)
	if got.NumLosingTrades != 1 || got.LargestLosingTrade != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.ProfitFactor != 0 {
		t.Fatalf("expected profit factor 0, got %v", got.ProfitFactor)
	}
}

func TestAggregateCommission(t *testing.T) {
	a, b := 0.5, 0.25
	trades := []types.Trade{trade(0, 1, 3), trade(1, 2, -1), trade(2, 3, 1)}
	trades[0].Commission = &a
	trades[1].Commission = &b

	got := Aggregate(trades, 1, 1, false)
	if got.CommissionPaid == nil || *got.CommissionPaid != 0.75 {
		t.Fatalf("expected commission 0.75, got %v", got.CommissionPaid)
	}
}

func TestAggregateNetIsGrossSum(t *testing.T) {
	for _, profits := range [][]float64{
		{0.1, -0.3},
		{30, -10, 0, 10.1, -20.2},
		{0.7, 0.1, -0.2, -0.1, 1e-9},
	} {
		trades := make([]types.Trade, len(profits))
		for i, p := range profits {
			trades[i] = trade(i, i+1, p)
		}
		got := Aggregate(trades, 1, 1, false)
		if got.NetProfit != got.GrossProfit+got.GrossLoss {
			t.Fatalf("%v: net %v != %v + %v", profits, got.NetProfit, got.GrossProfit, got.GrossLoss)
		}
	}
}

func TestAggregateSuppliedFeeWithoutTrades(t *testing.T) {
	got := Aggregate(nil, 100, 100, true)
	if got.CommissionPaid == nil || *got.CommissionPaid != 0 {
		t.Fatalf("expected commission 0 with a fee configured, got %v", got.CommissionPaid)
	}
	if got := Aggregate(nil, 100, 100, false); got.CommissionPaid != nil {
		t.Fatalf("expected no commission without a fee, got %v", *got.CommissionPaid)
	}
}

package search

import (
	"testing"

	"github.com/evdnx/stochopt/pnl"
)

func rankedAt(ordinal int, net float64) ranked {
	return ranked{ordinal: ordinal, Result: Result{PnL: pnl.PnL{NetProfit: net}}}
}

func TestRankingTailIgnoresArrivalOrder(t *testing.T) {
	nets := []float64{5, 1, 5, 3, 5}
	for _, arrival := range [][]int{{0, 1, 2, 3, 4}, {4, 3, 2, 1, 0}, {2, 0, 4, 1, 3}} {
		r := newRanking(2)
		for _, i := range arrival {
			r.add(rankedAt(i, nets[i]))
		}
		got := r.sorted()
		// stable ascending order is 1(#1) 3(#3) 5(#0) 5(#2) 5(#4); the tail keeps #2 and #4
		if len(got) != 2 || len(r.h) != 2 {
			t.Fatalf("arrival %v: expected 2 results, got %d", arrival, len(got))
		}
		if r.h[0].ordinal != 2 && r.h[1].ordinal != 2 {
			t.Fatalf("arrival %v: expected ordinal 2 kept, got %+v", arrival, r.h)
		}
		if r.h[0].ordinal != 4 && r.h[1].ordinal != 4 {
			t.Fatalf("arrival %v: expected ordinal 4 kept, got %+v", arrival, r.h)
		}
	}
}

func TestRankingUnboundedKeepsAll(t *testing.T) {
	r := newRanking(0)
	for i, net := range []float64{3, -1, 3, 0} {
		r.add(rankedAt(i, net))
	}
	got := r.sorted()
	want := []float64{-1, 0, 3, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].PnL.NetProfit != want[i] {
			t.Fatalf("position %d: expected %v, got %v", i, want[i], got[i].PnL.NetProfit)
		}
	}
}

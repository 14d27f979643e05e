package search

import (
	"container/heap"
	"sort"
)

// ranked is a result tagged with its configuration's enumeration ordinal.
type ranked struct {
	ordinal int
	Result
}

// before orders by net profit, ties by ordinal. Sorting by it equals a
// stable sort of the enumeration by net profit.
func before(a, b ranked) bool {
	if a.PnL.NetProfit != b.PnL.NetProfit {
		return a.PnL.NetProfit < b.PnL.NetProfit
	}
	return a.ordinal < b.ordinal
}

type rankHeap []ranked

func (h rankHeap) Len() int           { return len(h) }
func (h rankHeap) Less(i, j int) bool { return before(h[i], h[j]) }
func (h rankHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *rankHeap) Push(x any)        { *h = append(*h, x.(ranked)) }
func (h *rankHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

// ranking keeps the n last results in before order; n == 0 keeps all.
// Memory stays bounded by n however large the search is.
type ranking struct {
	n int
	h rankHeap
}

func newRanking(n int) *ranking { return &ranking{n: n} }

func (r *ranking) add(x ranked) {
	if r.n > 0 && len(r.h) == r.n {
		if !before(r.h[0], x) {
			return
		}
		r.h[0] = x
		heap.Fix(&r.h, 0)
		return
	}
	heap.Push(&r.h, x)
}

// sorted returns the kept results ascending.
func (r *ranking) sorted() []Result {
	kept := append([]ranked(nil), r.h...)
	sort.Slice(kept, func(i, j int) bool { return before(kept[i], kept[j]) })
	out := make([]Result, len(kept))
	for i, k := range kept {
		out[i] = k.Result
	}
	return out
}

package pnl

import (
	"math"

	"github.com/evdnx/stochopt/types"
	"github.com/shopspring/decimal"
)

// PnL summarizes the closed trades of one simulation run.
type PnL struct {
	NetProfit        float64  `json:"net_profit"`
	GrossProfit      float64  `json:"gross_profit"`
	GrossLoss        float64  `json:"gross_loss"`
	BuyAndHoldReturn float64  `json:"buy_and_hold_return"`
	ProfitFactor     float64  `json:"profit_factor"`
	CommissionPaid   *float64 `json:"commission_paid,omitempty"`

	TotalClosedTrades int     `json:"total_closed_trades"`
	NumWinningTrades  int     `json:"num_winning_trades"`
	NumLosingTrades   int     `json:"num_losing_trades"`
	PercentProfitable float64 `json:"percent_profitable"`

	AvgWinningTrade     float64 `json:"avg_winning_trade"`
	AvgLosingTrade      float64 `json:"avg_losing_trade"`
	RatioAvgWinLoss     float64 `json:"ratio_avg_win_loss"`
	LargestWinningTrade float64 `json:"largest_winning_trade"`
	LargestLosingTrade  float64 `json:"largest_losing_trade"`

	AvgTicksInWinningTrades float64 `json:"avg_ticks_in_winning_trades"`
	AvgTicksInLosingTrades  float64 `json:"avg_ticks_in_losing_trades"`
}

// Aggregate folds trades into a PnL in one pass. A trade with zero profit
// counts as losing but never becomes the largest loss. firstClose and
// lastClose bound the buy-and-hold benchmark. CommissionPaid is set when
// feeSupplied is true or any trade carried a commission.
func Aggregate(trades []types.Trade, firstClose, lastClose float64, feeSupplied bool) PnL {
	var (
		profit, loss, fees      decimal.Decimal
		wins, losses            int
		winTicks, lossTicks     int
		largestWin, largestLoss float64
		feePaid                 bool
	)
	for _, tr := range trades {
		p := decimal.NewFromFloat(tr.Profit)
		if tr.Profit > 0 {
			wins++
			winTicks += tr.Duration()
			profit = profit.Add(p)
			largestWin = math.Max(largestWin, tr.Profit)
		} else {
			losses++
			lossTicks += tr.Duration()
			loss = loss.Add(p)
			if tr.Profit < 0 {
				largestLoss = math.Min(largestLoss, tr.Profit)
			}
		}
		if tr.Commission != nil {
			feePaid = true
			fees = fees.Add(decimal.NewFromFloat(*tr.Commission))
		}
	}

	out := PnL{
		GrossProfit:         profit.InexactFloat64(),
		GrossLoss:           loss.InexactFloat64(),
		BuyAndHoldReturn:    buyAndHold(firstClose, lastClose),
		TotalClosedTrades:   len(trades),
		NumWinningTrades:    wins,
		NumLosingTrades:     losses,
		LargestWinningTrade: largestWin,
		LargestLosingTrade:  largestLoss,
	}
	// summed after conversion so net == gross profit + gross loss holds in float64
	out.NetProfit = out.GrossProfit + out.GrossLoss
	if feePaid || feeSupplied {
		c := fees.InexactFloat64()
		out.CommissionPaid = &c
	}

	switch {
	case !loss.IsZero():
		out.ProfitFactor = profit.Div(loss.Abs()).InexactFloat64()
	case profit.IsPositive():
		out.ProfitFactor = math.Inf(1)
	}

	if len(trades) == 0 {
		return out
	}
	out.PercentProfitable = 100 * float64(wins) / float64(len(trades))
	if wins > 0 {
		out.AvgWinningTrade = profit.Div(decimal.NewFromInt(int64(wins))).InexactFloat64()
		out.AvgTicksInWinningTrades = float64(winTicks) / float64(wins)
	}
	if losses > 0 {
		out.AvgLosingTrade = loss.Div(decimal.NewFromInt(int64(losses))).InexactFloat64()
		out.AvgTicksInLosingTrades = float64(lossTicks) / float64(losses)
	}
	if out.AvgLosingTrade != 0 {
		out.RatioAvgWinLoss = out.AvgWinningTrade / math.Abs(out.AvgLosingTrade)
	}
	return out
}

func buyAndHold(first, last float64) float64 {
	if first == 0 {
		return 0
	}
	f := decimal.NewFromFloat(first)
	return decimal.NewFromFloat(last).Sub(f).Div(f).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

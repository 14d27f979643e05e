package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/evdnx/stochopt/search"
)

// WriteText prints one line per result in the order given.
func WriteText(w io.Writer, results []search.Result) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "Net profit: %s, Parameters: %s\n", formatF(r.PnL.NetProfit), r.Params); err != nil {
			return err
		}
	}
	return nil
}

var csvHeader = []string{
	"k_length", "k_smoothing", "d_length",
	"net_profit", "gross_profit", "gross_loss", "buy_and_hold_return",
	"profit_factor", "commission_paid",
	"total_closed_trades", "num_winning_trades", "num_losing_trades", "percent_profitable",
	"avg_winning_trade", "avg_losing_trade", "ratio_avg_win_loss",
	"largest_winning_trade", "largest_losing_trade",
	"avg_ticks_in_winning_trades", "avg_ticks_in_losing_trades",
}

// WriteCSV writes a header and one row per result. commission_paid is empty
// when no fee applied.
func WriteCSV(w io.Writer, results []search.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePnL prints one "name value" line per field of a single result, using
// the CSV column names.
func WritePnL(w io.Writer, r search.Result) error {
	for i, v := range row(r) {
		if v == "" {
			v = "-"
		}
		if _, err := fmt.Fprintf(w, "%-28s %s\n", csvHeader[i], v); err != nil {
			return err
		}
	}
	return nil
}

// row renders r in csvHeader order.
func row(r search.Result) []string {
	p := r.PnL
	commission := ""
	if p.CommissionPaid != nil {
		commission = formatF(*p.CommissionPaid)
	}
	return []string{
		strconv.Itoa(r.Params.KLength), strconv.Itoa(r.Params.KSmoothing), strconv.Itoa(r.Params.DLength),
		formatF(p.NetProfit), formatF(p.GrossProfit), formatF(p.GrossLoss), formatF(p.BuyAndHoldReturn),
		formatF(p.ProfitFactor), commission,
		strconv.Itoa(p.TotalClosedTrades), strconv.Itoa(p.NumWinningTrades), strconv.Itoa(p.NumLosingTrades),
		formatF(p.PercentProfitable),
		formatF(p.AvgWinningTrade), formatF(p.AvgLosingTrade), formatF(p.RatioAvgWinLoss),
		formatF(p.LargestWinningTrade), formatF(p.LargestLosingTrade),
		formatF(p.AvgTicksInWinningTrades), formatF(p.AvgTicksInLosingTrades),
	}
}

// formatF prints the shortest exact representation; +Inf becomes "+Inf".
func formatF(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/evdnx/stochopt/types"
)

const defaultCoinbaseURL = "https://api.exchange.coinbase.com"

// coinbaseMaxCandles is the page size of /products/{id}/candles.
const coinbaseMaxCandles = 300

var coinbaseGranularities = map[types.Interval]bool{
	types.M1: true, types.M5: true, types.M15: true,
	types.H1: true, types.H6: true, types.D1: true,
}

type coinbase struct {
	client
	now func() time.Time
}

func coinbaseProduct(p Params) string {
	return strings.ToUpper(p.BaseAsset + "-" + p.QuoteAsset)
}

// Fetch walks backwards from now in pages of 300 candles, one request per
// limiter tick. The newest candle is unfinished and dropped.
func (c *coinbase) Fetch(ctx context.Context, p Params) (types.Series, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if !coinbaseGranularities[p.Interval] {
		return nil, fmt.Errorf("%w: coinbase has no %s granularity", ErrFetch, p.Interval)
	}
	product := coinbaseProduct(p)
	gran := p.Interval.Duration()
	want := p.Limit + 1
	chunks := (want + coinbaseMaxCandles - 1) / coinbaseMaxCandles

	seen := make(map[int64]types.Bar, want)
	end := c.now().UTC()
	for range chunks {
		start := end.Add(-coinbaseMaxCandles * gran)
		q := url.Values{}
		q.Set("granularity", strconv.Itoa(p.Interval.Seconds()))
		q.Set("start", start.Format(time.RFC3339))
		q.Set("end", end.Format(time.RFC3339))

		// [time, low, high, open, close, volume], newest first
		var raw [][]json.Number
		if err := c.getJSON(ctx, c.buildURL("/products/"+product+"/candles", q), &raw); err != nil {
			return nil, fmt.Errorf("%w: coinbase candles %s: %w", ErrFetch, product, err)
		}
		for i, row := range raw {
			bar, err := decodeCoinbaseCandle(row, gran)
			if err != nil {
				return nil, fmt.Errorf("%w: candle %d: %w", ErrFetch, i, err)
			}
			seen[bar.OpenTime.Unix()] = bar
		}
		end = start
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: coinbase returned no candles for %s", ErrFetch, product)
	}

	out := make(types.Series, 0, len(seen))
	for _, b := range seen {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenTime.Before(out[j].OpenTime) })
	out = out[:len(out)-1]
	if len(out) > p.Limit {
		out = out[len(out)-p.Limit:]
	}
	return out, nil
}

func decodeCoinbaseCandle(row []json.Number, gran time.Duration) (types.Bar, error) {
	if len(row) < 6 {
		return types.Bar{}, fmt.Errorf("expected 6 fields, got %d", len(row))
	}
	sec, err := row[0].Int64()
	if err != nil {
		return types.Bar{}, err
	}
	var v [5]float64
	for i := range v {
		if v[i], err = row[i+1].Float64(); err != nil {
			return types.Bar{}, err
		}
	}
	open := time.Unix(sec, 0).UTC()
	return types.Bar{
		OpenTime:  open,
		CloseTime: open.Add(gran - time.Millisecond),
		Low:       v[0],
		High:      v[1],
		Open:      v[2],
		Close:     v[3],
		Volume:    v[4],
	}, nil
}

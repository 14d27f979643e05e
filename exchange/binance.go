package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/evdnx/stochopt/types"
)

const defaultBinanceURL = "https://api.binance.us"

// binanceMaxLimit is the largest page /api/v3/klines serves.
const binanceMaxLimit = 1000

type binance struct {
	client
}

func binanceSymbol(p Params) string {
	return strings.ToUpper(p.BaseAsset + p.QuoteAsset)
}

// Fetch asks for one extra kline and drops it: the newest kline is still
// being built.
func (b *binance) Fetch(ctx context.Context, p Params) (types.Series, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.Limit >= binanceMaxLimit {
		return nil, fmt.Errorf("%w: binance serves at most %d klines per request", ErrFetch, binanceMaxLimit-1)
	}
	if _, ok := p.Interval.Name(); !ok {
		return nil, fmt.Errorf("%w: binance has no %s interval", ErrFetch, p.Interval)
	}

	q := url.Values{}
	q.Set("symbol", binanceSymbol(p))
	q.Set("interval", p.Interval.String())
	q.Set("limit", strconv.Itoa(p.Limit+1))

	// [openTime, open, high, low, close, volume, closeTime, quoteVolume, ...]
	var raw [][]json.Number
	if err := b.getJSON(ctx, b.buildURL("/api/v3/klines", q), &raw); err != nil {
		return nil, fmt.Errorf("%w: binance klines %s: %w", ErrFetch, binanceSymbol(p), err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: binance returned no klines for %s", ErrFetch, binanceSymbol(p))
	}

	out := make(types.Series, 0, len(raw))
	for i, row := range raw {
		bar, err := decodeBinanceKline(row)
		if err != nil {
			return nil, fmt.Errorf("%w: kline %d: %w", ErrFetch, i, err)
		}
		out = append(out, bar)
	}
	return out[:len(out)-1], nil
}

func decodeBinanceKline(row []json.Number) (types.Bar, error) {
	if len(row) < 7 {
		return types.Bar{}, fmt.Errorf("expected at least 7 fields, got %d", len(row))
	}
	openMs, err := row[0].Int64()
	if err != nil {
		return types.Bar{}, err
	}
	closeMs, err := row[6].Int64()
	if err != nil {
		return types.Bar{}, err
	}
	var v [5]float64
	for i := range v {
		if v[i], err = strconv.ParseFloat(row[i+1].String(), 64); err != nil {
			return types.Bar{}, err
		}
	}
	return types.Bar{
		OpenTime:  time.UnixMilli(openMs).UTC(),
		CloseTime: time.UnixMilli(closeMs).UTC(),
		Open:      v[0],
		High:      v[1],
		Low:       v[2],
		Close:     v[3],
		Volume:    v[4],
	}, nil
}

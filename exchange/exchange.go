package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evdnx/stochopt/types"
	"golang.org/x/time/rate"
)

var (
	// ErrFetch wraps every failure to obtain bars from a venue or the cache.
	ErrFetch = errors.New("fetch failed")
	// ErrUnknownSource is returned by ParseSource and New for venues that are
	// not supported.
	ErrUnknownSource = errors.New("unknown exchange source")
)

// Source is the closed set of supported venues.
type Source int

const (
	SourceBinance Source = iota
	SourceCoinbase
)

func (s Source) String() string {
	switch s {
	case SourceBinance:
		return "binance"
	case SourceCoinbase:
		return "coinbase"
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// ParseSource maps a venue name ("binance", "coinbase") to a Source.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "binance":
		return SourceBinance, nil
	case "coinbase":
		return SourceCoinbase, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

// Params selects the market and the amount of history to fetch.
type Params struct {
	BaseAsset  string
	QuoteAsset string
	Interval   types.Interval
	// Limit is the number of finished bars wanted.
	Limit int
}

func (p Params) validate() error {
	if p.BaseAsset == "" || p.QuoteAsset == "" {
		return fmt.Errorf("%w: base and quote asset are required", ErrFetch)
	}
	if p.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrFetch)
	}
	if p.Limit < 1 {
		return fmt.Errorf("%w: limit (%d) must be >= 1", ErrFetch, p.Limit)
	}
	return nil
}

// Fetcher returns finished bars, oldest first.
type Fetcher interface {
	Fetch(ctx context.Context, p Params) (types.Series, error)
}

type options struct {
	baseURL  string
	http     *http.Client
	cacheDir string
	limit    *rate.Limit
}

// Option customises a Fetcher built by New.
type Option func(*options)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option { return func(o *options) { o.baseURL = strings.TrimRight(u, "/") } }

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.http = c } }

// WithCache stores fetched series as JSON below dir and serves later
// fetches from there.
func WithCache(dir string) Option { return func(o *options) { o.cacheDir = dir } }

// WithRateLimit paces outgoing requests. Coinbase defaults to one request
// per second; Binance is unpaced unless set.
func WithRateLimit(l rate.Limit) Option { return func(o *options) { o.limit = &l } }

// New builds the Fetcher for source.
func New(source Source, opts ...Option) (Fetcher, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.http == nil {
		o.http = defaultHTTPClient()
	}

	var (
		f      Fetcher
		symbol func(Params) string
	)
	switch source {
	case SourceBinance:
		if o.baseURL == "" {
			o.baseURL = defaultBinanceURL
		}
		b := &binance{client: newClient(o, rate.Inf)}
		f, symbol = b, binanceSymbol
	case SourceCoinbase:
		if o.baseURL == "" {
			o.baseURL = defaultCoinbaseURL
		}
		c := &coinbase{client: newClient(o, rate.Every(time.Second)), now: time.Now}
		f, symbol = c, coinbaseProduct
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}

	if o.cacheDir == "" {
		return f, nil
	}
	u, err := url.Parse(o.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base url: %v", ErrFetch, err)
	}
	return &cached{next: f, dir: o.cacheDir, host: u.Hostname(), symbol: symbol}, nil
}

func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 15 * time.Second}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// client is the HTTP plumbing shared by the venues.
type client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func newClient(o options, def rate.Limit) client {
	l := def
	if o.limit != nil {
		l = *o.limit
	}
	return client{baseURL: o.baseURL, http: o.http, limiter: rate.NewLimiter(l, 1)}
}

func (c client) buildURL(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return c.baseURL + endpoint
	}
	return c.baseURL + endpoint + "?" + params.Encode()
}

func (c client) getJSON(ctx context.Context, fullURL string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "stochopt")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http GET failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(target)
}

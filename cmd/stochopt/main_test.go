package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/evdnx/stochopt/config"
	"github.com/evdnx/stochopt/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// klineServer serves `limit` oscillating Binance klines.
func klineServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.URL.Query().Get("limit"))
		assert.NoError(t, err)
		rows := make([][]any, 0, n)
		for i := 0; i < n; i++ {
			c := 1800 + 40*math.Sin(float64(i)/4)
			open := int64(1700000000000 + i*900000)
			f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
			rows = append(rows, []any{open, f(c), f(c + 6), f(c - 6), f(c), "10", open + 899999})
		}
		_ = json.NewEncoder(w).Encode(rows)
	}))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stochopt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSearchCommand(t *testing.T) {
	srv := klineServer(t)
	defer srv.Close()
	cfgPath := writeConfig(t, `
exchange: binance
base: ETH
quote: USDT
interval: 15m
limit: 200
ranges:
  k_length: {start: 3, end: 6}
  k_smoothing: {start: 1, end: 2}
  d_length: {start: 1, end: 2}
`)
	csvPath := filepath.Join(t.TempDir(), "results.csv")

	out, err := run(t, "search", "--quiet", "--config", cfgPath, "--base-url", srv.URL,
		"--top", "3", "--fee", "0.00075", "--csv", csvPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "Net profit: "), l)
		assert.Contains(t, l, "Parameters: {k_length: ")
	}

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestPnLCommand(t *testing.T) {
	srv := klineServer(t)
	defer srv.Close()

	out, err := run(t, "pnl", "--quiet", "--base-url", srv.URL, "--limit", "150",
		"--k-length", "9", "--k-smoothing", "3", "--d-length", "3", "--flatten")
	require.NoError(t, err)

	got := map[string]string{}
	for _, l := range strings.Split(strings.TrimSpace(out), "\n") {
		kv := strings.Fields(l)
		require.Len(t, kv, 2, l)
		got[kv[0]] = kv[1]
	}
	assert.Equal(t, "9", got["k_length"])
	assert.Equal(t, "3", got["k_smoothing"])
	assert.Equal(t, "3", got["d_length"])
	assert.Equal(t, "-", got["commission_paid"])

	total, _ := strconv.Atoi(got["total_closed_trades"])
	wins, _ := strconv.Atoi(got["num_winning_trades"])
	losses, _ := strconv.Atoi(got["num_losing_trades"])
	assert.Equal(t, total, wins+losses)
}

func TestInvalidConfigRejected(t *testing.T) {
	_, err := run(t, "search", "--quiet", "--exchange", "kraken")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = run(t, "search", "--quiet", "--interval", "7m")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = run(t, "pnl", "--quiet", "--fee", "1.5")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = run(t, "pnl", "--quiet", "--k-length", "0")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadFileConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, "quote: USD\nexchange: coinbase\nfee: 0.001\nreversal: flatten\n")
	cfg, err := loadFileConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.validate())

	assert.Equal(t, "coinbase", cfg.Exchange)
	assert.Equal(t, "ETH", cfg.Base, "unset keys keep their default")
	require.NotNil(t, cfg.Fee)
	assert.Equal(t, 0.001, *cfg.Fee)

	sim := cfg.simulation()
	assert.Equal(t, config.ReversalFlatten, sim.Reversal)
	assert.Equal(t, 1000.0, sim.Capital)

	_, err = loadFileConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

type closeFailer struct {
	bytes.Buffer
	err error
}

func (c *closeFailer) Close() error { return c.err }

func TestWriteCSVReportsCloseError(t *testing.T) {
	diskFull := errors.New("disk full")
	w := &closeFailer{err: diskFull}
	err := writeCSV(w, []search.Result{{Params: config.StochasticConfig{KLength: 5, KSmoothing: 3, DLength: 3}}})
	assert.ErrorIs(t, err, diskFull)
	assert.Contains(t, w.String(), "k_length")

	ok := &closeFailer{}
	assert.NoError(t, writeCSV(ok, nil))
}

package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/evdnx/stochopt/types"
)

// cached serves a Fetcher's series from <dir>/klines/<host>/<symbol>.json.
// A cached file shorter than the requested limit is refreshed.
type cached struct {
	next   Fetcher
	dir    string
	host   string
	symbol func(Params) string
}

func (c *cached) path(p Params) string {
	name := fmt.Sprintf("%s_%s.json", c.symbol(p), p.Interval)
	return filepath.Join(c.dir, "klines", c.host, name)
}

func (c *cached) Fetch(ctx context.Context, p Params) (types.Series, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	path := c.path(p)
	if s, err := readSeries(path); err == nil && len(s) >= p.Limit {
		return s[len(s)-p.Limit:], nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: cache %s: %w", ErrFetch, path, err)
	}

	s, err := c.next.Fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := writeSeries(path, s); err != nil {
		return nil, fmt.Errorf("%w: cache %s: %w", ErrFetch, path, err)
	}
	return s, nil
}

func readSeries(path string) (types.Series, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s types.Series
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// writeSeries replaces path atomically.
func writeSeries(path string, s types.Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

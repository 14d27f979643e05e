package main

import (
	"fmt"
	"io"
	"os"

	"github.com/evdnx/stochopt/logger"
	"github.com/evdnx/stochopt/report"
	"github.com/evdnx/stochopt/search"
	"github.com/evdnx/stochopt/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cliFlags mirrors fileConfig; a flag only wins over the file when it was
// set on the command line.
type cliFlags struct {
	configPath string
	quiet      bool
	csvPath    string

	exchange, baseURL, base, quote, interval, cacheDir string
	limit, top, workers                                int
	capital, fee, minQty, minPrice                     float64
	flatten                                            bool
	kLength, kSmoothing, dLength                       int
}

func newRootCmd() *cobra.Command {
	f := &cliFlags{}
	root := &cobra.Command{
		Use:           "stochopt",
		Short:         "Search Stochastic Oscillator settings against historical bars",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file")
	pf.BoolVar(&f.quiet, "quiet", false, "disable structured logging")
	pf.StringVar(&f.exchange, "exchange", "", "binance or coinbase")
	pf.StringVar(&f.baseURL, "base-url", "", "override the exchange API host")
	pf.StringVar(&f.base, "base", "", "base asset, e.g. ETH")
	pf.StringVar(&f.quote, "quote", "", "quote asset, e.g. USDT")
	pf.StringVar(&f.interval, "interval", "", "bar interval, e.g. 15m")
	pf.IntVar(&f.limit, "limit", 0, "number of finished bars to fetch")
	pf.StringVar(&f.cacheDir, "cache-dir", "", "cache fetched bars below this directory")
	pf.Float64Var(&f.capital, "capital", 0, "starting capital")
	pf.Float64Var(&f.fee, "fee", 0, "exchange fee per side, e.g. 0.00075")
	pf.Float64Var(&f.minQty, "min-qty", 0, "exchange minimum quantity")
	pf.Float64Var(&f.minPrice, "min-price", 0, "exchange minimum price")
	pf.BoolVar(&f.flatten, "flatten", false, "go flat on an opposite crossover instead of reversing")
	_ = pf.MarkHidden("base-url")

	root.AddCommand(newSearchCmd(f), newPnLCmd(f))
	return root
}

func newSearchCmd(f *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Rank every configuration of the search ranges by net profit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := f.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			bars, err := fetch(cmd, cfg)
			if err != nil {
				return err
			}
			results, err := search.Search(cmd.Context(), bars, cfg.Ranges, search.Options{
				Simulation: cfg.simulation(),
				TopN:       cfg.Top,
				Workers:    cfg.Workers,
				Logger:     log,
			})
			if err != nil {
				return err
			}
			if err := report.WriteText(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			if f.csvPath == "" {
				return nil
			}
			out, err := os.Create(f.csvPath)
			if err != nil {
				return err
			}
			return writeCSV(out, results)
		},
	}
	cmd.Flags().IntVar(&f.top, "top", 0, "keep only the N most profitable configurations (0 = all)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "concurrent evaluations (0 = one per CPU)")
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "also write every result to this CSV file")
	return cmd
}

func newPnLCmd(f *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pnl",
		Short: "Simulate a single configuration and print its PnL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := f.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Params.Validate(); err != nil {
				return err
			}
			bars, err := fetch(cmd, cfg)
			if err != nil {
				return err
			}
			p, err := search.Evaluate(bars, cfg.Params, cfg.simulation(), log)
			if err != nil {
				return err
			}
			return report.WritePnL(cmd.OutOrStdout(), search.Result{Params: cfg.Params, PnL: p})
		},
	}
	cmd.Flags().IntVar(&f.kLength, "k-length", 0, "%K look-back length")
	cmd.Flags().IntVar(&f.kSmoothing, "k-smoothing", 0, "%K smoothing length")
	cmd.Flags().IntVar(&f.dLength, "d-length", 0, "%D length")
	return cmd
}

// resolve loads --config, applies the flags that were set and validates the
// result.
func (f *cliFlags) resolve(fs *pflag.FlagSet) (fileConfig, logger.Logger, error) {
	cfg, err := loadFileConfig(f.configPath)
	if err != nil {
		return cfg, nil, err
	}
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("exchange", func() { cfg.Exchange = f.exchange })
	set("base-url", func() { cfg.BaseURL = f.baseURL })
	set("base", func() { cfg.Base = f.base })
	set("quote", func() { cfg.Quote = f.quote })
	set("interval", func() { cfg.Interval = f.interval })
	set("limit", func() { cfg.Limit = f.limit })
	set("cache-dir", func() { cfg.CacheDir = f.cacheDir })
	set("capital", func() { cfg.Capital = f.capital })
	set("fee", func() { cfg.Fee = &f.fee })
	set("min-qty", func() { cfg.MinQty = &f.minQty })
	set("min-price", func() { cfg.MinPrice = &f.minPrice })
	set("flatten", func() {
		cfg.Reversal = "flip"
		if f.flatten {
			cfg.Reversal = "flatten"
		}
	})
	set("top", func() { cfg.Top = f.top })
	set("workers", func() { cfg.Workers = f.workers })
	set("k-length", func() { cfg.Params.KLength = f.kLength })
	set("k-smoothing", func() { cfg.Params.KSmoothing = f.kSmoothing })
	set("d-length", func() { cfg.Params.DLength = f.dLength })

	if err := cfg.validate(); err != nil {
		return cfg, nil, err
	}
	if f.quiet {
		return cfg, logger.NewNop(), nil
	}
	log, err := logger.NewZapLogger()
	if err != nil {
		return cfg, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func fetch(cmd *cobra.Command, cfg fileConfig) (types.Series, error) {
	fetcher, err := cfg.fetcher()
	if err != nil {
		return nil, err
	}
	bars, err := fetcher.Fetch(cmd.Context(), cfg.fetchParams())
	if err != nil {
		return nil, err
	}
	if err := bars.Validate(); err != nil {
		return nil, fmt.Errorf("%s %s%s: %w", cfg.Exchange, cfg.Base, cfg.Quote, err)
	}
	return bars, nil
}

// writeCSV writes results to w and closes it; a failed Close is reported
// when the write itself succeeded.
func writeCSV(w io.WriteCloser, results []search.Result) (err error) {
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	return report.WriteCSV(w, results)
}

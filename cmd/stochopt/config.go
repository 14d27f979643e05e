package main

import (
	"fmt"
	"os"

	"github.com/evdnx/stochopt/config"
	"github.com/evdnx/stochopt/exchange"
	"github.com/evdnx/stochopt/types"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML layout of --config. Every field can be overridden
// by the flag of the same name.
type fileConfig struct {
	Exchange string `yaml:"exchange" validate:"required,oneof=binance coinbase"`
	BaseURL  string `yaml:"base_url" validate:"omitempty,url"`
	Base     string `yaml:"base" validate:"required,alphanum"`
	Quote    string `yaml:"quote" validate:"required,alphanum"`
	Interval string `yaml:"interval" validate:"required"`
	Limit    int    `yaml:"limit" validate:"min=1"`
	CacheDir string `yaml:"cache_dir"`

	Capital  float64  `yaml:"capital" validate:"gt=0"`
	Fee      *float64 `yaml:"fee" validate:"omitempty,gte=0,lt=1"`
	MinQty   *float64 `yaml:"min_qty" validate:"omitempty,gte=0"`
	MinPrice *float64 `yaml:"min_price" validate:"omitempty,gte=0"`
	Reversal string   `yaml:"reversal" validate:"oneof=flip flatten"`

	Top     int `yaml:"top" validate:"gte=0"`
	Workers int `yaml:"workers" validate:"gte=0"`

	Ranges config.SearchRanges     `yaml:"ranges"`
	Params config.StochasticConfig `yaml:"params"`
}

var validate = validator.New()

func defaultFileConfig() fileConfig {
	return fileConfig{
		Exchange: "binance",
		Base:     "ETH",
		Quote:    "USDT",
		Interval: "15m",
		Limit:    500,
		Capital:  1000,
		Reversal: "flip",
		Top:      100,
		Ranges: config.SearchRanges{
			KLength:    config.Span(5, 21),
			KSmoothing: config.Span(1, 5),
			DLength:    config.Span(1, 5),
		},
		Params: config.StochasticConfig{KLength: 14, KSmoothing: 3, DLength: 3},
	}
}

// loadFileConfig overlays path, if given, on the defaults.
func loadFileConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c fileConfig) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	if _, err := types.ParseInterval(c.Interval); err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	return nil
}

func (c fileConfig) simulation() config.SimulationConfig {
	sim := config.DefaultSimulationConfig()
	sim.Capital = c.Capital
	sim.ExchangeFee = c.Fee
	sim.MinQty = c.MinQty
	sim.MinPrice = c.MinPrice
	if c.Reversal == "flatten" {
		sim.Reversal = config.ReversalFlatten
	}
	return sim
}

func (c fileConfig) fetchParams() exchange.Params {
	iv, _ := types.ParseInterval(c.Interval)
	return exchange.Params{BaseAsset: c.Base, QuoteAsset: c.Quote, Interval: iv, Limit: c.Limit}
}

func (c fileConfig) fetcher() (exchange.Fetcher, error) {
	src, err := exchange.ParseSource(c.Exchange)
	if err != nil {
		return nil, err
	}
	var opts []exchange.Option
	if c.BaseURL != "" {
		opts = append(opts, exchange.WithBaseURL(c.BaseURL))
	}
	if c.CacheDir != "" {
		opts = append(opts, exchange.WithCache(c.CacheDir))
	}
	return exchange.New(src, opts...)
}

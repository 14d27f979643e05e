package risk

import (
	"github.com/evdnx/stochopt/config"
	"github.com/shopspring/decimal"
)

// StepScale is the number of decimals in an exchange step such as 0.001.
// ok is false when the step is unset.
func StepScale(step *float64) (scale int32, ok bool) {
	if step == nil {
		return 0, false
	}
	exp := decimal.NewFromFloat(*step).Exponent()
	if exp >= 0 {
		return 0, true
	}
	return -exp, true
}

// CalcQty sizes an entry with the whole equity at price. The fee is reserved
// first, then the quantity is truncated to the asset scale and to the MinQty
// step. A result below MinQty is reported as 0.
func CalcQty(equity, price float64, cfg config.SimulationConfig) float64 {
	if equity <= 0 || price <= 0 {
		return 0
	}
	funds := decimal.NewFromFloat(equity)
	if cfg.ExchangeFee != nil {
		fee := decimal.NewFromFloat(*cfg.ExchangeFee)
		funds = funds.Sub(funds.Mul(fee)).Truncate(cfg.FundsScale)
	}
	qty := funds.Div(decimal.NewFromFloat(price)).Truncate(cfg.AssetScale)
	if scale, ok := StepScale(cfg.MinQty); ok && scale < cfg.AssetScale {
		qty = qty.Truncate(scale)
	}
	if cfg.MinQty != nil && qty.LessThan(decimal.NewFromFloat(*cfg.MinQty)) {
		return 0
	}
	return qty.InexactFloat64()
}

// FillPrice truncates price to the MinPrice step, if one is configured.
func FillPrice(price float64, cfg config.SimulationConfig) float64 {
	scale, ok := StepScale(cfg.MinPrice)
	if !ok {
		return price
	}
	return decimal.NewFromFloat(price).Truncate(scale).InexactFloat64()
}

// BelowMinPrice reports whether price is under the exchange price floor.
func BelowMinPrice(price float64, cfg config.SimulationConfig) bool {
	return cfg.MinPrice != nil && price < *cfg.MinPrice
}

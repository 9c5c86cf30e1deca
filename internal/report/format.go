// Package report renders simulation results as markdown, HTML and charts
package report

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// RiskLevel buckets a portfolio volatility
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very high"
)

// RiskLevelOf returns the risk bucket for an annualized volatility in percent
func RiskLevelOf(volatility float64) RiskLevel {
	switch {
	case volatility < 5:
		return RiskLow
	case volatility < 12:
		return RiskModerate
	case volatility < 20:
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}

// FormatPercent formats v with two decimals. With showSign, positive
// values get a leading "+".
func FormatPercent(v float64, showSign bool) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	if showSign && v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// go-money stores amounts as int64 minor units
var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// FormatMoney formats amount in the given ISO currency
func FormatMoney(amount float64, currency string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "n/a"
	}
	d := decimal.NewFromFloat(amount)

	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(2) + " " + currency
	}

	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	minor := d.Mul(factor).Round(0)
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return d.StringFixed(int32(cur.Fraction)) + " " + currency
	}
	return money.New(minor.IntPart(), currency).Display()
}

package catalog

import (
	"errors"
	"fmt"

	"github.com/findosh/fundsim/internal/models"
	"github.com/shopspring/decimal"
)

// NativeParser reads the catalog layout written by this module: one
// column per Fund field, percentages as plain numbers.
type NativeParser struct{}

func NewNativeParser() *NativeParser {
	return &NativeParser{}
}

func (p *NativeParser) Name() string {
	return "native"
}

func (p *NativeParser) Detect(keys []string) bool {
	return hasAll(keys, "id", "name", "type") && hasAny(keys, "expected_return", "volatility")
}

func (p *NativeParser) ParseRecord(rec Record) (models.Fund, error) {
	var f models.Fund
	var err error

	f.ID = rec.Get("id")
	if f.ID == "" {
		return f, errors.New("missing id")
	}
	f.Name = rec.Get("name")
	f.Manager = rec.Get("manager")
	f.ISIN = rec.Get("isin")
	f.Description = rec.Get("description")

	if f.Type, err = models.ParseFundType(rec.Get("type")); err != nil {
		return f, err
	}

	floats := []struct {
		dst *float64
		key string
	}{
		{&f.ExpectedReturn, "expected_return"},
		{&f.Volatility, "volatility"},
		{&f.Performance1Y, "performance_1y"},
		{&f.Performance3Y, "performance_3y"},
	}
	for _, fl := range floats {
		if *fl.dst, err = parseFloat(rec, fl.key); err != nil {
			return f, err
		}
	}

	if v, _, ok, err := parseNumber(rec.Get("sharpe_ratio")); err != nil {
		return f, fmt.Errorf("sharpe_ratio: %w", err)
	} else if ok {
		f.SharpeRatio = &v
	}

	decimals := []struct {
		dst *decimal.Decimal
		key string
	}{
		{&f.MinInvestment, "min_investment"},
		{&f.SubscriptionFee, "subscription_fee"},
		{&f.ManagementFee, "management_fee"},
		{&f.ExitFee, "exit_fee"},
		{&f.Assets, "assets"},
	}
	for _, d := range decimals {
		if *d.dst, err = parseDecimal(rec, d.key); err != nil {
			return f, err
		}
	}

	return f, nil
}

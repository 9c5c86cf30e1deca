package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/findosh/fundsim/internal/models"
	"github.com/shopspring/decimal"
)

// ASFIMDefaultMinInvestment is used because the association's performance
// table carries no subscription minimum.
var ASFIMDefaultMinInvestment = decimal.NewFromInt(1000)

// ASFIMParser reads the weekly performance table published by the
// Moroccan asset managers' association, either as exported to CSV or as
// merged to JSON with the volatility columns.
//
// Returns and fees are fractions ("0.125") unless suffixed with "%".
// Volatility is already a percentage.
type ASFIMParser struct{}

func NewASFIMParser() *ASFIMParser {
	return &ASFIMParser{}
}

func (p *ASFIMParser) Name() string {
	return "asfim"
}

func (p *ASFIMParser) Detect(keys []string) bool {
	return hasAny(keys, "opcvm", "denomination opcvm") && hasAll(keys, "classification")
}

func (p *ASFIMParser) ParseRecord(rec Record) (models.Fund, error) {
	var f models.Fund
	var err error

	f.Name = rec.Get("opcvm", "denomination opcvm")
	f.ISIN = rec.Get("code isin")
	f.ID = f.ISIN
	if f.ID == "" {
		f.ID = rec.Get("code maroclear")
	}
	if f.ID == "" {
		if f.Name == "" {
			return f, errors.New("missing identifier")
		}
		f.ID = strings.ReplaceAll(models.Fold(f.Name), " ", "-")
	}
	f.Manager = rec.Get("societe de gestion")

	if f.Type, err = models.ParseFundType(rec.Get("classification")); err != nil {
		return f, err
	}

	if f.Performance1Y, err = parseRate(rec, "1 an"); err != nil {
		return f, err
	}
	if f.Performance3Y, err = parseRate(rec, "3 ans"); err != nil {
		return f, err
	}
	f.ExpectedReturn = f.Performance1Y

	if f.Volatility, err = parseFloat(rec, "annualvolatility", "annual volatility (%)", "volatility"); err != nil {
		return f, err
	}

	if v, _, ok, err := parseNumber(rec.Get("sharperatio", "sharpe ratio")); err != nil {
		return f, fmt.Errorf("sharpe ratio: %w", err)
	} else if ok {
		f.SharpeRatio = &v
	}

	fees := []struct {
		dst *decimal.Decimal
		key string
	}{
		{&f.SubscriptionFee, "commission de souscription"},
		{&f.ManagementFee, "frais de gestion"},
		{&f.ExitFee, "commission de rachat"},
	}
	for _, fee := range fees {
		v, err := parseRate(rec, fee.key)
		if err != nil {
			return f, err
		}
		*fee.dst = decimal.NewFromFloat(v).Round(4)
	}

	if f.Assets, err = parseDecimal(rec, "an"); err != nil {
		return f, err
	}
	f.MinInvestment = ASFIMDefaultMinInvestment

	if f.Manager != "" {
		f.Description = fmt.Sprintf("Fonds de classification %s géré par %s.", f.Type, f.Manager)
	}
	return f, nil
}

// parseRate reads a fraction and returns it as a percentage
func parseRate(rec Record, key string) (float64, error) {
	v, percent, _, err := parseNumber(rec.Get(key))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if percent {
		return v, nil
	}
	return v * 100, nil
}

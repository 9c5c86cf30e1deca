package models

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validFund() *Fund {
	return &Fund{
		FundSummary: FundSummary{
			ID:             "MA0000030108",
			Name:           "BMCE Actions",
			Type:           FundTypeEquity,
			Manager:        "BMCE Capital Gestion",
			ExpectedReturn: 12.5,
			Volatility:     15.2,
			MinInvestment:  decimal.NewFromInt(1000),
		},
		Performance1Y:   12.5,
		Performance3Y:   8.7,
		SubscriptionFee: decimal.NewFromFloat(1.5),
		ManagementFee:   decimal.NewFromFloat(1.8),
		ExitFee:         decimal.NewFromFloat(0.5),
		Assets:          decimal.NewFromInt(450000000),
	}
}

func TestParseFundType(t *testing.T) {
	tests := []struct {
		input    string
		expected FundType
	}{
		{"Actions", FundTypeEquity},
		{"ACTIONS", FundTypeEquity},
		{"Monétaire", FundTypeMoneyMarket},
		{"MONETAIRE", FundTypeMoneyMarket},
		{"DIVERSIFIÉ", FundTypeDiversified},
		{" diversifie ", FundTypeDiversified},
		{"Obligataire", FundTypeBond},
		{"omlt", FundTypeLongTermBond},
		{"Obligations Moyen et Long Terme", FundTypeLongTermBond},
		{"OCT", FundTypeShortTermBond},
	}

	for _, tt := range tests {
		got, err := ParseFundType(tt.input)
		if err != nil {
			t.Errorf("ParseFundType(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseFundType(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}

func TestParseFundType_Unknown(t *testing.T) {
	_, err := ParseFundType("Crypto")
	if !errors.Is(err, ErrUnknownFundType) {
		t.Errorf("Expected ErrUnknownFundType, got %v", err)
	}
}

func TestFundType_DisplayName(t *testing.T) {
	for _, ft := range AllFundTypes() {
		if ft.DisplayName() == "" {
			t.Errorf("Fund type %s has no display name", ft)
		}
		if !ft.IsValid() {
			t.Errorf("Fund type %s should be valid", ft)
		}
	}
	if FundType("Other").IsValid() {
		t.Error("Expected unknown fund type to be invalid")
	}
}

func TestFold(t *testing.T) {
	if got := Fold("  Crédit   Agricole ÉQUILIBRÉ "); got != "credit agricole equilibre" {
		t.Errorf("Fold returned %q", got)
	}
}

func TestValidateFund(t *testing.T) {
	if err := ValidateFund(validFund()); err != nil {
		t.Fatalf("Expected valid fund, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(f *Fund)
		field  string
	}{
		{"Missing ID", func(f *Fund) { f.ID = "" }, "id"},
		{"Missing name", func(f *Fund) { f.Name = "" }, "name"},
		{"Unknown type", func(f *Fund) { f.Type = "Crypto" }, "type"},
		{"Negative volatility", func(f *Fund) { f.Volatility = -0.1 }, "volatility"},
		{"NaN volatility", func(f *Fund) { f.Volatility = math.NaN() }, "volatility"},
		{"Infinite return", func(f *Fund) { f.ExpectedReturn = math.Inf(1) }, "expected_return"},
		{"Negative fee", func(f *Fund) { f.ManagementFee = decimal.NewFromInt(-1) }, "management_fee"},
		{"Negative minimum", func(f *Fund) { f.MinInvestment = decimal.NewFromInt(-10) }, "min_investment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFund()
			tt.mutate(f)
			err := ValidateFund(f)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Expected error to mention %s, got %v", tt.field, err)
			}
		})
	}
}

func TestValidateFund_NegativeReturnAllowed(t *testing.T) {
	f := validFund()
	f.ExpectedReturn = -4.2
	if err := ValidateFund(f); err != nil {
		t.Errorf("Expected negative expected return to be valid, got %v", err)
	}
}

func TestFund_TotalEntryCost(t *testing.T) {
	f := validFund()
	if !f.TotalEntryCost().Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected entry cost 2, got %s", f.TotalEntryCost())
	}
}

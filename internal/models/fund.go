// Package models defines core domain types
package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FundType classifies a collective-investment fund
type FundType string

const (
	FundTypeEquity        FundType = "Actions"
	FundTypeMoneyMarket   FundType = "Monétaire"
	FundTypeDiversified   FundType = "Diversifié"
	FundTypeBond          FundType = "Obligataire"
	FundTypeLongTermBond  FundType = "OMLT" // Obligations moyen et long terme
	FundTypeShortTermBond FundType = "OCT"  // Obligations court terme
)

// ErrUnknownFundType is returned by ParseFundType for values outside the closed set
var ErrUnknownFundType = errors.New("unknown fund type")

// AllFundTypes returns all valid fund types for iteration
func AllFundTypes() []FundType {
	return []FundType{
		FundTypeEquity,
		FundTypeMoneyMarket,
		FundTypeDiversified,
		FundTypeBond,
		FundTypeLongTermBond,
		FundTypeShortTermBond,
	}
}

// DisplayName returns human-readable name for the fund type
func (t FundType) DisplayName() string {
	switch t {
	case FundTypeEquity:
		return "Equity"
	case FundTypeMoneyMarket:
		return "Money Market"
	case FundTypeDiversified:
		return "Diversified"
	case FundTypeBond:
		return "Bond"
	case FundTypeLongTermBond:
		return "Medium/Long-Term Bond"
	case FundTypeShortTermBond:
		return "Short-Term Bond"
	default:
		return string(t)
	}
}

// IsValid reports whether t belongs to the closed set
func (t FundType) IsValid() bool {
	for _, v := range AllFundTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// ParseFundType matches a catalog classification against the closed set,
// ignoring case and accents ("DIVERSIFIÉ", "monetaire").
func ParseFundType(s string) (FundType, error) {
	key := Fold(s)
	for _, t := range AllFundTypes() {
		if Fold(string(t)) == key {
			return t, nil
		}
	}
	// ASFIM exports spell the bond classes out
	switch key {
	case "obligations moyen et long terme":
		return FundTypeLongTermBond, nil
	case "obligations court terme":
		return FundTypeShortTermBond, nil
	case "actions et diversifie", "diversifie actions":
		return FundTypeDiversified, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFundType, s)
}

var foldTransformer = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

// Fold lower-cases s, strips diacritics and collapses whitespace so that
// catalog strings can be compared loosely.
func Fold(s string) string {
	t := foldTransformer.Get().(transform.Transformer)
	defer foldTransformer.Put(t)
	t.Reset()

	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// FundSummary is the part of a catalog record the simulator reads.
// ExpectedReturn and Volatility are annualized percentages.
type FundSummary struct {
	ID             string          `json:"id" yaml:"id" validate:"required"`
	Name           string          `json:"name" yaml:"name" validate:"required"`
	Type           FundType        `json:"type" yaml:"type" validate:"fundtype"`
	Manager        string          `json:"manager" yaml:"manager"`
	ExpectedReturn float64         `json:"expected_return" yaml:"expected_return" validate:"finite"`
	Volatility     float64         `json:"volatility" yaml:"volatility" validate:"finite,gte=0"`
	MinInvestment  decimal.Decimal `json:"min_investment" yaml:"min_investment" validate:"nonnegative"`
}

// Fund is a full catalog record
type Fund struct {
	FundSummary `yaml:",inline"`

	ISIN          string          `json:"isin,omitempty" yaml:"isin"`
	Performance1Y float64         `json:"performance_1y" yaml:"performance_1y" validate:"finite"`
	Performance3Y float64         `json:"performance_3y" yaml:"performance_3y" validate:"finite"`
	SharpeRatio   *float64        `json:"sharpe_ratio,omitempty" yaml:"sharpe_ratio"`
	Description   string          `json:"description,omitempty" yaml:"description"`

	// Fees are percentages
	SubscriptionFee decimal.Decimal `json:"subscription_fee" yaml:"subscription_fee" validate:"nonnegative"`
	ManagementFee   decimal.Decimal `json:"management_fee" yaml:"management_fee" validate:"nonnegative"`
	ExitFee         decimal.Decimal `json:"exit_fee" yaml:"exit_fee" validate:"nonnegative"`

	// Assets under management
	Assets decimal.Decimal `json:"assets" yaml:"assets" validate:"nonnegative"`
}

// TotalEntryCost returns the subscription plus exit fee in percent
func (f *Fund) TotalEntryCost() decimal.Decimal {
	return f.SubscriptionFee.Add(f.ExitFee)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fundValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("fundtype", func(fl validator.FieldLevel) bool {
			return FundType(fl.Field().String()).IsValid()
		})
		_ = validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			v := fl.Field().Float()
			return !math.IsNaN(v) && !math.IsInf(v, 0)
		})
		validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
			if d, ok := v.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		_ = validate.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && !d.IsNegative()
		})
	})
	return validate
}

// ValidateFund checks a catalog record once at the catalog boundary.
// The simulator trusts records that passed.
func ValidateFund(f *Fund) error {
	if err := fundValidator().Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid fund %q: %s", f.ID, strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid fund %q: %w", f.ID, err)
	}
	return nil
}

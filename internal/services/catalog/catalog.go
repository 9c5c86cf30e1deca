// Package catalog loads, validates and queries the fund catalog
package catalog

import (
	"sort"
	"strings"

	"github.com/findosh/fundsim/internal/models"
	"github.com/shopspring/decimal"
)

// Catalog is an immutable, validated list of funds. Portfolios hold
// pointers into it, so it must not be modified after construction.
type Catalog struct {
	funds []models.Fund
	byID  map[string]int
}

// New builds a catalog from already validated funds. Later duplicates of
// an ID replace earlier ones.
func New(funds []models.Fund) *Catalog {
	c := &Catalog{
		funds: make([]models.Fund, 0, len(funds)),
		byID:  make(map[string]int, len(funds)),
	}
	for _, f := range funds {
		if i, ok := c.byID[f.ID]; ok {
			c.funds[i] = f
			continue
		}
		c.byID[f.ID] = len(c.funds)
		c.funds = append(c.funds, f)
	}
	return c
}

// Len returns the number of funds
func (c *Catalog) Len() int {
	return len(c.funds)
}

// Get returns the fund with the given ID
func (c *Catalog) Get(id string) (*models.Fund, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.funds[i], true
}

// Summary returns the simulator view of a fund. The pointer stays valid
// for the lifetime of the catalog.
func (c *Catalog) Summary(id string) (*models.FundSummary, bool) {
	f, ok := c.Get(id)
	if !ok {
		return nil, false
	}
	return &f.FundSummary, true
}

// All returns a copy of every fund in catalog order
func (c *Catalog) All() []models.Fund {
	out := make([]models.Fund, len(c.funds))
	copy(out, c.funds)
	return out
}

// SortBy selects the order of search results
type SortBy string

const (
	SortNone           SortBy = ""
	SortName           SortBy = "name"
	SortExpectedReturn SortBy = "return"
	SortVolatility     SortBy = "volatility"
	SortAssets         SortBy = "assets"
)

// IsValid reports whether s is a known sort order
func (s SortBy) IsValid() bool {
	switch s {
	case SortNone, SortName, SortExpectedReturn, SortVolatility, SortAssets:
		return true
	}
	return false
}

// Filter narrows a catalog search
type Filter struct {
	Query string          // Matched against name and manager, ignoring case and accents
	Type  models.FundType // Empty matches every type
	Sort  SortBy
	Limit int // Zero means no limit
}

// Search returns the funds matching filter
func (c *Catalog) Search(filter Filter) []models.Fund {
	query := models.Fold(filter.Query)

	out := []models.Fund{}
	for _, f := range c.funds {
		if filter.Type != "" && f.Type != filter.Type {
			continue
		}
		if query != "" &&
			!strings.Contains(models.Fold(f.Name), query) &&
			!strings.Contains(models.Fold(f.Manager), query) {
			continue
		}
		out = append(out, f)
	}

	switch filter.Sort {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool { return models.Fold(out[i].Name) < models.Fold(out[j].Name) })
	case SortExpectedReturn:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ExpectedReturn > out[j].ExpectedReturn })
	case SortVolatility:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Volatility < out[j].Volatility })
	case SortAssets:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Assets.GreaterThan(out[j].Assets) })
	}

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

// Seed returns the demonstration funds offered by the simulator when no
// catalog has been imported.
func Seed() []models.Fund {
	fund := func(id, name string, t models.FundType, manager string, ret, vol float64, minInv int64, assets int64, sub, mgmt, exit float64) models.Fund {
		return models.Fund{
			FundSummary: models.FundSummary{
				ID:             id,
				Name:           name,
				Type:           t,
				Manager:        manager,
				ExpectedReturn: ret,
				Volatility:     vol,
				MinInvestment:  decimal.NewFromInt(minInv),
			},
			Performance1Y:   ret,
			SubscriptionFee: decimal.NewFromFloat(sub),
			ManagementFee:   decimal.NewFromFloat(mgmt),
			ExitFee:         decimal.NewFromFloat(exit),
			Assets:          decimal.NewFromInt(assets),
		}
	}

	return []models.Fund{
		fund("1", "BMCE Actions", models.FundTypeEquity, "BMCE Capital Gestion", 12.5, 15.2, 1000, 450000000, 1.5, 1.8, 0.5),
		fund("2", "Attijariwafa Monétaire", models.FundTypeMoneyMarket, "Wafa Gestion", 3.2, 0.8, 500, 1200000000, 0.5, 0.75, 0),
		fund("3", "CDG Diversifié", models.FundTypeDiversified, "CDG Capital Gestion", 7.8, 8.5, 1000, 680000000, 1.0, 1.5, 0.25),
		fund("4", "Crédit Agricole Obligations", models.FundTypeBond, "Crédit Agricole Gestion", 4.5, 3.1, 1000, 320000000, 0.75, 1.0, 0),
		fund("5", "BMCI Croissance", models.FundTypeEquity, "BMCI Asset Management", 15.2, 18.7, 2000, 280000000, 2.0, 2.0, 0.5),
		fund("6", "Popular Équilibré", models.FundTypeDiversified, "Upline Capital Management", 6.9, 7.2, 1000, 390000000, 1.0, 1.4, 0.25),
	}
}

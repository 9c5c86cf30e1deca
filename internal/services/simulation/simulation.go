// Package simulation derives risk and return metrics for a simulated portfolio
package simulation

import (
	"fmt"
	"math"

	"github.com/findosh/fundsim/internal/models"
	"github.com/shopspring/decimal"
)

// DrawdownMultiplier turns aggregate volatility into the worst-case loss
// estimate. It is a fixed heuristic, not a historical percentile.
const DrawdownMultiplier = 2.5

// DefaultHorizons are the projection horizons in years
var DefaultHorizons = []int{1, 3, 5}

// Service computes DerivedMetrics. It holds no portfolio state; every call
// reads the portfolio it is given and leaves it untouched.
type Service struct {
	horizons []int
}

// NewService creates a simulation service projecting over horizons (years).
// An empty list selects DefaultHorizons.
func NewService(horizons ...int) (*Service, error) {
	if len(horizons) == 0 {
		horizons = DefaultHorizons
	}
	for _, h := range horizons {
		if h < 0 {
			return nil, fmt.Errorf("projection horizon must not be negative, got %d", h)
		}
	}
	hs := make([]int, len(horizons))
	copy(hs, horizons)
	return &Service{horizons: hs}, nil
}

// Horizons returns the configured projection horizons
func (s *Service) Horizons() []int {
	out := make([]int, len(s.horizons))
	copy(out, s.horizons)
	return out
}

// Calculate derives the metrics of p.
//
// Weights are allocation / total allocation, so only the proportions between
// entries matter. Aggregate volatility is sqrt(sum((vol_i * w_i)^2)), which
// ignores correlation between funds.
func (s *Service) Calculate(p *models.Portfolio) *models.DerivedMetrics {
	entries := p.Entries()
	totalAllocation := p.TotalAllocation()
	amount := p.TotalInvestment()

	m := &models.DerivedMetrics{
		TotalAllocation:  totalAllocation,
		AllocationStatus: models.AllocationStatusOf(totalAllocation),
		TotalInvestment:  amount,
		Weights:          make([]models.FundWeight, 0, len(entries)),
		Projections:      []models.Projection{},
		Advisories:       []models.Advisory{},
	}

	// Zero total allocation is treated like an empty portfolio
	normalize := len(entries) > 0 && totalAllocation > 0

	var sumSquares float64
	for _, e := range entries {
		weight := 0.0
		if normalize {
			weight = e.Allocation / totalAllocation
			m.ExpectedReturn += e.Fund.ExpectedReturn * weight
			weighted := e.Fund.Volatility * weight
			sumSquares += weighted * weighted
		}
		m.Weights = append(m.Weights, models.FundWeight{
			FundID:     e.Fund.ID,
			Name:       e.Fund.Name,
			Allocation: e.Allocation,
			Weight:     weight,
			Amount:     amount * e.Allocation / 100,
		})
	}
	m.Volatility = math.Sqrt(sumSquares)
	m.MaxDrawdownEstimate = m.Volatility * DrawdownMultiplier

	if len(entries) > 0 && m.AllocationStatus != models.AllocationBalanced {
		m.Advisories = append(m.Advisories, models.Advisory{
			Code:    models.AdvisoryAllocationNotBalanced,
			Message: fmt.Sprintf("total allocation is %g%%, simulation uses normalized weights", totalAllocation),
		})
	}

	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		m.Advisories = append(m.Advisories, models.Advisory{
			Code:    models.AdvisoryInvalidInvestment,
			Message: fmt.Sprintf("investment amount %g is not a valid non-negative amount", amount),
		})
		return m
	}

	for _, h := range s.horizons {
		m.Projections = append(m.Projections, Project(amount, m.ExpectedReturn, m.Volatility, h))
	}

	for _, e := range entries {
		if e.Fund.MinInvestment.IsZero() || e.Allocation == 0 {
			continue
		}
		placed := amount * e.Allocation / 100
		if math.IsInf(placed, 0) {
			// Overflowed amounts are above any minimum
			continue
		}
		if decimal.NewFromFloat(placed).LessThan(e.Fund.MinInvestment) {
			m.Advisories = append(m.Advisories, models.Advisory{
				Code:    models.AdvisoryBelowMinInvestment,
				FundID:  e.Fund.ID,
				Message: fmt.Sprintf("%s requires a minimum of %s, allocation places %.2f", e.Fund.Name, e.Fund.MinInvestment, placed),
			})
		}
	}

	return m
}

// Project compounds amount over years under an optimistic rate
// (return + volatility) and a pessimistic rate (return - volatility, floored
// at zero). Rates are percentages.
func Project(amount, expectedReturn, volatility float64, years int) models.Projection {
	optimisticRate := (expectedReturn + volatility) / 100
	pessimisticRate := math.Max(0, expectedReturn-volatility) / 100

	return models.Projection{
		Years:       years,
		Optimistic:  amount * math.Pow(1+optimisticRate, float64(years)),
		Pessimistic: amount * math.Pow(1+pessimisticRate, float64(years)),
	}
}

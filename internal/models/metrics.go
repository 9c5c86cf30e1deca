package models

// AllocationStatus describes how the total allocation compares to 100%
type AllocationStatus string

const (
	AllocationUnder    AllocationStatus = "under"
	AllocationBalanced AllocationStatus = "balanced"
	AllocationOver     AllocationStatus = "over"
)

// AllocationStatusOf classifies a total allocation
func AllocationStatusOf(total float64) AllocationStatus {
	switch {
	case total == MaxAllocation:
		return AllocationBalanced
	case total > MaxAllocation:
		return AllocationOver
	default:
		return AllocationUnder
	}
}

// AdvisoryCode identifies a user-facing warning attached to a simulation.
// Advisories never stop a simulation.
type AdvisoryCode string

const (
	AdvisoryAllocationNotBalanced AdvisoryCode = "allocation_not_balanced"
	AdvisoryInvalidInvestment     AdvisoryCode = "invalid_investment"
	AdvisoryBelowMinInvestment    AdvisoryCode = "below_min_investment"
)

// Advisory is a warning about the simulated portfolio
type Advisory struct {
	Code    AdvisoryCode `json:"code"`
	FundID  string       `json:"fund_id,omitempty"`
	Message string       `json:"message"`
}

// FundWeight is one entry after weight normalization
type FundWeight struct {
	FundID     string  `json:"fund_id"`
	Name       string  `json:"name"`
	Allocation float64 `json:"allocation"` // As stored, percent
	Weight     float64 `json:"weight"`     // allocation / total allocation
	Amount     float64 `json:"amount"`     // total investment * allocation / 100
}

// Projection is the projected value of the investment after Years years
type Projection struct {
	Years       int     `json:"years"`
	Optimistic  float64 `json:"optimistic"`
	Pessimistic float64 `json:"pessimistic"`
}

// DerivedMetrics is computed from a portfolio on every query and never stored.
// Percentages are annualized.
type DerivedMetrics struct {
	TotalAllocation     float64          `json:"total_allocation"`
	AllocationStatus    AllocationStatus `json:"allocation_status"`
	TotalInvestment     float64          `json:"total_investment"`
	ExpectedReturn      float64          `json:"expected_return"`
	Volatility          float64          `json:"volatility"`
	MaxDrawdownEstimate float64          `json:"max_drawdown_estimate"`
	Weights             []FundWeight     `json:"weights"`
	Projections         []Projection     `json:"projections"`
	Advisories          []Advisory       `json:"advisories"`
}

// IsFullyAllocated reports whether allocations sum to exactly 100%
func (m *DerivedMetrics) IsFullyAllocated() bool {
	return m.AllocationStatus == AllocationBalanced
}

// Projection returns the projection for the given horizon
func (m *DerivedMetrics) Projection(years int) (Projection, bool) {
	for _, p := range m.Projections {
		if p.Years == years {
			return p, true
		}
	}
	return Projection{}, false
}

// HasAdvisory reports whether an advisory with code is present
func (m *DerivedMetrics) HasAdvisory(code AdvisoryCode) bool {
	for _, a := range m.Advisories {
		if a.Code == code {
			return true
		}
	}
	return false
}

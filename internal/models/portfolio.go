package models

import (
	"math"
)

const (
	// DefaultAllocation is the allocation a fund receives when first added
	DefaultAllocation = 10.0
	// AllocationStep is added when an already present fund is added again
	AllocationStep = 10.0
	// MinAllocation and MaxAllocation bound every stored allocation
	MinAllocation = 0.0
	MaxAllocation = 100.0
	// DefaultTotalInvestment is the amount a new simulation starts with
	DefaultTotalInvestment = 10000.0
)

// PortfolioEntry is one fund of a simulated portfolio. Fund points into
// the catalog and is never modified through the entry.
type PortfolioEntry struct {
	Fund       *FundSummary `json:"fund"`
	Allocation float64      `json:"allocation"` // Percentage in [0, 100]
}

// Portfolio holds the funds a user assembled for a simulation together with
// the total amount to invest. Entries keep insertion order and are unique
// per fund ID. A Portfolio is not safe for concurrent use; callers that
// share one must serialize access.
type Portfolio struct {
	entries         []PortfolioEntry
	totalInvestment float64
}

// NewPortfolio creates an empty portfolio
func NewPortfolio(totalInvestment float64) *Portfolio {
	return &Portfolio{
		entries:         []PortfolioEntry{},
		totalInvestment: totalInvestment,
	}
}

func (p *Portfolio) indexOf(fundID string) int {
	for i, e := range p.entries {
		if e.Fund.ID == fundID {
			return i
		}
	}
	return -1
}

// AddFund inserts fund with DefaultAllocation, or raises an existing entry
// by AllocationStep up to MaxAllocation.
func (p *Portfolio) AddFund(fund *FundSummary) {
	if fund == nil {
		return
	}
	if i := p.indexOf(fund.ID); i >= 0 {
		p.entries[i].Allocation = math.Min(MaxAllocation, p.entries[i].Allocation+AllocationStep)
		return
	}
	p.entries = append(p.entries, PortfolioEntry{Fund: fund, Allocation: DefaultAllocation})
}

// UpdateAllocation stores allocation clamped to [0, 100]. It is a no-op for
// funds that are not in the portfolio; the result reports whether an entry
// was updated.
func (p *Portfolio) UpdateAllocation(fundID string, allocation float64) bool {
	i := p.indexOf(fundID)
	if i < 0 {
		return false
	}
	p.entries[i].Allocation = ClampAllocation(allocation)
	return true
}

// RemoveFund deletes the entry for fundID. Absent funds are a no-op.
func (p *Portfolio) RemoveFund(fundID string) bool {
	i := p.indexOf(fundID)
	if i < 0 {
		return false
	}
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	return true
}

// SetTotalInvestment stores amount as given. Negative or non-finite amounts
// are flagged by the metrics engine rather than rejected here.
func (p *Portfolio) SetTotalInvestment(amount float64) {
	p.totalInvestment = amount
}

// Reset removes every entry. The total investment amount is kept.
func (p *Portfolio) Reset() {
	p.entries = []PortfolioEntry{}
}

// Entries returns a copy of the entries in insertion order
func (p *Portfolio) Entries() []PortfolioEntry {
	out := make([]PortfolioEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Len returns the number of entries
func (p *Portfolio) Len() int {
	return len(p.entries)
}

// Contains reports whether fundID has an entry
func (p *Portfolio) Contains(fundID string) bool {
	return p.indexOf(fundID) >= 0
}

// Allocation returns the stored allocation for fundID
func (p *Portfolio) Allocation(fundID string) (float64, bool) {
	i := p.indexOf(fundID)
	if i < 0 {
		return 0, false
	}
	return p.entries[i].Allocation, true
}

// TotalAllocation returns the sum of all allocations (ideally 100)
func (p *Portfolio) TotalAllocation() float64 {
	total := 0.0
	for _, e := range p.entries {
		total += e.Allocation
	}
	return total
}

// TotalInvestment returns the amount to invest
func (p *Portfolio) TotalInvestment() float64 {
	return p.totalInvestment
}

// ClampAllocation bounds v to [MinAllocation, MaxAllocation]. NaN maps to
// MinAllocation so a stored allocation is always in range.
func ClampAllocation(v float64) float64 {
	if math.IsNaN(v) {
		return MinAllocation
	}
	return math.Max(MinAllocation, math.Min(MaxAllocation, v))
}

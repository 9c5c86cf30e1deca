package models

import "testing"

func TestAllocationStatusOf(t *testing.T) {
	tests := []struct {
		total    float64
		expected AllocationStatus
	}{
		{0, AllocationUnder},
		{99.99, AllocationUnder},
		{100, AllocationBalanced},
		{100.01, AllocationOver},
		{250, AllocationOver},
	}

	for _, tt := range tests {
		if got := AllocationStatusOf(tt.total); got != tt.expected {
			t.Errorf("AllocationStatusOf(%v) = %s, expected %s", tt.total, got, tt.expected)
		}
	}
}

func TestDerivedMetrics_Lookups(t *testing.T) {
	m := &DerivedMetrics{
		AllocationStatus: AllocationBalanced,
		Projections: []Projection{
			{Years: 1, Optimistic: 110, Pessimistic: 100},
			{Years: 5, Optimistic: 160, Pessimistic: 100},
		},
		Advisories: []Advisory{{Code: AdvisoryBelowMinInvestment, FundID: "1"}},
	}

	if !m.IsFullyAllocated() {
		t.Error("Expected balanced metrics to be fully allocated")
	}
	if p, ok := m.Projection(5); !ok || p.Optimistic != 160 {
		t.Errorf("Expected 5 year projection, got %+v (found=%v)", p, ok)
	}
	if _, ok := m.Projection(3); ok {
		t.Error("Expected no 3 year projection")
	}
	if !m.HasAdvisory(AdvisoryBelowMinInvestment) {
		t.Error("Expected below-minimum advisory")
	}
	if m.HasAdvisory(AdvisoryInvalidInvestment) {
		t.Error("Did not expect invalid-investment advisory")
	}
}

package models

import (
	"math"
	"testing"
)

func testFund(id string, expectedReturn, volatility float64) *FundSummary {
	return &FundSummary{
		ID:             id,
		Name:           "Fund " + id,
		Type:           FundTypeEquity,
		ExpectedReturn: expectedReturn,
		Volatility:     volatility,
	}
}

func TestNewPortfolio(t *testing.T) {
	p := NewPortfolio(DefaultTotalInvestment)

	if p.Len() != 0 {
		t.Errorf("Expected empty portfolio, got %d entries", p.Len())
	}
	if p.TotalInvestment() != 10000 {
		t.Errorf("Expected total investment 10000, got %v", p.TotalInvestment())
	}
	if p.TotalAllocation() != 0 {
		t.Errorf("Expected total allocation 0, got %v", p.TotalAllocation())
	}
}

func TestPortfolio_AddFund(t *testing.T) {
	p := NewPortfolio(DefaultTotalInvestment)
	f := testFund("1", 12.5, 15.2)

	p.AddFund(f)
	if got, _ := p.Allocation("1"); got != 10 {
		t.Errorf("Expected default allocation 10, got %v", got)
	}

	p.AddFund(f)
	p.AddFund(f)
	if got, _ := p.Allocation("1"); got != 30 {
		t.Errorf("Expected allocation 30 after three adds, got %v", got)
	}
	if p.Len() != 1 {
		t.Errorf("Expected a single entry per fund, got %d", p.Len())
	}
}

func TestPortfolio_AddFund_CapsAtHundred(t *testing.T) {
	p := NewPortfolio(DefaultTotalInvestment)
	f := testFund("1", 12.5, 15.2)

	for i := 0; i < 10; i++ {
		p.AddFund(f)
	}
	if got, _ := p.Allocation("1"); got != 100 {
		t.Errorf("Expected allocation 100 after ten adds, got %v", got)
	}

	p.AddFund(f)
	if got, _ := p.Allocation("1"); got != 100 {
		t.Errorf("Expected allocation to stay at 100, got %v", got)
	}

	// A fractional allocation steps up to the cap, not past it
	p.UpdateAllocation("1", 95.5)
	p.AddFund(f)
	if got, _ := p.Allocation("1"); got != 100 {
		t.Errorf("Expected allocation capped at 100, got %v", got)
	}
}

func TestPortfolio_AddFund_Nil(t *testing.T) {
	p := NewPortfolio(DefaultTotalInvestment)
	p.AddFund(nil)
	if p.Len() != 0 {
		t.Errorf("Expected nil fund to be ignored, got %d entries", p.Len())
	}
}

func TestPortfolio_UpdateAllocation(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Zero", 0, 0},
		{"Inside range", 42, 42},
		{"Fractional", 33.3, 33.3},
		{"Upper bound", 100, 100},
		{"Negative clamps to zero", -5, 0},
		{"Above range clamps to hundred", 150, 100},
		{"Negative infinity", math.Inf(-1), 0},
		{"Positive infinity", math.Inf(1), 100},
		{"NaN", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPortfolio(DefaultTotalInvestment)
			p.AddFund(testFund("1", 5, 5))

			if !p.UpdateAllocation("1", tt.input) {
				t.Fatal("Expected update to find the fund")
			}
			if got, _ := p.Allocation("1"); got != tt.expected {
				t.Errorf("UpdateAllocation(%v) stored %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPortfolio_UpdateAllocation_UnknownFund(t *testing.T) {
	p := NewPortfolio(DefaultTotalInvestment)
	p.AddFund(testFund("1", 5, 5))

	if p.UpdateAllocation("missing", 50) {
		t.Error("Expected update of unknown fund to report false")
	}
	if p.Len() != 1 {
		t.Errorf("Expected no entry to be created, got %d entries", p.Len())
	}
	if got, _ := p.Allocation("1"); got != 10 {
		t.Errorf("Expected existing allocation untouched, got %v", got)
	}
}

func TestPortfolio_RemoveFund(t *testing.T) {
	p := NewPortfolio(DefaultTotalInvestment)
	p.AddFund(testFund("1", 5, 5))
	p.AddFund(testFund("2", 5, 5))
	p.AddFund(testFund("3", 5, 5))

	if !p.RemoveFund("2") {
		t.Error("Expected remove to report true")
	}
	if p.Contains("2") {
		t.Error("Expected fund 2 to be removed")
	}
	if p.RemoveFund("2") {
		t.Error("Expected second remove to be a no-op")
	}

	entries := p.Entries()
	if len(entries) != 2 || entries[0].Fund.ID != "1" || entries[1].Fund.ID != "3" {
		t.Errorf("Expected remaining order [1 3], got %v", entries)
	}
}

func TestPortfolio_EntriesKeepInsertionOrder(t *testing.T) {
	p := NewPortfolio(DefaultTotalInvestment)
	for _, id := range []string{"c", "a", "b"} {
		p.AddFund(testFund(id, 5, 5))
	}
	p.AddFund(testFund("a", 5, 5))

	entries := p.Entries()
	for i, id := range []string{"c", "a", "b"} {
		if entries[i].Fund.ID != id {
			t.Errorf("Expected entry %d to be %s, got %s", i, id, entries[i].Fund.ID)
		}
	}

	// Entries is a copy
	entries[0].Allocation = 99
	if got, _ := p.Allocation("c"); got != 10 {
		t.Errorf("Expected Entries to return a copy, stored allocation changed to %v", got)
	}
}

func TestPortfolio_AddFundDoesNotMutateCatalog(t *testing.T) {
	f := testFund("1", 12.5, 15.2)
	before := *f

	p := NewPortfolio(DefaultTotalInvestment)
	p.AddFund(f)
	p.UpdateAllocation("1", 70)
	p.RemoveFund("1")

	if *f != before {
		t.Errorf("Expected catalog record unchanged, got %+v", *f)
	}
}

func TestPortfolio_TotalAllocation(t *testing.T) {
	p := NewPortfolio(DefaultTotalInvestment)
	p.AddFund(testFund("1", 5, 5))
	p.AddFund(testFund("2", 5, 5))
	p.UpdateAllocation("1", 60)
	p.UpdateAllocation("2", 55)

	if got := p.TotalAllocation(); got != 115 {
		t.Errorf("Expected total allocation 115, got %v", got)
	}
}

func TestPortfolio_SetTotalInvestment(t *testing.T) {
	p := NewPortfolio(DefaultTotalInvestment)

	for _, amount := range []float64{0, 2500.5, -100} {
		p.SetTotalInvestment(amount)
		if p.TotalInvestment() != amount {
			t.Errorf("Expected amount %v stored as-is, got %v", amount, p.TotalInvestment())
		}
	}
}

func TestPortfolio_Reset(t *testing.T) {
	p := NewPortfolio(DefaultTotalInvestment)
	p.AddFund(testFund("1", 5, 5))
	p.SetTotalInvestment(5000)

	p.Reset()

	if p.Len() != 0 {
		t.Errorf("Expected no entries after reset, got %d", p.Len())
	}
	if p.TotalInvestment() != 5000 {
		t.Errorf("Expected investment preserved across reset, got %v", p.TotalInvestment())
	}
}

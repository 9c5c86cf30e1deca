package storage

import (
	"path/filepath"
	"testing"

	"github.com/findosh/fundsim/internal/models"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func testFund(id, name string) models.Fund {
	sharpe := 0.42
	return models.Fund{
		FundSummary: models.FundSummary{
			ID:             id,
			Name:           name,
			Type:           models.FundTypeEquity,
			Manager:        "CDG Capital Gestion",
			ExpectedReturn: 12.5,
			Volatility:     15.2,
			MinInvestment:  decimal.NewFromInt(1000),
		},
		ISIN:            "MA0000030108",
		Performance1Y:   12.5,
		Performance3Y:   25.4,
		SharpeRatio:     &sharpe,
		SubscriptionFee: decimal.RequireFromString("1.5"),
		ManagementFee:   decimal.RequireFromString("1.75"),
		ExitFee:         decimal.Zero,
		Assets:          decimal.RequireFromString("452000000.50"),
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Errorf("Expected second migration to succeed, got %v", err)
	}
}

func TestFundRepository_UpsertAndGet(t *testing.T) {
	repo := NewFundRepository(setupTestDB(t))
	f := testFund("1", "CDG Actions")

	if err := repo.Upsert(&f); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := repo.GetByID("1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected fund, got nil")
	}
	if got.Name != "CDG Actions" || got.Type != models.FundTypeEquity {
		t.Errorf("Unexpected fund: %+v", got)
	}
	if !got.Assets.Equal(f.Assets) {
		t.Errorf("Expected assets %s, got %s", f.Assets, got.Assets)
	}
	if !got.ManagementFee.Equal(decimal.RequireFromString("1.75")) {
		t.Errorf("Expected management fee 1.75, got %s", got.ManagementFee)
	}
	if got.SharpeRatio == nil || *got.SharpeRatio != 0.42 {
		t.Errorf("Expected sharpe ratio 0.42, got %v", got.SharpeRatio)
	}

	// Upsert replaces
	f.Name = "CDG Actions Plus"
	f.SharpeRatio = nil
	if err := repo.Upsert(&f); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}
	got, _ = repo.GetByID("1")
	if got.Name != "CDG Actions Plus" {
		t.Errorf("Expected updated name, got %s", got.Name)
	}
	if got.SharpeRatio != nil {
		t.Errorf("Expected sharpe ratio cleared, got %v", *got.SharpeRatio)
	}
}

func TestFundRepository_GetMissing(t *testing.T) {
	repo := NewFundRepository(setupTestDB(t))

	got, err := repo.GetByID("missing")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing fund, got %+v", got)
	}
}

func TestFundRepository_UpsertAllListCountDelete(t *testing.T) {
	repo := NewFundRepository(setupTestDB(t))

	funds := []models.Fund{
		testFund("2", "Wafa Actions"),
		testFund("1", "Attijari Actions"),
		testFund("3", "BMCE Actions"),
	}
	if err := repo.UpsertAll(funds); err != nil {
		t.Fatalf("UpsertAll failed: %v", err)
	}

	count, err := repo.Count()
	if err != nil || count != 3 {
		t.Fatalf("Expected 3 funds, got %d (%v)", count, err)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list[0].Name != "Attijari Actions" || list[2].Name != "Wafa Actions" {
		t.Errorf("Expected funds ordered by name, got %s..%s", list[0].Name, list[2].Name)
	}
	for i := range list {
		if err := models.ValidateFund(&list[i]); err != nil {
			t.Errorf("Stored fund no longer valid: %v", err)
		}
	}

	if err := repo.Delete("2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if count, _ := repo.Count(); count != 2 {
		t.Errorf("Expected 2 funds after delete, got %d", count)
	}
}

func TestImportRepository(t *testing.T) {
	repo := NewImportRepository(setupTestDB(t))

	latest, err := repo.Latest()
	if err != nil || latest != nil {
		t.Fatalf("Expected no import yet, got %v (%v)", latest, err)
	}

	imp := &Import{Source: "asfim", File: "funds.json", Funds: 120, Skipped: 3}
	if err := repo.Create(imp); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	latest, err = repo.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.ID != imp.ID || latest.Funds != 120 || latest.Source != "asfim" {
		t.Errorf("Unexpected latest import: %+v", latest)
	}
}

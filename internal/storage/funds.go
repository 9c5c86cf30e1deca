package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/findosh/fundsim/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundRepository provides catalog data access
type FundRepository struct {
	db *DB
}

// NewFundRepository creates a new fund repository
func NewFundRepository(db *DB) *FundRepository {
	return &FundRepository{db: db}
}

const upsertFund = `
	INSERT INTO funds (
		id, name, type, manager, isin, expected_return, volatility,
		performance_1y, performance_3y, sharpe_ratio, min_investment,
		subscription_fee, management_fee, exit_fee, assets, description, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		type = excluded.type,
		manager = excluded.manager,
		isin = excluded.isin,
		expected_return = excluded.expected_return,
		volatility = excluded.volatility,
		performance_1y = excluded.performance_1y,
		performance_3y = excluded.performance_3y,
		sharpe_ratio = excluded.sharpe_ratio,
		min_investment = excluded.min_investment,
		subscription_fee = excluded.subscription_fee,
		management_fee = excluded.management_fee,
		exit_fee = excluded.exit_fee,
		assets = excluded.assets,
		description = excluded.description,
		updated_at = excluded.updated_at
`

const selectFund = `
	SELECT id, name, type, manager, isin, expected_return, volatility,
		performance_1y, performance_3y, sharpe_ratio, min_investment,
		subscription_fee, management_fee, exit_fee, assets, description
	FROM funds
`

func fundArgs(f *models.Fund) []any {
	var sharpe sql.NullFloat64
	if f.SharpeRatio != nil {
		sharpe = sql.NullFloat64{Float64: *f.SharpeRatio, Valid: true}
	}
	return []any{
		f.ID,
		f.Name,
		string(f.Type),
		f.Manager,
		f.ISIN,
		f.ExpectedReturn,
		f.Volatility,
		f.Performance1Y,
		f.Performance3Y,
		sharpe,
		f.MinInvestment.String(),
		f.SubscriptionFee.String(),
		f.ManagementFee.String(),
		f.ExitFee.String(),
		f.Assets.String(),
		f.Description,
		time.Now().UTC(),
	}
}

// Upsert inserts or replaces a fund
func (r *FundRepository) Upsert(f *models.Fund) error {
	if _, err := r.db.Exec(upsertFund, fundArgs(f)...); err != nil {
		return fmt.Errorf("failed to upsert fund %s: %w", f.ID, err)
	}
	return nil
}

// UpsertAll stores funds in a single transaction
func (r *FundRepository) UpsertAll(funds []models.Fund) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertFund)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range funds {
		if _, err := stmt.Exec(fundArgs(&funds[i])...); err != nil {
			return fmt.Errorf("failed to upsert fund %s: %w", funds[i].ID, err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a fund. It returns nil when the fund does not exist.
func (r *FundRepository) GetByID(id string) (*models.Fund, error) {
	f, err := scanFund(r.db.QueryRow(selectFund+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan fund: %w", err)
	}
	return f, nil
}

// List returns every fund ordered by name
func (r *FundRepository) List() ([]models.Fund, error) {
	rows, err := r.db.Query(selectFund + " ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var funds []models.Fund
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, err
		}
		funds = append(funds, *f)
	}

	return funds, rows.Err()
}

// Count returns the number of stored funds
func (r *FundRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM funds").Scan(&count)
	return count, err
}

// Delete removes a fund
func (r *FundRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM funds WHERE id = ?", id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFund(row scanner) (*models.Fund, error) {
	var f models.Fund
	var fundType string
	var manager, isin, description sql.NullString
	var sharpe sql.NullFloat64
	var minInvestment, subscriptionFee, managementFee, exitFee, assets string

	err := row.Scan(
		&f.ID, &f.Name, &fundType, &manager, &isin,
		&f.ExpectedReturn, &f.Volatility, &f.Performance1Y, &f.Performance3Y, &sharpe,
		&minInvestment, &subscriptionFee, &managementFee, &exitFee, &assets, &description,
	)
	if err != nil {
		return nil, err
	}

	f.Type = models.FundType(fundType)
	f.Manager = manager.String
	f.ISIN = isin.String
	f.Description = description.String
	if sharpe.Valid {
		v := sharpe.Float64
		f.SharpeRatio = &v
	}
	f.MinInvestment, _ = decimal.NewFromString(minInvestment)
	f.SubscriptionFee, _ = decimal.NewFromString(subscriptionFee)
	f.ManagementFee, _ = decimal.NewFromString(managementFee)
	f.ExitFee, _ = decimal.NewFromString(exitFee)
	f.Assets, _ = decimal.NewFromString(assets)

	return &f, nil
}

// Import records one catalog import
type Import struct {
	ID         uuid.UUID
	Source     string
	File       string
	Funds      int
	Skipped    int
	ImportedAt time.Time
}

// ImportRepository keeps the history of catalog imports
type ImportRepository struct {
	db *DB
}

// NewImportRepository creates a new import repository
func NewImportRepository(db *DB) *ImportRepository {
	return &ImportRepository{db: db}
}

// Create inserts an import record, assigning its ID and timestamp
func (r *ImportRepository) Create(imp *Import) error {
	imp.ID = uuid.New()
	imp.ImportedAt = time.Now().UTC()

	query := `
		INSERT INTO catalog_imports (id, source, file, funds, skipped, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		imp.ID.String(),
		imp.Source,
		imp.File,
		imp.Funds,
		imp.Skipped,
		imp.ImportedAt,
	)
	return err
}

// Latest returns the most recent import, or nil when there is none
func (r *ImportRepository) Latest() (*Import, error) {
	query := `
		SELECT id, source, file, funds, skipped, imported_at
		FROM catalog_imports ORDER BY imported_at DESC LIMIT 1
	`
	var imp Import
	var id string
	err := r.db.QueryRow(query).Scan(&id, &imp.Source, &imp.File, &imp.Funds, &imp.Skipped, &imp.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	imp.ID, _ = uuid.Parse(id)
	return &imp, nil
}

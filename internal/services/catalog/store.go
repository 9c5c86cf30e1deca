package catalog

import (
	"fmt"

	"github.com/findosh/fundsim/internal/models"
	"github.com/phuslu/log"
)

// Store persists catalog records
type Store interface {
	UpsertAll(funds []models.Fund) error
	List() ([]models.Fund, error)
}

// Import parses the file at path and stores the valid funds
func (s *Service) Import(path string, store Store) (*ParseResult, error) {
	result, err := s.LoadFile(path)
	if err != nil {
		return result, err
	}
	if err := store.UpsertAll(result.Funds); err != nil {
		return result, fmt.Errorf("failed to store catalog: %w", err)
	}
	for _, e := range result.Errors {
		log.Warn().Str("file", path).Str("reason", e).Msg("Catalog row skipped")
	}
	return result, nil
}

// Open builds the catalog from store. An empty store is filled with Seed.
// Stored records that no longer validate are left out.
func Open(store Store) (*Catalog, error) {
	funds, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}

	if len(funds) == 0 {
		log.Info().Msg("Catalog empty, loading demonstration funds")
		funds = Seed()
		if err := store.UpsertAll(funds); err != nil {
			return nil, fmt.Errorf("failed to store seed funds: %w", err)
		}
	}

	valid := funds[:0]
	for i := range funds {
		if err := models.ValidateFund(&funds[i]); err != nil {
			log.Warn().Err(err).Msg("Skipping stored fund")
			continue
		}
		valid = append(valid, funds[i])
	}

	return New(valid), nil
}

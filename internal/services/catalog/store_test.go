package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/findosh/fundsim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	funds   []models.Fund
	listErr error
}

func (m *memStore) UpsertAll(funds []models.Fund) error {
	m.funds = append(m.funds, funds...)
	return nil
}

func (m *memStore) List() ([]models.Fund, error) {
	return append([]models.Fund(nil), m.funds...), m.listErr
}

func TestOpen_SeedsEmptyStore(t *testing.T) {
	store := &memStore{}

	c, err := Open(store)
	require.NoError(t, err)
	assert.Equal(t, 6, c.Len())
	assert.Len(t, store.funds, 6, "seed funds are persisted")
}

func TestOpen_SkipsInvalidRecords(t *testing.T) {
	funds := Seed()
	funds[0].Type = "Crypto"
	store := &memStore{funds: funds}

	c, err := Open(store)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
	_, ok := c.Get("1")
	assert.False(t, ok)
}

func TestOpen_ListError(t *testing.T) {
	_, err := Open(&memStore{listErr: errors.New("disk on fire")})
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	store := &memStore{}

	result, err := NewService().Import(filepath.Join("testdata", "asfim.json"), store)
	require.NoError(t, err)
	assert.Len(t, result.Funds, 2)
	assert.Len(t, store.funds, 2)

	c, err := Open(store)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len(), "imported funds replace the seed")
}

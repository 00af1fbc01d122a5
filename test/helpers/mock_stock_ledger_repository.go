package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
)

// MockStockLedgerRepository is an in-memory stock ledger for service tests
// that do not need a database.
type MockStockLedgerRepository struct {
	mu      sync.Mutex
	entries map[string]map[string]industry.StockLedgerEntry
}

func NewMockStockLedgerRepository() *MockStockLedgerRepository {
	return &MockStockLedgerRepository{
		entries: make(map[string]map[string]industry.StockLedgerEntry),
	}
}

func (r *MockStockLedgerRepository) Upsert(_ context.Context, entry industry.StockLedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byName, ok := r.entries[entry.ProjectID]
	if !ok {
		byName = make(map[string]industry.StockLedgerEntry)
		r.entries[entry.ProjectID] = byName
	}
	byName[entry.NormalizedName] = entry
	return nil
}

func (r *MockStockLedgerRepository) FindByProject(_ context.Context, projectID string) ([]industry.StockLedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []industry.StockLedgerEntry
	for _, entry := range r.entries[projectID] {
		out = append(out, entry)
	}
	return out, nil
}

func (r *MockStockLedgerRepository) DeleteByProject(_ context.Context, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, projectID)
	return nil
}

// Quantity returns the stored quantity for a project and normalized name,
// zero when absent.
func (r *MockStockLedgerRepository) Quantity(projectID, normalizedName string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[projectID][normalizedName].Quantity
}

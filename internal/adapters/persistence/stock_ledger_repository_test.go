package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/eveindustry-go/internal/adapters/persistence"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/test/helpers"
)

func TestStockLedgerRepository_UpsertOverwrites(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormStockLedgerRepository(db)
	ctx := context.Background()

	entry := industry.StockLedgerEntry{
		ProjectID:      "project-1",
		NormalizedName: "tritanium",
		TypeID:         34,
		Quantity:       100,
	}
	require.NoError(t, repo.Upsert(ctx, entry))

	// Act - same key, new quantity
	entry.Quantity = 250
	require.NoError(t, repo.Upsert(ctx, entry))

	// Assert
	entries, err := repo.FindByProject(ctx, "project-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(250), entries[0].Quantity)
	assert.Equal(t, int64(34), entries[0].TypeID)
}

func TestStockLedgerRepository_EntriesAreScopedByProject(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormStockLedgerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, industry.StockLedgerEntry{
		ProjectID: "project-1", NormalizedName: "tritanium", TypeID: 34, Quantity: 100,
	}))
	require.NoError(t, repo.Upsert(ctx, industry.StockLedgerEntry{
		ProjectID: "project-2", NormalizedName: "tritanium", TypeID: 34, Quantity: 7,
	}))

	// Act
	entries, err := repo.FindByProject(ctx, "project-2")

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].Quantity)
}

func TestStockLedgerRepository_DeleteByProject(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormStockLedgerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, industry.StockLedgerEntry{
		ProjectID: "project-1", NormalizedName: "tritanium", TypeID: 34, Quantity: 100,
	}))
	require.NoError(t, repo.Upsert(ctx, industry.StockLedgerEntry{
		ProjectID: "project-1", NormalizedName: "pyerite", TypeID: 35, Quantity: 50,
	}))

	// Act
	require.NoError(t, repo.DeleteByProject(ctx, "project-1"))

	// Assert
	entries, err := repo.FindByProject(ctx, "project-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

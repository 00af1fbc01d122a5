package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
)

// GormStockLedgerRepository implements StockLedgerRepository using GORM
type GormStockLedgerRepository struct {
	db *gorm.DB
}

// NewGormStockLedgerRepository creates a new GORM stock ledger repository
func NewGormStockLedgerRepository(db *gorm.DB) *GormStockLedgerRepository {
	return &GormStockLedgerRepository{db: db}
}

// Upsert writes one ledger row, replacing any existing quantity for the
// same (project, normalized name) key
func (r *GormStockLedgerRepository) Upsert(ctx context.Context, entry industry.StockLedgerEntry) error {
	model := StockLedgerModel{
		ProjectID:      entry.ProjectID,
		NormalizedName: entry.NormalizedName,
		TypeID:         entry.TypeID,
		Quantity:       entry.Quantity,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "normalized_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"type_id", "quantity"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert stock ledger entry: %w", result.Error)
	}
	return nil
}

// FindByProject loads all ledger rows for a project
func (r *GormStockLedgerRepository) FindByProject(ctx context.Context, projectID string) ([]industry.StockLedgerEntry, error) {
	var models []StockLedgerModel
	result := r.db.WithContext(ctx).Where("project_id = ?", projectID).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load stock ledger: %w", result.Error)
	}

	entries := make([]industry.StockLedgerEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, industry.StockLedgerEntry{
			ProjectID:      model.ProjectID,
			NormalizedName: model.NormalizedName,
			TypeID:         model.TypeID,
			Quantity:       model.Quantity,
		})
	}
	return entries, nil
}

// DeleteByProject removes all ledger rows for a project
func (r *GormStockLedgerRepository) DeleteByProject(ctx context.Context, projectID string) error {
	result := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&StockLedgerModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete stock ledger: %w", result.Error)
	}
	return nil
}

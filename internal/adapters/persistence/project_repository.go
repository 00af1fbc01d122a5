package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GORM project repository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create persists a new project and its current steps
func (r *GormProjectRepository) Create(ctx context.Context, project *industry.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := r.projectToModel(project)
		if err != nil {
			return fmt.Errorf("failed to convert project to model: %w", err)
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		return r.saveSteps(tx, project)
	})
}

// Update saves the project header and replaces the full step collection
func (r *GormProjectRepository) Update(ctx context.Context, project *industry.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := r.projectToModel(project)
		if err != nil {
			return fmt.Errorf("failed to convert project to model: %w", err)
		}
		if err := tx.Save(model).Error; err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}

		// Steps removed from the aggregate must disappear from the table too,
		// so delete rows not present in the current collection.
		keep := make([]string, 0, project.StepCount())
		for _, step := range project.Steps() {
			keep = append(keep, step.ID())
		}
		del := tx.Where("project_id = ?", project.ID())
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&PlanStepModel{}).Error; err != nil {
			return fmt.Errorf("failed to prune removed steps: %w", err)
		}

		return r.saveSteps(tx, project)
	})
}

// FindByID loads a project with steps, matches and purchases attached
func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*industry.Project, error) {
	var model ProjectModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find project: %w", result.Error)
	}

	project, err := r.modelToProject(&model)
	if err != nil {
		return nil, err
	}
	if err := r.loadSteps(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// FindAll lists all projects, most recently updated first
func (r *GormProjectRepository) FindAll(ctx context.Context) ([]*industry.Project, error) {
	var models []ProjectModel
	result := r.db.WithContext(ctx).Order("updated_at DESC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list projects: %w", result.Error)
	}

	projects := make([]*industry.Project, 0, len(models))
	for i := range models {
		project, err := r.modelToProject(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert project %s: %w", models[i].ID, err)
		}
		if err := r.loadSteps(ctx, project); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// FindStepByExternalJobID returns the step currently holding a match for the
// given external job id, across all projects. Returns nil, nil when unlinked.
func (r *GormProjectRepository) FindStepByExternalJobID(ctx context.Context, externalJobID int64) (*industry.PlanStep, error) {
	var match JobMatchModel
	result := r.db.WithContext(ctx).Where("external_job_id = ?", externalJobID).First(&match)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up external job link: %w", result.Error)
	}

	var stepModel PlanStepModel
	result = r.db.WithContext(ctx).Where("id = ?", match.StepID).First(&stepModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load linked step: %w", result.Error)
	}

	step, err := r.modelToStep(&stepModel)
	if err != nil {
		return nil, err
	}
	if err := r.loadStepChildren(ctx, step); err != nil {
		return nil, err
	}
	return step, nil
}

// Delete removes a project; steps, matches, purchases and ledger rows cascade
func (r *GormProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stepIDs []string
		if err := tx.Model(&PlanStepModel{}).Where("project_id = ?", id).Pluck("id", &stepIDs).Error; err != nil {
			return fmt.Errorf("failed to collect step ids: %w", err)
		}
		if len(stepIDs) > 0 {
			if err := tx.Where("step_id IN ?", stepIDs).Delete(&JobMatchModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete job matches: %w", err)
			}
			if err := tx.Where("step_id IN ?", stepIDs).Delete(&PurchaseModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete purchases: %w", err)
			}
		}
		if err := tx.Where("project_id = ?", id).Delete(&PlanStepModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete steps: %w", err)
		}
		if err := tx.Where("project_id = ?", id).Delete(&StockLedgerModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete stock ledger: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&ProjectModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		return nil
	})
}

// saveSteps upserts the project's current steps with their matches and
// purchases. Child rows are replaced wholesale per step.
func (r *GormProjectRepository) saveSteps(tx *gorm.DB, project *industry.Project) error {
	for _, step := range project.Steps() {
		stepModel, err := r.stepToModel(step)
		if err != nil {
			return fmt.Errorf("failed to convert step %s: %w", step.ID(), err)
		}
		if err := tx.Save(stepModel).Error; err != nil {
			return fmt.Errorf("failed to save step %s: %w", step.ID(), err)
		}

		if err := tx.Where("step_id = ?", step.ID()).Delete(&JobMatchModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear job matches for step %s: %w", step.ID(), err)
		}
		for _, match := range step.JobMatches() {
			if err := tx.Create(r.matchToModel(step.ID(), match)).Error; err != nil {
				return fmt.Errorf("failed to save job match %s: %w", match.ID(), err)
			}
		}

		if err := tx.Where("step_id = ?", step.ID()).Delete(&PurchaseModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear purchases for step %s: %w", step.ID(), err)
		}
		for _, purchase := range step.Purchases() {
			if err := tx.Create(r.purchaseToModel(step.ID(), purchase)).Error; err != nil {
				return fmt.Errorf("failed to save purchase %s: %w", purchase.ID(), err)
			}
		}
	}
	return nil
}

// loadSteps attaches all step rows (with matches and purchases) to a project
func (r *GormProjectRepository) loadSteps(ctx context.Context, project *industry.Project) error {
	var stepModels []PlanStepModel
	result := r.db.WithContext(ctx).
		Where("project_id = ?", project.ID()).
		Order("sort_order ASC").
		Find(&stepModels)
	if result.Error != nil {
		return fmt.Errorf("failed to load steps: %w", result.Error)
	}

	steps := make([]*industry.PlanStep, 0, len(stepModels))
	for i := range stepModels {
		step, err := r.modelToStep(&stepModels[i])
		if err != nil {
			return fmt.Errorf("failed to convert step %s: %w", stepModels[i].ID, err)
		}
		if err := r.loadStepChildren(ctx, step); err != nil {
			return err
		}
		steps = append(steps, step)
	}
	project.ReplaceSteps(steps)
	return nil
}

func (r *GormProjectRepository) loadStepChildren(ctx context.Context, step *industry.PlanStep) error {
	var matchModels []JobMatchModel
	result := r.db.WithContext(ctx).
		Where("step_id = ?", step.ID()).
		Order("start_date DESC").
		Find(&matchModels)
	if result.Error != nil {
		return fmt.Errorf("failed to load job matches: %w", result.Error)
	}
	matches := make([]*industry.JobMatch, 0, len(matchModels))
	for i := range matchModels {
		matches = append(matches, r.modelToMatch(&matchModels[i]))
	}
	step.SetJobMatches(matches)

	var purchaseModels []PurchaseModel
	result = r.db.WithContext(ctx).Where("step_id = ?", step.ID()).Find(&purchaseModels)
	if result.Error != nil {
		return fmt.Errorf("failed to load purchases: %w", result.Error)
	}
	purchases := make([]*industry.Purchase, 0, len(purchaseModels))
	for i := range purchaseModels {
		purchases = append(purchases, r.modelToPurchase(&purchaseModels[i]))
	}
	step.SetPurchases(purchases)
	return nil
}

// Conversions

func (r *GormProjectRepository) projectToModel(project *industry.Project) (*ProjectModel, error) {
	excluded := make([]int64, 0)
	for typeID := range project.ExcludedTypeIDs() {
		excluded = append(excluded, typeID)
	}
	excludedJSON, err := json.Marshal(excluded)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal excluded type ids: %w", err)
	}

	return &ProjectModel{
		ID:                   project.ID(),
		Name:                 project.Name(),
		ProductTypeID:        project.ProductTypeID(),
		ProductName:          project.ProductName(),
		BlueprintID:          project.BlueprintID(),
		Runs:                 project.Runs(),
		MELevel:              project.MELevel(),
		TELevel:              project.TELevel(),
		SellPrice:            project.SellPrice(),
		TransportCost:        project.TransportCost(),
		TaxPercent:           project.TaxPercent(),
		MaterialCostOverride: project.MaterialCostOverride(),
		MaxJobDurationHours:  project.MaxJobDurationHours(),
		ExcludedTypeIDs:      string(excludedJSON),
		CreatedAt:            project.CreatedAt(),
		UpdatedAt:            project.UpdatedAt(),
	}, nil
}

func (r *GormProjectRepository) modelToProject(model *ProjectModel) (*industry.Project, error) {
	var excluded []int64
	if model.ExcludedTypeIDs != "" {
		if err := json.Unmarshal([]byte(model.ExcludedTypeIDs), &excluded); err != nil {
			return nil, fmt.Errorf("failed to unmarshal excluded type ids: %w", err)
		}
	}

	return industry.ReconstituteProject(
		model.ID,
		model.Name,
		model.ProductTypeID,
		model.ProductName,
		model.BlueprintID,
		model.Runs,
		model.MELevel,
		model.TELevel,
		model.SellPrice,
		model.TransportCost,
		model.TaxPercent,
		model.MaterialCostOverride,
		model.MaxJobDurationHours,
		excluded,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (r *GormProjectRepository) stepToModel(step *industry.PlanStep) (*PlanStepModel, error) {
	facilityJSON := ""
	if facility := step.Facility(); facility != nil {
		data, err := json.Marshal(facility)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal facility: %w", err)
		}
		facilityJSON = string(data)
	}

	return &PlanStepModel{
		ID:              step.ID(),
		ProjectID:       step.ProjectID(),
		BlueprintID:     step.BlueprintID(),
		BlueprintName:   step.BlueprintName(),
		ProductTypeID:   step.ProductTypeID(),
		ProductName:     step.ProductName(),
		ActivityKind:    step.Kind().String(),
		Runs:            step.Runs(),
		Quantity:        step.Quantity(),
		Depth:           step.Depth(),
		SortOrder:       step.SortOrder(),
		SplitGroupID:    step.SplitGroupID(),
		SplitIndex:      step.SplitIndex(),
		TotalGroupRuns:  step.TotalGroupRuns(),
		MELevel:         step.MELevel(),
		TELevel:         step.TELevel(),
		FacilityJSON:    facilityJSON,
		Purchased:       step.Purchased(),
		InStockQuantity: step.InStockQuantity(),
	}, nil
}

func (r *GormProjectRepository) modelToStep(model *PlanStepModel) (*industry.PlanStep, error) {
	kind, err := shared.ParseActivityKind(model.ActivityKind)
	if err != nil {
		return nil, fmt.Errorf("step %s: %w", model.ID, err)
	}

	var facility *blueprint.FacilityProfile
	if model.FacilityJSON != "" {
		facility = &blueprint.FacilityProfile{}
		if err := json.Unmarshal([]byte(model.FacilityJSON), facility); err != nil {
			return nil, fmt.Errorf("failed to unmarshal facility for step %s: %w", model.ID, err)
		}
	}

	return industry.ReconstitutePlanStep(
		model.ID,
		model.ProjectID,
		model.BlueprintID,
		model.BlueprintName,
		model.ProductTypeID,
		model.ProductName,
		kind,
		model.Runs,
		model.Quantity,
		model.Depth,
		model.SortOrder,
		model.SplitGroupID,
		model.SplitIndex,
		model.TotalGroupRuns,
		model.MELevel,
		model.TELevel,
		facility,
		model.Purchased,
		model.InStockQuantity,
	), nil
}

func (r *GormProjectRepository) matchToModel(stepID string, match *industry.JobMatch) *JobMatchModel {
	return &JobMatchModel{
		ID:                   match.ID(),
		StepID:               stepID,
		ExternalJobID:        match.ExternalJobID(),
		BlueprintID:          match.BlueprintID(),
		Runs:                 match.Runs(),
		Cost:                 match.Cost(),
		Status:               string(match.Status()),
		StartDate:            match.StartDate(),
		EndDate:              match.EndDate(),
		FacilityID:           match.FacilityID(),
		CharacterName:        match.CharacterName(),
		PlannedFacilityName:  match.PlannedFacilityName(),
		PlannedMaterialBonus: match.PlannedMaterialBonus(),
		FacilityCorrected:    match.FacilityCorrected(),
	}
}

func (r *GormProjectRepository) modelToMatch(model *JobMatchModel) *industry.JobMatch {
	match := industry.NewJobMatch(
		model.ID,
		model.ExternalJobID,
		model.BlueprintID,
		model.Runs,
		model.Cost,
		industry.JobStatus(model.Status),
		model.StartDate,
		model.EndDate,
		model.FacilityID,
		model.CharacterName,
	)
	match.RestoreFacilitySnapshot(model.PlannedFacilityName, model.PlannedMaterialBonus, model.FacilityCorrected)
	return match
}

func (r *GormProjectRepository) purchaseToModel(stepID string, purchase *industry.Purchase) *PurchaseModel {
	return &PurchaseModel{
		ID:         purchase.ID(),
		StepID:     stepID,
		TypeID:     purchase.TypeID(),
		TypeName:   purchase.TypeName(),
		Quantity:   purchase.Quantity(),
		UnitPrice:  purchase.UnitPrice(),
		TotalPrice: purchase.TotalPrice(),
		Source:     string(purchase.Source()),
	}
}

func (r *GormProjectRepository) modelToPurchase(model *PurchaseModel) *industry.Purchase {
	return industry.NewPurchase(
		model.ID,
		model.TypeID,
		model.TypeName,
		model.Quantity,
		model.UnitPrice,
		model.TotalPrice,
		industry.PurchaseSource(model.Source),
	)
}

package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// ApplyStockCommand sets a single step's in-stock quantity without touching
// its children. AdaptStockAcrossTreeCommand is the cascading variant.
type ApplyStockCommand struct {
	ProjectID       string
	StepID          string
	InStockQuantity int64
}

// ApplyStockResponse returns the updated step.
type ApplyStockResponse struct {
	Step *industry.PlanStep
}

// ApplyStockHandler handles non-cascading stock updates
type ApplyStockHandler struct {
	projectRepo industry.ProjectRepository
}

// NewApplyStockHandler creates a new apply stock handler
func NewApplyStockHandler(projectRepo industry.ProjectRepository) *ApplyStockHandler {
	return &ApplyStockHandler{projectRepo: projectRepo}
}

// Handle executes the apply stock command
func (h *ApplyStockHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ApplyStockCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	project, err := h.projectRepo.FindByID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, shared.NewNotFoundError("project", cmd.ProjectID)
	}

	step := project.Step(cmd.StepID)
	if step == nil {
		return nil, shared.NewNotFoundError("step", cmd.StepID)
	}

	if err := step.SetInStock(cmd.InStockQuantity); err != nil {
		return nil, err
	}

	if err := h.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return &ApplyStockResponse{Step: step}, nil
}

// AdaptStockAcrossTreeCommand sets a step's stock and cascades the positive
// delta down through the step's subtree: built intermediates absorb their
// share, raw leaves land in the project's stock ledger.
type AdaptStockAcrossTreeCommand struct {
	ProjectID       string
	StepID          string
	InStockQuantity int64
}

// AdaptStockAcrossTreeResponse returns the whole updated step collection,
// since descendants may have changed too.
type AdaptStockAcrossTreeResponse struct {
	Steps []*industry.PlanStep
}

// AdaptStockAcrossTreeHandler handles cascading stock updates
type AdaptStockAcrossTreeHandler struct {
	stockEngine *services.StockEngine
	planner     *services.ProjectPlanner
	projectRepo industry.ProjectRepository
	facilities  services.FacilityDefaults
}

// NewAdaptStockAcrossTreeHandler creates a new cascading stock handler
func NewAdaptStockAcrossTreeHandler(stockEngine *services.StockEngine, planner *services.ProjectPlanner, projectRepo industry.ProjectRepository, facilities services.FacilityDefaults) *AdaptStockAcrossTreeHandler {
	return &AdaptStockAcrossTreeHandler{stockEngine: stockEngine, planner: planner, projectRepo: projectRepo, facilities: facilities}
}

// Handle executes the adapt stock across tree command
func (h *AdaptStockAcrossTreeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AdaptStockAcrossTreeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	project, err := h.projectRepo.FindByID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, shared.NewNotFoundError("project", cmd.ProjectID)
	}

	built, err := h.planner.BuildTree(ctx, project, h.facilities.Assigner())
	if err != nil {
		return nil, err
	}

	if err := h.stockEngine.ApplyStock(ctx, project, built.Tree, cmd.StepID, cmd.InStockQuantity); err != nil {
		return nil, err
	}

	if err := h.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return &AdaptStockAcrossTreeResponse{Steps: project.Steps()}, nil
}

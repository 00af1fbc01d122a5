package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// CreateManualStepCommand appends an ad hoc step for a product, bypassing
// the tree. Used for top-ups next to a generated plan.
type CreateManualStepCommand struct {
	ProjectID     string
	ProductTypeID int64
	Quantity      int64
}

// CreateManualStepResponse returns the inserted step.
type CreateManualStepResponse struct {
	Step *industry.PlanStep
}

// CreateManualStepHandler handles manual step insertion
type CreateManualStepHandler struct {
	generator   *services.StepGenerator
	projectRepo industry.ProjectRepository
	facilities  services.FacilityDefaults
}

// NewCreateManualStepHandler creates a new manual step handler
func NewCreateManualStepHandler(generator *services.StepGenerator, projectRepo industry.ProjectRepository, facilities services.FacilityDefaults) *CreateManualStepHandler {
	return &CreateManualStepHandler{generator: generator, projectRepo: projectRepo, facilities: facilities}
}

// Handle executes the create manual step command
func (h *CreateManualStepHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreateManualStepCommand)
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

	step, err := h.generator.CreateManualStep(ctx, project, cmd.ProductTypeID, cmd.Quantity, h.facilities.Assigner())
	if err != nil {
		return nil, err
	}

	if err := h.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return &CreateManualStepResponse{Step: step}, nil
}

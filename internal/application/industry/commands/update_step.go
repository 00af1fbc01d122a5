package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// UpdateStepCommand mutates one step in place. Nil fields keep their
// current values. Changing ME/TE requantifies the step's subtree.
type UpdateStepCommand struct {
	ProjectID       string
	StepID          string
	Purchased       *bool
	InStockQuantity *int64
	MELevel         *int
	TELevel         *int
}

// UpdateStepResponse returns the updated step and any recalculation
// warnings.
type UpdateStepResponse struct {
	Step     *industry.PlanStep
	Warnings []shared.Warning
}

// UpdateStepHandler handles in-place step updates
type UpdateStepHandler struct {
	recalculator *services.Recalculator
	projectRepo  industry.ProjectRepository
}

// NewUpdateStepHandler creates a new update step handler
func NewUpdateStepHandler(recalculator *services.Recalculator, projectRepo industry.ProjectRepository) *UpdateStepHandler {
	return &UpdateStepHandler{recalculator: recalculator, projectRepo: projectRepo}
}

// Handle executes the update step command
func (h *UpdateStepHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*UpdateStepCommand)
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

	// Validate everything before the first mutation so a rejected field
	// leaves the step untouched.
	if cmd.Purchased != nil && *cmd.Purchased && step.IsRoot() {
		return nil, shared.NewInvalidArgumentError("purchased", "a root step cannot be marked as purchased")
	}
	if cmd.InStockQuantity != nil && *cmd.InStockQuantity > 0 && step.IsRoot() {
		return nil, shared.NewInvalidArgumentError("inStockQuantity", "a root step cannot carry stock")
	}

	response := &UpdateStepResponse{Step: step}

	if cmd.Purchased != nil {
		if err := step.MarkPurchased(*cmd.Purchased); err != nil {
			return nil, err
		}
	}
	if cmd.InStockQuantity != nil {
		if err := step.SetInStock(*cmd.InStockQuantity); err != nil {
			return nil, err
		}
	}
	if cmd.MELevel != nil || cmd.TELevel != nil {
		me := step.MELevel()
		te := step.TELevel()
		if cmd.MELevel != nil {
			me = *cmd.MELevel
		}
		if cmd.TELevel != nil {
			te = *cmd.TELevel
		}
		if err := step.SetEfficiency(me, te); err != nil {
			return nil, err
		}
		warnings, err := h.recalculator.RequantifyFrom(ctx, project, step)
		if err != nil {
			return nil, err
		}
		response.Warnings = warnings
	}

	if err := h.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return response, nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// SplitStepCommand divides one step across parallel job slots.
type SplitStepCommand struct {
	ProjectID    string
	StepID       string
	NumberOfJobs int
}

// SplitStepResponse returns the resulting split group members.
type SplitStepResponse struct {
	Steps []*industry.PlanStep
}

// SplitStepHandler handles step splitting
type SplitStepHandler struct {
	generator   *services.StepGenerator
	projectRepo industry.ProjectRepository
}

// NewSplitStepHandler creates a new split step handler
func NewSplitStepHandler(generator *services.StepGenerator, projectRepo industry.ProjectRepository) *SplitStepHandler {
	return &SplitStepHandler{generator: generator, projectRepo: projectRepo}
}

// Handle executes the split step command
func (h *SplitStepHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SplitStepCommand)
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

	steps, err := h.generator.Split(ctx, project, cmd.StepID, cmd.NumberOfJobs)
	if err != nil {
		return nil, err
	}

	if err := h.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return &SplitStepResponse{Steps: steps}, nil
}

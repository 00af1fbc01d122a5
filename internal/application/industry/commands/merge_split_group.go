package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// MergeSplitGroupCommand collapses a split group back into one step.
type MergeSplitGroupCommand struct {
	ProjectID    string
	SplitGroupID string
}

// MergeSplitGroupResponse returns the surviving step.
type MergeSplitGroupResponse struct {
	Step *industry.PlanStep
}

// MergeSplitGroupHandler handles merging a split group
type MergeSplitGroupHandler struct {
	generator   *services.StepGenerator
	projectRepo industry.ProjectRepository
}

// NewMergeSplitGroupHandler creates a new merge split group handler
func NewMergeSplitGroupHandler(generator *services.StepGenerator, projectRepo industry.ProjectRepository) *MergeSplitGroupHandler {
	return &MergeSplitGroupHandler{generator: generator, projectRepo: projectRepo}
}

// Handle executes the merge split group command
func (h *MergeSplitGroupHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*MergeSplitGroupCommand)
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

	step, err := h.generator.Merge(ctx, project, cmd.SplitGroupID)
	if err != nil {
		return nil, err
	}

	if err := h.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return &MergeSplitGroupResponse{Step: step}, nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// RegenerateStepsCommand rebuilds a project's step set from scratch after a
// change to runs, ME/TE, the exclusion list or the job duration hint.
// Optional fields left nil keep their current values.
type RegenerateStepsCommand struct {
	ProjectID           string
	Runs                *int64
	MELevel             *int
	TELevel             *int
	MaxJobDurationHours *int
	ExcludeTypeIDs      []int64
}

// RegenerateStepsResponse carries the regenerated project and warnings.
type RegenerateStepsResponse struct {
	Project  *industry.Project
	Warnings []shared.Warning
}

// RegenerateStepsHandler handles destructive step regeneration
type RegenerateStepsHandler struct {
	planner     *services.ProjectPlanner
	projectRepo industry.ProjectRepository
	facilities  services.FacilityDefaults
}

// NewRegenerateStepsHandler creates a new regenerate steps handler
func NewRegenerateStepsHandler(planner *services.ProjectPlanner, projectRepo industry.ProjectRepository, facilities services.FacilityDefaults) *RegenerateStepsHandler {
	return &RegenerateStepsHandler{planner: planner, projectRepo: projectRepo, facilities: facilities}
}

// Handle executes the regenerate steps command
func (h *RegenerateStepsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RegenerateStepsCommand)
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

	if cmd.Runs != nil {
		if err := project.SetRuns(*cmd.Runs); err != nil {
			return nil, err
		}
	}
	if cmd.MELevel != nil || cmd.TELevel != nil {
		me := project.MELevel()
		te := project.TELevel()
		if cmd.MELevel != nil {
			me = *cmd.MELevel
		}
		if cmd.TELevel != nil {
			te = *cmd.TELevel
		}
		if err := project.SetEfficiency(me, te); err != nil {
			return nil, err
		}
	}
	if cmd.MaxJobDurationHours != nil {
		project.SetMaxJobDurationHours(*cmd.MaxJobDurationHours)
	}
	for _, typeID := range cmd.ExcludeTypeIDs {
		project.ExcludeType(typeID)
	}

	result, err := h.planner.Regenerate(ctx, project, h.facilities.Assigner())
	if err != nil {
		return nil, err
	}

	if err := h.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return &RegenerateStepsResponse{Project: project, Warnings: result.Warnings}, nil
}

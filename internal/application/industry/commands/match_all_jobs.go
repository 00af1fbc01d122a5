package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// MatchAllJobsCommand reconciles a batch of observed jobs against a
// project. The job list is supplied pre-fetched by the caller.
type MatchAllJobsCommand struct {
	ProjectID string
	Jobs      []industry.ExternalJob
}

// MatchAllJobsResponse reports what was linked and what needs review.
type MatchAllJobsResponse struct {
	Linked   []*industry.PlanStep
	Outcomes []services.MatchOutcome
	Warnings []shared.Warning
}

// MatchAllJobsHandler handles batch job reconciliation
type MatchAllJobsHandler struct {
	matcher     *services.JobMatcher
	projectRepo industry.ProjectRepository
}

// NewMatchAllJobsHandler creates a new match all jobs handler
func NewMatchAllJobsHandler(matcher *services.JobMatcher, projectRepo industry.ProjectRepository) *MatchAllJobsHandler {
	return &MatchAllJobsHandler{matcher: matcher, projectRepo: projectRepo}
}

// Handle executes the match all jobs command
func (h *MatchAllJobsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*MatchAllJobsCommand)
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

	result, err := h.matcher.MatchAll(ctx, project, cmd.Jobs)
	if err != nil {
		return nil, err
	}

	if err := h.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return &MatchAllJobsResponse{
		Linked:   result.Linked,
		Outcomes: result.Outcomes,
		Warnings: result.Warnings,
	}, nil
}

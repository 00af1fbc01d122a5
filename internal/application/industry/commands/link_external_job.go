package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// LinkExternalJobCommand links one observed production job to one step.
type LinkExternalJobCommand struct {
	ProjectID string
	StepID    string
	Job       industry.ExternalJob
}

// LinkExternalJobResponse returns the updated step.
type LinkExternalJobResponse struct {
	Step *industry.PlanStep
}

// LinkExternalJobHandler handles explicit job linking
type LinkExternalJobHandler struct {
	matcher     *services.JobMatcher
	projectRepo industry.ProjectRepository
}

// NewLinkExternalJobHandler creates a new link external job handler
func NewLinkExternalJobHandler(matcher *services.JobMatcher, projectRepo industry.ProjectRepository) *LinkExternalJobHandler {
	return &LinkExternalJobHandler{matcher: matcher, projectRepo: projectRepo}
}

// Handle executes the link external job command
func (h *LinkExternalJobHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*LinkExternalJobCommand)
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

	step, err := h.matcher.Link(ctx, project, cmd.StepID, cmd.Job)
	if err != nil {
		return nil, err
	}

	if err := h.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return &LinkExternalJobResponse{Step: step}, nil
}

package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// GetProjectQuery loads one project with its full step collection.
type GetProjectQuery struct {
	ProjectID string
}

// GetProjectResponse carries the loaded project.
type GetProjectResponse struct {
	Project *industry.Project
}

// GetProjectHandler handles project lookup queries
type GetProjectHandler struct {
	projectRepo industry.ProjectRepository
}

// NewGetProjectHandler creates a new get project handler
func NewGetProjectHandler(projectRepo industry.ProjectRepository) *GetProjectHandler {
	return &GetProjectHandler{projectRepo: projectRepo}
}

// Handle executes the get project query
func (h *GetProjectHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetProjectQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	project, err := h.projectRepo.FindByID(ctx, query.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, shared.NewNotFoundError("project", query.ProjectID)
	}

	return &GetProjectResponse{Project: project}, nil
}

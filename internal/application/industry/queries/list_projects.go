package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
)

// ListProjectsQuery loads every stored project.
type ListProjectsQuery struct{}

// ListProjectsResponse carries all projects.
type ListProjectsResponse struct {
	Projects []*industry.Project
}

// ListProjectsHandler handles project listing queries
type ListProjectsHandler struct {
	projectRepo industry.ProjectRepository
}

// NewListProjectsHandler creates a new list projects handler
func NewListProjectsHandler(projectRepo industry.ProjectRepository) *ListProjectsHandler {
	return &ListProjectsHandler{projectRepo: projectRepo}
}

// Handle executes the list projects query
func (h *ListProjectsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListProjectsQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	projects, err := h.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return &ListProjectsResponse{Projects: projects}, nil
}

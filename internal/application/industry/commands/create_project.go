package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// CreateProjectCommand starts a new production plan for a target product.
type CreateProjectCommand struct {
	Name          string
	ProductTypeID int64
	Quantity      int64
	MELevel       int
	TELevel       int
}

// CreateProjectResponse carries the new project and build warnings.
type CreateProjectResponse struct {
	Project  *industry.Project
	Warnings []shared.Warning
}

// CreateProjectHandler handles project creation
type CreateProjectHandler struct {
	planner     *services.ProjectPlanner
	projectRepo industry.ProjectRepository
	facilities  services.FacilityDefaults
}

// NewCreateProjectHandler creates a new create project handler
func NewCreateProjectHandler(planner *services.ProjectPlanner, projectRepo industry.ProjectRepository, facilities services.FacilityDefaults) *CreateProjectHandler {
	return &CreateProjectHandler{planner: planner, projectRepo: projectRepo, facilities: facilities}
}

// Handle executes the create project command
func (h *CreateProjectHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreateProjectCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	result, err := h.planner.CreateProject(ctx, cmd.Name, cmd.ProductTypeID, cmd.Quantity, cmd.MELevel, cmd.TELevel, h.facilities.Assigner())
	if err != nil {
		return nil, err
	}

	if err := h.projectRepo.Create(ctx, result.Project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return &CreateProjectResponse{Project: result.Project, Warnings: result.Warnings}, nil
}

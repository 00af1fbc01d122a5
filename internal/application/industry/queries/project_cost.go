package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// ProjectCostQuery aggregates a project's costs and expected profit.
type ProjectCostQuery struct {
	ProjectID string
}

// ProjectCostResponse carries the aggregated summary.
type ProjectCostResponse struct {
	Summary *services.CostSummary
}

// ProjectCostHandler handles cost summary queries
type ProjectCostHandler struct {
	aggregator  *services.CostAggregator
	planner     *services.ProjectPlanner
	projectRepo industry.ProjectRepository
	prices      industry.PriceFeed
	facilities  services.FacilityDefaults
}

// NewProjectCostHandler creates a new project cost handler
func NewProjectCostHandler(aggregator *services.CostAggregator, planner *services.ProjectPlanner, projectRepo industry.ProjectRepository, prices industry.PriceFeed, facilities services.FacilityDefaults) *ProjectCostHandler {
	return &ProjectCostHandler{
		aggregator:  aggregator,
		planner:     planner,
		projectRepo: projectRepo,
		prices:      prices,
		facilities:  facilities,
	}
}

// Handle executes the project cost query
func (h *ProjectCostHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ProjectCostQuery)
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

	built, err := h.planner.BuildTree(ctx, project, h.facilities.Assigner())
	if err != nil {
		return nil, err
	}

	summary, err := h.aggregator.Summarize(ctx, project, built.Tree, h.prices)
	if err != nil {
		return nil, err
	}

	return &ProjectCostResponse{Summary: summary}, nil
}

package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// LoadShoppingListQuery derives the list of raw materials still missing for
// a project, with conservative price quotes attached.
type LoadShoppingListQuery struct {
	ProjectID string
}

// LoadShoppingListResponse carries the derived list.
type LoadShoppingListResponse struct {
	Items    []services.ShoppingListItem
	Warnings []shared.Warning
}

// LoadShoppingListHandler handles shopping list queries
type LoadShoppingListHandler struct {
	stockEngine *services.StockEngine
	planner     *services.ProjectPlanner
	projectRepo industry.ProjectRepository
	prices      industry.PriceFeed
	facilities  services.FacilityDefaults
}

// NewLoadShoppingListHandler creates a new shopping list handler
func NewLoadShoppingListHandler(stockEngine *services.StockEngine, planner *services.ProjectPlanner, projectRepo industry.ProjectRepository, prices industry.PriceFeed, facilities services.FacilityDefaults) *LoadShoppingListHandler {
	return &LoadShoppingListHandler{
		stockEngine: stockEngine,
		planner:     planner,
		projectRepo: projectRepo,
		prices:      prices,
		facilities:  facilities,
	}
}

// Handle executes the load shopping list query
func (h *LoadShoppingListHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*LoadShoppingListQuery)
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

	result, err := h.stockEngine.ShoppingList(ctx, project, built.Tree, h.prices)
	if err != nil {
		return nil, err
	}

	warnings := append(built.Warnings, result.Warnings...)
	return &LoadShoppingListResponse{Items: result.Items, Warnings: warnings}, nil
}

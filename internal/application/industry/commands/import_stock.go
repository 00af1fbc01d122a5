package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// ImportStockCommand parses a free-text inventory paste and credits the
// recognized quantities to the project's raw-material ledger.
type ImportStockCommand struct {
	ProjectID string
	Text      string
}

// ImportStockResponse reports how many lines were applied.
type ImportStockResponse struct {
	AppliedLines int
	Warnings     []shared.Warning
}

// ImportStockHandler handles free-text stock imports
type ImportStockHandler struct {
	stockEngine *services.StockEngine
	planner     *services.ProjectPlanner
	projectRepo industry.ProjectRepository
	facilities  services.FacilityDefaults
}

// NewImportStockHandler creates a new import stock handler
func NewImportStockHandler(stockEngine *services.StockEngine, planner *services.ProjectPlanner, projectRepo industry.ProjectRepository, facilities services.FacilityDefaults) *ImportStockHandler {
	return &ImportStockHandler{stockEngine: stockEngine, planner: planner, projectRepo: projectRepo, facilities: facilities}
}

// Handle executes the import stock command
func (h *ImportStockHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ImportStockCommand)
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

	lines := services.ParseStockText(cmd.Text)
	if len(lines) == 0 {
		return &ImportStockResponse{}, nil
	}

	built, err := h.planner.BuildTree(ctx, project, h.facilities.Assigner())
	if err != nil {
		return nil, err
	}

	warnings, err := h.stockEngine.ImportStock(ctx, project, built.Tree, lines)
	if err != nil {
		return nil, err
	}

	if err := h.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return &ImportStockResponse{AppliedLines: len(lines), Warnings: warnings}, nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// RecordPurchaseCommand records a purchase against a step.
type RecordPurchaseCommand struct {
	ProjectID  string
	StepID     string
	TypeID     int64
	TypeName   string
	Quantity   int64
	UnitPrice  float64
	TotalPrice float64
	Source     industry.PurchaseSource
}

// RecordPurchaseResponse returns the updated step.
type RecordPurchaseResponse struct {
	Step     *industry.PlanStep
	Purchase *industry.Purchase
}

// RecordPurchaseHandler handles purchase recording
type RecordPurchaseHandler struct {
	projectRepo industry.ProjectRepository
}

// NewRecordPurchaseHandler creates a new record purchase handler
func NewRecordPurchaseHandler(projectRepo industry.ProjectRepository) *RecordPurchaseHandler {
	return &RecordPurchaseHandler{projectRepo: projectRepo}
}

// Handle executes the record purchase command
func (h *RecordPurchaseHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RecordPurchaseCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if cmd.Quantity <= 0 {
		return nil, shared.NewInvalidArgumentError("quantity", fmt.Sprintf("must be positive, got %d", cmd.Quantity))
	}
	if cmd.UnitPrice < 0 {
		return nil, shared.NewInvalidArgumentError("unitPrice", "must not be negative")
	}

	project, err := h.projectRepo.FindByID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, shared.NewNotFoundError("project", cmd.ProjectID)
	}

	step := project.Step(cmd.StepID)
	if step == nil {
		return nil, shared.NewNotFoundError("step", cmd.StepID)
	}

	source := cmd.Source
	if source == "" {
		source = industry.PurchaseSourceManual
	}

	purchase := industry.NewPurchase(
		uuid.New().String(),
		cmd.TypeID,
		cmd.TypeName,
		cmd.Quantity,
		cmd.UnitPrice,
		cmd.TotalPrice,
		source,
	)
	step.AddPurchase(purchase)

	if err := h.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return &RecordPurchaseResponse{Step: step, Purchase: purchase}, nil
}

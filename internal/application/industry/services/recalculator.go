package services

import (
	"context"

	"github.com/andrescamacho/eveindustry-go/internal/application/logging"
	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// Recalculator reapplies the efficiency calculator to a step and pushes the
// resulting requirement changes down through its descendant steps.
//
// The cascade applies top-down and is idempotent: re-running it with the
// same inputs leaves the plan unchanged. Descendants are paired to material
// lines by product type at the next depth, the same identity the stock
// cascade uses.
type Recalculator struct {
	catalog    blueprint.Catalog
	calculator *EfficiencyCalculator
}

// NewRecalculator creates a recalculator over the given catalog.
func NewRecalculator(catalog blueprint.Catalog, calculator *EfficiencyCalculator) *Recalculator {
	return &Recalculator{catalog: catalog, calculator: calculator}
}

// RequantifyFrom recomputes the given step's effective materials and adapts
// the runs/quantities of its descendant steps. The step's own runs are left
// alone; only what it consumes changes.
func (r *Recalculator) RequantifyFrom(ctx context.Context, project *industry.Project, step *industry.PlanStep) ([]shared.Warning, error) {
	var warnings []shared.Warning
	if err := r.requantify(ctx, project, step, &warnings); err != nil {
		return warnings, err
	}
	return warnings, nil
}

func (r *Recalculator) requantify(ctx context.Context, project *industry.Project, step *industry.PlanStep, warnings *[]shared.Warning) error {
	activity, err := r.catalog.FindActivityProducingKind(step.ProductTypeID(), step.Kind())
	if err != nil {
		return shared.NewExternalTransientError("blueprint catalog", err)
	}
	if activity == nil {
		*warnings = append(*warnings, shared.NewWarning(
			shared.NewDataIntegrityError(step.ProductTypeID(), "no activity found during recalculation; step left untouched")))
		return nil
	}

	effective, err := r.calculator.EffectiveRun(activity, step.MELevel(), step.TELevel(),
		step.Facility(), r.catalog.TypeCategory(step.ProductTypeID()))
	if err != nil {
		return err
	}

	for _, mat := range effective.Materials {
		child := findChildStep(project, step, mat.TypeID)
		if child == nil {
			// Raw material or excluded branch; nothing persisted to adapt.
			continue
		}
		needed := mat.Quantity * step.Runs()
		perRun := quantityPerRun(child)
		runs := ceilDiv(needed, perRun)
		if runs == child.Runs() {
			continue
		}
		if err := child.SetRuns(runs, perRun); err != nil {
			return err
		}
		if err := r.requantify(ctx, project, child, warnings); err != nil {
			return err
		}
	}

	logging.LoggerFromContext(ctx).Log("DEBUG", "Requantified step subtree", map[string]interface{}{
		"step_id": step.ID(),
	})
	return nil
}

// findChildStep locates the step consuming position for a material: same
// product type one depth below, lowest sort order after the parent.
func findChildStep(project *industry.Project, parent *industry.PlanStep, productTypeID int64) *industry.PlanStep {
	for _, s := range project.Steps() {
		if s.ProductTypeID() == productTypeID && s.Depth() == parent.Depth()+1 && s.SortOrder() > parent.SortOrder() {
			return s
		}
	}
	return nil
}

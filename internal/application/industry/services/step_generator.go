package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/eveindustry-go/internal/application/logging"
	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// StepGenerator converts production trees into persisted plan steps and
// owns the split/merge operations on them.
type StepGenerator struct {
	catalog blueprint.Catalog
}

// NewStepGenerator creates a step generator over the given catalog.
func NewStepGenerator(catalog blueprint.Catalog) *StepGenerator {
	return &StepGenerator{catalog: catalog}
}

// Flatten walks the tree depth-first in pre-order and emits one step per
// buildable node. Raw-material leaves are sourced by purchase or stock and
// are not modeled as steps. Sort order equals visitation order, so the root
// product is always the first, depth-0 step.
func (g *StepGenerator) Flatten(project *industry.Project, tree *industry.Tree, assign FacilityAssigner) []*industry.PlanStep {
	var steps []*industry.PlanStep
	order := 0
	tree.Walk(func(_ industry.NodeIndex, n *industry.Node) {
		if n.IsRawMaterial {
			return
		}
		var facility *blueprint.FacilityProfile
		if assign != nil {
			facility = assign(n.Kind, n.ProductTypeID)
		}
		step := industry.NewPlanStep(
			project.ID(),
			n.BlueprintID,
			n.BlueprintName,
			n.ProductTypeID,
			n.ProductName,
			n.Kind,
			n.Runs,
			n.Quantity,
			n.Depth,
			order,
			project.MELevel(),
			project.TELevel(),
			facility,
		)
		steps = append(steps, step)
		order++
	})
	return steps
}

// Split divides a step's runs across numberOfJobs parallel steps. The
// remainder is front-loaded: with 7 runs over 3 jobs the group carries
// [3,2,2]. The original step stays as the first group member and keeps its
// job matches and purchases; numberOfJobs-1 fresh siblings are inserted
// right after it in sort order.
//
// A step that is already split must be merged first. numberOfJobs of 1 is a
// no-op: the step is returned unchanged and no group is created.
func (g *StepGenerator) Split(ctx context.Context, project *industry.Project, stepID string, numberOfJobs int) ([]*industry.PlanStep, error) {
	step := project.Step(stepID)
	if step == nil {
		return nil, shared.NewNotFoundError("step", stepID)
	}
	if step.IsSplit() {
		return nil, &industry.ErrStepAlreadySplit{StepID: stepID, SplitGroupID: step.SplitGroupID()}
	}
	if numberOfJobs < 1 {
		return nil, shared.NewInvalidArgumentError("numberOfJobs", fmt.Sprintf("must be positive, got %d", numberOfJobs))
	}
	if int64(numberOfJobs) > step.Runs() {
		return nil, shared.NewInvalidArgumentError("numberOfJobs",
			fmt.Sprintf("cannot split %d runs into %d jobs", step.Runs(), numberOfJobs))
	}
	if numberOfJobs == 1 {
		return []*industry.PlanStep{step}, nil
	}

	totalRuns := step.Runs()
	perRun := quantityPerRun(step)
	base := totalRuns / int64(numberOfJobs)
	remainder := totalRuns - base*int64(numberOfJobs)

	groupID := uuid.New().String()
	result := make([]*industry.PlanStep, 0, numberOfJobs)

	runsFor := func(i int) int64 {
		if int64(i) < remainder {
			return base + 1
		}
		return base
	}

	// The original step becomes the first group member.
	if err := step.SetRuns(runsFor(0), perRun); err != nil {
		return nil, err
	}
	step.AssignToSplitGroup(groupID, 0, totalRuns)
	result = append(result, step)

	// Make room in the sort order for the new siblings.
	for _, s := range project.Steps() {
		if s.ID() != step.ID() && s.SortOrder() > step.SortOrder() {
			s.SetSortOrder(s.SortOrder() + numberOfJobs - 1)
		}
	}

	for i := 1; i < numberOfJobs; i++ {
		sibling := industry.NewPlanStep(
			project.ID(),
			step.BlueprintID(),
			step.BlueprintName(),
			step.ProductTypeID(),
			step.ProductName(),
			step.Kind(),
			runsFor(i),
			runsFor(i)*perRun,
			step.Depth(),
			step.SortOrder()+i,
			step.MELevel(),
			step.TELevel(),
			step.Facility(),
		)
		sibling.AssignToSplitGroup(groupID, i, totalRuns)
		if err := project.AddStep(sibling); err != nil {
			return nil, err
		}
		result = append(result, sibling)
	}

	logging.LoggerFromContext(ctx).Log("INFO", "Split step into parallel jobs", map[string]interface{}{
		"step_id":        stepID,
		"split_group_id": groupID,
		"number_of_jobs": numberOfJobs,
		"total_runs":     totalRuns,
	})

	return result, nil
}

// Merge collapses a split group back into its first member. Runs and
// quantity become the group totals, job matches and purchases of removed
// siblings are re-parented onto the kept step, and all split metadata is
// cleared. A group needs at least two members to merge.
func (g *StepGenerator) Merge(ctx context.Context, project *industry.Project, splitGroupID string) (*industry.PlanStep, error) {
	members := project.StepsInSplitGroup(splitGroupID)
	if len(members) == 0 {
		return nil, shared.NewNotFoundError("split group", splitGroupID)
	}
	if len(members) < 2 {
		return nil, &industry.ErrSplitGroupTooSmall{SplitGroupID: splitGroupID, Members: len(members)}
	}

	kept := members[0]
	perRun := quantityPerRun(kept)

	var totalRuns int64
	matches := kept.JobMatches()
	purchases := kept.Purchases()
	for _, m := range members {
		totalRuns += m.Runs()
		if m.ID() == kept.ID() {
			continue
		}
		matches = append(matches, m.JobMatches()...)
		purchases = append(purchases, m.Purchases()...)
		if err := project.RemoveStep(m.ID()); err != nil {
			return nil, err
		}
	}

	if err := kept.SetRuns(totalRuns, perRun); err != nil {
		return nil, err
	}
	kept.SetJobMatches(matches)
	kept.SetPurchases(purchases)
	kept.ClearSplitGroup()

	compactSortOrder(project)

	logging.LoggerFromContext(ctx).Log("INFO", "Merged split group", map[string]interface{}{
		"split_group_id": splitGroupID,
		"kept_step_id":   kept.ID(),
		"total_runs":     totalRuns,
	})

	return kept, nil
}

// CreateManualStep appends an ad hoc depth-0 step for a product, bypassing
// the tree. Blueprint resolution follows the builder's rule: manufacturing
// preferred, reaction as fallback.
func (g *StepGenerator) CreateManualStep(ctx context.Context, project *industry.Project, productTypeID int64, quantity int64, assign FacilityAssigner) (*industry.PlanStep, error) {
	if quantity <= 0 {
		return nil, shared.NewInvalidArgumentError("quantity", fmt.Sprintf("must be positive, got %d", quantity))
	}

	activity, err := g.catalog.FindActivityProducing(productTypeID)
	if err != nil {
		return nil, shared.NewExternalTransientError("blueprint catalog", err)
	}
	if activity == nil {
		return nil, shared.NewNotFoundError("blueprint producing type", fmt.Sprintf("%d", productTypeID))
	}

	perRun := activity.ProductQuantityPerRun(productTypeID)
	runs := ceilDiv(quantity, perRun)

	var facility *blueprint.FacilityProfile
	if assign != nil {
		facility = assign(activity.Kind, productTypeID)
	}

	step := industry.NewPlanStep(
		project.ID(),
		activity.BlueprintID,
		activity.BlueprintName,
		productTypeID,
		g.catalog.TypeName(productTypeID),
		activity.Kind,
		runs,
		runs*perRun,
		0,
		project.MaxSortOrder()+1,
		project.MELevel(),
		project.TELevel(),
		facility,
	)
	if err := project.AddStep(step); err != nil {
		return nil, err
	}

	logging.LoggerFromContext(ctx).Log("INFO", "Added manual step", map[string]interface{}{
		"project_id":      project.ID(),
		"product_type_id": productTypeID,
		"runs":            runs,
	})

	return step, nil
}

// quantityPerRun derives the blueprint's per-run output from a step's
// current runs and quantity. Steps keep quantity == runs * perRun.
func quantityPerRun(step *industry.PlanStep) int64 {
	if step.Runs() <= 0 {
		return 1
	}
	perRun := step.Quantity() / step.Runs()
	if perRun < 1 {
		perRun = 1
	}
	return perRun
}

// compactSortOrder renumbers steps 0..n-1 preserving relative order.
func compactSortOrder(project *industry.Project) {
	for i, s := range project.Steps() {
		s.SetSortOrder(i)
	}
}

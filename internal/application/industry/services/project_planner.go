package services

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/logging"
	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// ProjectPlanner drives the tree build and flatten cycle for a project:
// initial creation and every destructive regeneration after a change to
// runs, ME/TE or the exclusion list.
type ProjectPlanner struct {
	catalog   blueprint.Catalog
	builder   *TreeBuilder
	generator *StepGenerator
}

// NewProjectPlanner creates a project planner.
func NewProjectPlanner(catalog blueprint.Catalog, builder *TreeBuilder, generator *StepGenerator) *ProjectPlanner {
	return &ProjectPlanner{catalog: catalog, builder: builder, generator: generator}
}

// PlanResult couples the project with the tree its steps were derived from.
type PlanResult struct {
	Project  *industry.Project
	Tree     *industry.Tree
	Warnings []shared.Warning
}

// CreateProject builds a new plan for the target product and quantity. The
// initial tree build and flatten produce the whole step set.
func (p *ProjectPlanner) CreateProject(ctx context.Context, name string, productTypeID int64, quantity int64, meLevel, teLevel int, assign FacilityAssigner) (*PlanResult, error) {
	if quantity <= 0 {
		return nil, shared.NewInvalidArgumentError("quantity", fmt.Sprintf("must be positive, got %d", quantity))
	}

	activity, err := p.catalog.FindActivityProducing(productTypeID)
	if err != nil {
		return nil, shared.NewExternalTransientError("blueprint catalog", err)
	}
	if activity == nil {
		return nil, shared.NewNotFoundError("blueprint producing type", fmt.Sprintf("%d", productTypeID))
	}

	perRun := activity.ProductQuantityPerRun(productTypeID)
	runs := ceilDiv(quantity, perRun)

	project, err := industry.NewProject(name, productTypeID, p.catalog.TypeName(productTypeID), activity.BlueprintID, runs, meLevel, teLevel)
	if err != nil {
		return nil, err
	}

	result, err := p.regenerate(ctx, project, assign)
	if err != nil {
		return nil, err
	}

	logging.LoggerFromContext(ctx).Log("INFO", "Created project", map[string]interface{}{
		"project_id": project.ID(),
		"product":    project.ProductName(),
		"runs":       runs,
		"steps":      project.StepCount(),
	})
	return result, nil
}

// Regenerate rebuilds the whole step set from a fresh tree. Job links and
// purchases survive when a step with the same blueprint id and depth exists
// in the new plan; this is best effort, not a guarantee.
func (p *ProjectPlanner) Regenerate(ctx context.Context, project *industry.Project, assign FacilityAssigner) (*PlanResult, error) {
	oldSteps := project.Steps()

	result, err := p.regenerate(ctx, project, assign)
	if err != nil {
		return nil, err
	}

	carried := 0
	for _, old := range oldSteps {
		if len(old.JobMatches()) == 0 && len(old.Purchases()) == 0 {
			continue
		}
		target := findByBlueprintAndDepth(project.Steps(), old.BlueprintID(), old.Depth())
		if target == nil {
			result.Warnings = append(result.Warnings, shared.Warning{
				Message: fmt.Sprintf("step for blueprint %d at depth %d disappeared during regeneration; its job links and purchases were dropped",
					old.BlueprintID(), old.Depth()),
			})
			continue
		}
		matches := target.JobMatches()
		matches = append(matches, old.JobMatches()...)
		target.SetJobMatches(matches)
		purchases := target.Purchases()
		purchases = append(purchases, old.Purchases()...)
		target.SetPurchases(purchases)
		carried++
	}

	logging.LoggerFromContext(ctx).Log("INFO", "Regenerated project steps", map[string]interface{}{
		"project_id":      project.ID(),
		"steps":           project.StepCount(),
		"steps_preserved": carried,
	})
	return result, nil
}

// BuildTree rebuilds the ephemeral tree for the project's current settings
// without touching the step collection. Stock cascades and shopping lists
// navigate this tree.
func (p *ProjectPlanner) BuildTree(ctx context.Context, project *industry.Project, assign FacilityAssigner) (*BuildResult, error) {
	activity, err := p.catalog.FindActivityProducing(project.ProductTypeID())
	if err != nil {
		return nil, shared.NewExternalTransientError("blueprint catalog", err)
	}
	if activity == nil {
		return nil, shared.NewNotFoundError("blueprint producing type", fmt.Sprintf("%d", project.ProductTypeID()))
	}
	perRun := activity.ProductQuantityPerRun(project.ProductTypeID())

	return p.builder.Build(ctx, BuildRequest{
		ProductTypeID:   project.ProductTypeID(),
		Quantity:        project.Runs() * perRun,
		MELevel:         project.MELevel(),
		TELevel:         project.TELevel(),
		ExcludedTypeIDs: project.ExcludedTypeIDs(),
		AssignFacility:  assign,
	})
}

func (p *ProjectPlanner) regenerate(ctx context.Context, project *industry.Project, assign FacilityAssigner) (*PlanResult, error) {
	built, err := p.BuildTree(ctx, project, assign)
	if err != nil {
		return nil, err
	}

	steps := p.generator.Flatten(project, built.Tree, assign)
	project.ReplaceSteps(steps)

	return &PlanResult{Project: project, Tree: built.Tree, Warnings: built.Warnings}, nil
}

func findByBlueprintAndDepth(steps []*industry.PlanStep, blueprintID int64, depth int) *industry.PlanStep {
	for _, s := range steps {
		if s.BlueprintID() == blueprintID && s.Depth() == depth {
			return s
		}
	}
	return nil
}

package industry

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// Project is the aggregate root of one production plan: a target product, a
// run count, the efficiency assumptions, and the flat step collection
// produced by flattening the production tree.
//
// All mutating operations on a project must be serialized by the caller
// (single writer per project); the aggregate performs no internal locking.
type Project struct {
	id            string
	name          string
	productTypeID int64
	productName   string
	blueprintID   int64
	runs          int64
	meLevel       int
	teLevel       int

	sellPrice            float64
	transportCost        float64
	taxPercent           float64
	materialCostOverride *float64
	maxJobDurationHours  int

	excludedTypeIDs map[int64]bool

	steps     []*PlanStep
	stepsByID map[string]*PlanStep

	createdAt time.Time
	updatedAt time.Time
}

// NewProject creates an empty project; steps are generated afterwards by the
// step generator from a fresh tree build.
func NewProject(name string, productTypeID int64, productName string, blueprintID int64, runs int64, meLevel, teLevel int) (*Project, error) {
	if runs <= 0 {
		return nil, shared.NewInvalidArgumentError("runs", fmt.Sprintf("must be positive, got %d", runs))
	}
	if meLevel < 0 || meLevel > 10 {
		return nil, shared.NewInvalidArgumentError("meLevel", fmt.Sprintf("must be in [0,10], got %d", meLevel))
	}
	if teLevel < 0 || teLevel > 20 {
		return nil, shared.NewInvalidArgumentError("teLevel", fmt.Sprintf("must be in [0,20], got %d", teLevel))
	}
	now := time.Now()
	return &Project{
		id:              uuid.New().String(),
		name:            name,
		productTypeID:   productTypeID,
		productName:     productName,
		blueprintID:     blueprintID,
		runs:            runs,
		meLevel:         meLevel,
		teLevel:         teLevel,
		excludedTypeIDs: make(map[int64]bool),
		steps:           make([]*PlanStep, 0),
		stepsByID:       make(map[string]*PlanStep),
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstituteProject rebuilds a project from persistence (repository use only).
func ReconstituteProject(
	id string,
	name string,
	productTypeID int64,
	productName string,
	blueprintID int64,
	runs int64,
	meLevel int,
	teLevel int,
	sellPrice float64,
	transportCost float64,
	taxPercent float64,
	materialCostOverride *float64,
	maxJobDurationHours int,
	excludedTypeIDs []int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Project {
	excluded := make(map[int64]bool, len(excludedTypeIDs))
	for _, id := range excludedTypeIDs {
		excluded[id] = true
	}
	return &Project{
		id:                   id,
		name:                 name,
		productTypeID:        productTypeID,
		productName:          productName,
		blueprintID:          blueprintID,
		runs:                 runs,
		meLevel:              meLevel,
		teLevel:              teLevel,
		sellPrice:            sellPrice,
		transportCost:        transportCost,
		taxPercent:           taxPercent,
		materialCostOverride: materialCostOverride,
		maxJobDurationHours:  maxJobDurationHours,
		excludedTypeIDs:      excluded,
		steps:                make([]*PlanStep, 0),
		stepsByID:            make(map[string]*PlanStep),
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

// Getters

func (p *Project) ID() string                     { return p.id }
func (p *Project) Name() string                   { return p.name }
func (p *Project) ProductTypeID() int64           { return p.productTypeID }
func (p *Project) ProductName() string            { return p.productName }
func (p *Project) BlueprintID() int64             { return p.blueprintID }
func (p *Project) Runs() int64                    { return p.runs }
func (p *Project) MELevel() int                   { return p.meLevel }
func (p *Project) TELevel() int                   { return p.teLevel }
func (p *Project) SellPrice() float64             { return p.sellPrice }
func (p *Project) TransportCost() float64         { return p.transportCost }
func (p *Project) TaxPercent() float64            { return p.taxPercent }
func (p *Project) MaterialCostOverride() *float64 { return p.materialCostOverride }
func (p *Project) MaxJobDurationHours() int       { return p.maxJobDurationHours }
func (p *Project) CreatedAt() time.Time           { return p.createdAt }
func (p *Project) UpdatedAt() time.Time           { return p.updatedAt }

// ExcludedTypeIDs returns the blacklist applied during tree builds.
func (p *Project) ExcludedTypeIDs() map[int64]bool {
	out := make(map[int64]bool, len(p.excludedTypeIDs))
	for id := range p.excludedTypeIDs {
		out[id] = true
	}
	return out
}

// Steps returns the step collection ordered by sortOrder.
func (p *Project) Steps() []*PlanStep {
	out := make([]*PlanStep, len(p.steps))
	copy(out, p.steps)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder() < out[j].SortOrder() })
	return out
}

// Step returns a step by id, or nil.
func (p *Project) Step(stepID string) *PlanStep { return p.stepsByID[stepID] }

// StepCount returns the number of steps in the plan.
func (p *Project) StepCount() int { return len(p.steps) }

// StepsInSplitGroup returns the members of a split group ordered by split
// index.
func (p *Project) StepsInSplitGroup(groupID string) []*PlanStep {
	var members []*PlanStep
	for _, s := range p.steps {
		if s.SplitGroupID() == groupID {
			members = append(members, s)
		}
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].SplitIndex() < members[j].SplitIndex() })
	return members
}

// StepsForBlueprint returns all steps running the given blueprint.
func (p *Project) StepsForBlueprint(blueprintID int64) []*PlanStep {
	var out []*PlanStep
	for _, s := range p.steps {
		if s.BlueprintID() == blueprintID {
			out = append(out, s)
		}
	}
	return out
}

// MaxSortOrder returns the highest sort order in use, -1 for an empty plan.
func (p *Project) MaxSortOrder() int {
	max := -1
	for _, s := range p.steps {
		if s.SortOrder() > max {
			max = s.SortOrder()
		}
	}
	return max
}

// Mutations

// SetName renames the project.
func (p *Project) SetName(name string) {
	p.name = name
	p.touch()
}

// SetRuns changes the target run count; the caller must regenerate steps.
func (p *Project) SetRuns(runs int64) error {
	if runs <= 0 {
		return shared.NewInvalidArgumentError("runs", fmt.Sprintf("must be positive, got %d", runs))
	}
	p.runs = runs
	p.touch()
	return nil
}

// SetEfficiency changes the plan-wide ME/TE assumption; the caller must
// regenerate steps.
func (p *Project) SetEfficiency(meLevel, teLevel int) error {
	if meLevel < 0 || meLevel > 10 {
		return shared.NewInvalidArgumentError("meLevel", fmt.Sprintf("must be in [0,10], got %d", meLevel))
	}
	if teLevel < 0 || teLevel > 20 {
		return shared.NewInvalidArgumentError("teLevel", fmt.Sprintf("must be in [0,20], got %d", teLevel))
	}
	p.meLevel = meLevel
	p.teLevel = teLevel
	p.touch()
	return nil
}

// SetEconomics updates sale-side figures used by the cost aggregator.
func (p *Project) SetEconomics(sellPrice, transportCost, taxPercent float64) {
	p.sellPrice = sellPrice
	p.transportCost = transportCost
	p.taxPercent = taxPercent
	p.touch()
}

// SetMaterialCostOverride pins material cost to a manual figure; nil clears.
func (p *Project) SetMaterialCostOverride(cost *float64) {
	p.materialCostOverride = cost
	p.touch()
}

// SetMaxJobDurationHours stores the job-splitting hint; the caller must
// regenerate steps for it to take effect.
func (p *Project) SetMaxJobDurationHours(hours int) {
	p.maxJobDurationHours = hours
	p.touch()
}

// ExcludeType adds a type to the tree-build blacklist.
func (p *Project) ExcludeType(typeID int64) {
	p.excludedTypeIDs[typeID] = true
	p.touch()
}

// AddStep attaches a step to the plan.
func (p *Project) AddStep(step *PlanStep) error {
	if _, exists := p.stepsByID[step.ID()]; exists {
		return shared.NewConflictError("step", step.ID(), "already part of project")
	}
	p.steps = append(p.steps, step)
	p.stepsByID[step.ID()] = step
	p.touch()
	return nil
}

// RemoveStep detaches a step (merge cleanup and regeneration).
func (p *Project) RemoveStep(stepID string) error {
	if _, exists := p.stepsByID[stepID]; !exists {
		return shared.NewNotFoundError("step", stepID)
	}
	delete(p.stepsByID, stepID)
	for i, s := range p.steps {
		if s.ID() == stepID {
			p.steps = append(p.steps[:i], p.steps[i+1:]...)
			break
		}
	}
	p.touch()
	return nil
}

// ReplaceSteps swaps the whole step collection (destructive regeneration).
func (p *Project) ReplaceSteps(steps []*PlanStep) {
	p.steps = make([]*PlanStep, 0, len(steps))
	p.stepsByID = make(map[string]*PlanStep, len(steps))
	for _, s := range steps {
		p.steps = append(p.steps, s)
		p.stepsByID[s.ID()] = s
	}
	p.touch()
}

func (p *Project) touch() { p.updatedAt = time.Now() }

func (p *Project) String() string {
	return fmt.Sprintf("Project[%s, product=%s, runs=%d, steps=%d]",
		p.id[:8], p.productName, p.runs, len(p.steps))
}

package industry

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// PlanStep is the persistent unit of a production plan: one blueprint being
// run some number of times at some depth of the bill of materials.
//
// Invariants enforced here:
//   - depth-0 steps are the plan's own products and can never be purchased
//     or carry stock
//   - split siblings share a group id and their runs sum to the group total
//   - inStockQuantity never exceeds quantity
type PlanStep struct {
	id            string
	projectID     string
	blueprintID   int64
	blueprintName string
	productTypeID int64
	productName   string
	kind          shared.ActivityKind
	quantity      int64
	runs          int64
	depth         int
	sortOrder     int

	splitGroupID   string // empty when not part of a split group
	splitIndex     int
	totalGroupRuns int64

	meLevel  int
	teLevel  int
	facility *blueprint.FacilityProfile

	purchased       bool
	inStockQuantity int64

	jobMatches []*JobMatch
	purchases  []*Purchase
}

// NewPlanStep creates a step for a tree node or manual insertion.
func NewPlanStep(
	projectID string,
	blueprintID int64,
	blueprintName string,
	productTypeID int64,
	productName string,
	kind shared.ActivityKind,
	runs int64,
	quantity int64,
	depth int,
	sortOrder int,
	meLevel int,
	teLevel int,
	facility *blueprint.FacilityProfile,
) *PlanStep {
	return &PlanStep{
		id:            uuid.New().String(),
		projectID:     projectID,
		blueprintID:   blueprintID,
		blueprintName: blueprintName,
		productTypeID: productTypeID,
		productName:   productName,
		kind:          kind,
		runs:          runs,
		quantity:      quantity,
		depth:         depth,
		sortOrder:     sortOrder,
		meLevel:       meLevel,
		teLevel:       teLevel,
		facility:      facility,
		jobMatches:    make([]*JobMatch, 0),
		purchases:     make([]*Purchase, 0),
	}
}

// ReconstitutePlanStep rebuilds a step from persistence (repository use only).
func ReconstitutePlanStep(
	id string,
	projectID string,
	blueprintID int64,
	blueprintName string,
	productTypeID int64,
	productName string,
	kind shared.ActivityKind,
	runs int64,
	quantity int64,
	depth int,
	sortOrder int,
	splitGroupID string,
	splitIndex int,
	totalGroupRuns int64,
	meLevel int,
	teLevel int,
	facility *blueprint.FacilityProfile,
	purchased bool,
	inStockQuantity int64,
) *PlanStep {
	return &PlanStep{
		id:              id,
		projectID:       projectID,
		blueprintID:     blueprintID,
		blueprintName:   blueprintName,
		productTypeID:   productTypeID,
		productName:     productName,
		kind:            kind,
		runs:            runs,
		quantity:        quantity,
		depth:           depth,
		sortOrder:       sortOrder,
		splitGroupID:    splitGroupID,
		splitIndex:      splitIndex,
		totalGroupRuns:  totalGroupRuns,
		meLevel:         meLevel,
		teLevel:         teLevel,
		facility:        facility,
		purchased:       purchased,
		inStockQuantity: inStockQuantity,
		jobMatches:      make([]*JobMatch, 0),
		purchases:       make([]*Purchase, 0),
	}
}

// Getters

func (s *PlanStep) ID() string                { return s.id }
func (s *PlanStep) ProjectID() string         { return s.projectID }
func (s *PlanStep) BlueprintID() int64        { return s.blueprintID }
func (s *PlanStep) BlueprintName() string     { return s.blueprintName }
func (s *PlanStep) ProductTypeID() int64      { return s.productTypeID }
func (s *PlanStep) ProductName() string       { return s.productName }
func (s *PlanStep) Kind() shared.ActivityKind { return s.kind }
func (s *PlanStep) Quantity() int64           { return s.quantity }
func (s *PlanStep) Runs() int64               { return s.runs }
func (s *PlanStep) Depth() int                { return s.depth }
func (s *PlanStep) SortOrder() int            { return s.sortOrder }
func (s *PlanStep) SplitGroupID() string      { return s.splitGroupID }
func (s *PlanStep) SplitIndex() int           { return s.splitIndex }
func (s *PlanStep) TotalGroupRuns() int64     { return s.totalGroupRuns }
func (s *PlanStep) MELevel() int              { return s.meLevel }
func (s *PlanStep) TELevel() int              { return s.teLevel }
func (s *PlanStep) Purchased() bool           { return s.purchased }
func (s *PlanStep) InStockQuantity() int64    { return s.inStockQuantity }

// Facility returns the assumed production facility, possibly nil.
func (s *PlanStep) Facility() *blueprint.FacilityProfile { return s.facility }

// IsSplit reports whether the step belongs to a split group.
func (s *PlanStep) IsSplit() bool { return s.splitGroupID != "" }

// IsRoot reports whether the step is a depth-0 plan product.
func (s *PlanStep) IsRoot() bool { return s.depth == 0 }

// JobMatches returns a copy of the linked external jobs.
func (s *PlanStep) JobMatches() []*JobMatch {
	out := make([]*JobMatch, len(s.jobMatches))
	copy(out, s.jobMatches)
	return out
}

// Purchases returns a copy of the recorded purchases.
func (s *PlanStep) Purchases() []*Purchase {
	out := make([]*Purchase, len(s.purchases))
	copy(out, s.purchases)
	return out
}

// SetSortOrder is called by the step generator during flatten.
func (s *PlanStep) SetSortOrder(order int) { s.sortOrder = order }

// SetFacility swaps the assumed production facility. Used by the job matcher
// when an observed job disagrees with the plan.
func (s *PlanStep) SetFacility(profile *blueprint.FacilityProfile) { s.facility = profile }

// SetEfficiency updates ME/TE levels ahead of a recalculation.
func (s *PlanStep) SetEfficiency(meLevel, teLevel int) error {
	if meLevel < 0 || meLevel > 10 {
		return shared.NewInvalidArgumentError("meLevel", fmt.Sprintf("must be in [0,10], got %d", meLevel))
	}
	if teLevel < 0 || teLevel > 20 {
		return shared.NewInvalidArgumentError("teLevel", fmt.Sprintf("must be in [0,20], got %d", teLevel))
	}
	s.meLevel = meLevel
	s.teLevel = teLevel
	return nil
}

// MarkPurchased flags the step's output as bought instead of built.
// Depth-0 steps are the thing being built and can never be sourced.
func (s *PlanStep) MarkPurchased(purchased bool) error {
	if purchased && s.IsRoot() {
		return shared.NewInvalidArgumentError("purchased", "a root step cannot be marked as purchased")
	}
	s.purchased = purchased
	return nil
}

// SetInStock records owned stock of the step's product, clamped to
// [0, quantity].
func (s *PlanStep) SetInStock(quantity int64) error {
	if quantity > 0 && s.IsRoot() {
		return shared.NewInvalidArgumentError("inStockQuantity", "a root step cannot carry stock")
	}
	if quantity < 0 {
		quantity = 0
	}
	if quantity > s.quantity {
		quantity = s.quantity
	}
	s.inStockQuantity = quantity
	return nil
}

// RaiseInStock increases stock by delta, bounded by the remaining
// requirement, and returns the amount actually applied.
func (s *PlanStep) RaiseInStock(delta int64) int64 {
	if delta <= 0 || s.IsRoot() {
		return 0
	}
	room := s.quantity - s.inStockQuantity
	if room <= 0 {
		return 0
	}
	if delta > room {
		delta = room
	}
	s.inStockQuantity += delta
	return delta
}

// SetRuns adapts runs and quantity, e.g. when observed jobs override the
// plan. quantityPerRun is the blueprint's per-run output.
func (s *PlanStep) SetRuns(runs int64, quantityPerRun int64) error {
	if runs < 0 {
		return shared.NewInvalidArgumentError("runs", "must not be negative")
	}
	s.runs = runs
	s.quantity = runs * quantityPerRun
	if s.inStockQuantity > s.quantity {
		s.inStockQuantity = s.quantity
	}
	return nil
}

// AssignToSplitGroup places the step into a split group.
func (s *PlanStep) AssignToSplitGroup(groupID string, index int, totalRuns int64) {
	s.splitGroupID = groupID
	s.splitIndex = index
	s.totalGroupRuns = totalRuns
}

// ClearSplitGroup removes all split metadata (after merge).
func (s *PlanStep) ClearSplitGroup() {
	s.splitGroupID = ""
	s.splitIndex = 0
	s.totalGroupRuns = 0
}

// AddJobMatch links an external job to this step. Uniqueness of the external
// job id across the system is the repository's concern; within one step a
// duplicate id is rejected here.
func (s *PlanStep) AddJobMatch(match *JobMatch) error {
	for _, m := range s.jobMatches {
		if m.ExternalJobID() == match.ExternalJobID() {
			return shared.NewConflictError("job", fmt.Sprintf("%d", match.ExternalJobID()), "already linked to this step")
		}
	}
	s.jobMatches = append(s.jobMatches, match)
	return nil
}

// SetJobMatches replaces all matches (reconstruction and merge re-parenting).
func (s *PlanStep) SetJobMatches(matches []*JobMatch) { s.jobMatches = matches }

// MatchedRuns sums the runs of all linked jobs.
func (s *PlanStep) MatchedRuns() int64 {
	var total int64
	for _, m := range s.jobMatches {
		total += m.Runs()
	}
	return total
}

// JobsCost sums the installation cost of all linked jobs.
func (s *PlanStep) JobsCost() float64 {
	var total float64
	for _, m := range s.jobMatches {
		total += m.Cost()
	}
	return total
}

// AddPurchase records a purchase against this step.
func (s *PlanStep) AddPurchase(p *Purchase) { s.purchases = append(s.purchases, p) }

// SetPurchases replaces all purchases (reconstruction and merge re-parenting).
func (s *PlanStep) SetPurchases(purchases []*Purchase) { s.purchases = purchases }

// PurchasedQuantity sums purchase quantities for the step's product type.
func (s *PlanStep) PurchasedQuantity() int64 {
	var total int64
	for _, p := range s.purchases {
		if p.TypeID() == s.productTypeID {
			total += p.Quantity()
		}
	}
	return total
}

// PurchaseCost sums the total price of all recorded purchases.
func (s *PlanStep) PurchaseCost() float64 {
	var total float64
	for _, p := range s.purchases {
		total += p.TotalPrice()
	}
	return total
}

// EarliestJobStart returns the oldest matched job start, nil when no dated
// job is linked.
func (s *PlanStep) EarliestJobStart() *time.Time {
	var earliest *time.Time
	for _, m := range s.jobMatches {
		if start := m.StartDate(); start != nil {
			if earliest == nil || start.Before(*earliest) {
				earliest = start
			}
		}
	}
	return earliest
}

// String provides a human-readable representation for logs.
func (s *PlanStep) String() string {
	return fmt.Sprintf("Step[%s, product=%s, runs=%d, qty=%d, depth=%d]",
		s.id[:8], s.productName, s.runs, s.quantity, s.depth)
}

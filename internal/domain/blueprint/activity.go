package blueprint

import (
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// MaterialQuantity is one input line of a blueprint activity.
type MaterialQuantity struct {
	TypeID   int64
	TypeName string
	Quantity int64
}

// ProductQuantity is one output line of a blueprint activity. Probability is
// non-nil for invention-style outputs; the planner treats nil as certain.
type ProductQuantity struct {
	TypeID      int64
	TypeName    string
	Quantity    int64
	Probability *float64
}

// Activity is an immutable static-data fact: what one run of a blueprint's
// activity consumes and produces, before any efficiency is applied.
type Activity struct {
	BlueprintID     int64
	BlueprintName   string
	Kind            shared.ActivityKind
	BaseTimeSeconds int64
	Materials       []MaterialQuantity
	Products        []ProductQuantity
}

// ProductQuantityPerRun returns the per-run output quantity of the given
// product type, or 0 if the activity does not produce it.
func (a *Activity) ProductQuantityPerRun(typeID int64) int64 {
	for _, p := range a.Products {
		if p.TypeID == typeID {
			return p.Quantity
		}
	}
	return 0
}

// Catalog is the read-only static-data lookup the planner depends on.
// Implementations are expected to serve from an already-imported local copy
// of the game's static data export, never from the network.
type Catalog interface {
	// FindActivityProducing returns the activity that produces the given
	// type, preferring manufacturing and falling back to reaction.
	// Returns nil when no activity produces the type.
	FindActivityProducing(productTypeID int64) (*Activity, error)

	// FindActivityProducingKind is the kind-constrained variant.
	FindActivityProducingKind(productTypeID int64, kind shared.ActivityKind) (*Activity, error)

	// TypeName resolves a type id to its display name; empty when unknown.
	TypeName(typeID int64) string

	// TypeCategory returns the item category used for rig matching.
	TypeCategory(typeID int64) string

	// TypeVolume returns the packaged volume of one unit, in cubic meters.
	TypeVolume(typeID int64) float64
}

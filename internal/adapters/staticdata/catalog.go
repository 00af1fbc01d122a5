package staticdata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// typeRecord is one row of the exported type table.
type typeRecord struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Volume   float64 `json:"volume"`
}

// activityRecord is one blueprint activity in the export.
type activityRecord struct {
	Kind        string `json:"kind"`
	TimeSeconds int64  `json:"timeSeconds"`
	Materials   []struct {
		TypeID   int64 `json:"typeId"`
		Quantity int64 `json:"quantity"`
	} `json:"materials"`
	Products []struct {
		TypeID      int64    `json:"typeId"`
		Quantity    int64    `json:"quantity"`
		Probability *float64 `json:"probability,omitempty"`
	} `json:"products"`
}

// blueprintRecord is one blueprint with its activities.
type blueprintRecord struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	Activities []activityRecord `json:"activities"`
}

// exportFile is the root of the static data export.
type exportFile struct {
	Types      []typeRecord      `json:"types"`
	Blueprints []blueprintRecord `json:"blueprints"`
}

// FileCatalog serves blueprint and type lookups from an imported static data
// export held entirely in memory.
type FileCatalog struct {
	types     map[int64]typeRecord
	byProduct map[int64][]*blueprint.Activity
}

// LoadCatalog reads the export file and builds the in-memory indexes.
func LoadCatalog(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read static data export: %w", err)
	}

	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse static data export: %w", err)
	}

	catalog := &FileCatalog{
		types:     make(map[int64]typeRecord, len(export.Types)),
		byProduct: make(map[int64][]*blueprint.Activity),
	}
	for _, t := range export.Types {
		catalog.types[t.ID] = t
	}

	for _, bp := range export.Blueprints {
		for _, ar := range bp.Activities {
			kind, err := shared.ParseActivityKind(ar.Kind)
			if err != nil {
				return nil, fmt.Errorf("blueprint %d: %w", bp.ID, err)
			}

			activity := &blueprint.Activity{
				BlueprintID:     bp.ID,
				BlueprintName:   bp.Name,
				Kind:            kind,
				BaseTimeSeconds: ar.TimeSeconds,
			}
			for _, m := range ar.Materials {
				activity.Materials = append(activity.Materials, blueprint.MaterialQuantity{
					TypeID:   m.TypeID,
					TypeName: catalog.TypeName(m.TypeID),
					Quantity: m.Quantity,
				})
			}
			for _, p := range ar.Products {
				activity.Products = append(activity.Products, blueprint.ProductQuantity{
					TypeID:      p.TypeID,
					TypeName:    catalog.TypeName(p.TypeID),
					Quantity:    p.Quantity,
					Probability: p.Probability,
				})
				catalog.byProduct[p.TypeID] = append(catalog.byProduct[p.TypeID], activity)
			}
		}
	}

	return catalog, nil
}

// TypeInfo is the fact sheet of one item type.
type TypeInfo struct {
	Name     string
	Category string
	Volume   float64
}

// NewCatalog builds a catalog directly from activities and type facts.
// Used by fixtures; production code goes through LoadCatalog.
func NewCatalog(activities []*blueprint.Activity, types map[int64]TypeInfo) *FileCatalog {
	catalog := &FileCatalog{
		types:     make(map[int64]typeRecord, len(types)),
		byProduct: make(map[int64][]*blueprint.Activity),
	}
	for id, t := range types {
		catalog.types[id] = typeRecord{ID: id, Name: t.Name, Category: t.Category, Volume: t.Volume}
	}
	for _, activity := range activities {
		for _, p := range activity.Products {
			catalog.byProduct[p.TypeID] = append(catalog.byProduct[p.TypeID], activity)
		}
	}
	return catalog
}

// FindActivityProducing returns the activity producing the type, preferring
// manufacturing over reaction over copying. Returns nil when nothing
// produces it.
func (c *FileCatalog) FindActivityProducing(productTypeID int64) (*blueprint.Activity, error) {
	candidates := c.byProduct[productTypeID]
	if len(candidates) == 0 {
		return nil, nil
	}
	for _, kind := range []shared.ActivityKind{shared.ActivityManufacturing, shared.ActivityReaction, shared.ActivityCopying} {
		for _, activity := range candidates {
			if activity.Kind == kind {
				return activity, nil
			}
		}
	}
	return candidates[0], nil
}

// FindActivityProducingKind is the kind-constrained variant.
func (c *FileCatalog) FindActivityProducingKind(productTypeID int64, kind shared.ActivityKind) (*blueprint.Activity, error) {
	for _, activity := range c.byProduct[productTypeID] {
		if activity.Kind == kind {
			return activity, nil
		}
	}
	return nil, nil
}

// TypeName resolves a type id to its display name; empty when unknown.
func (c *FileCatalog) TypeName(typeID int64) string {
	return c.types[typeID].Name
}

// TypeCategory returns the item category used for rig matching.
func (c *FileCatalog) TypeCategory(typeID int64) string {
	return c.types[typeID].Category
}

// TypeVolume returns the packaged volume of one unit, in cubic meters.
func (c *FileCatalog) TypeVolume(typeID int64) float64 {
	return c.types[typeID].Volume
}

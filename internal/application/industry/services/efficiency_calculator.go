package services

import (
	"math"

	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// Policy caps on stacked facility bonuses. Rig contributions are additive
// across matching categories but never beyond these fractions.
const (
	MaxFacilityMaterialBonus = 0.10
	MaxFacilityTimeBonus     = 0.40
)

// EffectiveRun is the result of applying ME/TE and facility bonuses to one
// run of a blueprint activity.
type EffectiveRun struct {
	Materials   []blueprint.MaterialQuantity
	TimeSeconds int64
	Bonuses     blueprint.Bonuses
}

// EfficiencyCalculator computes effective per-run material quantities and
// job time for a blueprint activity under a given ME/TE level and facility.
type EfficiencyCalculator struct {
	resolver blueprint.BonusResolver
}

// NewEfficiencyCalculator creates a calculator backed by the given resolver.
func NewEfficiencyCalculator(resolver blueprint.BonusResolver) *EfficiencyCalculator {
	return &EfficiencyCalculator{resolver: resolver}
}

// EffectiveRun applies ME, TE and facility bonuses to the activity.
//
// Material rule: base * (1 - me*0.01) * (1 - facilityMaterialBonus), rounded
// half up, never below 1 when the base quantity is positive.
// Time rule: base * (1 - te*0.02) * (1 - facilityTimeBonus), floored at 1s.
func (c *EfficiencyCalculator) EffectiveRun(
	activity *blueprint.Activity,
	meLevel int,
	teLevel int,
	facility *blueprint.FacilityProfile,
	itemCategory string,
) (EffectiveRun, error) {
	bonuses, err := c.facilityBonuses(activity.Kind, facility, itemCategory)
	if err != nil {
		return EffectiveRun{}, err
	}

	result := EffectiveRun{Bonuses: bonuses}

	switch activity.Kind {
	case shared.ActivityManufacturing, shared.ActivityReaction:
		result.Materials = make([]blueprint.MaterialQuantity, 0, len(activity.Materials))
		for _, mat := range activity.Materials {
			result.Materials = append(result.Materials, blueprint.MaterialQuantity{
				TypeID:   mat.TypeID,
				TypeName: mat.TypeName,
				Quantity: effectiveMaterialQuantity(mat.Quantity, meLevel, bonuses.Material),
			})
		}
	case shared.ActivityCopying:
		// Copying consumes no materials.
		result.Materials = nil
	}

	result.TimeSeconds = effectiveTimeSeconds(activity.BaseTimeSeconds, teLevel, bonuses.Time)
	return result, nil
}

// facilityBonuses resolves and caps the stacked facility bonuses for the
// activity kind. Copying ignores material bonuses entirely.
func (c *EfficiencyCalculator) facilityBonuses(
	kind shared.ActivityKind,
	facility *blueprint.FacilityProfile,
	itemCategory string,
) (blueprint.Bonuses, error) {
	if facility == nil {
		return blueprint.Bonuses{}, nil
	}

	bonuses, err := c.resolver.ResolveBonuses(facility, kind, itemCategory)
	if err != nil {
		return blueprint.Bonuses{}, err
	}

	switch kind {
	case shared.ActivityManufacturing, shared.ActivityReaction:
		// keep both bonuses
	case shared.ActivityCopying:
		bonuses.Material = 0
	}

	if bonuses.Material > MaxFacilityMaterialBonus {
		bonuses.Material = MaxFacilityMaterialBonus
	}
	if bonuses.Time > MaxFacilityTimeBonus {
		bonuses.Time = MaxFacilityTimeBonus
	}
	return bonuses, nil
}

// effectiveMaterialQuantity applies the material multipliers to one base
// quantity. A positive requirement never rounds down to zero.
func effectiveMaterialQuantity(base int64, meLevel int, facilityBonus float64) int64 {
	if base <= 0 {
		return 0
	}
	reduced := float64(base) * (1 - float64(meLevel)*0.01) * (1 - facilityBonus)
	rounded := int64(math.Floor(reduced + 0.5))
	if rounded < 1 {
		rounded = 1
	}
	return rounded
}

// effectiveTimeSeconds applies the time multipliers, floored at one second.
func effectiveTimeSeconds(base int64, teLevel int, facilityBonus float64) int64 {
	reduced := float64(base) * (1 - float64(teLevel)*0.02) * (1 - facilityBonus)
	seconds := int64(math.Floor(reduced + 0.5))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

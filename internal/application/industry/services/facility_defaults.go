package services

import (
	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// FacilityDefaults holds the facilities a project assumes until an observed
// job corrects them: one for manufacturing (and copying, which shares the
// industry structure) and one for reactions, which run in refineries.
type FacilityDefaults struct {
	Manufacturing *blueprint.FacilityProfile
	Reaction      *blueprint.FacilityProfile
}

// Assigner returns the FacilityAssigner the tree builder and step generator
// consume.
func (d FacilityDefaults) Assigner() FacilityAssigner {
	return func(kind shared.ActivityKind, _ int64) *blueprint.FacilityProfile {
		switch kind {
		case shared.ActivityManufacturing, shared.ActivityCopying:
			return d.Manufacturing
		case shared.ActivityReaction:
			return d.Reaction
		default:
			return nil
		}
	}
}

package staticdata

import (
	"strings"
	"sync"

	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// Structure role bonuses (material fraction, time fraction) per structure
// kind. Stations grant nothing.
var structureRoleBonuses = map[blueprint.StructureKind]blueprint.Bonuses{
	blueprint.StructureRaitaru: {Material: 0.01, Time: 0.15},
	blueprint.StructureAzbel:   {Material: 0.01, Time: 0.20},
	blueprint.StructureSotiyo:  {Material: 0.01, Time: 0.30},
	blueprint.StructureAthanor: {Material: 0, Time: 0},
	blueprint.StructureTatara:  {Material: 0, Time: 0.25},
	blueprint.StructureStation: {Material: 0, Time: 0},
}

// Rig effect multipliers per security class. Rigs are tuned for lawless
// space; high-sec gets the base effect only.
var securityRigMultipliers = map[blueprint.SecurityClass]float64{
	blueprint.SecurityHigh: 1.0,
	blueprint.SecurityLow:  1.9,
	blueprint.SecurityNull: 2.1,
}

// StaticBonusResolver resolves facility bonuses from fixed structure and rig
// tables, and looks up known facility profiles by id.
type StaticBonusResolver struct {
	mu       sync.RWMutex
	profiles map[int64]*blueprint.FacilityProfile
}

// NewStaticBonusResolver creates a resolver seeded with known profiles.
func NewStaticBonusResolver(profiles []*blueprint.FacilityProfile) *StaticBonusResolver {
	byID := make(map[int64]*blueprint.FacilityProfile, len(profiles))
	for _, p := range profiles {
		if p != nil && p.FacilityID != 0 {
			byID[p.FacilityID] = p
		}
	}
	return &StaticBonusResolver{profiles: byID}
}

// RegisterProfile adds or replaces a known facility profile.
func (r *StaticBonusResolver) RegisterProfile(profile *blueprint.FacilityProfile) {
	if profile == nil || profile.FacilityID == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.FacilityID] = profile
}

// ResolveBonuses computes the stacked material/time bonuses the facility
// grants for the activity kind and item category. Rig bonuses apply only
// when the rig's category matches the produced item's category.
func (r *StaticBonusResolver) ResolveBonuses(profile *blueprint.FacilityProfile, kind shared.ActivityKind, itemCategory string) (blueprint.Bonuses, error) {
	if profile == nil {
		return blueprint.Bonuses{}, nil
	}

	bonuses := structureRoleBonuses[profile.Structure]

	// Reactions gain no structure material bonus; the role bonus tables
	// above only model engineering complexes for that axis.
	if kind == shared.ActivityReaction && profile.Structure != blueprint.StructureTatara && profile.Structure != blueprint.StructureAthanor {
		bonuses = blueprint.Bonuses{}
	}

	multiplier := securityRigMultipliers[profile.Security]
	if multiplier == 0 {
		multiplier = 1.0
	}

	for _, rig := range profile.Rigs {
		if !categoryMatches(rig.ItemCategory, itemCategory) {
			continue
		}
		bonuses.Material += rig.MaterialPercent / 100 * multiplier
		bonuses.Time += rig.TimePercent / 100 * multiplier
	}

	return bonuses, nil
}

// FindProfile resolves a facility id observed on an external job. Returns
// nil when the facility is unknown.
func (r *StaticBonusResolver) FindProfile(facilityID int64) (*blueprint.FacilityProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profiles[facilityID], nil
}

// categoryMatches reports whether a rig scoped to rigCategory affects items
// of itemCategory. An unscoped rig affects everything.
func categoryMatches(rigCategory, itemCategory string) bool {
	if rigCategory == "" {
		return true
	}
	return strings.EqualFold(rigCategory, itemCategory)
}

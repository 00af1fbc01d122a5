package blueprint

import (
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// SecurityClass of the solar system a facility sits in. Rig bonuses scale
// with it.
type SecurityClass string

const (
	SecurityHigh SecurityClass = "HIGH"
	SecurityLow  SecurityClass = "LOW"
	SecurityNull SecurityClass = "NULL"
)

// StructureKind of the production facility.
type StructureKind string

const (
	StructureStation StructureKind = "STATION"
	StructureRaitaru StructureKind = "RAITARU"
	StructureAzbel   StructureKind = "AZBEL"
	StructureSotiyo  StructureKind = "SOTIYO"
	StructureAthanor StructureKind = "ATHANOR"
	StructureTatara  StructureKind = "TATARA"
)

// RigBonus is one installed rig's contribution, already resolved to the
// material/time percentages it grants for a given item category.
type RigBonus struct {
	Name            string
	ItemCategory    string
	MaterialPercent float64 // e.g. 2.0 for a 2% material reduction
	TimePercent     float64
}

// FacilityProfile describes where a step is (assumed to be) built.
type FacilityProfile struct {
	FacilityID int64
	Name       string
	Security   SecurityClass
	Structure  StructureKind
	Rigs       []RigBonus
}

// Bonuses are the resolved material/time reductions for one activity at one
// facility, as fractions (0.02 = 2%).
type Bonuses struct {
	Material float64
	Time     float64
}

// BonusResolver turns a facility profile into effective bonuses for an
// activity kind and item category. Implementations own the rig tables and
// the structure role bonuses.
type BonusResolver interface {
	ResolveBonuses(profile *FacilityProfile, kind shared.ActivityKind, itemCategory string) (Bonuses, error)

	// FindProfile resolves a facility id observed on an external job to a
	// full profile. Returns nil when the facility is unknown.
	FindProfile(facilityID int64) (*FacilityProfile, error)
}

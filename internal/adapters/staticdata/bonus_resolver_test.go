package staticdata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/eveindustry-go/internal/adapters/staticdata"
	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

func TestStaticBonusResolver_StructureRoleBonuses(t *testing.T) {
	// Arrange
	resolver := staticdata.NewStaticBonusResolver(nil)
	raitaru := &blueprint.FacilityProfile{
		FacilityID: 1,
		Name:       "Raitaru",
		Security:   blueprint.SecurityHigh,
		Structure:  blueprint.StructureRaitaru,
	}

	// Act
	bonuses, err := resolver.ResolveBonuses(raitaru, shared.ActivityManufacturing, "Ship")

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 0.01, bonuses.Material, 0.0001)
	assert.InDelta(t, 0.15, bonuses.Time, 0.0001)
}

func TestStaticBonusResolver_NilProfileGrantsNothing(t *testing.T) {
	resolver := staticdata.NewStaticBonusResolver(nil)

	bonuses, err := resolver.ResolveBonuses(nil, shared.ActivityManufacturing, "")

	require.NoError(t, err)
	assert.Zero(t, bonuses.Material)
	assert.Zero(t, bonuses.Time)
}

func TestStaticBonusResolver_RigsScaleWithSecurity(t *testing.T) {
	// Arrange - a 2% rig in null-sec is worth 2% * 2.1
	resolver := staticdata.NewStaticBonusResolver(nil)
	profile := &blueprint.FacilityProfile{
		FacilityID: 1,
		Name:       "Azbel",
		Security:   blueprint.SecurityNull,
		Structure:  blueprint.StructureAzbel,
		Rigs: []blueprint.RigBonus{
			{Name: "Standup L-Set Ship Manufacturing Efficiency I", ItemCategory: "Ship", MaterialPercent: 2.0},
		},
	}

	// Act
	bonuses, err := resolver.ResolveBonuses(profile, shared.ActivityManufacturing, "Ship")

	// Assert - 0.01 structure + 0.02 * 2.1 rig
	require.NoError(t, err)
	assert.InDelta(t, 0.052, bonuses.Material, 0.0001)
}

func TestStaticBonusResolver_RigCategoryScoping(t *testing.T) {
	// Arrange
	resolver := staticdata.NewStaticBonusResolver(nil)
	profile := &blueprint.FacilityProfile{
		FacilityID: 1,
		Name:       "Raitaru",
		Security:   blueprint.SecurityHigh,
		Structure:  blueprint.StructureRaitaru,
		Rigs: []blueprint.RigBonus{
			{Name: "Standup M-Set Ship Manufacturing Efficiency I", ItemCategory: "Ship", MaterialPercent: 2.0},
		},
	}

	// Act - the produced item is not a ship
	bonuses, err := resolver.ResolveBonuses(profile, shared.ActivityManufacturing, "Commodity")

	// Assert - only the structure role bonus remains
	require.NoError(t, err)
	assert.InDelta(t, 0.01, bonuses.Material, 0.0001)

	// An unscoped rig affects every category
	profile.Rigs[0].ItemCategory = ""
	bonuses, err = resolver.ResolveBonuses(profile, shared.ActivityManufacturing, "Commodity")
	require.NoError(t, err)
	assert.InDelta(t, 0.03, bonuses.Material, 0.0001)
}

func TestStaticBonusResolver_ReactionsOnlyBenefitFromRefineries(t *testing.T) {
	// Arrange
	resolver := staticdata.NewStaticBonusResolver(nil)
	raitaru := &blueprint.FacilityProfile{
		FacilityID: 1,
		Name:       "Raitaru",
		Security:   blueprint.SecurityLow,
		Structure:  blueprint.StructureRaitaru,
	}
	tatara := &blueprint.FacilityProfile{
		FacilityID: 2,
		Name:       "Tatara",
		Security:   blueprint.SecurityLow,
		Structure:  blueprint.StructureTatara,
	}

	// Act
	fromRaitaru, err := resolver.ResolveBonuses(raitaru, shared.ActivityReaction, "Composite")
	require.NoError(t, err)
	fromTatara, err := resolver.ResolveBonuses(tatara, shared.ActivityReaction, "Composite")
	require.NoError(t, err)

	// Assert - an engineering complex grants reactions nothing
	assert.Zero(t, fromRaitaru.Material)
	assert.Zero(t, fromRaitaru.Time)
	assert.InDelta(t, 0.25, fromTatara.Time, 0.0001)
}

func TestStaticBonusResolver_FindProfile(t *testing.T) {
	// Arrange
	known := &blueprint.FacilityProfile{FacilityID: 60001001, Name: "Test Raitaru", Structure: blueprint.StructureRaitaru}
	resolver := staticdata.NewStaticBonusResolver([]*blueprint.FacilityProfile{known})

	// Act / Assert
	found, err := resolver.FindProfile(60001001)
	require.NoError(t, err)
	assert.Equal(t, known, found)

	missing, err := resolver.FindProfile(42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Registration after construction
	late := &blueprint.FacilityProfile{FacilityID: 42, Name: "Late Azbel", Structure: blueprint.StructureAzbel}
	resolver.RegisterProfile(late)
	found, err = resolver.FindProfile(42)
	require.NoError(t, err)
	assert.Equal(t, late, found)
}

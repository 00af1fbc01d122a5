package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/eveindustry-go/internal/adapters/staticdata"
	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

func newCalculator() *services.EfficiencyCalculator {
	return services.NewEfficiencyCalculator(staticdata.NewStaticBonusResolver(nil))
}

func manufacturingActivity(baseQuantity, baseTime int64) *blueprint.Activity {
	return &blueprint.Activity{
		BlueprintID:     689,
		BlueprintName:   "Rifter Blueprint",
		Kind:            shared.ActivityManufacturing,
		BaseTimeSeconds: baseTime,
		Materials: []blueprint.MaterialQuantity{
			{TypeID: 34, TypeName: "Tritanium", Quantity: baseQuantity},
		},
		Products: []blueprint.ProductQuantity{
			{TypeID: 587, TypeName: "Rifter", Quantity: 1},
		},
	}
}

func TestEfficiencyCalculator_MaterialEfficiencyReducesQuantity(t *testing.T) {
	// Arrange
	calc := newCalculator()
	activity := manufacturingActivity(100, 3600)

	// Act - ME10 without a facility
	run, err := calc.EffectiveRun(activity, 10, 0, nil, "Ship")

	// Assert - 100 * 0.90 = 90
	require.NoError(t, err)
	require.Len(t, run.Materials, 1)
	assert.Equal(t, int64(90), run.Materials[0].Quantity)
}

func TestEfficiencyCalculator_MaterialRoundsHalfUp(t *testing.T) {
	calc := newCalculator()

	cases := []struct {
		base     int64
		meLevel  int
		expected int64
	}{
		{149, 3, 145},  // 144.53 -> 145
		{50, 5, 48},    // 47.5 -> 48
		{100, 3, 97},   // 97.0 -> 97
		{333, 10, 300}, // 299.7 -> 300
		{10, 1, 10},    // 9.9 -> 10
		{10, 7, 9},     // 9.3 -> 9
	}

	for _, tc := range cases {
		run, err := calc.EffectiveRun(manufacturingActivity(tc.base, 60), tc.meLevel, 0, nil, "")
		require.NoError(t, err)
		assert.Equal(t, tc.expected, run.Materials[0].Quantity, "base %d at ME%d", tc.base, tc.meLevel)
	}
}

func TestEfficiencyCalculator_MaterialNeverDropsBelowOne(t *testing.T) {
	// Arrange - a single-unit input at maximum reduction
	calc := newCalculator()
	activity := manufacturingActivity(1, 60)

	// Act
	run, err := calc.EffectiveRun(activity, 10, 0, nil, "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), run.Materials[0].Quantity)
}

func TestEfficiencyCalculator_TimeEfficiencyReducesDuration(t *testing.T) {
	calc := newCalculator()

	// TE20 alone: 3600 * 0.60 = 2160
	run, err := calc.EffectiveRun(manufacturingActivity(100, 3600), 0, 20, nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2160), run.TimeSeconds)

	// TE20 plus a Raitaru's 15% role bonus: 3600 * 0.60 * 0.85 = 1836
	raitaru := &blueprint.FacilityProfile{
		FacilityID: 60001001,
		Name:       "Test Raitaru",
		Security:   blueprint.SecurityHigh,
		Structure:  blueprint.StructureRaitaru,
	}
	run, err = calc.EffectiveRun(manufacturingActivity(100, 3600), 0, 20, raitaru, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1836), run.TimeSeconds)
}

func TestEfficiencyCalculator_TimeFlooredAtOneSecond(t *testing.T) {
	calc := newCalculator()

	run, err := calc.EffectiveRun(manufacturingActivity(1, 1), 0, 20, nil, "")

	require.NoError(t, err)
	assert.Equal(t, int64(1), run.TimeSeconds)
}

func TestEfficiencyCalculator_CopyingConsumesNoMaterials(t *testing.T) {
	// Arrange
	calc := newCalculator()
	activity := &blueprint.Activity{
		BlueprintID:     689,
		BlueprintName:   "Rifter Blueprint",
		Kind:            shared.ActivityCopying,
		BaseTimeSeconds: 4800,
		Materials: []blueprint.MaterialQuantity{
			{TypeID: 34, TypeName: "Tritanium", Quantity: 100},
		},
	}

	// Act
	run, err := calc.EffectiveRun(activity, 10, 10, nil, "")

	// Assert - the declared materials are ignored, time still applies
	require.NoError(t, err)
	assert.Nil(t, run.Materials)
	assert.Equal(t, int64(3840), run.TimeSeconds)
}

func TestEfficiencyCalculator_FacilityBonusesAreCapped(t *testing.T) {
	// Arrange - a null-sec Sotiyo with an aggressive rig stacks past the caps:
	// material 0.01 + 5%*2.1 = 0.115, time 0.30 + 24%*2.1 = 0.804
	calc := newCalculator()
	sotiyo := &blueprint.FacilityProfile{
		FacilityID: 60001005,
		Name:       "Test Sotiyo",
		Security:   blueprint.SecurityNull,
		Structure:  blueprint.StructureSotiyo,
		Rigs: []blueprint.RigBonus{
			{Name: "Standup XL-Set Ship Manufacturing Efficiency II", MaterialPercent: 5.0, TimePercent: 24.0},
		},
	}

	// Act
	run, err := calc.EffectiveRun(manufacturingActivity(100, 3600), 0, 0, sotiyo, "Ship")

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, services.MaxFacilityMaterialBonus, run.Bonuses.Material, 0.0001)
	assert.InDelta(t, services.MaxFacilityTimeBonus, run.Bonuses.Time, 0.0001)
	assert.Equal(t, int64(90), run.Materials[0].Quantity)
	assert.Equal(t, int64(2160), run.TimeSeconds)
}

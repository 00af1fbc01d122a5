package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/eveindustry-go/test/helpers"
)

func TestRecalculator_AdaptsDescendantRuns(t *testing.T) {
	// Arrange - 2 Rifters at ME0 need 20 blocks, 10 runs of 2
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	result := fixture.PlanRifters(t, 2)
	project := result.Project
	root := project.Steps()[0]
	blocks := project.Steps()[1]
	require.Equal(t, int64(10), blocks.Runs())

	// Act - ME10 on the root cuts the block requirement to 18
	require.NoError(t, root.SetEfficiency(10, 0))
	warnings, err := fixture.Recalculator.RequantifyFrom(context.Background(), project, root)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, int64(9), blocks.Runs())
	assert.Equal(t, int64(18), blocks.Quantity())

	// Re-running with the same inputs changes nothing
	_, err = fixture.Recalculator.RequantifyFrom(context.Background(), project, root)
	require.NoError(t, err)
	assert.Equal(t, int64(9), blocks.Runs())
}

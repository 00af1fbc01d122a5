package industry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

func newTestStep(depth int, runs, quantity int64) *industry.PlanStep {
	return industry.NewPlanStep(
		"project-1",
		689,
		"Rifter Blueprint",
		587,
		"Rifter",
		shared.ActivityManufacturing,
		runs,
		quantity,
		depth,
		0,
		10,
		20,
		nil,
	)
}

func newTestMatch(externalJobID, runs int64, cost float64, start *time.Time) *industry.JobMatch {
	return industry.NewJobMatch(
		"match-1",
		externalJobID,
		689,
		runs,
		cost,
		industry.JobStatusActive,
		start,
		nil,
		nil,
		"Test Pilot",
	)
}

func TestPlanStep_RootCannotBePurchased(t *testing.T) {
	// Arrange
	root := newTestStep(0, 5, 5)

	// Act
	err := root.MarkPurchased(true)

	// Assert
	assert.Error(t, err)
	assert.False(t, root.Purchased())

	// Unmarking is always allowed
	require.NoError(t, root.MarkPurchased(false))
}

func TestPlanStep_RootCannotCarryStock(t *testing.T) {
	// Arrange
	root := newTestStep(0, 5, 5)

	// Act
	err := root.SetInStock(3)

	// Assert
	assert.Error(t, err)
	assert.Zero(t, root.InStockQuantity())

	// Setting zero stock on a root is a no-op, not an error
	assert.NoError(t, root.SetInStock(0))
}

func TestPlanStep_SetInStockClamps(t *testing.T) {
	// Arrange
	step := newTestStep(1, 5, 10)

	// Act - above the requirement
	require.NoError(t, step.SetInStock(25))

	// Assert
	assert.Equal(t, int64(10), step.InStockQuantity())

	// Act - negative
	require.NoError(t, step.SetInStock(-3))

	// Assert
	assert.Zero(t, step.InStockQuantity())
}

func TestPlanStep_RaiseInStockBoundedByRequirement(t *testing.T) {
	// Arrange
	step := newTestStep(1, 5, 10)
	require.NoError(t, step.SetInStock(8))

	// Act
	applied := step.RaiseInStock(5)

	// Assert - only the remaining room is absorbed
	assert.Equal(t, int64(2), applied)
	assert.Equal(t, int64(10), step.InStockQuantity())

	// A full step absorbs nothing
	assert.Zero(t, step.RaiseInStock(5))

	// A root step absorbs nothing either
	root := newTestStep(0, 5, 5)
	assert.Zero(t, root.RaiseInStock(5))
}

func TestPlanStep_AddJobMatch_RejectsDuplicateExternalID(t *testing.T) {
	// Arrange
	step := newTestStep(1, 5, 10)
	require.NoError(t, step.AddJobMatch(newTestMatch(9001, 3, 1000, nil)))

	// Act
	err := step.AddJobMatch(newTestMatch(9001, 2, 500, nil))

	// Assert
	assert.Error(t, err)
	assert.Len(t, step.JobMatches(), 1)
}

func TestPlanStep_MatchedRunsAndJobsCost(t *testing.T) {
	// Arrange
	step := newTestStep(1, 10, 20)
	require.NoError(t, step.AddJobMatch(newTestMatch(9001, 3, 1500, nil)))
	require.NoError(t, step.AddJobMatch(newTestMatch(9002, 4, 2000, nil)))

	// Assert
	assert.Equal(t, int64(7), step.MatchedRuns())
	assert.InDelta(t, 3500.0, step.JobsCost(), 0.001)
}

func TestPlanStep_SetRunsClampsStock(t *testing.T) {
	// Arrange
	step := newTestStep(1, 5, 10)
	require.NoError(t, step.SetInStock(10))

	// Act - shrink to 3 runs at 2 per run
	require.NoError(t, step.SetRuns(3, 2))

	// Assert
	assert.Equal(t, int64(3), step.Runs())
	assert.Equal(t, int64(6), step.Quantity())
	assert.Equal(t, int64(6), step.InStockQuantity())

	// Negative runs are rejected
	assert.Error(t, step.SetRuns(-1, 2))
}

func TestPlanStep_EarliestJobStart(t *testing.T) {
	// Arrange
	earlier := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	step := newTestStep(1, 10, 20)

	// No dated jobs yet
	assert.Nil(t, step.EarliestJobStart())

	require.NoError(t, step.AddJobMatch(newTestMatch(9001, 3, 0, &later)))
	require.NoError(t, step.AddJobMatch(newTestMatch(9002, 4, 0, &earlier)))

	// Act
	start := step.EarliestJobStart()

	// Assert
	require.NotNil(t, start)
	assert.True(t, start.Equal(earlier))
}

func TestPlanStep_SetEfficiencyValidation(t *testing.T) {
	step := newTestStep(1, 5, 10)

	assert.Error(t, step.SetEfficiency(11, 0))
	assert.Error(t, step.SetEfficiency(0, 21))
	assert.Error(t, step.SetEfficiency(-1, 0))

	require.NoError(t, step.SetEfficiency(7, 14))
	assert.Equal(t, 7, step.MELevel())
	assert.Equal(t, 14, step.TELevel())
}

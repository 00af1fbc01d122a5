package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/test/helpers"
)

func TestStepGenerator_FlattenEmitsBuildableNodesInPreOrder(t *testing.T) {
	// Arrange
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())

	// Act
	result := fixture.PlanRifters(t, 1)

	// Assert - two buildable nodes, raw leaves are not steps
	steps := result.Project.Steps()
	require.Len(t, steps, 2)

	root := steps[0]
	assert.Equal(t, helpers.RifterTypeID, root.ProductTypeID())
	assert.Equal(t, 0, root.Depth())
	assert.Equal(t, 0, root.SortOrder())
	assert.Equal(t, int64(1), root.Runs())

	blocks := steps[1]
	assert.Equal(t, helpers.BlocksTypeID, blocks.ProductTypeID())
	assert.Equal(t, 1, blocks.Depth())
	assert.Equal(t, 1, blocks.SortOrder())
	assert.Equal(t, int64(5), blocks.Runs())
	assert.Equal(t, int64(10), blocks.Quantity())
}

func TestStepGenerator_SplitFrontLoadsRemainder(t *testing.T) {
	// Arrange - 7 runs of the root product
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	result := fixture.PlanRifters(t, 7)
	project := result.Project
	root := project.Steps()[0]
	require.Equal(t, int64(7), root.Runs())

	// Act
	group, err := fixture.Generator.Split(context.Background(), project, root.ID(), 3)

	// Assert - [3,2,2] with the original step leading the group
	require.NoError(t, err)
	require.Len(t, group, 3)
	assert.Equal(t, root.ID(), group[0].ID())
	assert.Equal(t, int64(3), group[0].Runs())
	assert.Equal(t, int64(2), group[1].Runs())
	assert.Equal(t, int64(2), group[2].Runs())

	groupID := group[0].SplitGroupID()
	require.NotEmpty(t, groupID)
	for i, member := range group {
		assert.Equal(t, groupID, member.SplitGroupID())
		assert.Equal(t, i, member.SplitIndex())
		assert.Equal(t, int64(7), member.TotalGroupRuns())
		assert.Equal(t, i, member.SortOrder())
	}

	// Steps behind the group shifted to make room
	steps := project.Steps()
	require.Len(t, steps, 4)
	assert.Equal(t, helpers.BlocksTypeID, steps[3].ProductTypeID())
	assert.Equal(t, 3, steps[3].SortOrder())
}

func TestStepGenerator_SplitWithOneJobIsANoOp(t *testing.T) {
	// Arrange
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	result := fixture.PlanRifters(t, 7)
	project := result.Project
	root := project.Steps()[0]

	// Act
	group, err := fixture.Generator.Split(context.Background(), project, root.ID(), 1)

	// Assert
	require.NoError(t, err)
	require.Len(t, group, 1)
	assert.Equal(t, root.ID(), group[0].ID())
	assert.Equal(t, int64(7), group[0].Runs())
	assert.False(t, group[0].IsSplit())
	assert.Equal(t, 2, project.StepCount())
}

func TestStepGenerator_SplitValidation(t *testing.T) {
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	result := fixture.PlanRifters(t, 7)
	project := result.Project
	root := project.Steps()[0]
	ctx := context.Background()

	_, err := fixture.Generator.Split(ctx, project, "no-such-step", 2)
	assert.Error(t, err, "unknown step")

	_, err = fixture.Generator.Split(ctx, project, root.ID(), 0)
	assert.Error(t, err, "non-positive job count")

	_, err = fixture.Generator.Split(ctx, project, root.ID(), 8)
	assert.Error(t, err, "more jobs than runs")

	// A split step cannot be split again
	_, err = fixture.Generator.Split(ctx, project, root.ID(), 2)
	require.NoError(t, err)
	_, err = fixture.Generator.Split(ctx, project, root.ID(), 2)
	var alreadySplit *industry.ErrStepAlreadySplit
	assert.ErrorAs(t, err, &alreadySplit)
}

func TestStepGenerator_MergeRestoresTheOriginalStep(t *testing.T) {
	// Arrange - split, link a job to a sibling, then merge back
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	result := fixture.PlanRifters(t, 7)
	project := result.Project
	root := project.Steps()[0]
	ctx := context.Background()

	group, err := fixture.Generator.Split(ctx, project, root.ID(), 3)
	require.NoError(t, err)
	groupID := group[0].SplitGroupID()

	match := industry.NewJobMatch("m-1", 9001, root.BlueprintID(), 2, 1000, industry.JobStatusActive, nil, nil, nil, "Test Pilot")
	require.NoError(t, group[2].AddJobMatch(match))

	// Act
	kept, err := fixture.Generator.Merge(ctx, project, groupID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, root.ID(), kept.ID())
	assert.Equal(t, int64(7), kept.Runs())
	assert.Equal(t, int64(7), kept.Quantity())
	assert.False(t, kept.IsSplit())
	assert.Equal(t, 2, project.StepCount())

	// The sibling's job match moved onto the kept step
	require.Len(t, kept.JobMatches(), 1)
	assert.Equal(t, int64(9001), kept.JobMatches()[0].ExternalJobID())

	// Sort order is compact again
	steps := project.Steps()
	for i, s := range steps {
		assert.Equal(t, i, s.SortOrder())
	}
}

func TestStepGenerator_MergeValidation(t *testing.T) {
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	result := fixture.PlanRifters(t, 7)
	project := result.Project
	ctx := context.Background()

	_, err := fixture.Generator.Merge(ctx, project, "no-such-group")
	assert.Error(t, err, "unknown group")

	// A single-member group cannot be merged
	lone := project.Steps()[1]
	lone.AssignToSplitGroup("lonely-group", 0, lone.Runs())
	_, err = fixture.Generator.Merge(ctx, project, "lonely-group")
	var tooSmall *industry.ErrSplitGroupTooSmall
	assert.ErrorAs(t, err, &tooSmall)
}

func TestStepGenerator_CreateManualStep(t *testing.T) {
	// Arrange
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	result := fixture.PlanRifters(t, 1)
	project := result.Project
	ctx := context.Background()

	// Act - 3 blocks at 2 per run
	step, err := fixture.Generator.CreateManualStep(ctx, project, helpers.BlocksTypeID, 3, fixture.Facilities.Assigner())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), step.Runs())
	assert.Equal(t, int64(4), step.Quantity())
	assert.Equal(t, 0, step.Depth())
	assert.Equal(t, 2, step.SortOrder(), "appended after the flattened steps")
	assert.Equal(t, 3, project.StepCount())

	// Validation
	_, err = fixture.Generator.CreateManualStep(ctx, project, helpers.BlocksTypeID, 0, nil)
	assert.Error(t, err, "non-positive quantity")

	_, err = fixture.Generator.CreateManualStep(ctx, project, 999999, 1, nil)
	assert.Error(t, err, "unknown product")
}

package industry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
)

func newTestProject(t *testing.T) *industry.Project {
	project, err := industry.NewProject("Rifter batch", 587, "Rifter", 689, 10, 10, 20)
	require.NoError(t, err)
	return project
}

func TestNewProject_Validation(t *testing.T) {
	_, err := industry.NewProject("p", 587, "Rifter", 689, 0, 0, 0)
	assert.Error(t, err, "zero runs")

	_, err = industry.NewProject("p", 587, "Rifter", 689, 1, 11, 0)
	assert.Error(t, err, "ME above 10")

	_, err = industry.NewProject("p", 587, "Rifter", 689, 1, 0, 21)
	assert.Error(t, err, "TE above 20")

	_, err = industry.NewProject("p", 587, "Rifter", 689, 1, 10, 20)
	assert.NoError(t, err)
}

func TestProject_StepsSortedBySortOrder(t *testing.T) {
	// Arrange
	project := newTestProject(t)
	first := newTestStep(0, 10, 10)
	second := newTestStep(1, 5, 10)
	third := newTestStep(1, 2, 4)
	first.SetSortOrder(0)
	second.SetSortOrder(2)
	third.SetSortOrder(1)
	require.NoError(t, project.AddStep(first))
	require.NoError(t, project.AddStep(second))
	require.NoError(t, project.AddStep(third))

	// Act
	steps := project.Steps()

	// Assert
	require.Len(t, steps, 3)
	assert.Equal(t, first.ID(), steps[0].ID())
	assert.Equal(t, third.ID(), steps[1].ID())
	assert.Equal(t, second.ID(), steps[2].ID())
}

func TestProject_AddStep_RejectsDuplicate(t *testing.T) {
	// Arrange
	project := newTestProject(t)
	step := newTestStep(1, 5, 10)
	require.NoError(t, project.AddStep(step))

	// Act
	err := project.AddStep(step)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, 1, project.StepCount())
}

func TestProject_RemoveStep(t *testing.T) {
	// Arrange
	project := newTestProject(t)
	step := newTestStep(1, 5, 10)
	require.NoError(t, project.AddStep(step))

	// Act
	err := project.RemoveStep(step.ID())

	// Assert
	require.NoError(t, err)
	assert.Zero(t, project.StepCount())
	assert.Nil(t, project.Step(step.ID()))

	// Removing again is a not-found error
	assert.Error(t, project.RemoveStep(step.ID()))
}

func TestProject_StepsInSplitGroupOrderedByIndex(t *testing.T) {
	// Arrange
	project := newTestProject(t)
	a := newTestStep(1, 3, 6)
	b := newTestStep(1, 2, 4)
	c := newTestStep(1, 2, 4)
	a.AssignToSplitGroup("group-1", 1, 7)
	b.AssignToSplitGroup("group-1", 0, 7)
	c.AssignToSplitGroup("group-2", 0, 2)
	require.NoError(t, project.AddStep(a))
	require.NoError(t, project.AddStep(b))
	require.NoError(t, project.AddStep(c))

	// Act
	members := project.StepsInSplitGroup("group-1")

	// Assert
	require.Len(t, members, 2)
	assert.Equal(t, b.ID(), members[0].ID())
	assert.Equal(t, a.ID(), members[1].ID())
}

func TestProject_MaxSortOrder(t *testing.T) {
	project := newTestProject(t)
	assert.Equal(t, -1, project.MaxSortOrder())

	step := newTestStep(0, 1, 1)
	step.SetSortOrder(4)
	require.NoError(t, project.AddStep(step))
	assert.Equal(t, 4, project.MaxSortOrder())
}

func TestProject_ReplaceSteps(t *testing.T) {
	// Arrange
	project := newTestProject(t)
	old := newTestStep(0, 1, 1)
	require.NoError(t, project.AddStep(old))

	replacementA := newTestStep(0, 2, 2)
	replacementB := newTestStep(1, 5, 10)

	// Act
	project.ReplaceSteps([]*industry.PlanStep{replacementA, replacementB})

	// Assert
	assert.Equal(t, 2, project.StepCount())
	assert.Nil(t, project.Step(old.ID()))
	assert.NotNil(t, project.Step(replacementA.ID()))
	assert.NotNil(t, project.Step(replacementB.ID()))
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/eveindustry-go/internal/adapters/persistence"
	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
	"github.com/andrescamacho/eveindustry-go/test/helpers"
)

func manufacturingJob(id, blueprintID, runs int64) industry.ExternalJob {
	return industry.ExternalJob{
		ID:            id,
		BlueprintID:   blueprintID,
		Kind:          shared.ActivityManufacturing,
		Runs:          runs,
		Cost:          float64(runs) * 1000,
		Status:        industry.JobStatusActive,
		CharacterName: "Test Pilot",
	}
}

func TestMatchSteps_ExactRunCountLinks(t *testing.T) {
	// Arrange
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	result := fixture.PlanRifters(t, 1)
	blocks := result.Project.Steps()[1]
	require.Equal(t, int64(5), blocks.Runs())

	jobs := []industry.ExternalJob{
		manufacturingJob(9001, helpers.BlocksBlueprintID, 5),
		manufacturingJob(9002, helpers.BlocksBlueprintID, 4),
		manufacturingJob(9003, 424242, 5),
	}

	// Act
	outcomes := services.MatchSteps(result.Project.Steps(), jobs)

	// Assert
	require.Len(t, outcomes, 3)

	byJob := make(map[int64]services.MatchOutcome)
	for _, o := range outcomes {
		byJob[o.Job.ID] = o
	}
	assert.Equal(t, services.MatchLinked, byJob[9001].Kind)
	assert.Equal(t, blocks.ID(), byJob[9001].StepID)
	assert.Equal(t, services.MatchRunCountMismatch, byJob[9002].Kind)
	assert.Equal(t, services.MatchNoCandidate, byJob[9003].Kind)
}

func TestMatchSteps_PurchasedAndStockedStepsAreIneligible(t *testing.T) {
	// Arrange
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	result := fixture.PlanRifters(t, 1)
	blocks := result.Project.Steps()[1]
	require.NoError(t, blocks.MarkPurchased(true))

	// Act
	outcomes := services.MatchSteps(result.Project.Steps(), []industry.ExternalJob{
		manufacturingJob(9001, helpers.BlocksBlueprintID, 5),
	})

	// Assert
	require.Len(t, outcomes, 1)
	assert.Equal(t, services.MatchNoCandidate, outcomes[0].Kind)
}

func TestMatchSteps_NewestJobClaimsFirst(t *testing.T) {
	// Arrange - two parallel block steps of 5 runs each
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	result := fixture.PlanRifters(t, 2)
	project := result.Project
	blocks := project.Steps()[1]
	require.Equal(t, int64(10), blocks.Runs())

	group, err := fixture.Generator.Split(context.Background(), project, blocks.ID(), 2)
	require.NoError(t, err)

	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	oldJob := manufacturingJob(9001, helpers.BlocksBlueprintID, 5)
	oldJob.StartDate = &older
	newJob := manufacturingJob(9002, helpers.BlocksBlueprintID, 5)
	newJob.StartDate = &newer

	// Act
	outcomes := services.MatchSteps(project.Steps(), []industry.ExternalJob{oldJob, newJob})

	// Assert - the newer job claims the first group member, both get linked
	require.Len(t, outcomes, 2)
	assert.Equal(t, int64(9002), outcomes[0].Job.ID)
	assert.Equal(t, group[0].ID(), outcomes[0].StepID)
	assert.Equal(t, services.MatchLinked, outcomes[0].Kind)
	assert.Equal(t, group[1].ID(), outcomes[1].StepID)
	assert.Equal(t, services.MatchLinked, outcomes[1].Kind)
}

func TestJobMatcher_LinkEnforcesBlueprintEquality(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	matcher := services.NewJobMatcher(repo, fixture.Resolver, fixture.Recalculator)
	result := fixture.PlanRifters(t, 1)
	require.NoError(t, repo.Create(context.Background(), result.Project))
	blocks := result.Project.Steps()[1]

	// Act - a Rifter job against a blocks step
	_, err := matcher.Link(context.Background(), result.Project, blocks.ID(), manufacturingJob(9001, helpers.RifterBlueprintID, 5))

	// Assert
	var mismatch *industry.ErrBlueprintMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestJobMatcher_LinkRejectsActivityKindMismatch(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	matcher := services.NewJobMatcher(repo, fixture.Resolver, fixture.Recalculator)
	result := fixture.PlanRifters(t, 1)
	require.NoError(t, repo.Create(context.Background(), result.Project))
	blocks := result.Project.Steps()[1]

	// Act - a copying job naming the manufacturing step's own blueprint
	job := manufacturingJob(9001, helpers.BlocksBlueprintID, 5)
	job.Kind = shared.ActivityCopying
	_, err := matcher.Link(context.Background(), result.Project, blocks.ID(), job)

	// Assert
	var conflict *shared.ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Empty(t, blocks.JobMatches())
}

func TestJobMatcher_LinkRejectsPurchasedAndStockedSteps(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	matcher := services.NewJobMatcher(repo, fixture.Resolver, fixture.Recalculator)
	result := fixture.PlanRifters(t, 1)
	require.NoError(t, repo.Create(context.Background(), result.Project))
	blocks := result.Project.Steps()[1]
	ctx := context.Background()

	require.NoError(t, blocks.MarkPurchased(true))

	// Act - a purchased step takes no jobs
	_, err := matcher.Link(ctx, result.Project, blocks.ID(), manufacturingJob(9001, helpers.BlocksBlueprintID, 5))

	// Assert
	var conflict *shared.ConflictError
	require.ErrorAs(t, err, &conflict)

	// Act - neither does one already covered by stock
	require.NoError(t, blocks.MarkPurchased(false))
	require.NoError(t, blocks.SetInStock(3))
	_, err = matcher.Link(ctx, result.Project, blocks.ID(), manufacturingJob(9001, helpers.BlocksBlueprintID, 5))

	// Assert
	require.ErrorAs(t, err, &conflict)
	assert.Empty(t, blocks.JobMatches())
}

func TestJobMatcher_ExternalJobIDLinksAtMostOnce(t *testing.T) {
	// Arrange - the same external id observed against two projects
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	matcher := services.NewJobMatcher(repo, fixture.Resolver, fixture.Recalculator)
	ctx := context.Background()

	first := fixture.PlanRifters(t, 1)
	second := fixture.PlanRifters(t, 1)
	require.NoError(t, repo.Create(ctx, first.Project))
	require.NoError(t, repo.Create(ctx, second.Project))

	job := manufacturingJob(9001, helpers.BlocksBlueprintID, 5)
	_, err := matcher.Link(ctx, first.Project, first.Project.Steps()[1].ID(), job)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, first.Project))

	// Act
	_, err = matcher.Link(ctx, second.Project, second.Project.Steps()[1].ID(), job)

	// Assert
	var linked *industry.ErrJobAlreadyLinked
	require.ErrorAs(t, err, &linked)
	assert.Equal(t, first.Project.Steps()[1].ID(), linked.StepID)
}

func TestJobMatcher_RunsAdaptOnceJobsCoverThePlan(t *testing.T) {
	// Arrange - a blocks step planned at 5 runs
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	matcher := services.NewJobMatcher(repo, fixture.Resolver, fixture.Recalculator)
	ctx := context.Background()

	result := fixture.PlanRifters(t, 1)
	require.NoError(t, repo.Create(ctx, result.Project))
	blocks := result.Project.Steps()[1]
	require.Equal(t, int64(5), blocks.Runs())

	// Act - 3 matched runs leave the plan short, nothing adapts
	_, err := matcher.Link(ctx, result.Project, blocks.ID(), manufacturingJob(9010, helpers.BlocksBlueprintID, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(5), blocks.Runs())

	// Act - a second job pushes coverage to 7, production reality wins
	_, err = matcher.Link(ctx, result.Project, blocks.ID(), manufacturingJob(9011, helpers.BlocksBlueprintID, 4))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(7), blocks.Runs())
	assert.Equal(t, int64(14), blocks.Quantity())
	assert.Equal(t, int64(7), blocks.MatchedRuns())
}

func TestJobMatcher_CorrectsFacilityFromObservedJob(t *testing.T) {
	// Arrange - planned in a Raitaru, observed running in an Azbel
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)
	raitaru := helpers.RaitaruProfile()
	azbel := helpers.AzbelProfile()
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository(), raitaru, azbel)
	fixture.Facilities = services.FacilityDefaults{Manufacturing: raitaru}
	matcher := services.NewJobMatcher(repo, fixture.Resolver, fixture.Recalculator)
	ctx := context.Background()

	result := fixture.PlanRifters(t, 1)
	require.NoError(t, repo.Create(ctx, result.Project))
	blocks := result.Project.Steps()[1]
	require.NotNil(t, blocks.Facility())
	require.Equal(t, raitaru.FacilityID, blocks.Facility().FacilityID)

	job := manufacturingJob(9001, helpers.BlocksBlueprintID, 5)
	job.FacilityID = &azbel.FacilityID

	// Act
	step, err := matcher.Link(ctx, result.Project, blocks.ID(), job)

	// Assert - the step now assumes the observed facility and the match
	// remembers what the plan assumed
	require.NoError(t, err)
	require.NotNil(t, step.Facility())
	assert.Equal(t, azbel.FacilityID, step.Facility().FacilityID)

	require.Len(t, step.JobMatches(), 1)
	match := step.JobMatches()[0]
	assert.True(t, match.FacilityCorrected())
	assert.Equal(t, "Test Raitaru", match.PlannedFacilityName())
	assert.InDelta(t, 0.01, match.PlannedMaterialBonus(), 0.0001)
}

func TestJobMatcher_MatchAllAppliesExactMatchesAndWarns(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	matcher := services.NewJobMatcher(repo, fixture.Resolver, fixture.Recalculator)
	ctx := context.Background()

	result := fixture.PlanRifters(t, 1)
	require.NoError(t, repo.Create(ctx, result.Project))

	jobs := []industry.ExternalJob{
		manufacturingJob(9001, helpers.BlocksBlueprintID, 5),
		manufacturingJob(9002, helpers.BlocksBlueprintID, 4),
		manufacturingJob(9003, 424242, 1),
	}

	// Act
	applied, err := matcher.MatchAll(ctx, result.Project, jobs)

	// Assert
	require.NoError(t, err)
	require.Len(t, applied.Linked, 1)
	assert.Equal(t, int64(9001), applied.Linked[0].JobMatches()[0].ExternalJobID())
	assert.Len(t, applied.Outcomes, 3)
	assert.Len(t, applied.Warnings, 2)
}

package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/eveindustry-go/internal/adapters/persistence"
	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
	"github.com/andrescamacho/eveindustry-go/test/helpers"
)

func newPersistedProject(t *testing.T) *industry.Project {
	project, err := industry.NewProject("Rifter batch", 587, "Rifter", 689, 10, 10, 20)
	require.NoError(t, err)
	return project
}

func newPersistedStep(t *testing.T, project *industry.Project, depth, sortOrder int, facility *blueprint.FacilityProfile) *industry.PlanStep {
	step := industry.NewPlanStep(
		project.ID(),
		689,
		"Rifter Blueprint",
		587,
		"Rifter",
		shared.ActivityManufacturing,
		10,
		10,
		depth,
		sortOrder,
		10,
		20,
		facility,
	)
	require.NoError(t, project.AddStep(step))
	return step
}

func TestProjectRepository_CreateAndFindRoundTrip(t *testing.T) {
	// Arrange - a project with a facility, a match and a purchase on a step
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)
	ctx := context.Background()

	project := newPersistedProject(t)
	project.SetEconomics(10000, 50, 10)
	project.ExcludeType(3828)

	root := newPersistedStep(t, project, 0, 0, nil)
	facility := &blueprint.FacilityProfile{
		FacilityID: 60001001,
		Name:       "Test Raitaru",
		Security:   blueprint.SecurityHigh,
		Structure:  blueprint.StructureRaitaru,
		Rigs: []blueprint.RigBonus{
			{Name: "Standup M-Set Ship Manufacturing Efficiency I", ItemCategory: "Ship", MaterialPercent: 2.0},
		},
	}
	child := newPersistedStep(t, project, 1, 1, facility)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	facilityID := int64(60001001)
	match := industry.NewJobMatch("m-1", 9001, 689, 4, 2500, industry.JobStatusActive, &start, nil, &facilityID, "Test Pilot")
	match.RestoreFacilitySnapshot("Old Station", 0.0, true)
	require.NoError(t, child.AddJobMatch(match))
	child.AddPurchase(industry.NewPurchase("p-1", 34, "Tritanium", 100, 4.0, 0, industry.PurchaseSourceManual))

	// Act
	require.NoError(t, repo.Create(ctx, project))
	found, err := repo.FindByID(ctx, project.ID())

	// Assert
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, project.Name(), found.Name())
	assert.Equal(t, int64(10), found.Runs())
	assert.InDelta(t, 10000.0, found.SellPrice(), 0.001)
	assert.True(t, found.ExcludedTypeIDs()[3828])
	require.Equal(t, 2, found.StepCount())

	steps := found.Steps()
	assert.Equal(t, root.ID(), steps[0].ID())

	loadedChild := steps[1]
	assert.Equal(t, child.ID(), loadedChild.ID())
	require.NotNil(t, loadedChild.Facility())
	assert.Equal(t, facility.FacilityID, loadedChild.Facility().FacilityID)
	assert.Equal(t, blueprint.StructureRaitaru, loadedChild.Facility().Structure)
	require.Len(t, loadedChild.Facility().Rigs, 1)
	assert.InDelta(t, 2.0, loadedChild.Facility().Rigs[0].MaterialPercent, 0.001)

	require.Len(t, loadedChild.JobMatches(), 1)
	loadedMatch := loadedChild.JobMatches()[0]
	assert.Equal(t, int64(9001), loadedMatch.ExternalJobID())
	assert.Equal(t, int64(4), loadedMatch.Runs())
	assert.Equal(t, industry.JobStatusActive, loadedMatch.Status())
	require.NotNil(t, loadedMatch.StartDate())
	assert.True(t, loadedMatch.StartDate().Equal(start))
	assert.True(t, loadedMatch.FacilityCorrected())
	assert.Equal(t, "Old Station", loadedMatch.PlannedFacilityName())

	require.Len(t, loadedChild.Purchases(), 1)
	purchase := loadedChild.Purchases()[0]
	assert.Equal(t, int64(100), purchase.Quantity())
	assert.InDelta(t, 400.0, purchase.TotalPrice(), 0.001)
	assert.Equal(t, industry.PurchaseSourceManual, purchase.Source())
}

func TestProjectRepository_FindByID_NotFound(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)

	// Act
	found, err := repo.FindByID(context.Background(), "no-such-project")

	// Assert - absence is nil, nil, not an error
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestProjectRepository_UpdatePrunesRemovedSteps(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)
	ctx := context.Background()

	project := newPersistedProject(t)
	newPersistedStep(t, project, 0, 0, nil)
	removed := newPersistedStep(t, project, 1, 1, nil)
	require.NoError(t, repo.Create(ctx, project))

	// Act
	require.NoError(t, project.RemoveStep(removed.ID()))
	require.NoError(t, repo.Update(ctx, project))

	// Assert
	found, err := repo.FindByID(ctx, project.ID())
	require.NoError(t, err)
	require.Equal(t, 1, found.StepCount())
	assert.Nil(t, found.Step(removed.ID()))
}

func TestProjectRepository_FindStepByExternalJobID(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)
	ctx := context.Background()

	project := newPersistedProject(t)
	newPersistedStep(t, project, 0, 0, nil)
	holder := newPersistedStep(t, project, 1, 1, nil)
	match := industry.NewJobMatch("m-1", 9001, 689, 4, 2500, industry.JobStatusActive, nil, nil, nil, "Test Pilot")
	require.NoError(t, holder.AddJobMatch(match))
	require.NoError(t, repo.Create(ctx, project))

	// Act
	found, err := repo.FindStepByExternalJobID(ctx, 9001)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, holder.ID(), found.ID())
	require.Len(t, found.JobMatches(), 1)

	// Unlinked ids resolve to nil, nil
	found, err = repo.FindStepByExternalJobID(ctx, 424242)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestProjectRepository_FindAllOrdersByRecency(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)
	ctx := context.Background()

	older := newPersistedProject(t)
	require.NoError(t, repo.Create(ctx, older))

	newer := newPersistedProject(t)
	require.NoError(t, repo.Create(ctx, newer))
	newer.SetName("Renamed batch")
	require.NoError(t, repo.Update(ctx, newer))

	// Act
	projects, err := repo.FindAll(ctx)

	// Assert
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, newer.ID(), projects[0].ID())
	assert.Equal(t, older.ID(), projects[1].ID())
}

func TestProjectRepository_DeleteCascades(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormProjectRepository(db)
	ledger := persistence.NewGormStockLedgerRepository(db)
	ctx := context.Background()

	project := newPersistedProject(t)
	step := newPersistedStep(t, project, 1, 0, nil)
	require.NoError(t, step.AddJobMatch(industry.NewJobMatch("m-1", 9001, 689, 4, 0, industry.JobStatusActive, nil, nil, nil, "")))
	require.NoError(t, repo.Create(ctx, project))
	require.NoError(t, ledger.Upsert(ctx, industry.StockLedgerEntry{
		ProjectID:      project.ID(),
		NormalizedName: "tritanium",
		TypeID:         34,
		Quantity:       100,
	}))

	// Act
	require.NoError(t, repo.Delete(ctx, project.ID()))

	// Assert
	found, err := repo.FindByID(ctx, project.ID())
	require.NoError(t, err)
	assert.Nil(t, found)

	orphan, err := repo.FindStepByExternalJobID(ctx, 9001)
	require.NoError(t, err)
	assert.Nil(t, orphan)

	entries, err := ledger.FindByProject(ctx, project.ID())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

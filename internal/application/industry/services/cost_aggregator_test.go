package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
	"github.com/andrescamacho/eveindustry-go/test/helpers"
)

func TestCostAggregator_SummarizesAllFlows(t *testing.T) {
	// Arrange - 1 Rifter: 30 tritanium at 5.5 and 20 pyerite at 8.0 missing
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	aggregator := services.NewCostAggregator(fixture.StockEngine)
	result := fixture.PlanRifters(t, 1)
	project := result.Project
	project.SetEconomics(10000, 50, 10)

	blocks := project.Steps()[1]
	match := industry.NewJobMatch("m-1", 9001, blocks.BlueprintID(), 5, 500, industry.JobStatusActive, nil, nil, nil, "Test Pilot")
	require.NoError(t, blocks.AddJobMatch(match))

	root := project.Steps()[0]
	root.AddPurchase(industry.NewPurchase("p-1", helpers.PyeriteTypeID, "Pyerite", 5, 8.0, 0, industry.PurchaseSourceManual))

	// Act
	summary, err := aggregator.Summarize(context.Background(), project, result.Tree, helpers.NewFixturePrices())

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 500.0, summary.JobsCost, 0.001)
	assert.InDelta(t, 40.0, summary.PurchaseCost, 0.001)
	assert.InDelta(t, 50.0, summary.TransportCost, 0.001)
	assert.InDelta(t, 1000.0, summary.TaxAmount, 0.001, "10 percent of the sell price")

	// 30 tritanium remain missing at 5.5; pyerite missing drops to 15 at 8.0
	assert.InDelta(t, 285.0, summary.MaterialCost, 0.001)

	assert.InDelta(t, 10000-(500+285+50+1000), summary.Profit, 0.001)
	require.NotNil(t, summary.ProfitPercent)
	assert.InDelta(t, summary.Profit/10000*100, *summary.ProfitPercent, 0.001)
}

func TestCostAggregator_ProfitPercentNilWithoutSellPrice(t *testing.T) {
	// Arrange
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	aggregator := services.NewCostAggregator(fixture.StockEngine)
	result := fixture.PlanRifters(t, 1)

	// Act
	summary, err := aggregator.Summarize(context.Background(), result.Project, result.Tree, helpers.NewFixturePrices())

	// Assert - an undefined margin, not a reported 0%
	require.NoError(t, err)
	assert.Nil(t, summary.ProfitPercent)
	assert.Negative(t, summary.Profit)
}

func TestCostAggregator_MaterialCostOverrideSkipsPricing(t *testing.T) {
	// Arrange
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	aggregator := services.NewCostAggregator(fixture.StockEngine)
	result := fixture.PlanRifters(t, 1)
	override := 1234.5
	result.Project.SetMaterialCostOverride(&override)

	// Act - nil price feed: the override must make pricing unnecessary
	summary, err := aggregator.Summarize(context.Background(), result.Project, result.Tree, nil)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 1234.5, summary.MaterialCost, 0.001)
	assert.Empty(t, summary.Warnings)
}

func TestCostAggregator_CopyingStepsContributeNoCost(t *testing.T) {
	// Arrange - a copying step with a linked job must stay out of the totals
	fixture := helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	aggregator := services.NewCostAggregator(fixture.StockEngine)
	result := fixture.PlanRifters(t, 1)
	project := result.Project

	copyStep := industry.NewPlanStep(
		project.ID(),
		helpers.RifterBlueprintID,
		"Rifter Blueprint",
		helpers.RifterTypeID,
		"Rifter",
		shared.ActivityCopying,
		1, 1, 1,
		project.MaxSortOrder()+1,
		0, 0, nil,
	)
	match := industry.NewJobMatch("m-copy", 9100, helpers.RifterBlueprintID, 1, 999, industry.JobStatusActive, nil, nil, nil, "Test Pilot")
	require.NoError(t, copyStep.AddJobMatch(match))
	require.NoError(t, project.AddStep(copyStep))

	override := 0.0
	project.SetMaterialCostOverride(&override)

	// Act
	summary, err := aggregator.Summarize(context.Background(), project, result.Tree, nil)

	// Assert
	require.NoError(t, err)
	assert.Zero(t, summary.JobsCost)
}

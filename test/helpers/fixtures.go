package helpers

import (
	"context"
	"testing"

	"github.com/andrescamacho/eveindustry-go/internal/adapters/staticdata"
	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// Fixture type ids used across the test suite.
const (
	RifterTypeID      int64 = 587
	BlocksTypeID      int64 = 3828
	TritaniumTypeID   int64 = 34
	PyeriteTypeID     int64 = 35
	CadmideTypeID     int64 = 16657
	RifterBlueprintID int64 = 689
	BlocksBlueprintID int64 = 3829
	CadmideFormulaID  int64 = 46166
)

// NewFixtureCatalog builds a small static-data catalog with a two-level
// manufacturing chain and one reaction:
//
//	Rifter (1/run, 3600s)  <- 10x Construction Blocks + 20x Pyerite
//	Construction Blocks (2/run, 600s) <- 6x Tritanium
//	Caesarium Cadmide (200/run, 10800s reaction) <- 100x Pyerite
func NewFixtureCatalog() *staticdata.FileCatalog {
	types := map[int64]staticdata.TypeInfo{
		RifterTypeID:    {Name: "Rifter", Category: "Ship", Volume: 2500},
		BlocksTypeID:    {Name: "Construction Blocks", Category: "Commodity", Volume: 1.5},
		TritaniumTypeID: {Name: "Tritanium", Category: "Mineral", Volume: 0.01},
		PyeriteTypeID:   {Name: "Pyerite", Category: "Mineral", Volume: 0.01},
		CadmideTypeID:   {Name: "Caesarium Cadmide", Category: "Composite", Volume: 1},
	}

	activities := []*blueprint.Activity{
		{
			BlueprintID:     RifterBlueprintID,
			BlueprintName:   "Rifter Blueprint",
			Kind:            shared.ActivityManufacturing,
			BaseTimeSeconds: 3600,
			Materials: []blueprint.MaterialQuantity{
				{TypeID: BlocksTypeID, TypeName: "Construction Blocks", Quantity: 10},
				{TypeID: PyeriteTypeID, TypeName: "Pyerite", Quantity: 20},
			},
			Products: []blueprint.ProductQuantity{
				{TypeID: RifterTypeID, TypeName: "Rifter", Quantity: 1},
			},
		},
		{
			BlueprintID:     BlocksBlueprintID,
			BlueprintName:   "Construction Blocks Blueprint",
			Kind:            shared.ActivityManufacturing,
			BaseTimeSeconds: 600,
			Materials: []blueprint.MaterialQuantity{
				{TypeID: TritaniumTypeID, TypeName: "Tritanium", Quantity: 6},
			},
			Products: []blueprint.ProductQuantity{
				{TypeID: BlocksTypeID, TypeName: "Construction Blocks", Quantity: 2},
			},
		},
		{
			BlueprintID:     CadmideFormulaID,
			BlueprintName:   "Caesarium Cadmide Reaction Formula",
			Kind:            shared.ActivityReaction,
			BaseTimeSeconds: 10800,
			Materials: []blueprint.MaterialQuantity{
				{TypeID: PyeriteTypeID, TypeName: "Pyerite", Quantity: 100},
			},
			Products: []blueprint.ProductQuantity{
				{TypeID: CadmideTypeID, TypeName: "Caesarium Cadmide", Quantity: 200},
			},
		},
	}

	return staticdata.NewCatalog(activities, types)
}

// NewFixturePrices builds a snapshot price feed for the fixture minerals.
func NewFixturePrices() *staticdata.SnapshotPriceFeed {
	return staticdata.NewPriceFeed(map[int64][]industry.PriceQuote{
		TritaniumTypeID: {
			{UnitPrice: 4.0, LocationKind: industry.PriceLocationStation},
			{UnitPrice: 5.5, LocationKind: industry.PriceLocationRegionSell},
		},
		PyeriteTypeID: {
			{UnitPrice: 8.0, LocationKind: industry.PriceLocationRegionSell},
		},
	})
}

// RaitaruProfile is an unrigged high-sec Raitaru: 1% material, 15% time.
func RaitaruProfile() *blueprint.FacilityProfile {
	return &blueprint.FacilityProfile{
		FacilityID: 60001001,
		Name:       "Test Raitaru",
		Security:   blueprint.SecurityHigh,
		Structure:  blueprint.StructureRaitaru,
	}
}

// AzbelProfile is an unrigged high-sec Azbel: 1% material, 20% time.
func AzbelProfile() *blueprint.FacilityProfile {
	return &blueprint.FacilityProfile{
		FacilityID: 60001002,
		Name:       "Test Azbel",
		Security:   blueprint.SecurityHigh,
		Structure:  blueprint.StructureAzbel,
	}
}

// AthanorProfile is an unrigged low-sec Athanor refinery.
func AthanorProfile() *blueprint.FacilityProfile {
	return &blueprint.FacilityProfile{
		FacilityID: 60001003,
		Name:       "Test Athanor",
		Security:   blueprint.SecurityLow,
		Structure:  blueprint.StructureAthanor,
	}
}

// PlanningFixture wires the full planning service stack over the fixture
// catalog, without persistence.
type PlanningFixture struct {
	Catalog      *staticdata.FileCatalog
	Resolver     *staticdata.StaticBonusResolver
	Calculator   *services.EfficiencyCalculator
	Builder      *services.TreeBuilder
	Generator    *services.StepGenerator
	Planner      *services.ProjectPlanner
	Recalculator *services.Recalculator
	StockEngine  *services.StockEngine
	Ledger       industry.StockLedgerRepository
	Facilities   services.FacilityDefaults
}

// NewPlanningFixture builds the stack. Profiles are registered with the
// resolver so job-side facility lookups can find them.
func NewPlanningFixture(ledger industry.StockLedgerRepository, profiles ...*blueprint.FacilityProfile) *PlanningFixture {
	catalog := NewFixtureCatalog()
	resolver := staticdata.NewStaticBonusResolver(profiles)
	calculator := services.NewEfficiencyCalculator(resolver)
	builder := services.NewTreeBuilder(catalog, calculator)
	generator := services.NewStepGenerator(catalog)

	return &PlanningFixture{
		Catalog:      catalog,
		Resolver:     resolver,
		Calculator:   calculator,
		Builder:      builder,
		Generator:    generator,
		Planner:      services.NewProjectPlanner(catalog, builder, generator),
		Recalculator: services.NewRecalculator(catalog, calculator),
		StockEngine:  services.NewStockEngine(catalog, ledger),
		Ledger:       ledger,
		Facilities:   services.FacilityDefaults{},
	}
}

// PlanRifters creates a planned project for the given Rifter quantity with
// ME0/TE0 and no facility assumptions.
func (f *PlanningFixture) PlanRifters(t *testing.T, quantity int64) *services.PlanResult {
	result, err := f.Planner.CreateProject(context.Background(), "Rifter batch", RifterTypeID, quantity, 0, 0, f.Facilities.Assigner())
	if err != nil {
		t.Fatalf("failed to plan fixture project: %v", err)
	}
	return result
}

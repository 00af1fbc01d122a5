package steps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/test/helpers"
)

type stockContext struct {
	fixture *helpers.PlanningFixture

	project  *industry.Project
	tree     *industry.Tree
	warnings int
	list     *services.ShoppingListResult
}

func (sc *stockContext) reset() error {
	sc.fixture = helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	sc.project = nil
	sc.tree = nil
	sc.warnings = 0
	sc.list = nil
	return nil
}

func (sc *stockContext) aPlannedProjectForUnitsOfRifter(quantity int64) error {
	result, err := sc.fixture.Planner.CreateProject(context.Background(), "Rifter batch", helpers.RifterTypeID, quantity, 0, 0, sc.fixture.Facilities.Assigner())
	if err != nil {
		return err
	}
	sc.project = result.Project
	sc.tree = result.Tree
	return nil
}

func (sc *stockContext) iImportTheStockLines(table *godog.Table) error {
	lines := make([]services.StockLine, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		quantity, err := strconv.ParseInt(cellValue(table, row, "quantity"), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid quantity: %w", err)
		}
		lines = append(lines, services.StockLine{
			Name:     cellValue(table, row, "name"),
			Quantity: quantity,
		})
	}
	warnings, err := sc.fixture.StockEngine.ImportStock(context.Background(), sc.project, sc.tree, lines)
	if err != nil {
		return err
	}
	sc.warnings = len(warnings)
	return nil
}

func (sc *stockContext) theImportShouldReportWarnings(count int) error {
	if sc.warnings != count {
		return fmt.Errorf("expected %d warnings, got %d", count, sc.warnings)
	}
	return nil
}

func (sc *stockContext) iRequestTheShoppingList() error {
	list, err := sc.fixture.StockEngine.ShoppingList(context.Background(), sc.project, sc.tree, helpers.NewFixturePrices())
	if err != nil {
		return err
	}
	sc.list = list
	return nil
}

func (sc *stockContext) theShoppingListShouldShow(table *godog.Table) error {
	expected := table.Rows[1:]
	if len(sc.list.Items) != len(expected) {
		return fmt.Errorf("expected %d items, got %d", len(expected), len(sc.list.Items))
	}
	for i, row := range expected {
		item := sc.list.Items[i]
		if name := cellValue(table, row, "material"); item.TypeName != name {
			return fmt.Errorf("item %d: expected material %q, got %q", i, name, item.TypeName)
		}
		missing, err := strconv.ParseInt(cellValue(table, row, "missing"), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid missing quantity: %w", err)
		}
		if item.MissingQuantity != missing {
			return fmt.Errorf("item %d: expected %d missing, got %d", i, missing, item.MissingQuantity)
		}
		if status := cellValue(table, row, "status"); string(item.Status) != status {
			return fmt.Errorf("item %d: expected status %q, got %q", i, status, item.Status)
		}
	}
	return nil
}

// cellValue returns the value under the named header column, or an empty
// string when the table has no such column.
func cellValue(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	for i, header := range table.Rows[0].Cells {
		if header.Value == columnName {
			if i < len(row.Cells) {
				return row.Cells[i].Value
			}
			return ""
		}
	}
	return ""
}

// InitializeStockScenario registers the stock and shopping list step definitions.
func InitializeStockScenario(scenario *godog.ScenarioContext) {
	sc := &stockContext{}

	scenario.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, sc.reset()
	})

	scenario.Step(`^a planned Rifter project for (\d+) units?$`, sc.aPlannedProjectForUnitsOfRifter)
	scenario.Step(`^I import the stock lines:$`, sc.iImportTheStockLines)
	scenario.Step(`^the import should report (\d+) warnings?$`, sc.theImportShouldReportWarnings)
	scenario.Step(`^I request the shopping list$`, sc.iRequestTheShoppingList)
	scenario.Step(`^the shopping list should show:$`, sc.theShoppingListShouldShow)
}

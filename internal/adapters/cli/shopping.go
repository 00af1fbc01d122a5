package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/queries"
)

// NewShoppingCommand creates the shopping list command
func NewShoppingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shopping",
		Short: "Show the shopping list of missing raw materials",
		Long: `Derive the raw materials still missing for the project: required
totals minus ledger stock and recorded purchases, with the most
conservative known price attached per item.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShoppingList()
		},
	}
}

func runShoppingList() error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &queries.LoadShoppingListQuery{ProjectID: id})
	if err != nil {
		return fmt.Errorf("failed to load shopping list: %w", err)
	}

	response := result.(*queries.LoadShoppingListResponse)
	if len(response.Items) == 0 {
		fmt.Println("Nothing to buy.")
		printWarnings(response.Warnings)
		return nil
	}

	var totalPrice, totalVolume float64
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MATERIAL\tNEEDED\tSTOCK\tBOUGHT\tMISSING\tUNIT PRICE\tTOTAL\tVOLUME\tSTATUS")
	for _, item := range response.Items {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\t%s\t%.2f\t%s\n",
			item.TypeName,
			item.Quantity,
			item.InStockQuantity,
			item.PurchasedQuantity,
			item.MissingQuantity,
			formatFloat(item.BestUnitPrice),
			formatFloat(item.TotalPrice),
			item.TotalVolume,
			item.Status,
		)
		totalPrice += item.TotalPrice
		totalVolume += item.TotalVolume
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nTotal: %s, %.2f m3\n", formatISK(totalPrice), totalVolume)
	printWarnings(response.Warnings)
	return nil
}

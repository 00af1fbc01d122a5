package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/queries"
)

// NewCostCommand creates the cost summary command
func NewCostCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cost",
		Short: "Show the project's cost and profit summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCostSummary()
		},
	}
}

func runCostSummary() error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &queries.ProjectCostQuery{ProjectID: id})
	if err != nil {
		return fmt.Errorf("failed to summarize costs: %w", err)
	}

	response := result.(*queries.ProjectCostResponse)
	s := response.Summary

	fmt.Println("Cost summary")
	fmt.Printf("  Job installs:   %s\n", formatISK(s.JobsCost))
	fmt.Printf("  Materials:      %s\n", formatISK(s.MaterialCost))
	fmt.Printf("  Purchases:      %s\n", formatISK(s.PurchaseCost))
	fmt.Printf("  Transport:      %s\n", formatISK(s.TransportCost))
	fmt.Printf("  Tax:            %s\n", formatISK(s.TaxAmount))
	fmt.Printf("  Sell price:     %s\n", formatISK(s.SellPrice))
	fmt.Printf("  Profit:         %s\n", formatISK(s.Profit))
	if s.ProfitPercent != nil {
		fmt.Printf("  Margin:         %.2f%%\n", *s.ProfitPercent)
	} else {
		fmt.Println("  Margin:         n/a (no sell price set)")
	}
	printWarnings(s.Warnings)
	return nil
}

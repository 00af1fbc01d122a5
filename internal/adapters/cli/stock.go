package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/commands"
)

// NewStockCommand creates the stock command with subcommands
func NewStockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Track owned stock across the plan",
		Long: `Record what is already owned, either against a single step or cascaded
through the step's whole subtree.

Examples:
  eveindustry stock set --project <id> --step <step-id> --quantity 200
  eveindustry stock cascade --project <id> --step <step-id> --quantity 200
  eveindustry stock import --project <id> --file inventory.txt`,
	}

	cmd.AddCommand(newStockSetCommand())
	cmd.AddCommand(newStockCascadeCommand())
	cmd.AddCommand(newStockImportCommand())

	return cmd
}

func newStockSetCommand() *cobra.Command {
	var (
		stepID   string
		quantity int64
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set one step's in-stock quantity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStockSet(stepID, quantity)
		},
	}

	cmd.Flags().StringVar(&stepID, "step", "", "Step ID [required]")
	cmd.Flags().Int64Var(&quantity, "quantity", 0, "Owned quantity")
	cmd.MarkFlagRequired("step")

	return cmd
}

func newStockCascadeCommand() *cobra.Command {
	var (
		stepID   string
		quantity int64
	)

	cmd := &cobra.Command{
		Use:   "cascade",
		Short: "Set a step's stock and propagate the saving downward",
		Long: `Owning finished intermediates means their own inputs are no longer
needed. This sets the step's stock and walks the subtree, crediting
built descendants and the raw-material ledger proportionally.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStockCascade(stepID, quantity)
		},
	}

	cmd.Flags().StringVar(&stepID, "step", "", "Step ID [required]")
	cmd.Flags().Int64Var(&quantity, "quantity", 0, "Owned quantity")
	cmd.MarkFlagRequired("step")

	return cmd
}

func newStockImportCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a pasted inventory listing",
		Long: `Parse a free-text inventory paste (one item per line, tab-separated or
"name quantity") and credit recognized raw materials to the ledger.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStockImport(file)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the pasted listing [required]")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runStockSet(stepID string, quantity int64) error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &commands.ApplyStockCommand{
		ProjectID:       id,
		StepID:          stepID,
		InStockQuantity: quantity,
	})
	if err != nil {
		return fmt.Errorf("failed to set stock: %w", err)
	}

	response := result.(*commands.ApplyStockResponse)
	fmt.Printf("Step %s: %d/%d in stock\n",
		response.Step.ProductName(), response.Step.InStockQuantity(), response.Step.Quantity())
	return nil
}

func runStockCascade(stepID string, quantity int64) error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &commands.AdaptStockAcrossTreeCommand{
		ProjectID:       id,
		StepID:          stepID,
		InStockQuantity: quantity,
	})
	if err != nil {
		return fmt.Errorf("failed to cascade stock: %w", err)
	}

	response := result.(*commands.AdaptStockAcrossTreeResponse)
	fmt.Printf("Stock cascaded; %d steps in plan:\n", len(response.Steps))
	for _, step := range response.Steps {
		if step.InStockQuantity() > 0 {
			fmt.Printf("  %s: %d/%d in stock\n",
				step.ProductName(), step.InStockQuantity(), step.Quantity())
		}
	}
	return nil
}

func runStockImport(file string) error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	text, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read inventory file: %w", err)
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &commands.ImportStockCommand{
		ProjectID: id,
		Text:      string(text),
	})
	if err != nil {
		return fmt.Errorf("failed to import stock: %w", err)
	}

	response := result.(*commands.ImportStockResponse)
	fmt.Printf("Imported %d inventory lines\n", response.AppliedLines)
	printWarnings(response.Warnings)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/commands"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
)

// NewStepCommand creates the step command with subcommands
func NewStepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Operate on individual plan steps",
		Long: `Split, merge and adjust steps of a project.

Examples:
  eveindustry step split --project <id> --step <step-id> --jobs 3
  eveindustry step merge --project <id> --group <group-id>
  eveindustry step update --project <id> --step <step-id> --purchased
  eveindustry step add --project <id> --product 16242 --quantity 100
  eveindustry step buy --project <id> --step <step-id> --type 34 --quantity 100000 --unit-price 4.1`,
	}

	cmd.AddCommand(newStepSplitCommand())
	cmd.AddCommand(newStepMergeCommand())
	cmd.AddCommand(newStepUpdateCommand())
	cmd.AddCommand(newStepAddCommand())
	cmd.AddCommand(newStepBuyCommand())

	return cmd
}

func newStepSplitCommand() *cobra.Command {
	var (
		stepID string
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a step into parallel job slots",
		Long: `Split one step into N group members. Runs are distributed as
evenly as possible with the remainder on the earliest members, so the
member run counts always sum to the original total.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStepSplit(stepID, jobs)
		},
	}

	cmd.Flags().StringVar(&stepID, "step", "", "Step ID [required]")
	cmd.Flags().IntVar(&jobs, "jobs", 2, "Number of parallel jobs")
	cmd.MarkFlagRequired("step")

	return cmd
}

func newStepMergeCommand() *cobra.Command {
	var groupID string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge a split group back into one step",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStepMerge(groupID)
		},
	}

	cmd.Flags().StringVar(&groupID, "group", "", "Split group ID [required]")
	cmd.MarkFlagRequired("group")

	return cmd
}

func newStepUpdateCommand() *cobra.Command {
	var (
		stepID    string
		purchased bool
		stock     int64
		meLevel   int
		teLevel   int
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a step's sourcing or efficiency",
		Long: `Mark a step as purchased, set its in-stock quantity, or change its
ME/TE. Changing efficiency recalculates the quantities of the whole
subtree below the step. The root step can never be purchased or stocked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStepUpdate(cmd, stepID, purchased, stock, meLevel, teLevel)
		},
	}

	cmd.Flags().StringVar(&stepID, "step", "", "Step ID [required]")
	cmd.Flags().BoolVar(&purchased, "purchased", false, "Mark the step's output as purchased")
	cmd.Flags().Int64Var(&stock, "stock", 0, "In-stock quantity (non-cascading; see 'stock cascade')")
	cmd.Flags().IntVar(&meLevel, "me", -1, "Material efficiency level")
	cmd.Flags().IntVar(&teLevel, "te", -1, "Time efficiency level")
	cmd.MarkFlagRequired("step")

	return cmd
}

func newStepAddCommand() *cobra.Command {
	var (
		product  int64
		quantity int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a manual step for a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStepAdd(product, quantity)
		},
	}

	cmd.Flags().Int64Var(&product, "product", 0, "Product type ID [required]")
	cmd.Flags().Int64Var(&quantity, "quantity", 1, "Quantity to produce")
	cmd.MarkFlagRequired("product")

	return cmd
}

func newStepBuyCommand() *cobra.Command {
	var (
		stepID     string
		typeID     int64
		typeName   string
		quantity   int64
		unitPrice  float64
		totalPrice float64
	)

	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Record a purchase against a step",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStepBuy(stepID, typeID, typeName, quantity, unitPrice, totalPrice)
		},
	}

	cmd.Flags().StringVar(&stepID, "step", "", "Step ID [required]")
	cmd.Flags().Int64Var(&typeID, "type", 0, "Purchased type ID [required]")
	cmd.Flags().StringVar(&typeName, "type-name", "", "Purchased type name")
	cmd.Flags().Int64Var(&quantity, "quantity", 0, "Purchased quantity [required]")
	cmd.Flags().Float64Var(&unitPrice, "unit-price", 0, "Unit price in ISK")
	cmd.Flags().Float64Var(&totalPrice, "total-price", 0, "Total price (derived from unit price when omitted)")
	cmd.MarkFlagRequired("step")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("quantity")

	return cmd
}

func runStepSplit(stepID string, jobs int) error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &commands.SplitStepCommand{
		ProjectID:    id,
		StepID:       stepID,
		NumberOfJobs: jobs,
	})
	if err != nil {
		return fmt.Errorf("failed to split step: %w", err)
	}

	response := result.(*commands.SplitStepResponse)
	fmt.Printf("Split into %d jobs:\n", len(response.Steps))
	for _, step := range response.Steps {
		fmt.Printf("  [%d] %s: %d runs (%d units)\n",
			step.SplitIndex(), step.ID(), step.Runs(), step.Quantity())
	}
	return nil
}

func runStepMerge(groupID string) error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &commands.MergeSplitGroupCommand{
		ProjectID:    id,
		SplitGroupID: groupID,
	})
	if err != nil {
		return fmt.Errorf("failed to merge split group: %w", err)
	}

	response := result.(*commands.MergeSplitGroupResponse)
	fmt.Printf("Merged into step %s: %d runs (%d units)\n",
		response.Step.ID(), response.Step.Runs(), response.Step.Quantity())
	return nil
}

func runStepUpdate(cmd *cobra.Command, stepID string, purchased bool, stock int64, meLevel, teLevel int) error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	update := &commands.UpdateStepCommand{ProjectID: id, StepID: stepID}
	if cmd.Flags().Changed("purchased") {
		update.Purchased = &purchased
	}
	if cmd.Flags().Changed("stock") {
		update.InStockQuantity = &stock
	}
	if meLevel >= 0 {
		update.MELevel = &meLevel
	}
	if teLevel >= 0 {
		update.TELevel = &teLevel
	}

	result, err := app.mediator.Send(app.ctx(), update)
	if err != nil {
		return fmt.Errorf("failed to update step: %w", err)
	}

	response := result.(*commands.UpdateStepResponse)
	fmt.Printf("Updated step %s (%s)\n", response.Step.ID(), response.Step.ProductName())
	printWarnings(response.Warnings)
	return nil
}

func runStepAdd(product, quantity int64) error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &commands.CreateManualStepCommand{
		ProjectID:     id,
		ProductTypeID: product,
		Quantity:      quantity,
	})
	if err != nil {
		return fmt.Errorf("failed to add step: %w", err)
	}

	response := result.(*commands.CreateManualStepResponse)
	fmt.Printf("Added step %s: %s, %d runs (%d units)\n",
		response.Step.ID(), response.Step.ProductName(), response.Step.Runs(), response.Step.Quantity())
	return nil
}

func runStepBuy(stepID string, typeID int64, typeName string, quantity int64, unitPrice, totalPrice float64) error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &commands.RecordPurchaseCommand{
		ProjectID:  id,
		StepID:     stepID,
		TypeID:     typeID,
		TypeName:   typeName,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: totalPrice,
		Source:     industry.PurchaseSourceManual,
	})
	if err != nil {
		return fmt.Errorf("failed to record purchase: %w", err)
	}

	response := result.(*commands.RecordPurchaseResponse)
	fmt.Printf("Recorded purchase %s: %s x%d for %s\n",
		response.Purchase.ID(), response.Purchase.TypeName(),
		response.Purchase.Quantity(), formatISK(response.Purchase.TotalPrice()))
	return nil
}

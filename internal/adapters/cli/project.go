package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/commands"
	"github.com/andrescamacho/eveindustry-go/internal/application/industry/queries"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// NewProjectCommand creates the project command with subcommands
func NewProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage production projects",
		Long: `Create, inspect and regenerate production projects.

A project plans one target product: it expands the full bill of materials
into a tree, flattens it into buildable steps, and keeps the step set in
sync when runs or efficiency change.

Examples:
  eveindustry project create --name "Hulk run" --product 22544 --quantity 5
  eveindustry project list
  eveindustry project status --project <id>
  eveindustry project regenerate --project <id> --runs 10 --me 10 --te 20`,
	}

	cmd.AddCommand(newProjectCreateCommand())
	cmd.AddCommand(newProjectListCommand())
	cmd.AddCommand(newProjectStatusCommand())
	cmd.AddCommand(newProjectRegenerateCommand())

	return cmd
}

func newProjectCreateCommand() *cobra.Command {
	var (
		name     string
		product  int64
		quantity int64
		meLevel  int
		teLevel  int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new production project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectCreate(name, product, quantity, meLevel, teLevel)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name [required]")
	cmd.Flags().Int64Var(&product, "product", 0, "Target product type ID [required]")
	cmd.Flags().Int64Var(&quantity, "quantity", 1, "Target quantity to produce")
	cmd.Flags().IntVar(&meLevel, "me", -1, "Material efficiency level 0-10 (default from config)")
	cmd.Flags().IntVar(&teLevel, "te", -1, "Time efficiency level 0-20 (default from config)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("product")

	return cmd
}

func newProjectListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectList()
		},
	}
}

func newProjectStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a project's step table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectStatus()
		},
	}
}

func newProjectRegenerateCommand() *cobra.Command {
	var (
		runs    int64
		meLevel int
		teLevel int
		exclude []int64
	)

	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Rebuild a project's steps from scratch",
		Long: `Rebuild the tree and step set after changing runs, ME/TE or the
exclusion list. Job links and purchases are carried over to matching
steps where possible.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectRegenerate(cmd, runs, meLevel, teLevel, exclude)
		},
	}

	cmd.Flags().Int64Var(&runs, "runs", 0, "New run count")
	cmd.Flags().IntVar(&meLevel, "me", -1, "New material efficiency level")
	cmd.Flags().IntVar(&teLevel, "te", -1, "New time efficiency level")
	cmd.Flags().Int64SliceVar(&exclude, "exclude", nil, "Type IDs to treat as purchased instead of built")

	return cmd
}

func runProjectCreate(name string, product, quantity int64, meLevel, teLevel int) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	if meLevel < 0 {
		meLevel = app.cfg.Industry.DefaultMELevel
	}
	if teLevel < 0 {
		teLevel = app.cfg.Industry.DefaultTELevel
	}

	result, err := app.mediator.Send(app.ctx(), &commands.CreateProjectCommand{
		Name:          name,
		ProductTypeID: product,
		Quantity:      quantity,
		MELevel:       meLevel,
		TELevel:       teLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	response := result.(*commands.CreateProjectResponse)
	fmt.Printf("Created project %s (%s)\n", response.Project.ID(), response.Project.Name())
	fmt.Printf("  Product: %s x%d, %d runs, ME%d/TE%d, %d steps\n",
		response.Project.ProductName(),
		quantity,
		response.Project.Runs(),
		response.Project.MELevel(),
		response.Project.TELevel(),
		response.Project.StepCount(),
	)
	printWarnings(response.Warnings)
	return nil
}

func runProjectList() error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &queries.ListProjectsQuery{})
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	response := result.(*queries.ListProjectsResponse)
	if len(response.Projects) == 0 {
		fmt.Println("No projects.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRODUCT\tRUNS\tME/TE\tSTEPS\tUPDATED")
	for _, p := range response.Projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d/%d\t%d\t%s\n",
			p.ID(), p.Name(), p.ProductName(), p.Runs(),
			p.MELevel(), p.TELevel(), p.StepCount(),
			p.UpdatedAt().Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}

func runProjectStatus() error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &queries.GetProjectQuery{ProjectID: id})
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	response := result.(*queries.GetProjectResponse)
	project := response.Project

	fmt.Printf("Project %s: %s\n", project.ID(), project.Name())
	fmt.Printf("  %s, %d runs, ME%d/TE%d\n\n",
		project.ProductName(), project.Runs(), project.MELevel(), project.TELevel())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSTEP\tACTIVITY\tRUNS\tQTY\tSTOCK\tDEPTH\tSTATE")
	for _, step := range project.Steps() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			step.SortOrder(),
			step.ProductName(),
			step.Kind(),
			step.Runs(),
			step.Quantity(),
			step.InStockQuantity(),
			step.Depth(),
			stepState(step),
		)
	}
	return w.Flush()
}

func runProjectRegenerate(cmd *cobra.Command, runs int64, meLevel, teLevel int, exclude []int64) error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	regen := &commands.RegenerateStepsCommand{ProjectID: id, ExcludeTypeIDs: exclude}
	if cmd.Flags().Changed("runs") {
		regen.Runs = &runs
	}
	if meLevel >= 0 {
		regen.MELevel = &meLevel
	}
	if teLevel >= 0 {
		regen.TELevel = &teLevel
	}

	result, err := app.mediator.Send(app.ctx(), regen)
	if err != nil {
		return fmt.Errorf("failed to regenerate steps: %w", err)
	}

	response := result.(*commands.RegenerateStepsResponse)
	fmt.Printf("Regenerated %d steps for project %s\n", response.Project.StepCount(), response.Project.ID())
	printWarnings(response.Warnings)
	return nil
}

// stepState summarizes how a step is being sourced.
func stepState(step *industry.PlanStep) string {
	switch {
	case step.Purchased():
		return "purchased"
	case step.InStockQuantity() >= step.Quantity():
		return "stocked"
	case len(step.JobMatches()) > 0:
		return fmt.Sprintf("%d job(s)", len(step.JobMatches()))
	case step.IsSplit():
		return fmt.Sprintf("split %d/%d runs", step.Runs(), step.TotalGroupRuns())
	default:
		return "planned"
	}
}

func printWarnings(warnings []shared.Warning) {
	for _, w := range warnings {
		fmt.Printf("  warning: %s\n", w.Message)
	}
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	projectID  string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eveindustry",
		Short: "EVE industry planner - plan multi-stage production chains",
		Long: `EVE industry planner builds and maintains production plans:
a recursive bill-of-materials tree, flattened job steps, stock tracking,
shopping lists and cost/profit summaries.

Examples:
  eveindustry project create --name "Retriever batch" --product 17478 --quantity 10
  eveindustry project status --project <id>
  eveindustry step split --project <id> --step <step-id> --jobs 3
  eveindustry step merge --project <id> --group <group-id>
  eveindustry stock cascade --project <id> --step <step-id> --quantity 500
  eveindustry shopping --project <id>
  eveindustry jobs match --project <id> --file jobs.json`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ./config.yaml, ./configs, /etc/eveindustry)")
	rootCmd.PersistentFlags().StringVar(&projectID, "project", "",
		"Project ID (falls back to the configured default)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewProjectCommand())
	rootCmd.AddCommand(NewStepCommand())
	rootCmd.AddCommand(NewStockCommand())
	rootCmd.AddCommand(NewShoppingCommand())
	rootCmd.AddCommand(NewCostCommand())
	rootCmd.AddCommand(NewJobsCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

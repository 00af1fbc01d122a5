package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/eveindustry-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI preferences",
		Long: `Store preferences in ~/.eveindustry/config.json so flags can be
omitted on subsequent commands.

Examples:
  eveindustry config set-project <project-id>
  eveindustry config set-character "Jane Doe"
  eveindustry config show
  eveindustry config clear`,
	}

	cmd.AddCommand(newConfigSetProjectCommand())
	cmd.AddCommand(newConfigSetCharacterCommand())
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigSetProjectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-project <project-id>",
		Short: "Set the default project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			if err := handler.SetDefaultProject(args[0]); err != nil {
				return err
			}
			fmt.Printf("Default project set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigSetCharacterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-character <name>",
		Short: "Set the default character name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			if err := handler.SetDefaultCharacter(args[0]); err != nil {
				return err
			}
			fmt.Printf("Default character set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			cfg, err := handler.Load()
			if err != nil {
				return err
			}
			fmt.Printf("Config file: %s\n", handler.GetConfigPath())
			if cfg.DefaultProjectID == "" && cfg.DefaultCharacter == "" {
				fmt.Println("No preferences stored.")
				return nil
			}
			if cfg.DefaultProjectID != "" {
				fmt.Printf("  default project:   %s\n", cfg.DefaultProjectID)
			}
			if cfg.DefaultCharacter != "" {
				fmt.Printf("  default character: %s\n", cfg.DefaultCharacter)
			}
			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			if err := handler.ClearDefaults(); err != nil {
				return err
			}
			fmt.Println("Preferences cleared")
			return nil
		},
	}
}

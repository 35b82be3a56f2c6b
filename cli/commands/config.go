package commands

import (
	"github.com/spf13/cobra"

	"github.com/ifxgo/adapter/cli/internal/config"
	"github.com/ifxgo/adapter/cli/internal/ui"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := env.cfg
			file := cfg.File
			if file == "" {
				file = "(none)"
			}
			password := ""
			if cfg.Password != "" {
				password = "********"
			}
			return ui.PrintTable([]string{"Setting", "Value"}, [][]string{
				{"file", file},
				{"driver", cfg.Driver},
				{"dsn", cfg.DSN},
				{"database", cfg.Database},
				{"username", cfg.Username},
				{"password", password},
				{"connect_timeout", cfg.ConnectTimeout.String()},
			})
		},
	}

	var path string
	save := &cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration, without the password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := config.SaveConfig(env.cfg, path)
			if err != nil {
				return err
			}
			ui.PrintSuccess("Saved %s", written)
			return nil
		},
	}
	save.Flags().StringVar(&path, "path", "", "destination (default ~/.config/ifxgo/.ifxgo.yaml)")
	cmd.AddCommand(save)

	return cmd
}

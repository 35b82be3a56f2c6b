// Package commands implements the ifxgo command tree.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/ifxgo/adapter/cli/internal/config"
	"github.com/ifxgo/adapter/cli/internal/ui"
	"github.com/ifxgo/adapter/cli/internal/version"
	"github.com/ifxgo/adapter/internal/debug"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configFile string
	driver     string
	dsn        string
	user       string
	password   string
	debug      bool
}

// NewRootCommand builds the ifxgo command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&environment{flags: &globalFlags{}})
}

func newRootCommand(env *environment) *cobra.Command {
	flags := env.flags

	rootCmd := &cobra.Command{
		Use:   "ifxgo",
		Short: "Informix adapter toolbox",
		Long: `ifxgo talks to Informix Dynamic Server through the adapter.

It lists and describes tables, runs queries with SKIP/FIRST pagination,
renders the statements the adapter would send and applies simple DDL.`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flags.configFile)
			if err != nil {
				return err
			}
			env.cfg = cfg
			env.applyFlags(cmd)
			debug.Init(cfg.Debug)
			if cfg.File != "" {
				debug.Debug("Loaded config", "file", cfg.File)
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default .ifxgo.yaml in ., $HOME or ~/.config/ifxgo)")
	pf.StringVar(&flags.driver, "driver", "", "database/sql driver name")
	pf.StringVar(&flags.dsn, "dsn", "", "driver connection string")
	pf.StringVarP(&flags.user, "user", "u", "", "user name")
	pf.StringVarP(&flags.password, "password", "p", "", "password (prompted when missing)")
	pf.BoolVar(&flags.debug, "debug", false, "log every statement")

	rootCmd.AddCommand(NewInfoCommand(env))
	rootCmd.AddCommand(NewTablesCommand(env))
	rootCmd.AddCommand(NewDescribeCommand(env))
	rootCmd.AddCommand(NewQueryCommand(env))
	rootCmd.AddCommand(NewExecCommand(env))
	rootCmd.AddCommand(NewNextvalCommand(env))
	rootCmd.AddCommand(NewRewriteCommand())
	rootCmd.AddCommand(NewDDLCommand(env))
	rootCmd.AddCommand(NewConfigCommand(env))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute is the main entry point for the CLI
func Execute() error {
	err := NewRootCommand().Execute()
	if err != nil {
		ui.PrintError("%v", err)
	}
	return err
}

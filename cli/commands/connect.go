package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ifxgo/adapter/cli/internal/config"
	"github.com/ifxgo/adapter/runtime/client"
)

// environment carries the loaded configuration to the commands.
type environment struct {
	flags *globalFlags
	cfg   *config.Config

	// connect is replaced in tests.
	connect func(ctx context.Context, cfg client.Config) (*client.Adapter, error)
}

// applyFlags lets explicitly set flags win over file and environment values.
func (e *environment) applyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("driver") {
		e.cfg.Driver = e.flags.driver
	}
	if f.Changed("dsn") {
		e.cfg.DSN = e.flags.dsn
	}
	if f.Changed("user") {
		e.cfg.Username = e.flags.user
	}
	if f.Changed("password") {
		e.cfg.Password = e.flags.password
	}
	if f.Changed("debug") {
		e.cfg.Debug = e.flags.debug
	}
}

// open connects with the loaded configuration, asking for the password
// when a user is set without one and stdin is a terminal.
func (e *environment) open(ctx context.Context) (*client.Adapter, error) {
	if e.cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	if e.cfg.DSN == "" && e.cfg.Username != "" && e.cfg.Password == "" && isTerminal(os.Stdin) {
		prompt := &survey.Password{Message: fmt.Sprintf("Password for %s:", e.cfg.Username)}
		if err := survey.AskOne(prompt, &e.cfg.Password); err != nil {
			return nil, err
		}
	}

	connect := e.connect
	if connect == nil {
		connect = func(ctx context.Context, cfg client.Config) (*client.Adapter, error) {
			return client.Connect(ctx, cfg)
		}
	}
	return connect(ctx, e.cfg.ClientConfig())
}

// withAdapter opens a connection, runs fn and closes the connection.
func (e *environment) withAdapter(cmd *cobra.Command, fn func(ctx context.Context, a *client.Adapter) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := e.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

// isTerminal reports whether f is an interactive terminal, including the
// Cygwin and MSYS pseudo terminals.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

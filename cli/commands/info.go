package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ifxgo/adapter/cli/internal/ui"
	"github.com/ifxgo/adapter/runtime"
	"github.com/ifxgo/adapter/runtime/client"
)

// NewInfoCommand creates the info command.
func NewInfoCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the negotiated server version and capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withAdapter(cmd, func(ctx context.Context, a *client.Adapter) error {
				caps := a.Capabilities()
				ui.PrintHeader(a.AdapterName(), caps.String())
				return ui.PrintTable([]string{"Property", "Value"}, [][]string{
					{"Server version", caps.String()},
					{"Major version", fmt.Sprintf("%d", caps.MajorVersion)},
					{"SKIP supported", fmt.Sprintf("%t", caps.SupportsSkip())},
					{"Connection", a.ID()},
					{"Driver", env.cfg.ClientConfig().DriverName},
				})
			})
		},
	}
}

// NewTablesCommand creates the tables command.
func NewTablesCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List user tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withAdapter(cmd, func(ctx context.Context, a *client.Adapter) error {
				tables, err := a.Tables(ctx)
				if err != nil {
					return err
				}
				if len(tables) == 0 {
					ui.PrintWarning("No user tables found")
					return nil
				}
				ui.PrintList(tables)
				ui.PrintInfo("%d tables", len(tables))
				return nil
			})
		},
	}
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(env *environment) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "describe <table>",
		Short: "Show the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := args[0]
			return env.withAdapter(cmd, func(ctx context.Context, a *client.Adapter) error {
				headers, rows, err := describeTable(ctx, a, table)
				if err != nil {
					return err
				}
				if markdown {
					return ui.PrintMarkdown("## " + table + "\n\n" + ui.MarkdownTable(headers, rows))
				}
				if err := ui.PrintTable(headers, rows); err != nil {
					return err
				}
				if _, err := a.Indexes(ctx, table); errors.Is(err, runtime.ErrUnsupported) {
					ui.PrintInfo("Index introspection is not available for Informix")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "render the table as markdown")

	return cmd
}

// describeTable renders the columns of table as table rows.
func describeTable(ctx context.Context, a *client.Adapter, table string) ([]string, [][]string, error) {
	cols, err := a.Columns(ctx, table)
	if err != nil {
		return nil, nil, err
	}

	headers := []string{"Column", "Type", "Kind", "Null", "Default"}
	rows := make([][]string, 0, len(cols))
	for _, c := range cols {
		def := ""
		if c.Default != nil {
			def = *c.Default
		}
		null := "NO"
		if c.Nullable {
			null = "YES"
		}
		rows = append(rows, []string{c.Name, c.NativeType, c.Kind.String(), null, strings.TrimSpace(def)})
	}
	return headers, rows, nil
}

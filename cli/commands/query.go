package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ifxgo/adapter/cli/internal/ui"
	"github.com/ifxgo/adapter/query/sqlgen"
	"github.com/ifxgo/adapter/runtime/client"
)

// paginationFlags binds --limit and --offset. A flag that was not given
// leaves its clause out.
type paginationFlags struct {
	limit  int
	offset int
}

func (p *paginationFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.limit, "limit", 0, "maximum number of rows (FIRST n)")
	cmd.Flags().IntVar(&p.offset, "offset", 0, "rows to skip (SKIP m, servers 10 and later)")
}

func (p *paginationFlags) pagination(cmd *cobra.Command) sqlgen.Pagination {
	var page sqlgen.Pagination
	if cmd.Flags().Changed("limit") {
		limit := p.limit
		page.Limit = &limit
	}
	if cmd.Flags().Changed("offset") {
		offset := p.offset
		page.Offset = &offset
	}
	return page
}

// NewQueryCommand creates the query command.
func NewQueryCommand(env *environment) *cobra.Command {
	var page paginationFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a SELECT and print the rows",
		Long: `Run a SELECT through the adapter. --limit and --offset are spliced in
as FIRST and SKIP, and "= NULL" comparisons are rewritten to IS NULL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withAdapter(cmd, func(ctx context.Context, a *client.Adapter) error {
				res, err := a.SelectPage(ctx, args[0], page.pagination(cmd))
				if err != nil {
					return err
				}

				if asJSON {
					out, err := json.MarshalIndent(res.Records, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(ui.Out, string(out))
					return nil
				}

				if err := ui.PrintTable(res.Columns, res.Rows(ui.FormatValue)); err != nil {
					return err
				}
				ui.PrintInfo("%d rows in %s", res.Len(), res.Duration)
				return nil
			})
		},
	}

	page.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON objects")

	return cmd
}

// NewExecCommand creates the exec command.
func NewExecCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <sql>",
		Short: "Run a statement that returns no rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withAdapter(cmd, func(ctx context.Context, a *client.Adapter) error {
				n, err := a.Update(ctx, args[0])
				if err != nil {
					return err
				}
				ui.PrintSuccess("%d rows affected", n)
				return nil
			})
		},
	}
}

// NewNextvalCommand creates the nextval command.
func NewNextvalCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "nextval <sequence>",
		Short: "Draw the next value of a sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withAdapter(cmd, func(ctx context.Context, a *client.Adapter) error {
				id, err := a.NextSequenceValue(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(ui.Out, id)
				return nil
			})
		},
	}
}

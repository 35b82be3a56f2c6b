package commands

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ifxgo/adapter/cli/internal/ui"
	migratesql "github.com/ifxgo/adapter/migrate/sqlgen"
	"github.com/ifxgo/adapter/runtime/client"
)

// NewDDLCommand creates the ddl command. Without --apply the statements
// are only printed.
func NewDDLCommand(env *environment) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Render or apply schema statements",
		Long: `Render the Informix DDL for a schema change. Tables are paired with a
{table}_seq sequence. Pass --apply to run the statements.`,
	}
	cmd.PersistentFlags().BoolVar(&apply, "apply", false, "run the statements instead of printing them")

	run := func(cmd *cobra.Command, render func(g *migratesql.InformixMigrationGenerator) ([]string, error),
		exec func(ctx context.Context, a *client.Adapter) error) error {
		if !apply {
			stmts, err := render(migratesql.NewInformixMigrationGenerator())
			if err != nil {
				return err
			}
			ui.PrintSQL(stmts)
			return nil
		}
		return env.withAdapter(cmd, func(ctx context.Context, a *client.Adapter) error {
			if err := exec(ctx, a); err != nil {
				return err
			}
			ui.PrintSuccess("Applied")
			return nil
		})
	}

	var primaryKey string
	createTable := &cobra.Command{
		Use:   "create-table <table> [column:type ...]",
		Short: "Create a table and its sequence",
		Long: `Create a table and its sequence. Columns are written as
name:type, name:type(limit) or name:decimal(precision,scale); a trailing !
makes the column NOT NULL. Example:

  ifxgo ddl create-table items name:string(80)! price:decimal(10,2) body:text`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def := &migratesql.TableDefinition{Name: args[0], PrimaryKey: primaryKey}
			for _, arg := range args[1:] {
				col, err := parseColumnArg(arg)
				if err != nil {
					return err
				}
				def.Columns = append(def.Columns, col)
			}
			return run(cmd,
				func(g *migratesql.InformixMigrationGenerator) ([]string, error) { return g.CreateTable(def) },
				func(ctx context.Context, a *client.Adapter) error { return a.CreateTable(ctx, def) })
		},
	}
	createTable.Flags().StringVar(&primaryKey, "primary-key", "id", "serial primary key column, empty for none")

	dropTable := &cobra.Command{
		Use:   "drop-table <table>",
		Short: "Drop a table and its sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd,
				func(g *migratesql.InformixMigrationGenerator) ([]string, error) { return g.DropTable(args[0]) },
				func(ctx context.Context, a *client.Adapter) error { return a.DropTable(ctx, args[0]) })
		},
	}

	renameTable := &cobra.Command{
		Use:   "rename-table <table> <new-name>",
		Short: "Rename a table and its sequence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd,
				func(g *migratesql.InformixMigrationGenerator) ([]string, error) {
					return g.RenameTable(args[0], args[1])
				},
				func(ctx context.Context, a *client.Adapter) error { return a.RenameTable(ctx, args[0], args[1]) })
		},
	}

	renameColumn := &cobra.Command{
		Use:   "rename-column <table> <column> <new-name>",
		Short: "Rename a column",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd,
				func(g *migratesql.InformixMigrationGenerator) ([]string, error) {
					return g.RenameColumn(args[0], args[1], args[2])
				},
				func(ctx context.Context, a *client.Adapter) error {
					return a.RenameColumn(ctx, args[0], args[1], args[2])
				})
		},
	}

	var index migratesql.IndexOptions
	addIndex := &cobra.Command{
		Use:   "add-index <table> <column> [column ...]",
		Short: "Create an index",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, cols := args[0], args[1:]
			return run(cmd,
				func(g *migratesql.InformixMigrationGenerator) ([]string, error) {
					return g.AddIndex(table, cols, index)
				},
				func(ctx context.Context, a *client.Adapter) error { return a.AddIndex(ctx, table, cols, index) })
		},
	}
	addIndex.Flags().StringVar(&index.Name, "name", "", "index name (default {table}_{column}_index)")
	addIndex.Flags().BoolVar(&index.Unique, "unique", false, "create a unique index")

	cmd.AddCommand(createTable, dropTable, renameTable, renameColumn, addIndex)

	return cmd
}

var columnArgPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):([A-Za-z_]+)(?:\((\d+)(?:,(\d+))?\))?(!)?$`)

// parseColumnArg reads name:type[(n)|(p,s)][!].
func parseColumnArg(arg string) (migratesql.ColumnDefinition, error) {
	m := columnArgPattern.FindStringSubmatch(strings.ReplaceAll(arg, " ", ""))
	if m == nil {
		return migratesql.ColumnDefinition{}, fmt.Errorf("invalid column %q, want name:type[(n)|(p,s)][!]", arg)
	}

	typ, err := migratesql.ParseColumnType(m[2])
	if err != nil {
		return migratesql.ColumnDefinition{}, err
	}

	col := migratesql.ColumnDefinition{Name: m[1], Type: typ}
	col.Options.NotNull = m[5] == "!"

	if m[3] == "" {
		return col, nil
	}
	first, _ := strconv.Atoi(m[3])
	if typ == migratesql.TypeDecimal {
		col.Options.Precision = first
		if m[4] != "" {
			col.Options.Scale, _ = strconv.Atoi(m[4])
		}
		return col, nil
	}
	if m[4] != "" {
		return migratesql.ColumnDefinition{}, fmt.Errorf("invalid column %q: only decimal takes a scale", arg)
	}
	col.Options.Limit = first
	return col, nil
}

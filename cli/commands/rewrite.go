package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ifxgo/adapter/cli/internal/ui"
	"github.com/ifxgo/adapter/cli/internal/watch"
	"github.com/ifxgo/adapter/query/sqlgen"
)

// rewriteOptions are the flags of the rewrite command.
type rewriteOptions struct {
	page         paginationFlags
	serverMajor  int
	literalAware bool
	watch        bool
}

func (o *rewriteOptions) rewriter() *sqlgen.InformixRewriter {
	mode := sqlgen.NullRewriteTextual
	if o.literalAware {
		mode = sqlgen.NullRewriteLiteralAware
	}
	return sqlgen.NewInformixRewriter(sqlgen.NewServerCapabilities(o.serverMajor), sqlgen.WithNullRewriteMode(mode))
}

// NewRewriteCommand creates the rewrite command. It needs no connection.
func NewRewriteCommand() *cobra.Command {
	opts := &rewriteOptions{}

	cmd := &cobra.Command{
		Use:   "rewrite [file]",
		Short: "Print a statement as the adapter would send it",
		Long: `Print a statement after the pagination splice and the null-predicate
rewrite. The statement is read from file, or from stdin when no file is given.
With --watch the file is rendered again every time it is saved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := opts.rewriter()
			page := opts.page.pagination(cmd)

			if opts.watch {
				if len(args) == 0 {
					return fmt.Errorf("--watch needs a file")
				}
				return watchRewrite(cmd.Context(), args[0], r, page)
			}

			sql, err := readStatement(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.RewriteSelect(sql, page))
			return nil
		},
	}

	opts.page.register(cmd)
	cmd.Flags().IntVar(&opts.serverMajor, "server-major", 12, "server major version to render for")
	cmd.Flags().BoolVar(&opts.literalAware, "literal-aware", false, "leave string literals and comments untouched")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "render again whenever the file changes")

	return cmd
}

func readStatement(stdin io.Reader, args []string) (string, error) {
	var data []byte
	var err error
	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("read statement: %w", err)
	}
	return strings.TrimSuffix(strings.TrimSpace(string(data)), ";"), nil
}

func watchRewrite(ctx context.Context, file string, r *sqlgen.InformixRewriter, page sqlgen.Pagination) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := watch.NewWatcher(file, func() error {
		sql, err := readStatement(nil, []string{file})
		if err != nil {
			return err
		}
		ui.PrintEvent("%s", file)
		ui.PrintSQL([]string{r.RewriteSelect(sql, page)})
		return nil
	})
	if err != nil {
		return err
	}

	ui.PrintInfo("Watching %s (Ctrl+C to stop)", file)
	return w.Run(ctx)
}

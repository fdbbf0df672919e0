package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/typediagram/pkg/associations"
	"github.com/matzehuels/typediagram/pkg/diagnostics"
	"github.com/matzehuels/typediagram/pkg/extract"
	pkgio "github.com/matzehuels/typediagram/pkg/io"
	"github.com/matzehuels/typediagram/pkg/model"
)

// extractOpts holds the flags of the extract command.
type extractOpts struct {
	output             string
	exportedOnly       bool
	memberAssociations bool
}

// extractCommand creates the extract command, which exports the declaration
// model instead of drawing it.
func (c *CLI) extractCommand() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract [glob]",
		Short: "Export the declaration model of TypeScript sources as JSON",
		Long: `Export the declaration model of TypeScript sources as JSON.

The model lists every file with its classes, interfaces, type aliases and
enums. It can be edited or produced by other tools and drawn later with
'generate --model'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExtract(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or URL (default: stdout)")
	cmd.Flags().BoolVar(&opts.exportedOnly, "exported-only", false, "only export exported declarations")
	cmd.Flags().BoolVar(&opts.memberAssociations, "member-associations", false, "include associations inferred from property types")
	registerCompletions(cmd)

	return cmd
}

func (c *CLI) runExtract(ctx context.Context, glob string, opts extractOpts) error {
	prog := newProgress(c.Logger)

	x := extract.New(extract.Options{
		ExportedOnly: opts.exportedOnly,
		Sink:         diagnostics.NewLogSink(c.Logger),
	})
	files, err := x.Extract(ctx, glob)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if opts.memberAssociations {
		associations.Resolve(files)
	}
	decls, assocs := model.Count(files)
	prog.done("extracted model", "files", len(files), "declarations", decls)

	if opts.output == "" {
		return pkgio.WriteJSON(files, os.Stdout)
	}
	if err := pkgio.ExportJSON(ctx, files, opts.output); err != nil {
		return err
	}

	printSuccess("Model exported")
	printDetail("%d files · %d declarations · %d associations", len(files), decls, assocs)
	printFile(opts.output)
	return nil
}

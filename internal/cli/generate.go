package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/typediagram/pkg/diagnostics"
	"github.com/matzehuels/typediagram/pkg/pipeline"
)

// generateCommand creates the generate command, the main entry point that
// goes from sources to written diagrams.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		configPath string
		cacheOpts  cacheFlags
	)
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "generate [glob]",
		Short: "Generate class diagrams from TypeScript sources",
		Long: `Generate class diagrams from TypeScript sources.

The generate command extracts every class, interface, type alias and enum
matched by the glob (or reads a JSON model with --model), optionally infers
associations from property types, and writes the diagram as SVG (rendered with
Graphviz), nomnoml, mermaid and/or DOT.

Settings can be kept in a TOML, YAML or JSON file passed with --config; flags
given on the command line take precedence over the file.

Rendered SVGs are cached locally for faster subsequent runs.`,
		Example: `  typediagram generate "src/**/*.ts"
  typediagram generate -g "src/**/*.ts" --member-associations --out-mermaid-dsl docs/types.mmd
  typediagram generate --config typediagram.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if cmd.Flags().Changed("glob") {
					return fmt.Errorf("glob given both as argument and --glob")
				}
				if err := cmd.Flags().Set("glob", args[0]); err != nil {
					return err
				}
			}
			resolved, err := resolveOptions(cmd, configPath, opts)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cmd.ErrOrStderr(), resolved, cacheOpts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (.toml, .yaml or .json)")
	registerOptionFlags(cmd, &opts)
	cacheOpts.register(cmd)
	registerCompletions(cmd)

	return cmd
}

// runGenerate executes the pipeline and writes every configured output.
func (c *CLI) runGenerate(ctx context.Context, status io.Writer, opts pipeline.Options, cacheOpts cacheFlags) error {
	runner, err := c.newRunner(ctx, cacheOpts)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Sink = diagnostics.NewLogSink(c.Logger)

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, status, "Generating diagram...")
	restore := watchStages(spinner)
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	restore()
	if err != nil {
		if spinner.Cancelled() {
			return ctx.Err()
		}
		printError("Generation failed")
		return err
	}

	written, err := runner.WriteOutputs(ctx, result, opts)
	if err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	prog.done("generated diagram", "declarations", result.Stats.DeclarationCount, "outputs", len(written))

	if len(written) == 0 {
		printWarning("No outputs configured")
		return nil
	}
	printSuccess("Diagram generated")
	printStats(result.Stats, result.CacheHit, opts.WantsSVG())
	for _, p := range written {
		printFile(p)
	}
	return nil
}

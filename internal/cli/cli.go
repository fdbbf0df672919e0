// Package cli implements the typediagram command-line interface.
//
// This package provides commands for generating class diagrams from
// TypeScript sources or JSON models, exporting the extracted model, serving
// diagrams over HTTP and managing the render cache. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Write the diagram as SVG, nomnoml, mermaid and/or DOT
//   - extract: Export the declaration model of TypeScript sources as JSON
//   - serve: Run the HTTP preview server
//   - cache: Manage the render cache
//
// # Configuration
//
// generate reads its settings from a TOML, YAML or JSON file given with
// --config. Flags that are set explicitly override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and
// --log-format to switch from text to json or logfmt output.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/typediagram/pkg/buildinfo"
	"github.com/matzehuels/typediagram/pkg/cache"
	"github.com/matzehuels/typediagram/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "typediagram"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Typediagram draws class diagrams of TypeScript code",
		Long:          `Typediagram extracts the classes, interfaces, type aliases and enums of a TypeScript code base and writes them as nomnoml, mermaid or Graphviz class diagrams, with an SVG whose type names link back to their source files.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var (
		verbose   bool
		logFormat string
	)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json or logfmt")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		f, err := parseLogFormat(logFormat)
		if err != nil {
			return err
		}
		c.Logger.SetFormatter(f)
		return nil
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the render cache backend.
type cacheFlags struct {
	noCache  bool
	redisURL string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redisURL, "redis", "", "redis URL of a shared cache (redis://host:6379/0)")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, flags cacheFlags) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, flags)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

// newCache returns the configured cache. A missing cache directory disables
// caching instead of failing.
func (c *CLI) newCache(ctx context.Context, flags cacheFlags) (cache.Cache, error) {
	switch {
	case flags.noCache:
		return cache.NewNullCache(), nil
	case flags.redisURL != "":
		return cache.NewRedisCache(ctx, flags.redisURL)
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/typediagram/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

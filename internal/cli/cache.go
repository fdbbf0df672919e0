package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local render cache",
		Long: `Manage the local render cache.

generate stores every rendered SVG under the cache directory, keyed by a hash
of the DOT document, so unchanged diagrams skip Graphviz on the next run.
Shared caches passed with --redis expire on their own and are not managed here.`,
	}

	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the number and size of cached renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			usage, err := scanDir(dir, false)
			if err != nil {
				return err
			}
			printInfo("%d cached renders, %s", usage.entries, formatBytes(usage.bytes))
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached SVG renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			usage, err := scanDir(dir, true)
			if err != nil {
				return err
			}
			if usage.entries == 0 {
				printInfo("Cache is empty")
				return nil
			}
			c.Logger.Debug("cleared cache", "dir", dir, "entries", usage.entries, "bytes", usage.bytes)

			printSuccess("Cleared %d cached renders (%s)", usage.entries, formatBytes(usage.bytes))
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// dirUsage counts the entries of a cache directory.
type dirUsage struct {
	entries int
	bytes   int64
}

// scanDir counts the cache entries below dir. With remove set it deletes them
// and the shard directories holding them, keeping dir itself. Entries that
// cannot be removed are not counted. A missing dir is empty.
func scanDir(dir string, remove bool) (dirUsage, error) {
	var usage dirUsage
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && os.IsNotExist(err) {
				return fs.SkipAll
			}
			return nil // Skip unreadable entries, continue walking
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if remove {
			if err := os.Remove(path); err != nil {
				return nil
			}
		}
		usage.entries++
		usage.bytes += info.Size()
		return nil
	})
	if err != nil || !remove || usage.entries == 0 {
		return usage, err
	}

	shards, err := os.ReadDir(dir)
	if err != nil {
		return usage, err
	}
	for _, e := range shards {
		if e.IsDir() {
			_ = os.RemoveAll(filepath.Join(dir, e.Name()))
		}
	}
	return usage, nil
}

// formatBytes renders n with a binary unit ("1.5 KiB").
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/typediagram/internal/server"
	"github.com/matzehuels/typediagram/pkg/cache"
	"github.com/matzehuels/typediagram/pkg/pipeline"
)

const defaultAddr = ":8080"

// serveCommand creates the serve command that runs the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisURL  string
		keyPrefix string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP preview server",
		Long: `Run the HTTP preview server.

Clients POST a declaration model (as written by 'extract') to
/api/v1/diagrams and fetch the emitted documents from
/api/v1/diagrams/{id}/{notation}. Diagrams are kept in memory, or in redis
when --redis is given so several servers can share them. --key-prefix keeps
the keys of different deployments apart in one redis database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, keyPrefix)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for diagram storage (redis://host:6379/0)")
	cmd.Flags().StringVar(&keyPrefix, "key-prefix", "", "prefix for all storage keys (e.g. staging:)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisURL, keyPrefix string) error {
	var store cache.Cache = cache.NewMemoryCache()
	if redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, redisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		store = rc
	}

	var keyer cache.Keyer
	if keyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, keyPrefix)
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	printInfo("Serving on %s", StyleLink.Render(addr))
	return server.New(runner, store, c.Logger).ListenAndServe(ctx, addr)
}

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/viant/afs/url"

	"github.com/matzehuels/typediagram/pkg/associations"
	"github.com/matzehuels/typediagram/pkg/cache"
	"github.com/matzehuels/typediagram/pkg/errors"
	pkgio "github.com/matzehuels/typediagram/pkg/io"
	"github.com/matzehuels/typediagram/pkg/links"
	"github.com/matzehuels/typediagram/pkg/model"
	"github.com/matzehuels/typediagram/pkg/observability"
	"github.com/matzehuels/typediagram/pkg/render"
	"github.com/matzehuels/typediagram/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Render turns DOT into SVG. Defaults to Graphviz.
	Render RenderFunc
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Render: nodelink.RenderSVG,
	}
}

// Execute runs the complete load → resolve → emit → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	hooks := observability.Pipeline()

	// Stage 1: Load
	source := opts.Glob
	if source == "" {
		source = opts.Model
	}
	hooks.OnLoadStart(ctx, source)
	loadStart := time.Now()
	files, err := r.Load(ctx, opts)
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, time.Since(loadStart), err)
		return nil, err
	}
	result.Files = files
	result.Stats.LoadTime = time.Since(loadStart)

	// Stage 2: Resolve
	r.Resolve(files, opts)
	result.Stats.FileCount = len(files)
	result.Stats.DeclarationCount, result.Stats.AssociationCount = model.Count(files)
	hooks.OnLoadComplete(ctx, source, result.Stats.DeclarationCount, result.Stats.LoadTime, nil)

	opts.Logger.Info("loaded declarations",
		"files", result.Stats.FileCount,
		"declarations", result.Stats.DeclarationCount,
		"associations", result.Stats.AssociationCount,
		"duration", result.Stats.LoadTime)

	// Stage 3: Emit
	emitStart := time.Now()
	notations := opts.RequiredNotations()
	hooks.OnEmitStart(ctx, notations)
	docs, err := r.Emit(ctx, files, opts, notations...)
	hooks.OnEmitComplete(ctx, notations, time.Since(emitStart), err)
	if err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	result.Documents = docs
	result.Stats.EmitTime = time.Since(emitStart)

	opts.Logger.Info("emitted documents",
		"notations", notations,
		"duration", result.Stats.EmitTime)

	// Stage 4: Render
	if opts.WantsSVG() {
		hooks.OnRenderStart(ctx)
		renderStart := time.Now()
		svg, hit, err := r.RenderSVGWithCacheInfo(ctx, docs[render.NotationDOT])
		hooks.OnRenderComplete(ctx, len(svg), hit, time.Since(renderStart), err)
		if err != nil {
			return nil, err
		}
		if opts.TypeLinks {
			svg = []byte(links.Apply(string(svg), files, linkBase(opts.OutFile), opts.Sink))
		}
		result.SVG = svg
		result.CacheHit = hit
		result.Stats.RenderTime = time.Since(renderStart)

		opts.Logger.Info("rendered svg",
			"bytes", len(svg),
			"cached", hit,
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// Load reads the declaration model selected by opts.
func (r *Runner) Load(ctx context.Context, opts Options) ([]*model.FileDeclaration, error) {
	r.applyLogger(&opts)
	opts.setRuntimeDefaults()
	files, err := Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("loaded model", "files", len(files))
	return files, nil
}

// Resolve attaches member associations to files when they are enabled.
func (r *Runner) Resolve(files []*model.FileDeclaration, opts Options) {
	if !opts.MemberAssociations {
		return
	}
	associations.Resolve(files)
}

// Emit writes files in each notation. See [Emit].
func (r *Runner) Emit(ctx context.Context, files []*model.FileDeclaration, opts Options, notations ...string) (map[string]string, error) {
	r.applyLogger(&opts)
	opts.setRuntimeDefaults()
	return Emit(ctx, files, opts, notations...)
}

// RenderSVGWithCacheInfo renders a DOT document with caching and returns
// cache hit info. Cached entries hold the SVG before link processing, since
// links depend on where the SVG is stored.
func (r *Runner) RenderSVGWithCacheInfo(ctx context.Context, dot string) ([]byte, bool, error) {
	cacheKey := r.Keyer.RenderKey("svg", []byte(dot))

	hooks := observability.Cache()

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		hooks.OnCacheHit(ctx, "render")
		return data, true, nil
	} else if err != nil {
		r.Logger.Warn("cache read failed", "key", cacheKey, "err", err)
	}
	hooks.OnCacheMiss(ctx, "render")

	renderFn := r.Render
	if renderFn == nil {
		renderFn = nodelink.RenderSVG
	}
	svg, err := renderFn(ctx, dot)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeRenderFailed, err, "render svg")
	}

	if err := r.Cache.Set(ctx, cacheKey, svg, cache.TTLRender); err != nil {
		r.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
	} else {
		hooks.OnCacheSet(ctx, "render", len(svg))
	}
	return svg, false, nil
}

// RenderSVG is a convenience wrapper that calls RenderSVGWithCacheInfo and
// discards the cache hit info.
func (r *Runner) RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, _, err := r.RenderSVGWithCacheInfo(ctx, dot)
	return svg, err
}

// WriteOutputs stores the SVG and the documents of a result at the paths
// configured in opts and returns the paths written.
func (r *Runner) WriteOutputs(ctx context.Context, result *Result, opts Options) ([]string, error) {
	outputs := []struct {
		path string
		data []byte
	}{
		{opts.OutFile, result.SVG},
		{opts.OutDsl, []byte(result.Documents[render.NotationNomnoml])},
		{opts.OutMermaidDsl, []byte(result.Documents[render.NotationMermaid])},
		{opts.OutDot, []byte(result.Documents[render.NotationDOT])},
	}

	var written []string
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := pkgio.WriteArtifact(ctx, out.path, out.data); err != nil {
			return written, err
		}
		written = append(written, out.path)
	}
	return written, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// linkBase returns the path links are made relative to. For storage URLs
// only the path component is used, since sources are addressed the same way.
func linkBase(outFile string) string {
	if strings.Contains(outFile, "://") {
		return url.Path(outFile)
	}
	return outFile
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/typediagram/pkg/diagnostics"
	"github.com/matzehuels/typediagram/pkg/model"
	"github.com/matzehuels/typediagram/pkg/render"
	"github.com/matzehuels/typediagram/pkg/render/mermaid"
	"github.com/matzehuels/typediagram/pkg/render/nodelink"
	"github.com/matzehuels/typediagram/pkg/render/nomnoml"
)

// RenderFunc turns a DOT document into SVG.
type RenderFunc func(ctx context.Context, dot string) ([]byte, error)

// NewTemplate returns the template for notation, configured from opts.
func NewTemplate(notation string, opts Options) (render.Template, error) {
	if err := ValidateNotation(notation); err != nil {
		return nil, err
	}
	ro := opts.RenderOptions()
	switch notation {
	case render.NotationMermaid:
		return mermaid.New(ro, opts.Mermaid...), nil
	case render.NotationDOT:
		return nodelink.New(ro, opts.Dot...), nil
	default:
		return nomnoml.New(ro, opts.Nomnoml...), nil
	}
}

// Emit writes files in every notation, each in its own goroutine. The model
// is only read, so no coordination beyond collecting the documents is
// needed.
func Emit(ctx context.Context, files []*model.FileDeclaration, opts Options, notations ...string) (map[string]string, error) {
	templates := make(map[string]render.Template, len(notations))
	for _, n := range notations {
		tmpl, err := NewTemplate(n, opts)
		if err != nil {
			return nil, err
		}
		templates[n] = tmpl
	}

	sink := diagnostics.OrNull(opts.Sink)
	var mu sync.Mutex
	docs := make(map[string]string, len(templates))

	g, ctx := errgroup.WithContext(ctx)
	for n, tmpl := range templates {
		g.Go(func() error {
			doc := render.Emit(files, tmpl, sink)
			mu.Lock()
			docs[n] = doc
			mu.Unlock()
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

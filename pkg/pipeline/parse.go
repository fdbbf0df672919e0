package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/typediagram/pkg/diagnostics"
	"github.com/matzehuels/typediagram/pkg/extract"
	pkgio "github.com/matzehuels/typediagram/pkg/io"
	"github.com/matzehuels/typediagram/pkg/model"
)

// Parse loads the declaration model: it imports opts.Model when set and
// otherwise extracts the sources selected by opts.Glob. A selection without
// any source file is not an error: it is reported to opts.Sink and the
// emitters draw their placeholder for it.
func Parse(ctx context.Context, opts Options) ([]*model.FileDeclaration, error) {
	if opts.Model != "" {
		files, err := pkgio.ImportJSON(ctx, opts.Model)
		if err != nil {
			return nil, fmt.Errorf("import model: %w", err)
		}
		if len(files) == 0 {
			diagnostics.OrNull(opts.Sink).Warn("model contains no files", "model", opts.Model)
		}
		return files, nil
	}

	x := extract.New(extract.Options{
		ExportedOnly: opts.ExportedOnly,
		Sink:         opts.Sink,
	})
	files, err := x.Extract(ctx, opts.Glob)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	if len(files) == 0 {
		diagnostics.OrNull(opts.Sink).Warn("no source files match", "glob", opts.Glob)
	}
	return files, nil
}

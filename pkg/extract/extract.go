// Package extract produces the declaration model from TypeScript sources.
//
// Sources are parsed with tree-sitter (TypeScript and TSX grammars). Every
// top-level class, abstract class, interface, object-literal type alias and
// enum becomes a [model.Declaration]; member types that name other analyzed
// declarations, directly or through relative imports, become type ids.
//
// # Usage
//
//	x := extract.New(extract.Options{ExportedOnly: true})
//	files, err := x.Extract(ctx, "src/**/*.ts")
//
// Globs may be local paths or any URL that github.com/viant/afs can walk,
// such as "mem://localhost/src/**/*.ts" in tests.
package extract

import (
	"context"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/matzehuels/typediagram/pkg/diagnostics"
	"github.com/matzehuels/typediagram/pkg/errors"
	"github.com/matzehuels/typediagram/pkg/model"
)

// Source is one file handed to the extractor.
type Source struct {
	Path string
	Code []byte
}

// Options configures an Extractor.
type Options struct {
	// ExportedOnly drops declarations that are not exported.
	ExportedOnly bool

	// Sink receives syntax warnings. Nil discards them.
	Sink diagnostics.Sink
}

// Extractor turns TypeScript sources into file declarations.
type Extractor struct {
	opts Options
	fs   afs.Service
}

// New creates an Extractor backed by the default afs service.
func New(opts Options) *Extractor {
	opts.Sink = diagnostics.OrNull(opts.Sink)
	return &Extractor{opts: opts, fs: afs.New()}
}

// Extract reads every file selected by glob and extracts its declarations.
func (x *Extractor) Extract(ctx context.Context, glob string) ([]*model.FileDeclaration, error) {
	sources, err := x.Sources(ctx, glob)
	if err != nil {
		return nil, err
	}
	return x.ExtractSources(ctx, sources)
}

// Sources returns the .ts and .tsx files selected by glob, sorted by path.
// Declaration files (.d.ts) and node_modules are skipped.
func (x *Extractor) Sources(ctx context.Context, glob string) ([]Source, error) {
	g, err := compileGlob(glob)
	if err != nil {
		return nil, err
	}

	var sources []Source
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			name := info.Name()
			return name != "node_modules" && !strings.HasPrefix(name, "."), nil
		}
		fileURL := url.Join(baseURL, path.Join(parent, info.Name()))
		p := url.Path(fileURL)
		if !isSource(p) || !g.match(p) {
			return true, nil
		}

		var code []byte
		var err error
		if reader != nil {
			code, err = io.ReadAll(reader)
		} else {
			code, err = x.fs.DownloadWithURL(ctx, fileURL)
		}
		if err != nil {
			return false, errors.Wrap(errors.ErrCodeStorage, err, "read %s", fileURL)
		}
		sources = append(sources, Source{Path: p, Code: code})
		return true, nil
	}

	if err := x.fs.Walk(ctx, g.root, visitor); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "walk %s", g.root)
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })
	return sources, nil
}

func isSource(p string) bool {
	if strings.HasSuffix(p, ".d.ts") {
		return false
	}
	ext := path.Ext(p)
	return ext == ".ts" || ext == ".tsx"
}

// ExtractSources parses sources and resolves type references across them.
// The result has one FileDeclaration per source, in input order.
func (x *Extractor) ExtractSources(ctx context.Context, sources []Source) ([]*model.FileDeclaration, error) {
	tsParser := sitter.NewParser()
	tsParser.SetLanguage(typescript.GetLanguage())
	tsxParser := sitter.NewParser()
	tsxParser.SetLanguage(tsx.GetLanguage())

	r := &resolver{
		files: make(map[string]*parsedFile),
		decls: make(map[string]*model.Declaration),
	}
	parsed := make([]*parsedFile, 0, len(sources))

	for _, s := range sources {
		parser := tsParser
		if path.Ext(s.Path) == ".tsx" {
			parser = tsxParser
		}
		tree, err := parser.ParseCtx(ctx, nil, s.Code)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "parse %s", s.Path)
		}
		defer tree.Close()

		root := tree.RootNode()
		if root.HasError() {
			x.opts.Sink.Warn("source has syntax errors", "file", s.Path)
		}

		p := slashPath(s.Path)
		f := &parsedFile{
			path:     p,
			stem:     strings.TrimSuffix(p, path.Ext(p)),
			src:      s.Code,
			imports:  make(map[string]importRef),
			exported: make(map[string]bool),
		}
		f.collect(root)

		parsed = append(parsed, f)
		r.files[f.stem] = f
		for _, pd := range f.decls {
			if _, ok := r.decls[pd.decl.ID]; !ok {
				r.decls[pd.decl.ID] = pd.decl
			}
		}
	}

	out := make([]*model.FileDeclaration, 0, len(parsed))
	for _, f := range parsed {
		fd := &model.FileDeclaration{FileName: f.path}
		for _, pd := range f.decls {
			r.members(f, pd)
			if x.opts.ExportedOnly && !pd.decl.Exported {
				continue
			}
			fd.Add(pd.decl)
		}
		out = append(out, fd)
	}
	return out, nil
}

func slashPath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// =============================================================================
// Resolution
// =============================================================================

type resolver struct {
	files map[string]*parsedFile // by stem
	decls map[string]*model.Declaration
}

// resolve maps a type name used in f to the id of an analyzed declaration:
// first a declaration of f itself, then a relative import.
func (r *resolver) resolve(f *parsedFile, name string) (string, bool) {
	id := `"` + f.stem + `".` + name
	if _, ok := r.decls[id]; ok {
		return id, true
	}

	imp, ok := f.imports[name]
	if !ok {
		return "", false
	}
	target := r.module(imp.stem)
	if target == nil {
		return "", false
	}
	exported := imp.name
	if exported == "default" {
		exported = target.defaultName
	}
	id = `"` + target.stem + `".` + exported
	if _, ok := r.decls[id]; ok {
		return id, true
	}
	return "", false
}

// module finds the analyzed file an import specifier points at, trying the
// specifier as written, without a .js extension and as a directory index.
func (r *resolver) module(stem string) *parsedFile {
	candidates := []string{
		stem,
		strings.TrimSuffix(stem, ".js"),
		stem + "/index",
	}
	for _, c := range candidates {
		if f, ok := r.files[c]; ok {
			return f
		}
	}
	return nil
}

// joinModule resolves a relative import specifier against the importing
// file's stem.
func joinModule(fromStem, spec string) string {
	return path.Join(path.Dir(fromStem), spec)
}

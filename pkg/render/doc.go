// Package render turns a declaration model into diagram source text.
//
// # Overview
//
// A [Template] knows how to write every diagram element (class, interface,
// type alias, enum, extension and implementation edges, associations) in one
// notation's grammar. The [Emit] function walks the model in a fixed order and
// asks the template for one fragment per element, so adding a notation means
// writing a template and nothing else.
//
// Notations live in subpackages:
//
//   - [nomnoml]: nomnoml source, rendered by the nomnoml tool
//   - [mermaid]: mermaid classDiagram source
//   - [nodelink]: Graphviz DOT source plus in-process SVG rendering
//
// # Usage
//
//	opts := render.Options{MemberTypes: true, Modifiers: true}
//	doc := render.Emit(files, mermaid.New(opts), sink)
//
// Emission only reads the model, so several notations can be emitted from the
// same model at the same time.
//
// # Escaping
//
// Each template owns one escaping function for its grammar and applies it to
// names and type texts right before embedding them, never to its own glyphs.
// [MemberStyle] carries that function into the shared member composition.
//
// [nomnoml]: github.com/matzehuels/typediagram/pkg/render/nomnoml
// [mermaid]: github.com/matzehuels/typediagram/pkg/render/mermaid
// [nodelink]: github.com/matzehuels/typediagram/pkg/render/nodelink
package render

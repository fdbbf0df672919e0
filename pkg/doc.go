// Package pkg provides the core libraries for Typediagram class diagrams.
//
// # Overview
//
// Typediagram turns the declarations of a TypeScript code base into class
// diagrams. Classes, interfaces, type aliases and enums become boxes, heritage
// clauses become generalization and realization edges, and typed properties
// can become associations. The pkg directory is organized into these areas:
//
//  1. [model] - The declaration model shared by every stage
//  2. [extract] - TypeScript parsing (tree-sitter) into the model
//  3. [associations] - Member associations between declarations
//  4. [render] - Notation templates (nomnoml, mermaid, Graphviz DOT)
//  5. [pipeline] - Orchestration (load → resolve → emit → render)
//
// # Architecture
//
// The typical data flow through Typediagram:
//
//	TypeScript sources (glob)      JSON model
//	         ↓                         ↓
//	    [extract] package          [io] package
//	         ↓                         ↓
//	          [model] declarations
//	                  ↓
//	    [associations] package (optional)
//	                  ↓
//	    [render] package (one document per notation)
//	                  ↓
//	    [render/nodelink] (DOT → SVG) → [links] (type names → source files)
//
// # Quick Start
//
// Extract declarations and emit a mermaid diagram:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/typediagram/pkg/associations"
//	    "github.com/matzehuels/typediagram/pkg/extract"
//	    "github.com/matzehuels/typediagram/pkg/render"
//	    "github.com/matzehuels/typediagram/pkg/render/mermaid"
//	)
//
//	// 1. Extract declarations
//	files, _ := extract.New(extract.Options{}).Extract(context.Background(), "src/**/*.ts")
//
//	// 2. Resolve member associations
//	associations.Resolve(files)
//
//	// 3. Emit the diagram
//	doc := render.Emit(files, mermaid.New(render.DefaultOptions()), nil)
//
// The [pipeline] package runs the same steps with caching and is what the
// CLI and the HTTP server use.
//
// # Main Packages
//
// ## Domain
//
// [model] - Declarations, members, heritage clauses and associations grouped
// per source file. Declarations are addressed by IDs of the form
// "path/to/file.ts#Name".
//
// [extract] - Walks a glob, parses every .ts/.tsx file with tree-sitter and
// resolves imported names to declaration IDs.
//
// [associations] - Derives associations from property types, with
// multiplicities taken from array and optional syntax.
//
// ## Notations
//
// [render] - The [render.Template] interface and [render.Emit], which writes
// headers, declarations, heritage and associations in a fixed order.
//
//   - [render/nomnoml]: nomnoml source
//   - [render/mermaid]: mermaid classDiagram source
//   - [render/nodelink]: Graphviz DOT with HTML labels, rendered to SVG
//
// [links] - Wraps type names in the rendered SVG with links to the files that
// declare them.
//
// ## Infrastructure
//
// [pipeline] - The complete load → resolve → emit → render pipeline used by
// the CLI and the server. Ensures consistent behavior across entry points.
//
// [cache] - Render cache backends: null, memory, file (CLI) and Redis (shared).
//
// [io] - JSON import and export of the model and artifact writing through
// any storage URL.
//
// [diagnostics] - Non-fatal warnings raised while extracting and rendering.
//
// [errors] - Error codes and user-facing messages.
//
// [observability] - Hooks for metrics and tracing of pipeline stages.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/render/...        # Specific package
//	go test -run Example ./pkg/...  # Examples only
//
// [model]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/model
// [extract]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/extract
// [associations]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/associations
// [render]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/render
// [render/nomnoml]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/render/nomnoml
// [render/mermaid]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/render/mermaid
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/render/nodelink
// [links]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/links
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/io
// [diagnostics]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/diagnostics
// [errors]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/typediagram/pkg/observability
package pkg

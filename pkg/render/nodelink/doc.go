// Package nodelink renders class diagrams as Graphviz node-link drawings.
//
// # Overview
//
// [Template] writes Graphviz DOT source: every declaration becomes a record
// node whose fields hold the title, the properties and the methods, and
// heritage and association edges become arrows between those nodes.
// Interfaces, type aliases and enums get a guillemet classifier line and a
// fill color (light blue, light gray, light green).
//
// # Usage
//
// Emit DOT through the render package, then render it to SVG in-process:
//
//	dot := render.Emit(files, nodelink.New(opts), sink)
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Extra graph attributes ("rankdir=LR", "splines=ortho") may be passed to
// [New] and are written into the graph header.
//
// # Linking
//
// The SVG produced by [RenderSVG] declares the xlink namespace so the link
// post-processor can wrap labels in anchors pointing at source files.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink

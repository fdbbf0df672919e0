package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/typediagram/pkg/model"
	"github.com/matzehuels/typediagram/pkg/render"
)

var header = []string{
	"rankdir=TB;",
	`bgcolor="transparent";`,
	`node [shape=record, style=filled, fillcolor=white, fontname="Helvetica", fontsize=10];`,
	`edge [fontname="Helvetica", fontsize=9];`,
	"ranksep=0.5;",
	"nodesep=0.3;",
}

var (
	recordEscaper = strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		`{`, `\{`,
		`}`, `\}`,
		`|`, `\|`,
		`<`, `\<`,
		`>`, `\>`,
	)
	idEscaper = strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
	)
)

// EscapeRecord escapes text placed inside a record label.
func EscapeRecord(s string) string {
	return recordEscaper.Replace(s)
}

// EscapeID escapes text placed inside a quoted node id or edge label.
func EscapeID(s string) string {
	return idEscaper.Replace(s)
}

var style = render.MemberStyle{
	Escape: EscapeRecord,
	Prefix: func(m model.Modifiers) string {
		p := render.VisibilityGlyph(m, "#")
		if m.Has(model.Static) {
			p += "static "
		}
		if m.Has(model.Abstract) {
			p += "abstract "
		}
		return p
	},
}

// Template writes Graphviz DOT source.
type Template struct {
	opts  render.Options
	attrs []string
}

// New creates a DOT template. attrs are extra graph attribute statements
// such as "rankdir=LR".
func New(opts render.Options, attrs ...string) *Template {
	return &Template{opts: opts, attrs: attrs}
}

func (t *Template) node(classifier, fill string, d *model.Declaration, sections ...[]string) string {
	title := EscapeRecord(d.Name)
	if classifier != "" {
		title = "«" + classifier + "»\\n" + title
	}

	fields := []string{title}
	for _, lines := range sections {
		var b strings.Builder
		for _, l := range lines {
			b.WriteString(l)
			b.WriteString(`\l`)
		}
		fields = append(fields, b.String())
	}

	attrs := []string{fmt.Sprintf(`label="{%s}"`, strings.Join(fields, "|"))}
	if fill != "" {
		attrs = append(attrs, "fillcolor="+fill)
	}
	return fmt.Sprintf("%s [%s];", t.TypeRef(d.Name), strings.Join(attrs, ", "))
}

// Class writes a record node with property and method sections.
func (t *Template) Class(d *model.Declaration) string {
	return t.node("", "", d, t.opts.Properties(d, style), t.opts.Methods(d, style))
}

// Interface writes a light blue record node marked «interface».
func (t *Template) Interface(d *model.Declaration) string {
	return t.node("interface", "lightblue", d, t.opts.Properties(d, style), t.opts.Methods(d, style))
}

// TypeAlias writes a light gray record node marked «type».
func (t *Template) TypeAlias(d *model.Declaration) string {
	return t.node("type", "lightgray", d, t.opts.Properties(d, style), t.opts.Methods(d, style))
}

// Enum writes a light green record node listing the members.
func (t *Template) Enum(d *model.Declaration) string {
	items := make([]string, len(d.Items))
	for i, item := range d.Items {
		items[i] = EscapeRecord(item)
	}
	return t.node("enumeration", "lightgreen", d, items)
}

// Extends writes an edge with a hollow arrowhead at base.
func (t *Template) Extends(base, derived string) string {
	return fmt.Sprintf("%s -> %s [dir=back, arrowtail=empty];", t.TypeRef(base), t.TypeRef(derived))
}

// Implements writes a dashed edge with a hollow arrowhead at iface.
func (t *Template) Implements(iface, impl string) string {
	return fmt.Sprintf("%s -> %s [dir=back, arrowtail=empty, style=dashed];", t.TypeRef(iface), t.TypeRef(impl))
}

// TypeRef writes the quoted node id of a declared type.
func (t *Template) TypeRef(name string) string {
	return `"` + EscapeID(name) + `"`
}

// Association writes an undirected edge labelled with the multiplicities.
func (t *Template) Association(a *model.Association) string {
	attrs := []string{"dir=none"}
	if a.A.Multiplicity != "" {
		attrs = append(attrs, fmt.Sprintf(`taillabel="%s"`, EscapeID(a.A.Multiplicity)))
	}
	if a.B.Multiplicity != "" {
		attrs = append(attrs, fmt.Sprintf(`headlabel="%s"`, EscapeID(a.B.Multiplicity)))
	}
	return fmt.Sprintf("%s -> %s [%s];", t.TypeRef(a.A.Name), t.TypeRef(a.B.Name), strings.Join(attrs, ", "))
}

// Placeholder writes message as a note-shaped node.
func (t *Template) Placeholder(message string) string {
	return t.TypeRef(message) + " [shape=note];"
}

// Frame wraps the body in a digraph with default and user attributes.
func (t *Template) Frame(body string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	for _, line := range header {
		buf.WriteString("  " + line + "\n")
	}
	for _, attr := range t.attrs {
		attr = strings.TrimSpace(attr)
		if !strings.HasSuffix(attr, ";") {
			attr += ";"
		}
		buf.WriteString("  " + attr + "\n")
	}
	buf.WriteString("\n")
	for _, line := range strings.Split(body, "\n") {
		buf.WriteString("  " + line + "\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

var (
	_ render.Template = (*Template)(nil)
	_ render.Framer   = (*Template)(nil)
)

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching pixel size. The xlink namespace is kept for type links.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

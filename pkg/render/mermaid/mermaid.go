// Package mermaid writes class diagrams as mermaid classDiagram source.
package mermaid

import (
	"strings"

	"github.com/matzehuels/typediagram/pkg/model"
	"github.com/matzehuels/typediagram/pkg/render"
)

const indent = "  "

// Generic brackets become mermaid's ~T~ syntax; braces would close the class
// body and are written as entity codes.
var escaper = strings.NewReplacer(
	"<", "~",
	">", "~",
	"{", "#123;",
	"}", "#125;",
)

// Escape rewrites the characters mermaid cannot take literally.
func Escape(s string) string {
	return escaper.Replace(s)
}

var style = render.MemberStyle{
	Escape: Escape,
	Prefix: func(m model.Modifiers) string {
		return render.VisibilityGlyph(m, "#")
	},
	Suffix: func(m model.Modifiers) string {
		s := ""
		if m.Has(model.Static) {
			s += "$"
		}
		if m.Has(model.Abstract) {
			s += "*"
		}
		return s
	},
	ReturnSeparator: " ",
}

// Template writes mermaid source.
type Template struct {
	opts       render.Options
	directives []string
}

// New creates a mermaid template. directives are extra lines placed right
// after the classDiagram keyword, such as "direction RL".
func New(opts render.Options, directives ...string) *Template {
	return &Template{opts: opts, directives: directives}
}

func (t *Template) block(annotation string, d *model.Declaration, lines []string) string {
	var b strings.Builder
	b.WriteString("class ")
	b.WriteString(Escape(d.Name))
	b.WriteString(" {\n")
	if annotation != "" {
		b.WriteString(indent + "<<" + annotation + ">>\n")
	}
	for _, l := range lines {
		b.WriteString(indent + l + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func (t *Template) members(d *model.Declaration) []string {
	return append(t.opts.Properties(d, style), t.opts.Methods(d, style)...)
}

// Class writes a class block.
func (t *Template) Class(d *model.Declaration) string {
	return t.block("", d, t.members(d))
}

// Interface writes a class block annotated <<interface>>.
func (t *Template) Interface(d *model.Declaration) string {
	return t.block("interface", d, t.members(d))
}

// TypeAlias writes a class block annotated <<type>>.
func (t *Template) TypeAlias(d *model.Declaration) string {
	return t.block("type", d, t.members(d))
}

// Enum writes a class block annotated <<enumeration>> listing the members.
func (t *Template) Enum(d *model.Declaration) string {
	items := make([]string, len(d.Items))
	for i, item := range d.Items {
		items[i] = Escape(item)
	}
	return t.block("enumeration", d, items)
}

// Extends writes an inheritance arrow from derived to base.
func (t *Template) Extends(base, derived string) string {
	return t.TypeRef(base) + "<|--" + t.TypeRef(derived)
}

// Implements writes a realization arrow from impl to iface.
func (t *Template) Implements(iface, impl string) string {
	return t.TypeRef(iface) + "<|.." + t.TypeRef(impl)
}

// TypeRef writes the escaped name of a declared type.
func (t *Template) TypeRef(name string) string {
	return Escape(name)
}

// Association writes a link with quoted multiplicities on each end.
func (t *Template) Association(a *model.Association) string {
	parts := []string{t.TypeRef(a.A.Name)}
	if a.A.Multiplicity != "" {
		parts = append(parts, `"`+a.A.Multiplicity+`"`)
	}
	parts = append(parts, "--")
	if a.B.Multiplicity != "" {
		parts = append(parts, `"`+a.B.Multiplicity+`"`)
	}
	parts = append(parts, t.TypeRef(a.B.Name))
	return strings.Join(parts, " ")
}

// Placeholder writes message as a diagram note.
func (t *Template) Placeholder(message string) string {
	return `note "` + strings.ReplaceAll(message, `"`, "#quot;") + `"`
}

// Frame prepends the classDiagram keyword and user directives.
func (t *Template) Frame(body string) string {
	lines := make([]string, 0, len(t.directives)+2)
	lines = append(lines, "classDiagram")
	lines = append(lines, t.directives...)
	lines = append(lines, body)
	return strings.Join(lines, "\n") + "\n"
}

var (
	_ render.Template = (*Template)(nil)
	_ render.Framer   = (*Template)(nil)
)

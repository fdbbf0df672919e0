// Package nomnoml writes class diagrams in nomnoml syntax.
//
// Classes render as [Name|properties|methods] boxes, interfaces, type aliases
// and enums use the <interface>, <type> and <enumeration> classifiers, which
// the document header styles with fill colors:
//
//	#.interface: fill=lightblue
//	#.enumeration: fill=lightgreen
//	#.type: fill=lightgray
//	[<interface>Weapon|+damage: number|+strike(): void]
//	[Weapon]<:--[Katana]
//
// Extra directives (layout, styling) passed to [New] are appended to the
// header verbatim.
package nomnoml

import (
	"strings"

	"github.com/matzehuels/typediagram/pkg/model"
	"github.com/matzehuels/typediagram/pkg/render"
)

var header = []string{
	"#.interface: fill=lightblue",
	"#.enumeration: fill=lightgreen",
	"#.type: fill=lightgray",
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`[`, `\[`,
	`]`, `\]`,
	`|`, `\|`,
	`#`, `\#`,
)

// Escape prefixes the characters nomnoml reserves with a backslash.
func Escape(s string) string {
	return escaper.Replace(s)
}

var style = render.MemberStyle{
	Escape: Escape,
	Prefix: func(m model.Modifiers) string {
		p := render.VisibilityGlyph(m, `\#`)
		if m.Has(model.Static) {
			p += "static "
		}
		if m.Has(model.Abstract) {
			p += "abstract "
		}
		return p
	},
}

// Template writes nomnoml source.
type Template struct {
	opts       render.Options
	directives []string
}

// New creates a nomnoml template. directives are extra header lines such as
// "#direction: right".
func New(opts render.Options, directives ...string) *Template {
	return &Template{opts: opts, directives: directives}
}

func (t *Template) box(classifier string, d *model.Declaration) string {
	return "[" + classifier + Escape(d.Name) +
		"|" + strings.Join(t.opts.Properties(d, style), ";") +
		"|" + strings.Join(t.opts.Methods(d, style), ";") + "]"
}

// Class writes a class box.
func (t *Template) Class(d *model.Declaration) string { return t.box("", d) }

// Interface writes a box with the <interface> classifier.
func (t *Template) Interface(d *model.Declaration) string { return t.box("<interface>", d) }

// TypeAlias writes a box with the <type> classifier.
func (t *Template) TypeAlias(d *model.Declaration) string { return t.box("<type>", d) }

// Enum writes an <enumeration> box listing the members.
func (t *Template) Enum(d *model.Declaration) string {
	items := make([]string, len(d.Items))
	for i, item := range d.Items {
		items[i] = Escape(item)
	}
	return "[<enumeration>" + Escape(d.Name) + "|" + strings.Join(items, ";") + "]"
}

// Extends writes a generalization edge from derived to base.
func (t *Template) Extends(base, derived string) string {
	return t.TypeRef(base) + "<:-" + t.TypeRef(derived)
}

// Implements writes a dashed realization edge from impl to iface.
func (t *Template) Implements(iface, impl string) string {
	return t.TypeRef(iface) + "<:--" + t.TypeRef(impl)
}

// TypeRef writes the bracketed, escaped name of a declared type.
func (t *Template) TypeRef(name string) string {
	return "[" + Escape(name) + "]"
}

// Association writes an undirected edge with the multiplicity of each end.
func (t *Template) Association(a *model.Association) string {
	parts := []string{t.TypeRef(a.A.Name)}
	if a.A.Multiplicity != "" {
		parts = append(parts, a.A.Multiplicity)
	}
	parts = append(parts, "-")
	if a.B.Multiplicity != "" {
		parts = append(parts, a.B.Multiplicity)
	}
	parts = append(parts, t.TypeRef(a.B.Name))
	return strings.Join(parts, " ")
}

// Placeholder writes message as a lone box.
func (t *Template) Placeholder(message string) string {
	return t.TypeRef(message)
}

// Frame prepends the classifier styles and user directives.
func (t *Template) Frame(body string) string {
	lines := make([]string, 0, len(header)+len(t.directives)+1)
	lines = append(lines, header...)
	lines = append(lines, t.directives...)
	lines = append(lines, body)
	return strings.Join(lines, "\n")
}

var (
	_ render.Template = (*Template)(nil)
	_ render.Framer   = (*Template)(nil)
)

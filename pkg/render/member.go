package render

import (
	"strings"

	"github.com/matzehuels/typediagram/pkg/model"
)

// MemberStyle holds the notation-specific parts of a member line.
type MemberStyle struct {
	// Escape is applied to member names and type texts.
	Escape func(string) string

	// Prefix returns the visibility glyph and any leading modifier words.
	Prefix func(model.Modifiers) string

	// Suffix returns trailing classifier glyphs, if the notation has any.
	Suffix func(model.Modifiers) string

	// ReturnSeparator sits between "name()" and the return type.
	// ": " is used when empty.
	ReturnSeparator string
}

// Property writes <prefix><name><?>: <type><suffix>.
func (o Options) Property(m model.Member, s MemberStyle) string {
	var b strings.Builder
	b.WriteString(s.escape(m.Name))
	if m.Optional {
		b.WriteString("?")
	}
	if o.MemberTypes && m.Type != "" {
		b.WriteString(": ")
		b.WriteString(s.escape(m.Type))
	}
	return o.decorate(b.String(), m.Modifiers, s)
}

// Method writes <prefix><name>()<sep><return type><suffix>.
func (o Options) Method(m model.Member, s MemberStyle) string {
	var b strings.Builder
	b.WriteString(s.escape(m.Name))
	b.WriteString("()")
	if o.MemberTypes && m.Type != "" {
		sep := s.ReturnSeparator
		if sep == "" {
			sep = ": "
		}
		b.WriteString(sep)
		b.WriteString(s.escape(m.Type))
	}
	return o.decorate(b.String(), m.Modifiers, s)
}

// Properties writes every property of d.
func (o Options) Properties(d *model.Declaration, s MemberStyle) []string {
	out := make([]string, len(d.Properties))
	for i, m := range d.Properties {
		out[i] = o.Property(m, s)
	}
	return out
}

// Methods writes every method of d.
func (o Options) Methods(d *model.Declaration, s MemberStyle) []string {
	out := make([]string, len(d.Methods))
	for i, m := range d.Methods {
		out[i] = o.Method(m, s)
	}
	return out
}

func (o Options) decorate(line string, mods model.Modifiers, s MemberStyle) string {
	if !o.Modifiers {
		return line
	}
	if s.Prefix != nil {
		line = s.Prefix(mods) + line
	}
	if s.Suffix != nil {
		line += s.Suffix(mods)
	}
	return line
}

func (s MemberStyle) escape(str string) string {
	if s.Escape == nil {
		return str
	}
	return s.Escape(str)
}

// VisibilityGlyph returns the UML glyph for the visibility of mods, with the
// protected glyph supplied by the caller since some notations reserve "#".
func VisibilityGlyph(mods model.Modifiers, protected string) string {
	switch mods.Visibility() {
	case model.Private:
		return "-"
	case model.Protected:
		return protected
	default:
		return "+"
	}
}

package render

import (
	"strings"

	"github.com/matzehuels/typediagram/pkg/diagnostics"
	"github.com/matzehuels/typediagram/pkg/model"
)

// PlaceholderMessage is drawn when a model yields no elements at all.
const PlaceholderMessage = "Could not process any class / interface / enum / type"

// Fragments returns one fragment per diagram element. Per file, in order:
// classes, interfaces, enums, type aliases, heritage edges, associations.
// An empty result is replaced by a single placeholder fragment and reported
// as an error to sink.
func Fragments(files []*model.FileDeclaration, tmpl Template, sink diagnostics.Sink) []string {
	sink = diagnostics.OrNull(sink)

	var out []string
	for _, f := range files {
		sink.Info("emitting", "file", f.FileName)

		for _, d := range f.Classes {
			out = append(out, tmpl.Class(d))
		}
		for _, d := range f.Interfaces {
			out = append(out, tmpl.Interface(d))
		}
		for _, d := range f.Enums {
			out = append(out, tmpl.Enum(d))
		}
		for _, d := range f.Types {
			out = append(out, tmpl.TypeAlias(d))
		}
		for _, h := range f.HeritageClauses() {
			if h.Type == model.Extends {
				out = append(out, tmpl.Extends(h.Clause, h.Owner))
			} else {
				out = append(out, tmpl.Implements(h.Clause, h.Owner))
			}
		}
		for _, a := range f.Associations {
			out = append(out, tmpl.Association(a))
		}
	}

	if len(out) == 0 {
		sink.Error(PlaceholderMessage)
		out = append(out, tmpl.Placeholder(PlaceholderMessage))
	}
	return out
}

// Emit returns the complete document for files in the notation of tmpl.
func Emit(files []*model.FileDeclaration, tmpl Template, sink diagnostics.Sink) string {
	body := strings.Join(Fragments(files, tmpl, sink), "\n")
	if f, ok := tmpl.(Framer); ok {
		return f.Frame(body)
	}
	return body
}

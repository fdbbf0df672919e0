// Package links turns the text labels of a rendered SVG diagram into
// hyperlinks to the source files that declare the labelled types.
//
// Only the generic "<text ...>label</text>" shape of SVG output is inspected,
// so the package works with any renderer that writes one text element per
// line, which Graphviz does.
//
// A label is linked when it equals the display name of a known class,
// interface, enum or type alias. The link target is the declaring source file,
// relative to the directory of the diagram when its path is known and
// absolute otherwise. The anchor id is "<path>.<Name>" so anchors stay unique
// when several files declare types of the same name.
package links

import (
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/typediagram/pkg/diagnostics"
	"github.com/matzehuels/typediagram/pkg/model"
)

var labelRe = regexp.MustCompile(`>(.*)<`)

type target struct {
	decl *model.Declaration
	file *model.FileDeclaration
}

// Apply wraps every type label in svg with an anchor. diagramPath is where
// the SVG will be stored; pass "" for absolute link targets. Labels that do
// not name a known type are left untouched.
func Apply(svg string, files []*model.FileDeclaration, diagramPath string, sink diagnostics.Sink) string {
	sink = diagnostics.OrNull(sink)
	targets := index(files)
	if len(targets) == 0 {
		return svg
	}

	lines := strings.Split(svg, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "<text") {
			continue
		}
		m := labelRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		name := html.UnescapeString(m[1])
		t, ok := targets[name]
		if !ok {
			continue
		}
		path := t.decl.RelativeFilePath(filepath.Ext(t.file.FileName), diagramPath, sink)
		if path == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		lines[i] = indent + anchor(path, t.decl.Name, trimmed)
	}
	return strings.Join(lines, "\n")
}

func anchor(path, name, element string) string {
	return `<a id="` + html.EscapeString(path) + "." + html.EscapeString(name) +
		`" xlink:href="` + html.EscapeString(path) + `">` + element + "</a>"
}

// index maps display names to declarations. Classes take precedence over
// interfaces, then enums, then type aliases; within a kind the first file
// wins.
func index(files []*model.FileDeclaration) map[string]target {
	out := make(map[string]target)
	add := func(f *model.FileDeclaration, decls []*model.Declaration) {
		for _, d := range decls {
			if _, ok := out[d.Name]; !ok {
				out[d.Name] = target{decl: d, file: f}
			}
		}
	}
	for _, f := range files {
		add(f, f.Classes)
	}
	for _, f := range files {
		add(f, f.Interfaces)
	}
	for _, f := range files {
		add(f, f.Enums)
	}
	for _, f := range files {
		add(f, f.Types)
	}
	return out
}

package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/typediagram/pkg/model"
	"github.com/matzehuels/typediagram/pkg/render"
)

func TestEscapeRecord(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Map<K, V>", `Map\<K, V\>`},
		{"a|b", `a\|b`},
		{"{x}", `\{x\}`},
		{`say "hi"`, `say \"hi\"`},
		{"Item[]", "Item[]"},
	}
	for _, tt := range tests {
		if got := EscapeRecord(tt.in); got != tt.want {
			t.Errorf("EscapeRecord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClass(t *testing.T) {
	d := &model.Declaration{
		Kind: model.KindClass,
		Name: "Ninja",
		Properties: []model.Member{
			{Name: "weapons", Type: "Weapon[]", Modifiers: model.Private},
			{Name: "count", Type: "number", Modifiers: model.Static},
		},
		Methods: []model.Member{
			{Name: "fight", Type: "string", Modifiers: model.Protected},
		},
	}

	got := New(render.DefaultOptions()).Class(d)
	want := `"Ninja" [label="{Ninja|-weapons: Weapon[]\l+static count: number\l|#fight(): string\l}"];`
	if got != want {
		t.Errorf("Class() =\n%s\nwant\n%s", got, want)
	}
}

func TestClassifiers(t *testing.T) {
	tmpl := New(render.Options{})
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"interface", tmpl.Interface(&model.Declaration{Name: "Weapon", Methods: []model.Member{{Name: "tryThis"}}}),
			`"Weapon" [label="{«interface»\nWeapon||tryThis()\l}", fillcolor=lightblue];`},
		{"type alias", tmpl.TypeAlias(&model.Declaration{Name: "Options"}),
			`"Options" [label="{«type»\nOptions||}", fillcolor=lightgray];`},
		{"enum", tmpl.Enum(&model.Declaration{Name: "Gender", Items: []string{"Male", "Female"}}),
			`"Gender" [label="{«enumeration»\nGender|Male\lFemale\l}", fillcolor=lightgreen];`},
		{"extends", tmpl.Extends("Base", "Derived"), `"Base" -> "Derived" [dir=back, arrowtail=empty];`},
		{"implements", tmpl.Implements("Weapon", "Katana"), `"Weapon" -> "Katana" [dir=back, arrowtail=empty, style=dashed];`},
		{"type ref", tmpl.TypeRef(`a"b`), `"a\"b"`},
		{"placeholder", tmpl.Placeholder("nothing"), `"nothing" [shape=note];`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestAssociation(t *testing.T) {
	tmpl := New(render.DefaultOptions())
	a := &model.Association{
		A: model.AssociationEnd{Name: "Ninja"},
		B: model.AssociationEnd{Name: "Weapon", Multiplicity: "0..*"},
	}
	if got := tmpl.Association(a); got != `"Ninja" -> "Weapon" [dir=none, headlabel="0..*"];` {
		t.Errorf("Association() = %q", got)
	}
	a.A.Multiplicity = "0..*"
	if got := tmpl.Association(a); got != `"Ninja" -> "Weapon" [dir=none, taillabel="0..*", headlabel="0..*"];` {
		t.Errorf("Association() = %q", got)
	}
}

func TestFrame(t *testing.T) {
	doc := New(render.Options{}, "rankdir=LR").Frame(`"A" [label="{A||}"];`)

	if !strings.HasPrefix(doc, "digraph G {\n") {
		t.Errorf("Frame() should open a digraph:\n%s", doc)
	}
	if !strings.HasSuffix(doc, "}\n") {
		t.Errorf("Frame() should close the graph:\n%s", doc)
	}
	if !strings.Contains(doc, "  rankdir=LR;\n") {
		t.Errorf("Frame() missing user attribute:\n%s", doc)
	}
	if !strings.Contains(doc, "  \"A\" [label=\"{A||}\"];\n") {
		t.Errorf("Frame() missing indented body:\n%s", doc)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))

	if !strings.Contains(got, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("normalizeViewBox() viewBox not rewritten: %s", got)
	}
	if !strings.Contains(got, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() size not rewritten: %s", got)
	}
	if !strings.Contains(got, `xmlns:xlink="http://www.w3.org/1999/xlink"`) {
		t.Errorf("normalizeViewBox() dropped xlink namespace: %s", got)
	}
	if !strings.HasSuffix(got, "<g/></svg>") {
		t.Errorf("normalizeViewBox() changed body: %s", got)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() should leave SVG without viewBox untouched")
	}
}

func TestRenderSVG(t *testing.T) {
	f := &model.FileDeclaration{
		Classes:    []*model.Declaration{{Kind: model.KindClass, Name: "Katana", Heritage: []model.HeritageClause{{Clause: "Weapon", Owner: "Katana", Type: model.Implements}}}},
		Interfaces: []*model.Declaration{{Kind: model.KindInterface, Name: "Weapon"}},
	}
	dot := render.Emit([]*model.FileDeclaration{f}, New(render.DefaultOptions()), nil)

	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	out := string(svg)
	if !strings.Contains(out, "<svg") {
		t.Errorf("RenderSVG() output is not SVG: %.200s", out)
	}
	if !strings.Contains(out, ">Katana<") {
		t.Errorf("RenderSVG() missing class label")
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG() expected error for malformed DOT")
	}
}

package mermaid

import (
	"regexp"
	"strings"
	"testing"

	"github.com/matzehuels/typediagram/pkg/associations"
	"github.com/matzehuels/typediagram/pkg/model"
	"github.com/matzehuels/typediagram/pkg/render"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"MagicWeapon<MT>", "MagicWeapon~MT~"},
		{"X{Y}", "X#123;Y#125;"},
		{"Map<string, Item[]>", "Map~string, Item[]~"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClass(t *testing.T) {
	d := &model.Declaration{
		Kind: model.KindClass,
		Name: "MagicKatana<MT>",
		Properties: []model.Member{
			{Name: "magic", Type: "MT", Optional: true, Modifiers: model.Private},
			{Name: "instances", Type: "number", Modifiers: model.Static},
		},
		Methods: []model.Member{
			{Name: "use", Type: "string", Modifiers: model.Protected | model.Abstract},
		},
	}

	got := New(render.DefaultOptions()).Class(d)
	want := "class MagicKatana~MT~ {\n" +
		"  -magic?: MT\n" +
		"  +instances: number$\n" +
		"  #use() string*\n" +
		"}"
	if got != want {
		t.Errorf("Class() =\n%s\nwant\n%s", got, want)
	}
}

func TestAnnotations(t *testing.T) {
	tmpl := New(render.Options{})
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"interface", tmpl.Interface(&model.Declaration{Name: "Weapon", Methods: []model.Member{{Name: "tryThis", Type: "void"}}}),
			"class Weapon {\n  <<interface>>\n  tryThis()\n}"},
		{"type alias", tmpl.TypeAlias(&model.Declaration{Name: "Options"}),
			"class Options {\n  <<type>>\n}"},
		{"enum", tmpl.Enum(&model.Declaration{Name: "Gender", Items: []string{"Male", "Female"}}),
			"class Gender {\n  <<enumeration>>\n  Male\n  Female\n}"},
		{"extends", tmpl.Extends("Base", "Derived"), "Base<|--Derived"},
		{"implements", tmpl.Implements("MagicWeapon<MT>", "Katana"), "MagicWeapon~MT~<|..Katana"},
		{"placeholder", tmpl.Placeholder(render.PlaceholderMessage), `note "` + render.PlaceholderMessage + `"`},
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
	if got := tmpl.Association(a); got != `Ninja -- "0..*" Weapon` {
		t.Errorf("Association() = %q", got)
	}
	a.A.Multiplicity = "0..*"
	if got := tmpl.Association(a); got != `Ninja "0..*" -- "0..*" Weapon` {
		t.Errorf("Association() = %q", got)
	}
}

// Base and Derived both hold an Item[]; only Base keeps the association.
func TestInheritedAssociationDocument(t *testing.T) {
	id := func(n string) string { return model.NewID("/tmp/model.ts", n) }
	items := model.Member{Name: "items", Type: "Item[]", TypeIDs: []string{id("Item")}}
	f := &model.FileDeclaration{FileName: "/tmp/model.ts"}
	f.Add(&model.Declaration{Kind: model.KindClass, Name: "Item", ID: id("Item"), Properties: []model.Member{{Name: "id", Type: "number"}}})
	f.Add(&model.Declaration{Kind: model.KindClass, Name: "Base", ID: id("Base"), Properties: []model.Member{items}})
	f.Add(&model.Declaration{Kind: model.KindClass, Name: "Derived", ID: id("Derived"), Properties: []model.Member{items},
		Heritage: []model.HeritageClause{{Clause: "Base", ClauseTypeID: id("Base"), Owner: "Derived", OwnerTypeID: id("Derived"), Type: model.Extends}}})
	files := []*model.FileDeclaration{f}

	associations.Resolve(files)
	doc := render.Emit(files, New(render.DefaultOptions()), nil)

	if !regexp.MustCompile(`Base\s+--\s+"0\.\.\*"\s+Item`).MatchString(doc) {
		t.Errorf("document missing Base association:\n%s", doc)
	}
	if regexp.MustCompile(`Derived\s+--\s+"0\.\.\*"\s+Item`).MatchString(doc) {
		t.Errorf("document should not repeat the association on Derived:\n%s", doc)
	}
	if !strings.Contains(doc, "Base<|--Derived") {
		t.Errorf("document missing inheritance edge:\n%s", doc)
	}
	if !strings.HasPrefix(doc, "classDiagram\n") {
		t.Errorf("document should start with classDiagram:\n%s", doc)
	}
}

func TestFrameDirectives(t *testing.T) {
	doc := New(render.Options{}, "direction RL").Frame("A<|--B")
	if doc != "classDiagram\ndirection RL\nA<|--B\n" {
		t.Errorf("Frame() = %q", doc)
	}
}

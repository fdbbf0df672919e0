package render_test

import (
	"strings"
	"testing"

	"github.com/matzehuels/typediagram/pkg/associations"
	"github.com/matzehuels/typediagram/pkg/model"
	"github.com/matzehuels/typediagram/pkg/render"
	"github.com/matzehuels/typediagram/pkg/render/mermaid"
	"github.com/matzehuels/typediagram/pkg/render/nodelink"
	"github.com/matzehuels/typediagram/pkg/render/nomnoml"
)

const dojo = "/src/dojo.ts"

func decl(kind model.Kind, name string, props ...model.Member) *model.Declaration {
	return &model.Declaration{Kind: kind, Name: name, ID: model.NewID(dojo, name), Properties: props}
}

func ref(name, typ, target string) model.Member {
	return model.Member{Name: name, Type: typ, TypeIDs: []string{model.NewID(dojo, target)}}
}

func inherit(d *model.Declaration, typ model.HeritageType, base string) *model.Declaration {
	d.Heritage = append(d.Heritage, model.HeritageClause{
		Clause: base, ClauseTypeID: model.NewID(dojo, base), Owner: d.Name, OwnerTypeID: d.ID, Type: typ,
	})
	return d
}

// dojoModel holds one declaration of every kind, both heritage kinds and
// resolved associations.
func dojoModel() []*model.FileDeclaration {
	f := &model.FileDeclaration{FileName: dojo}
	f.Add(decl(model.KindInterface, "Weapon", model.Member{Name: "damage", Type: "number"}))
	f.Add(inherit(decl(model.KindClass, "Katana"), model.Implements, "Weapon"))
	f.Add(decl(model.KindClass, "Person", model.Member{Name: "name", Type: "string"}))
	f.Add(inherit(decl(model.KindClass, "Ninja",
		ref("weapons", "Weapon[]", "Weapon"),
		ref("rank", "Rank", "Rank"),
	), model.Extends, "Person"))
	rank := decl(model.KindEnum, "Rank")
	rank.Items = []string{"Genin", "Jonin"}
	f.Add(rank)
	f.Add(decl(model.KindTypeAlias, "Mission", ref("target", "Person", "Person")))

	files := []*model.FileDeclaration{f}
	associations.Resolve(files)
	return files
}

func countLines(doc, marker string) int {
	n := 0
	for _, line := range strings.Split(doc, "\n") {
		if strings.Contains(line, marker) {
			n++
		}
	}
	return n
}

func TestNotationsDrawSameContent(t *testing.T) {
	opts := render.DefaultOptions()
	tests := []struct {
		name        string
		tmpl        render.Template
		heritage    string
		association string
	}{
		{render.NotationNomnoml, nomnoml.New(opts), "<:-", " - "},
		{render.NotationMermaid, mermaid.New(opts), "<|", " -- "},
		{render.NotationDOT, nodelink.New(opts), "arrowtail=empty", "dir=none"},
	}

	files := dojoModel()
	f := files[0]
	_, assocs := model.Count(files)
	if assocs != 3 {
		t.Fatalf("model has %d associations, want 3", assocs)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := render.Emit(files, tt.tmpl, nil)

			for _, d := range f.Declarations() {
				if !strings.Contains(doc, d.Name) {
					t.Errorf("document does not mention %s", d.Name)
				}
			}

			heritage := f.HeritageClauses()
			for _, h := range heritage {
				want := tt.tmpl.Extends(h.Clause, h.Owner)
				if h.Type == model.Implements {
					want = tt.tmpl.Implements(h.Clause, h.Owner)
				}
				if !strings.Contains(doc, want) {
					t.Errorf("missing heritage edge %q", want)
				}
			}
			if got := countLines(doc, tt.heritage); got != len(heritage) {
				t.Errorf("heritage edges = %d, want %d", got, len(heritage))
			}

			for _, a := range f.Associations {
				if !strings.Contains(doc, tt.tmpl.Association(a)) {
					t.Errorf("missing association %s-%s", a.A.Name, a.B.Name)
				}
			}
			if got := countLines(doc, tt.association); got != assocs {
				t.Errorf("association edges = %d, want %d", got, assocs)
			}
		})
	}
}

func TestNotationsEscapeOnce(t *testing.T) {
	opts := render.DefaultOptions()
	tests := []struct {
		name   string
		tmpl   render.Template
		escape func(string) string
		typ    string
		// want counts the places the type name is written: its own box,
		// the member line that references it and the association edge.
		want int
	}{
		{render.NotationNomnoml, nomnoml.New(opts), nomnoml.Escape, "Box[T]", 3},
		{render.NotationMermaid, mermaid.New(opts), mermaid.Escape, "Box<T>", 3},
		// DOT writes the name as node id and again inside the record label.
		{render.NotationDOT, nodelink.New(opts), nodelink.EscapeID, `Box"T"`, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &model.FileDeclaration{FileName: dojo}
			f.Add(decl(model.KindClass, tt.typ))
			f.Add(decl(model.KindClass, "Holder", ref("item", tt.typ, tt.typ)))
			files := []*model.FileDeclaration{f}
			associations.Resolve(files)
			if len(f.Associations) != 1 {
				t.Fatalf("Associations = %d, want 1", len(f.Associations))
			}

			doc := render.Emit(files, tt.tmpl, nil)

			escaped := tt.escape(tt.typ)
			if escaped == tt.typ {
				t.Fatalf("%q has no reserved characters for %s", tt.typ, tt.name)
			}
			if got := strings.Count(doc, escaped); got != tt.want {
				t.Errorf("%q written %d times, want %d:\n%s", escaped, got, tt.want, doc)
			}
			if strings.Contains(doc, tt.typ) {
				t.Errorf("raw %q leaked into the document:\n%s", tt.typ, doc)
			}
			if twice := tt.escape(escaped); twice != escaped && strings.Contains(doc, twice) {
				t.Errorf("%q is escaped twice:\n%s", tt.typ, doc)
			}
		})
	}
}

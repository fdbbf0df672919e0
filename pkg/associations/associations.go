// Package associations infers association edges between declared types.
//
// An association is added whenever a property of a class, interface or type
// alias references another declared type. Edges are undirected: when B later
// references A, the existing A–B edge is updated instead of adding a second
// one. Edges that a type only has because an ancestor already declares the
// same association are removed, so a diagram shows each association once, at
// the most general type that owns it.
//
// Resolve runs once per model, before any rendering, and writes the surviving
// edges to each file's Associations list.
package associations

import (
	"strings"

	"github.com/matzehuels/typediagram/pkg/model"
)

// Many is the multiplicity of an end whose property holds a collection.
const Many = "0..*"

// Multiplicity returns Many when the declared type text denotes an array,
// otherwise "".
func Multiplicity(typeText string) string {
	t := strings.TrimSpace(typeText)
	if strings.Contains(t, "[") || strings.HasPrefix(t, "Array<") || strings.HasPrefix(t, "ReadonlyArray<") {
		return Many
	}
	return ""
}

type pair struct {
	from, to string
}

type resolver struct {
	index *model.Index
	edges map[string]*model.Association
	order []string

	// owns records that a type has a property referencing another type,
	// whichever side created the edge.
	owns map[pair]bool

	memo  map[pair]bool
	bases map[string][]string
}

// Resolve computes the associations of every file in files and stores them
// in FileDeclaration.Associations, replacing what was there.
func Resolve(files []*model.FileDeclaration) {
	r := &resolver{
		index: model.NewIndex(files),
		edges: make(map[string]*model.Association),
		owns:  make(map[pair]bool),
		memo:  make(map[pair]bool),
		bases: make(map[string][]string),
	}

	created := make([][]*model.Association, len(files))
	for i, f := range files {
		for _, owner := range f.Owners() {
			created[i] = append(created[i], r.scan(owner)...)
		}
	}

	// Flag everything before filtering so the result does not depend on the
	// order in which edges were created.
	for _, key := range r.order {
		a := r.edges[key]
		if r.inherited(a.A.TypeID, a.B.TypeID) {
			a.Inherited = true
		}
	}

	for i, f := range files {
		kept := make([]*model.Association, 0, len(created[i]))
		for _, a := range created[i] {
			if !a.Inherited {
				kept = append(kept, a)
			}
		}
		f.Associations = kept
	}
}

func edgeKey(from, to string) string {
	return from + "_" + to
}

// scan walks the properties of owner and returns the edges it created.
func (r *resolver) scan(owner *model.Declaration) []*model.Association {
	var created []*model.Association
	for _, prop := range owner.Properties {
		if len(prop.TypeIDs) == 0 {
			continue
		}
		mult := Multiplicity(prop.Type)
		for _, target := range prop.TypeIDs {
			if reverse, ok := r.edges[edgeKey(target, owner.ID)]; ok {
				reverse.A.Multiplicity = mult
				r.owns[pair{owner.ID, target}] = true
				continue
			}

			decl, ok := r.index.Lookup(target)
			if !ok {
				continue
			}
			r.owns[pair{owner.ID, target}] = true

			key := edgeKey(owner.ID, target)
			if existing, ok := r.edges[key]; ok {
				if mult != "" {
					existing.B.Multiplicity = mult
				}
				continue
			}

			a := &model.Association{
				A: model.AssociationEnd{TypeID: owner.ID, Name: owner.Name},
				B: model.AssociationEnd{TypeID: target, Name: decl.Name, Multiplicity: mult},
			}
			r.edges[key] = a
			r.order = append(r.order, key)
			created = append(created, a)
		}
	}
	return created
}

// inherited reports whether any ancestor of src, through any heritage path,
// owns a property referencing target.
func (r *resolver) inherited(src, target string) bool {
	p := pair{src, target}
	if v, ok := r.memo[p]; ok {
		return v
	}
	result := false
	for _, base := range r.ancestors(src) {
		if r.owns[pair{base, target}] {
			result = true
			break
		}
	}
	r.memo[p] = result
	return result
}

// ancestors returns the ids of all transitive bases of src, nearest first.
// src itself is never included, even when the heritage graph has a cycle.
func (r *resolver) ancestors(src string) []string {
	if cached, ok := r.bases[src]; ok {
		return cached
	}
	seen := map[string]bool{src: true}
	var out []string
	queue := []string{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		decl, ok := r.index.Lookup(cur)
		if !ok {
			continue
		}
		for _, h := range decl.Heritage {
			base, ok := r.index.Lookup(h.ClauseTypeID)
			if !ok || seen[base.ID] {
				continue
			}
			seen[base.ID] = true
			out = append(out, base.ID)
			queue = append(queue, base.ID)
		}
	}
	r.bases[src] = out
	return out
}

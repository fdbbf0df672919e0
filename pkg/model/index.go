package model

// Index maps type ids to declarations across a whole file set.
type Index struct {
	byID map[string]*Declaration
}

// NewIndex indexes every declaration in files. When two declarations share
// an id the first one wins.
func NewIndex(files []*FileDeclaration) *Index {
	idx := &Index{byID: make(map[string]*Declaration)}
	for _, f := range files {
		for _, d := range f.Declarations() {
			if _, ok := idx.byID[d.ID]; !ok {
				idx.byID[d.ID] = d
			}
		}
	}
	return idx
}

// Lookup returns the declaration with the given id.
func (idx *Index) Lookup(id string) (*Declaration, bool) {
	d, ok := idx.byID[id]
	return d, ok
}

// Len returns the number of indexed declarations.
func (idx *Index) Len() int {
	return len(idx.byID)
}

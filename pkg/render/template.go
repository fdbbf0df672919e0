package render

import (
	"github.com/matzehuels/typediagram/pkg/model"
)

// Notation names accepted by the pipeline.
const (
	NotationNomnoml = "nomnoml"
	NotationMermaid = "mermaid"
	NotationDOT     = "dot"
)

// Notations lists every supported notation name.
var Notations = []string{NotationNomnoml, NotationMermaid, NotationDOT}

// Options controls how members are written.
type Options struct {
	// MemberTypes appends ": <type>" to properties and the return type to methods.
	MemberTypes bool `json:"member_types" toml:"member_types" yaml:"member_types"`

	// Modifiers prefixes members with visibility and static/abstract markers.
	Modifiers bool `json:"modifiers" toml:"modifiers" yaml:"modifiers"`
}

// DefaultOptions shows member types and modifiers.
func DefaultOptions() Options {
	return Options{MemberTypes: true, Modifiers: true}
}

// Template writes diagram elements in one notation.
// Implementations must not mutate the declarations they are given.
type Template interface {
	Class(d *model.Declaration) string
	Interface(d *model.Declaration) string
	TypeAlias(d *model.Declaration) string
	Enum(d *model.Declaration) string

	// Extends writes "derived extends base".
	Extends(base, derived string) string

	// Implements writes "impl implements iface".
	Implements(iface, impl string) string

	// TypeRef writes a bare reference to a declared type by display name.
	TypeRef(name string) string

	Association(a *model.Association) string

	// Placeholder writes a standalone note, used when there is nothing
	// else to draw.
	Placeholder(message string) string
}

// Framer is implemented by templates whose documents need a header or
// footer around the emitted fragments.
type Framer interface {
	Frame(body string) string
}

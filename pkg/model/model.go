package model

import (
	"fmt"
)

// Kind discriminates the declaration kinds.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindTypeAlias
	KindEnum
)

var kindNames = map[Kind]string{
	KindClass:     "class",
	KindInterface: "interface",
	KindTypeAlias: "type",
	KindEnum:      "enum",
}

// String returns the lower-case kind name used in JSON.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	s, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown kind %d", int(k))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", string(text))
}

// Declaration is a class, interface, type alias or enum.
//
// Name is the display name and may carry a generic suffix ("Box<T>").
// Items is only used by enums. Properties and Methods keep declaration order.
type Declaration struct {
	Kind       Kind             `json:"kind"`
	Name       string           `json:"name"`
	ID         string           `json:"id"`
	Exported   bool             `json:"exported,omitempty"`
	Properties []Member         `json:"properties,omitempty"`
	Methods    []Member         `json:"methods,omitempty"`
	Heritage   []HeritageClause `json:"heritage,omitempty"`
	Items      []string         `json:"items,omitempty"`
}

// Member is a property or method of a declaration.
//
// For methods Type holds the return type. TypeIDs lists the ids of declared
// types reachable through Type after unwrapping arrays, unions and
// intersections; it is empty when nothing resolvable is referenced.
type Member struct {
	Name      string    `json:"name"`
	Type      string    `json:"type,omitempty"`
	TypeIDs   []string  `json:"typeIds,omitempty"`
	Optional  bool      `json:"optional,omitempty"`
	Modifiers Modifiers `json:"modifiers,omitempty"`
}

// HeritageType distinguishes extension from implementation.
type HeritageType int

const (
	Extends HeritageType = iota
	Implements
)

// String returns "extends" or "implements".
func (t HeritageType) String() string {
	if t == Implements {
		return "implements"
	}
	return "extends"
}

// MarshalText implements encoding.TextMarshaler.
func (t HeritageType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *HeritageType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "extends":
		*t = Extends
	case "implements":
		*t = Implements
	default:
		return fmt.Errorf("unknown heritage type %q", string(text))
	}
	return nil
}

// HeritageClause records that Owner extends or implements Clause.
type HeritageClause struct {
	Clause       string       `json:"clause"`
	ClauseTypeID string       `json:"clauseTypeId"`
	Owner        string       `json:"className"`
	OwnerTypeID  string       `json:"classTypeId"`
	Type         HeritageType `json:"type"`
}

// AssociationEnd is one side of an association.
type AssociationEnd struct {
	TypeID       string `json:"typeId"`
	Name         string `json:"name"`
	Multiplicity string `json:"multiplicity,omitempty"`
}

// Association is an undirected edge between two declared types.
// A is the side that first referenced B.
type Association struct {
	A         AssociationEnd `json:"a"`
	B         AssociationEnd `json:"b"`
	Inherited bool           `json:"inherited,omitempty"`
}

// FileDeclaration groups the declarations of one source file.
type FileDeclaration struct {
	FileName     string         `json:"fileName"`
	Classes      []*Declaration `json:"classes,omitempty"`
	Interfaces   []*Declaration `json:"interfaces,omitempty"`
	Types        []*Declaration `json:"types,omitempty"`
	Enums        []*Declaration `json:"enums,omitempty"`
	Associations []*Association `json:"associations,omitempty"`
}

// Add appends d to the list matching its kind.
func (f *FileDeclaration) Add(d *Declaration) {
	switch d.Kind {
	case KindClass:
		f.Classes = append(f.Classes, d)
	case KindInterface:
		f.Interfaces = append(f.Interfaces, d)
	case KindTypeAlias:
		f.Types = append(f.Types, d)
	case KindEnum:
		f.Enums = append(f.Enums, d)
	}
}

// Declarations returns every declaration of the file in rendering order:
// classes, interfaces, enums, type aliases.
func (f *FileDeclaration) Declarations() []*Declaration {
	out := make([]*Declaration, 0, f.Len())
	out = append(out, f.Classes...)
	out = append(out, f.Interfaces...)
	out = append(out, f.Enums...)
	out = append(out, f.Types...)
	return out
}

// Owners returns the declarations that can own members, in scan order:
// classes, interfaces, type aliases.
func (f *FileDeclaration) Owners() []*Declaration {
	out := make([]*Declaration, 0, len(f.Classes)+len(f.Interfaces)+len(f.Types))
	out = append(out, f.Classes...)
	out = append(out, f.Interfaces...)
	out = append(out, f.Types...)
	return out
}

// HeritageClauses returns the heritage clauses of all owners in scan order.
func (f *FileDeclaration) HeritageClauses() []HeritageClause {
	var out []HeritageClause
	for _, d := range f.Owners() {
		out = append(out, d.Heritage...)
	}
	return out
}

// Len returns the number of declarations in the file.
func (f *FileDeclaration) Len() int {
	return len(f.Classes) + len(f.Interfaces) + len(f.Types) + len(f.Enums)
}

// Count returns the total number of declarations and associations in files.
func Count(files []*FileDeclaration) (declarations, associations int) {
	for _, f := range files {
		declarations += f.Len()
		associations += len(f.Associations)
	}
	return declarations, associations
}

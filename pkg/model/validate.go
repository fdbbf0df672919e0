package model

import (
	"github.com/matzehuels/typediagram/pkg/errors"
)

// Validate checks the structural preconditions the renderer relies on:
// every declaration has a name and an id and sits in the list matching its
// kind, every member has a name, and every heritage clause and association
// end names its types. It returns an ErrCodeInvalidModel error describing the
// first violation.
func Validate(files []*FileDeclaration) error {
	for i, f := range files {
		if f == nil {
			return errors.New(errors.ErrCodeInvalidModel, "file %d is null", i)
		}
		lists := []struct {
			kind  Kind
			decls []*Declaration
		}{
			{KindClass, f.Classes},
			{KindInterface, f.Interfaces},
			{KindTypeAlias, f.Types},
			{KindEnum, f.Enums},
		}
		for _, l := range lists {
			for j, d := range l.decls {
				if err := validateDeclaration(f.FileName, j, l.kind, d); err != nil {
					return err
				}
			}
		}
		for j, a := range f.Associations {
			if a == nil || a.A.TypeID == "" || a.B.TypeID == "" {
				return errors.New(errors.ErrCodeInvalidModel, "%s: association %d has no type id", f.FileName, j)
			}
		}
	}
	return nil
}

func validateDeclaration(file string, i int, kind Kind, d *Declaration) error {
	if d == nil {
		return errors.New(errors.ErrCodeInvalidModel, "%s: %s %d is null", file, kind, i)
	}
	if d.Name == "" {
		return errors.New(errors.ErrCodeInvalidModel, "%s: %s %d has no name", file, kind, i)
	}
	if d.ID == "" {
		return errors.New(errors.ErrCodeInvalidModel, "%s: %s %s has no id", file, kind, d.Name)
	}
	if d.Kind != kind {
		return errors.New(errors.ErrCodeInvalidModel, "%s: %s is a %s but listed as %s", file, d.Name, d.Kind, kind)
	}
	for _, members := range [][]Member{d.Properties, d.Methods} {
		for j, m := range members {
			if m.Name == "" {
				return errors.New(errors.ErrCodeInvalidModel, "%s: %s member %d has no name", file, d.Name, j)
			}
		}
	}
	for _, h := range d.Heritage {
		if h.Clause == "" || h.Owner == "" {
			return errors.New(errors.ErrCodeInvalidModel, "%s: %s has an incomplete heritage clause", file, d.Name)
		}
	}
	return nil
}

package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Modifiers is a bit set of member modifiers.
type Modifiers uint8

const (
	Public Modifiers = 1 << iota
	Protected
	Private
	Static
	Abstract
	Readonly
)

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Static, "static"},
	{Abstract, "abstract"},
	{Readonly, "readonly"},
}

// Has reports whether all bits of m2 are set in m.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// Visibility returns the single visibility bit of m. Members without an
// explicit visibility are public.
func (m Modifiers) Visibility() Modifiers {
	switch {
	case m.Has(Private):
		return Private
	case m.Has(Protected):
		return Protected
	default:
		return Public
	}
}

// Names returns the modifier names in canonical order.
func (m Modifiers) Names() []string {
	var out []string
	for _, mn := range modifierNames {
		if m.Has(mn.mod) {
			out = append(out, mn.name)
		}
	}
	return out
}

// String returns the space-separated modifier names.
func (m Modifiers) String() string {
	return strings.Join(m.Names(), " ")
}

// ParseModifier returns the modifier for a keyword such as "private".
func ParseModifier(s string) (Modifiers, bool) {
	for _, mn := range modifierNames {
		if mn.name == s {
			return mn.mod, true
		}
	}
	return 0, false
}

// MarshalJSON encodes the set as a list of names.
func (m Modifiers) MarshalJSON() ([]byte, error) {
	names := m.Names()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

// UnmarshalJSON decodes a list of names.
func (m *Modifiers) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("modifiers: %w", err)
	}
	var out Modifiers
	for _, n := range names {
		mod, ok := ParseModifier(n)
		if !ok {
			return fmt.Errorf("unknown modifier %q", n)
		}
		out |= mod
	}
	*m = out
	return nil
}

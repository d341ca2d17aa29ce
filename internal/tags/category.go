// Package tags implements typed filter tags: category definitions, the active filter
// set of a list view, and the canonical "category_value" wire format.
//
// Category tables are immutable once built. A Library holds every catalog group and
// the sort options for a process and is passed by pointer to whoever needs it.
package tags

import (
	"slices"
	"strings"
)

// Wire-format delimiters. Neither may appear in a category name or value.
const (
	Separator     = "_"
	ListDelimiter = ","
)

// Kind discriminates enumerated categories from free-text ones.
type Kind int

const (
	// KindEnumerated accepts only the values listed in Category.Choices.
	KindEnumerated Kind = iota
	// KindFreeText accepts any non-empty value.
	KindFreeText
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEnumerated:
		return "enumerated"
	case KindFreeText:
		return "free-text"
	default:
		return "unknown"
	}
}

// Choice is one allowed value of an enumerated category.
type Choice struct {
	Name  string `yaml:"name"  json:"name"`
	Value string `yaml:"value" json:"value"`
}

// Category is a named filter dimension.
type Category struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Color       string   `json:"color"`
	Kind        Kind     `json:"kind"`
	Choices     []Choice `json:"choices,omitempty"`
}

// Allows reports whether value is acceptable for the category.
func (c Category) Allows(value string) bool {
	if value == "" || containsReserved(value) {
		return false
	}
	if c.Kind == KindFreeText {
		return true
	}
	_, ok := c.Choice(value)
	return ok
}

// Choice returns the choice with the given wire value.
func (c Category) Choice(value string) (Choice, bool) {
	i := slices.IndexFunc(c.Choices, func(ch Choice) bool { return ch.Value == value })
	if i < 0 {
		return Choice{}, false
	}
	return c.Choices[i], true
}

// Label is the category's display name, falling back to its wire name.
func (c Category) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

func containsReserved(s string) bool {
	return strings.Contains(s, Separator) || strings.Contains(s, ListDelimiter)
}

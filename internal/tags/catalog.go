package tags

import (
	"fmt"
	"slices"
)

// Catalog is an immutable, ordered table of categories.
type Catalog struct {
	categories []Category
	index      map[string]int
}

// NewCatalog builds a catalog. Names must be unique and, like every choice value,
// free of the wire delimiters. Enumerated categories need at least one choice.
func NewCatalog(categories ...Category) (*Catalog, error) {
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("%w: empty category name", ErrInvalidCatalog)
		}
		if containsReserved(cat.Name) {
			return nil, fmt.Errorf("%w: category %q contains %q or %q",
				ErrInvalidCatalog, cat.Name, Separator, ListDelimiter)
		}
		if _, dup := c.index[cat.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidCatalog, cat.Name)
		}
		if cat.Kind == KindEnumerated && len(cat.Choices) == 0 {
			return nil, fmt.Errorf("%w: enumerated category %q has no choices", ErrInvalidCatalog, cat.Name)
		}
		for _, ch := range cat.Choices {
			if ch.Value == "" || containsReserved(ch.Value) {
				return nil, fmt.Errorf("%w: category %q has invalid value %q", ErrInvalidCatalog, cat.Name, ch.Value)
			}
		}
		cat.Choices = slices.Clone(cat.Choices)
		c.index[cat.Name] = len(c.categories)
		c.categories = append(c.categories, cat)
	}
	return c, nil
}

// MustCatalog is NewCatalog for static tables; it panics on error.
func MustCatalog(categories ...Category) *Catalog {
	c, err := NewCatalog(categories...)
	if err != nil {
		panic(err)
	}
	return c
}

// Category looks up a category by name.
func (c *Catalog) Category(name string) (Category, bool) {
	if c == nil {
		return Category{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Categories returns the categories in definition order.
func (c *Catalog) Categories() []Category {
	if c == nil {
		return nil
	}
	return slices.Clone(c.categories)
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.categories)
}

// Contains reports whether t names a known category with an allowed value.
func (c *Catalog) Contains(t TagQuery) bool {
	cat, ok := c.Category(t.Category)
	return ok && cat.Allows(t.Value)
}

// Without returns a new catalog lacking the named categories.
func (c *Catalog) Without(names ...string) *Catalog {
	kept := make([]Category, 0, c.Len())
	for _, cat := range c.Categories() {
		if !slices.Contains(names, cat.Name) {
			kept = append(kept, cat)
		}
	}
	// Every category already passed validation.
	return MustCatalog(kept...)
}

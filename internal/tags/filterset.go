package tags

import (
	"fmt"
	"net/url"
	"slices"
)

// ParamTags is the query parameter carrying the serialized filter set.
const ParamTags = "tags"

// FilterSet is the ordered set of active filters of one list view. It holds at most
// one tag per category. The zero value has no catalog and accepts nothing.
type FilterSet struct {
	catalog *Catalog
	tags    []TagQuery
}

// NewFilterSet returns an empty filter set validated against catalog.
func NewFilterSet(catalog *Catalog) *FilterSet {
	return &FilterSet{catalog: catalog}
}

// Catalog returns the catalog the set validates against.
func (f *FilterSet) Catalog() *Catalog {
	return f.catalog
}

// AddOrReplace validates (category, value) and makes it the only tag of that category,
// moving it to the end of the set. On error the set is unchanged.
func (f *FilterSet) AddOrReplace(category, value string) error {
	cat, ok := f.catalog.Category(category)
	if !ok {
		return fmt.Errorf("%w: category %q", ErrUnknownTag, category)
	}
	if !cat.Allows(value) {
		if containsReserved(value) {
			return fmt.Errorf("%w: %q may not contain %q or %q", ErrInvalidValue, value, Separator, ListDelimiter)
		}
		return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidValue, value, category)
	}

	next := slices.DeleteFunc(slices.Clone(f.tags), func(t TagQuery) bool { return t.Category == category })
	f.tags = append(next, TagQuery{Category: category, Value: value})
	return nil
}

// Remove drops the tag at index; later tags shift down.
func (f *FilterSet) Remove(index int) error {
	if index < 0 || index >= len(f.tags) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(f.tags))
	}
	f.tags = slices.Delete(slices.Clone(f.tags), index, index+1)
	return nil
}

// Clear removes every tag.
func (f *FilterSet) Clear() {
	f.tags = nil
}

// Tags returns a copy of the active tags in order.
func (f *FilterSet) Tags() []TagQuery {
	return slices.Clone(f.tags)
}

// Len returns the number of active tags.
func (f *FilterSet) Len() int {
	return len(f.tags)
}

// Serialize returns the wire form of the active tags.
func (f *FilterSet) Serialize() string {
	return Serialize(f.tags)
}

// Params returns the query parameters for the loader. An empty set adds nothing.
func (f *FilterSet) Params() url.Values {
	v := url.Values{}
	if len(f.tags) > 0 {
		v.Set(ParamTags, f.Serialize())
	}
	return v
}

package tags

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TagQuery is one concrete filter selection. It is a value type: a changed selection
// is a new TagQuery, never an edit of an existing one.
type TagQuery struct {
	Category string `json:"category" yaml:"category"`
	Value    string `json:"value"    yaml:"value"`
}

// String returns the wire form "category_value".
func (t TagQuery) String() string {
	return t.Category + Separator + t.Value
}

// Display renders the tag for humans using the category's labels, e.g. "Size: Big (255 Tiles)".
func (t TagQuery) Display(cat Category) string {
	value := t.Value
	if ch, ok := cat.Choice(t.Value); ok && ch.Name != "" {
		value = ch.Name
	}
	caser := cases.Title(language.English)
	return fmt.Sprintf("%s: %s", caser.String(cat.Label()), caser.String(value))
}

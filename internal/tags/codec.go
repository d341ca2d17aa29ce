package tags

import (
	"fmt"
	"strings"
)

// tagParts is the number of segments a well-formed tag splits into.
const tagParts = 2

// Serialize joins tags into the single query-string value sent to the server.
func Serialize(tags []TagQuery) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = t.String()
	}
	return strings.Join(parts, ListDelimiter)
}

// Parse decodes one "category_value" string.
//
// A value that does not split into exactly two non-empty parts yields ErrUnparseable.
// When known has categories, the pair must name one of them with an allowed value,
// otherwise ErrUnknownTag. A nil or empty catalog accepts any well-formed pair.
func Parse(value string, known *Catalog) (TagQuery, error) {
	parts := strings.Split(value, Separator)
	if len(parts) != tagParts || parts[0] == "" || parts[1] == "" {
		return TagQuery{}, fmt.Errorf("%w: %q", ErrUnparseable, value)
	}

	t := TagQuery{Category: parts[0], Value: parts[1]}
	if known.Len() == 0 {
		return t, nil
	}
	if !known.Contains(t) {
		return TagQuery{}, fmt.Errorf("%w: %q", ErrUnknownTag, value)
	}
	return t, nil
}

// ParseAll decodes values, silently dropping entries that fail Parse. At most one tag
// per category is kept; a later entry replaces an earlier one in place.
func ParseAll(values []string, known *Catalog) []TagQuery {
	out := make([]TagQuery, 0, len(values))
	for _, v := range values {
		t, err := Parse(strings.TrimSpace(v), known)
		if err != nil {
			continue
		}
		out = replaceCategory(out, t)
	}
	return out
}

// ParseList decodes a delimiter-joined list as produced by Serialize.
func ParseList(s string, known *Catalog) []TagQuery {
	if s == "" {
		return []TagQuery{}
	}
	return ParseAll(strings.Split(s, ListDelimiter), known)
}

func replaceCategory(tags []TagQuery, t TagQuery) []TagQuery {
	for i := range tags {
		if tags[i].Category == t.Category {
			tags[i] = t
			return tags
		}
	}
	return append(tags, t)
}

package api

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/rshade/mindtool/internal/tags"
)

const pathTags = "tag"

// remoteCategory is one category as served by the tag endpoint.
type remoteCategory struct {
	Name   string   `json:"name"`
	Values []string `json:"value"`
	Color  string   `json:"color"`
}

// TagGroup fetches the server's category table for group. Categories without values
// are free text. Values that cannot be carried in the wire format are skipped.
func (c *Client) TagGroup(ctx context.Context, group string) (*tags.Catalog, error) {
	var remote []remoteCategory
	if err := c.getJSON(ctx, pathTags, url.Values{"group": {group}}, pathTags, &remote); err != nil {
		return nil, err
	}

	categories := make([]tags.Category, 0, len(remote))
	seen := make(map[string]bool, len(remote))
	for _, rc := range remote {
		if rc.Name == "" || seen[rc.Name] || strings.ContainsAny(rc.Name, tags.Separator+tags.ListDelimiter) {
			c.logger.Warn().
				Str("operation", "tag_group").
				Str("group", group).
				Str("category", rc.Name).
				Msg("skipping unusable category")
			continue
		}
		seen[rc.Name] = true
		cat := tags.Category{
			Name:        rc.Name,
			DisplayName: rc.Name,
			Color:       rc.Color,
			Kind:        tags.KindFreeText,
		}
		for _, v := range rc.Values {
			if v == "" || strings.ContainsAny(v, tags.Separator+tags.ListDelimiter) {
				c.logger.Warn().
					Str("operation", "tag_group").
					Str("group", group).
					Str("category", rc.Name).
					Str("value", v).
					Msg("skipping tag value that cannot be serialized")
				continue
			}
			if slices.ContainsFunc(cat.Choices, func(ch tags.Choice) bool { return ch.Value == v }) {
				continue
			}
			cat.Choices = append(cat.Choices, tags.Choice{Name: v, Value: v})
		}
		if len(cat.Choices) > 0 {
			cat.Kind = tags.KindEnumerated
		} else if len(rc.Values) > 0 {
			c.logger.Warn().
				Str("operation", "tag_group").
				Str("category", rc.Name).
				Msg("skipping category with no usable values")
			continue
		}
		categories = append(categories, cat)
	}

	catalog, err := tags.NewCatalog(categories...)
	if err != nil {
		return nil, fmt.Errorf("tag group %q: %w", group, err)
	}
	return catalog, nil
}

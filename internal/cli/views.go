package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rshade/mindtool/internal/api"
	"github.com/rshade/mindtool/internal/content"
	"github.com/rshade/mindtool/internal/tags"
)

// Content types accepted by the comment commands.
const (
	typeSchematic = "schematic"
	typeMap       = "map"
	typePost      = "post"
)

// contentTypes lists the valid comment targets in help order.
var contentTypes = []string{typeSchematic, typeMap, typePost} //nolint:gochecknoglobals // Static table.

// formatTags renders the decodable tags of a record for humans.
func formatTags(raw []string, catalog *tags.Catalog) string {
	decoded := content.DecodeTags(raw, catalog)
	labels := make([]string, 0, len(decoded))
	for _, tq := range decoded {
		cat, ok := catalog.Category(tq.Category)
		if !ok {
			cat = tags.Category{Name: tq.Category}
		}
		labels = append(labels, tq.Display(cat))
	}
	return strings.Join(labels, ", ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// columnEnv is what table columns need besides the item itself.
type columnEnv struct {
	catalog *tags.Catalog
	// authors maps user IDs to display names; empty unless --author-names was given.
	authors map[string]string
}

// author returns the display name for id, or id when it was not resolved.
func (e columnEnv) author(id string) string {
	if name := e.authors[id]; name != "" {
		return name
	}
	return id
}

func schematicAuthor(s content.Schematic) string { return s.AuthorID }

func schematicColumns(env columnEnv) []column[content.Schematic] {
	return []column[content.Schematic]{
		{header: "ID", value: func(s content.Schematic) string { return s.ID }},
		{header: "NAME", value: func(s content.Schematic) string { return s.Name }},
		{header: "AUTHOR", value: func(s content.Schematic) string { return env.author(s.AuthorID) }},
		{header: "LIKES", value: func(s content.Schematic) string { return strconv.Itoa(s.Like) }},
		{header: "TAGS", value: func(s content.Schematic) string { return formatTags(s.Tags, env.catalog) }},
	}
}

// schematicView lists published schematics.
func schematicView(name string) listView[content.Schematic] {
	return listView[content.Schematic]{
		name:     name,
		noun:     "schematics",
		path:     api.PathSchematics,
		group:    tags.GroupSchematicSearch,
		sortable: true,
		authorOf: schematicAuthor,
		columns:  schematicColumns,
	}
}

// uploadQueueView lists schematic uploads awaiting verification: the admin queue,
// or the caller's own uploads. Both come in pages of paging.admin_page_size and take
// no sort. An empty group disables --tag.
func uploadQueueView(name, path, group string) listView[content.Schematic] {
	return listView[content.Schematic]{
		name:        name,
		noun:        "uploads",
		path:        path,
		group:       group,
		uploadQueue: true,
		authorOf:    schematicAuthor,
		columns:     schematicColumns,
	}
}

func adminQueueView(name string) listView[content.Schematic] {
	return uploadQueueView(name, api.PathSchematicUploads, tags.GroupSchematicUpload)
}

func myUploadsView(name string) listView[content.Schematic] {
	return uploadQueueView(name, api.PathMyUploads, "")
}

func mapView() listView[content.Map] {
	return listView[content.Map]{
		name:     "map list",
		noun:     "maps",
		path:     api.PathMaps,
		group:    tags.GroupMapSearch,
		sortable: true,
		authorOf: func(m content.Map) string { return m.AuthorID },
		columns: func(env columnEnv) []column[content.Map] {
			return []column[content.Map]{
				{header: "ID", value: func(m content.Map) string { return m.ID }},
				{header: "NAME", value: func(m content.Map) string { return m.Name }},
				{header: "AUTHOR", value: func(m content.Map) string { return env.author(m.AuthorID) }},
				{header: "SIZE", value: func(m content.Map) string { return fmt.Sprintf("%dx%d", m.Width, m.Height) }},
				{header: "LIKES", value: func(m content.Map) string { return strconv.Itoa(m.Like) }},
				{header: "TAGS", value: func(m content.Map) string { return formatTags(m.Tags, env.catalog) }},
			}
		},
	}
}

func postView() listView[content.Post] {
	return listView[content.Post]{
		name:     "post list",
		noun:     "posts",
		path:     api.PathPosts,
		group:    tags.GroupPostSearch,
		sortable: true,
		authorOf: func(p content.Post) string { return p.AuthorID },
		columns: func(env columnEnv) []column[content.Post] {
			return []column[content.Post]{
				{header: "ID", value: func(p content.Post) string { return p.ID }},
				{header: "TITLE", value: func(p content.Post) string { return p.Title }},
				{header: "AUTHOR", value: func(p content.Post) string { return env.author(p.AuthorID) }},
				{header: "CREATED", value: func(p content.Post) string { return formatTime(p.CreatedAt) }},
				{header: "TAGS", value: func(p content.Post) string { return formatTags(p.Tags, env.catalog) }},
			}
		},
	}
}

func commentView(contentType, targetID string) listView[content.Comment] {
	return listView[content.Comment]{
		name:     "comment list",
		noun:     "comments",
		path:     api.CommentsPath(contentType, targetID),
		authorOf: func(c content.Comment) string { return c.AuthorID },
		columns: func(env columnEnv) []column[content.Comment] {
			return []column[content.Comment]{
				{header: "ID", value: func(c content.Comment) string { return c.ID }},
				{header: "AUTHOR", value: func(c content.Comment) string { return env.author(c.AuthorID) }},
				{header: "CREATED", value: func(c content.Comment) string { return formatTime(c.CreatedAt) }},
				{header: "REPLIES", value: func(c content.Comment) string { return strconv.Itoa(c.ReplyCount) }},
				{header: "CONTENT", value: func(c content.Comment) string { return c.Content }},
			}
		},
	}
}

// schematicDetail is the browse detail screen for a schematic.
func schematicDetail(catalog *tags.Catalog) func(content.Schematic) string {
	return func(s content.Schematic) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\n", content.Title(s.Name))
		fmt.Fprintf(&b, "ID:       %s\nAuthor:   %s\nLikes:    %d  Dislikes: %d\n", s.ID, s.AuthorID, s.Like, s.Dislike)
		fmt.Fprintf(&b, "Tags:     %s\n", formatTags(s.Tags, catalog))
		fmt.Fprintf(&b, "File:     %s\n", content.DownloadName(typeSchematic, s.Name, content.SchematicFileExtension))
		if len(s.Requirement) > 0 {
			b.WriteString("\nRequirements:\n")
			for _, r := range s.Requirement {
				fmt.Fprintf(&b, "  %-16s %d\n", r.Name, r.Amount)
			}
		}
		if s.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", s.Description)
		}
		return b.String()
	}
}

// mapDetail is the browse detail screen for a map.
func mapDetail(catalog *tags.Catalog) func(content.Map) string {
	return func(m content.Map) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\n", content.Title(m.Name))
		fmt.Fprintf(&b, "ID:       %s\nAuthor:   %s\nSize:     %dx%d\nLikes:    %d  Dislikes: %d\n",
			m.ID, m.AuthorID, m.Width, m.Height, m.Like, m.Dislike)
		fmt.Fprintf(&b, "Tags:     %s\n", formatTags(m.Tags, catalog))
		fmt.Fprintf(&b, "File:     %s\n", content.DownloadName(typeMap, m.Name, content.MapFileExtension))
		if m.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", m.Description)
		}
		return b.String()
	}
}

// postDetail is the browse detail screen for a post.
func postDetail(catalog *tags.Catalog) func(content.Post) string {
	return func(p content.Post) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\n", p.Title)
		fmt.Fprintf(&b, "ID:       %s\nAuthor:   %s\nCreated:  %s\nLikes:    %d\n",
			p.ID, p.AuthorID, formatTime(p.CreatedAt), p.Like)
		fmt.Fprintf(&b, "Tags:     %s\n", formatTags(p.Tags, catalog))
		if p.Header != "" {
			fmt.Fprintf(&b, "\n%s\n", p.Header)
		}
		return b.String()
	}
}

// Package content defines the records listed by mindtool views.
package content

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rshade/mindtool/internal/tags"
)

// File extensions for downloadable content.
const (
	SchematicFileExtension = "msch"
	MapFileExtension       = "msav"
)

// RoleAdmin is the role granting moderation rights.
const RoleAdmin = "ADMIN"

// ItemRequirement is one resource a schematic needs to build.
type ItemRequirement struct {
	Name   string `json:"name"   yaml:"name"`
	Color  string `json:"color"  yaml:"color"`
	Amount int    `json:"amount" yaml:"amount"`
}

// Schematic is a published or pending schematic.
type Schematic struct {
	ID          string            `json:"id"                    yaml:"id"`
	Name        string            `json:"name"                  yaml:"name"`
	Data        string            `json:"data,omitempty"        yaml:"-"`
	AuthorID    string            `json:"authorId"              yaml:"author_id"`
	Description string            `json:"description"           yaml:"description"`
	Requirement []ItemRequirement `json:"requirement,omitempty" yaml:"requirement,omitempty"`
	Tags        []string          `json:"tags"                  yaml:"tags"`
	Like        int               `json:"like"                  yaml:"like"`
	Dislike     int               `json:"dislike"               yaml:"dislike"`
	VerifyAdmin string            `json:"verifyAdmin,omitempty" yaml:"verify_admin,omitempty"`
}

// Map is a published or pending map.
type Map struct {
	ID          string   `json:"id"          yaml:"id"`
	Name        string   `json:"name"        yaml:"name"`
	AuthorID    string   `json:"authorId"    yaml:"author_id"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags"        yaml:"tags"`
	Like        int      `json:"like"        yaml:"like"`
	Dislike     int      `json:"dislike"     yaml:"dislike"`
	Width       int      `json:"width"       yaml:"width"`
	Height      int      `json:"height"      yaml:"height"`
}

// Post is a forum post.
type Post struct {
	ID        string    `json:"id"        yaml:"id"`
	Title     string    `json:"title"     yaml:"title"`
	Header    string    `json:"header"    yaml:"header"`
	AuthorID  string    `json:"authorId"  yaml:"author_id"`
	Tags      []string  `json:"tags"      yaml:"tags"`
	Like      int       `json:"like"      yaml:"like"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Comment is a comment on a schematic, map or post, or a reply to another comment.
type Comment struct {
	ID         string    `json:"id"         yaml:"id"`
	AuthorID   string    `json:"authorId"   yaml:"author_id"`
	TargetID   string    `json:"targetId"   yaml:"target_id"`
	Content    string    `json:"content"    yaml:"content"`
	ReplyCount int       `json:"replyCount" yaml:"reply_count"`
	CreatedAt  time.Time `json:"createdAt"  yaml:"created_at"`
}

// User is a site account.
type User struct {
	ID       string   `json:"id"       yaml:"id"`
	Name     string   `json:"name"     yaml:"name"`
	ImageURL string   `json:"imageUrl" yaml:"image_url"`
	Roles    []string `json:"role"     yaml:"roles"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && slices.Contains(u.Roles, RoleAdmin)
}

// CanDelete reports whether user may delete content written by authorID.
func CanDelete(authorID string, user *User) bool {
	if user == nil {
		return false
	}
	return user.ID == authorID || user.IsAdmin()
}

// DownloadName returns the file name used when saving content of the given kind,
// e.g. "schematic_Fast_Drill.msch".
func DownloadName(kind, name, extension string) string {
	base := strings.ReplaceAll(strings.TrimSpace(kind+"_"+strings.TrimSpace(name)), " ", "_")
	return fmt.Sprintf("%s.%s", base, extension)
}

// DecodeTags turns the raw tag strings stored on a record into tag queries. Entries
// that do not parse or are unknown to catalog are dropped.
func DecodeTags(raw []string, catalog *tags.Catalog) []tags.TagQuery {
	return tags.ParseAll(raw, catalog)
}

// Title upper-cases the first letter of every word.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

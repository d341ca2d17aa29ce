package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rshade/mindtool/internal/content"
	"github.com/rshade/mindtool/internal/pager"
)

// Paged list endpoints. Page i of an endpoint is served at "<path>/<i>".
const (
	PathSchematics       = "schematic/page"
	PathMaps             = "map/page"
	PathPosts            = "post/page"
	PathSchematicUploads = "schematic-upload/page"
	PathMyUploads        = "user/schematic-upload/page"
)

// CommentsPath returns the paged endpoint listing comments on a target.
func CommentsPath(contentType, targetID string) string {
	return "comment/" + url.PathEscape(contentType) + "/" + url.PathEscape(targetID) + "/page"
}

// PageFetcher fetches JSON array pages of T. It implements pager.Fetcher.
type PageFetcher[T any] struct {
	client *Client
}

var _ pager.Fetcher[content.Schematic] = PageFetcher[content.Schematic]{}

// NewPageFetcher returns a fetcher for records of type T.
func NewPageFetcher[T any](client *Client) PageFetcher[T] {
	return PageFetcher[T]{client: client}
}

// FetchPage requests page index of path. A JSON null body yields a nil slice.
func (f PageFetcher[T]) FetchPage(ctx context.Context, path string, index int, params url.Values) ([]T, error) {
	var items []T
	target := strings.TrimSuffix(path, "/") + "/" + strconv.Itoa(index)
	if err := f.client.getJSON(ctx, target, params, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

package pager

import (
	"context"
	"net/url"
)

// Fetcher retrieves one page of a page-indexed endpoint.
// Implementations return at most the page size of items, in server order.
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, path string, index int, params url.Values) ([]T, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc[T any] func(ctx context.Context, path string, index int, params url.Values) ([]T, error)

// FetchPage implements Fetcher.
func (f FetcherFunc[T]) FetchPage(ctx context.Context, path string, index int, params url.Values) ([]T, error) {
	return f(ctx, path, index, params)
}

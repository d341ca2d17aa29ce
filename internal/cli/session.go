package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/rshade/mindtool/internal/api"
	"github.com/rshade/mindtool/internal/config"
	"github.com/rshade/mindtool/internal/logging"
	"github.com/rshade/mindtool/internal/tags"
	"github.com/rshade/mindtool/internal/tags/cache"
)

// session bundles what every server-facing command needs: the validated config,
// an API client, the tag library and the cache of server catalogs.
type session struct {
	cfg      *config.Config
	client   *api.Client
	library  *tags.Library
	tagCache *cache.FileStore
	log      zerolog.Logger
}

// newSession validates the global config and builds the client and tag library.
func newSession(ctx context.Context) (*session, error) {
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	client, err := api.NewClient(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Token:     cfg.API.Token,
		Timeout:   cfg.Timeout(),
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}

	library, err := loadLibrary(cfg.Tags.LibraryFile)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, client: client, library: library, tagCache: newTagCache(cfg, log), log: log}, nil
}

// newTagCache opens $MINDTOOL_HOME/cache/tags. Failures leave caching disabled.
func newTagCache(cfg *config.Config, log zerolog.Logger) *cache.FileStore {
	disabled, _ := cache.NewFileStore("", 0)
	if cfg.TagCacheTTL() <= 0 {
		return disabled
	}
	dir, err := config.TagCacheDir()
	if err == nil {
		var store *cache.FileStore
		if store, err = cache.NewFileStore(dir, cfg.TagCacheTTL()); err == nil {
			return store
		}
	}
	log.Warn().
		Str("component", "cli").
		Str("operation", "open_tag_cache").
		Err(err).
		Msg("tag cache unavailable")
	return disabled
}

// loadLibrary reads a custom tag library, or returns the built-in one when path is empty.
func loadLibrary(path string) (*tags.Library, error) {
	if path == "" {
		return tags.DefaultLibrary(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tag library: %w", err)
	}
	defer f.Close()
	return tags.LoadLibrary(f)
}

// catalog returns the tag catalog for group, from the server when tags.remote is set.
// An empty group yields an empty catalog.
func (s *session) catalog(ctx context.Context, group string) (*tags.Catalog, error) {
	if group == "" {
		return tags.MustCatalog(), nil
	}
	if s.cfg.Tags.Remote {
		return s.remoteCatalog(ctx, group, false)
	}
	return s.library.Group(group)
}

// remoteCatalog returns the server's catalog for group, from the cache unless refresh
// is set or the entry is missing or stale.
func (s *session) remoteCatalog(ctx context.Context, group string, refresh bool) (*tags.Catalog, error) {
	key := cache.Key(s.client.BaseURL(), group)
	if !refresh && s.tagCache.IsEnabled() {
		catalog, err := s.tagCache.Get(key)
		if err == nil {
			s.log.Debug().Ctx(ctx).
				Str("component", "cli").
				Str("operation", "remote_catalog").
				Str("group", group).
				Msg("tag cache hit")
			return catalog, nil
		}
		s.log.Debug().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "remote_catalog").
			Str("group", group).
			Err(err).
			Msg("tag cache miss")
	}

	catalog, err := s.client.TagGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	if s.tagCache.IsEnabled() {
		if err = s.tagCache.Set(key, catalog); err != nil {
			s.log.Warn().Ctx(ctx).
				Str("component", "cli").
				Str("operation", "remote_catalog").
				Str("group", group).
				Err(err).
				Msg("could not cache tag group")
		}
	}
	return catalog, nil
}

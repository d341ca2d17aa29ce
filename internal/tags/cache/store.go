// Package cache keeps tag catalogs fetched from the server on disk, one JSON file
// per server and group, so remote catalogs are not re-fetched on every run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rshade/mindtool/internal/tags"
)

// cacheFileExtension is the file extension used for cache entries.
const cacheFileExtension = ".json"

// serverHashLen is how many hex digits of the server URL hash go into a key.
const serverHashLen = 12

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// Entry is one cached catalog with its expiry.
type Entry struct {
	Key        string          `json:"key"`
	Categories []tags.Category `json:"categories"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

// Catalog rebuilds the cached catalog.
func (e *Entry) Catalog() (*tags.Catalog, error) {
	return tags.NewCatalog(e.Categories...)
}

// FileStore is a directory of cache entries with a single TTL. A store with a zero
// TTL is disabled. Safe for concurrent use.
type FileStore struct {
	directory string
	ttl       time.Duration
	now       func() time.Time

	mu sync.RWMutex
}

// NewFileStore creates the directory when ttl is positive.
func NewFileStore(directory string, ttl time.Duration) (*FileStore, error) {
	if ttl <= 0 {
		return &FileStore{now: time.Now}, nil
	}
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{directory: directory, ttl: ttl, now: time.Now}, nil
}

// Key names the entry for group as served by baseURL.
func Key(baseURL, group string) string {
	sum := sha256.Sum256([]byte(strings.TrimSuffix(baseURL, "/")))
	return group + "-" + hex.EncodeToString(sum[:])[:serverHashLen]
}

// IsEnabled reports whether the store caches anything.
func (s *FileStore) IsEnabled() bool {
	return s.ttl > 0
}

// Get returns the catalog stored under key. Expired entries are removed and reported
// as ErrCacheExpired.
func (s *FileStore) Get(key string) (*tags.Catalog, error) {
	if !s.IsEnabled() {
		return nil, ErrCacheDisabled
	}
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.keyToFilePath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	if s.now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, ErrCacheExpired
	}
	return entry.Catalog()
}

// Set stores catalog under key, replacing any previous entry.
func (s *FileStore) Set(key string, catalog *tags.Catalog) error {
	if !s.IsEnabled() {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	now := s.now()
	entry := Entry{
		Key:        key,
		Categories: catalog.Categories(),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a temporary file first, then rename for atomicity.
	path := s.keyToFilePath(key)
	tempPath := path + ".tmp"
	if err = os.WriteFile(tempPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err = os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (s *FileStore) Clear() (int, error) {
	if !s.IsEnabled() {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != cacheFileExtension {
			continue
		}
		if err = os.Remove(filepath.Join(s.directory, e.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove cache file %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// Directory returns the cache directory.
func (s *FileStore) Directory() string {
	return s.directory
}

func (s *FileStore) keyToFilePath(key string) string {
	safeKey := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.directory, safeKey+cacheFileExtension)
}

package formatic

import (
	"context"
	"sync"
	"time"
)

// Storage cache defaults
const (
	DefaultStorageCacheTTL         = 5 * time.Minute
	DefaultStorageCacheMaxEntries  = 1000
	DefaultStorageCacheNegativeTTL = 30 * time.Second
)

// CachedStorage wraps any TemplateStorage and caches Get and Exists lookups
// by name. Writes through the wrapper invalidate the affected name.
type CachedStorage struct {
	storage TemplateStorage
	config  StorageCacheConfig
	now     func() time.Time

	mu     sync.Mutex
	cache  map[string]*storageCacheEntry
	closed bool
}

// StorageCacheConfig configures CachedStorage.
type StorageCacheConfig struct {
	// TTL is how long cached templates remain valid.
	// Default: 5 minutes.
	TTL time.Duration

	// MaxEntries bounds the cache; the least recently accessed entry is evicted.
	// Default: 1000.
	MaxEntries int

	// NegativeCacheTTL is how long "not found" results are cached.
	// Zero disables negative caching.
	NegativeCacheTTL time.Duration
}

// DefaultStorageCacheConfig returns the default caching configuration.
func DefaultStorageCacheConfig() StorageCacheConfig {
	return StorageCacheConfig{
		TTL:              DefaultStorageCacheTTL,
		MaxEntries:       DefaultStorageCacheMaxEntries,
		NegativeCacheTTL: DefaultStorageCacheNegativeTTL,
	}
}

type storageCacheEntry struct {
	template   *StoredTemplate
	notFound   bool
	cachedAt   time.Time
	accessedAt time.Time
}

// StorageCacheStats contains cache statistics.
type StorageCacheStats struct {
	Entries         int
	ValidEntries    int
	NegativeEntries int
}

// NewCachedStorage wraps storage with caching.
func NewCachedStorage(storage TemplateStorage, config StorageCacheConfig) *CachedStorage {
	if config.TTL <= 0 {
		config.TTL = DefaultStorageCacheTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultStorageCacheMaxEntries
	}

	return &CachedStorage{
		storage: storage,
		config:  config,
		now:     time.Now,
		cache:   make(map[string]*storageCacheEntry),
	}
}

// Get retrieves the latest version of a template, using the cache when valid.
func (s *CachedStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, NewStorageClosedError()
	}
	if entry, ok := s.cache[name]; ok && s.isValid(entry) {
		entry.accessedAt = s.now()
		s.mu.Unlock()
		if entry.notFound {
			return nil, NewTemplateNotFoundError(name)
		}
		return entry.template.clone(), nil
	}
	s.mu.Unlock()

	tmpl, err := s.storage.Get(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	if err != nil {
		if s.config.NegativeCacheTTL > 0 && IsTemplateNotFound(err) {
			s.add(name, nil, true)
		}
		return nil, err
	}

	s.add(name, tmpl, false)
	return tmpl.clone(), nil
}

// GetVersion bypasses the cache.
func (s *CachedStorage) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	return s.storage.GetVersion(ctx, name, version)
}

// Save stores a template and invalidates its cache entry.
func (s *CachedStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := s.storage.Save(ctx, tmpl); err != nil {
		return err
	}
	s.Invalidate(tmpl.Name)
	return nil
}

// Delete removes a template and invalidates its cache entry.
func (s *CachedStorage) Delete(ctx context.Context, name string) error {
	if err := s.storage.Delete(ctx, name); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

// List bypasses the cache.
func (s *CachedStorage) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	return s.storage.List(ctx, query)
}

// Exists answers from the cache when a valid entry exists.
func (s *CachedStorage) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, NewStorageClosedError()
	}
	if entry, ok := s.cache[name]; ok && s.isValid(entry) {
		s.mu.Unlock()
		return !entry.notFound, nil
	}
	s.mu.Unlock()

	return s.storage.Exists(ctx, name)
}

// ListVersions bypasses the cache.
func (s *CachedStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	return s.storage.ListVersions(ctx, name)
}

// Close drops the cache and closes the underlying storage.
func (s *CachedStorage) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cache = nil
	s.mu.Unlock()

	return s.storage.Close()
}

// Invalidate removes a name from the cache.
func (s *CachedStorage) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// InvalidateAll clears the cache.
func (s *CachedStorage) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string]*storageCacheEntry)
	s.mu.Unlock()
}

// Stats returns cache statistics.
func (s *CachedStorage) Stats() StorageCacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := StorageCacheStats{Entries: len(s.cache)}
	for _, entry := range s.cache {
		if !s.isValid(entry) {
			continue
		}
		if entry.notFound {
			stats.NegativeEntries++
		} else {
			stats.ValidEntries++
		}
	}
	return stats
}

// isValid reports whether entry is within its TTL (caller holds the lock)
func (s *CachedStorage) isValid(entry *storageCacheEntry) bool {
	ttl := s.config.TTL
	if entry.notFound {
		ttl = s.config.NegativeCacheTTL
	}
	return s.now().Sub(entry.cachedAt) < ttl
}

// add stores an entry, evicting the least recently accessed at capacity (caller holds the lock)
func (s *CachedStorage) add(name string, tmpl *StoredTemplate, notFound bool) {
	if _, exists := s.cache[name]; !exists && len(s.cache) >= s.config.MaxEntries {
		s.evictOldest()
	}

	now := s.now()
	s.cache[name] = &storageCacheEntry{
		template:   tmpl.clone(),
		notFound:   notFound,
		cachedAt:   now,
		accessedAt: now,
	}
}

func (s *CachedStorage) evictOldest() {
	var (
		oldestName string
		oldest     *storageCacheEntry
	)
	for name, entry := range s.cache {
		if oldest == nil || entry.accessedAt.Before(oldest.accessedAt) {
			oldestName, oldest = name, entry
		}
	}
	if oldest != nil {
		delete(s.cache, oldestName)
	}
}

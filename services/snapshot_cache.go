package services

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Paths of the back-office views whose read models are cached between mutations
const (
	PathDashboard   = "/admin"
	PathOrders      = "/admin/orders"
	PathProducts    = "/admin/products"
	PathIngredients = "/admin/ingredients"
	PathFinancial   = "/admin/financial"
	PathSettings    = "/admin/settings"
	PathStorefront  = "/"
)

// DefaultSnapshotTTL bounds how long a snapshot is served even without a mutation, so
// time-relative figures like "orders today" roll over.
const DefaultSnapshotTTL = time.Minute

type snapshot struct {
	value    interface{}
	storedAt time.Time
}

// SnapshotCache keeps computed read models per view path. Mutations call Revalidate with
// the paths they affect so the next read recomputes from the database.
type SnapshotCache struct {
	ttl     time.Duration
	entries map[string]snapshot
	mu      sync.RWMutex
}

var snapshotCacheInstance = NewSnapshotCache(DefaultSnapshotTTL)

// NewSnapshotCache creates an empty cache. A ttl of zero disables expiry.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		ttl:     ttl,
		entries: make(map[string]snapshot),
	}
}

// GetSnapshotCache returns the process-wide cache
func GetSnapshotCache() *SnapshotCache {
	return snapshotCacheInstance
}

// SetSnapshotCache replaces the process-wide cache (primarily for testing)
func SetSnapshotCache(cache *SnapshotCache) {
	snapshotCacheInstance = cache
}

// Get returns the snapshot stored for path if it is still fresh
func (s *SnapshotCache) Get(path string) (interface{}, bool) {
	s.mu.RLock()
	entry, ok := s.entries[path]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && time.Since(entry.storedAt) > s.ttl {
		return nil, false
	}
	return entry.value, true
}

// Set stores the snapshot for path
func (s *SnapshotCache) Set(path string, value interface{}) {
	s.mu.Lock()
	s.entries[path] = snapshot{value: value, storedAt: time.Now()}
	s.mu.Unlock()
}

// Revalidate drops the snapshots of the given paths
func (s *SnapshotCache) Revalidate(paths ...string) {
	s.mu.Lock()
	for _, path := range paths {
		delete(s.entries, path)
	}
	s.mu.Unlock()
	zap.L().Debug("revalidated views", zap.Strings("paths", paths))
}

// Len returns the number of stored snapshots
func (s *SnapshotCache) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Revalidate drops snapshots on the process-wide cache
func Revalidate(paths ...string) {
	GetSnapshotCache().Revalidate(paths...)
}

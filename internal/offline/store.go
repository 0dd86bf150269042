package offline

import (
	"context"
	"sync"
)

// CachedResponse is the envelope a stored asset round-trips through the
// cache as.
type CachedResponse struct {
	URL         string `json:"url"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// AssetStore is a set of versioned response caches. Exactly one version is
// live at a time; activation deletes the rest.
type AssetStore interface {
	Put(ctx context.Context, version string, resp CachedResponse) error
	Match(ctx context.Context, version, url string) (*CachedResponse, bool, error)
	Versions(ctx context.Context) ([]string, error)
	DeleteVersion(ctx context.Context, version string) error
	Count(ctx context.Context, version string) (int, error)
}

// MemoryStore backs tests and redis-less development runs.
type MemoryStore struct {
	mu       sync.RWMutex
	versions map[string]map[string]CachedResponse
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{versions: make(map[string]map[string]CachedResponse)}
}

func (s *MemoryStore) Put(ctx context.Context, version string, resp CachedResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.versions[version]
	if !ok {
		bucket = make(map[string]CachedResponse)
		s.versions[version] = bucket
	}
	bucket[resp.URL] = resp
	return nil
}

func (s *MemoryStore) Match(ctx context.Context, version, url string) (*CachedResponse, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp, ok := s.versions[version][url]
	if !ok {
		return nil, false, nil
	}
	return &resp, true, nil
}

func (s *MemoryStore) Versions(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := make([]string, 0, len(s.versions))
	for v := range s.versions {
		versions = append(versions, v)
	}
	return versions, nil
}

func (s *MemoryStore) DeleteVersion(ctx context.Context, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.versions, version)
	return nil
}

func (s *MemoryStore) Count(ctx context.Context, version string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.versions[version]), nil
}

package store

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/mosaic/pkg/manifest"
)

// MemoryStore keeps albums in a map.
type MemoryStore struct {
	mu     sync.RWMutex
	albums map[string]*manifest.Album
	now    func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{albums: make(map[string]*manifest.Album), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*manifest.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.albums[id]
	if !ok {
		return nil, notFound(id)
	}
	return clone(a), nil
}

func (s *MemoryStore) Put(_ context.Context, album *manifest.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var created time.Time
	if old, ok := s.albums[album.ID]; ok {
		created = old.CreatedAt
	}
	stamp(album, created, s.now().UTC())
	s.albums[album.ID] = clone(album)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.albums[id]; !ok {
		return notFound(id)
	}
	delete(s.albums, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*manifest.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*manifest.Album, 0, len(s.albums))
	for _, a := range s.albums {
		out = append(out, clone(a))
	}
	sortByID(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

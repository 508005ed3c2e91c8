package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/manifest"
)

// FileStore keeps one JSON manifest per album in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/mosaic/albums/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".config", "mosaic", "albums")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create album dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) albumPath(id string) (string, error) {
	if err := errors.ValidateItemID(id); err != nil {
		return "", err
	}
	if strings.ContainsAny(id, `/\`) || id == "." {
		return "", errors.New(errors.ErrCodeInvalidItemID, "album id %q cannot be used as a file name", id)
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *FileStore) Get(_ context.Context, id string) (*manifest.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(id)
}

func (s *FileStore) load(id string) (*manifest.Album, error) {
	path, err := s.albumPath(id)
	if err != nil {
		return nil, err
	}
	a, err := manifest.Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	// Relative item paths belong to the client, not the store directory.
	a.SetDir("")
	return a, nil
}

func (s *FileStore) Put(_ context.Context, album *manifest.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.albumPath(album.ID)
	if err != nil {
		return err
	}
	var created time.Time
	if old, err := s.load(album.ID); err == nil {
		created = old.CreatedAt
	}
	stamp(album, created, time.Now().UTC())

	// Write through a temp file so readers never see a partial manifest.
	tmp := path + ".tmp.json"
	if err := album.Save(tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "store album %s", album.ID)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.albumPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "remove album %s", id)
	}
	return nil
}

func (s *FileStore) List(_ context.Context) ([]*manifest.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read album dir")
	}
	var out []*manifest.Album
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasSuffix(name, ".tmp.json") {
			continue
		}
		a, err := s.load(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		out = append(out, a)
	}
	sortByID(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for album files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

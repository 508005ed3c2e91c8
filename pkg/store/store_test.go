package store

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/grouped"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/media"
)

func album(id string, items ...string) *manifest.Album {
	a := &manifest.Album{ID: id, Kind: grouped.KindMedia}
	for _, it := range items {
		a.Items = append(a.Items, manifest.Item{ID: it, Type: media.TypePhoto, Width: 400, Height: 300})
	}
	return a
}

// exercise runs the behavior every backend must share.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeAlbumNotFound) {
		t.Fatalf("Get(missing) error = %v, want ALBUM_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, errors.ErrCodeAlbumNotFound) {
		t.Fatalf("Delete(missing) error = %v, want ALBUM_NOT_FOUND", err)
	}

	b := album("beach", "a", "b")
	if err := s.Put(ctx, b); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if b.CreatedAt.IsZero() || b.UpdatedAt.IsZero() {
		t.Error("Put should stamp timestamps")
	}
	created := b.CreatedAt

	if err := s.Put(ctx, album("alps", "x")); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "beach")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if len(got.Items) != 2 || got.Items[1].ID != "b" || got.Items[0].Width != 400 {
		t.Errorf("Get() items = %+v", got.Items)
	}

	// Replace with a new order; creation time survives.
	if err := got.Reorder([]string{"b", "a"}); err != nil {
		t.Fatal(err)
	}
	got.CreatedAt = time.Time{}
	if err := s.Put(ctx, got); err != nil {
		t.Fatal(err)
	}
	again, err := s.Get(ctx, "beach")
	if err != nil {
		t.Fatal(err)
	}
	if again.Items[0].ID != "b" {
		t.Errorf("order after replace = %s, want b first", again.Items[0].ID)
	}
	if !again.CreatedAt.Equal(created) && again.CreatedAt.Sub(created).Abs() > time.Millisecond {
		t.Errorf("CreatedAt changed from %v to %v", created, again.CreatedAt)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "alps" || list[1].ID != "beach" {
		ids := make([]string, len(list))
		for i, a := range list {
			ids[i] = a.ID
		}
		t.Errorf("List() = %v, want [alps beach]", ids)
	}

	if err := s.Delete(ctx, "alps"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "alps"); !errors.IsNotFound(err) {
		t.Errorf("Get after Delete error = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exercise(t, s)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := album("x", "a", "b")
	if err := s.Put(ctx, a); err != nil {
		t.Fatal(err)
	}
	a.Items[0].ID = "changed"

	got, _ := s.Get(ctx, "x")
	if got.Items[0].ID != "a" {
		t.Error("stored album aliases the caller's items")
	}
	got.Items[1].ID = "changed"
	again, _ := s.Get(ctx, "x")
	if again.Items[1].ID != "b" {
		t.Error("returned album aliases the stored items")
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Path() != dir {
		t.Errorf("Path() = %s, want %s", s.Path(), dir)
	}
	exercise(t, s)
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"a/b", `a\b`, ""} {
		if _, err := s.Get(context.Background(), id); !errors.IsInvalid(err) {
			t.Errorf("Get(%q) error = %v, want invalid id", id, err)
		}
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MOSAIC_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MOSAIC_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{
		URI:        uri,
		Database:   "mosaic_test",
		Collection: "albums_" + strconv.FormatInt(time.Now().UnixNano(), 36),
	})
	if err != nil {
		t.Fatalf("NewMongoStore() error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.coll.Drop(context.Background())
		_ = s.Close()
	})
	exercise(t, s)
}

func TestNewMongoStoreRequiresURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), MongoConfig{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

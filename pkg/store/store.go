// Package store persists albums for the HTTP server.
//
// Three backends implement [Store]:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [FileStore]: one JSON manifest per album in a directory
//   - [MongoStore]: MongoDB, for multi-instance deployments
//
// Every backend reports a missing album with [errors.ErrCodeAlbumNotFound]
// and stamps CreatedAt/UpdatedAt on Put.
package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/manifest"
)

// Store is the interface for album storage backends.
type Store interface {
	// Get returns the album with the given id.
	Get(ctx context.Context, id string) (*manifest.Album, error)

	// Put creates or replaces an album.
	Put(ctx context.Context, album *manifest.Album) error

	// Delete removes an album.
	Delete(ctx context.Context, id string) error

	// List returns every album ordered by id.
	List(ctx context.Context) ([]*manifest.Album, error)

	Close() error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeAlbumNotFound, "album %q not found", id)
}

// stamp sets the timestamps of an album about to be written. CreatedAt
// of an existing album wins over the caller's.
func stamp(a *manifest.Album, created time.Time, now time.Time) {
	if !created.IsZero() {
		a.CreatedAt = created
	} else if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

// clone copies an album so callers cannot alias stored items.
func clone(a *manifest.Album) *manifest.Album {
	c := *a
	c.Items = slices.Clone(a.Items)
	return &c
}

func sortByID(albums []*manifest.Album) {
	slices.SortFunc(albums, func(a, b *manifest.Album) int {
		return strings.Compare(a.ID, b.ID)
	})
}

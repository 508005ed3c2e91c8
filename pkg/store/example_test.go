package store_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/store"
)

func ExampleMemoryStore() {
	ctx := context.Background()
	s := store.NewMemoryStore()

	_ = s.Put(ctx, &manifest.Album{ID: "beach", Items: []manifest.Item{{ID: "a"}, {ID: "b"}}})
	a, _ := s.Get(ctx, "beach")
	fmt.Println(a.ID, len(a.Items))

	_, err := s.Get(ctx, "alps")
	fmt.Println(errors.GetCode(err))
	// Output:
	// beach 2
	// ALBUM_NOT_FOUND
}

package media

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
)

// DecodeSize reads an image header from r and returns its pixel size and
// format name.
func DecodeSize(r io.Reader) (geom.Size, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return geom.Size{}, "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode image header")
	}
	return geom.Size{Width: float64(cfg.Width), Height: float64(cfg.Height)}, format, nil
}

// DecodeFile opens path and reads its pixel size.
func DecodeFile(path string) (geom.Size, error) {
	if err := errors.ValidateMediaPath(path); err != nil {
		return geom.Size{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return geom.Size{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return geom.Size{}, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	size, _, err := DecodeSize(f)
	if err != nil {
		return geom.Size{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", path)
	}
	return size, nil
}

// DefaultWorkers bounds concurrent header reads in Probe.
const DefaultWorkers = 8

// Probe fills in Pixels for photos that have a Path but no size yet,
// reading up to workers files at a time. It stops at the first error.
// Videos carry no decodable header and must be sized by the caller.
func Probe(ctx context.Context, photos []Photo, workers int) error {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range photos {
		p := &photos[i]
		if p.Path == "" || !p.Pixels.IsEmpty() || (p.Type != TypePhoto && p.Type != "") {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			size, err := DecodeFile(p.Path)
			if err != nil {
				return err
			}
			p.Pixels = size
			return nil
		})
	}
	return g.Wait()
}

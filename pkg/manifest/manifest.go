package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/grouped"
	"github.com/matzehuels/mosaic/pkg/media"
)

// MaxItems is the largest album a manifest may describe.
const MaxItems = 10

// Album is an ordered group of media items.
type Album struct {
	ID        string       `toml:"id" json:"id" bson:"_id"`
	Title     string       `toml:"title,omitempty" json:"title,omitempty" bson:"title,omitempty"`
	Kind      grouped.Kind `toml:"kind,omitempty" json:"kind,omitempty" bson:"kind"`
	Items     []Item       `toml:"items" json:"items" bson:"items"`
	CreatedAt time.Time    `toml:"-" json:"created_at,omitempty" bson:"created_at"`
	UpdatedAt time.Time    `toml:"-" json:"updated_at,omitempty" bson:"updated_at"`

	// dir is where relative item paths are resolved from.
	dir string
}

// Item is one album entry.
type Item struct {
	ID            string     `toml:"id" json:"id" bson:"id"`
	Path          string     `toml:"path,omitempty" json:"path,omitempty" bson:"path,omitempty"`
	Type          media.Type `toml:"type,omitempty" json:"type,omitempty" bson:"type,omitempty"`
	Width         float64    `toml:"width,omitempty" json:"width,omitempty" bson:"width,omitempty"`
	Height        float64    `toml:"height,omitempty" json:"height,omitempty" bson:"height,omitempty"`
	Caption       string     `toml:"caption,omitempty" json:"caption,omitempty" bson:"caption,omitempty"`
	CaptionHeight float64    `toml:"caption_height,omitempty" json:"caption_height,omitempty" bson:"caption_height,omitempty"`
}

// Format is a manifest encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	if err := errors.ValidateManifestFilename(filepath.Base(path)); err != nil {
		return "", err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON, nil
	}
	return FormatTOML, nil
}

// Load reads, defaults and validates the manifest at path.
func Load(path string) (*Album, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read manifest %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read manifest %s", path)
	}
	a, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	a.dir = filepath.Dir(path)
	return a, nil
}

// Parse decodes, defaults and validates a manifest.
func Parse(data []byte, format Format) (*Album, error) {
	var a Album
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode json manifest")
		}
	case FormatTOML, "":
		if err := toml.Unmarshal(data, &a); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode toml manifest")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown manifest format %q", format)
	}
	a.SetDefaults()
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// SetDefaults fills in ids, kind and item types.
func (a *Album) SetDefaults() {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Kind == "" {
		a.Kind = grouped.KindMedia
	}
	for i := range a.Items {
		it := &a.Items[i]
		if it.Type == "" {
			it.Type = media.TypePhoto
		}
		if it.ID == "" && it.Path != "" {
			base := filepath.Base(it.Path)
			it.ID = strings.TrimSuffix(base, filepath.Ext(base))
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
	}
}

// Validate checks the album shape: kind, item count, unique valid ids,
// paths and sizes.
func (a *Album) Validate() error {
	if err := errors.ValidateItemID(a.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "album id")
	}
	if _, err := grouped.ParseKind(string(a.Kind)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "album %s", a.ID)
	}
	if len(a.Items) == 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "album %s has no items", a.ID)
	}
	if len(a.Items) > MaxItems {
		return errors.New(errors.ErrCodeInvalidManifest, "album %s has %d items, at most %d are allowed", a.ID, len(a.Items), MaxItems)
	}

	seen := make(map[string]bool, len(a.Items))
	for i, it := range a.Items {
		if err := errors.ValidateItemID(it.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "item %d", i)
		}
		if seen[it.ID] {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate item id %q", it.ID)
		}
		seen[it.ID] = true

		if _, err := media.ParseType(string(it.Type)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "item %s", it.ID)
		}
		if it.Path != "" {
			if err := errors.ValidateMediaPath(it.Path); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidManifest, err, "item %s", it.ID)
			}
		}
		if it.Width < 0 || it.Height < 0 || it.CaptionHeight < 0 {
			return errors.New(errors.ErrCodeInvalidManifest, "item %s has a negative size", it.ID)
		}
	}
	return nil
}

// Dir is the directory relative paths resolve against; empty for albums
// that were not loaded from disk.
func (a *Album) Dir() string { return a.dir }

// SetDir changes the directory relative paths resolve against.
func (a *Album) SetDir(dir string) { a.dir = dir }

// Photos converts the items to media entries, resolving relative paths.
func (a *Album) Photos() []media.Photo {
	photos := make([]media.Photo, len(a.Items))
	for i, it := range a.Items {
		path := it.Path
		if path != "" && !filepath.IsAbs(path) && a.dir != "" {
			path = filepath.Join(a.dir, path)
		}
		photos[i] = media.Photo{
			Key:    it.ID,
			Path:   path,
			Type:   it.Type,
			Pixels: geom.Size{Width: it.Width, Height: it.Height},
		}
	}
	return photos
}

// Captions lists the caption heights of captioned items.
func (a *Album) Captions() []grouped.Caption {
	var out []grouped.Caption
	for _, it := range a.Items {
		if it.CaptionHeight > 0 {
			out = append(out, grouped.Caption{ItemID: it.ID, Height: it.CaptionHeight})
		}
	}
	return out
}

// SetSizes records probed pixel sizes back onto the items.
func (a *Album) SetSizes(photos []media.Photo) {
	sizes := make(map[string]geom.Size, len(photos))
	for _, p := range photos {
		sizes[p.Key] = p.Pixels
	}
	for i := range a.Items {
		if s, ok := sizes[a.Items[i].ID]; ok && !s.IsEmpty() {
			a.Items[i].Width, a.Items[i].Height = s.Width, s.Height
		}
	}
}

// Reorder puts the items in the order of ids, which must name every item
// exactly once.
func (a *Album) Reorder(ids []string) error {
	if len(ids) != len(a.Items) {
		return errors.New(errors.ErrCodeInvalidInput, "order names %d items, album has %d", len(ids), len(a.Items))
	}
	byID := make(map[string]Item, len(a.Items))
	for _, it := range a.Items {
		byID[it.ID] = it
	}
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "unknown or repeated item %q", id)
		}
		delete(byID, id)
		items = append(items, it)
	}
	a.Items = items
	return nil
}

// Encode writes the album in the given format.
func (a *Album) Encode(format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(a); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json manifest")
		}
	case FormatTOML, "":
		if err := toml.NewEncoder(&buf).Encode(a); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode toml manifest")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown manifest format %q", format)
	}
	return buf.Bytes(), nil
}

// Save writes the album to path, choosing the format by extension.
func (a *Album) Save(path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := a.Encode(format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write manifest %s", path)
	}
	return nil
}

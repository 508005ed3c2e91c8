package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/grouped"
	"github.com/matzehuels/mosaic/pkg/media"
)

const sampleTOML = `
id = "summer"
title = "Summer"

[[items]]
id = "beach"
path = "beach.jpg"
width = 1600
height = 1200

[[items]]
path = "photos/dunes.png"

[[items]]
id = "clip"
type = "video"
width = 1920
height = 1080
`

func TestParseTOML(t *testing.T) {
	a, err := Parse([]byte(sampleTOML), FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if a.ID != "summer" || a.Title != "Summer" || a.Kind != grouped.KindMedia {
		t.Errorf("album = %+v", a)
	}
	if len(a.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(a.Items))
	}
	if a.Items[1].ID != "dunes" {
		t.Errorf("id from path = %q, want dunes", a.Items[1].ID)
	}
	if a.Items[0].Type != media.TypePhoto || a.Items[2].Type != media.TypeVideo {
		t.Errorf("types = %q, %q", a.Items[0].Type, a.Items[2].Type)
	}
}

func TestParseJSON(t *testing.T) {
	data := `{"kind": "files", "items": [{"id": "doc", "type": "file", "caption_height": 18}]}`
	a, err := Parse([]byte(data), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if a.ID == "" {
		t.Error("album id should be generated")
	}
	if a.Kind != grouped.KindFiles {
		t.Errorf("kind = %q", a.Kind)
	}
	if got := a.Captions(); len(got) != 1 || got[0].ItemID != "doc" || got[0].Height != 18 {
		t.Errorf("Captions() = %+v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"no items", `id = "a"`, "no items"},
		{"duplicate", "[[items]]\nid = \"x\"\n[[items]]\nid = \"x\"", "duplicate"},
		{"bad kind", "kind = \"grid\"\n[[items]]\nid = \"x\"", "unknown album kind"},
		{"bad type", "[[items]]\nid = \"x\"\ntype = \"hologram\"", "unknown media type"},
		{"traversal", "[[items]]\nid = \"x\"\npath = \"../etc/passwd\"", "item x"},
		{"negative", "[[items]]\nid = \"x\"\nwidth = -4", "negative"},
		{"bad id", "[[items]]\nid = \"a b\"", "item 0"},
		{"syntax", "[[items", "decode toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), FormatTOML)
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("error code = %v, want INVALID_MANIFEST", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}

	var b strings.Builder
	for i := 0; i <= MaxItems; i++ {
		b.WriteString("[[items]]\n")
	}
	if _, err := Parse([]byte(b.String()), FormatTOML); err == nil {
		t.Errorf("album with %d items should be rejected", MaxItems+1)
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "album.toml")
	if err := os.WriteFile(src, []byte(sampleTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := Load(src)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	photos := a.Photos()
	if photos[0].Path != filepath.Join(dir, "beach.jpg") {
		t.Errorf("path = %q, want it resolved against the manifest dir", photos[0].Path)
	}
	if photos[0].Pixels != (geom.Size{Width: 1600, Height: 1200}) {
		t.Errorf("pixels = %v", photos[0].Pixels)
	}

	for _, name := range []string{"out.toml", "out.json"} {
		out := filepath.Join(dir, name)
		if err := a.Save(out); err != nil {
			t.Fatalf("Save(%s) error: %v", name, err)
		}
		b, err := Load(out)
		if err != nil {
			t.Fatalf("Load(%s) error: %v", name, err)
		}
		if !reflect.DeepEqual(a.Items, b.Items) {
			t.Errorf("%s items differ:\n%+v\n%+v", name, a.Items, b.Items)
		}
	}

	if _, err := Load(filepath.Join(dir, "album.yaml")); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("Load(yaml) error = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestReorder(t *testing.T) {
	a, err := Parse([]byte(sampleTOML), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Reorder([]string{"clip", "beach", "dunes"}); err != nil {
		t.Fatalf("Reorder() error: %v", err)
	}
	if a.Items[0].ID != "clip" || a.Items[2].ID != "dunes" {
		t.Errorf("order = %v, %v, %v", a.Items[0].ID, a.Items[1].ID, a.Items[2].ID)
	}
	if err := a.Reorder([]string{"clip", "clip", "beach"}); err == nil {
		t.Error("repeated id should be rejected")
	}
	if err := a.Reorder([]string{"clip"}); err == nil {
		t.Error("short order should be rejected")
	}
}

func TestSetSizes(t *testing.T) {
	a, err := Parse([]byte(sampleTOML), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	a.SetSizes([]media.Photo{{Key: "dunes", Pixels: geom.Size{Width: 800, Height: 600}}})
	if a.Items[1].Width != 800 || a.Items[1].Height != 600 {
		t.Errorf("dunes = %+v", a.Items[1])
	}
}

package sink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/grouped"
)

func pairExport() grouped.Export {
	return grouped.Export{
		Kind: grouped.KindMedia, Width: 300, Height: 148, Scale: 1,
		Frames: []grouped.ExportFrame{
			{ID: "a", Index: 0, X: 0, Y: 0, Width: 148, Height: 148, Flags: []string{"top", "bottom", "left"}},
			{ID: "b", Index: 1, X: 152, Y: 0, Width: 148, Height: 148, Flags: []string{"top", "bottom", "right"}},
		},
	}
}

func TestTilePath(t *testing.T) {
	r := geom.MakeRect(0, 0, 100, 50)
	tests := []struct {
		name string
		c    corners
		want string
	}{
		{"square", corners{}, "M0,0 H100 V50 H0 V0 Z"},
		{"all", corners{8, 8, 8, 8}, "M8,0 H92 A8,8 0 0 1 100,8 V42 A8,8 0 0 1 92,50 H8 A8,8 0 0 1 0,42 V8 A8,8 0 0 1 8,0 Z"},
		{"clamped", corners{tl: 40}, "M25,0 H100 V50 H0 V25 A25,25 0 0 1 25,0 Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tilePath(r, tt.c); got != tt.want {
				t.Errorf("tilePath() = %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestCornersFor(t *testing.T) {
	tests := []struct {
		flags grouped.PositionFlags
		want  corners
	}{
		{grouped.PositionTop | grouped.PositionLeft, corners{tl: 8}},
		{grouped.PositionTop | grouped.PositionLeft | grouped.PositionBottom, corners{tl: 8, bl: 8}},
		{grouped.PositionBottom, corners{}},
		{grouped.PositionInside, corners{}},
		{grouped.PositionTop | grouped.PositionBottom | grouped.PositionLeft | grouped.PositionRight, corners{8, 8, 8, 8}},
	}
	for _, tt := range tests {
		if got := cornersFor(tt.flags, 8); got != tt.want {
			t.Errorf("cornersFor(%v) = %+v, want %+v", tt.flags, got, tt.want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(pairExport(), WithLabels(), WithBackground("#000")))

	for _, want := range []string{
		`viewBox="0 0 300 148"`,
		`<rect width="300" height="148" fill="#000"/>`,
		`id="tile-a"`,
		`d="M8,0 H148 V148 H8 A8,8 0 0 1 0,140 V8 A8,8 0 0 1 8,0 Z"`,
		`>1 b</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q:\n%s", want, svg)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("svg not closed")
	}
}

func TestRenderSVGSingleRoundsAllCorners(t *testing.T) {
	e := grouped.Export{Width: 100, Height: 50, Frames: []grouped.ExportFrame{{ID: "only", Width: 100, Height: 50}}}
	svg := string(RenderSVG(e, WithRadius(4)))
	if !strings.Contains(svg, `d="M4,0 H96 A4,4 0 0 1 100,4`) {
		t.Errorf("single tile should be fully rounded:\n%s", svg)
	}
}

func TestRenderSVGImages(t *testing.T) {
	svg := string(RenderSVG(pairExport(), WithImages(map[string]string{"a": "photos/a&b.jpg"})))
	if !strings.Contains(svg, `href="photos/a&amp;b.jpg"`) {
		t.Errorf("image href should be escaped:\n%s", svg)
	}
	if !strings.Contains(svg, `clip-path="url(#clip-0)"`) {
		t.Errorf("image should be clipped:\n%s", svg)
	}
	if !strings.Contains(svg, `<path id="tile-b"`) {
		t.Errorf("tile without image should be a flat path:\n%s", svg)
	}
}

func TestJSON(t *testing.T) {
	data, err := RenderJSON(pairExport())
	if err != nil {
		t.Fatal(err)
	}
	e, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}
	if len(e.Frames) != 2 || e.Frames[1].Position() != grouped.PositionTop|grouped.PositionBottom|grouped.PositionRight {
		t.Errorf("ParseJSON() = %+v", e)
	}

	bad := []string{
		`{"frames": [{"id": "a", "width": 0, "height": 10}]}`,
		`{"frames": [{"id": "a", "width": 5, "height": 10, "flags": ["sideways"]}]}`,
		`not json`,
	}
	for _, b := range bad {
		if _, err := ParseJSON([]byte(b)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseJSON(%s) error = %v, want INVALID_FORMAT", b, err)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	if !HasConverter() {
		t.Skip("rsvg-convert not installed")
	}
	png, err := RenderPNG(context.Background(), pairExport(), WithZoom(1))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

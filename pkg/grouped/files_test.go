package grouped

import (
	"testing"

	"github.com/matzehuels/mosaic/pkg/geom"
)

type testFile struct {
	id      string
	preview bool
	music   bool
}

func (f testFile) ID() string       { return f.id }
func (f testFile) HasPreview() bool { return f.preview }
func (f testFile) IsMusic() bool    { return f.music }

func TestMeasureFiles(t *testing.T) {
	its := []Item{
		testFile{id: "doc"},
		testFile{id: "img", preview: true},
		testFile{id: "song", preview: true, music: true},
	}
	l := measure(t, its, sz(320, 320), 4, WithKind(KindFiles))

	checkFrames(t, l, []wantFrame{
		{geom.MakeRect(0, 0, 320, 40), PositionTop | PositionLeft | PositionRight},
		{geom.MakeRect(0, 48, 320, 70), PositionNone},
		{geom.MakeRect(0, 126, 320, 40), PositionLeft | PositionRight | PositionBottom},
	})
	if got := l.Dimensions(); got != sz(320, 166) {
		t.Errorf("Dimensions() = %+v, want 320x166", got)
	}
}

func TestMeasureSingleFile(t *testing.T) {
	l := measure(t, []Item{testFile{id: "doc"}}, sz(320, 320), 4, WithKind(KindFiles))
	checkFrames(t, l, []wantFrame{
		{geom.MakeRect(0, 0, 320, 40), PositionTop | PositionLeft | PositionRight | PositionBottom},
	})
}

func TestApplyCaptions(t *testing.T) {
	its := []Item{testFile{id: "a"}, testFile{id: "b"}, testFile{id: "c"}}
	l := measure(t, its, sz(320, 320), 4, WithKind(KindFiles))

	got := l.ApplyCaptions([]Caption{{ItemID: "a", Height: 20}})

	// Rows below the captioned item shift by 20 + 6.
	checkFrames(t, l, []wantFrame{
		{geom.MakeRect(0, 0, 320, 40), PositionTop | PositionLeft | PositionRight},
		{geom.MakeRect(0, 74, 320, 40), PositionNone},
		{geom.MakeRect(0, 122, 320, 40), PositionLeft | PositionRight | PositionBottom},
	})
	if h := l.Dimensions().Height; h != 162 {
		t.Errorf("height = %v, want 162", h)
	}
	if len(got) != 1 || got[0].Offset != -122 {
		t.Errorf("captions = %+v, want offset -122", got)
	}
}

func TestApplyCaptionsMediaUnchanged(t *testing.T) {
	l := measure(t, items(sz(100, 100), sz(100, 100)), box300, 4)
	before := l.Export()
	got := l.ApplyCaptions([]Caption{{ItemID: "p0", Height: 20}})
	if got[0].Offset != 0 {
		t.Errorf("offset = %v, want 0", got[0].Offset)
	}
	if after := l.Export(); after.Height != before.Height {
		t.Errorf("media height changed from %v to %v", before.Height, after.Height)
	}
}

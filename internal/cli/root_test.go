package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mosaic/pkg/grouped"
)

const squaresManifest = `id = "trip"

[[items]]
id = "a"
width = 1000
height = 1000

[[items]]
id = "b"
width = 1000
height = 1000
`

// execute runs the root command with a config path that does not exist,
// so defaults apply regardless of the user's config.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "missing.toml")}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trip.toml")
	if err := os.WriteFile(path, []byte(squaresManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"layout", "render", "reorder", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	out := execute(t, "cache", "path")
	if !strings.HasSuffix(strings.TrimSpace(out), filepath.Join("cache", appName)) {
		t.Errorf("cache path = %q", out)
	}
}

func TestLayoutCommandJSON(t *testing.T) {
	path := writeManifest(t)
	out := execute(t, "layout", "--json", "--no-cache", "--width", "300", "--height", "300", "--scale", "1", path)

	var layouts []grouped.Export
	if err := json.Unmarshal([]byte(out), &layouts); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(layouts) != 1 || len(layouts[0].Frames) != 2 {
		t.Fatalf("layouts = %+v", layouts)
	}
	b := layouts[0].Frames[1]
	if b.ID != "b" || b.X != 152 || b.Width != 148 {
		t.Errorf("frame b = %+v", b)
	}
}

func TestRenderCommand(t *testing.T) {
	path := writeManifest(t)
	base := filepath.Join(t.TempDir(), "out")
	execute(t, "render", "--no-cache", "-f", "svg,json", "-o", base, path)

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`id="tile-a"`)) {
		t.Errorf("svg missing tile a:\n%s", svg)
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf("json not written: %v", err)
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"default", "", []string{"svg"}, map[string]string{"svg": "albums/trip.svg"}},
		{"single", "x.svg", []string{"svg"}, map[string]string{"svg": "x.svg"}},
		{"multi", "out/x.svg", []string{"svg", "png"}, map[string]string{"svg": "out/x.svg", "png": "out/x.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, "albums/trip.toml", tt.formats)
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("%s: got %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/pipeline"
	"github.com/matzehuels/mosaic/pkg/store"
)

const beach = `{"id":"beach","items":[
	{"id":"a","width":1000,"height":1000},
	{"id":"b","width":1000,"height":1000}
]}`

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	st := store.NewMemoryStore()
	s := New(Config{
		Runner:  pipeline.NewRunner(nil, nil, logger),
		Store:   st,
		Logger:  logger,
		Options: pipeline.Options{Width: 300, Height: 300, Scale: 1},
	})
	return s, st
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, code errors.Code) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	var body errorBody
	decodeBody(t, rec, &body)
	if body.Code != code {
		t.Errorf("code = %s, want %s", body.Code, code)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status": "ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestAlbumCRUD(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/albums", beach)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/v1/albums/beach" {
		t.Errorf("Location = %q", loc)
	}

	rec = do(t, s, http.MethodGet, "/v1/albums/beach", "")
	var a manifest.Album
	decodeBody(t, rec, &a)
	if a.ID != "beach" || len(a.Items) != 2 || a.Kind != "media" {
		t.Errorf("get = %+v", a)
	}

	rec = do(t, s, http.MethodGet, "/v1/albums", "")
	var list []manifest.Album
	decodeBody(t, rec, &list)
	if len(list) != 1 {
		t.Errorf("list has %d albums, want 1", len(list))
	}

	if rec := do(t, s, http.MethodDelete, "/v1/albums/beach", ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	wantError(t, do(t, s, http.MethodGet, "/v1/albums/beach", ""), http.StatusNotFound, errors.ErrCodeAlbumNotFound)
	wantError(t, do(t, s, http.MethodDelete, "/v1/albums/beach", ""), http.StatusNotFound, errors.ErrCodeAlbumNotFound)

	rec = do(t, s, http.MethodGet, "/v1/albums", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty list = %s", rec.Body.String())
	}
}

func TestCreateAlbumRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"malformed", `{"id":`, errors.ErrCodeInvalidInput},
		{"unknown field", `{"id":"x","colour":"red","items":[{"id":"a"}]}`, errors.ErrCodeInvalidInput},
		{"no items", `{"id":"x","items":[]}`, errors.ErrCodeInvalidManifest},
		{"unsized path", `{"id":"x","items":[{"id":"a","path":"a.jpg"}]}`, errors.ErrCodeInvalidInput},
		{"duplicate ids", `{"id":"x","items":[{"id":"a"},{"id":"a"}]}`, errors.ErrCodeInvalidManifest},
	}
	s, _ := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantError(t, do(t, s, http.MethodPost, "/v1/albums", tt.body), http.StatusBadRequest, tt.code)
		})
	}
}

func TestLayout(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"album":` + beach + `,"options":{"formats":["svg","json"],"spacing":-1}}`
	rec := do(t, s, http.MethodPost, "/v1/layout", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("layout = %d %s", rec.Code, rec.Body.String())
	}
	var res layoutResponse
	decodeBody(t, rec, &res)
	if len(res.Layout.Frames) != 2 {
		t.Fatalf("frames = %+v", res.Layout.Frames)
	}
	if b := res.Layout.Frames[1]; b.X != 150 || b.Width != 150 {
		t.Errorf("gapless frame b = %+v", b)
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact = %q", res.Artifacts["svg"])
	}

	wantError(t, do(t, s, http.MethodPost, "/v1/layout", `{"album":`+beach+`,"options":{"formats":["gif"]}}`),
		http.StatusBadRequest, errors.ErrCodeInvalidFormat)
	wantError(t, do(t, s, http.MethodPost, "/v1/layout", `{"album":`+beach+`,"options":{"width":-5}}`),
		http.StatusBadRequest, errors.ErrCodeInvalidInput)
}

func TestAlbumLayout(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/albums", beach)

	tests := []struct {
		query       string
		contentType string
		prefix      string
	}{
		{"", "application/json", "{"},
		{"?format=svg", "image/svg+xml", "<svg"},
		{"?format=svg&labels=1", "image/svg+xml", "<svg"},
	}
	for _, tt := range tests {
		rec := do(t, s, http.MethodGet, "/v1/albums/beach/layout"+tt.query, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status %d %s", tt.query, rec.Code, rec.Body.String())
			continue
		}
		if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
			t.Errorf("%s: content type %q, want %q", tt.query, ct, tt.contentType)
		}
		if !strings.HasPrefix(rec.Body.String(), tt.prefix) {
			t.Errorf("%s: body %q", tt.query, rec.Body.String())
		}
		if rec.Header().Get("ETag") == "" {
			t.Errorf("%s: missing ETag", tt.query)
		}
	}

	wantError(t, do(t, s, http.MethodGet, "/v1/albums/beach/layout?format=gif", ""), http.StatusBadRequest, errors.ErrCodeInvalidFormat)
	wantError(t, do(t, s, http.MethodGet, "/v1/albums/none/layout", ""), http.StatusNotFound, errors.ErrCodeAlbumNotFound)
}

func TestMove(t *testing.T) {
	s, st := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/albums", beach)

	// a is at (0,0,148,148) and b at (152,0,148,148).
	rec := do(t, s, http.MethodPost, "/v1/albums/beach/move", `{"index":0,"x":200,"y":50}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("move = %d %s", rec.Code, rec.Body.String())
	}
	var res moveResponse
	decodeBody(t, rec, &res)
	if !res.Moved || res.Index != 1 {
		t.Errorf("move result moved=%v index=%d", res.Moved, res.Index)
	}
	if res.Layout.Frames[0].ID != "b" || res.Layout.Frames[0].X != 0 {
		t.Errorf("remeasured frames = %+v", res.Layout.Frames)
	}

	stored, err := st.Get(context.Background(), "beach")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Items[0].ID != "b" || stored.Items[1].ID != "a" {
		t.Errorf("stored order = %s,%s, want b,a", stored.Items[0].ID, stored.Items[1].ID)
	}

	// The gap between tiles hits nothing.
	rec = do(t, s, http.MethodPost, "/v1/albums/beach/move", `{"index":0,"x":150,"y":50}`)
	decodeBody(t, rec, &res)
	if res.Moved || res.Index != 0 {
		t.Errorf("drop on gap moved=%v index=%d", res.Moved, res.Index)
	}

	wantError(t, do(t, s, http.MethodPost, "/v1/albums/beach/move", `{"index":5,"x":10,"y":10}`),
		http.StatusBadRequest, errors.ErrCodeIndexOutOfRange)
	wantError(t, do(t, s, http.MethodPost, "/v1/albums/none/move", `{"index":0}`),
		http.StatusNotFound, errors.ErrCodeAlbumNotFound)
}

const documents = `{"id":"docs","kind":"files","items":[
	{"id":"a","type":"file","caption_height":100},
	{"id":"b","type":"file"},
	{"id":"c","type":"file"}
]}`

func TestMoveCaptionedFiles(t *testing.T) {
	s, st := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/albums", documents)

	// The caption under a pushes b down to y=154.
	rec := do(t, s, http.MethodGet, "/v1/albums/docs/layout", "")
	var served struct {
		Frames []struct {
			ID string  `json:"id"`
			Y  float64 `json:"y"`
		} `json:"frames"`
	}
	decodeBody(t, rec, &served)
	if len(served.Frames) != 3 || served.Frames[1].ID != "b" || served.Frames[1].Y != 154 {
		t.Fatalf("served frames = %+v", served.Frames)
	}

	rec = do(t, s, http.MethodPost, "/v1/albums/docs/move", `{"index":0,"x":10,"y":170}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("move = %d %s", rec.Code, rec.Body.String())
	}
	var res moveResponse
	decodeBody(t, rec, &res)
	if !res.Moved || res.Index != 1 {
		t.Errorf("drop on served b: moved=%v index=%d", res.Moved, res.Index)
	}
	stored, err := st.Get(context.Background(), "docs")
	if err != nil {
		t.Fatal(err)
	}
	if got := stored.Items[0].ID + stored.Items[1].ID + stored.Items[2].ID; got != "bac" {
		t.Errorf("stored order = %s, want bac", got)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu    sync.Mutex
	calls []string
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, method+" "+route+" "+http.StatusText(status))
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	s, _ := newTestServer(t)
	do(t, s, http.MethodGet, "/v1/albums/missing", "")

	if len(hooks.calls) != 1 || hooks.calls[0] != "GET /v1/albums/{id} Not Found" {
		t.Errorf("hook calls = %v", hooks.calls)
	}
}

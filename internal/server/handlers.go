package server

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mosaic/pkg/buildinfo"
	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/grouped"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

type layoutRequest struct {
	Album   manifest.Album  `json:"album"`
	Options json.RawMessage `json:"options,omitempty"`
}

type layoutResponse struct {
	Layout     grouped.Export    `json:"layout"`
	LayoutHash string            `json:"layout_hash"`
	Cached     bool              `json:"cached"`
	Artifacts  map[string][]byte `json:"artifacts,omitempty"`
}

type moveRequest struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type moveResponse struct {
	Moved  bool            `json:"moved"`
	Index  int             `json:"index"`
	Album  *manifest.Album `json:"album"`
	Layout grouped.Export  `json:"layout"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Current(),
	})
}

// options overlays request options on the server defaults.
func (s *Server) options(raw json.RawMessage) (pipeline.Options, error) {
	o := s.defaults
	o.Formats = slices.Clone(o.Formats)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &o); err != nil {
			return o, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode options")
		}
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return o, err
	}
	return o, nil
}

// prepare defaults and validates an album received over the wire. The
// server never reads media files, so items with a path must carry their
// pixel size.
func prepare(a *manifest.Album) error {
	a.SetDefaults()
	if err := a.Validate(); err != nil {
		return err
	}
	for _, it := range a.Items {
		if it.Path != "" && (it.Width <= 0 || it.Height <= 0) {
			return errors.New(errors.ErrCodeInvalidInput, "item %s: width and height are required", it.ID)
		}
	}
	return nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := prepare(&req.Album); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), &req.Album, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Layout:     res.Layout,
		LayoutHash: res.LayoutHash,
		Cached:     res.CacheInfo.LayoutHit,
		Artifacts:  res.Artifacts,
	})
}

func (s *Server) handlePutAlbum(w http.ResponseWriter, r *http.Request) {
	var a manifest.Album
	if err := decode(w, r, &a); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := prepare(&a); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Put(r.Context(), &a); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/albums/"+a.ID)
	writeJSON(w, http.StatusCreated, &a)
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if albums == nil {
		albums = []*manifest.Album{}
	}
	writeJSON(w, http.StatusOK, albums)
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlbumLayout(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	opts.Labels = q.Get("labels") == "true" || q.Get("labels") == "1"

	res, err := s.runner.Execute(r.Context(), a, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("ETag", `"`+res.LayoutHash+`"`)
	_, _ = w.Write(res.Artifacts[format])
}

// handleMove measures the stored album, drops the item at index on the
// point, and persists the new order when the item moved.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	l, _, err := pipeline.MeasureLayout(a, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Index < 0 || req.Index >= l.Count() {
		s.writeError(w, r, errors.New(errors.ErrCodeIndexOutOfRange, "index %d out of range [0,%d)", req.Index, l.Count()))
		return
	}

	to, moved := l.MoveItemIfNeeded(req.Index, geom.Point{X: req.X, Y: req.Y})
	if moved {
		items := l.Items()
		ids := make([]string, len(items))
		for i, it := range items {
			ids[i] = it.ID()
		}
		if err := a.Reorder(ids); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.store.Put(r.Context(), a); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.logger.Info("moved item", "album", a.ID, "from", req.Index, "to", to)
	}

	e, err := s.runner.Measure(r.Context(), a, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, moveResponse{Moved: moved, Index: to, Album: a, Layout: e})
}

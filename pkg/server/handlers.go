package server

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/analyzere/extras/pkg/cache"
	"github.com/analyzere/extras/pkg/errors"
	"github.com/analyzere/extras/pkg/layerview"
	"github.com/analyzere/extras/pkg/model"
	"github.com/analyzere/extras/pkg/observability"
	"github.com/analyzere/extras/pkg/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	lv, err := s.decodeBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderGraph(w, r, lv)
}

func (s *Server) handleLayerViewGraph(w http.ResponseWriter, r *http.Request) {
	if s.platform == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "no platform configured"))
		return
	}
	lv, err := s.platform.LayerView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderGraph(w, r, lv)
}

func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	lv, err := s.decodeBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report, err := layerview.Report(lv)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) decodeBody(r *http.Request) (*model.LayerView, error) {
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, s.maxBody))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return model.DecodeLayerView(data)
}

// renderGraph builds the graph for lv with the request's options, renders
// it (or takes the artifact from cache) and records the render.
func (s *Server) renderGraph(w http.ResponseWriter, r *http.Request, lv *model.LayerView) {
	ctx := r.Context()
	gq, err := parseGraphQuery(r.URL.Query(), s.defaults)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	gq.opts.Logger = s.logger

	d, err := layerview.NewContext(ctx, lv, gq.opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := d.Options()

	out, err := s.artifact(ctx, d, gq.scale)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := store.NewRecord()
	rec.LayerViewID = lv.ID
	rec.Filename = d.Filename() + "." + opts.Format
	rec.Format = opts.Format
	rec.Options = store.RecordOptions{
		WithTerms:  opts.WithTerms,
		Compact:    opts.Compact,
		Warnings:   opts.Warnings,
		Rankdir:    opts.Rankdir,
		MaxDepth:   opts.MaxDepth,
		MaxSources: opts.MaxSources,
		Colors:     opts.Colors,
		ColorMode:  opts.ColorMode,
	}
	rec.Nodes = d.Graph().NodeCount()
	rec.Edges = d.Graph().EdgeCount()
	rec.Warnings = append([]string{}, d.Warnings()...)
	rec.Size = len(out)
	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.Warn("save render record", "id", rec.ID, "error", err)
	} else {
		w.Header().Set("X-Render-Id", rec.ID)
	}

	w.Header().Set("Content-Type", contentTypes[opts.Format])
	w.Header().Set("X-Filename", rec.Filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) artifact(ctx context.Context, d *layerview.Digraph, scale float64) ([]byte, error) {
	opts := d.Options()
	docHash, err := d.DocumentHash()
	if err != nil {
		return nil, err
	}
	key := s.keys.ArtifactKey(docHash, cache.ArtifactKeyOpts{
		Format:     opts.Format,
		Rankdir:    opts.Rankdir,
		WithTerms:  opts.WithTerms,
		Compact:    opts.Compact,
		Warnings:   opts.Warnings,
		MaxDepth:   opts.MaxDepth,
		MaxSources: opts.MaxSources,
		Colors:     opts.Colors,
		ColorMode:  opts.ColorMode,
		Scale:      scale,
	})

	if data, hit, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("artifact cache read", "error", err)
	} else if hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	out, err := d.Artifact(ctx, opts.Format, scale)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, out, s.cacheTTL); err != nil {
		s.logger.Warn("artifact cache write", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(out))
	}
	return out, nil
}

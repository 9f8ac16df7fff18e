package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/analytics"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/plan"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/preset"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/render"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/scene"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/spec"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/validation"
)

const maxParamsBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Stadium Generator</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>Stadium Generator</h1>
<p>Viewer not embedded. Scene JSON is served at <code>/api/scene</code>, rebuild events on <code>/ws</code>.</p>
</div>
</body></html>`)
}

// current returns the latest successful build or writes 503.
func (s *Server) current(w http.ResponseWriter) *scene.Build {
	b := s.builder.Current()
	if b == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no valid build; see /api/validation"))
	}
	return b
}

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	if b := s.current(w); b != nil {
		writeJSON(w, http.StatusOK, b.Graph)
	}
}

func (s *Server) handlePlan(w http.ResponseWriter, _ *http.Request) {
	if b := s.current(w); b != nil {
		writeJSON(w, http.StatusOK, plan.Assemble2D(b.Stadium))
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	if b := s.current(w); b != nil {
		m, report := analytics.Measure(b.Stadium)
		writeJSON(w, http.StatusOK, map[string]any{"metrics": m, "report": report})
	}
}

// handleValidation serves the latest report. With ?path= it serves only
// the errors and warnings at or under that parameter path.
func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	report := s.report
	s.mu.RUnlock()
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusOK, report)
		return
	}
	results := report.Find(path)
	if results == nil {
		results = []validation.Result{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": path, "valid": report.Valid, "results": results})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{}
	if b := s.builder.Current(); b != nil {
		resp["seq"] = b.Seq
		resp["build"] = b.Stats
	}
	if d, ok := s.dev.(interface{ Stats() render.Stats }); ok {
		resp["device"] = d.Stats()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleParams(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Spec())
}

// handleUpdateParams merges a partial JSON document over the live
// parameters and rebuilds.
func (s *Server) handleUpdateParams(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxParamsBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	report, err := s.update(func(cur *spec.StadiumSpec) (*spec.StadiumSpec, error) {
		return cur, spec.DecodeInto(cur, body, spec.FormatJSON)
	})
	s.respondApply(w, report, err)
}

func (s *Server) respondApply(w http.ResponseWriter, report *validation.Report, err error) {
	var perr *paramsError
	switch {
	case errors.As(err, &perr):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	status := http.StatusOK
	if !report.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, report)
}

func (s *Server) handleSave(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	path, sp := s.specPath, s.spec
	s.mu.RUnlock()
	if err := spec.Save(path, sp); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Info("parameters saved", "path", path)
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (s *Server) presetStore(w http.ResponseWriter) *preset.Store {
	if s.presets == nil {
		writeError(w, http.StatusNotImplemented, errors.New("presets are disabled"))
	}
	return s.presets
}

func presetStatus(err error) int {
	if errors.Is(err, preset.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	store := s.presetStore(w)
	if store == nil {
		return
	}
	list, err := store.List(r.Context())
	if err != nil {
		writeError(w, presetStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	store := s.presetStore(w)
	if store == nil {
		return
	}
	name := r.PathValue("name")
	if err := store.Save(r.Context(), name, s.Spec()); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": name})
}

func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	store := s.presetStore(w)
	if store == nil {
		return
	}
	sp, err := store.Load(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, presetStatus(err), err)
		return
	}
	report, err := s.Apply(sp)
	s.respondApply(w, report, err)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	store := s.presetStore(w)
	if store == nil {
		return
	}
	if err := store.Delete(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, presetStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	hello := Event{Type: EventHello}
	if b := s.builder.Current(); b != nil {
		hello.Seq = b.Seq
	}
	s.hub.Serve(w, r, hello)
}

// Package server is the local design server: it holds the live stadium
// parameters, rebuilds the scene when they change and pushes rebuild
// events to connected viewers.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/preset"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/render"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/scene"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/spec"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/validation"
)

// Options configures a Server.
type Options struct {
	ProjectPath string
	Port        int
	// Device receives the realized scene; nil uses an in-memory device.
	Device render.Device
	// Presets enables the /api/presets endpoints when set.
	Presets *preset.Store
	Logger  *slog.Logger
}

// Event is pushed to websocket clients after every parameter change.
type Event struct {
	Type   string             `json:"type"`
	Seq    int                `json:"seq,omitempty"`
	Report *validation.Report `json:"report,omitempty"`
}

// Event types.
const (
	EventHello    = "hello"
	EventRebuilt  = "rebuilt"
	EventRejected = "rejected"
)

// Server is the local development server for interactive design.
type Server struct {
	projectPath string
	port        int
	dev         render.Device
	builder     *scene.Builder
	presets     *preset.Store
	hub         *Hub
	logger      *slog.Logger

	// updateMu orders parameter changes from read through commit.
	updateMu sync.Mutex

	mu       sync.RWMutex
	spec     *spec.StadiumSpec
	specPath string
	report   *validation.Report
}

// New loads the project at opts.ProjectPath and performs the first build.
// A project whose parameters are rejected still yields a server; the
// validation endpoint explains the rejection.
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dev := opts.Device
	if dev == nil {
		dev = render.NewMemory()
	}
	sp, path, err := spec.LoadProject(opts.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if path == "" {
		path = filepath.Join(opts.ProjectPath, spec.ProjectFiles[0])
		logger.Info("no project file, using defaults", "path", path)
	}

	s := &Server{
		projectPath: opts.ProjectPath,
		port:        opts.Port,
		dev:         dev,
		builder:     scene.NewBuilder(dev, logger),
		presets:     opts.Presets,
		hub:         NewHub(logger),
		logger:      logger,
		spec:        sp,
		specPath:    path,
	}
	if _, err := s.apply(sp); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/scene", s.handleScene)
	mux.HandleFunc("GET /api/plan", s.handlePlan)
	mux.HandleFunc("GET /api/metrics", s.handleMetrics)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/params", s.handleParams)
	mux.HandleFunc("PUT /api/params", s.handleUpdateParams)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("GET /api/presets", s.handleListPresets)
	mux.HandleFunc("POST /api/presets/{name}", s.handleSavePreset)
	mux.HandleFunc("POST /api/presets/{name}/apply", s.handleApplyPreset)
	mux.HandleFunc("DELETE /api/presets/{name}", s.handleDeletePreset)
	mux.HandleFunc("GET /ws", s.handleWebsocket)
	mux.HandleFunc("GET /", s.handleIndex)

	return mux
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("stadium server starting", "url", "http://localhost"+srv.Addr, "project", s.projectPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases the scene from the device.
func (s *Server) Close() error {
	s.hub.Close()
	return s.builder.Close()
}

// Spec returns a copy of the live parameters.
func (s *Server) Spec() *spec.StadiumSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec.Clone()
}

// Apply rebuilds the stadium from sp. Rejected parameters leave the
// current build and parameters in place; the report says why.
func (s *Server) Apply(sp *spec.StadiumSpec) (*validation.Report, error) {
	return s.update(func(*spec.StadiumSpec) (*spec.StadiumSpec, error) {
		return sp, nil
	})
}

// paramsError marks a parameter change that could not be decoded.
type paramsError struct{ err error }

func (e *paramsError) Error() string { return e.err.Error() }
func (e *paramsError) Unwrap() error { return e.err }

// update derives the next parameters from a copy of the live ones and
// applies them. Concurrent updates are serialised, so each one sees the
// parameters committed by the one before it.
func (s *Server) update(next func(cur *spec.StadiumSpec) (*spec.StadiumSpec, error)) (*validation.Report, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	sp, err := next(s.Spec())
	if err != nil {
		return nil, &paramsError{err: err}
	}
	return s.apply(sp)
}

func (s *Server) apply(sp *spec.StadiumSpec) (*validation.Report, error) {
	build, report, err := s.builder.Rebuild(sp)
	if err != nil {
		return nil, fmt.Errorf("rebuilding stadium: %w", err)
	}

	s.mu.Lock()
	s.report = report
	if build != nil {
		s.spec = sp
	}
	s.mu.Unlock()

	if build != nil {
		s.hub.Broadcast(Event{Type: EventRebuilt, Seq: build.Seq, Report: report})
	} else {
		s.hub.Broadcast(Event{Type: EventRejected, Report: report})
	}
	return report, nil
}

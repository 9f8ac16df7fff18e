package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/render"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/spec"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/validation"
)

// Build is the outcome of one successful Rebuild.
type Build struct {
	Seq     int                `json:"seq"`
	Stadium *Stadium           `json:"-"`
	Graph   *Graph             `json:"graph"`
	Report  *validation.Report `json:"report"`
	Stats   BuildStats         `json:"stats"`
}

// BuildStats counts what one build put on the device.
type BuildStats struct {
	Entities   int `json:"entities"`
	Nodes      int `json:"nodes"`
	Geometries int `json:"geometries"`
	Vertices   int `json:"vertices"`
	Triangles  int `json:"triangles"`
	Materials  int `json:"materials"`
	Emitters   int `json:"emitters"`
	Released   int `json:"released"`
	Swept      int `json:"swept"`
	// CacheHits and CacheMisses count material lookups during this build.
	CacheHits   int           `json:"cache_hits"`
	CacheMisses int           `json:"cache_misses"`
	Duration    time.Duration `json:"duration"`
}

// Builder realizes stadium builds on a render device. Each Rebuild first
// releases everything the previous build allocated, so the live resources
// on the device depend only on the latest parameters. Materials are shared
// through a cache that drops entries the latest build did not use.
type Builder struct {
	mu       sync.Mutex
	dev      render.Device
	cache    *render.MaterialCache
	emitters *render.Registry
	handles  []render.Handle
	current  *Build
	seq      int
	logger   *slog.Logger
}

// NewBuilder creates a Builder on dev. A nil logger uses slog.Default().
func NewBuilder(dev render.Device, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		dev:      dev,
		cache:    render.NewMaterialCache(dev),
		emitters: render.NewRegistry(dev),
		logger:   logger,
	}
}

// Rebuild assembles s and replaces the current build with it. When s is
// rejected the current build is kept and the report explains why. The
// error is non-nil only when the device failed to release resources.
func (b *Builder) Rebuild(s *spec.StadiumSpec) (*Build, *validation.Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	st, report := Assemble(s)
	if !report.Valid {
		b.logger.Warn("stadium rejected", "errors", len(report.Errors), "first", report.Errors[0].Error())
		return nil, report, nil
	}
	for _, w := range report.Warnings {
		b.logger.Warn("build warning", "path", w.SpecPath, "msg", w.Message)
	}

	released, err := b.teardown()
	if err != nil {
		return nil, report, fmt.Errorf("tearing down previous build: %w", err)
	}

	g := st.Graph()
	g.Metadata.GeneratedAt = start.UTC().Format(time.RFC3339)
	b.seq++
	build := &Build{Seq: b.seq, Stadium: st, Graph: g, Report: report}
	hits, misses := b.cache.HitRate()
	b.realize(build)
	build.Stats.Released = released
	h, m := b.cache.HitRate()
	build.Stats.CacheHits, build.Stats.CacheMisses = h-hits, m-misses

	swept, err := b.cache.Sweep()
	if err != nil {
		return nil, report, fmt.Errorf("sweeping material cache: %w", err)
	}
	build.Stats.Swept = swept
	build.Stats.Materials = b.cache.Len()
	build.Stats.Duration = time.Since(start)
	b.current = build

	b.logger.Info("stadium rebuilt",
		"seq", build.Seq,
		"entities", build.Stats.Entities,
		"lights", build.Stats.Emitters,
		"materials", build.Stats.Materials,
		"released", released,
		"swept", swept,
		"duration", build.Stats.Duration,
	)
	return build, report, nil
}

// teardown releases every node and geometry of the current build and
// every registered emitter with its target.
func (b *Builder) teardown() (int, error) {
	var errs []error
	for _, h := range b.handles {
		errs = append(errs, b.dev.Release(h))
	}
	n := len(b.handles) + 2*b.emitters.Len()
	b.handles = b.handles[:0]
	errs = append(errs, b.emitters.Clear())
	return n, errors.Join(errs...)
}

func (b *Builder) realize(build *Build) {
	b.cache.BeginPass()
	stats := &build.Stats
	for i := range build.Graph.Entities {
		e := &build.Graph.Entities[i]
		stats.Entities++
		b.handles = append(b.handles, b.dev.Allocate(render.KindNode, e.ID))
		stats.Nodes++
		if len(e.Mesh.Indices) > 0 {
			buf := render.Buffers(e.Mesh)
			b.handles = append(b.handles, b.dev.Allocate(render.KindGeometry, e.ID))
			stats.Geometries++
			stats.Vertices += buf.VertexCount()
			stats.Triangles += len(buf.Indices) / 3
		}
		if e.Appearance != nil {
			b.cache.Get(*e.Appearance)
		}
	}
	for _, l := range build.Graph.Lights {
		b.emitters.Add(l.ID)
		stats.Emitters++
	}
}

// Current returns the latest successful build, or nil.
func (b *Builder) Current() *Build {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Close releases every resource the builder holds on the device.
func (b *Builder) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.teardown()
	b.current = nil
	return errors.Join(err, b.cache.Purge())
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/kshypjn/CG-StadiaGenerator/internal/server"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/analytics"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/plan"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/preset"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/render"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/scene"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/spec"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/validation"
)

// errInvalid is returned after an invalid report has been printed.
var errInvalid = errors.New("stadium parameters have validation errors")

// loadAndAssemble loads the project and assembles the stadium.
func loadAndAssemble(projectPath string) (*spec.StadiumSpec, *scene.Stadium, *validation.Report, error) {
	s, path, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading spec: %w", err)
	}
	if path == "" {
		slog.Info("no project file, using defaults", "project", projectPath)
	} else {
		slog.Debug("loaded parameters", "path", path)
	}
	st, report := scene.Assemble(s)
	return s, st, report, nil
}

// output opens path for writing, or returns stdout when path is empty.
func output(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writeJSON(path string, v any) error {
	w, err := output(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		w.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	return w.Close()
}

func runInit(projectPath string, force bool) error {
	path := filepath.Join(projectPath, spec.ProjectFiles[0])
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(projectPath, 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	if err := spec.Save(path, spec.Default()); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runValidate(projectPath string) error {
	_, st, report, err := loadAndAssemble(projectPath)
	if err != nil {
		return err
	}
	if report.Valid {
		_, metricsReport := analytics.Measure(st)
		report.Merge(metricsReport)
	}
	printValidationReport(os.Stdout, report)
	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

type buildOptions struct {
	out      string
	stats    bool
	rebuilds int
}

func runBuild(projectPath string, opts buildOptions) error {
	s, _, err := spec.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}

	dev := render.NewMemory()
	builder := scene.NewBuilder(dev, slog.Default())
	defer builder.Close()

	var (
		build  *scene.Build
		report *validation.Report
	)
	for range max(opts.rebuilds, 1) {
		build, report, err = builder.Rebuild(s)
		if err != nil {
			return err
		}
		if build == nil {
			printValidationReport(os.Stderr, report)
			return errInvalid
		}
	}

	metrics, metricsReport := analytics.Measure(build.Stadium)
	report.Merge(metricsReport)

	if opts.stats {
		printBuildStats(os.Stdout, build, dev.Stats())
		fmt.Println()
		printMetrics(os.Stdout, metrics)
		return nil
	}
	return writeJSON(opts.out, map[string]any{
		"validation":  report,
		"metrics":     metrics,
		"scene_graph": build.Graph,
	})
}

func runPlan(projectPath, out string) error {
	_, st, report, err := loadAndAssemble(projectPath)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(os.Stderr, report)
		return errInvalid
	}
	return writeJSON(out, plan.Assemble2D(st))
}

type serveOptions struct {
	port      int
	watch     bool
	presets   string
	noPresets bool
}

func runServe(ctx context.Context, projectPath string, opts serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store *preset.Store
	if !opts.noPresets {
		var err error
		if store, err = openPresets(opts.presets); err != nil {
			return err
		}
		defer store.Close()
	}

	srv, err := server.New(server.Options{
		ProjectPath: projectPath,
		Port:        opts.port,
		Presets:     store,
		Logger:      slog.Default(),
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if opts.watch {
		g.Go(func() error {
			return srv.Watch(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// defaultPresetPath places the database in the user config directory,
// falling back to the working directory.
func defaultPresetPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "stadium", "presets.db")
}

func openPresets(path string) (*preset.Store, error) {
	if path == "" {
		path = defaultPresetPath()
	}
	slog.Debug("opening presets", "path", path)
	return preset.Open(path)
}

func runPresetSave(ctx context.Context, dbPath, name, projectPath string) error {
	s, _, err := spec.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}
	store, err := openPresets(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Save(ctx, name, s); err != nil {
		return err
	}
	fmt.Printf("Saved preset %q\n", name)
	return nil
}

func runPresetList(ctx context.Context, dbPath string) error {
	store, err := openPresets(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	list, err := store.List(ctx)
	if err != nil {
		return err
	}
	printPresets(os.Stdout, list)
	return nil
}

func runPresetShow(ctx context.Context, dbPath, name string) error {
	store, err := openPresets(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	s, err := store.Load(ctx, name)
	if err != nil {
		return err
	}
	data, err := spec.Encode(s, spec.FormatYAML)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runPresetApply(ctx context.Context, dbPath, name, projectPath string) error {
	store, err := openPresets(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	s, err := store.Load(ctx, name)
	if err != nil {
		return err
	}
	_, path, err := spec.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}
	if path == "" {
		path = filepath.Join(projectPath, spec.ProjectFiles[0])
	}
	if err := spec.Save(path, s); err != nil {
		return err
	}
	fmt.Printf("Applied preset %q to %s\n", name, path)
	return nil
}

func runPresetDelete(ctx context.Context, dbPath, name string) error {
	store, err := openPresets(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Delete(ctx, name); err != nil {
		return err
	}
	fmt.Printf("Deleted preset %q\n", name)
	return nil
}

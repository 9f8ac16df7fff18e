package server

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/spec"
)

// Watch rebuilds whenever the project parameter file changes on disk. The
// project directory is watched rather than the file, so editors that save
// by renaming a temporary file are seen too. Watch blocks until ctx is
// cancelled.
func (s *Server) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	s.mu.RLock()
	path := s.specPath
	s.mu.RUnlock()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}
	s.logger.Info("watching parameters", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !s.watches(event.Name) {
				continue
			}
			s.reload(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", "err", err)
		}
	}
}

// watches reports whether name is the live parameter file, or a project
// file appearing in a project that had none.
func (s *Server) watches(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if filepath.Clean(name) == filepath.Clean(s.specPath) {
		return true
	}
	return filepath.Dir(name) == filepath.Dir(s.specPath) && slices.Contains(spec.ProjectFiles, filepath.Base(name))
}

func (s *Server) reload(path string) {
	sp, err := spec.Load(path)
	if err != nil {
		// Editors may write a partial file before the final one.
		s.logger.Warn("reloading parameters", "path", path, "err", err)
		return
	}
	s.mu.Lock()
	s.specPath = path
	s.mu.Unlock()

	report, err := s.Apply(sp)
	if err != nil {
		s.logger.Error("rebuild failed", "err", err)
		return
	}
	s.logger.Info("parameters reloaded", "path", path, "valid", report.Valid)
}

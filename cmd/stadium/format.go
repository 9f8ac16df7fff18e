package main

import (
	"fmt"
	"io"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/analytics"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/preset"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/render"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/scene"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  [%s] %s\n", e.Level, e.Message)
			if e.SpecPath != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", e.SpecPath, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", e.Expected)
			}
			if e.ConflictWith != "" {
				fmt.Fprintf(w, "    conflicts with: %s\n", e.ConflictWith)
			}
			for _, s := range e.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, wr := range r.Warnings {
			fmt.Fprintf(w, "  [%s] %s\n", wr.Level, wr.Message)
			if wr.SpecPath != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", wr.SpecPath, wr.ActualValue)
			}
			if wr.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", wr.Expected)
			}
			for _, s := range wr.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printBuildStats(w io.Writer, b *scene.Build, dev render.Stats) {
	s := b.Stats
	fmt.Fprintf(w, "Build #%d (%s)\n", b.Seq, s.Duration)
	fmt.Fprintln(w, "==============")
	fmt.Fprintf(w, "  %-12s %8d\n", "Entities", s.Entities)
	fmt.Fprintf(w, "  %-12s %8d\n", "Geometries", s.Geometries)
	fmt.Fprintf(w, "  %-12s %8d\n", "Vertices", s.Vertices)
	fmt.Fprintf(w, "  %-12s %8d\n", "Triangles", s.Triangles)
	fmt.Fprintf(w, "  %-12s %8d\n", "Materials", s.Materials)
	fmt.Fprintf(w, "  %-12s %8d\n", "Emitters", s.Emitters)
	fmt.Fprintf(w, "  %-12s %8d hits, %d misses\n", "Cache", s.CacheHits, s.CacheMisses)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Device")
	fmt.Fprintln(w, "------")
	for _, kind := range []render.Kind{render.KindNode, render.KindGeometry, render.KindMaterial, render.KindTexture, render.KindEmitter, render.KindTarget} {
		fmt.Fprintf(w, "  %-12s %8d live\n", kind, dev.Live[kind])
	}
	fmt.Fprintf(w, "  %-12s %8d allocated, %d released\n", "total", dev.Allocated, dev.Released)
}

func printPresets(w io.Writer, list []preset.Summary) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No presets stored.")
		return
	}
	fmt.Fprintf(w, "%-24s %s\n", "Name", "Updated")
	for _, p := range list {
		fmt.Fprintf(w, "%-24s %s\n", p.Name, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
}

func printMetrics(w io.Writer, m *analytics.Metrics) {
	fmt.Fprintln(w, "Stadium")
	fmt.Fprintln(w, "-------")
	fmt.Fprintf(w, "  Pitch:        %8.0f m2\n", m.PitchArea)
	fmt.Fprintf(w, "  Site:         %8.0f m2 (%.0f x %.0f m)\n", m.SiteArea, m.SiteWidth, m.SiteDepth)
	fmt.Fprintf(w, "  Stands:       %8.0f m2, %.0f m3\n", m.StandArea, m.StandVolume)
	fmt.Fprintf(w, "  Roof:         %8.0f m2, %.0f%% cover\n", m.RoofArea, 100*m.RoofCover)
	fmt.Fprintf(w, "  Floodlights:  %8d lights on %d towers, mean throw %.1f m\n", m.Lights, m.Towers, m.MeanThrow)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-14s %6s %8s %8s %8s %8s %8s\n", "Stand", "Rows", "Length", "Depth", "Height", "Rake", "Cover")
	for _, s := range m.Stands {
		fmt.Fprintf(w, "%-14s %6d %8.1f %8.1f %8.1f %7.1f° %7.0f%%\n",
			s.Name, s.Rows, s.Length, s.Depth, s.Height, s.RakeDegrees, 100*s.RoofCover)
	}
}

package analytics

import (
	"fmt"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/roof"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/scene"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/validation"
)

// Thresholds for layout warnings.
const (
	// MaxRakeDegrees is the steepest comfortable seating rake.
	MaxRakeDegrees = 35.0
	// MinRoofCover is the cover below which a roofed stand is reported.
	MinRoofCover = 0.25
)

func validateMetrics(st *scene.Stadium, m *Metrics, report *validation.Report) {
	validateRake(m, report)
	validateRoofCover(st, m, report)
	validateLights(st, m, report)
}

func validateRake(m *Metrics, report *validation.Report) {
	for _, s := range m.Stands {
		if s.RakeDegrees <= MaxRakeDegrees {
			continue
		}
		report.AddWarning(validation.Result{
			Level:       validation.LevelGeometry,
			Message:     fmt.Sprintf("%s rake %.1f degrees is steeper than %.0f", s.Name, s.RakeDegrees, MaxRakeDegrees),
			SpecPath:    "stands.step_height",
			ActualValue: s.RakeDegrees,
			Suggestions: []string{"Lower step_height or increase step_depth"},
		})
	}
}

func validateRoofCover(st *scene.Stadium, m *Metrics, report *validation.Report) {
	if st.Roof.Mode() == roof.ModeNone {
		return
	}
	for _, s := range m.Stands {
		if s.RoofCover >= MinRoofCover {
			continue
		}
		report.AddWarning(validation.Result{
			Level:       validation.LevelGeometry,
			Message:     fmt.Sprintf("roof covers only %.0f%% of %s", 100*s.RoofCover, s.Name),
			SpecPath:    "roof",
			ActualValue: s.RoofCover,
			Suggestions: []string{"Increase roof coverage or the overall roof overhang"},
		})
	}
}

func validateLights(st *scene.Stadium, m *Metrics, report *validation.Report) {
	if st.Floodlights == nil || m.Towers == 0 || m.Lights > 0 {
		return
	}
	report.AddWarning(validation.Result{
		Level:       validation.LevelGeometry,
		Message:     fmt.Sprintf("%d floodlight towers carry no lights", m.Towers),
		SpecPath:    "floodlights.lights_per_tower",
		ActualValue: 0,
	})
}

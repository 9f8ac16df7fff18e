package validation

import (
	"fmt"
	"math"
	"regexp"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/roof"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/spec"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Bounds is an inclusive numeric range.
type Bounds struct {
	Min, Max float64
}

func (b Bounds) contains(v float64) bool {
	return !math.IsNaN(v) && v >= b.Min && v <= b.Max
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%g, %g]", b.Min, b.Max)
}

// Domain ranges of the tunable stadium parameters.
var (
	PitchLength        = Bounds{20, 200}
	PitchWidth         = Bounds{10, 150}
	LineWidth          = Bounds{0.05, 1}
	StandOffset        = Bounds{1, 20}
	FrontWallHeight    = Bounds{0.2, 3}
	StandRows          = Bounds{0, 60}
	StepHeight         = Bounds{0.2, 1}
	StepDepth          = Bounds{0.5, 1.5}
	WalkwayDepth       = Bounds{0, 10}
	BackWallHeight     = Bounds{0, 10}
	BackWallThickness  = Bounds{0, 2}
	RoofOverhang       = Bounds{0, 20}
	RoofHeightOffset   = Bounds{-5, 10}
	RoofCoverage       = Bounds{1, 40}
	RoofTilt           = Bounds{0, math.Pi / 4}
	RoofThickness      = Bounds{0.1, 2}
	CoverageFactor     = Bounds{0.01, 1}
	StrutCount         = Bounds{1, 12}
	TowerHeight        = Bounds{10, 100}
	LightsPerTower     = Bounds{0, 16}
	HoardingHeight     = Bounds{0.2, 5}
	HoardingClearance  = Bounds{0, 20}
	ScoreboardSize     = Bounds{1, 100}
	ScoreboardFraction = Bounds{0, 1}
)

// ValidateSchema performs schema validation on a parsed StadiumSpec: every
// tunable parameter must lie in its domain, enumerations must name a known
// variant and colours must be #rrggbb. It runs before any geometry is built.
func ValidateSchema(s *spec.StadiumSpec) *Report {
	r := NewReport()
	if s == nil {
		r.AddError(Result{Level: LevelSchema, Message: "spec is nil"})
		return r
	}

	validatePitch(s, r)
	validateStands(s, r)
	validateRoof(s, r)
	validateAttachments(s, r)
	validateFloodlights(s, r)

	return r
}

func checkRange(r *Report, path string, v float64, b Bounds) {
	if b.contains(v) {
		return
	}
	r.AddError(Result{
		Level:       LevelSchema,
		Message:     fmt.Sprintf("%s is out of range", path),
		SpecPath:    path,
		ActualValue: v,
		Expected:    b.String(),
	})
}

func checkColor(r *Report, path, c string) {
	if colorPattern.MatchString(c) {
		return
	}
	r.AddError(Result{
		Level:       LevelSchema,
		Message:     fmt.Sprintf("%s is not a colour", path),
		SpecPath:    path,
		ActualValue: c,
		Expected:    "#rrggbb",
	})
}

func validatePitch(s *spec.StadiumSpec, r *Report) {
	checkRange(r, "pitch.length", s.Pitch.Length, PitchLength)
	checkRange(r, "pitch.width", s.Pitch.Width, PitchWidth)
	checkRange(r, "pitch.line_width", s.Pitch.LineWidth, LineWidth)
	if _, err := pitch.LayoutFor(s.Pitch.Type); err != nil {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     err.Error(),
			SpecPath:    "pitch.type",
			ActualValue: string(s.Pitch.Type),
			Expected:    "football | cricket",
		})
	}
}

func validateStands(s *spec.StadiumSpec, r *Report) {
	switch s.Stands.Mode {
	case spec.StandModeGlobal, spec.StandModeIndividual:
	default:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown stand mode %q", s.Stands.Mode),
			SpecPath:    "stands.mode",
			ActualValue: string(s.Stands.Mode),
			Expected:    "global | individual",
		})
	}

	if s.Stands.Mode != spec.StandModeIndividual {
		validateStandSpec(r, "stands.global", s.Stands.Global)
		return
	}
	specs := s.StandSpecs()
	for _, side := range stand.Sides {
		validateStandSpec(r, "stands.individual."+side.String(), specs[side])
	}
}

func validateStandSpec(r *Report, path string, st stand.Spec) {
	checkRange(r, path+".offset", st.Offset, StandOffset)
	checkRange(r, path+".front_wall_height", st.FrontWallHeight, FrontWallHeight)
	checkRange(r, path+".rows", float64(st.Rows), StandRows)
	checkRange(r, path+".step_height", st.StepHeight, StepHeight)
	checkRange(r, path+".step_depth", st.StepDepth, StepDepth)
	checkRange(r, path+".walkway_depth", st.WalkwayDepth, WalkwayDepth)
	checkRange(r, path+".back_wall_height", st.BackWallHeight, BackWallHeight)
	checkRange(r, path+".back_wall_thickness", st.BackWallThickness, BackWallThickness)
	checkColor(r, path+".color", st.Color)

	if st.Rows == 0 && st.WalkwayDepth == 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "stand has no depth: rows and walkway_depth are both zero",
			SpecPath:    path,
			Suggestions: []string{"Set rows above zero or give the walkway a depth"},
		})
	}
	if st.BackWallHeight > 0 && st.BackWallThickness <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "a back wall needs a positive thickness",
			SpecPath:    path + ".back_wall_thickness",
			ActualValue: st.BackWallThickness,
			Expected:    "> 0 when back_wall_height > 0",
		})
	}
}

func validateRoof(s *spec.StadiumSpec, r *Report) {
	mode, err := roof.ParseMode(string(s.Roof.Type))
	if err != nil {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     err.Error(),
			SpecPath:    "roof.type",
			ActualValue: string(s.Roof.Type),
			Expected:    "none | overall | individual",
		})
		return
	}

	o := s.Roof.Overall
	checkRange(r, "roof.overall.overhang", o.Overhang, RoofOverhang)
	checkRange(r, "roof.overall.thickness", o.Thickness, RoofThickness)
	checkColor(r, "roof.overall.color", o.Color)
	checkColor(r, "roof.overall.support_color", o.SupportColor)

	p := s.Roof.Individual
	checkRange(r, "roof.individual.height_offset", p.HeightOffset, RoofHeightOffset)
	checkRange(r, "roof.individual.tilt", p.Tilt, RoofTilt)
	checkRange(r, "roof.individual.thickness", p.Thickness, RoofThickness)
	checkRange(r, "roof.individual.support_count", float64(p.SupportCount), StrutCount)
	checkColor(r, "roof.individual.color", p.Color)
	checkColor(r, "roof.individual.support_color", p.SupportColor)
	if p.AutoCoverage {
		checkRange(r, "roof.individual.coverage_factor", p.CoverageFactor, CoverageFactor)
		if p.MinCoverage > p.MaxCoverage {
			r.AddError(Result{
				Level:        LevelSchema,
				Message:      "min_coverage exceeds max_coverage",
				SpecPath:     "roof.individual.min_coverage",
				ActualValue:  p.MinCoverage,
				ConflictWith: "roof.individual.max_coverage",
			})
		}
	} else {
		checkRange(r, "roof.individual.coverage", p.Coverage, RoofCoverage)
	}

	if mode != roof.ModeIndividual || !s.Stands.Show {
		return
	}
	specs := s.StandSpecs()
	for _, side := range stand.Sides {
		st := specs[side]
		if !st.Show {
			continue
		}
		if _, err := roof.Coverage(float64(st.Rows)*st.StepDepth+st.WalkwayDepth, p); err != nil {
			r.AddError(Result{
				Level:        LevelSchema,
				Message:      fmt.Sprintf("%s roof: %v", side, err),
				SpecPath:     "roof.individual.coverage",
				ActualValue:  p.Coverage,
				ConflictWith: "stands." + side.String(),
				Suggestions:  []string{"Reduce coverage, enable auto_coverage or deepen the stand"},
			})
		}
	}
}

func validateAttachments(s *spec.StadiumSpec, r *Report) {
	h := s.Hoardings
	if h.Show {
		checkRange(r, "hoardings.height", h.Height, HoardingHeight)
		checkRange(r, "hoardings.clearance", h.Clearance, HoardingClearance)
		checkColor(r, "hoardings.color", h.Color)
		if !(h.ImageAspectRatio > 0) || !(h.RepeatScale > 0) {
			r.AddError(Result{
				Level:    LevelSchema,
				Message:  "hoarding image aspect ratio and repeat scale must be positive",
				SpecPath: "hoardings",
				Expected: "> 0",
			})
		}
	}

	b := s.Scoreboard
	if b.Show {
		checkRange(r, "scoreboard.width", b.Width, ScoreboardSize)
		checkRange(r, "scoreboard.height", b.Height, ScoreboardSize)
		checkRange(r, "scoreboard.depth_fraction", b.DepthFraction, ScoreboardFraction)
		checkColor(r, "scoreboard.screen_color", b.ScreenColor)
		checkColor(r, "scoreboard.frame_color", b.FrameColor)
		checkColor(r, "scoreboard.support_color", b.SupportColor)
		if b.FrameThickness < 0 || b.SupportHeight < 0 {
			r.AddError(Result{
				Level:    LevelSchema,
				Message:  "scoreboard frame thickness and support height must be non-negative",
				SpecPath: "scoreboard",
				Expected: ">= 0",
			})
		}
		if b.Stand == "" {
			r.AddError(Result{
				Level:    LevelSchema,
				Message:  "scoreboard stand is empty",
				SpecPath: "scoreboard.stand",
				Expected: "a stand name such as \"east\"",
			})
		}
	}

	if s.Ribbons.Show {
		checkRange(r, "ribbons.depth_fraction", s.Ribbons.DepthFraction, ScoreboardFraction)
		checkColor(r, "ribbons.color", s.Ribbons.Color)
		if !(s.Ribbons.Height > 0) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "ribbon height must be positive",
				SpecPath:    "ribbons.height",
				ActualValue: s.Ribbons.Height,
				Expected:    "> 0",
			})
		}
	}

	if _, err := s.Display.Sanitize(); err != nil {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  err.Error(),
			SpecPath: "display",
		})
	}
}

func validateFloodlights(s *spec.StadiumSpec, r *Report) {
	f := s.Floodlights
	if !f.Show {
		return
	}
	checkRange(r, "floodlights.tower_height", f.TowerHeight, TowerHeight)
	checkRange(r, "floodlights.lights_per_tower", float64(f.LightsPerTower), LightsPerTower)
	checkColor(r, "floodlights.tower_color", f.TowerColor)
	checkColor(r, "floodlights.spot.color", f.Spot.Color)
	if err := f.Validate(); err != nil {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  err.Error(),
			SpecPath: "floodlights",
		})
	}
}

// Package stand builds tiered stand cross-sections and places the four
// cardinal stands around the field.
package stand

import (
	"errors"
	"fmt"
	"math"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
)

// ErrInvalidSpec is returned when a stand configuration cannot produce a
// simple, non-degenerate profile.
var ErrInvalidSpec = errors.New("invalid stand spec")

// MaxRows bounds the row count accepted by the profile builder.
const MaxRows = 500

// Spec configures one stand. Lengths are in meters.
type Spec struct {
	Show              bool    `yaml:"show" json:"show" toml:"show"`
	Offset            float64 `yaml:"offset" json:"offset" toml:"offset"`
	FrontWallHeight   float64 `yaml:"front_wall_height" json:"front_wall_height" toml:"front_wall_height"`
	Rows              int     `yaml:"rows" json:"rows" toml:"rows"`
	StepHeight        float64 `yaml:"step_height" json:"step_height" toml:"step_height"`
	StepDepth         float64 `yaml:"step_depth" json:"step_depth" toml:"step_depth"`
	WalkwayDepth      float64 `yaml:"walkway_depth" json:"walkway_depth" toml:"walkway_depth"`
	BackWallHeight    float64 `yaml:"back_wall_height" json:"back_wall_height" toml:"back_wall_height"`
	BackWallThickness float64 `yaml:"back_wall_thickness" json:"back_wall_thickness" toml:"back_wall_thickness"`
	Color             string  `yaml:"color" json:"color" toml:"color"`
}

// DefaultSpec returns the stock stand: 20 rows of 0.4 x 0.8 steps.
func DefaultSpec() Spec {
	return Spec{
		Show:              true,
		Offset:            5,
		FrontWallHeight:   1,
		Rows:              20,
		StepHeight:        0.4,
		StepDepth:         0.8,
		WalkwayDepth:      2,
		BackWallHeight:    3,
		BackWallThickness: 0.3,
		Color:             "#888888",
	}
}

// Validate reports the first reason s cannot be built, wrapping ErrInvalidSpec.
func (s Spec) Validate() error {
	dims := []struct {
		name string
		v    float64
	}{
		{"offset", s.Offset},
		{"front_wall_height", s.FrontWallHeight},
		{"step_height", s.StepHeight},
		{"step_depth", s.StepDepth},
		{"walkway_depth", s.WalkwayDepth},
		{"back_wall_height", s.BackWallHeight},
		{"back_wall_thickness", s.BackWallThickness},
	}
	for _, d := range dims {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidSpec, d.name)
		}
		if d.v < 0 {
			return fmt.Errorf("%w: %s %v is negative", ErrInvalidSpec, d.name, d.v)
		}
	}
	switch {
	case s.Rows < 0:
		return fmt.Errorf("%w: rows %d is negative", ErrInvalidSpec, s.Rows)
	case s.Rows > MaxRows:
		return fmt.Errorf("%w: rows %d exceeds %d", ErrInvalidSpec, s.Rows, MaxRows)
	case s.FrontWallHeight == 0:
		return fmt.Errorf("%w: front_wall_height must be positive", ErrInvalidSpec)
	case s.Rows > 0 && (s.StepHeight == 0 || s.StepDepth == 0):
		return fmt.Errorf("%w: step_height and step_depth must be positive when rows > 0", ErrInvalidSpec)
	case s.Rows == 0 && s.WalkwayDepth == 0:
		return fmt.Errorf("%w: zero total depth with no rows and no walkway", ErrInvalidSpec)
	case s.WalkwayDepth == 0 && s.BackWallHeight == 0:
		return fmt.Errorf("%w: walkway_depth must be positive when there is no back wall", ErrInvalidSpec)
	case s.BackWallHeight > 0 && s.BackWallThickness == 0:
		return fmt.Errorf("%w: back_wall_thickness must be positive when back_wall_height > 0", ErrInvalidSpec)
	}
	return nil
}

// Profile is a stand cross-section in the (depth, height) plane. Depth grows
// away from the field and the front wall sits at depth 0.
type Profile struct {
	// Points is the emitted path from the origin around the section and
	// back to the origin; the last point repeats the first.
	Points []geo.Point2D `json:"points"`
	// TotalDepth is the depth at the end of the top walkway.
	TotalDepth float64 `json:"total_depth"`
	// TotalHeightAtBack is the height at the top of the structure,
	// including the back wall.
	TotalHeightAtBack float64 `json:"total_height_at_back"`
	// RowsTopHeight is the height of the last tread and the walkway.
	RowsTopHeight float64 `json:"rows_top_height"`
}

// VertexCount returns the number of emitted path points, closing point
// included: 2 + 2*rows + (1 or 2) + 2.
func (p Profile) VertexCount() int {
	return len(p.Points)
}

// Polygon returns the closed section without the repeated closing point or
// the duplicate vertex a zero-depth walkway leaves behind.
func (p Profile) Polygon() geo.Polygon {
	if len(p.Points) == 0 {
		return geo.Polygon{}
	}
	return geo.NewPolygon(p.Points[:len(p.Points)-1]...).Dedupe()
}

// BuildProfile walks the stand section: front wall, one tread and riser per
// row, the top walkway, an optional back wall, then down to the ground and
// back to the origin. Step coordinates are computed from the row index so
// the metrics carry no accumulated rounding. Without a back wall the back
// face drops vertically from the walkway end. With one, the back face is
// sloped: it runs from the wall top at (depth, top) to the ground at
// (depth+BackWallThickness, 0), not straight down.
func BuildProfile(s Spec) (Profile, error) {
	if err := s.Validate(); err != nil {
		return Profile{}, err
	}
	n := s.Rows
	pts := make([]geo.Point2D, 0, 2+2*n+2+2)
	pts = append(pts, geo.Origin, geo.Pt(0, s.FrontWallHeight))
	for i := 1; i <= n; i++ {
		d := float64(i) * s.StepDepth
		pts = append(pts,
			geo.Pt(d, s.FrontWallHeight+float64(i-1)*s.StepHeight),
			geo.Pt(d, s.FrontWallHeight+float64(i)*s.StepHeight),
		)
	}

	depth := float64(n)*s.StepDepth + s.WalkwayDepth
	rowsTop := s.FrontWallHeight + float64(n)*s.StepHeight
	pts = append(pts, geo.Pt(depth, rowsTop))

	top, back := rowsTop, depth
	if s.BackWallHeight > 0 {
		top = rowsTop + s.BackWallHeight
		back = depth + s.BackWallThickness
		pts = append(pts, geo.Pt(depth, top))
	}
	pts = append(pts, geo.Pt(back, 0), geo.Origin)

	p := Profile{
		Points:            pts,
		TotalDepth:        depth,
		TotalHeightAtBack: top,
		RowsTopHeight:     rowsTop,
	}
	if !p.Polygon().IsSimple() {
		return Profile{}, fmt.Errorf("%w: profile is not a simple polygon", ErrInvalidSpec)
	}
	return p, nil
}

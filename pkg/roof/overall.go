package roof

import (
	"errors"
	"fmt"
	"math"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

// ErrNoStands is returned when an overall roof has no stands to sit on.
var ErrNoStands = errors.New("overall roof needs at least one stand")

// OverallParams configures the ring roof.
type OverallParams struct {
	Overhang      float64 `yaml:"overhang" json:"overhang" toml:"overhang"`
	Thickness     float64 `yaml:"thickness" json:"thickness" toml:"thickness"`
	Color         string  `yaml:"color" json:"color" toml:"color"`
	SupportColor  string  `yaml:"support_color" json:"support_color" toml:"support_color"`
	SupportRadius float64 `yaml:"support_radius" json:"support_radius" toml:"support_radius"`
}

// DefaultOverallParams returns a half-meter ring overhanging the stands by 5 m.
func DefaultOverallParams() OverallParams {
	return OverallParams{
		Overhang:      5,
		Thickness:     0.5,
		Color:         "#777777",
		SupportColor:  "#999999",
		SupportRadius: 0.5,
	}
}

// Column is a vertical support of the overall roof. Position is the
// column centre in world space.
type Column struct {
	Position geo.Vec3 `json:"position"`
	Height   float64  `json:"height"`
	Radius   float64  `json:"radius"`
}

// Overall is a single slab covering every stand, with the field left open.
// Solid is built in the XY plane and extruded along +Z; Rotation turns it
// flat and Position lifts its underside to Bottom.
type Overall struct {
	Outer        geo.Polygon `json:"outer"`
	Hole         geo.Polygon `json:"hole"`
	HoleOmitted  bool        `json:"hole_omitted"`
	Margin       float64     `json:"margin"`
	Thickness    float64     `json:"thickness"`
	Bottom       float64     `json:"bottom"`
	Position     geo.Vec3    `json:"position"`
	Rotation     geo.Quat    `json:"rotation"`
	Solid        geo.Mesh    `json:"-"`
	Color        string      `json:"color"`
	SupportColor string      `json:"support_color"`
	Columns      []Column    `json:"columns"`
}

// PlaceOverall builds the ring roof. The outer rectangle is the field
// grown by the largest stand offset, the deepest stand profile and the
// overhang on every side; the hole is the field itself. The underside
// rests on the tallest stand and four corner columns, inset by the
// overhang, hold it up.
func PlaceOverall(field pitch.Field, set *stand.Set, p OverallParams) (Overall, error) {
	switch {
	case set.Len() == 0:
		return Overall{}, ErrNoStands
	case !(p.Thickness > 0):
		return Overall{}, fmt.Errorf("%w: thickness %v must be positive", ErrInvalidRoof, p.Thickness)
	case p.Overhang < 0 || math.IsNaN(p.Overhang):
		return Overall{}, fmt.Errorf("%w: overhang %v is negative", ErrInvalidRoof, p.Overhang)
	}

	margin := set.MaxOffset() + set.MaxDepth() + p.Overhang
	height := set.MaxHeight()
	r := Overall{
		Outer:        field.Expanded(margin),
		Hole:         field.Footprint(),
		Margin:       margin,
		Thickness:    p.Thickness,
		Bottom:       height,
		Position:     geo.V3(0, height, 0),
		Rotation:     geo.QuatFromAxisAngle(geo.AxisX, -math.Pi/2),
		Color:        p.Color,
		SupportColor: p.SupportColor,
	}

	var err error
	if r.Hole.Area() < geo.Epsilon {
		r.HoleOmitted = true
		r.Solid, err = geo.ExtrudePolygon(r.Outer, p.Thickness)
	} else {
		r.Solid, err = geo.ExtrudeRing(r.Outer, r.Hole, p.Thickness)
	}
	if err != nil {
		return Overall{}, fmt.Errorf("%w: %v", ErrInvalidRoof, err)
	}

	if height > 0 {
		cx := field.HalfLength() + margin - p.Overhang
		cz := field.HalfWidth() + margin - p.Overhang
		for _, c := range [4][2]float64{{cx, cz}, {-cx, cz}, {cx, -cz}, {-cx, -cz}} {
			r.Columns = append(r.Columns, Column{
				Position: geo.V3(c[0], height/2, c[1]),
				Height:   height,
				Radius:   p.SupportRadius,
			})
		}
	}
	return r, nil
}

package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
)

// Kind names a pitch layout.
type Kind string

const (
	KindFootball Kind = "football"
	KindCricket  Kind = "cricket"
)

// ErrFieldTooSmall is returned when the markings of a layout do not fit.
var ErrFieldTooSmall = errors.New("field too small for layout")

// Football marking dimensions in meters.
const (
	CenterCircleRadius   = 9.15
	CenterCircleSegments = 32
	PenaltyAreaDepth     = 16.5
	PenaltyAreaWidth     = 40.32
	GoalDepth            = 2
	GoalHeight           = 2.44
	GoalWidth            = 7.32
)

// Cricket marking dimensions in meters.
const (
	CricketPitchLength   = 20.12
	CricketPitchWidth    = 3.05
	PoppingCreaseOffset  = 1.22
	PoppingCreaseLength  = 3.66
	StumpsWidth          = 0.2286
	StumpsHeight         = 0.711
	DefaultBoundaryInset = 3
)

// Stripe is a flat painted rectangle lying on the surface. Length runs along
// the local X axis before Yaw is applied.
type Stripe struct {
	Name   string   `json:"name"`
	Center geo.Vec3 `json:"center"`
	Length float64  `json:"length"`
	Width  float64  `json:"width"`
	Yaw    float64  `json:"yaw"`
}

// Ring is a painted closed curve approximated by Segments straight pieces.
type Ring struct {
	Name     string   `json:"name"`
	Center   geo.Vec3 `json:"center"`
	RadiusX  float64  `json:"radius_x"`
	RadiusZ  float64  `json:"radius_z"`
	Width    float64  `json:"width"`
	Segments int      `json:"segments"`
}

// Outline returns the ring centre line in plan coordinates.
func (r Ring) Outline() geo.Polygon {
	return geo.ApproximateEllipse(geo.Pt(r.Center.X, r.Center.Z), r.RadiusX, r.RadiusZ, r.Segments)
}

// Fixture is a solid box standing on the surface, such as a goal or stumps.
type Fixture struct {
	Name   string   `json:"name"`
	Center geo.Vec3 `json:"center"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Depth  float64  `json:"depth"`
}

// Surface is the pitch with its markings for one layout.
type Surface struct {
	Field     Field     `json:"field"`
	Kind      Kind      `json:"kind"`
	LineWidth float64   `json:"line_width"`
	Stripes   []Stripe  `json:"stripes"`
	Rings     []Ring    `json:"rings"`
	Fixtures  []Fixture `json:"fixtures"`
}

// Layout is the closed set of pitch variants. Build dispatches on it once.
type Layout interface {
	Kind() Kind
	mark(s *Surface) error
}

// Football is an association football pitch.
type Football struct{}

// Cricket is a cricket field with an elliptical boundary rope.
type Cricket struct {
	BoundaryInset float64
}

func (Football) Kind() Kind { return KindFootball }
func (Cricket) Kind() Kind  { return KindCricket }

// LayoutFor returns the layout for kind.
func LayoutFor(kind Kind) (Layout, error) {
	switch kind {
	case KindFootball, "":
		return Football{}, nil
	case KindCricket:
		return Cricket{BoundaryInset: DefaultBoundaryInset}, nil
	}
	return nil, fmt.Errorf("unknown pitch type %q", kind)
}

// Build lays out the markings of layout on field.
func Build(field Field, layout Layout, lineWidth float64) (Surface, error) {
	if err := field.Validate(); err != nil {
		return Surface{}, err
	}
	if lineWidth <= 0 || math.IsNaN(lineWidth) {
		return Surface{}, fmt.Errorf("%w: line width %v must be positive", ErrInvalidField, lineWidth)
	}
	s := Surface{Field: field, Kind: layout.Kind(), LineWidth: lineWidth}
	if err := layout.mark(&s); err != nil {
		return Surface{}, err
	}
	return s, nil
}

// Lines are lifted just above the grass so they do not z-fight with it.
const lineLift = 0.01

func (Football) mark(s *Surface) error {
	f := s.Field
	hl, hw := f.HalfLength(), f.HalfWidth()
	if f.Length < 2*PenaltyAreaDepth+2*CenterCircleRadius || f.Width < PenaltyAreaWidth {
		return fmt.Errorf("%w: football needs at least %.2f x %.2f, got %.2f x %.2f",
			ErrFieldTooSmall, 2*PenaltyAreaDepth+2*CenterCircleRadius, PenaltyAreaWidth, f.Length, f.Width)
	}
	lw := s.LineWidth
	s.Stripes = append(s.Stripes,
		Stripe{Name: "touchline-north", Center: geo.V3(0, lineLift, -hw), Length: f.Length, Width: lw},
		Stripe{Name: "touchline-south", Center: geo.V3(0, lineLift, hw), Length: f.Length, Width: lw},
		Stripe{Name: "goal-line-east", Center: geo.V3(hl, lineLift, 0), Length: f.Width, Width: lw, Yaw: math.Pi / 2},
		Stripe{Name: "goal-line-west", Center: geo.V3(-hl, lineLift, 0), Length: f.Width, Width: lw, Yaw: math.Pi / 2},
		Stripe{Name: "halfway-line", Center: geo.V3(0, lineLift, 0), Length: f.Width, Width: lw, Yaw: math.Pi / 2},
	)
	for _, end := range []struct {
		name string
		sign float64
	}{{"east", 1}, {"west", -1}} {
		front := end.sign * (hl - PenaltyAreaDepth)
		mid := end.sign * (hl - PenaltyAreaDepth/2)
		half := PenaltyAreaWidth / 2
		s.Stripes = append(s.Stripes,
			Stripe{Name: "penalty-front-" + end.name, Center: geo.V3(front, lineLift, 0), Length: PenaltyAreaWidth, Width: lw, Yaw: math.Pi / 2},
			Stripe{Name: "penalty-side-north-" + end.name, Center: geo.V3(mid, lineLift, -half), Length: PenaltyAreaDepth, Width: lw},
			Stripe{Name: "penalty-side-south-" + end.name, Center: geo.V3(mid, lineLift, half), Length: PenaltyAreaDepth, Width: lw},
		)
		s.Fixtures = append(s.Fixtures, Fixture{
			Name:   "goal-" + end.name,
			Center: geo.V3(end.sign*(hl+GoalDepth/2), GoalHeight/2, 0),
			Width:  GoalDepth,
			Height: GoalHeight,
			Depth:  GoalWidth,
		})
	}
	s.Rings = append(s.Rings, Ring{
		Name:     "center-circle",
		Center:   geo.V3(0, lineLift, 0),
		RadiusX:  CenterCircleRadius,
		RadiusZ:  CenterCircleRadius,
		Width:    lw,
		Segments: CenterCircleSegments,
	})
	return nil
}

func (c Cricket) mark(s *Surface) error {
	f := s.Field
	inset := c.BoundaryInset
	rx, rz := f.HalfLength()-inset, f.HalfWidth()-inset
	if rx <= CricketPitchLength/2+PoppingCreaseOffset || rz <= CricketPitchWidth {
		return fmt.Errorf("%w: cricket boundary %.2f x %.2f cannot hold the pitch strip", ErrFieldTooSmall, 2*rx, 2*rz)
	}
	lw := s.LineWidth
	s.Rings = append(s.Rings, Ring{
		Name:     "boundary",
		Center:   geo.V3(0, lineLift, 0),
		RadiusX:  rx,
		RadiusZ:  rz,
		Width:    lw,
		Segments: 64,
	})
	s.Stripes = append(s.Stripes, Stripe{
		Name:   "pitch-strip",
		Center: geo.V3(0, lineLift/2, 0),
		Length: CricketPitchLength,
		Width:  CricketPitchWidth,
	})
	for _, end := range []struct {
		name string
		sign float64
	}{{"east", 1}, {"west", -1}} {
		stumps := end.sign * CricketPitchLength / 2
		s.Stripes = append(s.Stripes,
			Stripe{Name: "bowling-crease-" + end.name, Center: geo.V3(stumps, lineLift, 0), Length: CricketPitchWidth, Width: lw, Yaw: math.Pi / 2},
			Stripe{Name: "popping-crease-" + end.name, Center: geo.V3(stumps-end.sign*PoppingCreaseOffset, lineLift, 0), Length: PoppingCreaseLength, Width: lw, Yaw: math.Pi / 2},
		)
		s.Fixtures = append(s.Fixtures, Fixture{
			Name:   "stumps-" + end.name,
			Center: geo.V3(stumps, StumpsHeight/2, 0),
			Width:  0.05,
			Height: StumpsHeight,
			Depth:  StumpsWidth,
		})
	}
	return nil
}

// Package pitch describes the playing surface: its footprint and the
// markings and fixtures drawn on it for each sport layout.
package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
)

// ErrInvalidField is returned for non-positive or non-finite field dimensions.
var ErrInvalidField = errors.New("invalid field")

// Field is the rectangular playing surface centred on the world origin.
// Length runs along world X and Width along world Z.
type Field struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

// Validate checks that both dimensions are positive and finite.
func (f Field) Validate() error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"length", f.Length}, {"width", f.Width}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) || d.v <= 0 {
			return fmt.Errorf("%w: %s %v must be positive", ErrInvalidField, d.name, d.v)
		}
	}
	return nil
}

// HalfLength returns Length/2.
func (f Field) HalfLength() float64 { return f.Length / 2 }

// HalfWidth returns Width/2.
func (f Field) HalfWidth() float64 { return f.Width / 2 }

// Footprint returns the field outline in plan coordinates (world X, world Z).
func (f Field) Footprint() geo.Polygon {
	return geo.Rect(geo.Origin, f.Length, f.Width)
}

// Expanded returns the footprint grown by margin on every side.
func (f Field) Expanded(margin float64) geo.Polygon {
	return geo.Rect(geo.Origin, f.Length+2*margin, f.Width+2*margin)
}

// Center is the world-space centre of the field surface.
func (f Field) Center() geo.Vec3 {
	return geo.Vec3{}
}

package attach

import (
	"fmt"
	"math"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/render"
)

// Hoardings float just above the grass.
const hoardingLift = 0.01

// HoardingParams configures the advertising boards around the field.
type HoardingParams struct {
	Show              bool    `yaml:"show" json:"show" toml:"show"`
	Height            float64 `yaml:"height" json:"height" toml:"height"`
	Clearance         float64 `yaml:"clearance" json:"clearance" toml:"clearance"`
	Color             string  `yaml:"color" json:"color" toml:"color"`
	EmissiveIntensity float64 `yaml:"emissive_intensity" json:"emissive_intensity" toml:"emissive_intensity"`
	ImageAspectRatio  float64 `yaml:"image_aspect_ratio" json:"image_aspect_ratio" toml:"image_aspect_ratio"`
	Texture           string  `yaml:"texture" json:"texture" toml:"texture"`
	RepeatScale       float64 `yaml:"repeat_scale" json:"repeat_scale" toml:"repeat_scale"`
}

// DefaultHoardingParams returns 1 m boards 3 m off the touchlines showing
// a 256x64 banner.
func DefaultHoardingParams() HoardingParams {
	return HoardingParams{
		Show:              true,
		Height:            1,
		Clearance:         3,
		Color:             "#1a237e",
		EmissiveIntensity: 1,
		ImageAspectRatio:  4,
		Texture:           "stadium-ads",
		RepeatScale:       2,
	}
}

// Hoarding is one advertising board. It is a plane facing its local +Z,
// turned by Yaw to face the field.
type Hoarding struct {
	Name       string            `json:"name"`
	Position   geo.Vec3          `json:"position"`
	Yaw        float64           `json:"yaw"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Repeat     float64           `json:"repeat"`
	Appearance render.Appearance `json:"appearance"`
}

// RepeatFactor returns how many times a banner of the given image aspect
// ratio tiles across a board: width / (height * aspect) * scale.
func RepeatFactor(width, height, imageAspect, scale float64) float64 {
	return width / (height * imageAspect) * scale
}

// PlaceHoardings puts one board on each side of the field at half the
// field dimension plus the clearance. Each board gets its own appearance
// derived from the shared base with its own texture repeat.
func PlaceHoardings(field pitch.Field, p HoardingParams) ([]Hoarding, error) {
	if err := field.Validate(); err != nil {
		return nil, err
	}
	if !(p.Height > 0) || !(p.ImageAspectRatio > 0) || !(p.RepeatScale > 0) || p.Clearance < 0 {
		return nil, fmt.Errorf("hoardings: height %v, aspect %v, repeat scale %v must be positive and clearance %v non-negative",
			p.Height, p.ImageAspectRatio, p.RepeatScale, p.Clearance)
	}
	base := render.Glowing(p.Color, p.EmissiveIntensity)
	base.Texture = p.Texture
	base.DoubleSided = true

	y := p.Height/2 + hoardingLift
	hl, hw := field.HalfLength()+p.Clearance, field.HalfWidth()+p.Clearance
	boards := []struct {
		name  string
		pos   geo.Vec3
		yaw   float64
		width float64
	}{
		{"north", geo.V3(hl, y, 0), -math.Pi / 2, field.Width},
		{"south", geo.V3(-hl, y, 0), math.Pi / 2, field.Width},
		{"east", geo.V3(0, y, hw), math.Pi, field.Length},
		{"west", geo.V3(0, y, -hw), 0, field.Length},
	}
	out := make([]Hoarding, 0, len(boards))
	for _, b := range boards {
		rep := RepeatFactor(b.width, p.Height, p.ImageAspectRatio, p.RepeatScale)
		out = append(out, Hoarding{
			Name:       "hoarding-" + b.name,
			Position:   b.pos,
			Yaw:        b.yaw,
			Width:      b.width,
			Height:     p.Height,
			Repeat:     rep,
			Appearance: render.WithRepeat(base, rep, 1),
		})
	}
	return out, nil
}

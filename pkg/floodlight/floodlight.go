// Package floodlight places the four corner floodlight towers and the spot
// lights on their heads.
package floodlight

import (
	"errors"
	"fmt"
	"math"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

// ErrInvalidParams is returned for floodlight parameters outside their domain.
var ErrInvalidParams = errors.New("invalid floodlight params")

// DefaultEstimatedDepth is the stand depth assumed when no stand is configured.
const DefaultEstimatedDepth = 20

// Fixed tower geometry in meters.
const (
	PoleRadiusTop     = 0.6
	PoleRadiusBottom  = 0.9
	HousingHeight     = 1.0
	HousingDepth      = 0.8
	LampRadius        = 0.2
	LampRadiusBottom  = 0.16
	LampLength        = 0.4
	lightSpacing      = 0.8
	lightForwardInset = 0.1
)

// Spot configures each spot light.
type Spot struct {
	Color     string  `yaml:"color" json:"color" toml:"color"`
	Intensity float64 `yaml:"intensity" json:"intensity" toml:"intensity"`
	Distance  float64 `yaml:"distance" json:"distance" toml:"distance"`
	Angle     float64 `yaml:"angle" json:"angle" toml:"angle"`
	Penumbra  float64 `yaml:"penumbra" json:"penumbra" toml:"penumbra"`
	Decay     float64 `yaml:"decay" json:"decay" toml:"decay"`
}

// Params configures the floodlight towers.
type Params struct {
	Show           bool    `yaml:"show" json:"show" toml:"show"`
	TowerHeight    float64 `yaml:"tower_height" json:"tower_height" toml:"tower_height"`
	TowerColor     string  `yaml:"tower_color" json:"tower_color" toml:"tower_color"`
	LightsPerTower int     `yaml:"lights_per_tower" json:"lights_per_tower" toml:"lights_per_tower"`
	OffsetFactor   float64 `yaml:"offset_factor" json:"offset_factor" toml:"offset_factor"`
	Clearance      float64 `yaml:"clearance" json:"clearance" toml:"clearance"`
	Spot           Spot    `yaml:"spot" json:"spot" toml:"spot"`
	ShowHelpers    bool    `yaml:"show_helpers" json:"show_helpers" toml:"show_helpers"`
}

// DefaultParams returns 40 m towers with four white lights each.
func DefaultParams() Params {
	return Params{
		Show:           true,
		TowerHeight:    40,
		TowerColor:     "#aaaaaa",
		LightsPerTower: 4,
		OffsetFactor:   1.2,
		Clearance:      10,
		Spot: Spot{
			Color:     "#ffffff",
			Intensity: 2,
			Distance:  300,
			Angle:     math.Pi / 6,
			Penumbra:  0.3,
			Decay:     1,
		},
	}
}

// Validate reports the first parameter outside its domain.
func (p Params) Validate() error {
	switch {
	case !(p.TowerHeight > HousingHeight):
		return fmt.Errorf("%w: tower height %v must exceed the housing height %v", ErrInvalidParams, p.TowerHeight, HousingHeight)
	case p.LightsPerTower < 0:
		return fmt.Errorf("%w: lights per tower %d is negative", ErrInvalidParams, p.LightsPerTower)
	case p.OffsetFactor < 0 || p.Clearance < 0:
		return fmt.Errorf("%w: offset factor %v and clearance %v must be non-negative", ErrInvalidParams, p.OffsetFactor, p.Clearance)
	case p.Spot.Intensity < 0 || p.Spot.Distance < 0 || p.Spot.Decay < 0:
		return fmt.Errorf("%w: spot intensity, distance and decay must be non-negative", ErrInvalidParams)
	case !(p.Spot.Angle > 0 && p.Spot.Angle <= math.Pi/2):
		return fmt.Errorf("%w: spot angle %v outside (0, pi/2]", ErrInvalidParams, p.Spot.Angle)
	case p.Spot.Penumbra < 0 || p.Spot.Penumbra > 1:
		return fmt.Errorf("%w: spot penumbra %v outside [0, 1]", ErrInvalidParams, p.Spot.Penumbra)
	}
	return nil
}

// EstimateStandDepth estimates stand depth from configuration alone, from
// the first stand spec: rows x step depth + walkway. With no specs it
// returns DefaultEstimatedDepth.
func EstimateStandDepth(specs ...stand.Spec) float64 {
	if len(specs) == 0 {
		return DefaultEstimatedDepth
	}
	s := specs[0]
	return float64(s.Rows)*s.StepDepth + s.WalkwayDepth
}

// Lamp is the visible fixture of one light, in world space.
type Lamp struct {
	Position     geo.Vec3 `json:"position"`
	Rotation     geo.Quat `json:"rotation"`
	RadiusTop    float64  `json:"radius_top"`
	RadiusBottom float64  `json:"radius_bottom"`
	Length       float64  `json:"length"`
}

// Light is one spot emitter on a tower head.
type Light struct {
	Index     int      `json:"index"`
	Local     geo.Vec3 `json:"local"`
	Position  geo.Vec3 `json:"position"`
	Target    geo.Vec3 `json:"target"`
	Direction geo.Vec3 `json:"direction"`
	Spot      Spot     `json:"spot"`
	Lamp      Lamp     `json:"lamp"`
}

// Tower is one floodlight mast. The head frame sits at the mast foot,
// turned to face the field centre; the housing hangs at the mast top in
// that frame.
type Tower struct {
	Name         string        `json:"name"`
	Position     geo.Vec3      `json:"position"`
	Head         geo.Transform `json:"head"`
	Height       float64       `json:"height"`
	Color        string        `json:"color"`
	HousingLocal geo.Vec3      `json:"housing_local"`
	HousingWidth float64       `json:"housing_width"`
	Lights       []Light       `json:"lights"`
}

// Array is the full set of towers.
type Array struct {
	Margin      float64 `json:"margin"`
	Towers      []Tower `json:"towers"`
	ShowHelpers bool    `json:"show_helpers"`
}

// LightCount returns the total number of spot lights.
func (a Array) LightCount() int {
	n := 0
	for _, t := range a.Towers {
		n += len(t.Lights)
	}
	return n
}

// HousingWidth returns the width of a tower head holding n lights.
func HousingWidth(n int) float64 {
	if n > 1 {
		return float64(n) * lightSpacing
	}
	return 1
}

// LightOffsets returns the local x of n lights spread evenly across a
// housing of the given width.
func LightOffsets(n int, width float64) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{0}
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = -width/2 + width/float64(n)*(float64(i)+0.5)
	}
	return xs
}

// Place puts a tower on each corner at (+-(length/2 + margin), +-(width/2
// + margin)) where margin = standOffset + estimatedDepth/2 + clearance x
// offsetFactor. Every light aims at the field centre.
func Place(field pitch.Field, standOffset, estimatedDepth float64, p Params) (Array, error) {
	if err := field.Validate(); err != nil {
		return Array{}, err
	}
	if err := p.Validate(); err != nil {
		return Array{}, err
	}
	margin := standOffset + estimatedDepth*0.5 + p.Clearance*p.OffsetFactor
	x := field.HalfLength() + margin
	z := field.HalfWidth() + margin
	center := field.Center()

	width := HousingWidth(p.LightsPerTower)
	housing := geo.V3(0, p.TowerHeight-HousingHeight/2, 0)
	a := Array{Margin: margin, ShowHelpers: p.ShowHelpers}
	for i, c := range [4][2]float64{{x, z}, {-x, z}, {x, -z}, {-x, -z}} {
		pos := geo.V3(c[0], 0, c[1])
		head := geo.NewTransform(pos, geo.YawQuat(geo.YawTowards(pos, center)))
		t := Tower{
			Name:         fmt.Sprintf("tower-%d", i+1),
			Position:     pos,
			Head:         head,
			Height:       p.TowerHeight,
			Color:        p.TowerColor,
			HousingLocal: housing,
			HousingWidth: width,
		}
		for j, lx := range LightOffsets(p.LightsPerTower, width) {
			local := geo.V3(lx, 0, HousingDepth/2+lightForwardInset)
			world := head.Apply(housing.Add(local))
			t.Lights = append(t.Lights, Light{
				Index:     j,
				Local:     local,
				Position:  world,
				Target:    center,
				Direction: center.Sub(world).Normalize(),
				Spot:      p.Spot,
				Lamp: Lamp{
					Position:     world,
					Rotation:     geo.LookRotation(center.Sub(world)),
					RadiusTop:    LampRadius,
					RadiusBottom: LampRadiusBottom,
					Length:       LampLength,
				},
			})
		}
		a.Towers = append(a.Towers, t)
	}
	return a, nil
}

package spec

import (
	"github.com/kshypjn/CG-StadiaGenerator/pkg/attach"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/floodlight"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/roof"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

// Version is written into new specs and scene metadata.
const Version = "0.1.0"

// StadiumSpec is the top-level parameter set for one stadium.
type StadiumSpec struct {
	SpecVersion string                  `yaml:"spec_version" json:"spec_version" toml:"spec_version"`
	Pitch       PitchDef                `yaml:"pitch" json:"pitch" toml:"pitch"`
	Stands      StandsDef               `yaml:"stands" json:"stands" toml:"stands"`
	Roof        RoofDef                 `yaml:"roof" json:"roof" toml:"roof"`
	Hoardings   attach.HoardingParams   `yaml:"hoardings" json:"hoardings" toml:"hoardings"`
	Scoreboard  attach.ScoreboardParams `yaml:"scoreboard" json:"scoreboard" toml:"scoreboard"`
	Ribbons     attach.RibbonParams     `yaml:"ribbons" json:"ribbons" toml:"ribbons"`
	Floodlights floodlight.Params       `yaml:"floodlights" json:"floodlights" toml:"floodlights"`
	Display     attach.Display          `yaml:"display" json:"display" toml:"display"`
}

// PitchDef is the playing field.
type PitchDef struct {
	Length    float64    `yaml:"length" json:"length" toml:"length"`
	Width     float64    `yaml:"width" json:"width" toml:"width"`
	LineWidth float64    `yaml:"line_width" json:"line_width" toml:"line_width"`
	Show      bool       `yaml:"show" json:"show" toml:"show"`
	Type      pitch.Kind `yaml:"type" json:"type" toml:"type"`
}

// Field returns the field rectangle.
func (p PitchDef) Field() pitch.Field {
	return pitch.Field{Length: p.Length, Width: p.Width}
}

// StandMode selects how per-stand parameters are resolved.
type StandMode string

const (
	// StandModeGlobal builds every stand from Stands.Global.
	StandModeGlobal StandMode = "global"
	// StandModeIndividual lets each side override Stands.Global field by field.
	StandModeIndividual StandMode = "individual"
)

// StandsDef configures the four cardinal stands.
type StandsDef struct {
	Show       bool           `yaml:"show" json:"show" toml:"show"`
	Mode       StandMode      `yaml:"mode" json:"mode" toml:"mode"`
	Global     stand.Spec     `yaml:"global" json:"global" toml:"global"`
	Individual StandOverrides `yaml:"individual" json:"individual" toml:"individual"`
}

// StandOverrides holds one override per side.
type StandOverrides struct {
	East  StandOverride `yaml:"east" json:"east" toml:"east"`
	West  StandOverride `yaml:"west" json:"west" toml:"west"`
	North StandOverride `yaml:"north" json:"north" toml:"north"`
	South StandOverride `yaml:"south" json:"south" toml:"south"`
}

// For returns the override for side.
func (o *StandOverrides) For(side stand.Side) *StandOverride {
	switch side {
	case stand.West:
		return &o.West
	case stand.North:
		return &o.North
	case stand.South:
		return &o.South
	}
	return &o.East
}

// StandOverride replaces the global stand values that are set.
type StandOverride struct {
	Show              *bool    `yaml:"show,omitempty" json:"show,omitempty" toml:"show,omitempty"`
	Offset            *float64 `yaml:"offset,omitempty" json:"offset,omitempty" toml:"offset,omitempty"`
	FrontWallHeight   *float64 `yaml:"front_wall_height,omitempty" json:"front_wall_height,omitempty" toml:"front_wall_height,omitempty"`
	Rows              *int     `yaml:"rows,omitempty" json:"rows,omitempty" toml:"rows,omitempty"`
	StepHeight        *float64 `yaml:"step_height,omitempty" json:"step_height,omitempty" toml:"step_height,omitempty"`
	StepDepth         *float64 `yaml:"step_depth,omitempty" json:"step_depth,omitempty" toml:"step_depth,omitempty"`
	WalkwayDepth      *float64 `yaml:"walkway_depth,omitempty" json:"walkway_depth,omitempty" toml:"walkway_depth,omitempty"`
	BackWallHeight    *float64 `yaml:"back_wall_height,omitempty" json:"back_wall_height,omitempty" toml:"back_wall_height,omitempty"`
	BackWallThickness *float64 `yaml:"back_wall_thickness,omitempty" json:"back_wall_thickness,omitempty" toml:"back_wall_thickness,omitempty"`
	Color             *string  `yaml:"color,omitempty" json:"color,omitempty" toml:"color,omitempty"`
}

// Apply returns base with every set field of o replacing its value.
func (o StandOverride) Apply(base stand.Spec) stand.Spec {
	set(&base.Show, o.Show)
	set(&base.Offset, o.Offset)
	set(&base.FrontWallHeight, o.FrontWallHeight)
	set(&base.Rows, o.Rows)
	set(&base.StepHeight, o.StepHeight)
	set(&base.StepDepth, o.StepDepth)
	set(&base.WalkwayDepth, o.WalkwayDepth)
	set(&base.BackWallHeight, o.BackWallHeight)
	set(&base.BackWallThickness, o.BackWallThickness)
	set(&base.Color, o.Color)
	return base
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// RoofDef selects and configures the roof.
type RoofDef struct {
	Type       roof.Mode             `yaml:"type" json:"type" toml:"type"`
	Overall    roof.OverallParams    `yaml:"overall" json:"overall" toml:"overall"`
	Individual roof.IndividualParams `yaml:"individual" json:"individual" toml:"individual"`
}

package attach

import (
	"fmt"
	"math"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/render"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

// RibbonParams configures the LED strips mounted along stands.
type RibbonParams struct {
	Show              bool     `yaml:"show" json:"show" toml:"show"`
	Stands            []string `yaml:"stands" json:"stands" toml:"stands"`
	Height            float64  `yaml:"height" json:"height" toml:"height"`
	DepthFraction     float64  `yaml:"depth_fraction" json:"depth_fraction" toml:"depth_fraction"`
	OffsetAboveTop    float64  `yaml:"offset_above_top" json:"offset_above_top" toml:"offset_above_top"`
	Color             string   `yaml:"color" json:"color" toml:"color"`
	TextColor         string   `yaml:"text_color" json:"text_color" toml:"text_color"`
	EmissiveIntensity float64  `yaml:"emissive_intensity" json:"emissive_intensity" toml:"emissive_intensity"`
}

// DefaultRibbonParams returns 1 m ribbons on the east and west stands.
func DefaultRibbonParams() RibbonParams {
	return RibbonParams{
		Show:              true,
		Stands:            []string{"East Stand", "West Stand"},
		Height:            1,
		DepthFraction:     1,
		OffsetAboveTop:    0.5,
		Color:             "#000000",
		TextColor:         "#ffcc00",
		EmissiveIntensity: 1,
	}
}

// Ribbon is a display strip in its stand's frame. The strip is a plane
// facing its local +Z, turned to face the field.
type Ribbon struct {
	Request    string            `json:"request"`
	StandName  string            `json:"stand_name"`
	Side       stand.Side        `json:"side"`
	Local      geo.Vec3          `json:"local"`
	World      geo.Vec3          `json:"world"`
	Yaw        float64           `json:"yaw"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Text       string            `json:"text"`
	Appearance render.Appearance `json:"appearance"`
}

// PlaceRibbons places one ribbon per requested stand name, resolved by
// case-insensitive substring match. Names that match no built stand are
// returned as errors wrapping ErrStandNotFound; the other ribbons are
// still placed.
func PlaceRibbons(set *stand.Set, p RibbonParams, content Display) ([]Ribbon, []error) {
	if !(p.Height > 0) {
		return nil, []error{fmt.Errorf("ribbons: height %v must be positive", p.Height)}
	}
	var (
		out     []Ribbon
		missing []error
	)
	look := render.Glowing(p.Color, p.EmissiveIntensity)
	look.Texture = "ribbon:" + content.ScoreLine()
	for _, name := range p.Stands {
		in, ok := set.Find(name)
		if !ok {
			missing = append(missing, fmt.Errorf("ribbon: %w: %q", ErrStandNotFound, name))
			continue
		}
		local := geo.V3(
			in.TotalProfileDepth*p.DepthFraction,
			in.TotalProfileHeightAtBack+p.OffsetAboveTop+p.Height/2,
			in.StandLength/2,
		)
		out = append(out, Ribbon{
			Request:    name,
			StandName:  in.Name,
			Side:       in.Side,
			Local:      local,
			World:      in.LocalToWorld(local),
			Yaw:        -math.Pi / 2,
			Width:      in.StandLength,
			Height:     p.Height,
			Text:       content.ScoreLine(),
			Appearance: look,
		})
	}
	return out, missing
}

package attach

import (
	"errors"
	"fmt"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/render"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/roof"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

// ErrStandNotFound is returned when an attachment names a stand that was
// not built.
var ErrStandNotFound = errors.New("stand not found")

// Supports below this height are not built.
const minSupportHeight = 1e-6

// ScoreboardParams configures the roof-mounted scoreboard.
type ScoreboardParams struct {
	Show              bool    `yaml:"show" json:"show" toml:"show"`
	Stand             string  `yaml:"stand" json:"stand" toml:"stand"`
	Width             float64 `yaml:"width" json:"width" toml:"width"`
	Height            float64 `yaml:"height" json:"height" toml:"height"`
	FrameThickness    float64 `yaml:"frame_thickness" json:"frame_thickness" toml:"frame_thickness"`
	OffsetFromRoof    float64 `yaml:"offset_from_roof" json:"offset_from_roof" toml:"offset_from_roof"`
	SupportHeight     float64 `yaml:"support_height" json:"support_height" toml:"support_height"`
	SupportRadius     float64 `yaml:"support_radius" json:"support_radius" toml:"support_radius"`
	DepthFraction     float64 `yaml:"depth_fraction" json:"depth_fraction" toml:"depth_fraction"`
	OffsetDepth       float64 `yaml:"offset_depth" json:"offset_depth" toml:"offset_depth"`
	OffsetLength      float64 `yaml:"offset_length" json:"offset_length" toml:"offset_length"`
	ScreenColor       string  `yaml:"screen_color" json:"screen_color" toml:"screen_color"`
	FrameColor        string  `yaml:"frame_color" json:"frame_color" toml:"frame_color"`
	SupportColor      string  `yaml:"support_color" json:"support_color" toml:"support_color"`
	TextColor         string  `yaml:"text_color" json:"text_color" toml:"text_color"`
	EmissiveIntensity float64 `yaml:"emissive_intensity" json:"emissive_intensity" toml:"emissive_intensity"`
}

// DefaultScoreboardParams returns a 20 x 8 m board on the east stand roof.
func DefaultScoreboardParams() ScoreboardParams {
	return ScoreboardParams{
		Show:              true,
		Stand:             "east",
		Width:             20,
		Height:            8,
		FrameThickness:    0.5,
		OffsetFromRoof:    1,
		SupportHeight:     3,
		SupportRadius:     0.2,
		DepthFraction:     0.7,
		ScreenColor:       "#000000",
		FrameColor:        "#333333",
		SupportColor:      "#555555",
		TextColor:         "#ffffff",
		EmissiveIntensity: 1,
	}
}

// Part is a box or plane of an assembly, positioned in the assembly frame.
type Part struct {
	Name       string            `json:"name"`
	Offset     geo.Vec3          `json:"offset"`
	Size       geo.Vec3          `json:"size"`
	Appearance render.Appearance `json:"appearance"`
}

// Support is a vertical cylinder in the assembly frame.
type Support struct {
	Offset     geo.Vec3          `json:"offset"`
	Height     float64           `json:"height"`
	Radius     float64           `json:"radius"`
	Appearance render.Appearance `json:"appearance"`
}

// Scoreboard is the placed scoreboard assembly. Local and Rotation are in
// the target stand's frame.
type Scoreboard struct {
	StandName     string     `json:"stand_name"`
	Side          stand.Side `json:"side"`
	Local         geo.Vec3   `json:"local"`
	World         geo.Vec3   `json:"world"`
	Rotation      geo.Euler  `json:"rotation"`
	InheritedTilt float64    `json:"inherited_tilt"`
	Base          float64    `json:"base"`
	OnRoof        bool       `json:"on_roof"`
	Frame         Part       `json:"frame"`
	Screen        Part       `json:"screen"`
	Supports      []Support  `json:"supports"`
	Content       Display    `json:"content"`
}

// Transform returns the assembly frame relative to the stand.
func (s *Scoreboard) Transform() geo.Transform {
	return geo.NewTransform(s.Local, s.Rotation.Quat())
}

// PlaceScoreboard mounts the scoreboard on the stand named by p.Stand. The
// base height is the roof's top surface above the board's depth, or the
// stand top when that stand has no roof, plus OffsetFromRoof. The board
// turns about the vertical only, to face the field centre at its own
// height; any tilt inherited from the roof is dropped so the screen stays
// upright.
func PlaceScoreboard(set *stand.Set, plan roof.Plan, p ScoreboardParams, content Display) (*Scoreboard, error) {
	if !(p.Width > 0 && p.Height > 0) || p.FrameThickness < 0 || p.SupportHeight < 0 {
		return nil, fmt.Errorf("scoreboard: non-positive size %vx%v (frame %v, supports %v)", p.Width, p.Height, p.FrameThickness, p.SupportHeight)
	}
	in, ok := set.Find(p.Stand)
	if !ok {
		return nil, fmt.Errorf("scoreboard: %w: %q", ErrStandNotFound, p.Stand)
	}

	x := in.TotalProfileDepth*p.DepthFraction + p.OffsetDepth
	z := in.StandLength/2 + p.OffsetLength

	sb := &Scoreboard{
		StandName: in.Name,
		Side:      in.Side,
		Content:   content,
	}
	top := in.TotalProfileHeightAtBack
	if plan != nil {
		if h, ok := plan.TopHeight(in.Side, x); ok {
			top, sb.OnRoof = h, true
		}
		if ip, ok := plan.(roof.IndividualPlan); ok {
			if r, ok := ip.ForSide(in.Side); ok {
				sb.InheritedTilt = r.Tilt
			}
		}
	}
	sb.Base = top + p.OffsetFromRoof

	totalH := p.Height + p.FrameThickness
	sb.Local = geo.V3(x, sb.Base+p.SupportHeight+totalH/2, z)
	sb.World = in.LocalToWorld(sb.Local)

	target := in.WorldToLocal(geo.V3(0, sb.World.Y, 0))
	sb.Rotation = geo.Euler{Y: geo.YawTowards(sb.Local, target)}

	sb.Frame = Part{
		Name:       "frame",
		Size:       geo.V3(p.Width+p.FrameThickness, totalH, p.FrameThickness),
		Appearance: render.Solid(p.FrameColor),
	}
	screen := render.Glowing(p.ScreenColor, p.EmissiveIntensity)
	screen.Texture = "scoreboard:" + content.Headline()
	sb.Screen = Part{
		Name:       "screen",
		Offset:     geo.V3(0, 0, p.FrameThickness/2+0.01),
		Size:       geo.V3(p.Width, p.Height, 0),
		Appearance: screen,
	}
	if p.SupportHeight > minSupportHeight {
		support := render.Solid(p.SupportColor)
		support.Metalness = 0.5
		support.Roughness = 0.5
		for _, sign := range []float64{-1, 1} {
			sb.Supports = append(sb.Supports, Support{
				Offset:     geo.V3(sign*p.Width*0.35, -totalH/2-p.SupportHeight/2, 0),
				Height:     p.SupportHeight,
				Radius:     p.SupportRadius,
				Appearance: support,
			})
		}
	}
	return sb, nil
}

// Facing returns the world-space direction the screen faces.
func (s *Scoreboard) Facing(in *stand.Instance) geo.Vec3 {
	return in.Transform.ApplyDir(s.Rotation.Quat().Rotate(geo.AxisZ))
}

// Roll returns the assembly's rotation about its facing axis.
func (s *Scoreboard) Roll() float64 {
	return s.Rotation.Z
}

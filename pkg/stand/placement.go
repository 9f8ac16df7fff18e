package stand

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
)

// Side identifies one of the four cardinal stands.
type Side int

const (
	East Side = iota
	West
	North
	South
)

// Sides lists the cardinal sides in build order.
var Sides = [4]Side{East, West, North, South}

var sideNames = [4]string{"east", "west", "north", "south"}

func (s Side) String() string {
	if s < East || s > South {
		return fmt.Sprintf("side(%d)", int(s))
	}
	return sideNames[s]
}

// ParseSide converts "east", "West", ... into a Side.
func ParseSide(name string) (Side, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range sideNames {
		if n == s {
			return Side(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stand side %q", name)
}

// GroupName is the scene name of the stand on this side, e.g. "EastStandGroup".
func (s Side) GroupName() string {
	n := s.String()
	return strings.ToUpper(n[:1]) + n[1:] + "StandGroup"
}

// Definition is the fixed frame of a cardinal stand: where its local origin
// sits, how it is turned, and which field dimension it runs along.
type Definition struct {
	Side      Side
	Position  geo.Vec3
	Yaw       float64
	Length    float64
	AlongAxis string
}

// Definitions returns the four cardinal stand frames for field with the
// given per-side offsets. The side stands run along the field length at
// z = +-(width/2 + offset); the end stands run along the width at
// x = +-(length/2 + offset). Each yaw turns the profile front toward the
// field centre and the extrusion direction along the field edge.
func Definitions(field pitch.Field, offsets [4]float64) [4]Definition {
	hl, hw := field.HalfLength(), field.HalfWidth()
	return [4]Definition{
		East:  {Side: East, Position: geo.V3(hl, 0, hw+offsets[East]), Yaw: -math.Pi / 2, Length: field.Length, AlongAxis: "x"},
		West:  {Side: West, Position: geo.V3(-hl, 0, -(hw + offsets[West])), Yaw: math.Pi / 2, Length: field.Length, AlongAxis: "x"},
		North: {Side: North, Position: geo.V3(hl+offsets[North], 0, -hw), Yaw: 0, Length: field.Width, AlongAxis: "z"},
		South: {Side: South, Position: geo.V3(-(hl + offsets[South]), 0, hw), Yaw: math.Pi, Length: field.Width, AlongAxis: "z"},
	}
}

// Instance is a built stand. The solid is in stand-local coordinates: local
// X is profile depth, Y is height and Z runs along the stand from 0 to
// StandLength. Transform maps local coordinates into the world.
type Instance struct {
	Name                     string        `json:"name"`
	Side                     Side          `json:"side"`
	Spec                     Spec          `json:"spec"`
	Profile                  Profile       `json:"profile"`
	Solid                    geo.Mesh      `json:"-"`
	Transform                geo.Transform `json:"transform"`
	Yaw                      float64       `json:"yaw"`
	StandLength              float64       `json:"stand_length"`
	TotalProfileDepth        float64       `json:"total_profile_depth"`
	TotalProfileHeightAtBack float64       `json:"total_profile_height_at_back"`
}

// LocalToWorld maps a stand-local point into world space.
func (in *Instance) LocalToWorld(p geo.Vec3) geo.Vec3 {
	return in.Transform.Apply(p)
}

// WorldToLocal maps a world point into the stand frame.
func (in *Instance) WorldToLocal(p geo.Vec3) geo.Vec3 {
	return in.Transform.ToLocal(p)
}

// Build builds one stand for def from spec.
func Build(def Definition, spec Spec) (*Instance, error) {
	profile, err := BuildProfile(spec)
	if err != nil {
		return nil, fmt.Errorf("%s stand: %w", def.Side, err)
	}
	if def.Length <= 0 {
		return nil, fmt.Errorf("%s stand: %w: length %v must be positive", def.Side, ErrInvalidSpec, def.Length)
	}
	solid, err := geo.ExtrudePolygon(profile.Polygon(), def.Length)
	if err != nil {
		return nil, fmt.Errorf("%s stand: %w: %v", def.Side, ErrInvalidSpec, err)
	}
	return &Instance{
		Name:                     def.Side.GroupName(),
		Side:                     def.Side,
		Spec:                     spec,
		Profile:                  profile,
		Solid:                    solid,
		Transform:                geo.NewTransform(def.Position, geo.YawQuat(def.Yaw)),
		Yaw:                      def.Yaw,
		StandLength:              def.Length,
		TotalProfileDepth:        profile.TotalDepth,
		TotalProfileHeightAtBack: profile.TotalHeightAtBack,
	}, nil
}

// Place builds every shown stand around field. When show is false no stand
// is built; a stand whose spec has Show unset is skipped.
func Place(field pitch.Field, specs [4]Spec, show bool) (*Set, error) {
	set := &Set{}
	if !show {
		return set, nil
	}
	if err := field.Validate(); err != nil {
		return nil, err
	}
	var offsets [4]float64
	for _, side := range Sides {
		offsets[side] = specs[side].Offset
	}
	defs := Definitions(field, offsets)
	for _, side := range Sides {
		if !specs[side].Show {
			continue
		}
		inst, err := Build(defs[side], specs[side])
		if err != nil {
			return nil, err
		}
		set.add(inst)
	}
	return set, nil
}

// Set holds the built stands and is the typed reference downstream
// placement reads stand metrics from.
type Set struct {
	stands []*Instance
	bySide [4]*Instance
}

func (s *Set) add(in *Instance) {
	s.stands = append(s.stands, in)
	s.bySide[in.Side] = in
}

// All returns the built stands in build order.
func (s *Set) All() []*Instance {
	if s == nil {
		return nil
	}
	return s.stands
}

// Len returns the number of built stands.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.stands)
}

// BySide returns the stand on side, if it was built.
func (s *Set) BySide(side Side) (*Instance, bool) {
	if s == nil || side < East || side > South {
		return nil, false
	}
	in := s.bySide[side]
	return in, in != nil
}

// Find resolves a stand by name, ignoring case, spaces and punctuation, and
// accepting any substring of the stand name: "West Stand" and "west" both
// find "WestStandGroup". Callers holding a Side should use BySide.
func (s *Set) Find(name string) (*Instance, bool) {
	q := normalizeName(name)
	if q == "" || s == nil {
		return nil, false
	}
	for _, in := range s.stands {
		if strings.Contains(normalizeName(in.Name), q) {
			return in, true
		}
	}
	return nil, false
}

func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// MaxDepth returns the largest profile depth among built stands.
func (s *Set) MaxDepth() float64 {
	m := 0.0
	for _, in := range s.All() {
		m = math.Max(m, in.TotalProfileDepth)
	}
	return m
}

// MaxHeight returns the tallest stand height at the back.
func (s *Set) MaxHeight() float64 {
	m := 0.0
	for _, in := range s.All() {
		m = math.Max(m, in.TotalProfileHeightAtBack)
	}
	return m
}

// MaxOffset returns the largest field-edge offset among built stands.
func (s *Set) MaxOffset() float64 {
	m := 0.0
	for _, in := range s.All() {
		m = math.Max(m, in.Spec.Offset)
	}
	return m
}

// MarshalText encodes the side by name.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a side name.
func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

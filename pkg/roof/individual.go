package roof

import (
	"fmt"
	"math"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

// Strut inset from each stand end, as a fraction of the stand length.
const strutInset = 0.1

// IndividualParams configures the per-stand roof slabs.
type IndividualParams struct {
	HeightOffset   float64 `yaml:"height_offset" json:"height_offset" toml:"height_offset"`
	Coverage       float64 `yaml:"coverage" json:"coverage" toml:"coverage"`
	AutoCoverage   bool    `yaml:"auto_coverage" json:"auto_coverage" toml:"auto_coverage"`
	CoverageFactor float64 `yaml:"coverage_factor" json:"coverage_factor" toml:"coverage_factor"`
	MinCoverage    float64 `yaml:"min_coverage" json:"min_coverage" toml:"min_coverage"`
	MaxCoverage    float64 `yaml:"max_coverage" json:"max_coverage" toml:"max_coverage"`
	Tilt           float64 `yaml:"tilt" json:"tilt" toml:"tilt"`
	Thickness      float64 `yaml:"thickness" json:"thickness" toml:"thickness"`
	Color          string  `yaml:"color" json:"color" toml:"color"`
	SupportColor   string  `yaml:"support_color" json:"support_color" toml:"support_color"`
	SupportCount   int     `yaml:"support_count" json:"support_count" toml:"support_count"`
	SupportRadius  float64 `yaml:"support_radius" json:"support_radius" toml:"support_radius"`
	MinStrutLength float64 `yaml:"min_strut_length" json:"min_strut_length" toml:"min_strut_length"`
}

// DefaultIndividualParams returns a 15 m slab two meters above the stand,
// tilted 10 degrees, on two struts.
func DefaultIndividualParams() IndividualParams {
	return IndividualParams{
		HeightOffset:   2,
		Coverage:       15,
		CoverageFactor: 0.75,
		MinCoverage:    5,
		MaxCoverage:    40,
		Tilt:           math.Pi / 18,
		Thickness:      0.5,
		Color:          "#777777",
		SupportColor:   "#999999",
		SupportCount:   2,
		SupportRadius:  0.3,
		MinStrutLength: 0.1,
	}
}

// Coverage returns how far the slab reaches from the back of a stand with
// the given profile depth toward the field. An explicit coverage must fit
// the stand. Auto coverage is depth*factor clamped to [min, max]; the
// domain factor in (0,1], 0 < min <= max and min <= depth guarantees the
// result never exceeds the depth.
func Coverage(profileDepth float64, p IndividualParams) (float64, error) {
	if !(profileDepth > 0) {
		return 0, fmt.Errorf("%w: profile depth %v must be positive", ErrInvalidRoof, profileDepth)
	}
	if !p.AutoCoverage {
		switch {
		case !(p.Coverage > 0):
			return 0, fmt.Errorf("%w: coverage %v must be positive", ErrInvalidRoof, p.Coverage)
		case p.Coverage > profileDepth:
			return 0, fmt.Errorf("%w: coverage %v > depth %v", ErrCoverageExceedsDepth, p.Coverage, profileDepth)
		}
		return p.Coverage, nil
	}
	switch {
	case !(p.CoverageFactor > 0 && p.CoverageFactor <= 1):
		return 0, fmt.Errorf("%w: coverage factor %v outside (0, 1]", ErrInvalidRoof, p.CoverageFactor)
	case !(p.MinCoverage > 0):
		return 0, fmt.Errorf("%w: min coverage %v must be positive", ErrInvalidRoof, p.MinCoverage)
	case p.MinCoverage > p.MaxCoverage:
		return 0, fmt.Errorf("%w: min coverage %v > max coverage %v", ErrInvalidRoof, p.MinCoverage, p.MaxCoverage)
	case p.MinCoverage > profileDepth:
		return 0, fmt.Errorf("%w: min coverage %v > depth %v", ErrCoverageExceedsDepth, p.MinCoverage, profileDepth)
	}
	return math.Min(math.Max(profileDepth*p.CoverageFactor, p.MinCoverage), p.MaxCoverage), nil
}

// Strut is a cylindrical support from the ground to the slab underside, in
// stand-local coordinates.
type Strut struct {
	Index    int      `json:"index"`
	Base     geo.Vec3 `json:"base"`
	Attach   geo.Vec3 `json:"attach"`
	Mid      geo.Vec3 `json:"mid"`
	Length   float64  `json:"length"`
	Radius   float64  `json:"radius"`
	Rotation geo.Quat `json:"rotation"`
}

// OmittedStrut records a strut dropped for being shorter than the minimum.
type OmittedStrut struct {
	Index  int     `json:"index"`
	Length float64 `json:"length"`
}

// Individual is the roof slab over one stand, in the stand's local frame.
type Individual struct {
	Side         stand.Side     `json:"side"`
	StandName    string         `json:"stand_name"`
	Coverage     float64        `json:"coverage"`
	Thickness    float64        `json:"thickness"`
	Tilt         float64        `json:"tilt"`
	HeightOffset float64        `json:"height_offset"`
	Length       float64        `json:"length"`
	Center       geo.Vec3       `json:"center"`
	Rotation     geo.Quat       `json:"rotation"`
	Color        string         `json:"color"`
	SupportColor string         `json:"support_color"`
	Struts       []Strut        `json:"struts"`
	Omitted      []OmittedStrut `json:"omitted,omitempty"`
}

// SlabLocal maps a point in the slab frame (x across the coverage, y
// through the thickness, z along the stand from the slab centre) into the
// stand frame.
func (r *Individual) SlabLocal(p geo.Vec3) geo.Vec3 {
	return r.Rotation.Rotate(p).Add(r.Center)
}

// TopHeightAt returns the height of the slab's top surface at stand-local
// depth x. Depths beyond the slab are clamped to its edges.
func (r *Individual) TopHeightAt(x float64) float64 {
	c, s := math.Cos(r.Tilt), math.Sin(r.Tilt)
	half := r.Thickness / 2
	lo := r.Center.X - (r.Coverage/2)*c - half*s
	hi := r.Center.X + (r.Coverage/2)*c - half*s
	x = math.Min(math.Max(x, lo), hi)
	return r.Center.Y + half/c + math.Tan(r.Tilt)*(x-r.Center.X)
}

// StrutPositions returns the stand-local z of k struts along a stand of
// the given length: the middle for one, both ends inset by 10% for two,
// and evenly spaced between the insets for more.
func StrutPositions(k int, length float64) []float64 {
	switch {
	case k <= 0:
		return nil
	case k == 1:
		return []float64{length / 2}
	}
	first := length * strutInset
	span := length * (1 - 2*strutInset)
	zs := make([]float64, k)
	for i := range zs {
		zs[i] = first + span*float64(i)/float64(k-1)
	}
	return zs
}

// PlaceIndividual lays the slab over the back of in: its centre sits
// coverage/2 in front of the profile's back edge, thickness/2 above the
// stand top plus the height offset, and halfway along the stand. The slab
// is tilted about the stand's length axis. Struts rise from the ground at
// the back edge to the slab underside at the same length coordinate;
// struts shorter than MinStrutLength are omitted.
func PlaceIndividual(in *stand.Instance, p IndividualParams) (*Individual, error) {
	switch {
	case !(p.Thickness > 0):
		return nil, fmt.Errorf("%w: thickness %v must be positive", ErrInvalidRoof, p.Thickness)
	case !(math.Abs(p.Tilt) < math.Pi/2):
		return nil, fmt.Errorf("%w: tilt %v must be within (-pi/2, pi/2)", ErrInvalidRoof, p.Tilt)
	case p.SupportCount < 0:
		return nil, fmt.Errorf("%w: support count %d is negative", ErrInvalidRoof, p.SupportCount)
	case p.MinStrutLength < 0:
		return nil, fmt.Errorf("%w: min strut length %v is negative", ErrInvalidRoof, p.MinStrutLength)
	}
	cov, err := Coverage(in.TotalProfileDepth, p)
	if err != nil {
		return nil, err
	}

	r := &Individual{
		Side:         in.Side,
		StandName:    in.Name,
		Coverage:     cov,
		Thickness:    p.Thickness,
		Tilt:         p.Tilt,
		HeightOffset: p.HeightOffset,
		Length:       in.StandLength,
		Center: geo.V3(
			in.TotalProfileDepth-cov/2,
			in.TotalProfileHeightAtBack+p.HeightOffset+p.Thickness/2,
			in.StandLength/2,
		),
		Rotation:     geo.QuatFromAxisAngle(geo.AxisZ, p.Tilt),
		Color:        p.Color,
		SupportColor: p.SupportColor,
	}

	minLen := math.Max(p.MinStrutLength, geo.Epsilon)
	for i, z := range StrutPositions(p.SupportCount, in.StandLength) {
		base := geo.V3(in.TotalProfileDepth, 0, z)
		attach := r.SlabLocal(geo.V3(cov/2, -p.Thickness/2, z-r.Center.Z))
		v := attach.Sub(base)
		l := v.Length()
		if l < minLen {
			r.Omitted = append(r.Omitted, OmittedStrut{Index: i, Length: l})
			continue
		}
		r.Struts = append(r.Struts, Strut{
			Index:    i,
			Base:     base,
			Attach:   attach,
			Mid:      base.Lerp(attach, 0.5),
			Length:   l,
			Radius:   p.SupportRadius,
			Rotation: geo.QuatFromUnitVectors(geo.AxisY, v.Scale(1/l)),
		})
	}
	return r, nil
}

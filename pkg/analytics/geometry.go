package analytics

import (
	"math"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/roof"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/scene"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

// coverSamples is the number of depth samples used to measure roof cover.
const coverSamples = 50

func measureStands(st *scene.Stadium) []StandMetrics {
	out := make([]StandMetrics, 0, st.Stands.Len())
	for _, in := range st.Stands.All() {
		_, hi := in.Profile.Polygon().BoundingBox()
		sm := StandMetrics{
			Side:          in.Side.String(),
			Name:          in.Name,
			Rows:          in.Spec.Rows,
			Length:        in.StandLength,
			Depth:         hi.X,
			Height:        in.TotalProfileHeightAtBack,
			FootprintArea: hi.X * in.StandLength,
			Volume:        math.Abs(in.Solid.Volume()),
			RoofCover:     roofCover(st.Roof, in, hi.X),
		}
		if in.Spec.StepDepth > 0 {
			sm.RakeDegrees = math.Atan2(in.Spec.StepHeight, in.Spec.StepDepth) * 180 / math.Pi
		}
		out = append(out, sm)
	}
	return out
}

// roofArea returns the plan area of the roof.
func roofArea(p roof.Plan) float64 {
	switch p := p.(type) {
	case roof.IndividualPlan:
		a := 0.0
		for _, r := range p.Roofs {
			a += r.Coverage * r.Length
		}
		return a
	case roof.OverallPlan:
		a := p.Roof.Outer.Area()
		if !p.Roof.HoleOmitted {
			a -= p.Roof.Hole.Area()
		}
		return a
	}
	return 0
}

// roofCover returns the fraction of a stand's depth that lies under the
// roof, sampled along the stand's centre line.
func roofCover(p roof.Plan, in *stand.Instance, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	switch p := p.(type) {
	case roof.IndividualPlan:
		r, ok := p.ForSide(in.Side)
		if !ok {
			return 0
		}
		return math.Min(r.Coverage, depth) / depth
	case roof.OverallPlan:
		o := p.Roof
		toRoof := geo.NewTransform(o.Position, o.Rotation).Inverse()
		mid := in.StandLength / 2
		covered := 0
		for i := range coverSamples {
			x := depth * (float64(i) + 0.5) / coverSamples
			local := toRoof.Apply(in.LocalToWorld(geo.V3(x, 0, mid)))
			pt := geo.Pt(local.X, local.Y)
			if o.Outer.Contains(pt) && (o.HoleOmitted || !o.Hole.Contains(pt)) {
				covered++
			}
		}
		return float64(covered) / coverSamples
	}
	return 0
}

// siteExtent returns the plan size of everything that was built.
func siteExtent(st *scene.Stadium) (width, depth float64) {
	lo, hi := geo.V3(-st.Field.HalfLength(), 0, -st.Field.HalfWidth()), geo.V3(st.Field.HalfLength(), 0, st.Field.HalfWidth())
	grow := func(p geo.Vec3) {
		lo = geo.V3(math.Min(lo.X, p.X), 0, math.Min(lo.Z, p.Z))
		hi = geo.V3(math.Max(hi.X, p.X), 0, math.Max(hi.Z, p.Z))
	}
	for _, in := range st.Stands.All() {
		_, b := in.Profile.Polygon().BoundingBox()
		for _, c := range []geo.Vec3{geo.V3(0, 0, 0), geo.V3(b.X, 0, 0), geo.V3(b.X, 0, in.StandLength), geo.V3(0, 0, in.StandLength)} {
			grow(in.LocalToWorld(c))
		}
	}
	if st.Floodlights != nil {
		for _, t := range st.Floodlights.Towers {
			grow(t.Position)
		}
	}
	return hi.X - lo.X, hi.Z - lo.Z
}

// meanThrow is the average distance from a floodlight to its target.
func meanThrow(st *scene.Stadium) float64 {
	total, n := 0.0, 0
	for _, t := range st.Floodlights.Towers {
		for _, l := range t.Lights {
			total += l.Position.Distance(l.Target)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

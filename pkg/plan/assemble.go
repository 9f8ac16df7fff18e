// Package plan flattens a built stadium into a top-down 2D plan for an SVG
// viewer.
package plan

import (
	"fmt"
	"math"
	"time"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/roof"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/scene"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

// Assemble2D converts a built stadium into a 2D plan. Heights are dropped
// except as stand metadata; every solid is reduced to its ground footprint.
func Assemble2D(st *scene.Stadium) *Plan {
	p := &Plan{
		Metadata:   assembleMetadata(st),
		Field:      assembleField(st),
		Stands:     assembleStands(st.Stands),
		Roofs:      assembleRoofs(st.Roof, st.Stands),
		Hoardings:  assembleHoardings(st),
		Ribbons:    assembleRibbons(st),
		Scoreboard: assembleScoreboard(st),
		Towers:     assembleTowers(st),
	}
	p.Metadata.Extent = extent(p)
	return p
}

func xz(v geo.Vec3) [2]float64 {
	return [2]float64{v.X, v.Z}
}

func points(vs []geo.Point2D) [][2]float64 {
	out := make([][2]float64, len(vs))
	for i, v := range vs {
		out[i] = [2]float64{v.X, v.Y}
	}
	return out
}

func assembleMetadata(st *scene.Stadium) Metadata {
	m := Metadata{
		RoofType:    string(st.Roof.Mode()),
		StandCount:  st.Stands.Len(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if st.Surface != nil {
		m.PitchType = string(st.Surface.Kind)
	}
	if st.Floodlights != nil {
		m.LightCount = st.Floodlights.LightCount()
	}
	return m
}

func assembleField(st *scene.Stadium) Field2D {
	f := Field2D{
		Length:  st.Field.Length,
		Width:   st.Field.Width,
		Outline: points(st.Field.Footprint().Vertices),
	}
	if st.Surface == nil {
		return f
	}
	for _, s := range st.Surface.Stripes {
		f.Lines = append(f.Lines, stripe(s))
	}
	for _, r := range st.Surface.Rings {
		f.Circles = append(f.Circles, Polyline2D{ID: r.Name, Points: points(r.Outline().Vertices)})
	}
	for _, fx := range st.Surface.Fixtures {
		f.Fixtures = append(f.Fixtures, Box2D{
			ID:         fx.Name,
			Position:   xz(fx.Center),
			Dimensions: [2]float64{fx.Width, fx.Depth},
		})
	}
	return f
}

func stripe(s pitch.Stripe) Strip2D {
	half := geo.YawQuat(s.Yaw).Rotate(geo.AxisX).Scale(s.Length / 2)
	return Strip2D{
		ID:    s.Name,
		Start: xz(s.Center.Sub(half)),
		End:   xz(s.Center.Add(half)),
		Width: s.Width,
	}
}

func assembleStands(set *stand.Set) []Stand2D {
	stands := make([]Stand2D, 0, set.Len())
	for _, in := range set.All() {
		_, hi := in.Profile.Polygon().BoundingBox()
		d, l := hi.X, in.StandLength
		corners := []geo.Vec3{geo.V3(0, 0, 0), geo.V3(d, 0, 0), geo.V3(d, 0, l), geo.V3(0, 0, l)}
		fp := make([][2]float64, len(corners))
		for i, c := range corners {
			fp[i] = xz(in.LocalToWorld(c))
		}
		stands = append(stands, Stand2D{
			ID:        "stand-" + in.Side.String(),
			Name:      in.Name,
			Side:      in.Side.String(),
			Footprint: fp,
			Depth:     in.TotalProfileDepth,
			Height:    in.TotalProfileHeightAtBack,
			Rows:      in.Spec.Rows,
			Color:     in.Spec.Color,
		})
	}
	return stands
}

func assembleRoofs(plan roof.Plan, set *stand.Set) []Roof2D {
	switch p := plan.(type) {
	case roof.IndividualPlan:
		roofs := make([]Roof2D, 0, len(p.Roofs))
		for _, r := range p.Roofs {
			in, ok := set.BySide(r.Side)
			if !ok {
				continue
			}
			hc, hl := r.Coverage/2, r.Length/2
			rf := Roof2D{ID: "roof-" + r.Side.String()}
			for _, c := range [][2]float64{{-hc, -hl}, {hc, -hl}, {hc, hl}, {-hc, hl}} {
				rf.Outline = append(rf.Outline, xz(in.LocalToWorld(r.SlabLocal(geo.V3(c[0], 0, c[1])))))
			}
			for _, s := range r.Struts {
				rf.Struts = append(rf.Struts, xz(in.LocalToWorld(s.Base)))
			}
			roofs = append(roofs, rf)
		}
		return roofs
	case roof.OverallPlan:
		o := p.Roof
		t := geo.NewTransform(o.Position, o.Rotation)
		project := func(poly geo.Polygon) [][2]float64 {
			out := make([][2]float64, len(poly.Vertices))
			for i, v := range poly.Vertices {
				out[i] = xz(t.Apply(v.Vec3(0)))
			}
			return out
		}
		rf := Roof2D{ID: "roof", Outline: project(o.Outer)}
		if !o.HoleOmitted {
			rf.Hole = project(o.Hole)
		}
		for _, c := range o.Columns {
			rf.Columns = append(rf.Columns, xz(c.Position))
		}
		return []Roof2D{rf}
	}
	return []Roof2D{}
}

func assembleHoardings(st *scene.Stadium) []Strip2D {
	out := make([]Strip2D, 0, len(st.Hoardings))
	for _, h := range st.Hoardings {
		half := geo.YawQuat(h.Yaw).Rotate(geo.AxisX).Scale(h.Width / 2)
		out = append(out, Strip2D{
			ID:    h.Name,
			Start: xz(h.Position.Sub(half)),
			End:   xz(h.Position.Add(half)),
			Label: h.Appearance.Texture,
		})
	}
	return out
}

func assembleRibbons(st *scene.Stadium) []Strip2D {
	out := make([]Strip2D, 0, len(st.Ribbons))
	for i, rb := range st.Ribbons {
		in, ok := st.Stands.BySide(rb.Side)
		if !ok {
			continue
		}
		half := in.Transform.ApplyDir(geo.YawQuat(rb.Yaw).Rotate(geo.AxisX)).Scale(rb.Width / 2)
		out = append(out, Strip2D{
			ID:    fmt.Sprintf("ribbon-%d-%s", i, rb.Side),
			Start: xz(rb.World.Sub(half)),
			End:   xz(rb.World.Add(half)),
			Label: rb.Text,
		})
	}
	return out
}

func assembleScoreboard(st *scene.Stadium) *Marker2D {
	sb := st.Scoreboard
	if sb == nil {
		return nil
	}
	in, ok := st.Stands.BySide(sb.Side)
	if !ok {
		return nil
	}
	f := sb.Facing(in)
	n := math.Hypot(f.X, f.Z)
	return &Marker2D{
		ID:       "scoreboard",
		Position: xz(sb.World),
		Facing:   [2]float64{f.X / n, f.Z / n},
		Width:    sb.Frame.Size.X,
		Label:    sb.Content.Headline(),
	}
}

func assembleTowers(st *scene.Stadium) []Tower2D {
	if st.Floodlights == nil {
		return []Tower2D{}
	}
	towers := make([]Tower2D, 0, len(st.Floodlights.Towers))
	for _, t := range st.Floodlights.Towers {
		tw := Tower2D{ID: t.Name, Position: xz(t.Position), Lights: len(t.Lights)}
		for _, l := range t.Lights {
			tw.Aims = append(tw.Aims, xz(l.Target))
		}
		towers = append(towers, tw)
	}
	return towers
}

// extent returns the [min, max] corners of everything in the plan.
func extent(p *Plan) [2][2]float64 {
	lo := [2]float64{math.Inf(1), math.Inf(1)}
	hi := [2]float64{math.Inf(-1), math.Inf(-1)}
	grow := func(pts ...[2]float64) {
		for _, q := range pts {
			lo = [2]float64{math.Min(lo[0], q[0]), math.Min(lo[1], q[1])}
			hi = [2]float64{math.Max(hi[0], q[0]), math.Max(hi[1], q[1])}
		}
	}
	grow(p.Field.Outline...)
	for _, s := range p.Stands {
		grow(s.Footprint...)
	}
	for _, r := range p.Roofs {
		grow(r.Outline...)
	}
	for _, h := range p.Hoardings {
		grow(h.Start, h.End)
	}
	for _, t := range p.Towers {
		grow(t.Position)
	}
	return [2][2]float64{lo, hi}
}

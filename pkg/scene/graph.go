package scene

import (
	"fmt"
	"math"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/attach"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/floodlight"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/render"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/roof"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

const (
	pitchColor     = "#008000"
	lineColor      = "#ffffff"
	fixtureColor   = "#cccccc"
	lampColor      = "#ffffee"
	markingDepth   = 0.01
	cylinderDetail = 16
)

// flat turns an XY-plane shape to lie in the ground plane facing up.
var flat = geo.QuatFromAxisAngle(geo.AxisX, -math.Pi/2)

// Graph converts the stadium into a scene graph. Entities are listed
// parents first; stand parts are children of their stand group so they
// share its frame.
func (st *Stadium) Graph() *Graph {
	g := NewGraph()
	g.Metadata.SpecVersion = st.Spec.SpecVersion
	g.Metadata.RoofType = string(st.Roof.Mode())
	if st.Surface != nil {
		g.Metadata.PitchType = string(st.Surface.Kind)
		assemblePitch(g, *st.Surface)
	}

	for _, in := range st.Stands.All() {
		assembleStand(g, in)
	}
	assembleRoof(g, st.Roof, st.Stands)
	if st.Scoreboard != nil {
		assembleScoreboard(g, st.Scoreboard)
	}
	for _, h := range st.Hoardings {
		assembleHoarding(g, h)
	}
	for i, rb := range st.Ribbons {
		assembleRibbon(g, i, rb)
	}
	if st.Floodlights != nil {
		assembleFloodlights(g, *st.Floodlights)
	}

	g.Metadata.EntityCount = len(g.Entities)
	g.Metadata.LightCount = len(g.Lights)
	g.Metadata.Bounds = computeBounds(g)
	return g
}

// addEntity appends an entity under parent (empty for the scene root),
// resolves its world frame and updates all group indices.
func addEntity(g *Graph, parent string, e Entity, rot geo.Quat) {
	local := geo.NewTransform(e.Position, rot)
	e.world = local
	if parent != "" {
		p, ok := g.Entity(parent)
		if !ok {
			panic(fmt.Sprintf("scene: parent %q of %q not added", parent, e.ID))
		}
		e.Parent = parent
		e.world = p.world.Compose(local)
		if e.Stand == "" {
			e.Stand = p.Stand
		}
		p.Children = append(p.Children, e.ID)
	}
	e.Rotation = rot.Array()
	e.WorldPosition = e.world.Position

	g.Entities = append(g.Entities, e)
	g.index[e.ID] = len(g.Entities) - 1
	g.Groups.EntityTypes[e.Type] = append(g.Groups.EntityTypes[e.Type], e.ID)
	if e.Stand != "" {
		g.Groups.Stands[e.Stand] = append(g.Groups.Stands[e.Stand], e.ID)
	}
}

func look(a render.Appearance) *render.Appearance {
	return &a
}

func assemblePitch(g *Graph, s pitch.Surface) {
	f := s.Field
	surface := render.Solid(pitchColor)
	surface.DoubleSided = true
	addEntity(g, "", Entity{
		ID:         "pitch",
		Type:       EntityPitch,
		Primitive:  PrimitivePlane,
		Dimensions: geo.V3(f.Length, f.Width, 0),
		Appearance: look(surface),
		Mesh:       geo.Plane(f.Length, f.Width),
		Metadata:   map[string]any{"kind": string(s.Kind)},
	}, flat)

	line := render.Solid(lineColor)
	line.DoubleSided = true
	for _, m := range s.Stripes {
		addEntity(g, "", Entity{
			ID:         "marking-" + m.Name,
			Type:       EntityMarking,
			Primitive:  PrimitivePlane,
			Position:   m.Center,
			Dimensions: geo.V3(m.Length, m.Width, 0),
			Appearance: look(line),
			Mesh:       geo.Plane(m.Length, m.Width),
		}, geo.YawQuat(m.Yaw).Mul(flat))
	}
	for _, ring := range s.Rings {
		half := ring.Width / 2
		c := geo.Pt(0, 0)
		outer := geo.ApproximateEllipse(c, ring.RadiusX+half, ring.RadiusZ+half, ring.Segments)
		inner := geo.ApproximateEllipse(c, ring.RadiusX-half, ring.RadiusZ-half, ring.Segments)
		mesh, err := geo.ExtrudeRing(outer, inner, markingDepth)
		if err != nil {
			continue
		}
		addEntity(g, "", Entity{
			ID:         "marking-" + ring.Name,
			Type:       EntityMarking,
			Primitive:  PrimitiveRing,
			Position:   ring.Center.Add(geo.V3(0, -markingDepth, 0)),
			Dimensions: geo.V3(2*ring.RadiusX+ring.Width, 2*ring.RadiusZ+ring.Width, markingDepth),
			Appearance: look(line),
			Shape:      &Shape{Outline: outer.Vertices, Hole: inner.Vertices, Depth: markingDepth},
			Mesh:       mesh,
		}, flat)
	}
	for _, fx := range s.Fixtures {
		addEntity(g, "", Entity{
			ID:         "fixture-" + fx.Name,
			Type:       EntityFixture,
			Primitive:  PrimitiveBox,
			Position:   fx.Center,
			Dimensions: geo.V3(fx.Width, fx.Height, fx.Depth),
			Appearance: look(render.Solid(fixtureColor)),
			Mesh:       geo.Box(fx.Width, fx.Height, fx.Depth),
		}, geo.Identity)
	}
}

func standGroupID(side stand.Side) string {
	return "stand-" + side.String()
}

func assembleStand(g *Graph, in *stand.Instance) {
	group := standGroupID(in.Side)
	addEntity(g, "", Entity{
		ID:        group,
		Name:      in.Name,
		Type:      EntityStandGroup,
		Primitive: PrimitiveGroup,
		Stand:     in.Side.String(),
		Position:  in.Transform.Position,
		Metadata: map[string]any{
			"stand_length":                 in.StandLength,
			"total_profile_depth":          in.TotalProfileDepth,
			"total_profile_height_at_back": in.TotalProfileHeightAtBack,
		},
	}, in.Transform.Rotation)

	addEntity(g, group, Entity{
		ID:         group + "-solid",
		Type:       EntityStand,
		Primitive:  PrimitiveExtrusion,
		Dimensions: geo.V3(in.TotalProfileDepth, in.TotalProfileHeightAtBack, in.StandLength),
		Appearance: look(render.Solid(in.Spec.Color)),
		Shape:      &Shape{Outline: in.Profile.Polygon().Vertices, Depth: in.StandLength},
		Mesh:       in.Solid,
		Metadata:   map[string]any{"rows": in.Spec.Rows},
	}, geo.Identity)
}

func assembleRoof(g *Graph, plan roof.Plan, set *stand.Set) {
	switch p := plan.(type) {
	case roof.IndividualPlan:
		for _, r := range p.Roofs {
			assembleIndividualRoof(g, r)
		}
	case roof.OverallPlan:
		assembleOverallRoof(g, p.Roof)
	}
}

func assembleIndividualRoof(g *Graph, r *roof.Individual) {
	group := standGroupID(r.Side)
	id := "roof-" + r.Side.String()
	slab := render.Solid(r.Color)
	slab.DoubleSided = true
	addEntity(g, group, Entity{
		ID:         id,
		Type:       EntityRoofSlab,
		Primitive:  PrimitiveBox,
		Position:   r.Center,
		Dimensions: geo.V3(r.Coverage, r.Thickness, r.Length),
		Appearance: look(slab),
		Mesh:       geo.Box(r.Coverage, r.Thickness, r.Length),
		Metadata:   map[string]any{"tilt": r.Tilt, "coverage": r.Coverage},
	}, r.Rotation)

	support := render.Solid(r.SupportColor)
	for _, s := range r.Struts {
		addEntity(g, group, Entity{
			ID:         fmt.Sprintf("%s-strut-%d", id, s.Index),
			Type:       EntityStrut,
			Primitive:  PrimitiveCylinder,
			Position:   s.Mid,
			Dimensions: geo.V3(2*s.Radius, s.Length, 2*s.Radius),
			Appearance: look(support),
			Mesh:       geo.Cylinder(s.Radius, s.Radius, s.Length, cylinderDetail),
		}, s.Rotation)
	}
}

func assembleOverallRoof(g *Graph, o roof.Overall) {
	lo, hi := o.Outer.BoundingBox()
	shape := &Shape{Outline: o.Outer.Vertices, Depth: o.Thickness}
	prim := PrimitiveExtrusion
	if !o.HoleOmitted {
		shape.Hole = o.Hole.Vertices
		prim = PrimitiveRing
	}
	slab := render.Solid(o.Color)
	slab.DoubleSided = true
	addEntity(g, "", Entity{
		ID:         "roof",
		Type:       EntityRoofRing,
		Primitive:  prim,
		Position:   o.Position,
		Dimensions: geo.V3(hi.X-lo.X, hi.Y-lo.Y, o.Thickness),
		Appearance: look(slab),
		Shape:      shape,
		Mesh:       o.Solid,
		Metadata:   map[string]any{"margin": o.Margin, "bottom": o.Bottom},
	}, o.Rotation)

	support := render.Solid(o.SupportColor)
	for i, c := range o.Columns {
		addEntity(g, "", Entity{
			ID:         fmt.Sprintf("roof-column-%d", i),
			Type:       EntityColumn,
			Primitive:  PrimitiveCylinder,
			Position:   c.Position,
			Dimensions: geo.V3(2*c.Radius, c.Height, 2*c.Radius),
			Appearance: look(support),
			Mesh:       geo.Cylinder(c.Radius, c.Radius, c.Height, cylinderDetail),
		}, geo.Identity)
	}
}

func assembleScoreboard(g *Graph, sb *attach.Scoreboard) {
	const id = "scoreboard"
	totalH := sb.Frame.Size.Y
	supportH := 0.0
	if len(sb.Supports) > 0 {
		supportH = sb.Supports[0].Height
	}
	addEntity(g, standGroupID(sb.Side), Entity{
		ID:         id,
		Type:       EntityScoreboard,
		Primitive:  PrimitiveGroup,
		Position:   sb.Local,
		Dimensions: geo.V3(sb.Frame.Size.X, totalH+supportH, sb.Frame.Size.Z),
		Metadata: map[string]any{
			"headline":       sb.Content.Headline(),
			"inherited_tilt": sb.InheritedTilt,
			"on_roof":        sb.OnRoof,
		},
	}, sb.Rotation.Quat())

	addEntity(g, id, Entity{
		ID:         id + "-frame",
		Type:       EntityFrame,
		Primitive:  PrimitiveBox,
		Position:   sb.Frame.Offset,
		Dimensions: sb.Frame.Size,
		Appearance: look(sb.Frame.Appearance),
		Mesh:       geo.Box(sb.Frame.Size.X, sb.Frame.Size.Y, sb.Frame.Size.Z),
	}, geo.Identity)
	addEntity(g, id, Entity{
		ID:         id + "-screen",
		Type:       EntityScreen,
		Primitive:  PrimitivePlane,
		Position:   sb.Screen.Offset,
		Dimensions: sb.Screen.Size,
		Appearance: look(sb.Screen.Appearance),
		Mesh:       geo.Plane(sb.Screen.Size.X, sb.Screen.Size.Y),
		Metadata:   map[string]any{"text": sb.Content.Headline()},
	}, geo.Identity)
	for i, s := range sb.Supports {
		addEntity(g, id, Entity{
			ID:         fmt.Sprintf("%s-support-%d", id, i),
			Type:       EntitySupport,
			Primitive:  PrimitiveCylinder,
			Position:   s.Offset,
			Dimensions: geo.V3(2*s.Radius, s.Height, 2*s.Radius),
			Appearance: look(s.Appearance),
			Mesh:       geo.Cylinder(s.Radius, s.Radius, s.Height, cylinderDetail),
		}, geo.Identity)
	}
}

func assembleHoarding(g *Graph, h attach.Hoarding) {
	addEntity(g, "", Entity{
		ID:         h.Name,
		Type:       EntityHoarding,
		Primitive:  PrimitivePlane,
		Position:   h.Position,
		Dimensions: geo.V3(h.Width, h.Height, 0),
		Appearance: look(h.Appearance),
		Mesh:       geo.Plane(h.Width, h.Height),
		Metadata:   map[string]any{"repeat": h.Repeat},
	}, geo.YawQuat(h.Yaw))
}

func assembleRibbon(g *Graph, i int, rb attach.Ribbon) {
	addEntity(g, standGroupID(rb.Side), Entity{
		ID:         fmt.Sprintf("ribbon-%d-%s", i, rb.Side),
		Type:       EntityRibbon,
		Primitive:  PrimitivePlane,
		Position:   rb.Local,
		Dimensions: geo.V3(rb.Width, rb.Height, 0),
		Appearance: look(rb.Appearance),
		Mesh:       geo.Plane(rb.Width, rb.Height),
		Metadata:   map[string]any{"text": rb.Text, "request": rb.Request},
	}, geo.YawQuat(rb.Yaw))
}

// lampAxis lays the lamp cylinder along +Z, the direction LookRotation aims.
var lampAxis = geo.NewTransform(geo.Vec3{}, geo.QuatFromAxisAngle(geo.AxisX, math.Pi/2))

func assembleFloodlights(g *Graph, a floodlight.Array) {
	for _, t := range a.Towers {
		pole := render.Solid(t.Color)
		pole.Metalness = 0.6
		pole.Roughness = 0.4
		addEntity(g, "", Entity{
			ID:         t.Name,
			Type:       EntityTower,
			Primitive:  PrimitiveGroup,
			Position:   t.Position,
			Dimensions: geo.V3(t.HousingWidth, t.Height, floodlight.HousingDepth),
			Metadata:   map[string]any{"lights": len(t.Lights)},
		}, t.Head.Rotation)

		addEntity(g, t.Name, Entity{
			ID:         t.Name + "-pole",
			Type:       EntityPole,
			Primitive:  PrimitiveCylinder,
			Position:   geo.V3(0, t.Height/2, 0),
			Dimensions: geo.V3(2*floodlight.PoleRadiusBottom, t.Height, 2*floodlight.PoleRadiusBottom),
			Appearance: look(pole),
			Mesh:       geo.Cylinder(floodlight.PoleRadiusTop, floodlight.PoleRadiusBottom, t.Height, cylinderDetail),
		}, geo.Identity)
		addEntity(g, t.Name, Entity{
			ID:         t.Name + "-housing",
			Type:       EntityHousing,
			Primitive:  PrimitiveBox,
			Position:   t.HousingLocal,
			Dimensions: geo.V3(t.HousingWidth, floodlight.HousingHeight, floodlight.HousingDepth),
			Appearance: look(pole),
			Mesh:       geo.Box(t.HousingWidth, floodlight.HousingHeight, floodlight.HousingDepth),
		}, geo.Identity)

		headInv := t.Head.Rotation.Conjugate()
		lamp := render.Glowing(lampColor, 1)
		lampMesh := geo.Cylinder(floodlight.LampRadius, floodlight.LampRadiusBottom, floodlight.LampLength, cylinderDetail).Transformed(lampAxis)
		for _, l := range t.Lights {
			addEntity(g, t.Name, Entity{
				ID:         fmt.Sprintf("%s-lamp-%d", t.Name, l.Index),
				Type:       EntityLamp,
				Primitive:  PrimitiveCylinder,
				Position:   t.Head.ToLocal(l.Lamp.Position),
				Dimensions: geo.V3(2*l.Lamp.RadiusTop, 2*l.Lamp.RadiusTop, l.Lamp.Length),
				Appearance: look(lamp),
				Mesh:       lampMesh,
			}, headInv.Mul(l.Lamp.Rotation).Normalize())

			g.Lights = append(g.Lights, Light{
				ID:        fmt.Sprintf("%s-light-%d", t.Name, l.Index),
				Tower:     t.Name,
				Position:  l.Position,
				Target:    l.Target,
				Color:     l.Spot.Color,
				Intensity: l.Spot.Intensity,
				Distance:  l.Spot.Distance,
				Angle:     l.Spot.Angle,
				Penumbra:  l.Spot.Penumbra,
				Decay:     l.Spot.Decay,
				Helper:    a.ShowHelpers,
			})
		}
	}
}

// computeBounds calculates the AABB of every entity mesh and light in
// world space.
func computeBounds(g *Graph) BoundingBox {
	minV := geo.V3(math.MaxFloat64, math.MaxFloat64, math.MaxFloat64)
	maxV := geo.V3(-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64)
	empty := true
	grow := func(p geo.Vec3) {
		empty = false
		minV = geo.V3(math.Min(minV.X, p.X), math.Min(minV.Y, p.Y), math.Min(minV.Z, p.Z))
		maxV = geo.V3(math.Max(maxV.X, p.X), math.Max(maxV.Y, p.Y), math.Max(maxV.Z, p.Z))
	}
	for i := range g.Entities {
		e := &g.Entities[i]
		for _, p := range e.Mesh.Positions {
			grow(e.world.Apply(p))
		}
	}
	for _, l := range g.Lights {
		grow(l.Position)
	}
	if empty {
		return BoundingBox{}
	}
	return BoundingBox{Min: minV, Max: maxV}
}

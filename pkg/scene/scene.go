package scene

import (
	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/render"
)

// EntityType identifies the kind of entity.
type EntityType string

const (
	EntityPitch      EntityType = "pitch"
	EntityMarking    EntityType = "marking"
	EntityFixture    EntityType = "fixture"
	EntityStandGroup EntityType = "stand_group"
	EntityStand      EntityType = "stand"
	EntityRoofSlab   EntityType = "roof_slab"
	EntityRoofRing   EntityType = "roof_ring"
	EntityStrut      EntityType = "strut"
	EntityColumn     EntityType = "column"
	EntityScoreboard EntityType = "scoreboard"
	EntityFrame      EntityType = "scoreboard_frame"
	EntityScreen     EntityType = "scoreboard_screen"
	EntitySupport    EntityType = "scoreboard_support"
	EntityHoarding   EntityType = "hoarding"
	EntityRibbon     EntityType = "ribbon"
	EntityTower      EntityType = "tower"
	EntityPole       EntityType = "tower_pole"
	EntityHousing    EntityType = "tower_housing"
	EntityLamp       EntityType = "lamp"
)

// Primitive names the geometry an entity is drawn with.
type Primitive string

const (
	// PrimitiveGroup has no geometry of its own.
	PrimitiveGroup Primitive = "group"
	// PrimitiveExtrusion is Shape.Outline extruded along local +Z by Shape.Depth.
	PrimitiveExtrusion Primitive = "extrusion"
	// PrimitiveRing is the area between Shape.Outline and Shape.Hole extruded by Shape.Depth.
	PrimitiveRing     Primitive = "ring"
	PrimitiveBox      Primitive = "box"
	PrimitivePlane    Primitive = "plane"
	PrimitiveCylinder Primitive = "cylinder"
)

// BoundingBox defines an axis-aligned bounding box.
type BoundingBox struct {
	Min geo.Vec3 `json:"min"`
	Max geo.Vec3 `json:"max"`
}

// Size returns the extent of the box along each axis.
func (b BoundingBox) Size() geo.Vec3 {
	return b.Max.Sub(b.Min)
}

// Shape carries the 2D outline of extruded entities so a viewer can rebuild
// their geometry.
type Shape struct {
	Outline []geo.Point2D `json:"outline"`
	Hole    []geo.Point2D `json:"hole,omitempty"`
	Depth   float64       `json:"depth"`
}

// Entity is a single element in the scene graph. Position and Rotation are
// relative to Parent; WorldPosition is the entity origin in world space.
type Entity struct {
	ID            string             `json:"id"`
	Name          string             `json:"name,omitempty"`
	Type          EntityType         `json:"type"`
	Primitive     Primitive          `json:"primitive"`
	Parent        string             `json:"parent,omitempty"`
	Children      []string           `json:"children,omitempty"`
	Stand         string             `json:"stand,omitempty"`
	Position      geo.Vec3           `json:"position"`
	WorldPosition geo.Vec3           `json:"world_position"`
	Rotation      [4]float64         `json:"rotation"` // quaternion [x, y, z, w]
	Dimensions    geo.Vec3           `json:"dimensions"`
	Appearance    *render.Appearance `json:"appearance,omitempty"`
	Shape         *Shape             `json:"shape,omitempty"`
	Metadata      map[string]any     `json:"metadata,omitempty"`
	Mesh          geo.Mesh           `json:"-"`

	world geo.Transform
}

// World returns the entity's frame in world space.
func (e *Entity) World() geo.Transform {
	return e.world
}

// Light is a spot light aimed at a target point.
type Light struct {
	ID        string   `json:"id"`
	Tower     string   `json:"tower"`
	Position  geo.Vec3 `json:"position"`
	Target    geo.Vec3 `json:"target"`
	Color     string   `json:"color"`
	Intensity float64  `json:"intensity"`
	Distance  float64  `json:"distance"`
	Angle     float64  `json:"angle"`
	Penumbra  float64  `json:"penumbra"`
	Decay     float64  `json:"decay"`
	Helper    bool     `json:"helper,omitempty"`
}

// Graph is the complete scene graph of one build.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
	Lights   []Light  `json:"lights"`
	Groups   Groups   `json:"groups"`

	index map[string]int
}

// Metadata holds scene-level information.
type Metadata struct {
	SpecVersion string      `json:"spec_version"`
	GeneratedAt string      `json:"generated_at"`
	RoofType    string      `json:"roof_type"`
	PitchType   string      `json:"pitch_type"`
	EntityCount int         `json:"entity_count"`
	LightCount  int         `json:"light_count"`
	Bounds      BoundingBox `json:"bounds"`
}

// Groups organizes entity IDs by various axes for fast filtering.
type Groups struct {
	EntityTypes map[EntityType][]string `json:"entity_types"`
	Stands      map[string][]string     `json:"stands"`
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{
		Entities: []Entity{},
		Lights:   []Light{},
		Groups: Groups{
			EntityTypes: make(map[EntityType][]string),
			Stands:      make(map[string][]string),
		},
		index: make(map[string]int),
	}
}

// Entity returns the entity with id.
func (g *Graph) Entity(id string) (*Entity, bool) {
	if len(g.index) != len(g.Entities) {
		g.reindex()
	}
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.Entities[i], true
}

// ByType returns the entities of type t in insertion order.
func (g *Graph) ByType(t EntityType) []*Entity {
	var out []*Entity
	for _, id := range g.Groups.EntityTypes[t] {
		if e, ok := g.Entity(id); ok {
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) reindex() {
	g.index = make(map[string]int, len(g.Entities))
	for i, e := range g.Entities {
		g.index[e.ID] = i
	}
}

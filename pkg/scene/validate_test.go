package scene

import (
	"testing"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
)

func validGraph() *Graph {
	g := NewGraph()
	g.Entities = []Entity{
		{
			ID:        "stand-east",
			Type:      EntityStandGroup,
			Primitive: PrimitiveGroup,
			Stand:     "east",
			Position:  geo.V3(50, 0, 37),
			Rotation:  [4]float64{0, 0, 0, 1},
			Children:  []string{"stand-east-solid"},
		},
		{
			ID:            "stand-east-solid",
			Type:          EntityStand,
			Primitive:     PrimitiveExtrusion,
			Parent:        "stand-east",
			Stand:         "east",
			WorldPosition: geo.V3(50, 0, 37),
			Dimensions:    geo.V3(18, 12, 100),
			Rotation:      [4]float64{0, 0, 0, 1},
		},
		{
			ID:            "hoarding-north",
			Type:          EntityHoarding,
			Primitive:     PrimitivePlane,
			WorldPosition: geo.V3(53, 0.5, 0),
			Dimensions:    geo.V3(64, 1, 0),
			Rotation:      [4]float64{0, 0, 0, 1},
		},
	}
	g.Groups.EntityTypes[EntityStandGroup] = []string{"stand-east"}
	g.Groups.EntityTypes[EntityStand] = []string{"stand-east-solid"}
	g.Groups.EntityTypes[EntityHoarding] = []string{"hoarding-north"}
	g.Groups.Stands["east"] = []string{"stand-east", "stand-east-solid"}
	g.Metadata = Metadata{
		SpecVersion: "0.1.0",
		Bounds: BoundingBox{
			Min: geo.V3(-100, 0, -100),
			Max: geo.V3(100, 50, 100),
		},
	}
	return g
}

func TestValidateGraph_Valid(t *testing.T) {
	r := ValidateGraph(validGraph())
	if !r.Valid {
		t.Errorf("expected valid, got %d errors", len(r.Errors))
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", r.Warnings)
	}
}

func TestValidateGraph_Nil(t *testing.T) {
	r := ValidateGraph(nil)
	if r.Valid {
		t.Error("expected invalid for nil graph")
	}
}

func TestValidateGraph_DuplicateID(t *testing.T) {
	g := validGraph()
	dup := g.Entities[2]
	g.Entities = append(g.Entities, dup)
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for duplicate ID")
	}
}

func TestValidateGraph_OrphanedGroupReference(t *testing.T) {
	g := validGraph()
	g.Groups.Stands["east"] = append(g.Groups.Stands["east"], "nonexistent")
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for orphaned group reference")
	}
}

func TestValidateGraph_MissingGroupMembership(t *testing.T) {
	g := validGraph()
	g.Groups.EntityTypes[EntityStand] = []string{}
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for missing group membership")
	}
}

func TestValidateGraph_BrokenParentLink(t *testing.T) {
	g := validGraph()
	g.Entities[0].Children = nil
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid when the parent does not list its child")
	}

	g = validGraph()
	g.Entities[1].Parent = "stand-west"
	if ValidateGraph(g).Valid {
		t.Error("expected invalid for missing parent")
	}
}

func TestValidateGraph_EmptyID(t *testing.T) {
	g := validGraph()
	g.Entities = append(g.Entities, Entity{
		ID:         "",
		Type:       EntityMarking,
		Primitive:  PrimitivePlane,
		Dimensions: geo.V3(2, 0.1, 0),
		Rotation:   [4]float64{0, 0, 0, 1},
	})
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for empty ID")
	}
}

func TestValidateGraph_ZeroDimensionWarning(t *testing.T) {
	g := validGraph()
	g.Entities[1].Dimensions.Y = 0
	r := ValidateGraph(g)
	if len(r.Warnings) == 0 {
		t.Error("expected warning for zero dimension")
	}
}

func TestValidateGraph_NonUnitRotation(t *testing.T) {
	g := validGraph()
	g.Entities[2].Rotation = [4]float64{0, 0, 0, 2}
	if ValidateGraph(g).Valid {
		t.Error("expected invalid for non-unit rotation")
	}
}

func TestValidateGraph_OutOfBounds(t *testing.T) {
	g := validGraph()
	g.Entities[2].WorldPosition.X = 500
	r := ValidateGraph(g)
	if len(r.Warnings) == 0 {
		t.Error("expected warning for entity outside bounds")
	}
}

func TestValidateGraph_RealGraph(t *testing.T) {
	g := assembleTestGraph(t)
	r := ValidateGraph(g)
	if !r.Valid {
		t.Errorf("real graph validation failed: %d errors", len(r.Errors))
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
	if len(r.Warnings) != 0 {
		t.Errorf("real graph has warnings: %v", r.Warnings)
	}
	t.Logf("validated %d entities: %s", len(g.Entities), r.Summary)
}

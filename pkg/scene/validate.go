package scene

import (
	"fmt"
	"math"
	"slices"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/validation"
)

// ValidateGraph performs structural validation on a scene graph output.
// It checks entity integrity, parent links, group index consistency,
// bounds enclosure and entity dimensions.
func ValidateGraph(g *Graph) *validation.Report {
	r := validation.NewReport()

	if g == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelPlacement,
			Message: "scene graph is nil",
		})
		return r
	}

	validateEntityIDs(g, r)
	validateHierarchy(g, r)
	validateGroupIndices(g, r)
	validateGroupMembership(g, r)
	validateBoundsEnclosure(g, r)
	validateEntityDimensions(g, r)
	validateRotations(g, r)

	return r
}

func validateEntityIDs(g *Graph, r *validation.Report) {
	seen := make(map[string]int, len(g.Entities))

	for i, e := range g.Entities {
		if e.ID == "" {
			r.AddError(validation.Result{
				Level:       validation.LevelPlacement,
				Message:     fmt.Sprintf("entity at index %d has empty ID", i),
				SpecPath:    fmt.Sprintf("entities[%d].id", i),
				ActualValue: "",
				Expected:    "non-empty string",
			})
			continue
		}
		if prev, exists := seen[e.ID]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelPlacement,
				Message:     fmt.Sprintf("duplicate entity ID %q at indices %d and %d", e.ID, prev, i),
				SpecPath:    fmt.Sprintf("entities[%d].id", i),
				ActualValue: e.ID,
			})
		}
		seen[e.ID] = i
	}
}

func validateHierarchy(g *Graph, r *validation.Report) {
	byID := make(map[string]*Entity, len(g.Entities))
	for i := range g.Entities {
		byID[g.Entities[i].ID] = &g.Entities[i]
	}

	for _, e := range g.Entities {
		if e.Parent != "" {
			p, ok := byID[e.Parent]
			if !ok {
				r.AddError(validation.Result{
					Level:       validation.LevelPlacement,
					Message:     fmt.Sprintf("entity %q has non-existent parent %q", e.ID, e.Parent),
					SpecPath:    fmt.Sprintf("entities.%s.parent", e.ID),
					ActualValue: e.Parent,
				})
			} else if !slices.Contains(p.Children, e.ID) {
				r.AddError(validation.Result{
					Level:       validation.LevelPlacement,
					Message:     fmt.Sprintf("entity %q is not listed among the children of its parent %q", e.ID, e.Parent),
					SpecPath:    fmt.Sprintf("entities.%s.children", e.Parent),
					ActualValue: e.ID,
				})
			}
		}
		for _, c := range e.Children {
			child, ok := byID[c]
			if !ok || child.Parent != e.ID {
				r.AddError(validation.Result{
					Level:       validation.LevelPlacement,
					Message:     fmt.Sprintf("entity %q lists child %q that does not name it as parent", e.ID, c),
					SpecPath:    fmt.Sprintf("entities.%s.children", e.ID),
					ActualValue: c,
				})
			}
		}
	}
}

func validateGroupIndices(g *Graph, r *validation.Report) {
	entityIDs := make(map[string]bool, len(g.Entities))
	for _, e := range g.Entities {
		entityIDs[e.ID] = true
	}

	checkGroup := func(groupType, groupName string, ids []string) {
		for _, id := range ids {
			if !entityIDs[id] {
				r.AddError(validation.Result{
					Level:       validation.LevelPlacement,
					Message:     fmt.Sprintf("group %s.%s references non-existent entity %q", groupType, groupName, id),
					SpecPath:    fmt.Sprintf("groups.%s.%s", groupType, groupName),
					ActualValue: id,
					Expected:    "existing entity ID",
				})
			}
		}
	}

	for name, ids := range g.Groups.EntityTypes {
		checkGroup("entity_types", string(name), ids)
	}
	for name, ids := range g.Groups.Stands {
		checkGroup("stands", name, ids)
	}
}

func validateGroupMembership(g *Graph, r *validation.Report) {
	typeMembers := make(map[string]map[string]bool)
	for et, ids := range g.Groups.EntityTypes {
		typeMembers[string(et)] = set(ids)
	}
	standMembers := make(map[string]map[string]bool)
	for s, ids := range g.Groups.Stands {
		standMembers[s] = set(ids)
	}

	for _, e := range g.Entities {
		if e.ID == "" {
			continue
		}

		if tm, ok := typeMembers[string(e.Type)]; ok {
			if !tm[e.ID] {
				r.AddError(validation.Result{
					Level:       validation.LevelPlacement,
					Message:     fmt.Sprintf("entity %q has type %q but is not in entity_types group", e.ID, e.Type),
					SpecPath:    fmt.Sprintf("groups.entity_types.%s", e.Type),
					ActualValue: e.ID,
				})
			}
		} else if e.Type != "" {
			r.AddError(validation.Result{
				Level:       validation.LevelPlacement,
				Message:     fmt.Sprintf("entity %q has type %q but no such entity_types group exists", e.ID, e.Type),
				SpecPath:    "groups.entity_types",
				ActualValue: string(e.Type),
			})
		}

		// Check stand group (optional field)
		if e.Stand != "" {
			if sm, ok := standMembers[e.Stand]; !ok || !sm[e.ID] {
				r.AddError(validation.Result{
					Level:       validation.LevelPlacement,
					Message:     fmt.Sprintf("entity %q belongs to stand %q but is not in its stands group", e.ID, e.Stand),
					SpecPath:    fmt.Sprintf("groups.stands.%s", e.Stand),
					ActualValue: e.ID,
				})
			}
		}
	}
}

func validateBoundsEnclosure(g *Graph, r *validation.Report) {
	bounds := g.Metadata.Bounds
	tolerance := 1.0
	outside := func(p geo.Vec3) bool {
		return p.X < bounds.Min.X-tolerance || p.X > bounds.Max.X+tolerance ||
			p.Y < bounds.Min.Y-tolerance || p.Y > bounds.Max.Y+tolerance ||
			p.Z < bounds.Min.Z-tolerance || p.Z > bounds.Max.Z+tolerance
	}

	for _, e := range g.Entities {
		if e.Primitive == PrimitiveGroup {
			continue
		}
		if outside(e.WorldPosition) {
			r.AddWarning(validation.Result{
				Level:       validation.LevelPlacement,
				Message:     fmt.Sprintf("entity %q at (%.1f, %.1f, %.1f) outside scene bounds", e.ID, e.WorldPosition.X, e.WorldPosition.Y, e.WorldPosition.Z),
				SpecPath:    "metadata.bounds",
				ActualValue: e.WorldPosition,
			})
			break
		}
	}
	for _, l := range g.Lights {
		if outside(l.Position) {
			r.AddWarning(validation.Result{
				Level:       validation.LevelPlacement,
				Message:     fmt.Sprintf("light %q outside scene bounds", l.ID),
				SpecPath:    "metadata.bounds",
				ActualValue: l.Position,
			})
			break
		}
	}
}

func validateEntityDimensions(g *Graph, r *validation.Report) {
	for _, e := range g.Entities {
		if e.Primitive == PrimitiveGroup {
			continue
		}
		d := e.Dimensions
		ok := d.X > 0 && d.Y > 0 && d.Z > 0
		if e.Primitive == PrimitivePlane {
			ok = d.X > 0 && d.Y > 0 && d.Z == 0
		}
		if !ok {
			r.AddWarning(validation.Result{
				Level:       validation.LevelPlacement,
				Message:     fmt.Sprintf("entity %q has degenerate dimensions (%.2f, %.2f, %.2f)", e.ID, d.X, d.Y, d.Z),
				SpecPath:    fmt.Sprintf("entities.%s.dimensions", e.ID),
				ActualValue: fmt.Sprintf("%.2f x %.2f x %.2f", d.X, d.Y, d.Z),
				Expected:    "all dimensions > 0 (planes: width and height > 0, depth 0)",
			})
		}
	}
}

func validateRotations(g *Graph, r *validation.Report) {
	for _, e := range g.Entities {
		q := e.Rotation
		n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
		if math.IsNaN(n) || math.Abs(n-1) > 1e-6 {
			r.AddError(validation.Result{
				Level:       validation.LevelPlacement,
				Message:     fmt.Sprintf("entity %q rotation is not a unit quaternion (|q| = %.6f)", e.ID, n),
				SpecPath:    fmt.Sprintf("entities.%s.rotation", e.ID),
				ActualValue: q,
			})
		}
	}
}

func set(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

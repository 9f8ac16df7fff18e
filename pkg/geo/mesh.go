package geo

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerate is returned when a shape cannot be turned into a solid.
var ErrDegenerate = errors.New("degenerate shape")

// Mesh is an indexed triangle mesh. Triangles are wound counterclockwise
// when seen from outside the solid.
type Mesh struct {
	Positions []Vec3   `json:"positions"`
	Indices   []uint32 `json:"indices"`
}

// TriangleCount returns the number of triangles.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the axis-aligned bounds of the mesh as (min, max).
func (m Mesh) Bounds() (Vec3, Vec3) {
	if len(m.Positions) == 0 {
		return Vec3{}, Vec3{}
	}
	lo, hi := m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		lo = Vec3{math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z)}
		hi = Vec3{math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z)}
	}
	return lo, hi
}

// Volume returns the enclosed volume of a closed, outward-wound mesh.
func (m Mesh) Volume() float64 {
	v := 0.0
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Positions[m.Indices[i]]
		b := m.Positions[m.Indices[i+1]]
		c := m.Positions[m.Indices[i+2]]
		v += a.Dot(b.Cross(c))
	}
	return v / 6
}

// Transformed returns a copy of the mesh with every position mapped by t.
func (m Mesh) Transformed(t Transform) Mesh {
	out := Mesh{
		Positions: make([]Vec3, len(m.Positions)),
		Indices:   append([]uint32(nil), m.Indices...),
	}
	for i, p := range m.Positions {
		out.Positions[i] = t.Apply(p)
	}
	return out
}

func (m *Mesh) vertex(p Vec3) uint32 {
	m.Positions = append(m.Positions, p)
	return uint32(len(m.Positions) - 1)
}

func (m *Mesh) tri(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

func (m *Mesh) quad(a, b, c, d Vec3) {
	ia, ib, ic, id := m.vertex(a), m.vertex(b), m.vertex(c), m.vertex(d)
	m.tri(ia, ib, ic)
	m.tri(ia, ic, id)
}

// Triangulate splits a simple polygon into triangles by ear clipping. The
// returned index triples refer to p.Vertices and are wound counterclockwise.
// Vertices lying on a straight run are skipped.
func Triangulate(p Polygon) ([][3]int, error) {
	n := len(p.Vertices)
	if n < 3 || p.Area() < Epsilon {
		return nil, fmt.Errorf("triangulate: %w: %d vertices, area %.3g", ErrDegenerate, n, p.Area())
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if p.SignedArea() < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}
	at := func(k int) Point2D { return p.Vertices[idx[(k+len(idx))%len(idx)]] }

	tris := make([][3]int, 0, n-2)
	for len(idx) > 3 {
		clipped := false
		for k := range idx {
			a, b, c := at(k-1), at(k), at(k+1)
			turn := b.Sub(a).Cross(c.Sub(b))
			if math.Abs(turn) < Epsilon && b.Sub(a).Dot(c.Sub(b)) > 0 {
				idx = append(idx[:k], idx[k+1:]...)
				clipped = true
				break
			}
			if turn <= 0 || !isEar(p, idx, k, a, b, c) {
				continue
			}
			prev := idx[(k-1+len(idx))%len(idx)]
			next := idx[(k+1)%len(idx)]
			tris = append(tris, [3]int{prev, idx[k], next})
			idx = append(idx[:k], idx[k+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return nil, fmt.Errorf("triangulate: %w: no ear among %d remaining vertices", ErrDegenerate, len(idx))
		}
	}
	a, b, c := at(0), at(1), at(2)
	if b.Sub(a).Cross(c.Sub(b)) > Epsilon {
		tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	}
	return tris, nil
}

func isEar(p Polygon, idx []int, k int, a, b, c Point2D) bool {
	for j := range idx {
		if j == k || j == (k-1+len(idx))%len(idx) || j == (k+1)%len(idx) {
			continue
		}
		q := p.Vertices[idx[j]]
		if q.Equal(a, Epsilon) || q.Equal(b, Epsilon) || q.Equal(c, Epsilon) {
			continue
		}
		if inTriangle(q, a, b, c) {
			return false
		}
	}
	return true
}

func inTriangle(q, a, b, c Point2D) bool {
	return orient(a, b, q) >= -Epsilon && orient(b, c, q) >= -Epsilon && orient(c, a, q) >= -Epsilon
}

// ExtrudePolygon builds a closed prism from a simple polygon in the XY plane,
// extruded along +Z from 0 to depth.
func ExtrudePolygon(p Polygon, depth float64) (Mesh, error) {
	if depth <= 0 {
		return Mesh{}, fmt.Errorf("extrude: %w: depth %.3g", ErrDegenerate, depth)
	}
	shape := p.Dedupe().EnsureCCW()
	if !shape.IsSimple() {
		return Mesh{}, fmt.Errorf("extrude: %w: polygon is not simple", ErrDegenerate)
	}
	tris, err := Triangulate(shape)
	if err != nil {
		return Mesh{}, err
	}

	var m Mesh
	n := len(shape.Vertices)
	front := make([]uint32, n)
	back := make([]uint32, n)
	for i, v := range shape.Vertices {
		front[i] = m.vertex(v.Vec3(0))
	}
	for i, v := range shape.Vertices {
		back[i] = m.vertex(v.Vec3(depth))
	}
	for _, t := range tris {
		m.tri(front[t[0]], front[t[2]], front[t[1]])
		m.tri(back[t[0]], back[t[1]], back[t[2]])
	}
	for i := 0; i < n; i++ {
		a, b := shape.Edge(i)
		m.quad(a.Vec3(0), b.Vec3(0), b.Vec3(depth), a.Vec3(depth))
	}
	return m, nil
}

// ExtrudeRing builds a closed slab between two nested polygons with the same
// vertex count and matching vertex order, such as concentric rectangles,
// extruded along +Z from 0 to depth.
func ExtrudeRing(outer, inner Polygon, depth float64) (Mesh, error) {
	if depth <= 0 {
		return Mesh{}, fmt.Errorf("extrude ring: %w: depth %.3g", ErrDegenerate, depth)
	}
	outer, inner = outer.EnsureCCW(), inner.EnsureCCW()
	n := outer.Len()
	if n < 3 || inner.Len() != n {
		return Mesh{}, fmt.Errorf("extrude ring: %w: %d outer and %d inner vertices", ErrDegenerate, n, inner.Len())
	}
	if inner.Area() < Epsilon || inner.Area() >= outer.Area() {
		return Mesh{}, fmt.Errorf("extrude ring: %w: hole area %.3g, outer area %.3g", ErrDegenerate, inner.Area(), outer.Area())
	}

	var m Mesh
	for i := 0; i < n; i++ {
		o0, o1 := outer.Edge(i)
		i0, i1 := inner.Edge(i)
		// Caps.
		m.quad(o0.Vec3(depth), o1.Vec3(depth), i1.Vec3(depth), i0.Vec3(depth))
		m.quad(o0.Vec3(0), i0.Vec3(0), i1.Vec3(0), o1.Vec3(0))
		// Outer wall faces away from the ring, inner wall faces into the hole.
		m.quad(o0.Vec3(0), o1.Vec3(0), o1.Vec3(depth), o0.Vec3(depth))
		m.quad(i1.Vec3(0), i0.Vec3(0), i0.Vec3(depth), i1.Vec3(depth))
	}
	return m, nil
}

// Box builds an axis-aligned box centered on the origin.
func Box(width, height, depth float64) Mesh {
	hx, hy, hz := width/2, height/2, depth/2
	c := [8]Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	var m Mesh
	m.quad(c[4], c[5], c[6], c[7]) // +Z
	m.quad(c[1], c[0], c[3], c[2]) // -Z
	m.quad(c[5], c[1], c[2], c[6]) // +X
	m.quad(c[0], c[4], c[7], c[3]) // -X
	m.quad(c[7], c[6], c[2], c[3]) // +Y
	m.quad(c[0], c[1], c[5], c[4]) // -Y
	return m
}

// Cylinder builds a capped cylinder along +Y centered on the origin. The two
// radii may differ to form a tapered pole.
func Cylinder(radiusTop, radiusBottom, height float64, segments int) Mesh {
	if segments < 3 {
		segments = 3
	}
	hy := height / 2
	ring := func(r, y float64, i int) Vec3 {
		a := 2 * math.Pi * float64(i%segments) / float64(segments)
		return Vec3{r * math.Sin(a), y, r * math.Cos(a)}
	}
	var m Mesh
	top := m.vertex(Vec3{0, hy, 0})
	bottom := m.vertex(Vec3{0, -hy, 0})
	for i := 0; i < segments; i++ {
		t0, t1 := ring(radiusTop, hy, i), ring(radiusTop, hy, i+1)
		b0, b1 := ring(radiusBottom, -hy, i), ring(radiusBottom, -hy, i+1)
		m.quad(b0, b1, t1, t0)
		m.tri(top, m.vertex(t0), m.vertex(t1))
		m.tri(bottom, m.vertex(b1), m.vertex(b0))
	}
	return m
}

// Plane builds a single-sided rectangle in the XY plane, centered on the
// origin and facing +Z.
func Plane(width, height float64) Mesh {
	hx, hy := width/2, height/2
	var m Mesh
	m.quad(Vec3{-hx, -hy, 0}, Vec3{hx, -hy, 0}, Vec3{hx, hy, 0}, Vec3{-hx, hy, 0})
	return m
}

package geo

import "math"

// Epsilon is the coordinate tolerance used by the polygon predicates.
const Epsilon = 1e-9

// Polygon is a closed polygon defined by its vertices in order. The closing
// edge from the last vertex back to the first is implicit.
type Polygon struct {
	Vertices []Point2D
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point2D) Polygon {
	return Polygon{Vertices: pts}
}

// Rect returns the axis-aligned rectangle centered on c, in CCW order.
func Rect(c Point2D, width, height float64) Polygon {
	hw, hh := width/2, height/2
	return NewPolygon(
		Pt(c.X-hw, c.Y-hh),
		Pt(c.X+hw, c.Y-hh),
		Pt(c.X+hw, c.Y+hh),
		Pt(c.X-hw, c.Y+hh),
	)
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsEmpty returns true if the polygon has fewer than 3 vertices.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (p Polygon) Edge(i int) (Point2D, Point2D) {
	n := len(p.Vertices)
	return p.Vertices[i%n], p.Vertices[(i+1)%n]
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Y
		area -= p.Vertices[j].X * p.Vertices[i].Y
	}
	return area / 2
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// IsCounterClockwise returns true if vertices are in CCW order.
func (p Polygon) IsCounterClockwise() bool {
	return p.SignedArea() > 0
}

// EnsureCCW returns the polygon with vertices in counterclockwise order.
func (p Polygon) EnsureCCW() Polygon {
	if p.SignedArea() < 0 {
		return p.Reverse()
	}
	return p
}

// Reverse returns the polygon with reversed vertex order.
func (p Polygon) Reverse() Polygon {
	n := len(p.Vertices)
	rev := make([]Point2D, n)
	for i, v := range p.Vertices {
		rev[n-1-i] = v
	}
	return Polygon{Vertices: rev}
}

// Dedupe returns the polygon without consecutive coincident vertices,
// including a closing vertex that repeats the first.
func (p Polygon) Dedupe() Polygon {
	out := make([]Point2D, 0, len(p.Vertices))
	for _, v := range p.Vertices {
		if len(out) > 0 && out[len(out)-1].Equal(v, Epsilon) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[len(out)-1].Equal(out[0], Epsilon) {
		out = out[:len(out)-1]
	}
	return Polygon{Vertices: out}
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (p Polygon) BoundingBox() (Point2D, Point2D) {
	if len(p.Vertices) == 0 {
		return Point2D{}, Point2D{}
	}
	minP := p.Vertices[0]
	maxP := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		minP.X = math.Min(minP.X, v.X)
		minP.Y = math.Min(minP.Y, v.Y)
		maxP.X = math.Max(maxP.X, v.X)
		maxP.Y = math.Max(maxP.Y, v.Y)
	}
	return minP, maxP
}

// Contains returns true if the point is inside the polygon using ray casting.
func (p Polygon) Contains(pt Point2D) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// IsSimple reports whether the polygon is a simple closed polygon: at least
// three distinct vertices, non-zero area, no zero-length edges, no edge
// folding back onto its neighbour and no two non-adjacent edges touching.
func (p Polygon) IsSimple() bool {
	n := len(p.Vertices)
	if n < 3 || p.Area() < Epsilon {
		return false
	}
	for i := 0; i < n; i++ {
		a, b := p.Edge(i)
		if a.Equal(b, Epsilon) {
			return false
		}
		// Adjacent edges only share their common vertex unless they fold back.
		_, c := p.Edge(i + 1)
		ab, bc := b.Sub(a), c.Sub(b)
		if math.Abs(ab.Cross(bc)) < Epsilon && ab.Dot(bc) < 0 {
			return false
		}
	}
	for i := 0; i < n; i++ {
		a, b := p.Edge(i)
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			c, d := p.Edge(j)
			if SegmentsIntersect(a, b, c, d) {
				return false
			}
		}
	}
	return true
}

// SegmentsIntersect reports whether the closed segments ab and cd share at
// least one point, including touching endpoints and collinear overlap.
func SegmentsIntersect(a, b, c, d Point2D) bool {
	d1 := orient(c, d, a)
	d2 := orient(c, d, b)
	d3 := orient(a, b, c)
	d4 := orient(a, b, d)
	if ((d1 > Epsilon && d2 < -Epsilon) || (d1 < -Epsilon && d2 > Epsilon)) &&
		((d3 > Epsilon && d4 < -Epsilon) || (d3 < -Epsilon && d4 > Epsilon)) {
		return true
	}
	return (math.Abs(d1) <= Epsilon && onSegment(c, d, a)) ||
		(math.Abs(d2) <= Epsilon && onSegment(c, d, b)) ||
		(math.Abs(d3) <= Epsilon && onSegment(a, b, c)) ||
		(math.Abs(d4) <= Epsilon && onSegment(a, b, d))
}

func orient(a, b, c Point2D) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func onSegment(a, b, p Point2D) bool {
	return p.X >= math.Min(a.X, b.X)-Epsilon && p.X <= math.Max(a.X, b.X)+Epsilon &&
		p.Y >= math.Min(a.Y, b.Y)-Epsilon && p.Y <= math.Max(a.Y, b.Y)+Epsilon
}

// ApproximateEllipse returns a polygon approximating an ellipse with the
// given center and radii. Vertices are in CCW order.
func ApproximateEllipse(center Point2D, rx, ry float64, segments int) Polygon {
	if segments < 3 {
		segments = 3
	}
	pts := make([]Point2D, segments)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = Point2D{
			X: center.X + rx*math.Cos(angle),
			Y: center.Y + ry*math.Sin(angle),
		}
	}
	return Polygon{Vertices: pts}
}

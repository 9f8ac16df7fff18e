package geo

import (
	"math"
	"testing"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// --- Point2D tests ---

func TestPointDistance(t *testing.T) {
	a := Pt(0, 0)
	b := Pt(3, 4)
	if !approxEqual(a.Distance(b), 5.0, tolerance) {
		t.Errorf("expected distance 5.0, got %f", a.Distance(b))
	}
}

func TestPointRotate(t *testing.T) {
	p := Pt(1, 0)
	r := p.Rotate(math.Pi / 2)
	if !approxEqual(r.X, 0, tolerance) || !approxEqual(r.Y, 1, tolerance) {
		t.Errorf("expected (0,1), got (%f,%f)", r.X, r.Y)
	}
}

func TestPointLerp(t *testing.T) {
	a := Pt(0, 0)
	b := Pt(10, 10)
	mid := a.Lerp(b, 0.5)
	if !approxEqual(mid.X, 5, tolerance) || !approxEqual(mid.Y, 5, tolerance) {
		t.Errorf("expected (5,5), got (%f,%f)", mid.X, mid.Y)
	}
}

// --- Polygon tests ---

func TestPolygonAreaSquare(t *testing.T) {
	sq := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	area := sq.Area()
	if !approxEqual(area, 100, tolerance) {
		t.Errorf("expected area 100, got %f", area)
	}
}

func TestPolygonAreaTriangle(t *testing.T) {
	tri := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(0, 10))
	area := tri.Area()
	if !approxEqual(area, 50, tolerance) {
		t.Errorf("expected area 50, got %f", area)
	}
}

func TestPolygonContains(t *testing.T) {
	sq := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	if !sq.Contains(Pt(5, 5)) {
		t.Error("expected (5,5) inside square")
	}
	if sq.Contains(Pt(15, 5)) {
		t.Error("expected (15,5) outside square")
	}
	if sq.Contains(Pt(-1, 5)) {
		t.Error("expected (-1,5) outside square")
	}
}

func TestPolygonBoundingBox(t *testing.T) {
	sq := NewPolygon(Pt(-5, -3), Pt(10, 0), Pt(7, 12))
	mn, mx := sq.BoundingBox()
	if !approxEqual(mn.X, -5, tolerance) || !approxEqual(mn.Y, -3, tolerance) {
		t.Errorf("expected min (-5,-3), got (%f,%f)", mn.X, mn.Y)
	}
	if !approxEqual(mx.X, 10, tolerance) || !approxEqual(mx.Y, 12, tolerance) {
		t.Errorf("expected max (10,12), got (%f,%f)", mx.X, mx.Y)
	}
}

func TestPolygonDedupe(t *testing.T) {
	p := NewPolygon(Pt(0, 0), Pt(0, 0), Pt(4, 0), Pt(4, 3), Pt(4, 3), Pt(0, 0))
	got := p.Dedupe()
	if got.Len() != 3 {
		t.Errorf("expected 3 vertices after dedupe, got %d", got.Len())
	}
}

func TestPolygonIsSimple(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
		want bool
	}{
		{"square", NewPolygon(Pt(0, 0), Pt(1, 0), Pt(1, 1), Pt(0, 1)), true},
		{"staircase", NewPolygon(Pt(0, 0), Pt(0, 1), Pt(1, 1), Pt(1, 2), Pt(2, 2), Pt(2, 0)), true},
		{"bowtie", NewPolygon(Pt(0, 0), Pt(1, 1), Pt(1, 0), Pt(0, 1)), false},
		{"fold back", NewPolygon(Pt(0, 0), Pt(0, 2), Pt(2, 2), Pt(2, 3), Pt(2, 0)), false},
		{"touching", NewPolygon(Pt(0, 0), Pt(2, 0), Pt(2, 2), Pt(1, 0), Pt(0, 2)), false},
		{"collinear", NewPolygon(Pt(0, 0), Pt(1, 0), Pt(2, 0)), false},
		{"too few", NewPolygon(Pt(0, 0), Pt(1, 0)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.poly.IsSimple(); got != tt.want {
				t.Errorf("IsSimple() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApproximateEllipseArea(t *testing.T) {
	e := ApproximateEllipse(Origin, 100, 60, 128)
	expectedArea := math.Pi * 100 * 60
	if !approxEqual(e.Area(), expectedArea, expectedArea*0.001) {
		t.Errorf("expected ellipse area ~%f, got %f", expectedArea, e.Area())
	}
}

func TestApproximateEllipseBounds(t *testing.T) {
	e := ApproximateEllipse(Pt(1, 2), 30, 20, 64)
	mn, mx := e.BoundingBox()
	if !approxEqual(mn.X, -29, tolerance) || !approxEqual(mx.X, 31, tolerance) {
		t.Errorf("expected x range [-29,31], got [%f,%f]", mn.X, mx.X)
	}
	if !approxEqual(mn.Y, -18, 0.1) || !approxEqual(mx.Y, 22, 0.1) {
		t.Errorf("expected y range [-18,22], got [%f,%f]", mn.Y, mx.Y)
	}
}

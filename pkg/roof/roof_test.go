package roof

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

var field = pitch.Field{Length: 100, Width: 64}

func buildStands(t *testing.T, mutate func(*stand.Spec)) *stand.Set {
	t.Helper()
	s := stand.DefaultSpec()
	if mutate != nil {
		mutate(&s)
	}
	set, err := stand.Place(field, [4]stand.Spec{s, s, s, s}, true)
	require.NoError(t, err)
	return set
}

func TestCoverageAutoScenario(t *testing.T) {
	p := DefaultIndividualParams()
	p.AutoCoverage = true
	p.CoverageFactor = 0.75
	p.MinCoverage = 5
	p.MaxCoverage = 40

	c, err := Coverage(18, p)
	require.NoError(t, err)
	assert.Equal(t, 13.5, c)
}

func TestCoverageClamps(t *testing.T) {
	p := DefaultIndividualParams()
	p.AutoCoverage = true
	p.CoverageFactor = 0.1
	c, err := Coverage(18, p)
	require.NoError(t, err)
	assert.Equal(t, p.MinCoverage, c)

	p.CoverageFactor = 1
	p.MaxCoverage = 10
	c, err = Coverage(18, p)
	require.NoError(t, err)
	assert.Equal(t, 10.0, c)
}

func TestCoverageErrors(t *testing.T) {
	explicit := DefaultIndividualParams()
	explicit.Coverage = 20
	_, err := Coverage(18, explicit)
	assert.ErrorIs(t, err, ErrCoverageExceedsDepth)

	tests := []struct {
		name   string
		mutate func(*IndividualParams)
		depth  float64
		want   error
	}{
		{"factor zero", func(p *IndividualParams) { p.CoverageFactor = 0 }, 18, ErrInvalidRoof},
		{"factor above one", func(p *IndividualParams) { p.CoverageFactor = 1.5 }, 18, ErrInvalidRoof},
		{"min above max", func(p *IndividualParams) { p.MinCoverage = 30; p.MaxCoverage = 20 }, 40, ErrInvalidRoof},
		{"min above depth", func(p *IndividualParams) { p.MinCoverage = 10 }, 8, ErrCoverageExceedsDepth},
		{"no depth", func(p *IndividualParams) {}, 0, ErrInvalidRoof},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultIndividualParams()
			p.AutoCoverage = true
			tt.mutate(&p)
			_, err := Coverage(tt.depth, p)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCoverageProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 1000; i++ {
		depth := 0.5 + rng.Float64()*100
		p := IndividualParams{
			AutoCoverage:   true,
			CoverageFactor: 1 - rng.Float64()*0.999,
			MinCoverage:    0.01 + rng.Float64()*(depth-0.01),
		}
		p.MaxCoverage = p.MinCoverage + rng.Float64()*50
		c, err := Coverage(depth, p)
		require.NoError(t, err, "depth %v params %+v", depth, p)
		assert.GreaterOrEqual(t, c, p.MinCoverage)
		assert.LessOrEqual(t, c, p.MaxCoverage)
		assert.LessOrEqual(t, c, depth)
	}
}

func TestPlaceIndividualSlab(t *testing.T) {
	set := buildStands(t, nil)
	east, _ := set.BySide(stand.East)
	p := DefaultIndividualParams()

	r, err := PlaceIndividual(east, p)
	require.NoError(t, err)

	assert.Equal(t, 15.0, r.Coverage)
	assert.InDelta(t, 18-7.5, r.Center.X, 1e-12)
	assert.InDelta(t, 12+2+0.25, r.Center.Y, 1e-12)
	assert.InDelta(t, 50, r.Center.Z, 1e-12)
	assert.Len(t, r.Struts, 2)
	assert.InDelta(t, 10, r.Struts[0].Base.Z, 1e-9)
	assert.InDelta(t, 90, r.Struts[1].Base.Z, 1e-9)

	for _, s := range r.Struts {
		assert.Equal(t, 0.0, s.Base.Y)
		assert.Equal(t, east.TotalProfileDepth, s.Base.X)
		assert.InDelta(t, s.Base.Distance(s.Attach), s.Length, 1e-12)
		dir := s.Rotation.Rotate(geo.AxisY)
		assert.True(t, dir.ApproxEqual(s.Attach.Sub(s.Base).Normalize(), 1e-9))
		// The attachment point lies on the slab underside.
		local := r.Rotation.Conjugate().Rotate(s.Attach.Sub(r.Center))
		assert.InDelta(t, -p.Thickness/2, local.Y, 1e-9)
		assert.InDelta(t, r.Coverage/2, local.X, 1e-9)
	}
}

func TestTopHeightAt(t *testing.T) {
	set := buildStands(t, nil)
	east, _ := set.BySide(stand.East)
	p := DefaultIndividualParams()
	p.Tilt = 0
	r, err := PlaceIndividual(east, p)
	require.NoError(t, err)
	assert.InDelta(t, 12+2+0.5, r.TopHeightAt(12), 1e-12)

	p.Tilt = 0.2
	r, err = PlaceIndividual(east, p)
	require.NoError(t, err)
	// The top surface passes through the rotated top-centre point.
	topCenter := r.SlabLocal(geo.V3(0, p.Thickness/2, 0))
	assert.InDelta(t, topCenter.Y, r.TopHeightAt(topCenter.X), 1e-9)
	// Positive tilt raises the back edge.
	assert.Greater(t, r.TopHeightAt(17), r.TopHeightAt(5))
	// Depths past the slab clamp to its edge.
	assert.Equal(t, r.TopHeightAt(-100), r.TopHeightAt(-200))
}

func TestStrutPositions(t *testing.T) {
	assert.Empty(t, StrutPositions(0, 100))
	assert.Equal(t, []float64{50}, StrutPositions(1, 100))
	assert.InDeltaSlice(t, []float64{10, 90}, StrutPositions(2, 100), 1e-9)
	assert.InDeltaSlice(t, []float64{10, 30, 50, 70, 90}, StrutPositions(5, 100), 1e-9)
}

func TestStrutThresholdProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	set := buildStands(t, func(s *stand.Spec) {
		s.Rows = 0
		s.WalkwayDepth = 20
		s.BackWallHeight = 0
	})
	east, _ := set.BySide(stand.East)
	for i := 0; i < 300; i++ {
		p := DefaultIndividualParams()
		p.HeightOffset = -1 + rng.Float64()*2
		p.Tilt = (rng.Float64() - 0.5) * math.Pi / 2
		p.SupportCount = rng.IntN(8)
		p.MinStrutLength = rng.Float64() * 2
		r, err := PlaceIndividual(east, p)
		require.NoError(t, err)

		assert.LessOrEqual(t, len(r.Struts), p.SupportCount)
		assert.Equal(t, p.SupportCount, len(r.Struts)+len(r.Omitted))
		for _, s := range r.Struts {
			assert.GreaterOrEqual(t, s.Length, p.MinStrutLength)
		}
		for _, o := range r.Omitted {
			assert.Less(t, o.Length, math.Max(p.MinStrutLength, geo.Epsilon))
		}
	}
}

func TestPlaceIndividualOmitsShortStruts(t *testing.T) {
	set := buildStands(t, func(s *stand.Spec) {
		s.Rows = 0
		s.WalkwayDepth = 20
		s.BackWallHeight = 0
	})
	east, _ := set.BySide(stand.East)
	p := DefaultIndividualParams()
	p.Tilt = 0
	p.HeightOffset = -0.95

	r, err := PlaceIndividual(east, p)
	require.NoError(t, err)
	assert.Empty(t, r.Struts)
	require.Len(t, r.Omitted, 2)
	assert.InDelta(t, 0.05, r.Omitted[0].Length, 1e-9)
}

func TestPlaceOverall(t *testing.T) {
	set := buildStands(t, nil)
	p := DefaultOverallParams()
	r, err := PlaceOverall(field, set, p)
	require.NoError(t, err)

	margin := 5.0 + 18 + 5
	assert.Equal(t, margin, r.Margin)
	assert.InDelta(t, (100+2*margin)*(64+2*margin), r.Outer.Area(), 1e-9)
	assert.InDelta(t, 100*64, r.Hole.Area(), 1e-9)
	assert.InDelta(t, ((100+2*margin)*(64+2*margin)-100*64)*p.Thickness, r.Solid.Volume(), 1e-6)
	assert.Equal(t, 12.0, r.Bottom)
	require.Len(t, r.Columns, 4)
	for _, c := range r.Columns {
		assert.InDelta(t, 50+margin-5, math.Abs(c.Position.X), 1e-9)
		assert.InDelta(t, 32+margin-5, math.Abs(c.Position.Z), 1e-9)
		assert.Equal(t, 12.0, c.Height)
	}

	// The flattened solid spans the roof thickness above the tallest stand.
	lo, hi := r.Solid.Transformed(geo.NewTransform(r.Position, r.Rotation)).Bounds()
	assert.InDelta(t, 12, lo.Y, 1e-9)
	assert.InDelta(t, 12.5, hi.Y, 1e-9)
}

func TestPlaceOverallDegenerate(t *testing.T) {
	_, err := PlaceOverall(field, &stand.Set{}, DefaultOverallParams())
	assert.ErrorIs(t, err, ErrNoStands)

	set := buildStands(t, nil)
	r, err := PlaceOverall(pitch.Field{}, set, DefaultOverallParams())
	require.NoError(t, err)
	assert.True(t, r.HoleOmitted)
}

func TestPlaceDispatch(t *testing.T) {
	set := buildStands(t, nil)
	ov, ind := DefaultOverallParams(), DefaultIndividualParams()

	plan, err := Place(ModeNone, field, set, ov, ind)
	require.NoError(t, err)
	assert.Equal(t, ModeNone, plan.Mode())
	_, ok := plan.TopHeight(stand.East, 10)
	assert.False(t, ok)

	plan, err = Place(ModeOverall, field, set, ov, ind)
	require.NoError(t, err)
	h, ok := plan.TopHeight(stand.North, 3)
	assert.True(t, ok)
	assert.Equal(t, 12.5, h)

	plan, err = Place(ModeIndividual, field, set, ov, ind)
	require.NoError(t, err)
	ip := plan.(IndividualPlan)
	assert.Len(t, ip.Roofs, 4)
	_, ok = ip.ForSide(stand.South)
	assert.True(t, ok)

	plan, err = Place(ModeOverall, field, &stand.Set{}, ov, ind)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.(None).Reason)

	ind.Coverage = 30
	_, err = Place(ModeIndividual, field, set, ov, ind)
	assert.ErrorIs(t, err, ErrCoverageExceedsDepth)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Overall ")
	require.NoError(t, err)
	assert.Equal(t, ModeOverall, m)
	_, err = ParseMode("dome")
	assert.ErrorIs(t, err, ErrInvalidRoof)
}

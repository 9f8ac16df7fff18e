package attach

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/roof"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

var field = pitch.Field{Length: 100, Width: 64}

func stands(t *testing.T) *stand.Set {
	t.Helper()
	s := stand.DefaultSpec()
	set, err := stand.Place(field, [4]stand.Spec{s, s, s, s}, true)
	require.NoError(t, err)
	return set
}

func TestScoreboardOnIndividualRoof(t *testing.T) {
	set := stands(t)
	plan, err := roof.Place(roof.ModeIndividual, field, set, roof.DefaultOverallParams(), roof.DefaultIndividualParams())
	require.NoError(t, err)

	p := DefaultScoreboardParams()
	sb, err := PlaceScoreboard(set, plan, p, DefaultDisplay())
	require.NoError(t, err)

	east, _ := set.BySide(stand.East)
	r, _ := plan.(roof.IndividualPlan).ForSide(stand.East)
	x := 18 * p.DepthFraction
	assert.True(t, sb.OnRoof)
	assert.InDelta(t, r.TopHeightAt(x)+p.OffsetFromRoof, sb.Base, 1e-12)
	assert.InDelta(t, sb.Base+p.SupportHeight+(p.Height+p.FrameThickness)/2, sb.Local.Y, 1e-12)
	assert.InDelta(t, x, sb.Local.X, 1e-12)
	assert.InDelta(t, east.StandLength/2, sb.Local.Z, 1e-12)
	assert.Equal(t, r.Tilt, sb.InheritedTilt)
	assert.Zero(t, sb.Roll())

	facing := sb.Facing(east)
	toCenter := geo.V3(-sb.World.X, 0, -sb.World.Z).Normalize()
	assert.True(t, facing.ApproxEqual(toCenter, 1e-9), "facing %v, want %v", facing, toCenter)

	require.Len(t, sb.Supports, 2)
	assert.InDelta(t, -p.Width*0.35, sb.Supports[0].Offset.X, 1e-12)
	// Supports reach from the assembly underside down to the base height.
	bottom := sb.Local.Y + sb.Supports[0].Offset.Y - sb.Supports[0].Height/2
	assert.InDelta(t, sb.Base, bottom, 1e-9)
}

func TestScoreboardFallsBackToStandTop(t *testing.T) {
	set := stands(t)
	p := DefaultScoreboardParams()
	p.Stand = "North"
	p.SupportHeight = 0
	sb, err := PlaceScoreboard(set, roof.None{}, p, DefaultDisplay())
	require.NoError(t, err)
	assert.False(t, sb.OnRoof)
	assert.InDelta(t, 12+p.OffsetFromRoof, sb.Base, 1e-12)
	assert.Empty(t, sb.Supports)
	assert.Equal(t, "NorthStandGroup", sb.StandName)
}

func TestScoreboardMissingStand(t *testing.T) {
	p := DefaultScoreboardParams()
	p.Stand = "upper tier"
	_, err := PlaceScoreboard(stands(t), roof.None{}, p, DefaultDisplay())
	assert.ErrorIs(t, err, ErrStandNotFound)
}

func TestScoreboardRollAlwaysZero(t *testing.T) {
	set := stands(t)
	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 200; i++ {
		ind := roof.DefaultIndividualParams()
		ind.Tilt = (rng.Float64() - 0.5) * math.Pi / 2
		plan, err := roof.Place(roof.ModeIndividual, field, set, roof.DefaultOverallParams(), ind)
		require.NoError(t, err)

		p := DefaultScoreboardParams()
		p.Stand = stand.Sides[rng.IntN(4)].String()
		p.OffsetDepth = rng.Float64()*4 - 2
		p.OffsetLength = rng.Float64()*20 - 10
		sb, err := PlaceScoreboard(set, plan, p, DefaultDisplay())
		require.NoError(t, err)
		assert.Equal(t, 0.0, sb.Roll())
		assert.Equal(t, 0.0, sb.Rotation.X)
		up := sb.Rotation.Quat().Rotate(geo.AxisY)
		assert.True(t, up.ApproxEqual(geo.AxisY, 1e-12))
	}
}

func TestHoardingsFaceField(t *testing.T) {
	p := DefaultHoardingParams()
	hs, err := PlaceHoardings(field, p)
	require.NoError(t, err)
	require.Len(t, hs, 4)

	for _, h := range hs {
		facing := geo.YawQuat(h.Yaw).Rotate(geo.AxisZ)
		toCenter := geo.V3(-h.Position.X, 0, -h.Position.Z).Normalize()
		assert.True(t, facing.ApproxEqual(toCenter, 1e-9), h.Name)
		assert.InDelta(t, p.Height/2+0.01, h.Position.Y, 1e-12)
		assert.Equal(t, h.Repeat, h.Appearance.RepeatU)
		assert.Equal(t, 1.0, h.Appearance.RepeatV)
	}
	assert.InDelta(t, 50+3, hs[0].Position.X, 1e-12)
	assert.InDelta(t, 32+3, hs[2].Position.Z, 1e-12)
	assert.InDelta(t, 100/(1*4.0)*2, hs[2].Repeat, 1e-12)
}

func TestHoardingRepeatHalvesWhenAspectDoubles(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 4))
	for i := 0; i < 200; i++ {
		w := 10 + rng.Float64()*150
		h := 0.2 + rng.Float64()*3
		a := 0.5 + rng.Float64()*8
		s := 0.5 + rng.Float64()*4
		assert.InDelta(t, RepeatFactor(w, h, a, s)/2, RepeatFactor(w, h, 2*a, s), 1e-9)
	}

	p := DefaultHoardingParams()
	one, err := PlaceHoardings(field, p)
	require.NoError(t, err)
	p.ImageAspectRatio *= 2
	two, err := PlaceHoardings(field, p)
	require.NoError(t, err)
	for i := range one {
		assert.InDelta(t, one[i].Repeat/2, two[i].Repeat, 1e-12)
	}
}

func TestHoardingsRejectBadParams(t *testing.T) {
	p := DefaultHoardingParams()
	p.ImageAspectRatio = 0
	_, err := PlaceHoardings(field, p)
	assert.Error(t, err)
}

func TestRibbonResolvesWestStand(t *testing.T) {
	set := stands(t)
	p := DefaultRibbonParams()
	p.Stands = []string{"West Stand"}
	ribbons, missing := PlaceRibbons(set, p, DefaultDisplay())
	assert.Empty(t, missing)
	require.Len(t, ribbons, 1)

	r := ribbons[0]
	assert.Equal(t, "WestStandGroup", r.StandName)
	assert.Equal(t, stand.West, r.Side)
	assert.Equal(t, field.Length, r.Width)
	assert.InDelta(t, 18*p.DepthFraction, r.Local.X, 1e-12)
	assert.InDelta(t, 12+p.OffsetAboveTop+p.Height/2, r.Local.Y, 1e-12)
	assert.Contains(t, r.Text, "HOME 0 - 0 AWAY")
}

func TestRibbonMissingStandIsSkipped(t *testing.T) {
	p := DefaultRibbonParams()
	p.Stands = []string{"east", "Family Enclosure"}
	ribbons, missing := PlaceRibbons(stands(t), p, DefaultDisplay())
	assert.Len(t, ribbons, 1)
	require.Len(t, missing, 1)
	assert.ErrorIs(t, missing[0], ErrStandNotFound)
}

func TestDisplaySanitize(t *testing.T) {
	d, err := Display{
		TeamA:    "  Rovers\x00\n",
		TeamB:    strings.Repeat("x", 50),
		ScoreA:   3,
		GameTime: "45:00\t",
	}.Sanitize()
	require.NoError(t, err)
	assert.Equal(t, "Rovers", d.TeamA)
	assert.Len(t, []rune(d.TeamB), MaxLabelRunes)
	assert.Equal(t, "45:00", d.GameTime)
	assert.Equal(t, "45:00  Rovers 3 - 0 "+d.TeamB, d.Headline())

	_, err = Display{ScoreA: -1}.Sanitize()
	assert.ErrorIs(t, err, ErrInvalidDisplay)
	_, err = Display{ScoreB: MaxScore + 1}.Sanitize()
	assert.ErrorIs(t, err, ErrInvalidDisplay)
}

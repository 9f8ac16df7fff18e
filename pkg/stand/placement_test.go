package stand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
)

var field = pitch.Field{Length: 100, Width: 64}

func allSpecs(s Spec) [4]Spec {
	return [4]Spec{s, s, s, s}
}

func TestPlaceAllStands(t *testing.T) {
	set, err := Place(field, allSpecs(DefaultSpec()), true)
	require.NoError(t, err)
	require.Equal(t, 4, set.Len())

	for _, in := range set.All() {
		assert.InDelta(t, 18.0, in.TotalProfileDepth, 1e-12, in.Name)
		vol := in.Profile.Polygon().Area() * in.StandLength
		assert.InDelta(t, vol, in.Solid.Volume(), 1e-6, in.Name)
	}
	east, ok := set.BySide(East)
	require.True(t, ok)
	assert.Equal(t, "EastStandGroup", east.Name)
	assert.Equal(t, field.Length, east.StandLength)

	north, ok := set.BySide(North)
	require.True(t, ok)
	assert.Equal(t, field.Width, north.StandLength)
}

func TestStandFrontFacesField(t *testing.T) {
	set, err := Place(field, allSpecs(DefaultSpec()), true)
	require.NoError(t, err)

	for _, in := range set.All() {
		start := in.LocalToWorld(geo.V3(0, 0, 0))
		end := in.LocalToWorld(geo.V3(0, 0, in.StandLength))
		back := in.LocalToWorld(geo.V3(in.TotalProfileDepth, 0, in.StandLength/2))
		front := start.Lerp(end, 0.5)

		// The front edge is centred on the field axis and the back lies further out.
		assert.Less(t, front.Length(), back.Length(), in.Name)
		switch in.Side {
		case East, West:
			assert.InDelta(t, field.Width/2+in.Spec.Offset, abs(front.Z), 1e-9, in.Name)
			assert.InDelta(t, 0, front.X, 1e-9, in.Name)
			assert.InDelta(t, field.Length, abs(end.X-start.X), 1e-9, in.Name)
		case North, South:
			assert.InDelta(t, field.Length/2+in.Spec.Offset, abs(front.X), 1e-9, in.Name)
			assert.InDelta(t, 0, front.Z, 1e-9, in.Name)
			assert.InDelta(t, field.Width, abs(end.Z-start.Z), 1e-9, in.Name)
		}
	}
}

func TestPlaceSkipsHiddenStands(t *testing.T) {
	specs := allSpecs(DefaultSpec())
	specs[North].Show = false
	set, err := Place(field, specs, true)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
	_, ok := set.BySide(North)
	assert.False(t, ok)

	set, err = Place(field, specs, false)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestPlacePropagatesSpecErrors(t *testing.T) {
	specs := allSpecs(DefaultSpec())
	specs[West].StepDepth = -1
	_, err := Place(field, specs, true)
	assert.ErrorIs(t, err, ErrInvalidSpec)
	assert.Contains(t, err.Error(), "west stand")
}

func TestFindByName(t *testing.T) {
	set, err := Place(field, allSpecs(DefaultSpec()), true)
	require.NoError(t, err)

	tests := []struct {
		query string
		want  string
		found bool
	}{
		{"West Stand", "WestStandGroup", true},
		{"east", "EastStandGroup", true},
		{"NORTH", "NorthStandGroup", true},
		{"south-stand", "SouthStandGroup", true},
		{"Upper Tier", "", false},
		{"  ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			in, ok := set.Find(tt.query)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, in.Name)
			}
		})
	}
}

func TestSetAggregates(t *testing.T) {
	specs := allSpecs(DefaultSpec())
	specs[South].Rows = 30
	specs[East].Offset = 9
	set, err := Place(field, specs, true)
	require.NoError(t, err)

	assert.InDelta(t, 30*0.8+2, set.MaxDepth(), 1e-12)
	assert.InDelta(t, 1+30*0.4+3, set.MaxHeight(), 1e-12)
	assert.Equal(t, 9.0, set.MaxOffset())
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide(" West ")
	require.NoError(t, err)
	assert.Equal(t, West, s)
	_, err = ParseSide("up")
	assert.Error(t, err)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

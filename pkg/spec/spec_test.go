package spec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/roof"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, 100.6, s.Pitch.Length)
	assert.Equal(t, 64.0, s.Pitch.Width)
	assert.Equal(t, pitch.KindFootball, s.Pitch.Type)
	assert.Equal(t, StandModeGlobal, s.Stands.Mode)
	assert.Equal(t, 20, s.Stands.Global.Rows)
	assert.Equal(t, roof.ModeIndividual, s.Roof.Type)
	assert.True(t, s.Floodlights.Show)
}

func TestLoadYAMLOverDefaults(t *testing.T) {
	s, err := Load("testdata/stadium.yaml")
	require.NoError(t, err)

	assert.Equal(t, 120.0, s.Pitch.Length)
	assert.Equal(t, pitch.KindCricket, s.Pitch.Type)
	// Keys not present keep their defaults.
	assert.Equal(t, 0.15, s.Pitch.LineWidth)
	assert.Equal(t, 0.4, s.Stands.Global.StepHeight)
	assert.Equal(t, roof.ModeOverall, s.Roof.Type)
	assert.Equal(t, 8.0, s.Roof.Overall.Overhang)
	assert.Equal(t, 0.5, s.Roof.Overall.Thickness)
}

func TestLoadTOML(t *testing.T) {
	s, err := Load("testdata/stadium.toml")
	require.NoError(t, err)
	assert.Equal(t, 90.0, s.Pitch.Length)
	assert.Equal(t, roof.ModeNone, s.Roof.Type)
	assert.Equal(t, "West Stand", s.Scoreboard.Stand)
	assert.Equal(t, 20.0, s.Scoreboard.Width)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load("testdata/stadium.ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("pitch: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parsing spec YAML")
}

func TestLoadProject(t *testing.T) {
	s, path, err := LoadProject("testdata")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "stadium.yaml"), path)
	assert.Equal(t, 120.0, s.Pitch.Length)

	s, path, err = LoadProject(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), s)
}

func TestStandSpecsIndividual(t *testing.T) {
	s, err := Load("testdata/stadium.yaml")
	require.NoError(t, err)

	specs := s.StandSpecs()
	assert.Equal(t, 30, specs[stand.East].Rows)
	assert.Equal(t, 10, specs[stand.West].Rows)
	assert.Equal(t, "#ff0000", specs[stand.West].Color)
	assert.Equal(t, "#888888", specs[stand.North].Color)
	assert.False(t, specs[stand.South].Show)
	assert.True(t, specs[stand.North].Show)
}

func TestStandSpecsGlobalIgnoresOverrides(t *testing.T) {
	s := Default()
	rows := 5
	s.Stands.Individual.West.Rows = &rows

	specs := s.StandSpecs()
	for _, side := range stand.Sides {
		assert.Equal(t, 20, specs[side].Rows, side.String())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := Default()
	rows := 12
	want.Stands.Mode = StandModeIndividual
	want.Stands.Individual.North.Rows = &rows

	for _, name := range []string{"out.yaml", "out.toml", "out.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, want))
		got, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := Default()
	rows := 7
	s.Stands.Individual.East.Rows = &rows

	c := s.Clone()
	*c.Stands.Individual.East.Rows = 9
	c.Ribbons.Stands[0] = "North Stand"

	assert.Equal(t, 7, *s.Stands.Individual.East.Rows)
	assert.Equal(t, "East Stand", s.Ribbons.Stands[0])
}

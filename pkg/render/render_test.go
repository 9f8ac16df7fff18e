package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
)

func TestMemoryAllocateRelease(t *testing.T) {
	m := NewMemory()
	a := m.Allocate(KindGeometry, "stand")
	b := m.Allocate(KindMaterial, "#888888")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 1, m.LiveCount(KindGeometry))

	require.NoError(t, m.Release(a))
	assert.ErrorIs(t, m.Release(a), ErrUnknownHandle)

	s := m.Stats()
	assert.Equal(t, 1, s.LiveTotal)
	assert.Equal(t, 2, s.Allocated)
	assert.Equal(t, 1, s.Released)
	assert.Equal(t, map[Kind]int{KindMaterial: 1}, s.Live)
}

func TestWithRepeatIsPure(t *testing.T) {
	base := Solid("#ffffff")
	base.Texture = "ad-banner"
	got := WithRepeat(base, 3, 1)
	assert.Equal(t, 3.0, got.RepeatU)
	assert.Equal(t, 0.0, base.RepeatU)
	assert.NotEqual(t, base, got)
}

func TestMaterialCacheSharesAndSweeps(t *testing.T) {
	dev := NewMemory()
	c := NewMaterialCache(dev)

	c.BeginPass()
	red := c.Get(Solid("#ff0000"))
	assert.Equal(t, red, c.Get(Solid("#ff0000")))
	tex := Solid("#ffffff")
	tex.Texture = "ads"
	c.Get(WithRepeat(tex, 2, 1))
	n, err := c.Sweep()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 3, dev.Stats().LiveTotal)

	// Next pass only uses a different colour: the stale entries go.
	c.BeginPass()
	c.Get(Solid("#00ff00"))
	n, err = c.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, dev.Stats().LiveTotal)

	hits, misses := c.HitRate()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 3, misses)

	require.NoError(t, c.Purge())
	assert.Zero(t, dev.Stats().LiveTotal)
}

func TestRegistryClear(t *testing.T) {
	dev := NewMemory()
	r := NewRegistry(dev)
	for range 8 {
		r.Add("flood")
	}
	assert.Equal(t, 8, r.Len())
	assert.Equal(t, 8, dev.LiveCount(KindEmitter))
	assert.Equal(t, 8, dev.LiveCount(KindTarget))

	require.NoError(t, r.Clear())
	assert.Zero(t, r.Len())
	assert.Zero(t, dev.Stats().LiveTotal)
}

func TestBuffers(t *testing.T) {
	b := Buffers(geo.Box(2, 4, 6))
	assert.Equal(t, 24, b.VertexCount())
	assert.Len(t, b.Indices, 36)
	size := b.Bounds.Size()
	assert.InDelta(t, 2, size.X, 1e-6)
	assert.InDelta(t, 4, size.Y, 1e-6)
	assert.InDelta(t, 6, size.Z, 1e-6)
	assert.False(t, b.Bounds.IsEmpty())

	empty := Buffers(geo.Mesh{})
	assert.True(t, empty.Bounds.IsEmpty())
}

package render

import (
	"cogentcore.org/core/math32"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/geo"
)

// MeshBuffers is a mesh flattened into the float32 arrays a GPU consumes.
type MeshBuffers struct {
	Positions math32.ArrayF32
	Indices   math32.ArrayU32
	Bounds    math32.Box3
}

// Buffers flattens m into interleaved xyz positions and triangle indices.
func Buffers(m geo.Mesh) MeshBuffers {
	b := MeshBuffers{
		Positions: make(math32.ArrayF32, 0, 3*len(m.Positions)),
		Indices:   make(math32.ArrayU32, 0, len(m.Indices)),
		Bounds:    math32.B3Empty(),
	}
	for _, p := range m.Positions {
		v := math32.Vec3(float32(p.X), float32(p.Y), float32(p.Z))
		b.Positions = append(b.Positions, v.X, v.Y, v.Z)
		b.Bounds.ExpandByPoint(v)
	}
	b.Indices = append(b.Indices, m.Indices...)
	return b
}

// VertexCount returns the number of vertices in the buffers.
func (b MeshBuffers) VertexCount() int {
	return len(b.Positions) / 3
}

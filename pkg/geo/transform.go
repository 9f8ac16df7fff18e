package geo

// Transform places a local frame in its parent: points are rotated and then
// translated.
type Transform struct {
	Position Vec3 `json:"position"`
	Rotation Quat `json:"rotation"`
}

// IdentityTransform leaves points unchanged.
var IdentityTransform = Transform{Rotation: Identity}

// NewTransform returns a transform with position p and rotation q.
func NewTransform(p Vec3, q Quat) Transform {
	return Transform{Position: p, Rotation: q}
}

// Apply maps a local point into the parent frame.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Rotation.Rotate(p).Add(t.Position)
}

// ApplyDir rotates a local direction into the parent frame.
func (t Transform) ApplyDir(d Vec3) Vec3 {
	return t.Rotation.Rotate(d)
}

// ToLocal maps a parent-frame point into the local frame.
func (t Transform) ToLocal(p Vec3) Vec3 {
	return t.Rotation.Conjugate().Rotate(p.Sub(t.Position))
}

// Compose returns the transform equivalent to applying child and then t.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Position: t.Apply(child.Position),
		Rotation: t.Rotation.Mul(child.Rotation).Normalize(),
	}
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	inv := t.Rotation.Conjugate()
	return Transform{
		Position: inv.Rotate(t.Position).Scale(-1),
		Rotation: inv,
	}
}

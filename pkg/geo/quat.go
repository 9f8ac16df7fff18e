package geo

import "math"

// Quat is a rotation quaternion stored as x, y, z, w.
type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Identity is the no-rotation quaternion.
var Identity = Quat{0, 0, 0, 1}

// YawQuat returns a rotation of angle radians about the +Y axis. Positive
// yaw turns +X toward -Z.
func YawQuat(angle float64) Quat {
	return QuatFromAxisAngle(AxisY, angle)
}

// QuatFromAxisAngle returns a rotation of angle radians about axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{a.X * s, a.Y * s, a.Z * s, math.Cos(angle / 2)}
}

// QuatFromUnitVectors returns the shortest rotation taking unit vector from
// onto unit vector to.
func QuatFromUnitVectors(from, to Vec3) Quat {
	r := from.Dot(to) + 1
	var q Quat
	if r < 1e-12 {
		// Opposite vectors: rotate half a turn about any perpendicular axis.
		if math.Abs(from.X) > math.Abs(from.Z) {
			q = Quat{-from.Y, from.X, 0, 0}
		} else {
			q = Quat{0, -from.Z, from.Y, 0}
		}
	} else {
		c := from.Cross(to)
		q = Quat{c.X, c.Y, c.Z, r}
	}
	return q.Normalize()
}

// QuatFromEuler converts XYZ-ordered Euler angles to a quaternion.
func QuatFromEuler(e Euler) Quat {
	c1, s1 := math.Cos(e.X/2), math.Sin(e.X/2)
	c2, s2 := math.Cos(e.Y/2), math.Sin(e.Y/2)
	c3, s3 := math.Cos(e.Z/2), math.Sin(e.Z/2)
	return Quat{
		X: s1*c2*c3 + c1*s2*s3,
		Y: c1*s2*c3 - s1*c2*s3,
		Z: c1*c2*s3 + s1*s2*c3,
		W: c1*c2*c3 - s1*s2*s3,
	}
}

// Mul returns q*r, the rotation that applies r first and then q.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Normalize returns q scaled to unit length.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return Identity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Array returns the quaternion as [x, y, z, w].
func (q Quat) Array() [4]float64 {
	return [4]float64{q.X, q.Y, q.Z, q.W}
}

// ApproxEqual reports whether q and r describe the same rotation within eps.
func (q Quat) ApproxEqual(r Quat, eps float64) bool {
	d := math.Abs(q.X*r.X + q.Y*r.Y + q.Z*r.Z + q.W*r.W)
	return 1-d <= eps
}

// Euler holds XYZ-ordered rotation angles in radians: pitch about X, yaw
// about Y and roll about Z.
type Euler struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quat converts the angles to a quaternion.
func (e Euler) Quat() Quat {
	return QuatFromEuler(e)
}

// YawTowards returns the yaw about +Y that turns the local +Z axis at from
// toward to, ignoring any height difference.
func YawTowards(from, to Vec3) float64 {
	return math.Atan2(to.X-from.X, to.Z-from.Z)
}

// LookRotation returns the rotation that turns local +Z toward dir while
// keeping local +X horizontal. dir need not be normalised.
func LookRotation(dir Vec3) Quat {
	d := dir.Normalize()
	if d == (Vec3{}) {
		return Identity
	}
	yaw := math.Atan2(d.X, d.Z)
	pitch := -math.Asin(math.Max(-1, math.Min(1, d.Y)))
	return YawQuat(yaw).Mul(QuatFromAxisAngle(AxisX, pitch))
}

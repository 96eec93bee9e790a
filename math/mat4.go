package math

import "github.com/chewxy/math32"

// Mat4 is stored as four column vectors. A matrix-vector product dots each
// column with the vector, so translation lives in the W slot of the first
// three columns and the perspective divisor comes from the fourth column.
type Mat4 [4]Vec4

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func (m Mat4) Transpose() Mat4 {
	return Mat4{
		{m[0].X, m[1].X, m[2].X, m[3].X},
		{m[0].Y, m[1].Y, m[2].Y, m[3].Y},
		{m[0].Z, m[1].Z, m[2].Z, m[3].Z},
		{m[0].W, m[1].W, m[2].W, m[3].W},
	}
}

func (m Mat4) MulVec(v Vec4) Vec4 {
	return Vec4{
		X: m[0].Dot(v),
		Y: m[1].Dot(v),
		Z: m[2].Dot(v),
		W: m[3].Dot(v),
	}
}

// MulVec3 transforms a point (w = 1) and returns it w-divided.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec(v.ToVec4(1)).WDivide()
}

// Mul returns m·other. The right operand is transposed first so that both
// sides can be walked column by column.
func (m Mat4) Mul(other Mat4) Mat4 {
	t := other.Transpose()
	var result Mat4
	for i := 0; i < 4; i++ {
		result[i] = Vec4{
			X: m[i].Dot(t[0]),
			Y: m[i].Dot(t[1]),
			Z: m[i].Dot(t[2]),
			W: m[i].Dot(t[3]),
		}
	}
	return result
}

// Mat4Perspective builds a right-handed projection whose fourth column is
// (0, 0, 1, 0): the projected w equals the view-space z.
func Mat4Perspective(aspect, fovY, near, far float32) Mat4 {
	tanHalfFov := math32.Tan(Radians(fovY) / 2)
	nf0 := -((near + far) / (near - far))
	nf1 := (2 * far * near) / (near - far)
	return Mat4{
		{1 / (aspect * tanHalfFov), 0, 0, 0},
		{0, 1 / tanHalfFov, 0, 0},
		{0, 0, nf0, nf1},
		{0, 0, 1, 0},
	}
}

func Mat4Translation(translation Vec3) Mat4 {
	return Mat4{
		{1, 0, 0, translation.X},
		{0, 1, 0, translation.Y},
		{0, 0, 1, translation.Z},
		{0, 0, 0, 1},
	}
}

func Mat4Scale(scale Vec3) Mat4 {
	return Mat4{
		{scale.X, 0, 0, 0},
		{0, scale.Y, 0, 0},
		{0, 0, scale.Z, 0},
		{0, 0, 0, 1},
	}
}

// Rotation builders take degrees.

func Mat4RotationX(deg float32) Mat4 {
	s, c := math32.Sincos(Radians(deg))
	return Mat4{
		{1, 0, 0, 0},
		{0, c, -s, 0},
		{0, s, c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4RotationY(deg float32) Mat4 {
	s, c := math32.Sincos(Radians(deg))
	return Mat4{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4RotationZ(deg float32) Mat4 {
	s, c := math32.Sincos(Radians(deg))
	return Mat4{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mat4Rotation composes pitch (X), yaw (Y) and roll (Z) in degrees. X is
// applied first, Z last; model matrices everywhere rely on this order.
func Mat4Rotation(euler Vec3) Mat4 {
	return Mat4RotationZ(euler.Z).Mul(Mat4RotationY(euler.Y)).Mul(Mat4RotationX(euler.X))
}

// Mat4Transform returns translation · rotation · scale.
func Mat4Transform(position, rotation, scale Vec3) Mat4 {
	return Mat4Translation(position).Mul(Mat4Rotation(rotation)).Mul(Mat4Scale(scale))
}

func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

func Degrees(rad float32) float32 {
	return rad * 180 / math32.Pi
}

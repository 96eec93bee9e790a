package math

import "github.com/chewxy/math32"

// Quaternion is only used to bring rotations in from asset formats that
// store them this way; the renderer itself works in Euler degrees.
type Quaternion struct {
	X, Y, Z, W float32
}

func QuaternionIdentity() Quaternion {
	return Quaternion{X: 0, Y: 0, Z: 0, W: 1}
}

func NewQuaternion(x, y, z, w float32) Quaternion {
	return Quaternion{X: x, Y: y, Z: z, W: w}
}

func (q Quaternion) Normalize() Quaternion {
	length := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if length > 0 {
		inv := 1 / length
		return Quaternion{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
	}
	return q
}

// EulerDegrees decomposes q into pitch/yaw/roll degrees such that
// Mat4Rotation(q.EulerDegrees()) reproduces the same rotation.
func (q Quaternion) EulerDegrees() Vec3 {
	q = q.Normalize()

	sinrCosp := 2 * (q.W*q.X + q.Y*q.Z)
	cosrCosp := 1 - 2*(q.X*q.X+q.Y*q.Y)
	pitch := math32.Atan2(sinrCosp, cosrCosp)

	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	var yaw float32
	if math32.Abs(sinp) >= 1 {
		yaw = math32.Copysign(math32.Pi/2, sinp) // gimbal lock
	} else {
		yaw = math32.Asin(sinp)
	}

	sinyCosp := 2 * (q.W*q.Z + q.X*q.Y)
	cosyCosp := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	roll := math32.Atan2(sinyCosp, cosyCosp)

	return Vec3{X: Degrees(pitch), Y: Degrees(yaw), Z: Degrees(roll)}
}

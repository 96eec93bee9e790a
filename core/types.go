package core

import (
	"image/color"

	"software-rasterizer/math"
)

// Color channels are linear floats in [0,1].
type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
)

func (c Color) Lerp(other Color, t float32) Color {
	it := 1 - t
	return Color{
		R: it*c.R + t*other.R,
		G: it*c.G + t*other.G,
		B: it*c.B + t*other.B,
		A: it*c.A + t*other.A,
	}
}

// RGBA converts to 8-bit channels, rounding to nearest.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: toByte(c.R), G: toByte(c.G), B: toByte(c.B), A: toByte(c.A)}
}

// ColorFromRGBA is the inverse of Color.RGBA.
func ColorFromRGBA(c color.RGBA) Color {
	return Color{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

func toByte(v float32) uint8 {
	return uint8(Clamp(v, 0, 1)*255 + 0.5)
}

// Clamp limits x to [lo, hi]. NaN comes back as lo.
func Clamp(x, lo, hi float32) float32 {
	if x > hi {
		return hi
	}
	if !(x >= lo) {
		return lo
	}
	return x
}

// Pose is a mesh's placement in the world. Rotation holds pitch, yaw and
// roll in degrees.
type Pose struct {
	Position math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3
}

func NewPose() Pose {
	return Pose{
		Position: math.Vec3Zero,
		Rotation: math.Vec3Zero,
		Scale:    math.Vec3One,
	}
}

func (p Pose) Matrix() math.Mat4 {
	return math.Mat4Transform(p.Position, p.Rotation, p.Scale)
}

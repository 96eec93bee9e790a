package raster

import (
	"github.com/chewxy/math32"

	"software-rasterizer/core"
	"software-rasterizer/math"
	"software-rasterizer/scene"
)

// TextureSource resolves a draw unit's texture id. A nil result is not an
// error; the triangle is shaded from black.
type TextureSource interface {
	Texture(id int) *scene.Texture
}

// Light is the single point light every fragment is attenuated against.
type Light struct {
	Position math.Vec3
	Tint     core.Color
}

// Rasterizer fills triangles into a FrameBuffer. Fill is safe to call from
// many goroutines at once; all shared state lives behind FrameBuffer.Plot.
type Rasterizer struct {
	target   *FrameBuffer
	textures TextureSource
	light    Light

	// Sampling grid along each triangle edge pair. It matches the buffer
	// resolution and does not adapt to the triangle's on-screen size.
	iterX, iterY int
}

func NewRasterizer(target *FrameBuffer, textures TextureSource, light Light) *Rasterizer {
	return &Rasterizer{
		target:   target,
		textures: textures,
		light:    light,
		iterX:    target.Width,
		iterY:    target.Height,
	}
}

func (r *Rasterizer) Target() *FrameBuffer {
	return r.target
}

// Fill rasterizes one triangle and returns how many fragments passed the
// depth test.
//
// The triangle is walked through its own affine parameterization: alphaX
// slides along edges AB and AC, alphaY blends between the two edge points.
// Each sample is projected, mapped to a pixel (clamped to the buffer) and
// depth-tested, then textured and lit by distance to the point light.
func (r *Rasterizer) Fill(u DrawUnit) int {
	var tex *scene.Texture
	if r.textures != nil {
		tex = r.textures.Texture(u.TextureID)
	}
	mp := u.Projection.Mul(u.Model)

	invX := 1 / float32(r.iterX)
	invY := 1 / float32(r.iterY)
	written := 0

	for i := 0; i < r.iterX; i++ {
		alphaX := float32(i) * invX
		edgeAB := u.A.Lerp(u.B, alphaX)
		edgeAC := u.A.Lerp(u.C, alphaX)
		uvAB := u.UVA.Lerp(u.UVB, alphaX)
		uvAC := u.UVA.Lerp(u.UVC, alphaX)

		for i2 := 0; i2 < r.iterY; i2++ {
			alphaY := float32(i2) * invY
			point := edgeAB.Lerp(edgeAC, alphaY)

			ndc := mp.MulVec3(point)
			x, y := r.target.PixelFor(ndc)
			if !(ndc.Z < r.target.Depth(x, y)) {
				continue
			}

			uv := uvAB.Lerp(uvAC, alphaY)
			world := u.Model.MulVec3(point)
			c := r.shade(tex.Sample(uv.X, uv.Y), world)

			// Another worker may have written a nearer fragment since the
			// peek above; Plot repeats the test under the pixel lock.
			if r.target.Plot(x, y, ndc.Z, c.RGBA()) {
				written++
			}
		}
	}
	return written
}

// shade darkens the sample by the square root of the inverse-square falloff,
// then pulls it towards the light tint by the falloff itself.
func (r *Rasterizer) shade(sample core.Color, world math.Vec3) core.Color {
	att := Attenuation(world, r.light.Position)
	c := core.ColorBlack.Lerp(sample, core.Clamp(math32.Sqrt(att), 0, 1))
	c = c.Lerp(r.light.Tint, core.Clamp(att, 0, 1))
	c.A = 1
	return c
}

// Attenuation is 1 / (1 + d²) for the distance d between p and the light.
func Attenuation(p, light math.Vec3) float32 {
	return 1 / (1 + p.DistanceSqr(light))
}

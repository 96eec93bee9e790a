package raster

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"software-rasterizer/core"
	"software-rasterizer/math"
	"software-rasterizer/scene"
)

func nan() float32 { return math32.NaN() }

type textureMap map[int]*scene.Texture

func (m textureMap) Texture(id int) *scene.Texture { return m[id] }

var (
	triVerts = [3]math.Vec3{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 0, Y: 1}}
	triUVs   = [3]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 1}}
)

func whiteLight(pos math.Vec3) Light {
	return Light{Position: pos, Tint: core.ColorWhite}
}

// triangleAt builds the reference triangle pushed back to depth z.
func triangleAt(tex int, proj math.Mat4, x, z float32) DrawUnit {
	model := math.Mat4Translation(math.Vec3{X: x, Z: z})
	return NewDrawUnit(tex, model, proj, triVerts, triUVs)
}

func squareProjection() math.Mat4 {
	return math.Mat4Perspective(1, 90, 0.01, 100)
}

func litPixels(fb *FrameBuffer) [][2]int {
	var lit [][2]int
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			if fb.Depth(x, y) < FarDepth {
				lit = append(lit, [2]int{x, y})
			}
		}
	}
	return lit
}

func luminance(c color.RGBA) int {
	return int(c.R) + int(c.G) + int(c.B)
}

func TestFillSingleTriangle(t *testing.T) {
	fb := NewFrameBuffer(64, 64, core.ColorBlack)
	textures := textureMap{0: scene.NewSolidTexture("white", 255, 255, 255, 255)}
	r := NewRasterizer(fb, textures, whiteLight(math.Vec3{Z: 5}))

	written := r.Fill(triangleAt(0, squareProjection(), 0, 2))
	lit := litPixels(fb)
	require.NotEmpty(t, lit)
	assert.Equal(t, len(lit), written, "every covered pixel was written exactly once")

	var sumX, sumY float64
	for _, p := range lit {
		sumX += float64(p[0])
		sumY += float64(p[1])
		assert.NotEqual(t, 0, luminance(fb.At(p[0], p[1])), "lit pixel is not black")
	}
	meanX := sumX / float64(len(lit))
	meanY := sumY / float64(len(lit))
	assert.InDelta(t, 32, meanX, 2, "horizontally centered")
	assert.Greater(t, meanY, 32.0, "apex up means most coverage is in the lower image half")

	// Nothing outside the projected bounds [-0.5,0.5]² is touched.
	for _, p := range lit {
		assert.GreaterOrEqual(t, p[0], 15)
		assert.LessOrEqual(t, p[0], 48)
		assert.GreaterOrEqual(t, p[1], 14)
		assert.LessOrEqual(t, p[1], 48)
	}

	// The light sits straight in front of the triangle's center, so
	// brightness falls off towards the corners.
	cx, cy := fb.PixelFor(math.Vec3{})
	far, farDist := lit[0], 0
	for _, p := range lit {
		dx, dy := p[0]-cx, p[1]-cy
		if d := dx*dx + dy*dy; d > farDist {
			far, farDist = p, d
		}
	}
	assert.Greater(t, luminance(fb.At(cx, cy)), luminance(fb.At(far[0], far[1])))
}

func TestFillDepthOrderIndependent(t *testing.T) {
	proj := squareProjection()
	textures := textureMap{
		1: scene.NewSolidTexture("red", 255, 0, 0, 255),
		2: scene.NewSolidTexture("green", 0, 255, 0, 255),
	}
	near := triangleAt(1, proj, 0, 2)
	far := triangleAt(2, proj, 0, 4)

	render := func(units ...DrawUnit) *FrameBuffer {
		fb := NewFrameBuffer(64, 64, core.ColorBlack)
		r := NewRasterizer(fb, textures, whiteLight(math.Vec3{Z: -5}))
		for _, u := range units {
			r.Fill(u)
		}
		return fb
	}

	alone := render(near)
	nearFirst := render(near, far)
	farFirst := render(far, near)

	cx, cy := alone.PixelFor(math.Vec3{})
	want := alone.At(cx, cy)
	assert.Greater(t, want.R, want.G)
	assert.Equal(t, want, nearFirst.At(cx, cy))
	assert.Equal(t, want, farFirst.At(cx, cy))
	assert.Equal(t, nearFirst.Image().Pix, farFirst.Image().Pix)
	assert.Equal(t, alone.Depth(cx, cy), farFirst.Depth(cx, cy))
}

func TestFillMissingTextureShadesFromBlack(t *testing.T) {
	fb := NewFrameBuffer(32, 32, core.ColorBlue)
	light := Light{Position: math.Vec3{Z: 5}, Tint: core.ColorBlack}
	r := NewRasterizer(fb, textureMap{}, light)

	require.Positive(t, r.Fill(triangleAt(7, squareProjection(), 0, 2)))
	cx, cy := fb.PixelFor(math.Vec3{})
	assert.Less(t, fb.Depth(cx, cy), FarDepth)
	assert.Equal(t, core.ColorBlack.RGBA(), fb.At(cx, cy))

	// Same result with no texture source at all.
	fb2 := NewFrameBuffer(32, 32, core.ColorBlue)
	NewRasterizer(fb2, nil, light).Fill(triangleAt(7, squareProjection(), 0, 2))
	assert.Equal(t, fb.Image().Pix, fb2.Image().Pix)
}

func TestFillClampsOffscreenTriangles(t *testing.T) {
	fb := NewFrameBuffer(16, 16, core.ColorBlack)
	r := NewRasterizer(fb, nil, whiteLight(math.Vec3{}))

	// Far off to the right: every fragment lands on the clamped right column.
	r.Fill(triangleAt(0, squareProjection(), 50, 2))
	for _, p := range litPixels(fb) {
		assert.Equal(t, fb.Width-1, p[0])
	}
}

func TestAttenuation(t *testing.T) {
	assert.Equal(t, float32(1), Attenuation(math.Vec3One, math.Vec3One))
	assert.InDelta(t, 0.5, Attenuation(math.Vec3{}, math.Vec3{X: 1}), 1e-6)
	assert.InDelta(t, 0.1, Attenuation(math.Vec3{Z: 2}, math.Vec3{Z: 5}), 1e-6)
}

func TestFrameIsIdempotent(t *testing.T) {
	proj := squareProjection()
	fb := NewFrameBuffer(48, 48, core.ColorBlack)
	checker := scene.NewCheckerTexture("checker", 8, 2,
		color.RGBA{255, 255, 255, 255}, color.RGBA{40, 40, 40, 255})
	r := NewRasterizer(fb, textureMap{0: checker}, whiteLight(math.Vec3{X: 1, Z: 4}))

	pool := NewPool(r, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	units := []DrawUnit{
		triangleAt(0, proj, -0.5, 3),
		triangleAt(0, proj, 0.5, 5),
		NewDrawUnit(0, math.Mat4Transform(math.Vec3{Z: 6}, math.Vec3{Y: 20}, math.Vec3One), proj, triVerts, triUVs),
	}

	frame := func() []byte {
		fb.Clear()
		for _, u := range units {
			pool.Submit(u)
		}
		res := pool.Wait(context.Background())
		require.Equal(t, len(units), res.Completed)
		return fb.Snapshot().Pix
	}

	first := frame()
	second := frame()
	assert.Equal(t, first, second)
}

func TestPoolBarrierCounts(t *testing.T) {
	fb := NewFrameBuffer(32, 32, core.ColorBlack)
	pool := NewPool(NewRasterizer(fb, nil, whiteLight(math.Vec3{})), 3)
	assert.Equal(t, 3, pool.Workers())
	pool.Start(context.Background())
	defer pool.Stop()

	proj := squareProjection()
	for frame := 0; frame < 3; frame++ {
		n := 5 + frame*7
		for i := 0; i < n; i++ {
			pool.Submit(triangleAt(0, proj, float32(i%5)-2, 3+float32(i%3)))
		}
		res := pool.Wait(context.Background())
		assert.Equal(t, FrameResult{Enqueued: n, Completed: n}, res)
	}
}

func TestPoolEmptyFrame(t *testing.T) {
	bg := core.Color{R: 0.2, G: 0.3, B: 0.4, A: 1}
	fb := NewFrameBuffer(8, 8, bg)
	pool := NewPool(NewRasterizer(fb, nil, whiteLight(math.Vec3{})), 2)
	pool.Start(context.Background())
	defer pool.Stop()

	done := make(chan FrameResult)
	go func() { done <- pool.Wait(context.Background()) }()
	select {
	case res := <-done:
		assert.Equal(t, FrameResult{}, res)
	case <-time.After(time.Second):
		t.Fatal("empty frame did not return")
	}
	assert.Empty(t, litPixels(fb))
	assert.Equal(t, bg.RGBA(), fb.At(4, 4))
}

func TestPoolDeadlineSkipsQueuedUnits(t *testing.T) {
	fb := NewFrameBuffer(8, 8, core.ColorBlack)
	// Never started: nothing drains the queue but the deadline.
	pool := NewPool(NewRasterizer(fb, nil, whiteLight(math.Vec3{})), 1)
	for i := 0; i < 4; i++ {
		pool.Submit(triangleAt(0, squareProjection(), 0, 2))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	res := pool.Wait(ctx)
	assert.Equal(t, FrameResult{Enqueued: 4, Skipped: 4}, res)
	assert.Empty(t, litPixels(fb))
}

func TestPoolStop(t *testing.T) {
	fb := NewFrameBuffer(8, 8, core.ColorBlack)
	pool := NewPool(NewRasterizer(fb, nil, whiteLight(math.Vec3{})), 2)
	pool.Start(context.Background())
	require.NoError(t, pool.Stop())

	pool.Submit(triangleAt(0, squareProjection(), 0, 2))
	assert.Equal(t, FrameResult{Skipped: 1}, pool.Wait(context.Background()))
}

func TestPoolStopsWithContext(t *testing.T) {
	fb := NewFrameBuffer(8, 8, core.ColorBlack)
	pool := NewPool(NewRasterizer(fb, nil, whiteLight(math.Vec3{})), 2)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	cancel()

	done := make(chan error)
	go func() { done <- pool.Stop() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("workers did not exit")
	}
}

func BenchmarkFill(b *testing.B) {
	fb := NewFrameBuffer(80, 60, core.ColorBlack)
	tex := scene.NewCheckerTexture("checker", 64, 8,
		color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255})
	r := NewRasterizer(fb, textureMap{0: tex}, whiteLight(math.Vec3{X: 1, Z: 4}))
	u := triangleAt(0, math.Mat4Perspective(fb.Aspect(), 45, 0.01, 100), 0, 3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fb.Clear()
		r.Fill(u)
	}
}

package raster

import (
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"software-rasterizer/core"
	"software-rasterizer/math"
)

func TestFrameBufferClear(t *testing.T) {
	bg := core.Color{R: 0, G: 0, B: 1, A: 1}
	fb := NewFrameBuffer(4, 3, bg)
	assert.Equal(t, FarDepth, fb.Depth(3, 2))
	assert.Equal(t, bg.RGBA(), fb.At(0, 0))

	require.True(t, fb.Plot(1, 1, 0.5, color.RGBA{255, 0, 0, 255}))
	fb.Clear()
	assert.Equal(t, FarDepth, fb.Depth(1, 1))
	assert.Equal(t, bg.RGBA(), fb.At(1, 1))
}

func TestPlotCloserWins(t *testing.T) {
	fb := NewFrameBuffer(2, 2, core.ColorBlack)
	near := color.RGBA{255, 0, 0, 255}
	far := color.RGBA{0, 255, 0, 255}

	assert.True(t, fb.Plot(0, 0, 0.8, far))
	assert.True(t, fb.Plot(0, 0, 0.2, near))
	assert.False(t, fb.Plot(0, 0, 0.5, far))
	assert.False(t, fb.Plot(0, 0, 0.2, far), "ties keep the first write")
	assert.Equal(t, near, fb.At(0, 0))
	assert.Equal(t, float32(0.2), fb.Depth(0, 0))

	assert.False(t, fb.Plot(1, 1, FarDepth, near), "far sentinel itself is never nearer")
	assert.False(t, fb.Plot(1, 1, float32(nan()), near))
	assert.Equal(t, FarDepth, fb.Depth(1, 1))
}

func TestPlotConcurrentSamePixel(t *testing.T) {
	fb := NewFrameBuffer(1, 1, core.ColorBlack)
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := float32(i+1) / 100
			fb.Plot(0, 0, d, color.RGBA{uint8(i), 0, 0, 255})
		}(i)
	}
	wg.Wait()

	// Whatever the interleaving, the nearest write owns both planes.
	assert.Equal(t, float32(0.01), fb.Depth(0, 0))
	assert.Equal(t, uint8(0), fb.At(0, 0).R)
}

func TestMagnify(t *testing.T) {
	fb := NewFrameBuffer(2, 1, core.ColorBlack)
	red := color.RGBA{255, 0, 0, 255}
	fb.Plot(1, 0, 0, red)

	img := fb.Magnify(3)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
	assert.Equal(t, red, img.RGBAAt(3, 2))
	assert.Equal(t, red, img.RGBAAt(5, 0))
	assert.Equal(t, core.ColorBlack.RGBA(), img.RGBAAt(2, 1))

	snap := fb.Magnify(1)
	assert.Equal(t, fb.Image().Pix, snap.Pix)
	snap.Pix[0] = 7
	assert.NotEqual(t, fb.Image().Pix[0], snap.Pix[0], "snapshot is a copy")
}

func TestPixelFor(t *testing.T) {
	fb := NewFrameBuffer(10, 8, core.ColorBlack)

	x, y := fb.PixelFor(math.Vec3{X: -1, Y: -1})
	assert.Equal(t, 0, x)
	assert.Equal(t, 7, y, "device bottom is the last image row")

	x, y = fb.PixelFor(math.Vec3{X: 0.99, Y: 0.99})
	assert.Equal(t, 9, x)
	assert.Equal(t, 0, y)

	// Outside the device square clamps to the edges.
	x, y = fb.PixelFor(math.Vec3{X: 5, Y: -5})
	assert.Equal(t, 9, x)
	assert.Equal(t, 7, y)
}

func TestScreenDeviceRoundTrip(t *testing.T) {
	fb := NewFrameBuffer(80, 60, core.ColorBlack)
	proj := math.Mat4Perspective(fb.Aspect(), 45, 0.01, 100)
	model := math.Mat4Transform(math.NewVec3(0.3, -0.2, 4), math.NewVec3(10, 20, 30), math.Vec3One)
	mp := proj.Mul(model)

	for _, v := range []math.Vec3{{X: 0.5, Y: 0.25}, {X: -1, Y: 1, Z: 0.5}, {}} {
		ndc := mp.MulVec3(v)
		back := fb.DevicePoint(fb.ScreenPoint(ndc))
		assert.InDelta(t, ndc.X, back.X, 1e-5)
		assert.InDelta(t, ndc.Y, back.Y, 1e-5)
	}
}

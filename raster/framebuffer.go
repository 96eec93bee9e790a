package raster

import (
	"image"
	"image/color"
	"sync"

	xdraw "golang.org/x/image/draw"

	"software-rasterizer/core"
	"software-rasterizer/math"
)

// FarDepth is the value every depth cell holds after Clear. Normalized
// device z nearer than this wins.
const FarDepth float32 = 1.0

// FrameBuffer is the shared render target: an RGBA color image (row 0 at
// the top) and a depth plane of the same size. Every pixel has its own lock
// so workers on different triangles only contend when they hit the same
// pixel.
type FrameBuffer struct {
	Width  int
	Height int

	color      *image.RGBA
	depth      []float32
	locks      []sync.Mutex
	background color.RGBA
}

func NewFrameBuffer(width, height int, background core.Color) *FrameBuffer {
	fb := &FrameBuffer{
		Width:      width,
		Height:     height,
		color:      image.NewRGBA(image.Rect(0, 0, width, height)),
		depth:      make([]float32, width*height),
		locks:      make([]sync.Mutex, width*height),
		background: background.RGBA(),
	}
	fb.Clear()
	return fb
}

// Clear resets depth to FarDepth and color to the background. It must not
// run while workers are writing.
func (fb *FrameBuffer) Clear() {
	for i := range fb.depth {
		fb.depth[i] = FarDepth
	}
	pix := fb.color.Pix
	bg := fb.background
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = bg.R
		pix[i+1] = bg.G
		pix[i+2] = bg.B
		pix[i+3] = bg.A
	}
}

// Plot writes c at (x, y) if depth is strictly nearer than what is stored
// there. The compare and both writes happen under the pixel's lock, so depth
// and color never disagree. Reports whether the fragment was kept.
func (fb *FrameBuffer) Plot(x, y int, depth float32, c color.RGBA) bool {
	i := y*fb.Width + x
	fb.locks[i].Lock()
	defer fb.locks[i].Unlock()

	if !(depth < fb.depth[i]) {
		return false
	}
	fb.depth[i] = depth
	fb.color.SetRGBA(x, y, c)
	return true
}

func (fb *FrameBuffer) Depth(x, y int) float32 {
	i := y*fb.Width + x
	fb.locks[i].Lock()
	defer fb.locks[i].Unlock()
	return fb.depth[i]
}

func (fb *FrameBuffer) At(x, y int) color.RGBA {
	i := y*fb.Width + x
	fb.locks[i].Lock()
	defer fb.locks[i].Unlock()
	return fb.color.RGBAAt(x, y)
}

func (fb *FrameBuffer) Background() color.RGBA {
	return fb.background
}

func (fb *FrameBuffer) Aspect() float32 {
	return float32(fb.Width) / float32(fb.Height)
}

// Image exposes the live color buffer. Only read it between frames.
func (fb *FrameBuffer) Image() *image.RGBA {
	return fb.color
}

func (fb *FrameBuffer) Snapshot() *image.RGBA {
	img := image.NewRGBA(fb.color.Rect)
	copy(img.Pix, fb.color.Pix)
	return img
}

// Magnify scales the color buffer up by divisor with nearest-neighbor
// filtering, which is how the frame is shown on the display surface.
func (fb *FrameBuffer) Magnify(divisor int) *image.RGBA {
	if divisor <= 1 {
		return fb.Snapshot()
	}
	dst := image.NewRGBA(image.Rect(0, 0, fb.Width*divisor, fb.Height*divisor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), fb.color, fb.color.Bounds(), xdraw.Src, nil)
	return dst
}

// ScreenPoint maps device x, y in [-1, 1] onto continuous buffer
// coordinates with y pointing up, before any clamping.
func (fb *FrameBuffer) ScreenPoint(ndc math.Vec3) math.Vec2 {
	return math.Vec2{
		X: (ndc.X + 1) * 0.5 * float32(fb.Width),
		Y: (ndc.Y + 1) * 0.5 * float32(fb.Height),
	}
}

// DevicePoint inverts ScreenPoint.
func (fb *FrameBuffer) DevicePoint(p math.Vec2) math.Vec2 {
	return math.Vec2{
		X: p.X/(0.5*float32(fb.Width)) - 1,
		Y: p.Y/(0.5*float32(fb.Height)) - 1,
	}
}

// PixelFor returns the image column and row a device coordinate lands on.
// Coordinates outside the buffer are clamped to its edges.
func (fb *FrameBuffer) PixelFor(ndc math.Vec3) (x, y int) {
	p := fb.ScreenPoint(ndc)
	x = int(core.Clamp(p.X, 0, float32(fb.Width-1)))
	up := int(core.Clamp(p.Y, 0, float32(fb.Height-1)))
	return x, fb.Height - up - 1
}

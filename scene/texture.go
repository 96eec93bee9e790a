package scene

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/chewxy/math32"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"software-rasterizer/core"
)

// Texture holds CPU-side pixel data sampled by the rasterizer.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	Pixels []byte
}

// LoadTexture reads a PNG, JPEG, BMP, TIFF or WebP file from disk.
// The image is converted to RGBA8 automatically.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	tex, err := DecodeTexture(path, f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return tex, nil
}

func DecodeTexture(name string, r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return NewTextureFromImage(name, img), nil
}

func decodeImageBytes(name string, data []byte) (*Texture, error) {
	return DecodeTexture(name, bytes.NewReader(data))
}

func NewTextureFromImage(name string, img image.Image) *Texture {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)
	return &Texture{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}
}

// NewSolidTexture creates a 1x1 texture with the given RGBA color values (0–255).
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: []byte{r, g, b, a},
	}
}

// NewCheckerTexture alternates two colors in cells of the given size.
func NewCheckerTexture(name string, size, cell int, c0, c1 color.RGBA) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, c0)
			} else {
				img.SetRGBA(x, y, c1)
			}
		}
	}
	return &Texture{Name: name, Width: size, Height: size, Pixels: img.Pix}
}

// At returns the texel at column x, row y counted from the top.
func (t *Texture) At(x, y int) core.Color {
	i := (y*t.Width + x) * 4
	p := t.Pixels[i : i+4 : i+4]
	return core.ColorFromRGBA(color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]})
}

// Sample does a nearest-neighbor lookup. UVs are clamped to the edge texels
// and v runs bottom-to-top. A nil texture samples black.
func (t *Texture) Sample(u, v float32) core.Color {
	if t == nil || t.Width == 0 || t.Height == 0 {
		return core.ColorBlack
	}
	x := int(core.Clamp(math32.Ceil(u*float32(t.Width)), 0, float32(t.Width-1)))
	y := int(core.Clamp(math32.Ceil(v*float32(t.Height)), 0, float32(t.Height-1)))
	return t.At(x, t.Height-y-1)
}

package renderer

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"software-rasterizer/raster"
)

// PNGPresenter writes every presented frame, magnified by Divisor, to
// Dir/frame_NNNNN.png.
type PNGPresenter struct {
	Dir     string
	Divisor int

	frame int
}

func NewPNGPresenter(dir string, divisor int) (*PNGPresenter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &PNGPresenter{Dir: dir, Divisor: max(1, divisor)}, nil
}

func (p *PNGPresenter) Present(fb *raster.FrameBuffer) error {
	path := filepath.Join(p.Dir, fmt.Sprintf("frame_%05d.png", p.frame))
	p.frame++

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := png.Encode(f, fb.Magnify(p.Divisor)); err != nil {
		f.Close()
		return fmt.Errorf("encode %q: %w", path, err)
	}
	return f.Close()
}

// Written is the number of frames saved so far.
func (p *PNGPresenter) Written() int {
	return p.frame
}

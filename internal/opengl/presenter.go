package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"software-rasterizer/raster"
)

// Surface reports the drawable size of the window the GL context belongs to.
type Surface interface {
	GetFramebufferSize() (int, int)
}

// Presenter shows a software frame buffer in the current GL context. The
// buffer is uploaded into a texture attached to a read framebuffer and blitted
// onto the window with GL_NEAREST, which performs the magnification.
//
// All methods must run on the thread that owns the context.
type Presenter struct {
	surface Surface
	texture uint32
	fbo     uint32
	width   int
	height  int
}

func NewPresenter(surface Surface) (*Presenter, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	p := &Presenter{surface: surface}
	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &p.fbo)
	return p, nil
}

// Version is the driver's GL version string.
func (p *Presenter) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (p *Presenter) Present(fb *raster.FrameBuffer) error {
	img := fb.Image()
	if len(img.Pix) == 0 {
		return nil
	}

	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if fb.Width != p.width || fb.Height != p.height {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
			int32(fb.Width), int32(fb.Height), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
		p.width, p.height = fb.Width, fb.Height

		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, p.fbo)
		gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
			gl.TEXTURE_2D, p.texture, 0)
		if s := gl.CheckFramebufferStatus(gl.READ_FRAMEBUFFER); s != gl.FRAMEBUFFER_COMPLETE {
			gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
			gl.BindTexture(gl.TEXTURE_2D, 0)
			return fmt.Errorf("present framebuffer incomplete (0x%X)", s)
		}
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0,
			int32(fb.Width), int32(fb.Height),
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, p.fbo)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	// Image row 0 is the top, GL row 0 the bottom: flip on the way out.
	w, h := p.surface.GetFramebufferSize()
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.BlitFramebuffer(
		0, 0, int32(fb.Width), int32(fb.Height),
		0, int32(h), int32(w), 0,
		gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return nil
}

func (p *Presenter) Destroy() {
	if p.fbo != 0 {
		gl.DeleteFramebuffers(1, &p.fbo)
		p.fbo = 0
	}
	if p.texture != 0 {
		gl.DeleteTextures(1, &p.texture)
		p.texture = 0
	}
}

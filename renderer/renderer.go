package renderer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"software-rasterizer/core"
	"software-rasterizer/math"
	"software-rasterizer/raster"
	"software-rasterizer/scene"
)

// Presenter receives the finished frame before the buffer is cleared. It
// must not retain fb past the call.
type Presenter interface {
	Present(fb *raster.FrameBuffer) error
}

// Window is the part of opengl.Window the render loop drives.
type Window interface {
	PollEvents()
	ShouldClose() bool
	SwapBuffers()
}

// UpdateFunc runs once per frame after presentation with the seconds
// elapsed since the previous frame. The workers are idle while it runs, so
// it may freely mutate the scene.
type UpdateFunc func(delta float32)

type FrameStats struct {
	Frame     int
	Triangles int
	Result    raster.FrameResult
	Delta     time.Duration
}

// Renderer turns a scene into frames: one draw unit per visible triangle,
// rasterized by the worker pool, presented, then cleared for the next frame.
type Renderer struct {
	cfg       core.Config
	scene     *scene.Scene
	presenter Presenter
	log       *slog.Logger

	buffer *raster.FrameBuffer
	raster *raster.Rasterizer
	pool   *raster.Pool
	update UpdateFunc

	frames int
	last   time.Time
}

func New(cfg core.Config, s *scene.Scene, presenter Presenter, logger *slog.Logger) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("renderer: nil scene")
	}
	if logger == nil {
		logger = slog.Default()
	}

	w, h := cfg.BufferSize()
	buffer := raster.NewFrameBuffer(w, h, cfg.Background)
	r := raster.NewRasterizer(buffer, s.Textures, raster.Light{
		Position: cfg.Light.Position,
		Tint:     cfg.Light.Tint,
	})

	return &Renderer{
		cfg:       cfg,
		scene:     s,
		presenter: presenter,
		log:       logger,
		buffer:    buffer,
		raster:    r,
		pool:      raster.NewPool(r, cfg.Workers),
	}, nil
}

// Start launches the worker pool. Workers exit when ctx ends or on Stop.
func (r *Renderer) Start(ctx context.Context) {
	r.pool.Start(ctx)
	r.last = time.Now()
	r.log.Info("renderer started",
		"workers", r.pool.Workers(),
		"buffer_width", r.buffer.Width,
		"buffer_height", r.buffer.Height,
		"divisor", r.cfg.ResolutionDivisor)
}

func (r *Renderer) Stop() error {
	if err := r.pool.Stop(); err != nil {
		return fmt.Errorf("stop workers: %w", err)
	}
	r.log.Info("renderer stopped", "frames", r.frames)
	return nil
}

func (r *Renderer) SetUpdateFunc(fn UpdateFunc) {
	r.update = fn
}

func (r *Renderer) Buffer() *raster.FrameBuffer {
	return r.buffer
}

func (r *Renderer) Frames() int {
	return r.frames
}

// Projection is rebuilt from the buffer aspect and the camera settings.
func (r *Renderer) Projection() math.Mat4 {
	cam := r.cfg.Camera
	return math.Mat4Perspective(r.buffer.Aspect(), cam.FieldOfView, cam.Near, cam.Far)
}

// RenderFrame produces one frame. It returns once every triangle has been
// rasterized (or skipped by the frame deadline), the result presented and
// the buffers cleared.
func (r *Renderer) RenderFrame(ctx context.Context) (FrameStats, error) {
	proj := r.Projection()
	stats := FrameStats{Frame: r.frames}

	for _, m := range r.scene.VisibleMeshes() {
		model := m.ModelMatrix()
		for i := 0; i < m.TriangleCount(); i++ {
			tri := m.Triangle(i)
			r.pool.Submit(raster.NewDrawUnit(m.TextureID, model, proj, tri.Positions, tri.UVs))
			stats.Triangles++
		}
	}

	waitCtx := ctx
	if r.cfg.FrameDeadline > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, r.cfg.FrameDeadline)
		defer cancel()
	}
	stats.Result = r.pool.Wait(waitCtx)
	if stats.Result.Skipped > 0 {
		r.log.Warn("frame incomplete",
			"frame", stats.Frame,
			"skipped", stats.Result.Skipped,
			"completed", stats.Result.Completed)
	}

	var err error
	if r.presenter != nil {
		err = r.presenter.Present(r.buffer)
	}
	r.buffer.Clear()
	if err != nil {
		return stats, fmt.Errorf("present frame %d: %w", stats.Frame, err)
	}

	now := time.Now()
	stats.Delta = now.Sub(r.last)
	r.last = now
	r.frames++

	if r.update != nil {
		r.update(float32(stats.Delta.Seconds()))
	}
	return stats, nil
}

// Run renders at the configured frame rate until ctx ends, the window asks
// to close or MaxFrames frames have been produced. win may be nil for
// headless rendering. Frame rate is logged once per second.
func (r *Renderer) Run(ctx context.Context, win Window) error {
	ticker := time.NewTicker(r.cfg.FrameInterval())
	defer ticker.Stop()

	fpsStart := time.Now()
	fpsFrames := 0

	for {
		if win != nil {
			win.PollEvents()
			if win.ShouldClose() {
				return nil
			}
		}

		stats, err := r.RenderFrame(ctx)
		if err != nil {
			return err
		}
		if win != nil {
			win.SwapBuffers()
		}

		fpsFrames++
		if elapsed := time.Since(fpsStart); elapsed >= time.Second {
			r.log.Info("fps",
				"fps", float64(fpsFrames)/elapsed.Seconds(),
				"triangles", stats.Triangles)
			fpsStart = time.Now()
			fpsFrames = 0
		}

		if r.cfg.MaxFrames > 0 && r.frames >= r.cfg.MaxFrames {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"software-rasterizer/core"
	"software-rasterizer/internal/opengl"
	"software-rasterizer/renderer"
	"software-rasterizer/scene"
)

type options struct {
	configPath  string
	headless    bool
	frames      int
	outDir      string
	meshPath    string
	texturePath string
	verbose     bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "YAML config file layered over the defaults")
	flag.BoolVar(&o.headless, "headless", false, "render without a window")
	flag.IntVar(&o.frames, "frames", 0, "stop after this many frames (0 = config value)")
	flag.StringVar(&o.outDir, "out", "", "write every frame as PNG into this directory")
	flag.StringVar(&o.meshPath, "mesh", "", "mesh file (.obj, .stl, .gltf, .glb) replacing the cube")
	flag.StringVar(&o.texturePath, "texture", "", "image used as the mesh texture")
	flag.BoolVar(&o.verbose, "v", false, "debug logging")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(opts); err != nil {
		slog.Error("demo failed", "err", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg := core.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := core.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.frames > 0 {
		cfg.MaxFrames = opts.frames
	}

	s, subject, err := buildScene(cfg.TextureCapacity, opts.meshPath, opts.texturePath)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	slog.Info("scene ready", "meshes", len(s.Meshes), "triangles", s.TriangleCount(), "textures", s.Textures.Loaded())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var window *opengl.Window
	var presenter renderer.Presenter
	if opts.headless {
		if opts.outDir != "" {
			p, err := renderer.NewPNGPresenter(opts.outDir, cfg.ResolutionDivisor)
			if err != nil {
				return err
			}
			presenter = p
		}
	} else {
		window, err = opengl.NewWindow(cfg.Window)
		if err != nil {
			return err
		}
		defer window.Destroy()
		window.SetKeyCallback(func(key int) {
			if key == opengl.KeyEscape {
				window.SetShouldClose(true)
			}
		})

		p, err := opengl.NewPresenter(window)
		if err != nil {
			return err
		}
		defer p.Destroy()
		slog.Info("opengl ready", "version", p.Version())
		presenter = p
	}

	r, err := renderer.New(cfg, s, presenter, slog.Default())
	if err != nil {
		return err
	}
	r.SetUpdateFunc(spin(subject))
	r.Start(ctx)
	defer r.Stop()

	if window == nil {
		return r.Run(ctx, nil)
	}
	return r.Run(ctx, window)
}

// spin turns the subject about Y and Z over time with a fixed 45° pitch.
func spin(meshes []*scene.Mesh) renderer.UpdateFunc {
	var t float32
	return func(delta float32) {
		t += delta
		for _, m := range meshes {
			m.SetRotation(45, 90*t, 45*t)
		}
	}
}

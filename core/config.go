package core

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"software-rasterizer/math"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// MaxFrameRate caps the render loop cadence; the frame interval must stay a
// positive duration for the ticker.
const MaxFrameRate = 1000

type CameraConfig struct {
	FieldOfView float32 `yaml:"fov"` // vertical, degrees
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
}

// LightConfig describes the single point light used for attenuation.
type LightConfig struct {
	Position math.Vec3 `yaml:"position"`
	Tint     Color     `yaml:"tint"`
}

type Config struct {
	Window WindowConfig `yaml:"window"`
	Camera CameraConfig `yaml:"camera"`
	Light  LightConfig  `yaml:"light"`

	// ResolutionDivisor shrinks the internal buffers relative to the window;
	// presentation magnifies them back by the same factor.
	ResolutionDivisor int `yaml:"resolution_divisor"`

	FrameRate int `yaml:"frame_rate"`
	// Workers is the rasterization pool size; 0 picks one per spare core.
	Workers int `yaml:"workers"`
	// FrameDeadline bounds the wait for a frame's triangles. Anything still
	// queued when it expires is skipped for that frame. 0 disables it.
	FrameDeadline time.Duration `yaml:"frame_deadline"`
	// MaxFrames stops the render loop after this many frames; 0 runs forever.
	MaxFrames int `yaml:"max_frames"`

	Background      Color `yaml:"background"`
	TextureCapacity int   `yaml:"texture_capacity"`
}

func DefaultConfig() Config {
	return Config{
		Window: DefaultWindowConfig(),
		Camera: CameraConfig{
			FieldOfView: 45,
			Near:        0.01,
			Far:         100,
		},
		Light: LightConfig{
			Position: math.Vec3{X: 1, Y: 0, Z: 4},
			Tint:     Color{R: 1, G: 0.95, B: 0.85, A: 1},
		},
		ResolutionDivisor: 8,
		FrameRate:         60,
		Background:        ColorBlack,
		TextureCapacity:   32,
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.ResolutionDivisor <= 0:
		return fmt.Errorf("%w: resolution divisor %d", ErrInvalidConfig, c.ResolutionDivisor)
	case c.Window.Width < c.ResolutionDivisor || c.Window.Height < c.ResolutionDivisor:
		return fmt.Errorf("%w: resolution divisor %d larger than window", ErrInvalidConfig, c.ResolutionDivisor)
	case c.Camera.FieldOfView <= 0 || c.Camera.FieldOfView >= 180:
		return fmt.Errorf("%w: field of view %v", ErrInvalidConfig, c.Camera.FieldOfView)
	case c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far:
		return fmt.Errorf("%w: near %v / far %v", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	case c.FrameRate <= 0 || c.FrameRate > MaxFrameRate:
		return fmt.Errorf("%w: frame rate %d outside 1..%d", ErrInvalidConfig, c.FrameRate, MaxFrameRate)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	case c.FrameDeadline < 0:
		return fmt.Errorf("%w: frame deadline %v", ErrInvalidConfig, c.FrameDeadline)
	case c.TextureCapacity <= 0:
		return fmt.Errorf("%w: texture capacity %d", ErrInvalidConfig, c.TextureCapacity)
	}
	return nil
}

// BufferSize is the internal render resolution.
func (c Config) BufferSize() (int, int) {
	return c.Window.Width / c.ResolutionDivisor, c.Window.Height / c.ResolutionDivisor
}

func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

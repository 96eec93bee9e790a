package core

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:  640,
		Height: 480,
		Title:  "Software Renderer",
		VSync:  true,
	}
}

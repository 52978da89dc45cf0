package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up next to the executable's working directory
const DefaultPath = "kube.yaml"

type WindowConfig struct {
	Width  int32  `yaml:"width"`
	Height int32  `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type RendererConfig struct {
	ShaderDir       string  `yaml:"shader_dir"`
	Wireframe       bool    `yaml:"wireframe"`
	HotReload       bool    `yaml:"hot_reload"`
	RotateAngle     float32 `yaml:"rotate_angle"`
	ProfilingWindow float64 `yaml:"profiling_window"` // seconds
	Fov             float32 `yaml:"fov"`              // degrees
}

type TextConfig struct {
	// FontPath of a TTF/OTF file, empty for the bundled Go Regular font
	FontPath  string  `yaml:"font_path"`
	PixelSize float64 `yaml:"pixel_size"`

	// FallbackFont uses the bundled Go font when FontPath cannot be read
	FallbackFont bool `yaml:"fallback_font"`
}

type TerrainConfig struct {
	ChunksX   int     `yaml:"chunks_x"`
	ChunksY   int     `yaml:"chunks_y"`
	ChunksZ   int     `yaml:"chunks_z"`
	ChunkSize int     `yaml:"chunk_size"`
	Seed      int64   `yaml:"seed"`
	Alpha     float64 `yaml:"alpha"`
	Beta      float64 `yaml:"beta"`
	Octaves   int32   `yaml:"octaves"`
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
	BaseLevel int     `yaml:"base_level"`
}

type Config struct {
	LogLevel string         `yaml:"log_level"`
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Text     TextConfig     `yaml:"text"`
	Terrain  TerrainConfig  `yaml:"terrain"`
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		LogLevel: "info",
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Kube",
			VSync:  true,
		},
		Renderer: RendererConfig{
			ShaderDir:       "assets/shaders",
			ProfilingWindow: 0.3,
			Fov:             45,
		},
		Text: TextConfig{
			PixelSize:    48,
			FallbackFont: true,
		},
		Terrain: TerrainConfig{
			ChunksX:   8,
			ChunksY:   2,
			ChunksZ:   8,
			ChunkSize: 16,
			Seed:      1337,
			Alpha:     2,
			Beta:      2,
			Octaves:   3,
			Frequency: 0.01,
			Amplitude: 12,
			BaseLevel: 8,
		},
	}
}

// Load reads a YAML config from path on top of the defaults. A missing file
// is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Renderer.ProfilingWindow <= 0 {
		return fmt.Errorf("profiling window must be positive, got %v", c.Renderer.ProfilingWindow)
	}
	if c.Renderer.Fov <= 0 || c.Renderer.Fov >= 180 {
		return fmt.Errorf("field of view must be within (0, 180) degrees, got %v", c.Renderer.Fov)
	}
	if c.Text.PixelSize <= 0 {
		return fmt.Errorf("font pixel size must be positive, got %v", c.Text.PixelSize)
	}
	t := c.Terrain
	if t.ChunksX <= 0 || t.ChunksY <= 0 || t.ChunksZ <= 0 {
		return fmt.Errorf("chunk counts must be positive, got %dx%dx%d", t.ChunksX, t.ChunksY, t.ChunksZ)
	}
	if t.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", t.ChunkSize)
	}
	if t.Octaves <= 0 {
		return fmt.Errorf("octaves must be positive, got %d", t.Octaves)
	}
	return nil
}

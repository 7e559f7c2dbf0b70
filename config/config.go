package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Viewer configures cmd/mapview.
type Viewer struct {
	Map       string      `yaml:"map"`
	Window    WindowSpec  `yaml:"window"`
	Camera    CameraSpec  `yaml:"camera"`
	UnitScale float64     `yaml:"unit_scale"`
	Layers    []int       `yaml:"layers,omitempty"`
	Objects   ObjectsSpec `yaml:"objects"`
	Watch     bool        `yaml:"watch"`
}

type WindowSpec struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type CameraSpec struct {
	Zoom   float64 `yaml:"zoom"`
	Smooth float64 `yaml:"smooth"`
	// PanSpeed is in world units per tick.
	PanSpeed float64 `yaml:"pan_speed"`
}

type ObjectsSpec struct {
	// Script is a tengo file deciding object colours. Empty draws objects
	// with their default colours.
	Script string `yaml:"script"`
	Hidden bool   `yaml:"hidden"`
}

// Default returns the configuration used when no file is given.
func Default() Viewer {
	return Viewer{
		Window:    WindowSpec{Title: "mapview", Width: 1280, Height: 720},
		Camera:    CameraSpec{Zoom: 1, Smooth: 0.2, PanSpeed: 8},
		UnitScale: 1,
	}
}

// Load reads a YAML viewer config. Fields left out keep their defaults.
func Load(path string) (Viewer, error) {
	return LoadWith(path, nil)
}

// LoadWith reads the config at path, or starts from the defaults when path
// is empty, then applies override before validating. Command line flags are
// applied through override so they survive a reload.
func LoadWith(path string, override func(*Viewer)) (Viewer, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
		}
	}
	if override != nil {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		if path == "" {
			return cfg, fmt.Errorf("config: %w", err)
		}
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the viewer cannot run with.
func (v Viewer) Validate() error {
	if v.Window.Width <= 0 || v.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", v.Window.Width, v.Window.Height)
	}
	if v.Camera.Zoom <= 0 {
		return fmt.Errorf("camera zoom must be positive, got %v", v.Camera.Zoom)
	}
	if v.UnitScale <= 0 {
		return fmt.Errorf("unit_scale must be positive, got %v", v.UnitScale)
	}
	for _, idx := range v.Layers {
		if idx < 0 {
			return fmt.Errorf("negative layer index %d", idx)
		}
	}
	return nil
}

// ParseLayers parses a comma separated list of layer indices, e.g. "0,2,1".
func ParseLayers(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("config: layer index %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/ansipixels/meshview/pkg/render"
	"github.com/ansipixels/meshview/pkg/scene"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Vec is a YAML [x, y, z] triple.
type Vec [3]float64

// Vec3 converts to a math vector.
func (v Vec) Vec3() math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }

// Config holds all viewer settings.
type Config struct {
	Viewport    ViewportConfig   `yaml:"viewport"`
	Projection  ProjectionConfig `yaml:"projection"`
	Camera      CameraConfig     `yaml:"camera"`
	Light       LightConfig      `yaml:"light"`
	Toggles     TogglesConfig    `yaml:"toggles"`
	Render      RenderConfig     `yaml:"render"`
	Texture     string           `yaml:"texture"`
	TextureSize int              `yaml:"texture_size"` // larger brushes are scaled down to fit
	Objects     []ObjectConfig   `yaml:"objects"`
	Logging     LoggingConfig    `yaml:"logging"`
}

// ViewportConfig is the render target size in pixels.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ProjectionConfig selects and parameterizes the projection.
type ProjectionConfig struct {
	Kind       string  `yaml:"kind"` // ortho or perspective
	HalfHeight float64 `yaml:"half_height"`
	Near       float64 `yaml:"near"`
	Far        float64 `yaml:"far"`
	FOV        float64 `yaml:"fov"` // degrees
}

// CameraConfig is the starting camera.
type CameraConfig struct {
	Position Vec     `yaml:"position"`
	Yaw      float64 `yaml:"yaw"`
	Pitch    float64 `yaml:"pitch"`
	Zoom     float64 `yaml:"zoom"`
}

// LightConfig is the starting light.
type LightConfig struct {
	Position  Vec `yaml:"position"`
	Intensity int `yaml:"intensity"`
}

// TogglesConfig are the starting display toggles.
type TogglesConfig struct {
	Wireframe    bool `yaml:"wireframe"`
	BoundingBox  bool `yaml:"bounding_box"`
	LightVectors bool `yaml:"light_vectors"`
	Solid        bool `yaml:"solid"`
	ShadingOnly  bool `yaml:"shading_only"`
	Culling      bool `yaml:"culling"`
}

// RenderConfig selects the renderer.
type RenderConfig struct {
	Mode    string `yaml:"mode"`    // sequential or concurrent
	Compose string `yaml:"compose"` // ordered or locked
	Workers int    `yaml:"workers"`
}

// ObjectConfig places one asset in the scene.
type ObjectConfig struct {
	Path     string `yaml:"path"`
	Name     string `yaml:"name"`
	Position Vec    `yaml:"position"`
	Culled   bool   `yaml:"culled"`
	// Fit rescales the mesh to this size around the origin; 0 keeps it.
	Fit float64 `yaml:"fit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Render modes.
const (
	ModeSequential = "sequential"
	ModeConcurrent = "concurrent"
)

// Default returns the viewer's startup settings.
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{Width: 800, Height: 600},
		Projection: ProjectionConfig{
			Kind:       "ortho",
			HalfHeight: 5,
			Near:       0.1,
			Far:        100000,
			FOV:        60,
		},
		Camera: CameraConfig{Zoom: 1},
		Light: LightConfig{
			Position:  Vec{5, 5, 5},
			Intensity: 125,
		},
		Render: RenderConfig{
			Mode:    ModeSequential,
			Compose: "ordered",
			Workers: 4,
		},
		TextureSize: 256,
		Logging:     LoggingConfig{Level: "info"},
	}
}

// Validate checks sizes and enumerated names.
func (c *Config) Validate() error {
	var errs []error
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewport %dx%d: %w", c.Viewport.Width, c.Viewport.Height, ErrInvalid))
	}
	if _, err := scene.ParseProjectionKind(c.Projection.Kind); err != nil {
		errs = append(errs, fmt.Errorf("projection: %w: %w", ErrInvalid, err))
	}
	if c.Projection.Near <= 0 || c.Projection.Far <= c.Projection.Near {
		errs = append(errs, fmt.Errorf("projection near %g far %g: %w", c.Projection.Near, c.Projection.Far, ErrInvalid))
	}
	if c.TextureSize < 0 {
		errs = append(errs, fmt.Errorf("texture_size %d: %w", c.TextureSize, ErrInvalid))
	}
	if c.Camera.Zoom <= 0 {
		errs = append(errs, fmt.Errorf("camera zoom %g: %w", c.Camera.Zoom, ErrInvalid))
	}
	switch c.Render.Mode {
	case ModeSequential, ModeConcurrent:
	default:
		errs = append(errs, fmt.Errorf("render mode %q: %w", c.Render.Mode, ErrInvalid))
	}
	if _, err := render.ParseComposeMode(c.Render.Compose); err != nil {
		errs = append(errs, fmt.Errorf("render compose: %w: %w", ErrInvalid, err))
	}
	if c.Render.Workers < 1 {
		errs = append(errs, fmt.Errorf("render workers %d: %w", c.Render.Workers, ErrInvalid))
	}
	for i, o := range c.Objects {
		if o.Path == "" {
			errs = append(errs, fmt.Errorf("object %d has no path: %w", i, ErrInvalid))
		}
	}
	return errors.Join(errs...)
}

// SceneCamera returns the configured camera.
func (c *Config) SceneCamera() scene.Camera {
	return scene.Camera{
		Position: c.Camera.Position.Vec3(),
		Yaw:      c.Camera.Yaw,
		Pitch:    c.Camera.Pitch,
		Zoom:     c.Camera.Zoom,
	}
}

// SceneLight returns the configured light.
func (c *Config) SceneLight() scene.Light {
	return scene.Light{Position: c.Light.Position.Vec3(), Intensity: c.Light.Intensity}
}

// SceneProjection returns the configured projection. Call Validate first;
// an unknown kind falls back to orthographic.
func (c *Config) SceneProjection() scene.Projection {
	kind, _ := scene.ParseProjectionKind(c.Projection.Kind)
	return scene.Projection{
		Kind:       kind,
		HalfHeight: c.Projection.HalfHeight,
		Near:       c.Projection.Near,
		Far:        c.Projection.Far,
		FOV:        c.Projection.FOV,
	}
}

// SceneToggles returns the configured toggles.
func (c *Config) SceneToggles() scene.Toggles {
	return scene.Toggles{
		Wireframe:    c.Toggles.Wireframe,
		BoundingBox:  c.Toggles.BoundingBox,
		LightVectors: c.Toggles.LightVectors,
		Solid:        c.Toggles.Solid,
		ShadingOnly:  c.Toggles.ShadingOnly,
		Culling:      c.Toggles.Culling,
	}
}

// ComposeMode returns the configured compose mode, ordered when unknown.
func (c *Config) ComposeMode() render.ComposeMode {
	m, err := render.ParseComposeMode(c.Render.Compose)
	if err != nil {
		return render.ComposeOrdered
	}
	return m
}

// Package app assembles a scene and viewer from configuration. The CLI
// commands share it so headless and interactive runs load assets the same
// way.
package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ansipixels/meshview/internal/config"
	"github.com/ansipixels/meshview/pkg/models"
	"github.com/ansipixels/meshview/pkg/render"
	"github.com/ansipixels/meshview/pkg/scene"
	"github.com/ansipixels/meshview/pkg/viewer"
	"go.uber.org/zap"
)

// Session is a ready-to-render viewer and the state it was built from.
type Session struct {
	Config *config.Config
	Scene  *scene.Scene
	Viewer *viewer.Viewer
	// AssetErr joins the errors of assets that failed to load. Those objects
	// stay in the scene without a mesh so indices match the config.
	AssetErr error
}

// Open validates cfg and builds a session.
func Open(cfg *config.Config, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, assetErr := BuildScene(cfg, log)
	tex, err := LoadTexture(cfg, log)
	if err != nil {
		return nil, err
	}
	v := viewer.New(s, viewer.WithLogger(log), viewer.WithTexture(tex), RendererOption(cfg, log))
	return &Session{Config: cfg, Scene: s, Viewer: v, AssetErr: assetErr}, nil
}

// BuildScene loads every configured object. Failed assets are logged and
// added without a mesh; their errors are joined into the returned error.
func BuildScene(cfg *config.Config, log *zap.Logger) (*scene.Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := scene.New(cfg.Viewport.Width, cfg.Viewport.Height)
	s.UpdateCamera(func(c *scene.Camera) { *c = cfg.SceneCamera() })
	s.SetLight(cfg.SceneLight())
	s.SetProjection(cfg.SceneProjection())
	_ = s.UpdateToggles(func(t *scene.Toggles) error {
		*t = cfg.SceneToggles()
		return nil
	})

	var errs []error
	for _, oc := range cfg.Objects {
		name := oc.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(oc.Path), filepath.Ext(oc.Path))
		}
		mesh, err := models.Load(oc.Path)
		if err != nil {
			log.Warn("asset not loaded", zap.String("path", oc.Path), zap.Error(err))
			errs = append(errs, fmt.Errorf("load %s: %w", oc.Path, err))
			mesh = nil
		} else {
			if oc.Fit > 0 {
				mesh.FitTo(oc.Fit)
			}
			if verr := mesh.Validate(); verr != nil {
				log.Warn("mesh has bad faces", zap.String("path", oc.Path), zap.Error(verr))
			}
			log.Info("loaded",
				zap.String("name", name),
				zap.Int("vertices", mesh.VertexCount()),
				zap.Int("triangles", mesh.TriangleCount()))
		}
		obj := scene.NewObject(name, mesh)
		obj.Position = oc.Position.Vec3()
		obj.Culled = oc.Culled
		s.Add(obj)
	}
	return s, errors.Join(errs...)
}

// LoadTexture returns the configured brush image, else the first image
// embedded in a glTF object, else nil for the default checker brush. Images
// larger than cfg.TextureSize are scaled down to fit.
func LoadTexture(cfg *config.Config, log *zap.Logger) (*render.Texture, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Texture != "" {
		tex, err := render.LoadTexture(cfg.Texture)
		if err != nil {
			return nil, fmt.Errorf("load texture: %w", err)
		}
		return fitBrush(tex, cfg.TextureSize, log), nil
	}
	for _, oc := range cfg.Objects {
		switch strings.ToLower(filepath.Ext(oc.Path)) {
		case ".gltf", ".glb":
		default:
			continue
		}
		img, err := models.LoadGLTFTexture(oc.Path)
		if err != nil || img == nil {
			continue
		}
		b := img.Bounds()
		log.Info("using embedded texture", zap.String("path", oc.Path), zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
		return fitBrush(render.TextureFromImage(img), cfg.TextureSize, log), nil
	}
	return nil, nil
}

func fitBrush(tex *render.Texture, size int, log *zap.Logger) *render.Texture {
	fit := tex.FitWithin(size)
	if fit != tex {
		log.Debug("brush scaled",
			zap.Int("from_width", tex.Width), zap.Int("from_height", tex.Height),
			zap.Int("width", fit.Width), zap.Int("height", fit.Height))
	}
	return fit
}

// RendererOption picks the sequential pipeline or the concurrent renderer.
func RendererOption(cfg *config.Config, log *zap.Logger) viewer.Option {
	if cfg.Render.Mode == config.ModeConcurrent {
		return viewer.WithConcurrent(render.NewConcurrentRenderer(
			render.WithLogger(log),
			render.WithWorkers(cfg.Render.Workers),
			render.WithCompose(cfg.ComposeMode()),
		))
	}
	return viewer.WithPipeline(render.NewPipeline(render.WithLogger(log)))
}

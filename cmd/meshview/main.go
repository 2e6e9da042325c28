// meshview - terminal and headless viewer for triangle meshes.
//
// Controls (view):
//
//	Mouse click - Select / deselect the object under the cursor
//	Mouse drag  - Rotate camera (yaw/pitch)
//	Scroll      - Zoom in/out (orthographic projection only)
//	W/A/S/D     - Move camera (arrow keys too)
//	C           - Toggle wireframe
//	V           - Toggle bounding boxes
//	B           - Toggle light vectors
//	N           - Toggle solid fill
//	M           - Toggle shading-only fill
//	X           - Toggle backface culling
//	:           - Console command (light, campos, camrot, setobjpos, echo, ...)
//	R           - Reset camera
//	?           - Toggle HUD
//	Q / Esc     - Quit
package main

import (
	"context"
	"os"

	"github.com/ansipixels/meshview/internal/config"
	"github.com/ansipixels/meshview/internal/logger"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	overrides  config.Overrides
)

func main() {
	root := &cobra.Command{
		Use:   "meshview",
		Short: "Terminal and headless mesh viewer",
		Long: `meshview - view OBJ, STL and glTF meshes in the terminal or render them to PNG.

Objects come from the YAML config (--config) or from model paths given on
the command line, which replace the configured objects.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	pf.IntVar(&overrides.Width, "width", 0, "Viewport width in pixels")
	pf.IntVar(&overrides.Height, "height", 0, "Viewport height in pixels")
	pf.StringVar(&overrides.Projection, "projection", "", "Projection: ortho or perspective")
	pf.StringVar(&overrides.Mode, "mode", "", "Renderer: sequential or concurrent")
	pf.StringVar(&overrides.Compose, "compose", "", "Concurrent compose mode: ordered or locked")
	pf.IntVar(&overrides.Workers, "workers", 0, "Concurrent renderer worker count")
	pf.StringVar(&overrides.Texture, "texture", "", "Brush texture image (PNG/JPG/BMP)")
	pf.IntVar(&overrides.TextureSize, "texture-size", 0, "Scale brush images down to fit this many pixels (-1 keeps native size)")
	pf.Float64Var(&overrides.Fit, "fit", 0, "Rescale command line models to this size (0 keeps them)")
	pf.StringVar(&overrides.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&overrides.LogFile, "log-file", "", "Write logs to this file (rotated)")
	pf.BoolVar(&overrides.Debug, "debug", false, "Enable debug logging")

	root.AddCommand(newViewCmd(), newRenderCmd(), newExecCmd(), newInfoCmd())

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies defaults < file < flags; models replace configured
// objects when given.
func loadConfig(models []string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	o := overrides
	o.Models = models
	cfg.ApplyOverrides(o)
	return cfg, nil
}

// headlessLogger logs to stderr and, when configured, to the log file.
func headlessLogger(cfg *config.Config) *zap.Logger {
	return logger.Stderr(cfg.Logging.Level, cfg.Logging.LogFile)
}

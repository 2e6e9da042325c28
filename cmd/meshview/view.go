package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"fortio.org/terminal/ansipixels"
	"fortio.org/terminal/ansipixels/tcolor"
	"github.com/ansipixels/meshview/internal/app"
	"github.com/ansipixels/meshview/internal/config"
	"github.com/ansipixels/meshview/internal/logger"
	"github.com/ansipixels/meshview/internal/motion"
	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/ansipixels/meshview/pkg/scene"
	"github.com/ansipixels/meshview/pkg/viewer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	dragSpeed = 0.01
	wheelZoom = 0.05
)

func newViewCmd() *cobra.Command {
	var fps float64
	cmd := &cobra.Command{
		Use:   "view [model...]",
		Short: "Interactive terminal viewer",
		Long: `Interactive terminal viewer.

Drag to rotate, scroll to zoom, click to select, ':' opens the command line.
Zoom (mouse wheel and the zoom command) scales the orthographic view only; with
--projection perspective it has no visible effect, move the camera instead.`,
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			// The terminal belongs to the viewer; log to the file only.
			log := logger.New(logger.Options{Level: cfg.Logging.Level, File: logFile(cfg.Logging.LogFile)})
			defer logger.Sync(log)
			return runView(cfg, fps, log)
		},
	}
	cmd.Flags().Float64Var(&fps, "fps", 60, "Target FPS")
	return cmd
}

func logFile(path string) logger.FileConfig {
	if path == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(path)
}

// HUD renders an overlay with scene info, toggles and the console line.
type HUD struct {
	show      bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	prompt    bool
	input     []byte
	message   string
}

// NewHUD creates a visible HUD.
func NewHUD() *HUD {
	return &HUD{show: true, fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per drawn frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func check(b bool) string {
	if b {
		return "[✓]"
	}
	return "[ ]"
}

// Draw writes the overlay on top of the image.
func (h *HUD) Draw(ap *ansipixels.AnsiPixels, s *scene.Scene) {
	if h.prompt {
		ap.WriteAt(0, ap.H-1, "%s:%s%s", tcolor.BrightYellow.Foreground(), string(h.input), tcolor.Reset)
		return
	}
	if h.message != "" {
		ap.WriteAt(0, ap.H-2, "%s%s%s", tcolor.Yellow.Foreground(), h.message, tcolor.Reset)
	}
	if !h.show {
		return
	}
	ap.WriteAt(0, 0, tcolor.Green.Foreground()+"%.0f FPS "+tcolor.Reset, h.fps)
	if sel, ok := s.Selected(); ok {
		ap.WriteCentered(0, "selected: %s", sel.Name)
	} else {
		ap.WriteCentered(0, "%d objects", s.Len())
	}
	cam := s.Camera()
	ap.WriteRight(0, tcolor.Cyan.Foreground()+"zoom %.2f"+tcolor.Reset, cam.Zoom)

	t := s.Toggles()
	ap.WriteAt(0, ap.H-1, "%s Wire(C) %s BBox(V) %s Light(B) %s Solid(N) %s Shade(M) %s Cull(X)",
		check(t.Wireframe), check(t.BoundingBox), check(t.LightVectors),
		check(t.Solid), check(t.ShadingOnly), check(t.Culling))
	ap.WriteRight(ap.H-1, "%s: command  ?: HUD%s", tcolor.Yellow.Foreground(), tcolor.Reset)
}

// session is the state shared by the input handlers of one view run.
type session struct {
	v      *viewer.Viewer
	motion *motion.Camera
	hud    *HUD
	home   scene.Camera
}

func (ss *session) scene() *scene.Scene { return ss.v.Scene() }

func (ss *session) flip(name string) {
	_ = ss.scene().UpdateToggles(func(t *scene.Toggles) error {
		_, err := t.Flip(name)
		return err
	})
}

func (ss *session) move(dx, dy float64) {
	d := math3d.V3(dx*scene.MoveStep, dy*scene.MoveStep, 0)
	ss.scene().UpdateCamera(func(c *scene.Camera) { c.Move(d) })
}

// promptKey feeds one byte to the console line; Enter runs it.
func (ss *session) promptKey(b byte) {
	switch b {
	case '\r', '\n':
		line := string(ss.hud.input)
		ss.hud.prompt, ss.hud.input = false, nil
		out, err := ss.v.Exec(line)
		if err != nil {
			ss.hud.message = err.Error()
		} else {
			ss.hud.message = out
		}
	case 27:
		ss.hud.prompt, ss.hud.input = false, nil
	case 127, 8:
		if n := len(ss.hud.input); n > 0 {
			ss.hud.input = ss.hud.input[:n-1]
		}
	default:
		if b >= ' ' {
			ss.hud.input = append(ss.hud.input, b)
		}
	}
}

// keys handles one read of terminal input. It returns false to quit.
func (ss *session) keys(data []byte) bool {
	for i := 0; i < len(data); i++ {
		b := data[i]
		if ss.hud.prompt {
			ss.promptKey(b)
			continue
		}
		// Arrow keys arrive as ESC [ A..D.
		if b == 27 && i+2 < len(data) && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				ss.move(0, -1)
			case 'B':
				ss.move(0, 1)
			case 'C':
				ss.move(1, 0)
			case 'D':
				ss.move(-1, 0)
			}
			i += 2
			continue
		}
		switch b {
		case 'w', 'W':
			ss.move(0, -1)
		case 's', 'S':
			ss.move(0, 1)
		case 'a', 'A':
			ss.move(-1, 0)
		case 'd', 'D':
			ss.move(1, 0)
		case 'c', 'C':
			ss.flip("wireframe")
		case 'v', 'V':
			ss.flip("bbox")
		case 'b', 'B':
			ss.flip("lightvec")
		case 'n', 'N':
			ss.flip("solid")
		case 'm', 'M':
			ss.flip("shading")
		case 'x', 'X':
			ss.flip("cull")
		case 'r', 'R':
			ss.motion.Reset()
			home := ss.home
			ss.scene().UpdateCamera(func(c *scene.Camera) { *c = home })
		case ':':
			ss.hud.prompt, ss.hud.message = true, ""
		case '?':
			ss.hud.show = !ss.hud.show
		case 'q', 'Q', 27, 3, 4: // Esc, Ctrl-C, Ctrl-D
			return false
		}
	}
	return true
}

//nolint:funlen // terminal setup plus the frame loop.
func runView(cfg *config.Config, fps float64, log *zap.Logger) error {
	ap := ansipixels.NewAnsiPixels(fps)
	if err := ap.Open(); err != nil {
		return fmt.Errorf("open ansipixels: %w", err)
	}
	defer func() {
		ap.ShowCursor()
		ap.MouseTrackingOff()
		ap.Out.Flush()
		ap.Restore()
	}()
	ap.MouseTrackingOn()
	ap.HideCursor()

	// Half-block rendering gives two pixel rows per terminal line.
	cfg.Viewport.Width, cfg.Viewport.Height = ap.W, ap.H*2
	sess, err := app.Open(cfg, log)
	if err != nil {
		return err
	}
	ss := &session{
		v:      sess.Viewer,
		motion: motion.NewCamera(int(math.Round(fps))),
		hud:    NewHUD(),
		home:   sess.Scene.Camera(),
	}
	if sess.AssetErr != nil {
		ss.hud.message = sess.AssetErr.Error()
	}

	lastMouseX, lastMouseY := 0, 0
	ap.OnMouse = func() {
		switch {
		case ap.MouseWheelUp():
			ss.motion.Impulse(0, 0, wheelZoom)
		case ap.MouseWheelDown():
			ss.motion.Impulse(0, 0, -wheelZoom)
		case ap.LeftClick():
			// Mouse coordinates are 1-based terminal cells.
			hit := ss.v.Click(float64(ap.Mx-1), float64((ap.My-1)*2))
			log.Debug("click", zap.Int("x", ap.Mx), zap.Int("y", ap.My), zap.Int("hit", hit))
		case ap.LeftDrag():
			dx := ap.Mx - lastMouseX
			dy := ap.My - lastMouseY
			ss.motion.Impulse(float64(dx)*dragSpeed, float64(dy)*dragSpeed, 0)
		}
		lastMouseX, lastMouseY = ap.Mx, ap.My
	}
	ap.OnResize = func() error {
		ss.v.Resize(ap.W, ap.H*2)
		return nil
	}

	hudDirty := true
	err = ap.FPSTicks(context.Background(), func(_ context.Context) bool {
		if len(ap.Data) > 0 {
			if !ss.keys(ap.Data) {
				return false
			}
			hudDirty = true
		}
		if ss.motion.Active() {
			ss.scene().UpdateCamera(ss.motion.Apply)
		}
		_, rendered := ss.v.RenderIfDirty()
		if !rendered && !hudDirty {
			return true
		}
		hudDirty = false

		ap.StartSyncMode()
		ap.ClearScreen()
		if err := ap.ShowScaledImage(ss.v.Image()); err != nil {
			log.Error("show image", zap.Error(err))
			return false
		}
		ss.hud.UpdateFPS()
		ss.hud.Draw(ap, ss.scene())
		ap.EndSyncMode()
		return true
	})
	if err != nil {
		return fmt.Errorf("main loop: %w", err)
	}
	return nil
}

// Package viewer ties a scene, a renderer and a framebuffer together. It is
// the headless core of the interactive viewer: input handlers call Exec,
// Click, Resize and camera updates between frames, and the display loop asks
// for a new frame whenever the scene is dirty.
package viewer

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/ansipixels/meshview/pkg/console"
	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/ansipixels/meshview/pkg/render"
	"github.com/ansipixels/meshview/pkg/scene"
	"go.uber.org/zap"
)

// RenderFunc draws a snapshot onto a surface and returns the frame.
type RenderFunc func(surface render.Surface, snap scene.Snapshot, tex *render.Texture) *render.Frame

// Option configures a Viewer.
type Option func(*Viewer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *Viewer) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithTexture sets the fill brush. Without one the checker brush is used.
func WithTexture(t *render.Texture) Option {
	return func(v *Viewer) {
		if t != nil {
			v.texture = t
		}
	}
}

// WithPipeline renders with the sequential pipeline.
func WithPipeline(p *render.Pipeline) Option {
	return func(v *Viewer) { v.render = p.Draw }
}

// WithConcurrent renders with the concurrent renderer.
func WithConcurrent(r *render.ConcurrentRenderer) Option {
	return func(v *Viewer) { v.render = r.Render }
}

// Viewer owns the framebuffer and the last rendered frame.
type Viewer struct {
	scene   *scene.Scene
	fb      *render.Framebuffer
	texture *render.Texture
	render  RenderFunc
	logger  *zap.Logger
	last    *render.Frame
}

// New creates a viewer over s. The framebuffer follows the scene size.
func New(s *scene.Scene, opts ...Option) *Viewer {
	w, h := s.Size()
	v := &Viewer{
		scene:   s,
		fb:      render.NewFramebuffer(w, h),
		texture: render.DefaultBrush(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.render == nil {
		v.render = render.NewPipeline(render.WithLogger(v.logger)).Draw
	}
	return v
}

// Scene returns the scene the viewer draws.
func (v *Viewer) Scene() *scene.Scene { return v.scene }

// Framebuffer returns the pixels of the last frame.
func (v *Viewer) Framebuffer() *render.Framebuffer { return v.fb }

// Image returns the last frame as an image.
func (v *Viewer) Image() *image.RGBA { return v.fb.ToImage() }

// LastFrame returns the most recent frame, or nil before the first render.
func (v *Viewer) LastFrame() *render.Frame { return v.last }

// Dirty reports whether the scene changed since the last frame.
func (v *Viewer) Dirty() bool { return v.scene.Dirty() }

// Exec runs one console line.
func (v *Viewer) Exec(line string) (string, error) {
	out, err := console.Exec(v.scene, line)
	if err != nil {
		v.logger.Debug("command failed", zap.String("line", line), zap.Error(err))
		return "", err
	}
	if out != "" {
		v.logger.Debug("command", zap.String("line", line), zap.String("result", out))
	}
	return out, nil
}

// RunScript executes every line of r, writing each response to w. Failing
// lines are reported with their line number and do not stop the script.
func (v *Viewer) RunScript(r io.Reader, w io.Writer) error {
	var errs []error
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		out, err := v.Exec(line)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", n, err))
			continue
		}
		if out != "" {
			fmt.Fprintln(w, out)
		}
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, fmt.Errorf("read script: %w", err))
	}
	return errors.Join(errs...)
}

// Click picks the first object under the pixel (x, y) and applies the
// selection policy. It returns the hit object index, or -1 on a miss.
func (v *Viewer) Click(x, y float64) int {
	snap := v.scene.Snapshot()
	cfg := render.NewFrameConfig(snap, v.texture)
	hit := render.HitTest(&cfg, snap.Objects, math3d.V2(x, y))
	v.scene.Click(hit)
	if hit >= 0 {
		v.logger.Debug("pick", zap.Int("object", hit), zap.String("name", snap.Objects[hit].Name))
	}
	return hit
}

// Resize changes the viewport; the next frame reallocates the framebuffer.
func (v *Viewer) Resize(width, height int) {
	v.scene.Resize(width, height)
}

// Render draws a new frame into the framebuffer. Face issues are logged by
// the renderer and kept on the returned frame.
func (v *Viewer) Render() *render.Frame {
	v.scene.MarkClean()
	snap := v.scene.Snapshot()
	v.fb.Resize(snap.Width, snap.Height)
	frame := v.render(v.fb, snap, v.texture)
	if len(frame.Issues) > 0 {
		v.logger.Debug("frame rendered with skipped faces", zap.Int("issues", len(frame.Issues)))
	}
	v.last = frame
	return frame
}

// RenderIfDirty renders only when the scene changed since the last frame.
func (v *Viewer) RenderIfDirty() (*render.Frame, bool) {
	if !v.scene.Dirty() {
		return v.last, false
	}
	return v.Render(), true
}

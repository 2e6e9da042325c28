package render

import (
	"fmt"
	"sync"

	"github.com/ansipixels/meshview/pkg/scene"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ComposeMode chooses how the concurrent renderer writes to its surface.
type ComposeMode int

const (
	// ComposeOrdered gives every face a private slot and composites the slots
	// in face order after all tasks finish. Output matches Pipeline exactly.
	ComposeOrdered ComposeMode = iota
	// ComposeLocked draws from inside each task under one shared lock.
	// Drawing is serialized but face order is not deterministic.
	ComposeLocked
)

func (m ComposeMode) String() string {
	switch m {
	case ComposeOrdered:
		return "ordered"
	case ComposeLocked:
		return "locked"
	default:
		return fmt.Sprintf("ComposeMode(%d)", int(m))
	}
}

// ParseComposeMode accepts "ordered" and "locked".
func ParseComposeMode(s string) (ComposeMode, error) {
	switch s {
	case "ordered", "":
		return ComposeOrdered, nil
	case "locked":
		return ComposeLocked, nil
	}
	return 0, fmt.Errorf("unknown compose mode %q", s)
}

// WithWorkers bounds the number of faces processed at once.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithCompose selects the compose mode.
func WithCompose(m ComposeMode) Option {
	return func(o *options) { o.compose = m }
}

// ConcurrentRenderer processes the faces of each object in parallel tasks.
// Each object's tasks are joined before the next object starts, and Render
// returns only once every face of the frame is done.
type ConcurrentRenderer struct {
	logger  *zap.Logger
	workers int
	compose ComposeMode

	// canvas serializes every write to the shared surface in locked mode.
	canvas sync.Mutex
}

// NewConcurrentRenderer creates a renderer with 4 workers in ordered mode
// unless options say otherwise.
func NewConcurrentRenderer(opts ...Option) *ConcurrentRenderer {
	o := buildOptions(opts)
	return &ConcurrentRenderer{logger: o.logger, workers: o.workers, compose: o.compose}
}

// Compose returns the configured compose mode.
func (r *ConcurrentRenderer) Compose() ComposeMode { return r.compose }

// Render draws a snapshot onto surface and returns the frame in the order it
// was composited.
func (r *ConcurrentRenderer) Render(surface Surface, snap scene.Snapshot, tex *Texture) *Frame {
	cfg := NewFrameConfig(snap, tex)
	return r.RenderFrame(surface, &cfg, snap.Objects)
}

// RenderFrame renders objects with a prepared configuration.
func (r *ConcurrentRenderer) RenderFrame(surface Surface, cfg *FrameConfig, objects []scene.Object) *Frame {
	frame := &Frame{Objects: make([]ObjectFrame, 0, len(objects))}
	for i := range objects {
		of, issues := r.renderObject(surface, cfg, &objects[i])
		frame.Objects = append(frame.Objects, of)
		frame.Issues = append(frame.Issues, issues...)
	}
	return frame
}

func (r *ConcurrentRenderer) renderObject(surface Surface, cfg *FrameConfig, obj *scene.Object) (ObjectFrame, []*FaceError) {
	of := ObjectFrame{ObjectID: obj.ID, Name: obj.Name}
	if !obj.Renderable() {
		return of, nil
	}

	slots := make([]faceOutput, len(obj.Mesh.Faces))
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i := range obj.Mesh.Faces {
		g.Go(func() error {
			out := processFace(cfg, obj, i)
			if r.compose == ComposeLocked && out.err == nil && len(out.prims) > 0 {
				r.canvas.Lock()
				for _, p := range out.prims {
					surface.Draw(p)
				}
				of.Primitives = append(of.Primitives, out.prims...)
				r.canvas.Unlock()
				out.prims = nil
			}
			slots[i] = out
			return nil
		})
	}
	// Faces never fail the group; integrity problems travel in the slots.
	_ = g.Wait()

	var issues []*FaceError
	var boxes []Rect
	for _, out := range slots {
		if out.err != nil {
			issues = append(issues, out.err)
			logFaceError(r.logger, out.err)
			continue
		}
		if out.visible {
			boxes = append(boxes, out.bounds)
		}
		for _, p := range out.prims {
			surface.Draw(p)
		}
		of.Primitives = append(of.Primitives, out.prims...)
	}
	for _, p := range boundingBoxes(cfg, boxes) {
		surface.Draw(p)
		of.Primitives = append(of.Primitives, p)
	}
	return of, issues
}

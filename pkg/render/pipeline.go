package render

import (
	"errors"
	"fmt"

	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/ansipixels/meshview/pkg/scene"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LightVectorLength scales the light direction overlay, in pixels.
const LightVectorLength = 50

// FrameConfig is everything a frame reads, resolved once before any face is
// processed.
type FrameConfig struct {
	View       math3d.Mat4
	Projection math3d.Mat4
	Frustum    Frustum
	Width      int
	Height     int
	Light      scene.Light
	Toggles    scene.Toggles
	Fill       FillMode
	Texture    *Texture
}

// NewFrameConfig derives matrices, frustum planes and fill mode from a
// snapshot. A nil texture falls back to DefaultBrush.
func NewFrameConfig(snap scene.Snapshot, tex *Texture) FrameConfig {
	view := snap.Camera.ViewMatrix()
	proj := snap.Projection.Matrix(snap.Width, snap.Height)
	if tex == nil {
		tex = DefaultBrush()
	}
	return FrameConfig{
		View:       view,
		Projection: proj,
		Frustum:    ExtractPlanes(proj.Mul(view)),
		Width:      snap.Width,
		Height:     snap.Height,
		Light:      snap.Light,
		Toggles:    snap.Toggles,
		Fill:       ResolveFillMode(snap.Toggles),
		Texture:    tex,
	}
}

// FrustumCulled applies the frustum hint to a face's screen bounds. Boxes
// touching the viewport are never culled. Projective frames skip the hint:
// their planes do not bound pixel coordinates.
func (c *FrameConfig) FrustumCulled(b Rect) bool {
	if c.Projection.IsProjective() {
		return false
	}
	viewport := Rect{Max: math3d.V2(float64(c.Width), float64(c.Height))}
	if b.Overlaps(viewport) {
		return false
	}
	return !c.Frustum.IsBoxVisible(b)
}

// FaceError reports a face that was skipped because its data is unusable.
type FaceError struct {
	ObjectID uuid.UUID
	Object   string
	Face     int
	Err      error
}

func (e *FaceError) Error() string {
	return fmt.Sprintf("object %q face %d: %v", e.Object, e.Face, e.Err)
}

func (e *FaceError) Unwrap() error { return e.Err }

// ObjectFrame is the ordered primitive list of one object.
type ObjectFrame struct {
	ObjectID   uuid.UUID
	Name       string
	Primitives []DrawPrimitive
}

// Frame is the output of one render pass.
type Frame struct {
	Objects []ObjectFrame
	Issues  []*FaceError
}

// Primitives flattens the frame in compositing order.
func (f *Frame) Primitives() []DrawPrimitive {
	var out []DrawPrimitive
	for _, o := range f.Objects {
		out = append(out, o.Primitives...)
	}
	return out
}

// Err joins all face issues, or returns nil for a clean frame.
func (f *Frame) Err() error {
	errs := make([]error, len(f.Issues))
	for i, e := range f.Issues {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Option configures a Pipeline or ConcurrentRenderer.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	workers int
	compose ComposeMode
}

// WithLogger sets the logger used for skipped faces.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), workers: 4, compose: ComposeOrdered}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Pipeline is the sequential renderer: one pass over objects and faces in
// declaration order.
type Pipeline struct {
	logger *zap.Logger
}

// NewPipeline creates a sequential pipeline.
func NewPipeline(opts ...Option) *Pipeline {
	o := buildOptions(opts)
	return &Pipeline{logger: o.logger}
}

// Render produces a frame for a snapshot.
func (p *Pipeline) Render(snap scene.Snapshot, tex *Texture) *Frame {
	cfg := NewFrameConfig(snap, tex)
	return p.RenderFrame(&cfg, snap.Objects)
}

// Draw renders a snapshot and replays the frame onto surface in order.
func (p *Pipeline) Draw(surface Surface, snap scene.Snapshot, tex *Texture) *Frame {
	frame := p.Render(snap, tex)
	for _, prim := range frame.Primitives() {
		surface.Draw(prim)
	}
	return frame
}

// RenderFrame renders objects with a prepared configuration.
func (p *Pipeline) RenderFrame(cfg *FrameConfig, objects []scene.Object) *Frame {
	frame := &Frame{Objects: make([]ObjectFrame, 0, len(objects))}
	for i := range objects {
		of, issues := p.RenderObject(cfg, &objects[i])
		frame.Objects = append(frame.Objects, of)
		frame.Issues = append(frame.Issues, issues...)
	}
	return frame
}

// RenderObject emits the primitives of one object. Culled objects, objects
// without a mesh and meshes without faces yield an empty list.
func (p *Pipeline) RenderObject(cfg *FrameConfig, obj *scene.Object) (ObjectFrame, []*FaceError) {
	of := ObjectFrame{ObjectID: obj.ID, Name: obj.Name}
	if !obj.Renderable() {
		return of, nil
	}

	var issues []*FaceError
	var boxes []Rect
	for i := range obj.Mesh.Faces {
		out := processFace(cfg, obj, i)
		if out.err != nil {
			issues = append(issues, out.err)
			logFaceError(p.logger, out.err)
			continue
		}
		of.Primitives = append(of.Primitives, out.prims...)
		if out.visible {
			boxes = append(boxes, out.bounds)
		}
	}
	of.Primitives = append(of.Primitives, boundingBoxes(cfg, boxes)...)
	return of, issues
}

func logFaceError(l *zap.Logger, e *FaceError) {
	l.Warn("face skipped",
		zap.String("object", e.Object),
		zap.Stringer("object_id", e.ObjectID),
		zap.Int("face", e.Face),
		zap.Error(e.Err))
}

// faceOutput is the result of running one face through the pipeline.
type faceOutput struct {
	prims   []DrawPrimitive
	bounds  Rect
	visible bool
	err     *FaceError
}

// processFace projects, culls, shades and emits one face. It reads only cfg
// and obj, so faces may be processed concurrently.
func processFace(cfg *FrameConfig, obj *scene.Object, i int) faceOutput {
	fail := func(err error) faceOutput {
		return faceOutput{err: &FaceError{ObjectID: obj.ID, Object: obj.Name, Face: i, Err: err}}
	}

	v1, v2, v3, err := obj.Mesh.FaceVertices(i)
	if err != nil {
		return fail(err)
	}
	pts := ProjectFace(v1, v2, v3, obj.Position, cfg.Projection, cfg.View, cfg.Width, cfg.Height)

	normal, err := FaceNormal(v1, v2, v3)
	if err != nil {
		return fail(err)
	}

	bounds := BoundsOf(pts[:]...)
	if cfg.Toggles.Culling {
		if IsBackface(normal, cfg.View) {
			return faceOutput{}
		}
		if cfg.FrustumCulled(bounds) {
			return faceOutput{}
		}
	}

	shade := Shade(normal, v1, cfg.Light)
	out := faceOutput{bounds: bounds, visible: true, prims: make([]DrawPrimitive, 0, 5)}

	switch cfg.Fill {
	case FillShadingOnly:
		out.prims = append(out.prims, Fill(pts, Gray(shade)))
	case FillSolid:
		out.prims = append(out.prims, Fill(pts, SolidBaseColor), Fill(pts, GrayOverlay(shade)))
	default:
		out.prims = append(out.prims, TexturedFill(pts, cfg.Texture), Fill(pts, GrayOverlay(shade)))
	}

	if cfg.Toggles.Wireframe {
		out.prims = append(out.prims, Outline(pts, WireframeColor))
	}
	if obj.Selected {
		out.prims = append(out.prims, Outline(pts, SelectionColor))
	}
	if cfg.Toggles.LightVectors {
		l := cfg.Light.Position.Sub(v1).Normalize()
		end := math3d.V2(pts[0].X+l.X*LightVectorLength, pts[0].Y-l.Y*LightVectorLength)
		out.prims = append(out.prims, Line(pts[0], end, LightVectorColor))
	}
	return out
}

// boundingBoxes strokes the accumulated per-face rectangles when enabled.
func boundingBoxes(cfg *FrameConfig, boxes []Rect) []DrawPrimitive {
	if !cfg.Toggles.BoundingBox || len(boxes) == 0 {
		return nil
	}
	out := make([]DrawPrimitive, len(boxes))
	for i, b := range boxes {
		out[i] = RectOutline(b, BoundingBoxColor)
	}
	return out
}

package render

import (
	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/ansipixels/meshview/pkg/scene"
)

// PointInTriangle reports whether p lies inside or on the edge of triangle
// abc, for either winding.
func PointInTriangle(p, a, b, c math3d.Vec2) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// HitObject reports whether the cursor falls inside any face of obj as
// projected for this frame. Faces with bad indices are ignored; culling
// toggles do not apply.
func HitObject(cfg *FrameConfig, obj *scene.Object, cursor math3d.Vec2) bool {
	if !obj.Renderable() {
		return false
	}
	for i := range obj.Mesh.Faces {
		v1, v2, v3, err := obj.Mesh.FaceVertices(i)
		if err != nil {
			continue
		}
		pts := ProjectFace(v1, v2, v3, obj.Position, cfg.Projection, cfg.View, cfg.Width, cfg.Height)
		if PointInTriangle(cursor, pts[0], pts[1], pts[2]) {
			return true
		}
	}
	return false
}

// HitTest returns the index of the first object under the cursor, or -1.
func HitTest(cfg *FrameConfig, objects []scene.Object, cursor math3d.Vec2) int {
	for i := range objects {
		if HitObject(cfg, &objects[i], cursor) {
			return i
		}
	}
	return -1
}

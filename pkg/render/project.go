package render

import "github.com/ansipixels/meshview/pkg/math3d"

// ScreenProject maps an object-space vertex to pixel coordinates: view, then
// projection, then the viewport mapping with Y pointing down.
//
// The homogeneous divide only happens for projective (perspective) matrices.
// An orthographic projection keeps w, so the camera zoom that scales the
// whole view matrix also scales the image.
func ScreenProject(v math3d.Vec3, proj, view math3d.Mat4, width, height int) math3d.Vec2 {
	clip := proj.MulVec4(view.MulVec4(math3d.V4FromV3(v, 1)))
	p := clip.Vec3()
	if proj.IsProjective() {
		p = clip.PerspectiveDivide()
	}
	hw, hh := float64(width)/2, float64(height)/2
	return math3d.V2(p.X*hw+hw, -p.Y*hh+hh)
}

// ProjectFace projects three vertices and applies the object's position as a
// screen-space offset.
func ProjectFace(v1, v2, v3, offset math3d.Vec3, proj, view math3d.Mat4, width, height int) [3]math3d.Vec2 {
	off := offset.XY()
	return [3]math3d.Vec2{
		ScreenProject(v1, proj, view, width, height).Add(off),
		ScreenProject(v2, proj, view, width, height).Add(off),
		ScreenProject(v3, proj, view, width, height).Add(off),
	}
}

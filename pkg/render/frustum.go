package render

import (
	"github.com/ansipixels/meshview/pkg/math3d"
)

// Plane represents a plane using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = inside (same side as normal).
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds six inward-facing planes ordered Left, Right, Bottom, Top, Near, Far.
type Frustum struct {
	Planes [6]Plane
}

// Plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractPlanes derives the frustum of a combined projection * view matrix
// using the Gribb/Hartmann row combinations (OpenGL depth range).
func ExtractPlanes(m math3d.Mat4) Frustum {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	plane := func(a, b math3d.Vec4, sign float64) Plane {
		p := Plane{
			Normal: math3d.V3(a.X+sign*b.X, a.Y+sign*b.Y, a.Z+sign*b.Z),
			D:      a.W + sign*b.W,
		}
		p.Normalize()
		return p
	}

	var f Frustum
	f.Planes[FrustumLeft] = plane(r3, r0, 1)
	f.Planes[FrustumRight] = plane(r3, r0, -1)
	f.Planes[FrustumBottom] = plane(r3, r1, 1)
	f.Planes[FrustumTop] = plane(r3, r1, -1)
	f.Planes[FrustumNear] = plane(r3, r2, 1)
	f.Planes[FrustumFar] = plane(r3, r2, -1)
	return f
}

// Intersects reports whether a screen-space point set (z = 0) may be visible.
//
// The set counts as visible as soon as any single plane has every point on
// its inner side. This accepts far more than a true frustum test would; it
// is a culling hint and must not drop geometry that is on screen.
func (f Frustum) Intersects(points []math3d.Vec2) bool {
	if len(points) == 0 {
		return false
	}
	for _, p := range f.Planes {
		inside := true
		for _, pt := range points {
			if p.DistanceToPoint(math3d.V3(pt.X, pt.Y, 0)) < 0 {
				inside = false
				break
			}
		}
		if inside {
			return true
		}
	}
	return false
}

// IsBoxVisible tests the four corners of a screen bounding box.
func (f Frustum) IsBoxVisible(r Rect) bool {
	c := r.Corners()
	return f.Intersects(c[:])
}

package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/ansipixels/meshview/pkg/scene"
)

// ErrDegenerateFace marks a face whose vertices are collinear or coincident,
// so it has no normal.
var ErrDegenerateFace = errors.New("degenerate face")

// FaceNormal returns the unit normal cross(v2-v1, v3-v1). Winding decides
// its direction.
func FaceNormal(v1, v2, v3 math3d.Vec3) (math3d.Vec3, error) {
	n := v2.Sub(v1).Cross(v3.Sub(v1)).Normalize()
	if n.IsZero() {
		return n, ErrDegenerateFace
	}
	return n, nil
}

// ViewForward returns the viewing direction in object space. View space
// looks down -Z, so this is the negated third row of the view matrix.
func ViewForward(view math3d.Mat4) math3d.Vec3 {
	return view.Row(2).Vec3().Negate()
}

// IsBackface reports whether a face with the given object-space normal faces
// away from the camera: dot(normal, forward) > 0. A normal pointing back at
// the camera gives a negative dot and is kept.
func IsBackface(normal math3d.Vec3, view math3d.Mat4) bool {
	return normal.Dot(ViewForward(view)) > 0
}

// Shade computes the flat gray level of a face:
// round(diffuse * intensity) + intensity, saturated to [0, 255].
// diffuse is the cosine between the normal and the direction from v1 to the
// light; a zero-length light direction contributes nothing.
func Shade(normal, v1 math3d.Vec3, light scene.Light) uint8 {
	dir := light.Position.Sub(v1).Normalize()
	diffuse := normal.Dot(dir)
	if math.IsNaN(diffuse) {
		diffuse = 0
	}
	i := float64(light.Intensity)
	return ClampByte(int(math.Floor(diffuse*i+0.5)) + light.Intensity)
}

// FillMode selects how a face interior is colored.
type FillMode int

const (
	// FillTextured tiles the texture brush, then overlays the shade.
	FillTextured FillMode = iota
	// FillSolid paints the neutral base color, then overlays the shade.
	FillSolid
	// FillShadingOnly paints the shade alone.
	FillShadingOnly
)

func (m FillMode) String() string {
	switch m {
	case FillTextured:
		return "textured"
	case FillSolid:
		return "solid"
	case FillShadingOnly:
		return "shading"
	default:
		return fmt.Sprintf("FillMode(%d)", int(m))
	}
}

// ResolveFillMode picks the fill once per frame: shading-only wins over solid,
// which wins over the textured default.
func ResolveFillMode(t scene.Toggles) FillMode {
	switch {
	case t.ShadingOnly:
		return FillShadingOnly
	case t.Solid:
		return FillSolid
	default:
		return FillTextured
	}
}

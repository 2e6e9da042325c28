package scene

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ansipixels/meshview/pkg/math3d"
)

// MoveStep is the distance one movement key press moves the camera.
const MoveStep = 0.1

// Camera is a position, two independent rotation angles in radians and a
// zoom factor.
type Camera struct {
	Position math3d.Vec3
	Yaw      float64
	Pitch    float64
	Zoom     float64
}

// DefaultCamera sits at the origin with no rotation and unit zoom.
func DefaultCamera() Camera {
	return Camera{Zoom: 1}
}

// ViewMatrix returns translate(Position) * rotateX(Pitch) * rotateY(Yaw)
// with every element scaled by Zoom, including the homogeneous row. Under a
// perspective projection the divide by w cancels Zoom, so it only has an
// effect with the orthographic projection.
func (c Camera) ViewMatrix() math3d.Mat4 {
	return math3d.Translate(c.Position).
		Mul(math3d.RotateX(c.Pitch)).
		Mul(math3d.RotateY(c.Yaw)).
		ScaleAll(c.Zoom)
}

// Move offsets the camera position.
func (c *Camera) Move(d math3d.Vec3) {
	c.Position = c.Position.Add(d)
}

// Light is a single point light. Intensity scales the diffuse term and is
// also the ambient base of the shade.
type Light struct {
	Position  math3d.Vec3
	Intensity int
}

// DefaultLight matches the viewer's startup light.
func DefaultLight() Light {
	return Light{Position: math3d.V3(5, 5, 5), Intensity: 125}
}

// ProjectionKind selects the projection builder.
type ProjectionKind int

const (
	Orthographic ProjectionKind = iota
	Perspective
)

func (k ProjectionKind) String() string {
	switch k {
	case Orthographic:
		return "ortho"
	case Perspective:
		return "perspective"
	default:
		return fmt.Sprintf("ProjectionKind(%d)", int(k))
	}
}

// ErrUnknownProjection is returned by ParseProjectionKind.
var ErrUnknownProjection = errors.New("unknown projection")

// ParseProjectionKind accepts "ortho", "orthographic" and "perspective".
func ParseProjectionKind(s string) (ProjectionKind, error) {
	switch strings.ToLower(s) {
	case "ortho", "orthographic", "":
		return Orthographic, nil
	case "perspective", "persp":
		return Perspective, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownProjection)
}

// Projection describes how view space maps to clip space.
type Projection struct {
	Kind ProjectionKind
	// HalfHeight is the orthographic half extent in world units; the half
	// width follows from the viewport aspect.
	HalfHeight float64
	Near       float64
	Far        float64
	// FOV is the vertical field of view in degrees (perspective only).
	FOV float64
}

// DefaultProjection is the viewer's orthographic setup.
func DefaultProjection() Projection {
	return Projection{
		Kind:       Orthographic,
		HalfHeight: 5,
		Near:       0.1,
		Far:        100000,
		FOV:        60,
	}
}

// Matrix builds the projection for a width x height viewport.
func (p Projection) Matrix(width, height int) math3d.Mat4 {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	if p.Kind == Perspective {
		return math3d.Perspective(p.FOV*math.Pi/180, aspect, p.Near, p.Far)
	}
	hw := p.HalfHeight * aspect
	return math3d.Orthographic(-hw, hw, -p.HalfHeight, p.HalfHeight, p.Near, p.Far)
}

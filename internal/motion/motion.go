// Package motion animates camera input with harmonica springs so drags and
// wheel turns glide to a stop instead of snapping.
package motion

import (
	"math"

	"github.com/ansipixels/meshview/pkg/scene"
	"github.com/charmbracelet/harmonica"
)

// restVelocity is the speed below which an axis is considered stopped.
const restVelocity = 1e-4

// MinZoom keeps the zoom factor positive.
const MinZoom = 0.01

// Axis carries a velocity that a critically damped spring pulls toward 0.
type Axis struct {
	Velocity float64
	spring   harmonica.Spring
	accel    float64
}

// NewAxis creates an axis stepped fps times per second.
func NewAxis(fps int) Axis {
	// Frequency 4, damping 1: moderate speed without overshoot.
	return Axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// Step returns the displacement for this frame and decays the velocity.
func (a *Axis) Step() float64 {
	d := a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
	if math.Abs(a.Velocity) < restVelocity && math.Abs(a.accel) < restVelocity {
		a.Velocity, a.accel = 0, 0
	}
	return d
}

// Moving reports whether the axis still has velocity.
func (a *Axis) Moving() bool { return a.Velocity != 0 }

// Camera animates yaw, pitch and zoom.
type Camera struct {
	Yaw, Pitch, Zoom Axis
	fps              int
}

// NewCamera creates camera motion for the given frame rate.
func NewCamera(fps int) *Camera {
	c := &Camera{fps: fps}
	c.Reset()
	return c
}

// Reset stops all motion.
func (c *Camera) Reset() {
	c.Yaw = NewAxis(c.fps)
	c.Pitch = NewAxis(c.fps)
	c.Zoom = NewAxis(c.fps)
}

// Impulse adds velocity to each axis.
func (c *Camera) Impulse(yaw, pitch, zoom float64) {
	c.Yaw.Velocity += yaw
	c.Pitch.Velocity += pitch
	c.Zoom.Velocity += zoom
}

// Active reports whether any axis is moving.
func (c *Camera) Active() bool {
	return c.Yaw.Moving() || c.Pitch.Moving() || c.Zoom.Moving()
}

// Apply advances one frame and moves cam. It matches the callback shape of
// scene.Scene.UpdateCamera.
func (c *Camera) Apply(cam *scene.Camera) {
	cam.Yaw += c.Yaw.Step()
	cam.Pitch += c.Pitch.Step()
	cam.Zoom = max(MinZoom, cam.Zoom+c.Zoom.Step())
}

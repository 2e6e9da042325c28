package motion

import (
	"math"
	"testing"

	"github.com/ansipixels/meshview/pkg/scene"
)

func TestAxisComesToRest(t *testing.T) {
	a := NewAxis(60)
	a.Velocity = 0.5
	total := 0.0
	for range 600 {
		total += a.Step()
	}
	if a.Moving() {
		t.Errorf("axis still moving after 10s: velocity %v", a.Velocity)
	}
	if total < 0.5 {
		t.Errorf("total displacement = %v, want at least the first step 0.5", total)
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		t.Errorf("total displacement = %v", total)
	}
}

func TestVelocityDecaysMonotonically(t *testing.T) {
	a := NewAxis(60)
	a.Velocity = 1
	prev := a.Velocity
	for i := range 120 {
		a.Step()
		if a.Velocity > prev {
			t.Fatalf("step %d: velocity rose from %v to %v", i, prev, a.Velocity)
		}
		if a.Velocity < 0 {
			t.Fatalf("step %d: velocity overshot to %v", i, a.Velocity)
		}
		prev = a.Velocity
	}
}

func TestCameraApply(t *testing.T) {
	m := NewCamera(60)
	if m.Active() {
		t.Fatal("new motion is active")
	}
	m.Impulse(0.1, -0.2, 0)

	cam := scene.DefaultCamera()
	m.Apply(&cam)
	if cam.Yaw != 0.1 || cam.Pitch != -0.2 {
		t.Errorf("after one frame yaw, pitch = %v, %v, want 0.1, -0.2", cam.Yaw, cam.Pitch)
	}
	if cam.Zoom != 1 {
		t.Errorf("zoom = %v, want 1", cam.Zoom)
	}
	if !m.Active() {
		t.Error("motion stopped after one frame")
	}

	m.Reset()
	if m.Active() {
		t.Error("motion active after Reset")
	}
}

func TestZoomStaysPositive(t *testing.T) {
	m := NewCamera(60)
	m.Impulse(0, 0, -5)
	cam := scene.DefaultCamera()
	for range 120 {
		m.Apply(&cam)
	}
	if cam.Zoom < MinZoom {
		t.Errorf("zoom = %v, want >= %v", cam.Zoom, MinZoom)
	}
}

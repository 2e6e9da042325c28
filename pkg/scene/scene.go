package scene

import (
	"errors"
	"slices"
	"sync"

	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/google/uuid"
)

// ErrNoSelection is returned by operations on the selected object when none is.
var ErrNoSelection = errors.New("no object selected")

// Scene is the mutable viewer state. It is safe for concurrent use; callers
// mutate it between frames and hand renderers a Snapshot.
type Scene struct {
	mu         sync.RWMutex
	objects    []*Object
	camera     Camera
	light      Light
	projection Projection
	toggles    Toggles
	width      int
	height     int
	dirty      bool
}

// New creates an empty scene with default camera, light and projection.
func New(width, height int) *Scene {
	return &Scene{
		camera:     DefaultCamera(),
		light:      DefaultLight(),
		projection: DefaultProjection(),
		width:      width,
		height:     height,
		dirty:      true,
	}
}

// Snapshot is a consistent, read-only copy of everything a frame needs.
type Snapshot struct {
	Objects    []Object
	Camera     Camera
	Light      Light
	Projection Projection
	Toggles    Toggles
	Width      int
	Height     int
}

// Snapshot copies the current state. Meshes are shared, not copied.
func (s *Scene) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objs := make([]Object, len(s.objects))
	for i, o := range s.objects {
		objs[i] = *o
	}
	return Snapshot{
		Objects:    objs,
		Camera:     s.camera,
		Light:      s.light,
		Projection: s.projection,
		Toggles:    s.toggles,
		Width:      s.width,
		Height:     s.height,
	}
}

// Add appends an object; draw order follows insertion order.
func (s *Scene) Add(o *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, o)
	s.dirty = true
}

// Remove deletes the object with the given ID.
func (s *Scene) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.objects, func(o *Object) bool { return o.ID == id })
	if i < 0 {
		return false
	}
	s.objects = slices.Delete(s.objects, i, i+1)
	s.dirty = true
	return true
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Click applies the selection policy for a pick result. hit is the index of
// the first object under the cursor, or negative for a miss (no change).
// An unselected hit becomes the only selection; a selected hit is toggled off.
func (s *Scene) Click(hit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hit < 0 || hit >= len(s.objects) {
		return
	}
	target := s.objects[hit]
	if target.Selected {
		target.Selected = false
	} else {
		for _, o := range s.objects {
			o.Selected = false
		}
		target.Selected = true
	}
	s.dirty = true
}

// Selected returns a copy of the selected object.
func (s *Scene) Selected() (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.objects {
		if o.Selected {
			return *o, true
		}
	}
	return Object{}, false
}

// SetSelectedPosition moves the selected object.
func (s *Scene) SetSelectedPosition(p math3d.Vec3) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.objects {
		if o.Selected {
			o.Position = p
			s.dirty = true
			return nil
		}
	}
	return ErrNoSelection
}

// Camera returns the current camera.
func (s *Scene) Camera() Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.camera
}

// UpdateCamera mutates the camera under the scene lock.
func (s *Scene) UpdateCamera(fn func(*Camera)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.camera)
	s.dirty = true
}

// Light returns the current light.
func (s *Scene) Light() Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.light
}

// SetLight replaces the light.
func (s *Scene) SetLight(l Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.light = l
	s.dirty = true
}

// Projection returns the projection settings.
func (s *Scene) Projection() Projection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projection
}

// SetProjection replaces the projection settings.
func (s *Scene) SetProjection(p Projection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projection = p
	s.dirty = true
}

// Toggles returns the display toggles.
func (s *Scene) Toggles() Toggles {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.toggles
}

// UpdateToggles mutates the toggles under the scene lock.
func (s *Scene) UpdateToggles(fn func(*Toggles) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&s.toggles); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Resize changes the viewport size.
func (s *Scene) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == width && s.height == height {
		return
	}
	s.width, s.height = width, height
	s.dirty = true
}

// Size returns the viewport size.
func (s *Scene) Size() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// Dirty reports whether anything changed since the last MarkClean.
func (s *Scene) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// MarkClean clears the needs-render flag after a frame was produced.
func (s *Scene) MarkClean() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

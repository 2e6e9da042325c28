// Package scene holds the mutable viewer state consumed by the renderer:
// placed objects, the camera, the light, projection settings and display
// toggles. The renderer only ever sees a Snapshot, so input handling may
// mutate a Scene between frames without racing a frame in progress.
package scene

import (
	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/ansipixels/meshview/pkg/models"
	"github.com/google/uuid"
)

// Object places a shared, read-only mesh in the scene.
type Object struct {
	ID   uuid.UUID
	Name string
	// Mesh may be nil when the asset failed to load; such objects render nothing.
	Mesh *models.Mesh
	// Position is applied as a screen-space offset after projection.
	Position math3d.Vec3
	Selected bool
	// Culled disables all rendering for the object.
	Culled bool
}

// NewObject creates an object at the origin with a fresh time-ordered ID.
func NewObject(name string, mesh *models.Mesh) *Object {
	return &Object{
		ID:   uuid.Must(uuid.NewV7()),
		Name: name,
		Mesh: mesh,
	}
}

// Renderable reports whether the object has anything to draw.
func (o *Object) Renderable() bool {
	return !o.Culled && o.Mesh != nil && len(o.Mesh.Faces) > 0
}

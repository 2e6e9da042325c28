package models

import (
	"errors"
	"testing"

	"github.com/ansipixels/meshview/pkg/math3d"
)

func quadMesh() *Mesh {
	mesh := NewMesh("quad")
	mesh.Vertices = []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(2, 0, 0),
		math3d.V3(2, 4, 0),
		math3d.V3(0, 4, 0),
	}
	mesh.Faces = []Face{{V: [3]int{0, 1, 2}}, {V: [3]int{0, 2, 3}}}
	mesh.CalculateBounds()
	return mesh
}

func TestFaceVertices(t *testing.T) {
	mesh := quadMesh()
	mesh.Faces = append(mesh.Faces, Face{V: [3]int{0, 1, 5}}, Face{V: [3]int{-1, 0, 1}})

	tests := []struct {
		name    string
		face    int
		wantErr bool
	}{
		{"valid", 0, false},
		{"vertex past end", 2, true},
		{"negative vertex", 3, true},
		{"face past end", 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, c, err := mesh.FaceVertices(tt.face)
			if tt.wantErr {
				if !errors.Is(err, ErrFaceIndex) {
					t.Errorf("FaceVertices(%d) error = %v, want ErrFaceIndex", tt.face, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FaceVertices(%d) error = %v", tt.face, err)
			}
			if a != mesh.Vertices[0] || b != mesh.Vertices[1] || c != mesh.Vertices[2] {
				t.Errorf("FaceVertices(%d) = %v %v %v", tt.face, a, b, c)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	mesh := quadMesh()
	if err := mesh.Validate(); err != nil {
		t.Errorf("Validate() on good mesh = %v", err)
	}
	mesh.Faces = append(mesh.Faces, Face{V: [3]int{0, 1, 5}})
	if err := mesh.Validate(); !errors.Is(err, ErrFaceIndex) {
		t.Errorf("Validate() = %v, want ErrFaceIndex", err)
	}
}

func TestBoundsCenterSize(t *testing.T) {
	mesh := quadMesh()
	if got := mesh.Center(); got != math3d.V3(1, 2, 0) {
		t.Errorf("Center() = %v, want (1,2,0)", got)
	}
	if got := mesh.Size(); got != math3d.V3(2, 4, 0) {
		t.Errorf("Size() = %v, want (2,4,0)", got)
	}
}

func TestFitTo(t *testing.T) {
	mesh := quadMesh()
	mesh.FitTo(2)
	if got := mesh.Size(); got != math3d.V3(1, 2, 0) {
		t.Errorf("Size() after FitTo(2) = %v, want (1,2,0)", got)
	}
	if got := mesh.Center(); got != math3d.Zero3() {
		t.Errorf("Center() after FitTo = %v, want origin", got)
	}
	// Face order and winding are untouched.
	if mesh.Faces[1].V != [3]int{0, 2, 3} {
		t.Errorf("faces changed: %v", mesh.Faces)
	}
}

func TestFitToEmpty(t *testing.T) {
	mesh := NewMesh("empty")
	mesh.FitTo(2)
	if mesh.VertexCount() != 0 {
		t.Errorf("VertexCount = %d, want 0", mesh.VertexCount())
	}
}

// Package models holds the mesh data model and the asset loaders that
// produce it.
//
// A Mesh is read-only once a loader returns it. Face winding is kept exactly
// as the file declares it, because the renderer derives face normals (and
// therefore backface culling) from the index order.
package models

import (
	"errors"
	"fmt"

	"github.com/ansipixels/meshview/pkg/math3d"
)

// ErrFaceIndex marks a face that references a vertex outside the mesh.
var ErrFaceIndex = errors.New("face index out of range")

// Mesh is an ordered list of vertices and an ordered list of triangle faces.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle: three indices into Mesh.Vertices. Index order defines winding.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceVertices returns the three object-space vertices of face i in winding
// order, or an error wrapping ErrFaceIndex when the face points outside the
// vertex list.
func (m *Mesh) FaceVertices(i int) (v1, v2, v3 math3d.Vec3, err error) {
	if i < 0 || i >= len(m.Faces) {
		return v1, v2, v3, fmt.Errorf("face %d of %d: %w", i, len(m.Faces), ErrFaceIndex)
	}
	f := m.Faces[i].V
	for _, idx := range f {
		if idx < 0 || idx >= len(m.Vertices) {
			return v1, v2, v3, fmt.Errorf("face %d uses vertex %d (mesh has %d): %w",
				i, idx, len(m.Vertices), ErrFaceIndex)
		}
	}
	return m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]], nil
}

// Validate checks every face and joins the integrity errors found.
func (m *Mesh) Validate() error {
	var errs []error
	for i := range m.Faces {
		if _, _, _, err := m.FaceVertices(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Transform applies a transformation matrix to all vertices.
// Loaders call it before handing the mesh out; the renderer never does.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(m.Vertices[i])
	}
	m.CalculateBounds()
}

// FitTo centers the mesh on the origin and scales it so its largest
// dimension equals size.
func (m *Mesh) FitTo(size float64) {
	m.CalculateBounds()
	dims := m.Size()
	maxDim := max(dims.X, dims.Y, dims.Z)
	if maxDim <= 0 {
		return
	}
	scale := size / maxDim
	m.Transform(math3d.Scale(math3d.V3(scale, scale, scale)).Mul(math3d.Translate(m.Center().Scale(-1))))
}

package render

import (
	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/ansipixels/meshview/pkg/models"
	"github.com/ansipixels/meshview/pkg/scene"
)

func cubeLocalVertices(half float64) []math3d.Vec3 {
	return []math3d.Vec3{
		{X: -half, Y: -half, Z: -half},
		{X: half, Y: -half, Z: -half},
		{X: half, Y: half, Z: -half},
		{X: -half, Y: half, Z: -half},
		{X: -half, Y: -half, Z: half},
		{X: half, Y: -half, Z: half},
		{X: half, Y: half, Z: half},
		{X: -half, Y: half, Z: half},
	}
}

// cubeMesh returns a cube whose 12 faces wind counter-clockwise seen from
// outside, so every normal points outward.
func cubeMesh(half float64) *models.Mesh {
	m := models.NewMesh("cube")
	m.Vertices = cubeLocalVertices(half)
	quads := [][4]int{
		{0, 3, 2, 1}, // back (-Z)
		{4, 5, 6, 7}, // front (+Z)
		{0, 4, 7, 3}, // left (-X)
		{1, 2, 6, 5}, // right (+X)
		{3, 7, 6, 2}, // top (+Y)
		{0, 1, 5, 4}, // bottom (-Y)
	}
	for _, q := range quads {
		m.Faces = append(m.Faces,
			models.Face{V: [3]int{q[0], q[1], q[2]}},
			models.Face{V: [3]int{q[0], q[2], q[3]}})
	}
	m.CalculateBounds()
	return m
}

func triangleMesh() *models.Mesh {
	m := models.NewMesh("tri")
	m.Vertices = []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)}
	m.Faces = []models.Face{{V: [3]int{0, 1, 2}}}
	m.CalculateBounds()
	return m
}

// snapshotOf builds an 800x600 orthographic snapshot around objects.
func snapshotOf(objs ...*scene.Object) scene.Snapshot {
	s := scene.New(800, 600)
	for _, o := range objs {
		s.Add(o)
	}
	return s.Snapshot()
}

func countKind(prims []DrawPrimitive, k PrimitiveKind) int {
	n := 0
	for _, p := range prims {
		if p.Kind == k {
			n++
		}
	}
	return n
}

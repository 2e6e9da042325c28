package models

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/ansipixels/meshview/pkg/math3d"
)

func TestSTLLoaderASCII(t *testing.T) {
	// Simple ASCII STL square (two facets)
	asciiSTL := `solid cube
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 1 1 0
    endloop
  endfacet
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid cube`

	loader := NewSTLLoader()
	mesh, err := loader.Load(bytes.NewReader([]byte(asciiSTL)), "test.stl")
	if err != nil {
		t.Fatalf("Failed to load ASCII STL: %v", err)
	}

	if mesh.Name != "cube" {
		t.Errorf("Name = %q, want %q", mesh.Name, "cube")
	}

	if mesh.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d, want 2", mesh.TriangleCount())
	}

	// Should have 4 unique vertices (square)
	if mesh.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4 (deduplicated)", mesh.VertexCount())
	}

	// Winding is the file's, not the stored normal's.
	if got := mesh.Faces[1].V; got != [3]int{0, 2, 3} {
		t.Errorf("second facet = %v, want [0 2 3]", got)
	}
}

func writeBinarySTL(t *testing.T, tris [][3]math3d.Vec3) []byte {
	t.Helper()
	var buf bytes.Buffer

	header := make([]byte, 80)
	copy(header, "Binary STL test")
	buf.Write(header)

	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(tris))); err != nil {
		t.Fatal(err)
	}
	for _, tri := range tris {
		vals := []float32{0, 0, 1}
		for _, v := range tri {
			vals = append(vals, float32(v.X), float32(v.Y), float32(v.Z))
		}
		if err := binary.Write(&buf, binary.LittleEndian, vals); err != nil {
			t.Fatal(err)
		}
		if err := binary.Write(&buf, binary.LittleEndian, uint16(0)); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func TestSTLLoaderBinary(t *testing.T) {
	data := writeBinarySTL(t, [][3]math3d.Vec3{
		{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
	})

	loader := NewSTLLoader()
	mesh, err := loader.LoadBytes(data, "test.stl")
	if err != nil {
		t.Fatalf("Failed to load binary STL: %v", err)
	}

	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}

	if mesh.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", mesh.VertexCount())
	}

	if got := mesh.Vertices[1]; got != math3d.V3(1, 0, 0) {
		t.Errorf("Vertices[1] = %v, want (1,0,0)", got)
	}
}

func TestSTLBinaryTruncated(t *testing.T) {
	data := writeBinarySTL(t, [][3]math3d.Vec3{
		{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
	})
	// Claim two triangles while only one is present.
	binary.LittleEndian.PutUint32(data[80:84], 2)
	if _, err := NewSTLLoader().LoadBytes(data, "short.stl"); err == nil {
		t.Error("expected truncation error, got nil")
	}
}

func TestSTLDetection(t *testing.T) {
	// ASCII should not be detected as binary
	ascii := []byte("solid test\nfacet normal 0 0 1\n")
	if isBinarySTL(ascii) {
		t.Error("ASCII STL detected as binary")
	}

	// Binary with matching size should be detected
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))                        // header
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // 0 triangles
	if !isBinarySTL(buf.Bytes()) {
		t.Error("Binary STL not detected")
	}
}

func TestSTLVertexDeduplication(t *testing.T) {
	// Two triangles sharing an edge
	asciiSTL := `solid test
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 1 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid test`

	tests := []struct {
		name   string
		dedupe bool
		want   int
	}{
		{"dedupe", true, 4},
		{"raw", false, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &STLLoader{Dedupe: tt.dedupe}
			mesh, err := loader.Load(bytes.NewReader([]byte(asciiSTL)), "test.stl")
			if err != nil {
				t.Fatalf("Failed to load: %v", err)
			}
			if mesh.VertexCount() != tt.want {
				t.Errorf("VertexCount = %d, want %d", mesh.VertexCount(), tt.want)
			}
			if mesh.TriangleCount() != 2 {
				t.Errorf("TriangleCount = %d, want 2", mesh.TriangleCount())
			}
		})
	}
}

func TestSTLVertexOutsideFacet(t *testing.T) {
	if _, err := NewSTLLoader().LoadBytes([]byte("solid x\nvertex 0 0 0\nendsolid x\n"), "bad.stl"); err == nil {
		t.Error("expected error for vertex outside facet")
	}
}

func TestSTLBounds(t *testing.T) {
	asciiSTL := `solid test
  facet normal 0 0 1
    outer loop
      vertex -1 -2 -3
      vertex 4 5 6
      vertex 0 0 0
    endloop
  endfacet
endsolid test`

	loader := NewSTLLoader()
	mesh, err := loader.Load(bytes.NewReader([]byte(asciiSTL)), "test.stl")
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	if mesh.BoundsMin != math3d.V3(-1, -2, -3) {
		t.Errorf("BoundsMin = %v, want (-1, -2, -3)", mesh.BoundsMin)
	}
	if mesh.BoundsMax != math3d.V3(4, 5, 6) {
		t.Errorf("BoundsMax = %v, want (4, 5, 6)", mesh.BoundsMax)
	}
}

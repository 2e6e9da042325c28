package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/ansipixels/meshview/pkg/math3d"
)

// STLLoader loads STL (stereolithography) files in both ASCII and binary formats.
// Stored facet normals are ignored; vertex order within each facet is kept.
type STLLoader struct {
	// Dedupe merges vertices with identical positions.
	Dedupe bool
}

// NewSTLLoader creates a new STL loader with default settings.
func NewSTLLoader() *STLLoader {
	return &STLLoader{Dedupe: true}
}

// LoadFile loads an STL file from disk.
func (l *STLLoader) LoadFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL file: %w", err)
	}

	return l.LoadBytes(data, path)
}

// LoadBytes parses STL from a byte slice.
func (l *STLLoader) LoadBytes(data []byte, name string) (*Mesh, error) {
	if isBinarySTL(data) {
		return l.loadBinary(data, name)
	}
	return l.loadASCII(data, name)
}

// Load parses STL from a reader.
// Note: This reads the entire content into memory to detect format.
func (l *STLLoader) Load(r io.Reader, name string) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}
	return l.LoadBytes(data, name)
}

// isBinarySTL detects if the data is binary STL format.
// Binary STL starts with 80-byte header, then 4-byte triangle count.
// ASCII STL starts with "solid", which some binary exporters also put in the header.
func isBinarySTL(data []byte) bool {
	if len(data) < 84 {
		return false
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("solid")) {
		triCount := binary.LittleEndian.Uint32(data[80:84])
		return uint64(len(data)) == 84+uint64(triCount)*50
	}

	return true
}

type vertexIndex struct {
	mesh   *Mesh
	seen   map[math3d.Vec3]int
	dedupe bool
}

func (vi *vertexIndex) add(pos math3d.Vec3) int {
	if vi.dedupe {
		if idx, ok := vi.seen[pos]; ok {
			return idx
		}
	}
	idx := len(vi.mesh.Vertices)
	vi.mesh.Vertices = append(vi.mesh.Vertices, pos)
	if vi.dedupe {
		vi.seen[pos] = idx
	}
	return idx
}

// loadBinary parses binary STL format.
func (l *STLLoader) loadBinary(data []byte, name string) (*Mesh, error) {
	triCount := binary.LittleEndian.Uint32(data[80:84])

	expectedSize := 84 + uint64(triCount)*50
	if uint64(len(data)) < expectedSize {
		return nil, fmt.Errorf("binary STL truncated: expected %d bytes, got %d", expectedSize, len(data))
	}

	mesh := NewMesh(name)
	vi := &vertexIndex{mesh: mesh, seen: make(map[math3d.Vec3]int), dedupe: l.Dedupe}

	offset := 84
	for range triCount {
		// Skip the stored normal (3 floats)
		offset += 12

		var faceVerts [3]int
		for v := range 3 {
			pos := math3d.V3(
				float64(readFloat32LE(data[offset:])),
				float64(readFloat32LE(data[offset+4:])),
				float64(readFloat32LE(data[offset+8:])),
			)
			offset += 12
			faceVerts[v] = vi.add(pos)
		}

		// Skip 2-byte attribute byte count
		offset += 2

		mesh.Faces = append(mesh.Faces, Face{V: faceVerts})
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// readFloat32LE reads a little-endian float32 from a byte slice.
func readFloat32LE(data []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data))
}

// loadASCII parses ASCII STL format.
func (l *STLLoader) loadASCII(data []byte, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	vi := &vertexIndex{mesh: mesh, seen: make(map[math3d.Vec3]int), dedupe: l.Dedupe}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0

	var faceVerts []int
	inFacet := false
	inLoop := false

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		case "facet":
			inFacet = true
			faceVerts = faceVerts[:0]

		case "outer":
			if len(fields) >= 2 && strings.ToLower(fields[1]) == "loop" {
				inLoop = true
			}

		case "vertex":
			if !inFacet || !inLoop {
				return nil, fmt.Errorf("line %d: vertex outside facet/loop", lineNum)
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs x y z", lineNum)
			}
			pos, err := parseVec3(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			faceVerts = append(faceVerts, vi.add(pos))

		case "endloop":
			inLoop = false

		case "endfacet":
			if len(faceVerts) >= 3 {
				mesh.Faces = append(mesh.Faces, Face{
					V: [3]int{faceVerts[0], faceVerts[1], faceVerts[2]},
				})
			}
			inFacet = false

		default:
			// endsolid and unknown keywords
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// LoadSTL is a convenience function to load an STL file with default settings.
func LoadSTL(path string) (*Mesh, error) {
	return NewSTLLoader().LoadFile(path)
}

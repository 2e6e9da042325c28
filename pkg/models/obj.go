package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ansipixels/meshview/pkg/math3d"
)

// OBJLoader loads Wavefront OBJ files.
//
// Only positions and faces are kept. Texture and normal indices in face
// entries are accepted and ignored; polygons are fan-triangulated in the
// order they are listed, so winding is never changed.
type OBJLoader struct {
	// Strict rejects faces that reference vertices not yet defined. When
	// false such faces are kept so the renderer can report them per face.
	Strict bool
}

// NewOBJLoader creates a new OBJ loader with default settings.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{}
}

// LoadFile loads an OBJ file from disk.
func (l *OBJLoader) LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	return l.Load(f, path)
}

// Load parses an OBJ from a reader.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: invalid vertex (need x y z)", lineNum)
			}
			v, err := parseVec3(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			mesh.Vertices = append(mesh.Vertices, v)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			faceVerts := make([]int, 0, len(fields)-1)
			for _, field := range fields[1:] {
				idx, err := parseFaceIndex(field)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				idx = resolveIndex(idx, len(mesh.Vertices))
				if l.Strict && (idx < 0 || idx >= len(mesh.Vertices)) {
					return nil, fmt.Errorf("line %d: vertex %s: %w", lineNum, field, ErrFaceIndex)
				}
				faceVerts = append(faceVerts, idx)
			}
			for i := 1; i < len(faceVerts)-1; i++ {
				mesh.Faces = append(mesh.Faces, Face{
					V: [3]int{faceVerts[0], faceVerts[i], faceVerts[i+1]},
				})
			}

		case "o", "g":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		default:
			// vt, vn, mtllib, usemtl, s and unknown directives
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	var c [3]float64
	for i, f := range fields[:3] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("invalid coordinate %q: %w", f, err)
		}
		c[i] = v
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// parseFaceIndex returns the position part of a face vertex in the forms
// v, v/vt, v/vt/vn or v//vn. The result is 1-indexed or negative.
func parseFaceIndex(s string) (int, error) {
	pos, _, _ := strings.Cut(s, "/")
	idx, err := strconv.Atoi(pos)
	if err != nil || idx == 0 {
		return 0, fmt.Errorf("invalid vertex index: %s", pos)
	}
	return idx, nil
}

// resolveIndex converts an OBJ 1-indexed (or negative) index to 0-indexed.
func resolveIndex(idx, count int) int {
	if idx < 0 {
		return count + idx // Negative indices count from end
	}
	return idx - 1
}

// LoadOBJ is a convenience function to load an OBJ file with default settings.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}

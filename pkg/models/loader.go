package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedAsset is returned by Load for extensions no loader handles.
var ErrUnsupportedAsset = errors.New("unsupported asset format")

// Extensions lists the file extensions Load understands.
var Extensions = []string{".obj", ".stl", ".gltf", ".glb"}

// Load picks a loader by file extension.
func Load(path string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return LoadOBJ(path)
	case ".stl":
		return LoadSTL(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedAsset)
	}
}

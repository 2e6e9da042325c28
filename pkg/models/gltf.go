package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // texture decoders for embedded images
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/qmuntal/gltf"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
//
// Every triangle primitive reachable from the default scene is flattened into
// one mesh with node transforms baked into the positions. Index order is kept.
type GLTFLoader struct {
	// BaseDir resolves external image URIs. Load sets it from the file path.
	BaseDir string
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{}
}

// LoadGLTF loads a .gltf or .glb file with default settings.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	l.BaseDir = filepath.Dir(path)
	return l.LoadDocument(doc, filepath.Base(path))
}

// LoadDocument flattens an already decoded document.
func (l *GLTFLoader) LoadDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	for _, nodeIdx := range rootNodes(doc) {
		if err := l.processNode(doc, nodeIdx, math3d.Identity(), mesh, 0); err != nil {
			return nil, err
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// rootNodes returns the nodes of the default scene, or every parentless node
// when the document declares no scenes.
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			sceneIdx = *doc.Scene
		}
		return doc.Scenes[sceneIdx].Nodes
	}
	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

const maxNodeDepth = 64

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeTransform builds a node's local transform as T * R * S, or its matrix
// when one is given.
func nodeTransform(node *gltf.Node) math3d.Mat4 {
	if node.Matrix != identityMatrix && node.Matrix != [16]float64{} {
		return math3d.Mat4FromSlice(node.Matrix[:])
	}

	local := math3d.Translate(math3d.V3(node.Translation[0], node.Translation[1], node.Translation[2]))

	if node.Rotation != [4]float64{0, 0, 0, 1} && node.Rotation != [4]float64{} {
		local = local.Mul(math3d.QuatToMat4(node.Rotation[0], node.Rotation[1], node.Rotation[2], node.Rotation[3]))
	}

	if node.Scale != [3]float64{1, 1, 1} && node.Scale != [3]float64{} {
		local = local.Mul(math3d.Scale(math3d.V3(node.Scale[0], node.Scale[1], node.Scale[2])))
	}
	return local
}

// processNode recursively processes a node and its children, accumulating transforms.
func (l *GLTFLoader) processNode(doc *gltf.Document, nodeIdx int, parent math3d.Mat4, mesh *Mesh, depth int) error {
	if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) {
		return fmt.Errorf("node %d out of range", nodeIdx)
	}
	if depth > maxNodeDepth {
		return errors.New("node hierarchy too deep")
	}
	node := doc.Nodes[nodeIdx]
	world := parent.Mul(nodeTransform(node))

	if node.Mesh != nil {
		if *node.Mesh >= len(doc.Meshes) {
			return fmt.Errorf("node %d: mesh %d out of range", nodeIdx, *node.Mesh)
		}
		if err := processMesh(doc, doc.Meshes[*node.Mesh], mesh, world); err != nil {
			return fmt.Errorf("mesh %q: %w", doc.Meshes[*node.Mesh].Name, err)
		}
	}

	for _, child := range node.Children {
		if err := l.processNode(doc, child, world, mesh, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// processMesh appends the triangle primitives of m, transformed by world.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh, world math3d.Mat4) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		base := len(mesh.Vertices)
		for _, p := range positions {
			mesh.Vertices = append(mesh.Vertices, world.MulVec3(p))
		}

		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.Faces = append(mesh.Faces, Face{
					V: [3]int{base + indices[i], base + indices[i+1], base + indices[i+2]},
				})
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Faces = append(mesh.Faces, Face{
					V: [3]int{base + i, base + i + 1, base + i + 2},
				})
			}
		}
	}

	return nil
}

// accessorBytes returns the buffer backing an accessor plus its first byte
// offset and stride, checking that count elements fit.
func accessorBytes(doc *gltf.Document, accessorIdx, elemSize int) (data []byte, start, stride, count int, err error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, 0, 0, 0, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.BufferView == nil {
		return nil, 0, 0, 0, errors.New("accessor has no buffer view")
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, 0, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	bv := doc.BufferViews[*accessor.BufferView]
	if bv.Buffer >= len(doc.Buffers) {
		return nil, 0, 0, 0, fmt.Errorf("buffer %d out of range", bv.Buffer)
	}
	data = doc.Buffers[bv.Buffer].Data
	if data == nil {
		return nil, 0, 0, 0, errors.New("buffer has no data")
	}

	start = bv.ByteOffset + accessor.ByteOffset
	stride = bv.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	count = accessor.Count
	if count > 0 && start+(count-1)*stride+elemSize > len(data) {
		return nil, 0, 0, 0, fmt.Errorf("accessor %d overruns its buffer", accessorIdx)
	}
	return data, start, stride, count, nil
}

// readVec3Accessor reads float VEC3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < len(doc.Accessors) {
		a := doc.Accessors[accessorIdx]
		if a.Type != gltf.AccessorVec3 || a.ComponentType != gltf.ComponentFloat {
			return nil, fmt.Errorf("expected float VEC3, got %v/%v", a.Type, a.ComponentType)
		}
	}
	data, start, stride, count, err := accessorBytes(doc, accessorIdx, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, count)
	for i := range count {
		off := start + i*stride
		result[i] = math3d.V3(
			float64(readFloat32LE(data[off:])),
			float64(readFloat32LE(data[off+4:])),
			float64(readFloat32LE(data[off+8:])),
		)
	}
	return result, nil
}

// readIndices reads SCALAR index data of any unsigned component type.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	var size int
	switch doc.Accessors[accessorIdx].ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", doc.Accessors[accessorIdx].ComponentType)
	}
	data, start, stride, count, err := accessorBytes(doc, accessorIdx, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, count)
	for i := range count {
		off := start + i*stride
		switch size {
		case 1:
			result[i] = int(data[off])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return result, nil
}

// LoadGLTFTexture returns the first image in the file that decodes, or nil
// when the file carries none.
func LoadGLTFTexture(path string) (image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return FirstImage(doc, filepath.Dir(path)), nil
}

// FirstImage decodes the first usable embedded or external image of doc.
func FirstImage(doc *gltf.Document, baseDir string) image.Image {
	for _, img := range doc.Images {
		var raw []byte
		switch {
		case img.BufferView != nil && *img.BufferView < len(doc.BufferViews):
			bv := doc.BufferViews[*img.BufferView]
			if bv.Buffer >= len(doc.Buffers) {
				continue
			}
			buf := doc.Buffers[bv.Buffer].Data
			if bv.ByteOffset+bv.ByteLength > len(buf) {
				continue
			}
			raw = buf[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
		case img.URI != "" && !img.IsEmbeddedResource():
			data, err := os.ReadFile(filepath.Join(baseDir, img.URI))
			if err != nil {
				continue
			}
			raw = data
		default:
			continue
		}
		decoded, _, err := image.Decode(bytes.NewReader(raw))
		if err == nil {
			return decoded
		}
	}
	return nil
}

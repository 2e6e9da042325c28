package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDispatch(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "tri.OBJ")
	if err := os.WriteFile(obj, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	stl := filepath.Join(dir, "tri.stl")
	stlData := "solid t\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendloop\nendfacet\nendsolid t\n"
	if err := os.WriteFile(stl, []byte(stlData), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{obj, stl} {
		mesh, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", path, err)
		}
		if mesh.TriangleCount() != 1 {
			t.Errorf("Load(%s) triangles = %d, want 1", path, mesh.TriangleCount())
		}
	}
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("model.fbx")
	if !errors.Is(err, ErrUnsupportedAsset) {
		t.Errorf("Load(.fbx) error = %v, want ErrUnsupportedAsset", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.obj"))
	if err == nil || errors.Is(err, ErrUnsupportedAsset) {
		t.Errorf("Load(missing) error = %v, want open error", err)
	}
}

package models

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/raylight/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

// writeQuadGLB saves a two-triangle unit quad in the z=0 plane.
func writeQuadGLB(t *testing.T, withNormals bool) string {
	t.Helper()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	attrs := map[string]int{gltf.POSITION: pos}
	if withNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	}
	doc.Meshes = []*gltf.Mesh{{
		Name: "Quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: attrs,
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "Root", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLB(t *testing.T) {
	for _, withNormals := range []bool{true, false} {
		name := "with normals"
		if !withNormals {
			name = "computed normals"
		}
		t.Run(name, func(t *testing.T) {
			mesh, err := LoadGLB(writeQuadGLB(t, withNormals))
			if err != nil {
				t.Fatalf("LoadGLB: %v", err)
			}
			if mesh.Name != "quad.glb" {
				t.Errorf("Name = %q, want quad.glb", mesh.Name)
			}
			if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
				t.Fatalf("got %d vertices, %d triangles; want 4, 2", mesh.VertexCount(), mesh.TriangleCount())
			}
			if mesh.BoundsMin != math3d.V3(0, 0, 0) || mesh.BoundsMax != math3d.V3(1, 1, 0) {
				t.Errorf("bounds = %v..%v", mesh.BoundsMin, mesh.BoundsMax)
			}
			for _, f := range mesh.Faces {
				for _, ni := range f.N {
					if n := mesh.Normals[ni]; n != math3d.V3(0, 0, 1) {
						t.Errorf("normal = %v, want +Z", n)
					}
				}
			}
		})
	}
}

func TestGLTFLoaderFlatNormals(t *testing.T) {
	loader := NewGLTFLoader()
	if loader.FlatNormals {
		t.Error("FlatNormals should default to false")
	}
	loader.FlatNormals = true
	mesh, err := loader.Load(writeQuadGLB(t, true))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(mesh.Normals) != mesh.TriangleCount() {
		t.Errorf("got %d normals, want one per face (%d)", len(mesh.Normals), mesh.TriangleCount())
	}
}

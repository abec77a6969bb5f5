package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/raylight/pkg/math3d"
)

// GLTFLoader loads glTF/GLB files into Mesh format.
type GLTFLoader struct {
	// FlatNormals replaces the file's vertex normals with face normals.
	// Files missing normals on any primitive always get face normals.
	FlatNormals bool
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{}
}

// LoadGLB loads a binary glTF (.glb) or a .gltf file with its buffers.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load merges every triangle primitive of every mesh in the document into
// one Mesh. Node transforms are not applied.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	allNormals := true
	for _, m := range doc.Meshes {
		ok, err := processMesh(doc, m, mesh)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
		allNormals = allNormals && ok
	}

	if l.FlatNormals || !allNormals {
		mesh.CalculateNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh appends the geometry of m to mesh and reports whether every
// primitive carried vertex normals. glTF front faces wind counter-clockwise,
// which already matches Triangle's outward normal.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) (bool, error) {
	allNormals := true
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points have no surface
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return false, fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			if err != nil {
				return false, fmt.Errorf("read normals: %w", err)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return false, fmt.Errorf("read indices: %w", err)
			}
		} else {
			// Unindexed: consecutive vertex triples
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		baseVertex := len(mesh.Vertices)
		for _, p := range positions {
			mesh.Vertices = append(mesh.Vertices, toVec3(p))
		}

		// Vertex normals share vertex indices.
		hasNormals := len(normals) == len(positions)
		allNormals = allNormals && hasNormals
		baseNormal := len(mesh.Normals)
		if hasNormals {
			for _, n := range normals {
				mesh.Normals = append(mesh.Normals, toVec3(n))
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			var f Face
			for k := range 3 {
				idx := int(indices[i+k])
				if idx >= len(positions) {
					return false, fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
				}
				f.V[k] = baseVertex + idx
				if hasNormals {
					f.N[k] = baseNormal + idx
				}
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return allNormals, nil
}

func toVec3(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}

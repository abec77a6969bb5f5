// Package models loads triangle meshes from OBJ and glTF files for use as
// scene geometry.
package models

import (
	"github.com/taigrr/raylight/pkg/math3d"
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Normals  []math3d.Vec3
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle referencing Mesh.Vertices and Mesh.Normals by
// zero-based index.
type Face struct {
	V [3]int
	N [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Normals:  make([]math3d.Vec3, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
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

// CalculateNormals replaces the normals with one flat normal per face.
// Degenerate faces get a zero normal.
func (m *Mesh) CalculateNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Faces))
	for i := range m.Faces {
		f := &m.Faces[i]
		v0 := m.Vertices[f.V[0]]
		v1 := m.Vertices[f.V[1]]
		v2 := m.Vertices[f.V[2]]

		n := v1.Sub(v0).Cross(v2.Sub(v0))
		if n.LenSq() > 0 {
			n = n.Normalize()
		}
		m.Normals[i] = n
		f.N = [3]int{i, i, i}
	}
}

// Transform applies a transformation matrix to all vertices and normals.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(m.Vertices[i])
	}
	// Rotation and uniform scale only, so the matrix itself maps normals.
	for i, n := range m.Normals {
		if d := mat.MulVec3Dir(n); d.LenSq() > 0 {
			m.Normals[i] = d.Normalize()
		}
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		Normals:   make([]math3d.Vec3, len(m.Normals)),
		Faces:     make([]Face, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Normals, m.Normals)
	copy(clone.Faces, m.Faces)
	return clone
}

// Triangles returns the vertex positions of every face that has a nonzero
// area. Degenerate faces are skipped.
func (m *Mesh) Triangles() [][3]math3d.Vec3 {
	tris := make([][3]math3d.Vec3, 0, len(m.Faces))
	for _, f := range m.Faces {
		p0, p1, p2 := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
		if p1.Sub(p0).Cross(p2.Sub(p0)).LenSq() == 0 {
			continue
		}
		tris = append(tris, [3]math3d.Vec3{p0, p1, p2})
	}
	return tris
}

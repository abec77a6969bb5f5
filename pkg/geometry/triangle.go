package geometry

import (
	"fmt"

	"github.com/taigrr/raylight/pkg/material"
	"github.com/taigrr/raylight/pkg/math3d"
)

// triangleEps bounds both the parallel-ray determinant test and the
// smallest accepted hit parameter.
const triangleEps = 1e-8

// Triangle is a flat triangle with a cached face normal.
type Triangle struct {
	P0, P1, P2 math3d.Vec3
	Normal     math3d.Vec3 // normalize((P1-P0) × (P2-P0))
	Material   material.Material
}

// NewTriangle creates a triangle. Collinear vertices have no normal and
// panic.
func NewTriangle(p0, p1, p2 math3d.Vec3, mat material.Material) *Triangle {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.LenSq() == 0 {
		panic(fmt.Sprintf("geometry: degenerate triangle %v %v %v", p0, p1, p2))
	}
	return &Triangle{P0: p0, P1: p1, P2: p2, Normal: n.Normalize(), Material: mat}
}

// Hit uses the Möller–Trumbore algorithm.
//
// The hit parameter must lie in (1e-8, rayT.Max); rayT.Min is not
// consulted, unlike Sphere.
func (tr *Triangle) Hit(r math3d.Ray, rayT math3d.Interval, rec *material.HitRecord) bool {
	edge1 := tr.P1.Sub(tr.P0)
	edge2 := tr.P2.Sub(tr.P0)
	h := r.Direction.Cross(edge2)
	det := edge1.Dot(h)

	// Ray parallel to the triangle's plane.
	if det > -triangleEps && det < triangleEps {
		return false
	}

	f := 1 / det
	s := r.Origin.Sub(tr.P0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return false
	}

	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return false
	}

	t := f * edge2.Dot(q)
	if t <= triangleEps || t >= rayT.Max {
		return false
	}

	rec.T = t
	rec.Point = r.At(t)
	rec.SetFaceNormal(r, tr.Normal)
	rec.Material = tr.Material
	return true
}

// NewCube returns the twelve triangles of an axis-aligned cube with one
// corner at origin and edge length size.
func NewCube(origin math3d.Vec3, size float64, mat material.Material) []Hittable {
	corner := func(x, y, z float64) math3d.Vec3 {
		return origin.Add(math3d.V3(x*size, y*size, z*size))
	}
	v0, v1, v2, v3 := corner(0, 0, 0), corner(1, 0, 0), corner(1, 1, 0), corner(0, 1, 0)
	v4, v5, v6, v7 := corner(0, 0, 1), corner(1, 0, 1), corner(1, 1, 1), corner(0, 1, 1)

	faces := [][3]math3d.Vec3{
		{v0, v1, v3}, {v1, v2, v3}, // back (z=0)
		{v4, v5, v7}, {v5, v6, v7}, // front (z=1)
		{v0, v3, v4}, {v3, v7, v4}, // left
		{v1, v2, v5}, {v2, v6, v5}, // right
		{v3, v2, v7}, {v2, v6, v7}, // top
		{v0, v1, v4}, {v1, v5, v4}, // bottom
	}

	tris := make([]Hittable, 0, len(faces))
	for _, f := range faces {
		tris = append(tris, NewTriangle(f[0], f[1], f[2], mat))
	}
	return tris
}

package geometry

import (
	"fmt"
	"math"

	"github.com/taigrr/raylight/pkg/material"
	"github.com/taigrr/raylight/pkg/math3d"
)

// Sphere is a sphere with a shared material.
type Sphere struct {
	Center   math3d.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a sphere. A non-positive or non-finite radius is a
// scene construction bug and panics.
func NewSphere(center math3d.Vec3, radius float64, mat material.Material) *Sphere {
	if !(radius > 0) || math.IsInf(radius, 0) {
		panic(fmt.Sprintf("geometry: invalid sphere radius %v", radius))
	}
	return &Sphere{Center: center, Radius: radius, Material: mat}
}

// Hit solves |origin + t*dir - center| = radius, trying the nearer root
// first.
func (s *Sphere) Hit(r math3d.Ray, rayT math3d.Interval, rec *material.HitRecord) bool {
	oc := s.Center.Sub(r.Origin)
	a := r.Direction.LenSq()
	h := r.Direction.Dot(oc)
	c := oc.LenSq() - s.Radius*s.Radius

	discriminant := h*h - a*c
	if discriminant < 0 {
		return false
	}
	sqrtd := math.Sqrt(discriminant)

	root := (h - sqrtd) / a
	if !rayT.Surrounds(root) {
		root = (h + sqrtd) / a
		if !rayT.Surrounds(root) {
			return false
		}
	}

	rec.T = root
	rec.Point = r.At(root)
	rec.SetFaceNormal(r, rec.Point.Sub(s.Center).Div(s.Radius))
	rec.Material = s.Material
	return true
}

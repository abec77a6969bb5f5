package material

import (
	"math/rand"

	"github.com/taigrr/raylight/pkg/math3d"
)

// Metal is a specular reflector with optional roughness.
type Metal struct {
	Albedo math3d.Color
	Fuzz   float64 // 0 = perfect mirror, 1 = very rough
}

// NewMetal creates a metal material. fuzz is clamped to [0, 1].
func NewMetal(albedo math3d.Color, fuzz float64) Metal {
	if fuzz > 1 {
		fuzz = 1
	}
	if fuzz < 0 {
		fuzz = 0
	}
	return Metal{Albedo: albedo, Fuzz: fuzz}
}

// Scatter reflects about the normal and perturbs by Fuzz. A perturbed ray
// that ends up at or below the surface is absorbed, which darkens rough
// metal at grazing angles.
func (m Metal) Scatter(in math3d.Ray, rec HitRecord, rng *rand.Rand) (math3d.Color, math3d.Ray, bool) {
	reflected := in.Direction.Reflect(rec.Normal).Normalize()
	reflected = reflected.Add(math3d.RandomUnitVector(rng).Scale(m.Fuzz))

	scattered := math3d.NewRay(rec.Point, reflected)
	return m.Albedo, scattered, reflected.Dot(rec.Normal) > 0
}

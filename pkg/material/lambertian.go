package material

import (
	"math/rand"

	"github.com/taigrr/raylight/pkg/math3d"
)

// Lambertian is an ideal diffuse surface.
type Lambertian struct {
	Albedo math3d.Color
}

// NewLambertian creates a diffuse material.
func NewLambertian(albedo math3d.Color) Lambertian {
	return Lambertian{Albedo: albedo}
}

// Scatter always scatters, toward normal + a random unit vector.
func (l Lambertian) Scatter(_ math3d.Ray, rec HitRecord, rng *rand.Rand) (math3d.Color, math3d.Ray, bool) {
	return l.Albedo, math3d.NewRay(rec.Point, diffuseDirection(rec.Normal, rng)), true
}

// diffuseDirection falls back to the bare normal when the random vector
// almost cancels it.
func diffuseDirection(normal math3d.Vec3, rng *rand.Rand) math3d.Vec3 {
	dir := normal.Add(math3d.RandomUnitVector(rng))
	if dir.NearZero() {
		return normal
	}
	return dir
}

// defaultAlbedo is the 50% grey used by Default.
var defaultAlbedo = math3d.V3(0.5, 0.5, 0.5)

// Default is the diffuse grey material a hit record scatters with when no
// material was assigned.
type Default struct{}

// Scatter behaves like a Lambertian with 50% grey albedo.
func (Default) Scatter(_ math3d.Ray, rec HitRecord, rng *rand.Rand) (math3d.Color, math3d.Ray, bool) {
	return defaultAlbedo, math3d.NewRay(rec.Point, diffuseDirection(rec.Normal, rng)), true
}

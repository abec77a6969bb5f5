// Package material implements surface scattering for the path tracer.
//
// A Material decides, for a ray that hit a surface, whether the path
// continues and with what attenuation. Materials are immutable after
// construction and are shared by every primitive that references them, so
// they are safe for concurrent use by render workers.
package material

import (
	"math/rand"

	"github.com/taigrr/raylight/pkg/math3d"
)

// HitRecord describes the nearest intersection found by a hit test.
type HitRecord struct {
	Point     math3d.Vec3
	Normal    math3d.Vec3 // Always opposes the incoming ray
	Material  Material    // nil scatters as Default
	T         float64
	FrontFace bool // Ray struck the side the outward normal points toward
}

// SetFaceNormal orients the stored normal against the ray. outward must be
// unit length.
func (rec *HitRecord) SetFaceNormal(r math3d.Ray, outward math3d.Vec3) {
	rec.FrontFace = outward.Dot(r.Direction) < 0
	if rec.FrontFace {
		rec.Normal = outward
	} else {
		rec.Normal = outward.Negate()
	}
}

// Mat returns the record's material, falling back to Default for a record
// that never received one.
func (rec *HitRecord) Mat() Material {
	if rec.Material == nil {
		return Default{}
	}
	return rec.Material
}

// Material scatters an incoming ray at a hit point.
//
// Scatter returns ok=false when the ray is absorbed. Otherwise it returns
// the per-channel attenuation and the outgoing ray, which starts at the hit
// point. rng is the caller's private stream.
type Material interface {
	Scatter(in math3d.Ray, rec HitRecord, rng *rand.Rand) (attenuation math3d.Color, scattered math3d.Ray, ok bool)
}

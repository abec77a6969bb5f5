package math3d

import (
	"math"
	"math/rand"
)

// The samplers below draw from a caller-owned generator so that each
// render worker can keep a private stream.

// RandomVec3 returns a vector with each component uniform in [min, max).
func RandomVec3(rng *rand.Rand, min, max float64) Vec3 {
	span := max - min
	return Vec3{
		min + span*rng.Float64(),
		min + span*rng.Float64(),
		min + span*rng.Float64(),
	}
}

// RandomUnitVector returns a uniformly distributed unit vector.
// Points in the [-1,1) cube are rejected until one falls inside the unit
// sphere (and is not so close to the origin that normalizing underflows).
func RandomUnitVector(rng *rand.Rand) Vec3 {
	for {
		p := RandomVec3(rng, -1, 1)
		lensq := p.LenSq()
		if 1e-160 < lensq && lensq <= 1 {
			return p.Div(math.Sqrt(lensq))
		}
	}
}

// RandomInUnitSphere returns a point uniformly distributed inside the unit
// sphere.
func RandomInUnitSphere(rng *rand.Rand) Vec3 {
	for {
		p := RandomVec3(rng, -1, 1)
		if p.LenSq() < 1 {
			return p
		}
	}
}

// RandomOnHemisphere returns a unit vector in the hemisphere around normal.
func RandomOnHemisphere(rng *rand.Rand, normal Vec3) Vec3 {
	v := RandomUnitVector(rng)
	if v.Dot(normal) > 0 {
		return v
	}
	return v.Negate()
}

// RandomInUnitDisk returns a point uniformly distributed in the unit disk
// on the z=0 plane.
func RandomInUnitDisk(rng *rand.Rand) Vec3 {
	for {
		p := Vec3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, 0}
		if p.LenSq() <= 1 {
			return p
		}
	}
}

package material

import (
	"math"
	"math/rand"

	"github.com/taigrr/raylight/pkg/math3d"
)

// Dielectric is a clear refractive material such as glass or water.
type Dielectric struct {
	// RefractionIndex is relative to the surrounding medium. 1.5 is glass;
	// values below 1 model an air bubble inside a denser medium.
	RefractionIndex float64
}

// NewDielectric creates a dielectric material.
func NewDielectric(index float64) Dielectric {
	return Dielectric{RefractionIndex: index}
}

// Scatter always scatters with no attenuation. It reflects under total
// internal reflection and otherwise picks reflection or refraction with
// probability given by Schlick's approximation.
func (d Dielectric) Scatter(in math3d.Ray, rec HitRecord, rng *rand.Rand) (math3d.Color, math3d.Ray, bool) {
	ratio := d.RefractionIndex
	if rec.FrontFace {
		ratio = 1 / d.RefractionIndex
	}

	unit := in.Direction.Normalize()
	cosTheta := math.Min(unit.Negate().Dot(rec.Normal), 1)
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)

	var dir math3d.Vec3
	if ratio*sinTheta > 1 || Reflectance(cosTheta, ratio) > rng.Float64() {
		dir = unit.Reflect(rec.Normal)
	} else {
		dir = unit.Refract(rec.Normal, ratio)
	}

	return math3d.One3(), math3d.NewRay(rec.Point, dir), true
}

// Reflectance is Schlick's approximation of the Fresnel reflectance for
// the given incidence cosine and index ratio.
func Reflectance(cosine, ratio float64) float64 {
	r0 := (1 - ratio) / (1 + ratio)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

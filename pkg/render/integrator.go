package render

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/taigrr/raylight/pkg/geometry"
	"github.com/taigrr/raylight/pkg/material"
	"github.com/taigrr/raylight/pkg/math3d"
)

var (
	// hitRange skips t near 0 so scattered rays do not re-hit their origin.
	hitRange = math3d.NewInterval(0.001, math.Inf(1))

	// intensity keeps a channel below 256 after scaling.
	intensity = math3d.NewInterval(0, 0.999)

	skyHorizon = math3d.V3(1, 1, 1)
	skyZenith  = math3d.V3(0.5, 0.7, 1.0)
)

// SkyColor is the background gradient seen by a ray that escapes the scene.
func SkyColor(dir math3d.Vec3) math3d.Color {
	a := 0.5 * (dir.Normalize().Y + 1)
	return skyHorizon.Lerp(skyZenith, a)
}

// RayColor estimates the radiance arriving along r, following at most depth
// bounces. A path that exhausts its depth or is absorbed contributes black.
func (c *Camera) RayColor(r math3d.Ray, depth int, world geometry.Hittable, rng *rand.Rand) math3d.Color {
	throughput := math3d.One3()
	for ; depth > 0; depth-- {
		var rec material.HitRecord
		if !world.Hit(r, hitRange, &rec) {
			return throughput.Mul(SkyColor(r.Direction))
		}

		attenuation, scattered, ok := rec.Mat().Scatter(r, rec, rng)
		if !ok {
			return math3d.Zero3()
		}
		throughput = throughput.Mul(attenuation)
		r = scattered
	}
	return math3d.Zero3()
}

// SampleColor averages SamplesPerPixel path estimates for pixel (i, j).
func (c *Camera) SampleColor(i, j int, world geometry.Hittable, rng *rand.Rand) math3d.Color {
	var sum math3d.Color
	for range c.SamplesPerPixel {
		sum = sum.Add(c.RayColor(c.GetRay(i, j, rng), c.MaxDepth, world, rng))
	}
	return sum.Scale(c.sampleScale)
}

// ToRGBA gamma-encodes a linear color and quantizes it to 8 bits per
// channel. Alpha is always opaque.
func ToRGBA(c math3d.Color) color.RGBA {
	return color.RGBA{
		R: quantize(c.X),
		G: quantize(c.Y),
		B: quantize(c.Z),
		A: 255,
	}
}

func quantize(linear float64) uint8 {
	return uint8(256 * intensity.Clamp(linearToGamma(linear)))
}

// linearToGamma applies gamma 2. Negative and NaN inputs map to 0.
func linearToGamma(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	return math.Sqrt(x)
}

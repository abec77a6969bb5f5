package math3d

import "math"

// Ray is the half-line Origin + t*Direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a ray. The direction is not normalized.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Interval is a closed range of real numbers [Min, Max].
type Interval struct {
	Min, Max float64
}

var (
	// Empty contains nothing.
	Empty = Interval{Min: math.Inf(1), Max: math.Inf(-1)}
	// Universe contains every real number.
	Universe = Interval{Min: math.Inf(-1), Max: math.Inf(1)}
)

// NewInterval creates the interval [min, max].
func NewInterval(min, max float64) Interval {
	return Interval{Min: min, Max: max}
}

// Size returns Max - Min.
func (iv Interval) Size() float64 {
	return iv.Max - iv.Min
}

// Contains reports whether min <= x <= max.
func (iv Interval) Contains(x float64) bool {
	return iv.Min <= x && x <= iv.Max
}

// Surrounds reports whether min < x < max.
func (iv Interval) Surrounds(x float64) bool {
	return iv.Min < x && x < iv.Max
}

// Clamp projects x into [min, max].
func (iv Interval) Clamp(x float64) float64 {
	if x < iv.Min {
		return iv.Min
	}
	if x > iv.Max {
		return iv.Max
	}
	return x
}

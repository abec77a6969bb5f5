package render

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/taigrr/raylight/pkg/math3d"
)

// ErrInvalidParams is wrapped by every camera validation error.
var ErrInvalidParams = errors.New("invalid camera parameters")

// Params is the user-facing camera configuration.
type Params struct {
	AspectRatio     float64     // Ideal width / height
	ImageWidth      int         // Rendered image width in pixels
	SamplesPerPixel int         // Random samples per pixel
	MaxDepth        int         // Maximum bounces per path
	VFOV            float64     // Vertical field of view in degrees
	LookFrom        math3d.Vec3 // Camera position
	LookAt          math3d.Vec3 // Point the camera looks at
	VUp             math3d.Vec3 // Camera-relative up
	DefocusAngle    float64     // Aperture cone angle in degrees, 0 for a pinhole
	FocusDist       float64     // Distance to the plane of perfect focus
}

// DefaultParams returns a 100x100 pinhole camera at the origin looking
// down -Z.
func DefaultParams() Params {
	return Params{
		AspectRatio:     1,
		ImageWidth:      100,
		SamplesPerPixel: 10,
		MaxDepth:        10,
		VFOV:            90,
		LookFrom:        math3d.V3(0, 0, 0),
		LookAt:          math3d.V3(0, 0, -1),
		VUp:             math3d.V3(0, 1, 0),
		DefocusAngle:    0,
		FocusDist:       10,
	}
}

// ImageHeight returns round(width / aspect), at least 1.
func (p Params) ImageHeight() int {
	h := int(math.Round(float64(p.ImageWidth) / p.AspectRatio))
	return max(h, 1)
}

// Validate reports the first unusable setting.
func (p Params) Validate() error {
	switch {
	case p.ImageWidth < 1:
		return fmt.Errorf("image width %d: %w", p.ImageWidth, ErrInvalidParams)
	case p.SamplesPerPixel < 1:
		return fmt.Errorf("samples per pixel %d: %w", p.SamplesPerPixel, ErrInvalidParams)
	case p.MaxDepth < 0:
		return fmt.Errorf("max depth %d: %w", p.MaxDepth, ErrInvalidParams)
	case !(p.AspectRatio > 0) || math.IsInf(p.AspectRatio, 0):
		return fmt.Errorf("aspect ratio %v: %w", p.AspectRatio, ErrInvalidParams)
	case !(p.VFOV > 0 && p.VFOV < 180):
		return fmt.Errorf("vertical fov %v: %w", p.VFOV, ErrInvalidParams)
	case !(p.FocusDist > 0) || math.IsInf(p.FocusDist, 0):
		return fmt.Errorf("focus distance %v: %w", p.FocusDist, ErrInvalidParams)
	case math.IsNaN(p.DefocusAngle) || p.DefocusAngle >= 180:
		return fmt.Errorf("defocus angle %v: %w", p.DefocusAngle, ErrInvalidParams)
	case !p.LookFrom.IsFinite() || !p.LookAt.IsFinite() || !p.VUp.IsFinite():
		return fmt.Errorf("non-finite camera vector: %w", ErrInvalidParams)
	case p.LookFrom == p.LookAt:
		return fmt.Errorf("lookfrom equals lookat %v: %w", p.LookFrom, ErrInvalidParams)
	case p.VUp.Cross(p.LookFrom.Sub(p.LookAt)).LenSq() == 0:
		return fmt.Errorf("vup %v parallel to view direction: %w", p.VUp, ErrInvalidParams)
	}
	return nil
}

// Camera turns pixel coordinates into primary rays.
type Camera struct {
	Params

	imageHeight int
	sampleScale float64     // 1 / SamplesPerPixel
	center      math3d.Vec3 // Camera center
	pixel00     math3d.Vec3 // Center of pixel (0, 0)
	pixelDU     math3d.Vec3 // Offset to the pixel to the right
	pixelDV     math3d.Vec3 // Offset to the pixel below
	u, v, w     math3d.Vec3 // Camera frame basis
	defocusU    math3d.Vec3 // Horizontal defocus disk radius
	defocusV    math3d.Vec3 // Vertical defocus disk radius
}

// NewCamera creates a camera. Call Initialize before generating rays.
func NewCamera(p Params) *Camera {
	return &Camera{Params: p}
}

// Initialize validates the parameters and derives the viewport. It must be
// re-run after any change to Params.
func (c *Camera) Initialize() error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.imageHeight = c.ImageHeight()
	c.sampleScale = 1 / float64(c.SamplesPerPixel)
	c.center = c.LookFrom

	theta := math3d.Radians(c.VFOV)
	viewportHeight := 2 * math.Tan(theta/2) * c.FocusDist
	// The rounded height, not AspectRatio, keeps pixels square.
	viewportWidth := viewportHeight * (float64(c.ImageWidth) / float64(c.imageHeight))

	c.w = c.LookFrom.Sub(c.LookAt).Normalize()
	c.u = c.VUp.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	viewportU := c.u.Scale(viewportWidth)
	viewportV := c.v.Negate().Scale(viewportHeight)

	c.pixelDU = viewportU.Div(float64(c.ImageWidth))
	c.pixelDV = viewportV.Div(float64(c.imageHeight))

	upperLeft := c.center.
		Sub(c.w.Scale(c.FocusDist)).
		Sub(viewportU.Div(2)).
		Sub(viewportV.Div(2))
	c.pixel00 = upperLeft.Add(c.pixelDU.Add(c.pixelDV).Scale(0.5))

	defocusRadius := c.FocusDist * math.Tan(math3d.Radians(c.DefocusAngle/2))
	c.defocusU = c.u.Scale(defocusRadius)
	c.defocusV = c.v.Scale(defocusRadius)

	return nil
}

// Height returns the image height computed by Initialize.
func (c *Camera) Height() int {
	return c.imageHeight
}

// Center returns the camera center computed by Initialize.
func (c *Camera) Center() math3d.Vec3 {
	return c.center
}

// PixelCenter returns the center of pixel (i, j) on the focus plane.
func (c *Camera) PixelCenter(i, j int) math3d.Vec3 {
	return c.pixel00.Add(c.pixelDU.Scale(float64(i))).Add(c.pixelDV.Scale(float64(j)))
}

// GetRay returns a ray through a uniformly random point of pixel (i, j),
// starting at the camera center or, with defocus enabled, a random point
// on the defocus disk.
func (c *Camera) GetRay(i, j int, rng *rand.Rand) math3d.Ray {
	ox, oy := rng.Float64()-0.5, rng.Float64()-0.5
	sample := c.pixel00.
		Add(c.pixelDU.Scale(float64(i) + ox)).
		Add(c.pixelDV.Scale(float64(j) + oy))

	origin := c.center
	if c.DefocusAngle > 0 {
		p := math3d.RandomInUnitDisk(rng)
		origin = c.center.Add(c.defocusU.Scale(p.X)).Add(c.defocusV.Scale(p.Y))
	}

	return math3d.NewRay(origin, sample.Sub(origin))
}

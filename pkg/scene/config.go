// Package scene assembles worlds and camera settings from JSON scene files
// or from the built-in scenes.
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/raylight/pkg/math3d"
	"github.com/taigrr/raylight/pkg/render"
)

// Vec is a JSON [x, y, z] triple.
type Vec [3]float64

// V3 converts to a math3d vector.
func (v Vec) V3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

func fromVec3(v math3d.Vec3) Vec {
	return Vec{v.X, v.Y, v.Z}
}

// Color is a linear RGB color written either as [r, g, b] in [0, 1] or as
// an sRGB hex string such as "#ff8800".
type Color math3d.Color

// UnmarshalJSON accepts both color notations.
func (c *Color) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		hex, err := colorful.Hex(s)
		if err != nil {
			return fmt.Errorf("parse color %q: %w", s, err)
		}
		r, g, b := hex.LinearRgb()
		*c = Color{X: r, Y: g, Z: b}
		return nil
	}

	var v Vec
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse color: %w", err)
	}
	*c = Color(v.V3())
	return nil
}

// CameraConfig mirrors render.Params. Fields absent from the file keep the
// values of render.DefaultParams.
type CameraConfig struct {
	AspectRatio     float64 `json:"aspectRatio"`
	ImageWidth      int     `json:"imageWidth"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	MaxDepth        int     `json:"maxDepth"`
	VFOV            float64 `json:"vfov"`
	LookFrom        Vec     `json:"lookFrom"`
	LookAt          Vec     `json:"lookAt"`
	VUp             Vec     `json:"vup"`
	DefocusAngle    float64 `json:"defocusAngle"`
	FocusDist       float64 `json:"focusDist"`
}

func cameraConfig(p render.Params) CameraConfig {
	return CameraConfig{
		AspectRatio:     p.AspectRatio,
		ImageWidth:      p.ImageWidth,
		SamplesPerPixel: p.SamplesPerPixel,
		MaxDepth:        p.MaxDepth,
		VFOV:            p.VFOV,
		LookFrom:        fromVec3(p.LookFrom),
		LookAt:          fromVec3(p.LookAt),
		VUp:             fromVec3(p.VUp),
		DefocusAngle:    p.DefocusAngle,
		FocusDist:       p.FocusDist,
	}
}

// Params converts to render parameters.
func (c CameraConfig) Params() render.Params {
	return render.Params{
		AspectRatio:     c.AspectRatio,
		ImageWidth:      c.ImageWidth,
		SamplesPerPixel: c.SamplesPerPixel,
		MaxDepth:        c.MaxDepth,
		VFOV:            c.VFOV,
		LookFrom:        c.LookFrom.V3(),
		LookAt:          c.LookAt.V3(),
		VUp:             c.VUp.V3(),
		DefocusAngle:    c.DefocusAngle,
		FocusDist:       c.FocusDist,
	}
}

// MaterialConfig describes one named material.
type MaterialConfig struct {
	Type            string  `json:"type"` // lambertian, metal, dielectric or default
	Albedo          *Color  `json:"albedo,omitempty"`
	Fuzz            float64 `json:"fuzz,omitempty"`
	RefractionIndex float64 `json:"refractionIndex,omitempty"`
}

// ObjectConfig describes one scene object. Which fields apply depends on
// Type.
type ObjectConfig struct {
	Type     string `json:"type"` // sphere, triangle, cube or mesh
	Material string `json:"material,omitempty"`

	// sphere
	Center Vec     `json:"center"`
	Radius float64 `json:"radius"`

	// triangle
	Vertices []Vec `json:"vertices,omitempty"`

	// cube
	Origin Vec     `json:"origin"`
	Size   float64 `json:"size"`

	// mesh (.obj, .glb or .gltf), resolved relative to the scene file
	Path      string  `json:"path,omitempty"`
	Fit       float64 `json:"fit,omitempty"` // recenter and scale the largest extent to Fit
	Translate Vec     `json:"translate"`
	Scale     float64 `json:"scale,omitempty"` // 0 means 1
	RotateY   float64 `json:"rotateY"`         // degrees
}

// File is the top-level JSON document.
type File struct {
	Camera    CameraConfig              `json:"camera"`
	Materials map[string]MaterialConfig `json:"materials"`
	Objects   []ObjectConfig            `json:"objects"`
}

// Decode parses a scene document. Unknown fields are rejected so typos
// surface before a long render.
func Decode(data []byte) (*File, error) {
	f := &File{Camera: cameraConfig(render.DefaultParams())}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return f, nil
}

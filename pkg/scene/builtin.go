package scene

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"github.com/taigrr/raylight/pkg/geometry"
	"github.com/taigrr/raylight/pkg/material"
	"github.com/taigrr/raylight/pkg/math3d"
	"github.com/taigrr/raylight/pkg/render"
)

var builtins = map[string]struct {
	desc  string
	build func() *Scene
}{
	"demo":      {"ground, red cube, green and blue spheres", Demo},
	"materials": {"diffuse, hollow glass and fuzzy metal spheres", Materials},
	"sky":       {"empty world showing only the sky gradient", Sky},
	"spheres":   {"random field of small spheres around three large ones", Spheres},
}

// Names lists the built-in scenes in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Describe returns a one-line description of a built-in scene.
func Describe(name string) string {
	return builtins[name].desc
}

// Builtin builds a built-in scene by name.
func Builtin(name string) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return b.build(), nil
}

func newScene(name string, cam render.Params) *Scene {
	return &Scene{Name: name, Camera: cam, World: geometry.NewList()}
}

func (s *Scene) addTriangles(objs []geometry.Hittable) {
	s.World.Add(objs...)
	s.Triangles += len(objs)
}

// Demo is a grey ground sphere with a red cube at the origin and a green
// and a blue sphere, seen through a slightly defocused lens.
func Demo() *Scene {
	cam := render.DefaultParams()
	cam.AspectRatio = 16.0 / 9.0
	cam.ImageWidth = 1200
	cam.SamplesPerPixel = 10
	cam.MaxDepth = 5
	cam.VFOV = 90
	cam.LookFrom = math3d.V3(0, 1, 10)
	cam.LookAt = math3d.V3(0, 0, 0)
	cam.VUp = math3d.V3(0, 1, 0)
	cam.DefocusAngle = 0.6
	cam.FocusDist = 10

	s := newScene("demo", cam)
	s.World.Add(geometry.NewSphere(math3d.V3(0, -1000, -50), 1000, material.NewLambertian(math3d.V3(0.5, 0.5, 0.5))))
	s.addTriangles(geometry.NewCube(math3d.Zero3(), 2, material.NewLambertian(math3d.V3(1, 0, 0))))
	s.World.Add(
		geometry.NewSphere(math3d.V3(5, 3, 0), 0.5, material.NewLambertian(math3d.V3(0, 1, 0))),
		geometry.NewSphere(math3d.V3(0, 1, -5), 1, material.NewLambertian(math3d.V3(0, 0, 1))),
	)
	return s
}

// Materials shows one sphere of each material. The left glass sphere holds
// an air bubble so it renders hollow.
func Materials() *Scene {
	cam := render.DefaultParams()
	cam.AspectRatio = 16.0 / 9.0
	cam.ImageWidth = 400
	cam.SamplesPerPixel = 100
	cam.MaxDepth = 50
	cam.VFOV = 20
	cam.LookFrom = math3d.V3(-2, 2, 1)
	cam.LookAt = math3d.V3(0, 0, -1)
	cam.DefocusAngle = 10
	cam.FocusDist = 3.4

	s := newScene("materials", cam)
	s.World.Add(
		geometry.NewSphere(math3d.V3(0, -100.5, -1), 100, material.NewLambertian(math3d.V3(0.8, 0.8, 0))),
		geometry.NewSphere(math3d.V3(0, 0, -1.2), 0.5, material.NewLambertian(math3d.V3(0.1, 0.2, 0.5))),
		geometry.NewSphere(math3d.V3(-1, 0, -1), 0.5, material.NewDielectric(1.5)),
		geometry.NewSphere(math3d.V3(-1, 0, -1), 0.4, material.NewDielectric(1/1.5)),
		geometry.NewSphere(math3d.V3(1, 0, -1), 0.5, material.NewMetal(math3d.V3(0.8, 0.6, 0.2), 1)),
	)
	return s
}

// Sky renders nothing but the background.
func Sky() *Scene {
	cam := render.DefaultParams()
	cam.AspectRatio = 16.0 / 9.0
	cam.ImageWidth = 400
	return newScene("sky", cam)
}

// Spheres scatters small spheres of random materials on a grid. The layout
// comes from a fixed seed so every run builds the same world.
func Spheres() *Scene {
	cam := render.DefaultParams()
	cam.AspectRatio = 16.0 / 9.0
	cam.ImageWidth = 1200
	cam.SamplesPerPixel = 50
	cam.MaxDepth = 50
	cam.VFOV = 20
	cam.LookFrom = math3d.V3(13, 2, 3)
	cam.LookAt = math3d.V3(0, 0, 0)
	cam.DefocusAngle = 0.6
	cam.FocusDist = 10

	s := newScene("spheres", cam)
	s.World.Add(geometry.NewSphere(math3d.V3(0, -1000, 0), 1000, material.NewLambertian(math3d.V3(0.5, 0.5, 0.5))))

	rng := rand.New(rand.NewSource(1))
	clearing := math3d.V3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := math3d.V3(float64(a)+0.9*rng.Float64(), 0.2, float64(b)+0.9*rng.Float64())
			choose := rng.Float64()
			if center.Distance(clearing) <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case choose < 0.8:
				mat = material.NewLambertian(math3d.RandomVec3(rng, 0, 1).Mul(math3d.RandomVec3(rng, 0, 1)))
			case choose < 0.95:
				mat = material.NewMetal(math3d.RandomVec3(rng, 0.5, 1), 0.5*rng.Float64())
			default:
				mat = material.NewDielectric(1.5)
			}
			s.World.Add(geometry.NewSphere(center, 0.2, mat))
		}
	}

	s.World.Add(
		geometry.NewSphere(math3d.V3(0, 1, 0), 1, material.NewDielectric(1.5)),
		geometry.NewSphere(math3d.V3(-4, 1, 0), 1, material.NewLambertian(math3d.V3(0.4, 0.2, 0.1))),
		geometry.NewSphere(math3d.V3(4, 1, 0), 1, material.NewMetal(math3d.V3(0.7, 0.6, 0.5), 0)),
	)
	return s
}

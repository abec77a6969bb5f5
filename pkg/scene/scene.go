package scene

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/raylight/pkg/geometry"
	"github.com/taigrr/raylight/pkg/material"
	"github.com/taigrr/raylight/pkg/math3d"
	"github.com/taigrr/raylight/pkg/models"
	"github.com/taigrr/raylight/pkg/render"
)

// Scene is a ready-to-render world with its camera settings.
type Scene struct {
	Name      string
	Camera    render.Params
	World     *geometry.List
	Triangles int // triangles from cubes, meshes and bare triangles
}

// Load reads and builds a JSON scene file. Mesh paths are resolved relative
// to the file's directory.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sc, err := f.Build(name, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("build scene %s: %w", name, err)
	}
	return sc, nil
}

// Build validates every material and object and assembles the world.
// Nothing is rendered if any part is invalid.
func (f *File) Build(name, baseDir string) (*Scene, error) {
	mats := make(map[string]material.Material, len(f.Materials))
	for key, mc := range f.Materials {
		m, err := mc.Build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", key, err)
		}
		mats[key] = m
	}

	sc := &Scene{
		Name:   name,
		Camera: f.Camera.Params(),
		World:  geometry.NewList(),
	}
	for i, oc := range f.Objects {
		var mat material.Material
		if oc.Material != "" {
			m, ok := mats[oc.Material]
			if !ok {
				return nil, fmt.Errorf("object %d: unknown material %q", i, oc.Material)
			}
			mat = m
		}

		objs, tris, err := oc.Build(mat, baseDir)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, oc.Type, err)
		}
		sc.World.Add(objs...)
		sc.Triangles += tris
	}

	return sc, nil
}

// Build creates the material.
func (mc MaterialConfig) Build() (material.Material, error) {
	albedo := math3d.V3(0.5, 0.5, 0.5)
	if mc.Albedo != nil {
		albedo = math3d.Color(*mc.Albedo)
	}

	switch mc.Type {
	case "lambertian":
		return material.NewLambertian(albedo), nil
	case "metal":
		return material.NewMetal(albedo, mc.Fuzz), nil
	case "dielectric":
		if !(mc.RefractionIndex > 0) {
			return nil, fmt.Errorf("refraction index %v must be positive", mc.RefractionIndex)
		}
		return material.NewDielectric(mc.RefractionIndex), nil
	case "default":
		return material.Default{}, nil
	default:
		return nil, fmt.Errorf("unknown material type %q", mc.Type)
	}
}

// Build creates the object's primitives and reports how many of them are
// triangles.
func (oc ObjectConfig) Build(mat material.Material, baseDir string) ([]geometry.Hittable, int, error) {
	switch oc.Type {
	case "sphere":
		if !(oc.Radius > 0) {
			return nil, 0, fmt.Errorf("radius %v must be positive", oc.Radius)
		}
		return []geometry.Hittable{geometry.NewSphere(oc.Center.V3(), oc.Radius, mat)}, 0, nil

	case "triangle":
		if len(oc.Vertices) != 3 {
			return nil, 0, fmt.Errorf("want 3 vertices, got %d", len(oc.Vertices))
		}
		p0, p1, p2 := oc.Vertices[0].V3(), oc.Vertices[1].V3(), oc.Vertices[2].V3()
		if p1.Sub(p0).Cross(p2.Sub(p0)).LenSq() == 0 {
			return nil, 0, fmt.Errorf("degenerate triangle")
		}
		return []geometry.Hittable{geometry.NewTriangle(p0, p1, p2, mat)}, 1, nil

	case "cube":
		if !(oc.Size > 0) {
			return nil, 0, fmt.Errorf("size %v must be positive", oc.Size)
		}
		cube := geometry.NewCube(oc.Origin.V3(), oc.Size, mat)
		return cube, len(cube), nil

	case "mesh":
		mesh, err := LoadMesh(resolve(baseDir, oc.Path))
		if err != nil {
			return nil, 0, err
		}
		if oc.Fit > 0 {
			FitMesh(mesh, oc.Fit)
		}
		scale := oc.Scale
		if scale == 0 {
			scale = 1
		}
		if scale < 0 {
			return nil, 0, fmt.Errorf("scale %v must be positive", scale)
		}
		mesh.Transform(math3d.Placement(oc.Translate.V3(), scale, oc.RotateY))

		tris := mesh.Triangles()
		objs := make([]geometry.Hittable, len(tris))
		for i, t := range tris {
			objs[i] = geometry.NewTriangle(t[0], t[1], t[2], mat)
		}
		return objs, len(objs), nil

	default:
		return nil, 0, fmt.Errorf("unknown object type %q", oc.Type)
	}
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// LoadMesh loads an OBJ or glTF mesh by file extension.
func LoadMesh(path string) (*models.Mesh, error) {
	var (
		mesh *models.Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		mesh, err = models.LoadOBJ(path)
	case ".glb", ".gltf":
		mesh, err = models.LoadGLB(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q (use .obj, .glb or .gltf)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return mesh, nil
}

// FitMesh centers the mesh on the origin and scales it uniformly so its
// largest extent equals size.
func FitMesh(mesh *models.Mesh, size float64) {
	mesh.CalculateBounds()
	center := mesh.Center()
	extent := mesh.Size()
	maxDim := math.Max(extent.X, math.Max(extent.Y, extent.Z))
	if maxDim <= 0 {
		return
	}
	scale := size / maxDim
	mesh.Transform(math3d.ScaleUniform(scale).Mul(math3d.Translate(center.Negate())))
}

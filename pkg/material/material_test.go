package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/taigrr/raylight/pkg/math3d"
)

// hitFromAbove is a record for a ray travelling down onto the y=0 plane.
func hitFromAbove() (math3d.Ray, HitRecord) {
	r := math3d.NewRay(math3d.V3(-1, 1, 0), math3d.V3(1, -1, 0))
	rec := HitRecord{Point: math3d.Zero3(), T: 1}
	rec.SetFaceNormal(r, math3d.Up())
	return r, rec
}

func lessOrEqual(a, b math3d.Vec3) bool {
	return a.X <= b.X && a.Y <= b.Y && a.Z <= b.Z
}

func TestSetFaceNormal(t *testing.T) {
	outward := math3d.Up()

	tests := []struct {
		name       string
		dir        math3d.Vec3
		front      bool
		wantNormal math3d.Vec3
	}{
		{"from outside", math3d.V3(0, -1, 0), true, outward},
		{"from inside", math3d.V3(0, 1, 0), false, outward.Negate()},
		{"grazing counts as inside", math3d.V3(1, 0, 0), false, outward.Negate()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var rec HitRecord
			rec.SetFaceNormal(math3d.NewRay(math3d.Zero3(), tc.dir), outward)
			if rec.FrontFace != tc.front {
				t.Errorf("FrontFace = %v, want %v", rec.FrontFace, tc.front)
			}
			if rec.Normal != tc.wantNormal {
				t.Errorf("Normal = %v, want %v", rec.Normal, tc.wantNormal)
			}
		})
	}
}

func TestMatFallsBackToDefault(t *testing.T) {
	var rec HitRecord
	if _, ok := rec.Mat().(Default); !ok {
		t.Errorf("Mat() on empty record = %T, want Default", rec.Mat())
	}
	rec.Material = NewLambertian(math3d.One3())
	if _, ok := rec.Mat().(Lambertian); !ok {
		t.Errorf("Mat() = %T, want Lambertian", rec.Mat())
	}
}

func TestLambertianScatter(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	albedo := math3d.V3(0.8, 0.3, 0.1)
	m := NewLambertian(albedo)
	in, rec := hitFromAbove()

	for range 1000 {
		att, scattered, ok := m.Scatter(in, rec, rng)
		if !ok {
			t.Fatal("Lambertian should always scatter")
		}
		if !lessOrEqual(att, albedo) {
			t.Fatalf("attenuation %v exceeds albedo %v", att, albedo)
		}
		if scattered.Origin != rec.Point {
			t.Fatalf("scattered origin = %v, want hit point", scattered.Origin)
		}
		// normal + unit vector never points below the surface.
		if scattered.Direction.Dot(rec.Normal) < 0 {
			t.Fatalf("diffuse direction %v below surface", scattered.Direction)
		}
		if scattered.Direction.NearZero() {
			t.Fatal("diffuse direction is degenerate")
		}
	}
}

func TestDefaultMaterialIsGrey(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	in, rec := hitFromAbove()
	att, _, ok := Default{}.Scatter(in, rec, rng)
	if !ok {
		t.Fatal("Default should always scatter")
	}
	if att != math3d.V3(0.5, 0.5, 0.5) {
		t.Errorf("Default attenuation = %v, want 0.5 grey", att)
	}
}

func TestNewMetalClampsFuzz(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0.3, 0.3},
		{4, 1},
	}
	for _, tc := range tests {
		if got := NewMetal(math3d.One3(), tc.in).Fuzz; got != tc.want {
			t.Errorf("NewMetal(fuzz=%v).Fuzz = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMetalMirror(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := NewMetal(math3d.V3(0.9, 0.9, 0.9), 0)
	in, rec := hitFromAbove()

	att, scattered, ok := m.Scatter(in, rec, rng)
	if !ok {
		t.Fatal("mirror reflection above the surface should scatter")
	}
	if !lessOrEqual(att, m.Albedo) {
		t.Errorf("attenuation %v exceeds albedo %v", att, m.Albedo)
	}

	inAngle := math.Acos(in.Direction.Normalize().Negate().Dot(rec.Normal))
	outAngle := math.Acos(scattered.Direction.Normalize().Dot(rec.Normal))
	if math.Abs(inAngle-outAngle) > 1e-9 {
		t.Errorf("incidence %v != reflection %v", inAngle, outAngle)
	}

	want := math3d.V3(1, 1, 0).Normalize()
	if scattered.Direction.Sub(want).Len() > 1e-9 {
		t.Errorf("reflected direction = %v, want %v", scattered.Direction, want)
	}
}

func TestMetalGrazingAbsorbs(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	m := NewMetal(math3d.One3(), 1)

	// Nearly tangent incoming ray; with full fuzz a good share of the
	// perturbed reflections dip below the surface and must be absorbed.
	in := math3d.NewRay(math3d.V3(-1, 1e-3, 0), math3d.V3(1, -1e-3, 0))
	rec := HitRecord{Point: math3d.Zero3()}
	rec.SetFaceNormal(in, math3d.Up())

	absorbed := 0
	for range 1000 {
		_, scattered, ok := m.Scatter(in, rec, rng)
		if ok && scattered.Direction.Dot(rec.Normal) <= 0 {
			t.Fatal("scattered below the surface but reported ok")
		}
		if !ok {
			absorbed++
		}
	}
	if absorbed == 0 {
		t.Error("expected some grazing fuzzy reflections to be absorbed")
	}
}

func TestDielectricAttenuationIsWhite(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	d := NewDielectric(1.5)

	dirs := []math3d.Vec3{
		math3d.V3(0, -1, 0),
		math3d.V3(1, -1, 0),
		math3d.V3(1, -0.01, 0),
		math3d.V3(0, 1, 0),
		math3d.V3(1, 0.2, 0),
	}
	for _, dir := range dirs {
		in := math3d.NewRay(math3d.Zero3().Sub(dir), dir)
		rec := HitRecord{}
		rec.SetFaceNormal(in, math3d.Up())
		for range 100 {
			att, _, ok := d.Scatter(in, rec, rng)
			if !ok {
				t.Fatal("dielectric should always scatter")
			}
			if att != math3d.One3() {
				t.Fatalf("attenuation = %v, want (1, 1, 1)", att)
			}
		}
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	d := NewDielectric(1.5)

	// Leaving glass at 60 degrees: 1.5*sin(60) > 1, so always reflect.
	theta := math3d.Radians(60)
	dir := math3d.V3(math.Sin(theta), math.Cos(theta), 0)
	in := math3d.NewRay(math3d.Zero3().Sub(dir), dir)
	rec := HitRecord{}
	rec.SetFaceNormal(in, math3d.Up()) // outward +Y, ray leaving: back face
	if rec.FrontFace {
		t.Fatal("setup: expected back-face hit")
	}

	want := dir.Reflect(rec.Normal)
	for range 200 {
		_, scattered, _ := d.Scatter(in, rec, rng)
		if scattered.Direction.Sub(want).Len() > 1e-9 {
			t.Fatalf("TIR direction = %v, want %v", scattered.Direction, want)
		}
	}
}

func TestDielectricNormalIncidenceMostlyRefracts(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := NewDielectric(1.5)
	in := math3d.NewRay(math3d.V3(0, 1, 0), math3d.V3(0, -1, 0))
	rec := HitRecord{}
	rec.SetFaceNormal(in, math3d.Up())

	refracted := 0
	const n = 10000
	for range n {
		_, scattered, _ := d.Scatter(in, rec, rng)
		if scattered.Direction.Y < 0 {
			refracted++
		}
	}
	// Schlick at normal incidence for glass gives r0 = 0.04.
	frac := 1 - float64(refracted)/n
	if math.Abs(frac-0.04) > 0.01 {
		t.Errorf("reflected fraction = %v, want about 0.04", frac)
	}
}

func TestReflectance(t *testing.T) {
	if r := Reflectance(1, 1/1.5); math.Abs(r-0.04) > 1e-12 {
		t.Errorf("Reflectance at normal incidence = %v, want 0.04", r)
	}
	if r := Reflectance(0, 1/1.5); math.Abs(r-1) > 1e-12 {
		t.Errorf("Reflectance at grazing = %v, want 1", r)
	}
}

package geometry

import (
	"math"
	"testing"

	"github.com/taigrr/raylight/pkg/material"
	"github.com/taigrr/raylight/pkg/math3d"
)

var hitRange = math3d.NewInterval(0.001, math.Inf(1))

func TestSphereHit(t *testing.T) {
	s := NewSphere(math3d.Zero3(), 1, nil)

	tests := []struct {
		name      string
		ray       math3d.Ray
		wantHit   bool
		wantT     float64
		wantFront bool
	}{
		{"head on", math3d.NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1)), true, 4, true},
		{"unnormalized direction", math3d.NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -2)), true, 2, true},
		{"from inside", math3d.NewRay(math3d.Zero3(), math3d.V3(1, 0, 0)), true, 1, false},
		{"miss", math3d.NewRay(math3d.V3(0, 2, 5), math3d.V3(0, 0, -1)), false, 0, false},
		{"behind origin", math3d.NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, 1)), false, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var rec material.HitRecord
			got := s.Hit(tc.ray, hitRange, &rec)
			if got != tc.wantHit {
				t.Fatalf("Hit = %v, want %v", got, tc.wantHit)
			}
			if !got {
				return
			}
			if math.Abs(rec.T-tc.wantT) > 1e-9 {
				t.Errorf("T = %v, want %v", rec.T, tc.wantT)
			}
			if rec.FrontFace != tc.wantFront {
				t.Errorf("FrontFace = %v, want %v", rec.FrontFace, tc.wantFront)
			}
			if d := rec.Point.Sub(s.Center).Len(); math.Abs(d-s.Radius) > 1e-9 {
				t.Errorf("hit point %v is %v from center, want %v", rec.Point, d, s.Radius)
			}
			if rec.Normal.Dot(tc.ray.Direction) >= 0 {
				t.Errorf("normal %v does not oppose ray", rec.Normal)
			}
		})
	}
}

func TestSphereHitRespectsInterval(t *testing.T) {
	s := NewSphere(math3d.Zero3(), 1, nil)
	r := math3d.NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1))

	var rec material.HitRecord
	// Near root 4 excluded, far root 6 accepted.
	if !s.Hit(r, math3d.NewInterval(4.5, 10), &rec) || math.Abs(rec.T-6) > 1e-9 {
		t.Errorf("expected far root 6, got hit T=%v", rec.T)
	}
	// Both roots excluded. Bounds are strict.
	if s.Hit(r, math3d.NewInterval(0, 4), &rec) {
		t.Error("root on the interval boundary must not count")
	}
}

func TestTriangleHit(t *testing.T) {
	mat := material.NewLambertian(math3d.One3())
	tri := NewTriangle(math3d.V3(-1, -1, 0), math3d.V3(1, -1, 0), math3d.V3(0, 1, 0), mat)

	t.Run("centroid", func(t *testing.T) {
		centroid := tri.P0.Add(tri.P1).Add(tri.P2).Div(3)
		r := math3d.NewRay(centroid.Add(math3d.V3(0, 0, 3)), math3d.V3(0, 0, -1))
		var rec material.HitRecord
		if !tri.Hit(r, hitRange, &rec) {
			t.Fatal("ray through centroid should hit")
		}
		if math.Abs(rec.T-3) > 1e-9 {
			t.Errorf("T = %v, want 3", rec.T)
		}
		if rec.Point.Sub(centroid).Len() > 1e-9 {
			t.Errorf("Point = %v, want %v", rec.Point, centroid)
		}
		if rec.Material != mat {
			t.Errorf("Material = %v, want %v", rec.Material, mat)
		}
		if !rec.FrontFace {
			t.Error("counter-clockwise face seen from +Z should be front facing")
		}
	})

	t.Run("outside edge", func(t *testing.T) {
		r := math3d.NewRay(math3d.V3(2, 0, 3), math3d.V3(0, 0, -1))
		var rec material.HitRecord
		if tri.Hit(r, hitRange, &rec) {
			t.Error("ray beside the triangle should miss")
		}
	})

	t.Run("parallel", func(t *testing.T) {
		r := math3d.NewRay(math3d.V3(0, 0, 1), math3d.V3(1, 0, 0))
		var rec material.HitRecord
		if tri.Hit(r, hitRange, &rec) {
			t.Error("ray parallel to the plane should miss")
		}
	})

	t.Run("beyond max", func(t *testing.T) {
		r := math3d.NewRay(math3d.V3(0, 0, 3), math3d.V3(0, 0, -1))
		var rec material.HitRecord
		if tri.Hit(r, math3d.NewInterval(0.001, 2), &rec) {
			t.Error("hit beyond rayT.Max should be rejected")
		}
	})

	t.Run("lower bound ignores interval min", func(t *testing.T) {
		r := math3d.NewRay(math3d.V3(0, 0, 3), math3d.V3(0, 0, -1))
		var rec material.HitRecord
		if !tri.Hit(r, math3d.NewInterval(5, 10), &rec) {
			t.Error("triangle hit below rayT.Min is accepted")
		}
	})
}

func TestListNearestHitWins(t *testing.T) {
	near := NewSphere(math3d.V3(0, 0, -2), 0.5, material.NewMetal(math3d.One3(), 0))
	far := NewSphere(math3d.V3(0, 0, -6), 0.5, material.NewLambertian(math3d.One3()))
	r := math3d.NewRay(math3d.Zero3(), math3d.V3(0, 0, -1))

	orders := map[string]*List{
		"near first": NewList(near, far),
		"far first":  NewList(far, near),
	}
	for name, list := range orders {
		t.Run(name, func(t *testing.T) {
			var rec material.HitRecord
			if !list.Hit(r, hitRange, &rec) {
				t.Fatal("expected a hit")
			}
			if math.Abs(rec.T-1.5) > 1e-9 {
				t.Errorf("T = %v, want 1.5", rec.T)
			}
			if rec.Material != near.Material {
				t.Errorf("Material = %v, want the near sphere's", rec.Material)
			}
		})
	}
}

func TestListMissLeavesRecord(t *testing.T) {
	list := NewList(NewSphere(math3d.V3(0, 0, -2), 0.5, nil))
	r := math3d.NewRay(math3d.Zero3(), math3d.V3(0, 1, 0))

	rec := material.HitRecord{T: 42, FrontFace: true}
	want := rec
	if list.Hit(r, hitRange, &rec) {
		t.Fatal("expected miss")
	}
	if rec != want {
		t.Errorf("record modified on miss: %+v", rec)
	}

	var empty List
	if empty.Hit(r, hitRange, &rec) {
		t.Error("empty list should never hit")
	}
}

func TestNewCube(t *testing.T) {
	cube := NewCube(math3d.Zero3(), 2, nil)
	if len(cube) != 12 {
		t.Fatalf("len = %d, want 12", len(cube))
	}

	list := NewList(cube...)
	tests := []struct {
		name  string
		ray   math3d.Ray
		wantT float64
	}{
		{"front", math3d.NewRay(math3d.V3(0.7, 1.2, 5), math3d.V3(0, 0, -1)), 3},
		{"top", math3d.NewRay(math3d.V3(0.5, 10, 0.5), math3d.V3(0, -1, 0)), 8},
		{"right", math3d.NewRay(math3d.V3(4, 1.5, 1.5), math3d.V3(-1, 0, 0)), 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var rec material.HitRecord
			if !list.Hit(tc.ray, hitRange, &rec) {
				t.Fatal("expected hit")
			}
			if math.Abs(rec.T-tc.wantT) > 1e-9 {
				t.Errorf("T = %v, want %v", rec.T, tc.wantT)
			}
		})
	}
}

func TestConstructorsPanic(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"zero radius", func() { NewSphere(math3d.Zero3(), 0, nil) }},
		{"negative radius", func() { NewSphere(math3d.Zero3(), -1, nil) }},
		{"NaN radius", func() { NewSphere(math3d.Zero3(), math.NaN(), nil) }},
		{"collinear triangle", func() {
			NewTriangle(math3d.Zero3(), math3d.V3(1, 0, 0), math3d.V3(2, 0, 0), nil)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tc.fn()
		})
	}
}

func BenchmarkSphereHit(b *testing.B) {
	s := NewSphere(math3d.V3(0, 0, -5), 1, nil)
	r := math3d.NewRay(math3d.Zero3(), math3d.V3(0.05, 0.02, -1))
	var rec material.HitRecord

	for b.Loop() {
		s.Hit(r, hitRange, &rec)
	}
}

func BenchmarkTriangleHit(b *testing.B) {
	tri := NewTriangle(math3d.V3(-1, -1, -5), math3d.V3(1, -1, -5), math3d.V3(0, 1, -5), nil)
	r := math3d.NewRay(math3d.Zero3(), math3d.V3(0.05, 0.02, -1))
	var rec material.HitRecord

	for b.Loop() {
		tri.Hit(r, hitRange, &rec)
	}
}

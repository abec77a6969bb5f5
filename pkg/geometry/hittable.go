// Package geometry provides the intersectable primitives of a scene and the
// aggregate that resolves the nearest hit across all of them.
package geometry

import (
	"github.com/taigrr/raylight/pkg/material"
	"github.com/taigrr/raylight/pkg/math3d"
)

// Hittable is anything a ray can intersect.
//
// Hit reports whether r intersects the object at a parameter strictly
// inside rayT. On success rec is overwritten with the nearest such
// intersection; on failure rec is left untouched. Implementations must be
// safe for concurrent calls once the scene is built.
type Hittable interface {
	Hit(r math3d.Ray, rayT math3d.Interval, rec *material.HitRecord) bool
}

// List is an ordered collection of hittables scanned linearly.
type List struct {
	Objects []Hittable
}

// NewList creates a list holding objects.
func NewList(objects ...Hittable) *List {
	return &List{Objects: objects}
}

// Add appends objects to the list.
func (l *List) Add(objects ...Hittable) {
	l.Objects = append(l.Objects, objects...)
}

// Len returns the number of top-level objects.
func (l *List) Len() int {
	return len(l.Objects)
}

// Hit tests every object, shrinking the search interval to the closest hit
// so far, so the final record is the nearest hit regardless of order.
func (l *List) Hit(r math3d.Ray, rayT math3d.Interval, rec *material.HitRecord) bool {
	var tmp material.HitRecord
	hitAnything := false
	closest := rayT.Max

	for _, obj := range l.Objects {
		if obj.Hit(r, math3d.NewInterval(rayT.Min, closest), &tmp) {
			hitAnything = true
			closest = tmp.T
			*rec = tmp
		}
	}

	return hitAnything
}

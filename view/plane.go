package view

import (
	"math"

	"gpuhpp/field"
)

// DefaultPlaneSize is the side of the plane in world units.
const DefaultPlaneSize = 10

// Plane is a square in the z = 0 plane centred on the origin.
type Plane struct {
	Size float32
}

// Intersect returns the plane coordinates hit by r, with v growing
// along +Y. ok is false when the ray misses.
func (p Plane) Intersect(r Ray) (u, v float32, ok bool) {
	if r.Dir.Z() == 0 {
		return 0, 0, false
	}
	t := -r.Origin.Z() / r.Dir.Z()
	if t < 0 || math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
		return 0, 0, false
	}
	hit := r.Origin.Add(r.Dir.Mul(t))
	half := p.Size / 2
	if math.IsNaN(float64(hit.X())) || math.IsNaN(float64(hit.Y())) {
		return 0, 0, false
	}
	if hit.X() < -half || hit.X() > half || hit.Y() < -half || hit.Y() > half {
		return 0, 0, false
	}
	return (hit.X() + half) / p.Size, (hit.Y() + half) / p.Size, true
}

// MaxBrushRadius caps the brush at half of the largest tracked movement.
const MaxBrushRadius = 0.08 * 0.5

// Brush turns plane hits into the advection brush. The radius follows how
// far the pointer moved across the plane since the last hit.
type Brush struct {
	prevU, prevV float32
}

// Update returns the brush centre in image coordinates and its radius.
// A miss keeps the last centre and disables the brush.
func (b *Brush) Update(u, v float32, hit bool, last field.Vec) (mouse field.Vec, radius float32) {
	if !hit {
		return last, 0
	}
	moved := float32(math.Hypot(float64(u-b.prevU), float64(v-b.prevV)))
	radius = min(moved*0.5, MaxBrushRadius)
	b.prevU, b.prevV = u, v
	return field.Vec{X: u, Y: 1 - v}, radius
}

package field

import "math"

// Vec is a velocity in texels per step. Y grows downwards, matching image
// rows.
type Vec struct {
	X, Y float32
}

func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y}
}

func (v Vec) Scale(s float32) Vec {
	return Vec{v.X * s, v.Y * s}
}

func (v Vec) Len() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Field is a W x H grid of velocities stored row-major, row 0 at the top.
type Field struct {
	W, H  int
	cells []Vec
}

func New(w, h int) *Field {
	return &Field{W: w, H: h, cells: make([]Vec, w*h)}
}

// Wraps indices outside the grid, like a texture sampled with repeat
// wrapping.
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// At returns the velocity of the cell at (x, y), wrapping out of range
// coordinates.
func (f *Field) At(x, y int) Vec {
	return f.cells[wrap(y, f.H)*f.W+wrap(x, f.W)]
}

func (f *Field) Set(x, y int, v Vec) {
	f.cells[wrap(y, f.H)*f.W+wrap(x, f.W)] = v
}

// Sample returns the nearest cell to the normalized image coordinate
// (u, v). Both axes repeat outside [0, 1).
func (f *Field) Sample(u, v float32) Vec {
	x := int(math.Floor(float64(u) * float64(f.W)))
	y := int(math.Floor(float64(v) * float64(f.H)))
	return f.At(x, y)
}

// MaxMagnitude returns the length of the fastest velocity in the field.
func (f *Field) MaxMagnitude() float32 {
	var peak float32
	for _, c := range f.cells {
		peak = max(peak, c.Len())
	}
	return peak
}

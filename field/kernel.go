package field

import (
	"math"
	"sync"
)

// InitParams configures the starting field.
type InitParams struct {
	// Swirl is the speed of a rotation around the grid center, reached
	// half way to the edge. Zero starts the field at rest.
	Swirl float32
}

// AdvectParams mirrors the uniforms of the advection shader.
type AdvectParams struct {
	// Mouse is the brush center in normalized image coordinates.
	Mouse Vec
	// Radius of the brush in normalized units. Zero disables it.
	Radius float32
	// Strength of the outward push at the brush center.
	Strength float32
	// Speed scales how many texels a unit velocity travels per step.
	Speed float32
	// Decay is multiplied into every velocity each step.
	Decay float32
	// Threads splits the rows across goroutines. Values below 1 run
	// on the calling goroutine.
	Threads int
}

// Friction is subtracted from each component after decay so that values
// cannot stall on the smallest 8-bit step.
const Friction = QuantStep / 2

// Init fills dst with the starting velocities.
func Init(dst *Field, p InitParams) {
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			dst.Set(x, y, swirlAt(dst, x, y, p.Swirl))
		}
	}
}

func swirlAt(f *Field, x, y int, swirl float32) Vec {
	dx := (float32(x)+0.5)/float32(f.W) - 0.5
	dy := (float32(y)+0.5)/float32(f.H) - 0.5
	return clampVec(Vec{-dy, dx}.Scale(swirl * 2))
}

// Advect writes one step of src into dst. dst and src must be distinct
// fields of the same size.
func Advect(dst, src *Field, p AdvectParams) {
	perRowThreaded(dst.H, p.Threads, func(y int) {
		for x := 0; x < dst.W; x++ {
			dst.Set(x, y, advectCell(src, x, y, p))
		}
	})
}

func advectCell(src *Field, x, y int, p AdvectParams) Vec {
	px := float32(x) + 0.5
	py := float32(y) + 0.5
	vel := src.At(x, y)

	// Semi-Lagrangian back trace, nearest sample.
	bx := px - vel.X*p.Speed
	by := py - vel.Y*p.Speed
	v := src.At(int(math.Floor(float64(bx))), int(math.Floor(float64(by))))

	if p.Radius > 0 {
		d := Vec{px/float32(src.W) - p.Mouse.X, py/float32(src.H) - p.Mouse.Y}
		dist := d.Len()
		if dist > 0 && dist < p.Radius {
			v = v.Add(d.Scale(p.Strength * (1 - dist/p.Radius) / dist))
		}
	}

	v = v.Scale(p.Decay)
	return clampVec(Vec{friction(v.X), friction(v.Y)})
}

func friction(c float32) float32 {
	if c > 0 {
		return max(0, c-Friction)
	}
	return min(0, c+Friction)
}

func clampVec(v Vec) Vec {
	return Vec{min(1, max(-1, v.X)), min(1, max(-1, v.Y))}
}

// Calls fn with every row index, interleaving rows across threads
func perRowThreaded(rows, threads int, fn func(int)) {
	if threads < 2 {
		for y := 0; y < rows; y++ {
			fn(y)
		}
		return
	}
	wg := sync.WaitGroup{}
	wg.Add(threads)
	for i := 0; i < threads; i++ {
		go perRowThreadedHelper(i, threads, rows, &wg, fn)
	}
	wg.Wait()
}

func perRowThreadedHelper(offset, threads, rows int, wg *sync.WaitGroup, fn func(int)) {
	for y := offset; y < rows; y += threads {
		fn(y)
	}
	wg.Done()
}

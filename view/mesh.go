package view

import (
	"github.com/go-gl/mathgl/mgl32"

	"gpuhpp/field"
	"gpuhpp/palette"
)

// ScreenPoint is a projected vertex in window pixels.
type ScreenPoint struct {
	X, Y    float32
	Visible bool
}

// Mesh is a grid of (Segments+1)^2 vertices covering the plane, displaced
// by the velocity field every frame.
type Mesh struct {
	Plane    Plane
	Segments int
	// Height lifts each vertex by its speed, Offset shifts it along its
	// velocity. Both are in world units per unit velocity.
	Height, Offset float32

	Positions []mgl32.Vec3
	Colors    []palette.FloatColor
	Screen    []ScreenPoint
}

func NewMesh(plane Plane, segments int) *Mesh {
	n := (segments + 1) * (segments + 1)
	m := &Mesh{
		Plane:     plane,
		Segments:  segments,
		Height:    1.5,
		Offset:    1,
		Positions: make([]mgl32.Vec3, n),
		Colors:    make([]palette.FloatColor, n),
		Screen:    make([]ScreenPoint, n),
	}
	m.Deform(nil, nil)
	return m
}

// Index returns the vertex index of column i, row j. Row 0 lies along
// the bottom edge (-Y).
func (m *Mesh) Index(i, j int) int {
	return j*(m.Segments+1) + i
}

// Deform moves every vertex by the field and colours it with pal. A nil
// field lays the grid out flat.
func (m *Mesh) Deform(f *field.Field, pal *palette.Palette) {
	s := float32(m.Segments)
	for j := 0; j <= m.Segments; j++ {
		for i := 0; i <= m.Segments; i++ {
			u, v := float32(i)/s, float32(j)/s
			x := (u - 0.5) * m.Plane.Size
			y := (v - 0.5) * m.Plane.Size
			idx := m.Index(i, j)
			if f == nil {
				m.Positions[idx] = mgl32.Vec3{x, y, 0}
				m.Colors[idx] = palette.FloatColor{R: 1, G: 1, B: 1, A: 1}
				continue
			}
			// Image rows grow downwards, world Y grows upwards.
			// Sample texel centres so both edges of the grid land on the
			// border texels instead of wrapping.
			vel := f.Sample((u*float32(f.W-1)+0.5)/float32(f.W), ((1-v)*float32(f.H-1)+0.5)/float32(f.H))
			dx, dy := vel.X, -vel.Y
			m.Positions[idx] = mgl32.Vec3{x + dx*m.Offset, y + dy*m.Offset, vel.Len() * m.Height}
			if pal != nil {
				m.Colors[idx] = pal.Color(dx, dy)
			}
		}
	}
}

// Project transforms every vertex by vp into a width x height window.
// Vertices behind the camera are marked invisible.
func (m *Mesh) Project(vp mgl32.Mat4, width, height int) {
	for i, p := range m.Positions {
		clip := vp.Mul4x1(p.Vec4(1))
		if clip.W() <= 0 {
			m.Screen[i] = ScreenPoint{}
			continue
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		m.Screen[i] = ScreenPoint{
			X:       (ndc.X() + 1) / 2 * float32(width),
			Y:       (1 - ndc.Y()) / 2 * float32(height),
			Visible: true,
		}
	}
}

// Edges calls fn for every grid edge whose ends are both visible.
func (m *Mesh) Edges(fn func(a, b int)) {
	for j := 0; j <= m.Segments; j++ {
		for i := 0; i <= m.Segments; i++ {
			a := m.Index(i, j)
			if !m.Screen[a].Visible {
				continue
			}
			if i < m.Segments {
				if b := m.Index(i+1, j); m.Screen[b].Visible {
					fn(a, b)
				}
			}
			if j < m.Segments {
				if b := m.Index(i, j+1); m.Screen[b].Visible {
					fn(a, b)
				}
			}
		}
	}
}

// Quads calls fn for every grid cell with all four corners visible, in
// counter-clockwise order starting at the bottom left.
func (m *Mesh) Quads(fn func(a, b, c, d int)) {
	for j := 0; j < m.Segments; j++ {
		for i := 0; i < m.Segments; i++ {
			a, b := m.Index(i, j), m.Index(i+1, j)
			c, d := m.Index(i+1, j+1), m.Index(i, j+1)
			if m.Screen[a].Visible && m.Screen[b].Visible && m.Screen[c].Visible && m.Screen[d].Visible {
				fn(a, b, c, d)
			}
		}
	}
}

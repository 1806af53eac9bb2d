package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"gpuhpp/palette"
	"gpuhpp/view"
)

// Indices are uint16, so a single draw call can address at most this many
// vertices.
const maxBatchVertices = math.MaxUint16 - 3

// planeRenderer turns the projected mesh into triangles for plane.kage.
// Wireframe edges become thin quads; filled mode draws every grid cell.
type planeRenderer struct {
	shader    *ebiten.Shader
	opacity   float32
	lineWidth float32
	vertices  []ebiten.Vertex
	indices   []uint16
}

func (r *planeRenderer) draw(dst *ebiten.Image, m *view.Mesh, wireframe bool) {
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
	if wireframe {
		m.Edges(func(a, b int) { r.line(dst, m, a, b) })
	} else {
		m.Quads(func(a, b, c, d int) { r.quad(dst, m, a, b, c, d) })
	}
	r.flush(dst)
}

func (r *planeRenderer) line(dst *ebiten.Image, m *view.Mesh, a, b int) {
	pa, pb := m.Screen[a], m.Screen[b]
	dx, dy := pb.X-pa.X, pb.Y-pa.Y
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	// Offset both ends along the edge normal by half the line width
	nx := -dy / length * r.lineWidth / 2
	ny := dx / length * r.lineWidth / 2

	r.reserve(dst, 4)
	base := uint16(len(r.vertices))
	r.vertex(pa, m.Colors[a], nx, ny)
	r.vertex(pa, m.Colors[a], -nx, -ny)
	r.vertex(pb, m.Colors[b], nx, ny)
	r.vertex(pb, m.Colors[b], -nx, -ny)
	r.indices = append(r.indices, base, base+1, base+2, base+1, base+2, base+3)
}

func (r *planeRenderer) quad(dst *ebiten.Image, m *view.Mesh, a, b, c, d int) {
	r.reserve(dst, 4)
	base := uint16(len(r.vertices))
	for _, i := range [4]int{a, b, c, d} {
		r.vertex(m.Screen[i], m.Colors[i], 0, 0)
	}
	r.indices = append(r.indices, base, base+1, base+2, base, base+2, base+3)
}

func (r *planeRenderer) vertex(p view.ScreenPoint, c palette.FloatColor, ox, oy float32) {
	r.vertices = append(r.vertices, ebiten.Vertex{
		DstX:   p.X + ox,
		DstY:   p.Y + oy,
		ColorR: c.R,
		ColorG: c.G,
		ColorB: c.B,
		ColorA: c.A,
	})
}

// Draws what has been batched so far if n more vertices would not fit.
func (r *planeRenderer) reserve(dst *ebiten.Image, n int) {
	if len(r.vertices)+n > maxBatchVertices {
		r.flush(dst)
	}
}

func (r *planeRenderer) flush(dst *ebiten.Image) {
	if len(r.indices) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Uniforms = map[string]any{"Opacity": r.opacity}
	op.AntiAlias = true
	dst.DrawTrianglesShader(r.vertices, r.indices, r.shader, op)
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
}

package view

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpuhpp/field"
	"gpuhpp/palette"
)

func TestCameraDefaults(t *testing.T) {
	c := NewCamera(800, 400)
	assert.Equal(t, float32(2), c.Aspect)
	assert.InDelta(t, 10, c.Eye().Z(), 1e-5)
	assert.InDelta(t, 0, c.Eye().X(), 1e-5)

	c.SetAspect(0, 100)
	assert.Equal(t, float32(2), c.Aspect)
	c.SetAspect(300, 300)
	assert.Equal(t, float32(1), c.Aspect)
}

func TestNDC(t *testing.T) {
	x, y := NDC(0, 0, 200, 100)
	assert.Equal(t, float32(-1), x)
	assert.Equal(t, float32(1), y)
	x, y = NDC(200, 100, 200, 100)
	assert.Equal(t, float32(1), x)
	assert.Equal(t, float32(-1), y)
	x, y = NDC(100, 50, 200, 100)
	assert.Equal(t, float32(0), x)
	assert.Equal(t, float32(0), y)
}

func TestCenterRayHitsPlaneCenter(t *testing.T) {
	c := NewCamera(640, 480)
	u, v, ok := Plane{Size: DefaultPlaneSize}.Intersect(c.Ray(0, 0))
	require.True(t, ok)
	assert.InDelta(t, 0.5, u, 1e-5)
	assert.InDelta(t, 0.5, v, 1e-5)
}

func TestOffCenterRay(t *testing.T) {
	c := NewCamera(100, 100)
	u, v, ok := Plane{Size: DefaultPlaneSize}.Intersect(c.Ray(0.5, 0))
	require.True(t, ok)
	assert.Greater(t, u, float32(0.5))
	assert.InDelta(t, 0.5, v, 1e-5)

	_, v, ok = Plane{Size: DefaultPlaneSize}.Intersect(c.Ray(0, -0.5))
	require.True(t, ok)
	assert.Less(t, v, float32(0.5))
}

func TestRayMissesBeyondEdge(t *testing.T) {
	c := NewCamera(100, 100)
	_, _, ok := Plane{Size: DefaultPlaneSize}.Intersect(c.Ray(1, 1))
	assert.False(t, ok)
}

func TestIntersectParallelAndBehind(t *testing.T) {
	p := Plane{Size: DefaultPlaneSize}
	_, _, ok := p.Intersect(Ray{Origin: mgl32.Vec3{0, 0, 10}, Dir: mgl32.Vec3{1, 0, 0}})
	assert.False(t, ok)
	_, _, ok = p.Intersect(Ray{Origin: mgl32.Vec3{0, 0, 10}, Dir: mgl32.Vec3{0, 0, 1}})
	assert.False(t, ok)
}

func TestBrushRadiusFollowsMovement(t *testing.T) {
	var b Brush
	mouse, radius := b.Update(0.5, 0.5, true, field.Vec{})
	assert.Equal(t, field.Vec{X: 0.5, Y: 0.5}, mouse)
	assert.InDelta(t, MaxBrushRadius, radius, 1e-6)

	mouse, radius = b.Update(0.51, 0.5, true, mouse)
	assert.InDelta(t, 0.51, mouse.X, 1e-6)
	assert.InDelta(t, 0.005, radius, 1e-5)

	mouse, radius = b.Update(0.51, 0.5, true, mouse)
	assert.Equal(t, float32(0), radius)

	mouse, _ = b.Update(0.5, 0.2, true, mouse)
	assert.InDelta(t, 0.8, mouse.Y, 1e-6)
}

func TestBrushMissDisables(t *testing.T) {
	var b Brush
	last := field.Vec{X: 0.3, Y: 0.4}
	mouse, radius := b.Update(0.9, 0.9, false, last)
	assert.Equal(t, last, mouse)
	assert.Equal(t, float32(0), radius)
}

func TestCameraZoomClamps(t *testing.T) {
	c := NewCamera(100, 100)
	c.Zoom(1)
	c.Update(1.0 / 60)
	assert.InDelta(t, 9, c.Distance, 1e-5)

	c.Zoom(100)
	c.Update(1.0 / 60)
	assert.Equal(t, c.MinDistance, c.Distance)

	// Queued zoom is consumed by a single update.
	c.Update(1.0 / 60)
	assert.Equal(t, c.MinDistance, c.Distance)
}

func TestCameraRotateIsDamped(t *testing.T) {
	c := NewCamera(100, 100)
	c.Rotate(-100, 0)
	c.Update(1.0 / 60)
	first := c.Yaw
	assert.InDelta(t, 0.5, first, 1e-5)
	c.Update(1.0 / 60)
	assert.InDelta(t, 0.5*0.8, c.Yaw-first, 1e-5)

	c.Rotate(0, 1e6)
	c.Update(1.0 / 60)
	assert.Less(t, c.Pitch, float32(1.5708))
	assert.Greater(t, c.Pitch, float32(1.55))
}

func TestMeshFlat(t *testing.T) {
	m := NewMesh(Plane{Size: 10}, 4)
	assert.Len(t, m.Positions, 25)
	assert.Equal(t, mgl32.Vec3{-5, -5, 0}, m.Positions[m.Index(0, 0)])
	assert.Equal(t, mgl32.Vec3{5, 5, 0}, m.Positions[m.Index(4, 4)])
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, m.Positions[m.Index(2, 2)])
}

func TestMeshDeform(t *testing.T) {
	f := field.New(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			f.Set(x, y, field.Vec{X: 0.5, Y: 0.5})
		}
	}
	m := NewMesh(Plane{Size: 10}, 4)
	m.Deform(f, palette.New(1))

	p := m.Positions[m.Index(2, 2)]
	assert.InDelta(t, 0.5*m.Offset, p.X(), 1e-5)
	assert.InDelta(t, -0.5*m.Offset, p.Y(), 1e-5)
	assert.InDelta(t, field.Vec{X: 0.5, Y: 0.5}.Len()*m.Height, p.Z(), 1e-5)
	assert.Greater(t, m.Colors[0].A, float32(0.35))
}

func TestMeshProject(t *testing.T) {
	c := NewCamera(200, 100)
	m := NewMesh(Plane{Size: 10}, 4)
	m.Project(c.ViewProjection(), 200, 100)

	center := m.Screen[m.Index(2, 2)]
	require.True(t, center.Visible)
	assert.InDelta(t, 100, center.X, 1e-3)
	assert.InDelta(t, 50, center.Y, 1e-3)

	// The top edge of the plane lands above the bottom edge on screen.
	assert.Less(t, m.Screen[m.Index(2, 4)].Y, m.Screen[m.Index(2, 0)].Y)

	edges, quads := 0, 0
	m.Edges(func(a, b int) { edges++ })
	m.Quads(func(a, b, c, d int) { quads++ })
	assert.Equal(t, 40, edges)
	assert.Equal(t, 16, quads)
}

func TestMeshProjectHidesBehindCamera(t *testing.T) {
	c := NewCamera(100, 100)
	m := NewMesh(Plane{Size: 10}, 1)
	m.Positions[m.Index(0, 0)] = mgl32.Vec3{0, 0, 20}
	m.Project(c.ViewProjection(), 100, 100)
	assert.False(t, m.Screen[m.Index(0, 0)].Visible)

	edges := 0
	m.Edges(func(a, b int) { edges++ })
	assert.Equal(t, 2, edges)
	quads := 0
	m.Quads(func(a, b, c, d int) { quads++ })
	assert.Equal(t, 0, quads)
}

func TestNDCEmptyWindow(t *testing.T) {
	x, y := NDC(5, 5, 0, 0)
	assert.Equal(t, float32(0), x)
	assert.Equal(t, float32(0), y)
	x, y = NDC(5, 5, 100, -1)
	assert.Equal(t, float32(0), x)
	assert.Equal(t, float32(0), y)
}

func TestEmptyWindowNeverPoisonsBrush(t *testing.T) {
	c := NewCamera(0, 0)
	ndcX, ndcY := NDC(10, 10, 0, 0)
	u, v, ok := Plane{Size: DefaultPlaneSize}.Intersect(c.Ray(ndcX, ndcY))
	var b Brush
	mouse, radius := b.Update(u, v, ok, field.Vec{X: 0.5, Y: 0.5})
	assert.False(t, math.IsNaN(float64(mouse.X)))
	assert.False(t, math.IsNaN(float64(mouse.Y)))
	assert.False(t, math.IsNaN(float64(radius)))
}

func TestIntersectRejectsNonFiniteRay(t *testing.T) {
	nan := float32(math.NaN())
	p := Plane{Size: DefaultPlaneSize}
	_, _, ok := p.Intersect(Ray{Origin: mgl32.Vec3{0, 0, 10}, Dir: mgl32.Vec3{nan, nan, nan}})
	assert.False(t, ok)
	_, _, ok = p.Intersect(Ray{Origin: mgl32.Vec3{0, 0, nan}, Dir: mgl32.Vec3{0, 0, -1}})
	assert.False(t, ok)
	_, _, ok = p.Intersect(Ray{Origin: mgl32.Vec3{0, 0, 10}, Dir: mgl32.Vec3{nan, 0, -1}})
	assert.False(t, ok)
}

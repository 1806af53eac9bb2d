package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFOV      = 75
	DefaultNear     = 0.001
	DefaultFar      = 1000
	DefaultDistance = 10
)

// Camera is a perspective camera orbiting a target, driven like a
// trackball: drags add angular momentum that is damped every update.
type Camera struct {
	FOV       float32 // vertical, in degrees
	Near, Far float32
	Aspect    float32

	Target   mgl32.Vec3
	Distance float32
	// Yaw turns around the world Y axis, Pitch tilts towards it. Both are
	// in radians and zero looks down -Z.
	Yaw, Pitch float32

	RotateSpeed float32 // radians per dragged pixel
	ZoomSpeed   float32 // fraction of the distance per wheel step
	Damping     float32 // fraction of momentum lost per 60th of a second
	MinDistance float32
	MaxDistance float32

	yawVel      float32
	pitchVel    float32
	pendingZoom float32
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:         DefaultFOV,
		Near:        DefaultNear,
		Far:         DefaultFar,
		Distance:    DefaultDistance,
		RotateSpeed: 0.005,
		ZoomSpeed:   0.1,
		Damping:     0.2,
		MinDistance: 1,
		MaxDistance: 100,
	}
	c.SetAspect(width, height)
	return c
}

// SetAspect follows a resize of the render target.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *Camera) Eye() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	offset := mgl32.Vec3{
		cp * float32(math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		cp * float32(math.Cos(float64(c.Yaw))),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Rotate adds momentum from a drag of dx, dy pixels.
func (c *Camera) Rotate(dx, dy float32) {
	c.yawVel -= dx * c.RotateSpeed
	c.pitchVel += dy * c.RotateSpeed
}

// Zoom queues wheel steps; positive steps move closer.
func (c *Camera) Zoom(steps float32) {
	c.pendingZoom += steps
}

// Update applies and damps queued motion. dt is in seconds.
func (c *Camera) Update(dt float64) {
	const maxPitch = math.Pi/2 - 0.01
	c.Yaw += c.yawVel
	c.Pitch = min(maxPitch, max(-maxPitch, c.Pitch+c.pitchVel))
	c.Distance *= 1 - c.pendingZoom*c.ZoomSpeed
	c.Distance = min(c.MaxDistance, max(c.MinDistance, c.Distance))

	keep := float32(math.Pow(float64(1-c.Damping), dt*60))
	c.yawVel *= keep
	c.pitchVel *= keep
	c.pendingZoom = 0
}

// Ray returns a ray from the eye through the normalized device coordinate
// (ndcX, ndcY), with y up.
func (c *Camera) Ray(ndcX, ndcY float32) Ray {
	eye := c.Eye()
	forward := c.Target.Sub(eye).Normalize()
	right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up := right.Cross(forward)
	tanHalf := float32(math.Tan(float64(mgl32.DegToRad(c.FOV)) / 2))
	dir := forward.
		Add(right.Mul(ndcX * tanHalf * c.Aspect)).
		Add(up.Mul(ndcY * tanHalf))
	return Ray{Origin: eye, Dir: dir.Normalize()}
}

// NDC maps a window pixel to normalized device coordinates.
// An empty window maps every pixel to the center.
func NDC(px, py float32, width, height int) (x, y float32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	x = px/float32(width)*2 - 1
	y = -py/float32(height)*2 + 1
	return x, y
}

type Ray struct {
	Origin, Dir mgl32.Vec3
}

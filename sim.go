package main

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"gpuhpp/field"
	"gpuhpp/pingpong"
)

// A simulator advects the velocity field one step at a time and exposes
// the latest result on the CPU for the plane mesh.
type simulator interface {
	Reset()
	Step(p field.AdvectParams)
	Field() *field.Field
	Swaps() int
	Close()
}

// gpuSim ping-pongs two offscreen images through the init and advect
// shaders. Each texel holds one encoded velocity.
type gpuSim struct {
	buffers *pingpong.Pair[*ebiten.Image]
	init    *ebiten.Shader
	advect  *ebiten.Shader
	size    int
	swirl   float32
	// Readback of the read buffer after every step
	pix   []byte
	field *field.Field
}

func newGPUSim(size int, initShader, advectShader *ebiten.Shader, swirl float32) *gpuSim {
	newBuffer := func() *ebiten.Image {
		return ebiten.NewImageWithOptions(
			image.Rect(0, 0, size, size),
			&ebiten.NewImageOptions{Unmanaged: true},
		)
	}
	g := &gpuSim{
		buffers: pingpong.New(newBuffer(), newBuffer()),
		init:    initShader,
		advect:  advectShader,
		size:    size,
		swirl:   swirl,
		pix:     make([]byte, 4*size*size),
		field:   field.New(size, size),
	}
	// Fresh images are all zero bytes, which decode as (-1, -1). Seed both
	// with the encoded resting field before any shader samples them.
	g.seed()
	return g
}

func (g *gpuSim) seed() {
	if err := g.field.EncodeTo(g.pix); err != nil {
		panic(fmt.Sprintf("gpu seed: %v", err))
	}
	g.buffers.Each(func(img *ebiten.Image) { img.WritePixels(g.pix) })
}

// Draws a full-buffer quad with shader into the write buffer, optionally
// sampling src.
func (g *gpuSim) blit(shader *ebiten.Shader, uniforms map[string]any, src *ebiten.Image) {
	op := &ebiten.DrawRectShaderOptions{}
	op.Uniforms = uniforms
	op.Blend = ebiten.BlendCopy
	if src != nil {
		op.Images[0] = src
	}
	g.buffers.Write().DrawRectShader(g.size, g.size, shader, op)
}

func (g *gpuSim) Reset() {
	g.blit(g.init, map[string]any{"Swirl": g.swirl}, nil)
	g.buffers.Swap()
	g.readBack()
}

func (g *gpuSim) Step(p field.AdvectParams) {
	g.blit(g.advect, map[string]any{
		"Mouse":    []float32{p.Mouse.X, p.Mouse.Y},
		"Radius":   p.Radius,
		"Strength": p.Strength,
		"Speed":    p.Speed,
		"Decay":    p.Decay,
	}, g.buffers.Read())
	g.buffers.Swap()
	g.readBack()
}

func (g *gpuSim) readBack() {
	g.buffers.Read().ReadPixels(g.pix)
	if err := g.field.DecodeFrom(g.pix); err != nil {
		// Both sides are sized from g.size at construction.
		panic(fmt.Sprintf("gpu readback: %v", err))
	}
}

func (g *gpuSim) Field() *field.Field {
	return g.field
}

func (g *gpuSim) Swaps() int {
	return g.buffers.Swaps()
}

func (g *gpuSim) Close() {
	g.buffers.Each(func(img *ebiten.Image) { img.Dispose() })
}

// cpuSim runs the same kernels on float fields across worker goroutines.
type cpuSim struct {
	buffers *pingpong.Pair[*field.Field]
	swirl   float32
	threads int
}

func newCPUSim(size int, swirl float32, threads int) *cpuSim {
	return &cpuSim{
		buffers: pingpong.New(field.New(size, size), field.New(size, size)),
		swirl:   swirl,
		threads: threads,
	}
}

func (c *cpuSim) Reset() {
	field.Init(c.buffers.Write(), field.InitParams{Swirl: c.swirl})
	c.buffers.Swap()
}

func (c *cpuSim) Step(p field.AdvectParams) {
	p.Threads = c.threads
	field.Advect(c.buffers.Write(), c.buffers.Read(), p)
	c.buffers.Swap()
}

func (c *cpuSim) Field() *field.Field {
	return c.buffers.Read()
}

func (c *cpuSim) Swaps() int {
	return c.buffers.Swaps()
}

func (c *cpuSim) Close() {}

package pingpong

// Pair holds two equally sized surfaces. One is read from while the other
// is written to, and Swap exchanges the roles after each step.
type Pair[T any] struct {
	buffers [2]T
	read    int
	write   int
	swaps   int
}

// New returns a pair where a starts as the read surface and b as the
// write surface.
func New[T any](a, b T) *Pair[T] {
	return &Pair[T]{buffers: [2]T{a, b}, read: 0, write: 1}
}

// Read returns the surface last written to.
func (p *Pair[T]) Read() T {
	return p.buffers[p.read]
}

// Write returns the surface to render into on this step.
func (p *Pair[T]) Write() T {
	return p.buffers[p.write]
}

func (p *Pair[T]) Swap() {
	p.read, p.write = p.write, p.read
	p.swaps++
}

// Swaps reports how many times the roles have been exchanged.
func (p *Pair[T]) Swaps() int {
	return p.swaps
}

// Each calls fn with both surfaces in their startup order.
func (p *Pair[T]) Each(fn func(T)) {
	fn(p.buffers[0])
	fn(p.buffers[1])
}

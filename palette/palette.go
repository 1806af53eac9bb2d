package palette

import (
	"math"

	"github.com/crazy3lf/colorconv"
)

// Size is the number of precomputed hues. Converting HSV per vertex every
// frame is slow, so the wheel is built once.
const Size = 1024

type FloatColor struct {
	R, G, B, A float32
}

// Palette colours velocities by direction (hue) and speed (brightness).
type Palette struct {
	hues [Size]FloatColor
	// Magnitude at which brightness and opacity saturate
	full float32
}

func New(full float32) *Palette {
	p := &Palette{full: full}
	for i := range p.hues {
		hue := float64(i) / Size * 360
		r, g, b, err := colorconv.HSVToRGB(hue, 1, 1)
		if err != nil {
			// Only returned for inputs outside the HSV range, which the
			// loop never produces.
			panic(err)
		}
		p.hues[i] = FloatColor{float32(r) / 255, float32(g) / 255, float32(b) / 255, 1}
	}
	return p
}

// Hue returns the fully saturated colour for an angle in radians.
func (p *Palette) Hue(angle float64) FloatColor {
	turn := math.Mod(angle/(2*math.Pi), 1)
	if turn < 0 {
		turn++
	}
	return p.hues[int(turn*Size)%Size]
}

// Color returns a premultiplied colour for a velocity. Still water is a dim
// translucent white; faster flow blends towards the hue of its direction.
func (p *Palette) Color(dx, dy float32) FloatColor {
	mag := float32(math.Hypot(float64(dx), float64(dy)))
	t := min(1, mag/p.full)
	h := p.Hue(math.Atan2(float64(dy), float64(dx)))
	a := 0.35 + 0.65*t
	return FloatColor{
		R: (1 - t + h.R*t) * a,
		G: (1 - t + h.G*t) * a,
		B: (1 - t + h.B*t) * a,
		A: a,
	}
}

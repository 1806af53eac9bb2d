package field

import (
	"fmt"
	"math"
)

// Velocities are stored in 8-bit RGBA texels. Each component is clamped to
// [-1, 1] and mapped to round(v*127 + 128), which keeps zero exact at 128.
// R carries x, G carries y, B is unused and A stays opaque so premultiplied
// alpha never touches the payload.
const (
	QuantStep = 1.0 / 127
	zeroByte  = 128
)

func EncodeComponent(v float32) byte {
	v = min(1, max(-1, v))
	return byte(math.Round(float64(v)*127 + zeroByte))
}

func DecodeComponent(b byte) float32 {
	return (float32(b) - zeroByte) / 127
}

// EncodeTo writes the field into pix as RGBA texels. pix must hold
// exactly 4*W*H bytes.
func (f *Field) EncodeTo(pix []byte) error {
	if len(pix) != 4*len(f.cells) {
		return fmt.Errorf("field: encode %dx%d into %d bytes", f.W, f.H, len(pix))
	}
	for i, c := range f.cells {
		pix[i*4] = EncodeComponent(c.X)
		pix[i*4+1] = EncodeComponent(c.Y)
		pix[i*4+2] = 0
		pix[i*4+3] = 255
	}
	return nil
}

// DecodeFrom reads RGBA texels written by EncodeTo or by the GPU kernels.
func (f *Field) DecodeFrom(pix []byte) error {
	if len(pix) != 4*len(f.cells) {
		return fmt.Errorf("field: decode %d bytes into %dx%d", len(pix), f.W, f.H)
	}
	for i := range f.cells {
		f.cells[i] = Vec{DecodeComponent(pix[i*4]), DecodeComponent(pix[i*4+1])}
	}
	return nil
}

package gbuffer

import "math"

// QuantizeSNorm rounds v to the nearest value representable in a signed
// normalized fixed-point format of the given width. bits <= 1 returns v
// unchanged. Values outside [-1, 1] saturate.
func QuantizeSNorm(v float64, bits int) float64 {
	if bits <= 1 || math.IsNaN(v) {
		return v
	}
	scale := float64(int64(1)<<(bits-1) - 1)
	if v < -1 {
		v = -1
	} else if v > 1 {
		v = 1
	}
	return math.Round(v*scale) / scale
}

// Quantize applies QuantizeSNorm to every channel in place.
func (b *Buffer) Quantize(bits int) {
	if bits <= 1 {
		return
	}
	for i, v := range b.Pix {
		b.Pix[i] = QuantizeSNorm(v, bits)
	}
}

package composite

import (
	"fmt"
	"image"

	"gbuffer-denoise/internal/gbuffer"
	"gbuffer-denoise/internal/mathutil"
)

// Tonemap maps a linear channel value to [0,1] for display.
type Tonemap func(float64) float64

// TonemapClamp saturates to [0,1].
func TonemapClamp(x float64) float64 {
	return mathutil.Clamp(x, 0, 1)
}

// TonemapACES applies the ACES filmic curve.
func TonemapACES(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return mathutil.Clamp((x*(2.51*x+0.03))/(x*(2.43*x+0.59)+0.14), 0, 1)
}

// TonemapByName resolves "clamp" (or "") and "aces".
func TonemapByName(name string) (Tonemap, error) {
	switch name {
	case "", "clamp":
		return TonemapClamp, nil
	case "aces":
		return TonemapACES, nil
	default:
		return nil, fmt.Errorf("composite: unknown tonemap %q", name)
	}
}

// ToNRGBA converts a buffer to an 8-bit image. Color channels go through tm;
// alpha is clamped to [0,1].
func ToNRGBA(buf *gbuffer.Buffer, tm Tonemap) *image.NRGBA {
	if tm == nil {
		tm = TonemapClamp
	}
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		off := y * img.Stride
		for x := 0; x < buf.Width; x++ {
			si := buf.Offset(x, y)
			di := off + x*4
			img.Pix[di] = mathutil.Clamp8(tm(buf.Pix[si]))
			img.Pix[di+1] = mathutil.Clamp8(tm(buf.Pix[si+1]))
			img.Pix[di+2] = mathutil.Clamp8(tm(buf.Pix[si+2]))
			img.Pix[di+3] = mathutil.Clamp8(buf.Pix[si+3])
		}
	}
	return img
}

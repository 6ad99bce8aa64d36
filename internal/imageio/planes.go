package imageio

import (
	"fmt"
	"image"
	"math"

	"gbuffer-denoise/internal/gbuffer"
	"gbuffer-denoise/internal/mathutil"
)

// Plane selects how image samples map to buffer channel values.
type Plane int

const (
	// PlaneColor maps rgba to [0,1] (lighting, albedo, emission).
	PlaneColor Plane = iota
	// PlaneNormal maps rgb to [-1,1] and alpha (the mask) to [0,1].
	PlaneNormal
	// PlaneDistance stores a packed distance: the G byte is the integer part,
	// the R byte the fraction in 1/255 steps.
	PlaneDistance
)

func (p Plane) String() string {
	switch p {
	case PlaneColor:
		return "color"
	case PlaneNormal:
		return "normal"
	case PlaneDistance:
		return "distance"
	default:
		return fmt.Sprintf("Plane(%d)", int(p))
	}
}

// MaxFileDistance is the exclusive upper bound of distances a distance plane
// file can hold.
const MaxFileDistance = 256

// BufferFromImage converts a decoded image into a buffer according to p.
func BufferFromImage(img image.Image, p Plane) *gbuffer.Buffer {
	src := toNRGBA64(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	buf := gbuffer.NewBuffer(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := src.PixOffset(x, y)
			var s [4]float64
			for c := 0; c < 4; c++ {
				s[c] = float64(uint16(src.Pix[si+c*2])<<8|uint16(src.Pix[si+c*2+1])) / 0xffff
			}

			di := buf.Offset(x, y)
			switch p {
			case PlaneNormal:
				buf.Pix[di] = s[0]*2 - 1
				buf.Pix[di+1] = s[1]*2 - 1
				buf.Pix[di+2] = s[2]*2 - 1
				buf.Pix[di+3] = s[3]
			case PlaneDistance:
				// Only the high byte carries the packed value.
				buf.Pix[di] = float64(src.Pix[si]) / 255
				buf.Pix[di+1] = float64(src.Pix[si+2]) / gbuffer.DistanceScale
				buf.Pix[di+2] = 0
				buf.Pix[di+3] = s[3]
			default:
				buf.Pix[di] = s[0]
				buf.Pix[di+1] = s[1]
				buf.Pix[di+2] = s[2]
				buf.Pix[di+3] = s[3]
			}
		}
	}
	return buf
}

// ImageFromBuffer is the inverse of BufferFromImage at 8 bits per channel.
func ImageFromBuffer(buf *gbuffer.Buffer, p Plane) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			si := buf.Offset(x, y)
			di := img.PixOffset(x, y)
			switch p {
			case PlaneNormal:
				img.Pix[di] = mathutil.Clamp8(buf.Pix[si]*0.5 + 0.5)
				img.Pix[di+1] = mathutil.Clamp8(buf.Pix[si+1]*0.5 + 0.5)
				img.Pix[di+2] = mathutil.Clamp8(buf.Pix[si+2]*0.5 + 0.5)
				img.Pix[di+3] = mathutil.Clamp8(buf.Pix[si+3])
			case PlaneDistance:
				r, g := EncodeDistanceBytes(buf.Distance(x, y))
				img.Pix[di] = r
				img.Pix[di+1] = g
				img.Pix[di+2] = 0
				img.Pix[di+3] = 255
			default:
				img.Pix[di] = mathutil.Clamp8(buf.Pix[si])
				img.Pix[di+1] = mathutil.Clamp8(buf.Pix[si+1])
				img.Pix[di+2] = mathutil.Clamp8(buf.Pix[si+2])
				img.Pix[di+3] = mathutil.Clamp8(buf.Pix[si+3])
			}
		}
	}
	return img
}

// EncodeDistanceBytes packs d into an (R, G) byte pair: G = integer part,
// R = fraction rounded to 1/255. d is clamped to [0, 256).
func EncodeDistanceBytes(d float64) (r, g uint8) {
	d = mathutil.Clamp(d, 0, MaxFileDistance-1.0/255)
	whole := math.Floor(d)
	frac := math.Round((d - whole) * 255)
	return uint8(frac), uint8(whole)
}

// DecodeDistanceBytes reverses EncodeDistanceBytes.
func DecodeDistanceBytes(r, g uint8) float64 {
	return gbuffer.DecodeDistance(float64(r)/255, float64(g)/gbuffer.DistanceScale)
}

// Package gbuffer holds the per-frame image buffers consumed and produced by
// the denoise and composite passes.
package gbuffer

import (
	"gbuffer-denoise/internal/mathutil"
)

// Channels is the number of interleaved channels per pixel.
const Channels = 4

// Buffer is a W×H image of 4-channel values stored as one flat slice for
// cache locality. Channel values are nominally in [-1, 1].
type Buffer struct {
	Width  int
	Height int
	Pix    []float64 // RGBA interleaved, len = W*H*4
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(w, h int) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Buffer{
		Width:  w,
		Height: h,
		Pix:    make([]float64, w*h*Channels),
	}
}

// Len returns the number of pixels.
func (b *Buffer) Len() int {
	return b.Width * b.Height
}

// Empty reports whether the buffer has no pixels.
func (b *Buffer) Empty() bool {
	return b == nil || b.Width <= 0 || b.Height <= 0
}

// Offset returns the index of pixel (x, y) in Pix. The coordinate must be in bounds.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * Channels
}

// Clamp maps any coordinate to the nearest in-bounds pixel.
// Out-of-range coordinates are never wrapped.
func (b *Buffer) Clamp(x, y int) (int, int) {
	return mathutil.ClampInt(x, 0, b.Width-1), mathutil.ClampInt(y, 0, b.Height-1)
}

// At returns the pixel at (x, y), clamping to the edge.
func (b *Buffer) At(x, y int) [4]float64 {
	x, y = b.Clamp(x, y)
	i := b.Offset(x, y)
	return [4]float64{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

// RGB returns the first three channels at (x, y), clamping to the edge.
func (b *Buffer) RGB(x, y int) mathutil.Vec3 {
	x, y = b.Clamp(x, y)
	i := b.Offset(x, y)
	return mathutil.Vec3{b.Pix[i], b.Pix[i+1], b.Pix[i+2]}
}

// Set writes the pixel at (x, y). Out-of-bounds writes are ignored.
func (b *Buffer) Set(x, y int, v [4]float64) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := b.Offset(x, y)
	b.Pix[i] = v[0]
	b.Pix[i+1] = v[1]
	b.Pix[i+2] = v[2]
	b.Pix[i+3] = v[3]
}

// Fill sets every pixel to v.
func (b *Buffer) Fill(v [4]float64) {
	for i := 0; i < len(b.Pix); i += Channels {
		b.Pix[i] = v[0]
		b.Pix[i+1] = v[1]
		b.Pix[i+2] = v[2]
		b.Pix[i+3] = v[3]
	}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]float64, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// SameSize reports whether b and o have identical dimensions.
func (b *Buffer) SameSize(o *Buffer) bool {
	return b != nil && o != nil && b.Width == o.Width && b.Height == o.Height
}

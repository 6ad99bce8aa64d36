package gbuffer

import (
	"errors"
	"fmt"
)

var (
	ErrEmpty        = errors.New("gbuffer: empty buffer")
	ErrSizeMismatch = errors.New("gbuffer: buffer sizes differ")
)

// Frame is the set of input buffers of one rendered frame.
type Frame struct {
	Lighting *Buffer // rgb: noisy lighting estimate
	Normal   *Buffer // rgb: world-space normal, a: denoise mask
	Distance *Buffer // rg: packed linear distance
	Albedo   *Buffer
	Emission *Buffer
}

// Width returns the frame width, taken from the lighting buffer.
func (f *Frame) Width() int {
	if f.Lighting == nil {
		return 0
	}
	return f.Lighting.Width
}

// Height returns the frame height, taken from the lighting buffer.
func (f *Frame) Height() int {
	if f.Lighting == nil {
		return 0
	}
	return f.Lighting.Height
}

// Validate checks that every buffer is present, non-empty and matches the
// lighting buffer's size.
func (f *Frame) Validate() error {
	return CheckSizes(
		Named{"lighting", f.Lighting},
		Named{"normal", f.Normal},
		Named{"distance", f.Distance},
		Named{"albedo", f.Albedo},
		Named{"emission", f.Emission},
	)
}

// Named pairs a buffer with a name for error reporting.
type Named struct {
	Name string
	Buf  *Buffer
}

// CheckSizes verifies that all buffers are non-empty and share the size of the first.
func CheckSizes(bufs ...Named) error {
	if len(bufs) == 0 {
		return nil
	}
	ref := bufs[0]
	for _, n := range bufs {
		if n.Buf.Empty() {
			return fmt.Errorf("%w: %s", ErrEmpty, n.Name)
		}
		if !n.Buf.SameSize(ref.Buf) {
			return fmt.Errorf("%w: %s is %dx%d, %s is %dx%d", ErrSizeMismatch,
				n.Name, n.Buf.Width, n.Buf.Height, ref.Name, ref.Buf.Width, ref.Buf.Height)
		}
	}
	return nil
}

// Package composite combines denoised lighting with surface albedo and
// emission into the final display buffer.
package composite

import (
	"context"
	"fmt"

	"gbuffer-denoise/internal/dispatch"
	"gbuffer-denoise/internal/gbuffer"
)

// Pixel returns albedo*lighting + emission per channel with alpha forced to 1.
func Pixel(albedo, lighting, emission [4]float64) [4]float64 {
	return [4]float64{
		albedo[0]*lighting[0] + emission[0],
		albedo[1]*lighting[1] + emission[1],
		albedo[2]*lighting[2] + emission[2],
		1,
	}
}

// Apply composites every pixel into a new buffer. A nil dispatcher runs serially.
func Apply(ctx context.Context, disp dispatch.Dispatcher, albedo, lighting, emission *gbuffer.Buffer) (*gbuffer.Buffer, error) {
	if err := gbuffer.CheckSizes(
		gbuffer.Named{Name: "lighting", Buf: lighting},
		gbuffer.Named{Name: "albedo", Buf: albedo},
		gbuffer.Named{Name: "emission", Buf: emission},
	); err != nil {
		return nil, fmt.Errorf("composite: %w", err)
	}
	if disp == nil {
		disp = dispatch.Serial{}
	}

	out := gbuffer.NewBuffer(lighting.Width, lighting.Height)
	err := disp.Dispatch(ctx, out.Width, out.Height, func(t dispatch.Tile) {
		for y := t.Y0; y < t.Y1; y++ {
			for x := t.X0; x < t.X1; x++ {
				i := out.Offset(x, y)
				a, l, e := albedo.Pix[i:i+4], lighting.Pix[i:i+4], emission.Pix[i:i+4]
				out.Pix[i] = a[0]*l[0] + e[0]
				out.Pix[i+1] = a[1]*l[1] + e[1]
				out.Pix[i+2] = a[2]*l[2] + e[2]
				out.Pix[i+3] = 1
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("composite: %w", err)
	}
	return out, nil
}

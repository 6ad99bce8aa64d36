package denoise

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gbuffer-denoise/internal/dispatch"
	"gbuffer-denoise/internal/gbuffer"
	"gbuffer-denoise/internal/logging"
)

// ErrInvalidStep is returned for a schedule containing a step below 1.
var ErrInvalidStep = errors.New("denoise: step must be >= 1")

// AtrousSchedule is the step sequence of the six-pass à-trous chain.
var AtrousSchedule = []int{1, 2, 4, 8, 8, 16}

// Options controls a Denoiser.
type Options struct {
	// Schedule lists the tap spacing of each pass. Empty means a single pass
	// with step 1.
	Schedule []int

	// QuantizeBits, when 8 or 16, rounds every pass output to a signed
	// normalized format of that width, as a storage image would.
	QuantizeBits int
}

// Denoiser runs the edge-aware filter over whole buffers.
type Denoiser struct {
	opts Options
	disp dispatch.Dispatcher
}

// New returns a Denoiser. A nil dispatcher runs serially.
func New(opts Options, disp dispatch.Dispatcher) *Denoiser {
	if disp == nil {
		disp = dispatch.Serial{}
	}
	if len(opts.Schedule) == 0 {
		opts.Schedule = []int{1}
	}
	return &Denoiser{opts: opts, disp: disp}
}

// Schedule returns the pass steps in order.
func (d *Denoiser) Schedule() []int {
	return append([]int(nil), d.opts.Schedule...)
}

// Apply denoises lighting and returns a new buffer. Input buffers are never
// written. Passes alternate between two scratch buffers.
func (d *Denoiser) Apply(ctx context.Context, lighting, normal, distance *gbuffer.Buffer) (*gbuffer.Buffer, error) {
	if err := gbuffer.CheckSizes(
		gbuffer.Named{Name: "lighting", Buf: lighting},
		gbuffer.Named{Name: "normal", Buf: normal},
		gbuffer.Named{Name: "distance", Buf: distance},
	); err != nil {
		return nil, fmt.Errorf("denoise: %w", err)
	}
	for _, step := range d.opts.Schedule {
		if step < 1 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidStep, step)
		}
	}

	w, h := lighting.Width, lighting.Height
	ping := gbuffer.NewBuffer(w, h)
	var pong *gbuffer.Buffer
	if len(d.opts.Schedule) > 1 {
		pong = gbuffer.NewBuffer(w, h)
	}

	src := lighting
	for i, step := range d.opts.Schedule {
		dst := ping
		if i%2 == 1 {
			dst = pong
		}
		start := time.Now()
		if err := d.pass(ctx, src, normal, distance, dst, step); err != nil {
			return nil, fmt.Errorf("denoise: pass %d (step %d): %w", i, step, err)
		}
		logging.Logger().Debug("denoise pass", "pass", i, "step", step, "elapsed", time.Since(start))
		src = dst
	}
	return src, nil
}

// Pass runs a single filter pass from src into dst. dst must not alias src.
func (d *Denoiser) Pass(ctx context.Context, src, normal, distance, dst *gbuffer.Buffer, step int) error {
	if step < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidStep, step)
	}
	if err := gbuffer.CheckSizes(
		gbuffer.Named{Name: "lighting", Buf: src},
		gbuffer.Named{Name: "normal", Buf: normal},
		gbuffer.Named{Name: "distance", Buf: distance},
		gbuffer.Named{Name: "output", Buf: dst},
	); err != nil {
		return fmt.Errorf("denoise: %w", err)
	}
	return d.pass(ctx, src, normal, distance, dst, step)
}

func (d *Denoiser) pass(ctx context.Context, src, normal, distance, dst *gbuffer.Buffer, step int) error {
	bits := d.opts.QuantizeBits
	return d.disp.Dispatch(ctx, src.Width, src.Height, func(t dispatch.Tile) {
		for y := t.Y0; y < t.Y1; y++ {
			for x := t.X0; x < t.X1; x++ {
				v := FilterPixel(src, normal, distance, x, y, step)
				if bits > 1 {
					for c := range v {
						v[c] = gbuffer.QuantizeSNorm(v[c], bits)
					}
				}
				i := dst.Offset(x, y)
				dst.Pix[i] = v[0]
				dst.Pix[i+1] = v[1]
				dst.Pix[i+2] = v[2]
				dst.Pix[i+3] = v[3]
			}
		}
	})
}

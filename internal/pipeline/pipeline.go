// Package pipeline runs the per-frame pass sequence: denoise the lighting
// buffer, then composite it with albedo and emission.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"gbuffer-denoise/internal/composite"
	"gbuffer-denoise/internal/denoise"
	"gbuffer-denoise/internal/dispatch"
	"gbuffer-denoise/internal/gbuffer"
	"gbuffer-denoise/internal/logging"
)

// Pipeline owns the passes of one frame. It holds no per-frame state and may
// run several frames concurrently.
type Pipeline struct {
	denoiser *denoise.Denoiser
	disp     dispatch.Dispatcher
	tonemap  composite.Tonemap
}

// Result holds the outputs of one frame.
type Result struct {
	Denoised *gbuffer.Buffer
	Final    *gbuffer.Buffer
	Elapsed  time.Duration
}

// Image returns the final buffer as an 8-bit display image.
func (r *Result) Image(tm composite.Tonemap) *image.NRGBA {
	return composite.ToNRGBA(r.Final, tm)
}

// New builds a pipeline. A nil dispatcher runs serially; a nil tonemap clamps.
func New(opts denoise.Options, disp dispatch.Dispatcher, tm composite.Tonemap) *Pipeline {
	if disp == nil {
		disp = dispatch.Serial{}
	}
	if tm == nil {
		tm = composite.TonemapClamp
	}
	return &Pipeline{
		denoiser: denoise.New(opts, disp),
		disp:     disp,
		tonemap:  tm,
	}
}

// Tonemap returns the display mapping used by Render.
func (p *Pipeline) Tonemap() composite.Tonemap {
	return p.tonemap
}

// Run denoises and composites f. Input buffers are not modified.
func (p *Pipeline) Run(ctx context.Context, f *gbuffer.Frame) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	start := time.Now()

	denoised, err := p.denoiser.Apply(ctx, f.Lighting, f.Normal, f.Distance)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	final, err := composite.Apply(ctx, p.disp, f.Albedo, denoised, f.Emission)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	res := &Result{Denoised: denoised, Final: final, Elapsed: time.Since(start)}
	logging.Logger().Debug("frame passes done",
		"width", f.Width(), "height", f.Height(),
		"passes", len(p.denoiser.Schedule()), "elapsed", res.Elapsed)
	return res, nil
}

// Render runs f and returns the tonemapped display image.
func (p *Pipeline) Render(ctx context.Context, f *gbuffer.Frame) (*image.NRGBA, *Result, error) {
	res, err := p.Run(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	return res.Image(p.tonemap), res, nil
}

// Package synth builds synthetic G-buffer frames for exercising the passes
// without a renderer.
package synth

import (
	"math/rand/v2"

	"gbuffer-denoise/internal/gbuffer"
)

// Options controls the generated scene.
type Options struct {
	Width  int
	Height int
	Noise  float64 // amplitude of the uniform lighting noise
	Seed   uint64
}

// Scene layout. SkyRows is the fraction of rows, from the top, that show sky.
const (
	SkyRows       = 0.25
	SkyDistance   = 250.0
	NearDistance  = 20.0
	FarDistance   = 60.0
	baseLighting  = 0.5
	nearShadowing = 0.6
)

// Frame generates a frame with a sky band over two walls at different
// depths, split down the middle. The left wall faces the camera and the right
// wall is turned sideways. Lighting is a smooth gradient plus uniform noise;
// sky pixels are unmasked and carry no noise.
func Frame(opts Options) *gbuffer.Frame {
	w, h := opts.Width, opts.Height
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	f := &gbuffer.Frame{
		Lighting: gbuffer.NewBuffer(w, h),
		Normal:   gbuffer.NewBuffer(w, h),
		Distance: gbuffer.NewBuffer(w, h),
		Albedo:   gbuffer.NewBuffer(w, h),
		Emission: gbuffer.NewBuffer(w, h),
	}
	f.Emission.Fill([4]float64{0, 0, 0, 1})
	sky := int(float64(h) * SkyRows)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y < sky {
				f.Lighting.Set(x, y, [4]float64{0.4, 0.6, 0.9, 1})
				f.Albedo.Set(x, y, [4]float64{1, 1, 1, 1})
				f.Distance.SetDistance(x, y, SkyDistance)
				continue
			}

			left := x < w/2
			light := baseLighting * float64(y) / float64(h)
			normal := [4]float64{0, 0, 1, 1}
			dist := NearDistance
			albedo := [4]float64{0.8, 0.3, 0.2, 1}
			if !left {
				light *= nearShadowing
				normal = [4]float64{1, 0, 0, 1}
				dist = FarDistance
				albedo = [4]float64{0.2, 0.5, 0.8, 1}
			}
			var l [4]float64
			for c := 0; c < 3; c++ {
				l[c] = light + opts.Noise*(2*rng.Float64()-1)
			}
			l[3] = 1
			f.Lighting.Set(x, y, l)
			f.Normal.Set(x, y, normal)
			f.Distance.SetDistance(x, y, dist)
			f.Albedo.Set(x, y, albedo)
		}
	}

	// Small emissive patch on the far wall.
	for y := sky + 2; y < min(h, sky+6); y++ {
		for x := w - 6; x < w-2; x++ {
			if x > w/2 {
				f.Emission.Set(x, y, [4]float64{0.5, 0.5, 0.2, 1})
			}
		}
	}
	return f
}

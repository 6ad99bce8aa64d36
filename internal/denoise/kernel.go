// Package denoise implements the edge-aware (cross-bilateral) denoising pass
// over a noisy lighting buffer guided by normal and packed-distance buffers.
package denoise

// Tap is one sample of the filter footprint: an offset from the center pixel
// and its base weight.
type Tap struct {
	DX, DY int
	Weight float64
}

// Base weights by ring. They approximate a 2D Gaussian footprint out to
// radius 3 and are not normalized; FilterPixel divides by the total.
const (
	WeightCenter    = 0.146634
	WeightAxis1     = 0.092566
	WeightDiagonal1 = 0.058434
	WeightAxis2     = 0.023205
	WeightDiagonal2 = 0.003672
	WeightKnight    = 0.014648
	WeightAxis3     = 0.002289
	WeightAxis3Off1 = 0.001445
)

// Kernel is the fixed 37-tap footprint. The center tap comes first.
var Kernel = []Tap{
	{0, 0, WeightCenter},

	{1, 0, WeightAxis1},
	{-1, 0, WeightAxis1},
	{0, 1, WeightAxis1},
	{0, -1, WeightAxis1},

	{1, 1, WeightDiagonal1},
	{1, -1, WeightDiagonal1},
	{-1, 1, WeightDiagonal1},
	{-1, -1, WeightDiagonal1},

	{2, 0, WeightAxis2},
	{-2, 0, WeightAxis2},
	{0, 2, WeightAxis2},
	{0, -2, WeightAxis2},

	{2, 2, WeightDiagonal2},
	{2, -2, WeightDiagonal2},
	{-2, 2, WeightDiagonal2},
	{-2, -2, WeightDiagonal2},

	{2, 1, WeightKnight},
	{2, -1, WeightKnight},
	{-2, 1, WeightKnight},
	{-2, -1, WeightKnight},
	{1, 2, WeightKnight},
	{1, -2, WeightKnight},
	{-1, 2, WeightKnight},
	{-1, -2, WeightKnight},

	{3, 0, WeightAxis3},
	{-3, 0, WeightAxis3},
	{0, 3, WeightAxis3},
	{0, -3, WeightAxis3},

	{3, 1, WeightAxis3Off1},
	{3, -1, WeightAxis3Off1},
	{-3, 1, WeightAxis3Off1},
	{-3, -1, WeightAxis3Off1},
	{1, 3, WeightAxis3Off1},
	{1, -3, WeightAxis3Off1},
	{-1, 3, WeightAxis3Off1},
	{-1, -3, WeightAxis3Off1},
}

// Radius is the largest absolute offset in Kernel.
const Radius = 3

// KernelWeightSum returns the sum of all base weights.
func KernelWeightSum() float64 {
	var s float64
	for _, t := range Kernel {
		s += t.Weight
	}
	return s
}

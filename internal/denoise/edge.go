package denoise

import (
	"math"

	"gbuffer-denoise/internal/mathutil"
)

// Edge-stopping constants. Empirically tuned; keep in sync with the
// reference images before changing.
const (
	DistanceExponent = 0.5
	NormalScale      = 10.0
	MaskThreshold    = 0.5
)

// DistanceDifference is the compressed absolute difference of two decoded
// distances: |a-b|^0.5.
func DistanceDifference(a, b float64) float64 {
	return math.Pow(math.Abs(a-b), DistanceExponent)
}

// NormalDifference is the scaled Euclidean distance between two normals.
func NormalDifference(a, b mathutil.Vec3) float64 {
	return NormalScale * a.Dist(b)
}

// EdgeWeight scales a tap's base weight down by geometric dissimilarity.
// The denominator is at least 1, so the result never exceeds base.
func EdgeWeight(base, distanceDiff, normalDiff float64) float64 {
	return base / (distanceDiff + normalDiff + 1)
}

// Eligible reports whether a normal-buffer alpha marks a pixel for filtering.
func Eligible(mask float64) bool {
	return mask > MaskThreshold
}

package denoise

import (
	"gbuffer-denoise/internal/gbuffer"
)

// FilterPixel computes the denoised value of pixel (x, y) for one pass with
// tap offsets multiplied by step. Pixels whose mask is not set are returned
// unchanged. The output alpha is the input lighting alpha.
func FilterPixel(lighting, normal, distance *gbuffer.Buffer, x, y, step int) [4]float64 {
	center := lighting.At(x, y)
	if !Eligible(normal.At(x, y)[3]) {
		return center
	}
	return filterEligible(lighting, normal, distance, x, y, step, center[3])
}

func filterEligible(lighting, normal, distance *gbuffer.Buffer, x, y, step int, alpha float64) [4]float64 {
	np := normal.RGB(x, y)
	dp := distance.Distance(x, y)

	var sr, sg, sb, total float64
	for _, tap := range Kernel {
		sx, sy := lighting.Clamp(x+tap.DX*step, y+tap.DY*step)

		dd := DistanceDifference(dp, distance.Distance(sx, sy))
		nd := NormalDifference(np, normal.RGB(sx, sy))
		w := EdgeWeight(tap.Weight, dd, nd)

		i := lighting.Offset(sx, sy)
		sr += lighting.Pix[i] * w
		sg += lighting.Pix[i+1] * w
		sb += lighting.Pix[i+2] * w
		total += w
	}

	// total includes the center tap at full base weight, so it is never zero.
	return [4]float64{sr / total, sg / total, sb / total, alpha}
}

package gbuffer

import "math"

// Stats summarizes the channel values of a buffer.
type Stats struct {
	Min  [4]float64
	Max  [4]float64
	Mean [4]float64
}

// ComputeStats returns per-channel min, max and mean. An empty buffer yields
// the zero Stats.
func (b *Buffer) ComputeStats() Stats {
	var s Stats
	if b.Empty() {
		return s
	}
	for c := 0; c < Channels; c++ {
		s.Min[c] = math.Inf(1)
		s.Max[c] = math.Inf(-1)
	}
	for i := 0; i < len(b.Pix); i += Channels {
		for c := 0; c < Channels; c++ {
			v := b.Pix[i+c]
			s.Min[c] = math.Min(s.Min[c], v)
			s.Max[c] = math.Max(s.Max[c], v)
			s.Mean[c] += v
		}
	}
	n := float64(b.Len())
	for c := 0; c < Channels; c++ {
		s.Mean[c] /= n
	}
	return s
}

// MaskCoverage returns the fraction of pixels whose alpha exceeds threshold.
func (b *Buffer) MaskCoverage(threshold float64) float64 {
	if b.Empty() {
		return 0
	}
	n := 0
	for i := 3; i < len(b.Pix); i += Channels {
		if b.Pix[i] > threshold {
			n++
		}
	}
	return float64(n) / float64(b.Len())
}

// DistanceRange returns the smallest and largest decoded distance.
func (b *Buffer) DistanceRange() (lo, hi float64) {
	if b.Empty() {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			d := b.Distance(x, y)
			lo = math.Min(lo, d)
			hi = math.Max(hi, d)
		}
	}
	return lo, hi
}

package gbuffer

import "math"

// DistanceScale is the weight of the g channel in a packed distance.
const DistanceScale = 256

// MaxDistance is the exclusive upper bound of distances that round-trip
// exactly through EncodeDistance/DecodeDistance.
const MaxDistance = 1 << 16

// EncodeDistance splits a linear distance into (r, g) channel values so that
// DecodeDistance(r, g) == d. g carries the integer part divided by 256 and r
// the fractional part.
func EncodeDistance(d float64) (r, g float64) {
	whole := math.Floor(d)
	return d - whole, whole / DistanceScale
}

// DecodeDistance reconstructs a distance packed as g*256 + r.
func DecodeDistance(r, g float64) float64 {
	return g*DistanceScale + r
}

// Distance decodes the packed distance stored in the rg channels at (x, y),
// clamping to the edge.
func (b *Buffer) Distance(x, y int) float64 {
	x, y = b.Clamp(x, y)
	i := b.Offset(x, y)
	return DecodeDistance(b.Pix[i], b.Pix[i+1])
}

// SetDistance packs d into the rg channels at (x, y). Alpha is set to 1.
func (b *Buffer) SetDistance(x, y int, d float64) {
	r, g := EncodeDistance(d)
	b.Set(x, y, [4]float64{r, g, 0, 1})
}

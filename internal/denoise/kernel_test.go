package denoise

import (
	"math"
	"testing"

	"gbuffer-denoise/internal/mathutil"
)

func TestKernel_Layout(t *testing.T) {
	if len(Kernel) != 37 {
		t.Fatalf("len(Kernel) = %d, want 37", len(Kernel))
	}
	if c := Kernel[0]; c.DX != 0 || c.DY != 0 || c.Weight != WeightCenter {
		t.Errorf("Kernel[0] = %+v, want center tap with weight %v", c, WeightCenter)
	}

	seen := make(map[[2]int]float64)
	for _, tap := range Kernel {
		key := [2]int{tap.DX, tap.DY}
		if _, dup := seen[key]; dup {
			t.Errorf("duplicate offset %v", key)
		}
		seen[key] = tap.Weight
		if abs(tap.DX) > Radius || abs(tap.DY) > Radius {
			t.Errorf("offset %v exceeds radius %d", key, Radius)
		}
	}
	// Symmetric under mirroring and transposition.
	for key, w := range seen {
		for _, m := range [][2]int{{-key[0], key[1]}, {key[0], -key[1]}, {key[1], key[0]}} {
			if seen[m] != w {
				t.Errorf("weight at %v = %v, want %v (mirror of %v)", m, seen[m], w, key)
			}
		}
	}
}

func TestKernel_RingWeights(t *testing.T) {
	tests := []struct {
		dx, dy int
		want   float64
	}{
		{1, 0, WeightAxis1},
		{-1, -1, WeightDiagonal1},
		{0, -2, WeightAxis2},
		{-2, 2, WeightDiagonal2},
		{-1, 2, WeightKnight},
		{3, 0, WeightAxis3},
		{-1, -3, WeightAxis3Off1},
	}
	for _, tt := range tests {
		found := false
		for _, tap := range Kernel {
			if tap.DX == tt.dx && tap.DY == tt.dy {
				found = true
				if tap.Weight != tt.want {
					t.Errorf("weight(%d,%d) = %v, want %v", tt.dx, tt.dy, tap.Weight, tt.want)
				}
			}
		}
		if !found {
			t.Errorf("offset (%d,%d) missing from kernel", tt.dx, tt.dy)
		}
	}
	if got := KernelWeightSum(); math.Abs(got-0.996042) > 1e-9 {
		t.Errorf("KernelWeightSum() = %v, want 0.996042", got)
	}
}

func TestEdgeWeight(t *testing.T) {
	const base = WeightAxis1
	if got := EdgeWeight(base, 0, 0); got != base {
		t.Errorf("EdgeWeight(base, 0, 0) = %v, want %v", got, base)
	}

	prev := EdgeWeight(base, 0, 0)
	for _, dd := range []float64{0.01, 0.5, 1, 10, 1000} {
		got := EdgeWeight(base, dd, 0)
		if got >= prev {
			t.Errorf("EdgeWeight(dd=%v) = %v, want < %v", dd, got, prev)
		}
		prev = got
	}
	prev = EdgeWeight(base, 0.3, 0)
	for _, nd := range []float64{0.01, 0.5, 1, 10, 1000} {
		got := EdgeWeight(base, 0.3, nd)
		if got >= prev {
			t.Errorf("EdgeWeight(nd=%v) = %v, want < %v", nd, got, prev)
		}
		prev = got
	}
	if got, want := EdgeWeight(1, 2, 3), 1.0/6; got != want {
		t.Errorf("EdgeWeight(1, 2, 3) = %v, want %v", got, want)
	}
}

func TestDifferences(t *testing.T) {
	if got := DistanceDifference(3, 7); got != 2 {
		t.Errorf("DistanceDifference(3, 7) = %v, want 2", got)
	}
	if got := DistanceDifference(7, 3); got != 2 {
		t.Errorf("DistanceDifference(7, 3) = %v, want 2", got)
	}
	if got := DistanceDifference(5, 5); got != 0 {
		t.Errorf("DistanceDifference(5, 5) = %v, want 0", got)
	}

	up := mathutil.Vec3{0, 0, 1}
	if got := NormalDifference(up, up); got != 0 {
		t.Errorf("NormalDifference(same) = %v, want 0", got)
	}
	got := NormalDifference(mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 1, 0})
	if want := 10 * math.Sqrt2; math.Abs(got-want) > 1e-12 {
		t.Errorf("NormalDifference(x, y) = %v, want %v", got, want)
	}
}

func TestEligible(t *testing.T) {
	tests := []struct {
		mask float64
		want bool
	}{
		{-1, false},
		{0, false},
		{0.5, false},
		{0.5000001, true},
		{1, true},
	}
	for _, tt := range tests {
		if got := Eligible(tt.mask); got != tt.want {
			t.Errorf("Eligible(%v) = %v, want %v", tt.mask, got, tt.want)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

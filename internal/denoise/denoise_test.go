package denoise

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"gbuffer-denoise/internal/dispatch"
	"gbuffer-denoise/internal/gbuffer"
	"gbuffer-denoise/internal/mathutil"
)

// flatFrame returns guide buffers with one normal, one distance and the mask
// set everywhere.
func flatFrame(w, h int) (normal, distance *gbuffer.Buffer) {
	normal = gbuffer.NewBuffer(w, h)
	normal.Fill([4]float64{0, 0, 1, 1})
	distance = gbuffer.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			distance.SetDistance(x, y, 12.5)
		}
	}
	return normal, distance
}

func randomBuffer(rng *rand.Rand, w, h int) *gbuffer.Buffer {
	b := gbuffer.NewBuffer(w, h)
	for i := range b.Pix {
		b.Pix[i] = rng.Float64()
	}
	return b
}

func randomGuides(rng *rand.Rand, w, h int, maskProb float64) (normal, distance *gbuffer.Buffer) {
	normal = gbuffer.NewBuffer(w, h)
	distance = gbuffer.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := mathutil.Vec3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}.Normalize()
			mask := 0.0
			if rng.Float64() < maskProb {
				mask = 1
			}
			normal.Set(x, y, [4]float64{n[0], n[1], n[2], mask})
			distance.SetDistance(x, y, rng.Float64()*300)
		}
	}
	return normal, distance
}

// convolve is the fixed-kernel convolution with edge clamping.
func convolve(lighting *gbuffer.Buffer, x, y int) mathutil.Vec3 {
	var sum mathutil.Vec3
	var total float64
	for _, tap := range Kernel {
		sum = sum.Add(lighting.RGB(x+tap.DX, y+tap.DY).Scale(tap.Weight))
		total += tap.Weight
	}
	return sum.Scale(1 / total)
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Abs(b))
}

func TestFilterPixel_BypassCopiesInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	lighting := randomBuffer(rng, 12, 10)
	normal, distance := randomGuides(rng, 12, 10, 0.5)
	// A mask of exactly 0.5 is not eligible.
	normal.Set(3, 3, [4]float64{0, 1, 0, 0.5})

	for y := 0; y < 10; y++ {
		for x := 0; x < 12; x++ {
			if Eligible(normal.At(x, y)[3]) {
				continue
			}
			got := FilterPixel(lighting, normal, distance, x, y, 1)
			if got != lighting.At(x, y) {
				t.Errorf("FilterPixel(%d,%d) = %v, want input %v", x, y, got, lighting.At(x, y))
			}
		}
	}
}

func TestFilterPixel_AlwaysFinite(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	lighting := randomBuffer(rng, 16, 16)
	normal, distance := randomGuides(rng, 16, 16, 1)
	// Extreme discontinuity next to the sampled pixel.
	distance.SetDistance(8, 8, 0)
	distance.SetDistance(9, 8, 65000)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			for _, step := range []int{1, 4, 16} {
				v := FilterPixel(lighting, normal, distance, x, y, step)
				for c := 0; c < 3; c++ {
					if math.IsNaN(v[c]) || math.IsInf(v[c], 0) {
						t.Fatalf("FilterPixel(%d,%d,step %d)[%d] = %v, want finite", x, y, step, c, v[c])
					}
					if v[c] < 0 || v[c] > 1 {
						t.Fatalf("FilterPixel(%d,%d)[%d] = %v, outside input range [0,1]", x, y, c, v[c])
					}
				}
			}
		}
	}
}

func TestFilterPixel_FlatGeometryIsConvolution(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	const w, h = 11, 9
	lighting := randomBuffer(rng, w, h)
	normal, distance := flatFrame(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			got := FilterPixel(lighting, normal, distance, x, y, 1)
			want := convolve(lighting, x, y)
			for c := 0; c < 3; c++ {
				if !near(got[c], want[c]) {
					t.Fatalf("FilterPixel(%d,%d)[%d] = %v, want %v", x, y, c, got[c], want[c])
				}
			}
		}
	}
}

func TestFilterPixel_ImpulseResponse(t *testing.T) {
	const size = 9
	lighting := gbuffer.NewBuffer(size, size)
	lighting.Set(4, 4, [4]float64{1, 1, 1, 1})
	normal, distance := flatFrame(size, size)
	sum := KernelWeightSum()

	tests := []struct {
		x, y   int
		weight float64
	}{
		{4, 4, WeightCenter},
		{5, 4, WeightAxis1},
		{3, 3, WeightDiagonal1},
		{4, 6, WeightAxis2},
		{2, 2, WeightDiagonal2},
		{6, 5, WeightKnight},
		{1, 4, WeightAxis3},
		{7, 5, WeightAxis3Off1},
		{8, 8, 0},
	}
	for _, tt := range tests {
		got := FilterPixel(lighting, normal, distance, tt.x, tt.y, 1)[0]
		if want := tt.weight / sum; !near(got, want) {
			t.Errorf("response at (%d,%d) = %v, want %v", tt.x, tt.y, got, want)
		}
	}
}

func TestFilterPixel_CornerClampsToEdge(t *testing.T) {
	lighting := gbuffer.NewBuffer(6, 6)
	lighting.Set(0, 0, [4]float64{1, 1, 1, 1})
	normal, distance := flatFrame(6, 6)

	// Every tap with dx <= 0 and dy <= 0 clamps onto (0,0).
	var want float64
	for _, tap := range Kernel {
		if tap.DX <= 0 && tap.DY <= 0 {
			want += tap.Weight
		}
	}
	want /= KernelWeightSum()

	got := FilterPixel(lighting, normal, distance, 0, 0, 1)[0]
	if !near(got, want) {
		t.Errorf("corner response = %v, want %v", got, want)
	}
}

func TestFilterPixel_StopsAtDepthEdge(t *testing.T) {
	const w, h = 10, 6
	lighting := gbuffer.NewBuffer(w, h)
	normal, distance := flatFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 5; x < w; x++ {
			lighting.Set(x, y, [4]float64{1, 1, 1, 1})
			distance.SetDistance(x, y, 200)
		}
	}

	got := FilterPixel(lighting, normal, distance, 4, 3, 1)[0]
	plain := convolve(lighting, 4, 3)[0]
	if got <= 0 {
		t.Errorf("edge pixel = %v, want some leakage > 0", got)
	}
	if got >= plain/5 {
		t.Errorf("edge pixel = %v, want well below plain convolution %v", got, plain)
	}
}

func TestFilterPixel_StopsAtNormalEdge(t *testing.T) {
	const w, h = 10, 6
	lighting := gbuffer.NewBuffer(w, h)
	normal, distance := flatFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 5; x < w; x++ {
			lighting.Set(x, y, [4]float64{1, 1, 1, 1})
			normal.Set(x, y, [4]float64{1, 0, 0, 1})
		}
	}

	got := FilterPixel(lighting, normal, distance, 4, 3, 1)[0]
	plain := convolve(lighting, 4, 3)[0]
	if got >= plain/5 {
		t.Errorf("edge pixel = %v, want well below plain convolution %v", got, plain)
	}
}

func TestFilterPixel_KeepsAlpha(t *testing.T) {
	lighting := gbuffer.NewBuffer(4, 4)
	lighting.Fill([4]float64{0.2, 0.3, 0.4, 0.75})
	normal, distance := flatFrame(4, 4)
	if got := FilterPixel(lighting, normal, distance, 1, 1, 1)[3]; got != 0.75 {
		t.Errorf("alpha = %v, want 0.75", got)
	}
}

func TestDenoiser_ApplySinglePassMatchesFilterPixel(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	const w, h = 13, 11
	lighting := randomBuffer(rng, w, h)
	normal, distance := randomGuides(rng, w, h, 0.7)

	out, err := New(Options{}, nil).Apply(context.Background(), lighting, normal, distance)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if got, want := out.At(x, y), FilterPixel(lighting, normal, distance, x, y, 1); got != want {
				t.Fatalf("out(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDenoiser_InputsUntouched(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	lighting := randomBuffer(rng, 8, 8)
	normal, distance := randomGuides(rng, 8, 8, 0.8)
	before := lighting.Clone()

	d := New(Options{Schedule: AtrousSchedule}, nil)
	if _, err := d.Apply(context.Background(), lighting, normal, distance); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	for i := range before.Pix {
		if lighting.Pix[i] != before.Pix[i] {
			t.Fatalf("lighting.Pix[%d] changed from %v to %v", i, before.Pix[i], lighting.Pix[i])
		}
	}
}

func TestDenoiser_AtrousKeepsBypassAndConstants(t *testing.T) {
	const w, h = 20, 14
	lighting := gbuffer.NewBuffer(w, h)
	lighting.Fill([4]float64{0.4, 0.5, 0.6, 1})
	normal, distance := flatFrame(w, h)
	// Sky column keeps a distinct value.
	for y := 0; y < h; y++ {
		lighting.Set(0, y, [4]float64{0.9, 0.1, 0.2, 1})
		normal.Set(0, y, [4]float64{0, 0, 0, 0})
	}

	out, err := New(Options{Schedule: AtrousSchedule}, nil).Apply(context.Background(), lighting, normal, distance)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	for y := 0; y < h; y++ {
		if got := out.At(0, y); got != lighting.At(0, y) {
			t.Errorf("sky pixel (0,%d) = %v, want %v", y, got, lighting.At(0, y))
		}
	}
	// Interior pixels far from the sky column see only constant lighting
	// except for the sky taps; the result must stay within the input range.
	for y := 0; y < h; y++ {
		for x := 1; x < w; x++ {
			v := out.At(x, y)
			if v[0] < 0.4-1e-9 || v[0] > 0.9+1e-9 {
				t.Fatalf("out(%d,%d)[0] = %v, outside [0.4, 0.9]", x, y, v[0])
			}
		}
	}
}

func TestDenoiser_PoolMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	const w, h = 37, 29
	lighting := randomBuffer(rng, w, h)
	normal, distance := randomGuides(rng, w, h, 0.6)
	opts := Options{Schedule: []int{1, 2, 4}}

	serial, err := New(opts, dispatch.Serial{}).Apply(context.Background(), lighting, normal, distance)
	if err != nil {
		t.Fatalf("serial Apply() error = %v", err)
	}
	pool := dispatch.NewPool(4, 8)
	defer pool.Close()
	parallel, err := New(opts, pool).Apply(context.Background(), lighting, normal, distance)
	if err != nil {
		t.Fatalf("pool Apply() error = %v", err)
	}
	for i := range serial.Pix {
		if serial.Pix[i] != parallel.Pix[i] {
			t.Fatalf("Pix[%d]: serial %v != pool %v", i, serial.Pix[i], parallel.Pix[i])
		}
	}
}

func TestDenoiser_Quantize(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 14))
	lighting := randomBuffer(rng, 9, 9)
	normal, distance := randomGuides(rng, 9, 9, 1)

	out, err := New(Options{QuantizeBits: 8}, nil).Apply(context.Background(), lighting, normal, distance)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	for i, v := range out.Pix {
		scaled := v * 127
		if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			t.Fatalf("Pix[%d] = %v, not on the 8-bit snorm grid", i, v)
		}
	}
}

func TestDenoiser_Errors(t *testing.T) {
	normal, distance := flatFrame(4, 4)
	lighting := gbuffer.NewBuffer(4, 4)

	_, err := New(Options{Schedule: []int{1, 0}}, nil).Apply(context.Background(), lighting, normal, distance)
	if !errors.Is(err, ErrInvalidStep) {
		t.Errorf("zero step: error = %v, want ErrInvalidStep", err)
	}

	_, err = New(Options{}, nil).Apply(context.Background(), gbuffer.NewBuffer(5, 4), normal, distance)
	if !errors.Is(err, gbuffer.ErrSizeMismatch) {
		t.Errorf("size mismatch: error = %v, want ErrSizeMismatch", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(Options{}, nil).Apply(ctx, lighting, normal, distance)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: error = %v, want context.Canceled", err)
	}

	err = New(Options{}, nil).Pass(context.Background(), lighting, normal, distance, gbuffer.NewBuffer(4, 4), 0)
	if !errors.Is(err, ErrInvalidStep) {
		t.Errorf("Pass zero step: error = %v, want ErrInvalidStep", err)
	}
}

func TestDenoiser_ScheduleDefault(t *testing.T) {
	got := New(Options{}, nil).Schedule()
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("Schedule() = %v, want [1]", got)
	}
}

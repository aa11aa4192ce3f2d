package colorutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardDeviceRoundTrip(t *testing.T) {
	for l := 0.0; l <= 255; l += 15 {
		for a := 0.0; a <= 255; a += 17 {
			for b := 0.0; b <= 255; b += 51 {
				in := DeviceLab{L: l, A: a, B: b}
				out := ToDevice(ToStandard(in))
				assert.InDelta(t, in.L, out.L, 1e-9)
				assert.InDelta(t, in.A, out.A, 1e-9)
				assert.InDelta(t, in.B, out.B, 1e-9)
			}
		}
	}
}

func TestToStandardScaling(t *testing.T) {
	got := ToStandard(DeviceLab{L: 255, A: 128, B: 0})
	assert.InDelta(t, 100.0, got.L, 1e-9)
	assert.InDelta(t, 0.0, got.A, 1e-9)
	assert.InDelta(t, -128.0, got.B, 1e-9)
}

func TestHueChroma(t *testing.T) {
	tests := []struct {
		name       string
		a, b       float64
		hue, chrom float64
	}{
		{"coral query", 55, 28, 26.98, 61.72},
		{"positive a axis", 10, 0, 0, 10},
		{"positive b axis", 0, 10, 90, 10},
		{"negative a axis", -10, 0, 180, 10},
		{"negative b axis", 0, -10, 270, 10},
		{"origin", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, c := HueChroma(tt.a, tt.b)
			assert.InDelta(t, tt.hue, h, 0.01)
			assert.InDelta(t, tt.chrom, c, 0.01)
			assert.GreaterOrEqual(t, h, 0.0)
			assert.Less(t, h, 360.0)
		})
	}
}

func TestDeltaEContract(t *testing.T) {
	colors := []Lab{
		{50, 0, 0},
		{40, 55, 28},
		{72, -12, 40},
		{25, 30, -45},
		{90, 3, 2},
	}
	for name, fn := range map[string]DistanceFunc{"cie76": DeltaE76, "ciede2000": DeltaE2000} {
		t.Run(name, func(t *testing.T) {
			for i, x := range colors {
				assert.InDelta(t, 0.0, fn(x, x), 1e-6, "identity of %v", x)
				for j, y := range colors {
					if i == j {
						continue
					}
					d := fn(x, y)
					assert.Greater(t, d, 0.0)
					assert.InDelta(t, d, fn(y, x), 1e-9, "symmetry %v %v", x, y)
				}
			}
		})
	}
}

func TestDeltaE76Euclidean(t *testing.T) {
	assert.InDelta(t, 5.0, DeltaE76(Lab{50, 0, 0}, Lab{50, 3, 4}), 1e-12)
}

func TestDeltaE2000KnownPair(t *testing.T) {
	// First pair of the Sharma, Wu and Dalal CIEDE2000 test data.
	d := DeltaE2000(Lab{50, 2.6772, -79.7751}, Lab{50, 0, -82.7485})
	assert.InDelta(t, 2.0425, d, 1e-3)
}

func TestFromRGB(t *testing.T) {
	white := FromRGB(255, 255, 255)
	assert.InDelta(t, 100.0, white.L, 0.01)
	assert.InDelta(t, 0.0, white.A, 0.01)
	assert.InDelta(t, 0.0, white.B, 0.01)

	red := FromRGB(255, 0, 0)
	assert.InDelta(t, 53.24, red.L, 0.05)
	assert.InDelta(t, 80.09, red.A, 0.1)
	assert.InDelta(t, 67.20, red.B, 0.1)
	assert.Equal(t, "#ff0000", red.Hex())
}

func TestValidate(t *testing.T) {
	require.NoError(t, DeviceLab{L: 0, A: 128, B: 255}.Validate())
	require.Error(t, DeviceLab{L: -1}.Validate())
	require.Error(t, DeviceLab{L: math.NaN()}.Validate())
	require.NoError(t, Lab{L: 40, A: 55, B: 28}.Validate())
	require.Error(t, Lab{L: 120}.Validate())
	require.Error(t, Lab{L: 50, A: math.Inf(1)}.Validate())
}

func TestDistanceMethodText(t *testing.T) {
	var m DistanceMethod
	require.NoError(t, m.UnmarshalText([]byte("ciede2000")))
	assert.Equal(t, CIEDE2000, m)
	b, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ciede2000", string(b))
	require.Error(t, m.UnmarshalText([]byte("euclid")))
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		h, s, v float64
	}{
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"gray", 128, 128, 128, 0, 0, 128},
		{"black", 0, 0, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			assert.InDelta(t, tt.h, h, 1e-9)
			assert.InDelta(t, tt.s, s, 1e-9)
			assert.InDelta(t, tt.v, v, 1e-9)
		})
	}
}

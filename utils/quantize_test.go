// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestQuantize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		bits  int
		want  int
	}{
		{"zero", 0.0, 16, 0},
		{"max positive 16", 1.0, 16, math.MaxInt16},
		{"max negative 16", -1.0, 16, -math.MaxInt16},
		{"half positive 16", 0.5, 16, 16384},
		{"half negative 16", -0.5, 16, -16384},
		{"small positive 16", 0.001, 16, 33},
		{"clamp over max", 1.5, 16, math.MaxInt16},
		{"clamp under min", -2.0, 16, -math.MaxInt16},
		{"max positive 8", 1.0, 8, 127},
		{"max negative 8", -1.0, 8, -127},
		{"max positive 24", 1.0, 24, 1<<23 - 1},
		{"max positive 32", 1.0, 32, math.MaxInt32},
		{"max negative 32", -1.0, 32, -math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Quantize(tt.input, tt.bits); got != tt.want {
				t.Errorf("Quantize(%v, %d) = %d, want %d", tt.input, tt.bits, got, tt.want)
			}
		})
	}
}

func TestScale(t *testing.T) {
	t.Parallel()

	for bits, want := range map[int]float64{
		8:  127,
		16: 32767,
		24: 8388607,
		32: 2147483647,
	} {
		if got := Scale(bits); got != want {
			t.Errorf("Scale(%d) = %v, want %v", bits, got, want)
		}
	}
}

func TestDequantizeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, bits := range []int{8, 16, 24, 32} {
		for _, x := range []float32{-0.75, -0.1, 0, 0.1, 0.5, 0.9} {
			got := Dequantize(Quantize(x, bits), bits)
			tolerance := 2.0 / Scale(bits)
			if diff := math.Abs(float64(got - x)); diff > tolerance {
				t.Errorf("bits=%d x=%v round trip = %v (diff %v)", bits, x, got, diff)
			}
		}
	}
}

func TestDequantizeRange(t *testing.T) {
	t.Parallel()

	if got := Dequantize(math.MinInt16, 16); got != -1 {
		t.Errorf("Dequantize(MinInt16) = %v, want -1", got)
	}
	if got := Dequantize(math.MaxInt16, 16); got >= 1 {
		t.Errorf("Dequantize(MaxInt16) = %v, want < 1", got)
	}
}

func BenchmarkQuantize(b *testing.B) {
	var result int
	b.ReportAllocs()

	for b.Loop() {
		result = Quantize(0.3, 24)
	}

	_ = result
}

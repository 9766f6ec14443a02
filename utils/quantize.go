// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Scale returns the largest positive integer a signed sample of the given
// bit depth can hold.
func Scale(bits int) float64 {
	return float64(int64(1)<<(bits-1) - 1)
}

// Quantize clamps x to [-1, 1] and scales it to a signed integer of the
// given bit depth, rounding to nearest. The range is symmetric, so -1 maps
// to -Scale(bits) rather than the type minimum.
func Quantize(x float32, bits int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int(math.Round(float64(x) * Scale(bits)))
}

// Dequantize maps a signed integer sample of the given bit depth to
// [-1, 1).
func Dequantize(v int, bits int) float32 {
	return float32(float64(v) / float64(int64(1)<<(bits-1)))
}

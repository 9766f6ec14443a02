// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates the Catmull-Rom spline through four
// consecutive samples at x, the fractional position between y1 (x=0) and
// y2 (x=1).
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2

	// Horner form
	return ((a0*x+a1)*x+a2)*x + y1
}

// InterpolateFrame applies CubicInterpolate to every channel of four
// consecutive frames and stores the result in dst. All slices must have
// len(dst) elements.
func InterpolateFrame(dst, f0, f1, f2, f3 []float32, x float32) {
	for c := range dst {
		dst[c] = CubicInterpolate(f0[c], f1[c], f2[c], f3[c], x)
	}
}

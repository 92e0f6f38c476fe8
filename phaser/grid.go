package phaser

// gridSize returns the element count of a shape, or 0 for a degenerate one.
func gridSize(shape []int) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range shape {
		if d < 1 {
			return 0
		}
		n *= d
	}
	return n
}

// ToNative converts a centered (zero-frequency-centered) array into FFT-native
// (zero-frequency-first) layout by rolling every axis left by d/2.
func ToNative[T any](x []T, shape []int) []T {
	shifts := make([]int, len(shape))
	for i, d := range shape {
		shifts[i] = -(d / 2)
	}
	return roll(x, shape, shifts)
}

// ToCentered is the inverse of ToNative: every axis rolls right by d/2. For
// even-length axes the two are the same permutation, so the pair is an exact
// involution.
func ToCentered[T any](x []T, shape []int) []T {
	shifts := make([]int, len(shape))
	for i, d := range shape {
		shifts[i] = d / 2
	}
	return roll(x, shape, shifts)
}

// roll cyclically shifts a flat row-major array by the given per-axis offsets.
func roll[T any](x []T, shape, shifts []int) []T {
	out := make([]T, len(x))
	idx := make([]int, len(shape))
	for i := range x {
		t := 0
		for ax, d := range shape {
			t = t*d + ((idx[ax]+shifts[ax])%d+d)%d
		}
		out[t] = x[i]
		for ax := len(shape) - 1; ax >= 0; ax-- {
			idx[ax]++
			if idx[ax] < shape[ax] {
				break
			}
			idx[ax] = 0
		}
	}
	return out
}

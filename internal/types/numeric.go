package types

import "golang.org/x/exp/constraints"

// ZeroValue returns the zero value of a numeric Go type. Constrained the
// same way bstd.go constrains its generic marshal helpers in the teacher
// repo. Nothing in the compiler calls it; codegen emits no synthesized
// default-value literals.
func ZeroValue[T constraints.Integer | constraints.Float]() T {
	var zero T
	return zero
}

// Numeric is the constraint satisfied by the source language's two numeric
// kinds once resolved to their Go-side literal storage types (int64, float64).
type Numeric interface {
	constraints.Integer | constraints.Float
}

// Clamp restricts v to [lo, hi]. The container-literal emitters in
// internal/codegen do not call it; they pass the literal's element count
// to the runtime allocator as the capacity hint unclamped.
func Clamp[T Numeric](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package moremath implements the floating-point min/max NaN-propagation
// semantics Wasm requires that math.Min/math.Max don't provide: a NaN
// operand always yields NaN, regardless of the other operand's sign or
// infinity.
package moremath

import "math"

// WasmCompatMin is math.Min adjusted so either operand being NaN
// produces NaN even when the other is -Inf.
func WasmCompatMin(x, y float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return math.NaN()
	case math.IsInf(x, -1) || math.IsInf(y, -1):
		return math.Inf(-1)
	case x == 0 && x == y:
		if math.Signbit(x) {
			return x
		}
		return y
	}
	if x < y {
		return x
	}
	return y
}

// WasmCompatMax is math.Max adjusted so either operand being NaN
// produces NaN even when the other is +Inf.
func WasmCompatMax(x, y float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return math.NaN()
	case math.IsInf(x, 1) || math.IsInf(y, 1):
		return math.Inf(1)

	case x == 0 && x == y:
		if math.Signbit(x) {
			return y
		}
		return x
	}
	if x > y {
		return x
	}
	return y
}

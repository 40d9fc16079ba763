// Package modfref provides a bit-level reference implementation of the
// IEEE 754 double-precision split operation with C99 modf semantics.
//
// Split decomposes x into a fractional part and an integer part, both
// carrying the sign of x, such that frac + intPart reconstructs x exactly
// for every finite input. The integer part is x truncated toward zero
// (not floored), computed by clearing the mantissa bits below the binary
// point; no rounding-mode-dependent operation is involved.
//
// Special cases follow C99 §7.12.6.12 / IEC 60559:
//
//	Split(±0)   = (±0, ±0)
//	Split(±Inf) = (±0, ±Inf)
//	Split(NaN)  = (NaN, NaN)
//
// Note the divergence from the standard library: math.Modf yields NaN for
// the fractional part at ±Inf. The conformance package carries a
// differential test documenting this; it is why math.Modf does not pass the
// built-in vector table while Split does.
package modfref

import "math"

const (
	mantissaBits = 52
	exponentMask = 0x7ff
	exponentBias = 1023
)

// Split returns the fractional and integer parts of x.
func Split(x float64) (frac, intPart float64) {
	switch {
	case math.IsNaN(x):
		return x, x
	case math.IsInf(x, 0):
		return math.Copysign(0, x), x
	case x < 0:
		f, i := Split(-x)
		return -f, -i
	case x < 1:
		// Copysign keeps the integer part at -0 for x == -0.
		return x, math.Copysign(0, x)
	}

	bits := math.Float64bits(x)
	exp := uint(bits>>mantissaBits)&exponentMask - exponentBias

	// For exp >= 52 every mantissa bit already sits above the binary
	// point, so x is its own integer part.
	if exp < mantissaBits {
		bits &^= 1<<(mantissaBits-exp) - 1
	}
	intPart = math.Float64frombits(bits)

	// intPart shares x's exponent and is a truncation of x's mantissa, so
	// this subtraction is exact.
	return x - intPart, intPart
}

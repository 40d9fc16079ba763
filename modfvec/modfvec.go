// Package modfvec defines the conformance vector table for the split
// operation: representative inputs paired with reference outputs and
// per-output tolerances.
//
// Tolerances are magnitude-scaled, not a single global constant. binary64
// carries 15-17 significant decimal digits, so every digit an expected
// result has left of the decimal point costs one decimal digit of
// fractional precision; a fixed relative epsilon would under-constrain
// sub-unity results and over-constrain multi-digit ones. The mapping is the
// explicit Tolerance function rather than hand-computed literals per row.
package modfvec

import (
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/lattice-substrate/modf-conform/conferr"
)

// Epsilon is 2^-50 (approx. 8.88e-16). binary64 has a machine epsilon of
// 2^-52, but that is slightly too strict for vectors meant to run against
// libm implementations on various platforms; 2^-50 is as tight as a
// portable table gets.
const Epsilon = 8.8817841970012523e-16

// Vector pairs one input with its expected split outputs and the maximum
// acceptable absolute difference for each output. Vectors are plain data;
// the table has no behavior beyond being iterated.
type Vector struct {
	Input    float64 `toml:"input"`
	WantFrac float64 `toml:"frac"`
	FracTol  float64 `toml:"frac_tol"`
	WantInt  float64 `toml:"int"`
	IntTol   float64 `toml:"int_tol"`
}

// Tolerance returns Epsilon scaled for an expected result with intDigits
// digits left of the decimal point: a result of the form 0.xxx… compares at
// Tolerance(0), x.xxx… at Tolerance(1), xx.xxx… at Tolerance(2).
func Tolerance(intDigits int) float64 {
	tol := Epsilon
	for i := 0; i < intDigits; i++ {
		tol *= 10
	}
	return tol
}

// Negated returns the vector for -Input: both expected outputs flip sign.
// Tolerances are magnitude-based and magnitude is unaffected by sign, so
// they stay unchanged.
func (v Vector) Negated() Vector {
	v.Input = -v.Input
	v.WantFrac = -v.WantFrac
	v.WantInt = -v.WantInt
	return v
}

// Check reports whether the vector is internally consistent: tolerances
// must be non-negative and, for finite inputs, the expected parts must
// reconstruct the input within the combined tolerance.
func (v Vector) Check() error {
	if math.IsNaN(v.FracTol) || v.FracTol < 0 {
		return fmt.Errorf("fraction tolerance %v is negative or NaN", v.FracTol)
	}
	if math.IsNaN(v.IntTol) || v.IntTol < 0 {
		return fmt.Errorf("integer-part tolerance %v is negative or NaN", v.IntTol)
	}
	if isFinite(v.Input) {
		if !isFinite(v.WantFrac) || !isFinite(v.WantInt) {
			return fmt.Errorf("finite input %v has non-finite expected parts (%v, %v)", v.Input, v.WantFrac, v.WantInt)
		}
		if math.Abs(v.WantFrac+v.WantInt-v.Input) > v.FracTol+v.IntTol {
			return fmt.Errorf("expected parts %v + %v do not reconstruct input %v", v.WantFrac, v.WantInt, v.Input)
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Table returns the built-in conformance vectors in canonical order. The
// caller receives a fresh copy each call; the table itself is never shared.
//
// Inputs cover signed zero, sub-unity irrational constants (fraction
// dominates), exactly one (fraction is zero), transcendental constants
// above one, and positive infinity. The infinity vector's integer-part
// tolerance is zero: no tolerance band is meaningful for infinity, the
// result must match the reference exactly.
func Table() []Vector {
	return []Vector{
		{0, 0, Tolerance(0), 0, Tolerance(0)},
		{0.31830988618379067, 0.31830988618379067, Tolerance(0), 0, Tolerance(0)}, // 1 / pi
		{0.43429448190325183, 0.43429448190325183, Tolerance(0), 0, Tolerance(0)}, // log10(e)
		{0.63661977236758134, 0.63661977236758134, Tolerance(0), 0, Tolerance(0)}, // 2 / pi
		{0.69314718055994531, 0.69314718055994531, Tolerance(0), 0, Tolerance(0)}, // ln(2)
		{0.70710678118654752, 0.70710678118654752, Tolerance(0), 0, Tolerance(0)}, // 1 / sqrt(2)
		{0.78539816339744831, 0.78539816339744831, Tolerance(0), 0, Tolerance(0)}, // pi / 4
		{1, 0, Tolerance(0), 1, Tolerance(1)},
		{1.1283791670955126, 0.1283791670955126, Tolerance(0), 1, Tolerance(1)}, // 2 / sqrt(pi)
		{1.4142135623730950, 0.4142135623730950, Tolerance(0), 1, Tolerance(1)}, // sqrt(2)
		{1.4426950408889634, 0.4426950408889634, Tolerance(0), 1, Tolerance(1)}, // log2(e)
		{1.5707963267948966, 0.5707963267948966, Tolerance(0), 1, Tolerance(1)}, // pi / 2
		{2.3025850929940457, 0.3025850929940457, Tolerance(0), 2, Tolerance(1)}, // ln(10)
		{2.7182818284590452, 0.7182818284590452, Tolerance(0), 2, Tolerance(1)}, // e
		{3.1415926535897932, 0.1415926535897932, Tolerance(0), 3, Tolerance(1)}, // pi
		{math.Inf(1), 0, Tolerance(0), math.Inf(1), 0},
	}
}

// file is the on-disk TOML form of a vector table.
type file struct {
	Vector []Vector `toml:"vector"`
}

// Load reads a TOML vector table from path. TOML represents IEEE 754 inf
// and nan natively, so special vectors round-trip through Dump and Load.
func Load(path string) ([]Vector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, conferr.Wrap(conferr.VectorLoad, fmt.Sprintf("read vector table %q", path), err)
	}
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, conferr.Wrap(conferr.VectorLoad, fmt.Sprintf("decode vector table %q", path), err)
	}
	if len(f.Vector) == 0 {
		return nil, conferr.New(conferr.VectorLoad, fmt.Sprintf("vector table %q is empty", path))
	}
	for i, v := range f.Vector {
		if err := v.Check(); err != nil {
			return nil, conferr.Wrap(conferr.VectorLoad, fmt.Sprintf("vector table %q entry %d", path, i), err)
		}
	}
	return f.Vector, nil
}

// Dump serializes vectors as a TOML document suitable for Load.
func Dump(vectors []Vector) ([]byte, error) {
	data, err := toml.Marshal(file{Vector: vectors})
	if err != nil {
		return nil, conferr.Wrap(conferr.InternalError, "encode vector table", err)
	}
	return data, nil
}

// Package modfcheck validates split-operation outputs against reference
// vectors with per-output absolute tolerances.
//
// The two outputs are checked independently rather than only through their
// sum: an implementation can reconstruct the input perfectly while swapping
// the outputs or rounding wrongly in just one of them, and only the
// dual-output check catches that.
package modfcheck

import (
	"math"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lattice-substrate/modf-conform/conferr"
	"github.com/lattice-substrate/modf-conform/modfvec"
)

// SplitFunc is the implementation under test: the split operation taking
// one value and returning its fractional and integer parts.
type SplitFunc func(x float64) (frac, intPart float64)

// StdlibSplit adapts math.Modf to the SplitFunc signature. math.Modf
// returns the integer part first and, unlike C modf, yields NaN for the
// fractional part at ±Inf — so this implementation does not pass the
// built-in table's infinity vector.
func StdlibSplit(x float64) (frac, intPart float64) {
	i, f := math.Modf(x)
	return f, i
}

// Outcome records one validation: what the implementation produced and how
// far it was from the reference. It is local to a single call and never
// retained across vectors.
type Outcome struct {
	Input     float64
	GotFrac   float64
	GotInt    float64
	WantFrac  float64
	WantInt   float64
	DeltaFrac float64
	DeltaInt  float64
	OK        bool
}

// Validate runs split on v.Input and checks both outputs independently
// against their tolerances. On failure the returned error is a
// conferr.Mismatch carrying the input, both actual values, and both
// expected values.
func Validate(split SplitFunc, v modfvec.Vector) (Outcome, error) {
	gotFrac, gotInt := split(v.Input)
	out := Outcome{
		Input:     v.Input,
		GotFrac:   gotFrac,
		GotInt:    gotInt,
		WantFrac:  v.WantFrac,
		WantInt:   v.WantInt,
		DeltaFrac: math.Abs(gotFrac - v.WantFrac),
		DeltaInt:  math.Abs(gotInt - v.WantInt),
	}
	out.OK = within(gotFrac, v.WantFrac, v.FracTol) && within(gotInt, v.WantInt, v.IntTol)
	if !out.OK {
		return out, conferr.New(conferr.Mismatch, out.diagnostic())
	}
	return out, nil
}

// within reports whether got matches want under an absolute tolerance. The
// equality arm handles infinite expectations, whose delta is NaN: an
// infinite reference is satisfied only by the identical infinity.
func within(got, want, tol float64) bool {
	if got == want {
		return true
	}
	return math.Abs(got-want) <= tol
}

// ValidateNaN runs split on NaN and requires NaN on both outputs. Asserting
// either output is a real number is a failure.
func ValidateNaN(split SplitFunc) (Outcome, error) {
	nan := math.NaN()
	gotFrac, gotInt := split(nan)
	out := Outcome{
		Input:     nan,
		GotFrac:   gotFrac,
		GotInt:    gotInt,
		WantFrac:  nan,
		WantInt:   nan,
		DeltaFrac: nan,
		DeltaInt:  nan,
		OK:        math.IsNaN(gotFrac) && math.IsNaN(gotInt),
	}
	if !out.OK {
		return out, conferr.New(conferr.SpecialMismatch, out.diagnostic())
	}
	return out, nil
}

// diagnostic formats the failure line. Actual and expected values carry 17
// significant decimal digits, enough to distinguish any two float64 values.
func (o Outcome) diagnostic() string {
	return "modf(" + fmtFloat(o.Input, -1) + ") returned " + fmtFloat(o.GotFrac, 17) +
		" with an intpart of " + fmtFloat(o.GotInt, 17) +
		" when it should have returned " + fmtFloat(o.WantFrac, 17) +
		" with an intpart of " + fmtFloat(o.WantInt, 17)
}

func fmtFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'g', prec, 64)
}

// Runner drives one full conformance pass over a vector table.
type Runner struct {
	// Split is the implementation under test.
	Split SplitFunc

	// Log receives per-vector progress at debug level; nil disables logging.
	Log *zap.Logger

	// KeepGoing validates every vector and aggregates all failures instead
	// of stopping at the first one.
	KeepGoing bool
}

// Run validates every vector and its negation in table order, then the NaN
// law once. In the default mode the first failure aborts the pass; a nil
// return is the only pass condition.
func (r *Runner) Run(vectors []modfvec.Vector) error {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	var errs error
	for _, v := range vectors {
		// A NaN-input vector carries the special-value expectation: both
		// outputs NaN. Negation is meaningless for NaN, so it runs once.
		if math.IsNaN(v.Input) {
			if _, err := ValidateNaN(r.Split); err != nil {
				if !r.KeepGoing {
					return err
				}
				errs = multierr.Append(errs, err)
				continue
			}
			log.Debug("nan vector ok")
			continue
		}
		for _, vv := range []modfvec.Vector{v, v.Negated()} {
			out, err := Validate(r.Split, vv)
			if err != nil {
				if !r.KeepGoing {
					return err
				}
				errs = multierr.Append(errs, err)
				continue
			}
			log.Debug("vector ok",
				zap.Float64("input", out.Input),
				zap.Float64("frac", out.GotFrac),
				zap.Float64("intpart", out.GotInt),
				zap.Float64("delta_frac", out.DeltaFrac),
				zap.Float64("delta_intpart", out.DeltaInt))
		}
	}

	if _, err := ValidateNaN(r.Split); err != nil {
		if !r.KeepGoing {
			return err
		}
		errs = multierr.Append(errs, err)
	} else {
		log.Debug("nan law ok")
	}
	return errs
}

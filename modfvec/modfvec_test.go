package modfvec_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/modf-conform/conferr"
	"github.com/lattice-substrate/modf-conform/modfvec"
)

func TestTableShape(t *testing.T) {
	table := modfvec.Table()
	require.Len(t, table, 16)
	assert.Equal(t, 0.0, table[0].Input)
	assert.True(t, math.IsInf(table[len(table)-1].Input, 1))

	// Table returns a fresh, identical copy each call.
	assert.Empty(t, cmp.Diff(table, modfvec.Table()))
}

func TestTableInvariants(t *testing.T) {
	for i, v := range modfvec.Table() {
		assert.GreaterOrEqual(t, v.FracTol, 0.0, "vector %d", i)
		assert.GreaterOrEqual(t, v.IntTol, 0.0, "vector %d", i)
		require.NoError(t, v.Check(), "vector %d", i)

		if math.IsInf(v.Input, 0) {
			assert.Equal(t, 0.0, v.WantFrac, "vector %d", i)
			assert.Equal(t, v.Input, v.WantInt, "vector %d", i)
			continue
		}

		// Truncation toward zero, and the fraction carries the input's sign
		// (or is zero).
		assert.Equal(t, math.Trunc(v.Input), v.WantInt, "vector %d", i)
		if v.WantFrac != 0 {
			assert.Equal(t, math.Signbit(v.Input), math.Signbit(v.WantFrac), "vector %d", i)
		}

		// Reconstruction within combined tolerance.
		assert.LessOrEqual(t, math.Abs(v.WantFrac+v.WantInt-v.Input), v.FracTol+v.IntTol, "vector %d", i)
	}
}

func TestTableToleranceClasses(t *testing.T) {
	for i, v := range modfvec.Table() {
		assert.Equal(t, modfvec.Tolerance(0), v.FracTol, "vector %d: fractions are always sub-unity", i)

		switch {
		case math.IsInf(v.WantInt, 0):
			assert.Equal(t, 0.0, v.IntTol, "vector %d: infinity must match exactly", i)
		case v.WantInt == 0:
			assert.Equal(t, modfvec.Tolerance(0), v.IntTol, "vector %d", i)
		default:
			assert.Equal(t, modfvec.Tolerance(1), v.IntTol, "vector %d", i)
		}
	}
}

func TestToleranceScaling(t *testing.T) {
	assert.Equal(t, modfvec.Epsilon, modfvec.Tolerance(0))
	assert.Equal(t, modfvec.Epsilon*10, modfvec.Tolerance(1))
	assert.Equal(t, modfvec.Epsilon*10*10, modfvec.Tolerance(2))
	assert.Equal(t, modfvec.Epsilon*10*10*10, modfvec.Tolerance(3))
}

func TestNegated(t *testing.T) {
	v := modfvec.Vector{Input: 1.5, WantFrac: 0.5, FracTol: modfvec.Epsilon, WantInt: 1, IntTol: modfvec.Epsilon * 10}
	n := v.Negated()
	assert.Equal(t, -1.5, n.Input)
	assert.Equal(t, -0.5, n.WantFrac)
	assert.Equal(t, -1.0, n.WantInt)
	assert.Equal(t, v.FracTol, n.FracTol)
	assert.Equal(t, v.IntTol, n.IntTol)

	// Negating the zero vector produces the signed-zero case.
	z := modfvec.Vector{FracTol: modfvec.Epsilon, IntTol: modfvec.Epsilon}.Negated()
	assert.True(t, math.Signbit(z.Input))
	assert.True(t, math.Signbit(z.WantFrac))
	assert.True(t, math.Signbit(z.WantInt))
}

func TestDumpLoadRoundTrip(t *testing.T) {
	table := modfvec.Table()
	data, err := modfvec.Dump(table)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vectors.toml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := modfvec.Load(path)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(table, loaded))
}

func TestLoadNaNVector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.toml")
	doc := "[[vector]]\ninput = nan\nfrac = nan\nfrac_tol = 0.0\nint = nan\nint_tol = 0.0\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	loaded, err := modfvec.Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, math.IsNaN(loaded[0].Input))
}

func TestLoadRejectsNegativeTolerance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.toml")
	doc := "[[vector]]\ninput = 1.5\nfrac = 0.5\nfrac_tol = -1.0\nint = 1.0\nint_tol = 0.0\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err := modfvec.Load(path)
	require.Error(t, err)
	var cerr *conferr.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, conferr.VectorLoad, cerr.Class)
	assert.Contains(t, err.Error(), "negative or NaN")
}

func TestLoadRejectsBrokenReconstruction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.toml")
	doc := "[[vector]]\ninput = 1.5\nfrac = 0.25\nfrac_tol = 1e-15\nint = 1.0\nint_tol = 1e-15\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err := modfvec.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not reconstruct")
}

func TestLoadRejectsEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := modfvec.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := modfvec.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	var cerr *conferr.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, conferr.VectorLoad, cerr.Class)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[vector]\n"), 0o600))

	_, err := modfvec.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode vector table")
}

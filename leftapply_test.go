package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestLeftApplyMatchesTransposeIdentity verifies u·L = (Lᴴ·v)ᵀ for u = vᵀ,
// spec.md §4.7.
func TestLeftApplyMatchesTransposeIdentity(t *testing.T) {
	a := randDense(20, 5, 5)
	v := randDense(21, 5, 1)
	l := NewMatrixOperator(a)

	w, err := LeftApply(v, l)
	require.NoError(t, err)

	var want mat.Dense
	want.Mul(a.T(), v)
	assert.True(t, mat.EqualApprox(w, &want, 1e-9))
}

func TestLeftSolveMatchesTransposeSolve(t *testing.T) {
	a := randDense(22, 5, 5)
	v := randDense(23, 5, 1)
	l := NewMatrixOperator(a)

	w, err := LeftSolve(v, l)
	require.NoError(t, err)

	var want mat.Dense
	require.NoError(t, want.Solve(a.T(), v))
	assert.True(t, mat.EqualApprox(w, &want, 1e-9))
}

func TestLeftSolveInPlace(t *testing.T) {
	a := randDense(24, 5, 5)
	v := randDense(25, 5, 1)
	l := NewMatrixOperator(a)

	var want mat.Dense
	require.NoError(t, want.Solve(a.T(), v))

	var v0 mat.Dense
	v0.CloneFrom(v)
	require.NoError(t, LeftSolveInPlace(&v0, l))
	assert.True(t, mat.EqualApprox(&v0, &want, 1e-9))
}

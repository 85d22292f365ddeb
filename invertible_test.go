package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestInvertibleOperatorScenario implements spec.md §8 scenario 2.
func TestInvertibleOperatorScenario(t *testing.T) {
	const n = 8
	a := randDense(0, n, n)
	u := randDense(1, n, 1)

	f, err := Factorize(NewMatrixOperator(a))
	require.NoError(t, err)
	assert.True(t, f.IsSuccess())

	got, err := ConvertToMatrix(f)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(got, a, 1e-9))

	fSolve, err := f.Solve(u)
	require.NoError(t, err)
	var want mat.Dense
	require.NoError(t, want.Solve(a, u))
	assert.True(t, mat.EqualApprox(fSolve, &want, 1e-9))

	adj := f.Adjoint()
	adjSolver, ok := adj.(Solver)
	require.True(t, ok)
	gotAdj, err := adjSolver.Solve(u)
	require.NoError(t, err)
	var wantAdj mat.Dense
	require.NoError(t, wantAdj.Solve(a.T(), u))
	assert.True(t, mat.EqualApprox(gotAdj, &wantAdj, 1e-9))
}

func TestInvertibleOperatorVariants(t *testing.T) {
	const n = 6
	a := randPosDef(3, n)

	chol, err := Cholesky(NewMatrixOperator(a))
	require.NoError(t, err)
	assert.True(t, chol.IsSuccess())
	got, err := ConvertToMatrix(chol)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(got, a, 1e-8))

	svd, err := SVD(NewMatrixOperator(a))
	require.NoError(t, err)
	assert.True(t, svd.IsSuccess())
	gotSVD, err := ConvertToMatrix(svd)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(gotSVD, a, 1e-8))
}

func TestLDLTUnsupportedByBackend(t *testing.T) {
	_, err := LDLT(NewMatrixOperator(randPosDef(4, 4)))
	assert.ErrorIs(t, err, ErrNotSupportedByBackend)
	_, err = BunchKaufman(NewMatrixOperator(randSymDense(4, 4)))
	assert.ErrorIs(t, err, ErrNotSupportedByBackend)
}

package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestMatrixOperatorScenario implements spec.md §8 scenario 1.
func TestMatrixOperatorScenario(t *testing.T) {
	const n = 8
	a := randDense(0, n, n)
	u := randDense(1, n, 1)
	l := NewMatrixOperator(a)

	got, err := l.Apply(u)
	require.NoError(t, err)
	var want mat.Dense
	want.Mul(a, u)
	assert.True(t, mat.EqualApprox(got, &want, 1e-12))

	gotSolve, err := l.Solve(u)
	require.NoError(t, err)
	var wantSolve mat.Dense
	require.NoError(t, wantSolve.Solve(a, u))
	assert.True(t, mat.EqualApprox(gotSolve, &wantSolve, 1e-9))

	adj := l.Adjoint()
	adjMat, ok := adj.(*MatrixOperator)
	require.True(t, ok, "Adjoint of a MatrixOperator must itself be a MatrixOperator")
	var at mat.Dense
	at.CloneFrom(adjMat.A)
	assert.True(t, mat.EqualApprox(&at, a.T(), 1e-12))

	var v, w mat.Dense
	v.CloneFrom(u)
	w.CloneFrom(&v)
	const alpha, beta = 2.0, 0.5
	require.NoError(t, l.MulToScaled(&v, u, alpha, beta))
	var expect mat.Dense
	expect.Mul(a, u)
	expect.Scale(alpha, &expect)
	var scaledW mat.Dense
	scaledW.Scale(beta, &w)
	expect.Add(&expect, &scaledW)
	assert.True(t, mat.EqualApprox(&v, &expect, 1e-12))
}

func TestMatrixOperatorConstantByDefault(t *testing.T) {
	a := randDense(2, 4, 4)
	l := NewMatrixOperator(a)
	assert.True(t, IsConstant(l))

	hooked := NewMatrixOperatorFunc(mat.NewDense(4, 4, nil), func(a mat.Mutable, u mat.Matrix, p any, tVal float64) {
		r, c := a.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				a.Set(i, j, tVal)
			}
		}
	})
	assert.False(t, IsConstant(hooked))
}

// TestMatrixOperatorUpdateHookEffect implements spec.md §8's "Update hook
// effect" universal property.
func TestMatrixOperatorUpdateHookEffect(t *testing.T) {
	const n = 5
	backing := mat.NewDense(n, n, nil)
	l := NewMatrixOperatorFunc(backing, func(a mat.Mutable, u mat.Matrix, p any, tVal float64) {
		r, c := a.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				a.Set(i, j, tVal)
			}
		}
	})
	require.NoError(t, l.UpdateCoefficients(nil, nil, 3.0))
	got, err := ConvertToMatrix(l)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.Equal(t, 3.0, got.At(i, j))
		}
	}
}

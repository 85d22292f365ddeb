package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestAffineOperatorScenario implements spec.md §8 scenario 3.
func TestAffineOperatorScenario(t *testing.T) {
	const n = 8
	diagVals := randDense(0, n, 1)
	d := mat.NewDiagDense(n, nil)
	for i := 0; i < n; i++ {
		d.SetDiag(i, diagVals.At(i, 0))
	}
	b := randDense(1, n, 1)
	u := randDense(2, n, 1)

	l := NewAffine(NewMatrixOperator(d), b)

	got, err := l.Apply(u)
	require.NoError(t, err)
	var want mat.Dense
	want.Mul(d, u)
	want.Add(&want, b)
	assert.True(t, mat.EqualApprox(got, &want, 1e-12))

	gotSolve, err := l.Solve(u)
	require.NoError(t, err)
	var shifted mat.Dense
	shifted.Sub(u, b)
	var wantSolve mat.Dense
	require.NoError(t, wantSolve.Solve(d, &shifted))
	assert.True(t, mat.EqualApprox(gotSolve, &wantSolve, 1e-9))

	var u0 mat.Dense
	u0.CloneFrom(u)
	require.NoError(t, l.SolveInPlace(&u0))
	assert.True(t, mat.EqualApprox(&u0, &wantSolve, 1e-9))
}

func TestAffineOperatorIsLinearFalse(t *testing.T) {
	l := NewAffine(NewIdentity(3), mat.NewDense(3, 1, []float64{1, 2, 3}))
	assert.False(t, l.IsLinear())
}

func TestAffineOperatorShapeMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewAffine(NewIdentity(3), mat.NewDense(4, 1, nil))
	})
}

package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestFunctionOperatorOutOfPlaceScenario implements spec.md §8 scenario 4.
func TestFunctionOperatorOutOfPlaceScenario(t *testing.T) {
	const n = 8
	a := randSymDense(0, n)
	u := randDense(1, n, 1)

	norm := 1.0
	l := NewFunctionOperator(FunctionOperatorConfig{
		Traits: FunctionTraits{
			M: n, N: n,
			Symmetric:   true,
			Hermitian:   true,
			PosDef:      false,
			OpNormValue: &norm,
		},
		OOP: func(u mat.Matrix, p any, t float64) *mat.Dense {
			var v mat.Dense
			v.Mul(a, u)
			return &v
		},
		InvOOP: func(u mat.Matrix, p any, t float64) *mat.Dense {
			var v mat.Dense
			_ = v.Solve(a, u)
			return &v
		},
	})

	assert.Same(t, l, l.Adjoint())
	assert.True(t, HasMul(l))
	assert.False(t, HasMulInplace(l))
	assert.True(t, HasLdiv(l))
	assert.False(t, HasLdivInplace(l))

	got, err := l.Apply(u)
	require.NoError(t, err)
	var want mat.Dense
	want.Mul(a, u)
	assert.True(t, mat.EqualApprox(got, &want, 1e-10))

	gotSolve, err := l.Solve(u)
	require.NoError(t, err)
	var wantSolve mat.Dense
	require.NoError(t, wantSolve.Solve(a, u))
	assert.True(t, mat.EqualApprox(gotSolve, &wantSolve, 1e-9))
}

// TestFunctionOperatorInPlaceScenario implements spec.md §8 scenario 5.
func TestFunctionOperatorInPlaceScenario(t *testing.T) {
	const n = 8
	a := randSymDense(0, n)
	u := randDense(1, n, 1)

	f, err := LU(NewMatrixOperator(a))
	require.NoError(t, err)

	l := NewFunctionOperator(FunctionOperatorConfig{
		Traits: FunctionTraits{M: n, N: n, InPlace: true, Symmetric: true, Hermitian: true},
		IIP: func(v *mat.Dense, u mat.Matrix, p any, t float64) {
			v.Mul(a, u)
		},
		InvIIP: func(v *mat.Dense, u mat.Matrix, p any, t float64) {
			require.NoError(t, f.SolveTo(v, u))
		},
	})
	l.CacheOperator(u)

	var v mat.Dense
	v.CloneFrom(u)
	require.NoError(t, l.MulTo(&v, u))
	var want mat.Dense
	want.Mul(a, u)
	assert.True(t, mat.EqualApprox(&v, &want, 1e-10))

	var v2, w mat.Dense
	v2.CloneFrom(u)
	w.CloneFrom(&v2)
	const alpha, beta = 2.0, 0.5
	require.NoError(t, l.MulToScaled(&v2, u, alpha, beta))
	var expect mat.Dense
	expect.Mul(a, u)
	expect.Scale(alpha, &expect)
	var scaledW mat.Dense
	scaledW.Scale(beta, &w)
	expect.Add(&expect, &scaledW)
	assert.True(t, mat.EqualApprox(&v2, &expect, 1e-9))

	var v3 mat.Dense
	require.NoError(t, l.SolveTo(&v3, u))
	var wantSolve mat.Dense
	require.NoError(t, wantSolve.Solve(a, u))
	assert.True(t, mat.EqualApprox(&v3, &wantSolve, 1e-9))

	var u0 mat.Dense
	u0.CloneFrom(u)
	require.NoError(t, l.SolveInPlace(&u0))
	assert.True(t, mat.EqualApprox(&u0, &wantSolve, 1e-9))
}

func TestFunctionOperatorMissingOpNormFaults(t *testing.T) {
	l := NewFunctionOperator(FunctionOperatorConfig{Traits: FunctionTraits{M: 3, N: 3}})
	_, err := l.OpNorm(2)
	assert.ErrorIs(t, err, ErrMissingAttribute)
}

func TestFunctionOperatorAdjointWithoutCallableWraps(t *testing.T) {
	l := NewFunctionOperator(FunctionOperatorConfig{
		Traits: FunctionTraits{M: 3, N: 3},
		OOP: func(u mat.Matrix, p any, t float64) *mat.Dense {
			var v mat.Dense
			v.CloneFrom(u)
			return &v
		},
	})
	adj := l.Adjoint()
	_, ok := adj.(*AdjointOp)
	assert.True(t, ok)
}

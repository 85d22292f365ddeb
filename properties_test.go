package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func dot(a, b mat.Matrix) float64 {
	ar, _ := a.Dims()
	var sum float64
	for i := 0; i < ar; i++ {
		sum += a.At(i, 0) * b.At(i, 0)
	}
	return sum
}

// TestAdjointLaw implements spec.md §8's "Adjoint law":
// ⟨L·u, v⟩ ≈ ⟨u, Lᴴ·v⟩.
func TestAdjointLaw(t *testing.T) {
	const n = 6
	a := randDense(40, n, n)
	u := randDense(41, n, 1)
	v := randDense(42, n, 1)
	l := NewMatrixOperator(a)

	lu, err := l.Apply(u)
	require.NoError(t, err)
	adjV, err := l.Adjoint().(Applier).Apply(v)
	require.NoError(t, err)

	assert.InDelta(t, dot(lu, v), dot(u, adjV), 1e-9)
}

// TestSelfAdjointShortCircuit implements spec.md §8's "Self-adjointness
// short-circuit": adjoint(L) === L, identity not merely equal.
func TestSelfAdjointShortCircuit(t *testing.T) {
	a := randSymDense(43, 5)
	sym := mat.NewSymDense(5, nil)
	for i := 0; i < 5; i++ {
		for j := i; j < 5; j++ {
			sym.SetSym(i, j, a.At(i, j))
		}
	}
	l := NewMatrixOperator(sym)
	assert.Same(t, l, l.Adjoint())

	id := NewIdentity(4)
	assert.Same(t, Op(id), id.Adjoint())
}

// TestInverseRoundTrip implements spec.md §8's "Inverse round-trip":
// L⁻¹·(L·u) ≈ u and L·(L⁻¹·u) ≈ u.
func TestInverseRoundTrip(t *testing.T) {
	const n = 6
	a := randDense(44, n, n)
	u := randDense(45, n, 1)
	l := NewMatrixOperator(a)

	lu, err := l.Apply(u)
	require.NoError(t, err)
	back, err := l.Solve(lu)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(back, u, 1e-8))

	linv, err := l.Solve(u)
	require.NoError(t, err)
	forward, err := l.Apply(linv)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(forward, u, 1e-8))
}

// TestCacheShapeStability implements spec.md §8's "Cache shape stability":
// a second CacheOperator call with the same-shaped input reuses the
// existing workspace rather than reallocating.
func TestCacheShapeStability(t *testing.T) {
	a := randDense(46, 3, 5)
	b := randDense(47, 7, 11)
	u := randDense(48, 55, 1)

	l := NewTensorProductOperator(NewMatrixOperator(a), NewMatrixOperator(b)).(*TensorProductOperator)
	l.CacheOperator(u)
	c1Before := l.c1

	l.CacheOperator(u)
	assert.Same(t, c1Before, l.c1, "same-shaped CacheOperator call must not reallocate")

	u2 := randDense(49, 55, 2)
	l.CacheOperator(u2)
	assert.NotSame(t, c1Before, l.c1, "differently-shaped CacheOperator call must reallocate")
}

package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// kronDense returns the Kronecker product of a and b as a concrete
// *mat.Dense, used only as the test oracle.
func kronDense(a, b mat.Matrix) *mat.Dense {
	var k mat.Dense
	k.Kronecker(a, b)
	return &k
}

// TestTensorProductOperatorScenario implements spec.md §8 scenario 6.
func TestTensorProductOperatorScenario(t *testing.T) {
	a := randDense(0, 3, 5)
	b := randDense(1, 7, 11)
	u := randDense(2, 55, 1)

	l := NewTensorProductOperator(NewMatrixOperator(a), NewMatrixOperator(b))
	tpOp, ok := l.(*TensorProductOperator)
	require.True(t, ok)

	want := kronDense(a, b)

	got, err := ConvertToMatrix(tpOp)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(got, want, 1e-9))

	gotApply, err := tpOp.Apply(u)
	require.NoError(t, err)
	var wantApply mat.Dense
	wantApply.Mul(want, u)
	assert.True(t, mat.EqualApprox(gotApply, &wantApply, 1e-9))

	tpOp.CacheOperator(u)
	var v mat.Dense
	v.CloneFrom(gotApply)
	require.NoError(t, tpOp.MulTo(&v, u))
	assert.True(t, mat.EqualApprox(&v, &wantApply, 1e-9))
}

func TestTensorProductIdentityCollapse(t *testing.T) {
	l := NewTensorProductOperator(NewIdentity(3), NewIdentity(4))
	id, ok := l.(*IdentityOperator)
	require.True(t, ok)
	m, n := id.Dims()
	assert.Equal(t, 12, m)
	assert.Equal(t, 12, n)
}

func TestKronFold(t *testing.T) {
	a := randDense(3, 2, 2)
	b := randDense(4, 2, 2)
	c := randDense(5, 2, 2)
	l := Kron(NewMatrixOperator(a), NewMatrixOperator(b), NewMatrixOperator(c))
	m, n := l.Dims()
	assert.Equal(t, 8, m)
	assert.Equal(t, 8, n)
}

func TestPermuteAxes12SwapsFirstTwoAxes(t *testing.T) {
	const d1, d2, k = 3, 4, 2
	src := mat.NewDense(d1, d2*k, nil)
	for a := 0; a < d1; a++ {
		for col := 0; col < d2*k; col++ {
			src.Set(a, col, float64(a*100+col))
		}
	}
	dst := mat.NewDense(d2, d1*k, nil)
	permuteAxes12(dst, src, d1, d2, k)

	for a := 0; a < d1; a++ {
		for b := 0; b < d2; b++ {
			for c := 0; c < k; c++ {
				assert.Equal(t, src.At(a, b*k+c), dst.At(b, a*k+c))
			}
		}
	}
}

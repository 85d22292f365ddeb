package operators

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestConvertToMatrixMatrixOperator(t *testing.T) {
	a := randDense(30, 4, 4)
	got, err := ConvertToMatrix(NewMatrixOperator(a))
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(got, a, 1e-12))
}

func TestConvertToMatrixFunctionOperatorUnsupported(t *testing.T) {
	l := NewFunctionOperator(FunctionOperatorConfig{
		Traits: FunctionTraits{M: 3, N: 3},
		OOP: func(u mat.Matrix, p any, t float64) *mat.Dense {
			var v mat.Dense
			v.CloneFrom(u)
			return &v
		},
	})
	_, err := ConvertToMatrix(l)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestToSparseDropsZeros(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 0, 0, 2})
	sp, err := ToSparse(NewMatrixOperator(a))
	require.NoError(t, err)
	assert.Len(t, sp.Entries, 2)
	assert.Equal(t, 1.0, sp.At(0, 0))
	assert.Equal(t, 0.0, sp.At(0, 1))
	assert.Equal(t, 2.0, sp.At(1, 1))

	want := []SparseEntry{{Row: 0, Col: 0, Value: 1}, {Row: 1, Col: 1, Value: 2}}
	if diff := cmp.Diff(want, sp.Entries); diff != "" {
		t.Errorf("unexpected sparse entries (-want +got):\n%s", diff)
	}
}

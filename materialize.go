package operators

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ConvertToMatrix materializes op to a concrete *mat.Dense, spec.md §6. An
// operator whose materialization isn't simply column-by-column Apply
// (InvertibleOperator, AffineOperator, TensorProductOperator, AdjointOp)
// supplies its own ConvertToMatrix; every other Applier falls back to
// materializeByApply. FunctionOperator has no materialization path and
// returns ErrUnsupported, per spec.md §4.4/§6.
func ConvertToMatrix(op Op) (*mat.Dense, error) {
	switch v := op.(type) {
	case *FunctionOperator:
		return nil, newOpError("FunctionOperator", v, fmt.Errorf("%w: matrix-free operator has no materialization path", ErrUnsupported))
	case interface{ ConvertToMatrix() *mat.Dense }:
		return v.ConvertToMatrix(), nil
	default:
		return materializeByApply(op)
	}
}

// materializeByApply builds the matrix column by column using Apply against
// the standard basis — the fallback for any operator not implementing a
// direct ConvertToMatrix method, namely MatrixOperator, IdentityOperator,
// ScaledIdentityOperator, and NullOperator.
func materializeByApply(op Op) (*mat.Dense, error) {
	applier, ok := op.(Applier)
	if !ok {
		return nil, newOpError("Op", op, fmt.Errorf("%w: no materialization path", ErrUnsupported))
	}
	m, n := op.Dims()
	out := mat.NewDense(m, n, nil)
	e := mat.NewDense(n, 1, nil)
	for j := 0; j < n; j++ {
		if j > 0 {
			e.Set(j-1, 0, 0)
		}
		e.Set(j, 0, 1)
		col, err := applier.Apply(e)
		if err != nil {
			return nil, err
		}
		for i := 0; i < m; i++ {
			out.Set(i, j, col.At(i, 0))
		}
	}
	return out, nil
}

// SparseEntry is one nonzero of a SparseMatrix's coordinate-list
// representation.
type SparseEntry struct {
	Row, Col int
	Value    float64
}

// SparseMatrix is a minimal coordinate-list (COO) sparse matrix: neither
// this corpus nor gonum.org/v1/gonum/mat itself ships a sparse matrix type,
// so ToSparse returns this package's own triplet list rather than adapting
// a third-party representation that doesn't exist in the dependency graph.
type SparseMatrix struct {
	M, N    int
	Entries []SparseEntry
}

func (s *SparseMatrix) Dims() (int, int) { return s.M, s.N }

// At returns the value at (i,j), 0 for any coordinate not present in
// Entries.
func (s *SparseMatrix) At(i, j int) float64 {
	for _, e := range s.Entries {
		if e.Row == i && e.Col == j {
			return e.Value
		}
	}
	return 0
}

func (s *SparseMatrix) T() mat.Matrix { return mat.Transpose{Matrix: s} }

// ToSparse materializes op and drops explicit zeros, spec.md §6's
// "sparse(L)".
func ToSparse(op Op) (*SparseMatrix, error) {
	dense, err := ConvertToMatrix(op)
	if err != nil {
		return nil, err
	}
	m, n := dense.Dims()
	out := &SparseMatrix{M: m, N: n}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if v := dense.At(i, j); v != 0 {
				out.Entries = append(out.Entries, SparseEntry{Row: i, Col: j, Value: v})
			}
		}
	}
	return out, nil
}

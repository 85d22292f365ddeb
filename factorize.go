package operators

import (
	"gonum.org/v1/gonum/mat"
)

// factorizeDense materializes op (via the materialize.go ConvertToMatrix
// entry point) and returns its concrete *mat.Dense form,
// shared by every kind-specific factorization entry point below.
func factorizeDense(op Op) (*mat.Dense, int, error) {
	m, n := op.Dims()
	if m != n {
		return nil, 0, newOpError("Op", op, ErrNotSquare)
	}
	a, err := ConvertToMatrix(op)
	if err != nil {
		return nil, 0, err
	}
	return a, n, nil
}

// LU factorizes op with LU decomposition, spec.md §6.
func LU(op Op) (*InvertibleOperator, error) {
	a, n, err := factorizeDense(op)
	if err != nil {
		return nil, err
	}
	var lu mat.LU
	lu.Factorize(a)
	return &InvertibleOperator{kind: kindLU, lu: &lu, rows: n, ok: true}, nil
}

// QR factorizes op with QR decomposition, spec.md §6. op need not be
// square; QR always exists for m ≥ n.
func QR(op Op) (*InvertibleOperator, error) {
	a, err := ConvertToMatrix(op)
	if err != nil {
		return nil, err
	}
	r, _ := op.Dims()
	var qr mat.QR
	qr.Factorize(a)
	return &InvertibleOperator{kind: kindQR, qr: &qr, rows: r, ok: true}, nil
}

// LQ factorizes op with LQ decomposition, spec.md §6. op need not be
// square; LQ always exists for m ≤ n.
func LQ(op Op) (*InvertibleOperator, error) {
	a, err := ConvertToMatrix(op)
	if err != nil {
		return nil, err
	}
	_, c := op.Dims()
	var lq mat.LQ
	lq.Factorize(a)
	return &InvertibleOperator{kind: kindLQ, lq: &lq, rows: c, ok: true}, nil
}

// Cholesky factorizes op with Cholesky decomposition, spec.md §6. op must be
// symmetric positive definite; Factorize's failure is surfaced via
// IsSuccess rather than returning an error eagerly, matching
// mat.Cholesky.Factorize's own "ok bool" convention.
func Cholesky(op Op) (*InvertibleOperator, error) {
	a, n, err := factorizeDense(op)
	if err != nil {
		return nil, err
	}
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, a.At(i, j))
		}
	}
	var chol mat.Cholesky
	ok := chol.Factorize(sym)
	return &InvertibleOperator{kind: kindCholesky, chol: &chol, rows: n, ok: ok}, nil
}

// SVD factorizes op with a full singular value decomposition, spec.md §6.
func SVD(op Op) (*InvertibleOperator, error) {
	a, n, err := factorizeDense(op)
	if err != nil {
		return nil, err
	}
	var svd mat.SVD
	ok := svd.Factorize(a, mat.SVDFull)
	return &InvertibleOperator{kind: kindSVD, svd: &svd, rows: n, ok: ok, svdRank: activeConfig.DefaultSVDRank}, nil
}

// LDLT would factorize op with an LDLᵀ decomposition; gonum.org/v1/gonum/mat
// exposes no public LDLᵀ type as of the version this module depends on, so
// this returns ErrNotSupportedByBackend rather than silently omitting the
// entry point spec.md §6 names. See DESIGN.md.
func LDLT(op Op) (*InvertibleOperator, error) {
	return nil, ErrNotSupportedByBackend
}

// BunchKaufman would factorize op with a Bunch-Kaufman symmetric-indefinite
// decomposition; see LDLT.
func BunchKaufman(op Op) (*InvertibleOperator, error) {
	return nil, ErrNotSupportedByBackend
}

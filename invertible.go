package operators

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// factorKind tags which concrete gonum/mat factorization an
// InvertibleOperator wraps.
type factorKind int

const (
	kindLU factorKind = iota
	kindQR
	kindLQ
	kindCholesky
	kindSVD
)

// InvertibleOperator wraps a factorization of a square matrix, spec.md §4.2.
// Grounded directly on _teacher_ref/mat/qr.go and lq.go (Factorize(a
// Matrix), Solve(dst, trans, b) error, Cond() float64) and svd.go
// (Factorize(a, kind) (ok bool), SolveTo(dst, b, rank)).
type InvertibleOperator struct {
	kind    factorKind
	lu      *mat.LU
	qr      *mat.QR
	lq      *mat.LQ
	chol    *mat.Cholesky
	svd     *mat.SVD
	svdRank int
	rows    int
	trans   bool // adjoint view: solve against Aᵀ
	ok      bool
}

// Factorize materializes op to a concrete matrix and LU-factorizes it — the
// general-purpose entry point named in spec.md §6. Use the kind-specific
// entry points (lu/qr/lq/cholesky/svd, in factorize.go) to pick a particular
// factorization.
func Factorize(op Op) (*InvertibleOperator, error) { return LU(op) }

func (inv *InvertibleOperator) Dims() (int, int) { return inv.rows, inv.rows }
func (inv *InvertibleOperator) IsLinear() bool   { return true }

// IsSuccess reports whether the wrapped factorization succeeded (spec.md §7:
// "is_success(L) on an InvertibleOperator queries success post-hoc").
func (inv *InvertibleOperator) IsSuccess() bool { return inv.ok }

// IsSingular reports the negation of IsSuccess, wired to the IsSingular
// predicate in traits.go.
func (inv *InvertibleOperator) IsSingular() bool { return !inv.ok }

// Cond returns the condition number of the factorized matrix.
func (inv *InvertibleOperator) Cond() float64 {
	switch inv.kind {
	case kindLU:
		return inv.lu.Cond()
	case kindQR:
		return inv.qr.Cond()
	case kindLQ:
		return inv.lq.Cond()
	case kindCholesky:
		return inv.chol.Cond()
	case kindSVD:
		return inv.svd.Cond()
	}
	panic("operators: unreachable factorKind")
}

// OpNorm returns 1/Cond() as an optimistic bound on the operator norm of the
// factorization — spec.md §4.2: "opnorm(L,p) returns 1 / opnorm(F,p)". The
// backing factorizations expose Cond() (an L2-norm-based condition number)
// rather than a generalized opnorm(F,p), so this reuses Cond() as the
// teacher's own QR/LQ do for their condition estimate, noting (in their own
// words) that the norm is "only a qualitative measure anyway".
func (inv *InvertibleOperator) OpNorm(p float64) float64 {
	c := inv.Cond()
	if c == 0 {
		return 0
	}
	return 1 / c
}

// Adjoint returns an InvertibleOperator that solves against Aᴴ. LU, QR, and
// LQ support a transposed solve natively (Fᴴ view, per DESIGN NOTES "Adjoint
// of a factorization"); Cholesky is self-adjoint (only defined for symmetric
// input); SVD has no native transposed-solve argument in the backing API,
// so its adjoint falls back to the documented "materialize, factor the
// adjoint matrix, and wrap" path.
func (inv *InvertibleOperator) Adjoint() Op {
	switch inv.kind {
	case kindLU, kindQR, kindLQ:
		cp := *inv
		cp.trans = !inv.trans
		return &cp
	case kindCholesky:
		return inv
	case kindSVD:
		a := materializeFactorization(inv)
		var at mat.Dense
		at.CloneFrom(a.T())
		out, err := SVD(NewMatrixOperator(&at))
		if err != nil {
			panic(err)
		}
		return out
	}
	panic("operators: unreachable factorKind")
}

// Solve returns F⁻¹·u, allocating the result.
func (inv *InvertibleOperator) Solve(u mat.Matrix) (*mat.Dense, error) {
	checkSolveDims(inv.rows, inv.rows, u)
	var x mat.Dense
	if err := inv.SolveTo(&x, u); err != nil {
		return nil, err
	}
	return &x, nil
}

// SolveTo writes v ← F⁻¹·u.
func (inv *InvertibleOperator) SolveTo(v *mat.Dense, u mat.Matrix) error {
	checkSolveDims(inv.rows, inv.rows, u)
	var err error
	switch inv.kind {
	case kindLU:
		err = inv.lu.SolveTo(v, inv.trans, u)
	case kindQR:
		err = inv.qr.Solve(v, inv.trans, u)
	case kindLQ:
		err = inv.lq.Solve(v, inv.trans, u)
	case kindCholesky:
		err = inv.chol.SolveTo(v, u)
	case kindSVD:
		err = inv.svd.SolveTo(v, u, inv.svdRank)
	}
	if err != nil {
		return newOpError("InvertibleOperator", inv, fmt.Errorf("%w: %v", ErrSingular, err))
	}
	if c := inv.Cond(); c > activeConfig.ConditionTolerance {
		Logger.Warn().Float64("cond", c).Float64("tolerance", activeConfig.ConditionTolerance).Msg("solve against ill-conditioned factorization")
	}
	return nil
}

// SolveInPlace writes u ← F⁻¹·u.
func (inv *InvertibleOperator) SolveInPlace(u *mat.Dense) error {
	var x mat.Dense
	if err := inv.SolveTo(&x, u); err != nil {
		return err
	}
	u.CloneFrom(&x)
	return nil
}

// Apply uses F as a forward operator by materializing it and delegating to
// mat.Dense.Mul; per spec.md §4.2 this is "primarily meaningful when F is
// diagonal/bidiagonal/adjoint-of-factorization" — the common use of
// InvertibleOperator is Solve, not Apply.
func (inv *InvertibleOperator) Apply(u mat.Matrix) (*mat.Dense, error) {
	checkApplyDims(inv.rows, inv.rows, u)
	a := materializeFactorization(inv)
	var v mat.Dense
	v.Mul(a, u)
	return &v, nil
}

// ConvertToMatrix materializes the factorization back to a concrete matrix,
// supporting the materialize.go ConvertToMatrix entry point.
func (inv *InvertibleOperator) ConvertToMatrix() *mat.Dense { return materializeFactorization(inv) }

func materializeFactorization(inv *InvertibleOperator) *mat.Dense {
	var a mat.Dense
	switch inv.kind {
	case kindLU:
		a.CloneFrom(inv.lu)
	case kindQR:
		var q, r mat.Dense
		inv.qr.QTo(&q)
		inv.qr.RTo(&r)
		a.Mul(&q, &r)
	case kindLQ:
		var l, q mat.Dense
		inv.lq.LTo(&l)
		inv.lq.QTo(&q)
		a.Mul(&l, &q)
	case kindCholesky:
		a.CloneFrom(inv.chol)
	case kindSVD:
		var u, v mat.Dense
		inv.svd.UTo(&u)
		inv.svd.VTo(&v)
		sv := inv.svd.Values(nil)
		s := mat.NewDiagDense(len(sv), sv)
		var us mat.Dense
		us.Mul(&u, s)
		a.Mul(&us, v.T())
	}
	if inv.trans {
		var at mat.Dense
		at.CloneFrom(a.T())
		return &at
	}
	return &a
}

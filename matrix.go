package operators

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// UpdateHook mutates a mutable matrix a in place given a representative
// input u and parameters (p, t). The default hook (no-op) marks an operator
// constant; see spec.md §3.
type UpdateHook func(a mat.Mutable, u mat.Matrix, p any, t float64)

// MatrixOperator wraps a mutable matrix A with an optional time/parameter
// update hook, spec.md §4.1. A is any concrete matrix satisfying
// gonum.org/v1/gonum/mat.Matrix — dense, banded, symmetric, or a
// caller-supplied sparse type — so this operator is representation-agnostic
// exactly as spec.md §3 requires ("a matrix (dense or sparse) ... over
// scalar T").
//
// Grounded on the DiagDense/TriDense wrapping pattern in
// _teacher_ref/mat/diagonal.go: a thin struct holding a concrete mat type
// plus the extra state (here, the hook) the wrapped type doesn't carry
// itself.
type MatrixOperator struct {
	A    mat.Matrix
	hook UpdateHook
	p    any
	t    float64
}

// NewMatrixOperator wraps a with the identity update hook: the resulting
// operator is constant.
func NewMatrixOperator(a mat.Matrix) *MatrixOperator {
	return &MatrixOperator{A: a}
}

// NewMatrixOperatorFunc wraps a with hook. The operator is constant iff hook
// is nil.
func NewMatrixOperatorFunc(a mat.Matrix, hook UpdateHook) *MatrixOperator {
	return &MatrixOperator{A: a, hook: hook}
}

func (m *MatrixOperator) Dims() (int, int) { return m.A.Dims() }
func (m *MatrixOperator) IsLinear() bool   { return true }
func (m *MatrixOperator) IsConstant() bool { return m.hook == nil }

// Adjoint returns a new MatrixOperator over Aᴴ (Aᵀ for the real matrices
// this package targets) with a hook that dualizes the receiver's hook: it
// mutates the transposed view and therefore the shared underlying storage,
// matching spec.md §4.1 ("Adjoint/transpose return a new MatrixOperator
// over Aᴴ/Aᵀ with a hook that dualizes φ consistently").
func (m *MatrixOperator) Adjoint() Op {
	if IsSymmetric(m) || IsHermitian(m) {
		return m
	}
	hook := m.hook
	var dualHook UpdateHook
	if hook != nil {
		dualHook = func(a mat.Mutable, u mat.Matrix, p any, t float64) {
			hook(transposeMutable{a}, u, p, t)
		}
	}
	return &MatrixOperator{A: mat.Transpose{Matrix: m.A}, hook: dualHook, p: m.p, t: m.t}
}

func (m *MatrixOperator) IsSymmetric() bool {
	_, ok := m.A.(mat.Symmetric)
	return ok
}
func (m *MatrixOperator) IsHermitian() bool { return m.IsSymmetric() }
func (m *MatrixOperator) IsPosDef() bool    { return false }

// UpdateCoefficients invokes the stored hook φ(A, u, p, t), mutating A in
// place. A must implement mat.Mutable, or be a mat.Transpose of one (as an
// Adjoint's A is), for a non-identity hook to apply; otherwise
// UpdateCoefficients returns ErrUnsupported.
func (m *MatrixOperator) UpdateCoefficients(u mat.Matrix, p any, t float64) error {
	m.p, m.t = p, t
	if m.hook == nil {
		return nil
	}
	mutable, ok := m.A.(mat.Mutable)
	if tr, isT := m.A.(mat.Transpose); !ok && isT {
		if inner, innerOK := tr.Matrix.(mat.Mutable); innerOK {
			mutable, ok = transposeMutable{inner}, true
		}
	}
	if !ok {
		return newOpError("MatrixOperator", m, fmt.Errorf("%w: backing matrix is not mutable", ErrUnsupported))
	}
	m.hook(mutable, u, p, t)
	Logger.Debug().Str("op", "MatrixOperator").Float64("t", t).Msg("coefficients updated")
	return nil
}

// Apply returns A·u.
func (m *MatrixOperator) Apply(u mat.Matrix) (*mat.Dense, error) {
	mm, n := m.Dims()
	checkApplyDims(mm, n, u)
	var v mat.Dense
	v.Mul(m.A, u)
	return &v, nil
}

// MulTo writes v ← A·u.
func (m *MatrixOperator) MulTo(v *mat.Dense, u mat.Matrix) error {
	mm, n := m.Dims()
	checkApplyDims(mm, n, u)
	v.Mul(m.A, u)
	return nil
}

// MulToScaled writes v ← α·(A·u) + β·v.
func (m *MatrixOperator) MulToScaled(v *mat.Dense, u mat.Matrix, alpha, beta float64) error {
	mm, n := m.Dims()
	checkApplyDims(mm, n, u)
	var au mat.Dense
	au.Mul(m.A, u)
	au.Scale(alpha, &au)
	v.Scale(beta, v)
	v.Add(v, &au)
	return nil
}

// Solve returns A⁻¹·u via the backing library's generic solve (LU for a
// square A, QR least-squares otherwise) — this is the same "\` on a dense
// matrix implicitly factorizes" behavior spec.md §8 scenario 1 exercises
// for a plain random square A, not merely the structurally-triangular/
// diagonal case spec.md §4.1's prose calls out.
func (m *MatrixOperator) Solve(u mat.Matrix) (*mat.Dense, error) {
	mm, n := m.Dims()
	checkSolveDims(mm, n, u)
	var v mat.Dense
	if err := v.Solve(m.A, u); err != nil {
		return nil, newOpError("MatrixOperator", m, fmt.Errorf("%w: %v", ErrSingular, err))
	}
	return &v, nil
}

// SolveTo writes v ← A⁻¹·u.
func (m *MatrixOperator) SolveTo(v *mat.Dense, u mat.Matrix) error {
	mm, n := m.Dims()
	checkSolveDims(mm, n, u)
	if err := v.Solve(m.A, u); err != nil {
		return newOpError("MatrixOperator", m, fmt.Errorf("%w: %v", ErrSingular, err))
	}
	return nil
}

// SolveInPlace writes u ← A⁻¹·u.
func (m *MatrixOperator) SolveInPlace(u *mat.Dense) error {
	mm, n := m.Dims()
	checkSolveDims(mm, n, u)
	var v mat.Dense
	if err := v.Solve(m.A, u); err != nil {
		return newOpError("MatrixOperator", m, fmt.Errorf("%w: %v", ErrSingular, err))
	}
	u.CloneFrom(&v)
	return nil
}

// transposeMutable adapts a mat.Mutable so writes through it land in the
// transposed position, used so an adjoint/transpose MatrixOperator's hook
// can mutate the shared underlying storage consistently with the original
// hook's (i, j) convention.
type transposeMutable struct {
	a mat.Mutable
}

func (t transposeMutable) Dims() (int, int) {
	r, c := t.a.Dims()
	return c, r
}
func (t transposeMutable) At(i, j int) float64    { return t.a.At(j, i) }
func (t transposeMutable) Set(i, j int, v float64) { t.a.Set(j, i, v) }
func (t transposeMutable) T() mat.Matrix           { return mat.Transpose{Matrix: t} }

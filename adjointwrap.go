package operators

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// AdjointOp is a lazy wrapper returned when an operator's native Adjoint
// logic has no adjoint callable/data of its own to hand back — spec.md
// §4.6: "if an underlying operator lacks a native adjoint, wrap it instead
// of failing." AdjointOp's own Adjoint unwraps back to the inner operator,
// per the adjoint-of-adjoint law spec.md §8 tests.
//
// Apply/Solve are defined via the identity (uᴴ·Aᴴ)ᴴ = A·u, the same
// identity spec.md §4.6 names for the wrapper's apply/solve: since the
// wrapped operator itself offers no way to compute Aᴴ·v directly, AdjointOp
// reroutes through materializing the inner operator's matrix form and
// solving/applying against its transpose; the materialized matrix is not
// kept, so every Apply/MulTo/Solve call materializes it again. This is deliberately the slow
// path — it only ever runs for the exceptional operator that declined to
// supply its own adjoint.
type AdjointOp struct {
	Inner Op
}

// NewAdjointOp wraps inner as a lazy adjoint view.
func NewAdjointOp(inner Op) *AdjointOp { return &AdjointOp{Inner: inner} }

func (a *AdjointOp) Dims() (int, int) {
	m, n := a.Inner.Dims()
	return n, m
}
func (a *AdjointOp) IsLinear() bool { return a.Inner.IsLinear() }

// Adjoint unwraps back to the original operator.
func (a *AdjointOp) Adjoint() Op { return a.Inner }

func (a *AdjointOp) IsConstant() bool { return IsConstant(a.Inner) }

func (a *AdjointOp) UpdateCoefficients(u mat.Matrix, p any, t float64) error {
	return UpdateCoefficients(a.Inner, u, p, t)
}

// materializeTransposed returns Aᴴ, the transpose of the inner operator's
// materialized matrix form.
func (a *AdjointOp) materializeTransposed() (*mat.Dense, error) {
	inner, err := ConvertToMatrix(a.Inner)
	if err != nil {
		return nil, newOpError("AdjointOp", a, fmt.Errorf("%w: inner operator has no materialization path", ErrUnsupported))
	}
	var at mat.Dense
	at.CloneFrom(inner.T())
	return &at, nil
}

// Apply returns Aᴴ·u.
func (a *AdjointOp) Apply(u mat.Matrix) (*mat.Dense, error) {
	m, n := a.Dims()
	checkApplyDims(m, n, u)
	at, err := a.materializeTransposed()
	if err != nil {
		return nil, err
	}
	var v mat.Dense
	v.Mul(at, u)
	return &v, nil
}

// MulTo writes v ← Aᴴ·u.
func (a *AdjointOp) MulTo(v *mat.Dense, u mat.Matrix) error {
	m, n := a.Dims()
	checkApplyDims(m, n, u)
	at, err := a.materializeTransposed()
	if err != nil {
		return err
	}
	v.Mul(at, u)
	return nil
}

// Solve returns (Aᴴ)⁻¹·u.
func (a *AdjointOp) Solve(u mat.Matrix) (*mat.Dense, error) {
	m, n := a.Dims()
	checkSolveDims(m, n, u)
	at, err := a.materializeTransposed()
	if err != nil {
		return nil, err
	}
	var v mat.Dense
	if err := v.Solve(at, u); err != nil {
		return nil, newOpError("AdjointOp", a, fmt.Errorf("%w: %v", ErrSingular, err))
	}
	return &v, nil
}

// SolveTo writes v ← (Aᴴ)⁻¹·u.
func (a *AdjointOp) SolveTo(v *mat.Dense, u mat.Matrix) error {
	out, err := a.Solve(u)
	if err != nil {
		return err
	}
	v.CloneFrom(out)
	return nil
}

// SolveInPlace writes u ← (Aᴴ)⁻¹·u.
func (a *AdjointOp) SolveInPlace(u *mat.Dense) error {
	out, err := a.Solve(u)
	if err != nil {
		return err
	}
	u.CloneFrom(out)
	return nil
}

// ConvertToMatrix returns Aᴴ, supporting the package-level ConvertToMatrix
// entry point.
func (a *AdjointOp) ConvertToMatrix() *mat.Dense {
	at, err := a.materializeTransposed()
	if err != nil {
		panic(err)
	}
	return at
}

// TransposeOp is AdjointOp's real-valued twin, spec.md §4.6: for the
// real-only operators this package implements, transpose and adjoint
// coincide (conj is the identity on ℝ), so TransposeOp is defined simply as
// an AdjointOp alias rather than a second independent implementation.
type TransposeOp = AdjointOp

// NewTransposeOp wraps inner as a lazy transpose view.
func NewTransposeOp(inner Op) *TransposeOp { return NewAdjointOp(inner) }

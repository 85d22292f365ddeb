package operators

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// AffineOperator represents u ↦ A·u + b, spec.md §4.3. It is the one
// variant this package's common interface reports IsLinear() == false.
type AffineOperator struct {
	A Op
	B *mat.Dense // m×1 translation vector
}

// NewAffine builds L·u = a·u + b. b must have as many rows as a has rows.
func NewAffine(a Op, b *mat.Dense) *AffineOperator {
	m, _ := a.Dims()
	br, _ := b.Dims()
	if br != m {
		panic(ErrShape)
	}
	return &AffineOperator{A: a, B: b}
}

func (l *AffineOperator) Dims() (int, int) { return l.A.Dims() }
func (l *AffineOperator) IsLinear() bool   { return false }
func (l *AffineOperator) IsConstant() bool { return IsConstant(l.A) }

// ConvertToMatrix materializes the linear part A only: an affine map has no
// single matrix representation of u ↦ A·u + b, so this names the part that
// does, rather than letting the generic Applier-based fallback silently
// fold the translation into every basis-vector probe.
func (l *AffineOperator) ConvertToMatrix() *mat.Dense {
	a, err := ConvertToMatrix(l.A)
	if err != nil {
		panic(err)
	}
	return a
}

// Adjoint is undefined for a genuinely affine map (b ≠ 0 breaks the adjoint
// inner-product identity); callers that need Aᴴ should use l.A.Adjoint()
// directly. Adjoint here returns the adjoint of the linear part, matching
// spec.md §4.0's common interface requirement that Adjoint exist, while
// IsLinear() == false signals callers not to expect the affine adjoint law
// from spec.md §8 to hold.
func (l *AffineOperator) Adjoint() Op { return l.A.Adjoint() }

// UpdateCoefficients forwards to the linear part.
func (l *AffineOperator) UpdateCoefficients(u mat.Matrix, p any, t float64) error {
	return UpdateCoefficients(l.A, u, p, t)
}

// Apply returns A·u + b.
func (l *AffineOperator) Apply(u mat.Matrix) (*mat.Dense, error) {
	applier, ok := l.A.(Applier)
	if !ok {
		return nil, newOpError("AffineOperator", l, fmt.Errorf("%w: linear part has no Apply", ErrUnsupported))
	}
	v, err := applier.Apply(u)
	if err != nil {
		return nil, err
	}
	l.addTranslation(v, 1)
	return v, nil
}

// MulTo writes v ← A·u + b.
func (l *AffineOperator) MulTo(v *mat.Dense, u mat.Matrix) error {
	applier, ok := l.A.(InplaceApplier)
	if !ok {
		return newOpError("AffineOperator", l, fmt.Errorf("%w: linear part has no MulTo", ErrUnsupported))
	}
	if err := applier.MulTo(v, u); err != nil {
		return err
	}
	l.addTranslation(v, 1)
	return nil
}

// MulToScaled writes v ← α·(A·u + b) + β·v, spec.md §4.3: "implemented as
// mul!(v,A,u,α,β) followed by v ← v + α·b".
func (l *AffineOperator) MulToScaled(v *mat.Dense, u mat.Matrix, alpha, beta float64) error {
	applier, ok := l.A.(ScaledInplaceApplier)
	if !ok {
		return newOpError("AffineOperator", l, fmt.Errorf("%w: linear part has no MulToScaled", ErrUnsupported))
	}
	if err := applier.MulToScaled(v, u, alpha, beta); err != nil {
		return err
	}
	l.addTranslation(v, alpha)
	return nil
}

// Solve returns A⁻¹·(u − b), spec.md §4.3.
func (l *AffineOperator) Solve(u mat.Matrix) (*mat.Dense, error) {
	solver, ok := l.A.(Solver)
	if !ok {
		return nil, newOpError("AffineOperator", l, fmt.Errorf("%w: linear part has no Solve", ErrUnsupported))
	}
	shifted := l.subTranslation(u)
	return solver.Solve(shifted)
}

// SolveTo writes v ← A⁻¹·(u − b).
func (l *AffineOperator) SolveTo(v *mat.Dense, u mat.Matrix) error {
	solver, ok := l.A.(Solver)
	if !ok {
		return newOpError("AffineOperator", l, fmt.Errorf("%w: linear part has no Solve", ErrUnsupported))
	}
	shifted := l.subTranslation(u)
	out, err := solver.Solve(shifted)
	if err != nil {
		return err
	}
	v.CloneFrom(out)
	return nil
}

// SolveInPlace writes u ← A⁻¹·(u − b): spec.md §4.3 "writes u ← u − b then
// u ← A⁻¹·u".
func (l *AffineOperator) SolveInPlace(u *mat.Dense) error {
	l.addTranslation(u, -1)
	solver, ok := l.A.(Solver)
	if !ok {
		return newOpError("AffineOperator", l, fmt.Errorf("%w: linear part has no Solve", ErrUnsupported))
	}
	out, err := solver.Solve(u)
	if err != nil {
		return err
	}
	u.CloneFrom(out)
	return nil
}

// addTranslation adds scale·b to every column of v, broadcasting the m×1
// translation vector across v's k columns (spec.md §4.0: "when u is a
// matrix of k columns, the operator acts column-wise").
func (l *AffineOperator) addTranslation(v *mat.Dense, scale float64) {
	m, k := v.Dims()
	for i := 0; i < m; i++ {
		bi := scale * l.B.At(i, 0)
		for j := 0; j < k; j++ {
			v.Set(i, j, v.At(i, j)+bi)
		}
	}
}

// subTranslation returns a freshly allocated copy of u with b subtracted
// from every column, broadcasting the same way addTranslation does.
func (l *AffineOperator) subTranslation(u mat.Matrix) *mat.Dense {
	m, k := u.Dims()
	out := mat.NewDense(m, k, nil)
	out.CloneFrom(u)
	for i := 0; i < m; i++ {
		bi := l.B.At(i, 0)
		for j := 0; j < k; j++ {
			out.Set(i, j, out.At(i, j)-bi)
		}
	}
	return out
}

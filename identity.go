package operators

import "gonum.org/v1/gonum/mat"

// IdentityOperator is the n×n identity map. It is a lazy leaf used by
// TensorProductOperator's Kronecker folding (spec.md §4.5: "Kronecker of two
// identities collapses to a larger identity") and as a cheap AffineOperator
// or MatrixOperator test fixture; grounded on DiagDense's role in
// _teacher_ref/mat/diagonal.go as a structurally-specialized matrix variant
// with trivial Dims/T.
type IdentityOperator struct {
	n int
}

// NewIdentity returns the n×n identity operator.
func NewIdentity(n int) *IdentityOperator {
	if n <= 0 {
		panic(ErrZeroLength)
	}
	return &IdentityOperator{n: n}
}

func (id *IdentityOperator) Dims() (int, int) { return id.n, id.n }
func (id *IdentityOperator) IsLinear() bool   { return true }
func (id *IdentityOperator) Adjoint() Op      { return id }
func (id *IdentityOperator) IsConstant() bool { return true }
func (id *IdentityOperator) IsSymmetric() bool { return true }
func (id *IdentityOperator) IsHermitian() bool { return true }
func (id *IdentityOperator) IsPosDef() bool    { return true }

// Apply returns a copy of u.
func (id *IdentityOperator) Apply(u mat.Matrix) (*mat.Dense, error) {
	checkApplyDims(id.n, id.n, u)
	var v mat.Dense
	v.CloneFrom(u)
	return &v, nil
}

// MulTo writes u into v.
func (id *IdentityOperator) MulTo(v *mat.Dense, u mat.Matrix) error {
	checkApplyDims(id.n, id.n, u)
	v.CloneFrom(u)
	return nil
}

// MulToScaled writes v ← α·u + β·v.
func (id *IdentityOperator) MulToScaled(v *mat.Dense, u mat.Matrix, alpha, beta float64) error {
	checkApplyDims(id.n, id.n, u)
	var scaledU mat.Dense
	scaledU.Scale(alpha, u)
	v.Scale(beta, v)
	v.Add(v, &scaledU)
	return nil
}

// Solve returns a copy of u (L⁻¹ = I).
func (id *IdentityOperator) Solve(u mat.Matrix) (*mat.Dense, error) { return id.Apply(u) }

// SolveTo writes u into v.
func (id *IdentityOperator) SolveTo(v *mat.Dense, u mat.Matrix) error { return id.MulTo(v, u) }

// SolveInPlace is a no-op: I⁻¹·u = u.
func (id *IdentityOperator) SolveInPlace(u *mat.Dense) error { return nil }

// ScaledIdentityOperator represents α·I for a scalar α. It is a standalone
// leaf: Kron does not accept bare scalar arguments and never builds one
// itself.
type ScaledIdentityOperator struct {
	n     int
	Alpha float64
}

// NewScaledIdentity returns the n×n operator α·I.
func NewScaledIdentity(n int, alpha float64) *ScaledIdentityOperator {
	if n <= 0 {
		panic(ErrZeroLength)
	}
	return &ScaledIdentityOperator{n: n, Alpha: alpha}
}

func (s *ScaledIdentityOperator) Dims() (int, int) { return s.n, s.n }
func (s *ScaledIdentityOperator) IsLinear() bool   { return true }
func (s *ScaledIdentityOperator) Adjoint() Op      { return s }
func (s *ScaledIdentityOperator) IsConstant() bool { return true }
func (s *ScaledIdentityOperator) IsSymmetric() bool { return true }
func (s *ScaledIdentityOperator) IsHermitian() bool { return true }
func (s *ScaledIdentityOperator) IsPosDef() bool    { return s.Alpha > 0 }
func (s *ScaledIdentityOperator) IsZero() bool      { return s.Alpha == 0 }

// Apply returns α·u.
func (s *ScaledIdentityOperator) Apply(u mat.Matrix) (*mat.Dense, error) {
	checkApplyDims(s.n, s.n, u)
	var v mat.Dense
	v.Scale(s.Alpha, u)
	return &v, nil
}

// MulTo writes v ← α·u.
func (s *ScaledIdentityOperator) MulTo(v *mat.Dense, u mat.Matrix) error {
	checkApplyDims(s.n, s.n, u)
	v.Scale(s.Alpha, u)
	return nil
}

// MulToScaled writes v ← alpha·(α·u) + beta·v.
func (s *ScaledIdentityOperator) MulToScaled(v *mat.Dense, u mat.Matrix, alpha, beta float64) error {
	checkApplyDims(s.n, s.n, u)
	var scaledU mat.Dense
	scaledU.Scale(alpha*s.Alpha, u)
	v.Scale(beta, v)
	v.Add(v, &scaledU)
	return nil
}

// Solve returns u/α.
func (s *ScaledIdentityOperator) Solve(u mat.Matrix) (*mat.Dense, error) {
	checkSolveDims(s.n, s.n, u)
	if s.Alpha == 0 {
		return nil, ErrSingular
	}
	var v mat.Dense
	v.Scale(1/s.Alpha, u)
	return &v, nil
}

// SolveTo writes v ← u/α.
func (s *ScaledIdentityOperator) SolveTo(v *mat.Dense, u mat.Matrix) error {
	checkSolveDims(s.n, s.n, u)
	if s.Alpha == 0 {
		return ErrSingular
	}
	v.Scale(1/s.Alpha, u)
	return nil
}

// SolveInPlace writes u ← u/α.
func (s *ScaledIdentityOperator) SolveInPlace(u *mat.Dense) error {
	if s.Alpha == 0 {
		return ErrSingular
	}
	u.Scale(1/s.Alpha, u)
	return nil
}

// NullOperator is the m×n zero map, spec.md §6's is_zero witness and a
// cheap AffineOperator translation-free fixture.
type NullOperator struct {
	m, n int
}

// NewNull returns the m×n zero operator.
func NewNull(m, n int) *NullOperator { return &NullOperator{m: m, n: n} }

func (z *NullOperator) Dims() (int, int)   { return z.m, z.n }
func (z *NullOperator) IsLinear() bool     { return true }
func (z *NullOperator) Adjoint() Op {
	if z.m == z.n {
		return z
	}
	return &NullOperator{m: z.n, n: z.m}
}
func (z *NullOperator) IsConstant() bool   { return true }
func (z *NullOperator) IsZero() bool       { return true }
func (z *NullOperator) IsSymmetric() bool  { return z.m == z.n }
func (z *NullOperator) IsHermitian() bool  { return z.m == z.n }
func (z *NullOperator) IsPosDef() bool     { return false }

// Apply returns a zero m×k matrix for u of shape (n, k).
func (z *NullOperator) Apply(u mat.Matrix) (*mat.Dense, error) {
	checkApplyDims(z.m, z.n, u)
	_, k := u.Dims()
	return mat.NewDense(z.m, k, nil), nil
}

// MulTo zeros v.
func (z *NullOperator) MulTo(v *mat.Dense, u mat.Matrix) error {
	checkApplyDims(z.m, z.n, u)
	v.Zero()
	return nil
}

// MulToScaled writes v ← β·v (the α·(0·u) term vanishes).
func (z *NullOperator) MulToScaled(v *mat.Dense, u mat.Matrix, alpha, beta float64) error {
	checkApplyDims(z.m, z.n, u)
	v.Scale(beta, v)
	return nil
}

package operators

import "gonum.org/v1/gonum/mat"

// The capability predicates below are spec.md §4.0/§6's trait system,
// implemented the way gonum/mat implements its own optional capabilities
// (RawBander, MutableDiagonal, Symmetric, ...): a small marker interface per
// capability, queried with a type assertion rather than a boolean field. An
// operator variant advertises a capability simply by implementing the
// corresponding interface. FunctionOperator is the exception: it implements
// every apply/solve method, so HasMul/HasMulInplace/HasLdiv/HasLdivInplace
// answer for it from its InPlace flag and the callables it was given.

// Applier is implemented by operators supporting allocating apply: v = L·u.
type Applier interface {
	Apply(u mat.Matrix) (*mat.Dense, error)
}

// InplaceApplier is implemented by operators supporting in-place apply:
// v ← L·u.
type InplaceApplier interface {
	MulTo(v *mat.Dense, u mat.Matrix) error
}

// ScaledInplaceApplier is implemented by operators supporting the 5-argument
// in-place apply: v ← α·(L·u) + β·v.
type ScaledInplaceApplier interface {
	MulToScaled(v *mat.Dense, u mat.Matrix, alpha, beta float64) error
}

// Solver is implemented by operators supporting allocating solve:
// v = L⁻¹·u.
type Solver interface {
	Solve(u mat.Matrix) (*mat.Dense, error)
}

// InplaceSolver is implemented by operators supporting in-place solve:
// v ← L⁻¹·u, and the single-argument self-solve u ← L⁻¹·u.
type InplaceSolver interface {
	SolveTo(v *mat.Dense, u mat.Matrix) error
	SolveInPlace(u *mat.Dense) error
}

// CoefficientUpdater is implemented by operators whose coefficients may be
// refreshed for a new (u, p, t).
type CoefficientUpdater interface {
	UpdateCoefficients(u mat.Matrix, p any, t float64) error
}

// ConstantChecker is implemented by operators that can report, without
// approximation, whether their update hook is the identity (spec.md §3: "An
// operator is constant iff φ is the identity hook").
type ConstantChecker interface {
	IsConstant() bool
}

// Cacheable is implemented by operators that require pre-allocated
// workspace for their in-place kernels (spec.md §3, §4.8: currently
// TensorProductOperator and in-place FunctionOperator's 5-argument MulTo).
type Cacheable interface {
	// CacheOperator returns a (possibly new) operator value with workspace
	// allocated for inputs shaped like u. CacheOperator is idempotent: a
	// second call with a same-shaped u is a no-op (no reallocation).
	CacheOperator(u mat.Matrix) Op
	IsCached() bool
}

// ZeroOperator is implemented by operators that represent the zero map.
type ZeroOperator interface {
	IsZero() bool
}

// SymmetryOperator is implemented by operators that can report symmetry /
// Hermitian-ness / positive-definiteness without computing a factorization.
type SymmetryOperator interface {
	IsSymmetric() bool
	IsHermitian() bool
	IsPosDef() bool
}

// HasMul reports whether op supports allocating apply.
func HasMul(op Op) bool {
	if f, ok := op.(*FunctionOperator); ok {
		return !f.Traits.InPlace && f.opOOP != nil
	}
	_, ok := op.(Applier)
	return ok
}

// HasMulInplace reports whether op supports in-place apply.
func HasMulInplace(op Op) bool {
	if f, ok := op.(*FunctionOperator); ok {
		return f.Traits.InPlace && f.opIIP != nil
	}
	_, ok := op.(InplaceApplier)
	return ok
}

// HasLdiv reports whether op supports allocating solve.
func HasLdiv(op Op) bool {
	if f, ok := op.(*FunctionOperator); ok {
		return !f.Traits.InPlace && f.opInvOOP != nil
	}
	_, ok := op.(Solver)
	return ok
}

// HasLdivInplace reports whether op supports in-place solve.
func HasLdivInplace(op Op) bool {
	if f, ok := op.(*FunctionOperator); ok {
		return f.Traits.InPlace && f.opInvIIP != nil
	}
	_, ok := op.(InplaceSolver)
	return ok
}

// HasAdjoint reports whether op supports Adjoint. Every Op implements
// Adjoint (natively or via a lazy wrapper, see adjointwrap.go), so this
// predicate — kept for parity with spec.md §6's predicate list — is
// trivially true, exactly as spec.md §4.6 states for the lazy wrapper case.
func HasAdjoint(op Op) bool { return op != nil }

// IsConstant reports whether op's coefficients never change under
// UpdateCoefficients. Operators that do not implement ConstantChecker are
// conservatively reported non-constant.
func IsConstant(op Op) bool {
	if c, ok := op.(ConstantChecker); ok {
		return c.IsConstant()
	}
	return false
}

// IsLinear reports whether op represents a linear (as opposed to affine) map.
func IsLinear(op Op) bool { return op.IsLinear() }

// IsZero reports whether op represents the zero map.
func IsZero(op Op) bool {
	if z, ok := op.(ZeroOperator); ok {
		return z.IsZero()
	}
	return false
}

// IsSymmetric reports whether op declares itself symmetric.
func IsSymmetric(op Op) bool {
	if s, ok := op.(SymmetryOperator); ok {
		return s.IsSymmetric()
	}
	return false
}

// IsHermitian reports whether op declares itself Hermitian.
func IsHermitian(op Op) bool {
	if s, ok := op.(SymmetryOperator); ok {
		return s.IsHermitian()
	}
	return false
}

// IsPosDef reports whether op declares itself positive definite.
func IsPosDef(op Op) bool {
	if s, ok := op.(SymmetryOperator); ok {
		return s.IsPosDef()
	}
	return false
}

// IsSingular reports whether op is a factorization-backed operator whose
// factorization failed. The condition number is not consulted.
func IsSingular(op Op) bool {
	if s, ok := op.(interface{ IsSingular() bool }); ok {
		return s.IsSingular()
	}
	return false
}

// IsCached reports whether op currently holds allocated workspace.
func IsCached(op Op) bool {
	if c, ok := op.(Cacheable); ok {
		return c.IsCached()
	}
	// Operators with no workspace requirement are vacuously cached.
	return true
}

// CacheOperator allocates workspace sized for u on operators that need it
// (spec.md §4.8); it is a no-op returning op unchanged for operators that
// have no Cacheable implementation.
func CacheOperator(op Op, u mat.Matrix) Op {
	if c, ok := op.(Cacheable); ok {
		return c.CacheOperator(u)
	}
	return op
}

// UpdateCoefficients refreshes op's internal state for new (u, p, t) if op
// implements CoefficientUpdater; it is a no-op otherwise (constant
// operators need not implement it).
func UpdateCoefficients(op Op, u mat.Matrix, p any, t float64) error {
	if c, ok := op.(CoefficientUpdater); ok {
		return c.UpdateCoefficients(u, p, t)
	}
	return nil
}

package operators

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// OutOfPlaceFunc computes v = op(u, p, t), allocating its result.
type OutOfPlaceFunc func(u mat.Matrix, p any, t float64) *mat.Dense

// InPlaceFunc computes v ← op(v, u, p, t) without allocating.
type InPlaceFunc func(v *mat.Dense, u mat.Matrix, p any, t float64)

// NormFunc computes the operator norm for the given p-norm.
type NormFunc func(p float64) float64

// FunctionTraits records the static metadata a FunctionOperator carries
// alongside its callables, spec.md §4.4.
type FunctionTraits struct {
	M, N        int
	InPlace     bool
	Symmetric   bool
	Hermitian   bool
	PosDef      bool
	OpNormValue *float64 // set if a scalar opnorm was supplied
	OpNormFunc  NormFunc  // set if a callable opnorm was supplied
}

// FunctionOperator is a matrix-free operator defined by user callables,
// spec.md §4.4. Traits.InPlace selects whether the out-of-place or the
// in-place callables are used. NewFunctionOperator does not check that the
// selected forward callable was supplied; without it, apply returns
// ErrUnsupported.
type FunctionOperator struct {
	Traits FunctionTraits

	opOOP      OutOfPlaceFunc
	opAdjOOP   OutOfPlaceFunc
	opInvOOP   OutOfPlaceFunc
	opAdjInvOOP OutOfPlaceFunc

	opIIP      InPlaceFunc
	opAdjIIP   InPlaceFunc
	opInvIIP   InPlaceFunc
	opAdjInvIIP InPlaceFunc

	p    any
	t    float64
	cache *mat.Dense // workspace for the in-place 5-arg MulTo / SolveInPlace
}

// FunctionOperatorConfig gathers the optional callables and traits for
// NewFunctionOperator; unset callables leave the corresponding capability
// unavailable, per spec.md §4.4's "derived rules".
type FunctionOperatorConfig struct {
	Traits FunctionTraits

	OOP       OutOfPlaceFunc
	AdjOOP    OutOfPlaceFunc
	InvOOP    OutOfPlaceFunc
	AdjInvOOP OutOfPlaceFunc

	IIP       InPlaceFunc
	AdjIIP    InPlaceFunc
	InvIIP    InPlaceFunc
	AdjInvIIP InPlaceFunc

	P any
	T float64
}

// NewFunctionOperator builds a FunctionOperator from cfg, applying the
// derived rules of spec.md §4.4: a self-adjoint operator reuses its
// forward callable as its adjoint callable when none was supplied, and
// reuses its inverse callable as its adjoint-inverse callable under the
// same condition.
func NewFunctionOperator(cfg FunctionOperatorConfig) *FunctionOperator {
	f := &FunctionOperator{
		Traits:      cfg.Traits,
		opOOP:       cfg.OOP,
		opAdjOOP:    cfg.AdjOOP,
		opInvOOP:    cfg.InvOOP,
		opAdjInvOOP: cfg.AdjInvOOP,
		opIIP:       cfg.IIP,
		opAdjIIP:    cfg.AdjIIP,
		opInvIIP:    cfg.InvIIP,
		opAdjInvIIP: cfg.AdjInvIIP,
		p:           cfg.P,
		t:           cfg.T,
	}
	selfAdjoint := cfg.Traits.Hermitian || cfg.Traits.Symmetric
	if selfAdjoint {
		if f.opAdjOOP == nil {
			f.opAdjOOP = f.opOOP
		}
		if f.opAdjIIP == nil {
			f.opAdjIIP = f.opIIP
		}
		if f.opInvOOP != nil && f.opAdjInvOOP == nil {
			f.opAdjInvOOP = f.opInvOOP
		}
		if f.opInvIIP != nil && f.opAdjInvIIP == nil {
			f.opAdjInvIIP = f.opInvIIP
		}
	}
	return f
}

func (f *FunctionOperator) Dims() (int, int) { return f.Traits.M, f.Traits.N }
func (f *FunctionOperator) IsLinear() bool   { return true }
func (f *FunctionOperator) IsConstant() bool { return false }
func (f *FunctionOperator) IsSymmetric() bool { return f.Traits.Symmetric }
func (f *FunctionOperator) IsHermitian() bool { return f.Traits.Hermitian }
func (f *FunctionOperator) IsPosDef() bool    { return f.Traits.PosDef }
func (f *FunctionOperator) IsCached() bool    { return f.cache != nil }

// Adjoint swaps (op ↔ op_adjoint) and (op_inverse ↔ op_adjoint_inverse) and
// reverses shape. If the operator is self-adjoint it is returned unchanged;
// if no adjoint callable exists, a lazy AdjointOp wrapper is returned
// instead (spec.md §4.4).
func (f *FunctionOperator) Adjoint() Op {
	if f.Traits.Hermitian || (f.Traits.Symmetric) {
		return f
	}
	haveAdj := f.opAdjOOP != nil || f.opAdjIIP != nil
	if !haveAdj {
		return NewAdjointOp(f)
	}
	adj := &FunctionOperator{
		Traits:      f.Traits,
		opOOP:       f.opAdjOOP,
		opAdjOOP:    f.opOOP,
		opInvOOP:    f.opAdjInvOOP,
		opAdjInvOOP: f.opInvOOP,
		opIIP:       f.opAdjIIP,
		opAdjIIP:    f.opIIP,
		opInvIIP:    f.opAdjInvIIP,
		opAdjInvIIP: f.opInvIIP,
		p:           f.p,
		t:           f.t,
	}
	adj.Traits.M, adj.Traits.N = f.Traits.N, f.Traits.M
	// Preserve the cache only when square: a shape reversal that changes
	// the dimensions invalidates any existing workspace (Open Question
	// resolution, see SPEC_FULL.md).
	if f.Traits.M == f.Traits.N {
		adj.cache = f.cache
	}
	return adj
}

// UpdateCoefficients rebinds (p, t). The source language's value-like
// immutable-rebind idiom (spec.md Design Notes) is implemented here as an
// in-place mutation of the operator's own (p, t) cell, the simpler of the
// two equivalent strategies the design notes allow.
func (f *FunctionOperator) UpdateCoefficients(u mat.Matrix, p any, t float64) error {
	f.p, f.t = p, t
	Logger.Debug().Str("op", "FunctionOperator").Float64("t", t).Msg("coefficients updated")
	return nil
}

// OpNorm returns the stored scalar opnorm or invokes the stored norm
// callable; absence is a fault (spec.md §4.4, §7).
func (f *FunctionOperator) OpNorm(p float64) (float64, error) {
	if f.Traits.OpNormValue != nil {
		return *f.Traits.OpNormValue, nil
	}
	if f.Traits.OpNormFunc != nil {
		return f.Traits.OpNormFunc(p), nil
	}
	return 0, newOpError("FunctionOperator", f, ErrMissingAttribute)
}

// Apply is available iff Traits.InPlace == false.
func (f *FunctionOperator) Apply(u mat.Matrix) (*mat.Dense, error) {
	if f.Traits.InPlace || f.opOOP == nil {
		return nil, newOpError("FunctionOperator", f, fmt.Errorf("%w: out-of-place apply", ErrUnsupported))
	}
	checkApplyDims(f.Traits.M, f.Traits.N, u)
	return f.opOOP(u, f.p, f.t), nil
}

// MulTo is available iff Traits.InPlace == true.
func (f *FunctionOperator) MulTo(v *mat.Dense, u mat.Matrix) error {
	if !f.Traits.InPlace || f.opIIP == nil {
		return newOpError("FunctionOperator", f, fmt.Errorf("%w: in-place apply", ErrUnsupported))
	}
	checkApplyDims(f.Traits.M, f.Traits.N, u)
	f.opIIP(v, u, f.p, f.t)
	return nil
}

// MulToScaled requires the operator be cached: it saves v into the
// workspace, computes the operator into v, scales by α, then adds β times
// the saved vector, spec.md §4.4.
func (f *FunctionOperator) MulToScaled(v *mat.Dense, u mat.Matrix, alpha, beta float64) error {
	if !f.Traits.InPlace || f.opIIP == nil {
		return newOpError("FunctionOperator", f, fmt.Errorf("%w: in-place apply", ErrUnsupported))
	}
	if f.cache == nil {
		return newOpError("FunctionOperator", f, ErrCacheNotSet)
	}
	checkApplyDims(f.Traits.M, f.Traits.N, u)
	f.cache.CloneFrom(v)
	f.opIIP(v, u, f.p, f.t)
	v.Scale(alpha, v)
	var scaledOld mat.Dense
	scaledOld.Scale(beta, f.cache)
	v.Add(v, &scaledOld)
	return nil
}

// Solve is available iff an inverse callable was supplied, spec.md §4.4:
// "Solve follows the same rule [as Apply] and additionally requires
// op_inverse ≠ nil".
func (f *FunctionOperator) Solve(u mat.Matrix) (*mat.Dense, error) {
	if f.Traits.InPlace || f.opInvOOP == nil {
		return nil, newOpError("FunctionOperator", f, fmt.Errorf("%w: out-of-place solve", ErrUnsupported))
	}
	checkSolveDims(f.Traits.M, f.Traits.N, u)
	return f.opInvOOP(u, f.p, f.t), nil
}

// SolveTo is available iff Traits.InPlace and an in-place inverse callable
// were supplied.
func (f *FunctionOperator) SolveTo(v *mat.Dense, u mat.Matrix) error {
	if !f.Traits.InPlace || f.opInvIIP == nil {
		return newOpError("FunctionOperator", f, fmt.Errorf("%w: in-place solve", ErrUnsupported))
	}
	checkSolveDims(f.Traits.M, f.Traits.N, u)
	f.opInvIIP(v, u, f.p, f.t)
	return nil
}

// SolveInPlace saves u and re-solves into itself, requiring a cache since
// it must snapshot u while overwriting it, spec.md §4.4.
func (f *FunctionOperator) SolveInPlace(u *mat.Dense) error {
	if !f.Traits.InPlace || f.opInvIIP == nil {
		return newOpError("FunctionOperator", f, fmt.Errorf("%w: in-place solve", ErrUnsupported))
	}
	if f.cache == nil {
		return newOpError("FunctionOperator", f, ErrCacheNotSet)
	}
	checkSolveDims(f.Traits.M, f.Traits.N, u)
	f.cache.CloneFrom(u)
	f.opInvIIP(u, f.cache, f.p, f.t)
	return nil
}

// CacheOperator allocates a workspace of the same shape as v (m×k, where k
// is derived from u) — required for MulToScaled and SolveInPlace, spec.md
// §4.8.
func (f *FunctionOperator) CacheOperator(u mat.Matrix) Op {
	_, k := u.Dims()
	if f.cache != nil {
		cr, cc := f.cache.Dims()
		if cr == f.Traits.M && cc == k {
			return f
		}
	}
	f.cache = mat.NewDense(f.Traits.M, k, nil)
	Logger.Debug().Str("op", "FunctionOperator").Int("m", f.Traits.M).Int("k", k).Msg("cache (re)allocated")
	return f
}

package operators

import "gonum.org/v1/gonum/mat"

// This file implements spec.md §4.7's left-apply dispatch: expressions of
// the form u·L or u/L, where u is presented as a transpose/adjoint VIEW of
// a column vector v (u = vᵀ), route through the dual form
// dual(dual(L)·dual(u)) rather than requiring a second, independent
// right-multiply implementation on every operator variant. Concretely,
// since (vᵀL) = (Lᵀv)ᵀ, the caller supplies v (the column vector u is a
// view of) and gets back the column vector the result is a view of — the
// transposition itself is left to the caller's presentation layer, exactly
// as u was never materialized as a row vector to begin with.

// LeftApply computes u·L for u = vᵀ, returning the column vector w such
// that the result is wᵀ: w = Lᴴ·v.
func LeftApply(v mat.Matrix, l Op) (*mat.Dense, error) {
	applier, ok := dualOrSelf(l).(Applier)
	if !ok {
		return nil, newOpError("LeftApply", l, ErrUnsupported)
	}
	return applier.Apply(v)
}

// LeftMulTo writes w ← Lᴴ·v in place, implementing mul!(v_out, u, L) for
// u = vᵀ (spec.md §4.7: "dualize both sides and call the right-multiply
// form").
func LeftMulTo(wOut *mat.Dense, v mat.Matrix, l Op) error {
	applier, ok := dualOrSelf(l).(InplaceApplier)
	if !ok {
		return newOpError("LeftMulTo", l, ErrUnsupported)
	}
	return applier.MulTo(wOut, v)
}

// LeftSolve computes u/L for u = vᵀ, returning w such that the result is
// wᵀ: w = (Lᴴ)⁻¹·v.
func LeftSolve(v mat.Matrix, l Op) (*mat.Dense, error) {
	solver, ok := dualOrSelf(l).(Solver)
	if !ok {
		return nil, newOpError("LeftSolve", l, ErrUnsupported)
	}
	return solver.Solve(v)
}

// LeftSolveTo writes w ← (Lᴴ)⁻¹·v in place, implementing ldiv!(v_out, u, L).
func LeftSolveTo(wOut *mat.Dense, v mat.Matrix, l Op) error {
	solver, ok := dualOrSelf(l).(InplaceSolver)
	if !ok {
		return newOpError("LeftSolveTo", l, ErrUnsupported)
	}
	return solver.SolveTo(wOut, v)
}

// LeftSolveInPlace implements ldiv!(u, L): u ← Lᴴ \ u, acting on the
// adjoint view of u in place (spec.md §9 Open Question, resolved in
// SPEC_FULL.md as dispatching through L's own adjoint rather than requiring
// a second in-place-solve implementation).
func LeftSolveInPlace(v *mat.Dense, l Op) error {
	solver, ok := dualOrSelf(l).(InplaceSolver)
	if !ok {
		return newOpError("LeftSolveInPlace", l, ErrUnsupported)
	}
	return solver.SolveInPlace(v)
}

// dualOrSelf returns l.Adjoint(), the "dual(L)" spec.md §4.7 dispatches
// through.
func dualOrSelf(l Op) Op { return l.Adjoint() }

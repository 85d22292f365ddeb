package operators

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// TensorProductOperator represents the lazy Kronecker product outer⊗inner,
// spec.md §4.5 — this package's core numerical kernel. Let (mo,no) =
// outer.Dims(), (mi,ni) = inner.Dims(); then Dims() = (mo·mi, no·ni).
//
// The represented matrix follows the convention
// (outer⊗inner)·vec(U) = vec(inner·U·outerᵀ)
// where U is the column-major reshape of a length-no·ni vector into a
// matrix with ni rows (inner varies fastest) — the standard Kronecker/vec
// identity spec.md §3 states explicitly.
type TensorProductOperator struct {
	Outer, Inner Op

	// c1 ∈ (mi × no·k), c2 ∈ (no × mi·k), c3 ∈ (mo × mi·k), c4 ∈ (mo·mi × k)
	// (the last caches v for the 5-argument in-place form), spec.md §4.5
	// "Cache protocol".
	c1, c2, c3, c4 *mat.Dense
	cachedK        int // 0 means uncached; otherwise the k this cache was sized for
}

// NewTensorProductOperator builds outer⊗inner. Per spec.md §4.5, the
// Kronecker product of two identities collapses to a single larger
// identity.
func NewTensorProductOperator(outer, inner Op) Op {
	if isIdentity(outer) && isIdentity(inner) {
		mo, _ := outer.Dims()
		mi, _ := inner.Dims()
		return NewIdentity(mo * mi)
	}
	return &TensorProductOperator{Outer: outer, Inner: inner}
}

// Kron folds its arguments left — Kron(a,b,c) = Kron(a, Kron(b,c)) — spec.md
// §4.5's variadic construction. Each argument is either an Op or a
// mat.Matrix (auto-promoted to a MatrixOperator). Kron requires at least one
// argument; Kron of a single argument returns it unchanged (spec.md's
// "T(a) = a" fold base case).
func Kron(ops ...any) Op {
	if len(ops) == 0 {
		panic(ErrZeroLength)
	}
	resolved := make([]Op, len(ops))
	for i, o := range ops {
		resolved[i] = asOp(o)
	}
	return foldKron(resolved)
}

func asOp(o any) Op {
	switch v := o.(type) {
	case Op:
		return v
	case mat.Matrix:
		return NewMatrixOperator(v)
	default:
		panic(fmt.Sprintf("operators: Kron: unsupported operand type %T", o))
	}
}

func foldKron(ops []Op) Op {
	if len(ops) == 1 {
		return ops[0]
	}
	if len(ops) == 2 {
		return NewTensorProductOperator(ops[0], ops[1])
	}
	return NewTensorProductOperator(ops[0], foldKron(ops[1:]))
}

func isIdentity(op Op) bool {
	_, ok := op.(*IdentityOperator)
	return ok
}

func (t *TensorProductOperator) Dims() (int, int) {
	mo, no := t.Outer.Dims()
	mi, ni := t.Inner.Dims()
	return mo * mi, no * ni
}

func (t *TensorProductOperator) IsLinear() bool { return true }

func (t *TensorProductOperator) IsConstant() bool {
	return IsConstant(t.Outer) && IsConstant(t.Inner)
}

// Adjoint distributes over the Kronecker product: (A⊗B)ᴴ = Aᴴ⊗Bᴴ.
func (t *TensorProductOperator) Adjoint() Op {
	return NewTensorProductOperator(t.Outer.Adjoint(), t.Inner.Adjoint())
}

// UpdateCoefficients forwards to both sub-operators.
func (t *TensorProductOperator) UpdateCoefficients(u mat.Matrix, p any, tVal float64) error {
	if err := UpdateCoefficients(t.Outer, u, p, tVal); err != nil {
		return err
	}
	return UpdateCoefficients(t.Inner, u, p, tVal)
}

func (t *TensorProductOperator) IsCached() bool { return t.cachedK != 0 }

// ConvertToMatrix materializes outer⊗inner as kron(convert(outer),
// convert(inner)), spec.md §4.5's "Materialization" rule, supporting the
// materialize.go ConvertToMatrix entry point.
func (t *TensorProductOperator) ConvertToMatrix() *mat.Dense {
	outerM, err := ConvertToMatrix(t.Outer)
	if err != nil {
		panic(err)
	}
	innerM, err := ConvertToMatrix(t.Inner)
	if err != nil {
		panic(err)
	}
	var k mat.Dense
	k.Kronecker(outerM, innerM)
	return &k
}

// CacheOperator allocates c1..c4 sized from a representative input u and
// forwards caching into the sub-operators (cache_internals, spec.md §4.5),
// using c2's shape as the representative input for outer.
func (t *TensorProductOperator) CacheOperator(u mat.Matrix) Op {
	mo, no := t.Outer.Dims()
	mi, ni := t.Inner.Dims()
	_, k := u.Dims()
	if t.cachedK == k {
		return t
	}
	t.c1 = mat.NewDense(mi, no*k, nil)
	t.c2 = mat.NewDense(no, mi*k, nil)
	t.c3 = mat.NewDense(mo, mi*k, nil)
	t.c4 = mat.NewDense(mo*mi, k, nil)
	t.cachedK = k
	if cacheableOuter, ok := t.Outer.(Cacheable); ok {
		t.Outer = cacheableOuter.CacheOperator(t.c2)
	}
	if cacheableInner, ok := t.Inner.(Cacheable); ok {
		rep := mat.NewDense(ni, no*k, nil)
		t.Inner = cacheableInner.CacheOperator(rep)
	}
	Logger.Debug().Str("op", "TensorProductOperator").Int("k", k).Msg("cache (re)allocated")
	return t
}

// kronReshape views a length-no·ni (per column) matrix u as a (ni, no·k)
// matrix without copying: column col of the view corresponds to outer-index
// col/k and batch-index col%k of u, and row a is u's row a+ni·(col/k) —
// the column-major vec(U) convention of spec.md §3, expressed as a gather
// rather than a materialized reshape so that the subsequent sub-operator
// Apply/Solve call (which, for a *mat.Dense receiver, falls back to an
// element-wise At loop for a non-Dense mat.Matrix argument) reads straight
// through to u with no allocation.
type kronReshape struct {
	src    mat.Matrix
	ni, no, k int
}

func (r *kronReshape) Dims() (int, int) { return r.ni, r.no * r.k }
func (r *kronReshape) At(a, col int) float64 {
	b := col / r.k
	c := col % r.k
	return r.src.At(a+b*r.ni, c)
}
func (r *kronReshape) T() mat.Matrix { return mat.Transpose{Matrix: r} }

// permuteAxes12 implements spec.md §4.5's (2,1,3) permute: src, viewed as a
// 3-tensor (d1, d2, k) with its last two axes collapsed column-major
// (col = b·k+c), is copied into dst viewed as (d2, d1, k) with the same
// collapsing convention. This is the strided copy the Design Notes call out
// as the implementation of the permute kernel.
func permuteAxes12(dst, src *mat.Dense, d1, d2, k int) {
	for a := 0; a < d1; a++ {
		for b := 0; b < d2; b++ {
			srcCol := b*k
			dstCol := a*k
			for c := 0; c < k; c++ {
				dst.Set(b, dstCol+c, src.At(a, srcCol+c))
			}
		}
	}
}

// scatterFinal gathers src, viewed as (d2, d1, k) with columns collapsed
// column-major (col = a·k+c), into the fully flattened dst of shape
// (d1·d2, k): dst[b·d1+a, c] = src[b, a·k+c] — the outer index b varies
// slowest, matching the column-major Kronecker-vec block convention (outer
// index selects the d1-row block). This implements the final "permute back
// and reshape to output shape" step of spec.md §4.5, whether src is outer's
// output (the forward direction, d1=mi, d2=mo) or outer⁻¹'s output (the
// solve direction, d1=ni, d2=no).
func scatterFinal(dst, src *mat.Dense, d1, d2, k int) {
	for a := 0; a < d1; a++ {
		for b := 0; b < d2; b++ {
			srcCol := a * k
			row := b*d1 + a
			for c := 0; c < k; c++ {
				dst.Set(row, c, src.At(b, srcCol+c))
			}
		}
	}
}

func actApply(variant string, op Op, src mat.Matrix, useCache bool, cacheBuf *mat.Dense) (*mat.Dense, error) {
	if useCache {
		a, ok := op.(InplaceApplier)
		if !ok {
			return nil, newOpError(variant, op, fmt.Errorf("%w: MulTo", ErrUnsupported))
		}
		if err := a.MulTo(cacheBuf, src); err != nil {
			return nil, err
		}
		return cacheBuf, nil
	}
	a, ok := op.(Applier)
	if !ok {
		return nil, newOpError(variant, op, fmt.Errorf("%w: Apply", ErrUnsupported))
	}
	return a.Apply(src)
}

func actSolve(variant string, op Op, src mat.Matrix, useCache bool, cacheBuf *mat.Dense) (*mat.Dense, error) {
	if useCache {
		s, ok := op.(InplaceSolver)
		if !ok {
			return nil, newOpError(variant, op, fmt.Errorf("%w: SolveTo", ErrUnsupported))
		}
		if err := s.SolveTo(cacheBuf, src); err != nil {
			return nil, err
		}
		return cacheBuf, nil
	}
	s, ok := op.(Solver)
	if !ok {
		return nil, newOpError(variant, op, fmt.Errorf("%w: Solve", ErrUnsupported))
	}
	return s.Solve(src)
}

// runForward implements spec.md §4.5's four apply steps, writing the result
// into dst (which may be freshly allocated, for the allocating Apply, or
// the caller's buffer, for the in-place forms).
func (t *TensorProductOperator) runForward(dst *mat.Dense, u mat.Matrix, useCache bool) error {
	mo, no := t.Outer.Dims()
	mi, ni := t.Inner.Dims()
	checkApplyDims(mo*mi, no*ni, u)
	if useCache && t.cachedK == 0 {
		return newOpError("TensorProductOperator", t, ErrCacheNotSet)
	}
	_, k := u.Dims()
	if useCache && t.cachedK != k {
		return newOpError("TensorProductOperator", t, ErrCacheNotSet)
	}

	view := &kronReshape{src: u, ni: ni, no: no, k: k}

	var c1buf *mat.Dense
	if useCache {
		c1buf = t.c1
	}
	c1, err := actApply("TensorProductOperator.Inner", t.Inner, view, useCache, c1buf)
	if err != nil {
		return err
	}

	// Fast path (spec.md §4.5 "Fast paths"): for k=1 the permute is a plain
	// transpose view, no strided copy needed.
	var c2 mat.Matrix
	if k == 1 {
		c2 = mat.Transpose{Matrix: c1}
	} else {
		var c2buf *mat.Dense
		if useCache {
			c2buf = t.c2
		} else {
			c2buf = getScratch(no, mi*k)
			defer putScratch(c2buf)
		}
		permuteAxes12(c2buf, c1, mi, no, k)
		c2 = c2buf
	}

	var c3 *mat.Dense
	if isIdentity(t.Outer) {
		if d, ok := c2.(*mat.Dense); ok {
			c3 = d
		} else if useCache {
			c3 = t.c3
			c3.CloneFrom(c2)
		} else {
			c3 = getScratch(no, mi*k)
			defer putScratch(c3)
			c3.CloneFrom(c2)
		}
	} else {
		var c3buf *mat.Dense
		if useCache {
			c3buf = t.c3
		}
		c3, err = actApply("TensorProductOperator.Outer", t.Outer, c2, useCache, c3buf)
		if err != nil {
			return err
		}
	}

	scatterFinal(dst, c3, mi, mo, k)
	return nil
}

// runSolve is runForward's mirror image: it applies inner⁻¹ in place of
// step 2 and outer⁻¹ in place of step 3, spec.md §4.5 "Solve". It requires
// Outer and Inner both square.
func (t *TensorProductOperator) runSolve(dst *mat.Dense, u mat.Matrix, useCache bool) error {
	mo, no := t.Outer.Dims()
	mi, ni := t.Inner.Dims()
	if mo != no || mi != ni {
		return newOpError("TensorProductOperator", t, ErrNotSquare)
	}
	checkSolveDims(mo*mi, no*ni, u)
	if useCache && t.cachedK != mustCols(u) {
		return newOpError("TensorProductOperator", t, ErrCacheNotSet)
	}
	_, k := u.Dims()

	view := &kronReshape{src: u, ni: mi, no: mo, k: k}

	var c1buf *mat.Dense
	if useCache {
		c1buf = t.c1
	}
	c1, err := actSolve("TensorProductOperator.Inner", t.Inner, view, useCache, c1buf)
	if err != nil {
		return err
	}

	var c2 mat.Matrix
	if k == 1 {
		c2 = mat.Transpose{Matrix: c1}
	} else {
		var c2buf *mat.Dense
		if useCache {
			c2buf = t.c2
		} else {
			c2buf = getScratch(mo, ni*k)
			defer putScratch(c2buf)
		}
		permuteAxes12(c2buf, c1, ni, mo, k)
		c2 = c2buf
	}

	var c3 *mat.Dense
	if isIdentity(t.Outer) {
		if d, ok := c2.(*mat.Dense); ok {
			c3 = d
		} else if useCache {
			c3 = t.c3
			c3.CloneFrom(c2)
		} else {
			c3 = getScratch(mo, ni*k)
			defer putScratch(c3)
			c3.CloneFrom(c2)
		}
	} else {
		var c3buf *mat.Dense
		if useCache {
			c3buf = t.c3
		}
		c3, err = actSolve("TensorProductOperator.Outer", t.Outer, c2, useCache, c3buf)
		if err != nil {
			return err
		}
	}

	scatterFinal(dst, c3, ni, no, k)
	return nil
}

func mustCols(u mat.Matrix) int {
	_, k := u.Dims()
	return k
}

// Apply returns (outer⊗inner)·u, allocating its own transient buffers
// regardless of cache state.
func (t *TensorProductOperator) Apply(u mat.Matrix) (*mat.Dense, error) {
	mo, _ := t.Outer.Dims()
	mi, _ := t.Inner.Dims()
	_, k := u.Dims()
	dst := mat.NewDense(mo*mi, k, nil)
	if err := t.runForward(dst, u, false); err != nil {
		return nil, err
	}
	return dst, nil
}

// MulTo writes v ← (outer⊗inner)·u; requires a cache sized for u's column
// count, spec.md §3's "cache_operator ... must be called before any
// in-place mul!/ldiv! on operators that require workspace (currently
// TensorProduct ...)".
func (t *TensorProductOperator) MulTo(v *mat.Dense, u mat.Matrix) error {
	return t.runForward(v, u, true)
}

// MulToScaled writes v ← α·(outer⊗inner)·u + β·v, snapshotting v into c4
// first (spec.md §4.5's "5-argument in-place mul!").
func (t *TensorProductOperator) MulToScaled(v *mat.Dense, u mat.Matrix, alpha, beta float64) error {
	if t.cachedK == 0 {
		return newOpError("TensorProductOperator", t, ErrCacheNotSet)
	}
	t.c4.CloneFrom(v)
	if err := t.runForward(v, u, true); err != nil {
		return err
	}
	v.Scale(alpha, v)
	var scaledOld mat.Dense
	scaledOld.Scale(beta, t.c4)
	v.Add(v, &scaledOld)
	return nil
}

// Solve returns (outer⊗inner)⁻¹·u, allocating its own transient buffers.
func (t *TensorProductOperator) Solve(u mat.Matrix) (*mat.Dense, error) {
	no, _ := t.Outer.Dims()
	ni, _ := t.Inner.Dims()
	_, k := u.Dims()
	dst := mat.NewDense(no*ni, k, nil)
	if err := t.runSolve(dst, u, false); err != nil {
		return nil, err
	}
	return dst, nil
}

// SolveTo writes v ← (outer⊗inner)⁻¹·u; requires a cache sized for u's
// column count.
func (t *TensorProductOperator) SolveTo(v *mat.Dense, u mat.Matrix) error {
	return t.runSolve(v, u, true)
}

// SolveInPlace writes u ← (outer⊗inner)⁻¹·u. Aliasing the source and
// destination is safe here because the pipeline only reads from u while
// building c1 (the first stage) and only writes into the destination in
// scatterFinal (the last stage), by which point u's data has already been
// fully consumed into c1/c2/c3.
func (t *TensorProductOperator) SolveInPlace(u *mat.Dense) error {
	return t.runSolve(u, u, true)
}

package operators

import (
	"errors"
	"fmt"
)

// Sentinel errors covering the fault taxonomy of spec.md §7. Shape faults
// (and zero-length construction) are programmer errors in this package
// (mirroring gonum/mat's own ErrShape/ErrZeroLength panics) and are raised
// via panic; faults that a caller may reasonably probe for at runtime — a
// missing capability, an uninitialized cache, a backend lacking a named
// factorization — are returned as errors so callers can recover.
var (
	// ErrShape indicates mismatched operator/operand dimensions.
	ErrShape = errors.New("operators: dimension mismatch")

	// ErrZeroLength indicates an operator or vector was constructed with
	// zero length where a positive length is required.
	ErrZeroLength = errors.New("operators: zero length")

	// ErrNotSquare indicates Solve or a related operation was invoked on a
	// non-square operator.
	ErrNotSquare = errors.New("operators: operator is not square")

	// ErrUnsupported indicates the invoked operation is not supported by
	// the operator's concrete variant (spec.md §7 "unsupported
	// capability").
	ErrUnsupported = errors.New("operators: operation not supported")

	// ErrCacheNotSet indicates an in-place operation requiring workspace
	// was invoked before cache_operator-equivalent setup (spec.md §7
	// "cache not initialized").
	ErrCacheNotSet = errors.New("operators: operator has no cache; call CacheOperator first")

	// ErrMissingAttribute indicates a required trait field (e.g. OpNorm) was
	// not supplied by the caller (spec.md §7 "missing required attribute").
	ErrMissingAttribute = errors.New("operators: required attribute not set")

	// ErrNotSupportedByBackend indicates a named factorization has no
	// corresponding public type in the backing gonum.org/v1/gonum/mat
	// package (e.g. Bunch-Kaufman/LDLᵀ as of the version this module
	// depends on). See DESIGN.md.
	ErrNotSupportedByBackend = errors.New("operators: factorization not implemented by backend")

	// ErrSingular is propagated when a backing factorization or solve
	// fails because the operand is numerically singular.
	ErrSingular = errors.New("operators: matrix is singular or near-singular")
)

// OpError decorates a sentinel fault with the concrete operator variant and
// shape, per spec.md §7's "user-visible failures carry the operator's
// concrete variant and shape for diagnosis".
type OpError struct {
	Variant string
	M, N    int
	Err     error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("operators: %s (%d×%d): %v", e.Variant, e.M, e.N, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// newOpError builds an OpError for op, wrapping err.
func newOpError(variant string, op Op, err error) error {
	m, n := op.Dims()
	return &OpError{Variant: variant, M: m, N: n, Err: err}
}

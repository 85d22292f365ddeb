// Package operators implements a composable algebra of linear and affine
// operators suitable for use inside iterative solvers of differential and
// algebraic equations. An operator provides a uniform interface — apply,
// solve, adjoint, factorization — over representations ranging from a dense
// or sparse matrix to a matrix-free function to a lazy Kronecker product of
// other operators. Operators are time- and parameter-dependent: a caller may
// refresh an operator's coefficients via UpdateCoefficients before each
// application.
//
// The backing dense/sparse matrix representation and its factorizations are
// supplied by gonum.org/v1/gonum/mat; this package builds the operator
// algebra layer on top of it rather than reimplementing linear-algebra
// kernels.
package operators

import (
	"gonum.org/v1/gonum/mat"

	"github.com/sciml-go/operators/config"
)

// activeConfig holds the tunable defaults consulted by the factorization
// and caching layers (condition-number tolerance, workspace size-class
// floor, default SVD rank), spec.md's ambient "Configuration" stack.
// Configure overrides it; by default it is config.Default().
var activeConfig = config.Default()

// Configure overrides the package's tunable defaults, e.g. with a value
// loaded via config.Load.
func Configure(cfg config.Config) { activeConfig = cfg }

// Op is the interface implemented by every operator variant: MatrixOperator,
// InvertibleOperator, AffineOperator, FunctionOperator, TensorProductOperator,
// and the Adjoint/Transpose wrappers.
//
// Apply, solve, and in-place variants are not part of this common interface
// because not every operator supports every operation; callers query
// availability through the capability predicates in traits.go and type-assert
// to the corresponding optional interface (Applier, Solver, ...).
type Op interface {
	// Dims returns the operator's shape (m, n): it maps an n-vector to an
	// m-vector.
	Dims() (m, n int)

	// Adjoint returns an operator equal to the conjugate-transpose (for the
	// real operators this package implements, the transpose) of the
	// receiver. If the receiver declares itself self-adjoint, Adjoint
	// returns the receiver itself (see IsHermitian/IsSymmetric).
	Adjoint() Op

	// IsLinear reports whether the operator represents a linear map
	// (u ↦ A·u) as opposed to an affine one (u ↦ A·u + b).
	IsLinear() bool
}

// IsSquare reports whether op maps vectors of its own output length back to
// itself, a precondition for Solve.
func IsSquare(op Op) bool {
	m, n := op.Dims()
	return m == n
}

// EType returns the scalar element type of every operator in this package:
// float64. The backing gonum/mat matrices and factorizations are all
// float64-valued; see DESIGN.md for why a generic scalar type was not
// pursued.
func EType() string { return "float64" }

// checkApplyDims panics with ErrShape unless u has n rows, matching op's
// input dimension, for an operator of shape (m, n).
func checkApplyDims(m, n int, u mat.Matrix) {
	ur, _ := u.Dims()
	if ur != n {
		panic(ErrShape)
	}
}

// checkSolveDims panics with ErrShape unless u has m rows, matching op's
// output dimension, for an operator of shape (m, n).
func checkSolveDims(m, n int, u mat.Matrix) {
	ur, _ := u.Dims()
	if ur != m {
		panic(ErrShape)
	}
}

package operators

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// randDense returns an m×n matrix of independent standard-normal entries,
// seeded deterministically — spec.md §8's "random generator seed 0",
// implemented with math/rand/v2's rand.NewPCG the way gonum/mat's own
// TestQR seeds its random matrices (_teacher_ref/mat/qr_test.go).
func randDense(seed uint64, m, n int) *mat.Dense {
	rnd := rand.New(rand.NewPCG(seed, seed))
	d := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			d.Set(i, j, rnd.NormFloat64())
		}
	}
	return d
}

// randSymDense returns a random symmetric n×n matrix.
func randSymDense(seed uint64, n int) *mat.Dense {
	a := randDense(seed, n, n)
	var sym mat.Dense
	sym.Add(a, a.T())
	sym.Scale(0.5, &sym)
	return &sym
}

// randPosDef returns a random symmetric positive-definite n×n matrix via
// AᵀA + nI.
func randPosDef(seed uint64, n int) *mat.Dense {
	a := randDense(seed, n, n)
	var ata mat.Dense
	ata.Mul(a.T(), a)
	for i := 0; i < n; i++ {
		ata.Set(i, i, ata.At(i, i)+float64(n))
	}
	return &ata
}

package operators

import (
	"math/bits"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// This file provides two distinct allocation-avoidance mechanisms, spec.md
// §4.8's "Cache protocol":
//
//   - Per-operator persistent workspace (TensorProductOperator's c1..c4,
//     FunctionOperator's cache field) is allocated directly by each
//     operator's CacheOperator and owned by the operator value for its
//     lifetime — spec.md's "workspace is owned by the operator value
//     returned from cache_operator", so it is not pooled here.
//   - Transient scratch buffers needed only for the duration of a single
//     allocating (non-cached) Apply/Solve call are drawn from the
//     size-stratified sync.Pool below, grounded directly on
//     _teacher_ref/mat/pool.go's getWorkspace/putWorkspace scheme, adapted
//     to operate through mat.Dense's public RawMatrix/SetRawMatrix rather
//     than the unexported Dense.mat field the teacher's own package-internal
//     version can reach directly.

// scratchFor returns the ceiling of base-2 log of size, indexing into
// scratchPool the same way the teacher's poolFor indexes into pool.
func scratchFor(size uint) int {
	if size == 0 {
		return 0
	}
	return bits.Len(size - 1)
}

// scratchPool holds size-stratified []float64 buffers for getScratch.
var scratchPool [63]sync.Pool

func init() {
	for i := range scratchPool {
		l := 1 << uint(i)
		scratchPool[i].New = func() any {
			s := make([]float64, l)
			return &s
		}
	}
}

// getScratch returns an r×c *mat.Dense backed by a pooled, zeroed
// []float64 slice. Callers that no longer need the buffer should return it
// with putScratch.
func getScratch(r, c int) *mat.Dense {
	l := r * c
	if l == 0 {
		return mat.NewDense(r, c, nil)
	}
	floor := activeConfig.PoolMinClassElems
	bucketSize := l
	if floor > bucketSize {
		bucketSize = floor
	}
	sp := scratchPool[scratchFor(uint(bucketSize))].Get().(*[]float64)
	data := (*sp)[:l]
	for i := range data {
		data[i] = 0
	}
	return mat.NewDense(r, c, data)
}

// putScratch returns d's backing storage to the pool. d must not be used
// afterward. It reslices to the backing array's full capacity before
// filing it, matching the bucket getScratch drew it from (which may exceed
// d's own r×c when activeConfig.PoolMinClassElems rounded the request up).
func putScratch(d *mat.Dense) {
	raw := d.RawMatrix()
	full := raw.Data[:cap(raw.Data)]
	if len(full) == 0 {
		return
	}
	scratchPool[scratchFor(uint(len(full)))].Put(&full)
}

package infer

import (
	"sort"
	"strings"

	"github.com/AUST-Hansen/pyro/internal/tensor"
)

// MultiViewTensor accumulates tensors of heterogeneous shapes.
//
// Each entry holds the running element-wise sum of every term added under
// that exact shape, keyed by the shape's canonical form. Terms of different
// shapes stay separate until Contract/ContractAs reduces them all toward a
// single target. Accumulation is order-independent.
//
// Example:
//
//	downstreamCost := infer.NewMultiViewTensor(cost)
//	for _, node := range downstreamNodes {
//		downstreamCost.Merge(node.Cost.SumLeftmostAllBut(dims))
//	}
//	total := downstreamCost.ContractAs(logProb)
type MultiViewTensor map[string]*tensor.Tensor

// NewMultiViewTensor creates an accumulator, optionally seeded with one
// term. A nil value yields an empty accumulator.
func NewMultiViewTensor(value *tensor.Tensor) MultiViewTensor {
	m := MultiViewTensor{}
	if value != nil {
		m.Add(value)
	}
	return m
}

// Add merges a term into the entry for its exact shape: element-wise add
// when the shape is already present, insert otherwise.
func (m MultiViewTensor) Add(term *tensor.Tensor) {
	key := term.Shape().Key()
	if existing, ok := m[key]; ok {
		m[key] = existing.Add(term)
	} else {
		m[key] = term
	}
}

// Merge adds every entry of other into m, shape by shape.
func (m MultiViewTensor) Merge(other MultiViewTensor) {
	for _, term := range other {
		m.Add(term)
	}
}

// SumLeftmostAllBut returns a new accumulator where each stored term keeps
// only its last dim dimensions, everything to the left summed out. dim == 0
// collapses every term to a rank-0 sum; terms of rank no greater than dim
// are kept unchanged. The receiver is not mutated.
func (m MultiViewTensor) SumLeftmostAllBut(dim int) MultiViewTensor {
	if dim < 0 {
		panic("multiview: SumLeftmostAllBut requires dim >= 0")
	}
	result := MultiViewTensor{}
	for _, term := range m {
		switch {
		case dim == 0:
			result.Add(term.Sum())
		case dim > term.Rank():
			result.Add(term)
		default:
			result.Add(term.SumLeftmost(term.Rank() - dim))
		}
	}
	return result
}

// ContractAs sums every stored term reduced toward target's shape.
// Opposite of Tensor.Expand. An empty accumulator contracts to the plain
// number zero (returned as float64), never to a fabricated zero tensor,
// because no shape is known for one.
func (m MultiViewTensor) ContractAs(target *tensor.Tensor) any {
	return m.Contract(target.Shape())
}

// Contract sums every stored term reduced toward shape. See ContractAs.
func (m MultiViewTensor) Contract(shape tensor.Shape) any {
	if len(m) == 0 {
		return float64(0)
	}
	var total *tensor.Tensor
	for _, term := range m {
		reduced := ReduceToShape(term, shape)
		if total == nil {
			total = reduced
		} else {
			total = total.Add(reduced)
		}
	}
	return total
}

// String lists the stored shapes, e.g. "MultiViewTensor(2x3, 4)".
func (m MultiViewTensor) String() string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return "MultiViewTensor(" + strings.Join(keys, ", ") + ")"
}

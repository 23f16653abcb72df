package infer

import (
	"github.com/AUST-Hansen/pyro/internal/tensor"
)

// ReduceToTarget sums source down toward the shape of target. It is the
// opposite of Tensor.Expand: excess leading dimensions are summed away and
// any trailing dimension where source is wider than target is summed with
// the dimension kept at size 1.
//
// The result is broadcast-compatible with target. A source that is already
// no wider than target in every dimension is returned unchanged.
func ReduceToTarget(source, target *tensor.Tensor) *tensor.Tensor {
	return ReduceToShape(source, target.Shape())
}

// ReduceToShape sums source down toward shape. See ReduceToTarget.
//
// Trailing axes are matched by counting from the end, so the target having
// more dimensions than source needs no special handling. Shape-incompatible
// reductions surface as panics from the tensor layer.
func ReduceToShape(source *tensor.Tensor, shape tensor.Shape) *tensor.Tensor {
	for source.Rank() > len(shape) {
		source = source.SumDim(0, false)
	}
	for k := 1; k <= source.Rank(); k++ {
		if source.Shape()[source.Rank()-k] > shape[len(shape)-k] {
			source = source.SumDim(-k, true)
		}
	}
	return source
}

package tensor

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Add performs element-wise addition with broadcasting.
// Panics if the shapes are not broadcast-compatible.
//
// Example:
//
//	a := tensor.Ones(Shape{3, 1})
//	b := tensor.Ones(Shape{3, 5})
//	c := a.Add(b) // Shape: (3, 5) (broadcasted)
func (t *Tensor) Add(other *Tensor) *Tensor {
	out := addK(t, other)
	if t.tracked() || other.tracked() {
		a, b := t, other
		out.node = &node{
			inputs: []*Tensor{a, b},
			backward: func(g *Tensor) {
				a.accumGrad(reduceGradK(g, a.shape))
				b.accumGrad(reduceGradK(g, b.shape))
			},
		}
	}
	return out
}

// Mul performs element-wise multiplication with broadcasting.
// Panics if the shapes are not broadcast-compatible.
func (t *Tensor) Mul(other *Tensor) *Tensor {
	out := mulK(t, other)
	if t.tracked() || other.tracked() {
		a, b := t, other
		out.node = &node{
			inputs: []*Tensor{a, b},
			backward: func(g *Tensor) {
				a.accumGrad(reduceGradK(mulK(g, b), a.shape))
				b.accumGrad(reduceGradK(mulK(g, a), b.shape))
			},
		}
	}
	return out
}

// AddScalar adds a scalar to every element.
func (t *Tensor) AddScalar(scalar float64) *Tensor {
	out := t.Clone()
	floats.AddConst(scalar, out.data)
	if t.tracked() {
		a := t
		out.node = &node{
			inputs:   []*Tensor{a},
			backward: func(g *Tensor) { a.accumGrad(g) },
		}
	}
	return out
}

// MulScalar multiplies every element by a scalar.
func (t *Tensor) MulScalar(scalar float64) *Tensor {
	out := t.Clone()
	floats.Scale(scalar, out.data)
	if t.tracked() {
		a := t
		out.node = &node{
			inputs:   []*Tensor{a},
			backward: func(g *Tensor) { a.accumGrad(scaleK(g, scalar)) },
		}
	}
	return out
}

// Exp computes the exponential (e^x) of each element.
func (t *Tensor) Exp() *Tensor {
	out := t.Clone()
	for i, v := range out.data {
		out.data[i] = math.Exp(v)
	}
	if t.tracked() {
		a, res := t, out
		out.node = &node{
			inputs:   []*Tensor{a},
			backward: func(g *Tensor) { a.accumGrad(mulK(g, res)) },
		}
	}
	return out
}

// Sum computes the sum of all elements, returning a rank-0 tensor.
func (t *Tensor) Sum() *Tensor {
	out := Scalar(floats.Sum(t.data))
	if t.tracked() {
		a := t
		out.node = &node{
			inputs:   []*Tensor{a},
			backward: func(g *Tensor) { a.accumGrad(Full(a.shape, g.Item())) },
		}
	}
	return out
}

// SumDim sums tensor elements along the specified dimension.
//
// Parameters:
//   - dim: dimension to reduce (supports negative indexing: -1 = last dim)
//   - keepDim: if true, keep the reduced dimension with size 1; if false, remove it
//
// Example:
//
//	x := tensor.Ones(Shape{2, 3, 4})
//	y := x.SumDim(-1, true)  // shape: (2, 3, 1)
//	z := x.SumDim(-1, false) // shape: (2, 3)
func (t *Tensor) SumDim(dim int, keepDim bool) *Tensor {
	ndim := len(t.shape)
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumdim: dimension %d out of range for %dD tensor", dim, ndim))
	}

	out := sumDimK(t, dim, keepDim)
	if t.tracked() {
		a := t
		kept := t.shape.Clone()
		kept[dim] = 1
		out.node = &node{
			inputs: []*Tensor{a},
			backward: func(g *Tensor) {
				gk := g
				if !keepDim {
					gk = reshapeK(g, kept)
				}
				a.accumGrad(expandK(gk, a.shape))
			},
		}
	}
	return out
}

// SumLeftmost sums out the leftmost n dimensions.
// n <= 0 returns the tensor unchanged; n >= rank reduces to a rank-0 sum.
//
// Example:
//
//	x := tensor.Ones(Shape{2, 3, 4})
//	y := x.SumLeftmost(2) // shape: (4)
func (t *Tensor) SumLeftmost(n int) *Tensor {
	if n <= 0 {
		return t
	}
	if n >= len(t.shape) {
		return t.Sum()
	}
	out := t
	for i := 0; i < n; i++ {
		out = out.SumDim(0, false)
	}
	return out
}

// Expand broadcasts the tensor to a new shape.
//
// The new shape must be compatible with the current shape according to
// NumPy broadcasting rules: axes are matched from the end and every
// existing dimension must be equal to the target or have size 1.
// Panics if the shapes are incompatible.
//
// Example:
//
//	x := tensor.Ones(Shape{1, 3})
//	y := x.Expand(Shape{5, 3}) // broadcast to (5, 3)
func (t *Tensor) Expand(shape Shape) *Tensor {
	if err := checkExpandable(t.shape, shape); err != nil {
		panic(fmt.Sprintf("expand: %v", err))
	}
	out := expandK(t, shape)
	if t.tracked() {
		a := t
		out.node = &node{
			inputs: []*Tensor{a},
			backward: func(g *Tensor) {
				a.accumGrad(reduceGradK(g, a.shape))
			},
		}
	}
	return out
}

// checkExpandable reports whether src can be broadcast to dst.
func checkExpandable(src, dst Shape) error {
	if len(src) > len(dst) {
		return errors.Errorf("cannot expand shape %v to lower-rank shape %v", src, dst)
	}
	for k := 1; k <= len(src); k++ {
		s := src[len(src)-k]
		d := dst[len(dst)-k]
		if s != d && s != 1 {
			return errors.Errorf("cannot expand shape %v to %v: dimension %d (size %d) is neither 1 nor %d",
				src, dst, len(dst)-k, s, d)
		}
	}
	return nil
}

// ============================================================================
// Kernels
//
// Pure data-level implementations with no autodiff bookkeeping; the backward
// closures above reuse them without re-recording history.
// ============================================================================

func addK(a, b *Tensor) *Tensor {
	if a.shape.Equal(b.shape) {
		out := Zeros(a.shape)
		floats.AddTo(out.data, a.data, b.data)
		return out
	}
	return binaryK(a, b, func(x, y float64) float64 { return x + y })
}

func mulK(a, b *Tensor) *Tensor {
	if a.shape.Equal(b.shape) {
		out := Zeros(a.shape)
		floats.MulTo(out.data, a.data, b.data)
		return out
	}
	return binaryK(a, b, func(x, y float64) float64 { return x * y })
}

// binaryK applies op element-wise with full broadcasting.
// Panics with the broadcast error if the shapes are incompatible.
func binaryK(a, b *Tensor, op func(x, y float64) float64) *Tensor {
	outShape, _, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		panic(err.Error())
	}
	out := Zeros(outShape)
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.shape, outShape)
	bStrides := broadcastStrides(b.shape, outShape)
	for i := range out.data {
		out.data[i] = op(a.data[flatIndex(i, outStrides, aStrides)], b.data[flatIndex(i, outStrides, bStrides)])
	}
	return out
}

func scaleK(t *Tensor, scalar float64) *Tensor {
	out := t.Clone()
	floats.Scale(scalar, out.data)
	return out
}

// sumDimK reduces dimension dim (already normalized) by summation.
func sumDimK(t *Tensor, dim int, keepDim bool) *Tensor {
	shape := t.shape
	ndim := len(shape)

	var outShape Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = make(Shape, 0, ndim-1)
		for i := 0; i < ndim; i++ {
			if i != dim {
				outShape = append(outShape, shape[i])
			}
		}
	}
	out := Zeros(outShape)

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	dimSize := shape[dim]
	inner := 1
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}

	for o := 0; o < outer; o++ {
		dst := out.data[o*inner : (o+1)*inner]
		for d := 0; d < dimSize; d++ {
			src := t.data[(o*dimSize+d)*inner : (o*dimSize+d+1)*inner]
			floats.Add(dst, src)
		}
	}
	return out
}

// reshapeK returns a view of t with a new shape of equal element count.
func reshapeK(t *Tensor, shape Shape) *Tensor {
	if shape.NumElements() != len(t.data) {
		panic(fmt.Sprintf("reshape: shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(t.data)))
	}
	return &Tensor{data: t.data, shape: shape.Clone()}
}

// expandK materializes a broadcast of t to shape. Caller validates.
func expandK(t *Tensor, shape Shape) *Tensor {
	out := Zeros(shape)
	outStrides := shape.ComputeStrides()
	inStrides := broadcastStrides(t.shape, shape)
	for i := range out.data {
		out.data[i] = t.data[flatIndex(i, outStrides, inStrides)]
	}
	return out
}

// reduceGradK sums a gradient produced under broadcasting back down to the
// shape of the input it belongs to: excess leading axes are summed away and
// axes that were broadcast from size 1 are summed with the dimension kept.
func reduceGradK(g *Tensor, target Shape) *Tensor {
	for len(g.shape) > len(target) {
		g = sumDimK(g, 0, false)
	}
	for k := 1; k <= len(g.shape); k++ {
		if g.shape[len(g.shape)-k] > target[len(target)-k] {
			g = sumDimK(g, len(g.shape)-k, true)
		}
	}
	return g
}

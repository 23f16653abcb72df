package tensor

import (
	"fmt"

	"github.com/pkg/errors"
)

// Tensor is a dense float64 tensor with a row-major memory layout.
//
// It doubles as a node in an autodiff graph: operations performed on a
// tensor that requires gradients record a backward closure, and calling
// Backward on a scalar result accumulates gradients into every
// participating tensor's Grad.
type Tensor struct {
	data  []float64
	shape Shape

	grad         *Tensor
	requiresGrad bool
	node         *node // non-nil iff produced by a tracked operation
}

// New creates a tensor that takes ownership of data.
// The length of data must match the number of elements of shape.
func New(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "new tensor")
	}
	if shape.NumElements() != len(data) {
		return nil, errors.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	return &Tensor{data: data, shape: shape.Clone()}, nil
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	buf := make([]float64, len(data))
	copy(buf, data)
	return New(buf, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return &Tensor{data: make([]float64, shape.NumElements()), shape: shape.Clone()}
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float64) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Scalar creates a rank-0 tensor holding a single value.
// Scalars participate in every operation: Sum and Exp degrade to ordinary
// arithmetic and broadcasting expands them to any shape.
func Scalar(value float64) *Tensor {
	return &Tensor{data: []float64{value}, shape: Shape{}}
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the tensor's backing slice (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Item returns the scalar value of a 0-D tensor.
// Panics if the tensor is not a scalar.
func (t *Tensor) Item() float64 {
	if len(t.shape) != 0 || len(t.data) != 1 {
		panic(fmt.Sprintf("Item() only works for scalar tensors, got shape %v", t.shape))
	}
	return t.data[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.offsetOf(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) Set(value float64, indices ...int) {
	t.data[t.offsetOf(indices)] = value
}

func (t *Tensor) offsetOf(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}
	offset := 0
	strides := t.shape.ComputeStrides()
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * strides[i]
	}
	return offset
}

// Clone creates a deep copy of the tensor.
// The copy carries no gradient state and no autodiff history.
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &Tensor{data: data, shape: t.shape.Clone()}
}

// Detach returns a tensor that shares the same data but has no gradient
// tracking. Operations on the detached tensor are not recorded.
func (t *Tensor) Detach() *Tensor {
	return &Tensor{data: t.data, shape: t.shape}
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v%v", t.shape, t.data)
}

// RequireGrad marks this tensor for gradient computation. Subsequent
// operations involving it are recorded for the backward pass.
//
// Returns the tensor itself for method chaining.
func (t *Tensor) RequireGrad() *Tensor {
	t.requiresGrad = true
	return t
}

// RequiresGrad returns true if this tensor requires gradient computation.
func (t *Tensor) RequiresGrad() bool {
	return t.requiresGrad
}

// Grad returns the gradient tensor accumulated by Backward, or nil.
func (t *Tensor) Grad() *Tensor {
	return t.grad
}

// SetGrad sets the gradient tensor.
func (t *Tensor) SetGrad(grad *Tensor) {
	t.grad = grad
}

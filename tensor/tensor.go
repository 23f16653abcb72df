// Copyright 2025 The Pyro-Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/AUST-Hansen/pyro/internal/tensor"
)

// Type aliases for the public API.

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
// An empty Shape denotes a scalar.
type Shape = tensor.Shape

// Tensor is a dense float64 tensor with autodiff support.
//
// Example:
//
//	x := tensor.Ones(tensor.Shape{2, 3})
//	y := tensor.Full(tensor.Shape{2, 3}, 0.5)
//	z := x.Add(y) // element-wise addition
type Tensor = tensor.Tensor

// Creation functions

// New creates a tensor that takes ownership of data.
func New(data []float64, shape Shape) (*Tensor, error) {
	return tensor.New(data, shape)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	data := []float64{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3})
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return tensor.Ones(shape)
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float64) *Tensor {
	return tensor.Full(shape, value)
}

// Scalar creates a rank-0 tensor holding a single value.
func Scalar(value float64) *Tensor {
	return tensor.Scalar(value)
}

// Utility functions

// BroadcastShapes computes the broadcast shape for two shapes following
// NumPy broadcasting rules. Returns the resulting shape, a flag indicating
// whether broadcasting is needed, and an error when incompatible.
//
// Example:
//
//	resultShape, needsBroadcast, err := tensor.BroadcastShapes(
//	    tensor.Shape{3, 1},
//	    tensor.Shape{3, 4},
//	)
//	// resultShape = (3, 4), needsBroadcast = true
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

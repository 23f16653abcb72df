// Copyright 2025 The Pyro-Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package infer

import (
	"github.com/AUST-Hansen/pyro/internal/infer"
	"github.com/AUST-Hansen/pyro/internal/tensor"
)

// Type aliases for the public API.

// MultiViewTensor accumulates tensors of heterogeneous shapes, keyed by
// shape, and contracts them toward a target shape.
type MultiViewTensor = infer.MultiViewTensor

// TreeSum computes memoized cumulative sums along paths in a tree.
type TreeSum = infer.TreeSum

// Path identifies a tree node; prefixes denote ancestors.
type Path = infer.Path

// Entry is one (path, upstream value) pair returned by TreeSum.Items.
type Entry = infer.Entry

// NewMultiViewTensor creates an accumulator, optionally seeded with one
// term (nil for empty).
func NewMultiViewTensor(value *tensor.Tensor) MultiViewTensor {
	return infer.NewMultiViewTensor(value)
}

// NewTreeSum creates an empty, mutable TreeSum.
func NewTreeSum() *TreeSum {
	return infer.NewTreeSum()
}

// ReduceToTarget sums source down toward the shape of target, reversing
// broadcast expansion.
func ReduceToTarget(source, target *tensor.Tensor) *tensor.Tensor {
	return infer.ReduceToTarget(source, target)
}

// ReduceToShape sums source down toward shape, reversing broadcast
// expansion.
func ReduceToShape(source *tensor.Tensor, shape tensor.Shape) *tensor.Tensor {
	return infer.ReduceToShape(source, shape)
}

// Number-or-tensor helpers. Each accepts a float64 or a *tensor.Tensor and
// degrades to ordinary arithmetic for numbers.

// Exp is like Tensor.Exp but also accepts a plain number.
func Exp(x any) any { return infer.Exp(x) }

// Sum is like Tensor.Sum but also accepts a plain number.
func Sum(x any) any { return infer.Sum(x) }

// DataSum reduces a number or tensor to a plain float64 total, outside of
// any gradient tracking.
func DataSum(x any) float64 { return infer.DataSum(x) }

// Backward is like Tensor.Backward and a no-op for plain numbers and nil.
func Backward(x any) { infer.Backward(x) }

// Add sums two number-or-tensor values; nil is the additive identity.
func Add(x, y any) any { return infer.Add(x, y) }

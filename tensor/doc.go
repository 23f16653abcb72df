// Copyright 2025 The Pyro-Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 tensor used throughout the
// module: NumPy-style shapes and broadcasting, axis reductions with
// optional dimension retention, element-wise math, and a small
// reverse-mode autodiff so scalar costs can be backpropagated.
package tensor

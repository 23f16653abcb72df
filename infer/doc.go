// Copyright 2025 The Pyro-Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package infer aggregates partial cost terms into per-node gradient
// signals for score-function (stochastic gradient) estimators.
//
// Cost terms arrive at different nodes of a sampling-dependency tree and
// at different tensor shapes, depending on which plate (independent
// sample) dimensions they were computed under. Two structures do the
// bookkeeping:
//
//   - TreeSum accumulates per-node terms keyed by tree path and answers
//     upstream (ancestor-inclusive) sum queries with memoization. It
//     freezes on the first query and supports selective pruning afterward.
//   - MultiViewTensor accumulates terms keyed by their exact shape and
//     contracts them toward a target shape by reversing broadcast
//     expansion (ReduceToShape / ReduceToTarget).
//
// Both structures are single-pass utilities: one instance per gradient
// step, owned by a single goroutine, discarded after use.
package infer

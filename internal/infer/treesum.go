package infer

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/AUST-Hansen/pyro/internal/tensor"
)

// Path identifies a node in a dependency tree as an ordered sequence of
// labels. The parent of a non-empty path is the path without its last
// element; the root is the empty path. Every prefix of a path denotes an
// ancestor.
type Path []string

// Parent returns the path of the node's parent.
// Panics on the root path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		panic("treesum: the root path has no parent")
	}
	return p[:len(p)-1]
}

// key returns the canonical map key for the path. Labels are joined with a
// unit separator so that distinct paths never collide; labels must not
// contain '\x1f'.
func (p Path) key() string {
	return strings.Join(p, "\x1f")
}

// String returns a human-readable form, e.g. "(outer, inner)".
func (p Path) String() string {
	return "(" + strings.Join(p, ", ") + ")"
}

// Entry is one (path, upstream value) pair returned by TreeSum.Items.
// A nil Value denotes the additive identity.
type Entry struct {
	Path  Path
	Value *tensor.Tensor
}

// TreeSum computes cumulative sums along paths in a tree: the upstream
// value of a node is its own local term plus the terms of all its
// ancestors. Typical keys are stacks of plate (independent-sample) labels.
//
// A TreeSum starts mutable and freezes permanently on the first upstream
// query (Upstream, Items or Exp): upstream values are memoized, so a later
// Add would silently corrupt the cache and is therefore rejected with a
// panic. After freezing, consumed nodes may be discarded with Prune.
type TreeSum struct {
	terms    map[string]treeNode
	upstream map[string]treeNode
	frozen   bool
}

// treeNode carries the decoded path alongside the value so Items can
// return real paths rather than encoded keys. A nil value in the upstream
// map is a memoized "absent" (the additive identity, distinct from a zero
// tensor whose shape would have to be invented).
type treeNode struct {
	path  Path
	value *tensor.Tensor
}

// NewTreeSum creates an empty, mutable TreeSum.
func NewTreeSum() *TreeSum {
	return &TreeSum{
		terms:    make(map[string]treeNode),
		upstream: make(map[string]treeNode),
	}
}

// Copy returns a shallow copy: both maps and the frozen flag are
// duplicated, so the copies evolve independently.
func (ts *TreeSum) Copy() *TreeSum {
	return &TreeSum{
		terms:    maps.Clone(ts.terms),
		upstream: maps.Clone(ts.upstream),
		frozen:   ts.frozen,
	}
}

// Add merges a local term into the node at path: element-wise add when the
// node already holds a term, insert otherwise. The final per-node sums do
// not depend on the order of Add calls.
//
// Panics once the TreeSum is frozen.
func (ts *TreeSum) Add(path Path, value *tensor.Tensor) {
	if ts.frozen {
		panic("treesum: cannot Add after Upstream/Items/Exp (structure is frozen)")
	}
	if value == nil {
		panic(fmt.Sprintf("treesum: nil value added at %v", path))
	}
	key := path.key()
	if existing, ok := ts.terms[key]; ok {
		ts.terms[key] = treeNode{path: existing.path, value: existing.value.Add(value)}
	} else {
		ts.terms[key] = treeNode{path: slices.Clone(path), value: value}
	}
}

// Upstream returns the sum of the local term at path plus the local terms
// of every ancestor, or nil when the node and all its ancestors are empty.
// nil denotes zero.
//
// The first call (for any path) freezes the TreeSum. Results are memoized:
// each node's upstream value is computed at most once.
func (ts *TreeSum) Upstream(path Path) *tensor.Tensor {
	ts.frozen = true

	if n, ok := ts.upstream[path.key()]; ok {
		return n.value
	}

	// Deepest ancestor whose upstream value is already cached.
	cached := -1
	for d := len(path) - 1; d >= 0; d-- {
		if _, ok := ts.upstream[path[:d].key()]; ok {
			cached = d
			break
		}
	}

	var running *tensor.Tensor
	if cached >= 0 {
		running = ts.upstream[path[:cached].key()].value
	}
	for d := cached + 1; d <= len(path); d++ {
		prefix := path[:d]
		if local, ok := ts.terms[prefix.key()]; ok {
			if running == nil {
				running = local.value
			} else {
				running = running.Add(local.value)
			}
		}
		ts.upstream[prefix.key()] = treeNode{path: slices.Clone(prefix), value: running}
	}
	return running
}

// freeze computes the upstream value of every node that has a local term.
func (ts *TreeSum) freeze() {
	for _, n := range ts.terms {
		ts.Upstream(n.path)
	}
	ts.frozen = true
}

// Items freezes the TreeSum and returns every cached upstream entry,
// sorted by path. Every node with a local term is present; ancestor-only
// nodes appear when their upstream value was forced along the way.
func (ts *TreeSum) Items() []Entry {
	ts.freeze()
	items := make([]Entry, 0, len(ts.upstream))
	for _, n := range ts.upstream {
		items = append(items, Entry{Path: n.path, Value: n.value})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Path.key() < items[j].Path.key()
	})
	return items
}

// Exp freezes the TreeSum and returns a new, already-frozen TreeSum whose
// upstream cache holds exp(upstream) for exactly the nodes that had a
// local term. The result is a flat lookup table, not an additive tree:
// exponentials do not sum along paths, which is also what keeps Prune on
// the result safe.
func (ts *TreeSum) Exp() *TreeSum {
	ts.freeze()
	result := NewTreeSum()
	for key, local := range ts.terms {
		up := ts.upstream[key]
		result.upstream[key] = treeNode{path: local.path, value: up.value.Exp()}
	}
	result.frozen = true
	return result
}

// Prune removes the node at path from both the local terms and the
// upstream cache, discarding a contribution once it has been consumed.
// Pruning an absent path is a no-op; pruning twice equals pruning once.
//
// Panics if the TreeSum has not been frozen yet.
func (ts *TreeSum) Prune(path Path) {
	if !ts.frozen {
		panic("treesum: cannot Prune before freezing")
	}
	key := path.key()
	delete(ts.upstream, key)
	delete(ts.terms, key)
}

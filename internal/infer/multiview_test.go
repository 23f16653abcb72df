package infer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AUST-Hansen/pyro/internal/infer"
	"github.com/AUST-Hansen/pyro/internal/tensor"
)

func mustTensor(t *testing.T, data []float64, shape tensor.Shape) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return x
}

func TestMultiViewAddMergesSameShape(t *testing.T) {
	m := infer.NewMultiViewTensor(nil)
	m.Add(mustTensor(t, []float64{1, 2}, tensor.Shape{2}))
	m.Add(mustTensor(t, []float64{3, 4}, tensor.Shape{2}))

	result := m.Contract(tensor.Shape{2})

	total, ok := result.(*tensor.Tensor)
	require.True(t, ok, "non-empty contraction must yield a tensor")
	assert.InDelta(t, 4.0, total.At(0), 1e-9)
	assert.InDelta(t, 6.0, total.At(1), 1e-9)
}

func TestMultiViewKeepsShapesSeparate(t *testing.T) {
	m := infer.NewMultiViewTensor(nil)
	m.Add(tensor.Ones(tensor.Shape{2, 3}))
	m.Add(tensor.Full(tensor.Shape{3}, 2))

	assert.Equal(t, "MultiViewTensor(2x3, 3)", m.String())

	// (2, 3) contracts to (3) as column sums of ones = 2 each; plus the 2s.
	result := m.Contract(tensor.Shape{3})
	total := result.(*tensor.Tensor)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 4.0, total.At(i), 1e-9)
	}
}

func TestMultiViewMerge(t *testing.T) {
	a := infer.NewMultiViewTensor(mustTensor(t, []float64{1, 1}, tensor.Shape{2}))
	b := infer.NewMultiViewTensor(mustTensor(t, []float64{2, 2}, tensor.Shape{2}))
	b.Add(tensor.Scalar(5))

	a.Merge(b)

	total := a.Contract(tensor.Shape{2}).(*tensor.Tensor)
	// Scalar entry broadcasts into the (2) total.
	assert.InDelta(t, 8.0, total.At(0), 1e-9)
	assert.InDelta(t, 8.0, total.At(1), 1e-9)
}

func TestMultiViewOrderIndependence(t *testing.T) {
	terms := []*tensor.Tensor{
		mustTensor(t, []float64{1, 2}, tensor.Shape{2}),
		tensor.Ones(tensor.Shape{3, 2}),
		tensor.Scalar(4),
		mustTensor(t, []float64{5, 6}, tensor.Shape{2}),
	}

	forward := infer.NewMultiViewTensor(nil)
	for _, term := range terms {
		forward.Add(term)
	}
	backward := infer.NewMultiViewTensor(nil)
	for i := len(terms) - 1; i >= 0; i-- {
		backward.Add(terms[i])
	}

	f := forward.Contract(tensor.Shape{2}).(*tensor.Tensor)
	g := backward.Contract(tensor.Shape{2}).(*tensor.Tensor)
	require.True(t, f.Shape().Equal(g.Shape()))
	for i := range f.Data() {
		assert.InDelta(t, f.Data()[i], g.Data()[i], 1e-9)
	}
}

func TestMultiViewEmptyContractIsNumericZero(t *testing.T) {
	m := infer.NewMultiViewTensor(nil)

	assert.Equal(t, 0.0, m.Contract(tensor.Shape{3, 4}))
	assert.Equal(t, 0.0, m.ContractAs(tensor.Ones(tensor.Shape{2})))
}

func TestMultiViewSumLeftmostAllBut(t *testing.T) {
	m := infer.NewMultiViewTensor(tensor.Ones(tensor.Shape{2, 3, 4}))

	// dim=0 collapses everything to a single aggregate.
	collapsed := m.SumLeftmostAllBut(0)
	total := collapsed.Contract(tensor.Shape{}).(*tensor.Tensor)
	assert.InDelta(t, 24.0, total.Item(), 1e-9)

	// dim=1 keeps only the last axis.
	last := m.SumLeftmostAllBut(1)
	kept := last.Contract(tensor.Shape{4}).(*tensor.Tensor)
	require.True(t, kept.Shape().Equal(tensor.Shape{4}))
	assert.InDelta(t, 6.0, kept.At(0), 1e-9)

	// dim beyond the rank keeps terms unchanged.
	same := m.SumLeftmostAllBut(7)
	unchanged := same.Contract(tensor.Shape{2, 3, 4}).(*tensor.Tensor)
	require.True(t, unchanged.Shape().Equal(tensor.Shape{2, 3, 4}))
	assert.InDelta(t, 1.0, unchanged.At(0, 0, 0), 1e-9)

	// The receiver is not mutated.
	assert.Equal(t, "MultiViewTensor(2x3x4)", m.String())
}

func TestMultiViewSumLeftmostMergesCollapsedShapes(t *testing.T) {
	// Terms of different shapes that reduce to the same trailing shape end
	// up merged in the result.
	m := infer.NewMultiViewTensor(nil)
	m.Add(tensor.Ones(tensor.Shape{2, 4}))
	m.Add(tensor.Ones(tensor.Shape{3, 4}))

	reduced := m.SumLeftmostAllBut(1)

	assert.Equal(t, "MultiViewTensor(4)", reduced.String())
	total := reduced.Contract(tensor.Shape{4}).(*tensor.Tensor)
	assert.InDelta(t, 5.0, total.At(0), 1e-9)
}

func TestMultiViewSumLeftmostNegativePanics(t *testing.T) {
	m := infer.NewMultiViewTensor(nil)
	assert.Panics(t, func() { m.SumLeftmostAllBut(-1) })
}

func TestMultiViewShapeMismatchPropagates(t *testing.T) {
	// Contraction targets that are not broadcast-compatible surface as a
	// panic from the tensor layer, unmodified by the accumulator.
	m := infer.NewMultiViewTensor(nil)
	m.Add(tensor.Ones(tensor.Shape{3}))
	m.Add(tensor.Ones(tensor.Shape{4}))

	assert.Panics(t, func() { m.Contract(tensor.Shape{5}) })
}

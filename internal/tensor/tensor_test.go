package tensor

import (
	"math"
	"testing"
)

// Test helpers shared by the package tests.

func assertEqualFloat(t *testing.T, expected, got float64, msg string) {
	t.Helper()
	if math.Abs(expected-got) > 1e-9 {
		t.Errorf("%s: expected %v, got %v", msg, expected, got)
	}
}

func assertEqualShape(t *testing.T, expected, got Shape, msg string) {
	t.Helper()
	if !expected.Equal(got) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, got)
	}
}

func assertPanics(t *testing.T, msg string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", msg)
		}
	}()
	fn()
}

func TestNewValidatesLength(t *testing.T) {
	_, err := New([]float64{1, 2, 3}, Shape{2, 2})
	if err == nil {
		t.Fatal("expected error for mismatched data length")
	}

	_, err = New([]float64{1, 2, 3, 4}, Shape{2, 0})
	if err == nil {
		t.Fatal("expected error for zero-sized dimension")
	}
}

func TestFromSliceCopies(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	x, err := FromSlice(data, Shape{2, 2})
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	data[0] = 99
	assertEqualFloat(t, 1, x.At(0, 0), "FromSlice must copy its input")
}

func TestAtSet(t *testing.T) {
	x := Zeros(Shape{2, 3})
	x.Set(7, 1, 2)

	assertEqualFloat(t, 7, x.At(1, 2), "At(1,2)")
	assertEqualFloat(t, 0, x.At(0, 0), "At(0,0)")

	assertPanics(t, "At out of bounds", func() { x.At(2, 0) })
	assertPanics(t, "At wrong arity", func() { x.At(1) })
}

func TestScalarItem(t *testing.T) {
	s := Scalar(3.5)

	assertEqualShape(t, Shape{}, s.Shape(), "scalar shape")
	if s.Rank() != 0 {
		t.Errorf("scalar rank: expected 0, got %d", s.Rank())
	}
	assertEqualFloat(t, 3.5, s.Item(), "scalar item")

	assertPanics(t, "Item on non-scalar", func() { Ones(Shape{2}).Item() })
}

func TestFullOnes(t *testing.T) {
	x := Full(Shape{2, 2}, 2.5)
	for _, v := range x.Data() {
		assertEqualFloat(t, 2.5, v, "Full element")
	}

	y := Ones(Shape{3})
	assertEqualFloat(t, 1, y.At(1), "Ones element")
}

func TestCloneIndependence(t *testing.T) {
	x, _ := FromSlice([]float64{1, 2}, Shape{2})
	y := x.Clone()
	y.Set(5, 0)

	assertEqualFloat(t, 1, x.At(0), "Clone must not share data")
	assertEqualFloat(t, 5, y.At(0), "clone written value")
}

func TestDetachSharesData(t *testing.T) {
	x, _ := FromSlice([]float64{1, 2}, Shape{2})
	x.RequireGrad()
	d := x.Detach()

	if d.RequiresGrad() {
		t.Error("detached tensor must not require grad")
	}
	d.Set(9, 0)
	assertEqualFloat(t, 9, x.At(0), "Detach shares the backing data")
}

package tensor

import (
	"math"
	"testing"
)

func TestBackwardSquare(t *testing.T) {
	x := Scalar(2).RequireGrad()

	y := x.Mul(x) // y = x²
	y.Backward()

	if x.Grad() == nil {
		t.Fatal("expected gradient on x")
	}
	assertEqualFloat(t, 4, x.Grad().Item(), "d(x²)/dx at x=2")
}

func TestBackwardBroadcastAdd(t *testing.T) {
	a := Ones(Shape{2, 3}).RequireGrad()
	b := Ones(Shape{3}).RequireGrad()

	a.Add(b).Sum().Backward()

	assertEqualShape(t, Shape{2, 3}, a.Grad().Shape(), "grad of a")
	assertEqualFloat(t, 1, a.Grad().At(1, 2), "grad of a element")

	// b was replicated along the leading axis, so its gradient sums to 2.
	assertEqualShape(t, Shape{3}, b.Grad().Shape(), "grad of b")
	assertEqualFloat(t, 2, b.Grad().At(0), "grad of b element")
}

func TestBackwardExpand(t *testing.T) {
	x := Scalar(3).RequireGrad()

	x.Expand(Shape{4, 5}).Sum().Backward()

	assertEqualFloat(t, 20, x.Grad().Item(), "expand gradient = broadcast multiplicity")
}

func TestBackwardExp(t *testing.T) {
	x := Scalar(1).RequireGrad()

	x.Exp().Backward()

	assertEqualFloat(t, math.E, x.Grad().Item(), "d(eˣ)/dx at x=1")
}

func TestBackwardSumDim(t *testing.T) {
	x, _ := FromSlice([]float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	x.RequireGrad()

	x.SumDim(1, false).Sum().Backward()

	assertEqualShape(t, Shape{2, 3}, x.Grad().Shape(), "SumDim grad shape")
	for _, v := range x.Grad().Data() {
		assertEqualFloat(t, 1, v, "SumDim grad element")
	}
}

func TestBackwardMulBroadcast(t *testing.T) {
	a, _ := FromSlice([]float64{1, 2}, Shape{2})
	a.RequireGrad()
	b := Scalar(3).RequireGrad()

	a.Mul(b).Sum().Backward()

	assertEqualFloat(t, 3, a.Grad().At(0), "da[0]")
	assertEqualFloat(t, 3, a.Grad().At(1), "da[1]")
	assertEqualFloat(t, 3, b.Grad().Item(), "db = sum(a)")
}

func TestBackwardReusedInput(t *testing.T) {
	// x contributes through two paths; gradients must accumulate.
	x := Scalar(2).RequireGrad()

	y := x.Mul(x).Add(x.MulScalar(3)) // y = x² + 3x
	y.Backward()

	assertEqualFloat(t, 7, x.Grad().Item(), "d(x²+3x)/dx at x=2")
}

func TestBackwardScalarOnly(t *testing.T) {
	x := Ones(Shape{2}).RequireGrad()
	y := x.MulScalar(2)

	assertPanics(t, "Backward on non-scalar", func() { y.Backward() })
}

func TestBackwardConstantIsNoOp(t *testing.T) {
	c := Scalar(5)
	c.Backward() // no history, no grad required: nothing to do

	if c.Grad() != nil {
		t.Error("constant must not receive a gradient")
	}
}

func TestUntrackedOpsRecordNothing(t *testing.T) {
	a := Ones(Shape{2})
	b := Ones(Shape{2})

	c := a.Add(b).Sum()
	c.Backward()

	if a.Grad() != nil || b.Grad() != nil {
		t.Error("untracked inputs must not receive gradients")
	}
}

func TestZeroGrad(t *testing.T) {
	x := Scalar(2).RequireGrad()
	x.Mul(x).Backward()
	x.ZeroGrad()

	if x.Grad() != nil {
		t.Error("ZeroGrad must clear the gradient")
	}
}

package infer

import (
	"fmt"
	"math"

	"github.com/AUST-Hansen/pyro/internal/tensor"
)

// The helpers below form the number-or-tensor boundary of the package:
// every aggregation result may be either a *tensor.Tensor or a plain
// float64 (the numeric fallback for rank-0 values), and nil is the
// additive identity. Callers hand whatever they hold to these helpers,
// which degrade to ordinary arithmetic for numbers.

// Exp is like Tensor.Exp but also accepts a plain number.
func Exp(x any) any {
	switch v := x.(type) {
	case float64:
		return math.Exp(v)
	case *tensor.Tensor:
		return v.Exp()
	default:
		panic(fmt.Sprintf("infer: Exp expects float64 or *tensor.Tensor, got %T", x))
	}
}

// Sum is like Tensor.Sum but also accepts a plain number, which is its own
// sum.
func Sum(x any) any {
	switch v := x.(type) {
	case float64:
		return v
	case *tensor.Tensor:
		return v.Sum()
	default:
		panic(fmt.Sprintf("infer: Sum expects float64 or *tensor.Tensor, got %T", x))
	}
}

// DataSum reduces a number or tensor to a plain float64 total, outside of
// any gradient tracking.
func DataSum(x any) float64 {
	switch v := x.(type) {
	case float64:
		return v
	case *tensor.Tensor:
		total := 0.0
		for _, e := range v.Data() {
			total += e
		}
		return total
	default:
		panic(fmt.Sprintf("infer: DataSum expects float64 or *tensor.Tensor, got %T", x))
	}
}

// Backward is like Tensor.Backward but accepts a plain number, for which
// it is a no-op. nil (the additive identity) is also a no-op.
func Backward(x any) {
	switch v := x.(type) {
	case nil, float64:
		// Plain numbers carry no gradient history.
	case *tensor.Tensor:
		v.Backward()
	default:
		panic(fmt.Sprintf("infer: Backward expects float64 or *tensor.Tensor, got %T", x))
	}
}

// Add sums two number-or-tensor values. nil is the additive identity for
// both arguments. Mixing a number with a tensor adds the number to every
// element.
func Add(x, y any) any {
	if x == nil {
		return y
	}
	if y == nil {
		return x
	}
	switch a := x.(type) {
	case float64:
		switch b := y.(type) {
		case float64:
			return a + b
		case *tensor.Tensor:
			return b.AddScalar(a)
		}
	case *tensor.Tensor:
		switch b := y.(type) {
		case float64:
			return a.AddScalar(b)
		case *tensor.Tensor:
			return a.Add(b)
		}
	}
	panic(fmt.Sprintf("infer: Add expects float64 or *tensor.Tensor operands, got %T and %T", x, y))
}

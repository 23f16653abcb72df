package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// node records how a tensor was produced. backward receives the gradient of
// the loss with respect to the tensor and accumulates gradients into the
// inputs.
type node struct {
	inputs   []*Tensor
	backward func(grad *Tensor)
}

// tracked reports whether operations on t must be recorded: either the
// caller asked for gradients or t is itself the result of a tracked op.
func (t *Tensor) tracked() bool {
	return t.requiresGrad || t.node != nil
}

// accumGrad adds g into t's gradient. g must have t's shape.
func (t *Tensor) accumGrad(g *Tensor) {
	if !t.tracked() {
		return
	}
	if t.grad == nil {
		t.grad = g.Clone()
		return
	}
	floats.Add(t.grad.data, g.data)
}

// Backward runs reverse-mode differentiation from a scalar output,
// accumulating gradients into the Grad field of every tracked tensor that
// participated in producing it.
//
// Panics if the tensor holds more than one element. Calling Backward on a
// constant scalar (no recorded history) is a no-op.
//
// Example:
//
//	x := tensor.Scalar(2).RequireGrad()
//	y := x.Mul(x) // y = x²
//	y.Backward()
//	x.Grad().Item() // 4
func (t *Tensor) Backward() {
	if t.NumElements() != 1 {
		panic(fmt.Sprintf("backward: only scalar outputs can be backpropagated, got shape %v", t.shape))
	}
	if t.node == nil {
		if t.requiresGrad {
			t.accumGrad(Ones(t.shape))
		}
		return
	}

	order := topoOrder(t)
	t.accumGrad(Ones(t.shape))
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		if v.node != nil && v.grad != nil {
			v.node.backward(v.grad)
		}
	}
}

// topoOrder returns the tensors reachable from root in topological order:
// every tensor appears after all of its inputs.
func topoOrder(root *Tensor) []*Tensor {
	var order []*Tensor
	visited := make(map[*Tensor]bool)

	var visit func(t *Tensor)
	visit = func(t *Tensor) {
		if visited[t] {
			return
		}
		visited[t] = true
		if t.node != nil {
			for _, in := range t.node.inputs {
				visit(in)
			}
		}
		order = append(order, t)
	}
	visit(root)
	return order
}

// ZeroGrad clears the accumulated gradient.
func (t *Tensor) ZeroGrad() {
	t.grad = nil
}

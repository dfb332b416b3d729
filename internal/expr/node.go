// Package expr builds the transient expression trees that describe one
// assignment's right-hand side.
//
// Nodes are immutable, stack-shaped values: the primal is computed eagerly
// at construction via the operation catalog, children are held by pointer
// with no ownership transfer, and the whole tree lives only until the
// surrounding statement is stored. The only persisted residue of a tree is
// the flattened (identifier, partial) list for Jacobian tapes, or the
// postfix program for primal-value tapes.
package expr

import (
	"github.com/spool-ml/spool/internal/check"
	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/ops"
)

// Kind tags the closed set of node shapes.
type Kind uint8

const (
	KindConst Kind = iota
	KindLeaf
	KindUnary
	KindBinary
)

// Node is one arithmetic sub-expression.
type Node[T num.Scalar[T]] struct {
	kind  Kind
	value T
	id    idx.Identifier // leaf only
	un    ops.Unary[T]   // unary only
	bin   ops.Binary[T]  // binary only
	aux   float64        // scale constant (CodeScale)
	a, b  *Node[T]
}

// Const wraps a passive constant.
func Const[T num.Scalar[T]](v T) *Node[T] {
	return &Node[T]{kind: KindConst, value: v}
}

// Leaf references an active value by identifier.
func Leaf[T num.Scalar[T]](id idx.Identifier, v T) *Node[T] {
	return &Node[T]{kind: KindLeaf, id: id, value: v}
}

// Apply1 applies a unary operation, evaluating the primal eagerly.
func Apply1[T num.Scalar[T]](op ops.Unary[T], a *Node[T]) *Node[T] {
	return &Node[T]{kind: KindUnary, un: op, a: a, value: op.Eval(a.value)}
}

// Apply2 applies a binary operation, evaluating the primal eagerly.
func Apply2[T num.Scalar[T]](op ops.Binary[T], a, b *Node[T]) *Node[T] {
	return &Node[T]{kind: KindBinary, bin: op, a: a, b: b, value: op.Eval(a.value, b.value)}
}

// ApplyScale applies x*c with a passive constant c, keeping c available
// for program encoding.
func ApplyScale[T num.Scalar[T]](c float64, a *Node[T]) *Node[T] {
	n := Apply1(ops.Scale[T](c), a)
	n.aux = c
	return n
}

// Value returns the precomputed primal.
func (n *Node[T]) Value() T { return n.value }

// Kind returns the node shape.
func (n *Node[T]) Kind() Kind { return n.kind }

// Identifier returns the referenced identifier of a leaf node.
func (n *Node[T]) Identifier() idx.Identifier { return n.id }

// NumLinks returns the number of child links.
func (n *Node[T]) NumLinks() int {
	switch n.kind {
	case KindUnary:
		return 1
	case KindBinary:
		return 2
	default:
		return 0
	}
}

// Link returns the i-th child node.
func (n *Node[T]) Link(i int) *Node[T] {
	switch {
	case n.kind == KindUnary && i == 0:
		return n.a
	case n.kind == KindBinary && i == 0:
		return n.a
	case n.kind == KindBinary && i == 1:
		return n.b
	}
	check.Fatalf("expr: link %d out of range for node with %d links", i, n.NumLinks())
	return nil
}

// Partial returns the partial derivative of this node with respect to its
// i-th child.
func (n *Node[T]) Partial(i int) T {
	switch {
	case n.kind == KindUnary && i == 0:
		return n.un.Gradient(n.a.value, n.value)
	case n.kind == KindBinary && i == 0:
		return n.bin.GradientA(n.a.value, n.b.value, n.value)
	case n.kind == KindBinary && i == 1:
		return n.bin.GradientB(n.a.value, n.b.value, n.value)
	}
	check.Fatalf("expr: partial %d out of range for node with %d links", i, n.NumLinks())
	var zero T
	return zero
}

// ApplyTangent computes this node's tangent contribution from the tangent
// of its i-th child: ∂n/∂child_i · childTangent.
func (n *Node[T]) ApplyTangent(i int, childTangent T) T {
	return n.Partial(i).Mul(childTangent)
}

// ApplyAdjoint computes the adjoint contribution to propagate to the i-th
// child given this node's adjoint: adjoint · ∂n/∂child_i.
func (n *Node[T]) ApplyAdjoint(i int, adjoint T) T {
	return adjoint.Mul(n.Partial(i))
}

// ForEachJacobian walks the tree and calls fn once per active leaf
// occurrence with the accumulated partial derivative of the root with
// respect to that leaf. Passive leaves and constants contribute nothing.
// Duplicate identifiers are reported separately, once per occurrence.
func ForEachJacobian[T num.Scalar[T]](n *Node[T], seed T, fn func(id idx.Identifier, jac T)) {
	switch n.kind {
	case KindConst:
	case KindLeaf:
		if n.id != idx.Passive {
			fn(n.id, seed)
		}
	case KindUnary:
		ForEachJacobian(n.a, seed.Mul(n.Partial(0)), fn)
	case KindBinary:
		ForEachJacobian(n.a, seed.Mul(n.Partial(0)), fn)
		ForEachJacobian(n.b, seed.Mul(n.Partial(1)), fn)
	}
}

// Tangent computes the tangent of the tree given the tangents of its
// leaves: Σ_i ∂root/∂leaf_i · leafTangent(leaf_i). This is the local
// reversal forward mode performs per statement.
func Tangent[T num.Scalar[T]](n *Node[T], leafTangent func(idx.Identifier) T) T {
	switch n.kind {
	case KindLeaf:
		if n.id != idx.Passive {
			return leafTangent(n.id)
		}
		return n.value.FromFloat(0)
	case KindUnary:
		return n.ApplyTangent(0, Tangent(n.a, leafTangent))
	case KindBinary:
		ta := n.ApplyTangent(0, Tangent(n.a, leafTangent))
		tb := n.ApplyTangent(1, Tangent(n.b, leafTangent))
		return ta.Add(tb)
	default:
		return n.value.FromFloat(0)
	}
}

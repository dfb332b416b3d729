// Package reverse implements the active value type for reverse-mode
// differentiation. An Active wraps a primal value together with the tape
// identifier of the statement that produced it; arithmetic on actives
// records statements on the bound tape as a side effect.
package reverse

import (
	"github.com/spool-ml/spool/internal/expr"
	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/ops"
	"github.com/spool-ml/spool/internal/tape"
)

// Active is a tape-bound scalar. The zero value is a passive constant
// with no tape; such values participate in arithmetic but record
// nothing. Active satisfies the same scalar contract as the underlying
// type, so actives nest over duals for mixed-mode derivatives.
type Active[T num.Scalar[T]] struct {
	t     *tape.Tape[T]
	value T
	id    idx.Identifier
}

var _ num.Scalar[Active[num.Float64]] = Active[num.Float64]{}

// New returns a passive value bound to t. It records nothing until it
// appears in an expression.
func New[T num.Scalar[T]](t *tape.Tape[T], v T) Active[T] {
	return Active[T]{t: t, value: v}
}

// NewFloat is New for a plain float primal.
func NewFloat[T num.Scalar[T]](t *tape.Tape[T], v float64) Active[T] {
	var z T
	return Active[T]{t: t, value: z.FromFloat(v)}
}

// Input registers a true program input on t and returns the active that
// represents it. Call once per input, while the tape is active.
func Input[T num.Scalar[T]](t *tape.Tape[T], v T) Active[T] {
	return Active[T]{t: t, value: v, id: t.RegisterInput()}
}

// RegisterOutput marks a as a sink whose adjoint survives until
// evaluation, even if the producing slot is later overwritten.
func (a *Active[T]) RegisterOutput() {
	if a.t != nil {
		a.id = a.t.RegisterOutput(a.id, a.value)
	}
}

// Value returns the primal value.
func (a Active[T]) Value() T { return a.value }

// SetValue overwrites the primal without touching the tape.
func (a *Active[T]) SetValue(v T) { a.value = v }

// Identifier returns the tape slot of the statement that produced a, or
// the passive identifier.
func (a Active[T]) Identifier() idx.Identifier { return a.id }

// Tape returns the bound tape, nil for an unbound constant.
func (a Active[T]) Tape() *tape.Tape[T] { return a.t }

// Gradient reads the adjoint accumulated for a after Evaluate.
func (a Active[T]) Gradient() T {
	if a.t == nil {
		var z T
		return z.FromFloat(0)
	}
	return a.t.Gradient(a.id)
}

// SetGradient seeds the adjoint of a, typically 1 on an output before
// Evaluate.
func (a *Active[T]) SetGradient(v T) {
	if a.t != nil {
		a.t.SetGradient(a.id, v)
	}
}

// Free releases the identifier back to the tape's index manager. The
// active degrades to a passive constant.
func (a *Active[T]) Free() {
	if a.t != nil && a.id != idx.Passive {
		a.t.FreeIdentifier(a.id)
	}
	a.id = idx.Passive
}

// Node returns the expression leaf for a, for building multi-operation
// trees that record as a single statement.
func (a Active[T]) Node() *expr.Node[T] { return expr.Leaf(a.id, a.value) }

// Assign stores one statement computing the given tree and rebinds a to
// its result.
func (a *Active[T]) Assign(n *expr.Node[T]) {
	if a.t == nil {
		a.value, a.id = n.Value(), idx.Passive
		return
	}
	a.value, a.id = a.t.Store(n)
}

// Set records an identity assignment from b. With copy optimization the
// identifier is shared instead of spending a statement.
func (a *Active[T]) Set(b Active[T]) {
	if b.t != nil {
		a.t = b.t
	}
	a.value = b.value
	if a.t == nil {
		a.id = idx.Passive
		return
	}
	a.id = a.t.StoreCopy(b.id, b.value)
}

func (a Active[T]) tapeWith(b Active[T]) *tape.Tape[T] {
	if a.t != nil {
		return a.t
	}
	return b.t
}

func store[T num.Scalar[T]](t *tape.Tape[T], n *expr.Node[T]) Active[T] {
	if t == nil {
		return Active[T]{value: n.Value()}
	}
	v, id := t.Store(n)
	return Active[T]{t: t, value: v, id: id}
}

func (a Active[T]) apply1(op ops.Unary[T]) Active[T] {
	return store(a.t, expr.Apply1(op, a.Node()))
}

func (a Active[T]) apply2(op ops.Binary[T], b Active[T]) Active[T] {
	return store(a.tapeWith(b), expr.Apply2(op, a.Node(), b.Node()))
}

func (a Active[T]) Add(b Active[T]) Active[T] { return a.apply2(ops.Add[T](), b) }
func (a Active[T]) Sub(b Active[T]) Active[T] { return a.apply2(ops.Sub[T](), b) }
func (a Active[T]) Mul(b Active[T]) Active[T] { return a.apply2(ops.Mul[T](), b) }
func (a Active[T]) Div(b Active[T]) Active[T] { return a.apply2(ops.Div[T](), b) }
func (a Active[T]) Neg() Active[T]            { return a.apply1(ops.Neg[T]()) }

// Scale multiplies by a passive constant. The constant lives in the
// Jacobian entry, not in a second argument slot.
func (a Active[T]) Scale(c float64) Active[T] {
	return store(a.t, expr.ApplyScale(c, a.Node()))
}

// AddFloat adds a passive constant; the statement keeps a single entry.
func (a Active[T]) AddFloat(c float64) Active[T] {
	var z T
	return store(a.t, expr.Apply2(ops.Add[T](), a.Node(), expr.Const(z.FromFloat(c))))
}

// SubFloat subtracts a passive constant.
func (a Active[T]) SubFloat(c float64) Active[T] {
	var z T
	return store(a.t, expr.Apply2(ops.Sub[T](), a.Node(), expr.Const(z.FromFloat(c))))
}

// PowFloat raises to a passive constant exponent.
func (a Active[T]) PowFloat(c float64) Active[T] {
	var z T
	return store(a.t, expr.Apply2(ops.Pow[T](), a.Node(), expr.Const(z.FromFloat(c))))
}

func (a Active[T]) Sin() Active[T]   { return a.apply1(ops.Sin[T]()) }
func (a Active[T]) Cos() Active[T]   { return a.apply1(ops.Cos[T]()) }
func (a Active[T]) Tan() Active[T]   { return a.apply1(ops.Tan[T]()) }
func (a Active[T]) Asin() Active[T]  { return a.apply1(ops.Asin[T]()) }
func (a Active[T]) Acos() Active[T]  { return a.apply1(ops.Acos[T]()) }
func (a Active[T]) Atan() Active[T]  { return a.apply1(ops.Atan[T]()) }
func (a Active[T]) Sinh() Active[T]  { return a.apply1(ops.Sinh[T]()) }
func (a Active[T]) Cosh() Active[T]  { return a.apply1(ops.Cosh[T]()) }
func (a Active[T]) Tanh() Active[T]  { return a.apply1(ops.Tanh[T]()) }
func (a Active[T]) Asinh() Active[T] { return a.apply1(ops.Asinh[T]()) }
func (a Active[T]) Acosh() Active[T] { return a.apply1(ops.Acosh[T]()) }
func (a Active[T]) Atanh() Active[T] { return a.apply1(ops.Atanh[T]()) }

func (a Active[T]) Exp() Active[T]   { return a.apply1(ops.Exp[T]()) }
func (a Active[T]) Expm1() Active[T] { return a.apply1(ops.Expm1[T]()) }
func (a Active[T]) Log() Active[T]   { return a.apply1(ops.Log[T]()) }
func (a Active[T]) Log1p() Active[T] { return a.apply1(ops.Log1p[T]()) }
func (a Active[T]) Log2() Active[T]  { return a.apply1(ops.Log2[T]()) }
func (a Active[T]) Log10() Active[T] { return a.apply1(ops.Log10[T]()) }
func (a Active[T]) Sqrt() Active[T]  { return a.apply1(ops.Sqrt[T]()) }
func (a Active[T]) Cbrt() Active[T]  { return a.apply1(ops.Cbrt[T]()) }
func (a Active[T]) Abs() Active[T]   { return a.apply1(ops.Abs[T]()) }
func (a Active[T]) Erf() Active[T]   { return a.apply1(ops.Erf[T]()) }
func (a Active[T]) Erfc() Active[T]  { return a.apply1(ops.Erfc[T]()) }

func (a Active[T]) Gamma() Active[T]   { return a.apply1(ops.Tgamma[T]()) }
func (a Active[T]) Digamma() Active[T] { return a.apply1(ops.Digamma[T]()) }

func (a Active[T]) Pow(b Active[T]) Active[T] { return a.apply2(ops.Pow[T](), b) }

// Atan2 computes atan2(a, b) with both partials recorded.
func (a Active[T]) Atan2(b Active[T]) Active[T] { return a.apply2(ops.Atan2[T](), b) }

// Hypot computes sqrt(a²+b²).
func (a Active[T]) Hypot(b Active[T]) Active[T] { return a.apply2(ops.Hypot[T](), b) }

// Max uses the min/max tie convention (tie selects the second argument).
func (a Active[T]) Max(b Active[T]) Active[T] { return a.apply2(ops.Max[T](), b) }

// Min uses the min/max tie convention.
func (a Active[T]) Min(b Active[T]) Active[T] { return a.apply2(ops.Min[T](), b) }

// Fmax uses the fmin/fmax tie convention (tie selects the first argument).
func (a Active[T]) Fmax(b Active[T]) Active[T] { return a.apply2(ops.Fmax[T](), b) }

// Fmin uses the fmin/fmax tie convention.
func (a Active[T]) Fmin(b Active[T]) Active[T] { return a.apply2(ops.Fmin[T](), b) }

// Float returns the passive primal value.
func (a Active[T]) Float() float64 { return a.value.Float() }

// FromFloat lifts a passive constant on the same tape.
func (a Active[T]) FromFloat(v float64) Active[T] {
	return Active[T]{t: a.t, value: a.value.FromFloat(v)}
}

// IsZero reports whether the primal is exactly zero.
func (a Active[T]) IsZero() bool { return a.value.IsZero() }

// PrimalSlot supports order/index derivative selection on nested types.
func (a Active[T]) PrimalSlot() any { return a.value }

// DerivativeSlot reads the adjoint, so selection through an active level
// is meaningful only after the tape has been evaluated.
func (a Active[T]) DerivativeSlot() any { return a.Gradient() }

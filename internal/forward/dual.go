// Package forward implements tape-free forward (tangent) mode.
//
// A Dual carries a primal value and its tangent. Every operation computes
// its own tangent immediately from the catalog's partial derivatives: the
// slot a reverse tape would use for an identifier holds the tangent value
// itself, so no global identifier space and no storage exist.
//
// Dual satisfies the num.Scalar contract over itself, so duals nest:
// Dual[Dual[num.Float64]] carries second-order information, and so on.
package forward

import (
	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/ops"
)

// Dual is a forward-mode number: primal value plus tangent.
type Dual[T num.Scalar[T]] struct {
	Val T
	Dot T
}

// Lift wraps a passive value with a zero tangent.
func Lift[T num.Scalar[T]](v T) Dual[T] {
	return Dual[T]{Val: v}
}

// Variable wraps a value with the given tangent seed.
func Variable[T num.Scalar[T]](v, dot T) Dual[T] {
	return Dual[T]{Val: v, Dot: dot}
}

// Real lifts a plain float64 into a first-order dual.
func Real(v float64) Dual[num.Float64] {
	return Dual[num.Float64]{Val: num.Float64(v)}
}

// Seeded lifts a plain float64 with tangent seed 1.
func Seeded(v float64) Dual[num.Float64] {
	return Dual[num.Float64]{Val: num.Float64(v), Dot: 1}
}

// Value returns the primal slot.
func (d Dual[T]) Value() T { return d.Val }

// Gradient returns the tangent slot.
func (d Dual[T]) Gradient() T { return d.Dot }

// lift1 applies a unary catalog operation: the primal through the
// operation, the tangent through its partial derivative.
func lift1[T num.Scalar[T]](op ops.Unary[T], x Dual[T]) Dual[T] {
	r := op.Eval(x.Val)
	return Dual[T]{Val: r, Dot: op.Gradient(x.Val, r).Mul(x.Dot)}
}

// lift2 applies a binary catalog operation:
// dot = ∂f/∂a·ȧ + ∂f/∂b·ḃ.
func lift2[T num.Scalar[T]](op ops.Binary[T], a, b Dual[T]) Dual[T] {
	r := op.Eval(a.Val, b.Val)
	da := op.GradientA(a.Val, b.Val, r).Mul(a.Dot)
	db := op.GradientB(a.Val, b.Val, r).Mul(b.Dot)
	return Dual[T]{Val: r, Dot: da.Add(db)}
}

func (d Dual[T]) Add(o Dual[T]) Dual[T] { return lift2(ops.Add[T](), d, o) }
func (d Dual[T]) Sub(o Dual[T]) Dual[T] { return lift2(ops.Sub[T](), d, o) }
func (d Dual[T]) Mul(o Dual[T]) Dual[T] { return lift2(ops.Mul[T](), d, o) }
func (d Dual[T]) Div(o Dual[T]) Dual[T] { return lift2(ops.Div[T](), d, o) }
func (d Dual[T]) Neg() Dual[T]          { return lift1(ops.Neg[T](), d) }

func (d Dual[T]) Sin() Dual[T]   { return lift1(ops.Sin[T](), d) }
func (d Dual[T]) Cos() Dual[T]   { return lift1(ops.Cos[T](), d) }
func (d Dual[T]) Tan() Dual[T]   { return lift1(ops.Tan[T](), d) }
func (d Dual[T]) Asin() Dual[T]  { return lift1(ops.Asin[T](), d) }
func (d Dual[T]) Acos() Dual[T]  { return lift1(ops.Acos[T](), d) }
func (d Dual[T]) Atan() Dual[T]  { return lift1(ops.Atan[T](), d) }
func (d Dual[T]) Sinh() Dual[T]  { return lift1(ops.Sinh[T](), d) }
func (d Dual[T]) Cosh() Dual[T]  { return lift1(ops.Cosh[T](), d) }
func (d Dual[T]) Tanh() Dual[T]  { return lift1(ops.Tanh[T](), d) }
func (d Dual[T]) Asinh() Dual[T] { return lift1(ops.Asinh[T](), d) }
func (d Dual[T]) Acosh() Dual[T] { return lift1(ops.Acosh[T](), d) }
func (d Dual[T]) Atanh() Dual[T] { return lift1(ops.Atanh[T](), d) }
func (d Dual[T]) Exp() Dual[T]   { return lift1(ops.Exp[T](), d) }
func (d Dual[T]) Expm1() Dual[T] { return lift1(ops.Expm1[T](), d) }
func (d Dual[T]) Log() Dual[T]   { return lift1(ops.Log[T](), d) }
func (d Dual[T]) Log1p() Dual[T] { return lift1(ops.Log1p[T](), d) }
func (d Dual[T]) Log2() Dual[T]  { return lift1(ops.Log2[T](), d) }
func (d Dual[T]) Log10() Dual[T] { return lift1(ops.Log10[T](), d) }
func (d Dual[T]) Sqrt() Dual[T]  { return lift1(ops.Sqrt[T](), d) }
func (d Dual[T]) Cbrt() Dual[T]  { return lift1(ops.Cbrt[T](), d) }
func (d Dual[T]) Abs() Dual[T]   { return lift1(ops.Abs[T](), d) }
func (d Dual[T]) Erf() Dual[T]   { return lift1(ops.Erf[T](), d) }
func (d Dual[T]) Erfc() Dual[T]  { return lift1(ops.Erfc[T](), d) }

func (d Dual[T]) Gamma() Dual[T]   { return lift1(ops.Tgamma[T](), d) }
func (d Dual[T]) Digamma() Dual[T] { return lift1(ops.Digamma[T](), d) }

func (d Dual[T]) Pow(o Dual[T]) Dual[T] { return lift2(ops.Pow[T](), d, o) }

// Scale multiplies by a passive constant.
func (d Dual[T]) Scale(c float64) Dual[T] {
	k := d.Val.FromFloat(c)
	return Dual[T]{Val: d.Val.Mul(k), Dot: d.Dot.Mul(k)}
}

// AddFloat adds a passive constant; the tangent is unchanged.
func (d Dual[T]) AddFloat(c float64) Dual[T] {
	return Dual[T]{Val: d.Val.Add(d.Val.FromFloat(c)), Dot: d.Dot}
}

// SubFloat subtracts a passive constant.
func (d Dual[T]) SubFloat(c float64) Dual[T] {
	return Dual[T]{Val: d.Val.Sub(d.Val.FromFloat(c)), Dot: d.Dot}
}

// PowFloat raises to a passive constant exponent. Only the base side of
// the chain rule contributes.
func (d Dual[T]) PowFloat(c float64) Dual[T] {
	z := d.Val.FromFloat(c)
	r := d.Val.Pow(z)
	return Dual[T]{Val: r, Dot: z.Mul(d.Val.Pow(d.Val.FromFloat(c - 1))).Mul(d.Dot)}
}

// Atan2 computes atan2(d, o) with full derivative propagation.
func (d Dual[T]) Atan2(o Dual[T]) Dual[T] { return lift2(ops.Atan2[T](), d, o) }

// Hypot computes sqrt(d²+o²).
func (d Dual[T]) Hypot(o Dual[T]) Dual[T] { return lift2(ops.Hypot[T](), d, o) }

// Max uses the min/max tie convention (tie selects the second argument).
func (d Dual[T]) Max(o Dual[T]) Dual[T] { return lift2(ops.Max[T](), d, o) }

// Min uses the min/max tie convention.
func (d Dual[T]) Min(o Dual[T]) Dual[T] { return lift2(ops.Min[T](), d, o) }

// Fmax uses the fmin/fmax tie convention (tie selects the first argument).
func (d Dual[T]) Fmax(o Dual[T]) Dual[T] { return lift2(ops.Fmax[T](), d, o) }

// Fmin uses the fmin/fmax tie convention.
func (d Dual[T]) Fmin(o Dual[T]) Dual[T] { return lift2(ops.Fmin[T](), d, o) }

// Float returns the passive primal value.
func (d Dual[T]) Float() float64 { return d.Val.Float() }

// FromFloat lifts a passive constant; the tangent is zero.
func (d Dual[T]) FromFloat(v float64) Dual[T] {
	return Dual[T]{Val: d.Val.FromFloat(v)}
}

// IsZero reports whether both slots are exactly zero.
func (d Dual[T]) IsZero() bool { return d.Val.IsZero() && d.Dot.IsZero() }

// PrimalSlot supports order/index derivative selection on nested types.
func (d Dual[T]) PrimalSlot() any { return d.Val }

// DerivativeSlot supports order/index derivative selection on nested
// types.
func (d Dual[T]) DerivativeSlot() any { return d.Dot }

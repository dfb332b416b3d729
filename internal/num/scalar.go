// Package num defines the scalar contract shared by every differentiable
// number type in Spool.
//
// The Scalar constraint closes over itself: a type S satisfies Scalar[S]
// when its arithmetic and elementary functions return S again. Both the
// base Float64 type and the nested derivative types (forward.Dual,
// reverse.Active) satisfy it, which is what allows arbitrary nesting such
// as Dual[Dual[Float64]] for higher-order derivatives.
package num

// Scalar is the arithmetic contract for differentiable numbers.
//
// Float reports the passive (fully primal) value of the number, descending
// through any nesting. FromFloat lifts a passive constant into the same
// type shape as the receiver; for nested types the derivative slots of the
// result are zero.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Neg() T

	Sin() T
	Cos() T
	Tan() T
	Asin() T
	Acos() T
	Atan() T
	Sinh() T
	Cosh() T
	Tanh() T
	Asinh() T
	Acosh() T
	Atanh() T
	Exp() T
	Expm1() T
	Log() T
	Log1p() T
	Log2() T
	Log10() T
	Sqrt() T
	Cbrt() T
	Abs() T
	Erf() T
	Erfc() T
	Gamma() T
	Digamma() T
	Pow(T) T

	// Float returns the passive primal value.
	Float() float64
	// FromFloat lifts a passive constant into the receiver's type shape.
	FromFloat(float64) T
	// IsZero reports whether the number is an exact (deep) zero.
	IsZero() bool
}

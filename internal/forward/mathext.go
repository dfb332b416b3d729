package forward

import (
	"math"

	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/ops"
)

// Ldexp computes d·2^e. The derivative is the constant 2^e.
func Ldexp[T num.Scalar[T]](d Dual[T], e int) Dual[T] {
	return lift1(ops.Scale[T](math.Ldexp(1, e)), d)
}

// Frexp splits d into a fraction in [1/2, 1) and an integer exponent.
// The fraction's derivative carries the auxiliary exponent: dfrac/dx =
// 2^-exp.
func Frexp[T num.Scalar[T]](d Dual[T]) (Dual[T], int) {
	_, e := math.Frexp(d.Float())
	return lift1(ops.Scale[T](math.Ldexp(1, -e)), d), e
}

// Fmod computes fmod(a, b).
func Fmod[T num.Scalar[T]](a, b Dual[T]) Dual[T] {
	return lift2(ops.Fmod[T](), a, b)
}

// Remainder computes the IEEE remainder of a/b.
func Remainder[T num.Scalar[T]](a, b Dual[T]) Dual[T] {
	return lift2(ops.Remainder[T](), a, b)
}

// Copysign returns |a| with b's sign.
func Copysign[T num.Scalar[T]](a, b Dual[T]) Dual[T] {
	return lift2(ops.Copysign[T](), a, b)
}

// The rounding family forwards the passive result with a zero tangent.

func Ceil[T num.Scalar[T]](d Dual[T]) Dual[T]  { return lift1(ops.Ceil[T](), d) }
func Floor[T num.Scalar[T]](d Dual[T]) Dual[T] { return lift1(ops.Floor[T](), d) }
func Round[T num.Scalar[T]](d Dual[T]) Dual[T] { return lift1(ops.Round[T](), d) }
func Trunc[T num.Scalar[T]](d Dual[T]) Dual[T] { return lift1(ops.Trunc[T](), d) }

// Comparisons operate on passive values, so branch structure matches the
// undifferentiated program.

func Less[T num.Scalar[T]](a, b Dual[T]) bool    { return a.Float() < b.Float() }
func Greater[T num.Scalar[T]](a, b Dual[T]) bool { return a.Float() > b.Float() }
func Equal[T num.Scalar[T]](a, b Dual[T]) bool   { return a.Float() == b.Float() }

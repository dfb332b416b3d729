package reverse

import (
	"math"

	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/ops"
)

// Ldexp computes a·2^e. The constant lands in the Jacobian entry.
func Ldexp[T num.Scalar[T]](a Active[T], e int) Active[T] {
	return a.Scale(math.Ldexp(1, e))
}

// Frexp splits a into a fraction in [1/2, 1) and an integer exponent.
// The recorded partial for the fraction is 2^-exp.
func Frexp[T num.Scalar[T]](a Active[T]) (Active[T], int) {
	_, e := math.Frexp(a.Float())
	return a.Scale(math.Ldexp(1, -e)), e
}

// Fmod computes fmod(a, b).
func Fmod[T num.Scalar[T]](a, b Active[T]) Active[T] {
	return a.apply2(ops.Fmod[T](), b)
}

// Remainder computes the IEEE remainder of a/b.
func Remainder[T num.Scalar[T]](a, b Active[T]) Active[T] {
	return a.apply2(ops.Remainder[T](), b)
}

// Copysign returns |a| with b's sign.
func Copysign[T num.Scalar[T]](a, b Active[T]) Active[T] {
	return a.apply2(ops.Copysign[T](), b)
}

// The rounding family stores passively: zero partials never survive
// record-time filtering, so no statement is spent.

func Ceil[T num.Scalar[T]](a Active[T]) Active[T]  { return a.apply1(ops.Ceil[T]()) }
func Floor[T num.Scalar[T]](a Active[T]) Active[T] { return a.apply1(ops.Floor[T]()) }
func Round[T num.Scalar[T]](a Active[T]) Active[T] { return a.apply1(ops.Round[T]()) }
func Trunc[T num.Scalar[T]](a Active[T]) Active[T] { return a.apply1(ops.Trunc[T]()) }

// Comparisons read passive values only, so the branch structure of a
// differentiated program matches the undifferentiated one.

func Less[T num.Scalar[T]](a, b Active[T]) bool    { return a.Float() < b.Float() }
func Greater[T num.Scalar[T]](a, b Active[T]) bool { return a.Float() > b.Float() }
func Equal[T num.Scalar[T]](a, b Active[T]) bool   { return a.Float() == b.Float() }

package ops

import (
	"math"

	"github.com/spool-ml/spool/internal/num"
)

// Abs returns the descriptor for |x|.
//
// Subgradient convention: -1 for negative arguments, +1 for positive, and
// exactly 0 at x == 0.
func Abs[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:   "abs",
		Code:   CodeAbs,
		Primal: func(x T) T { return x.Abs() },
		Gradient: func(x, r T) T {
			switch v := x.Float(); {
			case v < 0:
				return one(x).Neg()
			case v > 0:
				return one(x)
			default:
				return zero(x)
			}
		},
	}
}

// Copysign returns the descriptor for copysign(a, b): |a| with b's sign.
//
// da = +1 when the sign is unchanged, -1 when flipped, 0 at a == 0.
// db = 0 (b contributes only its sign bit).
func Copysign[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name: "copysign",
		Code: CodeCopysign,
		Primal: func(a, b T) T {
			if math.Signbit(a.Float()) == math.Signbit(b.Float()) {
				return a
			}
			return a.Neg()
		},
		GradientA: func(a, b, r T) T {
			switch {
			case a.Float() == 0:
				return zero(a)
			case math.Signbit(a.Float()) == math.Signbit(b.Float()):
				return one(a)
			default:
				return one(a).Neg()
			}
		},
		GradientB: func(a, b, r T) T { return zero(b) },
	}
}

// Fmod returns the descriptor for fmod(a, b) = a - trunc(a/b)*b.
//
// The quotient is piecewise constant: da = 1, db = -trunc(a/b).
func Fmod[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name: "fmod",
		Code: CodeFmod,
		Primal: func(a, b T) T {
			q := math.Trunc(a.Float() / b.Float())
			return a.Sub(b.Mul(b.FromFloat(q)))
		},
		GradientA: func(a, b, r T) T { return one(r) },
		GradientB: func(a, b, r T) T {
			return r.FromFloat(-math.Trunc(a.Float() / b.Float()))
		},
		Check: func(a, b T) {
			if b.Float() == 0 {
				domainFail("fmod", a.Float(), b.Float())
			}
		},
	}
}

// Remainder returns the descriptor for the IEEE remainder
// a - round(a/b)*b. da = 1, db = -round(a/b).
func Remainder[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name: "remainder",
		Code: CodeRemainder,
		Primal: func(a, b T) T {
			q := math.RoundToEven(a.Float() / b.Float())
			return a.Sub(b.Mul(b.FromFloat(q)))
		},
		GradientA: func(a, b, r T) T { return one(r) },
		GradientB: func(a, b, r T) T {
			return r.FromFloat(-math.RoundToEven(a.Float() / b.Float()))
		},
		Check: func(a, b T) {
			if b.Float() == 0 {
				domainFail("remainder", a.Float(), b.Float())
			}
		},
	}
}

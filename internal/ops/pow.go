package ops

import (
	"math"

	"github.com/spool-ml/spool/internal/num"
)

// Pow returns the descriptor for a^b.
//
// da = b*a^(b-1). For a <= 0 the exponent is taken at its passive value:
// forming b-1 in the active type would drag an undefined log(a) branch
// into higher-order derivatives.
//
// db = log(a)*result for a > 0, zero otherwise. A negative base with a
// non-integral exponent is a domain error when checking is enabled.
func Pow[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name:   "pow",
		Code:   CodePow,
		Primal: func(a, b T) T { return a.Pow(b) },
		GradientA: func(a, b, r T) T {
			if a.Float() <= 0 {
				bp := b.Float()
				return b.Mul(a.Pow(a.FromFloat(bp - 1)))
			}
			return b.Mul(a.Pow(b.Sub(one(b))))
		},
		GradientB: func(a, b, r T) T {
			if a.Float() > 0 {
				return a.Log().Mul(r)
			}
			return zero(r)
		},
		Check: func(a, b T) {
			av, bv := a.Float(), b.Float()
			if av < 0 && bv != math.Trunc(bv) {
				domainFail("pow", av, bv)
			}
		},
	}
}

// Sqrt returns the descriptor for sqrt(x).
//
// d/dx = 0.5/result, guarded against a zero result. Negative arguments are
// a domain error when checking is enabled.
func Sqrt[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:   "sqrt",
		Code:   CodeSqrt,
		Primal: func(x T) T { return x.Sqrt() },
		Gradient: func(x, r T) T {
			if r.Float() == 0 {
				return zero(r)
			}
			return r.FromFloat(0.5).Div(r)
		},
		Check: func(x T) {
			if x.Float() < 0 {
				domainFail("sqrt", x.Float())
			}
		},
	}
}

// Cbrt returns the descriptor for the cube root. d/dx = 1/(3*result²).
func Cbrt[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:   "cbrt",
		Code:   CodeCbrt,
		Primal: func(x T) T { return x.Cbrt() },
		Gradient: func(x, r T) T {
			if r.Float() == 0 {
				return zero(r)
			}
			return one(r).Div(r.Mul(r).Mul(r.FromFloat(3)))
		},
	}
}

// Hypot returns the descriptor for sqrt(a²+b²).
//
// da = a/result, db = b/result, both guarded against a zero result.
func Hypot[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name:   "hypot",
		Code:   CodeHypot,
		Primal: func(a, b T) T { return a.Mul(a).Add(b.Mul(b)).Sqrt() },
		GradientA: func(a, b, r T) T {
			if r.Float() == 0 {
				return zero(r)
			}
			return a.Div(r)
		},
		GradientB: func(a, b, r T) T {
			if r.Float() == 0 {
				return zero(r)
			}
			return b.Div(r)
		},
	}
}

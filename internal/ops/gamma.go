package ops

import (
	"github.com/spool-ml/spool/internal/check"
	"github.com/spool-ml/spool/internal/num"
)

// Tgamma returns the descriptor for the gamma function.
//
// d/dx = Γ(x)·ψ(x) with ψ the digamma function, evaluated by a shifted
// recurrence plus an asymptotic tail (see num.Float64.Digamma). The
// derivative path is valid only for positive arguments.
//
// Non-positive input aborts the process regardless of the argument-checking
// switch. This matches the reference behavior; every other domain check is
// gated. Flagged as a candidate bug in DESIGN.md, preserved here.
func Tgamma[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name: "tgamma",
		Code: CodeTgamma,
		Primal: func(x T) T {
			if x.Float() <= 0 {
				check.Fatalf("tgamma: non-positive argument %e", x.Float())
			}
			return x.Gamma()
		},
		Gradient: func(x, r T) T {
			if x.Float() <= 0 {
				check.Fatalf("tgamma: non-positive argument %e in derivative", x.Float())
			}
			return r.Mul(x.Digamma())
		},
	}
}

// Digamma returns the descriptor for ψ(x) = Γ'(x)/Γ(x). Its derivative is
// the trigamma function ψ', evaluated by the same shift-then-asymptotic
// scheme. Valid for positive arguments.
func Digamma[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "digamma",
		Code:     CodeDigamma,
		Primal:   func(x T) T { return x.Digamma() },
		Gradient: func(x, r T) T { return trigamma(x) },
	}
}

// trigamma evaluates ψ'(x) for x > 0: shift upward with
// ψ'(x) = ψ'(x+1) + 1/x², then sum the asymptotic tail.
func trigamma[T num.Scalar[T]](x T) T {
	result := x.FromFloat(0)
	for x.Float() < 6 {
		result = result.Add(one(x).Div(x.Mul(x)))
		x = x.Add(one(x))
	}
	inv := one(x).Div(x)
	inv2 := inv.Mul(inv)
	// 1/x + 1/(2x²) + 1/(6x³) - 1/(30x⁵) + 1/(42x⁷)
	tail := inv.Add(inv2.Mul(x.FromFloat(0.5)))
	tail = tail.Add(inv2.Mul(inv).Mul(x.FromFloat(1.0 / 6.0)))
	tail = tail.Sub(inv2.Mul(inv2).Mul(inv).Mul(x.FromFloat(1.0 / 30.0)))
	tail = tail.Add(inv2.Mul(inv2).Mul(inv2).Mul(inv).Mul(x.FromFloat(1.0 / 42.0)))
	return result.Add(tail)
}

// Erf returns the descriptor for erf(x). d/dx = 2/sqrt(pi) * e^(-x²).
func Erf[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:   "erf",
		Code:   CodeErf,
		Primal: func(x T) T { return x.Erf() },
		Gradient: func(x, r T) T {
			return x.Mul(x).Neg().Exp().Mul(x.FromFloat(twoOverSqrtPi))
		},
	}
}

// Erfc returns the descriptor for erfc(x) = 1 - erf(x).
func Erfc[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:   "erfc",
		Code:   CodeErfc,
		Primal: func(x T) T { return x.Erfc() },
		Gradient: func(x, r T) T {
			return x.Mul(x).Neg().Exp().Mul(x.FromFloat(-twoOverSqrtPi))
		},
	}
}

const twoOverSqrtPi = 1.128379167095512573896158903121545172

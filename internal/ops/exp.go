package ops

import "github.com/spool-ml/spool/internal/num"

// Exp returns the descriptor for e^x. d(e^x)/dx = e^x.
func Exp[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "exp",
		Code:     CodeExp,
		Primal:   func(x T) T { return x.Exp() },
		Gradient: func(x, r T) T { return r },
	}
}

// Expm1 returns the descriptor for e^x - 1. d/dx = e^x = result + 1.
func Expm1[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "expm1",
		Code:     CodeExpm1,
		Primal:   func(x T) T { return x.Expm1() },
		Gradient: func(x, r T) T { return r.Add(one(r)) },
	}
}

// Log returns the descriptor for ln(x). d(ln x)/dx = 1/x.
// Non-positive arguments are a domain error when checking is enabled.
func Log[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "log",
		Code:     CodeLog,
		Primal:   func(x T) T { return x.Log() },
		Gradient: func(x, r T) T { return one(x).Div(x) },
		Check:    checkPositive[T]("log"),
	}
}

// Log1p returns the descriptor for ln(1+x). d/dx = 1/(1+x).
func Log1p[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "log1p",
		Code:     CodeLog1p,
		Primal:   func(x T) T { return x.Log1p() },
		Gradient: func(x, r T) T { return one(x).Div(one(x).Add(x)) },
		Check: func(x T) {
			if x.Float() <= -1 {
				domainFail("log1p", x.Float())
			}
		},
	}
}

// Log2 returns the descriptor for log2(x). d/dx = 1/(x ln 2).
func Log2[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "log2",
		Code:     CodeLog2,
		Primal:   func(x T) T { return x.Log2() },
		Gradient: func(x, r T) T { return one(x).Div(x.Mul(x.FromFloat(ln2))) },
		Check:    checkPositive[T]("log2"),
	}
}

// Log10 returns the descriptor for log10(x). d/dx = 1/(x ln 10).
func Log10[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "log10",
		Code:     CodeLog10,
		Primal:   func(x T) T { return x.Log10() },
		Gradient: func(x, r T) T { return one(x).Div(x.Mul(x.FromFloat(ln10))) },
		Check:    checkPositive[T]("log10"),
	}
}

const (
	ln2  = 0.693147180559945309417232121458176568
	ln10 = 2.302585092994045684017991454684364208
)

func checkPositive[T num.Scalar[T]](name string) func(T) {
	return func(x T) {
		if x.Float() <= 0 {
			domainFail(name, x.Float())
		}
	}
}

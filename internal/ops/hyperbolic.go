package ops

import "github.com/spool-ml/spool/internal/num"

// Sinh returns the descriptor for sinh(x). d/dx = cosh(x).
func Sinh[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "sinh",
		Code:     CodeSinh,
		Primal:   func(x T) T { return x.Sinh() },
		Gradient: func(x, r T) T { return x.Cosh() },
	}
}

// Cosh returns the descriptor for cosh(x). d/dx = sinh(x).
func Cosh[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "cosh",
		Code:     CodeCosh,
		Primal:   func(x T) T { return x.Cosh() },
		Gradient: func(x, r T) T { return x.Sinh() },
	}
}

// Tanh returns the descriptor for tanh(x). d/dx = 1 - tanh²(x).
func Tanh[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "tanh",
		Code:     CodeTanh,
		Primal:   func(x T) T { return x.Tanh() },
		Gradient: func(x, r T) T { return one(r).Sub(r.Mul(r)) },
	}
}

// Asinh returns the descriptor for asinh(x). d/dx = 1/sqrt(x²+1).
func Asinh[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "asinh",
		Code:     CodeAsinh,
		Primal:   func(x T) T { return x.Asinh() },
		Gradient: func(x, r T) T { return one(x).Div(x.Mul(x).Add(one(x)).Sqrt()) },
	}
}

// Acosh returns the descriptor for acosh(x). d/dx = 1/sqrt(x²-1).
// Arguments below 1 are a domain error when checking is enabled.
func Acosh[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "acosh",
		Code:     CodeAcosh,
		Primal:   func(x T) T { return x.Acosh() },
		Gradient: func(x, r T) T { return one(x).Div(x.Mul(x).Sub(one(x)).Sqrt()) },
		Check: func(x T) {
			if x.Float() < 1 {
				domainFail("acosh", x.Float())
			}
		},
	}
}

// Atanh returns the descriptor for atanh(x). d/dx = 1/(1-x²).
// Arguments outside (-1, 1) are a domain error when checking is enabled.
func Atanh[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "atanh",
		Code:     CodeAtanh,
		Primal:   func(x T) T { return x.Atanh() },
		Gradient: func(x, r T) T { return one(x).Div(one(x).Sub(x.Mul(x))) },
		Check: func(x T) {
			if v := x.Float(); v <= -1 || v >= 1 {
				domainFail("atanh", v)
			}
		},
	}
}

package ops

import "github.com/spool-ml/spool/internal/num"

// Add returns the descriptor for a+b.
//
// d(a+b)/da = 1, d(a+b)/db = 1.
func Add[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name:      "add",
		Code:      CodeAdd,
		Primal:    func(a, b T) T { return a.Add(b) },
		GradientA: func(a, b, r T) T { return one(r) },
		GradientB: func(a, b, r T) T { return one(r) },
	}
}

// Sub returns the descriptor for a-b.
func Sub[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name:      "sub",
		Code:      CodeSub,
		Primal:    func(a, b T) T { return a.Sub(b) },
		GradientA: func(a, b, r T) T { return one(r) },
		GradientB: func(a, b, r T) T { return one(r).Neg() },
	}
}

// Mul returns the descriptor for a*b.
//
// d(a*b)/da = b, d(a*b)/db = a.
func Mul[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name:      "mul",
		Code:      CodeMul,
		Primal:    func(a, b T) T { return a.Mul(b) },
		GradientA: func(a, b, r T) T { return b },
		GradientB: func(a, b, r T) T { return a },
	}
}

// Div returns the descriptor for a/b.
//
// d(a/b)/da = 1/b, d(a/b)/db = -result/b. A zero divisor is a domain
// error when checking is enabled.
func Div[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name:      "div",
		Code:      CodeDiv,
		Primal:    func(a, b T) T { return a.Div(b) },
		GradientA: func(a, b, r T) T { return one(b).Div(b) },
		GradientB: func(a, b, r T) T { return r.Neg().Div(b) },
		Check: func(a, b T) {
			if b.Float() == 0 {
				domainFail("div", a.Float(), b.Float())
			}
		},
	}
}

// Neg returns the descriptor for -x.
func Neg[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "neg",
		Code:     CodeNeg,
		Primal:   func(x T) T { return x.Neg() },
		Gradient: func(x, r T) T { return one(r).Neg() },
	}
}

// Scale returns the descriptor for x*c with a passive constant c.
// Used for ldexp/frexp and for preaccumulated statements.
func Scale[T num.Scalar[T]](c float64) Unary[T] {
	return Unary[T]{
		Name:     "scale",
		Code:     CodeScale,
		Primal:   func(x T) T { return x.Mul(x.FromFloat(c)) },
		Gradient: func(x, r T) T { return x.FromFloat(c) },
	}
}

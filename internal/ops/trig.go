package ops

import "github.com/spool-ml/spool/internal/num"

// Sin returns the descriptor for sin(x). d/dx = cos(x).
func Sin[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "sin",
		Code:     CodeSin,
		Primal:   func(x T) T { return x.Sin() },
		Gradient: func(x, r T) T { return x.Cos() },
	}
}

// Cos returns the descriptor for cos(x). d/dx = -sin(x).
func Cos[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "cos",
		Code:     CodeCos,
		Primal:   func(x T) T { return x.Cos() },
		Gradient: func(x, r T) T { return x.Sin().Neg() },
	}
}

// Tan returns the descriptor for tan(x). d/dx = 1/cos²(x).
func Tan[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:   "tan",
		Code:   CodeTan,
		Primal: func(x T) T { return x.Tan() },
		Gradient: func(x, r T) T {
			c := x.Cos()
			return one(x).Div(c.Mul(c))
		},
		Check: func(x T) {
			if x.Cos().Float() == 0 {
				domainFail("tan", x.Float())
			}
		},
	}
}

// Asin returns the descriptor for asin(x). d/dx = 1/sqrt(1-x²).
// Arguments outside [-1, 1] are a domain error when checking is enabled.
func Asin[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "asin",
		Code:     CodeAsin,
		Primal:   func(x T) T { return x.Asin() },
		Gradient: func(x, r T) T { return one(x).Div(one(x).Sub(x.Mul(x)).Sqrt()) },
		Check:    checkUnitInterval[T]("asin"),
	}
}

// Acos returns the descriptor for acos(x). d/dx = -1/sqrt(1-x²).
func Acos[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "acos",
		Code:     CodeAcos,
		Primal:   func(x T) T { return x.Acos() },
		Gradient: func(x, r T) T { return one(x).Neg().Div(one(x).Sub(x.Mul(x)).Sqrt()) },
		Check:    checkUnitInterval[T]("acos"),
	}
}

// Atan returns the descriptor for atan(x). d/dx = 1/(1+x²).
func Atan[T num.Scalar[T]]() Unary[T] {
	return Unary[T]{
		Name:     "atan",
		Code:     CodeAtan,
		Primal:   func(x T) T { return x.Atan() },
		Gradient: func(x, r T) T { return one(x).Div(one(x).Add(x.Mul(x))) },
	}
}

// Atan2 returns the descriptor for atan2(a, b).
//
// da = b/(a²+b²), db = -a/(a²+b²). The origin is a domain error when
// checking is enabled.
func Atan2[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name: "atan2",
		Code: CodeAtan2,
		Primal: func(a, b T) T {
			// atan2 via the scalar contract: quadrant handled on the
			// passive values, magnitude through atan for derivatives.
			return atan2Primal(a, b)
		},
		GradientA: func(a, b, r T) T {
			return b.Div(a.Mul(a).Add(b.Mul(b)))
		},
		GradientB: func(a, b, r T) T {
			return a.Neg().Div(a.Mul(a).Add(b.Mul(b)))
		},
		Check: func(a, b T) {
			if a.Float() == 0 && b.Float() == 0 {
				domainFail("atan2", a.Float(), b.Float())
			}
		},
	}
}

// atan2Primal computes atan2(a, b) generically: atan(a/b) shifted by the
// quadrant constant, so derivative information in a and b is preserved.
func atan2Primal[T num.Scalar[T]](a, b T) T {
	av, bv := a.Float(), b.Float()
	switch {
	case bv > 0:
		return a.Div(b).Atan()
	case bv < 0 && av >= 0:
		return a.Div(b).Atan().Add(a.FromFloat(pi))
	case bv < 0:
		return a.Div(b).Atan().Sub(a.FromFloat(pi))
	case av > 0: // b == 0
		return a.FromFloat(pi / 2)
	case av < 0:
		return a.FromFloat(-pi / 2)
	default:
		return a.FromFloat(0)
	}
}

const pi = 3.141592653589793238462643383279502884

func checkUnitInterval[T num.Scalar[T]](name string) func(T) {
	return func(x T) {
		if v := x.Float(); v < -1 || v > 1 {
			domainFail(name, v)
		}
	}
}

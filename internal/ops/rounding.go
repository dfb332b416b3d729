package ops

import (
	"math"

	"github.com/spool-ml/spool/internal/num"
)

// The rounding family is locally non-differentiable and treated as
// piecewise constant: the primal is computed on the passive value and the
// derivative is zero everywhere.

// Ceil returns the descriptor for ceil(x).
func Ceil[T num.Scalar[T]]() Unary[T] { return passiveUnary[T]("ceil", CodeCeil, math.Ceil) }

// Floor returns the descriptor for floor(x).
func Floor[T num.Scalar[T]]() Unary[T] { return passiveUnary[T]("floor", CodeFloor, math.Floor) }

// Round returns the descriptor for round-half-away-from-zero.
func Round[T num.Scalar[T]]() Unary[T] { return passiveUnary[T]("round", CodeRound, math.Round) }

// Trunc returns the descriptor for trunc(x).
func Trunc[T num.Scalar[T]]() Unary[T] { return passiveUnary[T]("trunc", CodeTrunc, math.Trunc) }

func passiveUnary[T num.Scalar[T]](name string, code Code, f func(float64) float64) Unary[T] {
	return Unary[T]{
		Name:     name,
		Code:     code,
		Primal:   func(x T) T { return x.FromFloat(f(x.Float())) },
		Gradient: func(x, r T) T { return zero(r) },
	}
}

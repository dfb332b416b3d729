// Copyright 2026 The Spool Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package forward provides tape-free forward-mode differentiation.
//
// A Dual carries a primal value and one tangent; arithmetic propagates
// both at once. Nesting duals raises the derivative order:
//
//	import (
//	    "github.com/spool-ml/spool/forward"
//	    "github.com/spool-ml/spool/num"
//	)
//
//	x := forward.Seeded(2.0)       // value 2, tangent 1
//	y := x.Mul(x).Sin()            // sin(x²)
//	fmt.Println(y.Gradient())      // 2x·cos(x²) at x=2
//
//	// Second order: seed the inner and outer tangents.
//	x2 := forward.Variable(forward.Seeded(2.0), forward.Lift(num.F(1)))
//	_ = x2
package forward

import (
	"github.com/spool-ml/spool/internal/forward"
	"github.com/spool-ml/spool/internal/num"
)

// Dual is a forward-mode number: a primal value and a tangent.
type Dual[T num.Scalar[T]] = forward.Dual[T]

// Lift wraps a passive value with a zero tangent.
func Lift[T num.Scalar[T]](v T) Dual[T] { return forward.Lift(v) }

// Variable builds a dual with an explicit tangent seed.
func Variable[T num.Scalar[T]](v, dot T) Dual[T] { return forward.Variable(v, dot) }

// Real wraps a float64 with a zero tangent at the base level.
func Real(v float64) Dual[num.Float64] { return forward.Real(v) }

// Seeded wraps a float64 with a unit tangent, the usual way to mark the
// differentiation direction.
func Seeded(v float64) Dual[num.Float64] { return forward.Seeded(v) }

// Ldexp computes d·2^e.
func Ldexp[T num.Scalar[T]](d Dual[T], e int) Dual[T] { return forward.Ldexp(d, e) }

// Frexp splits d into a fraction in [1/2, 1) and an integer exponent.
func Frexp[T num.Scalar[T]](d Dual[T]) (Dual[T], int) { return forward.Frexp(d) }

// Fmod computes fmod(a, b).
func Fmod[T num.Scalar[T]](a, b Dual[T]) Dual[T] { return forward.Fmod(a, b) }

// Remainder computes the IEEE remainder of a/b.
func Remainder[T num.Scalar[T]](a, b Dual[T]) Dual[T] { return forward.Remainder(a, b) }

// Copysign returns |a| with b's sign.
func Copysign[T num.Scalar[T]](a, b Dual[T]) Dual[T] { return forward.Copysign(a, b) }

func Ceil[T num.Scalar[T]](d Dual[T]) Dual[T]  { return forward.Ceil(d) }
func Floor[T num.Scalar[T]](d Dual[T]) Dual[T] { return forward.Floor(d) }
func Round[T num.Scalar[T]](d Dual[T]) Dual[T] { return forward.Round(d) }
func Trunc[T num.Scalar[T]](d Dual[T]) Dual[T] { return forward.Trunc(d) }

func Less[T num.Scalar[T]](a, b Dual[T]) bool    { return forward.Less(a, b) }
func Greater[T num.Scalar[T]](a, b Dual[T]) bool { return forward.Greater(a, b) }
func Equal[T num.Scalar[T]](a, b Dual[T]) bool   { return forward.Equal(a, b) }

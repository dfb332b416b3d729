// Copyright 2026 The Spool Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package reverse provides the active value types for reverse-mode
// differentiation. Arithmetic on actives records statements on the
// bound tape; evaluating the tape afterwards yields gradients of every
// registered output with respect to every registered input.
//
// Example:
//
//	t := tape.New[num.Float64](tape.DefaultOptions())
//	t.SetActive()
//	x := reverse.Input(t, num.F(2))
//	y := x.Exp().Div(x)
//	y.RegisterOutput()
//	y.SetGradient(num.F(1))
//	t.Evaluate()
//	fmt.Println(x.Gradient()) // e^x(x-1)/x² at 2
package reverse

import (
	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/reverse"
	"github.com/spool-ml/spool/internal/tape"
)

// Active is a Jacobian-tape scalar.
type Active[T num.Scalar[T]] = reverse.Active[T]

// PrimalActive is a primal-value-tape scalar.
type PrimalActive[T num.Scalar[T]] = reverse.PrimalActive[T]

// New returns a passive value bound to t.
func New[T num.Scalar[T]](t *tape.Tape[T], v T) Active[T] { return reverse.New(t, v) }

// NewFloat is New for a plain float primal.
func NewFloat[T num.Scalar[T]](t *tape.Tape[T], v float64) Active[T] {
	return reverse.NewFloat[T](t, v)
}

// Input registers a true program input on t. Call once per input, while
// the tape is active.
func Input[T num.Scalar[T]](t *tape.Tape[T], v T) Active[T] { return reverse.Input(t, v) }

// PrimalInput registers a true program input on a primal-value tape.
func PrimalInput[T num.Scalar[T]](t *tape.PrimalTape[T], v T) PrimalActive[T] {
	return reverse.PrimalInput(t, v)
}

// NewPrimalValue returns a passive constant bound to a primal-value
// tape.
func NewPrimalValue[T num.Scalar[T]](t *tape.PrimalTape[T], v T) PrimalActive[T] {
	return reverse.NewPrimalValue(t, v)
}

// Ldexp computes a·2^e.
func Ldexp[T num.Scalar[T]](a Active[T], e int) Active[T] { return reverse.Ldexp(a, e) }

// Frexp splits a into a fraction in [1/2, 1) and an integer exponent.
func Frexp[T num.Scalar[T]](a Active[T]) (Active[T], int) { return reverse.Frexp(a) }

// Fmod computes fmod(a, b).
func Fmod[T num.Scalar[T]](a, b Active[T]) Active[T] { return reverse.Fmod(a, b) }

// Remainder computes the IEEE remainder of a/b.
func Remainder[T num.Scalar[T]](a, b Active[T]) Active[T] { return reverse.Remainder(a, b) }

// Copysign returns |a| with b's sign.
func Copysign[T num.Scalar[T]](a, b Active[T]) Active[T] { return reverse.Copysign(a, b) }

func Ceil[T num.Scalar[T]](a Active[T]) Active[T]  { return reverse.Ceil(a) }
func Floor[T num.Scalar[T]](a Active[T]) Active[T] { return reverse.Floor(a) }
func Round[T num.Scalar[T]](a Active[T]) Active[T] { return reverse.Round(a) }
func Trunc[T num.Scalar[T]](a Active[T]) Active[T] { return reverse.Trunc(a) }

func Less[T num.Scalar[T]](a, b Active[T]) bool    { return reverse.Less(a, b) }
func Greater[T num.Scalar[T]](a, b Active[T]) bool { return reverse.Greater(a, b) }
func Equal[T num.Scalar[T]](a, b Active[T]) bool   { return reverse.Equal(a, b) }

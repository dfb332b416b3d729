// Copyright 2026 The Spool Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package num exposes the scalar contract shared by Spool's derivative
// types and the base Float64 that terminates any nesting.
//
// Example:
//
//	import "github.com/spool-ml/spool/num"
//
//	x := num.F(1.5)
//	y := x.Sin().Mul(x) // plain passive arithmetic
package num

import "github.com/spool-ml/spool/internal/num"

// Scalar is the arithmetic contract for differentiable numbers. Every
// derivative type in Spool satisfies Scalar of itself, so types nest:
// Dual[Dual[Float64]] holds second-order information.
type Scalar[T any] = num.Scalar[T]

// Float64 is the base scalar backed by the math package.
type Float64 = num.Float64

// F lifts a float64 into the base scalar.
func F(v float64) Float64 { return num.F(v) }

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool { return num.IsFinite(v) }

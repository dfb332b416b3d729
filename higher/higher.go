// Copyright 2026 The Spool Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package higher addresses individual derivatives inside nested
// derivative types by order and index instead of explicit slot paths.
//
// A type nested d levels deep holds C(d, k) derivative slots of order k.
// Select(v, k, l) walks the value and derivative slots to the l-th such
// slot:
//
//	x := forward.Variable(forward.Seeded(2.0), forward.Lift(num.F(1)))
//	y := x.Mul(x).Mul(x)                 // x³, tracked to second order
//	d2 := higher.Select(y, 2, 0)         // 6x at x=2
package higher

import "github.com/spool-ml/spool/internal/higher"

// Binomial returns C(n, k).
func Binomial(n, k int) int { return higher.Binomial(n, k) }

// Depth reports how many derivative levels v nests.
func Depth(v any) int { return higher.Depth(v) }

// NumDerivatives returns how many order-k derivative slots a depth-d
// type holds.
func NumDerivatives(depth, order int) int { return higher.NumDerivatives(depth, order) }

// Select returns derivative number index of the given order from v. It
// aborts on out-of-range order or index.
func Select(v any, order, index int) float64 { return higher.Select(v, order, index) }

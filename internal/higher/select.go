// Package higher addresses individual higher-order derivatives inside
// nested derivative types.
//
// Nesting derivative types d levels deep yields 2^d scalar slots; the
// mixed partials of order k among them number C(d, k) and are all equal
// for sufficiently smooth functions, but they sit at different slot
// paths. Select walks the value/derivative slots with a Pascal-triangle
// split so callers can say "order k, instance l" instead of spelling the
// path.
package higher

import "github.com/spool-ml/spool/internal/check"

// Slots is implemented by every nested derivative type: the primal slot
// and the derivative slot, each either another Slots or a base scalar.
type Slots interface {
	PrimalSlot() any
	DerivativeSlot() any
}

// floater is the base-scalar terminator of a slot chain.
type floater interface {
	Float() float64
}

// Binomial returns C(n, k), with the usual zero outside 0 <= k <= n.
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	r := 1
	for i := 0; i < k; i++ {
		r = r * (n - i) / (i + 1)
	}
	return r
}

// Depth reports how many derivative levels v nests.
func Depth(v any) int {
	d := 0
	for {
		s, ok := v.(Slots)
		if !ok {
			return d
		}
		v = s.PrimalSlot()
		d++
	}
}

// NumDerivatives returns how many order-k derivative slots a depth-d
// type holds.
func NumDerivatives(depth, order int) int {
	return Binomial(depth, order)
}

// Select returns derivative number index of the given order from v.
// Index runs over [0, C(depth, order)). At each level the first
// C(depth-1, order) indices continue into the primal slot keeping the
// order, the rest continue into the derivative slot with the order
// reduced by one.
func Select(v any, order, index int) float64 {
	depth := Depth(v)
	if order < 0 || order > depth {
		check.Fatalf("derivative order %d out of range for depth %d", order, depth)
	}
	n := Binomial(depth, order)
	if index < 0 || index >= n {
		check.Fatalf("derivative index %d out of range: depth %d order %d has %d slots", index, depth, order, n)
	}
	return sel(v, depth, order, index)
}

func sel(v any, depth, order, index int) float64 {
	if depth == 0 {
		f, ok := v.(floater)
		if !ok {
			check.Fatalf("slot chain ends in %T, which has no passive value", v)
		}
		return f.Float()
	}
	s := v.(Slots)
	primal := Binomial(depth-1, order)
	if index < primal {
		return sel(s.PrimalSlot(), depth-1, order, index)
	}
	return sel(s.DerivativeSlot(), depth-1, order-1, index-primal)
}

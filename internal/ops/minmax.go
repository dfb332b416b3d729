package ops

import "github.com/spool-ml/spool/internal/num"

// The min/max family uses one-sided derivatives. Tie handling differs
// between Max/Min and Fmax/Fmin: Max favors the first argument only on
// strict a > b (a tie selects b), while Fmax selects the first argument on
// a >= b. The Fmin/Fmax convention is deliberately the reverse of
// Min/Max; keep the branch conditions literal.

// Max returns the descriptor for max(a, b).
func Max[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name: "max",
		Code: CodeMax,
		Primal: func(a, b T) T {
			if a.Float() > b.Float() {
				return a
			}
			return b
		},
		GradientA: func(a, b, r T) T {
			if a.Float() > b.Float() {
				return one(r)
			}
			return zero(r)
		},
		GradientB: func(a, b, r T) T {
			if a.Float() > b.Float() {
				return zero(r)
			}
			return one(r)
		},
	}
}

// Min returns the descriptor for min(a, b).
func Min[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name: "min",
		Code: CodeMin,
		Primal: func(a, b T) T {
			if a.Float() < b.Float() {
				return a
			}
			return b
		},
		GradientA: func(a, b, r T) T {
			if a.Float() < b.Float() {
				return one(r)
			}
			return zero(r)
		},
		GradientB: func(a, b, r T) T {
			if a.Float() < b.Float() {
				return zero(r)
			}
			return one(r)
		},
	}
}

// Fmax returns the descriptor for fmax(a, b). At a tie the derivative goes
// to the first argument (reversed relative to Max).
func Fmax[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name: "fmax",
		Code: CodeFmax,
		Primal: func(a, b T) T {
			if a.Float() >= b.Float() {
				return a
			}
			return b
		},
		GradientA: func(a, b, r T) T {
			if a.Float() >= b.Float() {
				return one(r)
			}
			return zero(r)
		},
		GradientB: func(a, b, r T) T {
			if a.Float() >= b.Float() {
				return zero(r)
			}
			return one(r)
		},
	}
}

// Fmin returns the descriptor for fmin(a, b). At a tie the derivative goes
// to the first argument (reversed relative to Min).
func Fmin[T num.Scalar[T]]() Binary[T] {
	return Binary[T]{
		Name: "fmin",
		Code: CodeFmin,
		Primal: func(a, b T) T {
			if a.Float() <= b.Float() {
				return a
			}
			return b
		},
		GradientA: func(a, b, r T) T {
			if a.Float() <= b.Float() {
				return one(r)
			}
			return zero(r)
		},
		GradientB: func(a, b, r T) T {
			if a.Float() <= b.Float() {
				return zero(r)
			}
			return one(r)
		},
	}
}

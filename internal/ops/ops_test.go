package ops

import (
	"math"
	"testing"

	"github.com/spool-ml/spool/internal/config"
	"github.com/spool-ml/spool/internal/num"
)

// fd computes a central finite difference of f at x.
func fd(f func(float64) float64, x float64) float64 {
	h := 1e-6 * math.Max(1, math.Abs(x))
	return (f(x+h) - f(x-h)) / (2 * h)
}

func relErr(got, want float64) float64 {
	return math.Abs(got-want) / math.Max(1, math.Abs(want))
}

func evalUnary(op Unary[num.Float64], x float64) (primal, grad float64) {
	xv := num.F(x)
	r := op.Primal(xv)
	return r.Float(), op.Gradient(xv, r).Float()
}

func TestUnaryGradients(t *testing.T) {
	cases := []struct {
		op     Unary[num.Float64]
		points []float64
	}{
		{Sin[num.Float64](), []float64{-2, 0.3, 1.7}},
		{Cos[num.Float64](), []float64{-2, 0.3, 1.7}},
		{Tan[num.Float64](), []float64{-1.2, 0.3, 1.1}},
		{Asin[num.Float64](), []float64{-0.8, 0, 0.5}},
		{Acos[num.Float64](), []float64{-0.8, 0, 0.5}},
		{Atan[num.Float64](), []float64{-3, 0.3, 7}},
		{Sinh[num.Float64](), []float64{-2, 0.3, 1.7}},
		{Cosh[num.Float64](), []float64{-2, 0.3, 1.7}},
		{Tanh[num.Float64](), []float64{-2, 0.3, 1.7}},
		{Asinh[num.Float64](), []float64{-2, 0.3, 1.7}},
		{Acosh[num.Float64](), []float64{1.2, 2, 9}},
		{Atanh[num.Float64](), []float64{-0.8, 0.1, 0.6}},
		{Exp[num.Float64](), []float64{-1, 0.5, 2}},
		{Expm1[num.Float64](), []float64{-1, 0.5, 2}},
		{Log[num.Float64](), []float64{0.2, 1, 5}},
		{Log1p[num.Float64](), []float64{-0.5, 0.5, 3}},
		{Log2[num.Float64](), []float64{0.2, 1, 5}},
		{Log10[num.Float64](), []float64{0.2, 1, 5}},
		{Sqrt[num.Float64](), []float64{0.3, 1, 16}},
		{Cbrt[num.Float64](), []float64{0.3, 1, 27}},
		{Abs[num.Float64](), []float64{-3, 2}},
		{Erf[num.Float64](), []float64{-1, 0.2, 1.5}},
		{Erfc[num.Float64](), []float64{-1, 0.2, 1.5}},
		{Tgamma[num.Float64](), []float64{0.7, 1.5, 4}},
		{Digamma[num.Float64](), []float64{0.7, 1.5, 4}},
		{Scale[num.Float64](2.5), []float64{-2, 0, 3}},
	}

	for _, c := range cases {
		primalOf := func(x float64) float64 {
			return c.op.Primal(num.F(x)).Float()
		}
		for _, x := range c.points {
			_, grad := evalUnary(c.op, x)
			want := fd(primalOf, x)
			if relErr(grad, want) > 1e-4 {
				t.Errorf("%s'(%v) = %v, finite difference %v", c.op.Name, x, grad, want)
			}
		}
	}
}

func evalBinary(op Binary[num.Float64], a, b float64) (da, db float64) {
	av, bv := num.F(a), num.F(b)
	r := op.Primal(av, bv)
	return op.GradientA(av, bv, r).Float(), op.GradientB(av, bv, r).Float()
}

func TestBinaryGradients(t *testing.T) {
	cases := []struct {
		op     Binary[num.Float64]
		points [][2]float64
	}{
		{Add[num.Float64](), [][2]float64{{1, 2}, {-3, 0.5}}},
		{Sub[num.Float64](), [][2]float64{{1, 2}, {-3, 0.5}}},
		{Mul[num.Float64](), [][2]float64{{1.5, 2}, {-3, 0.5}}},
		{Div[num.Float64](), [][2]float64{{1.5, 2}, {-3, 0.5}}},
		{Pow[num.Float64](), [][2]float64{{1.5, 2}, {2, -0.5}, {3, 3}}},
		{Atan2[num.Float64](), [][2]float64{{1, 2}, {-1, 2}, {1, -2}, {-1, -2}}},
		{Hypot[num.Float64](), [][2]float64{{3, 4}, {-1, 2}}},
		{Fmod[num.Float64](), [][2]float64{{7.3, 2.1}, {-7.3, 2.1}}},
		{Remainder[num.Float64](), [][2]float64{{7.3, 2.1}, {-7.3, 2.1}}},
		{Copysign[num.Float64](), [][2]float64{{3, -1}, {-3, 2}}},
	}

	for _, c := range cases {
		for _, p := range c.points {
			a, b := p[0], p[1]
			da, db := evalBinary(c.op, a, b)

			wantA := fd(func(x float64) float64 { return c.op.Primal(num.F(x), num.F(b)).Float() }, a)
			wantB := fd(func(x float64) float64 { return c.op.Primal(num.F(a), num.F(x)).Float() }, b)

			if relErr(da, wantA) > 1e-4 {
				t.Errorf("%s: dA at (%v,%v) = %v, finite difference %v", c.op.Name, a, b, da, wantA)
			}
			if relErr(db, wantB) > 1e-4 {
				t.Errorf("%s: dB at (%v,%v) = %v, finite difference %v", c.op.Name, a, b, db, wantB)
			}
		}
	}
}

func TestAtan2Quadrants(t *testing.T) {
	op := Atan2[num.Float64]()
	for _, p := range [][2]float64{{1, 2}, {1, -2}, {-1, 2}, {-1, -2}, {3, 0}, {-3, 0}} {
		got := op.Primal(num.F(p[0]), num.F(p[1])).Float()
		want := math.Atan2(p[0], p[1])
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("atan2(%v,%v) = %v, want %v", p[0], p[1], got, want)
		}
	}
}

func TestPowSpecialCases(t *testing.T) {
	op := Pow[num.Float64]()

	// Negative base with integer exponent: dA uses b*a^(b-1).
	da, db := evalBinary(op, -2, 3)
	if math.Abs(da-12) > 1e-10 {
		t.Errorf("pow dA at (-2,3) = %v, want 12", da)
	}
	// log(a) is undefined for a <= 0, so dB is zero there.
	if db != 0 {
		t.Errorf("pow dB at (-2,3) = %v, want 0", db)
	}

	// Zero base: result 0, dB must be zero, not NaN.
	_, db = evalBinary(op, 0, 2)
	if db != 0 {
		t.Errorf("pow dB at (0,2) = %v, want 0", db)
	}
}

func TestAbsSubgradient(t *testing.T) {
	op := Abs[num.Float64]()
	for _, c := range []struct{ x, want float64 }{{-2, -1}, {0, 0}, {3, 1}} {
		_, grad := evalUnary(op, c.x)
		if grad != c.want {
			t.Errorf("abs'(%v) = %v, want %v", c.x, grad, c.want)
		}
	}
}

func TestSqrtAtZero(t *testing.T) {
	_, grad := evalUnary(Sqrt[num.Float64](), 0)
	if math.IsNaN(grad) || math.IsInf(grad, 0) {
		t.Errorf("sqrt'(0) = %v, want finite guard value", grad)
	}
}

func TestRoundingPassive(t *testing.T) {
	for _, op := range []Unary[num.Float64]{
		Ceil[num.Float64](), Floor[num.Float64](), Round[num.Float64](), Trunc[num.Float64](),
	} {
		_, grad := evalUnary(op, 2.7)
		if grad != 0 {
			t.Errorf("%s'(2.7) = %v, want 0", op.Name, grad)
		}
	}
}

// The two min/max families deliberately disagree on ties.
func TestMinMaxTies(t *testing.T) {
	a, b := num.F(2), num.F(2)

	// Max/Min: a tie selects the second argument.
	if da := Max[num.Float64]().GradientA(a, b, a); da.Float() != 0 {
		t.Errorf("max tie dA = %v, want 0", da.Float())
	}
	if db := Max[num.Float64]().GradientB(a, b, a); db.Float() != 1 {
		t.Errorf("max tie dB = %v, want 1", db.Float())
	}

	// Fmax/Fmin: a tie selects the first argument.
	if da := Fmax[num.Float64]().GradientA(a, b, a); da.Float() != 1 {
		t.Errorf("fmax tie dA = %v, want 1", da.Float())
	}
	if db := Fmax[num.Float64]().GradientB(a, b, a); db.Float() != 0 {
		t.Errorf("fmax tie dB = %v, want 0", db.Float())
	}
}

func expectDomainPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("%s: expected domain panic", name)
			return
		}
		if _, ok := r.(*DomainError); !ok {
			t.Errorf("%s: panic value %T, want *DomainError", name, r)
		}
	}()
	f()
}

func TestDomainChecks(t *testing.T) {
	config.SetArgumentChecking(true)
	defer config.SetArgumentChecking(false)

	expectDomainPanic(t, "log", func() { Log[num.Float64]().Eval(num.F(-1)) })
	expectDomainPanic(t, "sqrt", func() { Sqrt[num.Float64]().Eval(num.F(-1)) })
	expectDomainPanic(t, "asin", func() { Asin[num.Float64]().Eval(num.F(2)) })
	expectDomainPanic(t, "acosh", func() { Acosh[num.Float64]().Eval(num.F(0.5)) })
	expectDomainPanic(t, "atanh", func() { Atanh[num.Float64]().Eval(num.F(2)) })
	expectDomainPanic(t, "div", func() { Div[num.Float64]().Eval(num.F(1), num.F(0)) })
	expectDomainPanic(t, "fmod", func() { Fmod[num.Float64]().Eval(num.F(1), num.F(0)) })
	expectDomainPanic(t, "atan2", func() { Atan2[num.Float64]().Eval(num.F(0), num.F(0)) })
	expectDomainPanic(t, "pow", func() { Pow[num.Float64]().Eval(num.F(-2), num.F(0.5)) })
}

func TestChecksOffByDefault(t *testing.T) {
	config.SetArgumentChecking(false)

	// IEEE semantics apply: no panic, NaN result.
	r := Log[num.Float64]().Eval(num.F(-1))
	if !math.IsNaN(r.Float()) {
		t.Errorf("log(-1) without checks = %v, want NaN", r.Float())
	}
	r = Div[num.Float64]().Eval(num.F(1), num.F(0))
	if !math.IsInf(r.Float(), 1) {
		t.Errorf("1/0 without checks = %v, want +Inf", r.Float())
	}
}

func TestRegistryByCode(t *testing.T) {
	unary := []Unary[num.Float64]{
		Sin[num.Float64](), Exp[num.Float64](), Sqrt[num.Float64](), Tgamma[num.Float64](),
	}
	for _, op := range unary {
		got, ok := UnaryByCode[num.Float64](op.Code)
		if !ok {
			t.Errorf("UnaryByCode(%d) not found for %s", op.Code, op.Name)
			continue
		}
		if got.Name != op.Name {
			t.Errorf("UnaryByCode(%d) = %s, want %s", op.Code, got.Name, op.Name)
		}
	}

	binary := []Binary[num.Float64]{
		Add[num.Float64](), Pow[num.Float64](), Atan2[num.Float64](),
	}
	for _, op := range binary {
		got, ok := BinaryByCode[num.Float64](op.Code)
		if !ok {
			t.Errorf("BinaryByCode(%d) not found for %s", op.Code, op.Name)
			continue
		}
		if got.Name != op.Name {
			t.Errorf("BinaryByCode(%d) = %s, want %s", op.Code, got.Name, op.Name)
		}
	}

	if _, ok := UnaryByCode[num.Float64](CodeScale); ok {
		t.Error("CodeScale must not resolve without its constant operand")
	}
}

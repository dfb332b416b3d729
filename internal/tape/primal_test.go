package tape_test

import (
	"math"
	"testing"

	"github.com/spool-ml/spool/internal/config"
	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/ops"
	"github.com/spool-ml/spool/internal/reverse"
	"github.com/spool-ml/spool/internal/tape"
)

func newPrimalTape(t *testing.T, mutate ...func(*config.Options)) *tape.PrimalTape[num.Float64] {
	t.Helper()
	opts := config.Default()
	for _, m := range mutate {
		m(&opts)
	}
	tp := tape.NewPrimal[num.Float64](opts)
	tp.SetActive()
	return tp
}

// dSinSq is d/dx of x²·sin(x).
func dSinSq(x float64) float64 {
	return 2*x*math.Sin(x) + x*x*math.Cos(x)
}

func recordSinSq(tp *tape.PrimalTape[num.Float64], x0 float64) (x, y reverse.PrimalActive[num.Float64]) {
	x = reverse.PrimalInput(tp, num.F(x0))
	y = x.Mul(x).Mul(x.Apply1(ops.Sin[num.Float64]()))
	return x, y
}

func TestPrimalTapeEvaluate(t *testing.T) {
	tp := newPrimalTape(t)
	x, y := recordSinSq(tp, 0.7)

	wantPrimal := 0.49 * math.Sin(0.7)
	if got := y.Value().Float(); math.Abs(got-wantPrimal) > 1e-12 {
		t.Errorf("primal = %v, want %v", got, wantPrimal)
	}

	y.SetGradient(num.F(1))
	tp.Evaluate()
	if got := x.Gradient().Float(); math.Abs(got-dSinSq(0.7)) > 1e-12 {
		t.Errorf("gradient = %v, want %v", got, dSinSq(0.7))
	}
}

func TestPrimalTapeReplayWithNewInput(t *testing.T) {
	tp := newPrimalTape(t)
	x, y := recordSinSq(tp, 0.7)

	y.SetGradient(num.F(1))
	tp.Evaluate()
	tp.ClearAdjoints()

	// Same recording, different input, no re-recording.
	tp.SetInput(x.Identifier(), num.F(1.3))
	tp.EvaluatePrimal()

	wantPrimal := 1.3 * 1.3 * math.Sin(1.3)
	if got := tp.Primal(y.Identifier()).Float(); math.Abs(got-wantPrimal) > 1e-12 {
		t.Errorf("replayed primal = %v, want %v", got, wantPrimal)
	}

	tp.SetGradient(y.Identifier(), num.F(1))
	tp.Evaluate()
	if got := tp.Gradient(x.Identifier()).Float(); math.Abs(got-dSinSq(1.3)) > 1e-12 {
		t.Errorf("replayed gradient = %v, want %v", got, dSinSq(1.3))
	}
}

func TestPrimalTapeScaleConstant(t *testing.T) {
	tp := newPrimalTape(t)
	x := reverse.PrimalInput(tp, num.F(3))
	y := x.Scale(2.5)

	y.SetGradient(num.F(1))
	tp.Evaluate()
	if got := x.Gradient().Float(); got != 2.5 {
		t.Errorf("gradient = %v, want 2.5", got)
	}
	if got := tp.GetParameter(tape.ConstantValuesSize); got < 1 {
		t.Errorf("ConstantValuesSize = %d, want at least 1", got)
	}
}

func TestPrimalTapePassiveDegeneration(t *testing.T) {
	tp := newPrimalTape(t)

	// No active references: the statement is not recorded.
	c := reverse.NewPrimalValue(tp, num.F(2))
	y := c.Mul(c)
	if y.Identifier() != idx.Passive {
		t.Errorf("identifier = %d, want passive", y.Identifier())
	}
	if tp.NumStatements() != 0 {
		t.Errorf("statements = %d, want 0", tp.NumStatements())
	}
}

func TestPrimalTapeResetTo(t *testing.T) {
	tp := newPrimalTape(t)
	x := reverse.PrimalInput(tp, num.F(2))
	y := x.Mul(x)

	pos := tp.Position()
	_ = y.Mul(y).Add(x)

	tp.ResetTo(pos)
	if tp.NumStatements() != 1 {
		t.Errorf("statements after ResetTo = %d, want 1", tp.NumStatements())
	}

	y.SetGradient(num.F(1))
	tp.Evaluate()
	if got := x.Gradient().Float(); got != 4 {
		t.Errorf("gradient = %v, want 4", got)
	}
}

func TestPrimalTapeExternalPrimalCallback(t *testing.T) {
	tp := newPrimalTape(t)
	x := reverse.PrimalInput(tp, num.F(1))
	_ = x.Mul(x)

	called := 0
	tp.PushExternalFunction(tape.ExternalFunction[num.Float64]{
		Primal: func(tape.GradientAccess[num.Float64], any) { called++ },
	})

	tp.EvaluatePrimal()
	if called != 1 {
		t.Errorf("primal callback ran %d times, want 1", called)
	}
}

func TestPrimalTapeParameters(t *testing.T) {
	tp := newPrimalTape(t)
	x := reverse.PrimalInput(tp, num.F(2))
	_ = x.Mul(x).Add(x)

	if got := tp.GetParameter(tape.PrimalSize); got != int(tp.LargestIdentifier())+1 {
		t.Errorf("PrimalSize = %d, want %d", got, int(tp.LargestIdentifier())+1)
	}
	if got := tp.GetParameter(tape.JacobianSize); got != 0 {
		t.Errorf("JacobianSize = %d, want 0 on a primal-value tape", got)
	}
}

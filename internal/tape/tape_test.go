package tape_test

import (
	"math"
	"testing"

	"github.com/spool-ml/spool/internal/config"
	"github.com/spool-ml/spool/internal/expr"
	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/ops"
	"github.com/spool-ml/spool/internal/reverse"
	"github.com/spool-ml/spool/internal/tape"
)

func newTape(t *testing.T, mutate ...func(*config.Options)) *tape.Tape[num.Float64] {
	t.Helper()
	opts := config.Default()
	for _, m := range mutate {
		m(&opts)
	}
	tp := tape.New[num.Float64](opts)
	tp.SetActive()
	return tp
}

// polynomial computes 3x⁴ + 5x³ - 3x² + 2x - 4 on actives.
func polynomial(x reverse.Active[num.Float64]) reverse.Active[num.Float64] {
	x2 := x.Mul(x)
	x3 := x2.Mul(x)
	x4 := x3.Mul(x)
	return x4.Scale(3).Add(x3.Scale(5)).Sub(x2.Scale(3)).Add(x.Scale(2)).SubFloat(4)
}

func TestRecordAndEvaluate(t *testing.T) {
	tp := newTape(t)

	x := reverse.Input(tp, num.F(0.5))
	y := polynomial(x)
	y.RegisterOutput()

	wantValue := 3*math.Pow(0.5, 4) + 5*math.Pow(0.5, 3) - 3*0.25 + 1 - 4
	if got := y.Value().Float(); math.Abs(got-wantValue) > 1e-12 {
		t.Errorf("primal = %v, want %v", got, wantValue)
	}

	y.SetGradient(num.F(1))
	tp.Evaluate()

	// dy/dx = 12x³ + 15x² - 6x + 2 = 4.25 at 0.5
	if got := x.Gradient().Float(); math.Abs(got-4.25) > 1e-12 {
		t.Errorf("gradient = %v, want 4.25", got)
	}
}

func TestPassiveTapeRecordsNothing(t *testing.T) {
	opts := config.Default()
	tp := tape.New[num.Float64](opts) // never activated

	x := reverse.New(tp, num.F(2))
	y := x.Mul(x)

	if y.Identifier() != idx.Passive {
		t.Errorf("identifier = %d, want passive", y.Identifier())
	}
	if got := y.Value().Float(); got != 4 {
		t.Errorf("passive primal = %v, want 4", got)
	}
	if tp.NumStatements() != 0 {
		t.Errorf("passive tape recorded %d statements", tp.NumStatements())
	}
}

func TestDeadArgumentElimination(t *testing.T) {
	tp := newTape(t)

	x := reverse.Input(tp, num.F(3))
	before := tp.NumStatements()

	// Zero Jacobian entries are filtered; the statement collapses and
	// the result is a passive store.
	y := x.Scale(0)
	if y.Identifier() != idx.Passive {
		t.Errorf("identifier = %d, want passive", y.Identifier())
	}
	if tp.NumStatements() != before {
		t.Errorf("empty statement was recorded")
	}
	if y.Value().Float() != 0 {
		t.Errorf("primal = %v, want 0", y.Value().Float())
	}
}

func TestEmptyStatementCheckOff(t *testing.T) {
	tp := newTape(t, func(o *config.Options) { o.CheckEmptyStatements = false })

	x := reverse.Input(tp, num.F(3))
	before := tp.NumStatements()
	y := x.Scale(0)

	if y.Identifier() == idx.Passive {
		t.Error("expected a recorded statement with the check off")
	}
	if tp.NumStatements() != before+1 {
		t.Errorf("statements = %d, want %d", tp.NumStatements(), before+1)
	}
}

func TestIgnoreInvalidJacobians(t *testing.T) {
	// log has an infinite partial at 0+; sqrt'(0) is guarded, so use
	// 1/x at x=0 instead: d(1/x)/dx = -1/x² = -Inf.
	run := func(ignore bool) (idx.Identifier, int) {
		tp := newTape(t, func(o *config.Options) { o.IgnoreInvalidJacobians = ignore })
		x := reverse.Input(tp, num.F(0))
		one := reverse.New(tp, num.F(1))
		y := one.Div(x)
		return y.Identifier(), tp.NumEntries()
	}

	id, entries := run(true)
	if id != idx.Passive || entries != 0 {
		t.Errorf("with ignore on: id=%d entries=%d, want passive and 0", id, entries)
	}

	id, entries = run(false)
	if id == idx.Passive || entries != 1 {
		t.Errorf("with ignore off: id=%d entries=%d, want active and 1", id, entries)
	}
}

func TestCopyOptimization(t *testing.T) {
	tp := newTape(t)
	x := reverse.Input(tp, num.F(1))

	var y reverse.Active[num.Float64]
	y.Set(x)
	if y.Identifier() != x.Identifier() {
		t.Errorf("copy optimization should alias: %d vs %d", y.Identifier(), x.Identifier())
	}

	tp2 := newTape(t, func(o *config.Options) { o.CopyOptimization = false })
	x2 := reverse.Input(tp2, num.F(1))
	before := tp2.NumStatements()

	var y2 reverse.Active[num.Float64]
	y2.Set(x2)
	if y2.Identifier() == x2.Identifier() {
		t.Error("identity statement expected without copy optimization")
	}
	if tp2.NumStatements() != before+1 {
		t.Errorf("statements = %d, want %d", tp2.NumStatements(), before+1)
	}
}

func TestRegisterOutput(t *testing.T) {
	tp := newTape(t)
	x := reverse.Input(tp, num.F(2))
	y := x.Mul(x)

	srcID := y.Identifier()
	y.RegisterOutput()
	if y.Identifier() == srcID {
		t.Error("RegisterOutput should assign a fresh identifier")
	}

	y.SetGradient(num.F(1))
	tp.Evaluate()
	if got := x.Gradient().Float(); got != 4 {
		t.Errorf("gradient = %v, want 4", got)
	}
}

func TestDuplicateArgumentAccumulates(t *testing.T) {
	tp := newTape(t)
	x := reverse.Input(tp, num.F(3))

	// y = x*x + x recorded as one statement: entries 3, 3, 1.
	y := reverse.New(tp, num.F(0))
	y.Assign(expr.Apply2(ops.Add[num.Float64](),
		expr.Apply2(ops.Mul[num.Float64](), x.Node(), x.Node()),
		x.Node()))

	if got := tp.NumStatements(); got != 1 {
		t.Fatalf("statements = %d, want 1", got)
	}
	y.SetGradient(num.F(1))
	tp.Evaluate()
	if got := x.Gradient().Float(); got != 7 {
		t.Errorf("gradient = %v, want 7", got)
	}
}

func TestSkipZeroAdjoints(t *testing.T) {
	// An unseeded branch with an infinite Jacobian must not contaminate
	// the seeded one when zero-adjoint skipping is on.
	run := func(skip bool) float64 {
		tp := newTape(t, func(o *config.Options) { o.SkipZeroAdjoints = skip })
		x := reverse.Input(tp, num.F(2))

		_ = x.SubFloat(2).Log() // Jacobian +Inf at x=2, never seeded
		y := x.Mul(x)

		y.SetGradient(num.F(1))
		tp.Evaluate()
		return x.Gradient().Float()
	}

	if got := run(true); got != 4 {
		t.Errorf("gradient with skipping = %v, want 4", got)
	}
	// Without skipping, 0 * Inf = NaN leaks into the input adjoint.
	if got := run(false); !math.IsNaN(got) {
		t.Errorf("gradient without skipping = %v, want NaN", got)
	}
}

func TestAdjointZeroedAfterUse(t *testing.T) {
	tp := newTape(t)
	x := reverse.Input(tp, num.F(2))
	y := x.Mul(x)
	z := y.Mul(y)

	z.SetGradient(num.F(1))
	tp.Evaluate()

	// Intermediate adjoints are consumed and zeroed by default.
	if got := y.Gradient().Float(); got != 0 {
		t.Errorf("intermediate adjoint = %v, want 0", got)
	}
	// d(x⁴)/dx = 4x³ = 32
	if got := x.Gradient().Float(); got != 32 {
		t.Errorf("gradient = %v, want 32", got)
	}
}

func TestKeepAdjoints(t *testing.T) {
	tp := newTape(t, func(o *config.Options) { o.KeepAdjoints = true })
	x := reverse.Input(tp, num.F(2))
	y := x.Mul(x)
	z := y.Mul(y)

	z.SetGradient(num.F(1))
	tp.Evaluate()

	// dz/dy = 2y = 8 stays readable.
	if got := y.Gradient().Float(); got != 8 {
		t.Errorf("intermediate adjoint = %v, want 8", got)
	}
	if got := x.Gradient().Float(); got != 32 {
		t.Errorf("gradient = %v, want 32", got)
	}
}

func TestRepeatedEvaluationAccumulates(t *testing.T) {
	tp := newTape(t)
	x := reverse.Input(tp, num.F(3))
	y := x.Mul(x)

	y.SetGradient(num.F(1))
	tp.Evaluate()
	y.SetGradient(num.F(1))
	tp.Evaluate()

	// Input adjoints are never consumed, so two sweeps sum.
	if got := x.Gradient().Float(); got != 12 {
		t.Errorf("gradient after two sweeps = %v, want 12", got)
	}

	tp.ClearAdjoints()
	y.SetGradient(num.F(1))
	tp.Evaluate()
	if got := x.Gradient().Float(); got != 6 {
		t.Errorf("gradient after clear = %v, want 6", got)
	}
}

func TestEvaluateForward(t *testing.T) {
	tp := newTape(t)
	x := reverse.Input(tp, num.F(0.5))
	y := x.Sin().Mul(x)

	// Seed the input tangent and push it forward through the recording.
	tp.SetGradient(x.Identifier(), num.F(1))
	tp.EvaluateForward()

	want := math.Sin(0.5) + 0.5*math.Cos(0.5)
	if got := tp.Gradient(y.Identifier()).Float(); math.Abs(got-want) > 1e-12 {
		t.Errorf("forward tangent = %v, want %v", got, want)
	}
}

func TestPositionResetTo(t *testing.T) {
	tp := newTape(t)
	x := reverse.Input(tp, num.F(2))
	y := x.Mul(x)

	pos := tp.Position()
	z := y.Exp().Mul(y)
	_ = z

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

func TestResetIdempotent(t *testing.T) {
	tp := newTape(t)
	x := reverse.Input(tp, num.F(2))
	y := x.Mul(x)
	y.SetGradient(num.F(1))
	tp.Evaluate()

	tp.Reset(true)
	if tp.NumStatements() != 0 || tp.NumEntries() != 0 {
		t.Error("Reset left statements behind")
	}
	if got := tp.Gradient(x.Identifier()).Float(); got != 0 {
		t.Errorf("adjoint after Reset = %v, want 0", got)
	}
	tp.Reset(true) // second Reset is a no-op

	// The tape records again from scratch and the next reverse sweep is
	// clean.
	x2 := reverse.Input(tp, num.F(3))
	if x2.Identifier() != 1 {
		t.Errorf("identifier after Reset = %d, want 1", x2.Identifier())
	}
	y2 := x2.Mul(x2)
	y2.SetGradient(num.F(1))
	tp.Evaluate()
	if got := x2.Gradient().Float(); got != 6 {
		t.Errorf("gradient after Reset = %v, want 6", got)
	}
}

func TestChunkBoundaries(t *testing.T) {
	// A tiny chunk size forces several chunks for both statements and
	// entries.
	tp := newTape(t, func(o *config.Options) { o.ChunkSize = 4 })

	x := reverse.Input(tp, num.F(1.01))
	y := x
	const n = 40
	for i := 0; i < n; i++ {
		y = y.Mul(x)
	}
	y.SetGradient(num.F(1))
	tp.Evaluate()

	// y = x^(n+1), dy/dx = (n+1)x^n
	want := float64(n+1) * math.Pow(1.01, n)
	if got := x.Gradient().Float(); math.Abs(got-want)/want > 1e-12 {
		t.Errorf("gradient = %v, want %v", got, want)
	}
}

func TestGradientOutOfRange(t *testing.T) {
	tp := newTape(t)
	if got := tp.Gradient(99).Float(); got != 0 {
		t.Errorf("out-of-range adjoint = %v, want 0", got)
	}
	if got := tp.Gradient(idx.Passive).Float(); got != 0 {
		t.Errorf("passive adjoint = %v, want 0", got)
	}

	// Seeding passive is absorbed.
	tp.SetGradient(idx.Passive, num.F(5))
	if got := tp.Gradient(idx.Passive).Float(); got != 0 {
		t.Errorf("passive adjoint after seed = %v, want 0", got)
	}
}

func TestGetParameters(t *testing.T) {
	tp := newTape(t)
	x := reverse.Input(tp, num.F(2))
	y := x.Mul(x).Add(x)
	y.SetGradient(num.F(1))
	tp.Evaluate()

	// Two statements (mul, add) with two entries each. Getters report
	// recorded counts, not allocated chunk capacity.
	if got := tp.NumStatements(); got != 2 {
		t.Fatalf("statements = %d, want 2", got)
	}
	if got := tp.NumEntries(); got != 4 {
		t.Fatalf("entries = %d, want 4", got)
	}
	if got := tp.GetParameter(tape.StatementSize); got != tp.NumStatements() {
		t.Errorf("StatementSize = %d, want %d", got, tp.NumStatements())
	}
	if got := tp.GetParameter(tape.JacobianSize); got != tp.NumEntries() {
		t.Errorf("JacobianSize = %d, want %d", got, tp.NumEntries())
	}
	if got := tp.GetParameter(tape.LargestIdentifier); got != int(tp.LargestIdentifier()) {
		t.Errorf("LargestIdentifier = %d, want %d", got, tp.LargestIdentifier())
	}
}

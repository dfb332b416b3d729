package tape_test

import (
	"testing"

	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/reverse"
	"github.com/spool-ml/spool/internal/tape"
)

// TestExternalFunctionReverse wires y = cube(x) through an external
// function: the primal is computed outside the tape and the adjoint is
// propagated manually by the callback.
func TestExternalFunctionReverse(t *testing.T) {
	tp := newTape(t)
	x := reverse.Input(tp, num.F(2))

	// Compute y = x³ outside the tape.
	xv := x.Value().Float()
	y := reverse.Input(tp, num.F(xv*xv*xv)) // fresh slot for the external output

	type payload struct {
		in, out idx.Identifier
		x       float64
	}
	tp.PushExternalFunction(tape.ExternalFunction[num.Float64]{
		Reverse: func(va tape.GradientAccess[num.Float64], data any) {
			p := data.(*payload)
			seed := va.Gradient(p.out)
			va.SetGradient(p.out, num.F(0))
			va.SetGradient(p.in, va.Gradient(p.in).Add(seed.Mul(num.F(3*p.x*p.x))))
		},
		Data: &payload{in: x.Identifier(), out: y.Identifier(), x: xv},
	})

	// Continue on-tape: z = y * y.
	z := y.Mul(y)
	z.SetGradient(num.F(1))
	tp.Evaluate()

	// dz/dx = 2y · 3x² = 2·8·12 = 192
	if got := x.Gradient().Float(); got != 192 {
		t.Errorf("gradient through external function = %v, want 192", got)
	}
}

func TestExternalFunctionOrdering(t *testing.T) {
	tp := newTape(t)
	x := reverse.Input(tp, num.F(1))

	var order []string
	push := func(name string) {
		tp.PushExternalFunction(tape.ExternalFunction[num.Float64]{
			Reverse: func(tape.GradientAccess[num.Float64], any) {
				order = append(order, name)
			},
		})
	}

	push("before")
	y := x.Exp()
	push("middle")
	z := y.Mul(x)
	push("after")

	z.SetGradient(num.F(1))
	tp.Evaluate()

	// Reverse replay runs the callbacks in reverse push order,
	// interleaved at their statement positions.
	want := []string{"after", "middle", "before"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	_ = y
}

func TestExternalFunctionDelete(t *testing.T) {
	tp := newTape(t)

	deleted := 0
	for i := 0; i < 3; i++ {
		tp.PushExternalFunction(tape.ExternalFunction[num.Float64]{
			Delete: func(any) { deleted++ },
		})
	}

	tp.Reset(true)
	if deleted != 3 {
		t.Errorf("deleters ran %d times, want 3", deleted)
	}
}

func TestExternalFunctionResetToRunsDeleters(t *testing.T) {
	tp := newTape(t)
	x := reverse.Input(tp, num.F(1))
	_ = x.Exp()

	pos := tp.Position()
	deleted := false
	tp.PushExternalFunction(tape.ExternalFunction[num.Float64]{
		Delete: func(any) { deleted = true },
	})

	tp.ResetTo(pos)
	if !deleted {
		t.Error("deleter of truncated external function did not run")
	}
}

func TestExternalFunctionPassiveTape(t *testing.T) {
	tp := tape.New[num.Float64](newTape(t).Options())
	called := false
	tp.PushExternalFunction(tape.ExternalFunction[num.Float64]{
		Reverse: func(tape.GradientAccess[num.Float64], any) { called = true },
	})
	tp.Evaluate()
	if called {
		t.Error("external function recorded on a passive tape")
	}
}

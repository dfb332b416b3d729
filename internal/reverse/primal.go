package reverse

import (
	"github.com/spool-ml/spool/internal/expr"
	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/ops"
	"github.com/spool-ml/spool/internal/tape"
)

// PrimalActive is the active value for the primal-value tape. It carries
// the identifier only; the primal itself lives in the tape's primal
// vector so replay can re-run statements. The convenience surface is
// narrower than Active's: multi-operation trees go through Apply1 and
// Apply2, which is also how a single statement stays a single statement.
type PrimalActive[T num.Scalar[T]] struct {
	t     *tape.PrimalTape[T]
	value T
	id    idx.Identifier
}

// NewPrimalValue returns a passive constant bound to t.
func NewPrimalValue[T num.Scalar[T]](t *tape.PrimalTape[T], v T) PrimalActive[T] {
	return PrimalActive[T]{t: t, value: v}
}

// PrimalInput registers a true program input on t.
func PrimalInput[T num.Scalar[T]](t *tape.PrimalTape[T], v T) PrimalActive[T] {
	return PrimalActive[T]{t: t, value: v, id: t.RegisterInput(v)}
}

// Value returns the primal as recorded.
func (a PrimalActive[T]) Value() T { return a.value }

// Identifier returns the primal vector slot of a.
func (a PrimalActive[T]) Identifier() idx.Identifier { return a.id }

// Primal reads the current primal from the tape, which may differ from
// the recorded value after SetInput and EvaluatePrimal.
func (a PrimalActive[T]) Primal() T { return a.t.Primal(a.id) }

// Gradient reads the adjoint accumulated for a after Evaluate.
func (a PrimalActive[T]) Gradient() T { return a.t.Gradient(a.id) }

// SetGradient seeds the adjoint of a.
func (a *PrimalActive[T]) SetGradient(v T) { a.t.SetGradient(a.id, v) }

// Node returns the expression leaf for a.
func (a PrimalActive[T]) Node() *expr.Node[T] { return expr.Leaf(a.id, a.value) }

// Assign stores one statement computing the given tree and rebinds a to
// its result.
func (a *PrimalActive[T]) Assign(n *expr.Node[T]) {
	if a.t == nil {
		a.value, a.id = n.Value(), idx.Passive
		return
	}
	a.value, a.id = a.t.Store(n)
}

func (a PrimalActive[T]) store(n *expr.Node[T]) PrimalActive[T] {
	if a.t == nil {
		return PrimalActive[T]{value: n.Value()}
	}
	v, id := a.t.Store(n)
	return PrimalActive[T]{t: a.t, value: v, id: id}
}

// Apply1 records op(a) as one statement.
func (a PrimalActive[T]) Apply1(op ops.Unary[T]) PrimalActive[T] {
	return a.store(expr.Apply1(op, a.Node()))
}

// Apply2 records op(a, b) as one statement.
func (a PrimalActive[T]) Apply2(op ops.Binary[T], b PrimalActive[T]) PrimalActive[T] {
	return a.store(expr.Apply2(op, a.Node(), b.Node()))
}

func (a PrimalActive[T]) Add(b PrimalActive[T]) PrimalActive[T] { return a.Apply2(ops.Add[T](), b) }
func (a PrimalActive[T]) Sub(b PrimalActive[T]) PrimalActive[T] { return a.Apply2(ops.Sub[T](), b) }
func (a PrimalActive[T]) Mul(b PrimalActive[T]) PrimalActive[T] { return a.Apply2(ops.Mul[T](), b) }
func (a PrimalActive[T]) Div(b PrimalActive[T]) PrimalActive[T] { return a.Apply2(ops.Div[T](), b) }
func (a PrimalActive[T]) Neg() PrimalActive[T]                  { return a.Apply1(ops.Neg[T]()) }

// Scale multiplies by a passive constant, recorded through the constant
// stream of the statement program.
func (a PrimalActive[T]) Scale(c float64) PrimalActive[T] {
	return a.store(expr.ApplyScale(c, a.Node()))
}

// Float returns the passive primal value.
func (a PrimalActive[T]) Float() float64 { return a.value.Float() }

package tape

import (
	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
)

// GradientAccess is the view of a tape handed to external function
// callbacks: enough to read seeds and inject adjoints/tangents, nothing
// that could mutate the recording mid-replay.
type GradientAccess[T num.Scalar[T]] interface {
	Gradient(id idx.Identifier) T
	SetGradient(id idx.Identifier, v T)
}

// ExternalFunction lets opaque third-party code participate in the tape:
// a numerical solver, a legacy kernel, anything whose derivative behavior
// is supplied manually rather than derived from catalog operations.
//
// The callbacks are invoked during replay at the position where the
// function was pushed: Reverse during Evaluate (in reverse record order),
// Forward during EvaluateForward, Primal during primal re-evaluation.
// Data is passed through untouched and released by Delete when the
// recording containing the function is discarded.
type ExternalFunction[T num.Scalar[T]] struct {
	Reverse func(va GradientAccess[T], data any)
	Forward func(va GradientAccess[T], data any)
	Primal  func(va GradientAccess[T], data any)
	Data    any
	Delete  func(data any)
}

type externalFunction[T num.Scalar[T]] struct {
	ExternalFunction[T]
	pos int // statement count at push time
}

func (e *externalFunction[T]) callReverse(va GradientAccess[T]) {
	if e.Reverse != nil {
		e.Reverse(va, e.Data)
	}
}

func (e *externalFunction[T]) callForward(va GradientAccess[T]) {
	if e.Forward != nil {
		e.Forward(va, e.Data)
	}
}

func (e *externalFunction[T]) callPrimal(va GradientAccess[T]) {
	if e.Primal != nil {
		e.Primal(va, e.Data)
	}
}

func (e *externalFunction[T]) free() {
	if e.Delete != nil {
		e.Delete(e.Data)
	}
}

// PushExternalFunction records fn at the current tape position.
func (t *Tape[T]) PushExternalFunction(fn ExternalFunction[T]) {
	if !t.active {
		return
	}
	t.ext = append(t.ext, externalFunction[T]{ExternalFunction: fn, pos: t.stmts.len()})
}

// Package ops is the operation catalog: for every primitive operation it
// pairs the primal formula with its analytic partial derivatives and the
// domain restrictions under which those derivatives exist.
//
// Descriptors are stateless and generic over the scalar type, so the same
// catalog drives forward tangent propagation, reverse tape recording, and
// any nesting of the two. Domain checks run only when argument checking is
// enabled (config.SetArgumentChecking); otherwise operations follow plain
// IEEE semantics.
package ops

import (
	"fmt"

	"github.com/spool-ml/spool/internal/config"
	"github.com/spool-ml/spool/internal/num"
)

// Code identifies an operation in persisted tape records.
//
// Codes are part of the tape file format; append new codes, never renumber.
type Code uint8

const (
	CodeInvalid Code = iota
	CodeAdd
	CodeSub
	CodeMul
	CodeDiv
	CodeNeg
	CodePow
	CodeAtan2
	CodeHypot
	CodeFmod
	CodeRemainder
	CodeCopysign
	CodeMax
	CodeMin
	CodeFmax
	CodeFmin
	CodeSin
	CodeCos
	CodeTan
	CodeAsin
	CodeAcos
	CodeAtan
	CodeSinh
	CodeCosh
	CodeTanh
	CodeAsinh
	CodeAcosh
	CodeAtanh
	CodeExp
	CodeExpm1
	CodeLog
	CodeLog1p
	CodeLog2
	CodeLog10
	CodeSqrt
	CodeCbrt
	CodeAbs
	CodeErf
	CodeErfc
	CodeTgamma
	CodeCeil
	CodeFloor
	CodeRound
	CodeTrunc
	CodeScale // unary x*c; carries one constant operand
	CodeDigamma
)

// Unary describes a one-argument operation.
type Unary[T num.Scalar[T]] struct {
	Name string
	Code Code

	// Primal computes f(x).
	Primal func(x T) T

	// Gradient computes ∂f/∂x given the argument and the already-computed
	// result.
	Gradient func(x, result T) T

	// Check validates the argument domain. Nil for total operations.
	// Called only when argument checking is enabled.
	Check func(x T)
}

// Binary describes a two-argument operation.
type Binary[T num.Scalar[T]] struct {
	Name string
	Code Code

	Primal func(a, b T) T

	// GradientA and GradientB compute the partial derivatives with respect
	// to the first and second argument.
	GradientA func(a, b, result T) T
	GradientB func(a, b, result T) T

	Check func(a, b T)
}

// Eval validates (when checking is enabled) and computes the primal.
func (op Unary[T]) Eval(x T) T {
	if config.ArgumentChecking() && op.Check != nil {
		op.Check(x)
	}
	return op.Primal(x)
}

// Eval validates (when checking is enabled) and computes the primal.
func (op Binary[T]) Eval(a, b T) T {
	if config.ArgumentChecking() && op.Check != nil {
		op.Check(a, b)
	}
	return op.Primal(a, b)
}

// DomainError reports an operation argument outside the operation's valid
// domain. It is raised as a panic: a domain violation is a programming
// error in the enclosing model, not a recoverable condition.
type DomainError struct {
	Op   string
	Args []float64
}

func (e *DomainError) Error() string {
	switch len(e.Args) {
	case 1:
		return fmt.Sprintf("ops: %s: argument %e outside valid domain", e.Op, e.Args[0])
	case 2:
		return fmt.Sprintf("ops: %s: arguments (%e, %e) outside valid domain", e.Op, e.Args[0], e.Args[1])
	default:
		return fmt.Sprintf("ops: %s: argument outside valid domain", e.Op)
	}
}

func domainFail(op string, args ...float64) {
	panic(&DomainError{Op: op, Args: args})
}

// one returns the multiplicative identity in the shape of x.
func one[T num.Scalar[T]](x T) T { return x.FromFloat(1) }

// zero returns the additive identity in the shape of x.
func zero[T num.Scalar[T]](x T) T { return x.FromFloat(0) }

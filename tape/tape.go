// Copyright 2026 The Spool Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tape exposes the recording tapes for reverse-mode
// differentiation.
//
// A Tape stores one statement per recorded assignment together with the
// precomputed partial derivatives of its arguments; Evaluate replays the
// statements strictly in reverse and accumulates adjoints. A PrimalTape
// stores the operations themselves instead, re-evaluating partials at
// replay time, which makes replay under changed inputs possible.
//
// Example:
//
//	import (
//	    "github.com/spool-ml/spool/num"
//	    "github.com/spool-ml/spool/reverse"
//	    "github.com/spool-ml/spool/tape"
//	)
//
//	t := tape.New[num.Float64](tape.DefaultOptions())
//	t.SetActive()
//	x := reverse.Input(t, num.F(0.5))
//	y := x.Mul(x).Sin()
//	y.RegisterOutput()
//	y.SetGradient(num.F(1))
//	t.Evaluate()
//	fmt.Println(x.Gradient()) // d/dx sin(x²) at 0.5
package tape

import (
	"io"

	"github.com/spool-ml/spool/internal/config"
	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/tape"
)

// Options configures tape behavior: chunk sizing, record-time filtering
// and evaluation-time policies.
type Options = config.Options

// DefaultOptions returns the recommended settings.
func DefaultOptions() Options { return config.Default() }

// LoadOptions reads Options from a YAML file.
func LoadOptions(path string) (Options, error) { return config.Load(path) }

// SetArgumentChecking toggles the process-wide domain checks performed
// by the operation catalog.
func SetArgumentChecking(on bool) { config.SetArgumentChecking(on) }

// Identifier names a tape slot. The zero identifier is passive.
type Identifier = idx.Identifier

// Passive is the identifier of constants; it never accumulates adjoints.
const Passive = idx.Passive

// Tape is the Jacobian tape.
type Tape[T num.Scalar[T]] = tape.Tape[T]

// New creates an empty Jacobian tape in passive mode.
func New[T num.Scalar[T]](opts Options) *Tape[T] { return tape.New[T](opts) }

// NewReuse creates a Jacobian tape whose identifiers are reclaimed when
// actives are freed. SortOnReset keeps reuse deterministic across
// recordings.
func NewReuse[T num.Scalar[T]](opts Options, sortOnReset bool) *Tape[T] {
	return tape.NewWithManager[T](opts, idx.NewReuse(opts.CheckIdentifierOverflow, sortOnReset))
}

// PrimalTape is the primal-value tape.
type PrimalTape[T num.Scalar[T]] = tape.PrimalTape[T]

// NewPrimal creates an empty primal-value tape in passive mode.
func NewPrimal[T num.Scalar[T]](opts Options) *PrimalTape[T] { return tape.NewPrimal[T](opts) }

// Position marks a point on a Jacobian tape for partial resets.
type Position = tape.Position

// PrimalPosition marks a point on a primal-value tape.
type PrimalPosition = tape.PrimalPosition

// GradientAccess is the adjoint view handed to external functions.
type GradientAccess[T num.Scalar[T]] = tape.GradientAccess[T]

// ExternalFunction interleaves user callbacks with tape evaluation at
// the position where it was pushed.
type ExternalFunction[T num.Scalar[T]] = tape.ExternalFunction[T]

// Parameter names a queryable tape size or limit.
type Parameter = tape.Parameter

const (
	AdjointSize           = tape.AdjointSize
	PrimalSize            = tape.PrimalSize
	StatementSize         = tape.StatementSize
	JacobianSize          = tape.JacobianSize
	PassiveValuesSize     = tape.PassiveValuesSize
	ConstantValuesSize    = tape.ConstantValuesSize
	RhsIdentifiersSize    = tape.RhsIdentifiersSize
	ExternalFunctionsSize = tape.ExternalFunctionsSize
	LargestIdentifier     = tape.LargestIdentifier
)

// Statistics is a structured summary of tape memory and usage. Combine
// merges the statistics of several tapes, one per worker goroutine for
// instance.
type Statistics = tape.Statistics

// CombineMode selects how Statistics.Combine merges entries.
type CombineMode = tape.CombineMode

const (
	CombineSum = tape.CombineSum
	CombineMax = tape.CombineMax
)

// FileInfo describes a persisted tape.
type FileInfo = tape.FileInfo

// Persistence errors.
var (
	ErrInvalidMagic       = tape.ErrInvalidMagic
	ErrUnsupportedVersion = tape.ErrUnsupportedVersion
	ErrChecksumMismatch   = tape.ErrChecksumMismatch
	ErrExternalFunctions  = tape.ErrExternalFunctions
	ErrMalformedTape      = tape.ErrMalformedTape
)

// WriteFile persists a recorded tape to path.
func WriteFile(t *Tape[num.Float64], path string) (FileInfo, error) {
	return tape.WriteFile(t, path)
}

// WriteTo persists a recorded tape to w.
func WriteTo(t *Tape[num.Float64], w io.Writer) (FileInfo, error) {
	return tape.WriteTo(t, w)
}

// ReadFile loads a persisted tape, ready for Evaluate.
func ReadFile(opts Options, path string) (*Tape[num.Float64], FileInfo, error) {
	return tape.ReadFile(opts, path)
}

// ReadInfo reads only the header of a persisted tape.
func ReadInfo(path string) (FileInfo, error) { return tape.ReadInfo(path) }

// Jacobian evaluates the full Jacobian of outputs with respect to
// inputs by seeding one output at a time.
func Jacobian[T num.Scalar[T]](t *Tape[T], inputs, outputs []Identifier) [][]T {
	return tape.Jacobian(t, inputs, outputs)
}

// Preaccumulate collapses the tape segment after start into one
// statement per output holding its local Jacobian, trading statements
// for entries.
func Preaccumulate[T num.Scalar[T]](t *Tape[T], start Position, inputs, outputs []Identifier) []Identifier {
	return tape.Preaccumulate(t, start, inputs, outputs)
}

// Package tape implements the recording/replay engine for reverse-mode
// differentiation.
//
// While a tape is active, every assignment of an active value from an
// expression is reduced to one statement: the output identifier plus the
// list of (argument identifier, partial derivative) pairs obtained by
// flattening the expression tree. Evaluate walks the statements in strict
// reverse record order and accumulates adjoints; this LIFO replay of a
// single linear recording is the correctness invariant of the whole
// engine.
package tape

import (
	"github.com/spool-ml/spool/internal/check"
	"github.com/spool-ml/spool/internal/config"
	"github.com/spool-ml/spool/internal/expr"
	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
)

// Tape records statements and replays them for adjoint (reverse) or
// tangent (forward) propagation. One tape per logical computation thread;
// a Tape is not safe for concurrent use, but independent tapes may be
// used concurrently.
type Tape[T num.Scalar[T]] struct {
	opts   config.Options
	active bool

	ids   idx.Manager
	stmts *chunked[statement]
	rhs   *chunked[idx.Identifier]
	jacs  *chunked[T]
	ext   []externalFunction[T]

	// adjoints is indexed by identifier; slot 0 (the passive identifier)
	// absorbs writes and always reads zero.
	adjoints []T
}

// New creates a tape with the linear index manager.
func New[T num.Scalar[T]](opts config.Options) *Tape[T] {
	return NewWithManager[T](opts, idx.NewLinear(opts.CheckIdentifierOverflow))
}

// NewWithManager creates a tape with an explicit index manager. Reuse
// managers require CopyOptimization to be off.
func NewWithManager[T num.Scalar[T]](opts config.Options, m idx.Manager) *Tape[T] {
	if err := opts.Validate(); err != nil {
		check.Fatalf("tape: %v", err)
	}
	return &Tape[T]{
		opts:  opts,
		ids:   m,
		stmts: newChunked[statement](opts.ChunkSize),
		rhs:   newChunked[idx.Identifier](opts.ChunkSize),
		jacs:  newChunked[T](opts.ChunkSize),
	}
}

// Options returns the tape's configuration.
func (t *Tape[T]) Options() config.Options { return t.opts }

// SetActive enables statement recording.
func (t *Tape[T]) SetActive() { t.active = true }

// SetPassive pauses recording without discarding history.
func (t *Tape[T]) SetPassive() { t.active = false }

// IsActive reports whether assignments are currently recorded.
func (t *Tape[T]) IsActive() bool { return t.active }

// RegisterInput marks a true program input: it receives a fresh identifier
// and no statement. Must be called while the tape is active, once per
// input.
func (t *Tape[T]) RegisterInput() idx.Identifier {
	return t.ids.Assign()
}

// RegisterOutput marks id as a sink whose adjoint will be seeded before
// Evaluate. An identity statement gives the output its own identifier so
// later overwrites of the source cannot alias the seed.
func (t *Tape[T]) RegisterOutput(id idx.Identifier, value T) idx.Identifier {
	if !t.active || id == idx.Passive {
		return id
	}
	out := t.ids.Assign()
	first := int64(t.rhs.len())
	t.rhs.push(id)
	t.jacs.push(value.FromFloat(1))
	t.stmts.push(statement{lhs: out, first: first, n: 1})
	return out
}

// Store records one assignment from an expression tree. The tree is
// flattened to (identifier, Jacobian) pairs; exact-zero Jacobians are
// always dropped, NaN/Inf Jacobians are dropped when
// IgnoreInvalidJacobians is set. If no entries survive and empty-statement
// checking is on, the assignment degenerates to a passive store and the
// passive identifier is returned. Dead-argument elimination therefore
// happens eagerly at record time.
func (t *Tape[T]) Store(node *expr.Node[T]) (T, idx.Identifier) {
	value := node.Value()
	if !t.active {
		return value, idx.Passive
	}

	first := int64(t.rhs.len())
	n := int32(0)
	expr.ForEachJacobian(node, value.FromFloat(1), func(id idx.Identifier, jac T) {
		if jac.IsZero() {
			return
		}
		if t.opts.IgnoreInvalidJacobians && !num.IsFinite(jac.Float()) {
			return
		}
		t.rhs.push(id)
		t.jacs.push(jac)
		n++
	})

	if n == 0 && t.opts.CheckEmptyStatements {
		return value, idx.Passive
	}

	lhs := t.ids.Assign()
	t.stmts.push(statement{lhs: lhs, first: first, n: n})
	return value, lhs
}

// StoreCopy records an identity assignment from src, or aliases the
// identifier directly when copy optimization is on.
func (t *Tape[T]) StoreCopy(src idx.Identifier, value T) idx.Identifier {
	if !t.active || src == idx.Passive {
		return src
	}
	if t.opts.CopyOptimization {
		return src
	}
	first := int64(t.rhs.len())
	t.rhs.push(src)
	t.jacs.push(value.FromFloat(1))
	lhs := t.ids.Assign()
	t.stmts.push(statement{lhs: lhs, first: first, n: 1})
	return lhs
}

// FreeIdentifier releases an identifier back to the index manager.
func (t *Tape[T]) FreeIdentifier(id idx.Identifier) {
	t.ids.Free(id)
}

// Gradient returns the adjoint of id. Out-of-range identifiers read zero.
func (t *Tape[T]) Gradient(id idx.Identifier) T {
	if id == idx.Passive || int(id) >= len(t.adjoints) {
		var zero T
		return zero
	}
	return t.adjoints[id]
}

// SetGradient seeds the adjoint of id, growing the adjoint vector as
// needed. Seeding the passive identifier is a no-op.
func (t *Tape[T]) SetGradient(id idx.Identifier, v T) {
	if id == idx.Passive {
		return
	}
	t.ensureAdjoints(int(id) + 1)
	t.adjoints[id] = v
}

func (t *Tape[T]) ensureAdjoints(n int) {
	if n <= len(t.adjoints) {
		return
	}
	grown := make([]T, n)
	copy(grown, t.adjoints)
	t.adjoints = grown
}

// Position returns the current recording position.
func (t *Tape[T]) Position() Position {
	return Position{
		Statements:        t.stmts.len(),
		Entries:           t.rhs.len(),
		ExternalFunctions: len(t.ext),
	}
}

// ResetTo discards everything recorded after pos. Earlier statements and
// the adjoint vector are untouched. Deleters of truncated external
// functions run before the truncation.
func (t *Tape[T]) ResetTo(pos Position) {
	if !pos.Before(t.Position()) {
		check.Fatalf("tape: ResetTo position (%d,%d,%d) is ahead of the recording",
			pos.Statements, pos.Entries, pos.ExternalFunctions)
	}
	for i := len(t.ext) - 1; i >= pos.ExternalFunctions; i-- {
		t.ext[i].free()
	}
	t.ext = t.ext[:pos.ExternalFunctions]
	t.stmts.truncate(pos.Statements)
	t.rhs.truncate(pos.Entries)
	t.jacs.truncate(pos.Entries)
}

// Reset discards all recorded statements and returns the tape to its
// initial state for reuse. Adjoints are zeroed unless resetAdjoints is
// false. Reset is idempotent.
func (t *Tape[T]) Reset(resetAdjoints bool) {
	for i := len(t.ext) - 1; i >= 0; i-- {
		t.ext[i].free()
	}
	t.ext = t.ext[:0]
	t.stmts.reset()
	t.rhs.reset()
	t.jacs.reset()
	t.ids.Reset()
	if resetAdjoints {
		t.ClearAdjoints()
	}
}

// ClearAdjoints zeroes all adjoints without touching recorded statements.
func (t *Tape[T]) ClearAdjoints() {
	var zero T
	for i := range t.adjoints {
		t.adjoints[i] = zero
	}
}

// Evaluate performs one full reverse pass: statements are replayed in
// strict reverse record order and each statement accumulates
//
//	adjoint[arg] += jacobian * adjoint[output]
//
// for its entries. After a statement is consumed its output adjoint is
// zeroed (unless KeepAdjoints is set), so repeated partial reversals
// compose like one reverse sweep. Statements whose seed adjoint is exactly
// zero are skipped entirely when SkipZeroAdjoints is set.
func (t *Tape[T]) Evaluate() {
	t.ensureAdjoints(int(t.ids.Largest()) + 1)
	t.evaluateStatements(t.stmts.len(), 0, t.adjoints, true)
}

// EvaluateForward replays the recording in forward order, propagating
// tangents through the same storage: tangent[output] = Σ jac*tangent[arg].
func (t *Tape[T]) EvaluateForward() {
	t.ensureAdjoints(int(t.ids.Largest()) + 1)
	ei := 0
	for i := 0; i < t.stmts.len(); i++ {
		for ei < len(t.ext) && t.ext[ei].pos <= i {
			t.ext[ei].callForward(t)
			ei++
		}
		s := t.stmts.at(i)
		var acc T
		for k := int64(0); k < int64(s.n); k++ {
			arg := t.rhs.at(int(s.first + k))
			acc = acc.Add(t.jacs.at(int(s.first + k)).Mul(t.adjoints[arg]))
		}
		t.adjoints[s.lhs] = acc
	}
	for ; ei < len(t.ext); ei++ {
		t.ext[ei].callForward(t)
	}
}

// evaluateStatements replays statements [to, from) in reverse against an
// arbitrary adjoint slice. callExt controls whether external function
// callbacks run (they do not during preaccumulation's local sweeps).
func (t *Tape[T]) evaluateStatements(from, to int, adj []T, callExt bool) {
	var zero T
	ei := len(t.ext) - 1
	for i := from - 1; i >= to; i-- {
		if callExt {
			for ei >= 0 && t.ext[ei].pos > i {
				t.ext[ei].callReverse(t)
				ei--
			}
		}
		s := t.stmts.at(i)
		seed := adj[s.lhs]
		if t.opts.SkipZeroAdjoints && seed.IsZero() {
			continue
		}
		if !t.opts.KeepAdjoints {
			adj[s.lhs] = zero
		}
		for k := int64(0); k < int64(s.n); k++ {
			arg := t.rhs.at(int(s.first + k))
			if arg == idx.Passive {
				continue
			}
			adj[arg] = adj[arg].Add(t.jacs.at(int(s.first + k)).Mul(seed))
		}
	}
	if callExt && to == 0 {
		for ei >= 0 {
			t.ext[ei].callReverse(t)
			ei--
		}
	}
}

// NumStatements returns the count of recorded statements.
func (t *Tape[T]) NumStatements() int { return t.stmts.len() }

// NumEntries returns the count of recorded (identifier, Jacobian) pairs.
func (t *Tape[T]) NumEntries() int { return t.rhs.len() }

// LargestIdentifier returns the identifier high-water mark.
func (t *Tape[T]) LargestIdentifier() idx.Identifier { return t.ids.Largest() }

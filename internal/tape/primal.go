package tape

import (
	"github.com/spool-ml/spool/internal/check"
	"github.com/spool-ml/spool/internal/config"
	"github.com/spool-ml/spool/internal/expr"
	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/ops"
)

// PrimalTape is the primal-value tape variant: instead of flattened
// Jacobians, each statement persists a reconstructible form of its
// expression (postfix opcode program, constant operands, rhs identifiers)
// plus the overwritten primal value of its output. Reversal re-walks each
// expression, which trades recording cheapness for replay work, and allows
// re-evaluating the primal with changed inputs (EvaluatePrimal).
//
// PrimalTape requires the linear index manager: primal restoration keys
// off identifiers being overwritten at most once per recording position.
type PrimalTape[T num.Scalar[T]] struct {
	opts   config.Options
	active bool

	ids    *idx.Linear
	stmts  *chunked[primalStatement[T]]
	progOp *chunked[byte]
	consts *chunked[float64]
	refs   *chunked[idx.Identifier]
	ext    []externalFunction[T]

	primals  []T
	adjoints []T
}

type primalStatement[T any] struct {
	lhs       idx.Identifier
	opOff     int64
	constOff  int64
	refOff    int64
	opN       int32
	constN    int32
	refN      int32
	oldPrimal T
}

// PrimalPosition marks a point in a primal-value recording.
type PrimalPosition struct {
	Statements        int
	Opcodes           int
	Constants         int
	References        int
	ExternalFunctions int
}

// NewPrimal creates a primal-value tape.
func NewPrimal[T num.Scalar[T]](opts config.Options) *PrimalTape[T] {
	if err := opts.Validate(); err != nil {
		check.Fatalf("tape: %v", err)
	}
	return &PrimalTape[T]{
		opts:   opts,
		ids:    idx.NewLinear(opts.CheckIdentifierOverflow),
		stmts:  newChunked[primalStatement[T]](opts.ChunkSize),
		progOp: newChunked[byte](opts.ChunkSize),
		consts: newChunked[float64](opts.ChunkSize),
		refs:   newChunked[idx.Identifier](opts.ChunkSize),
	}
}

// SetActive enables statement recording.
func (t *PrimalTape[T]) SetActive() { t.active = true }

// SetPassive pauses recording without discarding history.
func (t *PrimalTape[T]) SetPassive() { t.active = false }

// IsActive reports whether assignments are currently recorded.
func (t *PrimalTape[T]) IsActive() bool { return t.active }

// RegisterInput marks a program input: fresh identifier, primal value
// seeded, no statement.
func (t *PrimalTape[T]) RegisterInput(value T) idx.Identifier {
	id := t.ids.Assign()
	t.ensurePrimals(int(id) + 1)
	t.primals[id] = value
	return id
}

// SetInput overwrites the primal value of a registered input, for a
// subsequent EvaluatePrimal with changed inputs.
func (t *PrimalTape[T]) SetInput(id idx.Identifier, value T) {
	t.ensurePrimals(int(id) + 1)
	t.primals[id] = value
}

// Store records one assignment from an expression tree.
func (t *PrimalTape[T]) Store(node *expr.Node[T]) (T, idx.Identifier) {
	value := node.Value()
	if !t.active {
		return value, idx.Passive
	}

	p := expr.Encode(node)
	if len(p.Refs) == 0 && t.opts.CheckEmptyStatements {
		return value, idx.Passive
	}

	s := primalStatement[T]{
		opOff:    int64(t.progOp.len()),
		constOff: int64(t.consts.len()),
		refOff:   int64(t.refs.len()),
		opN:      int32(len(p.Ops)),
		constN:   int32(len(p.Consts)),
		refN:     int32(len(p.Refs)),
	}
	for _, b := range p.Ops {
		t.progOp.push(b)
	}
	for _, c := range p.Consts {
		t.consts.push(c)
	}
	for _, id := range p.Refs {
		t.refs.push(id)
	}

	lhs := t.ids.Assign()
	t.ensurePrimals(int(lhs) + 1)
	s.lhs = lhs
	s.oldPrimal = t.primals[lhs]
	t.primals[lhs] = value
	t.stmts.push(s)
	return value, lhs
}

// Primal returns the stored primal value of id.
func (t *PrimalTape[T]) Primal(id idx.Identifier) T {
	if id == idx.Passive || int(id) >= len(t.primals) {
		var zero T
		return zero
	}
	return t.primals[id]
}

// Gradient returns the adjoint of id. Out-of-range identifiers read zero.
func (t *PrimalTape[T]) Gradient(id idx.Identifier) T {
	if id == idx.Passive || int(id) >= len(t.adjoints) {
		var zero T
		return zero
	}
	return t.adjoints[id]
}

// SetGradient seeds the adjoint of id.
func (t *PrimalTape[T]) SetGradient(id idx.Identifier, v T) {
	if id == idx.Passive {
		return
	}
	t.ensureAdjoints(int(id) + 1)
	t.adjoints[id] = v
}

// PushExternalFunction records fn at the current tape position.
func (t *PrimalTape[T]) PushExternalFunction(fn ExternalFunction[T]) {
	if !t.active {
		return
	}
	t.ext = append(t.ext, externalFunction[T]{ExternalFunction: fn, pos: t.stmts.len()})
}

// Evaluate performs one full reverse pass. Each statement's expression is
// reconstructed from its program, re-walked for partial derivatives, and
// the overwritten primal value of its output is restored, so after a full
// sweep the primal vector is back in its pre-recording state for every
// overwritten slot.
func (t *PrimalTape[T]) Evaluate() {
	t.ensureAdjoints(int(t.ids.Largest()) + 1)
	var zero T
	ei := len(t.ext) - 1
	for i := t.stmts.len() - 1; i >= 0; i-- {
		for ei >= 0 && t.ext[ei].pos > i {
			t.ext[ei].callReverse(t)
			ei--
		}
		s := t.stmts.ptr(i)
		seed := t.adjoints[s.lhs]
		// Restore before decoding: the rhs was evaluated against the
		// pre-assignment state, which matters when lhs appears in its own
		// rhs.
		t.primals[s.lhs] = s.oldPrimal
		if t.opts.SkipZeroAdjoints && seed.IsZero() {
			continue
		}
		if !t.opts.KeepAdjoints {
			t.adjoints[s.lhs] = zero
		}
		node := t.decode(s)
		expr.ForEachJacobian(node, seed, func(id idx.Identifier, jac T) {
			if id == idx.Passive {
				return
			}
			t.adjoints[id] = t.adjoints[id].Add(jac)
		})
	}
	for ei >= 0 {
		t.ext[ei].callReverse(t)
		ei--
	}
}

// EvaluatePrimal re-runs the recorded computation forward against the
// current primal vector, updating every statement's output (and its
// restoration value). Use SetInput first to change inputs.
func (t *PrimalTape[T]) EvaluatePrimal() {
	ei := 0
	for i := 0; i < t.stmts.len(); i++ {
		for ei < len(t.ext) && t.ext[ei].pos <= i {
			t.ext[ei].callPrimal(t)
			ei++
		}
		s := t.stmts.ptr(i)
		node := t.decode(s)
		s.oldPrimal = t.primals[s.lhs]
		t.primals[s.lhs] = node.Value()
	}
	for ; ei < len(t.ext); ei++ {
		t.ext[ei].callPrimal(t)
	}
}

// decode reconstructs a statement's expression tree with leaf values taken
// from the current primal vector.
func (t *PrimalTape[T]) decode(s *primalStatement[T]) *expr.Node[T] {
	var zero T
	stack := make([]*expr.Node[T], 0, 8)
	ci, ri := s.constOff, s.refOff
	for k := int64(0); k < int64(s.opN); k++ {
		b := t.progOp.at(int(s.opOff + k))
		switch b {
		case expr.ProgConst:
			stack = append(stack, expr.Const(zero.FromFloat(t.consts.at(int(ci)))))
			ci++
		case expr.ProgRef:
			id := t.refs.at(int(ri))
			ri++
			stack = append(stack, expr.Leaf(id, t.Primal(id)))
		case byte(ops.CodeScale):
			c := t.consts.at(int(ci))
			ci++
			a := stack[len(stack)-1]
			stack[len(stack)-1] = expr.ApplyScale(c, a)
		default:
			if op, ok := ops.UnaryByCode[T](ops.Code(b)); ok {
				a := stack[len(stack)-1]
				stack[len(stack)-1] = expr.Apply1(op, a)
				continue
			}
			if op, ok := ops.BinaryByCode[T](ops.Code(b)); ok {
				bNode := stack[len(stack)-1]
				aNode := stack[len(stack)-2]
				stack = stack[:len(stack)-1]
				stack[len(stack)-1] = expr.Apply2(op, aNode, bNode)
				continue
			}
			check.Fatalf("tape: unknown opcode %d in primal statement", b)
		}
	}
	if len(stack) != 1 {
		check.Fatalf("tape: malformed primal statement program (stack depth %d)", len(stack))
	}
	return stack[0]
}

// Position returns the current recording position.
func (t *PrimalTape[T]) Position() PrimalPosition {
	return PrimalPosition{
		Statements:        t.stmts.len(),
		Opcodes:           t.progOp.len(),
		Constants:         t.consts.len(),
		References:        t.refs.len(),
		ExternalFunctions: len(t.ext),
	}
}

// ResetTo discards everything recorded after pos, restoring overwritten
// primal values of the discarded statements.
func (t *PrimalTape[T]) ResetTo(pos PrimalPosition) {
	if pos.Statements > t.stmts.len() {
		check.Fatalf("tape: ResetTo position %d is ahead of the recording", pos.Statements)
	}
	for i := len(t.ext) - 1; i >= pos.ExternalFunctions; i-- {
		t.ext[i].free()
	}
	t.ext = t.ext[:pos.ExternalFunctions]
	for i := t.stmts.len() - 1; i >= pos.Statements; i-- {
		s := t.stmts.ptr(i)
		t.primals[s.lhs] = s.oldPrimal
	}
	t.stmts.truncate(pos.Statements)
	t.progOp.truncate(pos.Opcodes)
	t.consts.truncate(pos.Constants)
	t.refs.truncate(pos.References)
}

// Reset discards all recorded statements. Adjoints are zeroed unless
// resetAdjoints is false; the primal vector is cleared.
func (t *PrimalTape[T]) Reset(resetAdjoints bool) {
	for i := len(t.ext) - 1; i >= 0; i-- {
		t.ext[i].free()
	}
	t.ext = t.ext[:0]
	t.stmts.reset()
	t.progOp.reset()
	t.consts.reset()
	t.refs.reset()
	t.ids.Reset()
	var zero T
	for i := range t.primals {
		t.primals[i] = zero
	}
	if resetAdjoints {
		t.ClearAdjoints()
	}
}

// ClearAdjoints zeroes all adjoints without touching recorded statements.
func (t *PrimalTape[T]) ClearAdjoints() {
	var zero T
	for i := range t.adjoints {
		t.adjoints[i] = zero
	}
}

// NumStatements returns the count of recorded statements.
func (t *PrimalTape[T]) NumStatements() int { return t.stmts.len() }

// LargestIdentifier returns the identifier high-water mark.
func (t *PrimalTape[T]) LargestIdentifier() idx.Identifier { return t.ids.Largest() }

// GetParameter reports the value of p for a primal-value tape. The
// Jacobian stream does not exist here and reads zero.
func (t *PrimalTape[T]) GetParameter(p Parameter) int {
	switch p {
	case AdjointSize:
		return len(t.adjoints)
	case PrimalSize:
		return len(t.primals)
	case StatementSize:
		return t.stmts.len()
	case PassiveValuesSize, ConstantValuesSize:
		return t.consts.len()
	case RhsIdentifiersSize:
		return t.refs.len()
	case ExternalFunctionsSize:
		return len(t.ext)
	case LargestIdentifier:
		return int(t.ids.Largest())
	case JacobianSize:
		return 0
	default:
		check.Fatalf("tape: unknown parameter %d", int(p))
		return 0
	}
}

func (t *PrimalTape[T]) ensurePrimals(n int) {
	if n <= len(t.primals) {
		return
	}
	grown := make([]T, n)
	copy(grown, t.primals)
	t.primals = grown
}

func (t *PrimalTape[T]) ensureAdjoints(n int) {
	if n <= len(t.adjoints) {
		return
	}
	grown := make([]T, n)
	copy(grown, t.adjoints)
	t.adjoints = grown
}

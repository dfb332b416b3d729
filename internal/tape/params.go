package tape

import "github.com/spool-ml/spool/internal/check"

// Parameter keys the size/accounting accessors of a tape. Size setters
// pre-allocate storage before recording; getters report the recorded
// count (vector length for the adjoint and primal vectors).
type Parameter int

const (
	AdjointSize Parameter = iota
	PrimalSize
	StatementSize
	JacobianSize
	PassiveValuesSize
	ConstantValuesSize
	RhsIdentifiersSize
	ExternalFunctionsSize
	LargestIdentifier
)

func (p Parameter) String() string {
	switch p {
	case AdjointSize:
		return "AdjointSize"
	case PrimalSize:
		return "PrimalSize"
	case StatementSize:
		return "StatementSize"
	case JacobianSize:
		return "JacobianSize"
	case PassiveValuesSize:
		return "PassiveValuesSize"
	case ConstantValuesSize:
		return "ConstantValuesSize"
	case RhsIdentifiersSize:
		return "RhsIdentifiersSize"
	case ExternalFunctionsSize:
		return "ExternalFunctionsSize"
	case LargestIdentifier:
		return "LargestIdentifier"
	default:
		return "Unknown"
	}
}

// GetParameter reports the value of p. Parameters that do not apply to a
// Jacobian tape (primal/passive/constant storage) read zero.
func (t *Tape[T]) GetParameter(p Parameter) int {
	switch p {
	case AdjointSize:
		return len(t.adjoints)
	case StatementSize:
		return t.stmts.len()
	case JacobianSize:
		return t.jacs.len()
	case RhsIdentifiersSize:
		return t.rhs.len()
	case ExternalFunctionsSize:
		return len(t.ext)
	case LargestIdentifier:
		return int(t.ids.Largest())
	case PrimalSize, PassiveValuesSize, ConstantValuesSize:
		return 0
	default:
		check.Fatalf("tape: unknown parameter %d", int(p))
		return 0
	}
}

// SetParameter pre-sizes the storage keyed by p. LargestIdentifier is
// read-only; parameters that do not apply to a Jacobian tape are ignored.
func (t *Tape[T]) SetParameter(p Parameter, v int) {
	switch p {
	case AdjointSize:
		t.ensureAdjoints(v)
	case StatementSize:
		t.stmts.reserve(v)
	case JacobianSize:
		t.jacs.reserve(v)
	case RhsIdentifiersSize:
		t.rhs.reserve(v)
	case LargestIdentifier:
		check.Fatalf("tape: parameter %s is read-only", p)
	case ExternalFunctionsSize, PrimalSize, PassiveValuesSize, ConstantValuesSize:
		// Not pre-sizable on a Jacobian tape.
	default:
		check.Fatalf("tape: unknown parameter %d", int(p))
	}
}

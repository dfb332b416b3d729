package tape

import (
	"github.com/spool-ml/spool/internal/check"
	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
)

// Jacobian computes the full matrix d outputs[i] / d inputs[j] by one
// reverse sweep per output. Adjoints are cleared after each sweep, so the
// tape's recording is left intact and its adjoint vector clean.
func Jacobian[T num.Scalar[T]](t *Tape[T], inputs, outputs []idx.Identifier) [][]T {
	rows := make([][]T, len(outputs))
	var unit T
	unit = unit.FromFloat(1)
	for i, out := range outputs {
		t.SetGradient(out, unit)
		t.Evaluate()
		row := make([]T, len(inputs))
		for j, in := range inputs {
			row[j] = t.Gradient(in)
		}
		t.ClearAdjoints()
		rows[i] = row
	}
	return rows
}

// Preaccumulate replaces the statements recorded since start with one
// statement per output holding the locally accumulated Jacobian with
// respect to inputs. This bounds tape growth for repeated subroutines: a
// long recorded sub-sequence collapses to len(outputs) statements.
//
// The outputs receive fresh identifiers, returned in order; callers must
// rebind their active values to them. External functions pushed inside the
// region are not supported.
func Preaccumulate[T num.Scalar[T]](t *Tape[T], start Position, inputs, outputs []idx.Identifier) []idx.Identifier {
	cur := t.Position()
	if !start.Before(cur) {
		check.Fatalf("tape: preaccumulation start (%d,%d,%d) is ahead of the recording",
			start.Statements, start.Entries, start.ExternalFunctions)
	}
	if len(t.ext) > start.ExternalFunctions {
		check.Fatalf("tape: preaccumulation region contains %d external functions",
			len(t.ext)-start.ExternalFunctions)
	}

	var unit T
	unit = unit.FromFloat(1)

	// Local reverse sweeps against a scratch adjoint vector.
	scratch := make([]T, int(t.ids.Largest())+1)
	local := make([][]T, len(outputs))
	var zero T
	for i, out := range outputs {
		scratch[out] = unit
		t.evaluateStatements(cur.Statements, start.Statements, scratch, false)
		row := make([]T, len(inputs))
		for j, in := range inputs {
			row[j] = scratch[in]
		}
		local[i] = row
		for k := range scratch {
			scratch[k] = zero
		}
	}

	t.ResetTo(start)

	ids := make([]idx.Identifier, len(outputs))
	for i := range outputs {
		first := int64(t.rhs.len())
		n := int32(0)
		for j, in := range inputs {
			if local[i][j].IsZero() {
				continue
			}
			t.rhs.push(in)
			t.jacs.push(local[i][j])
			n++
		}
		if n == 0 && t.opts.CheckEmptyStatements {
			ids[i] = idx.Passive
			continue
		}
		lhs := t.ids.Assign()
		t.stmts.push(statement{lhs: lhs, first: first, n: n})
		ids[i] = lhs
	}
	return ids
}

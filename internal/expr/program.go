package expr

import (
	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/ops"
)

// Program is the persisted form of an expression tree for primal-value
// tapes: a postfix opcode stream plus side streams for constant operands
// and right-hand-side identifiers. Constants are stored at their passive
// value.
type Program struct {
	Ops    []byte
	Consts []float64
	Refs   []idx.Identifier
}

// Pseudo-opcodes used only inside programs; real operation codes come from
// the ops catalog and stay below these.
const (
	ProgConst byte = 0xFE // push next constant operand
	ProgRef   byte = 0xFD // push primal of next rhs identifier
)

// Encode flattens a tree into a postfix program. Children precede their
// operation, so a stack machine replays the tree left to right.
func Encode[T num.Scalar[T]](n *Node[T]) Program {
	var p Program
	encode(n, &p)
	return p
}

func encode[T num.Scalar[T]](n *Node[T], p *Program) {
	switch n.kind {
	case KindConst:
		p.Ops = append(p.Ops, ProgConst)
		p.Consts = append(p.Consts, n.value.Float())
	case KindLeaf:
		if n.id == idx.Passive {
			p.Ops = append(p.Ops, ProgConst)
			p.Consts = append(p.Consts, n.value.Float())
			return
		}
		p.Ops = append(p.Ops, ProgRef)
		p.Refs = append(p.Refs, n.id)
	case KindUnary:
		encode(n.a, p)
		if n.un.Code == ops.CodeScale {
			p.Ops = append(p.Ops, byte(ops.CodeScale))
			p.Consts = append(p.Consts, n.aux)
			return
		}
		p.Ops = append(p.Ops, byte(n.un.Code))
	case KindBinary:
		encode(n.a, p)
		encode(n.b, p)
		p.Ops = append(p.Ops, byte(n.bin.Code))
	}
}

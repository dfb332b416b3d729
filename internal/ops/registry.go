package ops

import "github.com/spool-ml/spool/internal/num"

// UnaryByCode resolves a persisted opcode to its descriptor. CodeScale is
// not resolvable here: its constant operand lives in the statement's
// constant stream and the decoder reconstructs it with Scale.
func UnaryByCode[T num.Scalar[T]](c Code) (Unary[T], bool) {
	switch c {
	case CodeNeg:
		return Neg[T](), true
	case CodeSin:
		return Sin[T](), true
	case CodeCos:
		return Cos[T](), true
	case CodeTan:
		return Tan[T](), true
	case CodeAsin:
		return Asin[T](), true
	case CodeAcos:
		return Acos[T](), true
	case CodeAtan:
		return Atan[T](), true
	case CodeSinh:
		return Sinh[T](), true
	case CodeCosh:
		return Cosh[T](), true
	case CodeTanh:
		return Tanh[T](), true
	case CodeAsinh:
		return Asinh[T](), true
	case CodeAcosh:
		return Acosh[T](), true
	case CodeAtanh:
		return Atanh[T](), true
	case CodeExp:
		return Exp[T](), true
	case CodeExpm1:
		return Expm1[T](), true
	case CodeLog:
		return Log[T](), true
	case CodeLog1p:
		return Log1p[T](), true
	case CodeLog2:
		return Log2[T](), true
	case CodeLog10:
		return Log10[T](), true
	case CodeSqrt:
		return Sqrt[T](), true
	case CodeCbrt:
		return Cbrt[T](), true
	case CodeAbs:
		return Abs[T](), true
	case CodeErf:
		return Erf[T](), true
	case CodeErfc:
		return Erfc[T](), true
	case CodeTgamma:
		return Tgamma[T](), true
	case CodeCeil:
		return Ceil[T](), true
	case CodeFloor:
		return Floor[T](), true
	case CodeRound:
		return Round[T](), true
	case CodeTrunc:
		return Trunc[T](), true
	case CodeDigamma:
		return Digamma[T](), true
	default:
		return Unary[T]{}, false
	}
}

// BinaryByCode resolves a persisted opcode to its descriptor.
func BinaryByCode[T num.Scalar[T]](c Code) (Binary[T], bool) {
	switch c {
	case CodeAdd:
		return Add[T](), true
	case CodeSub:
		return Sub[T](), true
	case CodeMul:
		return Mul[T](), true
	case CodeDiv:
		return Div[T](), true
	case CodePow:
		return Pow[T](), true
	case CodeAtan2:
		return Atan2[T](), true
	case CodeHypot:
		return Hypot[T](), true
	case CodeFmod:
		return Fmod[T](), true
	case CodeRemainder:
		return Remainder[T](), true
	case CodeCopysign:
		return Copysign[T](), true
	case CodeMax:
		return Max[T](), true
	case CodeMin:
		return Min[T](), true
	case CodeFmax:
		return Fmax[T](), true
	case CodeFmin:
		return Fmin[T](), true
	default:
		return Binary[T]{}, false
	}
}

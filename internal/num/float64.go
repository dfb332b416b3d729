package num

import "math"

// Float64 is the base scalar: a plain IEEE double with no derivative
// tracking. It terminates every nesting chain.
type Float64 float64

// F wraps a plain float64.
func F(v float64) Float64 { return Float64(v) }

func (x Float64) Add(y Float64) Float64 { return x + y }
func (x Float64) Sub(y Float64) Float64 { return x - y }
func (x Float64) Mul(y Float64) Float64 { return x * y }
func (x Float64) Div(y Float64) Float64 { return x / y }
func (x Float64) Neg() Float64          { return -x }

func (x Float64) Sin() Float64   { return Float64(math.Sin(float64(x))) }
func (x Float64) Cos() Float64   { return Float64(math.Cos(float64(x))) }
func (x Float64) Tan() Float64   { return Float64(math.Tan(float64(x))) }
func (x Float64) Asin() Float64  { return Float64(math.Asin(float64(x))) }
func (x Float64) Acos() Float64  { return Float64(math.Acos(float64(x))) }
func (x Float64) Atan() Float64  { return Float64(math.Atan(float64(x))) }
func (x Float64) Sinh() Float64  { return Float64(math.Sinh(float64(x))) }
func (x Float64) Cosh() Float64  { return Float64(math.Cosh(float64(x))) }
func (x Float64) Tanh() Float64  { return Float64(math.Tanh(float64(x))) }
func (x Float64) Asinh() Float64 { return Float64(math.Asinh(float64(x))) }
func (x Float64) Acosh() Float64 { return Float64(math.Acosh(float64(x))) }
func (x Float64) Atanh() Float64 { return Float64(math.Atanh(float64(x))) }
func (x Float64) Exp() Float64   { return Float64(math.Exp(float64(x))) }
func (x Float64) Expm1() Float64 { return Float64(math.Expm1(float64(x))) }
func (x Float64) Log() Float64   { return Float64(math.Log(float64(x))) }
func (x Float64) Log1p() Float64 { return Float64(math.Log1p(float64(x))) }
func (x Float64) Log2() Float64  { return Float64(math.Log2(float64(x))) }
func (x Float64) Log10() Float64 { return Float64(math.Log10(float64(x))) }
func (x Float64) Sqrt() Float64  { return Float64(math.Sqrt(float64(x))) }
func (x Float64) Cbrt() Float64  { return Float64(math.Cbrt(float64(x))) }
func (x Float64) Abs() Float64   { return Float64(math.Abs(float64(x))) }
func (x Float64) Erf() Float64   { return Float64(math.Erf(float64(x))) }
func (x Float64) Erfc() Float64  { return Float64(math.Erfc(float64(x))) }

func (x Float64) Pow(y Float64) Float64 {
	return Float64(math.Pow(float64(x), float64(y)))
}

// Float returns the value as a plain float64.
func (x Float64) Float() float64 { return float64(x) }

// FromFloat lifts a plain float64; for the base type this is a conversion.
func (Float64) FromFloat(v float64) Float64 { return Float64(v) }

// IsZero reports whether the value is exactly zero.
func (x Float64) IsZero() bool { return x == 0 }

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package hyperop

import (
	"math/big"
	"strconv"
)

// Unsigned is the constraint satisfied by Go's built-in unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Fixed is a fixed-width unsigned operand. Its arithmetic is Go's native
// modular arithmetic: results that exceed the width wrap around silently.
// Use Big when the exact value matters.
type Fixed[U Unsigned] struct {
	v U
}

// Fixed-width operands for the common widths.
type (
	Uint8  = Fixed[uint8]
	Uint16 = Fixed[uint16]
	Uint32 = Fixed[uint32]
	Uint64 = Fixed[uint64]
)

// FixedFrom wraps a native unsigned value.
func FixedFrom[U Unsigned](v U) Fixed[U] {
	return Fixed[U]{v: v}
}

// Uint64From wraps a uint64 value.
func Uint64From(v uint64) Uint64 {
	return Uint64{v: v}
}

// Value returns the native value.
func (f Fixed[U]) Value() U { return f.v }

func (f Fixed[U]) Mul(x Fixed[U]) Fixed[U] { return Fixed[U]{v: f.v * x.v} }
func (f Fixed[U]) Sub(x Fixed[U]) Fixed[U] { return Fixed[U]{v: f.v - x.v} }
func (f Fixed[U]) Add(x Fixed[U]) Fixed[U] { return Fixed[U]{v: f.v + x.v} }
func (f Fixed[U]) Clone() Fixed[U]         { return f }
func (f Fixed[U]) One() Fixed[U]           { return Fixed[U]{v: 1} }
func (f Fixed[U]) Unsigned() bool          { return true }

// Cmp compares f and x.
func (f Fixed[U]) Cmp(x Fixed[U]) int {
	switch {
	case f.v < x.v:
		return -1
	case f.v > x.v:
		return 1
	}
	return 0
}

// Uint64 always succeeds: no built-in unsigned type is wider than 64 bits.
func (f Fixed[U]) Uint64() (uint64, bool) { return uint64(f.v), true }

// Int returns the value as a new big.Int.
func (f Fixed[U]) Int() *big.Int { return new(big.Int).SetUint64(uint64(f.v)) }

func (f Fixed[U]) String() string { return strconv.FormatUint(uint64(f.v), 10) }

// bitWidth returns the width of U in bits.
func bitWidth[U Unsigned]() int {
	var max U
	max--
	return new(big.Int).SetUint64(uint64(max)).BitLen()
}

// fixedFromInt converts x into a Fixed[U], failing when x is negative or
// wider than U.
func fixedFromInt[U Unsigned](x *big.Int, operand string) (Fixed[U], error) {
	width := bitWidth[U]()
	if x.Sign() < 0 || x.BitLen() > width {
		return Fixed[U]{}, &OperandRangeError{Operand: operand, Value: x.String(), Bits: width}
	}
	return Fixed[U]{v: U(x.Uint64())}, nil
}

package hyperop

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrUnderflow is the panic value raised when an arbitrary-precision
// operand would become negative.
var ErrUnderflow = errors.New("hyperop: unsigned subtraction underflow")

// ErrNegative is returned when a negative value is offered as an unsigned
// operand.
var ErrNegative = errors.New("hyperop: operand must be non-negative")

// Big is an arbitrary-precision unsigned operand backed by math/big.
// The zero value is 0. Values are immutable: every operation allocates its
// result, so a Big may be shared freely between goroutines.
type Big struct {
	v *big.Int
}

var bigOne = big.NewInt(1)

// NewBig returns a Big holding a copy of x.
func NewBig(x *big.Int) (Big, error) {
	if x == nil {
		return Big{}, nil
	}
	if x.Sign() < 0 {
		return Big{}, fmt.Errorf("%w: %s", ErrNegative, x)
	}
	return Big{v: new(big.Int).Set(x)}, nil
}

// BigFrom returns a Big holding v.
func BigFrom(v uint64) Big {
	return Big{v: new(big.Int).SetUint64(v)}
}

// ParseBig parses a base-10 non-negative integer.
func ParseBig(s string) (Big, error) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Big{}, fmt.Errorf("hyperop: invalid integer %q", s)
	}
	return NewBig(x)
}

func (b Big) int() *big.Int {
	if b.v == nil {
		return new(big.Int)
	}
	return b.v
}

func (b Big) Mul(x Big) Big { return Big{v: new(big.Int).Mul(b.int(), x.int())} }
func (b Big) Add(x Big) Big { return Big{v: new(big.Int).Add(b.int(), x.int())} }
func (b Big) Cmp(x Big) int { return b.int().Cmp(x.int()) }
func (b Big) One() Big      { return Big{v: bigOne} }
func (b Big) Unsigned() bool {
	return true
}

// Sub panics with ErrUnderflow when x is greater than b.
func (b Big) Sub(x Big) Big {
	z := new(big.Int).Sub(b.int(), x.int())
	if z.Sign() < 0 {
		panic(ErrUnderflow)
	}
	return Big{v: z}
}

// Clone returns b. Big values are never mutated, so sharing the underlying
// integer is a valid copy.
func (b Big) Clone() Big { return b }

func (b Big) Uint64() (uint64, bool) {
	x := b.int()
	return x.Uint64(), x.IsUint64()
}

// Int returns a copy of the value as a big.Int.
func (b Big) Int() *big.Int { return new(big.Int).Set(b.int()) }

func (b Big) String() string { return b.int().String() }

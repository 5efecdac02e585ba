//go:build gmp

// This file provides a GMP-backed operand and calculator, compiled only with
// the "gmp" build tag (go build -tags=gmp) and a system libgmp:
//   - Linux: sudo apt-get install libgmp-dev
//   - macOS: brew install gmp

package hyperop

import (
	"context"
	"math/big"

	"github.com/ncw/gmp"
)

func init() {
	RegisterCalculator("gmp", func() coreCalculator { return &GMPCalculator{} })
}

// GMP is an arbitrary-precision unsigned operand backed by libgmp.
// Like Big, values are immutable.
type GMP struct {
	v *gmp.Int
}

var gmpOne = gmp.NewInt(1)

// GMPFromInt converts a non-negative big.Int.
func GMPFromInt(x *big.Int) (GMP, error) {
	if x.Sign() < 0 {
		return GMP{}, ErrNegative
	}
	return GMP{v: new(gmp.Int).SetBytes(x.Bytes())}, nil
}

func (g GMP) int() *gmp.Int {
	if g.v == nil {
		return new(gmp.Int)
	}
	return g.v
}

func (g GMP) Mul(x GMP) GMP  { return GMP{v: new(gmp.Int).Mul(g.int(), x.int())} }
func (g GMP) Add(x GMP) GMP  { return GMP{v: new(gmp.Int).Add(g.int(), x.int())} }
func (g GMP) Cmp(x GMP) int  { return g.int().Cmp(x.int()) }
func (g GMP) Clone() GMP     { return g }
func (g GMP) One() GMP       { return GMP{v: gmpOne} }
func (g GMP) Unsigned() bool { return true }

// Sub panics with ErrUnderflow when x is greater than g.
func (g GMP) Sub(x GMP) GMP {
	z := new(gmp.Int).Sub(g.int(), x.int())
	if z.Sign() < 0 {
		panic(ErrUnderflow)
	}
	return GMP{v: z}
}

func (g GMP) Uint64() (uint64, bool) {
	x := g.int()
	if x.BitLen() > 64 {
		return 0, false
	}
	return x.Uint64(), true
}

// Int converts the value to a standard library big.Int.
func (g GMP) Int() *big.Int { return new(big.Int).SetBytes(g.int().Bytes()) }

func (g GMP) String() string { return g.int().String() }

// GMPCalculator evaluates hyperoperations with libgmp arithmetic. It wins
// over math/big once operands reach millions of bits; below that the cgo
// call overhead dominates.
type GMPCalculator struct{}

// Name returns the backend name.
func (c *GMPCalculator) Name() string {
	return "GMP (arbitrary precision)"
}

// CalculateCore converts the operands to GMP integers and evaluates.
func (c *GMPCalculator) CalculateCore(ctx context.Context, reporter ProgressReporter, in Operands) (*big.Int, error) {
	a, err := GMPFromInt(in.A)
	if err != nil {
		return nil, &OperandRangeError{Operand: "a", Value: in.A.String()}
	}
	b, err := GMPFromInt(in.B)
	if err != nil {
		return nil, &OperandRangeError{Operand: "b", Value: in.B.String()}
	}
	res, err := EvaluateContext(ctx, a, b, in.Arrows, reporter)
	if err != nil {
		return nil, err
	}
	return res.Int(), nil
}

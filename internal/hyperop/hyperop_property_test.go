package hyperop

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestHyperoperationProperties checks the algebraic identities that tie the
// hyperoperation family to ordinary arithmetic.
func TestHyperoperationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("zero arrows is wrapping multiplication", prop.ForAll(
		func(a, b uint64) bool {
			return Evaluate(Uint64From(a), Uint64From(b), 0).Value() == a*b
		},
		gen.UInt64(), gen.UInt64(),
	))

	properties.Property("b = 1 yields a for every arrow count", prop.ForAll(
		func(a uint64, arrows uint8) bool {
			return Evaluate(Uint64From(a), Uint64From(1), arrows%8).Value() == a
		},
		gen.UInt64(), gen.UInt8(),
	))

	properties.Property("b = 2 yields a ↑^(n-1) a", prop.ForAll(
		func(a uint64, arrows uint8) bool {
			n := arrows%3 + 1
			x := BigFrom(a)
			return Evaluate(x, BigFrom(2), n).Cmp(Evaluate(x, x, n-1)) == 0
		},
		gen.UInt64Range(0, 3), gen.UInt8(),
	))

	properties.Property("one arrow is exponentiation", prop.ForAll(
		func(a, b uint64) bool {
			want := new(big.Int).Exp(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b), nil)
			return Evaluate(BigFrom(a), BigFrom(b), 1).Int().Cmp(want) == 0
		},
		gen.UInt64Range(0, 1000), gen.UInt64Range(0, 60),
	))

	properties.Property("uint64 exponentiation is exact modulo 2^64", prop.ForAll(
		func(a, b uint64) bool {
			mod := new(big.Int).Lsh(big.NewInt(1), 64)
			want := new(big.Int).Exp(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b), mod)
			return Evaluate(Uint64From(a), Uint64From(b), 1).Value() == want.Uint64()
		},
		gen.UInt64(), gen.UInt64Range(0, 500),
	))

	properties.TestingRun(t)
}

// Package hyperop computes hyperoperations: the family of operations
// (multiplication, exponentiation, tetration, ...) indexed by the number of
// arrows in Knuth's up-arrow notation.
//
// The evaluator is written once against the Number contract and runs over
// every numeric backend that satisfies it: fixed-width unsigned integers
// (which wrap silently on overflow, exactly like Go's native types) and
// arbitrary-precision integers (which never overflow).
//
// Example:
//
//	expr := hyperop.New(hyperop.Uint64From(3), hyperop.Uint64From(3), 2) // 3 ↑↑ 3
//	fmt.Println(expr, "=", expr.Evaluate())                             // 3 ↑↑ 3 = 7625597484987
package hyperop

import "fmt"

// Number is the set of capabilities an operand type must provide to take
// part in a hyperoperation. T is the implementing type itself, so that every
// operation yields a value of the same type.
//
// Implementations must treat their receiver and arguments as immutable:
// every arithmetic method returns a fresh value.
type Number[T any] interface {
	// Mul returns the product of the receiver and x.
	Mul(x T) T
	// Sub returns the receiver minus x. The evaluator only uses it to
	// decrement the second operand by one.
	Sub(x T) T
	// Add returns the sum of the receiver and x.
	Add(x T) T
	// Cmp compares the receiver with x and returns -1, 0 or +1.
	Cmp(x T) int
	// Clone returns an independent copy of the receiver.
	Clone() T
	// One returns the multiplicative identity of the type.
	One() T
	// Unsigned reports whether the type only represents non-negative values.
	Unsigned() bool
	// Uint64 converts the value to a primitive for bookkeeping. The boolean
	// is false when the value does not fit in a uint64.
	Uint64() (uint64, bool)

	fmt.Stringer
}

// isZero reports whether x is zero. For unsigned types the only value below
// the identity is zero.
func isZero[T Number[T]](x T) bool {
	return x.Cmp(x.One()) < 0
}

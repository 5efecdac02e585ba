package hyperop

import (
	"context"
	"fmt"
	"math/big"
)

// FixedCalculator evaluates hyperoperations with a fixed-width unsigned
// type. Results wrap exactly like the native type; running it next to the
// big backend is how wraparound becomes visible.
type FixedCalculator[U Unsigned] struct{}

// Name returns e.g. "uint32 (wrapping)".
func (c *FixedCalculator[U]) Name() string {
	return fmt.Sprintf("uint%d (wrapping)", bitWidth[U]())
}

// CalculateCore converts the operands, failing with *OperandRangeError when
// one does not fit in U, and evaluates.
func (c *FixedCalculator[U]) CalculateCore(ctx context.Context, reporter ProgressReporter, in Operands) (*big.Int, error) {
	a, err := fixedFromInt[U](in.A, "a")
	if err != nil {
		return nil, err
	}
	b, err := fixedFromInt[U](in.B, "b")
	if err != nil {
		return nil, err
	}
	res, err := EvaluateContext(ctx, a, b, in.Arrows, reporter)
	if err != nil {
		return nil, err
	}
	return res.Int(), nil
}

// BigCalculator evaluates hyperoperations exactly with math/big.
type BigCalculator struct{}

// Name returns the backend name.
func (c *BigCalculator) Name() string {
	return "math/big (arbitrary precision)"
}

// CalculateCore evaluates in with Big operands.
func (c *BigCalculator) CalculateCore(ctx context.Context, reporter ProgressReporter, in Operands) (*big.Int, error) {
	a, err := NewBig(in.A)
	if err != nil {
		return nil, &OperandRangeError{Operand: "a", Value: in.A.String()}
	}
	b, err := NewBig(in.B)
	if err != nil {
		return nil, &OperandRangeError{Operand: "b", Value: in.B.String()}
	}
	res, err := EvaluateContext(ctx, a, b, in.Arrows, reporter)
	if err != nil {
		return nil, err
	}
	return res.Int(), nil
}

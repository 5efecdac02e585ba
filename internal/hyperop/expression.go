package hyperop

import (
	"context"
	"fmt"
	"strings"
)

const (
	// MultiplicationSign is the glyph rendered for zero arrows.
	MultiplicationSign = "×"
	// UpArrow is repeated once per arrow.
	UpArrow = "↑"
)

// Expression is a hyperoperation a ↑^Arrows b in Knuth's up-arrow notation.
// It is a plain value: evaluating or rendering it never changes it.
type Expression[T Number[T]] struct {
	// A is the operand before the arrows.
	A T
	// B is the operand after the arrows.
	B T
	// Arrows selects the operation: 0 multiplication, 1 exponentiation,
	// 2 tetration, and so on.
	Arrows uint8
}

// New returns the expression a ↑^arrows b.
func New[T Number[T]](a, b T, arrows uint8) Expression[T] {
	return Expression[T]{A: a, B: b, Arrows: arrows}
}

// Evaluate computes the value of the expression.
//
// Some expressions (3 ↑↑↑ 3 for instance) take longer than the age of the
// universe. With a fixed-width operand type the result silently wraps on
// overflow; use Big for exact results.
func (e Expression[T]) Evaluate() T {
	return Evaluate(e.A, e.B, e.Arrows)
}

// EvaluateContext computes the value of the expression, stopping early when
// ctx is done. See EvaluateContext.
func (e Expression[T]) EvaluateContext(ctx context.Context, reporter ProgressReporter) (T, error) {
	return EvaluateContext(ctx, e.A, e.B, e.Arrows, reporter)
}

// String renders the expression in Knuth's up-arrow notation, e.g. "3 ↑↑ 4"
// or "3 × 4" for zero arrows.
func (e Expression[T]) String() string {
	return Format(e.A.String(), e.B.String(), e.Arrows)
}

// Notation returns the operator glyph for the given arrow count: "×" for
// zero, otherwise "↑" repeated arrows times.
func Notation(arrows uint8) string {
	if arrows == 0 {
		return MultiplicationSign
	}
	return strings.Repeat(UpArrow, int(arrows))
}

// Format renders already-formatted operands around the operator glyph.
func Format(a, b string, arrows uint8) string {
	return fmt.Sprintf("%s %s %s", a, Notation(arrows), b)
}

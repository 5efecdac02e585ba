package hyperop

import "context"

// Evaluate computes a ↑^arrows b.
//
//   - arrows == 0 is multiplication: the result is a * b.
//   - arrows > 0 applies the operation one level down b-1 times, starting
//     from a: a ↑^n b = a ↑^(n-1) (a ↑^n (b-1)), with a ↑^n 1 = a.
//   - arrows > 0 and b == 0 yields One(), following a ↑^n 0 = 1.
//
// Recursion depth is bounded by arrows; the iteration over b is an explicit
// loop. The number of multiplications grows explosively with both b and
// arrows. With a fixed-width type the result wraps silently once it exceeds
// the width; use Big to get exact values.
//
// Evaluate is equivalent to New(a, b, arrows).Evaluate().
func Evaluate[T Number[T]](a, b T, arrows uint8) T {
	// A background context is never done, so the error is always nil.
	res, _ := evaluate(context.Background(), a, b, arrows, nil)
	return res
}

// EvaluateContext computes the same value as Evaluate, checking ctx before
// every step of every level so that long evaluations can be abandoned.
// Progress of the outermost loop is reported to reporter (which may be nil)
// as a fraction in [0, 1]; the total is taken from b's Uint64 conversion and
// progress is only reported when b fits.
func EvaluateContext[T Number[T]](ctx context.Context, a, b T, arrows uint8, reporter ProgressReporter) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	var step func(done uint64)
	if total, exact := b.Uint64(); reporter != nil && exact && total > 1 {
		var lastReported float64
		step = func(done uint64) {
			lastReported = reportStep(reporter, lastReported, float64(done)/float64(total-1))
		}
	}
	return evaluate(ctx, a, b, arrows, step)
}

// evaluate is the single implementation behind Evaluate and
// EvaluateContext. step, when non-nil, is called after each iteration of
// this level's loop with the number of iterations done; inner levels get
// no step.
func evaluate[T Number[T]](ctx context.Context, a, b T, arrows uint8, step func(done uint64)) (T, error) {
	if arrows == 0 {
		return b.Mul(a), nil
	}
	one := a.One()
	if isZero(b) {
		return one, nil
	}

	res := a.Clone()
	last := b.Sub(one)
	var done uint64
	// TODO: use exponentiation by squaring when arrows == 1.
	for i := one; i.Cmp(last) <= 0; i = i.Add(one) {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		next, err := evaluate(ctx, a, res, arrows-1, nil)
		if err != nil {
			var zero T
			return zero, err
		}
		res = next
		if step != nil {
			done++
			step(done)
		}
	}
	return res, nil
}

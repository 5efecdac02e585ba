package hyperop

import (
	"context"
	"errors"
	"math"
	"math/big"
	"testing"
	"time"
)

func TestEvaluateUint64(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		a, b   uint64
		arrows uint8
		want   uint64
	}{
		{"multiplication", 4, 7, 0, 28},
		{"multiplication by zero", 9, 0, 0, 0},
		{"power", 2, 10, 1, 1024},
		{"power of zero", 0, 5, 1, 0},
		{"tetration 3^^2", 3, 2, 2, 27},
		{"tetration 2^^4", 2, 4, 2, 65536},
		{"pentation 2^^^3", 2, 3, 3, 65536},
		{"tetration 3^^3", 3, 3, 2, 7625597484987},
		{"two on two is four", 2, 2, 7, 4},
		{"one stays one", 1, 1000, 3, 1},
		{"b one is identity", 12345, 1, 4, 12345},
		{"b zero is one", 7, 0, 2, 1},
		{"b zero is one for power", 0, 0, 1, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Evaluate(Uint64From(tt.a), Uint64From(tt.b), tt.arrows)
			if got.Value() != tt.want {
				t.Errorf("Evaluate(%d, %d, %d) = %d, want %d", tt.a, tt.b, tt.arrows, got.Value(), tt.want)
			}
		})
	}
}

func TestEvaluateBigFiveTetrationThree(t *testing.T) {
	t.Parallel()
	got := Evaluate(BigFrom(5), BigFrom(3), 2).Int()

	mod := new(big.Int).Mod(got, big.NewInt(100_000_000))
	if mod.Int64() != 8203125 {
		t.Errorf("5 ↑↑ 3 mod 1e8 = %d, want 8203125", mod.Int64())
	}
	// 5 ↑↑ 3 = 5^3125 has 2185 decimal digits.
	if digits := len(got.String()); digits != 2185 {
		t.Errorf("5 ↑↑ 3 has %d digits, want 2185", digits)
	}
}

func TestEvaluateFixedWrapsLikeNative(t *testing.T) {
	t.Parallel()

	if got := Evaluate(FixedFrom[uint8](2), FixedFrom[uint8](8), 1).Value(); got != 0 {
		t.Errorf("uint8 2 ↑ 8 = %d, want 0 (wrapped)", got)
	}

	var exact uint64 = 7625597484987
	if got := Evaluate(FixedFrom[uint32](3), FixedFrom[uint32](3), 2).Value(); got != uint32(exact) {
		t.Errorf("uint32 3 ↑↑ 3 = %d, want %d", got, uint32(exact))
	}

	var native uint16 = 1
	for i := 0; i < 13; i++ {
		native *= 7
	}
	if got := Evaluate(FixedFrom[uint16](7), FixedFrom[uint16](13), 1).Value(); got != native {
		t.Errorf("uint16 7 ↑ 13 = %d, want %d", got, native)
	}
}

func TestEvaluateLargestLoopCounter(t *testing.T) {
	t.Parallel()
	// The loop runs up to b-1 = 254 and must stop without wrapping its
	// counter.
	if got := Evaluate(FixedFrom[uint8](1), FixedFrom[uint8](255), 1).Value(); got != 1 {
		t.Errorf("uint8 1 ↑ 255 = %d, want 1", got)
	}
}

func TestEvaluateBigDoesNotAliasOperands(t *testing.T) {
	t.Parallel()
	a, b := BigFrom(3), BigFrom(3)
	_ = Evaluate(a, b, 2)
	if a.String() != "3" || b.String() != "3" {
		t.Errorf("operands changed to %s and %s", a, b)
	}
}

func TestEvaluateContextMatchesEvaluate(t *testing.T) {
	t.Parallel()
	for arrows := uint8(0); arrows <= 3; arrows++ {
		for a := uint64(0); a <= 3; a++ {
			for b := uint64(0); b <= 3; b++ {
				if arrows == 3 && a == 3 && b == 3 {
					continue // 3 ↑↑↑ 3 does not terminate in practice
				}
				want := Evaluate(BigFrom(a), BigFrom(b), arrows)
				got, err := EvaluateContext(context.Background(), BigFrom(a), BigFrom(b), arrows, nil)
				if err != nil {
					t.Fatalf("EvaluateContext(%d, %d, %d): %v", a, b, arrows, err)
				}
				if got.Cmp(want) != 0 {
					t.Errorf("EvaluateContext(%d, %d, %d) = %s, want %s", a, b, arrows, got, want)
				}
			}
		}
	}
}

func TestEvaluateContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EvaluateContext(ctx, Uint64From(2), Uint64From(3), 2, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEvaluateContextDeadline(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := EvaluateContext(ctx, Uint64From(3), Uint64From(3), 3, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v", elapsed)
	}
}

func TestEvaluateContextReportsProgress(t *testing.T) {
	t.Parallel()
	var reports []float64
	reporter := func(p float64) { reports = append(reports, p) }

	got, err := EvaluateContext(context.Background(), Uint64From(1), Uint64From(200), 1, reporter)
	if err != nil {
		t.Fatal(err)
	}
	if got.Value() != 1 {
		t.Fatalf("1 ↑ 200 = %d, want 1", got.Value())
	}
	if len(reports) == 0 {
		t.Fatal("no progress reported")
	}
	if len(reports) > 101 {
		t.Errorf("%d reports, want at most 101", len(reports))
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] < reports[i-1] {
			t.Errorf("progress went backwards: %v then %v", reports[i-1], reports[i])
		}
	}
	if last := reports[len(reports)-1]; last != 1.0 {
		t.Errorf("last report = %v, want 1.0", last)
	}
}

func TestEvaluateContextReportsOnlyOuterLoop(t *testing.T) {
	t.Parallel()
	var reports []float64
	reporter := func(p float64) { reports = append(reports, p) }

	// 2 ↑↑ 4 runs its outer loop 3 times; the inner powers must not report.
	got, err := EvaluateContext(context.Background(), BigFrom(2), BigFrom(4), 2, reporter)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cmp(BigFrom(65536)) != 0 {
		t.Fatalf("2 ↑↑ 4 = %s, want 65536", got)
	}
	want := []float64{1.0 / 3, 2.0 / 3, 1.0}
	if len(reports) != len(want) {
		t.Fatalf("reports = %v, want %v", reports, want)
	}
	for i := range want {
		if math.Abs(reports[i]-want[i]) > 1e-9 {
			t.Errorf("report %d = %v, want %v", i, reports[i], want[i])
		}
	}
}

func TestReportStep(t *testing.T) {
	t.Parallel()
	calls := 0
	reporter := func(float64) { calls++ }

	if last := reportStep(reporter, 0, 0.005); last != 0 || calls != 0 {
		t.Errorf("small step reported: last=%v calls=%d", last, calls)
	}
	if last := reportStep(reporter, 0, 0.02); last != 0.02 || calls != 1 {
		t.Errorf("large step not reported: last=%v calls=%d", last, calls)
	}
	if last := reportStep(reporter, 0.995, 1.0); last != 1.0 || calls != 2 {
		t.Errorf("completion not reported: last=%v calls=%d", last, calls)
	}
	if last := reportStep(reporter, 1.0, 1.0); last != 1.0 || calls != 2 {
		t.Errorf("completion reported twice: calls=%d", calls)
	}
}

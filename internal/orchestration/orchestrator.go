// Package orchestration runs one expression on several backends at once and
// compares what they return.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/hypercalc/internal/cli"
	apperrors "github.com/agbru/hypercalc/internal/errors"
	"github.com/agbru/hypercalc/internal/hyperop"
	"github.com/agbru/hypercalc/internal/ui"
)

// CalculationResult is the outcome of one backend.
type CalculationResult struct {
	// Name is the backend's display name, e.g. "uint64 (wrapping)".
	Name string
	// Result is nil when Err is set.
	Result   *big.Int
	Duration time.Duration
	Err      error
}

// ProgressBufferMultiplier sizes the progress channel per backend so that a
// slow terminal rarely drops updates.
const ProgressBufferMultiplier = 5

// ExecuteCalculations evaluates in with every calculator concurrently while
// a progress display runs on out. Results are in calculators order; a
// failing backend does not stop the others.
//
// Parameters:
//   - ctx: The context for cancellation and deadlines.
//   - calculators: The backends to run.
//   - in: The operands and arrow count.
//   - out: Where progress is drawn (io.Discard to hide it).
//
// Returns:
//   - []CalculationResult: One result per calculator.
func ExecuteCalculations(ctx context.Context, calculators []hyperop.Calculator, in hyperop.Operands, out io.Writer) []CalculationResult {
	var g errgroup.Group
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan hyperop.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	for i, calc := range calculators {
		g.Go(func() error {
			start := time.Now()
			res, err := calc.Calculate(ctx, progressChan, i, in)
			results[i] = CalculationResult{
				Name:     calc.Name(),
				Result:   res,
				Duration: time.Since(start),
				Err:      apperrors.NewCalculationError(calc.Name(), err),
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()
	return results
}

// Reference returns the widest successful result, or nil if every backend
// failed. Wrapped fixed-width values are never larger than the exact one.
func Reference(results []CalculationResult) *CalculationResult {
	var ref *CalculationResult
	for i := range results {
		r := &results[i]
		if r.Err != nil || r.Result == nil {
			continue
		}
		if ref == nil || r.Result.Cmp(ref.Result) > 0 ||
			(r.Result.Cmp(ref.Result) == 0 && r.Duration < ref.Duration) {
			ref = r
		}
	}
	return ref
}

// CompareResults checks that every successful result equals the reference.
//
// Returns:
//   - *CalculationResult: The reference result, nil if all failed.
//   - error: A MismatchError naming the disagreeing backends, the first
//     backend error when none succeeded, or nil.
func CompareResults(results []CalculationResult, expression string) (*CalculationResult, error) {
	ref := Reference(results)
	if ref == nil {
		for _, r := range results {
			if r.Err != nil {
				return nil, r.Err
			}
		}
		return nil, fmt.Errorf("no backend evaluated %s", expression)
	}

	var differing []string
	for _, r := range results {
		if r.Err == nil && r.Result.Cmp(ref.Result) != 0 {
			differing = append(differing, r.Name)
		}
	}
	if len(differing) > 0 {
		return ref, apperrors.MismatchError{Expression: expression, Backends: differing}
	}
	return ref, nil
}

// AnalyzeComparisonResults prints a summary table of results, fastest
// successful backend first, followed by the global status line.
//
// Parameters:
//   - results: The backend outcomes; sorted in place.
//   - expression: The rendered expression.
//   - out: The destination of the report.
//
// Returns:
//   - *CalculationResult: The reference result, nil if all failed.
//   - error: As returned by CompareResults.
func AnalyzeComparisonResults(results []CalculationResult, expression string, out io.Writer) (*CalculationResult, error) {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	t := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Paint(t.Bold, "Backend"), t.Paint(t.Bold, "Duration"), t.Paint(t.Bold, "Bits"), t.Paint(t.Bold, "Status"))
	for _, r := range results {
		bits, status := "-", t.Paint(t.Success, "✅ Success")
		if r.Err != nil {
			status = t.Paint(t.Error, fmt.Sprintf("❌ Failure (%v)", r.Err))
		} else {
			bits = fmt.Sprint(r.Result.BitLen())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			t.Paint(t.Primary, r.Name), t.Paint(t.Warning, cli.FormatExecutionDuration(r.Duration)), bits, status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	ref, err := CompareResults(results, expression)
	switch {
	case ref == nil:
		fmt.Fprintf(out, "\nGlobal Status: Failure. No backend could evaluate %s.\n", expression)
	case err != nil:
		fmt.Fprintf(out, "\nGlobal Status: %s\n", t.Paint(t.Error, "results differ between backends."))
	default:
		fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	}
	return ref, err
}

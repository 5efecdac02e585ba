// Package cli renders hyperoperation evaluations on a terminal: a spinner
// with an aggregated progress bar and ETA while backends run, then the value
// with optional size details, hexadecimal form and file export.
package cli

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/hypercalc/internal/hyperop"
	"github.com/agbru/hypercalc/internal/ui"
)

// FormatExecutionDuration prints microseconds below a millisecond,
// milliseconds below a second and d.String() above.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d == 0:
		return "< 1µs"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

const (
	// TruncationLimit is the digit count above which values are shortened
	// unless -v is given.
	TruncationLimit = 100
	// DisplayEdges is the number of leading and trailing digits kept.
	DisplayEdges = 25
	// ProgressRefreshRate is the spinner refresh period.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the progress bar width in characters.
	ProgressBarWidth = 40
)

func theme() ui.Theme { return ui.GetCurrentTheme() }

// Spinner is the terminal spinner used by DisplayProgress.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text shown after the spinner glyph.
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}

// ProgressState tracks the progress of several concurrent backends.
type ProgressState struct {
	progresses []float64
}

// NewProgressState tracks numCalculators backends, all at 0.
func NewProgressState(numCalculators int) *ProgressState {
	return &ProgressState{progresses: make([]float64, numCalculators)}
}

// Update records value for backend index. Out-of-range indices are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = value
	}
}

// CalculateAverage returns the mean progress, 0 when nothing is tracked.
func (ps *ProgressState) CalculateAverage() float64 {
	if len(ps.progresses) == 0 {
		return 0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(len(ps.progresses))
}

func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

func progressLabel(numCalculators int) string {
	if numCalculators > 1 {
		return "Avg progress"
	}
	return "Progress"
}

// DisplayProgress renders progress updates until progressChan is closed,
// then prints a final 100% line. It runs in its own goroutine and calls
// wg.Done on return.
//
// Parameters:
//   - wg: Signalled when the display has finished.
//   - progressChan: The updates sent by the backends.
//   - numCalculators: How many backends report on progressChan.
//   - out: Where the spinner is drawn.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan hyperop.ProgressUpdate, numCalculators int, out io.Writer) {
	defer wg.Done()
	if numCalculators <= 0 {
		for range progressChan {
		}
		return
	}

	state := NewProgressWithETA(numCalculators)
	label := progressLabel(numCalculators)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				stopped = true
				fmt.Fprintf(out, "%s: %s\n", label, FormatProgressBarWithETA(1.0, time.Nanosecond, ProgressBarWidth))
				return
			}
			state.UpdateWithETA(update.CalculatorIndex, update.Value)
		case <-ticker.C:
			s.UpdateSuffix(fmt.Sprintf(" %s: %s", label,
				FormatProgressBarWithETA(state.CalculateAverage(), state.GetETA(), ProgressBarWidth)))
		}
	}
}

// DisplayResult prints the size of result and, depending on the flags,
// timing details and the value itself.
//
// Parameters:
//   - result: The evaluated value.
//   - expression: The rendered expression, e.g. "3 ↑↑ 3".
//   - duration: The evaluation time.
//   - verbose: Print every digit instead of truncating.
//   - details: Print timing, digit count and scientific notation.
//   - concise: Print the value section.
//   - out: The destination.
func DisplayResult(result *big.Int, expression string, duration time.Duration, verbose, details, concise bool, out io.Writer) {
	t := theme()
	fmt.Fprintf(out, "Result binary size: %s%s%s bits.\n", t.Secondary, formatNumberString(strconv.Itoa(result.BitLen())), t.Reset)

	digits := result.String()
	if details {
		fmt.Fprintf(out, "\n%s--- Detailed result analysis ---%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Evaluation time  : %s%s%s\n", t.Success, FormatExecutionDuration(duration), t.Reset)
		fmt.Fprintf(out, "Number of digits : %s%s%s\n", t.Secondary, formatNumberString(strconv.Itoa(len(digits))), t.Reset)
		if len(digits) > 6 {
			fmt.Fprintf(out, "Scientific form  : %s%.6e%s\n", t.Secondary, new(big.Float).SetInt(result), t.Reset)
		}
	}

	if !concise {
		return
	}

	expr := t.Paint(t.Info, expression)
	fmt.Fprintf(out, "\n%s--- Calculated value ---%s\n", t.Bold, t.Reset)
	switch {
	case verbose:
		fmt.Fprintf(out, "%s =\n%s\n", expr, t.Paint(t.Success, formatNumberString(digits)))
	case len(digits) > TruncationLimit:
		fmt.Fprintf(out, "%s (truncated) = %s\n", expr,
			t.Paint(t.Success, digits[:DisplayEdges]+"..."+digits[len(digits)-DisplayEdges:]))
		fmt.Fprintf(out, "(Tip: use the %s option to display the full value)\n", t.Paint(t.Warning, "-v"))
	default:
		fmt.Fprintf(out, "%s = %s\n", expr, t.Paint(t.Success, formatNumberString(digits)))
	}
}

// formatNumberString inserts thousands separators into a decimal string.
func formatNumberString(s string) string {
	prefix := ""
	if strings.HasPrefix(s, "-") {
		prefix, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return prefix + s
	}

	var b strings.Builder
	b.Grow(len(prefix) + n + (n-1)/3)
	b.WriteString(prefix)
	first := n % 3
	if first == 0 {
		first = 3
	}
	b.WriteString(s[:first])
	for i := first; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

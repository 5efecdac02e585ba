package cli

import (
	"bytes"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/hypercalc/internal/hyperop"
	"github.com/agbru/hypercalc/internal/testutil"
)

type mockSpinner struct {
	mu      sync.Mutex
	started bool
	stopped bool
	suffix  string
}

func (m *mockSpinner) Start() { m.mu.Lock(); m.started = true; m.mu.Unlock() }
func (m *mockSpinner) Stop()  { m.mu.Lock(); m.stopped = true; m.mu.Unlock() }
func (m *mockSpinner) UpdateSuffix(s string) {
	m.mu.Lock()
	m.suffix = s
	m.mu.Unlock()
}

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "< 1µs"},
		{500 * time.Nanosecond, "0µs"},
		{10 * time.Microsecond, "10µs"},
		{10 * time.Millisecond, "10ms"},
		{2 * time.Second, "2s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		want     string
	}{
		{0, "░░░░░░░░░░"},
		{0.5, "█████░░░░░"},
		{1, "██████████"},
		{1.2, "██████████"},
		{-0.1, "░░░░░░░░░░"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.progress, 10); got != tt.want {
			t.Errorf("progressBar(%v) = %s, want %s", tt.progress, got, tt.want)
		}
	}
}

func TestProgressState(t *testing.T) {
	t.Parallel()
	if got := NewProgressState(0).CalculateAverage(); got != 0 {
		t.Errorf("empty average = %v", got)
	}
	ps := NewProgressState(4)
	ps.Update(0, 1)
	ps.Update(3, 0.5)
	ps.Update(4, 1)
	if got := ps.CalculateAverage(); got != 0.375 {
		t.Errorf("average = %v, want 0.375", got)
	}
}

func TestFormatNumberString(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"":              "",
		"7":             "7",
		"123":           "123",
		"1234":          "1,234",
		"7625597484987": "7,625,597,484,987",
		"-65536":        "-65,536",
	}
	for in, want := range tests {
		if got := formatNumberString(in); got != want {
			t.Errorf("formatNumberString(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplayResultGolden(t *testing.T) {
	t.Parallel()
	tetration := big.NewInt(7625597484987)
	tests := []struct {
		name     string
		details  bool
		concise  bool
		verbose  bool
		result   *big.Int
		expected string
	}{
		{
			name:     "value",
			concise:  true,
			result:   tetration,
			expected: "Result binary size: 43 bits.\n\n--- Calculated value ---\n3 ↑↑ 3 = 7,625,597,484,987\n",
		},
		{
			name:    "details",
			details: true,
			result:  tetration,
			expected: "Result binary size: 43 bits.\n\n--- Detailed result analysis ---\n" +
				"Evaluation time  : < 1µs\nNumber of digits : 13\nScientific form  : 7.625597e+12\n",
		},
		{
			name:     "size only",
			result:   big.NewInt(27),
			expected: "Result binary size: 5 bits.\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			DisplayResult(tt.result, "3 ↑↑ 3", 0, tt.verbose, tt.details, tt.concise, &buf)
			if got := testutil.StripAnsiCodes(buf.String()); got != tt.expected {
				t.Errorf("output mismatch\nwant %q\ngot  %q", tt.expected, got)
			}
		})
	}
}

func TestDisplayResultTruncation(t *testing.T) {
	t.Parallel()
	googol := new(big.Int).Exp(big.NewInt(10), big.NewInt(200), nil)

	var buf bytes.Buffer
	DisplayResult(googol, "10 ↑ 200", time.Millisecond, false, false, true, &buf)
	out := testutil.StripAnsiCodes(buf.String())
	if !strings.Contains(out, "10 ↑ 200 (truncated) = 1000000000000000000000000...0000000000000000000000000") {
		t.Errorf("unexpected truncated output %q", out)
	}
	if !strings.Contains(out, "Tip: use the -v option") {
		t.Error("missing tip")
	}

	buf.Reset()
	DisplayResult(googol, "10 ↑ 200", time.Millisecond, true, false, true, &buf)
	if out := testutil.StripAnsiCodes(buf.String()); strings.Contains(out, "truncated") || strings.Count(out, ",") != 66 {
		t.Errorf("verbose output not complete: %q", out)
	}
}

func TestDisplayProgress(t *testing.T) {
	orig := newSpinner
	defer func() { newSpinner = orig }()
	mock := &mockSpinner{}
	newSpinner = func(...spinner.Option) Spinner { return mock }

	var wg sync.WaitGroup
	wg.Add(1)
	ch := make(chan hyperop.ProgressUpdate)
	var buf bytes.Buffer
	go DisplayProgress(&wg, ch, 2, &buf)

	for i := 0; i <= 4; i++ {
		ch <- hyperop.ProgressUpdate{CalculatorIndex: i % 2, Value: float64(i) / 4}
		time.Sleep(60 * time.Millisecond)
	}
	close(ch)
	wg.Wait()

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if !mock.started || !mock.stopped {
		t.Errorf("spinner started=%v stopped=%v", mock.started, mock.stopped)
	}
	if mock.suffix == "" || !strings.Contains(mock.suffix, "Avg progress") {
		t.Errorf("suffix = %q", mock.suffix)
	}
	if out := buf.String(); !strings.Contains(out, "Avg progress: 100.00%") {
		t.Errorf("final line = %q", out)
	}
}

func TestDisplayProgressNoCalculators(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	wg.Add(1)
	ch := make(chan hyperop.ProgressUpdate, 2)
	ch <- hyperop.ProgressUpdate{Value: 0.5}
	close(ch)

	var buf bytes.Buffer
	DisplayProgress(&wg, ch, 0, &buf)
	wg.Wait()
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
}

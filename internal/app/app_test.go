package app

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/hypercalc/internal/errors"
	"github.com/agbru/hypercalc/internal/hyperop"
	"github.com/agbru/hypercalc/internal/testutil"
	"github.com/agbru/hypercalc/pkg/models"
)

// newApp parses args after the program name; -no-color keeps the output
// free of escape codes.
func newApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	a, err := New(append([]string{"hypercalc", "-no-color", "-log-level", "error"}, args...), &errBuf)
	if err != nil {
		t.Fatalf("New(%v): %v\n%s", args, err, errBuf.String())
	}
	return a, &errBuf
}

func run(t *testing.T, a *Application) (int, string) {
	t.Helper()
	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	return code, testutil.StripAnsiCodes(out.String())
}

func TestNew(t *testing.T) {
	t.Parallel()
	a, _ := newApp(t, "-a", "2", "-b", "10", "-arrows", "1", "-backend", "U64")
	if a.Config.A != "2" || a.Config.B != "10" || a.Config.Arrows != 1 || a.Config.Backend != "u64" {
		t.Errorf("config = %+v", a.Config)
	}
	if a.Factory == nil {
		t.Error("factory not set")
	}

	var errBuf bytes.Buffer
	if _, err := New([]string{"hypercalc", "-backend", "u128"}, &errBuf); apperrors.ExitCode(err) != apperrors.ExitErrorConfig {
		t.Errorf("unknown backend: err = %v", err)
	}
	if _, err := New([]string{"hypercalc", "-h"}, &errBuf); !IsHelpError(err) {
		t.Errorf("-h: err = %v", err)
	}
}

func TestRunSingleBackend(t *testing.T) {
	a, _ := newApp(t, "-a", "3", "-b", "3", "-arrows", "2", "-backend", "big", "-c", "-d")
	code, out := run(t, a)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d:\n%s", code, out)
	}
	for _, want := range []string{
		"Evaluating 3 ↑↑ 3",
		"single evaluation with the math/big (arbitrary precision) backend",
		"Result binary size: 43 bits.",
		"3 ↑↑ 3 = 7,625,597,484,987",
		"Number of digits : 13",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRunAllBackendsMismatch(t *testing.T) {
	a, _ := newApp(t, "-a", "2", "-b", "64", "-arrows", "1", "-backend", "all", "-c")
	code, out := run(t, a)
	if code != apperrors.ExitErrorMismatch {
		t.Fatalf("exit code %d, want %d:\n%s", code, apperrors.ExitErrorMismatch, out)
	}
	for _, want := range []string{"--- Comparison Summary ---", "Status: Mismatch.", "2 ↑ 64 = 18,446,744,073,709,551,616"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRunAllBackendsConsistent(t *testing.T) {
	a, _ := newApp(t, "-a", "3", "-b", "4", "-arrows", "1", "-backend", "all")
	if code, out := run(t, a); code != apperrors.ExitSuccess || !strings.Contains(out, "All valid results are consistent") {
		t.Errorf("exit code %d:\n%s", code, out)
	}
}

func TestRunQuiet(t *testing.T) {
	a, _ := newApp(t, "-a", "3", "-b", "3", "-arrows", "1", "-quiet", "-hex")
	code, out := run(t, a)
	if code != apperrors.ExitSuccess || out != "0x1b\n" {
		t.Errorf("exit code %d, output %q", code, out)
	}
}

func TestRunJSON(t *testing.T) {
	a, _ := newApp(t, "-a", "300", "-b", "2", "-arrows", "0", "-backend", "all", "-json")
	code, out := run(t, a)

	var evaluations []models.Evaluation
	if err := json.Unmarshal([]byte(out), &evaluations); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	byBackend := map[string]models.Evaluation{}
	for _, e := range evaluations {
		byBackend[e.Backend] = e
	}
	if e := byBackend["math/big (arbitrary precision)"]; e.Result != "600" || e.Expression != "300 × 2" {
		t.Errorf("big evaluation = %+v", e)
	}
	if e := byBackend["uint8 (wrapping)"]; !strings.Contains(e.Error, "does not fit in 8 bits") {
		t.Errorf("u8 evaluation = %+v", e)
	}
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code %d", code)
	}
}

func TestRunOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.txt")
	a, _ := newApp(t, "-a", "2", "-b", "4", "-arrows", "2", "-o", path)
	code, out := run(t, a)
	if code != apperrors.ExitSuccess || !strings.Contains(out, "Result saved to: "+path) {
		t.Fatalf("exit code %d:\n%s", code, out)
	}
	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "2 ↑↑ 4 =\n65536\n") {
		t.Errorf("file = %q, %v", data, err)
	}
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name string
		calc hyperop.Calculator
		want int
	}{
		{"timeout", &hyperop.MockCalculator{Err: context.DeadlineExceeded}, apperrors.ExitErrorTimeout},
		{"canceled", &hyperop.MockCalculator{Err: context.Canceled}, apperrors.ExitErrorCanceled},
		{"generic", &hyperop.MockCalculator{Err: &hyperop.OperandRangeError{Operand: "a", Value: "300", Bits: 8}}, apperrors.ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newApp(t, "-backend", "big")
			a.Factory = hyperop.NewTestFactory(map[string]hyperop.Calculator{"big": tt.calc})
			if code, out := run(t, a); code != tt.want {
				t.Errorf("exit code %d, want %d:\n%s", code, tt.want, out)
			}
		})
	}
}

func TestRunDeadline(t *testing.T) {
	a, _ := newApp(t, "-a", "3", "-b", "3", "-arrows", "3", "-backend", "u64", "-timeout", "20ms")
	start := time.Now()
	code, out := run(t, a)
	if code != apperrors.ExitErrorTimeout {
		t.Errorf("exit code %d:\n%s", code, out)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("evaluation ignored its timeout")
	}
}

func TestRunUnknownBackendInFactory(t *testing.T) {
	a, errBuf := newApp(t, "-backend", "big")
	a.Factory = hyperop.NewTestFactory(map[string]hyperop.Calculator{"u8": &hyperop.MockCalculator{Result: big.NewInt(1)}})
	if code, _ := run(t, a); code != apperrors.ExitErrorConfig || !strings.Contains(errBuf.String(), `no backend matches "big"`) {
		t.Errorf("exit code %d, stderr %q", code, errBuf.String())
	}
}

func TestRunCompletion(t *testing.T) {
	t.Parallel()
	a, errBuf := newApp(t, "-completion", "bash")
	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d: %s", code, errBuf)
	}
	if !strings.Contains(out.String(), "complete -F _hypercalc_completions hypercalc") {
		t.Error("bash completion missing")
	}

	a.Config.Completion = "tcsh"
	if code := a.Run(context.Background(), &out); code != apperrors.ExitErrorConfig {
		t.Errorf("unsupported shell exit code %d", code)
	}
}

func TestSetupLifecycle(t *testing.T) {
	t.Parallel()
	ctx, cancel := SetupLifecycle(context.Background(), 10*time.Millisecond)
	defer cancel.Cleanup()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not canceled by its timeout")
	}
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("ctx.Err() = %v", ctx.Err())
	}
	(&CancelFuncs{}).Cleanup()
}

package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/hypercalc/internal/config"
	"github.com/agbru/hypercalc/internal/hyperop"
)

// GetCalculatorsToRun resolves the configured backend, or every registered
// backend in name order for "all". Unknown names yield nil.
func GetCalculatorsToRun(cfg config.AppConfig, factory hyperop.CalculatorFactory) []hyperop.Calculator {
	if cfg.Backend != config.BackendAll {
		if calc, err := factory.Get(cfg.Backend); err == nil {
			return []hyperop.Calculator{calc}
		}
		return nil
	}
	names := factory.List()
	calculators := make([]hyperop.Calculator, 0, len(names))
	for _, name := range names {
		if calc, err := factory.Get(name); err == nil {
			calculators = append(calculators, calc)
		}
	}
	return calculators
}

// PrintExecutionConfig prints the expression, the timeout and the runtime.
func PrintExecutionConfig(cfg config.AppConfig, expression string, out io.Writer) {
	t := theme()
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Evaluating %s with a timeout of %s.\n", t.Paint(t.Info, expression), t.Paint(t.Warning, cfg.Timeout.String()))
	fmt.Fprintf(out, "Environment: %s logical processors, Go %s.\n",
		t.Paint(t.Secondary, fmt.Sprint(runtime.NumCPU())), t.Paint(t.Secondary, runtime.Version()))
}

// PrintExecutionMode announces a single evaluation or a backend comparison.
func PrintExecutionMode(calculators []hyperop.Calculator, out io.Writer) {
	t := theme()
	switch len(calculators) {
	case 0:
		fmt.Fprintf(out, "Execution mode: no backend available.\n")
	case 1:
		fmt.Fprintf(out, "Execution mode: single evaluation with the %s backend.\n", t.Paint(t.Success, calculators[0].Name()))
	default:
		fmt.Fprintf(out, "Execution mode: parallel comparison of %d backends.\n", len(calculators))
	}
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

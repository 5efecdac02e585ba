package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/agbru/hypercalc/internal/cli"
	"github.com/agbru/hypercalc/internal/config"
	apperrors "github.com/agbru/hypercalc/internal/errors"
	"github.com/agbru/hypercalc/internal/hyperop"
	"github.com/agbru/hypercalc/internal/logging"
	"github.com/agbru/hypercalc/internal/orchestration"
	"github.com/agbru/hypercalc/internal/server"
	"github.com/agbru/hypercalc/internal/ui"
	"github.com/agbru/hypercalc/pkg/models"
)

// Log file rotation settings for -log-file.
const (
	logMaxSizeMB  = 50
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// Application is one run of hypercalc.
type Application struct {
	Config config.AppConfig
	// Factory resolves backend names.
	Factory hyperop.CalculatorFactory
	// ErrWriter receives diagnostics and logs (typically os.Stderr).
	ErrWriter io.Writer
	// Logger is installed by Run; nil before.
	Logger logging.Logger
}

// New parses args (args[0] being the program name) into an Application.
//
// Parameters:
//   - args: The command line, typically os.Args.
//   - errWriter: Where usage and configuration errors are printed.
//
// Returns:
//   - *Application: The configured application.
//   - error: A flag, file or validation error (see IsHelpError).
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := hyperop.GlobalFactory()

	programName := "hypercalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName, cmdArgs = args[0], args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}
	return &Application{Config: cfg, Factory: factory, ErrWriter: errWriter}, nil
}

// Run dispatches to completion, server or evaluation mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	logger, closer := logging.Setup(logging.Options{
		Level:      a.Config.LogLevel,
		File:       a.Config.LogFile,
		MaxSizeMB:  logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAgeDays: logMaxAgeDays,
		Console:    !a.Config.ServerMode,
	}, a.ErrWriter)
	defer closer.Close()
	a.Logger = logger

	ui.InitTheme(a.Config.Theme, a.Config.NoColor)

	if a.Config.ServerMode {
		return a.runServer()
	}
	return a.runCalculate(ctx, out)
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runServer() int {
	srv := server.NewServer(a.Factory, a.Config, server.WithLogger(a.Logger))
	if err := srv.Start(); err != nil {
		a.Logger.Error("server stopped with an error", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	in, err := a.Config.Operands()
	if err != nil {
		fmt.Fprintln(a.ErrWriter, err)
		return apperrors.ExitErrorConfig
	}
	expression := hyperop.Format(in.A.String(), in.B.String(), in.Arrows)

	ctx, lifecycle := SetupLifecycle(ctx, a.Config.Timeout)
	defer lifecycle.Cleanup()

	calculators := cli.GetCalculatorsToRun(a.Config, a.Factory)
	if len(calculators) == 0 {
		fmt.Fprintf(a.ErrWriter, "no backend matches %q\n", a.Config.Backend)
		return apperrors.ExitErrorConfig
	}

	interactive := !a.Config.JSONOutput && !a.Config.Quiet
	progressOut := io.Discard
	if interactive {
		cli.PrintExecutionConfig(a.Config, expression, out)
		cli.PrintExecutionMode(calculators, out)
		progressOut = out
	}

	a.Logger.Debug("evaluation started",
		logging.String("expression", expression),
		logging.Int("backends", len(calculators)),
	)
	start := time.Now()
	results := orchestration.ExecuteCalculations(ctx, calculators, in, progressOut)
	elapsed := time.Since(start)

	if a.Config.JSONOutput {
		return a.printJSONResults(results, in, expression, out)
	}

	var ref *orchestration.CalculationResult
	if len(results) > 1 && interactive {
		ref, err = orchestration.AnalyzeComparisonResults(results, expression, out)
	} else {
		ref, err = orchestration.CompareResults(results, expression)
	}
	if err != nil {
		status := out
		if !interactive {
			status = a.ErrWriter
		}
		code := apperrors.HandleCalculationError(err, elapsed, status, ui.CurrentColors())
		// The widest value is still shown when backends disagree.
		if ref != nil && code == apperrors.ExitErrorMismatch {
			a.displayResult(ref, expression, out)
		}
		return code
	}
	return a.displayResult(ref, expression, out)
}

func (a *Application) displayResult(ref *orchestration.CalculationResult, expression string, out io.Writer) int {
	if !a.Config.Quiet {
		fmt.Fprintf(out, "\nReference backend: %s\n", ref.Name)
	}
	err := cli.DisplayResultWithConfig(out, ref.Result, expression, ref.Duration, ref.Name, cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		HexOutput:  a.Config.HexOutput,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
		Concise:    a.Config.Concise,
	})
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// printJSONResults writes one models.Evaluation per backend. The exit code
// reflects the comparison of the results.
func (a *Application) printJSONResults(results []orchestration.CalculationResult, in hyperop.Operands, expression string, out io.Writer) int {
	evaluations := make([]models.Evaluation, len(results))
	for i, r := range results {
		evaluations[i] = models.NewEvaluation(expression, r.Name, in.A, in.B, in.Arrows, r.Result, r.Duration, r.Err)
	}
	if err := cli.WriteJSON(out, evaluations); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error encoding JSON: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	_, err := orchestration.CompareResults(results, expression)
	return apperrors.ExitCode(err)
}

// IsHelpError reports whether err comes from -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

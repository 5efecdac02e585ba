// Command hypercalc evaluates hyperoperations in Knuth's up-arrow notation,
// from the command line or as an HTTP service.
package main

import (
	"context"
	"os"

	"github.com/agbru/hypercalc/internal/app"
	apperrors "github.com/agbru/hypercalc/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}
	os.Exit(application.Run(context.Background(), os.Stdout))
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"
)

// OutputConfig selects how a result is presented.
type OutputConfig struct {
	// OutputFile also saves the value to this path when set.
	OutputFile string
	HexOutput  bool
	// Quiet prints the bare value, for scripts.
	Quiet   bool
	Verbose bool
	Details bool
	Concise bool
}

// WriteResultToFile saves result with a commented header. It does nothing
// when cfg.OutputFile is empty.
//
// Parameters:
//   - result: The evaluated value.
//   - expression: The rendered expression.
//   - duration: The evaluation time.
//   - backend: The backend that produced result.
//   - cfg: The output configuration.
//
// Returns:
//   - error: An error if the file or its directory cannot be created.
func WriteResultToFile(result *big.Int, expression string, duration time.Duration, backend string, cfg OutputConfig) (err error) {
	if cfg.OutputFile == "" {
		return nil
	}
	if dir := filepath.Dir(cfg.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	fmt.Fprintf(file, "# Hyperoperation Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Expression: %s\n", expression)
	fmt.Fprintf(file, "# Backend: %s\n", backend)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# Bits: %d\n\n", result.BitLen())
	if cfg.HexOutput {
		_, err = fmt.Fprintf(file, "%s [hex] =\n0x%s\n", expression, result.Text(16))
	} else {
		_, err = fmt.Fprintf(file, "%s =\n%s\n", expression, result.String())
	}
	return err
}

// FormatQuietResult returns the bare value, in hexadecimal if requested.
func FormatQuietResult(result *big.Int, hexOutput bool) string {
	if hexOutput {
		return "0x" + result.Text(16)
	}
	return result.String()
}

// DisplayQuietResult prints FormatQuietResult on its own line.
func DisplayQuietResult(out io.Writer, result *big.Int, hexOutput bool) {
	fmt.Fprintln(out, FormatQuietResult(result, hexOutput))
}

// DisplayHex prints the hexadecimal form of result, shortened unless
// verbose.
func DisplayHex(out io.Writer, result *big.Int, expression string, verbose bool) {
	t := theme()
	hex := result.Text(16)
	if len(hex) > TruncationLimit && !verbose {
		hex = hex[:40] + "..." + hex[len(hex)-40:]
	}
	fmt.Fprintf(out, "\n%s--- Hexadecimal Format ---%s\n", t.Bold, t.Reset)
	fmt.Fprintf(out, "%s [hex] = %s\n", t.Paint(t.Info, expression), t.Paint(t.Success, "0x"+hex))
}

// DisplayResultWithConfig presents result according to cfg: the bare value
// in quiet mode, otherwise DisplayResult plus the optional hexadecimal
// form. The value is then saved when cfg.OutputFile is set.
//
// Returns:
//   - error: An error if saving the file fails.
func DisplayResultWithConfig(out io.Writer, result *big.Int, expression string, duration time.Duration, backend string, cfg OutputConfig) error {
	if cfg.Quiet {
		DisplayQuietResult(out, result, cfg.HexOutput)
	} else {
		DisplayResult(result, expression, duration, cfg.Verbose, cfg.Details, cfg.Concise, out)
		if cfg.HexOutput {
			DisplayHex(out, result, expression, cfg.Verbose)
		}
	}

	if cfg.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(result, expression, duration, backend, cfg); err != nil {
		return err
	}
	if !cfg.Quiet {
		t := theme()
		fmt.Fprintf(out, "\n%s %s\n", t.Paint(t.Success, "✓ Result saved to:"), t.Paint(t.Secondary, cfg.OutputFile))
	}
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

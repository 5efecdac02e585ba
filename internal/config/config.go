// Package config builds the hypercalc configuration from command-line flags,
// HYPERCALC_* environment variables and an optional YAML file, in that order
// of precedence, over built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	apperrors "github.com/agbru/hypercalc/internal/errors"
	"github.com/agbru/hypercalc/internal/hyperop"
)

// EnvPrefix prefixes every environment variable read by hypercalc.
const EnvPrefix = "HYPERCALC_"

// Defaults.
const (
	DefaultA              = "3"
	DefaultB              = "3"
	DefaultArrows    uint = 2
	DefaultBackend        = "big"
	DefaultTimeout        = 5 * time.Minute
	DefaultPort           = "8080"
	DefaultLogLevel       = "info"
	DefaultTheme          = "dark"
	DefaultMaxArrows uint = 4
	// DefaultMaxOperand bounds server operands; 3 ↑↑ 4 alone has trillions
	// of digits, so the API stays far below what the library accepts.
	DefaultMaxOperand uint64 = 1_000_000
	DefaultBatchLimit        = 64
)

// ProxyList splits TrustedProxies into trimmed, non-empty addresses.
func (c AppConfig) ProxyList() []string {
	var proxies []string
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

// BackendAll runs every registered backend and compares the results.
const BackendAll = "all"

// AppConfig is the resolved application configuration.
type AppConfig struct {
	// A and B are the decimal operands. They are kept as text so that
	// arbitrarily large values survive until a backend converts them.
	A string
	B string
	// Arrows is the number of up-arrows (0 multiplication, 1 power, ...).
	Arrows uint
	// Backend is a registered backend name or "all".
	Backend string
	// Timeout bounds one evaluation.
	Timeout time.Duration

	Verbose    bool   // print the full value
	Details    bool   // print timing and size details
	Concise    bool   // print the value section (-c)
	JSONOutput bool   // emit a JSON document
	Quiet      bool   // print the value only
	HexOutput  bool   // print the value in hexadecimal
	OutputFile string // also save the value here
	NoColor    bool
	Theme      string

	// Completion names a shell to print a completion script for.
	Completion string

	ServerMode bool
	Port       string
	// MaxArrows and MaxOperand limit requests served over HTTP.
	MaxArrows  uint
	MaxOperand uint64
	// BatchLimit caps the number of expressions per batch request.
	BatchLimit int
	// TrustedProxies is a comma-separated list of peer addresses whose
	// X-Forwarded-For and X-Real-IP headers name the client.
	TrustedProxies string

	LogLevel string
	LogFile  string

	// ConfigFile is the YAML file the values above may come from.
	ConfigFile string
}

// Operands parses A and B into hyperop.Operands.
func (c AppConfig) Operands() (hyperop.Operands, error) {
	a, err := parseOperand("a", c.A)
	if err != nil {
		return hyperop.Operands{}, err
	}
	b, err := parseOperand("b", c.B)
	if err != nil {
		return hyperop.Operands{}, err
	}
	return hyperop.Operands{A: a, B: b, Arrows: uint8(c.Arrows)}, nil
}

func parseOperand(name, s string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, apperrors.NewConfigError("operand -%s must be a decimal integer, got %q", name, s)
	}
	if x.Sign() < 0 {
		return nil, apperrors.NewConfigError("operand -%s must be non-negative, got %s", name, s)
	}
	return x, nil
}

// Validate checks the configuration against the available backend names.
//
// Parameters:
//   - backends: The registered backend names (e.g., ["big", "u64"]).
//
// Returns:
//   - error: A ConfigError describing the first problem, or nil.
func (c AppConfig) Validate(backends []string) error {
	if _, err := c.Operands(); err != nil {
		return err
	}
	if c.Arrows > 255 {
		return apperrors.NewConfigError("arrow count must be at most 255, got %d", c.Arrows)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.BatchLimit <= 0 {
		return apperrors.NewConfigError("batch limit must be strictly positive, got %d", c.BatchLimit)
	}
	if c.Backend == BackendAll {
		return nil
	}
	for _, name := range backends {
		if name == c.Backend {
			return nil
		}
	}
	return apperrors.NewConfigError("unrecognized backend: '%s'. Valid backends are: '%s' or [%s]",
		c.Backend, BackendAll, strings.Join(backends, ", "))
}

// ParseConfig parses args into an AppConfig, applies the YAML file and the
// environment to every flag not given explicitly, and validates the result.
//
// Parameters:
//   - programName: The program name shown in usage.
//   - args: The command-line arguments without the program name.
//   - errorWriter: Where parse errors and usage are printed.
//   - backends: The registered backend names.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: A parse, file or validation error.
func ParseConfig(programName string, args []string, errorWriter io.Writer, backends []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	cfg := AppConfig{}
	fs.StringVar(&cfg.A, "a", DefaultA, "First operand (decimal, any size).")
	fs.StringVar(&cfg.B, "b", DefaultB, "Second operand (decimal, any size).")
	fs.UintVar(&cfg.Arrows, "arrows", DefaultArrows, "Number of up-arrows: 0 multiplication, 1 power, 2 tetration...")
	fs.StringVar(&cfg.Backend, "backend", DefaultBackend,
		fmt.Sprintf("Numeric backend: '%s' or one of [%s].", BackendAll, strings.Join(backends, ", ")))
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum execution time of the evaluation.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Display the full value (can be very long).")
	fs.BoolVar(&cfg.Details, "d", false, "Display timing and size details.")
	fs.BoolVar(&cfg.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&cfg.Concise, "c", false, "Display the computed value section.")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Quiet mode: print only the value.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Alias for -quiet.")
	fs.BoolVar(&cfg.HexOutput, "hex", false, "Display the value in hexadecimal.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Save the value to this file.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Alias for -o.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR).")
	fs.StringVar(&cfg.Theme, "theme", DefaultTheme, "Color theme: dark, light or none.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for bash, zsh, fish or powershell.")
	fs.BoolVar(&cfg.ServerMode, "server", false, "Start the HTTP API server.")
	fs.StringVar(&cfg.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.UintVar(&cfg.MaxArrows, "max-arrows", DefaultMaxArrows, "Largest arrow count accepted by the server.")
	fs.Uint64Var(&cfg.MaxOperand, "max-operand", DefaultMaxOperand, "Largest operand accepted by the server.")
	fs.IntVar(&cfg.BatchLimit, "batch-limit", DefaultBatchLimit, "Largest batch accepted by the server.")
	fs.StringVar(&cfg.TrustedProxies, "trusted-proxies", "", "Comma-separated proxy addresses whose forwarding headers are trusted.")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel, "Log level: trace, debug, info, warn, error.")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Also write logs to this size-rotated file.")
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML configuration file.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	if !isFlagSet(fs, "config") {
		cfg.ConfigFile = getEnvString("CONFIG", cfg.ConfigFile)
	}
	if cfg.ConfigFile != "" {
		file, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			fmt.Fprintln(errorWriter, "Configuration error:", err)
			return AppConfig{}, err
		}
		file.apply(&cfg, fs)
	}
	applyEnvOverrides(&cfg, fs)

	cfg.Backend = strings.ToLower(cfg.Backend)
	if err := cfg.Validate(backends); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.Join(errors.New("invalid configuration"), err)
	}
	return cfg, nil
}

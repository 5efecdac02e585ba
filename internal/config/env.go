package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// lookupEnv returns the value of EnvPrefix+key when it is set and non-empty.
func lookupEnv(key string) (string, bool) {
	val, ok := os.LookupEnv(EnvPrefix + key)
	return val, ok && val != ""
}

func getEnvString(key, defaultVal string) string {
	if val, ok := lookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvUint returns the parsed value, or defaultVal when unset or invalid.
func getEnvUint(key string, defaultVal uint64) uint64 {
	if val, ok := lookupEnv(key); ok {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, ok := lookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool accepts true/1/yes and false/0/no, case-insensitively.
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := lookupEnv(key); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration accepts time.ParseDuration formats ("30s", "1h30m").
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := lookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether any of names was given on the command line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides replaces every value whose flag was not given with the
// matching HYPERCALC_* variable, when set:
//
//	HYPERCALC_A, HYPERCALC_B, HYPERCALC_ARROWS, HYPERCALC_BACKEND,
//	HYPERCALC_TIMEOUT, HYPERCALC_VERBOSE, HYPERCALC_DETAILS,
//	HYPERCALC_CALCULATE, HYPERCALC_JSON, HYPERCALC_QUIET, HYPERCALC_HEX,
//	HYPERCALC_OUTPUT, HYPERCALC_NO_COLOR, HYPERCALC_THEME,
//	HYPERCALC_SERVER, HYPERCALC_PORT, HYPERCALC_MAX_ARROWS,
//	HYPERCALC_MAX_OPERAND, HYPERCALC_BATCH_LIMIT, HYPERCALC_LOG_LEVEL,
//	HYPERCALC_LOG_FILE
//
// HYPERCALC_CONFIG is read before the file is loaded.
func applyEnvOverrides(cfg *AppConfig, fs *flag.FlagSet) {
	texts := []struct {
		flags []string
		key   string
		dst   *string
	}{
		{[]string{"a"}, "A", &cfg.A},
		{[]string{"b"}, "B", &cfg.B},
		{[]string{"backend"}, "BACKEND", &cfg.Backend},
		{[]string{"o", "output"}, "OUTPUT", &cfg.OutputFile},
		{[]string{"theme"}, "THEME", &cfg.Theme},
		{[]string{"port"}, "PORT", &cfg.Port},
		{[]string{"trusted-proxies"}, "TRUSTED_PROXIES", &cfg.TrustedProxies},
		{[]string{"log-level"}, "LOG_LEVEL", &cfg.LogLevel},
		{[]string{"log-file"}, "LOG_FILE", &cfg.LogFile},
	}
	for _, s := range texts {
		if !isFlagSet(fs, s.flags...) {
			*s.dst = getEnvString(s.key, *s.dst)
		}
	}

	bools := []struct {
		flags []string
		key   string
		dst   *bool
	}{
		{[]string{"v"}, "VERBOSE", &cfg.Verbose},
		{[]string{"d", "details"}, "DETAILS", &cfg.Details},
		{[]string{"c"}, "CALCULATE", &cfg.Concise},
		{[]string{"json"}, "JSON", &cfg.JSONOutput},
		{[]string{"q", "quiet"}, "QUIET", &cfg.Quiet},
		{[]string{"hex"}, "HEX", &cfg.HexOutput},
		{[]string{"no-color"}, "NO_COLOR", &cfg.NoColor},
		{[]string{"server"}, "SERVER", &cfg.ServerMode},
	}
	for _, b := range bools {
		if !isFlagSet(fs, b.flags...) {
			*b.dst = getEnvBool(b.key, *b.dst)
		}
	}

	if !isFlagSet(fs, "arrows") {
		cfg.Arrows = uint(getEnvUint("ARROWS", uint64(cfg.Arrows)))
	}
	if !isFlagSet(fs, "max-arrows") {
		cfg.MaxArrows = uint(getEnvUint("MAX_ARROWS", uint64(cfg.MaxArrows)))
	}
	if !isFlagSet(fs, "max-operand") {
		cfg.MaxOperand = getEnvUint("MAX_OPERAND", cfg.MaxOperand)
	}
	if !isFlagSet(fs, "batch-limit") {
		cfg.BatchLimit = getEnvInt("BATCH_LIMIT", cfg.BatchLimit)
	}
	if !isFlagSet(fs, "timeout") {
		cfg.Timeout = getEnvDuration("TIMEOUT", cfg.Timeout)
	}
}

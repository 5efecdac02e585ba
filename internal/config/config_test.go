package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/hypercalc/internal/errors"
)

var backends = []string{"big", "u16", "u32", "u64", "u8"}

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := ParseConfig("hypercalc", nil, io.Discard, backends)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.A != DefaultA || cfg.B != DefaultB || cfg.Arrows != DefaultArrows {
		t.Errorf("unexpected operands %s %s %d", cfg.A, cfg.B, cfg.Arrows)
	}
	if cfg.Backend != DefaultBackend {
		t.Errorf("Backend = %q, want %q", cfg.Backend, DefaultBackend)
	}
	if cfg.Timeout != DefaultTimeout || cfg.Port != DefaultPort || cfg.BatchLimit != DefaultBatchLimit {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestParseConfigFlags(t *testing.T) {
	t.Parallel()
	args := []string{
		"-a", "123456789012345678901234567890",
		"-b", "4",
		"-arrows", "1",
		"-backend", "ALL",
		"-timeout", "10s",
		"-v", "-d", "-hex", "-q",
		"-o", "out.txt",
		"-server", "-port", "9090",
		"-max-arrows", "3",
	}
	cfg, err := ParseConfig("hypercalc", args, io.Discard, backends)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Backend != BackendAll {
		t.Errorf("Backend = %q, want all", cfg.Backend)
	}
	if cfg.Timeout != 10*time.Second || !cfg.Verbose || !cfg.Details || !cfg.HexOutput || !cfg.Quiet {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.OutputFile != "out.txt" || !cfg.ServerMode || cfg.Port != "9090" || cfg.MaxArrows != 3 {
		t.Errorf("flags not applied: %+v", cfg)
	}

	in, err := cfg.Operands()
	if err != nil {
		t.Fatal(err)
	}
	if in.A.String() != "123456789012345678901234567890" || in.B.Int64() != 4 || in.Arrows != 1 {
		t.Errorf("Operands() = %s", in)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
	}{
		{"unknown backend", []string{"-backend", "u128"}},
		{"negative operand", []string{"-a", "-3"}},
		{"non numeric operand", []string{"-b", "three"}},
		{"too many arrows", []string{"-arrows", "256"}},
		{"zero timeout", []string{"-timeout", "0s"}},
		{"zero batch", []string{"-batch-limit", "0"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out strings.Builder
			_, err := ParseConfig("hypercalc", tt.args, &out, backends)
			if err == nil {
				t.Fatal("expected an error")
			}
			if apperrors.ExitCode(err) != apperrors.ExitErrorConfig {
				t.Errorf("ExitCode = %d, want %d", apperrors.ExitCode(err), apperrors.ExitErrorConfig)
			}
			if !strings.Contains(out.String(), "Configuration error:") {
				t.Errorf("missing error report in %q", out.String())
			}
		})
	}
}

func TestParseConfigUnknownFlag(t *testing.T) {
	t.Parallel()
	if _, err := ParseConfig("hypercalc", []string{"-n", "5"}, io.Discard, backends); err == nil {
		t.Error("expected an error for an unknown flag")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HYPERCALC_A", "2")
	t.Setenv("HYPERCALC_B", "10")
	t.Setenv("HYPERCALC_ARROWS", "1")
	t.Setenv("HYPERCALC_BACKEND", "u64")
	t.Setenv("HYPERCALC_TIMEOUT", "2m")
	t.Setenv("HYPERCALC_JSON", "yes")
	t.Setenv("HYPERCALC_PORT", "3000")
	t.Setenv("HYPERCALC_MAX_OPERAND", "77")
	t.Setenv("HYPERCALC_BATCH_LIMIT", "8")

	cfg, err := ParseConfig("hypercalc", []string{"-b", "5"}, io.Discard, backends)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.A != "2" || cfg.B != "5" || cfg.Arrows != 1 || cfg.Backend != "u64" {
		t.Errorf("env not applied or flag overridden: %+v", cfg)
	}
	if cfg.Timeout != 2*time.Minute || !cfg.JSONOutput || cfg.Port != "3000" || cfg.MaxOperand != 77 || cfg.BatchLimit != 8 {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestTrustedProxies(t *testing.T) {
	t.Setenv("HYPERCALC_TRUSTED_PROXIES", "10.0.0.1")

	cfg, err := ParseConfig("hypercalc", nil, io.Discard, backends)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.ProxyList(); !reflect.DeepEqual(got, []string{"10.0.0.1"}) {
		t.Errorf("ProxyList() from env = %v", got)
	}

	cfg, err = ParseConfig("hypercalc", []string{"-trusted-proxies", " 127.0.0.1, ,::1 "}, io.Discard, backends)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.ProxyList(); !reflect.DeepEqual(got, []string{"127.0.0.1", "::1"}) {
		t.Errorf("ProxyList() from flag = %v", got)
	}
	if got := (AppConfig{}).ProxyList(); got != nil {
		t.Errorf("empty ProxyList() = %v, want nil", got)
	}
}

func TestInvalidEnvValuesAreIgnored(t *testing.T) {
	t.Setenv("HYPERCALC_ARROWS", "many")
	t.Setenv("HYPERCALC_TIMEOUT", "soon")
	t.Setenv("HYPERCALC_QUIET", "maybe")

	cfg, err := ParseConfig("hypercalc", nil, io.Discard, backends)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Arrows != DefaultArrows || cfg.Timeout != DefaultTimeout || cfg.Quiet {
		t.Errorf("invalid env values leaked: %+v", cfg)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hypercalc.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigFilePrecedence(t *testing.T) {
	path := writeFile(t, `
a: "7"
b: "3"
arrows: 1
backend: u32
timeout: 45s
server:
  port: "7070"
  max_arrows: 2
log:
  level: debug
`)
	t.Setenv("HYPERCALC_BACKEND", "u16")

	cfg, err := ParseConfig("hypercalc", []string{"-config", path, "-a", "5"}, io.Discard, backends)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.A != "5" {
		t.Errorf("flag should win over file: A = %s", cfg.A)
	}
	if cfg.Backend != "u16" {
		t.Errorf("env should win over file: Backend = %s", cfg.Backend)
	}
	if cfg.B != "3" || cfg.Arrows != 1 || cfg.Timeout != 45*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Port != "7070" || cfg.MaxArrows != 2 || cfg.LogLevel != "debug" {
		t.Errorf("nested file values not applied: %+v", cfg)
	}
}

func TestConfigFileFromEnv(t *testing.T) {
	path := writeFile(t, "arrows: 0\n")
	t.Setenv("HYPERCALC_CONFIG", path)

	cfg, err := ParseConfig("hypercalc", nil, io.Discard, backends)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Arrows != 0 || cfg.ConfigFile != path {
		t.Errorf("config file from env not applied: %+v", cfg)
	}
}

func TestConfigFileErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"unknown key":   "arrowz: 3\n",
		"bad timeout":   "timeout: soon\n",
		"bad structure": "server: [1, 2]\n",
	}
	for name, content := range tests {
		_, err := DecodeFile(strings.NewReader(content))
		var configErr apperrors.ConfigError
		if !errors.As(err, &configErr) {
			t.Errorf("%s: expected ConfigError, got %v", name, err)
		}
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile accepted a missing file")
	}
	if fc, err := DecodeFile(strings.NewReader("")); err != nil || fc.A != nil {
		t.Errorf("empty file: %v", err)
	}
}

func TestUsageMentionsFlagsAndEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var out strings.Builder
	_, err := ParseConfig("hypercalc", []string{"-h"}, &out, backends)
	if err == nil {
		t.Fatal("expected flag.ErrHelp")
	}
	usage := out.String()
	for _, want := range []string{"Hyperoperation Calculator", "-arrows", "-backend", "HYPERCALC_"} {
		if !strings.Contains(usage, want) {
			t.Errorf("usage is missing %q", want)
		}
	}
}

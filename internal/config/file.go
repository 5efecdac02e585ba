package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/hypercalc/internal/errors"
)

// FileConfig is the YAML configuration file. Absent keys leave the
// corresponding value untouched; unknown keys are rejected.
//
//	a: "3"
//	b: "3"
//	arrows: 2
//	backend: all
//	timeout: 30s
//	server:
//	  port: "9090"
//	  max_arrows: 3
//	log:
//	  level: debug
//	  file: /var/log/hypercalc.log
type FileConfig struct {
	A       *string `yaml:"a"`
	B       *string `yaml:"b"`
	Arrows  *uint   `yaml:"arrows"`
	Backend *string `yaml:"backend"`
	Timeout *string `yaml:"timeout"`
	JSON    *bool   `yaml:"json"`
	Hex     *bool   `yaml:"hex"`
	NoColor *bool   `yaml:"no_color"`
	Theme   *string `yaml:"theme"`
	Output  *string `yaml:"output"`

	Server struct {
		Enabled    *bool   `yaml:"enabled"`
		Port       *string `yaml:"port"`
		MaxArrows  *uint   `yaml:"max_arrows"`
		MaxOperand *uint64 `yaml:"max_operand"`
		BatchLimit *int    `yaml:"batch_limit"`

		TrustedProxies *string `yaml:"trusted_proxies"`
	} `yaml:"server"`

	Log struct {
		Level *string `yaml:"level"`
		File  *string `yaml:"file"`
	} `yaml:"log"`

	timeout time.Duration
}

// LoadFile reads and decodes the YAML file at path.
func LoadFile(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewConfigError("cannot open config file: %v", err)
	}
	defer f.Close()
	return DecodeFile(f)
}

// DecodeFile decodes a YAML configuration from r.
func DecodeFile(r io.Reader) (*FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperrors.NewConfigError("invalid config file: %v", err)
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid timeout %q in config file", *fc.Timeout)
		}
		fc.timeout = d
	}
	return &fc, nil
}

// apply copies the file values into cfg for every flag not given on the
// command line.
func (fc *FileConfig) apply(cfg *AppConfig, fs *flag.FlagSet) {
	setString(fs, &cfg.A, fc.A, "a")
	setString(fs, &cfg.B, fc.B, "b")
	setString(fs, &cfg.Backend, fc.Backend, "backend")
	setString(fs, &cfg.Theme, fc.Theme, "theme")
	setString(fs, &cfg.OutputFile, fc.Output, "o", "output")
	setString(fs, &cfg.Port, fc.Server.Port, "port")
	setString(fs, &cfg.TrustedProxies, fc.Server.TrustedProxies, "trusted-proxies")
	setString(fs, &cfg.LogLevel, fc.Log.Level, "log-level")
	setString(fs, &cfg.LogFile, fc.Log.File, "log-file")

	setBool(fs, &cfg.JSONOutput, fc.JSON, "json")
	setBool(fs, &cfg.HexOutput, fc.Hex, "hex")
	setBool(fs, &cfg.NoColor, fc.NoColor, "no-color")
	setBool(fs, &cfg.ServerMode, fc.Server.Enabled, "server")

	if fc.Arrows != nil && !isFlagSet(fs, "arrows") {
		cfg.Arrows = *fc.Arrows
	}
	if fc.Timeout != nil && !isFlagSet(fs, "timeout") {
		cfg.Timeout = fc.timeout
	}
	if fc.Server.MaxArrows != nil && !isFlagSet(fs, "max-arrows") {
		cfg.MaxArrows = *fc.Server.MaxArrows
	}
	if fc.Server.MaxOperand != nil && !isFlagSet(fs, "max-operand") {
		cfg.MaxOperand = *fc.Server.MaxOperand
	}
	if fc.Server.BatchLimit != nil && !isFlagSet(fs, "batch-limit") {
		cfg.BatchLimit = *fc.Server.BatchLimit
	}
}

func setString(fs *flag.FlagSet, dst, src *string, flags ...string) {
	if src != nil && !isFlagSet(fs, flags...) {
		*dst = *src
	}
}

func setBool(fs *flag.FlagSet, dst, src *bool, flags ...string) {
	if src != nil && !isFlagSet(fs, flags...) {
		*dst = *src
	}
}

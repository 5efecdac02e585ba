package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process-wide logger.
type Options struct {
	// Level is one of trace, debug, info, warn, error (default info).
	Level string
	// File, when set, receives a JSON copy of every entry.
	File string
	// MaxSizeMB is the size at which File is rotated.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept.
	MaxBackups int
	// MaxAgeDays is the age after which rotated files are removed.
	MaxAgeDays int
	// Compress gzips rotated files.
	Compress bool
	// Console renders human-readable output instead of JSON.
	Console bool
}

// ParseLevel converts a level name, falling back to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Setup builds the application logger writing to out (and to opts.File
// when set), installs it as zerolog's global logger and returns it with a
// closer for the file sink.
func Setup(opts Options, out io.Writer) (*ZerologAdapter, io.Closer) {
	zerolog.SetGlobalLevel(ParseLevel(opts.Level))

	var console io.Writer = out
	if opts.Console {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	var closer io.Closer = nopCloser{}
	writer := console
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		writer = io.MultiWriter(console, rotating)
		closer = rotating
	}

	logger := zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = logger
	return NewZerologAdapter(logger), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Package logging builds the zerolog logger shared by ptrgen commands.
//
// Level and format come from PTRGEN_LOG_LEVEL (default warn) and
// PTRGEN_LOG_FORMAT ("json" or "pretty", default json). Output goes to
// stderr so rendered zones on stdout stay clean.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	EnvLevel  = "PTRGEN_LOG_LEVEL"
	EnvFormat = "PTRGEN_LOG_FORMAT"
)

// DefaultLevel is used when no level is configured or the value is invalid.
const DefaultLevel = zerolog.WarnLevel

// Options controls New. Zero values fall back to the environment.
type Options struct {
	// Level overrides PTRGEN_LOG_LEVEL when non-empty.
	Level string

	// Format overrides PTRGEN_LOG_FORMAT when non-empty.
	Format string

	// Out defaults to os.Stderr.
	Out io.Writer
}

// ParseLevel parses a zerolog level name. Empty or unknown names yield
// DefaultLevel and false.
func ParseLevel(name string) (zerolog.Level, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultLevel, false
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return DefaultLevel, false
	}
	return lvl, true
}

// New returns a logger configured from opts and the environment.
func New(opts Options) zerolog.Logger {
	levelName := opts.Level
	if levelName == "" {
		levelName = os.Getenv(EnvLevel)
	}
	level, _ := ParseLevel(levelName)

	format := opts.Format
	if format == "" {
		format = os.Getenv(EnvFormat)
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer
	switch strings.ToLower(format) {
	case "pretty":
		w = zerolog.ConsoleWriter{Out: out}
	default:
		w = out
	}

	logger := zerolog.New(w).With().Timestamp().Logger().Level(level)
	logger.Debug().Msgf("Logger initialized with level %s", level.String())
	return logger
}

// Package logger configures zerolog for the CLI and for callers that want the
// SDK's log format.
package logger

import (
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// New returns a JSON zerolog.Logger writing to w.
// Call sites should use .Stack() on error events to include stacks.
func New(serviceName string, w io.Writer) zerolog.Logger {
	installStackMarshaler()
	return zerolog.New(w).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// InitConsole points the global logger at stderr in plain text and sets the
// global level (see Level).
func InitConsole(debug bool) {
	installStackMarshaler()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	})
	zerolog.SetGlobalLevel(Level(debug, os.Getenv("LOG_LEVEL")))
}

// InitJSON points the global logger at w as JSON tagged with serviceName.
func InitJSON(serviceName string, w io.Writer, debug bool) {
	log.Logger = New(serviceName, w)
	zerolog.SetGlobalLevel(Level(debug, os.Getenv("LOG_LEVEL")))
}

// Level resolves the global log level. debug wins; otherwise a parseable
// LOG_LEVEL value is used, falling back to info.
func Level(debug bool, env string) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	if env != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(env)); err == nil && lvl != zerolog.NoLevel {
			return lvl
		}
	}
	return zerolog.InfoLevel
}

// installStackMarshaler makes .Stack() render github.com/pkg/errors stacks,
// attaching one to plain errors first.
func installStackMarshaler() {
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
}

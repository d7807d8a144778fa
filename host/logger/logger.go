// Package logger holds the host tools' zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	SetConsoleWriter(os.Stderr)
	SetVerbose(false)
}

// Log returns the shared logger.
func Log() *zerolog.Logger {
	return &log
}

// SetConsoleWriter sends human readable output to w.
func SetConsoleWriter(w io.Writer) {
	log = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
}

// SetWriter sends JSON lines to w.
func SetWriter(w io.Writer) {
	log = zerolog.New(w).With().Timestamp().Logger()
}

// SetVerbose switches between debug and info level.
func SetVerbose(v bool) {
	if v {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

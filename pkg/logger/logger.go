package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. Debug level outside of release mode.
func New(mode string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	l := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if mode == "release" {
		l = l.Level(zerolog.InfoLevel)
	} else {
		l = l.Level(zerolog.DebugLevel)
	}
	return l
}

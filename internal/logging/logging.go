package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger and installs it as the global zerolog logger.
func New(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var l zerolog.Logger
	if pretty {
		w := zerolog.ConsoleWriter{Out: os.Stderr}
		l = zerolog.New(w).With().Timestamp().Caller().Logger()
	} else {
		l = zerolog.New(os.Stderr).With().Timestamp().Caller().Logger()
	}
	l = l.Level(lvl)

	log.Logger = l
	return l
}

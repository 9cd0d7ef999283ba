package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a component-scoped logger writing JSON to stdout.
func New(component, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// Package logtrace initializes structured logging for the client binaries.
// It configures zerolog for the two output modes the project uses: machine
// consumable JSON on stderr for automation, and a console writer for
// interactive CLI sessions.
package logtrace

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger with Unix timestamp format.
// Configures zerolog to output JSON to stderr with timestamps.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// InitCLILogger initializes the global logger for interactive use with a
// console writer. Verbose enables debug-level output; otherwise only
// warnings and errors are shown so command output stays readable.
func InitCLILogger(verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Package sysutil holds process-level helpers shared by the CLI and config:
// logger setup and lenient parsing of environment values.
package sysutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetLogLevel configures the global zerolog level. Unknown or empty values
// fall back to info. "warning" is accepted as an alias of "warn".
func SetLogLevel(lvl string) {
	lvl = strings.ToLower(strings.TrimSpace(lvl))
	if lvl == "warning" {
		lvl = "warn"
	}
	level, err := zerolog.ParseLevel(lvl)
	if err != nil || lvl == "" || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// ConfigureLogger installs the process-wide logger used by log.Logger and
// by middleware.LoggerFrom when no request logger is present. pretty
// selects a human-readable console writer; w defaults to stderr.
func ConfigureLogger(level string, pretty bool, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	SetLogLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	lg := zerolog.New(w).With().Timestamp().Str("service", "recipe-shopper-api").Logger()
	log.Logger = lg
	return lg
}

// IsTruthy reports whether an environment string means true.
// Accepted values (case-insensitive): "1", "true", "yes", "y", "on".
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// IsFalsy is the explicit-false counterpart of IsTruthy. A value that is
// neither truthy nor falsy is "unset" to callers with a default.
func IsFalsy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "no", "n", "off":
		return true
	default:
		return false
	}
}

// FirstNonEmpty returns the first value that is not blank, or "".
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

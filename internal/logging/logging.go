// Package logging configures the global slog logger for the snappaste binary.
//
// Interactive runs get tinted, human-ordered output; service runs (no TTY,
// or an explicit json format) get one JSON object per line so journald and
// friends can parse the stream.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
)

// Format selects the log output format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a string to a Format, returning FormatAuto for unknown values.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "text", "tint", "human":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// ParseLevel converts a string to a slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// resolve collapses FormatAuto to a concrete format based on whether w is a
// terminal.
func resolve(format Format, w io.Writer) Format {
	if format != FormatAuto {
		return format
	}
	if IsTTY(w) {
		return FormatText
	}
	return FormatJSON
}

// NewHandler builds the slog handler for the resolved format. Text output is
// tinted only when w is actually a terminal, so forcing --log-format=text on
// a pipe yields plain text rather than escape-code soup.
func NewHandler(w io.Writer, format Format, level slog.Level) slog.Handler {
	if resolve(format, w) == FormatText {
		return tinter.NewHandler(w, &tinter.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
			NoColor:    !IsTTY(w),
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

// Setup configures the global slog logger. Call once after flag/viper parsing.
func Setup(format Format, level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, format, level)))
}

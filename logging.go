package jetmet

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	slogmulti "github.com/samber/slog-multi"
)

// LevelTrace sits below debug for per-event output.
const LevelTrace = slog.Level(-8)

// LogLevels are the accepted --log-level values.
var LogLevels = []string{"CRITICAL", "ERROR", "WARNING", "INFO", "DEBUG", "TRACE", "NOTSET"}

func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "CRITICAL", "ERROR":
		return slog.LevelError, nil
	case "WARNING", "WARN":
		return slog.LevelWarn, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "TRACE", "NOTSET":
		return LevelTrace, nil
	}
	return slog.LevelInfo, errors.Errorf("unknown log level %q", s)
}

// SetupLogger returns a text logger on stderr. With a non-empty logFile the
// records are also written there as JSON. The returned function closes the
// file.
func SetupLogger(logFile string, level slog.Level) (*slog.Logger, func() error, error) {
	if logFile == "" {
		return NewLogger(os.Stderr, nil, level), func() error { return nil }, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open log file %s", logFile)
	}
	return NewLogger(os.Stderr, file, level), file.Close, nil
}

// NewLogger fans records out to a text handler on w and, if non-nil, a JSON
// handler on jsonW.
func NewLogger(w, jsonW io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	textHandler := slog.NewTextHandler(w, opts)
	if jsonW == nil {
		return slog.New(textHandler)
	}
	return slog.New(slogmulti.Fanout(textHandler, slog.NewJSONHandler(jsonW, opts)))
}

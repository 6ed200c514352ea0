package renderer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/df07/go-gargantua/pkg/core"
)

// DefaultLogger implements core.LeveledLogger on top of a structured slog
// logger. Printf logs at Info.
type DefaultLogger struct {
	logger *slog.Logger
}

func (dl *DefaultLogger) log(level slog.Level, format string, args ...interface{}) {
	if !dl.logger.Enabled(context.Background(), level) {
		return
	}
	dl.logger.Log(context.Background(), level, strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	dl.log(slog.LevelInfo, format, args...)
}

func (dl *DefaultLogger) Debugf(format string, args ...interface{}) {
	dl.log(slog.LevelDebug, format, args...)
}

func (dl *DefaultLogger) Warnf(format string, args ...interface{}) {
	dl.log(slog.LevelWarn, format, args...)
}

func (dl *DefaultLogger) Errorf(format string, args ...interface{}) {
	dl.log(slog.LevelError, format, args...)
}

// NewDefaultLogger creates a logger writing text records to stdout
func NewDefaultLogger() core.Logger {
	return NewLogger(os.Stdout, slog.LevelInfo)
}

// NewLogger creates a logger writing text records at or above level to w
func NewLogger(w io.Writer, level slog.Level) core.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &DefaultLogger{logger: slog.New(handler)}
}

// LevelFromFlags maps command line verbosity flags to a log level. verbose
// wins over quiet; quiet keeps warnings and errors; with neither set the
// level is Info.
func LevelFromFlags(verbose, quiet bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

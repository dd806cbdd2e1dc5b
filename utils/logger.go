package utils

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides leveled logging throughout the application.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a Logger writing human-readable lines to stdout at the
// given level ("debug", "info", ...). Unknown levels fall back to info.
func NewLogger(level string) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}
	return newLogger(output, level)
}

// NewTestLogger creates a debug-level Logger writing plain lines to w.
func NewTestLogger(w io.Writer) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}
	return newLogger(output, "debug")
}

func newLogger(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return &Logger{logger: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}
}

func (l *Logger) Info(format string, args ...any) {
	l.logger.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.logger.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.logger.Error().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	l.logger.Debug().Msg(fmt.Sprintf(format, args...))
}

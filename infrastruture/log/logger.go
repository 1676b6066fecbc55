// Package logger provides a colored, prefixed logger for the application's components.
package logger

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beka-birhanu/torchmaze/config"
	"github.com/beka-birhanu/torchmaze/service/i"
	"github.com/rs/zerolog"
)

var _ i.Logger = &Logger{}

// Logger writes leveled console lines with the component prefix in the component's color.
type Logger struct {
	logger zerolog.Logger
}

// New creates a Logger writing to w. The prefix names the component, e.g. "SESSION-MANAGER".
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if prefix == "" {
		return nil, errors.New("logger prefix is required")
	}
	if w == nil {
		return nil, errors.New("logger writer is required")
	}

	tag := fmt.Sprintf("%s[%s]%s", color, prefix, config.ColorReset)
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.DateTime,
		FormatLevel: func(level interface{}) string {
			return levelTag(fmt.Sprint(level))
		},
		FormatMessage: func(msg interface{}) string {
			return fmt.Sprintf("%s %v", tag, msg)
		},
	}

	return &Logger{
		logger: zerolog.New(out).With().Timestamp().Logger(),
	}, nil
}

func levelTag(level string) string {
	switch level {
	case zerolog.LevelInfoValue:
		return config.LogInfoColor + "[INFO]" + config.LogColorReset
	case zerolog.LevelWarnValue:
		return config.LogWarningColor + "[WARNING]" + config.LogColorReset
	case zerolog.LevelErrorValue:
		return config.LogErrorColor + "[ERROR]" + config.LogColorReset
	}
	return "[" + strings.ToUpper(level) + "]"
}

// Discard returns a Logger that drops every line.
func Discard() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// Info implements i.Logger.
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Warning implements i.Logger.
func (l *Logger) Warning(msg string) {
	l.logger.Warn().Msg(msg)
}

// Error implements i.Logger.
func (l *Logger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

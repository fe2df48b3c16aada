package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/text"
)

// Fields structured key/value pairs attached to a log message.
type Fields map[string]any

type Logger interface {
	Log(message string)
	LogFields(message string, fields Fields)
	LogError(message string, err error)
}

type apexLogger struct {
	logger *log.Logger
}

// NewFileLogger logs to the file specified by `path`. If the file is unavailable, writes to the console.
func NewFileLogger(path string) Logger {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("Error: %s. Logging switched to console.\n", err.Error())
		return NewConsoleLogger(os.Stderr)
	}
	return newApexLogger(text.New(file))
}

// NewConsoleLogger logs human-readable lines to `w`.
func NewConsoleLogger(w io.Writer) Logger {
	return newApexLogger(cli.New(w))
}

func newApexLogger(handler log.Handler) Logger {
	return &apexLogger{
		logger: &log.Logger{
			Handler: handler,
			Level:   log.InfoLevel,
		},
	}
}

func (a *apexLogger) Log(message string) {
	a.logger.Info(strings.TrimSpace(message))
}

func (a *apexLogger) LogFields(message string, fields Fields) {
	a.logger.WithFields(log.Fields(fields)).Info(strings.TrimSpace(message))
}

func (a *apexLogger) LogError(message string, err error) {
	a.logger.WithError(err).Error(strings.TrimSpace(message))
}

package logger

import (
	"fmt"
	"io"
	"os"
	"time"
)

type Logger interface {
	Log(format string, args ...interface{})
}

// engineLogger writes tagged lines to stdout and, when configured, mirrors
// them into a log file for post-incident review of signing activity.
type engineLogger struct {
	tag  string
	file io.Writer
}

func NewLogger(tag string) Logger {
	return &engineLogger{
		tag: tag,
	}
}

// NewFileLogger mirrors log lines into the file at path, appending.
func NewFileLogger(tag, path string) (Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &engineLogger{
		tag:  tag,
		file: f,
	}, nil
}

func (l *engineLogger) Log(format string, args ...interface{}) {
	line := fmt.Sprintf("[%s] %s %s\n", l.tag, time.Now().UTC().Format(time.RFC3339), fmt.Sprintf(format, args...))
	fmt.Print(line)
	if l.file != nil {
		_, _ = io.WriteString(l.file, line)
	}
}

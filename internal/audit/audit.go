// Package audit appends security-relevant events to a line-oriented log
// file consumed by an external viewer. Format per line:
//
//	timestamp|category=...|actor=...|subject=...|action=...|success=...|details=...
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const fileName = "audit.log"

const timestampLayout = "2006-01-02T15:04:05.000"

// Logger serializes appends so interleaved writers never corrupt a line.
type Logger struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// New creates the log directory if needed and returns a writer appending to
// audit.log inside it.
func New(dir string, logger *slog.Logger) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}
	return &Logger{
		path:   filepath.Join(dir, fileName),
		logger: logger,
	}, nil
}

// Log appends one event. Write failures are reported to the structured
// logger rather than returned; an audit write must never fail the operation
// it describes.
func (l *Logger) Log(category, actor, subject, action, details string, success bool) {
	line := strings.Join([]string{
		time.Now().Format(timestampLayout),
		"category=" + safe(category),
		"actor=" + safe(actor),
		"subject=" + safe(subject),
		"action=" + safe(action),
		"success=" + strconv.FormatBool(success),
		"details=" + safe(details),
	}, "|")

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Error("failed to open audit log", "path", l.path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		l.logger.Error("failed to write audit log", "path", l.path, "error", err)
	}
}

// Path returns the location of the audit log file.
func (l *Logger) Path() string {
	return l.path
}

func safe(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.ReplaceAll(value, "\r", " ")
}

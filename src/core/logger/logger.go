// Package logger provides structured logging for the mesh agent runtime.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

var levelPriority = map[string]int{
	"DEBUG":    0,
	"INFO":     1,
	"WARNING":  2,
	"ERROR":    3,
	"CRITICAL": 4,
}

// Logger provides leveled logging gated by MCP_MESH_LOG_LEVEL.
type Logger struct {
	component string
	level     string
	out       io.Writer
	errOut    io.Writer
}

// New creates a logger scoped to component, reading level from env.
func New(component string) *Logger {
	level := os.Getenv("MCP_MESH_LOG_LEVEL")
	if level == "" {
		level = "INFO"
	}
	return &Logger{
		component: component,
		level:     strings.ToUpper(level),
		out:       os.Stdout,
		errOut:    os.Stderr,
	}
}

// WithComponent returns a copy of the logger scoped to a different component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{component: component, level: l.level, out: l.out, errOut: l.errOut}
}

func (l *Logger) shouldLog(level string) bool {
	cur, ok := levelPriority[l.level]
	if !ok {
		cur = levelPriority["INFO"]
	}
	check, ok := levelPriority[level]
	if !ok {
		return false
	}
	return check >= cur
}

// formatLog builds a "2006-01-02 15:04:05 LEVEL    [component] message" line.
func (l *Logger) formatLog(level, format string, args ...interface{}) string {
	timestamp := time.Now().UTC().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	return fmt.Sprintf("%s %-8s [%s] %s\n", timestamp, level, l.component, message)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.shouldLog("DEBUG") {
		fmt.Fprint(l.out, l.formatLog("DEBUG", format, args...))
	}
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.shouldLog("INFO") {
		fmt.Fprint(l.out, l.formatLog("INFO", format, args...))
	}
}

// Warning logs at WARNING level.
func (l *Logger) Warning(format string, args ...interface{}) {
	if l.shouldLog("WARNING") {
		fmt.Fprint(l.out, l.formatLog("WARNING", format, args...))
	}
}

// Error logs at ERROR level, always to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.shouldLog("ERROR") {
		fmt.Fprint(l.errOut, l.formatLog("ERROR", format, args...))
	}
}

// IsDebugEnabled reports whether DEBUG-level messages are emitted.
func (l *Logger) IsDebugEnabled() bool {
	return l.shouldLog("DEBUG")
}

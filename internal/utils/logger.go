package utils

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Logger provides leveled logging with colored level tags.
// Info and debug go to out, warnings and errors to errOut.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	debug  bool
	now    func() time.Time
}

var (
	tagInfo  = color.New(color.FgGreen).SprintFunc()
	tagWarn  = color.New(color.FgYellow).SprintFunc()
	tagError = color.New(color.FgRed).SprintFunc()
	tagDebug = color.New(color.FgCyan).SprintFunc()
)

// NewLogger creates a Logger writing to stdout/stderr.
func NewLogger(debug bool) *Logger {
	return NewLoggerTo(os.Stdout, os.Stderr, debug)
}

// NewLoggerTo creates a Logger with explicit writers.
func NewLoggerTo(out, errOut io.Writer, debug bool) *Logger {
	return &Logger{out: out, errOut: errOut, debug: debug, now: time.Now}
}

// SetDebug toggles debug output.
func (l *Logger) SetDebug(on bool) {
	l.mu.Lock()
	l.debug = on
	l.mu.Unlock()
}

func (l *Logger) Info(format string, args ...any) {
	l.emit(l.out, tagInfo("INFO")+" ", format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.emit(l.errOut, tagWarn("WARN")+" ", format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.emit(l.errOut, tagError("ERROR"), format, args...)
}

// Debug is a no-op unless debug output is enabled.
func (l *Logger) Debug(format string, args ...any) {
	l.mu.Lock()
	on := l.debug
	l.mu.Unlock()
	if on {
		l.emit(l.out, tagDebug("DEBUG"), format, args...)
	}
}

func (l *Logger) emit(w io.Writer, tag, format string, args ...any) {
	if l == nil || w == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(w, "[%s] %s %s\n", l.now().Format("2006-01-02 15:04:05"), tag, msg)
}

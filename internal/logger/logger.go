// Package logger configures the standard library logger for harris-compare.
//
// Output goes to stderr unless a log file is given. Debug messages are
// emitted only when the level is "debug".
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Supported log levels.
const (
	LevelInfo  = "info"
	LevelDebug = "debug"
)

var debugEnabled atomic.Bool

// Init sets up the global logger. With an empty logFilePath it writes to
// stderr; otherwise it appends to the file and returns it, and the caller is
// responsible for closing it.
func Init(logFilePath, level string) (*os.File, error) {
	if err := SetLevel(level); err != nil {
		return nil, err
	}

	if logFilePath == "" {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		return nil, nil
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	return logFile, nil
}

// ParseLevel reports whether level enables debug output. An empty level
// means info.
func ParseLevel(level string) (debug bool, err error) {
	switch strings.ToLower(level) {
	case "", LevelInfo:
		return false, nil
	case LevelDebug:
		return true, nil
	}
	return false, fmt.Errorf("unknown log level %q (use %s or %s)", level, LevelInfo, LevelDebug)
}

// SetLevel switches debug output on or off.
func SetLevel(level string) error {
	debug, err := ParseLevel(level)
	if err != nil {
		return err
	}
	debugEnabled.Store(debug)
	return nil
}

// Debugf logs like log.Printf when the level is debug.
func Debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	// Depth 2 attributes the message to Debugf's caller
	_ = log.Output(2, fmt.Sprintf(format, args...))
}

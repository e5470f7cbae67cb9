// Package xlog is the ambient leveled logger shared by the
// orchestrator and every package that needs to report progress
// without returning it as an error: statement-script dispatch,
// OR-branch selection, and buffer replay all emit debug-level events
// here. It defaults to silent (Disabled) so a library caller never
// sees unsolicited output on stderr; call SetLevel to opt in, the way
// a caller of the teacher's recompilation helpers opts into its
// fmt.Printf progress messages.
package xlog

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.Disabled)
)

// SetLevel adjusts the package-wide logger's minimum level.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(level)
}

// Logger returns the shared logger instance.
func Logger() *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return &logger
}

// Debug logs a debug-level event with the given message and fields.
func Debug(msg string, fields map[string]interface{}) {
	ev := Logger().Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Warn logs a warn-level event with the given message and fields.
func Warn(msg string, fields map[string]interface{}) {
	ev := Logger().Warn()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Package slogx provides small helpers for building slog attributes.
package slogx

import (
	"fmt"
	"log/slog"
)

// Error returns a slog.Attr with the key "error" and the error's message as
// the value.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Stringer returns a slog.Attr with the given key and the string
// representation of the fmt.Stringer value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// KeyLoggerName is the attribute key used to name a logger.
const KeyLoggerName = "logger"

// LoggerName returns an attribute carrying the logger name under
// KeyLoggerName.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

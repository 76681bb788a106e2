// Package logging is a small level-gated shim over the standard log
// package. Nothing in this module imports a structured-logging library;
// this shim adds the one thing plain log lacks: suppressing Debug output
// unless asked for. No other package in this module imports it.
package logging

import (
	"log"
	"os"
)

// Level is the minimum severity that gets printed.
type Level int

const (
	LevelDebug Level = iota
	LevelWarn
	LevelError
)

var current = LevelWarn

func init() {
	switch os.Getenv("SIUMAI_LOG_LEVEL") {
	case "debug":
		current = LevelDebug
	case "error":
		current = LevelError
	}
}

// SetLevel overrides the minimum severity printed; intended for tests
// and for callers that want Debug output without the env var.
func SetLevel(l Level) { current = l }

// Debugf logs a transformer-level diagnostic (e.g. "field unsupported,
// dropped") only when the level is Debug.
func Debugf(format string, args ...interface{}) {
	if current <= LevelDebug {
		log.Printf("DEBUG "+format, args...)
	}
}

// Warnf logs a recoverable anomaly (vendor quirk, dropped field) visible
// at the default level.
func Warnf(format string, args ...interface{}) {
	if current <= LevelWarn {
		log.Printf("WARN "+format, args...)
	}
}

// Errorf logs an unrecoverable condition.
func Errorf(format string, args ...interface{}) {
	log.Printf("ERROR "+format, args...)
}

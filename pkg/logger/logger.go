package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Leveled logger facade used across the service. Call sites use the
// printf-style helpers; entries are emitted as zerolog JSON lines.

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	out    io.Writer = os.Stdout
	level            = LevelInfo
	logger           = newLogger(out, level)
	exit             = os.Exit
)

func newLogger(w io.Writer, l Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).Level(zerologLevel(l)).With().Timestamp().Str("service", "stockboard").Logger()
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelFatal:
		return zerolog.FatalLevel
	}
	return zerolog.InfoLevel
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level = LevelDebug
	case "warn", "warning":
		level = LevelWarn
	case "error":
		level = LevelError
	case "fatal":
		level = LevelFatal
	default:
		level = LevelInfo
	}
	logger = newLogger(out, level)
}

// SetOutput redirects log output; used by tests and by console mode.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	logger = newLogger(out, level)
}

// Console switches to human readable output (development).
func Console() {
	SetOutput(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debugf(format string, v ...interface{}) {
	l := current()
	l.Debug().Msgf(format, v...)
}

func Infof(format string, v ...interface{}) {
	l := current()
	l.Info().Msgf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	l := current()
	l.Warn().Msgf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	l := current()
	l.Error().Msgf(format, v...)
}

// Fatalf logs regardless of level and exits with status 1.
func Fatalf(format string, v ...interface{}) {
	l := current()
	l.WithLevel(zerolog.FatalLevel).Msgf(format, v...)
	exit(1)
}

// Request logs one handled HTTP request with structured fields.
func Request(method, route string, status int, latency time.Duration, clientIP string) {
	l := current()
	ev := l.Info()
	if status >= 500 {
		ev = l.Error()
	} else if status >= 400 {
		ev = l.Warn()
	}
	ev.Str("method", method).
		Str("route", route).
		Int("status", status).
		Dur("latency", latency).
		Str("client_ip", clientIP).
		Msg("request")
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) {
	l := current()
	l.Info().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}

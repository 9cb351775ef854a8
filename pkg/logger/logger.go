// Package logger provides a simple logging interface and a logrus-backed implementation
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger defines the logging interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
}

// Rotation settings for the optional log file
const (
	fileMaxSizeMB  = 50
	fileMaxBackups = 3
	fileMaxAgeDays = 14
)

// Options configures a logger instance.
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // text or json
	File   string    // optional path, rotated with lumberjack
	Output io.Writer // defaults to stdout
}

// logger implements the Logger interface on top of logrus
type logger struct {
	entry *logrus.Logger
}

// NewWithOptions creates a logger from explicit options
func NewWithOptions(opts Options) Logger {
	l := logrus.New()
	l.SetLevel(ParseLevel(opts.Level))

	if strings.EqualFold(opts.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.File != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    fileMaxSizeMB,
			MaxBackups: fileMaxBackups,
			MaxAge:     fileMaxAgeDays,
		})
	}
	l.SetOutput(out)

	return &logger{entry: l}
}

// Discard returns a logger that drops every message. Used by tests.
func Discard() Logger {
	return NewWithOptions(Options{Output: io.Discard})
}

// ParseLevel converts string log level to a logrus level, defaulting to info
func ParseLevel(levelStr string) logrus.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// IsKnownLevel reports whether levelStr names a supported level
func IsKnownLevel(levelStr string) bool {
	switch strings.ToLower(levelStr) {
	case "", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func (l *logger) Debug(v ...interface{}) {
	l.entry.Debug(v...)
}

func (l *logger) Debugf(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *logger) Info(v ...interface{}) {
	l.entry.Info(v...)
}

func (l *logger) Infof(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *logger) Warn(v ...interface{}) {
	l.entry.Warn(v...)
}

func (l *logger) Warnf(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

func (l *logger) Error(v ...interface{}) {
	l.entry.Error(v...)
}

func (l *logger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// Fatal logs an error message and exits
func (l *logger) Fatal(v ...interface{}) {
	l.entry.Fatal(v...)
}

// Fatalf logs a formatted error message and exits
func (l *logger) Fatalf(format string, v ...interface{}) {
	l.entry.Fatalf(format, v...)
}

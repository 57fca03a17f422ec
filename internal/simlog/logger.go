// Package simlog provides the logging and per-tick persistence surface
// shared by every device, backed by logrus instead of a hand-rolled
// *log.Logger wrapper.
package simlog

import (
	"github.com/sirupsen/logrus"
)

// Logger is the levelled logging interface every device depends on
// (Info/Warn/Error/Debug, each with an f-variant).
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// logrusLogger adapts a *logrus.Logger to the Logger interface.
type logrusLogger struct {
	*logrus.Logger
	fields logrus.Fields
}

// NewDefaultLogger builds the default Logger implementation: a logrus
// logger with text output.
func NewDefaultLogger() Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &logrusLogger{Logger: l}
}

// With returns a Logger that attaches the given fields to every entry,
// used to scope log lines to a single device id.
func With(base Logger, fields map[string]interface{}) Logger {
	ll, ok := base.(*logrusLogger)
	if !ok {
		return base
	}
	merged := make(logrus.Fields, len(ll.fields)+len(fields))
	for k, v := range ll.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &logrusLogger{Logger: ll.Logger, fields: merged}
}

func (l *logrusLogger) Infof(format string, args ...interface{}) {
	l.Logger.WithFields(l.fields).Infof(format, args...)
}

func (l *logrusLogger) Warnf(format string, args ...interface{}) {
	l.Logger.WithFields(l.fields).Warnf(format, args...)
}

func (l *logrusLogger) Errorf(format string, args ...interface{}) {
	l.Logger.WithFields(l.fields).Errorf(format, args...)
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) {
	l.Logger.WithFields(l.fields).Debugf(format, args...)
}

// noop is a Logger that discards everything, used in tests that don't care
// about log output.
type noop struct{}

func (noop) Infof(string, ...interface{})  {}
func (noop) Warnf(string, ...interface{})  {}
func (noop) Errorf(string, ...interface{}) {}
func (noop) Debugf(string, ...interface{}) {}

// NewNoop returns a Logger that discards everything.
func NewNoop() Logger {
	return noop{}
}

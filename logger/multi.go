package logger

import (
	"context"
	"os"
)

type multiLogger []Logger

var _ Logger = (multiLogger)(nil)

// NewMultiLogger returns a Logger that writes every record to each of loggers.
func NewMultiLogger(loggers ...Logger) Logger {
	return multiLogger(loggers)
}

func (m multiLogger) each(fn func(Logger) Logger) Logger {
	out := make(multiLogger, len(m))
	for i, l := range m {
		out[i] = fn(l)
	}
	return out
}

func (m multiLogger) With(metadata map[string]interface{}) Logger {
	return m.each(func(l Logger) Logger { return l.With(metadata) })
}

func (m multiLogger) WithPrefix(prefix string) Logger {
	return m.each(func(l Logger) Logger { return l.WithPrefix(prefix) })
}

func (m multiLogger) WithContext(ctx context.Context) Logger {
	return m.each(func(l Logger) Logger { return l.WithContext(ctx) })
}

func (m multiLogger) Trace(msg string, args ...interface{}) {
	for _, l := range m {
		l.Trace(msg, args...)
	}
}

func (m multiLogger) Debug(msg string, args ...interface{}) {
	for _, l := range m {
		l.Debug(msg, args...)
	}
}

func (m multiLogger) Info(msg string, args ...interface{}) {
	for _, l := range m {
		l.Info(msg, args...)
	}
}

func (m multiLogger) Warn(msg string, args ...interface{}) {
	for _, l := range m {
		l.Warn(msg, args...)
	}
}

func (m multiLogger) Error(msg string, args ...interface{}) {
	for _, l := range m {
		l.Error(msg, args...)
	}
}

// Fatal logs to every logger at error level and then exits with code 1.
func (m multiLogger) Fatal(msg string, args ...interface{}) {
	m.Error(msg, args...)
	os.Exit(1)
}

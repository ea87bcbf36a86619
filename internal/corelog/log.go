// Package corelog is the logging facade shared by every subsystem in
// the core. It mirrors the teacher's pkg/log.Logger interface shape
// (Infof/Errorf/Debugf) but is backed by logrus instead of raw
// fmt.Printf calls, so the -l verbosity flag (see cmd/gbxcore) maps
// directly onto a real structured-logging level.
package corelog

import "github.com/sirupsen/logrus"

// Level mirrors the -l flag's verbosity names.
type Level uint8

const (
	LevelNone Level = iota
	LevelRegular
	LevelTimer
	LevelLCD
	LevelTrace
	LevelRegisters
)

// Logger is the interface every peripheral depends on. Passing nil
// component loggers is never required: New always returns a usable
// value, falling back to a discard logger when level is LevelNone.
type Logger struct {
	entry *logrus.Entry
}

// New creates a component-scoped Logger at the given verbosity.
func New(component string, level Level) Logger {
	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: false,
		DisableSorting:   true,
	}
	switch level {
	case LevelNone:
		l.SetOutput(discard{})
	case LevelRegular:
		l.SetLevel(logrus.InfoLevel)
	case LevelTimer, LevelLCD:
		l.SetLevel(logrus.DebugLevel)
	case LevelTrace, LevelRegisters:
		l.SetLevel(logrus.TraceLevel)
	}
	return Logger{entry: l.WithField("component", component)}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func (l Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l Logger) Tracef(format string, args ...interface{}) { l.entry.Tracef(format, args...) }

// With returns a child logger with an additional field, used by
// peripherals that want to tag log lines with e.g. a DMA channel index.
func (l Logger) With(key string, value interface{}) Logger {
	return Logger{entry: l.entry.WithField(key, value)}
}

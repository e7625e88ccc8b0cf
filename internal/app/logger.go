package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// Logger is the component-scoped logger passed to every subsystem.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
	Debugf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}
func (NoopLogger) Debugf(component, format string, args ...interface{}) {}

// FileLogger writes plain lines, for the --debug log file.
type FileLogger struct{ w io.Writer }

func NewFileLogger(w io.Writer) FileLogger { return FileLogger{w: w} }
func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	writeLog(l.w, "INFO", component, format, args...)
}
func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	writeLog(l.w, "ERROR", component, format, args...)
}
func (l FileLogger) Debugf(component string, format string, args ...interface{}) {
	writeLog(l.w, "DEBUG", component, format, args...)
}

func writeLog(w io.Writer, level, component, format string, args ...interface{}) {
	timestamp := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	_, _ = io.WriteString(w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}

// SlogLogger adapts a slog.Logger; the component becomes an attribute.
type SlogLogger struct{ l *slog.Logger }

// NewConsoleLogger logs to w through a tint handler. debug lowers the level
// to include Debugf lines; color is for terminals.
func NewConsoleLogger(w io.Writer, debug, color bool) SlogLogger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return SlogLogger{l: slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !color,
	}))}
}

func (s SlogLogger) Infof(component string, format string, args ...interface{}) {
	s.log(slog.LevelInfo, component, format, args...)
}
func (s SlogLogger) Errorf(component string, format string, args ...interface{}) {
	s.log(slog.LevelError, component, format, args...)
}
func (s SlogLogger) Debugf(component string, format string, args ...interface{}) {
	s.log(slog.LevelDebug, component, format, args...)
}

func (s SlogLogger) log(level slog.Level, component, format string, args ...interface{}) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, fmt.Sprintf(format, args...), slog.String("component", component))
}

// multiLogger fans out to several loggers.
type multiLogger []Logger

// Tee returns a logger writing to all of ls.
func Tee(ls ...Logger) Logger {
	if len(ls) == 1 {
		return ls[0]
	}
	return multiLogger(ls)
}

func (m multiLogger) Infof(component, format string, args ...interface{}) {
	for _, l := range m {
		l.Infof(component, format, args...)
	}
}
func (m multiLogger) Errorf(component, format string, args ...interface{}) {
	for _, l := range m {
		l.Errorf(component, format, args...)
	}
}
func (m multiLogger) Debugf(component, format string, args ...interface{}) {
	for _, l := range m {
		l.Debugf(component, format, args...)
	}
}

package protolog

import "context"

// NopLogger discards every entry. Used when no logger is configured
// (e.g. early in CLI bootstrap, before the config cascade picks a
// verbosity level) and as the zero value for tests.
type NopLogger struct {
	level Level
}

// NewNopLogger constructs a NopLogger.
func NewNopLogger() *NopLogger {
	return &NopLogger{level: LevelInfo}
}

func (l *NopLogger) Debug(context.Context, string, ...Field) {}
func (l *NopLogger) Info(context.Context, string, ...Field)  {}
func (l *NopLogger) Warn(context.Context, string, ...Field)  {}
func (l *NopLogger) Error(context.Context, string, ...Field) {}

func (l *NopLogger) With(...Field) Logger { return l }

func (l *NopLogger) WithPlugin(string) Logger { return l }

func (l *NopLogger) Level() Level { return l.level }

func (l *NopLogger) SetLevel(level Level) { l.level = level }

var _ Logger = (*NopLogger)(nil)

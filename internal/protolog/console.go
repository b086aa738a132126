package protolog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ConsoleLogger logs structured messages to the console, in either
// human-readable text or newline-delimited JSON.
type ConsoleLogger struct {
	mu           sync.Mutex
	out          io.Writer
	level        Level
	fields       []Field
	jsonFormat   bool
	includeTime  bool
	includeLevel bool
}

// ConsoleLoggerOption configures a ConsoleLogger.
type ConsoleLoggerOption func(*ConsoleLogger)

// WithOutput sets the output writer (default os.Stderr).
func WithOutput(w io.Writer) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.out = w }
}

// WithLevel sets the minimum emitted level (default LevelInfo).
func WithLevel(level Level) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.level = level }
}

// WithJSONFormat switches to newline-delimited JSON output.
func WithJSONFormat(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.jsonFormat = enabled }
}

// WithTimestamp toggles the leading timestamp in text output.
func WithTimestamp(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.includeTime = enabled }
}

// WithLevelLabel toggles the leading level label in text output.
func WithLevelLabel(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.includeLevel = enabled }
}

// NewConsoleLogger constructs a ConsoleLogger.
func NewConsoleLogger(opts ...ConsoleLoggerOption) *ConsoleLogger {
	l := &ConsoleLogger{
		out:          os.Stderr,
		level:        LevelInfo,
		includeTime:  true,
		includeLevel: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *ConsoleLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelDebug, msg, fields)
}

func (l *ConsoleLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelInfo, msg, fields)
}

func (l *ConsoleLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelWarn, msg, fields)
}

func (l *ConsoleLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelError, msg, fields)
}

// With returns a derived logger carrying fields on every entry.
func (l *ConsoleLogger) With(fields ...Field) Logger {
	merged := make([]Field, len(l.fields)+len(fields))
	copy(merged, l.fields)
	copy(merged[len(l.fields):], fields)

	return &ConsoleLogger{
		out:          l.out,
		level:        l.level,
		fields:       merged,
		jsonFormat:   l.jsonFormat,
		includeTime:  l.includeTime,
		includeLevel: l.includeLevel,
	}
}

// WithPlugin returns a derived logger tagging every entry with the
// plugin id that produced it, per §4.5's host_log contract — every
// structured log entry a plugin emits is attributed to the plugin that
// emitted it.
func (l *ConsoleLogger) WithPlugin(id string) Logger {
	return l.With(F(PluginField, id))
}

func (l *ConsoleLogger) Level() Level { return l.level }

func (l *ConsoleLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *ConsoleLogger) log(_ context.Context, level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	all := make([]Field, len(l.fields)+len(fields))
	copy(all, l.fields)
	copy(all[len(l.fields):], fields)

	if l.jsonFormat {
		l.writeJSON(level, msg, all)
	} else {
		l.writeText(level, msg, all)
	}
}

func (l *ConsoleLogger) writeJSON(level Level, msg string, fields []Field) {
	entry := make(map[string]any, len(fields)+3)
	if l.includeTime {
		entry["time"] = time.Now().UTC().Format(time.RFC3339)
	}
	if l.includeLevel {
		entry["level"] = level.String()
	}
	entry["msg"] = msg
	for _, f := range fields {
		entry[f.Key] = f.Value
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	fmt.Fprintln(l.out, string(data))
}

func (l *ConsoleLogger) writeText(level Level, msg string, fields []Field) {
	var prefix string
	if l.includeTime {
		prefix = time.Now().Format("15:04:05") + " "
	}
	if l.includeLevel {
		prefix += fmt.Sprintf("[%s] ", level.String())
	}

	line := prefix + msg
	if len(fields) > 0 {
		line += " "
		for i, f := range fields {
			if i > 0 {
				line += " "
			}
			line += fmt.Sprintf("%s=%v", f.Key, f.Value)
		}
	}

	fmt.Fprintln(l.out, line)
}

var _ Logger = (*ConsoleLogger)(nil)

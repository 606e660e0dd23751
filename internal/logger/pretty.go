package logger

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// PrettyEncoder creates a user-friendly console encoder
func PrettyEncoder() zapcore.Encoder {
	config := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	return zapcore.NewConsoleEncoder(config)
}

// customLevelEncoder formats log levels with colors
func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(fmt.Sprintf("%s[DEBUG]%s", ColorCyan, ColorReset))
	case zapcore.InfoLevel:
		enc.AppendString(fmt.Sprintf("%s[INFO]%s", ColorGreen, ColorReset))
	case zapcore.WarnLevel:
		enc.AppendString(fmt.Sprintf("%s[WARN]%s", ColorYellow, ColorReset))
	case zapcore.ErrorLevel:
		enc.AppendString(fmt.Sprintf("%s[ERROR]%s", ColorRed, ColorReset))
	case zapcore.FatalLevel:
		enc.AppendString(fmt.Sprintf("%s[FATAL]%s", ColorRed+ColorBold, ColorReset))
	default:
		enc.AppendString(fmt.Sprintf("[%s]", level.CapitalString()))
	}
}

// customTimeEncoder formats time in a readable way
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

// CreatePrettyLogger creates a logger with user-friendly console output.
// When a non-nil buffer is supplied, every entry is also mirrored into it
// so the UI log pane can render recent activity.
func CreatePrettyLogger(debug bool, buffer *LogBuffer) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	consoleCore := zapcore.NewCore(
		PrettyEncoder(),
		zapcore.AddSync(os.Stderr),
		level,
	)

	if buffer == nil {
		return zap.New(consoleCore), nil
	}

	return zap.New(zapcore.NewTee(consoleCore, newBufferCore(buffer, level, nil))), nil
}

// NotifyFunc receives every entry that reaches the buffer. It must not
// block; the UI bus publisher drops on a full channel.
type NotifyFunc func(level zapcore.Level, message string, fields map[string]interface{})

// CreateTUILogger creates a logger that writes only into the buffer.
// Nothing reaches stdout or stderr, so a fullscreen TUI stays intact.
// A non-nil notify is called for each entry, which the TUI uses to
// refresh an open log pane.
func CreateTUILogger(debug bool, buffer *LogBuffer, notify NotifyFunc) (*zap.Logger, error) {
	if buffer == nil {
		return nil, fmt.Errorf("buffer is required for TUI logger")
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	return zap.New(newBufferCore(buffer, level, notify)), nil
}

// bufferCore mirrors log entries into a LogBuffer.
type bufferCore struct {
	zapcore.LevelEnabler
	buffer *LogBuffer
	notify NotifyFunc
	fields []zapcore.Field
}

func newBufferCore(buffer *LogBuffer, enab zapcore.LevelEnabler, notify NotifyFunc) zapcore.Core {
	return &bufferCore{LevelEnabler: enab, buffer: buffer, notify: notify}
}

func (c *bufferCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &bufferCore{LevelEnabler: c.LevelEnabler, buffer: c.buffer, notify: c.notify}
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *bufferCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *bufferCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	if c.notify != nil {
		c.notify(ent.Level, ent.Message, enc.Fields)
	}
	return c.buffer.Add(ent.Level.CapitalString(), ent.Message, enc.Fields)
}

func (c *bufferCore) Sync() error {
	return c.buffer.Flush()
}

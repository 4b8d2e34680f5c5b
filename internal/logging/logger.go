// Package logging adapts zap to the Nakama runtime.Logger interface so the
// engine logs the same way inside and outside the Nakama server.
package logging

import (
	"io"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RuntimeLogger implements runtime.Logger on top of a zap logger.
type RuntimeLogger struct {
	sugar  *zap.SugaredLogger
	fields map[string]interface{}
}

var _ runtime.Logger = (*RuntimeLogger)(nil)

// New wraps a zap logger.
func New(logger *zap.Logger) *RuntimeLogger {
	return &RuntimeLogger{sugar: logger.Sugar(), fields: map[string]interface{}{}}
}

// NewConsole builds a console logger writing to w, at debug level when verbose
// is set and at info level otherwise.
func NewConsole(w io.Writer, verbose bool) *RuntimeLogger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return New(zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level)))
}

// Nop returns a logger that discards everything.
func Nop() runtime.Logger { return New(zap.NewNop()) }

func (l *RuntimeLogger) Debug(format string, v ...interface{}) { l.sugar.Debugf(format, v...) }
func (l *RuntimeLogger) Info(format string, v ...interface{})  { l.sugar.Infof(format, v...) }
func (l *RuntimeLogger) Warn(format string, v ...interface{})  { l.sugar.Warnf(format, v...) }
func (l *RuntimeLogger) Error(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }

func (l *RuntimeLogger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

func (l *RuntimeLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	args := make([]interface{}, 0, 2*len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
		args = append(args, k, v)
	}
	return &RuntimeLogger{sugar: l.sugar.With(args...), fields: merged}
}

func (l *RuntimeLogger) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}
	return out
}

// Sync flushes buffered entries.
func (l *RuntimeLogger) Sync() error { return l.sugar.Sync() }

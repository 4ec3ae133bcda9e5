package log

import "context"

// NopLogger discards everything, handy in tests
type NopLogger struct{}

func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (NopLogger) Info(ctx context.Context, format string, args ...interface{})      {}
func (NopLogger) Alert(ctx context.Context, format string, args ...interface{})     {}
func (NopLogger) Error(ctx context.Context, format string, args ...interface{})     {}
func (NopLogger) Warn(ctx context.Context, format string, args ...interface{})      {}
func (NopLogger) Debug(ctx context.Context, format string, args ...interface{})     {}
func (NopLogger) Notice(ctx context.Context, format string, args ...interface{})    {}
func (NopLogger) Critical(ctx context.Context, format string, args ...interface{})  {}
func (NopLogger) Emergency(ctx context.Context, format string, args ...interface{}) {}

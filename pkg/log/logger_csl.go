package log

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

var (
	infoPrefix     = color.New(color.FgGreen).Sprint("[INFO] ")
	alertPrefix    = color.New(color.FgMagenta, color.Bold).Sprint("[ALERT] ")
	errorPrefix    = color.New(color.FgRed).Sprint("[ERROR] ")
	warnPrefix     = color.New(color.FgYellow).Sprint("[WARN] ")
	debugPrefix    = color.New(color.FgHiBlack).Sprint("[DEBUG] ")
	criticalPrefix = color.New(color.FgRed, color.Bold).Sprint("[CRITICAL] ")
	emergPrefix    = color.New(color.BgRed, color.FgWhite).Sprint("[EMERGENCY] ")
	noticePrefix   = color.New(color.FgCyan).Sprint("[NOTICE] ")
)

type CslLogger struct {
	std *log.Logger
}

func NewCslLogger() (*CslLogger, error) {
	return NewCslLoggerTo(os.Stderr)
}

// NewCslLoggerTo writes to w instead of stderr
func NewCslLoggerTo(w io.Writer) (*CslLogger, error) {
	return &CslLogger{std: log.New(w, "", log.LstdFlags)}, nil
}

func (l *CslLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.std.Printf(infoPrefix+format, args...)
}

func (l *CslLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.std.Printf(alertPrefix+format, args...)
}

func (l *CslLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.std.Printf(errorPrefix+format, args...)
}

func (l *CslLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.std.Printf(warnPrefix+format, args...)
}

func (l *CslLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.std.Printf(debugPrefix+format, args...)
}

func (l *CslLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.std.Printf(criticalPrefix+format, args...)
}

func (l *CslLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.std.Printf(emergPrefix+format, args...)
}

func (l *CslLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.std.Printf(noticePrefix+format, args...)
}

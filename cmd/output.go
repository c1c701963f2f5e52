package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	errorPrefix   = "error: "
	warningPrefix = "warning: "
)

// consoleSink prints pipeline lines, coloring errors, warnings and stage headers.
type consoleSink struct {
	mu    sync.Mutex
	w     io.Writer
	errC  *color.Color
	warnC *color.Color
	headC *color.Color
}

func newConsoleSink(w io.Writer, noColor bool) *consoleSink {
	s := &consoleSink{
		w:     w,
		errC:  color.New(color.FgRed, color.Bold),
		warnC: color.New(color.FgYellow),
		headC: color.New(color.FgCyan, color.Bold),
	}
	if noColor {
		s.errC.DisableColor()
		s.warnC.DisableColor()
		s.headC.DisableColor()
	}
	return s
}

func (s *consoleSink) Emit(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case strings.HasPrefix(line, errorPrefix):
		s.errC.Fprintln(s.w, line)
	case strings.HasPrefix(line, warningPrefix):
		s.warnC.Fprintln(s.w, line)
	case strings.HasPrefix(line, "==="):
		s.headC.Fprintln(s.w, line)
	default:
		fmt.Fprintln(s.w, line)
	}
}

// zapSink forwards pipeline lines to a zap logger, mapping the line prefix to a level.
type zapSink struct {
	log *zap.Logger
}

func (s *zapSink) Emit(line string) {
	switch {
	case strings.HasPrefix(line, errorPrefix):
		s.log.Error(strings.TrimPrefix(line, errorPrefix))
	case strings.HasPrefix(line, warningPrefix):
		s.log.Warn(strings.TrimPrefix(line, warningPrefix))
	default:
		s.log.Info(line)
	}
}

// newLogger builds the CLI's own logger. Diagnostics go to stderr at warn
// level unless verbose; json output needs info to carry pipeline lines.
func newLogger(verbose bool, format string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"
	config.Sampling = nil

	level := zap.WarnLevel
	switch {
	case verbose:
		level = zap.DebugLevel
	case format == "json":
		level = zap.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)

	return config.Build()
}

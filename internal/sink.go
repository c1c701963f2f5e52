package internal

import "fmt"

// Sink receives human-readable progress and error lines, one line per call.
// Implementations must be safe for concurrent use: the scanner emits from
// several goroutines at once.
type Sink interface {
	Emit(line string)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(line string)

func (f SinkFunc) Emit(line string) { f(line) }

// MultiSink fans every line out to all of its sinks in order.
type MultiSink []Sink

func (m MultiSink) Emit(line string) {
	for _, s := range m {
		if s != nil {
			s.Emit(line)
		}
	}
}

// Discard drops every line.
var Discard Sink = SinkFunc(func(string) {})

func emitf(s Sink, format string, args ...any) {
	if s == nil {
		return
	}
	s.Emit(fmt.Sprintf(format, args...))
}

func warnf(s Sink, format string, args ...any) {
	emitf(s, "warning: "+format, args...)
}

func errorf(s Sink, format string, args ...any) {
	emitf(s, "error: "+format, args...)
}

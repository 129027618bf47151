// Package log is a trimmed, in-process event logger in the style of
// SentryShot's pkg/log (itself inspired by zerolog): a chained
// Event builder ending in Msg/Msgf. Unlike the teacher package this
// one owns no persistence — no database, no subscriber feed — because
// where those events end up is an operational concern external to a
// recording core. A Sink function is the only extension point.
package log

import (
	"fmt"
	"time"
)

// Level is a log severity, numerically compatible with the teacher's
// levels (and, through them, ffmpeg's).
type Level uint8

const (
	LevelError   Level = 16
	LevelWarning Level = 24
	LevelInfo    Level = 32
	LevelDebug   Level = 48
)

// Entry is one emitted log line.
type Entry struct {
	Level Level
	Time  time.Time
	Src   string
	Msg   string
}

// Sink receives completed entries. Implementations must not block
// indefinitely — the recorder calls into the sink on its own
// goroutine, synchronously.
type Sink func(Entry)

// Logger builds Events that are delivered to a Sink. A nil *Logger is
// valid and silently discards every event, so callers that have no
// logger configured can pass nil without a special case.
type Logger struct {
	sink Sink
}

// New returns a Logger that delivers every event to sink.
func New(sink Sink) *Logger {
	return &Logger{sink: sink}
}

// Event is an in-progress log line. Msg/Msgf must be called to emit it.
type Event struct {
	level  Level
	time   time.Time
	src    string
	logger *Logger
}

// Src sets the event's source tag (the component name that produced
// it — e.g. "recorder.recover").
func (e *Event) Src(src string) *Event {
	if e == nil {
		return nil
	}
	e.src = src
	return e
}

// Msg emits the event with msg as its message.
func (e *Event) Msg(msg string) {
	if e == nil || e.logger == nil || e.logger.sink == nil {
		return
	}
	e.logger.sink(Entry{Level: e.level, Time: e.time, Src: e.src, Msg: msg})
}

// Msgf emits the event with a formatted message.
func (e *Event) Msgf(format string, v ...interface{}) {
	e.Msg(fmt.Sprintf(format, v...))
}

func (l *Logger) newEvent(level Level) *Event {
	return &Event{level: level, time: time.Now(), logger: l}
}

// Error starts a new error-level event.
func (l *Logger) Error() *Event { return l.newEvent(LevelError) }

// Warn starts a new warning-level event.
func (l *Logger) Warn() *Event { return l.newEvent(LevelWarning) }

// Info starts a new info-level event.
func (l *Logger) Info() *Event { return l.newEvent(LevelInfo) }

// Debug starts a new debug-level event.
func (l *Logger) Debug() *Event { return l.newEvent(LevelDebug) }

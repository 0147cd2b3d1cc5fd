package corr3

import (
	"fmt"
	"log/slog"
)

// TraceSink receives low-volume diagnostic messages from the traversal.
// It replaces the free-floating global debug toggles of a naive port: a
// sink is injected once per Process* call and shared by every worker
// goroutine of that call (each worker's shadow traversal gets the same
// sink value, never a derived copy), so Tracef may be called concurrently.
//
// The zero value of no sink (nil) is valid and means "don't trace";
// callers that want output pass an *SlogTraceSink or their own TraceSink.
type TraceSink interface {
	Tracef(format string, args ...any)
}

// NopTraceSink discards everything. It is the default used by
// ProcessOptions when Sink is nil.
type NopTraceSink struct{}

// Tracef implements TraceSink by doing nothing.
func (NopTraceSink) Tracef(string, ...any) {}

// SlogTraceSink adapts a *slog.Logger into a TraceSink, logging each
// formatted message at Debug level with no extra attributes.
type SlogTraceSink struct {
	Logger *slog.Logger
}

// Tracef implements TraceSink.
func (s *SlogTraceSink) Tracef(format string, args ...any) {
	if s == nil || s.Logger == nil {
		return
	}
	s.Logger.Debug(fmt.Sprintf(format, args...))
}

// Package publish implements the boundary that hands observation deltas to
// the host data-distribution system.
package publish

import (
	"github.com/rs/zerolog/log"

	"github.com/redheadmarine/huedaq/internal/signalk"
)

// Sink accepts delta messages produced by the poller. Implementations are
// called from the single polling goroutine only.
type Sink interface {
	HandleMessage(source string, delta signalk.Delta)
}

// Fanout dispatches each message to every registered sink in order.
type Fanout struct {
	sinks []Sink
}

// NewFanout creates a Fanout over the given sinks.
func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

// Add registers another sink. Not safe to call after the poller started.
func (f *Fanout) Add(s Sink) {
	f.sinks = append(f.sinks, s)
}

// HandleMessage forwards the delta to all sinks.
func (f *Fanout) HandleMessage(source string, delta signalk.Delta) {
	for _, s := range f.sinks {
		s.HandleMessage(source, delta)
	}
}

// LogSink writes every delta value to the log. Useful for dry runs and as a
// fallback when no broker is configured.
type LogSink struct{}

// HandleMessage logs each path/value pair of the delta.
func (LogSink) HandleMessage(source string, delta signalk.Delta) {
	for _, u := range delta.Updates {
		for _, v := range u.Values {
			log.Debug().
				Str("source", source).
				Str("path", v.Path).
				Interface("value", v.Value).
				Msg("Delta value")
		}
	}
}

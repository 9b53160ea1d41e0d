// Package poller owns the poll-translate-publish loop and the availability
// tracking for one device.
package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/redheadmarine/huedaq/internal/hue"
	"github.com/redheadmarine/huedaq/internal/publish"
	"github.com/redheadmarine/huedaq/internal/signalk"
	"github.com/redheadmarine/huedaq/internal/translate"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = 5 * time.Second

// alarmPath is where availability transitions are reported.
const alarmPath = "notifications.redhead.daqUnavailable"

var alarmMethod = []string{"visual", "sound"}

// Fetcher retrieves one device snapshot per call.
type Fetcher interface {
	Fetch(ctx context.Context) (*hue.DeviceState, error)
	Address() string
}

// StatusReporter is an optional host capability for surfacing connection
// status. When absent the poller keeps the status internally, readable via
// Status().
type StatusReporter interface {
	SetStatus(msg string)
	SetError(msg string)
}

// Poller runs the periodic fetch-translate-publish cycle for one device and
// edge-detects availability transitions. All mutable state lives on the
// instance, so several pollers can run independently in one process.
type Poller struct {
	fetcher  Fetcher
	sink     publish.Sink
	source   string
	interval time.Duration
	reporter StatusReporter // may be nil

	mu        sync.Mutex
	alarmSent bool
	status    string

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a poller. Source is the plugin identifier passed to the
// publisher boundary with every message.
func New(fetcher Fetcher, sink publish.Sink, source string, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		fetcher:  fetcher,
		sink:     sink,
		source:   source,
		interval: interval,
	}
}

// WithStatusReporter attaches a host status callback.
func (p *Poller) WithStatusReporter(r StatusReporter) *Poller {
	p.reporter = r
	return p
}

// Start runs one cycle immediately, then repeats every interval until Stop is
// called or ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	log.Info().
		Str("device", p.fetcher.Address()).
		Dur("interval", p.interval).
		Msg("Starting device poller")

	go p.run(runCtx)
}

// Stop halts the loop and waits for it to exit; no publish happens after Stop
// returns. Safe to call more than once, or without a prior Start.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

// Status returns the last connection outcome: "Connected to <address>" after
// a good tick, or the last error prefixed with "error: ".
func (p *Poller) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// run is the single polling goroutine. Ticks execute sequentially: a fetch
// slower than the interval delays the next tick instead of overlapping it.
func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	state, err := p.fetcher.Fetch(ctx)
	if err != nil {
		var parseErr *hue.ParseError
		if errors.As(err, &parseErr) {
			// The device answered with something we cannot decode. Not an
			// availability edge: skip this tick's publish and keep polling.
			log.Warn().Err(err).Str("device", p.fetcher.Address()).Msg("Skipping tick: malformed device state")
			return
		}
		p.onFetchError(ctx, err)
		return
	}

	p.onFetchSuccess(ctx)

	for _, batch := range translate.Translate(state) {
		p.deliver(ctx, signalk.NewDelta(batch.Values...))
	}
}

// onFetchError refreshes the status every failing tick but raises the alarm
// only on the Available -> Unavailable edge.
func (p *Poller) onFetchError(ctx context.Context, err error) {
	p.setStatus(fmt.Sprintf("error: %v", err), true)
	log.Error().Err(err).Str("device", p.fetcher.Address()).Msg("Device poll failed")

	p.mu.Lock()
	first := !p.alarmSent
	p.alarmSent = true
	p.mu.Unlock()
	if !first {
		return
	}

	p.deliver(ctx, signalk.NewDelta(signalk.Value{
		Path: alarmPath,
		Value: signalk.Notification{
			State:   "alert",
			Method:  alarmMethod,
			Message: "The DAQ module is unavailable",
		},
	}))
}

// onFetchSuccess clears the alarm on the Unavailable -> Available edge.
func (p *Poller) onFetchSuccess(ctx context.Context) {
	p.setStatus(fmt.Sprintf("Connected to %s", p.fetcher.Address()), false)

	p.mu.Lock()
	recovered := p.alarmSent
	p.alarmSent = false
	p.mu.Unlock()
	if !recovered {
		return
	}

	log.Info().Str("device", p.fetcher.Address()).Msg("Device available again")

	p.deliver(ctx, signalk.NewDelta(signalk.Value{
		Path: alarmPath,
		Value: signalk.Notification{
			State:   "normal",
			Method:  alarmMethod,
			Message: "The DAQ module is now available",
		},
	}))
}

// deliver hands one delta to the sink unless the poller has been stopped.
func (p *Poller) deliver(ctx context.Context, delta signalk.Delta) {
	select {
	case <-ctx.Done():
	default:
		p.sink.HandleMessage(p.source, delta)
	}
}

func (p *Poller) setStatus(msg string, isErr bool) {
	p.mu.Lock()
	p.status = msg
	p.mu.Unlock()

	if p.reporter == nil {
		return
	}
	if isErr {
		p.reporter.SetError(msg)
	} else {
		p.reporter.SetStatus(msg)
	}
}

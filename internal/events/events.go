// Package events records activity events emitted by the routing engine.
//
// Events are emitted fire-and-forget: the recorder buffers them on a
// channel and a background worker writes them to the configured sink, so a
// slow sink never blocks message processing.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event is one recorded activity event.
type Event struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	UserID    string            `json:"user_id"`
	SessionID string            `json:"session_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Params    map[string]string `json:"params,omitempty"`
}

// Sink persists events.
type Sink interface {
	Append(ev Event) error
	Recent(limit int) ([]Event, error)
	Close() error
}

// DefaultBuffer is the emission channel capacity. Events beyond it are
// dropped rather than blocking the caller.
const DefaultBuffer = 256

// Opts holds recorder configuration.
type Opts struct {
	Sink   Sink
	Buffer int
	Clock  func() time.Time
}

// Option configures the recorder.
type Option func(*Opts)

// WithSink sets the persistence sink.
func WithSink(s Sink) Option {
	return func(o *Opts) { o.Sink = s }
}

// WithBuffer overrides the emission buffer size.
func WithBuffer(n int) Option {
	return func(o *Opts) { o.Buffer = n }
}

// WithClock overrides the time source. Used by tests.
func WithClock(clock func() time.Time) Option {
	return func(o *Opts) { o.Clock = clock }
}

// Recorder buffers events and writes them to a sink in the background.
type Recorder struct {
	sink  Sink
	ch    chan Event
	clock func() time.Time
	done  chan struct{}
}

// NewRecorder creates a recorder. With no sink configured it records to an
// in-memory ring.
func NewRecorder(opts ...Option) *Recorder {
	cfg := Opts{Buffer: DefaultBuffer, Clock: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Sink == nil {
		cfg.Sink = NewMemorySink(DefaultMemoryCapacity)
	}
	return &Recorder{
		sink:  cfg.Sink,
		ch:    make(chan Event, cfg.Buffer),
		clock: cfg.Clock,
		done:  make(chan struct{}),
	}
}

// Emit queues an event for persistence. Never blocks; when the buffer is
// full the event is dropped and counted in the log.
func (r *Recorder) Emit(eventType, userID, sessionID string, params map[string]string) {
	ev := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		SessionID: sessionID,
		Timestamp: r.clock(),
		Params:    params,
	}
	select {
	case r.ch <- ev:
	default:
		slog.Error("Event buffer full, dropping event", "type", eventType, "userID", userID)
	}
}

// Run drains the emission buffer into the sink until the context is
// canceled, then flushes whatever is still queued.
func (r *Recorder) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case ev := <-r.ch:
					r.write(ev)
				default:
					return
				}
			}
		case ev := <-r.ch:
			r.write(ev)
		}
	}
}

// Wait blocks until Run has returned.
func (r *Recorder) Wait() {
	<-r.done
}

// Recent returns the most recent events from the sink.
func (r *Recorder) Recent(limit int) ([]Event, error) {
	return r.sink.Recent(limit)
}

func (r *Recorder) write(ev Event) {
	if err := r.sink.Append(ev); err != nil {
		slog.Error("Failed to persist event", "error", err, "type", ev.Type)
	}
}

// Package dispatcher routes frontend commands to their handlers. A
// handler runs inline by default; high-volume commands can opt into a
// per-command queue so the caller never waits on them.
package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Event is one command from the map or CLI frontend.
type Event struct {
	Command   string
	Payload   any
	Timestamp time.Time
}

// HandlerFunc consumes an event and returns a result for the caller.
type HandlerFunc func(Event) (any, error)

// Logger is the logging surface the dispatcher needs; the session
// logger is adapted onto it.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option tunes how a handler is registered.
type Option func(*registration)

type registration struct {
	queueSize int
	blocking  bool
	logged    bool
}

// Buffered moves the handler onto its own goroutine behind a queue of
// the given size. Dispatch answers "queued" immediately; when the
// queue is full the event is dropped with an error unless Blocking is
// also set.
func Buffered(size int) Option {
	return func(r *registration) {
		r.queueSize = size
	}
}

// Blocking makes a buffered handler wait for queue space instead of
// dropping.
func Blocking() Option {
	return func(r *registration) {
		r.blocking = true
	}
}

// Logged wraps the handler with per-event debug and failure logging.
func Logged() Option {
	return func(r *registration) {
		r.logged = true
	}
}

// Dispatcher routes events to registered handlers and reports queue
// depth and throughput through the global OTel meter. Without a meter
// provider installed the instruments are no-ops.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger

	queueSize metric.Int64ObservableGauge
	processed metric.Int64Counter
	dropped   metric.Int64Counter

	mu     sync.RWMutex
	queues map[string]chan Event
}

// New creates a Dispatcher logging through the given logger.
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		queues:   make(map[string]chan Event),
		logger:   logger,
	}
	if err := d.initMetrics(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dispatcher) initMetrics() error {
	m := meter()

	var err error
	d.queueSize, err = m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Queued events per buffered command"),
	)
	if err != nil {
		return fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			for cmd, q := range d.queues {
				o.ObserveInt64(d.queueSize, int64(len(q)),
					metric.WithAttributes(attribute.String("command", cmd)))
			}
			return nil
		},
		d.queueSize,
	)
	if err != nil {
		return fmt.Errorf("registering queue callback: %w", err)
	}

	d.processed, err = m.Int64Counter(
		"dispatcher.events.processed",
		metric.WithDescription("Events drained from command queues"),
	)
	if err != nil {
		return fmt.Errorf("creating processed counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"dispatcher.events.dropped",
		metric.WithDescription("Events rejected because a queue was full"),
	)
	if err != nil {
		return fmt.Errorf("creating dropped counter: %w", err)
	}

	return nil
}

// Register adds a handler for the command. Options compose: a handler
// can be both buffered and logged.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	var reg registration
	for _, opt := range opts {
		opt(&reg)
	}

	if reg.queueSize > 0 {
		h = d.queued(command, reg.queueSize, reg.blocking, h)
	}
	if reg.logged {
		h = d.logged(command, h)
	}

	d.handlers[command] = h
}

// Dispatch routes an event to its handler. For buffered commands the
// returned value is "queued" and the handler's own result is dropped.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	h, ok := d.handlers[e.Command]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", e.Command)
	}
	return h(e)
}

// HasHandler reports whether the command is registered.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[command]
	return ok
}

func (d *Dispatcher) queued(command string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	queue := make(chan Event, size)

	d.mu.Lock()
	d.queues[command] = queue
	d.mu.Unlock()

	cmdAttr := metric.WithAttributes(attribute.String("command", command))

	go func() {
		for e := range queue {
			// nobody is waiting on an async result, so a failure here
			// would vanish without this log line
			if _, err := h(e); err != nil {
				d.logger.Error("async event failed", "command", command, "error", err)
			}
			d.processed.Add(context.Background(), 1, cmdAttr)
		}
	}()

	if blocking {
		return func(e Event) (any, error) {
			queue <- e
			return "queued", nil
		}
	}

	return func(e Event) (any, error) {
		select {
		case queue <- e:
			return "queued", nil
		default:
			d.dropped.Add(context.Background(), 1, cmdAttr)
			return nil, fmt.Errorf("queue full: %s", command)
		}
	}
}

func (d *Dispatcher) logged(command string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()

		result, err := h(e)
		if err != nil {
			d.logger.Error("event failed", "command", command, "duration", time.Since(start), "error", err)
			return result, err
		}
		d.logger.Debug("event handled", "command", command, "duration", time.Since(start))
		return result, nil
	}
}

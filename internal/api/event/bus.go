package event

import (
	"sync"

	"github.com/rs/zerolog"
)

type Handler func(Event)

// Bus fans events out to its handlers from a single consumer goroutine.
// The single consumer is what keeps delivery in publish order, so a later
// status change can never be handled before an earlier one. Publishers only
// pay the cost of a buffered channel send.
type Bus struct {
	handlers []Handler
	events   chan Event
	done     chan struct{}
	once     sync.Once
	logger   zerolog.Logger
}

func NewBus(buffer int, logger zerolog.Logger) *Bus {
	return &Bus{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Subscribe registers a handler. Must be called before Run.
func (slf *Bus) Subscribe(h Handler) {
	slf.handlers = append(slf.handlers, h)
}

// Run consumes events until Close. Intended to run on its own goroutine.
func (slf *Bus) Run() {
	defer close(slf.done)
	for e := range slf.events {
		for _, h := range slf.handlers {
			h(e)
		}
	}
}

// Publish enqueues an event. It never blocks the caller beyond the buffered
// send and drops the event with a log entry if the bus is saturated.
func (slf *Bus) Publish(e Event) {
	select {
	case slf.events <- e:
	default:
		slf.logger.Warn().
			Str("event", e.Name()).
			Uint("jobId", e.JobID()).
			Msg("Event bus full, dropping event")
	}
}

// Close stops the consumer after draining queued events.
func (slf *Bus) Close() {
	slf.once.Do(func() {
		close(slf.events)
	})
	<-slf.done
}

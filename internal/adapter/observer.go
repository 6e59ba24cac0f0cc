package adapter

import (
	"log"
	"time"
)

// EventKind marks which pipeline point produced an Event.
type EventKind uint8

const (
	EventRequestBuilt EventKind = iota + 1
	EventResponseReceived
	EventErrorClassified
)

func (k EventKind) String() string {
	switch k {
	case EventRequestBuilt:
		return "request-built"
	case EventResponseReceived:
		return "response-received"
	case EventErrorClassified:
		return "error-classified"
	default:
		return "unknown"
	}
}

// Event describes one step of an adapter call. The core emits events instead
// of logging so it stays free of I/O side effects.
type Event struct {
	Kind       EventKind
	Exchange   Exchange
	Op         string
	MarketID   string
	Verb       string
	Path       string
	StatusCode int
	Err        error
	At         time.Time
}

// Observer receives pipeline events. Implementations must not block: they run
// inline on the calling goroutine.
type Observer interface {
	Observe(Event)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) Observe(Event) {}

// LogObserver writes events to the standard logger.
type LogObserver struct{}

func (LogObserver) Observe(ev Event) {
	switch ev.Kind {
	case EventRequestBuilt:
		log.Printf("%s: %s %s %s", ev.Exchange, ev.Op, ev.Verb, ev.Path)
	case EventResponseReceived:
		log.Printf("%s: %s returned %d", ev.Exchange, ev.Op, ev.StatusCode)
	case EventErrorClassified:
		log.Printf("%s: %s failed: %v", ev.Exchange, ev.Op, ev.Err)
	}
}

// MultiObserver fans an event out to every registered observer, in order.
type MultiObserver []Observer

func (m MultiObserver) Observe(ev Event) {
	for _, o := range m {
		o.Observe(ev)
	}
}

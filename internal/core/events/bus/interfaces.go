package bus

import "time"

// EventBus is an in-process pub/sub bus for simulation events.
//
// Delivery is synchronous, in the publisher's goroutine, and in subscription
// order, so a tick that publishes events observes every handler's effect
// before it continues. Handler errors are joined and returned from Publish.
type EventBus interface {
	// Publish delivers the event to every active subscriber of event.Type().
	Publish(event Event) error
	// PublishBatch publishes events in order and joins the errors.
	PublishBatch(events ...Event) error
	// Subscribe registers a handler for eventType.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Nil is ignored.
	Unsubscribe(Subscription) error

	// AddObserver registers an observer to receive delivery callbacks.
	AddObserver(obs EventBusObserver)
	// RemoveObserver unregisters a previously added observer.
	RemoveObserver(obs EventBusObserver)
	// GetMetrics returns accumulated counters. Counters only move while at
	// least one observer is registered.
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is invoked per delivered event.
type EventHandler func(event Event) error

// Subscription represents a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is notified about deliveries.
type EventBusObserver interface {
	OnDelivered(eventType string, handlers int, err error)
}

// EventBusMetrics represents a minimal set of counters.
type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
}

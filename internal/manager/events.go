package manager

// Event names published by the manager.
const (
	EventModelLoaded = "model_loaded"
	EventCacheHit    = "cache_hit"
	EventScoreFailed = "score_failed"
)

// Event represents a manager lifecycle event.
// Minimal and stable: name + artifact path and optional fields via key/values.
type Event struct {
	Name     string
	Artifact string
	Fields   map[string]any
}

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

package websocket

// EventPublisher receives dashboard events after each accepted mutation
type EventPublisher interface {
	Publish(event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish broadcasts event to every subscriber
func (h *Hub) Publish(event Event) {
	h.Broadcast(event)
}

// NoOpPublisher discards events
type NoOpPublisher struct{}

// Publish does nothing
func (NoOpPublisher) Publish(Event) {}

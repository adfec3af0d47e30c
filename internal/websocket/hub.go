package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrSubscriberGone is returned when a frame cannot be queued for a subscriber
var ErrSubscriberGone = errors.New("subscriber is gone")

// Subscriber is a connected dashboard receiving encoded event frames
type Subscriber interface {
	ID() string
	Send(frame []byte) error
	Close() error
}

// Hub fans dashboard events out to subscribers. It keeps the last
// metrics.updated frame so a dashboard that connects late starts from the
// current snapshot instead of waiting for the next mutation.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber
	snapshot    []byte
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]Subscriber),
	}
}

// Subscribe adds s and replays the latest metrics snapshot to it
func (h *Hub) Subscribe(s Subscriber) {
	h.mu.Lock()
	h.subscribers[s.ID()] = s
	snapshot := h.snapshot
	total := len(h.subscribers)
	h.mu.Unlock()

	log.Debug().Str("subscriber_id", s.ID()).Int("subscribers", total).Msg("Dashboard subscribed")

	if snapshot != nil {
		if err := s.Send(snapshot); err != nil {
			h.evict(s, err)
		}
	}
}

// Unsubscribe removes s; unknown subscribers are ignored
func (h *Hub) Unsubscribe(s Subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[s.ID()]
	delete(h.subscribers, s.ID())
	h.mu.Unlock()

	if ok {
		log.Debug().Str("subscriber_id", s.ID()).Msg("Dashboard unsubscribed")
	}
}

// Broadcast encodes event once and queues it for every subscriber.
// Subscribers whose queue is full are evicted.
func (h *Hub) Broadcast(event Event) {
	frame, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to encode event")
		return
	}

	h.mu.Lock()
	if event.Entity == EntityTypeMetrics {
		h.snapshot = frame
	}
	targets := make([]Subscriber, 0, len(h.subscribers))
	for _, s := range h.subscribers {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		if err := s.Send(frame); err != nil {
			h.evict(s, err)
		}
	}

	log.Debug().Str("event_type", event.Type).Int("subscribers", len(targets)).Msg("Broadcast event")
}

func (h *Hub) evict(s Subscriber, cause error) {
	log.Warn().Err(cause).Str("subscriber_id", s.ID()).Msg("Evicting dashboard subscriber")
	h.Unsubscribe(s)
	s.Close()
}

// Snapshot returns the latest encoded metrics.updated frame, nil before the first one
func (h *Hub) Snapshot() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot
}

// SubscriberCount returns the number of connected dashboards
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeUpdated  EventType = "updated"
	EventTypeDeleted  EventType = "deleted"
	EventTypeReplaced EventType = "replaced"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeMetrics     EntityType = "metrics"
	EntityTypeCost        EntityType = "cost"
	EntityTypeAssumptions EntityType = "assumptions"
	EntityTypeSeries      EntityType = "series"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "cost.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "cost"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// MetricsUpdated creates a metrics.updated event carrying a fresh snapshot
func MetricsUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeMetrics, payload)
}

// CostCreated creates a cost.created event
func CostCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCost, payload)
}

// CostDeleted creates a cost.deleted event
func CostDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeCost, payload)
}

// AssumptionsUpdated creates an assumptions.updated event
func AssumptionsUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeAssumptions, payload)
}

// SeriesReplaced creates a series.replaced event
func SeriesReplaced(payload interface{}) Event {
	return NewEvent(EventTypeReplaced, EntityTypeSeries, payload)
}

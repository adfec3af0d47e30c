package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"name":   "Water",
		"amount": "120.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeCost, payload)
	after := time.Now()

	assert.Equal(t, "cost.created", evt.Type)
	assert.Equal(t, EntityTypeCost, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := MetricsUpdated(map[string]interface{}{"currentValue": "280000.00"})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "metrics.updated", decoded["type"])
	assert.Equal(t, "metrics", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{"index": float64(2)}

	tests := []struct {
		name     string
		evt      Event
		wantType string
		entity   EntityType
	}{
		{"MetricsUpdated", MetricsUpdated(payload), "metrics.updated", EntityTypeMetrics},
		{"CostCreated", CostCreated(payload), "cost.created", EntityTypeCost},
		{"CostDeleted", CostDeleted(payload), "cost.deleted", EntityTypeCost},
		{"AssumptionsUpdated", AssumptionsUpdated(payload), "assumptions.updated", EntityTypeAssumptions},
		{"SeriesReplaced", SeriesReplaced(payload), "series.replaced", EntityTypeSeries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.evt.Type)
			assert.Equal(t, tt.entity, tt.evt.Entity)
			assert.Equal(t, payload, tt.evt.Payload)
		})
	}
}

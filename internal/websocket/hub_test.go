package websocket

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSubscriber captures frames; when full is set Send fails like a slow peer
type recordingSubscriber struct {
	id     string
	full   bool
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newRecordingSubscriber(id string) *recordingSubscriber {
	return &recordingSubscriber{id: id}
}

func (r *recordingSubscriber) ID() string { return r.id }

func (r *recordingSubscriber) Send(frame []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.full {
		return ErrSubscriberGone
	}
	r.frames = append(r.frames, frame)
	return nil
}

func (r *recordingSubscriber) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingSubscriber) Frames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.frames))
	for i, f := range r.frames {
		out[i] = string(f)
	}
	return out
}

func (r *recordingSubscriber) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func TestHub_SubscribeUnsubscribe(t *testing.T) {
	hub := NewHub()
	a := newRecordingSubscriber("a")
	b := newRecordingSubscriber("b")

	hub.Subscribe(a)
	hub.Subscribe(b)
	assert.Equal(t, 2, hub.SubscriberCount())

	hub.Unsubscribe(a)
	assert.Equal(t, 1, hub.SubscriberCount())

	hub.Unsubscribe(b)
	hub.Unsubscribe(b)
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestHub_BroadcastReachesEverySubscriber(t *testing.T) {
	hub := NewHub()
	subs := make([]*recordingSubscriber, 5)
	for i := range subs {
		subs[i] = newRecordingSubscriber(fmt.Sprintf("dash-%d", i))
		hub.Subscribe(subs[i])
	}

	hub.Broadcast(CostCreated(map[string]interface{}{"name": "Water"}))

	for _, s := range subs {
		frames := s.Frames()
		require.Len(t, frames, 1)
		assert.Contains(t, frames[0], `"type":"cost.created"`)
	}
}

func TestHub_ReplaysLatestSnapshotOnSubscribe(t *testing.T) {
	hub := NewHub()
	assert.Nil(t, hub.Snapshot())

	hub.Broadcast(MetricsUpdated(map[string]string{"currentValue": "270000.00"}))
	hub.Broadcast(MetricsUpdated(map[string]string{"currentValue": "280000.00"}))
	// Non-metrics events do not replace the snapshot
	hub.Broadcast(CostDeleted(map[string]int{"index": 0}))

	late := newRecordingSubscriber("late")
	hub.Subscribe(late)

	frames := late.Frames()
	require.Len(t, frames, 1)
	assert.Contains(t, frames[0], `"type":"metrics.updated"`)
	assert.Contains(t, frames[0], "280000.00")
	assert.Equal(t, frames[0], string(hub.Snapshot()))
}

func TestHub_NoReplayBeforeFirstSnapshot(t *testing.T) {
	hub := NewHub()
	s := newRecordingSubscriber("early")
	hub.Subscribe(s)
	assert.Empty(t, s.Frames())
}

func TestHub_EvictsSlowSubscriber(t *testing.T) {
	hub := NewHub()
	fast := newRecordingSubscriber("fast")
	slow := newRecordingSubscriber("slow")
	slow.full = true
	hub.Subscribe(fast)
	hub.Subscribe(slow)

	hub.Broadcast(AssumptionsUpdated(map[string]string{"goalAmount": "400000.00"}))

	assert.Len(t, fast.Frames(), 1)
	assert.True(t, slow.IsClosed())
	assert.Equal(t, 1, hub.SubscriberCount())
}

func TestHub_BroadcastWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	require.NotPanics(t, func() {
		hub.Broadcast(SeriesReplaced(nil))
	})
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()
	const n = 50
	subs := make([]*recordingSubscriber, n)
	for i := range subs {
		subs[i] = newRecordingSubscriber(fmt.Sprintf("dash-%d", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Subscribe(subs[idx])
		}(i)
	}
	wg.Wait()
	assert.Equal(t, n, hub.SubscriberCount())

	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(MetricsUpdated(map[string]int{"n": idx}))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unsubscribe(subs[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.SubscriberCount())
	assert.NotNil(t, hub.Snapshot())
}

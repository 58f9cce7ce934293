package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"kura/contexts/student-governance/election-engine/adapters/memory"
	"kura/contexts/student-governance/election-engine/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topics []string
	events []ports.EventEnvelope
	failOn string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.failOn != "" && event.EventID == p.failOn {
		return errors.New("bus unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func appendEvents(t *testing.T, store *memory.Store, ids ...string) {
	t.Helper()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range ids {
		require.NoError(t, store.AppendOutbox(context.Background(), ports.EventEnvelope{
			EventID:    id,
			EventType:  "election.phase_changed",
			OccurredAt: base.Add(time.Duration(i) * time.Second),
			Data:       []byte(`{}`),
		}))
	}
}

func TestOutboxRelayPublishesInOrderWithPrefix(t *testing.T) {
	store := memory.NewStore(nil)
	appendEvents(t, store, "evt-1", "evt-2")
	publisher := &recordingPublisher{}
	var counted []string

	relay := OutboxRelay{
		Outbox:      store,
		Publisher:   publisher,
		Clock:       store,
		TopicPrefix: "kura",
		OnPublished: func(eventType string) { counted = append(counted, eventType) },
	}
	published, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, published)
	assert.Equal(t, []string{"kura.election.phase_changed", "kura.election.phase_changed"}, publisher.topics)
	assert.Equal(t, "evt-1", publisher.events[0].EventID)
	assert.Equal(t, "evt-2", publisher.events[1].EventID)
	assert.Len(t, counted, 2)

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	published, err = relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, published)
}

func TestOutboxRelayStopsAtFirstFailure(t *testing.T) {
	store := memory.NewStore(nil)
	appendEvents(t, store, "evt-1", "evt-2", "evt-3")
	publisher := &recordingPublisher{failOn: "evt-2"}

	relay := OutboxRelay{Outbox: store, Publisher: publisher, BatchSize: 10}
	published, err := relay.RunOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, published)

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "evt-2", pending[0].OutboxID)
	assert.Equal(t, "evt-3", pending[1].OutboxID)
}

func TestOutboxRelayHonoursBatchSize(t *testing.T) {
	store := memory.NewStore(nil)
	appendEvents(t, store, "evt-1", "evt-2", "evt-3")
	publisher := &recordingPublisher{}

	relay := OutboxRelay{Outbox: store, Publisher: publisher, BatchSize: 2}
	published, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, published)
	assert.Equal(t, []string{"election.phase_changed", "election.phase_changed"}, publisher.topics)
}

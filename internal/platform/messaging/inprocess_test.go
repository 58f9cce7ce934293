package messaging

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"kura/contexts/student-governance/election-engine/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessDeliversToTopicSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewInProcess(slog.New(slog.NewTextHandler(io.Discard, nil)))
	received := make(chan ports.EventEnvelope, 1)
	bus.Subscribe(ctx, "kura.election.reset", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	})

	require.NoError(t, bus.Publish(ctx, "kura.election.phase_changed", ports.EventEnvelope{EventID: "ignored"}))
	require.NoError(t, bus.Publish(ctx, "kura.election.reset", ports.EventEnvelope{
		EventID:   "evt-1",
		EventType: "election.reset",
	}))

	select {
	case event := <-received:
		assert.Equal(t, "evt-1", event.EventID)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestInProcessPublishWithoutSubscribers(t *testing.T) {
	bus := NewInProcess(nil)
	assert.NoError(t, bus.Publish(context.Background(), "kura.election.reset", ports.EventEnvelope{EventID: "evt-1"}))
	assert.NoError(t, bus.Close())
}
